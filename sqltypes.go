package sqldialect

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SQLType is an abstract column type code. Dialects map codes to DDL and cast type names.
type SQLType int

const (
	BOOLEAN SQLType = iota + 1
	BIT
	TINYINT
	SMALLINT
	INTEGER
	BIGINT
	FLOAT
	REAL
	DOUBLE
	NUMERIC
	DECIMAL
	CHAR
	VARCHAR
	LONGVARCHAR
	LONG32VARCHAR
	NCHAR
	NVARCHAR
	LONGNVARCHAR
	LONG32NVARCHAR
	CLOB
	NCLOB
	BINARY
	VARBINARY
	LONGVARBINARY
	LONG32VARBINARY
	BLOB
	DATE
	TIME
	TIME_WITH_TIMEZONE
	TIME_UTC
	TIMESTAMP
	TIMESTAMP_WITH_TIMEZONE
	TIMESTAMP_UTC
	INTERVAL_SECOND
	DURATION
	UUID
	JSON
	SQLXML
	INET
	GEOMETRY
	ARRAY
	STRUCT
	ENUM
)

var sqlTypeNames = map[SQLType]string{
	BOOLEAN:                 "BOOLEAN",
	BIT:                     "BIT",
	TINYINT:                 "TINYINT",
	SMALLINT:                "SMALLINT",
	INTEGER:                 "INTEGER",
	BIGINT:                  "BIGINT",
	FLOAT:                   "FLOAT",
	REAL:                    "REAL",
	DOUBLE:                  "DOUBLE",
	NUMERIC:                 "NUMERIC",
	DECIMAL:                 "DECIMAL",
	CHAR:                    "CHAR",
	VARCHAR:                 "VARCHAR",
	LONGVARCHAR:             "LONGVARCHAR",
	LONG32VARCHAR:           "LONG32VARCHAR",
	NCHAR:                   "NCHAR",
	NVARCHAR:                "NVARCHAR",
	LONGNVARCHAR:            "LONGNVARCHAR",
	LONG32NVARCHAR:          "LONG32NVARCHAR",
	CLOB:                    "CLOB",
	NCLOB:                   "NCLOB",
	BINARY:                  "BINARY",
	VARBINARY:               "VARBINARY",
	LONGVARBINARY:           "LONGVARBINARY",
	LONG32VARBINARY:         "LONG32VARBINARY",
	BLOB:                    "BLOB",
	DATE:                    "DATE",
	TIME:                    "TIME",
	TIME_WITH_TIMEZONE:      "TIME_WITH_TIMEZONE",
	TIME_UTC:                "TIME_UTC",
	TIMESTAMP:               "TIMESTAMP",
	TIMESTAMP_WITH_TIMEZONE: "TIMESTAMP_WITH_TIMEZONE",
	TIMESTAMP_UTC:           "TIMESTAMP_UTC",
	INTERVAL_SECOND:         "INTERVAL_SECOND",
	DURATION:                "DURATION",
	UUID:                    "UUID",
	JSON:                    "JSON",
	SQLXML:                  "SQLXML",
	INET:                    "INET",
	GEOMETRY:                "GEOMETRY",
	ARRAY:                   "ARRAY",
	STRUCT:                  "STRUCT",
	ENUM:                    "ENUM",
}

func (code SQLType) String() string {
	if name, ok := sqlTypeNames[code]; ok {
		return name
	}
	return "SQLType(" + strconv.Itoa(int(code)) + ")"
}

// ParseSQLType looks a type code up by name, ignoring case.
func ParseSQLType(name string) (SQLType, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for code, codeName := range sqlTypeNames {
		if codeName == upper {
			return code, nil
		}
	}
	return 0, fmt.Errorf("sqldialect: unknown SQL type '%s'", name)
}

func (code SQLType) IsCharacter() bool {
	switch code {
	case CHAR, VARCHAR, LONGVARCHAR, LONG32VARCHAR, NCHAR, NVARCHAR, LONGNVARCHAR, LONG32NVARCHAR, CLOB, NCLOB:
		return true
	}
	return false
}

func (code SQLType) IsBinary() bool {
	switch code {
	case BINARY, VARBINARY, LONGVARBINARY, LONG32VARBINARY, BLOB:
		return true
	}
	return false
}

func (code SQLType) IsInteger() bool {
	switch code {
	case TINYINT, SMALLINT, INTEGER, BIGINT:
		return true
	}
	return false
}

func (code SQLType) IsTemporal() bool {
	switch code {
	case DATE, TIME, TIME_WITH_TIMEZONE, TIME_UTC, TIMESTAMP, TIMESTAMP_WITH_TIMEZONE, TIMESTAMP_UTC:
		return true
	}
	return false
}

// DefaultColumnType is the DDL type a dialect uses when it has no override for code.
// An empty string means the type has no portable spelling.
func DefaultColumnType(code SQLType) string {
	switch code {
	case BOOLEAN:
		return "boolean"
	case BIT:
		return "bit"
	case TINYINT:
		return "tinyint"
	case SMALLINT:
		return "smallint"
	case INTEGER:
		return "integer"
	case BIGINT:
		return "bigint"
	case FLOAT:
		return "float($p)"
	case REAL:
		return "real"
	case DOUBLE:
		return "double precision"
	case NUMERIC:
		return "numeric($p,$s)"
	case DECIMAL:
		return "decimal($p,$s)"
	case DATE:
		return "date"
	case TIME:
		return "time($p)"
	case TIME_WITH_TIMEZONE:
		return "time($p) with time zone"
	case TIME_UTC:
		return DefaultColumnType(TIME)
	case TIMESTAMP:
		return "timestamp($p)"
	case TIMESTAMP_WITH_TIMEZONE:
		return "timestamp($p) with time zone"
	case TIMESTAMP_UTC:
		return DefaultColumnType(TIMESTAMP)
	case CHAR:
		return "char($l)"
	case VARCHAR:
		return "varchar($l)"
	case LONGVARCHAR, LONG32VARCHAR, CLOB:
		return "clob"
	case NCHAR:
		return "nchar($l)"
	case NVARCHAR:
		return "nvarchar($l)"
	case LONGNVARCHAR, LONG32NVARCHAR, NCLOB:
		return "nclob"
	case BINARY:
		return "binary($l)"
	case VARBINARY:
		return "varbinary($l)"
	case LONGVARBINARY, LONG32VARBINARY, BLOB:
		return "blob"
	case INTERVAL_SECOND, DURATION:
		return "numeric($p,$s)"
	case UUID:
		return "char(36)"
	case JSON:
		return "json"
	case SQLXML:
		return "xml"
	}
	return ""
}

// DefaultCastType is the type name used in cast(x as ...) when a dialect has no override.
func DefaultCastType(code SQLType) string {
	switch code {
	case CHAR, NCHAR, VARCHAR, NVARCHAR, LONGVARCHAR, LONGNVARCHAR, LONG32VARCHAR, LONG32NVARCHAR:
		return "varchar"
	case BINARY, VARBINARY, LONGVARBINARY, LONG32VARBINARY:
		return "varbinary"
	}
	return DefaultColumnType(code)
}

// Size carries the length, precision and scale substituted into a DDL type template.
type Size struct {
	Length    int
	Precision int
	Scale     int
}

// ExpandType fills the $l, $p and $s placeholders of template.
func ExpandType(template string, size Size) string {
	if !strings.Contains(template, "$") {
		return template
	}
	replacer := strings.NewReplacer(
		"$l", strconv.Itoa(size.Length),
		"$p", strconv.Itoa(size.Precision),
		"$s", strconv.Itoa(size.Scale),
	)
	return replacer.Replace(template)
}

// Sizing holds the per-dialect defaults used when a column does not declare a size.
type Sizing struct {
	DefaultLength             int
	DefaultDecimalPrecision   int
	DefaultTimestampPrecision int
	FloatPrecision            int
	DoublePrecision           int
	MaxVarcharLength          int
	// MaxNVarcharLength and MaxVarbinaryLength fall back to MaxVarcharLength when zero.
	MaxNVarcharLength  int
	MaxVarbinaryLength int
	// MaxIdentifierLength is zero when the database imposes no limit.
	MaxIdentifierLength int
}

// LongLength is the length of the unbounded character and binary types.
const LongLength = math.MaxInt32

var DefaultSizing = Sizing{
	DefaultLength:             255,
	DefaultDecimalPrecision:   38,
	DefaultTimestampPrecision: 6,
	FloatPrecision:            24,
	DoublePrecision:           53,
	MaxVarcharLength:          LongLength,
}

func (sizing Sizing) MaxNVarchar() int {
	if sizing.MaxNVarcharLength == 0 {
		return sizing.MaxVarcharLength
	}
	return sizing.MaxNVarcharLength
}

func (sizing Sizing) MaxVarbinary() int {
	if sizing.MaxVarbinaryLength == 0 {
		return sizing.MaxVarcharLength
	}
	return sizing.MaxVarbinaryLength
}

// SizeFor fills the zero fields of size with the defaults that apply to code.
func (sizing Sizing) SizeFor(code SQLType, size Size) Size {
	if size.Length == 0 {
		size.Length = sizing.DefaultLength
	}
	if size.Precision == 0 {
		switch code {
		case NUMERIC, DECIMAL, INTERVAL_SECOND, DURATION:
			size.Precision = sizing.DefaultDecimalPrecision
		case TIME, TIME_WITH_TIMEZONE, TIME_UTC, TIMESTAMP, TIMESTAMP_WITH_TIMEZONE, TIMESTAMP_UTC:
			size.Precision = sizing.DefaultTimestampPrecision
		case FLOAT, REAL:
			size.Precision = sizing.FloatPrecision
		case DOUBLE:
			size.Precision = sizing.DoublePrecision
		}
	}
	if size.Scale == 0 {
		switch code {
		case NUMERIC, DECIMAL:
			size.Scale = 2
		case INTERVAL_SECOND, DURATION:
			size.Scale = 9
		}
	}
	return size
}
