package informixdialect

import (
	"strconv"
	"strings"
	"time"

	"github.com/evantbyrne/sqldialect"
)

// MinimumVersion is used when no version is configured.
var MinimumVersion = sqldialect.MakeVersion(7)

type InformixDialect struct {
	sqldialect.Base
	Version sqldialect.Version
}

func init() {
	sqldialect.Register("informix", func(options sqldialect.Options) (sqldialect.Dialect, error) {
		return InformixDialect{Version: options.Version}, nil
	}, "ids")
}

func (dialect InformixDialect) Name() string {
	return "informix"
}

func (dialect InformixDialect) DatabaseVersion() sqldialect.Version {
	if dialect.Version.IsZero() {
		return MinimumVersion
	}
	return dialect.Version
}

func (dialect InformixDialect) ColumnType(code sqldialect.SQLType) string {
	switch code {
	case sqldialect.TINYINT:
		return "smallint"
	case sqldialect.BIGINT:
		return "int8"
	case sqldialect.TIME:
		return "datetime hour to second"
	case sqldialect.TIMESTAMP, sqldialect.TIMESTAMP_WITH_TIMEZONE:
		return "datetime year to fraction($p)"
	case sqldialect.BINARY, sqldialect.VARBINARY, sqldialect.LONG32VARBINARY:
		// byte takes no length
		return "byte"
	case sqldialect.LONG32VARCHAR, sqldialect.LONG32NVARCHAR:
		return "text"
	case sqldialect.VARCHAR, sqldialect.NVARCHAR:
		return "lvarchar($l)"
	case sqldialect.UUID:
		return "char(36)"
	}
	return dialect.Base.ColumnType(code)
}

// VarcharDDL picks the narrowest character type that holds length characters.
func (dialect InformixDialect) VarcharDDL(length int) string {
	switch {
	case length <= 255:
		return "varchar(" + strconv.Itoa(length) + ")"
	case length <= dialect.Sizing().MaxVarcharLength:
		return "lvarchar(" + strconv.Itoa(length) + ")"
	}
	return dialect.ColumnType(sqldialect.LONG32VARCHAR)
}

// FloatDDL is smallfloat up to eight digits of precision.
func (dialect InformixDialect) FloatDDL(precision int) string {
	if precision <= dialect.Sizing().FloatPrecision {
		return "smallfloat"
	}
	return "float"
}

func (dialect InformixDialect) Sizing() sqldialect.Sizing {
	sizing := sqldialect.DefaultSizing
	sizing.MaxVarcharLength = 32739
	// there is no varbinary, only byte
	sizing.MaxVarbinaryLength = -1
	sizing.DefaultDecimalPrecision = 32
	sizing.DefaultTimestampPrecision = 5
	sizing.FloatPrecision = 8
	sizing.DoublePrecision = 16
	return sizing
}

// ExtractPattern emulates extract with the named date functions and to_char.
func (dialect InformixDialect) ExtractPattern(unit sqldialect.TemporalUnit) string {
	switch unit {
	case sqldialect.SECOND:
		return "to_number(to_char(?2,'%S'))"
	case sqldialect.MINUTE:
		return "to_number(to_char(?2,'%M'))"
	case sqldialect.HOUR:
		return "to_number(to_char(?2,'%H'))"
	case sqldialect.DAY_OF_WEEK:
		return "(weekday(?2)+1)"
	case sqldialect.DAY_OF_MONTH:
		return "day(?2)"
	}
	return "?1(?2)"
}

func (dialect InformixDialect) DateTimeLiteral(t time.Time, temporalType sqldialect.TemporalType, withOffset bool) (string, error) {
	return sqldialect.JDBCEscapeLiteral(t, temporalType, withOffset, false)
}

var datetimeFormatReplacer = strings.NewReplacer(
	"%", "%%",
	"yyyy", "%Y", "yyy", "%Y", "yy", "%y", "y", "%Y",
	"MMMM", "%B", "MMM", "%b", "MM", "%m", "M", "%c",
	"EEEE", "%A", "EEE", "%a", "ee", "%w", "e", "%w",
	"dd", "%d", "d", "%e",
	"a", "%p",
	"hh", "%I", "HH", "%H", "h", "%I", "H", "%H",
	"mm", "%M", "m", "%M",
	"ss", "%S", "s", "%S",
	// five fractional digits is the most Informix keeps
	"SSSSSS", "%F5", "SSSSS", "%F5", "SSSS", "%F4", "SSS", "%F3", "SS", "%F2", "S", "%F1",
)

// DatetimeFormat converts a Java style pattern such as "yyyy-MM-dd HH:mm" to
// the to_char format Informix expects. Text in single quotes is kept as is.
func DatetimeFormat(format string) string {
	var result strings.Builder
	for i, part := range strings.Split(format, "'") {
		if i%2 == 1 {
			result.WriteString(part)
			continue
		}
		result.WriteString(datetimeFormatReplacer.Replace(part))
	}
	return result.String()
}

// constraintName strips the owner Informix puts in front of every constraint.
func constraintName(info sqldialect.ErrorInfo) string {
	var name string
	switch info.Code {
	case -268:
		name = sqldialect.ExtractUsingTemplate(info.Message, "Unique constraint (", ") violated.")
	case -691:
		name = sqldialect.ExtractUsingTemplate(info.Message, "Missing key in referenced table for referential constraint (", ").")
	case -692:
		name = sqldialect.ExtractUsingTemplate(info.Message, "Key value for constraint (", ") is still being referenced.")
	default:
		return ""
	}
	if idx := strings.IndexByte(name, '.'); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

func classify(info sqldialect.ErrorInfo) sqldialect.ErrorKind {
	switch info.Code {
	case -268, -239:
		return sqldialect.UniqueViolation
	case -691, -692:
		return sqldialect.ForeignKeyViolation
	case -391:
		return sqldialect.NotNullViolation
	case -530:
		return sqldialect.CheckViolation
	case -154:
		return sqldialect.LockTimeout
	case -243, -244, -245:
		return sqldialect.LockAcquisition
	}
	return sqldialect.Unknown
}

func (dialect InformixDialect) TranslateError(err error) error {
	return sqldialect.TranslateWith(err, constraintName, classify, sqldialect.StandardClassifier)
}

func (dialect InformixDialect) NormalizeIdentifier(identifier string) string {
	return sqldialect.NormalizeIdentifierCase(identifier, sqldialect.LowerCase)
}

func (dialect InformixDialect) LimitHandler() sqldialect.LimitHandler {
	if dialect.DatabaseVersion().IsBefore(10) {
		return sqldialect.TopHandler{Keyword: "first"}
	}
	return sqldialect.SkipFirstHandler{}
}

func (dialect InformixDialect) Sequences() sqldialect.SequenceSupport {
	drop := "drop sequence ?1"
	if dialect.DatabaseVersion().IsSameOrAfter(11, 70) {
		drop = "drop sequence if exists ?1"
	}
	return sqldialect.SequenceSyntax{
		NextValueTemplate: "?1.nextval",
		SelectTemplate:    "select ?1 from informix.systables where tabid=1",
		CreateTemplate:    "create sequence ?1 start with ?2 increment by ?3",
		DropTemplate:      drop,
		Query:             "select systables.tabname as sequence_name,syssequences.* from syssequences join systables on syssequences.tabid=systables.tabid where tabtype='Q'",
	}
}

func (dialect InformixDialect) Identity() sqldialect.IdentityColumnSupport {
	return sqldialect.IdentitySyntax{
		ColumnTypes: map[sqldialect.SQLType]string{
			sqldialect.SMALLINT: "serial",
			sqldialect.INTEGER:  "serial",
			sqldialect.BIGINT:   "serial8",
		},
		Select: "select dbinfo('sqlca.sqlerrd1') from informix.systables where tabid=1",
		SelectTypes: map[sqldialect.SQLType]string{
			sqldialect.BIGINT: "select dbinfo('serial8') from informix.systables where tabid=1",
		},
		InsertValue: "0",
	}
}

func (dialect InformixDialect) Features() sqldialect.Features {
	version := dialect.DatabaseVersion()
	return sqldialect.Features{
		WindowFunctions:         version.IsSameOrAfter(12, 10),
		Lateral:                 version.IsSameOrAfter(12, 10),
		IfExistsBeforeTableName: version.IsSameOrAfter(11, 70),
		NullPrecedence:          version.IsSameOrAfter(12, 10),
	}
}

func (dialect InformixDialect) CurrentTimestampSelectString() string {
	return "select distinct current timestamp from informix.systables"
}

func (dialect InformixDialect) CurrentValue(temporalType sqldialect.TemporalType) string {
	if temporalType == sqldialect.TemporalDate {
		return "today"
	}
	return "current"
}

func (dialect InformixDialect) NoColumnsInsertString() string {
	return "values (0)"
}

func (dialect InformixDialect) AddColumnString() string {
	return "add"
}

func (dialect InformixDialect) TableExistsQuery(table string) string {
	return "select count(*) from informix.systables where tabname=" + sqldialect.QuoteString(strings.ToLower(table))
}

func (dialect InformixDialect) VersionQuery() string {
	return "select dbinfo('version','full') from informix.systables where tabid=1"
}

func (dialect InformixDialect) BooleanLiteral(value bool) string {
	if value {
		return "'t'"
	}
	return "'f'"
}

// TemporaryTableCreateString opens a logless temporary table definition.
func (dialect InformixDialect) TemporaryTableCreateString(table string) string {
	return "create temp table " + table
}

// TemporaryTableOptions follows the column list of a temporary table.
func (dialect InformixDialect) TemporaryTableOptions() string {
	return "with no log"
}

// AddPrimaryKeyConstraintString puts the constraint name last as Informix requires.
func (dialect InformixDialect) AddPrimaryKeyConstraintString(constraint string) string {
	return " add constraint primary key constraint " + constraint + " "
}
