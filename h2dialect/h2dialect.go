package h2dialect

import (
	"strconv"
	"strings"
	"time"

	"github.com/evantbyrne/sqldialect"
)

// MinimumVersion is used when no version is configured.
var MinimumVersion = sqldialect.MakeVersion(1, 4, 197)

type H2Dialect struct {
	sqldialect.Base
	Version sqldialect.Version
	// UseLocalTime renders current time values as localtime and
	// localtimestamp. It is implied from 1.4.200 on.
	UseLocalTime bool
}

func init() {
	sqldialect.Register("h2", func(options sqldialect.Options) (sqldialect.Dialect, error) {
		return H2Dialect{Version: options.Version, UseLocalTime: options.UseLocalTime}, nil
	})
}

func (dialect H2Dialect) Name() string {
	return "h2"
}

func (dialect H2Dialect) DatabaseVersion() sqldialect.Version {
	if dialect.Version.IsZero() {
		return MinimumVersion
	}
	return dialect.Version
}

func (dialect H2Dialect) localTime() bool {
	return dialect.UseLocalTime || dialect.DatabaseVersion().IsSameOrAfter(1, 4, 200)
}

// ansiSequences is set from 1.4.200, which added "current value for" and
// later dropped the nextval and currval pseudo columns.
func (dialect H2Dialect) ansiSequences() bool {
	return dialect.DatabaseVersion().IsSameOrAfter(1, 4, 200)
}

// explicitCascade is set from 1.4.200. Before it cascade was implicit in drop table.
func (dialect H2Dialect) explicitCascade() bool {
	return dialect.DatabaseVersion().IsSameOrAfter(1, 4, 200)
}

func (dialect H2Dialect) ColumnType(code sqldialect.SQLType) string {
	version := dialect.DatabaseVersion()
	switch code {
	case sqldialect.NUMERIC:
		// before 2.0 numeric columns were reported back as decimal
		if version.IsBefore(2) {
			return dialect.ColumnType(sqldialect.DECIMAL)
		}
	case sqldialect.TIME_WITH_TIMEZONE:
		if version.IsBefore(2) {
			return dialect.ColumnType(sqldialect.TIMESTAMP_WITH_TIMEZONE)
		}
	case sqldialect.NCHAR:
		return dialect.ColumnType(sqldialect.CHAR)
	case sqldialect.NVARCHAR:
		return dialect.ColumnType(sqldialect.VARCHAR)
	case sqldialect.ARRAY:
		if version.IsBefore(2) {
			return "array"
		}
		return ""
	case sqldialect.UUID:
		return "uuid"
	case sqldialect.GEOMETRY:
		return "geometry"
	case sqldialect.INTERVAL_SECOND:
		if version.IsSameOrAfter(1, 4, 198) {
			return "interval second($p,$s)"
		}
	case sqldialect.JSON:
		if version.IsSameOrAfter(1, 4, 200) {
			return "json"
		}
		return ""
	}
	return dialect.Base.ColumnType(code)
}

func (dialect H2Dialect) CastType(code sqldialect.SQLType) string {
	switch code {
	case sqldialect.CHAR, sqldialect.NCHAR:
		return "char"
	case sqldialect.VARCHAR, sqldialect.NVARCHAR, sqldialect.LONG32VARCHAR, sqldialect.LONG32NVARCHAR:
		return "varchar"
	case sqldialect.BINARY, sqldialect.VARBINARY, sqldialect.LONG32VARBINARY:
		return "varbinary"
	}
	return dialect.ColumnType(code)
}

func (dialect H2Dialect) Sizing() sqldialect.Sizing {
	sizing := sqldialect.DefaultSizing
	sizing.MaxVarcharLength = 1048576
	return sizing
}

func (dialect H2Dialect) ExtractPattern(unit sqldialect.TemporalUnit) string {
	if unit == sqldialect.SECOND {
		return "(" + sqldialect.DefaultExtractPattern + "+extract(nanosecond from ?2)/1e9)"
	}
	return sqldialect.DefaultExtractPattern
}

func (dialect H2Dialect) TranslateExtractField(unit sqldialect.TemporalUnit) string {
	switch unit {
	case sqldialect.DAY_OF_MONTH:
		return "day"
	case sqldialect.WEEK:
		return "iso_week"
	}
	return unit.String()
}

func (dialect H2Dialect) TimestampaddPattern(unit sqldialect.TemporalUnit, temporalType sqldialect.TemporalType, interval bool) (string, error) {
	if interval {
		return "(?2+?3)", nil
	}
	return "dateadd(?1,?2,?3)", nil
}

func (dialect H2Dialect) TimestampdiffPattern(unit sqldialect.TemporalUnit, from, to sqldialect.TemporalType) (string, error) {
	return "datediff(?1,?2,?3)", nil
}

func (dialect H2Dialect) DateTimeLiteral(t time.Time, temporalType sqldialect.TemporalType, withOffset bool) (string, error) {
	if temporalType == sqldialect.TemporalTime && dialect.DatabaseVersion().IsBefore(1, 4, 200) {
		withOffset = false
	}
	return sqldialect.ANSILiteral(t, temporalType, withOffset, sqldialect.FormatTimestampNanos)
}

// H2 reports its error code, which is also the SQLSTATE.
func errorCode(info sqldialect.ErrorInfo) int {
	if info.Code != 0 {
		return info.Code
	}
	code, _ := strconv.Atoi(info.SQLState)
	return code
}

func classify(info sqldialect.ErrorInfo) sqldialect.ErrorKind {
	switch errorCode(info) {
	case 23505:
		return sqldialect.UniqueViolation
	case 40001:
		return sqldialect.LockAcquisition
	case 50200:
		return sqldialect.PessimisticLock
	case 90006:
		return sqldialect.NotNullViolation
	case 57014:
		return sqldialect.QueryTimeout
	}
	return sqldialect.Unknown
}

// constraintName reads the constraint out of messages such as
// "Unique index or primary key violation: PK_USERS".
func constraintName(info sqldialect.ErrorInfo) string {
	if !strings.HasPrefix(info.SQLState, "23") {
		return ""
	}
	idx := strings.Index(info.Message, "violation: ")
	if idx < 0 {
		return ""
	}
	name := info.Message[idx+len("violation: "):]
	if info.SQLState == "23506" {
		if end := strings.Index(name, ":"); end > 1 {
			name = name[1:end]
		}
	}
	if end := strings.Index(name, "; SQL statement"); end >= 0 {
		name = name[:end]
	}
	return name
}

func (dialect H2Dialect) TranslateError(err error) error {
	return sqldialect.TranslateWith(err, constraintName, classify, sqldialect.StandardClassifier)
}

func (dialect H2Dialect) LimitHandler() sqldialect.LimitHandler {
	if dialect.DatabaseVersion().IsSameOrAfter(1, 4, 195) {
		return sqldialect.OffsetFetchHandler{}
	}
	return sqldialect.LimitOffsetHandler{}
}

func (dialect H2Dialect) Sequences() sqldialect.SequenceSupport {
	var query string
	if dialect.DatabaseVersion().IsSameOrAfter(1, 4, 32) {
		query = "select * from INFORMATION_SCHEMA.SEQUENCES"
	}
	if dialect.ansiSequences() {
		return sqldialect.SequenceSyntax{
			NextValueTemplate: "next value for ?1",
			CreateTemplate:    "create sequence ?1 start with ?2 increment by ?3",
			DropTemplate:      "drop sequence if exists ?1",
			Query:             query,
		}
	}
	return sqldialect.SequenceSyntax{
		NextValueTemplate: "nextval('?1')",
		SelectTemplate:    "call ?1",
		CreateTemplate:    "create sequence ?1 start with ?2 increment by ?3",
		DropTemplate:      "drop sequence if exists ?1",
		Query:             query,
	}
}

func (dialect H2Dialect) Identity() sqldialect.IdentityColumnSupport {
	if dialect.DatabaseVersion().IsSameOrAfter(2) {
		// 2.x reads generated keys through "select ... from final table (insert ...)".
		return sqldialect.IdentitySyntax{
			Column:      "generated by default as identity",
			DataType:    true,
			InsertValue: "default",
		}
	}
	return sqldialect.IdentitySyntax{
		Column:      "generated by default as identity",
		DataType:    true,
		Select:      "call identity()",
		InsertValue: "default",
	}
}

func (dialect H2Dialect) Features() sqldialect.Features {
	version := dialect.DatabaseVersion()
	features := sqldialect.Features{
		WindowFunctions:         version.IsSameOrAfter(1, 4, 200),
		RecursiveCTE:            version.IsSameOrAfter(1, 4, 196),
		ValuesList:              true,
		IfExistsBeforeTableName: dialect.explicitCascade(),
		IfExistsAfterTableName:  !dialect.explicitCascade(),
		NullPrecedence:          true,
		OffsetInSubquery:        true,
		TemporalLiteralOffset:   true,
	}
	if version.IsSameOrAfter(1, 4, 194) {
		features.CaseInsensitiveLike = "ilike"
	}
	return features
}

func (dialect H2Dialect) CurrentTimestampSelectString() string {
	return "call current_timestamp()"
}

func (dialect H2Dialect) CurrentValue(temporalType sqldialect.TemporalType) string {
	if dialect.localTime() {
		switch temporalType {
		case sqldialect.TemporalTime:
			return "localtime"
		case sqldialect.TemporalTimestamp:
			return "localtimestamp"
		}
	}
	return dialect.Base.CurrentValue(temporalType)
}

func (dialect H2Dialect) NoColumnsInsertString() string {
	return "default values"
}

func (dialect H2Dialect) CascadeConstraintsString() string {
	if dialect.explicitCascade() {
		return " cascade "
	}
	return ""
}

func (dialect H2Dialect) TableExistsQuery(table string) string {
	return "select count(*) from information_schema.tables where table_schema=schema() and table_name=" + sqldialect.QuoteString(table)
}

func (dialect H2Dialect) VersionQuery() string {
	return "select h2version()"
}

func (dialect H2Dialect) BooleanLiteral(value bool) string {
	return sqldialect.KeywordBooleanLiteral(value)
}

// EnumTypeDeclaration is the inline enum column type for values.
func (dialect H2Dialect) EnumTypeDeclaration(values []string) string {
	var declaration strings.Builder
	declaration.WriteString("enum (")
	for i, value := range values {
		if i > 0 {
			declaration.WriteString(",")
		}
		declaration.WriteString(sqldialect.QuoteString(value))
	}
	declaration.WriteString(")")
	return declaration.String()
}

// ReferentialIntegrityStatement toggles foreign key checks for the session.
func (dialect H2Dialect) ReferentialIntegrityStatement(enabled bool) string {
	return "set referential_integrity " + strconv.FormatBool(enabled)
}
