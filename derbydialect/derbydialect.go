package derbydialect

import (
	"fmt"

	"github.com/evantbyrne/sqldialect"
)

// MinimumVersion is used when no version is configured.
var MinimumVersion = sqldialect.MakeVersion(10)

// DerbyDialect targets Apache Derby, embedded or network server.
type DerbyDialect struct {
	sqldialect.Base
	Version sqldialect.Version
}

func init() {
	sqldialect.Register("derby", func(options sqldialect.Options) (sqldialect.Dialect, error) {
		return DerbyDialect{Version: options.Version}, nil
	}, "javadb")
}

func (dialect DerbyDialect) Name() string {
	return "derby"
}

func (dialect DerbyDialect) DatabaseVersion() sqldialect.Version {
	if dialect.Version.IsZero() {
		return MinimumVersion
	}
	return dialect.Version
}

func (dialect DerbyDialect) ColumnType(code sqldialect.SQLType) string {
	switch code {
	case sqldialect.BOOLEAN:
		if dialect.DatabaseVersion().IsBefore(10, 7) {
			return "smallint"
		}
	case sqldialect.TINYINT:
		return "smallint"
	case sqldialect.NUMERIC:
		return dialect.ColumnType(sqldialect.DECIMAL)
	case sqldialect.VARBINARY:
		return "varchar($l) for bit data"
	case sqldialect.BINARY:
		return "char($l) for bit data"
	case sqldialect.NCHAR:
		return dialect.ColumnType(sqldialect.CHAR)
	case sqldialect.NVARCHAR:
		return dialect.ColumnType(sqldialect.VARCHAR)
	case sqldialect.CLOB, sqldialect.NCLOB, sqldialect.LONGNVARCHAR, sqldialect.LONG32NVARCHAR:
		return "clob"
	case sqldialect.TIME, sqldialect.TIME_WITH_TIMEZONE, sqldialect.TIME_UTC:
		return "time"
	case sqldialect.TIMESTAMP, sqldialect.TIMESTAMP_WITH_TIMEZONE, sqldialect.TIMESTAMP_UTC:
		return "timestamp"
	case sqldialect.DOUBLE:
		return "double"
	case sqldialect.JSON, sqldialect.SQLXML:
		return "clob"
	}
	return dialect.Base.ColumnType(code)
}

func (dialect DerbyDialect) CastType(code sqldialect.SQLType) string {
	switch code {
	case sqldialect.BINARY, sqldialect.VARBINARY, sqldialect.LONGVARBINARY, sqldialect.LONG32VARBINARY:
		return "varchar($l) for bit data"
	case sqldialect.TIMESTAMP, sqldialect.TIMESTAMP_WITH_TIMEZONE, sqldialect.TIMESTAMP_UTC, sqldialect.TIME, sqldialect.TIME_WITH_TIMEZONE, sqldialect.TIME_UTC:
		return dialect.ColumnType(code)
	}
	return sqldialect.DefaultCastType(code)
}

func (dialect DerbyDialect) Sizing() sqldialect.Sizing {
	sizing := sqldialect.DefaultSizing
	sizing.DefaultDecimalPrecision = 31
	sizing.DefaultTimestampPrecision = 9
	sizing.FloatPrecision = 23
	sizing.DoublePrecision = 52
	sizing.MaxVarcharLength = 32_672
	sizing.MaxIdentifierLength = 128
	return sizing
}

// ExtractPattern emulates the fields Derby's extract functions lack with
// jdbc escape arithmetic.
func (dialect DerbyDialect) ExtractPattern(unit sqldialect.TemporalUnit) string {
	switch unit {
	case sqldialect.DAY_OF_MONTH:
		return "day(?2)"
	case sqldialect.DAY_OF_YEAR:
		return "({fn timestampdiff(sql_tsi_day,date(char(year(?2),4)||'-01-01'),?2)}+1)"
	case sqldialect.DAY_OF_WEEK:
		return "(mod(mod({fn timestampdiff(sql_tsi_day,{d '1970-01-01'},?2)}+4,7)+7,7)+1)"
	case sqldialect.WEEK:
		return "(({fn timestampdiff(sql_tsi_day,date(char(year(?2),4)||'-01-01'),{fn timestampadd(sql_tsi_day,{fn timestampdiff(sql_tsi_day,{d '1753-01-01'},?2)}/7*7,{d '1753-01-04'})})}+7)/7)"
	case sqldialect.QUARTER:
		return "((month(?2)+2)/3)"
	case sqldialect.EPOCH:
		return "{fn timestampdiff(sql_tsi_second,{ts '1970-01-01 00:00:00'},?2)}"
	}
	return "?1(?2)"
}

// TranslateExtractField is empty for the fields that only exist through the
// emulations in ExtractPattern.
func (dialect DerbyDialect) TranslateExtractField(unit sqldialect.TemporalUnit) string {
	switch unit {
	case sqldialect.WEEK, sqldialect.DAY_OF_YEAR, sqldialect.DAY_OF_WEEK:
		return ""
	case sqldialect.DAY_OF_MONTH:
		return "day"
	}
	return sqldialect.DefaultTranslateExtractField(unit)
}

func (dialect DerbyDialect) TimestampaddPattern(unit sqldialect.TemporalUnit, temporalType sqldialect.TemporalType, interval bool) (string, error) {
	switch unit {
	case sqldialect.NANOSECOND, sqldialect.NATIVE:
		return "{fn timestampadd(sql_tsi_frac_second,mod(bigint(?2),1000000000),{fn timestampadd(sql_tsi_second,bigint((?2)/1000000000),?3)})}", nil
	}
	return "{fn timestampadd(sql_tsi_?1,bigint(?2),?3)}", nil
}

func (dialect DerbyDialect) TimestampdiffPattern(unit sqldialect.TemporalUnit, from, to sqldialect.TemporalType) (string, error) {
	switch unit {
	case sqldialect.NANOSECOND, sqldialect.NATIVE:
		return "{fn timestampdiff(sql_tsi_frac_second,?2,?3)}", nil
	}
	return "{fn timestampdiff(sql_tsi_?1,?2,?3)}", nil
}

func (dialect DerbyDialect) ForUpdateString() string {
	return " for update with rs"
}

func (dialect DerbyDialect) ForUpdateOf(aliases string) string {
	return dialect.ForUpdateString()
}

func (dialect DerbyDialect) ForUpdateNowaitString(aliases string) string {
	return dialect.ForUpdateString()
}

func (dialect DerbyDialect) ForUpdateSkipLockedString(aliases string) string {
	return dialect.ForUpdateString()
}

func (dialect DerbyDialect) WriteLockString(aliases string, timeout sqldialect.Timeout) string {
	return dialect.ForUpdateString()
}

func (dialect DerbyDialect) ReadLockString(aliases string, timeout sqldialect.Timeout) string {
	return " for read only with rs"
}

func classify(info sqldialect.ErrorInfo) sqldialect.ErrorKind {
	switch info.SQLState {
	case "23505":
		return sqldialect.UniqueViolation
	case "40XL1", "40XL2":
		return sqldialect.LockTimeout
	}
	return sqldialect.Unknown
}

// constraintName reads the index name out of Derby's duplicate key message.
func constraintName(info sqldialect.ErrorInfo) string {
	return sqldialect.ExtractUsingTemplate(info.Message, "identified by '", "' defined on")
}

func (dialect DerbyDialect) TranslateError(err error) error {
	return sqldialect.TranslateWith(err, constraintName, classify, sqldialect.StandardClassifier)
}

func (dialect DerbyDialect) LimitHandler() sqldialect.LimitHandler {
	if dialect.DatabaseVersion().IsBefore(10, 5) {
		return sqldialect.NoLimitHandler{}
	}
	return sqldialect.OffsetFetchHandler{}
}

func (dialect DerbyDialect) Sequences() sqldialect.SequenceSupport {
	if dialect.DatabaseVersion().IsBefore(10, 6) {
		return sqldialect.SequenceSyntax{}
	}
	return sqldialect.SequenceSyntax{
		NextValueTemplate: "next value for ?1",
		SelectTemplate:    "values ?1",
		CreateTemplate:    "create sequence ?1 start with ?2 increment by ?3",
		DropTemplate:      "drop sequence ?1 restrict",
		Query:             "select sys.sysschemas.schemaname as sequence_schema,sys.syssequences.* from sys.syssequences left join sys.sysschemas on sys.syssequences.schemaid=sys.sysschemas.schemaid",
	}
}

func (dialect DerbyDialect) Identity() sqldialect.IdentityColumnSupport {
	return sqldialect.IdentitySyntax{
		Column:      "generated by default as identity",
		DataType:    true,
		Select:      "values identity_val_local()",
		InsertValue: "default",
	}
}

func (dialect DerbyDialect) Features() sqldialect.Features {
	return sqldialect.Features{
		WindowFunctions: dialect.DatabaseVersion().IsSameOrAfter(10, 4),
		ValuesList:      true,
	}
}

func (dialect DerbyDialect) CurrentTimestampSelectString() string {
	return "values current timestamp"
}

func (dialect DerbyDialect) CurrentValue(temporalType sqldialect.TemporalType) string {
	switch temporalType {
	case sqldialect.TemporalDate:
		return "current date"
	case sqldialect.TemporalTime:
		return "current time"
	}
	return "current timestamp"
}

func (dialect DerbyDialect) NoColumnsInsertString() string {
	return "values (default)"
}

func (dialect DerbyDialect) AddColumnString() string {
	return "add column"
}

func (dialect DerbyDialect) TableExistsQuery(table string) string {
	return fmt.Sprintf("select count(*) from sys.systables where tablename=%s", sqldialect.QuoteString(dialect.NormalizeIdentifier(table)))
}

func (dialect DerbyDialect) VersionQuery() string {
	return "values syscs_util.syscs_get_database_property('DataDictionaryVersion')"
}

func (dialect DerbyDialect) BooleanLiteral(value bool) string {
	if dialect.DatabaseVersion().IsBefore(10, 7) {
		return sqldialect.NumericBooleanLiteral(value)
	}
	return sqldialect.KeywordBooleanLiteral(value)
}
