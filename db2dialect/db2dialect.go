package db2dialect

import (
	"fmt"
	"strings"
	"time"

	"github.com/evantbyrne/sqldialect"
)

// MinimumVersion is used when no version is configured.
var MinimumVersion = sqldialect.MakeVersion(9)

const (
	forReadOnly = " for read only with rs"
	forShare    = forReadOnly + " use and keep share locks"
	forUpdate   = forReadOnly + " use and keep update locks"
	skipLocked  = " skip locked data"
)

// DB2Dialect targets DB2 for Linux, Unix and Windows.
type DB2Dialect struct {
	sqldialect.Base
	Version sqldialect.Version
}

func init() {
	sqldialect.Register("db2", func(options sqldialect.Options) (sqldialect.Dialect, error) {
		return DB2Dialect{Version: options.Version}, nil
	}, "ibmdb2", "db2luw")
}

func (dialect DB2Dialect) Name() string {
	return "db2"
}

func (dialect DB2Dialect) DatabaseVersion() sqldialect.Version {
	if dialect.Version.IsZero() {
		return MinimumVersion
	}
	return dialect.Version
}

func (dialect DB2Dialect) ColumnType(code sqldialect.SQLType) string {
	before11 := dialect.DatabaseVersion().IsBefore(11)
	switch code {
	case sqldialect.BOOLEAN:
		// boolean existed before 11 but was not allowed as a column type
		if before11 {
			return "smallint"
		}
	case sqldialect.TINYINT:
		return "smallint"
	case sqldialect.NUMERIC:
		return dialect.ColumnType(sqldialect.DECIMAL)
	case sqldialect.TIMESTAMP_WITH_TIMEZONE:
		return "timestamp($p)"
	case sqldialect.TIME_WITH_TIMEZONE:
		return "time"
	case sqldialect.BINARY:
		if before11 {
			return "char($l) for bit data"
		}
	case sqldialect.VARBINARY:
		if before11 {
			return "varchar($l) for bit data"
		}
	case sqldialect.JSON:
		return "clob"
	case sqldialect.DOUBLE:
		return "double"
	}
	return dialect.Base.ColumnType(code)
}

func (dialect DB2Dialect) CastType(code sqldialect.SQLType) string {
	switch code {
	case sqldialect.BINARY, sqldialect.VARBINARY, sqldialect.LONGVARBINARY, sqldialect.LONG32VARBINARY:
		if dialect.DatabaseVersion().IsBefore(11) {
			return "varchar($l) for bit data"
		}
	}
	return sqldialect.DefaultCastType(code)
}

func (dialect DB2Dialect) Sizing() sqldialect.Sizing {
	sizing := sqldialect.DefaultSizing
	sizing.DefaultDecimalPrecision = 31
	sizing.MaxVarcharLength = 32_672
	sizing.MaxIdentifierLength = 128
	return sizing
}

func (dialect DB2Dialect) ExtractPattern(unit sqldialect.TemporalUnit) string {
	// week is not the ISO week in extract()
	if unit == sqldialect.WEEK {
		return "week_iso(?2)"
	}
	return sqldialect.DefaultExtractPattern
}

func (dialect DB2Dialect) TranslateExtractField(unit sqldialect.TemporalUnit) string {
	switch unit {
	case sqldialect.DAY_OF_MONTH:
		return "day"
	case sqldialect.DAY_OF_YEAR:
		return "doy"
	case sqldialect.DAY_OF_WEEK:
		return "dow"
	}
	return sqldialect.DefaultTranslateExtractField(unit)
}

func (dialect DB2Dialect) TimestampaddPattern(unit sqldialect.TemporalUnit, temporalType sqldialect.TemporalType, interval bool) (string, error) {
	var castTo bool
	if unit.IsDateUnit() {
		castTo = temporalType == sqldialect.TemporalTime
	} else {
		castTo = temporalType == sqldialect.TemporalDate
	}

	var pattern strings.Builder
	if castTo {
		pattern.WriteString("cast(?3 as timestamp)")
	} else {
		pattern.WriteString("?3")
	}
	pattern.WriteString("+(")
	switch unit {
	case sqldialect.NATIVE:
		pattern.WriteString("?2) seconds")
	case sqldialect.NANOSECOND:
		pattern.WriteString("(?2)/1e9) seconds")
	case sqldialect.WEEK:
		pattern.WriteString("(?2)*7) days")
	case sqldialect.QUARTER:
		pattern.WriteString("(?2)*3) months")
	default:
		pattern.WriteString("?2) ?1s")
	}
	return pattern.String(), nil
}

func (dialect DB2Dialect) TimestampdiffPattern(unit sqldialect.TemporalUnit, from, to sqldialect.TemporalType) (string, error) {
	castFrom := from != sqldialect.TemporalTimestamp && !unit.IsDateUnit()
	castTo := to != sqldialect.TemporalTimestamp && !unit.IsDateUnit()

	var pattern strings.Builder
	switch unit {
	case sqldialect.NATIVE, sqldialect.NANOSECOND:
		pattern.WriteString("(seconds_between(")
	case sqldialect.MONTH, sqldialect.QUARTER:
		// months_between() is not integral
		pattern.WriteString("trunc(months_between(")
	default:
		pattern.WriteString("?1s_between(")
	}
	if castTo {
		pattern.WriteString("cast(?3 as timestamp)")
	} else {
		pattern.WriteString("?3")
	}
	pattern.WriteString(",")
	if castFrom {
		pattern.WriteString("cast(?2 as timestamp)")
	} else {
		pattern.WriteString("?2")
	}
	pattern.WriteString(")")
	switch unit {
	case sqldialect.NATIVE:
		pattern.WriteString("+(microsecond(?3)-microsecond(?2))/1e6)")
	case sqldialect.NANOSECOND:
		pattern.WriteString("*1e9+(microsecond(?3)-microsecond(?2))*1e3)")
	case sqldialect.MONTH:
		pattern.WriteString(")")
	case sqldialect.QUARTER:
		pattern.WriteString("/3)")
	}
	return pattern.String(), nil
}

func (dialect DB2Dialect) DateTimeLiteral(t time.Time, temporalType sqldialect.TemporalType, withOffset bool) (string, error) {
	return sqldialect.JDBCEscapeLiteral(t, temporalType, withOffset, false)
}

func (dialect DB2Dialect) skipLocked() bool {
	return dialect.DatabaseVersion().IsSameOrAfter(11, 5)
}

// DB2 has no "of" list; every lock applies to the whole statement.

func (dialect DB2Dialect) ForUpdateString() string {
	return forUpdate
}

func (dialect DB2Dialect) ForUpdateOf(aliases string) string {
	return forUpdate
}

func (dialect DB2Dialect) ForUpdateNowaitString(aliases string) string {
	return forUpdate
}

func (dialect DB2Dialect) ForUpdateSkipLockedString(aliases string) string {
	if dialect.skipLocked() {
		return forUpdate + skipLocked
	}
	return forUpdate
}

func (dialect DB2Dialect) WriteLockString(aliases string, timeout sqldialect.Timeout) string {
	if timeout == sqldialect.SkipLocked && dialect.skipLocked() {
		return forUpdate + skipLocked
	}
	return forUpdate
}

func (dialect DB2Dialect) ReadLockString(aliases string, timeout sqldialect.Timeout) string {
	if timeout == sqldialect.SkipLocked && dialect.skipLocked() {
		return forShare + skipLocked
	}
	return forShare
}

func classify(info sqldialect.ErrorInfo) sqldialect.ErrorKind {
	if info.Code == -952 && info.SQLState == "57014" {
		return sqldialect.LockTimeout
	}
	return sqldialect.Unknown
}

func (dialect DB2Dialect) TranslateError(err error) error {
	return sqldialect.TranslateWith(err, nil, classify, sqldialect.StandardClassifier)
}

func (dialect DB2Dialect) LimitHandler() sqldialect.LimitHandler {
	if dialect.DatabaseVersion().IsBefore(11, 1) {
		return sqldialect.RowNumberDB2Handler{}
	}
	return sqldialect.OffsetFetchHandler{}
}

func (dialect DB2Dialect) Sequences() sqldialect.SequenceSupport {
	syntax := sqldialect.SequenceSyntax{
		NextValueTemplate: "next value for ?1",
		SelectTemplate:    "values ?1",
		CreateTemplate:    "create sequence ?1 start with ?2 increment by ?3",
		DropTemplate:      "drop sequence ?1 restrict",
		Query:             "select * from syscat.sequences",
	}
	if dialect.DatabaseVersion().IsBefore(9, 7) {
		syntax.NextValueTemplate = "nextval for ?1"
	}
	return syntax
}

func (dialect DB2Dialect) Identity() sqldialect.IdentityColumnSupport {
	return sqldialect.IdentitySyntax{
		Column:      "generated by default as identity",
		DataType:    true,
		Select:      "values identity_val_local()",
		InsertValue: "default",
	}
}

func (dialect DB2Dialect) Features() sqldialect.Features {
	return sqldialect.Features{
		WindowFunctions: true,
		Lateral:         dialect.DatabaseVersion().IsSameOrAfter(9, 1),
		RecursiveCTE:    true,
		ValuesList:      true,
		SkipLocked:      dialect.skipLocked(),
	}
}

func (dialect DB2Dialect) CurrentTimestampSelectString() string {
	return "values current timestamp"
}

func (dialect DB2Dialect) CurrentValue(temporalType sqldialect.TemporalType) string {
	switch temporalType {
	case sqldialect.TemporalDate:
		return "current date"
	case sqldialect.TemporalTime:
		return "current time"
	}
	return "current timestamp"
}

func (dialect DB2Dialect) NoColumnsInsertString() string {
	return "values (default)"
}

func (dialect DB2Dialect) AddColumnString() string {
	return "add"
}

func (dialect DB2Dialect) TableExistsQuery(table string) string {
	return fmt.Sprintf("select count(*) from syscat.tables where tabschema=current schema and tabname=%s", sqldialect.QuoteString(dialect.NormalizeIdentifier(table)))
}

func (dialect DB2Dialect) VersionQuery() string {
	return "select service_level from sysibmadm.env_inst_info"
}

func (dialect DB2Dialect) BooleanLiteral(value bool) string {
	if dialect.DatabaseVersion().IsBefore(11) {
		return sqldialect.NumericBooleanLiteral(value)
	}
	return sqldialect.KeywordBooleanLiteral(value)
}

func (dialect DB2Dialect) BinaryLiteral(value []byte) string {
	return fmt.Sprintf("BX'%X'", value)
}
