package cockroachdialect

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/evantbyrne/sqldialect"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// MinimumVersion is used when no version is configured.
var MinimumVersion = sqldialect.MakeVersion(19, 2)

type CockroachDialect struct {
	sqldialect.Base
	Version sqldialect.Version
}

func init() {
	sqldialect.Register("cockroachdb", func(options sqldialect.Options) (sqldialect.Dialect, error) {
		return CockroachDialect{Version: options.Version}, nil
	}, "cockroach", "crdb")
}

func (dialect CockroachDialect) Name() string {
	return "cockroachdb"
}

func (dialect CockroachDialect) DatabaseVersion() sqldialect.Version {
	if dialect.Version.IsZero() {
		return MinimumVersion
	}
	return dialect.Version
}

func (dialect CockroachDialect) ColumnType(code sqldialect.SQLType) string {
	switch code {
	case sqldialect.TINYINT:
		return "smallint"
	case sqldialect.INTEGER:
		return "int4"
	case sqldialect.NCHAR:
		return dialect.ColumnType(sqldialect.CHAR)
	case sqldialect.NVARCHAR:
		return dialect.ColumnType(sqldialect.VARCHAR)
	case sqldialect.CLOB, sqldialect.NCLOB:
		return "string"
	case sqldialect.BINARY, sqldialect.VARBINARY, sqldialect.BLOB:
		return "bytes"
	case sqldialect.TIMESTAMP_UTC:
		return dialect.ColumnType(sqldialect.TIMESTAMP_WITH_TIMEZONE)
	case sqldialect.UUID:
		return "uuid"
	case sqldialect.GEOMETRY:
		return "geometry"
	case sqldialect.INTERVAL_SECOND:
		return "interval second($s)"
	case sqldialect.JSON:
		if dialect.DatabaseVersion().IsSameOrAfter(20) {
			return "jsonb"
		}
		return "json"
	case sqldialect.INET:
		if dialect.DatabaseVersion().IsSameOrAfter(20) {
			return "inet"
		}
		return ""
	}
	return dialect.Base.ColumnType(code)
}

func (dialect CockroachDialect) CastType(code sqldialect.SQLType) string {
	switch code {
	case sqldialect.CHAR, sqldialect.NCHAR, sqldialect.VARCHAR, sqldialect.NVARCHAR, sqldialect.LONG32VARCHAR, sqldialect.LONG32NVARCHAR:
		return "string"
	case sqldialect.BINARY, sqldialect.VARBINARY, sqldialect.LONG32VARBINARY:
		return "bytes"
	}
	return dialect.ColumnType(code)
}

func (dialect CockroachDialect) Sizing() sqldialect.Sizing {
	sizing := sqldialect.DefaultSizing
	sizing.MaxIdentifierLength = 63
	return sizing
}

func (dialect CockroachDialect) ExtractPattern(unit sqldialect.TemporalUnit) string {
	if unit == sqldialect.DAY_OF_WEEK {
		return "(" + sqldialect.DefaultExtractPattern + "+1)"
	}
	return sqldialect.DefaultExtractPattern
}

func (dialect CockroachDialect) TranslateExtractField(unit sqldialect.TemporalUnit) string {
	switch unit {
	case sqldialect.DAY_OF_MONTH:
		return "day"
	case sqldialect.DAY_OF_YEAR:
		return "dayofyear"
	case sqldialect.DAY_OF_WEEK:
		return "dayofweek"
	}
	return sqldialect.DefaultTranslateExtractField(unit)
}

// nativeNanos is the length of the NATIVE unit, a microsecond.
const nativeNanos = 1000

func translateDurationField(unit sqldialect.TemporalUnit) string {
	if unit == sqldialect.NATIVE {
		return "microsecond"
	}
	return unit.String()
}

func intervalPattern(unit sqldialect.TemporalUnit) string {
	switch unit {
	case sqldialect.NATIVE:
		return "(?2)*interval '1 microsecond'"
	case sqldialect.NANOSECOND:
		return "(?2)/1e3*interval '1 microsecond'"
	case sqldialect.QUARTER:
		return "(?2)*interval '3 month'"
	case sqldialect.WEEK:
		return "(?2)*interval '7 day'"
	}
	return "(?2)*interval '1 " + unit.String() + "'"
}

func (dialect CockroachDialect) TimestampaddPattern(unit sqldialect.TemporalUnit, temporalType sqldialect.TemporalType, interval bool) (string, error) {
	if interval {
		return "(?2+?3)", nil
	}
	return "cast(?3+" + intervalPattern(unit) + " as " + temporalType.String() + ")", nil
}

func (dialect CockroachDialect) TimestampdiffPattern(unit sqldialect.TemporalUnit, from, to sqldialect.TemporalType) (string, error) {
	if from == sqldialect.TemporalDate && to == sqldialect.TemporalDate {
		switch unit {
		case sqldialect.YEAR, sqldialect.MONTH, sqldialect.QUARTER:
			return "extract(" + translateDurationField(unit) + " from age(cast(?3 as timestamptz),cast(?2 as timestamptz)))", nil
		}
		factor, err := sqldialect.DAY.ConversionFactor(unit, nativeNanos)
		if err != nil {
			return "", err
		}
		return "(?3-?2)" + factor, nil
	}

	switch unit {
	case sqldialect.YEAR:
		return "extract(year from ?3-?2)", nil
	case sqldialect.QUARTER:
		return "(extract(year from ?3-?2)*4+extract(month from ?3-?2)//3)", nil
	case sqldialect.MONTH:
		return "(extract(year from ?3-?2)*12+extract(month from ?3-?2))", nil
	}

	if dialect.DatabaseVersion().IsBefore(20, 1) {
		switch unit {
		case sqldialect.WEEK:
			return "extract_duration(hour from ?3-?2)/168", nil
		case sqldialect.DAY:
			return "extract_duration(hour from ?3-?2)/24", nil
		case sqldialect.NANOSECOND:
			return "extract_duration(microsecond from ?3-?2)*1e3", nil
		}
		return "extract_duration(?1 from ?3-?2)", nil
	}

	switch unit {
	case sqldialect.WEEK:
		return "(extract(day from ?3-?2)/7)", nil
	case sqldialect.DAY:
		return "extract(day from ?3-?2)", nil
	case sqldialect.HOUR, sqldialect.MINUTE, sqldialect.SECOND, sqldialect.NANOSECOND, sqldialect.NATIVE:
		factor, err := sqldialect.EPOCH.ConversionFactor(unit, nativeNanos)
		if err != nil {
			return "", err
		}
		return "round(extract(epoch from ?3-?2)" + factor + ")::int", nil
	}
	return "", &sqldialect.UnsupportedUnitError{Dialect: dialect.Name(), Operation: "timestampdiff", Unit: unit}
}

func (dialect CockroachDialect) DateTimeLiteral(t time.Time, temporalType sqldialect.TemporalType, withOffset bool) (string, error) {
	return sqldialect.ANSILiteral(t, temporalType, withOffset, sqldialect.FormatTimestampMicros)
}

func (dialect CockroachDialect) locks() bool {
	return dialect.DatabaseVersion().IsSameOrAfter(20, 1)
}

func (dialect CockroachDialect) lockSupport() sqldialect.LockSupport {
	return dialect.Features().LockSupport()
}

func (dialect CockroachDialect) ForUpdateString() string {
	if !dialect.locks() {
		return ""
	}
	return " for update"
}

func (dialect CockroachDialect) ForUpdateOf(aliases string) string {
	if !dialect.locks() {
		return ""
	}
	if aliases == "" {
		return dialect.ForUpdateString()
	}
	return dialect.ForUpdateString() + " of " + aliases
}

func (dialect CockroachDialect) ForUpdateNowaitString(aliases string) string {
	return dialect.lockSupport().WithTimeout(dialect.ForUpdateOf(aliases), sqldialect.NoWait)
}

func (dialect CockroachDialect) ForUpdateSkipLockedString(aliases string) string {
	return dialect.lockSupport().WithTimeout(dialect.ForUpdateOf(aliases), sqldialect.SkipLocked)
}

func (dialect CockroachDialect) WriteLockString(aliases string, timeout sqldialect.Timeout) string {
	return dialect.lockSupport().WithTimeout(dialect.ForUpdateOf(aliases), timeout)
}

func (dialect CockroachDialect) ReadLockString(aliases string, timeout sqldialect.Timeout) string {
	if !dialect.locks() {
		return ""
	}
	lock := " for share"
	if aliases != "" {
		lock += " of " + aliases
	}
	return dialect.lockSupport().WithTimeout(lock, timeout)
}

func classify(info sqldialect.ErrorInfo) sqldialect.ErrorKind {
	switch info.SQLState {
	case "40P01":
		return sqldialect.LockAcquisition
	case "55P03":
		return sqldialect.PessimisticLock
	case "57014":
		return sqldialect.QueryTimeout
	}
	return sqldialect.Unknown
}

func (dialect CockroachDialect) TranslateError(err error) error {
	return sqldialect.TranslateWith(err, nil, classify, sqldialect.StandardClassifier)
}

func (dialect CockroachDialect) Param(identifier int) string {
	var query strings.Builder
	query.WriteString("$")
	query.WriteString(strconv.Itoa(identifier))
	return query.String()
}

func (dialect CockroachDialect) QuoteIdentifier(identifier string) string {
	var query strings.Builder
	for i, part := range strings.Split(identifier, ".") {
		if i > 0 {
			query.WriteString(".")
		}
		query.WriteString(pq.QuoteIdentifier(part))
	}
	return query.String()
}

func (dialect CockroachDialect) NormalizeIdentifier(identifier string) string {
	return sqldialect.NormalizeIdentifierCase(identifier, sqldialect.LowerCase)
}

func (dialect CockroachDialect) Sequences() sqldialect.SequenceSupport {
	return sqldialect.SequenceSyntax{
		NextValueTemplate: "nextval('?1')",
		CreateTemplate:    "create sequence ?1 start ?2 increment ?3",
		DropTemplate:      "drop sequence if exists ?1",
		Query:             "select sequence_name,sequence_schema,sequence_catalog,start_value,minimum_value,maximum_value,increment from information_schema.sequences",
	}
}

func (dialect CockroachDialect) Identity() sqldialect.IdentityColumnSupport {
	return sqldialect.IdentitySyntax{
		Column:      "generated by default as identity",
		DataType:    true,
		InsertValue: "default",
	}
}

func (dialect CockroachDialect) Features() sqldialect.Features {
	after201 := dialect.DatabaseVersion().IsSameOrAfter(20, 1)
	return sqldialect.Features{
		WindowFunctions:         true,
		Lateral:                 after201,
		RecursiveCTE:            after201,
		ValuesList:              true,
		IfExistsBeforeTableName: true,
		NoWait:                  after201,
		OffsetInSubquery:        true,
		TemporalLiteralOffset:   true,
		CaseInsensitiveLike:     "ilike",
	}
}

func (dialect CockroachDialect) CurrentTimestampSelectString() string {
	return "select now()"
}

func (dialect CockroachDialect) NoColumnsInsertString() string {
	return "default values"
}

func (dialect CockroachDialect) CascadeConstraintsString() string {
	return " cascade"
}

func (dialect CockroachDialect) TableExistsQuery(table string) string {
	return fmt.Sprintf("select count(*) from information_schema.tables where table_schema=current_schema() and table_name=%s", sqldialect.QuoteString(table))
}

func (dialect CockroachDialect) BooleanLiteral(value bool) string {
	return sqldialect.KeywordBooleanLiteral(value)
}

func (dialect CockroachDialect) UUIDLiteral(id uuid.UUID) string {
	return "cast(" + sqldialect.StringUUIDLiteral(id) + " as uuid)"
}

func (dialect CockroachDialect) BinaryLiteral(value []byte) string {
	return fmt.Sprintf("'\\x%x'::bytes", value)
}
