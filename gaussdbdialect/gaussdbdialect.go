package gaussdbdialect

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/evantbyrne/sqldialect"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MinimumVersion is used when no version is configured.
var MinimumVersion = sqldialect.MakeVersion(2)

type GaussDBDialect struct {
	sqldialect.Base
	Version sqldialect.Version
}

func init() {
	sqldialect.Register("gaussdb", func(options sqldialect.Options) (sqldialect.Dialect, error) {
		return GaussDBDialect{Version: options.Version}, nil
	}, "opengauss")
}

func (dialect GaussDBDialect) Name() string {
	return "gaussdb"
}

func (dialect GaussDBDialect) DatabaseVersion() sqldialect.Version {
	if dialect.Version.IsZero() {
		return MinimumVersion
	}
	return dialect.Version
}

// ParseBanner reads the kernel version from a version() banner such as
// "PostgreSQL 9.2.4 (openGauss 5.0.0 build a07d57c3)". The PostgreSQL
// compatibility version comes first and is skipped.
func (dialect GaussDBDialect) ParseBanner(banner string) (sqldialect.Version, error) {
	for _, marker := range []string{"GaussDB Kernel ", "openGauss ", "GaussDB "} {
		if i := strings.Index(banner, marker); i >= 0 {
			return sqldialect.ParseVersion(banner[i+len(marker):])
		}
	}
	return sqldialect.ParseVersion(banner)
}

func (dialect GaussDBDialect) ColumnType(code sqldialect.SQLType) string {
	switch code {
	case sqldialect.TINYINT:
		return "smallint"
	case sqldialect.NCHAR:
		return dialect.ColumnType(sqldialect.CHAR)
	case sqldialect.NVARCHAR:
		return dialect.ColumnType(sqldialect.VARCHAR)
	case sqldialect.LONG32VARCHAR, sqldialect.LONG32NVARCHAR:
		return "text"
	case sqldialect.NCLOB:
		return "clob"
	case sqldialect.BINARY, sqldialect.VARBINARY, sqldialect.LONG32VARBINARY:
		return "bytea"
	case sqldialect.TIMESTAMP_UTC:
		return dialect.ColumnType(sqldialect.TIMESTAMP_WITH_TIMEZONE)
	case sqldialect.UUID:
		return "uuid"
	case sqldialect.JSON:
		return "jsonb"
	case sqldialect.INET:
		return "inet"
	case sqldialect.INTERVAL_SECOND:
		return "interval second($s)"
	case sqldialect.STRUCT:
		return ""
	}
	return dialect.Base.ColumnType(code)
}

func (dialect GaussDBDialect) CastType(code sqldialect.SQLType) string {
	switch code {
	case sqldialect.CHAR, sqldialect.NCHAR, sqldialect.VARCHAR, sqldialect.NVARCHAR:
		return "varchar"
	case sqldialect.LONG32VARCHAR, sqldialect.LONG32NVARCHAR:
		return "text"
	case sqldialect.CLOB, sqldialect.NCLOB:
		return "clob"
	case sqldialect.BINARY, sqldialect.VARBINARY, sqldialect.LONG32VARBINARY:
		return "bytea"
	}
	return dialect.ColumnType(code)
}

func (dialect GaussDBDialect) Sizing() sqldialect.Sizing {
	sizing := sqldialect.DefaultSizing
	sizing.MaxVarcharLength = 10485760
	sizing.MaxVarbinaryLength = sqldialect.LongLength
	sizing.MaxIdentifierLength = 63
	return sizing
}

func (dialect GaussDBDialect) ExtractPattern(unit sqldialect.TemporalUnit) string {
	if unit == sqldialect.DAY_OF_WEEK {
		return "(" + sqldialect.DefaultExtractPattern + "+1)"
	}
	return sqldialect.DefaultExtractPattern
}

func (dialect GaussDBDialect) TranslateExtractField(unit sqldialect.TemporalUnit) string {
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

// nativeNanos is the length of the NATIVE unit, a second.
const nativeNanos = 1000000000

func intervalPattern(unit sqldialect.TemporalUnit) string {
	switch unit {
	case sqldialect.NANOSECOND:
		return "(?2)/1e3*interval '1 microsecond'"
	case sqldialect.NATIVE:
		return "(?2)*interval '1 second'"
	case sqldialect.QUARTER:
		return "(?2)*interval '3 month'"
	case sqldialect.WEEK:
		return "(?2)*interval '7 day'"
	}
	return "(?2)*interval '1 " + unit.String() + "'"
}

func (dialect GaussDBDialect) TimestampaddPattern(unit sqldialect.TemporalUnit, temporalType sqldialect.TemporalType, interval bool) (string, error) {
	if interval {
		return "(?2+?3)", nil
	}
	return "cast(?3+" + intervalPattern(unit) + " as " + temporalType.String() + ")", nil
}

func (dialect GaussDBDialect) TimestampdiffPattern(unit sqldialect.TemporalUnit, from, to sqldialect.TemporalType) (string, error) {
	switch unit {
	case sqldialect.YEAR:
		return "extract(year from ?3-?2)", nil
	case sqldialect.QUARTER:
		return "(extract(year from ?3-?2)*4+extract(month from ?3-?2)/3)", nil
	case sqldialect.MONTH:
		return "(extract(year from ?3-?2)*12+extract(month from ?3-?2))", nil
	case sqldialect.WEEK:
		// week cannot be extracted from an interval
		return "(extract(day from ?3-?2)/7)", nil
	case sqldialect.DAY:
		return "extract(day from ?3-?2)", nil
	case sqldialect.HOUR, sqldialect.MINUTE, sqldialect.SECOND, sqldialect.NANOSECOND, sqldialect.NATIVE:
		factor, err := sqldialect.EPOCH.ConversionFactor(unit, nativeNanos)
		if err != nil {
			return "", err
		}
		return "extract(epoch from ?3-?2)" + factor, nil
	}
	return "", &sqldialect.UnsupportedUnitError{Dialect: dialect.Name(), Operation: "timestampdiff", Unit: unit}
}

func (dialect GaussDBDialect) DateTimeLiteral(t time.Time, temporalType sqldialect.TemporalType, withOffset bool) (string, error) {
	return sqldialect.ANSILiteral(t, temporalType, withOffset, sqldialect.FormatTimestampMicros)
}

func (dialect GaussDBDialect) lockSupport() sqldialect.LockSupport {
	return dialect.Features().LockSupport()
}

func (dialect GaussDBDialect) ForUpdateOf(aliases string) string {
	if aliases == "" {
		return dialect.ForUpdateString()
	}
	return dialect.ForUpdateString() + " of " + aliases
}

func (dialect GaussDBDialect) ForUpdateNowaitString(aliases string) string {
	return dialect.lockSupport().WithTimeout(dialect.ForUpdateOf(aliases), sqldialect.NoWait)
}

func (dialect GaussDBDialect) ForUpdateSkipLockedString(aliases string) string {
	return dialect.lockSupport().WithTimeout(dialect.ForUpdateOf(aliases), sqldialect.SkipLocked)
}

func (dialect GaussDBDialect) WriteLockString(aliases string, timeout sqldialect.Timeout) string {
	return dialect.lockSupport().WithTimeout(dialect.ForUpdateOf(aliases), timeout)
}

func (dialect GaussDBDialect) ReadLockString(aliases string, timeout sqldialect.Timeout) string {
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

func (dialect GaussDBDialect) TranslateError(err error) error {
	return sqldialect.TranslateWith(err, nil, classify, sqldialect.StandardClassifier)
}

func (dialect GaussDBDialect) Param(identifier int) string {
	return "$" + strconv.Itoa(identifier)
}

func (dialect GaussDBDialect) QuoteIdentifier(identifier string) string {
	return pgx.Identifier(strings.Split(identifier, ".")).Sanitize()
}

func (dialect GaussDBDialect) NormalizeIdentifier(identifier string) string {
	return sqldialect.NormalizeIdentifierCase(identifier, sqldialect.LowerCase)
}

func (dialect GaussDBDialect) LimitHandler() sqldialect.LimitHandler {
	return sqldialect.LimitCommaHandler{MaxRows: "2147483647"}
}

func (dialect GaussDBDialect) Sequences() sqldialect.SequenceSupport {
	return sqldialect.SequenceSyntax{
		NextValueTemplate: "nextval('?1')",
		CreateTemplate:    "create sequence ?1 start with ?2 increment by ?3",
		DropTemplate:      "drop sequence if exists ?1",
		Query:             "select * from information_schema.sequences",
	}
}

func (dialect GaussDBDialect) Identity() sqldialect.IdentityColumnSupport {
	return sqldialect.IdentitySyntax{
		ColumnTypes: map[sqldialect.SQLType]string{
			sqldialect.SMALLINT: "smallserial",
			sqldialect.INTEGER:  "serial",
			sqldialect.BIGINT:   "bigserial",
		},
		Select:      "select currval('?1_?2_seq')",
		InsertValue: "default",
	}
}

func (dialect GaussDBDialect) Features() sqldialect.Features {
	return sqldialect.Features{
		WindowFunctions:         true,
		ValuesList:              true,
		IfExistsBeforeTableName: true,
		NullPrecedence:          true,
		NoWait:                  true,
		SkipLocked:              true,
		OffsetInSubquery:        true,
		TemporalLiteralOffset:   true,
		CaseInsensitiveLike:     "ilike",
	}
}

func (dialect GaussDBDialect) CurrentTimestampSelectString() string {
	return "select now()"
}

func (dialect GaussDBDialect) CurrentValue(temporalType sqldialect.TemporalType) string {
	switch temporalType {
	case sqldialect.TemporalDate:
		return "current_date"
	case sqldialect.TemporalTime:
		return "localtime"
	}
	return "localtimestamp"
}

func (dialect GaussDBDialect) NoColumnsInsertString() string {
	return "default values"
}

func (dialect GaussDBDialect) CascadeConstraintsString() string {
	return " cascade"
}

func (dialect GaussDBDialect) TableExistsQuery(table string) string {
	return fmt.Sprintf("select count(*) from information_schema.tables where table_schema=current_schema() and table_name=%s", sqldialect.QuoteString(table))
}

func (dialect GaussDBDialect) BooleanLiteral(value bool) string {
	return sqldialect.KeywordBooleanLiteral(value)
}

func (dialect GaussDBDialect) UUIDLiteral(id uuid.UUID) string {
	return "cast(" + sqldialect.StringUUIDLiteral(id) + " as uuid)"
}

func (dialect GaussDBDialect) BinaryLiteral(value []byte) string {
	return fmt.Sprintf("bytea '\\x%x'", value)
}
