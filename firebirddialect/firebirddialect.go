package firebirddialect

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/evantbyrne/sqldialect"
	"github.com/google/uuid"
)

// MinimumVersion is used when no version is configured.
var MinimumVersion = sqldialect.MakeVersion(2, 5)

type FirebirdDialect struct {
	sqldialect.Base
	Version sqldialect.Version
}

func init() {
	sqldialect.Register("firebird", func(options sqldialect.Options) (sqldialect.Dialect, error) {
		return FirebirdDialect{Version: options.Version}, nil
	}, "firebirdsql", "interbase")
}

func (dialect FirebirdDialect) Name() string {
	return "firebird"
}

func (dialect FirebirdDialect) DatabaseVersion() sqldialect.Version {
	if dialect.Version.IsZero() {
		return MinimumVersion
	}
	return dialect.Version
}

func (dialect FirebirdDialect) before4() bool {
	return dialect.DatabaseVersion().IsBefore(4)
}

func (dialect FirebirdDialect) ColumnType(code sqldialect.SQLType) string {
	switch code {
	case sqldialect.BOOLEAN:
		if dialect.DatabaseVersion().IsBefore(3) {
			return "smallint"
		}
	case sqldialect.TINYINT:
		return "smallint"
	case sqldialect.TIME, sqldialect.TIME_UTC:
		return "time"
	case sqldialect.TIMESTAMP, sqldialect.TIMESTAMP_UTC:
		return "timestamp"
	case sqldialect.TIME_WITH_TIMEZONE:
		if dialect.before4() {
			return "time"
		}
		return "time with time zone"
	case sqldialect.TIMESTAMP_WITH_TIMEZONE:
		if dialect.before4() {
			return "timestamp"
		}
		return "timestamp with time zone"
	case sqldialect.BINARY:
		if dialect.before4() {
			return "char($l) character set octets"
		}
	case sqldialect.VARBINARY:
		if dialect.before4() {
			return "varchar($l) character set octets"
		}
	case sqldialect.BLOB, sqldialect.LONGVARBINARY, sqldialect.LONG32VARBINARY:
		return "blob sub_type binary"
	case sqldialect.CLOB, sqldialect.NCLOB, sqldialect.LONGVARCHAR, sqldialect.LONG32VARCHAR,
		sqldialect.LONGNVARCHAR, sqldialect.LONG32NVARCHAR, sqldialect.JSON, sqldialect.SQLXML:
		return "blob sub_type text"
	case sqldialect.UUID:
		return "char(16) character set octets"
	}
	return dialect.Base.ColumnType(code)
}

// CastType always carries a length; Firebird rejects cast(x as varchar).
func (dialect FirebirdDialect) CastType(code sqldialect.SQLType) string {
	sizing := dialect.Sizing()
	switch {
	case code.IsCharacter():
		return "varchar(" + strconv.Itoa(sizing.MaxVarcharLength) + ")"
	case code.IsBinary():
		if dialect.before4() {
			return "varchar(" + strconv.Itoa(sizing.MaxVarbinary()) + ") character set octets"
		}
		return "varbinary(" + strconv.Itoa(sizing.MaxVarbinary()) + ")"
	}
	return dialect.ColumnType(code)
}

func (dialect FirebirdDialect) Sizing() sqldialect.Sizing {
	sizing := sqldialect.DefaultSizing
	sizing.DefaultTimestampPrecision = 3
	sizing.MaxVarcharLength = 8_191
	sizing.MaxVarbinaryLength = 32_765
	if dialect.before4() {
		sizing.FloatPrecision = 21
		sizing.DefaultDecimalPrecision = 18
		sizing.MaxIdentifierLength = 31
	} else {
		sizing.FloatPrecision = 24
		sizing.DefaultDecimalPrecision = 38
		sizing.MaxIdentifierLength = 63
	}
	return sizing
}

func (dialect FirebirdDialect) ExtractPattern(unit sqldialect.TemporalUnit) string {
	switch unit {
	case sqldialect.DAY_OF_WEEK, sqldialect.DAY_OF_YEAR:
		return "(" + sqldialect.DefaultExtractPattern + "+1)"
	case sqldialect.QUARTER:
		return "((extract(month from ?2)+2)/3)"
	}
	return sqldialect.DefaultExtractPattern
}

func (dialect FirebirdDialect) TranslateExtractField(unit sqldialect.TemporalUnit) string {
	switch unit {
	case sqldialect.DAY_OF_MONTH:
		return "day"
	case sqldialect.DAY_OF_YEAR:
		return "yearday"
	case sqldialect.DAY_OF_WEEK:
		return "weekday"
	}
	return sqldialect.DefaultTranslateExtractField(unit)
}

func (dialect FirebirdDialect) TimestampaddPattern(unit sqldialect.TemporalUnit, temporalType sqldialect.TemporalType, interval bool) (string, error) {
	switch unit {
	case sqldialect.NATIVE:
		return "dateadd((?2) millisecond to ?3)", nil
	case sqldialect.NANOSECOND:
		return "dateadd((?2)/1e6 millisecond to ?3)", nil
	case sqldialect.WEEK:
		return "dateadd((?2)*7 day to ?3)", nil
	case sqldialect.QUARTER:
		return "dateadd((?2)*3 month to ?3)", nil
	}
	return "dateadd(?2 ?1 to ?3)", nil
}

func (dialect FirebirdDialect) TimestampdiffPattern(unit sqldialect.TemporalUnit, from, to sqldialect.TemporalType) (string, error) {
	switch unit {
	case sqldialect.NATIVE:
		return "datediff(millisecond from ?2 to ?3)", nil
	case sqldialect.NANOSECOND:
		return "datediff(millisecond from ?2 to ?3)*1e6", nil
	case sqldialect.WEEK:
		return "datediff(day from ?2 to ?3)/7", nil
	case sqldialect.QUARTER:
		return "datediff(month from ?2 to ?3)/3", nil
	}
	return "datediff(?1 from ?2 to ?3)", nil
}

// withSpacedOffset appends the zone offset separated by a space, the only
// form Firebird accepts inside time and timestamp literals.
func withSpacedOffset(body string, t time.Time, withOffset bool) string {
	if !withOffset {
		return body
	}
	return body + " " + t.Format("-07:00")
}

func (dialect FirebirdDialect) DateTimeLiteral(t time.Time, temporalType sqldialect.TemporalType, withOffset bool) (string, error) {
	withOffset = withOffset && dialect.Features().TemporalLiteralOffset
	switch temporalType {
	case sqldialect.TemporalDate:
		return "date '" + sqldialect.FormatDate(t) + "'", nil
	case sqldialect.TemporalTime:
		return "time '" + withSpacedOffset(sqldialect.FormatTime(t, false), t, withOffset) + "'", nil
	case sqldialect.TemporalTimestamp:
		return "timestamp '" + withSpacedOffset(sqldialect.FormatTimestampMillis(t, false), t, withOffset) + "'", nil
	}
	return "", fmt.Errorf("sqldialect: unsupported temporal type %s", temporalType)
}

// Locks are taken on fetch; "for update" would force one row per fetch.

func (dialect FirebirdDialect) ForUpdateString() string {
	return " with lock"
}

func (dialect FirebirdDialect) ForUpdateOf(aliases string) string {
	return dialect.ForUpdateString()
}

func (dialect FirebirdDialect) ForUpdateNowaitString(aliases string) string {
	return dialect.ForUpdateString()
}

func (dialect FirebirdDialect) ForUpdateSkipLockedString(aliases string) string {
	return dialect.ForUpdateString()
}

func (dialect FirebirdDialect) WriteLockString(aliases string, timeout sqldialect.Timeout) string {
	return dialect.ForUpdateString()
}

func (dialect FirebirdDialect) ReadLockString(aliases string, timeout sqldialect.Timeout) string {
	return dialect.ForUpdateString()
}

var (
	keyConstraintPattern   = regexp.MustCompile(`violation of .+? constraint "([^"]+)"`)
	checkConstraintPattern = regexp.MustCompile(`Operation violates CHECK constraint (.+?) on view or table`)
)

func constraintName(info sqldialect.ErrorInfo) string {
	if match := keyConstraintPattern.FindStringSubmatch(info.Message); match != nil {
		return match[1]
	}
	if match := checkConstraintPattern.FindStringSubmatch(info.Message); match != nil {
		return match[1]
	}
	return ""
}

// classify maps ISC status codes. Older clients report the less specific
// codes first, so the message heuristics run last.
func classify(info sqldialect.ErrorInfo) sqldialect.ErrorKind {
	switch info.Code {
	case 335544336: // isc_deadlock, also raised for update conflicts
		if strings.Contains(info.Message, "update conflicts with concurrent update") {
			return sqldialect.LockTimeout
		}
		return sqldialect.LockAcquisition
	case 335544345, 335544510: // isc_lock_conflict, isc_lock_timeout
		return sqldialect.LockTimeout
	case 335544474, 335544475, 335544476: // isc_bad_lock_level, isc_relation_lock, isc_record_lock
		return sqldialect.LockAcquisition
	case 335544466, 336396758:
		return sqldialect.ForeignKeyViolation
	case 335544558, 336396991:
		return sqldialect.CheckViolation
	case 335544665: // isc_unique_key_violation
		return sqldialect.UniqueViolation
	}
	if strings.Contains(info.Message, "violation of ") || strings.Contains(info.Message, "violates CHECK constraint") {
		return sqldialect.ConstraintViolation
	}
	return sqldialect.Unknown
}

func (dialect FirebirdDialect) TranslateError(err error) error {
	return sqldialect.TranslateWith(err, constraintName, classify, sqldialect.StandardClassifier)
}

func (dialect FirebirdDialect) LimitHandler() sqldialect.LimitHandler {
	if dialect.DatabaseVersion().IsBefore(3) {
		return sqldialect.FirstSkipHandler{}
	}
	return sqldialect.OffsetFetchHandler{}
}

// offByIncrementSequences compensates for Firebird 3 returning the start
// value plus the increment as the first value of a new sequence.
type offByIncrementSequences struct {
	sqldialect.SequenceSyntax
}

func (sequences offByIncrementSequences) CreateSequence(name string, start, increment int) (string, error) {
	return sequences.SequenceSyntax.CreateSequence(name, start-increment, increment)
}

func (dialect FirebirdDialect) Sequences() sqldialect.SequenceSupport {
	version := dialect.DatabaseVersion()
	syntax := sqldialect.SequenceSyntax{
		NextValueTemplate: "next value for ?1",
		SelectTemplate:    "select ?1 from rdb$database",
		CreateTemplate:    "create sequence ?1 start with ?2 increment by ?3",
		DropTemplate:      "drop sequence ?1",
		Query:             "select rdb$generator_name,rdb$initial_value,rdb$generator_increment from rdb$generators where coalesce(rdb$system_flag,0)=0",
	}
	switch {
	case version.IsSameOrAfter(4):
		return syntax
	case version.IsSame(3):
		return offByIncrementSequences{syntax}
	case version.IsSame(2):
		syntax.CreateTemplate = "create sequence ?1"
	default:
		syntax.NextValueTemplate = "gen_id(?1,1)"
		syntax.CreateTemplate = "create generator ?1"
		syntax.DropTemplate = "drop generator ?1"
	}
	syntax.Query = "select rdb$generator_name from rdb$generators"
	return syntax
}

func (dialect FirebirdDialect) Identity() sqldialect.IdentityColumnSupport {
	if dialect.DatabaseVersion().IsBefore(3) {
		return sqldialect.IdentitySyntax{}
	}
	return sqldialect.IdentitySyntax{
		Column:   "generated by default as identity",
		DataType: true,
	}
}

func (dialect FirebirdDialect) Features() sqldialect.Features {
	version := dialect.DatabaseVersion()
	return sqldialect.Features{
		WindowFunctions:       version.IsSameOrAfter(3),
		Lateral:               version.IsSameOrAfter(4),
		RecursiveCTE:          true,
		NullPrecedence:        version.IsSameOrAfter(1, 5),
		TemporalLiteralOffset: version.IsSameOrAfter(4),
	}
}

func (dialect FirebirdDialect) CurrentTimestampSelectString() string {
	return "select current_timestamp from rdb$database"
}

func (dialect FirebirdDialect) NoColumnsInsertString() string {
	return "default values"
}

func (dialect FirebirdDialect) AddColumnString() string {
	return "add"
}

func (dialect FirebirdDialect) TableExistsQuery(table string) string {
	return fmt.Sprintf("select count(*) from rdb$relations where rdb$relation_name=%s", sqldialect.QuoteString(dialect.NormalizeIdentifier(table)))
}

func (dialect FirebirdDialect) VersionQuery() string {
	return "select rdb$get_context('SYSTEM','ENGINE_VERSION') from rdb$database"
}

func (dialect FirebirdDialect) BooleanLiteral(value bool) string {
	if dialect.DatabaseVersion().IsBefore(3) {
		return sqldialect.NumericBooleanLiteral(value)
	}
	return sqldialect.KeywordBooleanLiteral(value)
}

func (dialect FirebirdDialect) UUIDLiteral(id uuid.UUID) string {
	return "char_to_uuid(" + sqldialect.StringUUIDLiteral(id) + ")"
}
