package singlestoredialect

import (
	"strings"
	"time"

	"github.com/evantbyrne/sqldialect"
)

// MinimumVersion is used when no version is configured.
var MinimumVersion = sqldialect.MakeVersion(8, 0)

// nativeNanos is the length of the native unit, a microsecond.
const nativeNanos = 1_000

// TableType selects the storage engine of created tables.
type TableType string

const (
	Rowstore    TableType = "rowstore"
	Columnstore TableType = "columnstore"
)

const (
	errLockWaitTimeout    = 1205
	errLockTableFull      = 1206
	errReadDuringRollback = 1207
	errDuplicateKey       = 1062
	errBadNull            = 1048
	errDeadlock           = 3572
)

type SingleStoreDialect struct {
	sqldialect.Base
	Version sqldialect.Version
	// TableType is written into create table statements when set.
	TableType TableType
	// ForUpdateLocking enables for update clauses. Without it, locking
	// selects are sent as plain selects.
	ForUpdateLocking bool
}

func init() {
	sqldialect.Register("singlestore", func(options sqldialect.Options) (sqldialect.Dialect, error) {
		if err := options.Validate(); err != nil {
			return nil, err
		}
		return SingleStoreDialect{
			Version:          options.Version,
			TableType:        TableType(strings.ToLower(options.TableType)),
			ForUpdateLocking: options.ForUpdateLocking,
		}, nil
	}, "memsql")
}

func (dialect SingleStoreDialect) Name() string {
	return "singlestore"
}

func (dialect SingleStoreDialect) DatabaseVersion() sqldialect.Version {
	if dialect.Version.IsZero() {
		return MinimumVersion
	}
	return dialect.Version
}

func (dialect SingleStoreDialect) ColumnType(code sqldialect.SQLType) string {
	switch code {
	case sqldialect.BOOLEAN:
		return "bit"
	case sqldialect.FLOAT, sqldialect.DOUBLE:
		return "double"
	case sqldialect.NUMERIC, sqldialect.DECIMAL:
		return "decimal($p,$s)"
	case sqldialect.TIMESTAMP, sqldialect.TIMESTAMP_UTC:
		return "datetime($p)"
	case sqldialect.TIMESTAMP_WITH_TIMEZONE:
		return "timestamp($p)"
	case sqldialect.TIME_WITH_TIMEZONE, sqldialect.TIME_UTC:
		return "time($p)"
	case sqldialect.NCHAR:
		return "char($l) character set utf8"
	case sqldialect.NVARCHAR:
		return "varchar($l) character set utf8"
	case sqldialect.LONGVARCHAR, sqldialect.LONG32VARCHAR, sqldialect.CLOB:
		return "longtext"
	case sqldialect.LONGNVARCHAR, sqldialect.LONG32NVARCHAR, sqldialect.NCLOB:
		return "longtext character set utf8"
	case sqldialect.LONGVARBINARY, sqldialect.LONG32VARBINARY, sqldialect.BLOB:
		return "longblob"
	case sqldialect.JSON:
		return "json"
	case sqldialect.GEOMETRY:
		return "geography"
	}
	return dialect.Base.ColumnType(code)
}

func (dialect SingleStoreDialect) CastType(code sqldialect.SQLType) string {
	switch code {
	case sqldialect.BOOLEAN, sqldialect.BIT:
		return "unsigned"
	case sqldialect.TINYINT, sqldialect.SMALLINT, sqldialect.INTEGER, sqldialect.BIGINT:
		return "signed"
	case sqldialect.CHAR, sqldialect.VARCHAR, sqldialect.LONGVARCHAR, sqldialect.LONG32VARCHAR, sqldialect.CLOB:
		return "char"
	case sqldialect.NCHAR, sqldialect.NVARCHAR, sqldialect.LONGNVARCHAR, sqldialect.LONG32NVARCHAR, sqldialect.NCLOB:
		return "char character set utf8"
	case sqldialect.BINARY, sqldialect.VARBINARY, sqldialect.LONGVARBINARY, sqldialect.LONG32VARBINARY, sqldialect.BLOB:
		return "binary"
	}
	return dialect.ColumnType(code)
}

func (dialect SingleStoreDialect) Sizing() sqldialect.Sizing {
	sizing := sqldialect.DefaultSizing
	sizing.FloatPrecision = 23
	sizing.DefaultDecimalPrecision = 65
	// row size limit of 65535 bytes, utf8 is three bytes per character
	sizing.MaxVarcharLength = 21_844
	sizing.MaxNVarcharLength = 21_844
	sizing.MaxVarbinaryLength = 65_533
	sizing.MaxIdentifierLength = 64
	sizing.DefaultTimestampPrecision = 6
	return sizing
}

func (dialect SingleStoreDialect) ExtractPattern(unit sqldialect.TemporalUnit) string {
	switch unit {
	case sqldialect.SECOND:
		return "(second(?2)+microsecond(?2)/1e6)"
	case sqldialect.WEEK:
		return "weekofyear(?2)"
	case sqldialect.DAY_OF_WEEK:
		return "dayofweek(?2)"
	case sqldialect.DAY_OF_MONTH:
		return "dayofmonth(?2)"
	case sqldialect.DAY_OF_YEAR:
		return "dayofyear(?2)"
	case sqldialect.EPOCH:
		return "unix_timestamp(?2)"
	}
	return "?1(?2)"
}

// timeValue turns a time of day into a timestamp, since timestampadd and
// timestampdiff reject bare times.
const timeValue = "to_timestamp(?N, 'HH24:MI:SS.FF6')"

func asTimestamp(position string) string {
	return strings.Replace(timeValue, "?N", position, 1)
}

func (dialect SingleStoreDialect) TimestampaddPattern(unit sqldialect.TemporalUnit, temporalType sqldialect.TemporalType, interval bool) (string, error) {
	target := "?3"
	if temporalType == sqldialect.TemporalTime {
		target = asTimestamp("?3")
	}
	var pattern string
	switch unit {
	case sqldialect.NANOSECOND:
		pattern = "timestampadd(microsecond,(?2)/1e3," + target + ")"
	case sqldialect.NATIVE:
		pattern = "timestampadd(microsecond,?2," + target + ")"
	case sqldialect.SECOND:
		pattern = "timestampadd(microsecond,?2 * 1000000," + target + ")"
	default:
		pattern = "timestampadd(?1,?2," + target + ")"
	}
	if temporalType == sqldialect.TemporalTime {
		pattern = "time(" + pattern + ")"
	}
	return pattern, nil
}

func (dialect SingleStoreDialect) TimestampdiffPattern(unit sqldialect.TemporalUnit, from, to sqldialect.TemporalType) (string, error) {
	fromValue, toValue := "?2", "?3"
	if from == sqldialect.TemporalTime {
		fromValue = asTimestamp("?2")
	}
	if to == sqldialect.TemporalTime {
		toValue = asTimestamp("?3")
	}
	switch unit {
	case sqldialect.NANOSECOND:
		return "timestampdiff(microsecond," + fromValue + "," + toValue + ")*1e3", nil
	case sqldialect.NATIVE:
		return "timestampdiff(microsecond," + fromValue + "," + toValue + ")", nil
	}
	return "timestampdiff(?1," + fromValue + "," + toValue + ")", nil
}

func (dialect SingleStoreDialect) DateTimeLiteral(t time.Time, temporalType sqldialect.TemporalType, withOffset bool) (string, error) {
	switch temporalType {
	case sqldialect.TemporalDate:
		return "date('" + sqldialect.FormatDate(t) + "')", nil
	case sqldialect.TemporalTime:
		return "time('" + sqldialect.FormatTime(t, false) + "')", nil
	case sqldialect.TemporalTimestamp:
		return "timestamp('" + sqldialect.FormatTimestampMicros(t, false) + "')", nil
	}
	return sqldialect.JDBCEscapeLiteral(t, temporalType, false, false)
}

var datetimeFormatReplacer = strings.NewReplacer(
	"%", "%%",
	"yyyy", "%Y",
	"yyy", "%Y",
	"yy", "%y",
	"y", "%Y",
	"MMMM", "%M",
	"MMM", "%b",
	"MM", "%m",
	"M", "%c",
	"ww", "%v",
	"w", "%v",
	"YYYY", "%x",
	"YYY", "%x",
	"YY", "%x",
	"Y", "%x",
	"EEEE", "%W",
	"EEE", "%a",
	"ee", "%w",
	"e", "%w",
	"dd", "%d",
	"d", "%e",
	"DDD", "%j",
	"DD", "%j",
	"D", "%j",
	"a", "%p",
	"hh", "%I",
	"HH", "%H",
	"h", "%l",
	"H", "%k",
	"mm", "%i",
	"m", "%i",
	"ss", "%S",
	"s", "%S",
	"SSSSSS", "%f",
	"SSSSS", "%f",
	"SSSS", "%f",
	"SSS", "%f",
	"SS", "%f",
	"S", "%f",
)

// DatetimeFormat translates a Java style pattern such as "yyyy-MM-dd HH:mm"
// into a date_format pattern. Quoted text is copied as is.
func (dialect SingleStoreDialect) DatetimeFormat(format string) string {
	var result strings.Builder
	for i, part := range strings.Split(format, "'") {
		if i%2 == 1 {
			result.WriteString(strings.ReplaceAll(part, "%", "%%"))
			continue
		}
		result.WriteString(datetimeFormatReplacer.Replace(part))
	}
	return result.String()
}

// Locking clauses are only written when enabled. Every lock mode shares
// the one for update form.

func (dialect SingleStoreDialect) ForUpdateString() string {
	if dialect.ForUpdateLocking {
		return " for update"
	}
	return ""
}

func (dialect SingleStoreDialect) ForUpdateOf(aliases string) string {
	return dialect.ForUpdateString()
}

func (dialect SingleStoreDialect) ForUpdateNowaitString(aliases string) string {
	return dialect.ForUpdateString()
}

func (dialect SingleStoreDialect) ForUpdateSkipLockedString(aliases string) string {
	return dialect.ForUpdateString()
}

func (dialect SingleStoreDialect) WriteLockString(aliases string, timeout sqldialect.Timeout) string {
	return dialect.ForUpdateString()
}

func (dialect SingleStoreDialect) ReadLockString(aliases string, timeout sqldialect.Timeout) string {
	return dialect.ForUpdateString()
}

// constraintName reads the key from "Duplicate entry 'x' for key 'uk_email'".
func constraintName(info sqldialect.ErrorInfo) string {
	if info.Code != errDuplicateKey && info.SQLState != "23000" {
		return ""
	}
	return sqldialect.ExtractUsingTemplate(info.Message, " for key '", "'")
}

func classify(info sqldialect.ErrorInfo) sqldialect.ErrorKind {
	switch info.Code {
	case errLockWaitTimeout, errDeadlock:
		return sqldialect.PessimisticLock
	case errLockTableFull, errReadDuringRollback:
		return sqldialect.LockAcquisition
	case errDuplicateKey:
		return sqldialect.UniqueViolation
	case errBadNull:
		return sqldialect.NotNullViolation
	}
	switch info.SQLState {
	case "41000":
		return sqldialect.LockTimeout
	case "40001":
		return sqldialect.LockAcquisition
	}
	return sqldialect.Unknown
}

func (dialect SingleStoreDialect) TranslateError(err error) error {
	return sqldialect.TranslateWith(err, constraintName, classify, sqldialect.StandardClassifier)
}

func (dialect SingleStoreDialect) Param(identifier int) string {
	return "?"
}

func (dialect SingleStoreDialect) QuoteIdentifier(identifier string) string {
	return sqldialect.QuoteIdentifierWith(identifier, "`", "`")
}

func QuoteIdentifier(identifier string) string {
	return "`" + strings.Replace(identifier, "`", "``", -1) + "`"
}

func (dialect SingleStoreDialect) NormalizeIdentifier(identifier string) string {
	return sqldialect.NormalizeIdentifierCase(identifier, sqldialect.MixedCase)
}

func (dialect SingleStoreDialect) LimitHandler() sqldialect.LimitHandler {
	return sqldialect.LimitCommaHandler{}
}

func (dialect SingleStoreDialect) Sequences() sqldialect.SequenceSupport {
	return sqldialect.SequenceSyntax{}
}

func (dialect SingleStoreDialect) Identity() sqldialect.IdentityColumnSupport {
	return sqldialect.IdentitySyntax{
		Column:   "not null auto_increment",
		DataType: true,
		Select:   "select last_insert_id()",
	}
}

func (dialect SingleStoreDialect) Features() sqldialect.Features {
	return sqldialect.Features{
		WindowFunctions:         true,
		RecursiveCTE:            true,
		ValuesList:              true,
		IfExistsBeforeTableName: true,
		OffsetInSubquery:        true,
		// the default collation ignores case
		CaseInsensitiveLike: "like",
	}
}

func (dialect SingleStoreDialect) CurrentTimestampSelectString() string {
	return "select now()"
}

func (dialect SingleStoreDialect) CurrentValue(temporalType sqldialect.TemporalType) string {
	switch temporalType {
	case sqldialect.TemporalDate:
		return "current_date"
	case sqldialect.TemporalTime:
		return "current_time(6)"
	}
	return "current_timestamp(6)"
}

func (dialect SingleStoreDialect) NoColumnsInsertString() string {
	return "() values ()"
}

func (dialect SingleStoreDialect) CreateTableString() string {
	if dialect.TableType == "" {
		return "create table"
	}
	return "create " + string(dialect.TableType) + " table"
}

func (dialect SingleStoreDialect) TableExistsQuery(table string) string {
	return "select count(*) from information_schema.tables where table_schema=database() and table_name=" + sqldialect.QuoteString(table)
}

// VersionQuery asks for the engine version; version() reports the MySQL
// compatibility level instead.
func (dialect SingleStoreDialect) VersionQuery() string {
	return "select @@memsql_version"
}

func (dialect SingleStoreDialect) BinaryLiteral(value []byte) string {
	return sqldialect.HexBinaryLiteral(value)
}

// StringLiteral quotes value, escaping backslashes as well as quotes.
func (dialect SingleStoreDialect) StringLiteral(value string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, "'", "''").Replace(value) + "'"
}

// EnumTypeDeclaration is the column type for a fixed set of values.
func (dialect SingleStoreDialect) EnumTypeDeclaration(values []string) string {
	quoted := make([]string, len(values))
	for i, value := range values {
		quoted[i] = dialect.StringLiteral(value)
	}
	return "enum (" + strings.Join(quoted, ",") + ")"
}

func (dialect SingleStoreDialect) TableComment(comment string) string {
	return " comment=" + dialect.StringLiteral(comment)
}

func (dialect SingleStoreDialect) ColumnComment(comment string) string {
	return " comment " + dialect.StringLiteral(comment)
}

// TemporaryTableCreateCommand creates session scoped tables. They are
// emptied rather than dropped after use.
func (dialect SingleStoreDialect) TemporaryTableCreateCommand() string {
	return "create temporary table if not exists"
}

func (dialect SingleStoreDialect) TemporaryTableDropCommand() string {
	return "delete from"
}

func (dialect SingleStoreDialect) DropUniqueKeyString() string {
	return "drop index"
}

func (dialect SingleStoreDialect) SelectGUIDString() string {
	return "select uuid()"
}
