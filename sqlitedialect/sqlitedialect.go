package sqlitedialect

import (
	"strings"
	"time"

	"github.com/evantbyrne/sqldialect"
)

// MinimumVersion is used when no version is configured.
var MinimumVersion = sqldialect.MakeVersion(3)

// nativeNanos is the length of the native unit. julianday arithmetic is
// done in days and converted to seconds.
const nativeNanos = 1_000_000_000

// Extended result codes of the sqlite3 C API.
const (
	codeBusy                 = 5
	codeLocked               = 6
	codeInterrupt            = 9
	codeCorrupt              = 11
	codeTooBig               = 18
	codeConstraint           = 19
	codeMismatch             = 20
	codeNotADB               = 26
	codeConstraintCheck      = 275
	codeConstraintForeignKey = 787
	codeConstraintNotNull    = 1299
	codeConstraintPrimaryKey = 1555
	codeConstraintUnique     = 2067
)

type SqliteDialect struct {
	sqldialect.Base
	Version sqldialect.Version
	// PreserveBooleans renders boolean literals as true and false instead of 1 and 0.
	PreserveBooleans bool
}

func init() {
	sqldialect.Register("sqlite", func(options sqldialect.Options) (sqldialect.Dialect, error) {
		return SqliteDialect{Version: options.Version}, nil
	}, "sqlite3")
}

func (dialect SqliteDialect) Name() string {
	return "sqlite"
}

func (dialect SqliteDialect) DatabaseVersion() sqldialect.Version {
	if dialect.Version.IsZero() {
		return MinimumVersion
	}
	return dialect.Version
}

// ColumnType names types by their affinity. SQLite accepts any type name and
// ignores lengths, so only the affinity matters.
func (dialect SqliteDialect) ColumnType(code sqldialect.SQLType) string {
	switch code {
	case sqldialect.BOOLEAN, sqldialect.BIT:
		return "boolean"
	case sqldialect.TINYINT, sqldialect.SMALLINT, sqldialect.INTEGER, sqldialect.BIGINT:
		return "integer"
	case sqldialect.FLOAT, sqldialect.REAL, sqldialect.DOUBLE:
		return "real"
	case sqldialect.NUMERIC, sqldialect.DECIMAL:
		return "numeric"
	case sqldialect.CHAR, sqldialect.NCHAR:
		return "char($l)"
	case sqldialect.VARCHAR, sqldialect.NVARCHAR:
		return "varchar($l)"
	case sqldialect.LONGVARCHAR, sqldialect.LONG32VARCHAR, sqldialect.LONGNVARCHAR, sqldialect.LONG32NVARCHAR,
		sqldialect.CLOB, sqldialect.NCLOB, sqldialect.JSON, sqldialect.SQLXML:
		return "text"
	case sqldialect.BINARY, sqldialect.VARBINARY, sqldialect.LONGVARBINARY, sqldialect.LONG32VARBINARY, sqldialect.BLOB:
		return "blob"
	case sqldialect.DATE:
		return "date"
	case sqldialect.TIME, sqldialect.TIME_WITH_TIMEZONE, sqldialect.TIME_UTC:
		return "time"
	case sqldialect.TIMESTAMP, sqldialect.TIMESTAMP_WITH_TIMEZONE, sqldialect.TIMESTAMP_UTC:
		return "datetime"
	case sqldialect.UUID:
		return "char(36)"
	}
	return dialect.Base.ColumnType(code)
}

func (dialect SqliteDialect) CastType(code sqldialect.SQLType) string {
	switch code {
	case sqldialect.CHAR, sqldialect.NCHAR, sqldialect.VARCHAR, sqldialect.NVARCHAR:
		return "text"
	}
	return dialect.ColumnType(code)
}

func (dialect SqliteDialect) Sizing() sqldialect.Sizing {
	sizing := sqldialect.DefaultSizing
	// SQLITE_MAX_LENGTH
	sizing.MaxVarcharLength = 1_000_000_000
	sizing.DefaultTimestampPrecision = 3
	return sizing
}

func (dialect SqliteDialect) ExtractPattern(unit sqldialect.TemporalUnit) string {
	switch unit {
	case sqldialect.SECOND:
		return "cast(strftime('%S.%f',?2) as real)"
	case sqldialect.MINUTE:
		return "cast(strftime('%M',?2) as integer)"
	case sqldialect.HOUR:
		return "cast(strftime('%H',?2) as integer)"
	case sqldialect.DAY, sqldialect.DAY_OF_MONTH:
		return "cast(strftime('%d',?2) as integer)"
	case sqldialect.MONTH:
		return "cast(strftime('%m',?2) as integer)"
	case sqldialect.YEAR:
		return "cast(strftime('%Y',?2) as integer)"
	case sqldialect.QUARTER:
		return "((cast(strftime('%m',?2) as integer)+2)/3)"
	case sqldialect.DAY_OF_WEEK:
		return "(cast(strftime('%w',?2) as integer)+1)"
	case sqldialect.DAY_OF_YEAR:
		return "cast(strftime('%j',?2) as integer)"
	case sqldialect.WEEK:
		return "cast(strftime('%W',?2) as integer)"
	case sqldialect.EPOCH:
		return "cast(strftime('%s',?2) as integer)"
	}
	return sqldialect.DefaultExtractPattern
}

func (dialect SqliteDialect) TimestampaddPattern(unit sqldialect.TemporalUnit, temporalType sqldialect.TemporalType, interval bool) (string, error) {
	function := "datetime"
	if temporalType == sqldialect.TemporalDate {
		function = "date"
	}
	switch unit {
	case sqldialect.NANOSECOND:
		return function + "(?3,'+'||(?2/1e9)||' seconds')", nil
	case sqldialect.NATIVE:
		return function + "(?3,'+'||?2||' seconds')", nil
	case sqldialect.QUARTER:
		return function + "(?3,'+'||(?2*3)||' months')", nil
	case sqldialect.WEEK:
		return function + "(?3,'+'||(?2*7)||' days')", nil
	case sqldialect.YEAR, sqldialect.MONTH, sqldialect.DAY, sqldialect.HOUR, sqldialect.MINUTE, sqldialect.SECOND:
		return function + "(?3,'+'||?2||' ?1s')", nil
	}
	return "", &sqldialect.UnsupportedUnitError{Dialect: dialect.Name(), Operation: "timestampadd", Unit: unit}
}

// months counts whole calendar months from ?2 to ?3.
const months = "((strftime('%Y',?3)-strftime('%Y',?2))*12+strftime('%m',?3)-strftime('%m',?2)-(strftime('%d %H:%M:%f',?3)<strftime('%d %H:%M:%f',?2)))"

func (dialect SqliteDialect) TimestampdiffPattern(unit sqldialect.TemporalUnit, from, to sqldialect.TemporalType) (string, error) {
	switch unit {
	case sqldialect.YEAR:
		return "(" + months + "/12)", nil
	case sqldialect.QUARTER:
		return "(" + months + "/3)", nil
	case sqldialect.MONTH:
		return months, nil
	case sqldialect.DAY:
		return "cast(julianday(?3)-julianday(?2) as integer)", nil
	case sqldialect.WEEK, sqldialect.HOUR, sqldialect.MINUTE, sqldialect.SECOND, sqldialect.NANOSECOND, sqldialect.NATIVE:
		factor, err := sqldialect.DAY.ConversionFactor(unit, nativeNanos)
		if err != nil {
			return "", err
		}
		return "((julianday(?3)-julianday(?2))" + factor + ")", nil
	}
	return "", &sqldialect.UnsupportedUnitError{Dialect: dialect.Name(), Operation: "timestampdiff", Unit: unit}
}

// DateTimeLiteral wraps the text in the date functions so comparisons with
// stored values see the canonical format.
func (dialect SqliteDialect) DateTimeLiteral(t time.Time, temporalType sqldialect.TemporalType, withOffset bool) (string, error) {
	switch temporalType {
	case sqldialect.TemporalDate:
		return "date('" + sqldialect.FormatDate(t) + "')", nil
	case sqldialect.TemporalTime:
		return "time('" + sqldialect.FormatTime(t, withOffset) + "')", nil
	case sqldialect.TemporalTimestamp:
		return "datetime('" + sqldialect.FormatTimestampMillis(t, withOffset) + "')", nil
	}
	return sqldialect.JDBCEscapeLiteral(t, temporalType, withOffset, false)
}

// SQLite has no row locks. The whole database is locked by writers.

func (dialect SqliteDialect) ForUpdateString() string {
	return ""
}

func (dialect SqliteDialect) ForUpdateOf(aliases string) string {
	return ""
}

func (dialect SqliteDialect) ForUpdateNowaitString(aliases string) string {
	return ""
}

func (dialect SqliteDialect) ForUpdateSkipLockedString(aliases string) string {
	return ""
}

func (dialect SqliteDialect) WriteLockString(aliases string, timeout sqldialect.Timeout) string {
	return ""
}

func (dialect SqliteDialect) ReadLockString(aliases string, timeout sqldialect.Timeout) string {
	return ""
}

// constraintName reads the name from "CHECK constraint failed: ck_age". Unique
// and not null failures only list the columns.
func constraintName(info sqldialect.ErrorInfo) string {
	if info.Code != codeConstraintCheck {
		return ""
	}
	const prefix = "constraint failed: "
	idx := strings.LastIndex(info.Message, prefix)
	if idx < 0 {
		return ""
	}
	name := info.Message[idx+len(prefix):]
	if end := strings.Index(name, " ("); end >= 0 {
		name = name[:end]
	}
	return strings.TrimSpace(name)
}

func classify(info sqldialect.ErrorInfo) sqldialect.ErrorKind {
	switch info.Code {
	case codeConstraintUnique, codeConstraintPrimaryKey:
		return sqldialect.UniqueViolation
	case codeConstraintForeignKey:
		return sqldialect.ForeignKeyViolation
	case codeConstraintNotNull:
		return sqldialect.NotNullViolation
	case codeConstraintCheck:
		return sqldialect.CheckViolation
	}
	switch info.Code & 0xff {
	case codeTooBig, codeMismatch:
		return sqldialect.DataException
	case codeBusy, codeLocked:
		return sqldialect.LockAcquisition
	case codeInterrupt:
		return sqldialect.QueryTimeout
	case codeConstraint:
		return sqldialect.ConstraintViolation
	}
	return sqldialect.Unknown
}

func (dialect SqliteDialect) TranslateError(err error) error {
	return sqldialect.TranslateWith(err, constraintName, classify)
}

// IsCorrupt reports whether err says the file is not a usable database.
func IsCorrupt(err error) bool {
	info, ok := sqldialect.ExtractErrorInfo(err)
	if !ok {
		return false
	}
	switch info.Code & 0xff {
	case codeCorrupt, codeNotADB:
		return true
	}
	return false
}

func (dialect SqliteDialect) Param(identifier int) string {
	return "?"
}

func (dialect SqliteDialect) QuoteIdentifier(identifier string) string {
	return sqldialect.QuoteIdentifierWith(identifier, "`", "`")
}

func QuoteIdentifier(identifier string) string {
	return "`" + strings.Replace(identifier, "`", "``", -1) + "`"
}

func (dialect SqliteDialect) NormalizeIdentifier(identifier string) string {
	return sqldialect.NormalizeIdentifierCase(identifier, sqldialect.MixedCase)
}

// LimitHandler writes limit -1 when only an offset is given, since offset
// is only accepted after a limit.
func (dialect SqliteDialect) LimitHandler() sqldialect.LimitHandler {
	return sqldialect.LimitOffsetHandler{OffsetOnlyLimit: "-1"}
}

// Identity columns are integer primary keys, which alias the rowid.
func (dialect SqliteDialect) Identity() sqldialect.IdentityColumnSupport {
	return sqldialect.IdentitySyntax{
		Column:      "integer",
		Select:      "select last_insert_rowid()",
		InsertValue: "null",
	}
}

func (dialect SqliteDialect) Features() sqldialect.Features {
	version := dialect.DatabaseVersion()
	return sqldialect.Features{
		WindowFunctions:         version.IsSameOrAfter(3, 25),
		RecursiveCTE:            version.IsSameOrAfter(3, 8, 3),
		ValuesList:              version.IsSameOrAfter(3, 7, 11),
		IfExistsBeforeTableName: true,
		NullPrecedence:          version.IsSameOrAfter(3, 30),
		OffsetInSubquery:        true,
		// like ignores case for ASCII letters
		CaseInsensitiveLike: "like",
	}
}

// DropColumnSupported is false before 3.35, where columns could only be
// removed by rebuilding the table.
func (dialect SqliteDialect) DropColumnSupported() bool {
	return dialect.DatabaseVersion().IsSameOrAfter(3, 35)
}

func (dialect SqliteDialect) CurrentValue(temporalType sqldialect.TemporalType) string {
	switch temporalType {
	case sqldialect.TemporalDate:
		return "date('now')"
	case sqldialect.TemporalTime:
		return "time('now')"
	}
	return "strftime('%Y-%m-%d %H:%M:%f','now')"
}

func (dialect SqliteDialect) NoColumnsInsertString() string {
	return "default values"
}

func (dialect SqliteDialect) TableExistsQuery(table string) string {
	return "select count(*) from sqlite_master where type='table' and name=" + sqldialect.QuoteString(table)
}

func (dialect SqliteDialect) VersionQuery() string {
	return "select sqlite_version()"
}

func (dialect SqliteDialect) BooleanLiteral(value bool) string {
	// true and false keywords arrived in 3.23
	if dialect.PreserveBooleans && dialect.DatabaseVersion().IsSameOrAfter(3, 23) {
		return sqldialect.KeywordBooleanLiteral(value)
	}
	return sqldialect.NumericBooleanLiteral(value)
}
