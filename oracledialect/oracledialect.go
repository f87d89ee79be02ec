package oracledialect

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/evantbyrne/sqldialect"
	"github.com/google/uuid"
)

// MinimumVersion is used when no version is configured.
var MinimumVersion = sqldialect.MakeVersion(8)

// nativeNanos is the length of the native unit. Durations are kept in
// seconds with a fractional part.
const nativeNanos = 1_000_000_000

type OracleDialect struct {
	sqldialect.Base
	Version sqldialect.Version
	// PreferLongRaw maps unbounded binary columns to long raw instead of blob.
	PreferLongRaw bool
}

func init() {
	sqldialect.Register("oracle", func(options sqldialect.Options) (sqldialect.Dialect, error) {
		return OracleDialect{Version: options.Version, PreferLongRaw: options.PreferLongRaw}, nil
	}, "godror", "ora")
}

func (dialect OracleDialect) Name() string {
	return "oracle"
}

func (dialect OracleDialect) DatabaseVersion() sqldialect.Version {
	if dialect.Version.IsZero() {
		return MinimumVersion
	}
	return dialect.Version
}

// before9 is true for databases without timestamp types or ANSI joins.
func (dialect OracleDialect) before9() bool {
	return dialect.DatabaseVersion().IsBefore(9)
}

func (dialect OracleDialect) ColumnType(code sqldialect.SQLType) string {
	version := dialect.DatabaseVersion()
	switch code {
	case sqldialect.BOOLEAN, sqldialect.BIT:
		return "number(1,0)"
	case sqldialect.TINYINT:
		return "number(3,0)"
	case sqldialect.SMALLINT:
		return "number(5,0)"
	case sqldialect.INTEGER:
		return "number(10,0)"
	case sqldialect.BIGINT:
		return "number(19,0)"
	case sqldialect.REAL:
		return "float(24)"
	case sqldialect.DOUBLE:
		// double precision would be float(126)
		return "float(53)"
	case sqldialect.NUMERIC, sqldialect.DECIMAL:
		return "number($p,$s)"
	case sqldialect.TIME:
		// date carries a time of day
		return "date"
	case sqldialect.TIMESTAMP, sqldialect.TIMESTAMP_WITH_TIMEZONE, sqldialect.TIMESTAMP_UTC:
		if dialect.before9() {
			return "date"
		}
		if code == sqldialect.TIMESTAMP {
			return "timestamp($p)"
		}
		return "timestamp($p) with time zone"
	case sqldialect.TIME_WITH_TIMEZONE:
		if dialect.before9() {
			return "date"
		}
		return "timestamp($p) with time zone"
	case sqldialect.VARCHAR:
		if dialect.before9() {
			return "varchar2($l)"
		}
		return "varchar2($l char)"
	case sqldialect.NVARCHAR:
		return "nvarchar2($l)"
	case sqldialect.BINARY, sqldialect.VARBINARY:
		return "raw($l)"
	case sqldialect.LONGVARBINARY, sqldialect.LONG32VARBINARY:
		if dialect.PreferLongRaw {
			return "long raw"
		}
		return "blob"
	case sqldialect.UUID:
		return "raw(16)"
	case sqldialect.SQLXML:
		return "SYS.XMLTYPE"
	case sqldialect.GEOMETRY:
		if version.IsSameOrAfter(10) {
			return "MDSYS.SDO_GEOMETRY"
		}
		return ""
	case sqldialect.JSON:
		switch {
		case version.IsSameOrAfter(21):
			return "json"
		case version.IsSameOrAfter(12):
			return "blob"
		}
		return ""
	}
	return dialect.Base.ColumnType(code)
}

func (dialect OracleDialect) CastType(code sqldialect.SQLType) string {
	switch code {
	case sqldialect.CHAR, sqldialect.NCHAR, sqldialect.VARCHAR, sqldialect.LONGVARCHAR, sqldialect.LONG32VARCHAR:
		return "varchar2($l)"
	case sqldialect.NVARCHAR, sqldialect.LONGNVARCHAR, sqldialect.LONG32NVARCHAR:
		return "nvarchar2($l)"
	case sqldialect.BINARY, sqldialect.VARBINARY, sqldialect.LONGVARBINARY, sqldialect.LONG32VARBINARY:
		return "raw($l)"
	}
	return dialect.ColumnType(code)
}

func (dialect OracleDialect) Sizing() sqldialect.Sizing {
	version := dialect.DatabaseVersion()
	sizing := sqldialect.DefaultSizing
	// both grow to 32767 with MAX_STRING_SIZE=EXTENDED
	sizing.MaxVarcharLength = 4000
	sizing.MaxVarbinaryLength = 2000
	if version.IsSameOrAfter(10) {
		sizing.DefaultTimestampPrecision = 9
	}
	sizing.MaxIdentifierLength = 30
	if version.IsSameOrAfter(12, 2) {
		sizing.MaxIdentifierLength = 128
	}
	return sizing
}

// ExtractPattern reads most fields through to_char since extract on a date
// column only knows the date parts.
func (dialect OracleDialect) ExtractPattern(unit sqldialect.TemporalUnit) string {
	switch unit {
	case sqldialect.DAY_OF_WEEK:
		return "to_number(to_char(?2,'D'))"
	case sqldialect.DAY_OF_MONTH:
		return "to_number(to_char(?2,'DD'))"
	case sqldialect.DAY_OF_YEAR:
		return "to_number(to_char(?2,'DDD'))"
	case sqldialect.WEEK:
		return "to_number(to_char(?2,'IW'))"
	case sqldialect.WEEK_OF_YEAR:
		return "to_number(to_char(?2,'WW'))"
	case sqldialect.QUARTER:
		return "to_number(to_char(?2,'Q'))"
	case sqldialect.HOUR:
		return "to_number(to_char(?2,'HH24'))"
	case sqldialect.MINUTE:
		return "to_number(to_char(?2,'MI'))"
	case sqldialect.SECOND:
		return "to_number(to_char(?2,'SS'))"
	case sqldialect.EPOCH:
		return "trunc((cast(?2 at time zone 'UTC' as date) - date '1970-1-1')*86400)"
	}
	return sqldialect.DefaultExtractPattern
}

// addMonths keeps the day of month, clamped to the last day of the target month.
func addMonths(months string) string {
	target := "trunc(?3, 'MONTH') + numtoyminterval(" + months + ", 'MONTH')"
	return "(" + target + " + (least(extract(day from ?3), extract(day from last_day(" + target + "))) - 1))"
}

func (dialect OracleDialect) TimestampaddPattern(unit sqldialect.TemporalUnit, temporalType sqldialect.TemporalType, interval bool) (string, error) {
	switch unit {
	case sqldialect.YEAR:
		return addMonths("?2*12"), nil
	case sqldialect.QUARTER:
		return addMonths("?2*3"), nil
	case sqldialect.MONTH:
		return addMonths("?2"), nil
	case sqldialect.WEEK:
		if temporalType != sqldialect.TemporalDate {
			return "(?3+numtodsinterval((?2)*7,'day'))", nil
		}
		factor, err := unit.ConversionFactor(sqldialect.DAY, nativeNanos)
		if err != nil {
			return "", err
		}
		return "(?3+(?2)" + factor + ")", nil
	case sqldialect.DAY:
		if temporalType == sqldialect.TemporalDate {
			return "(?3+(?2))", nil
		}
		return "(?3+numtodsinterval(?2,'?1'))", nil
	case sqldialect.HOUR, sqldialect.MINUTE, sqldialect.SECOND:
		return "(?3+numtodsinterval(?2,'?1'))", nil
	case sqldialect.NANOSECOND:
		return "(?3+numtodsinterval((?2)/1e9,'second'))", nil
	case sqldialect.NATIVE:
		return "(?3+numtodsinterval(?2,'second'))", nil
	}
	return "", &sqldialect.UnsupportedUnitError{Dialect: dialect.Name(), Operation: "timestampadd", Unit: unit}
}

// extractField extracts field from the interval ?3-?2 converted to unit.
func extractField(field, unit sqldialect.TemporalUnit) (string, error) {
	pattern := "extract(" + field.String() + " from (?3-?2)"
	if field == sqldialect.YEAR || field == sqldialect.MONTH {
		pattern += " year(9) to month"
	}
	factor, err := field.ConversionFactor(unit, nativeNanos)
	if err != nil {
		return "", err
	}
	return pattern + ")" + factor, nil
}

func joinFields(unit sqldialect.TemporalUnit, fields ...sqldialect.TemporalUnit) (string, error) {
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		part, err := extractField(field, unit)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "+"), nil
}

func (dialect OracleDialect) TimestampdiffPattern(unit sqldialect.TemporalUnit, from, to sqldialect.TemporalType) (string, error) {
	hasTimePart := from != sqldialect.TemporalDate || to != sqldialect.TemporalDate
	days := "(?3-?2)"
	if hasTimePart {
		days = "(cast(?3 as date)-cast(?2 as date))"
	}
	switch unit {
	case sqldialect.YEAR:
		return extractField(sqldialect.YEAR, unit)
	case sqldialect.QUARTER, sqldialect.MONTH:
		sum, err := joinFields(unit, sqldialect.YEAR, sqldialect.MONTH)
		if err != nil {
			return "", err
		}
		return "(" + sum + ")", nil
	case sqldialect.DAY:
		return days, nil
	case sqldialect.WEEK, sqldialect.HOUR, sqldialect.MINUTE, sqldialect.SECOND:
		factor, err := sqldialect.DAY.ConversionFactor(unit, nativeNanos)
		if err != nil {
			return "", err
		}
		return "(" + days + factor + ")", nil
	case sqldialect.NATIVE, sqldialect.NANOSECOND:
		if !hasTimePart {
			factor, err := sqldialect.DAY.ConversionFactor(unit, nativeNanos)
			if err != nil {
				return "", err
			}
			return "((?3-?2)" + factor + ")", nil
		}
		fields := []sqldialect.TemporalUnit{sqldialect.DAY, sqldialect.HOUR, sqldialect.MINUTE, sqldialect.SECOND}
		if dialect.Features().Lateral {
			parts := make([]string, 0, len(fields))
			for _, field := range fields {
				factor, err := field.ConversionFactor(unit, nativeNanos)
				if err != nil {
					return "", err
				}
				parts = append(parts, "extract("+field.String()+" from t.i)"+factor)
			}
			return "(select " + strings.Join(parts, "+") + " from(select ?3-?2 i from dual)t)", nil
		}
		sum, err := joinFields(unit, fields...)
		if err != nil {
			return "", err
		}
		return "(" + sum + ")", nil
	}
	return "", &sqldialect.UnsupportedUnitError{Dialect: dialect.Name(), Operation: "timestampdiff", Unit: unit}
}

// DateTimeLiteral uses JDBC escapes, except for timestamps with an offset
// which only the ANSI syntax can carry.
func (dialect OracleDialect) DateTimeLiteral(t time.Time, temporalType sqldialect.TemporalType, withOffset bool) (string, error) {
	if temporalType == sqldialect.TemporalTimestamp && withOffset {
		return "timestamp '" + sqldialect.FormatTimestampNanos(t, true) + "'", nil
	}
	return sqldialect.JDBCEscapeLiteral(t, temporalType, withOffset, false)
}

// CastFromString converts a string in ISO format to temporalType. The default
// conversions depend on NLS settings.
func (dialect OracleDialect) CastFromString(temporalType sqldialect.TemporalType, withOffset bool) string {
	switch temporalType {
	case sqldialect.TemporalDate:
		return "to_date(?1,'YYYY-MM-DD')"
	case sqldialect.TemporalTime:
		return "to_date(?1,'HH24:MI:SS')"
	}
	if withOffset {
		return "to_timestamp_tz(?1,'YYYY-MM-DD HH24:MI:SS.FF9TZH:TZM')"
	}
	return "to_timestamp(?1,'YYYY-MM-DD HH24:MI:SS.FF9')"
}

// CastToString is the inverse of CastFromString.
func (dialect OracleDialect) CastToString(temporalType sqldialect.TemporalType, withOffset bool) string {
	switch temporalType {
	case sqldialect.TemporalDate:
		return "to_char(?1,'YYYY-MM-DD')"
	case sqldialect.TemporalTime:
		return "to_char(?1,'HH24:MI:SS')"
	}
	if withOffset {
		return "to_char(?1,'YYYY-MM-DD HH24:MI:SS.FF9TZH:TZM')"
	}
	return "to_char(?1,'YYYY-MM-DD HH24:MI:SS.FF9')"
}

func (dialect OracleDialect) lockSupport() sqldialect.LockSupport {
	return dialect.Features().LockSupport()
}

func (dialect OracleDialect) ForUpdateOf(aliases string) string {
	if aliases == "" {
		return dialect.ForUpdateString()
	}
	return " for update of " + aliases
}

func (dialect OracleDialect) ForUpdateNowaitString(aliases string) string {
	return dialect.ForUpdateOf(aliases) + " nowait"
}

func (dialect OracleDialect) ForUpdateSkipLockedString(aliases string) string {
	return dialect.ForUpdateOf(aliases) + " skip locked"
}

func (dialect OracleDialect) WriteLockString(aliases string, timeout sqldialect.Timeout) string {
	return dialect.lockSupport().WithTimeout(dialect.ForUpdateOf(aliases), timeout)
}

// ReadLockString is the write lock. There is no shared row lock.
func (dialect OracleDialect) ReadLockString(aliases string, timeout sqldialect.Timeout) string {
	return dialect.WriteLockString(aliases, timeout)
}

// constraintName reads the name between the first parentheses, as in
// "ORA-00001: unique constraint (APP.UK_EMAIL) violated".
func constraintName(info sqldialect.ErrorInfo) string {
	switch info.Code {
	case 1, 2290, 2291, 2292:
		return sqldialect.ExtractUsingTemplate(info.Message, "(", ")")
	}
	return ""
}

func classify(info sqldialect.ErrorInfo) sqldialect.ErrorKind {
	switch info.Code {
	case 30006, 54, 4021:
		return sqldialect.LockTimeout
	case 60, 4020:
		return sqldialect.LockAcquisition
	case 1013:
		return sqldialect.QueryTimeout
	case 1:
		return sqldialect.UniqueViolation
	case 2291, 2292:
		return sqldialect.ForeignKeyViolation
	case 1400:
		return sqldialect.NotNullViolation
	case 2290:
		return sqldialect.CheckViolation
	case 1407:
		return sqldialect.ConstraintViolation
	}
	return sqldialect.Unknown
}

func (dialect OracleDialect) TranslateError(err error) error {
	return sqldialect.TranslateWith(err, constraintName, classify, sqldialect.StandardClassifier)
}

func (dialect OracleDialect) Param(i int) string {
	return ":" + strconv.Itoa(i)
}

func (dialect OracleDialect) LimitHandler() sqldialect.LimitHandler {
	// the rewriter raised ORA-00918 on fetch clauses before 12.2
	if dialect.DatabaseVersion().IsSameOrAfter(12, 2) {
		return sqldialect.OffsetFetchHandler{}
	}
	return sqldialect.RowNumOracleHandler{}
}

func (dialect OracleDialect) Sequences() sqldialect.SequenceSupport {
	return sqldialect.SequenceSyntax{
		NextValueTemplate: "?1.nextval",
		SelectTemplate:    "select ?1 from dual",
		CreateTemplate:    "create sequence ?1 start with ?2 increment by ?3",
		DropTemplate:      "drop sequence ?1",
		Query:             "select * from all_sequences",
	}
}

func (dialect OracleDialect) Identity() sqldialect.IdentityColumnSupport {
	if dialect.DatabaseVersion().IsBefore(12) {
		return sqldialect.IdentitySyntax{}
	}
	// generated keys are read back through returning clauses
	return sqldialect.IdentitySyntax{
		Column:      "generated as identity",
		DataType:    true,
		InsertValue: "default",
	}
}

func (dialect OracleDialect) Features() sqldialect.Features {
	version := dialect.DatabaseVersion()
	return sqldialect.Features{
		WindowFunctions:  true,
		RecursiveCTE:     version.IsSameOrAfter(11, 2),
		Lateral:          version.IsSameOrAfter(12, 1),
		NoWait:           version.IsSameOrAfter(9),
		SkipLocked:       version.IsSameOrAfter(10),
		OffsetInSubquery: true,
	}
}

func (dialect OracleDialect) CurrentTimestampSelectString() string {
	if dialect.before9() {
		return "select sysdate from dual"
	}
	return "select systimestamp from dual"
}

func (dialect OracleDialect) CurrentValue(temporalType sqldialect.TemporalType) string {
	if dialect.before9() {
		return "sysdate"
	}
	if temporalType == sqldialect.TemporalDate {
		return "current_date"
	}
	return "current_timestamp"
}

// CurrentLocalTimestamp is the session time without a zone.
func (dialect OracleDialect) CurrentLocalTimestamp() string {
	if dialect.before9() {
		return "sysdate"
	}
	return "localtimestamp"
}

func (dialect OracleDialect) NoColumnsInsertString() string {
	return "values (default)"
}

func (dialect OracleDialect) CascadeConstraintsString() string {
	return " cascade constraints"
}

func (dialect OracleDialect) AddColumnString() string {
	return "add"
}

func (dialect OracleDialect) TableExistsQuery(table string) string {
	return "select count(*) from user_tables where table_name=" + sqldialect.QuoteString(dialect.NormalizeIdentifier(table))
}

func (dialect OracleDialect) VersionQuery() string {
	return "select banner from v$version where banner like 'Oracle%'"
}

func (dialect OracleDialect) UUIDLiteral(id uuid.UUID) string {
	return "hextoraw('" + strings.ToUpper(hex.EncodeToString(id[:])) + "')"
}

func (dialect OracleDialect) BinaryLiteral(value []byte) string {
	return "hextoraw('" + strings.ToUpper(hex.EncodeToString(value)) + "')"
}

// Dual is the one row table used by selects without a from clause.
func (dialect OracleDialect) Dual() string {
	return "dual"
}
