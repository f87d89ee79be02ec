package sqlserverdialect

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/evantbyrne/sqldialect"
	"github.com/google/uuid"
)

// MinimumVersion is used when no version is configured. Major versions
// follow the product: 9 is 2005, 10 is 2008, 11 is 2012, 16 is 2022.
var MinimumVersion = sqldialect.MakeVersion(8)

type SQLServerDialect struct {
	sqldialect.Base
	Version sqldialect.Version
}

func init() {
	sqldialect.Register("sqlserver", func(options sqldialect.Options) (sqldialect.Dialect, error) {
		return SQLServerDialect{Version: options.Version}, nil
	}, "mssql", "azuresql")
}

func (dialect SQLServerDialect) Name() string {
	return "sqlserver"
}

func (dialect SQLServerDialect) DatabaseVersion() sqldialect.Version {
	if dialect.Version.IsZero() {
		return MinimumVersion
	}
	return dialect.Version
}

func (dialect SQLServerDialect) ColumnType(code sqldialect.SQLType) string {
	version := dialect.DatabaseVersion()
	switch code {
	case sqldialect.DOUBLE:
		// float defaults to double precision
		return "float"
	case sqldialect.UUID:
		return "uniqueidentifier"
	case sqldialect.SQLXML:
		return "xml"
	case sqldialect.GEOMETRY:
		if version.IsSameOrAfter(10) {
			return "geometry"
		}
		return ""
	}
	if version.IsBefore(9) {
		return dialect.Base.ColumnType(code)
	}
	switch code {
	// text and image are deprecated in favor of the max types
	case sqldialect.CLOB:
		return "varchar(max)"
	case sqldialect.NCLOB:
		return "nvarchar(max)"
	case sqldialect.BLOB:
		return "varbinary(max)"
	}
	if version.IsBefore(10) {
		return dialect.Base.ColumnType(code)
	}
	switch code {
	case sqldialect.DATE:
		return "date"
	case sqldialect.TIME:
		return "time"
	case sqldialect.TIMESTAMP, sqldialect.TIMESTAMP_UTC:
		return "datetime2($p)"
	case sqldialect.TIME_WITH_TIMEZONE, sqldialect.TIMESTAMP_WITH_TIMEZONE:
		return "datetimeoffset($p)"
	}
	return dialect.Base.ColumnType(code)
}

// CastType targets the max types since a cast length must be 1 to 8000 or max.
func (dialect SQLServerDialect) CastType(code sqldialect.SQLType) string {
	if dialect.DatabaseVersion().IsSameOrAfter(9) {
		switch code {
		case sqldialect.VARCHAR, sqldialect.LONG32VARCHAR, sqldialect.CLOB:
			return "varchar(max)"
		case sqldialect.NVARCHAR, sqldialect.LONG32NVARCHAR, sqldialect.NCLOB:
			return "nvarchar(max)"
		case sqldialect.VARBINARY, sqldialect.LONG32VARBINARY, sqldialect.BLOB:
			return "varbinary(max)"
		}
	}
	return dialect.ColumnType(code)
}

func (dialect SQLServerDialect) Sizing() sqldialect.Sizing {
	sizing := sqldialect.DefaultSizing
	sizing.MaxVarcharLength = 8000
	sizing.MaxVarbinaryLength = 8000
	sizing.MaxNVarcharLength = 4000
	sizing.MaxIdentifierLength = 128
	sizing.DefaultTimestampPrecision = 7
	return sizing
}

func (dialect SQLServerDialect) ExtractPattern(unit sqldialect.TemporalUnit) string {
	switch unit {
	case sqldialect.TIMEZONE_HOUR:
		return "(datepart(tz,?2)/60)"
	case sqldialect.TIMEZONE_MINUTE:
		return "(datepart(tz,?2)%60)"
	case sqldialect.SECOND:
		return "(datepart(second,?2)+datepart(nanosecond,?2)/1000000000)"
	case sqldialect.EPOCH:
		return "datediff_big(second, '1970-01-01', ?2)"
	case sqldialect.WEEK:
		// isowk arrived in 2008
		if dialect.DatabaseVersion().IsBefore(10) {
			return "((datepart(dy,dateadd(dd,datediff(dd,'17530101',?2)/7*7,'17530104'))+6)/7)"
		}
	}
	return "datepart(?1,?2)"
}

func (dialect SQLServerDialect) TranslateExtractField(unit sqldialect.TemporalUnit) string {
	switch unit {
	case sqldialect.WEEK:
		return "isowk"
	case sqldialect.OFFSET:
		return "tz"
	}
	return sqldialect.DefaultTranslateExtractField(unit)
}

// TimestampaddPattern splits nanosecond magnitudes into seconds and a
// remainder since dateadd casts its argument to int.
func (dialect SQLServerDialect) TimestampaddPattern(unit sqldialect.TemporalUnit, temporalType sqldialect.TemporalType, interval bool) (string, error) {
	switch unit {
	case sqldialect.NANOSECOND, sqldialect.NATIVE:
		return "dateadd(nanosecond,?2%1000000000,dateadd(second,?2/1000000000,?3))", nil
	}
	return "dateadd(?1,?2,?3)", nil
}

func (dialect SQLServerDialect) TimestampdiffPattern(unit sqldialect.TemporalUnit, from, to sqldialect.TemporalType) (string, error) {
	if unit == sqldialect.NATIVE {
		return "datediff_big(nanosecond,?2,?3)", nil
	}
	// datediff returns an int, which overflows quickly for fixed length units
	if unit.Normalized() == sqldialect.NANOSECOND {
		return "datediff_big(?1,?2,?3)", nil
	}
	return "datediff(?1,?2,?3)", nil
}

// DateTimeLiteral casts strings since the JDBC escapes reject microseconds.
func (dialect SQLServerDialect) DateTimeLiteral(t time.Time, temporalType sqldialect.TemporalType, withOffset bool) (string, error) {
	withOffset = withOffset && dialect.Features().TemporalLiteralOffset
	switch temporalType {
	case sqldialect.TemporalDate:
		return "cast('" + sqldialect.FormatDate(t) + "' as date)", nil
	case sqldialect.TemporalTime:
		return "cast('" + sqldialect.FormatTime(t, withOffset) + "' as time)", nil
	case sqldialect.TemporalTimestamp:
		if withOffset {
			return "cast('" + sqldialect.FormatTimestampMicros(t, true) + "' as datetimeoffset)", nil
		}
		return "cast('" + sqldialect.FormatTimestampMicros(t, false) + "' as datetime2)", nil
	}
	return sqldialect.JDBCEscapeLiteral(t, temporalType, withOffset, false)
}

var datetimeFormatReplacer = strings.NewReplacer(
	"EEEE", "dddd",
	"EEE", "ddd",
	"XXX", "K",
	"xxx", "zzz",
	"G", "g",
	"a", "tt",
	"S", "F",
	"x", "zz",
)

// DatetimeFormat converts a Java style pattern to a .NET format string for
// format(). Quoted text is kept, with double quotes around it.
func DatetimeFormat(format string) string {
	var result strings.Builder
	for i, part := range strings.Split(format, "'") {
		if i%2 == 1 {
			result.WriteString(`"` + part + `"`)
			continue
		}
		result.WriteString(datetimeFormatReplacer.Replace(part))
	}
	return result.String()
}

// TrimPattern renders trim with ?1 the string and ?2 the character. ltrim
// and rtrim only take a character from 2022.
func (dialect SQLServerDialect) TrimPattern(leading, trailing, whitespace bool) string {
	if dialect.DatabaseVersion().IsSameOrAfter(16) {
		switch {
		case leading && !trailing:
			if whitespace {
				return "ltrim(?1)"
			}
			return "ltrim(?1,?2)"
		case trailing && !leading:
			if whitespace {
				return "rtrim(?1)"
			}
			return "rtrim(?1,?2)"
		}
		if whitespace {
			return "trim(?1)"
		}
		return "trim(?2 from ?1)"
	}
	switch {
	case leading && !trailing:
		if whitespace {
			return "ltrim(?1)"
		}
		return "substring(?1,patindex('%[^'+?2+']%',?1),len(?1+'x')-1)"
	case trailing && !leading:
		if whitespace {
			return "rtrim(?1)"
		}
		return "reverse(substring(reverse(?1),patindex('%[^'+?2+']%',reverse(?1)),len(?1+'x')-1))"
	}
	if whitespace {
		return "ltrim(rtrim(?1))"
	}
	return "reverse(substring(reverse(substring(?1,patindex('%[^'+?2+']%',?1),len(?1+'x')-1)),patindex('%[^'+?2+']%',reverse(substring(?1,patindex('%[^'+?2+']%',?1),len(?1+'x')-1))),len(?1+'x')-1))"
}

// SQL Server locks through table hints, so none of the clauses appended
// after a select apply.

func (dialect SQLServerDialect) ForUpdateString() string {
	return ""
}

func (dialect SQLServerDialect) ForUpdateOf(aliases string) string {
	return ""
}

func (dialect SQLServerDialect) ForUpdateNowaitString(aliases string) string {
	return ""
}

func (dialect SQLServerDialect) ForUpdateSkipLockedString(aliases string) string {
	return ""
}

func (dialect SQLServerDialect) WriteLockString(aliases string, timeout sqldialect.Timeout) string {
	return ""
}

func (dialect SQLServerDialect) ReadLockString(aliases string, timeout sqldialect.Timeout) string {
	return ""
}

// LockHint appends a with (...) table hint for the lock mode applying to table.
func (dialect SQLServerDialect) LockHint(table string, options sqldialect.LockOptions) string {
	mode := options.ModeFor(table)
	if dialect.DatabaseVersion().IsBefore(9) {
		switch mode {
		case sqldialect.LockUpgradeNowait, sqldialect.LockPessimisticWrite, sqldialect.LockWrite:
			return table + " with (updlock,rowlock)"
		case sqldialect.LockPessimisticRead:
			return table + " with (holdlock,rowlock)"
		case sqldialect.LockUpgradeSkipLocked:
			return table + " with (updlock,rowlock,readpast)"
		}
		return table
	}

	skipLocked := options.Timeout == sqldialect.SkipLocked
	writeLock, readLock := "updlock,holdlock", "holdlock"
	if skipLocked {
		writeLock, readLock = "updlock", "updlock"
	}
	var modifiers string
	switch options.Timeout {
	case sqldialect.NoWait:
		modifiers = ",nowait"
	case sqldialect.SkipLocked:
		modifiers = ",readpast"
	}

	switch mode {
	case sqldialect.LockPessimisticWrite, sqldialect.LockWrite:
		return table + " with (" + writeLock + ",rowlock" + modifiers + ")"
	case sqldialect.LockPessimisticRead:
		return table + " with (" + readLock + ",rowlock" + modifiers + ")"
	case sqldialect.LockUpgradeSkipLocked:
		if options.Timeout == sqldialect.NoWait {
			return table + " with (updlock,rowlock,readpast,nowait)"
		}
		return table + " with (updlock,rowlock,readpast)"
	case sqldialect.LockUpgradeNowait:
		return table + " with (updlock,holdlock,rowlock,nowait)"
	}
	return table
}

func constraintName(info sqldialect.ErrorInfo) string {
	switch info.Code {
	case 2627:
		// Violation of UNIQUE KEY constraint 'UQ_x'. Cannot insert duplicate key in object 'dbo.t'.
		return sqldialect.ExtractUsingTemplate(info.Message, "'", "'")
	case 2601:
		return sqldialect.ExtractUsingTemplate(info.Message, "unique index '", "'")
	case 547:
		return sqldialect.ExtractUsingTemplate(info.Message, `constraint "`, `"`)
	}
	return ""
}

func classify(info sqldialect.ErrorInfo) sqldialect.ErrorKind {
	switch info.Code {
	case 1222:
		return sqldialect.LockTimeout
	case 1205:
		return sqldialect.LockAcquisition
	case 2627, 2601:
		return sqldialect.UniqueViolation
	case 515:
		return sqldialect.NotNullViolation
	case 547:
		switch {
		case strings.Contains(info.Message, "FOREIGN KEY"), strings.Contains(info.Message, "REFERENCE constraint"):
			return sqldialect.ForeignKeyViolation
		case strings.Contains(info.Message, "CHECK"):
			return sqldialect.CheckViolation
		}
		return sqldialect.ConstraintViolation
	}
	return sqldialect.Unknown
}

func (dialect SQLServerDialect) TranslateError(err error) error {
	if dialect.DatabaseVersion().IsBefore(9) {
		return sqldialect.TranslateWith(err, nil, sqldialect.StandardClassifier)
	}
	return sqldialect.TranslateWith(err, constraintName, sqldialect.StandardClassifier, classify)
}

func (dialect SQLServerDialect) Param(i int) string {
	return "@p" + strconv.Itoa(i)
}

func (dialect SQLServerDialect) QuoteIdentifier(identifier string) string {
	return sqldialect.QuoteIdentifierWith(identifier, "[", "]")
}

// NormalizeIdentifier leaves case alone. Collation decides whether it matters.
func (dialect SQLServerDialect) NormalizeIdentifier(identifier string) string {
	return sqldialect.NormalizeIdentifierCase(identifier, sqldialect.MixedCase)
}

func (dialect SQLServerDialect) LimitHandler() sqldialect.LimitHandler {
	version := dialect.DatabaseVersion()
	switch {
	case version.IsSameOrAfter(11):
		return sqldialect.OffsetFetchSQLServerHandler{}
	case version.IsSameOrAfter(9):
		return sqldialect.RowNumberSQLServerHandler{}
	}
	return sqldialect.TopHandler{}
}

func (dialect SQLServerDialect) Sequences() sqldialect.SequenceSupport {
	version := dialect.DatabaseVersion()
	if version.IsBefore(11) {
		return sqldialect.SequenceSyntax{}
	}
	syntax := sqldialect.SequenceSyntax{
		NextValueTemplate: "next value for ?1",
		CreateTemplate:    "create sequence ?1 start with ?2 increment by ?3",
		DropTemplate:      "drop sequence ?1",
		// upper case works with both case sensitive and insensitive collations
		Query: "select * from INFORMATION_SCHEMA.SEQUENCES",
	}
	if version.IsSameOrAfter(16) {
		syntax.DropTemplate = "drop sequence if exists ?1"
	}
	return syntax
}

func (dialect SQLServerDialect) Identity() sqldialect.IdentityColumnSupport {
	syntax := sqldialect.IdentitySyntax{
		Column:   "identity not null",
		DataType: true,
		Select:   "select @@identity",
	}
	// @@identity also sees rows inserted by triggers
	if dialect.DatabaseVersion().IsSameOrAfter(9) {
		syntax.Select = "select scope_identity()"
	}
	return syntax
}

func (dialect SQLServerDialect) Features() sqldialect.Features {
	version := dialect.DatabaseVersion()
	return sqldialect.Features{
		WindowFunctions:         true,
		Lateral:                 version.IsSameOrAfter(9),
		RecursiveCTE:            version.IsSameOrAfter(9),
		ValuesList:              version.IsSameOrAfter(10),
		IfExistsBeforeTableName: version.IsSameOrAfter(16),
		NoWait:                  version.IsSameOrAfter(9),
		SkipLocked:              version.IsSameOrAfter(9),
		OffsetInSubquery:        true,
		TemporalLiteralOffset:   version.IsSameOrAfter(10),
	}
}

func (dialect SQLServerDialect) CurrentValue(temporalType sqldialect.TemporalType) string {
	if dialect.DatabaseVersion().IsBefore(10) {
		return "getdate()"
	}
	switch temporalType {
	case sqldialect.TemporalDate:
		return "convert(date,getdate())"
	case sqldialect.TemporalTime:
		return "convert(time,getdate())"
	}
	return "sysdatetime()"
}

func (dialect SQLServerDialect) NoColumnsInsertString() string {
	return "default values"
}

func (dialect SQLServerDialect) AddColumnString() string {
	return "add"
}

func (dialect SQLServerDialect) TableExistsQuery(table string) string {
	return "select count(*) from INFORMATION_SCHEMA.TABLES where TABLE_NAME=" + sqldialect.QuoteString(table)
}

func (dialect SQLServerDialect) VersionQuery() string {
	return "select @@version"
}

// ParseBanner reads the build number from an @@version banner such as
// "Microsoft SQL Server 2019 (RTM) - 15.0.2000.5 (X64)". The marketing year
// comes first and is skipped.
func (dialect SQLServerDialect) ParseBanner(banner string) (sqldialect.Version, error) {
	if i := strings.Index(banner, " - "); i >= 0 {
		return sqldialect.ParseVersion(banner[i+3:])
	}
	return sqldialect.ParseVersion(banner)
}

func (dialect SQLServerDialect) CurrentSchemaQuery() string {
	return "select schema_name()"
}

func (dialect SQLServerDialect) UUIDLiteral(id uuid.UUID) string {
	return "cast('" + id.String() + "' as uniqueidentifier)"
}

func (dialect SQLServerDialect) BinaryLiteral(value []byte) string {
	return "0x" + hex.EncodeToString(value)
}

// QueryHint appends an option clause, keeping a trailing semicolon last.
func (dialect SQLServerDialect) QueryHint(sql, hints string) string {
	if dialect.DatabaseVersion().IsBefore(11) || hints == "" {
		return sql
	}
	if pos := strings.IndexByte(sql, ';'); pos >= 0 {
		return sql[:pos] + " OPTION (" + hints + ");"
	}
	return sql + " OPTION (" + hints + ")"
}

// TemporaryColumnAnnotation keeps character columns of temporary tables on
// the database collation instead of the one of tempdb.
func (dialect SQLServerDialect) TemporaryColumnAnnotation(code sqldialect.SQLType) string {
	switch code {
	case sqldialect.CHAR, sqldialect.NCHAR, sqldialect.VARCHAR, sqldialect.NVARCHAR, sqldialect.LONGVARCHAR, sqldialect.LONGNVARCHAR:
		return "collate database_default"
	}
	return ""
}
