package db2dialect

import (
	"errors"
	"testing"
	"time"

	"github.com/evantbyrne/sqldialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnType(t *testing.T) {
	tests := []struct {
		version  sqldialect.Version
		code     sqldialect.SQLType
		expected string
	}{
		{sqldialect.Version{}, sqldialect.BOOLEAN, "smallint"},
		{sqldialect.MakeVersion(11), sqldialect.BOOLEAN, "boolean"},
		{sqldialect.Version{}, sqldialect.TINYINT, "smallint"},
		{sqldialect.Version{}, sqldialect.NUMERIC, "decimal($p,$s)"},
		{sqldialect.Version{}, sqldialect.VARBINARY, "varchar($l) for bit data"},
		{sqldialect.MakeVersion(11), sqldialect.VARBINARY, "varbinary($l)"},
		{sqldialect.Version{}, sqldialect.BINARY, "char($l) for bit data"},
		{sqldialect.Version{}, sqldialect.TIMESTAMP_WITH_TIMEZONE, "timestamp($p)"},
		{sqldialect.Version{}, sqldialect.TIME_WITH_TIMEZONE, "time"},
		{sqldialect.Version{}, sqldialect.BLOB, "blob"},
		{sqldialect.Version{}, sqldialect.SQLXML, "xml"},
	}
	for _, test := range tests {
		dialect := DB2Dialect{Version: test.version}
		if actual := dialect.ColumnType(test.code); actual != test.expected {
			t.Errorf("Expected '%s' for %s at %s, got '%s'", test.expected, test.code, dialect.DatabaseVersion(), actual)
		}
	}
}

func TestDecimalDefaults(t *testing.T) {
	ddl, err := sqldialect.ColumnDDL(DB2Dialect{}, sqldialect.DECIMAL, sqldialect.Size{})
	require.NoError(t, err)
	assert.Equal(t, "decimal(31,2)", ddl)
	assert.Equal(t, 32_672, DB2Dialect{}.Sizing().MaxVarcharLength)
	assert.Equal(t, 128, DB2Dialect{}.Sizing().MaxIdentifierLength)
}

func TestExtract(t *testing.T) {
	dialect := DB2Dialect{}
	assert.Equal(t, "week_iso(?2)", dialect.ExtractPattern(sqldialect.WEEK))
	assert.Equal(t, "extract(?1 from ?2)", dialect.ExtractPattern(sqldialect.DAY))
	assert.Equal(t, "doy", dialect.TranslateExtractField(sqldialect.DAY_OF_YEAR))
	assert.Equal(t, "dow", dialect.TranslateExtractField(sqldialect.DAY_OF_WEEK))
	assert.Equal(t, "day", dialect.TranslateExtractField(sqldialect.DAY_OF_MONTH))
}

func TestTimestampadd(t *testing.T) {
	dialect := DB2Dialect{}
	tests := []struct {
		unit         sqldialect.TemporalUnit
		temporalType sqldialect.TemporalType
		expected     string
	}{
		{sqldialect.DAY, sqldialect.TemporalTimestamp, "?3+(?2) ?1s"},
		{sqldialect.DAY, sqldialect.TemporalTime, "cast(?3 as timestamp)+(?2) ?1s"},
		{sqldialect.HOUR, sqldialect.TemporalDate, "cast(?3 as timestamp)+(?2) ?1s"},
		{sqldialect.WEEK, sqldialect.TemporalDate, "?3+((?2)*7) days"},
		{sqldialect.QUARTER, sqldialect.TemporalDate, "?3+((?2)*3) months"},
		{sqldialect.NANOSECOND, sqldialect.TemporalTimestamp, "?3+((?2)/1e9) seconds"},
		{sqldialect.NATIVE, sqldialect.TemporalTimestamp, "?3+(?2) seconds"},
	}
	for _, test := range tests {
		pattern, err := dialect.TimestampaddPattern(test.unit, test.temporalType, false)
		require.NoError(t, err)
		assert.Equal(t, test.expected, pattern)
	}
}

func TestTimestampdiff(t *testing.T) {
	dialect := DB2Dialect{}
	tests := []struct {
		unit     sqldialect.TemporalUnit
		from     sqldialect.TemporalType
		expected string
	}{
		{sqldialect.DAY, sqldialect.TemporalDate, "?1s_between(?3,?2)"},
		{sqldialect.MONTH, sqldialect.TemporalDate, "trunc(months_between(?3,?2))"},
		{sqldialect.QUARTER, sqldialect.TemporalTimestamp, "trunc(months_between(?3,?2)/3)"},
		{sqldialect.HOUR, sqldialect.TemporalDate, "?1s_between(cast(?3 as timestamp),cast(?2 as timestamp))"},
		{sqldialect.NATIVE, sqldialect.TemporalTimestamp, "(seconds_between(?3,?2)+(microsecond(?3)-microsecond(?2))/1e6)"},
		{sqldialect.NANOSECOND, sqldialect.TemporalTimestamp, "(seconds_between(?3,?2)*1e9+(microsecond(?3)-microsecond(?2))*1e3)"},
	}
	for _, test := range tests {
		pattern, err := dialect.TimestampdiffPattern(test.unit, test.from, test.from)
		require.NoError(t, err)
		assert.Equal(t, test.expected, pattern, test.unit.String())
	}
}

func TestLocking(t *testing.T) {
	old := DB2Dialect{}
	expected := map[string]string{
		" for read only with rs use and keep update locks": old.ForUpdateString(),
		" for read only with rs use and keep share locks":  old.ReadLockString("", sqldialect.SkipLocked),
	}
	for expected, actual := range expected {
		if expected != actual {
			t.Errorf("Expected '%s', got '%s'", expected, actual)
		}
	}
	assert.Equal(t, old.ForUpdateString(), old.ForUpdateSkipLockedString("a"))
	assert.Equal(t, old.ForUpdateString(), old.ForUpdateOf("a"))

	dialect := DB2Dialect{Version: sqldialect.MakeVersion(11, 5)}
	assert.Equal(t, " for read only with rs use and keep update locks skip locked data", dialect.ForUpdateSkipLockedString(""))
	assert.Equal(t, " for read only with rs use and keep update locks skip locked data", dialect.WriteLockString("", sqldialect.SkipLocked))
	assert.Equal(t, " for read only with rs use and keep share locks skip locked data", dialect.ReadLockString("", sqldialect.SkipLocked))
	assert.Equal(t, " for read only with rs use and keep update locks", dialect.WriteLockString("", 1000))
	assert.True(t, dialect.Features().SkipLocked)
}

type db2Error struct {
	message string
}

func (e db2Error) Error() string {
	return e.message
}

func TestTranslateError(t *testing.T) {
	dialect := DB2Dialect{}

	err := dialect.TranslateError(db2Error{"SQL0911N The current transaction has been rolled back. SQLCODE=-952, SQLSTATE=57014"})
	assert.ErrorIs(t, err, sqldialect.ErrLockTimeout)

	err = dialect.TranslateError(db2Error{"SQL0803N One or more values are duplicates. SQLCODE=-803, SQLSTATE=23505"})
	assert.ErrorIs(t, err, sqldialect.ErrUniqueViolation)

	err = dialect.TranslateError(db2Error{"interrupted SQLSTATE=57014"})
	assert.ErrorIs(t, err, sqldialect.ErrQueryTimeout)

	plain := errors.New("connection refused")
	assert.Equal(t, plain, dialect.TranslateError(plain))
}

func TestFunctions(t *testing.T) {
	registry := sqldialect.Functions(DB2Dialect{})
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"substr", []string{"s", "1", "2", "codeunits32"}, "substr(s,1,2,codeunits32)"},
		{"bit_length", []string{"s"}, "length(s)*8"},
		{"format", []string{"d", "'YYYY'"}, "varchar_format(d,'YYYY')"},
		{"posstr", []string{"s", "'x'"}, "posstr(s,'x')"},
		{"lower", []string{"s"}, "lcase(s)"},
		{"overlay", []string{"s", "'x'", "2"}, "overlay(s placing 'x' from 2 for character_length('x'))"},
		{"days_between", []string{"a", "b"}, "days_between(a,b)"},
	}
	for _, test := range tests {
		actual, err := registry.Render(test.name, test.args...)
		require.NoError(t, err, test.name)
		assert.Equal(t, test.expected, actual, test.name)
	}

	_, ok := registry.Lookup("listagg")
	assert.False(t, ok)

	recent := sqldialect.Functions(DB2Dialect{Version: sqldialect.MakeVersion(11, 1)})
	actual, err := recent.Render("listagg", "x", "','")
	require.NoError(t, err)
	assert.Equal(t, "listagg(x,',')", actual)
	actual, err = recent.Render("lower", "s")
	require.NoError(t, err)
	assert.Equal(t, "lower(s)", actual)
}

func TestLimitHandler(t *testing.T) {
	sql, err := DB2Dialect{}.LimitHandler().Apply("select a from t order by a", 10, 5)
	require.NoError(t, err)
	assert.Equal(t, "select * from (select row_.*,rownumber() over(order by order of row_) as rownumber_ from (select a from t order by a fetch first 15 rows only) as row_) as query_ where rownumber_>10 order by rownumber_", sql)

	sql, err = DB2Dialect{}.LimitHandler().Apply("select a from t", 0, 5)
	require.NoError(t, err)
	assert.Equal(t, "select a from t fetch first 5 rows only", sql)

	sql, err = DB2Dialect{Version: sqldialect.MakeVersion(11, 1)}.LimitHandler().Apply("select a from t", 10, 5)
	require.NoError(t, err)
	assert.Equal(t, "select a from t offset 10 rows fetch next 5 rows only", sql)
}

func TestSequences(t *testing.T) {
	next, err := DB2Dialect{}.Sequences().SelectNextValue("seq")
	require.NoError(t, err)
	assert.Equal(t, "values nextval for seq", next)

	recent := DB2Dialect{Version: sqldialect.MakeVersion(10, 5)}.Sequences()
	next, err = recent.NextValue("seq")
	require.NoError(t, err)
	assert.Equal(t, "next value for seq", next)
	drop, err := recent.DropSequence("seq")
	require.NoError(t, err)
	assert.Equal(t, "drop sequence seq restrict", drop)
	assert.Equal(t, "select * from syscat.sequences", recent.QuerySequences())
}

func TestLiterals(t *testing.T) {
	moment := time.Date(2024, 3, 5, 13, 4, 5, 0, time.UTC)
	literal, err := DB2Dialect{}.DateTimeLiteral(moment, sqldialect.TemporalDate, false)
	require.NoError(t, err)
	assert.Equal(t, "{d '2024-03-05'}", literal)

	assert.Equal(t, "1", DB2Dialect{}.BooleanLiteral(true))
	assert.Equal(t, "false", DB2Dialect{Version: sqldialect.MakeVersion(11)}.BooleanLiteral(false))
	assert.Equal(t, "BX'0AFF'", DB2Dialect{}.BinaryLiteral([]byte{0x0a, 0xff}))
	assert.Equal(t, "values current timestamp", DB2Dialect{}.CurrentTimestampSelectString())
	assert.Equal(t, "current date", DB2Dialect{}.CurrentValue(sqldialect.TemporalDate))
}

func TestRegistered(t *testing.T) {
	dialect, err := sqldialect.Open("DB2", sqldialect.Options{})
	require.NoError(t, err)
	assert.Equal(t, "9.0.0", dialect.DatabaseVersion().String())
	assert.Equal(t, `"USERS"`, dialect.QuoteIdentifier("USERS"))
	assert.Equal(t, "USERS", dialect.NormalizeIdentifier("users"))
	assert.Equal(t, "?", dialect.Param(1))
}
