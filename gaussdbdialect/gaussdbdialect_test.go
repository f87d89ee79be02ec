package gaussdbdialect

import (
	"testing"
	"time"

	"github.com/evantbyrne/sqldialect"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnType(t *testing.T) {
	dialect := GaussDBDialect{}
	expected := map[sqldialect.SQLType]string{
		sqldialect.TINYINT:         "smallint",
		sqldialect.NCHAR:           "char($l)",
		sqldialect.NVARCHAR:        "varchar($l)",
		sqldialect.LONG32VARCHAR:   "text",
		sqldialect.NCLOB:           "clob",
		sqldialect.VARBINARY:       "bytea",
		sqldialect.LONG32VARBINARY: "bytea",
		sqldialect.TIMESTAMP_UTC:   "timestamp($p) with time zone",
		sqldialect.UUID:            "uuid",
		sqldialect.JSON:            "jsonb",
		sqldialect.STRUCT:          "",
	}
	for code, expected := range expected {
		if actual := dialect.ColumnType(code); actual != expected {
			t.Errorf("Expected '%s' for %s, got '%s'", expected, code, actual)
		}
	}

	assert.Equal(t, "varchar", dialect.CastType(sqldialect.NVARCHAR))
	assert.Equal(t, "text", dialect.CastType(sqldialect.LONG32NVARCHAR))
	assert.Equal(t, "bytea", dialect.CastType(sqldialect.BINARY))
	assert.Equal(t, 10485760, dialect.Sizing().MaxVarcharLength)
	assert.Equal(t, 63, dialect.Sizing().MaxIdentifierLength)
}

func TestExtract(t *testing.T) {
	dialect := GaussDBDialect{}
	assert.Equal(t, "(extract(?1 from ?2)+1)", dialect.ExtractPattern(sqldialect.DAY_OF_WEEK))
	assert.Equal(t, "extract(?1 from ?2)", dialect.ExtractPattern(sqldialect.MONTH))
	assert.Equal(t, "doy", dialect.TranslateExtractField(sqldialect.DAY_OF_YEAR))
	assert.Equal(t, "dow", dialect.TranslateExtractField(sqldialect.DAY_OF_WEEK))
	assert.Equal(t, "day", dialect.TranslateExtractField(sqldialect.DAY_OF_MONTH))
}

func TestTimestampadd(t *testing.T) {
	dialect := GaussDBDialect{}
	expected := map[sqldialect.TemporalUnit]string{
		sqldialect.DAY:        "cast(?3+(?2)*interval '1 day' as date)",
		sqldialect.NATIVE:     "cast(?3+(?2)*interval '1 second' as date)",
		sqldialect.NANOSECOND: "cast(?3+(?2)/1e3*interval '1 microsecond' as date)",
		sqldialect.QUARTER:    "cast(?3+(?2)*interval '3 month' as date)",
	}
	for unit, expected := range expected {
		actual, err := dialect.TimestampaddPattern(unit, sqldialect.TemporalDate, false)
		require.NoError(t, err)
		if actual != expected {
			t.Errorf("Expected '%s' for %s, got '%s'", expected, unit, actual)
		}
	}

	actual, err := dialect.TimestampaddPattern(sqldialect.SECOND, sqldialect.TemporalTimestamp, true)
	require.NoError(t, err)
	assert.Equal(t, "(?2+?3)", actual)
}

func TestTimestampdiff(t *testing.T) {
	dialect := GaussDBDialect{}
	expected := map[sqldialect.TemporalUnit]string{
		sqldialect.YEAR:       "extract(year from ?3-?2)",
		sqldialect.QUARTER:    "(extract(year from ?3-?2)*4+extract(month from ?3-?2)/3)",
		sqldialect.MONTH:      "(extract(year from ?3-?2)*12+extract(month from ?3-?2))",
		sqldialect.WEEK:       "(extract(day from ?3-?2)/7)",
		sqldialect.DAY:        "extract(day from ?3-?2)",
		sqldialect.HOUR:       "extract(epoch from ?3-?2)/3600",
		sqldialect.SECOND:     "extract(epoch from ?3-?2)",
		sqldialect.NATIVE:     "extract(epoch from ?3-?2)",
		sqldialect.NANOSECOND: "extract(epoch from ?3-?2)*1e9",
	}
	for unit, expected := range expected {
		actual, err := dialect.TimestampdiffPattern(unit, sqldialect.TemporalTimestamp, sqldialect.TemporalTimestamp)
		require.NoError(t, err)
		if actual != expected {
			t.Errorf("Expected '%s' for %s, got '%s'", expected, unit, actual)
		}
	}

	_, err := dialect.TimestampdiffPattern(sqldialect.DAY_OF_YEAR, sqldialect.TemporalDate, sqldialect.TemporalDate)
	var unsupported *sqldialect.UnsupportedUnitError
	assert.ErrorAs(t, err, &unsupported)
}

func TestLocking(t *testing.T) {
	dialect := GaussDBDialect{}
	assert.Equal(t, " for update", dialect.ForUpdateString())
	assert.Equal(t, " for update of a", dialect.ForUpdateOf("a"))
	assert.Equal(t, " for update of a nowait", dialect.ForUpdateNowaitString("a"))
	assert.Equal(t, " for update skip locked", dialect.ForUpdateSkipLockedString(""))
	assert.Equal(t, " for update", dialect.WriteLockString("", 3000))
	assert.Equal(t, " for share of a nowait", dialect.ReadLockString("a", sqldialect.NoWait))
	assert.Equal(t, " for update of t skip locked", sqldialect.ForUpdateClause(dialect, "t", sqldialect.LockOptions{Mode: sqldialect.LockUpgradeSkipLocked}))
}

func TestTranslateError(t *testing.T) {
	dialect := GaussDBDialect{}
	tests := []struct {
		err      error
		sentinel error
	}{
		{&pq.Error{Code: "40P01"}, sqldialect.ErrLockAcquisition},
		{&pgconn.PgError{Code: "55P03"}, sqldialect.ErrPessimisticLock},
		{&pgconn.PgError{Code: "57014"}, sqldialect.ErrQueryTimeout},
		{&pq.Error{Code: "23503"}, sqldialect.ErrForeignKeyViolation},
	}
	for _, test := range tests {
		assert.ErrorIs(t, dialect.TranslateError(test.err), test.sentinel)
	}
}

func TestFunctions(t *testing.T) {
	registry := sqldialect.Functions(GaussDBDialect{})
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"format", []string{"d", "'YYYY'"}, "to_char(d,'YYYY')"},
		{"bitxor", []string{"a", "b"}, "(a#b)"},
		{"concat", []string{"a", "b"}, "(a||b)"},
		{"truncate", []string{"x", "2"}, "trunc(x,2)"},
		{"median", []string{"x"}, "percentile_cont(0.5) within group (order by x)"},
		{"listagg", []string{"x", "','"}, "string_agg(cast(x as varchar),',')"},
		{"soundex", []string{"x"}, "soundex(x)"},
		{"localtimestamp", nil, "localtimestamp"},
	}
	for _, test := range tests {
		actual, err := registry.Render(test.name, test.args...)
		require.NoError(t, err, test.name)
		assert.Equal(t, test.expected, actual, test.name)
	}
}

func TestLiterals(t *testing.T) {
	dialect := GaussDBDialect{}
	moment := time.Date(2024, 3, 5, 13, 4, 5, 123456789, time.UTC)

	actual, err := dialect.DateTimeLiteral(moment, sqldialect.TemporalTimestamp, false)
	require.NoError(t, err)
	assert.Equal(t, "timestamp '2024-03-05 13:04:05.123456'", actual)

	actual, err = dialect.DateTimeLiteral(moment, sqldialect.TemporalTime, true)
	require.NoError(t, err)
	assert.Equal(t, "time with time zone '13:04:05+00:00'", actual)

	assert.Equal(t, "false", dialect.BooleanLiteral(false))
	assert.Equal(t, "bytea '\\x0aff'", dialect.BinaryLiteral([]byte{0x0a, 0xff}))
	id := uuid.MustParse("0f14d0ab-9605-4a62-a9e4-5ed26688389b")
	assert.Equal(t, "cast('0f14d0ab-9605-4a62-a9e4-5ed26688389b' as uuid)", dialect.UUIDLiteral(id))
	assert.Equal(t, "localtime", dialect.CurrentValue(sqldialect.TemporalTime))
	assert.Equal(t, "localtimestamp", dialect.CurrentValue(sqldialect.TemporalTimestamp))
}

func TestIdentifiers(t *testing.T) {
	dialect := GaussDBDialect{}
	assert.Equal(t, "$1", dialect.Param(1))
	assert.Equal(t, `"public"."users"`, dialect.QuoteIdentifier("public.users"))
	assert.Equal(t, `"a""b"`, dialect.QuoteIdentifier(`a"b`))
	assert.Equal(t, "users", dialect.NormalizeIdentifier("Users"))
}

func TestStrategies(t *testing.T) {
	dialect := GaussDBDialect{}

	sql, err := dialect.LimitHandler().Apply("select * from t for update", 10, 5)
	require.NoError(t, err)
	assert.Equal(t, "select * from t limit 10, 5 for update", sql)

	sql, err = dialect.LimitHandler().Apply("select * from t", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, "select * from t limit 10, 2147483647", sql)

	create, err := dialect.Sequences().CreateSequence("seq", 1, 50)
	require.NoError(t, err)
	assert.Equal(t, "create sequence seq start with 1 increment by 50", create)

	drop, err := dialect.Sequences().DropSequence("seq")
	require.NoError(t, err)
	assert.Equal(t, "drop sequence if exists seq", drop)

	column, ok := dialect.Identity().IdentityColumn(sqldialect.BIGINT)
	assert.True(t, ok)
	assert.Equal(t, "bigserial", column)
	selectID, ok := dialect.Identity().IdentitySelect("users", "id", sqldialect.BIGINT)
	assert.True(t, ok)
	assert.Equal(t, "select currval('users_id_seq')", selectID)

	features := dialect.Features()
	assert.False(t, features.Lateral)
	assert.False(t, features.RecursiveCTE)
	assert.True(t, features.SkipLocked)
	assert.False(t, features.Wait)
}

func TestRegistered(t *testing.T) {
	dialect, err := sqldialect.Open("openGauss", sqldialect.Options{})
	require.NoError(t, err)
	assert.Equal(t, "gaussdb", dialect.Name())
	assert.Equal(t, "2.0.0", dialect.DatabaseVersion().String())
}

func TestParseBanner(t *testing.T) {
	tests := map[string]string{
		"PostgreSQL 9.2.4 (openGauss 5.0.0 build a07d57c3) compiled at 2023-03-29": "5.0.0",
		"PostgreSQL 9.2.4 (GaussDB Kernel 505.1.0 build 159cea95)":                 "505.1.0",
		"3.1": "3.1.0",
	}
	for banner, expected := range tests {
		version, err := GaussDBDialect{}.ParseBanner(banner)
		if err != nil {
			t.Errorf("%q: unexpected error: %s", banner, err)
			continue
		}
		if version.String() != expected {
			t.Errorf("Expected %s for %q, got %s", expected, banner, version)
		}
	}
}
