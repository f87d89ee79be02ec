package sqlitedialect

import (
	"testing"
	"time"

	"github.com/evantbyrne/sqldialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnType(t *testing.T) {
	dialect := SqliteDialect{}
	expected := map[sqldialect.SQLType]string{
		sqldialect.BOOLEAN:                 "boolean",
		sqldialect.SMALLINT:                "integer",
		sqldialect.BIGINT:                  "integer",
		sqldialect.DOUBLE:                  "real",
		sqldialect.DECIMAL:                 "numeric",
		sqldialect.VARCHAR:                 "varchar($l)",
		sqldialect.CLOB:                    "text",
		sqldialect.JSON:                    "text",
		sqldialect.VARBINARY:               "blob",
		sqldialect.TIMESTAMP_WITH_TIMEZONE: "datetime",
		sqldialect.TIME_WITH_TIMEZONE:      "time",
		sqldialect.UUID:                    "char(36)",
	}
	for code, expected := range expected {
		if actual := dialect.ColumnType(code); actual != expected {
			t.Errorf("Expected '%s' for %s, got '%s'", expected, code, actual)
		}
	}

	ddl, err := sqldialect.ColumnDDL(dialect, sqldialect.VARCHAR, sqldialect.Size{Length: 100})
	require.NoError(t, err)
	assert.Equal(t, "varchar(100)", ddl)
	ddl, err = sqldialect.CastDDL(dialect, sqldialect.VARCHAR, sqldialect.Size{})
	require.NoError(t, err)
	assert.Equal(t, "text", ddl)
}

func TestExtract(t *testing.T) {
	dialect := SqliteDialect{}
	expected := map[sqldialect.TemporalUnit]string{
		sqldialect.SECOND:      "cast(strftime('%S.%f',?2) as real)",
		sqldialect.YEAR:        "cast(strftime('%Y',?2) as integer)",
		sqldialect.QUARTER:     "((cast(strftime('%m',?2) as integer)+2)/3)",
		sqldialect.DAY_OF_WEEK: "(cast(strftime('%w',?2) as integer)+1)",
		sqldialect.EPOCH:       "cast(strftime('%s',?2) as integer)",
		sqldialect.OFFSET:      "extract(?1 from ?2)",
	}
	for unit, expected := range expected {
		if actual := dialect.ExtractPattern(unit); actual != expected {
			t.Errorf("Expected '%s' for %s, got '%s'", expected, unit, actual)
		}
	}
}

func TestTimestampArithmetic(t *testing.T) {
	dialect := SqliteDialect{}
	add := map[sqldialect.TemporalUnit]string{
		sqldialect.MONTH:      "datetime(?3,'+'||?2||' ?1s')",
		sqldialect.QUARTER:    "datetime(?3,'+'||(?2*3)||' months')",
		sqldialect.WEEK:       "datetime(?3,'+'||(?2*7)||' days')",
		sqldialect.NANOSECOND: "datetime(?3,'+'||(?2/1e9)||' seconds')",
	}
	for unit, expected := range add {
		actual, err := dialect.TimestampaddPattern(unit, sqldialect.TemporalTimestamp, false)
		require.NoError(t, err)
		if actual != expected {
			t.Errorf("Expected '%s' for %s, got '%s'", expected, unit, actual)
		}
	}
	actual, err := dialect.TimestampaddPattern(sqldialect.DAY, sqldialect.TemporalDate, false)
	require.NoError(t, err)
	assert.Equal(t, "date(?3,'+'||?2||' ?1s')", actual)
	_, err = dialect.TimestampaddPattern(sqldialect.EPOCH, sqldialect.TemporalDate, false)
	var unsupported *sqldialect.UnsupportedUnitError
	assert.ErrorAs(t, err, &unsupported)

	diff := map[sqldialect.TemporalUnit]string{
		sqldialect.DAY:    "cast(julianday(?3)-julianday(?2) as integer)",
		sqldialect.HOUR:   "((julianday(?3)-julianday(?2))*24)",
		sqldialect.SECOND: "((julianday(?3)-julianday(?2))*86400)",
		sqldialect.WEEK:   "((julianday(?3)-julianday(?2))/7)",
		sqldialect.YEAR:   "(" + months + "/12)",
	}
	for unit, expected := range diff {
		actual, err := dialect.TimestampdiffPattern(unit, sqldialect.TemporalTimestamp, sqldialect.TemporalTimestamp)
		require.NoError(t, err)
		if actual != expected {
			t.Errorf("Expected '%s' for %s, got '%s'", expected, unit, actual)
		}
	}
}

func TestLiterals(t *testing.T) {
	dialect := SqliteDialect{}
	moment := time.Date(2024, 3, 5, 13, 4, 5, 123456789, time.UTC)
	tests := map[sqldialect.TemporalType]string{
		sqldialect.TemporalDate:      "date('2024-03-05')",
		sqldialect.TemporalTime:      "time('13:04:05')",
		sqldialect.TemporalTimestamp: "datetime('2024-03-05 13:04:05.123')",
	}
	for temporalType, expected := range tests {
		actual, err := dialect.DateTimeLiteral(moment, temporalType, false)
		require.NoError(t, err)
		if actual != expected {
			t.Errorf("Expected '%s' for %s, got '%s'", expected, temporalType, actual)
		}
	}

	assert.Equal(t, "1", dialect.BooleanLiteral(true))
	assert.Equal(t, "1", SqliteDialect{PreserveBooleans: true}.BooleanLiteral(true))
	assert.Equal(t, "true", SqliteDialect{PreserveBooleans: true, Version: sqldialect.MakeVersion(3, 45)}.BooleanLiteral(true))
	assert.Equal(t, "X'00ff'", dialect.BinaryLiteral([]byte{0x00, 0xff}))
	assert.Equal(t, "date('now')", dialect.CurrentValue(sqldialect.TemporalDate))
}

func TestLocking(t *testing.T) {
	dialect := SqliteDialect{}
	options := sqldialect.LockOptions{Mode: sqldialect.LockPessimisticWrite}
	assert.Equal(t, "", sqldialect.ForUpdateClause(dialect, "", options))
	assert.Equal(t, "users", dialect.LockHint("users", options))
}

type sqliteError struct {
	code    int
	message string
}

func (err sqliteError) Error() string {
	return err.message
}

func (err sqliteError) Code() int {
	return err.code
}

func TestTranslateError(t *testing.T) {
	dialect := SqliteDialect{}
	err := dialect.TranslateError(sqliteError{codeConstraintCheck, "constraint failed: CHECK constraint failed: ck_age (275)"})
	var classified *sqldialect.Error
	require.ErrorAs(t, err, &classified)
	assert.Equal(t, sqldialect.CheckViolation, classified.Kind)
	assert.Equal(t, "ck_age", classified.Constraint)

	tests := map[int]error{
		codeConstraintUnique:     sqldialect.ErrUniqueViolation,
		codeConstraintPrimaryKey: sqldialect.ErrUniqueViolation,
		codeConstraintForeignKey: sqldialect.ErrForeignKeyViolation,
		codeConstraintNotNull:    sqldialect.ErrNotNullViolation,
		codeConstraint:           sqldialect.ErrConstraintViolation,
		codeBusy:                 sqldialect.ErrLockAcquisition,
		517:                      sqldialect.ErrLockAcquisition,
		codeMismatch:             sqldialect.ErrDataException,
		codeInterrupt:            sqldialect.ErrQueryTimeout,
	}
	for code, sentinel := range tests {
		assert.ErrorIs(t, dialect.TranslateError(sqliteError{code, "failed"}), sentinel, code)
	}

	assert.True(t, IsCorrupt(sqliteError{codeNotADB, "file is not a database"}))
	assert.False(t, IsCorrupt(sqliteError{codeBusy, "database is locked"}))
}

func TestFunctions(t *testing.T) {
	registry := sqldialect.Functions(SqliteDialect{})
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"mod", []string{"a", "b"}, "(a%b)"},
		{"right", []string{"s", "2"}, "substr(s,length(s)-2+1)"},
		{"character_length", []string{"s"}, "length(s)"},
		{"locate", []string{"'a'", "s"}, "instr(s,'a')"},
		{"least", []string{"a", "b", "c"}, "min(a,b,c)"},
		{"ceiling", []string{"x"}, "(cast(x as integer)+(x>cast(x as integer)))"},
		{"truncate", []string{"x"}, "cast(x as integer)"},
		{"pi", nil, "acos(-1)"},
		{"listagg", []string{"name", "','"}, "group_concat(name,',')"},
		{"every", []string{"ok"}, "(min(case when ok then 1 else 0 end)=1)"},
	}
	for _, test := range tests {
		actual, err := registry.Render(test.name, test.args...)
		require.NoError(t, err, test.name)
		assert.Equal(t, test.expected, actual, test.name)
	}
	_, ok := registry.Lookup("row_number")
	assert.False(t, ok)

	recent := sqldialect.Functions(SqliteDialect{Version: sqldialect.MakeVersion(3, 45)})
	_, ok = recent.Lookup("row_number")
	assert.True(t, ok)
}

func TestStrategies(t *testing.T) {
	dialect := SqliteDialect{}
	tests := []struct {
		offset, limit int
		expected      string
	}{
		{0, 10, "select * from t limit 10"},
		{5, 10, "select * from t limit 10 offset 5"},
		{5, 0, "select * from t limit -1 offset 5"},
		{0, 0, "select * from t"},
	}
	for _, test := range tests {
		actual, err := dialect.LimitHandler().Apply("select * from t", test.offset, test.limit)
		require.NoError(t, err)
		assert.Equal(t, test.expected, actual)
	}

	assert.False(t, dialect.Sequences().Supported())
	identity := dialect.Identity()
	column, ok := identity.IdentityColumn(sqldialect.BIGINT)
	assert.True(t, ok)
	assert.Equal(t, "integer", column)
	assert.False(t, identity.HasDataTypeInIdentityColumn())
	selectID, ok := identity.IdentitySelect("users", "id", sqldialect.BIGINT)
	assert.True(t, ok)
	assert.Equal(t, "select last_insert_rowid()", selectID)
	assert.Equal(t, "null", identity.IdentityInsertValue())

	assert.False(t, dialect.Features().WindowFunctions)
	assert.False(t, dialect.DropColumnSupported())
	recent := SqliteDialect{Version: sqldialect.MakeVersion(3, 35, 5)}
	assert.True(t, recent.DropColumnSupported())
	assert.True(t, recent.Features().NullPrecedence)
	assert.Equal(t, "like", recent.Features().CaseInsensitiveLike)
}

func TestStatements(t *testing.T) {
	dialect := SqliteDialect{}
	assert.Equal(t, "?", dialect.Param(4))
	assert.Equal(t, "`main`.`users`", dialect.QuoteIdentifier("main.users"))
	assert.Equal(t, "Users", dialect.NormalizeIdentifier("Users"))
	assert.Equal(t, "default values", dialect.NoColumnsInsertString())
	assert.Equal(t, "add column", dialect.AddColumnString())
	assert.Equal(t, "select count(*) from sqlite_master where type='table' and name='users'", dialect.TableExistsQuery("users"))
	assert.Equal(t, "select sqlite_version()", dialect.VersionQuery())
}

func TestQuoteIdentifier(t *testing.T) {
	values := map[string]string{
		"abc":    "`abc`",
		"a`bc":   "`a``bc`",
		"a``b`c": "`a````b``c`",
		"`abc":   "```abc`",
		"abc`":   "`abc```",
		"ab\\`c": "`ab\\``c`",
		"abc\\":  "`abc\\`",
	}

	for identifier, expected := range values {
		actual := QuoteIdentifier(identifier)
		if actual != expected {
			t.Errorf("Expected %s, got %s", expected, actual)
		}
	}
}

func TestRegistered(t *testing.T) {
	dialect, err := sqldialect.Open("sqlite3", sqldialect.Options{Version: sqldialect.MakeVersion(3, 45, 1)})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", dialect.Name())
	assert.True(t, dialect.Features().WindowFunctions)
}
