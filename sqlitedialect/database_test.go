package sqlitedialect

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/evantbyrne/sqldialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

type testAccount struct {
	Id    int64   `db:"id" db_primary:"true"`
	Email string  `db:"email" db_max_length:"320" db_unique:"true"`
	Age   int32   `db:"age"`
	Note  *string `db:"note"`
}

func openMemory(t *testing.T) (*sql.DB, *sqldialect.Executor) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// each connection to :memory: is its own database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db, sqldialect.NewExecutor(db, SqliteDialect{Version: sqldialect.MakeVersion(3, 45)})
}

func TestDatabaseRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, executor := openMemory(t)
	table, err := sqldialect.Use[testAccount](sqldialect.Config{Table: "accounts"})
	require.NoError(t, err)

	created, err := executor.CreateTable(ctx, table, sqldialect.TableCreateConfig{IfNotExists: true})
	require.NoError(t, err)
	assert.True(t, created)

	exists, err := executor.TableExists(ctx, "accounts")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = executor.Insert(ctx, table, testAccount{Email: "a@example.com", Age: 30})
	require.NoError(t, err)
	_, err = executor.Insert(ctx, table, &testAccount{Email: "b@example.com", Age: 40})
	require.NoError(t, err)

	_, err = executor.Insert(ctx, table, testAccount{Email: "a@example.com", Age: 50})
	require.Error(t, err)
	assert.True(t, errors.Is(err, sqldialect.ErrUniqueViolation), "got %v", err)
	var sqlErr *sqldialect.Error
	require.True(t, errors.As(err, &sqlErr))
	assert.Equal(t, sqldialect.UniqueViolation, sqlErr.Kind)

	count, err := executor.Count(ctx, *sqldialect.From("accounts").Filter("age", ">=", 35))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	rows, err := executor.Query(ctx, sqldialect.From("accounts").Columns("email").Filter("email", "ILIKE", "A@%").OrderBy("-id").Take(5))
	require.NoError(t, err)
	defer rows.Close()
	emails := make([]string, 0)
	for rows.Next() {
		var email string
		require.NoError(t, rows.Scan(&email))
		emails = append(emails, email)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"a@example.com"}, emails)

	_, err = executor.Update(ctx, "accounts", map[string]interface{}{"age": 41}, sqldialect.Q("email", "=", "b@example.com"))
	require.NoError(t, err)
	count, err = executor.Count(ctx, *sqldialect.From("accounts").Filter("age", "=", 41))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = executor.Delete(ctx, "accounts", sqldialect.Q("id", "IN", []int64{}))
	require.NoError(t, err)
	_, err = executor.Delete(ctx, "accounts", sqldialect.Q("age", "<", 100))
	require.NoError(t, err)
	count, err = executor.Count(ctx, *sqldialect.From("accounts"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	created, err = executor.CreateTable(ctx, table, sqldialect.TableCreateConfig{IfNotExists: true})
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, executor.DropTable(ctx, "accounts", sqldialect.TableDropConfig{IfExists: true}))
	exists, err = executor.TableExists(ctx, "accounts")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDatabaseNotNull(t *testing.T) {
	ctx := context.Background()
	_, executor := openMemory(t)
	_, err := executor.Exec(ctx, "create table t (id integer primary key, name varchar(10) not null)")
	require.NoError(t, err)
	_, err = executor.Exec(ctx, "insert into t (name) values (null)")
	assert.True(t, errors.Is(err, sqldialect.ErrNotNullViolation), "got %v", err)
}

type createAccounts struct{}

func (createAccounts) Up(ctx context.Context, executor *sqldialect.Executor) error {
	table, err := sqldialect.Use[testAccount](sqldialect.Config{Table: "accounts"})
	if err != nil {
		return err
	}
	_, err = executor.CreateTable(ctx, table, sqldialect.TableCreateConfig{})
	return err
}

func (createAccounts) Down(ctx context.Context, executor *sqldialect.Executor) error {
	return executor.DropTable(ctx, "accounts", sqldialect.TableDropConfig{})
}

type addAccountColumn struct{}

func (addAccountColumn) Up(ctx context.Context, executor *sqldialect.Executor) error {
	_, err := executor.Exec(ctx, "alter table `accounts` add column `plan` varchar(20)")
	return err
}

func (addAccountColumn) Down(ctx context.Context, executor *sqldialect.Executor) error {
	stmt, err := sqldialect.BuildTableColumnDrop(executor.Dialect, "accounts", "plan")
	if err != nil {
		return err
	}
	_, err = executor.Exec(ctx, stmt)
	return err
}

func TestMigrations(t *testing.T) {
	ctx := context.Background()
	_, executor := openMemory(t)
	migrations := []sqldialect.Migration{createAccounts{}, addAccountColumn{}}

	logs, err := sqldialect.MigrateUp(ctx, executor, migrations)
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	logs, err = sqldialect.MigrateUp(ctx, executor, migrations)
	require.NoError(t, err)
	assert.Empty(t, logs)

	logs, err = sqldialect.MigrateDown(ctx, executor, migrations)
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	exists, err := executor.TableExists(ctx, "accounts")
	require.NoError(t, err)
	assert.False(t, exists)

	count, err := executor.Count(ctx, *sqldialect.From("migrationlogs"))
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}
