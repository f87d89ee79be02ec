package sqldialect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Querier is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Executor runs statements rendered for Dialect, logging each one and
// translating driver errors into *Error values.
type Executor struct {
	DB      Querier
	Dialect Dialect
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// SlowThreshold logs statements taking longer at warn level. Zero
	// disables it.
	SlowThreshold time.Duration
}

func NewExecutor(db Querier, dialect Dialect) *Executor {
	return &Executor{
		DB:            db,
		Dialect:       dialect,
		SlowThreshold: 100 * time.Millisecond,
	}
}

// Exec runs stmt on db with a default executor.
func Exec(ctx context.Context, db Querier, dialect Dialect, stmt string, args ...any) (sql.Result, error) {
	return NewExecutor(db, dialect).Exec(ctx, stmt, args...)
}

func (executor *Executor) logger() *slog.Logger {
	if executor.Logger == nil {
		return slog.Default()
	}
	return executor.Logger
}

func (executor *Executor) observe(ctx context.Context, operation, stmt string, args []any, started time.Time, err error) error {
	duration := time.Since(started)
	logger := executor.logger()
	if err != nil {
		err = executor.Dialect.TranslateError(err)
		logger.ErrorContext(ctx, "statement failed",
			"dialect", executor.Dialect.Name(),
			"operation", operation,
			"query", stmt,
			"duration", duration,
			"error", err,
		)
		return err
	}
	if executor.SlowThreshold > 0 && duration > executor.SlowThreshold {
		logger.WarnContext(ctx, "slow query detected", "dialect", executor.Dialect.Name(), "duration", duration, "query", stmt, "args", args)
		return nil
	}
	logger.DebugContext(ctx, operation, "dialect", executor.Dialect.Name(), "query", stmt, "args", len(args), "duration", duration)
	return nil
}

func (executor *Executor) Exec(ctx context.Context, stmt string, args ...any) (sql.Result, error) {
	started := time.Now()
	result, err := executor.DB.ExecContext(ctx, stmt, args...)
	if err = executor.observe(ctx, "exec", stmt, args, started, err); err != nil {
		return nil, err
	}
	return result, nil
}

func (executor *Executor) Query(ctx context.Context, query DialectStringerWithArgs) (*sql.Rows, error) {
	stmt, args, err := query.StringWithArgs(executor.Dialect, nil)
	if err != nil {
		return nil, err
	}
	started := time.Now()
	rows, err := executor.DB.QueryContext(ctx, stmt, args...)
	if err = executor.observe(ctx, "query", stmt, args, started, err); err != nil {
		return nil, err
	}
	return rows, nil
}

// Count runs query as a count of its matching rows.
func (executor *Executor) Count(ctx context.Context, query Select) (int64, error) {
	query.Count = true
	stmt, args, err := query.Build(executor.Dialect)
	if err != nil {
		return 0, err
	}
	return executor.scanCount(ctx, stmt, args...)
}

func (executor *Executor) scanCount(ctx context.Context, stmt string, args ...any) (int64, error) {
	var count int64
	started := time.Now()
	err := executor.DB.QueryRowContext(ctx, stmt, args...).Scan(&count)
	if err = executor.observe(ctx, "query", stmt, args, started, err); err != nil {
		return 0, err
	}
	return count, nil
}

// TableExists runs the dialect's catalog query for table.
func (executor *Executor) TableExists(ctx context.Context, table string) (bool, error) {
	count, err := executor.scanCount(ctx, executor.Dialect.TableExistsQuery(table))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateTable creates table. With IfNotExists set on a dialect that cannot
// render it, the catalog is checked first instead.
func (executor *Executor) CreateTable(ctx context.Context, table *Table, config TableCreateConfig) (bool, error) {
	if config.IfNotExists && !executor.Dialect.Features().IfExistsBeforeTableName {
		exists, err := executor.TableExists(ctx, table.Name)
		if err != nil {
			return false, fmt.Errorf("sqldialect: check table '%s': %w", table.Name, err)
		}
		if exists {
			return false, nil
		}
		config.IfNotExists = false
	}
	stmt, err := BuildTableCreate(executor.Dialect, table, config)
	if err != nil {
		return false, err
	}
	if _, err := executor.Exec(ctx, stmt); err != nil {
		return false, err
	}
	return true, nil
}

func (executor *Executor) DropTable(ctx context.Context, table string, config TableDropConfig) error {
	stmt, err := BuildTableDrop(executor.Dialect, table, config)
	if err != nil {
		if !errors.Is(err, ErrIfExistsUnsupported) {
			return err
		}
		exists, err := executor.TableExists(ctx, table)
		if err != nil || !exists {
			return err
		}
		config.IfExists = false
		if stmt, err = BuildTableDrop(executor.Dialect, table, config); err != nil {
			return err
		}
	}
	_, err = executor.Exec(ctx, stmt)
	return err
}

// Insert writes row, a value or pointer of the struct type table was built
// from.
func (executor *Executor) Insert(ctx context.Context, table *Table, row interface{}) (sql.Result, error) {
	values, err := InsertValues(executor.Dialect, table, row)
	if err != nil {
		return nil, err
	}
	stmt, args, err := BuildInsert(executor.Dialect, table.Name, values)
	if err != nil {
		return nil, err
	}
	return executor.Exec(ctx, stmt, args...)
}

func (executor *Executor) Update(ctx context.Context, table string, values map[string]interface{}, filters ...FilterClause) (sql.Result, error) {
	stmt, args, err := BuildUpdate(executor.Dialect, table, values, filters...)
	if err != nil {
		return nil, err
	}
	return executor.Exec(ctx, stmt, args...)
}

func (executor *Executor) Delete(ctx context.Context, table string, filters ...FilterClause) (sql.Result, error) {
	stmt, args, err := BuildDelete(executor.Dialect, table, filters...)
	if err != nil {
		return nil, err
	}
	return executor.Exec(ctx, stmt, args...)
}
