package sqldialect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"time"
)

// Migration is one schema change. Both directions receive an executor bound
// to the target dialect.
type Migration interface {
	Down(ctx context.Context, executor *Executor) error
	Up(ctx context.Context, executor *Executor) error
}

type MigrationLogs struct {
	CreatedAt     time.Time `db:"created_at"`
	Direction     string    `db:"direction" db_max_length:"10"`
	Id            int64     `db:"id" primary_key:"true"`
	MigrationType string    `db:"migration_type" db_max_length:"255"`
}

type migrationLog struct {
	id            int64
	direction     string
	migrationType string
}

func MigrateDown(ctx context.Context, executor *Executor, migrations []Migration) ([]string, error) {
	logs, latest, latestIndex, err := migrateSetup(ctx, executor, migrations)
	if err != nil {
		return logs, err
	}

	for i := latestIndex; i > -1; i-- {
		migrationType := reflect.TypeOf(migrations[i]).String()
		logs = append(logs, "Migrating down to "+migrationType+"...")
		if err := migrations[i].Down(ctx, executor); err != nil {
			return logs, errors.Join(fmt.Errorf("sqldialect: migration %s: failed", migrationType), err)
		}
		if latest, err = insertMigrationLog(ctx, executor, latest, "down", migrationType); err != nil {
			return logs, err
		}
	}

	return logs, nil
}

func MigrateUp(ctx context.Context, executor *Executor, migrations []Migration) ([]string, error) {
	logs, latest, latestIndex, err := migrateSetup(ctx, executor, migrations)
	if err != nil {
		return logs, err
	}

	for i := latestIndex + 1; i < len(migrations); i++ {
		migrationType := reflect.TypeOf(migrations[i]).String()
		logs = append(logs, "Migrating up to "+migrationType+"...")
		if err := migrations[i].Up(ctx, executor); err != nil {
			return logs, errors.Join(fmt.Errorf("sqldialect: migration %s: failed", migrationType), err)
		}
		if latest, err = insertMigrationLog(ctx, executor, latest, "up", migrationType); err != nil {
			return logs, err
		}
	}

	return logs, nil
}

func migrateSetup(ctx context.Context, executor *Executor, migrations []Migration) ([]string, int64, int, error) {
	logs := make([]string, 0)
	table, err := Use[MigrationLogs]()
	if err != nil {
		return nil, 0, -1, err
	}

	if _, err := executor.CreateTable(ctx, table, TableCreateConfig{IfNotExists: true}); err != nil {
		return nil, 0, -1, errors.Join(errors.New("sqldialect: migrations setup: failed to create table for migration logs"), err)
	}

	latest, err := latestMigrationLog(ctx, executor, table)
	latestIndex := -1
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, 0, -1, errors.Join(errors.New("sqldialect: migrations setup: failed to get migrations list"), err)
		}
		return logs, 0, latestIndex, nil
	}
	for i, migration := range migrations {
		if latest.migrationType == reflect.TypeOf(migration).String() {
			if latest.direction == "down" {
				latestIndex = i - 1
			} else {
				latestIndex = i
			}
			break
		}
	}
	return logs, latest.id, latestIndex, nil
}

func latestMigrationLog(ctx context.Context, executor *Executor, table *Table) (migrationLog, error) {
	var latest migrationLog
	rows, err := executor.Query(ctx, From(table.Name).Columns("id", "direction", "migration_type").OrderBy("-id").Take(1))
	if err != nil {
		return latest, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return latest, err
		}
		return latest, sql.ErrNoRows
	}
	err = rows.Scan(&latest.id, &latest.direction, &latest.migrationType)
	return latest, err
}

// insertMigrationLog records a migration and returns its id. Ids are
// assigned here on dialects without identity columns.
func insertMigrationLog(ctx context.Context, executor *Executor, latest int64, direction, migrationType string) (int64, error) {
	table, err := Use[MigrationLogs]()
	if err != nil {
		return latest, err
	}
	row := MigrationLogs{
		CreatedAt:     time.Now(),
		Direction:     direction,
		MigrationType: migrationType,
	}
	if _, ok := executor.Dialect.Identity().IdentityColumn(BIGINT); !ok {
		row.Id = latest + 1
	}
	if _, err := executor.Insert(ctx, table, &row); err != nil {
		return latest, errors.Join(fmt.Errorf("sqldialect: migration %s: failed to insert migration logs", migrationType), err)
	}
	return latest + 1, nil
}
