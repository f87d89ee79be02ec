package sqldialect

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrIfExistsUnsupported   = errors.New("sqldialect: if exists is not supported")
	ErrDropColumnUnsupported = errors.New("sqldialect: dropping columns is not supported")
)

type TableCreateConfig struct {
	IfNotExists bool
}

type TableDropConfig struct {
	IfExists bool
	Cascade  bool
}

// ColumnDefinition renders the type and constraints of column. Integer
// primary keys without a default become identity columns when the dialect
// has them.
func ColumnDefinition(dialect Dialect, column TableColumn) (string, error) {
	var definition strings.Builder
	identity := false
	if column.Override != "" {
		definition.WriteString(column.Override)
	} else {
		columnType, err := ColumnDDL(dialect, column.Type, column.Size)
		if err != nil {
			return "", err
		}
		if column.Primary && column.Type.IsInteger() && column.Default == "" {
			support := dialect.Identity()
			if identityColumn, ok := support.IdentityColumn(column.Type); ok {
				identity = true
				if support.HasDataTypeInIdentityColumn() {
					definition.WriteString(columnType)
					definition.WriteString(" ")
				}
				definition.WriteString(identityColumn)
			}
		}
		if !identity {
			definition.WriteString(columnType)
		}
	}

	if column.Default != "" {
		definition.WriteString(" default ")
		definition.WriteString(column.Default)
	}
	if !identity && (column.Primary || !column.Nullable) {
		definition.WriteString(" not null")
	}
	if column.Primary {
		definition.WriteString(" primary key")
	} else if column.Unique {
		definition.WriteString(" unique")
	}
	if column.References != nil {
		references, err := column.References.clause(dialect)
		if err != nil {
			return "", fmt.Errorf("sqldialect: column '%s': %w", column.Name, err)
		}
		definition.WriteString(references)
	}
	return definition.String(), nil
}

func BuildTableCreate(dialect Dialect, table *Table, config TableCreateConfig) (string, error) {
	if len(table.Columns) == 0 {
		return "", fmt.Errorf("sqldialect: table '%s' has no columns", table.Name)
	}
	var sql strings.Builder
	sql.WriteString(dialect.CreateTableString())
	sql.WriteString(" ")
	if config.IfNotExists {
		if !dialect.Features().IfExistsBeforeTableName {
			return "", fmt.Errorf("%w on %s create table", ErrIfExistsUnsupported, dialect.Name())
		}
		sql.WriteString("if not exists ")
	}
	sql.WriteString(dialect.QuoteIdentifier(table.Name))
	sql.WriteString(" (")
	for i, column := range table.Columns {
		definition, err := ColumnDefinition(dialect, column)
		if err != nil {
			return "", fmt.Errorf("sqldialect: table '%s' column '%s': %w", table.Name, column.Name, err)
		}
		if i > 0 {
			sql.WriteString(",")
		}
		sql.WriteString("\n\t")
		sql.WriteString(dialect.QuoteIdentifier(column.Name))
		sql.WriteString(" ")
		sql.WriteString(definition)
	}
	sql.WriteString("\n)")
	return sql.String(), nil
}

func BuildTableDrop(dialect Dialect, table string, config TableDropConfig) (string, error) {
	var sql strings.Builder
	sql.WriteString("drop table ")
	features := dialect.Features()
	if config.IfExists {
		switch {
		case features.IfExistsBeforeTableName:
			sql.WriteString("if exists ")
			sql.WriteString(dialect.QuoteIdentifier(table))
		case features.IfExistsAfterTableName:
			sql.WriteString(dialect.QuoteIdentifier(table))
			sql.WriteString(" if exists")
		default:
			return "", fmt.Errorf("%w on %s drop table", ErrIfExistsUnsupported, dialect.Name())
		}
	} else {
		sql.WriteString(dialect.QuoteIdentifier(table))
	}
	if config.Cascade {
		sql.WriteString(dialect.CascadeConstraintsString())
	}
	return sql.String(), nil
}

func BuildTableColumnAdd(dialect Dialect, table *Table, column string) (string, error) {
	field, ok := table.Column(column)
	if !ok {
		return "", fmt.Errorf("sqldialect: invalid column '%s' on table '%s'", column, table.Name)
	}
	definition, err := ColumnDefinition(dialect, field)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("alter table %s %s %s %s", dialect.QuoteIdentifier(table.Name), dialect.AddColumnString(), dialect.QuoteIdentifier(column), definition), nil
}

// columnDropper is implemented by dialects that can only drop columns on
// some versions.
type columnDropper interface {
	DropColumnSupported() bool
}

func BuildTableColumnDrop(dialect Dialect, table string, column string) (string, error) {
	if dropper, ok := dialect.(columnDropper); ok && !dropper.DropColumnSupported() {
		return "", fmt.Errorf("%w on %s %s", ErrDropColumnUnsupported, dialect.Name(), dialect.DatabaseVersion())
	}
	return fmt.Sprintf("alter table %s drop column %s", dialect.QuoteIdentifier(table), dialect.QuoteIdentifier(column)), nil
}

// BuildInsert renders an insert of values, in column name order. An empty
// map inserts a row of defaults.
func BuildInsert(dialect Dialect, table string, values map[string]interface{}) (string, []interface{}, error) {
	var sql strings.Builder
	sql.WriteString("insert into ")
	sql.WriteString(dialect.QuoteIdentifier(table))
	if len(values) == 0 {
		sql.WriteString(" ")
		sql.WriteString(dialect.NoColumnsInsertString())
		return sql.String(), nil, nil
	}

	columns := sortedKeys(values)
	args := make([]interface{}, 0, len(columns))
	sql.WriteString(" (")
	for i, column := range columns {
		if i > 0 {
			sql.WriteString(",")
		}
		sql.WriteString(dialect.QuoteIdentifier(column))
	}
	sql.WriteString(") values (")
	for i, column := range columns {
		if i > 0 {
			sql.WriteString(",")
		}
		switch value := values[column].(type) {
		case DialectStringer:
			sql.WriteString(value.StringForDialect(dialect))
		case SqlUnsafe:
			sql.WriteString(value.Sql)
		default:
			args = append(args, value)
			sql.WriteString(dialect.Param(len(args)))
		}
	}
	sql.WriteString(")")
	return sql.String(), args, nil
}

// InsertValues reads the tagged fields of row into a column map for
// BuildInsert. A zero identity primary key is left out, or sent as the
// dialect's identity insert value when it has one.
func InsertValues(dialect Dialect, table *Table, row interface{}) (map[string]interface{}, error) {
	value := reflectStruct(row)
	if !value.IsValid() || value.Type() != table.Type {
		return nil, fmt.Errorf("sqldialect: row of type %T does not match table '%s'", row, table.Name)
	}
	values := make(map[string]interface{}, len(table.Columns))
	for _, column := range table.Columns {
		field := value.FieldByName(column.Field)
		if column.Primary && field.IsZero() {
			if insertValue := dialect.Identity().IdentityInsertValue(); insertValue != "" {
				values[column.Name] = Unsafe(insertValue)
			}
			continue
		}
		values[column.Name] = field.Interface()
	}
	return values, nil
}
