package sqldialect

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Table string
}

// TableColumn is one column of a table definition. Type is zero when the Go type
// has no SQL type of its own, in which case Override must be set.
type TableColumn struct {
	Name       string      `yaml:"name"`
	Field      string      `yaml:"-"`
	Type       SQLType     `yaml:"-"`
	TypeName   string      `yaml:"type"`
	Size       Size        `yaml:",inline"`
	Nullable   bool        `yaml:"nullable"`
	Primary    bool        `yaml:"primary"`
	Unique     bool        `yaml:"unique"`
	Default    string      `yaml:"default"`
	Override   string      `yaml:"db_type"`
	References *ForeignKey `yaml:"references"`
}

// Table is the metadata DDL is generated from.
type Table struct {
	Name          string        `yaml:"name"`
	Columns       []TableColumn `yaml:"columns"`
	PrimaryColumn string        `yaml:"-"`
	PrimaryField  string        `yaml:"-"`
	Type          reflect.Type  `yaml:"-"`
}

// Column looks a column up by name.
func (table *Table) Column(name string) (TableColumn, bool) {
	for _, column := range table.Columns {
		if column.Name == name {
			return column, true
		}
	}
	return TableColumn{}, false
}

// ColumnNames lists the column names in declaration order.
func (table *Table) ColumnNames() []string {
	names := make([]string, len(table.Columns))
	for i, column := range table.Columns {
		names[i] = column.Name
	}
	return names
}

type tableKey struct {
	modelType reflect.Type
	config    string
}

var (
	registeredTables   = make(map[tableKey]*Table)
	registeredTablesMu sync.RWMutex
)

// Use reflects the db tags of T into a table definition. Results are cached
// per type and config.
func Use[T any](configs ...Config) (*Table, error) {
	var model T
	modelType := reflect.TypeOf(model)
	if modelType == nil || modelType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("sqldialect: table type must be a struct, got %T", model)
	}
	key := tableKey{modelType: modelType, config: fmt.Sprintf("%+v", configs)}

	registeredTablesMu.RLock()
	existing, ok := registeredTables[key]
	registeredTablesMu.RUnlock()
	if ok {
		return existing, nil
	}

	table := &Table{
		Name: strings.ToLower(modelType.Name()),
		Type: modelType,
	}
	for _, config := range configs {
		if config.Table != "" {
			table.Name = config.Table
		}
	}

	for _, field := range reflect.VisibleFields(modelType) {
		name, ok := field.Tag.Lookup("db")
		if !ok || name == "-" {
			continue
		}
		column, err := columnFromField(name, field)
		if err != nil {
			return nil, fmt.Errorf("sqldialect: table '%s': %w", table.Name, err)
		}
		if column.Primary {
			table.PrimaryColumn = column.Name
			table.PrimaryField = field.Name
		}
		table.Columns = append(table.Columns, column)
	}

	registeredTablesMu.Lock()
	registeredTables[key] = table
	registeredTablesMu.Unlock()
	return table, nil
}

func columnFromField(name string, field reflect.StructField) (TableColumn, error) {
	column := TableColumn{
		Name:     name,
		Field:    field.Name,
		Primary:  field.Tag.Get("db_primary") == "true" || field.Tag.Get("primary_key") == "true",
		Unique:   field.Tag.Get("db_unique") == "true",
		Default:  field.Tag.Get("db_default"),
		Override: field.Tag.Get("db_type"),
	}

	var err error
	if column.Size.Length, err = intTag(field, "db_max_length"); err != nil {
		return column, err
	}
	if column.Size.Precision, err = intTag(field, "db_precision"); err != nil {
		return column, err
	}
	if column.Size.Scale, err = intTag(field, "db_scale"); err != nil {
		return column, err
	}
	if references := field.Tag.Get("db_references"); references != "" {
		if column.References, err = ParseForeignKey(references); err != nil {
			return column, fmt.Errorf("column '%s': %w", name, err)
		}
		column.References.OnUpdate = field.Tag.Get("db_on_update")
		column.References.OnDelete = field.Tag.Get("db_on_delete")
	}

	column.Type, column.Nullable = SQLTypeOf(field.Type)
	switch {
	case column.Type == VARCHAR && column.Size.Precision > 0:
		column.Type = DECIMAL
	case column.Type == DOUBLE && column.Size.Precision > 0:
		column.Type = DECIMAL
	case column.Type == TIMESTAMP && field.Tag.Get("db_time_zone") == "true":
		column.Type = TIMESTAMP_WITH_TIMEZONE
	}
	if column.Type == 0 && column.Override == "" {
		return column, fmt.Errorf("unsupported column type %s for column '%s'. Use the 'db_type' field tag to define a SQL type", field.Type, name)
	}
	if column.Type != 0 {
		column.TypeName = column.Type.String()
	}
	return column, nil
}

func intTag(field reflect.StructField, key string) (int, error) {
	value := field.Tag.Get(key)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s '%s' on field '%s'", key, value, field.Name)
	}
	return n, nil
}

var (
	timeType        = reflect.TypeOf(time.Time{})
	uuidType        = reflect.TypeOf(uuid.UUID{})
	rawMessageType  = reflect.TypeOf(json.RawMessage{})
	nullableColumns = map[reflect.Type]SQLType{
		reflect.TypeOf(sql.NullBool{}):    BOOLEAN,
		reflect.TypeOf(sql.NullByte{}):    TINYINT,
		reflect.TypeOf(sql.NullInt16{}):   SMALLINT,
		reflect.TypeOf(sql.NullInt32{}):   INTEGER,
		reflect.TypeOf(sql.NullInt64{}):   BIGINT,
		reflect.TypeOf(sql.NullFloat64{}): DOUBLE,
		reflect.TypeOf(sql.NullString{}):  VARCHAR,
		reflect.TypeOf(sql.NullTime{}):    TIMESTAMP,
		reflect.TypeOf(uuid.NullUUID{}):   UUID,
	}
)

// SQLTypeOf maps a Go type to the SQL type code it is stored as. Pointers and
// the database/sql null wrappers are nullable. The code is zero for types
// without a mapping.
func SQLTypeOf(goType reflect.Type) (SQLType, bool) {
	if code, ok := nullableColumns[goType]; ok {
		return code, true
	}
	if goType.Kind() == reflect.Pointer {
		code, _ := SQLTypeOf(goType.Elem())
		return code, true
	}
	switch goType {
	case timeType:
		return TIMESTAMP, false
	case uuidType:
		return UUID, false
	case rawMessageType:
		return JSON, true
	}

	switch goType.Kind() {
	case reflect.Bool:
		return BOOLEAN, false
	case reflect.Uint8:
		return TINYINT, false
	case reflect.Int8, reflect.Int16, reflect.Uint16:
		return SMALLINT, false
	case reflect.Int32, reflect.Uint32:
		return INTEGER, false
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint64:
		return BIGINT, false
	case reflect.Float32:
		return REAL, false
	case reflect.Float64:
		return DOUBLE, false
	case reflect.String:
		return VARCHAR, false
	case reflect.Slice:
		if goType.Elem().Kind() == reflect.Uint8 {
			return VARBINARY, true
		}
	}
	return 0, false
}

// LoadTable reads a table definition from a YAML file.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sqldialect: read table: %w", err)
	}
	return ParseTable(data)
}

// ParseTable decodes a YAML table definition and resolves each column's
// type name:
//
//	name: users
//	columns:
//	  - name: id
//	    type: bigint
//	    primary: true
//	  - name: email
//	    type: varchar
//	    length: 320
//	    unique: true
func ParseTable(data []byte) (*Table, error) {
	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("sqldialect: parse table: %w", err)
	}
	if table.Name == "" {
		return nil, fmt.Errorf("sqldialect: table definition has no name")
	}
	if len(table.Columns) == 0 {
		return nil, fmt.Errorf("sqldialect: table '%s' has no columns", table.Name)
	}
	for i := range table.Columns {
		column := &table.Columns[i]
		if column.TypeName != "" {
			code, err := ParseSQLType(column.TypeName)
			if err != nil {
				return nil, fmt.Errorf("sqldialect: table '%s' column '%s': %w", table.Name, column.Name, err)
			}
			column.Type = code
		} else if column.Override == "" {
			return nil, fmt.Errorf("sqldialect: table '%s' column '%s' has no type", table.Name, column.Name)
		}
		if column.Primary {
			table.PrimaryColumn = column.Name
		}
	}
	return &table, nil
}

// reflectStruct dereferences row down to its struct value. The result is
// invalid for nil pointers.
func reflectStruct(row interface{}) reflect.Value {
	value := reflect.ValueOf(row)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return reflect.Value{}
		}
		value = value.Elem()
	}
	return value
}
