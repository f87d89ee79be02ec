package sqldialect

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"
)

type testGroups struct {
	Id   int64  `db:"id" db_primary:"true"`
	Name string `db:"name" db_max_length:"100" db_unique:"true"`
}

type testAccounts struct {
	Balance  string          `db:"balance" db_precision:"12" db_scale:"2"`
	EditedAt sql.NullTime    `db:"edited_at"`
	Group    sql.NullInt64   `db:"group_id" db_references:"testgroups(id)" db_on_delete:"SET NULL"`
	Id       int64           `db:"id" primary_key:"true"`
	Ignored  string          `db:"-"`
	Name     string          `db:"name" db_default:"'anonymous'"`
	Profile  json.RawMessage `db:"profile"`
	Seen     time.Time       `db:"seen" db_time_zone:"true"`
	Tags     []string        `db:"tags" db_type:"text[]"`
	Token    uuid.UUID       `db:"token"`
	internal string
}

func TestUse(t *testing.T) {
	table, err := Use[testAccounts]()
	require.NoError(t, err)
	assert.Equal(t, "testaccounts", table.Name)
	assert.Equal(t, "id", table.PrimaryColumn)
	assert.Equal(t, "Id", table.PrimaryField)
	expectedColumns := []string{"balance", "edited_at", "group_id", "id", "name", "profile", "seen", "tags", "token"}
	if !slices.Equal(table.ColumnNames(), expectedColumns) {
		t.Errorf("Expected '%+v', got '%+v'", expectedColumns, table.ColumnNames())
	}

	balance, _ := table.Column("balance")
	assert.Equal(t, DECIMAL, balance.Type)
	assert.Equal(t, Size{Precision: 12, Scale: 2}, balance.Size)

	group, _ := table.Column("group_id")
	assert.Equal(t, BIGINT, group.Type)
	assert.True(t, group.Nullable)
	assert.Equal(t, &ForeignKey{Table: "testgroups", Column: "id", OnDelete: "SET NULL"}, group.References)

	seen, _ := table.Column("seen")
	assert.Equal(t, TIMESTAMP_WITH_TIMEZONE, seen.Type)

	tags, _ := table.Column("tags")
	assert.Equal(t, SQLType(0), tags.Type)
	assert.Equal(t, "text[]", tags.Override)

	again, err := Use[testAccounts]()
	require.NoError(t, err)
	assert.Same(t, table, again)

	renamed, err := Use[testAccounts](Config{Table: "accounts"})
	require.NoError(t, err)
	assert.Equal(t, "accounts", renamed.Name)
	assert.NotSame(t, table, renamed)
}

func TestUseInvalid(t *testing.T) {
	type unsupported struct {
		Values map[string]int `db:"values"`
	}
	if _, err := Use[unsupported](); err == nil {
		t.Error("Expected error for unsupported field type")
	}

	type badLength struct {
		Name string `db:"name" db_max_length:"many"`
	}
	if _, err := Use[badLength](); err == nil {
		t.Error("Expected error for invalid max length")
	}

	type badReference struct {
		Group int64 `db:"group_id" db_references:"groups"`
	}
	if _, err := Use[badReference](); err == nil {
		t.Error("Expected error for invalid reference")
	}

	if _, err := Use[int](); err == nil {
		t.Error("Expected error for non-struct type")
	}
}

func TestSQLTypeOf(t *testing.T) {
	type nullable struct {
		code     SQLType
		nullable bool
	}
	var name *string
	tests := map[reflect.Type]nullable{
		reflect.TypeOf(true):              {BOOLEAN, false},
		reflect.TypeOf(uint8(0)):          {TINYINT, false},
		reflect.TypeOf(int16(0)):          {SMALLINT, false},
		reflect.TypeOf(int32(0)):          {INTEGER, false},
		reflect.TypeOf(0):                 {BIGINT, false},
		reflect.TypeOf(float32(0)):        {REAL, false},
		reflect.TypeOf(0.0):               {DOUBLE, false},
		reflect.TypeOf(""):                {VARCHAR, false},
		reflect.TypeOf(name):              {VARCHAR, true},
		reflect.TypeOf([]byte(nil)):       {VARBINARY, true},
		reflect.TypeOf(time.Time{}):       {TIMESTAMP, false},
		reflect.TypeOf(uuid.UUID{}):       {UUID, false},
		reflect.TypeOf(uuid.NullUUID{}):   {UUID, true},
		reflect.TypeOf(sql.NullString{}):  {VARCHAR, true},
		reflect.TypeOf(sql.NullInt32{}):   {INTEGER, true},
		reflect.TypeOf(json.RawMessage{}): {JSON, true},
		reflect.TypeOf(struct{}{}):        {0, false},
	}
	for goType, expected := range tests {
		code, isNullable := SQLTypeOf(goType)
		if code != expected.code || isNullable != expected.nullable {
			t.Errorf("Expected %s (nullable %t) for %s, got %s (nullable %t)", expected.code, expected.nullable, goType, code, isNullable)
		}
	}
}

func TestParseTable(t *testing.T) {
	table, err := ParseTable([]byte(`
name: users
columns:
  - name: id
    type: bigint
    primary: true
  - name: email
    type: VARCHAR
    length: 320
    unique: true
  - name: balance
    type: numeric
    precision: 10
    scale: 2
    nullable: true
  - name: tags
    db_type: text[]
  - name: group_id
    type: integer
    references:
      table: groups
      column: id
      on_delete: cascade
`))
	require.NoError(t, err)
	assert.Equal(t, "users", table.Name)
	assert.Equal(t, "id", table.PrimaryColumn)
	require.Len(t, table.Columns, 5)
	assert.Equal(t, TableColumn{Name: "email", Type: VARCHAR, TypeName: "VARCHAR", Size: Size{Length: 320}, Unique: true}, table.Columns[1])
	assert.Equal(t, Size{Precision: 10, Scale: 2}, table.Columns[2].Size)
	assert.Equal(t, "text[]", table.Columns[3].Override)
	assert.Equal(t, &ForeignKey{Table: "groups", Column: "id", OnDelete: "cascade"}, table.Columns[4].References)

	invalid := map[string]string{
		"no name":      "columns: [{name: id, type: bigint}]",
		"no columns":   "name: users",
		"unknown type": "name: users\ncolumns: [{name: id, type: hugeint}]",
		"no type":      "name: users\ncolumns: [{name: id}]",
		"not yaml":     "name: [",
	}
	for name, definition := range invalid {
		if _, err := ParseTable([]byte(definition)); err == nil {
			t.Errorf("Expected error for %s", name)
		}
	}
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: groups\ncolumns:\n  - name: id\n    type: integer\n    primary: true\n"), 0o600))
	table, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, "groups", table.Name)

	_, err = LoadTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseForeignKey(t *testing.T) {
	tests := map[string]ForeignKey{
		"groups(id)":      {Table: "groups", Column: "id"},
		" app.groups(id)": {Table: "app.groups", Column: "id"},
		"groups.id":       {Table: "groups", Column: "id"},
	}
	for reference, expected := range tests {
		actual, err := ParseForeignKey(reference)
		if err != nil {
			t.Errorf("Unexpected error for '%s': %s", reference, err)
			continue
		}
		if *actual != expected {
			t.Errorf("Expected '%+v', got '%+v'", expected, *actual)
		}
	}
	for _, reference := range []string{"groups", "groups.", "(id)"} {
		if _, err := ParseForeignKey(reference); err == nil {
			t.Errorf("Expected error for '%s'", reference)
		}
	}
}

func TestColumnDefinition(t *testing.T) {
	identity := testDialect{identity: IdentitySyntax{Column: "generated by default as identity", DataType: true}}
	serial := testDialect{identity: IdentitySyntax{Column: "serial"}}
	tests := []struct {
		dialect  Dialect
		column   TableColumn
		expected string
	}{
		{testDialect{}, TableColumn{Type: BIGINT, Primary: true}, "bigint not null primary key"},
		{identity, TableColumn{Type: BIGINT, Primary: true}, "bigint generated by default as identity primary key"},
		{serial, TableColumn{Type: INTEGER, Primary: true}, "serial primary key"},
		{serial, TableColumn{Type: VARCHAR, Primary: true}, "varchar(255) not null primary key"},
		{serial, TableColumn{Type: INTEGER, Primary: true, Default: "1"}, "integer default 1 not null primary key"},
		{testDialect{}, TableColumn{Type: VARCHAR, Size: Size{Length: 20}, Nullable: true, Unique: true}, "varchar(20) unique"},
		{testDialect{}, TableColumn{Override: "text[]", Nullable: true}, "text[]"},
		{testDialect{}, TableColumn{Type: INTEGER, References: &ForeignKey{Table: "groups", Column: "id", OnUpdate: "No  Action", OnDelete: "CASCADE"}}, `integer not null references "groups" ("id") on update no action on delete cascade`},
	}
	for _, test := range tests {
		actual, err := ColumnDefinition(test.dialect, test.column)
		if err != nil {
			t.Errorf("Unexpected error for %+v: %s", test.column, err)
			continue
		}
		assert.Equal(t, test.expected, actual)
	}

	_, err := ColumnDefinition(testDialect{}, TableColumn{Type: INTEGER, References: &ForeignKey{Table: "groups", Column: "id", OnDelete: "explode"}})
	assert.Error(t, err)
}

func TestBuildTableCreate(t *testing.T) {
	table, err := Use[testGroups]()
	require.NoError(t, err)

	sql, err := BuildTableCreate(testDialect{}, table, TableCreateConfig{})
	require.NoError(t, err)
	assert.Equal(t, "create table \"testgroups\" (\n\t\"id\" bigint not null primary key,\n\t\"name\" varchar(100) not null unique\n)", sql)

	_, err = BuildTableCreate(testDialect{}, table, TableCreateConfig{IfNotExists: true})
	assert.ErrorIs(t, err, ErrIfExistsUnsupported)

	sql, err = BuildTableCreate(testDialect{features: Features{IfExistsBeforeTableName: true}}, table, TableCreateConfig{IfNotExists: true})
	require.NoError(t, err)
	assert.Equal(t, "create table if not exists \"testgroups\" (\n\t\"id\" bigint not null primary key,\n\t\"name\" varchar(100) not null unique\n)", sql)

	_, err = BuildTableCreate(testDialect{}, &Table{Name: "empty"}, TableCreateConfig{})
	assert.Error(t, err)
}

func TestBuildTableDrop(t *testing.T) {
	tests := []struct {
		dialect  Dialect
		config   TableDropConfig
		expected string
	}{
		{testDialect{}, TableDropConfig{}, `drop table "groups"`},
		{testDialect{features: Features{IfExistsBeforeTableName: true}}, TableDropConfig{IfExists: true}, `drop table if exists "groups"`},
		{testDialect{features: Features{IfExistsAfterTableName: true}}, TableDropConfig{IfExists: true}, `drop table "groups" if exists`},
	}
	for _, test := range tests {
		actual, err := BuildTableDrop(test.dialect, "groups", test.config)
		require.NoError(t, err)
		assert.Equal(t, test.expected, actual)
	}
	_, err := BuildTableDrop(testDialect{}, "groups", TableDropConfig{IfExists: true})
	assert.ErrorIs(t, err, ErrIfExistsUnsupported)
}

type noDropDialect struct {
	testDialect
}

func (noDropDialect) DropColumnSupported() bool {
	return false
}

func TestBuildTableColumns(t *testing.T) {
	table, err := Use[testGroups]()
	require.NoError(t, err)

	sql, err := BuildTableColumnAdd(testDialect{}, table, "name")
	require.NoError(t, err)
	assert.Equal(t, `alter table "testgroups" add column "name" varchar(100) not null unique`, sql)

	_, err = BuildTableColumnAdd(testDialect{}, table, "missing")
	assert.Error(t, err)

	sql, err = BuildTableColumnDrop(testDialect{}, "testgroups", "name")
	require.NoError(t, err)
	assert.Equal(t, `alter table "testgroups" drop column "name"`, sql)

	_, err = BuildTableColumnDrop(noDropDialect{}, "testgroups", "name")
	assert.ErrorIs(t, err, ErrDropColumnUnsupported)
}

func TestBuildInsert(t *testing.T) {
	sql, args, err := BuildInsert(testDialect{}, "groups", map[string]interface{}{
		"name":       "admins",
		"created_at": Unsafe("current_timestamp"),
		"id":         Column("other_id"),
	})
	require.NoError(t, err)
	assert.Equal(t, `insert into "groups" ("created_at","id","name") values (current_timestamp,"other_id",$1)`, sql)
	assert.Equal(t, []interface{}{"admins"}, args)

	sql, args, err = BuildInsert(testDialect{}, "groups", nil)
	require.NoError(t, err)
	assert.Equal(t, `insert into "groups" values ( )`, sql)
	assert.Empty(t, args)
}

func TestInsertValues(t *testing.T) {
	table, err := Use[testGroups]()
	require.NoError(t, err)

	values, err := InsertValues(testDialect{}, table, testGroups{Name: "a"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"name": "a"}, values)

	values, err = InsertValues(testDialect{identity: IdentitySyntax{InsertValue: "default"}}, table, &testGroups{Name: "b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"id": Unsafe("default"), "name": "b"}, values)

	values, err = InsertValues(testDialect{}, table, &testGroups{Id: 4, Name: "c"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"id": int64(4), "name": "c"}, values)

	var missing *testGroups
	_, err = InsertValues(testDialect{}, table, missing)
	assert.Error(t, err)
	_, err = InsertValues(testDialect{}, table, testAccounts{})
	assert.Error(t, err)
}
