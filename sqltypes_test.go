package sqldialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSQLType(t *testing.T) {
	for code, name := range sqlTypeNames {
		parsed, err := ParseSQLType(" " + name)
		if err != nil {
			t.Errorf("Unexpected error for '%s': %s", name, err)
			continue
		}
		if parsed != code {
			t.Errorf("Expected %s, got %s", code, parsed)
		}
	}
	code, err := ParseSQLType("varchar")
	assert.NoError(t, err)
	assert.Equal(t, VARCHAR, code)
	_, err = ParseSQLType("hugeint")
	assert.EqualError(t, err, "sqldialect: unknown SQL type 'hugeint'")
}

func TestSQLTypeGroups(t *testing.T) {
	assert.True(t, NVARCHAR.IsCharacter())
	assert.False(t, BLOB.IsCharacter())
	assert.True(t, VARBINARY.IsBinary())
	assert.True(t, BIGINT.IsInteger())
	assert.False(t, NUMERIC.IsInteger())
	assert.True(t, TIMESTAMP_UTC.IsTemporal())
	assert.False(t, INTERVAL_SECOND.IsTemporal())
}

func TestSizing(t *testing.T) {
	tests := []struct {
		code     SQLType
		size     Size
		expected string
	}{
		{VARCHAR, Size{}, "varchar(255)"},
		{CHAR, Size{Length: 3}, "char(3)"},
		{NUMERIC, Size{}, "numeric(38,2)"},
		{DECIMAL, Size{Precision: 12, Scale: 4}, "decimal(12,4)"},
		{DURATION, Size{}, "numeric(38,9)"},
		{FLOAT, Size{}, "float(24)"},
		{TIMESTAMP_WITH_TIMEZONE, Size{}, "timestamp(6) with time zone"},
		{TIME, Size{Precision: 3}, "time(3)"},
		{BIGINT, Size{}, "bigint"},
		{UUID, Size{}, "char(36)"},
	}
	for _, test := range tests {
		actual := ExpandType(DefaultColumnType(test.code), DefaultSizing.SizeFor(test.code, test.size))
		if actual != test.expected {
			t.Errorf("Expected '%s' for %s, got '%s'", test.expected, test.code, actual)
		}
	}
	assert.Equal(t, "varchar", DefaultCastType(NVARCHAR))
	assert.Equal(t, "varbinary", DefaultCastType(LONGVARBINARY))
	assert.Equal(t, "integer", DefaultCastType(INTEGER))

	sizing := Sizing{MaxVarcharLength: 8000}
	assert.Equal(t, 8000, sizing.MaxNVarchar())
	sizing.MaxNVarcharLength = 4000
	assert.Equal(t, 4000, sizing.MaxNVarchar())
	assert.Equal(t, 8000, sizing.MaxVarbinary())
}
