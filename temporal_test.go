package sqldialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemporalUnits(t *testing.T) {
	for unit, name := range temporalUnitNames {
		parsed, err := ParseTemporalUnit(name)
		require.NoError(t, err)
		assert.Equal(t, unit, parsed)
	}
	_, err := ParseTemporalUnit("fortnight")
	assert.Error(t, err)

	assert.Equal(t, MONTH, QUARTER.Normalized())
	assert.Equal(t, NANOSECOND, HOUR.Normalized())
	assert.True(t, WEEK.IsDateUnit())
	assert.False(t, MINUTE.IsDateUnit())
	assert.Equal(t, "dd", DefaultTranslateExtractField(DAY_OF_MONTH))
	assert.Equal(t, "year", DefaultTranslateExtractField(YEAR))

	temporalType, err := ParseTemporalType("")
	require.NoError(t, err)
	assert.Equal(t, TemporalTimestamp, temporalType)
	temporalType, err = ParseTemporalType("Date")
	require.NoError(t, err)
	assert.Equal(t, TemporalDate, temporalType)
	_, err = ParseTemporalType("interval")
	assert.Error(t, err)
}

func TestConversionFactor(t *testing.T) {
	tests := []struct {
		from     TemporalUnit
		to       TemporalUnit
		native   int64
		expected string
	}{
		{SECOND, SECOND, 0, ""},
		{SECOND, NANOSECOND, 0, "*1e9"},
		{NANOSECOND, SECOND, 0, "/1e9"},
		{HOUR, SECOND, 0, "*3600"},
		{MINUTE, SECOND, 0, "*60"},
		{WEEK, DAY, 0, "*7"},
		{YEAR, MONTH, 0, "*12"},
		{MONTH, QUARTER, 0, "/3"},
		{NATIVE, NANOSECOND, 1000, "*1e3"},
		{EPOCH, SECOND, 0, ""},
	}
	for _, test := range tests {
		actual, err := test.from.ConversionFactor(test.to, test.native)
		if err != nil {
			t.Errorf("Unexpected error for %s to %s: %s", test.from, test.to, err)
			continue
		}
		if actual != test.expected {
			t.Errorf("Expected '%s' for %s to %s, got '%s'", test.expected, test.from, test.to, actual)
		}
	}
	_, err := DAY.ConversionFactor(MONTH, 0)
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	tests := []struct {
		pattern  string
		args     []string
		expected string
	}{
		{"extract(?1 from ?2)", []string{"year", "d"}, "extract(year from d)"},
		{"?2 - ?1", []string{"a", "b"}, "b - a"},
		{"coalesce(?1...)", []string{"a", "b", "c"}, "coalesce(a,b,c)"},
		{"(?1 || ?2...)", []string{"a", "b", "c"}, "(a || b || c)"},
		{"f(?1,?2)", []string{"x"}, "f(x,?2)"},
		{"a ? b", nil, "a ? b"},
		{"date(?3,'+'||?2||' ?1s')", []string{"day", "5", "d"}, "date(d,'+'||5||' days')"},
	}
	for _, test := range tests {
		if actual := Render(test.pattern, test.args...); actual != test.expected {
			t.Errorf("Expected '%s' for '%s', got '%s'", test.expected, test.pattern, actual)
		}
	}

	err := &UnsupportedUnitError{Dialect: "h2", Operation: "timestampdiff", Unit: DAY_OF_WEEK}
	assert.EqualError(t, err, "sqldialect: h2 does not support timestampdiff for unit day_of_week")
}
