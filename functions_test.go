package sqldialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"
)

func TestStandardFunctions(t *testing.T) {
	registry := Functions(Base{})
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"coalesce", []string{"a"}, "coalesce(a)"},
		{"COALESCE", []string{"a", "b", "c"}, "coalesce(a,b,c)"},
		{"concat", []string{"a", "b", "c"}, "(a||b||c)"},
		{"substring", []string{"s", "2"}, "substring(s from 2)"},
		{"substring", []string{"s", "2", "3"}, "substring(s from 2 for 3)"},
		{"locate", []string{"x", "s", "4"}, "(position(x in substring(s from 4))+(4)-1)"},
		{"current_date", nil, "current_date"},
		{"count", []string{"*"}, "count(*)"},
		{"mod", []string{"a", "2"}, "mod(a,2)"},
	}
	for _, test := range tests {
		actual, err := registry.Render(test.name, test.args...)
		if err != nil {
			t.Errorf("%s: unexpected error: %s", test.name, err)
			continue
		}
		if actual != test.expected {
			t.Errorf("%s: expected '%s', got '%s'", test.name, test.expected, actual)
		}
	}

	_, err := registry.Render("soundex", "a")
	assert.EqualError(t, err, "sqldialect: unknown function 'soundex'")
	_, err = registry.Render("mod", "a")
	assert.EqualError(t, err, "sqldialect: function 'mod' takes 2 arguments, got 1")
	_, err = registry.Render("substring", "s")
	assert.EqualError(t, err, "sqldialect: function 'substring' takes 2..3 arguments, got 1")
}

func TestFunctionRegistry(t *testing.T) {
	registry := NewFunctionRegistry()
	functions := NewCommonFunctions(registry)
	functions.Coalesce()
	functions.EveryAnyBoolAndOr()
	registry.RegisterNoArgs("row_number", true, BIGINT)

	names := registry.Names()
	assert.True(t, slices.IsSorted(names))
	assert.Equal(t, []string{"any", "bool_and", "bool_or", "coalesce", "every", "row_number"}, names)

	every, ok := registry.Lookup("EVERY")
	require.True(t, ok)
	assert.Equal(t, "bool_and", every.Name)
	assert.Equal(t, "bool_and(1) aggregate -> BOOLEAN", every.Signature())
	rendered, err := registry.Render("every", "x > 1")
	require.NoError(t, err)
	assert.Equal(t, "bool_and(x > 1)", rendered)

	rendered, err = registry.Render("row_number")
	require.NoError(t, err)
	assert.Equal(t, "row_number()", rendered)

	coalesce, _ := registry.Lookup("coalesce")
	assert.Equal(t, "coalesce(1..)", coalesce.Signature())
	assert.Equal(t, NamedFunction, coalesce.Kind)
	assert.Equal(t, "named", coalesce.Kind.String())

	// a later registration replaces an alternate key of the same name
	functions.EveryAnyMinMaxCase()
	rendered, err = registry.Render("every", "ok")
	require.NoError(t, err)
	assert.Equal(t, "(min(case when ok then 1 else 0 end)=1)", rendered)

	functions.CoalesceNvl()
	rendered, err = registry.Render("coalesce", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "nvl(a,b)", rendered)
	_, err = registry.Render("coalesce", "a", "b", "c")
	assert.Error(t, err)
}

func TestFunctionsCached(t *testing.T) {
	assert.Same(t, Functions(Base{}), Functions(Base{}))
	assert.Same(t, Functions(testDialect{limit: LimitOffsetHandler{}}), Functions(testDialect{limit: LimitOffsetHandler{}}))
	assert.NotSame(t, Functions(Base{}), Functions(leastCaseDialect{}))

	least, ok := Functions(leastCaseDialect{}).Lookup("least")
	require.True(t, ok)
	assert.Equal(t, PatternFunction, least.Kind)
}
