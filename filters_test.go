package sqldialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slices"
)

func TestFilterAnd(t *testing.T) {
	clauses := And(
		"SKIP",
		FilterClause{Rule: "A"},
		FilterClause{Rule: "B"},
		And(
			FilterClause{Rule: "C.1"},
			FilterClause{Rule: "C.2"},
		),
	)

	expected := []FilterClause{
		{Rule: "("},
		{Rule: "A"},
		{Rule: "AND"},
		{Rule: "B"},
		{Rule: "AND"},
		{Rule: "("},
		{Rule: "C.1"},
		{Rule: "AND"},
		{Rule: "C.2"},
		{Rule: ")"},
		{Rule: ")"},
	}
	if !slices.Equal(clauses, expected) {
		t.Errorf("Expected '%+v', got '%+v'", expected, clauses)
	}
}

func TestFilterOr(t *testing.T) {
	clauses := Or(
		FilterClause{Rule: "A"},
		"SKIP",
		Or(
			FilterClause{Rule: "B.1"},
			FilterClause{Rule: "B.2"},
		),
		FilterClause{Rule: "C"},
	)

	expected := []FilterClause{
		{Rule: "("},
		{Rule: "A"},
		{Rule: "OR"},
		{Rule: "("},
		{Rule: "B.1"},
		{Rule: "OR"},
		{Rule: "B.2"},
		{Rule: ")"},
		{Rule: "OR"},
		{Rule: "C"},
		{Rule: ")"},
	}
	if !slices.Equal(clauses, expected) {
		t.Errorf("Expected '%+v', got '%+v'", expected, clauses)
	}
}

func TestFlattenFilterClause(t *testing.T) {
	clauses := []interface{}{
		FilterClause{Rule: "A"},
		FilterClause{Rule: "B"},
		[]FilterClause{
			{Rule: "C.1"},
			{Rule: "C.2"},
		},
		"SKIP",
		FilterClause{Rule: "D"},
	}
	expected := []FilterClause{
		{Rule: "Z"},
		{Rule: "A"},
		{Rule: "B"},
		{Rule: "C.1"},
		{Rule: "C.2"},
		{Rule: "D"},
	}
	flat := []FilterClause{
		{Rule: "Z"},
	}
	for _, clause := range clauses {
		flat = flattenFilterClause(flat, clause)
	}
	if !slices.Equal(flat, expected) {
		t.Errorf("Expected '%+v', got '%+v'", expected, flat)
	}
}

func TestFilterClauseStringWithArgs(t *testing.T) {
	dialect := testDialect{}
	tests := []struct {
		clause       FilterClause
		expectedSql  string
		expectedArgs []interface{}
	}{
		{Q("id", "=", 1), ` "id" = $2`, []interface{}{0, 1}},
		{Q("name", "not like", "a%"), ` "name" not like $2`, []interface{}{0, "a%"}},
		{Q("deleted_at", "IS", nil), ` "deleted_at" is null`, []interface{}{0}},
		{Q("id", "in", []int{4, 5}), ` "id" in ($2,$3)`, []interface{}{0, 4, 5}},
		{Q("id", "IN", []string{}), ` 1=0`, []interface{}{0}},
		{Q("id", "NOT IN", []int64{}), ` 1=1`, []interface{}{0}},
		{Q("payload", "=", []byte("x")), ` "payload" = $2`, []interface{}{0, []byte("x")}},
		{Q(Column("a"), "<", Column("b")), ` "a" < "b"`, []interface{}{0}},
		{Q(Unsafe("count(*)"), ">", 3), ` count(*) > $2`, []interface{}{0, 3}},
		{Q("name", "ILIKE", "a%"), ` lower("name") like lower($2)`, []interface{}{0, "a%"}},
		{Exists(Sql("select 1 from t where x = ", Param(9))), ` exists (select 1 from t where x = $2)`, []interface{}{0, 9}},
		{FilterClause{Rule: "AND"}, " and", []interface{}{0}},
	}
	for _, test := range tests {
		sql, args, err := test.clause.StringWithArgs(dialect, []interface{}{0})
		if err != nil {
			t.Errorf("Unexpected error for %+v: %s", test.clause, err)
			continue
		}
		assert.Equal(t, test.expectedSql, sql)
		assert.Equal(t, test.expectedArgs, args)
	}
}

func TestFilterCaseInsensitiveLike(t *testing.T) {
	dialect := testDialect{features: Features{CaseInsensitiveLike: "ilike"}}
	sql, _, err := Q("name", "not ilike", "a%").StringWithArgs(dialect, nil)
	assert.NoError(t, err)
	assert.Equal(t, ` "name" not ilike $1`, sql)
}

func TestFilterInvalid(t *testing.T) {
	dialect := testDialect{}
	if _, _, err := Q("id", "===", 1).StringWithArgs(dialect, nil); err == nil {
		t.Error("Expected error for invalid operator")
	}
	if _, _, err := Q(12, "=", 1).StringWithArgs(dialect, nil); err == nil {
		t.Error("Expected error for invalid left side")
	}
	if _, _, err := (FilterClause{Rule: "XOR"}).StringWithArgs(dialect, nil); err == nil {
		t.Error("Expected error for invalid rule")
	}
}
