package sqldialect

import (
	"fmt"
	"reflect"
	"strings"
)

var filterOperators = map[string]struct{}{
	"=":          {},
	"!=":         {},
	"<>":         {},
	"<":          {},
	">":          {},
	"<=":         {},
	">=":         {},
	"LIKE":       {},
	"NOT LIKE":   {},
	"ILIKE":      {},
	"NOT ILIKE":  {},
	"IN":         {},
	"NOT IN":     {},
	"IS":         {},
	"IS NOT":     {},
	"ALL":        {},
	"<> ALL":     {},
	"ANY":        {},
	"<> ANY":     {},
	"EXISTS":     {},
	"NOT EXISTS": {},
	"OVERLAPS":   {},
	"@>":         {},
	"<@":         {},
}

// FilterClause is one element of a where clause. Rule is "WHERE" for a
// comparison, or one of "(", ")", "AND" and "OR".
type FilterClause struct {
	Left     interface{}
	Operator string
	Right    interface{}
	Rule     string
}

func (filter FilterClause) leftString(dialect Dialect, args []interface{}) ([]interface{}, string, error) {
	switch left := filter.Left.(type) {
	case string:
		return args, dialect.QuoteIdentifier(left), nil

	case DialectStringerWithArgs:
		lv, args, err := left.StringWithArgs(dialect, args)
		return args, lv, err

	case DialectStringer:
		return args, left.StringForDialect(dialect), nil

	case SqlUnsafe:
		return args, left.Sql, nil
	}

	return nil, "", fmt.Errorf("sqldialect: unsupported type for left side of filter clause '%#v'", filter.Left)
}

func (filter FilterClause) rightString(dialect Dialect, args []interface{}) ([]interface{}, string, error) {
	switch right := filter.Right.(type) {
	case DialectStringerWithArgs:
		rv, args, err := right.StringWithArgs(dialect, args)
		return args, rv, err

	case DialectStringer:
		return args, right.StringForDialect(dialect), nil

	case SqlUnsafe:
		return args, right.Sql, nil

	case nil:
		return args, "null", nil

	case []byte:
		args = append(args, right)
		return args, dialect.Param(len(args)), nil
	}

	if value := reflect.ValueOf(filter.Right); value.Kind() == reflect.Slice {
		var sliceArgs strings.Builder
		for j := 0; j < value.Len(); j++ {
			args = append(args, value.Index(j).Interface())
			if j > 0 {
				sliceArgs.WriteString(",")
			}
			sliceArgs.WriteString(dialect.Param(len(args)))
		}
		return args, sliceArgs.String(), nil
	}

	args = append(args, filter.Right)
	return args, dialect.Param(len(args)), nil
}

// emptyList reports whether right is a slice with no elements.
func emptyList(right interface{}) bool {
	if _, ok := right.([]byte); ok {
		return false
	}
	value := reflect.ValueOf(right)
	return value.Kind() == reflect.Slice && value.Len() == 0
}

func (filter FilterClause) StringWithArgs(dialect Dialect, args []interface{}) (string, []interface{}, error) {
	switch filter.Rule {
	case "(":
		return " (", args, nil

	case ")":
		return " )", args, nil

	case "AND":
		return " and", args, nil

	case "OR":
		return " or", args, nil

	case "WHERE":
		operator := strings.ToUpper(strings.Join(strings.Fields(filter.Operator), " "))
		if _, ok := filterOperators[operator]; !ok {
			return "", nil, fmt.Errorf("sqldialect: invalid operator '%s' on where clause", filter.Operator)
		}

		// in () is a syntax error everywhere
		if emptyList(filter.Right) {
			switch operator {
			case "IN":
				return " 1=0", args, nil
			case "NOT IN":
				return " 1=1", args, nil
			}
		}

		var err error
		var left string
		if operator != "EXISTS" && operator != "NOT EXISTS" {
			args, left, err = filter.leftString(dialect, args)
			if err != nil {
				return "", nil, err
			}
		}

		var right string
		args, right, err = filter.rightString(dialect, args)
		if err != nil {
			return "", nil, err
		}

		switch operator {
		case "EXISTS", "NOT EXISTS":
			return fmt.Sprintf(" %s (%s)", strings.ToLower(operator), right), args, nil
		case "IN", "NOT IN", "ALL", "<> ALL", "ANY", "<> ANY":
			return fmt.Sprintf(" %s %s (%s)", left, strings.ToLower(operator), right), args, nil
		case "ILIKE", "NOT ILIKE":
			return caseInsensitiveLike(dialect, operator == "NOT ILIKE", left, right), args, nil
		}
		return fmt.Sprintf(" %s %s %s", left, strings.ToLower(operator), right), args, nil
	}

	return "", args, fmt.Errorf("sqldialect: invalid rule '%s' on where clause", filter.Rule)
}

// caseInsensitiveLike uses the dialect's case insensitive like operator, or
// compares lowered values when it has none.
func caseInsensitiveLike(dialect Dialect, negate bool, left, right string) string {
	operator := dialect.Features().CaseInsensitiveLike
	if operator == "" {
		if negate {
			return fmt.Sprintf(" lower(%s) not like lower(%s)", left, right)
		}
		return fmt.Sprintf(" lower(%s) like lower(%s)", left, right)
	}
	if negate {
		return fmt.Sprintf(" %s not %s %s", left, operator, right)
	}
	return fmt.Sprintf(" %s %s %s", left, operator, right)
}

func And(clauses ...interface{}) []FilterClause {
	return group("AND", clauses)
}

func Or(clauses ...interface{}) []FilterClause {
	return group("OR", clauses)
}

// group wraps clauses in parentheses, joining the top level ones with rule.
func group(rule string, clauses []interface{}) []FilterClause {
	flat := make([]FilterClause, 0)
	for _, clause := range clauses {
		flat = flattenFilterClause(flat, clause)
	}

	indent := 0
	filter := []FilterClause{{Rule: "("}}
	for i, clause := range flat {
		if i > 0 && indent == 0 {
			filter = append(filter, FilterClause{Rule: rule})
		}
		if clause.Rule == "(" {
			indent++
		} else if clause.Rule == ")" {
			indent--
		}
		filter = append(filter, clause)
	}
	return append(filter, FilterClause{Rule: ")"})
}

func Exists(value interface{}) FilterClause {
	return FilterClause{
		Operator: "EXISTS",
		Right:    value,
		Rule:     "WHERE",
	}
}

func flattenFilterClause(clauses []FilterClause, clause interface{}) []FilterClause {
	switch ct := clause.(type) {
	case FilterClause:
		clauses = append(clauses, ct)
	case []FilterClause:
		clauses = append(clauses, ct...)
	}
	return clauses
}

func NotExists(value interface{}) FilterClause {
	return FilterClause{
		Operator: "NOT EXISTS",
		Right:    value,
		Rule:     "WHERE",
	}
}

func Q(column interface{}, operator string, value interface{}) FilterClause {
	return FilterClause{
		Left:     column,
		Operator: operator,
		Right:    value,
		Rule:     "WHERE",
	}
}
