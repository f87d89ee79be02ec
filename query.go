package sqldialect

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type JoinClause struct {
	Direction string
	On        []FilterClause
	Table     string
}

// Select builds a select statement for any dialect. Limit and Offset are
// rendered by the dialect's limit handler, so zero means unset.
type Select struct {
	Count    bool
	Filters  []FilterClause
	Joins    []JoinClause
	Limit    int
	Lock     LockOptions
	Offset   int
	Params   []interface{}
	Selected []interface{}
	Sort     []string
	Table    string
}

func From(table string) *Select {
	return &Select{Table: table}
}

func (query *Select) Columns(columns ...interface{}) *Select {
	query.Selected = columns
	return query
}

func (query *Select) CountRows() *Select {
	query.Count = true
	return query
}

func (query *Select) Filter(column interface{}, operator string, value interface{}) *Select {
	query.Filters = appendFilters(query.Filters, []FilterClause{Q(column, operator, value)})
	return query
}

func (query *Select) FilterAnd(clauses ...interface{}) *Select {
	query.Filters = appendFilters(query.Filters, group("AND", clauses))
	return query
}

func (query *Select) FilterOr(clauses ...interface{}) *Select {
	query.Filters = appendFilters(query.Filters, group("OR", clauses))
	return query
}

func appendFilters(filters []FilterClause, clauses []FilterClause) []FilterClause {
	if len(filters) > 0 {
		filters = append(filters, FilterClause{Rule: "AND"})
	}
	return append(filters, clauses...)
}

func (query *Select) join(direction string, table string, clauses []interface{}) *Select {
	flat := make([]FilterClause, 0)
	for _, clause := range clauses {
		flat = flattenFilterClause(flat, clause)
	}

	query.Joins = append(query.Joins, JoinClause{
		Direction: direction,
		On:        flat,
		Table:     table,
	})
	return query
}

func (query *Select) Join(table string, clauses ...interface{}) *Select {
	return query.join("inner", table, clauses)
}

func (query *Select) JoinFull(table string, clauses ...interface{}) *Select {
	return query.join("full", table, clauses)
}

func (query *Select) JoinLeft(table string, clauses ...interface{}) *Select {
	return query.join("left", table, clauses)
}

func (query *Select) JoinRight(table string, clauses ...interface{}) *Select {
	return query.join("right", table, clauses)
}

func (query *Select) Take(limit int) *Select {
	query.Limit = limit
	return query
}

func (query *Select) Skip(offset int) *Select {
	query.Offset = offset
	return query
}

func (query *Select) OrderBy(columns ...string) *Select {
	query.Sort = columns
	return query
}

func (query *Select) ForUpdate(options LockOptions) *Select {
	query.Lock = options
	return query
}

// Build renders the statement with placeholders numbered from one.
func (query *Select) Build(dialect Dialect) (string, []interface{}, error) {
	return query.StringWithArgs(dialect, nil)
}

// StringWithArgs renders the statement continuing the numbering of args, so a
// Select can be used as a subquery or a filter value.
func (query Select) StringWithArgs(dialect Dialect, args []interface{}) (string, []interface{}, error) {
	args = append(append(make([]interface{}, 0, len(args)+len(query.Params)), args...), query.Params...)
	var queryString strings.Builder
	if query.Count {
		queryString.WriteString("select count(*) from ")
	} else if len(query.Selected) > 0 {
		queryString.WriteString("select ")
		for i, column := range query.Selected {
			if i > 0 {
				queryString.WriteString(",")
			}
			switch cv := column.(type) {
			case string:
				queryString.WriteString(dialect.QuoteIdentifier(cv))

			case DialectStringerWithArgs:
				segment, nextArgs, err := cv.StringWithArgs(dialect, args)
				if err != nil {
					return "", nil, err
				}
				args = nextArgs
				queryString.WriteString(segment)

			case DialectStringer:
				queryString.WriteString(cv.StringForDialect(dialect))

			case fmt.Stringer:
				queryString.WriteString(cv.String())

			default:
				return "", nil, fmt.Errorf("sqldialect: invalid column type %#v", column)
			}
		}
		queryString.WriteString(" from ")
	} else {
		queryString.WriteString("select * from ")
	}
	queryString.WriteString(dialect.LockHint(dialect.QuoteIdentifier(query.Table), query.Lock.ForTable(query.Table)))

	// join
	for _, join := range query.Joins {
		if len(join.On) == 0 {
			continue
		}
		queryString.WriteString(fmt.Sprintf(" %s join %s on", join.Direction, dialect.LockHint(dialect.QuoteIdentifier(join.Table), query.Lock.ForTable(join.Table))))
		var err error
		if args, err = writeFilters(&queryString, dialect, join.On, args); err != nil {
			return "", nil, err
		}
	}

	// where
	if len(query.Filters) > 0 {
		queryString.WriteString(" where")
		var err error
		if args, err = writeFilters(&queryString, dialect, query.Filters, args); err != nil {
			return "", nil, err
		}
	}

	// order by
	if len(query.Sort) > 0 && !query.Count {
		queryString.WriteString(" order by ")
		for i, column := range query.Sort {
			if i > 0 {
				queryString.WriteString(", ")
			}
			if strings.HasPrefix(column, "-") {
				queryString.WriteString(dialect.QuoteIdentifier(column[1:]))
				queryString.WriteString(" desc")
			} else {
				queryString.WriteString(dialect.QuoteIdentifier(column))
				queryString.WriteString(" asc")
			}
		}
	}

	sql := queryString.String()
	if !query.Count && (query.Limit != 0 || query.Offset != 0) {
		handler := dialect.LimitHandler()
		if query.Offset > 0 && !handler.SupportsOffset() {
			return "", nil, fmt.Errorf("%w on %s", ErrOffsetUnsupported, dialect.Name())
		}
		var err error
		sql, err = handler.Apply(sql, query.Offset, query.Limit)
		if err != nil {
			return "", nil, fmt.Errorf("%w on %s", err, dialect.Name())
		}
	}

	if lock := ForUpdateClause(dialect, lockAliases(query.Lock), query.Lock); lock != "" {
		sql += lock
	}
	return sql, args, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

// lockAliases joins the aliases with their own lock mode in a stable order.
func lockAliases(options LockOptions) string {
	return strings.Join(sortedKeys(options.Aliases), ",")
}

func writeFilters(queryString *strings.Builder, dialect Dialect, filters []FilterClause, args []interface{}) ([]interface{}, error) {
	for _, where := range filters {
		queryWhere, whereArgs, err := where.StringWithArgs(dialect, args)
		if err != nil {
			return nil, err
		}
		args = whereArgs
		queryString.WriteString(queryWhere)
	}
	return args, nil
}

// BuildUpdate renders an update of values on the rows matching filters,
// setting columns in name order.
func BuildUpdate(dialect Dialect, table string, values map[string]interface{}, filters ...FilterClause) (string, []interface{}, error) {
	if len(values) == 0 {
		return "", nil, fmt.Errorf("sqldialect: no columns specified for update")
	}
	args := make([]interface{}, 0, len(values))
	var queryString strings.Builder

	queryString.WriteString("update ")
	queryString.WriteString(dialect.QuoteIdentifier(table))
	queryString.WriteString(" set ")
	for i, column := range sortedKeys(values) {
		if i > 0 {
			queryString.WriteString(",")
		}
		queryString.WriteString(dialect.QuoteIdentifier(column))
		queryString.WriteString(" = ")
		switch value := values[column].(type) {
		case DialectStringer:
			queryString.WriteString(value.StringForDialect(dialect))
		case SqlUnsafe:
			queryString.WriteString(value.Sql)
		default:
			args = append(args, value)
			queryString.WriteString(dialect.Param(len(args)))
		}
	}

	if len(filters) > 0 {
		queryString.WriteString(" where")
		var err error
		if args, err = writeFilters(&queryString, dialect, filters, args); err != nil {
			return "", nil, err
		}
	}
	return queryString.String(), args, nil
}

func BuildDelete(dialect Dialect, table string, filters ...FilterClause) (string, []interface{}, error) {
	var queryString strings.Builder
	queryString.WriteString("delete from ")
	queryString.WriteString(dialect.QuoteIdentifier(table))

	args := make([]interface{}, 0)
	if len(filters) > 0 {
		queryString.WriteString(" where")
		var err error
		if args, err = writeFilters(&queryString, dialect, filters, args); err != nil {
			return "", nil, err
		}
	}
	return queryString.String(), args, nil
}
