package sqldialect

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type SqlAs struct {
	Alias  string
	Column interface{}
}

func (as SqlAs) StringForDialect(dialect Dialect) string {
	switch cv := as.Column.(type) {
	case string:
		return fmt.Sprint(dialect.QuoteIdentifier(cv), " as ", dialect.QuoteIdentifier(as.Alias))

	case DialectStringer:
		return fmt.Sprint(cv.StringForDialect(dialect), " as ", dialect.QuoteIdentifier(as.Alias))

	case fmt.Stringer:
		return fmt.Sprint(cv.String(), " as ", dialect.QuoteIdentifier(as.Alias))
	}

	panic(fmt.Sprintf("sqldialect: unsupported type for sqldialect.As '%#v'", as.Column))
}

func As(column interface{}, alias string) SqlAs {
	return SqlAs{Alias: alias, Column: column}
}

type SqlColumn string

func (column SqlColumn) StringForDialect(dialect Dialect) string {
	return dialect.QuoteIdentifier(string(column))
}

func Column(column string) SqlColumn {
	return SqlColumn(column)
}

type SqlParam struct {
	Value interface{}
}

func Param(value interface{}) SqlParam {
	return SqlParam{Value: value}
}

type SqlWithParams struct {
	Segments []interface{}
}

func (sqlWithParams SqlWithParams) StringWithArgs(dialect Dialect, args []interface{}) (string, []interface{}, error) {
	var queryString strings.Builder
	for _, part := range sqlWithParams.Segments {
		switch cv := part.(type) {
		case SqlParam:
			args = append(args, cv.Value)
			queryString.WriteString(dialect.Param(len(args)))
		case string:
			queryString.WriteString(cv)
		case DialectStringerWithArgs:
			segment, nextArgs, err := cv.StringWithArgs(dialect, args)
			if err != nil {
				return "", nil, err
			}
			args = nextArgs
			queryString.WriteString(segment)
		case DialectStringer:
			queryString.WriteString(cv.StringForDialect(dialect))
		default:
			queryString.WriteString(fmt.Sprint(cv))
		}
	}
	return queryString.String(), args, nil
}

func Sql(segments ...interface{}) SqlWithParams {
	return SqlWithParams{Segments: segments}
}

type SqlUnsafe struct {
	Sql string
}

func (sqlUnsafe SqlUnsafe) String() string {
	return sqlUnsafe.Sql
}

func Unsafe(sql string) SqlUnsafe {
	return SqlUnsafe{Sql: sql}
}

// SqlFunction is a call to a registered function, rendered with the
// dialect's own pattern. Arguments may be column names, stringers, params or
// literal SQL.
type SqlFunction struct {
	Name string
	Args []interface{}
}

func (function SqlFunction) StringWithArgs(dialect Dialect, args []interface{}) (string, []interface{}, error) {
	marked := markerDialect{Dialect: dialect}
	var values []interface{}
	rendered := make([]string, len(function.Args))
	for i, arg := range function.Args {
		switch cv := arg.(type) {
		case string:
			rendered[i] = dialect.QuoteIdentifier(cv)
		case SqlParam:
			values = append(values, cv.Value)
			rendered[i] = marked.Param(len(values))
		case DialectStringerWithArgs:
			segment, nextValues, err := cv.StringWithArgs(marked, values)
			if err != nil {
				return "", nil, err
			}
			values = nextValues
			rendered[i] = segment
		case DialectStringer:
			rendered[i] = cv.StringForDialect(dialect)
		case fmt.Stringer:
			rendered[i] = cv.String()
		default:
			return "", nil, fmt.Errorf("sqldialect: unsupported argument '%#v' to function '%s'", arg, function.Name)
		}
	}
	sql, err := Functions(dialect).Render(function.Name, rendered...)
	if err != nil {
		return "", nil, fmt.Errorf("%w on %s", err, dialect.Name())
	}

	// Patterns may repeat or reorder arguments, so values are bound in the
	// order their placeholders appear in the rendered SQL.
	var out strings.Builder
	last := 0
	for _, loc := range paramMarkerPattern.FindAllStringSubmatchIndex(sql, -1) {
		n, _ := strconv.Atoi(sql[loc[2]:loc[3]])
		out.WriteString(sql[last:loc[0]])
		args = append(args, values[n-1])
		out.WriteString(dialect.Param(len(args)))
		last = loc[1]
	}
	out.WriteString(sql[last:])
	return out.String(), args, nil
}

var paramMarkerPattern = regexp.MustCompile(`\x00(\d+)\x00`)

// markerDialect renders placeholders as numbered markers that SqlFunction
// replaces once the function pattern has been applied.
type markerDialect struct {
	Dialect
}

func (markerDialect) Param(i int) string {
	return "\x00" + strconv.Itoa(i) + "\x00"
}

func Func(name string, args ...interface{}) SqlFunction {
	return SqlFunction{Name: name, Args: args}
}
