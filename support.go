package sqldialect

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// LimitHandler adds row limits to a select statement. A limit of zero means
// no limit and an offset of zero means no offset. Limits are rendered as
// literals.
type LimitHandler interface {
	Apply(sql string, offset, limit int) (string, error)
	SupportsLimit() bool
	SupportsOffset() bool
}

var (
	ErrOffsetUnsupported = errors.New("sqldialect: offset is not supported")
	ErrNegativeLimit     = errors.New("sqldialect: offset and limit must not be negative")
)

var (
	selectPattern  = regexp.MustCompile(`(?i)^\s*select(\s+distinct)?\s+`)
	lockPattern    = regexp.MustCompile(`(?i)\s+(for\s+update|for\s+read\s+only|for\s+share|with\s+(rr|rs|cs|ur)|with\s+lock)\b`)
	orderByPattern = regexp.MustCompile(`(?i)\border\s+by\b`)
)

func checkLimits(offset, limit int) error {
	if offset < 0 || limit < 0 {
		return ErrNegativeLimit
	}
	return nil
}

// insertAfterSelect places fragment right after the leading select keyword
// (and distinct, if present).
func insertAfterSelect(sql, fragment string) (string, error) {
	loc := selectPattern.FindStringIndex(sql)
	if loc == nil {
		return "", fmt.Errorf("sqldialect: cannot apply limit to statement not starting with select: %s", sql)
	}
	return sql[:loc[1]] + fragment + " " + sql[loc[1]:], nil
}

// insertAtEnd appends fragment, keeping trailing lock clauses last.
func insertAtEnd(sql, fragment string) string {
	sql = strings.TrimRight(strings.TrimSpace(sql), ";")
	if loc := lockPattern.FindStringIndex(sql); loc != nil {
		return sql[:loc[0]] + fragment + sql[loc[0]:]
	}
	return sql + fragment
}

// splitLock separates a trailing lock clause from sql.
func splitLock(sql string) (string, string) {
	sql = strings.TrimRight(strings.TrimSpace(sql), ";")
	if loc := lockPattern.FindStringIndex(sql); loc != nil {
		return sql[:loc[0]], sql[loc[0]:]
	}
	return sql, ""
}

// NoLimitHandler leaves statements untouched.
type NoLimitHandler struct{}

func (NoLimitHandler) Apply(sql string, offset, limit int) (string, error) {
	return sql, checkLimits(offset, limit)
}

func (NoLimitHandler) SupportsLimit() bool  { return false }
func (NoLimitHandler) SupportsOffset() bool { return false }

// LimitOffsetHandler renders " limit n offset m". OffsetOnlyLimit is the limit
// written when only an offset is given; empty renders a bare " offset m".
type LimitOffsetHandler struct {
	OffsetOnlyLimit string
}

func (handler LimitOffsetHandler) Apply(sql string, offset, limit int) (string, error) {
	if err := checkLimits(offset, limit); err != nil {
		return "", err
	}
	var clause strings.Builder
	switch {
	case limit > 0:
		clause.WriteString(" limit ")
		clause.WriteString(strconv.Itoa(limit))
	case offset > 0 && handler.OffsetOnlyLimit != "":
		clause.WriteString(" limit ")
		clause.WriteString(handler.OffsetOnlyLimit)
	}
	if offset > 0 {
		clause.WriteString(" offset ")
		clause.WriteString(strconv.Itoa(offset))
	}
	if clause.Len() == 0 {
		return sql, nil
	}
	return insertAtEnd(sql, clause.String()), nil
}

func (LimitOffsetHandler) SupportsLimit() bool  { return true }
func (LimitOffsetHandler) SupportsOffset() bool { return true }

// LimitCommaHandler renders " limit m, n". MaxRows stands in for the limit when
// only an offset is given.
type LimitCommaHandler struct {
	MaxRows string
}

func (handler LimitCommaHandler) Apply(sql string, offset, limit int) (string, error) {
	if err := checkLimits(offset, limit); err != nil {
		return "", err
	}
	switch {
	case offset > 0 && limit > 0:
		return insertAtEnd(sql, fmt.Sprintf(" limit %d, %d", offset, limit)), nil
	case offset > 0:
		maxRows := handler.MaxRows
		if maxRows == "" {
			maxRows = "18446744073709551615"
		}
		return insertAtEnd(sql, fmt.Sprintf(" limit %d, %s", offset, maxRows)), nil
	case limit > 0:
		return insertAtEnd(sql, " limit "+strconv.Itoa(limit)), nil
	}
	return sql, nil
}

func (LimitCommaHandler) SupportsLimit() bool  { return true }
func (LimitCommaHandler) SupportsOffset() bool { return true }

// OffsetFetchHandler renders the standard " offset m rows fetch next n rows only".
type OffsetFetchHandler struct{}

func (OffsetFetchHandler) Apply(sql string, offset, limit int) (string, error) {
	if err := checkLimits(offset, limit); err != nil {
		return "", err
	}
	clause := offsetFetchClause(offset, limit)
	if clause == "" {
		return sql, nil
	}
	return insertAtEnd(sql, clause), nil
}

func offsetFetchClause(offset, limit int) string {
	var clause strings.Builder
	if offset > 0 {
		clause.WriteString(" offset ")
		clause.WriteString(strconv.Itoa(offset))
		clause.WriteString(" rows")
	}
	if limit > 0 {
		if offset > 0 {
			clause.WriteString(" fetch next ")
		} else {
			clause.WriteString(" fetch first ")
		}
		clause.WriteString(strconv.Itoa(limit))
		clause.WriteString(" rows only")
	}
	return clause.String()
}

func (OffsetFetchHandler) SupportsLimit() bool  { return true }
func (OffsetFetchHandler) SupportsOffset() bool { return true }

// FetchFirstHandler renders " fetch first n rows only" and has no offset.
type FetchFirstHandler struct{}

func (FetchFirstHandler) Apply(sql string, offset, limit int) (string, error) {
	if err := checkLimits(offset, limit); err != nil {
		return "", err
	}
	if offset > 0 {
		return "", ErrOffsetUnsupported
	}
	if limit == 0 {
		return sql, nil
	}
	return insertAtEnd(sql, " fetch first "+strconv.Itoa(limit)+" rows only"), nil
}

func (FetchFirstHandler) SupportsLimit() bool  { return true }
func (FetchFirstHandler) SupportsOffset() bool { return false }

// RowNumberDB2Handler emulates offsets with rownumber() over a fetch first query.
type RowNumberDB2Handler struct{}

func (RowNumberDB2Handler) Apply(sql string, offset, limit int) (string, error) {
	if err := checkLimits(offset, limit); err != nil {
		return "", err
	}
	if offset == 0 {
		return FetchFirstHandler{}.Apply(sql, 0, limit)
	}
	inner := sql
	if limit > 0 {
		inner = insertAtEnd(sql, " fetch first "+strconv.Itoa(offset+limit)+" rows only")
	}
	return "select * from (select row_.*,rownumber() over(order by order of row_) as rownumber_ from (" +
		inner + ") as row_) as query_ where rownumber_>" + strconv.Itoa(offset) + " order by rownumber_", nil
}

func (RowNumberDB2Handler) SupportsLimit() bool  { return true }
func (RowNumberDB2Handler) SupportsOffset() bool { return true }

// FirstSkipHandler renders "select first n skip m".
type FirstSkipHandler struct{}

func (FirstSkipHandler) Apply(sql string, offset, limit int) (string, error) {
	if err := checkLimits(offset, limit); err != nil {
		return "", err
	}
	var clause []string
	if limit > 0 {
		clause = append(clause, "first "+strconv.Itoa(limit))
	}
	if offset > 0 {
		clause = append(clause, "skip "+strconv.Itoa(offset))
	}
	if len(clause) == 0 {
		return sql, nil
	}
	return insertAfterSelect(sql, strings.Join(clause, " "))
}

func (FirstSkipHandler) SupportsLimit() bool  { return true }
func (FirstSkipHandler) SupportsOffset() bool { return true }

// SkipFirstHandler renders "select skip m first n".
type SkipFirstHandler struct{}

func (SkipFirstHandler) Apply(sql string, offset, limit int) (string, error) {
	if err := checkLimits(offset, limit); err != nil {
		return "", err
	}
	var clause []string
	if offset > 0 {
		clause = append(clause, "skip "+strconv.Itoa(offset))
	}
	if limit > 0 {
		clause = append(clause, "first "+strconv.Itoa(limit))
	}
	if len(clause) == 0 {
		return sql, nil
	}
	return insertAfterSelect(sql, strings.Join(clause, " "))
}

func (SkipFirstHandler) SupportsLimit() bool  { return true }
func (SkipFirstHandler) SupportsOffset() bool { return true }

// TopHandler renders "select <keyword> n" where keyword is "top" or "first".
// It has no offset.
type TopHandler struct {
	Keyword string
}

func (handler TopHandler) Apply(sql string, offset, limit int) (string, error) {
	if err := checkLimits(offset, limit); err != nil {
		return "", err
	}
	if offset > 0 {
		return "", ErrOffsetUnsupported
	}
	if limit == 0 {
		return sql, nil
	}
	keyword := handler.Keyword
	if keyword == "" {
		keyword = "top"
	}
	return insertAfterSelect(sql, keyword+" "+strconv.Itoa(limit))
}

func (TopHandler) SupportsLimit() bool  { return true }
func (TopHandler) SupportsOffset() bool { return false }

// RowNumberSQLServerHandler uses top for plain limits and a row_number() wrap
// for offsets.
type RowNumberSQLServerHandler struct{}

func (RowNumberSQLServerHandler) Apply(sql string, offset, limit int) (string, error) {
	if err := checkLimits(offset, limit); err != nil {
		return "", err
	}
	if offset == 0 {
		if limit == 0 {
			return sql, nil
		}
		return insertAfterSelect(sql, "top("+strconv.Itoa(limit)+")")
	}
	inner := sql
	if limit > 0 {
		var err error
		inner, err = insertAfterSelect(sql, "top("+strconv.Itoa(offset+limit)+")")
		if err != nil {
			return "", err
		}
	}
	outer := "select * from (select inner_.*,row_number() over (order by current_timestamp) as rownumber_ from (" +
		inner + ") inner_) query_ where rownumber_>" + strconv.Itoa(offset)
	if limit > 0 {
		outer += " and rownumber_<=" + strconv.Itoa(offset+limit)
	}
	return outer + " order by rownumber_", nil
}

func (RowNumberSQLServerHandler) SupportsLimit() bool  { return true }
func (RowNumberSQLServerHandler) SupportsOffset() bool { return true }

// OffsetFetchSQLServerHandler is the offset/fetch syntax of SQL Server 2012,
// which requires an order by.
type OffsetFetchSQLServerHandler struct{}

func (OffsetFetchSQLServerHandler) Apply(sql string, offset, limit int) (string, error) {
	if err := checkLimits(offset, limit); err != nil {
		return "", err
	}
	if offset == 0 && limit == 0 {
		return sql, nil
	}
	body, lock := splitLock(sql)
	if !orderByPattern.MatchString(body) {
		body += " order by @@version"
	}
	body += " offset " + strconv.Itoa(offset) + " rows"
	if limit > 0 {
		body += " fetch next " + strconv.Itoa(limit) + " rows only"
	}
	return body + lock, nil
}

func (OffsetFetchSQLServerHandler) SupportsLimit() bool  { return true }
func (OffsetFetchSQLServerHandler) SupportsOffset() bool { return true }

// RowNumOracleHandler wraps the statement in rownum filters.
type RowNumOracleHandler struct{}

func (RowNumOracleHandler) Apply(sql string, offset, limit int) (string, error) {
	if err := checkLimits(offset, limit); err != nil {
		return "", err
	}
	if offset == 0 && limit == 0 {
		return sql, nil
	}
	body, lock := splitLock(sql)
	switch {
	case offset == 0:
		return "select * from (" + body + ") where rownum<=" + strconv.Itoa(limit) + lock, nil
	case limit == 0:
		return "select * from (select row_.*,rownum rownum_ from (" + body + ") row_) where rownum_>" +
			strconv.Itoa(offset) + lock, nil
	}
	return "select * from (select row_.*,rownum rownum_ from (" + body + ") row_ where rownum<=" +
		strconv.Itoa(offset+limit) + ") where rownum_>" + strconv.Itoa(offset) + lock, nil
}

func (RowNumOracleHandler) SupportsLimit() bool  { return true }
func (RowNumOracleHandler) SupportsOffset() bool { return true }

// SequenceSupport renders sequence DDL and next-value expressions.
type SequenceSupport interface {
	Supported() bool
	NextValue(name string) (string, error)
	SelectNextValue(name string) (string, error)
	CreateSequence(name string, start, increment int) (string, error)
	DropSequence(name string) (string, error)
	QuerySequences() string
}

var ErrSequencesUnsupported = errors.New("sqldialect: sequences are not supported")

// SequenceSyntax is a SequenceSupport built from ?N templates: ?1 is the
// sequence name, ?2 the start value and ?3 the increment. SelectNextValue
// receives the rendered next-value expression as ?1. A zero value supports
// nothing.
type SequenceSyntax struct {
	NextValueTemplate string
	SelectTemplate    string
	CreateTemplate    string
	DropTemplate      string
	Query             string
}

func (syntax SequenceSyntax) Supported() bool {
	return syntax.NextValueTemplate != ""
}

func (syntax SequenceSyntax) NextValue(name string) (string, error) {
	if !syntax.Supported() {
		return "", ErrSequencesUnsupported
	}
	return Render(syntax.NextValueTemplate, name), nil
}

func (syntax SequenceSyntax) SelectNextValue(name string) (string, error) {
	next, err := syntax.NextValue(name)
	if err != nil {
		return "", err
	}
	if syntax.SelectTemplate == "" {
		return "select " + next, nil
	}
	return Render(syntax.SelectTemplate, next), nil
}

func (syntax SequenceSyntax) CreateSequence(name string, start, increment int) (string, error) {
	if !syntax.Supported() || syntax.CreateTemplate == "" {
		return "", ErrSequencesUnsupported
	}
	return Render(syntax.CreateTemplate, name, strconv.Itoa(start), strconv.Itoa(increment)), nil
}

func (syntax SequenceSyntax) DropSequence(name string) (string, error) {
	if !syntax.Supported() || syntax.DropTemplate == "" {
		return "", ErrSequencesUnsupported
	}
	return Render(syntax.DropTemplate, name), nil
}

func (syntax SequenceSyntax) QuerySequences() string {
	return syntax.Query
}

// IdentityColumnSupport describes auto-generated key columns.
type IdentityColumnSupport interface {
	// IdentityColumn is the column definition of an identity column of type code.
	// When HasDataTypeInIdentityColumn is true it follows the column type.
	IdentityColumn(code SQLType) (string, bool)
	HasDataTypeInIdentityColumn() bool
	IdentitySelect(table, column string, code SQLType) (string, bool)
	// IdentityInsertValue is the value inserted into identity columns, or "" to omit the column.
	IdentityInsertValue() string
}

// IdentitySyntax is a table driven IdentityColumnSupport. A zero value has no
// identity columns.
type IdentitySyntax struct {
	Column      string
	ColumnTypes map[SQLType]string
	DataType    bool
	// Select is rendered with ?1 table and ?2 column. SelectTypes overrides it per type.
	Select      string
	SelectTypes map[SQLType]string
	InsertValue string
}

func (syntax IdentitySyntax) IdentityColumn(code SQLType) (string, bool) {
	if column, ok := syntax.ColumnTypes[code]; ok {
		return column, true
	}
	return syntax.Column, syntax.Column != ""
}

func (syntax IdentitySyntax) HasDataTypeInIdentityColumn() bool {
	return syntax.DataType
}

func (syntax IdentitySyntax) IdentitySelect(table, column string, code SQLType) (string, bool) {
	template, ok := syntax.SelectTypes[code]
	if !ok {
		template = syntax.Select
	}
	if template == "" {
		return "", false
	}
	return Render(template, table, column), true
}

func (syntax IdentitySyntax) IdentityInsertValue() string {
	return syntax.InsertValue
}

// Features flags the optional SQL capabilities of a database.
type Features struct {
	WindowFunctions         bool `yaml:"window_functions"`
	Lateral                 bool `yaml:"lateral"`
	RecursiveCTE            bool `yaml:"recursive_cte"`
	ValuesList              bool `yaml:"values_list"`
	IfExistsBeforeTableName bool `yaml:"if_exists_before_table_name"`
	IfExistsAfterTableName  bool `yaml:"if_exists_after_table_name"`
	NullPrecedence          bool `yaml:"null_precedence"`
	NoWait                  bool `yaml:"nowait"`
	SkipLocked              bool `yaml:"skip_locked"`
	Wait                    bool `yaml:"wait"`
	OffsetInSubquery        bool `yaml:"offset_in_subquery"`
	TemporalLiteralOffset   bool `yaml:"temporal_literal_offset"`
	// CaseInsensitiveLike is the case insensitive like operator, "" when there is none.
	CaseInsensitiveLike string `yaml:"case_insensitive_like"`
}

// LockSupport derives the wait modifiers accepted after lock clauses.
func (features Features) LockSupport() LockSupport {
	return LockSupport{NoWait: features.NoWait, SkipLocked: features.SkipLocked, Wait: features.Wait}
}
