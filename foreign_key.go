package sqldialect

import (
	"fmt"
	"strings"
)

// ForeignKey is the target of a column reference. OnUpdate and OnDelete hold
// a referential action such as "cascade" or "set null".
type ForeignKey struct {
	Table    string `yaml:"table"`
	Column   string `yaml:"column"`
	OnUpdate string `yaml:"on_update"`
	OnDelete string `yaml:"on_delete"`
}

var referentialActions = map[string]struct{}{
	"cascade":     {},
	"set null":    {},
	"set default": {},
	"restrict":    {},
	"no action":   {},
}

// ParseForeignKey reads "table(column)" or "table.column".
func ParseForeignKey(reference string) (*ForeignKey, error) {
	reference = strings.TrimSpace(reference)
	if open := strings.Index(reference, "("); open > 0 && strings.HasSuffix(reference, ")") {
		return &ForeignKey{
			Table:  strings.TrimSpace(reference[:open]),
			Column: strings.TrimSpace(reference[open+1 : len(reference)-1]),
		}, nil
	}
	if dot := strings.LastIndex(reference, "."); dot > 0 && dot < len(reference)-1 {
		return &ForeignKey{Table: reference[:dot], Column: reference[dot+1:]}, nil
	}
	return nil, fmt.Errorf("sqldialect: invalid reference '%s'. Expected 'table(column)'", reference)
}

func referentialAction(action string) (string, error) {
	normalized := strings.Join(strings.Fields(strings.ToLower(action)), " ")
	if _, ok := referentialActions[normalized]; !ok {
		return "", fmt.Errorf("sqldialect: invalid referential action '%s'", action)
	}
	return normalized, nil
}

// clause renders the references clause following a column definition.
func (fk ForeignKey) clause(dialect Dialect) (string, error) {
	if fk.Table == "" || fk.Column == "" {
		return "", fmt.Errorf("sqldialect: reference needs a table and a column")
	}
	var clause strings.Builder
	clause.WriteString(" references ")
	clause.WriteString(dialect.QuoteIdentifier(fk.Table))
	clause.WriteString(" (")
	clause.WriteString(dialect.QuoteIdentifier(fk.Column))
	clause.WriteString(")")
	if fk.OnUpdate != "" {
		action, err := referentialAction(fk.OnUpdate)
		if err != nil {
			return "", err
		}
		clause.WriteString(" on update ")
		clause.WriteString(action)
	}
	if fk.OnDelete != "" {
		action, err := referentialAction(fk.OnDelete)
		if err != nil {
			return "", err
		}
		clause.WriteString(" on delete ")
		clause.WriteString(action)
	}
	return clause.String(), nil
}
