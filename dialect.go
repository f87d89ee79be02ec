package sqldialect

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

type TypeMapper interface {
	// ColumnType is the DDL type template for code, with $l, $p and $s
	// placeholders. An empty string means the database has no such type.
	ColumnType(code SQLType) string
	CastType(code SQLType) string
	Sizing() Sizing
}

type TemporalSupport interface {
	ExtractPattern(unit TemporalUnit) string
	TranslateExtractField(unit TemporalUnit) string
	// TimestampaddPattern renders ?1 unit, ?2 magnitude and ?3 the temporal
	// value. interval is set when the magnitude is a duration in the unit's
	// normalized form.
	TimestampaddPattern(unit TemporalUnit, temporalType TemporalType, interval bool) (string, error)
	// TimestampdiffPattern renders ?1 unit, ?2 from and ?3 to.
	TimestampdiffPattern(unit TemporalUnit, from, to TemporalType) (string, error)
	DateTimeLiteral(t time.Time, temporalType TemporalType, withOffset bool) (string, error)
}

// Dialect is everything a query or DDL generator needs to know about one
// database product at one version.
type Dialect interface {
	TypeMapper
	TemporalSupport
	Locker
	ErrorTranslator
	FunctionContributor

	Name() string
	DatabaseVersion() Version

	Param(i int) string
	QuoteIdentifier(identifier string) string
	NormalizeIdentifier(identifier string) string

	LimitHandler() LimitHandler
	Sequences() SequenceSupport
	Identity() IdentityColumnSupport
	Features() Features

	CurrentTimestampSelectString() string
	CurrentValue(temporalType TemporalType) string
	NoColumnsInsertString() string
	CascadeConstraintsString() string
	AddColumnString() string
	CreateTableString() string
	TableExistsQuery(table string) string
	VersionQuery() string

	BooleanLiteral(value bool) string
	UUIDLiteral(id uuid.UUID) string
	BinaryLiteral(value []byte) string
}

type DialectStringer interface {
	StringForDialect(Dialect) string
}

type DialectStringerWithArgs interface {
	StringWithArgs(Dialect, []interface{}) (string, []interface{}, error)
}

// ColumnDDL is the expanded column type of code, with unset size fields
// defaulted from the dialect's sizing.
func ColumnDDL(d Dialect, code SQLType, size Size) (string, error) {
	template := d.ColumnType(code)
	if template == "" {
		return "", fmt.Errorf("sqldialect: %s has no column type for %s", d.Name(), code)
	}
	return ExpandType(template, d.Sizing().SizeFor(code, size)), nil
}

// CastDDL is the expanded cast target type of code.
func CastDDL(d Dialect, code SQLType, size Size) (string, error) {
	template := d.CastType(code)
	if template == "" {
		return "", fmt.Errorf("sqldialect: %s cannot cast to %s", d.Name(), code)
	}
	return ExpandType(template, d.Sizing().SizeFor(code, size)), nil
}

// IdentifierCase is how a database stores unquoted identifiers.
type IdentifierCase int

const (
	UpperCase IdentifierCase = iota
	LowerCase
	MixedCase
)

// NormalizeIdentifierCase folds an unquoted identifier the way the database
// would. Quoted identifiers are returned unchanged.
func NormalizeIdentifierCase(identifier string, identifierCase IdentifierCase) string {
	if isQuoted(identifier) {
		return identifier
	}
	switch identifierCase {
	case UpperCase:
		return cases.Upper(language.Und).String(identifier)
	case LowerCase:
		return cases.Lower(language.Und).String(identifier)
	}
	return identifier
}

func isQuoted(identifier string) bool {
	if len(identifier) < 2 {
		return false
	}
	first, last := identifier[0], identifier[len(identifier)-1]
	return (first == '"' && last == '"') || (first == '`' && last == '`') || (first == '[' && last == ']')
}

// QuoteIdentifierWith quotes each dot separated part of identifier, doubling
// any closing quote inside a part.
func QuoteIdentifierWith(identifier, open, close string) string {
	var query strings.Builder
	for i, part := range strings.Split(identifier, ".") {
		if i > 0 {
			query.WriteString(".")
		}
		query.WriteString(open)
		query.WriteString(strings.ReplaceAll(part, close, close+close))
		query.WriteString(close)
	}
	return query.String()
}

// Options configure a dialect when it is opened by name.
type Options struct {
	Version Version `yaml:"version"`
	// DriverKind names the client driver flavor where it changes the SQL.
	DriverKind string `yaml:"driver_kind"`
	// TableType is the SingleStore table type, "rowstore" or "columnstore".
	TableType string `yaml:"table_type"`
	// ForUpdateLocking enables row locking clauses on SingleStore.
	ForUpdateLocking bool `yaml:"for_update_locking"`
	// PreferLongRaw maps long binary types to Oracle's long raw instead of blob.
	PreferLongRaw bool `yaml:"prefer_long_raw"`
	// UseLocalTime registers localtime and localtimestamp on H2.
	UseLocalTime bool `yaml:"use_local_time"`
}

func (options Options) Validate() error {
	switch strings.ToLower(options.TableType) {
	case "", "rowstore", "columnstore":
	default:
		return fmt.Errorf("sqldialect: invalid table type '%s'", options.TableType)
	}
	return nil
}

// LoadOptions reads options from a YAML file.
func LoadOptions(path string) (Options, error) {
	var options Options
	data, err := os.ReadFile(path)
	if err != nil {
		return options, fmt.Errorf("sqldialect: read options: %w", err)
	}
	if err := yaml.Unmarshal(data, &options); err != nil {
		return options, fmt.Errorf("sqldialect: parse options %s: %w", path, err)
	}
	return options, options.Validate()
}
