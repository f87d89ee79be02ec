package sqldialect

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

//lint:file-ignore U1000 Ignore report
type testDialect struct {
	Base
	features Features
	identity IdentitySyntax
	limit    LimitHandler
}

func (dialect testDialect) Name() string {
	return "test"
}

func (dialect testDialect) DatabaseVersion() Version {
	return MakeVersion(1, 0)
}

func (dialect testDialect) Param(identifier int) string {
	return fmt.Sprintf("$%d", identifier)
}

func (dialect testDialect) Features() Features {
	return dialect.features
}

func (dialect testDialect) Identity() IdentityColumnSupport {
	return dialect.identity
}

func (dialect testDialect) LimitHandler() LimitHandler {
	if dialect.limit == nil {
		return dialect.Base.LimitHandler()
	}
	return dialect.limit
}

func TestColumnDDL(t *testing.T) {
	dialect := testDialect{}
	tests := map[string]struct {
		code SQLType
		size Size
	}{
		"varchar(255)":  {VARCHAR, Size{}},
		"varchar(40)":   {VARCHAR, Size{Length: 40}},
		"numeric(38,2)": {NUMERIC, Size{}},
		"numeric(10,4)": {NUMERIC, Size{Precision: 10, Scale: 4}},
		"timestamp(6)":  {TIMESTAMP, Size{}},
		"integer":       {INTEGER, Size{}},
	}
	for expected, test := range tests {
		actual, err := ColumnDDL(dialect, test.code, test.size)
		if err != nil {
			t.Errorf("Unexpected error for %s: %s", test.code, err)
			continue
		}
		if actual != expected {
			t.Errorf("Expected '%s', got '%s'", expected, actual)
		}
	}
}

func TestQuoteIdentifierWith(t *testing.T) {
	assert.Equal(t, `"users"`, QuoteIdentifierWith("users", `"`, `"`))
	assert.Equal(t, "[users]", QuoteIdentifierWith("users", "[", "]"))
	assert.Equal(t, `"app"."users"`, QuoteIdentifierWith("app.users", `"`, `"`))
	assert.Equal(t, "`a``b`", QuoteIdentifierWith("a`b", "`", "`"))
}

func TestNormalizeIdentifierCase(t *testing.T) {
	assert.Equal(t, "USERS", NormalizeIdentifierCase("users", UpperCase))
	assert.Equal(t, "users", NormalizeIdentifierCase("Users", LowerCase))
	assert.Equal(t, "Users", NormalizeIdentifierCase("Users", MixedCase))
	assert.Equal(t, `"users"`, NormalizeIdentifierCase(`"users"`, UpperCase))
}

func TestOptionsValidate(t *testing.T) {
	tests := map[string]bool{
		"":            true,
		"rowstore":    true,
		"ColumnStore": true,
		"heap":        false,
	}
	for tableType, valid := range tests {
		err := Options{TableType: tableType}.Validate()
		if valid && err != nil {
			t.Errorf("Unexpected error for '%s': %s", tableType, err)
		}
		if !valid && err == nil {
			t.Errorf("Expected error for '%s'", tableType)
		}
	}
}
