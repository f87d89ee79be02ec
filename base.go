package sqldialect

import (
	"time"

	"github.com/google/uuid"
)

// Base holds the ANSI behavior shared by the vendor dialects, which embed it
// and override what differs. Base methods never call back into the embedding
// dialect, so a vendor overriding ForUpdateString also overrides the lock
// methods derived from it.
type Base struct{}

func (Base) ColumnType(code SQLType) string {
	return DefaultColumnType(code)
}

func (Base) CastType(code SQLType) string {
	return DefaultCastType(code)
}

func (Base) Sizing() Sizing {
	return DefaultSizing
}

func (Base) ExtractPattern(unit TemporalUnit) string {
	return DefaultExtractPattern
}

func (Base) TranslateExtractField(unit TemporalUnit) string {
	return DefaultTranslateExtractField(unit)
}

func (Base) TimestampaddPattern(unit TemporalUnit, temporalType TemporalType, interval bool) (string, error) {
	return "timestampadd(?1,?2,?3)", nil
}

func (Base) TimestampdiffPattern(unit TemporalUnit, from, to TemporalType) (string, error) {
	return "timestampdiff(?1,?2,?3)", nil
}

func (Base) DateTimeLiteral(t time.Time, temporalType TemporalType, withOffset bool) (string, error) {
	return JDBCEscapeLiteral(t, temporalType, withOffset, false)
}

func (Base) ForUpdateString() string {
	return " for update"
}

func (Base) ForUpdateOf(aliases string) string {
	return " for update"
}

func (Base) ForUpdateNowaitString(aliases string) string {
	return " for update"
}

func (Base) ForUpdateSkipLockedString(aliases string) string {
	return " for update"
}

func (Base) WriteLockString(aliases string, timeout Timeout) string {
	return " for update"
}

func (Base) ReadLockString(aliases string, timeout Timeout) string {
	return " for update"
}

func (Base) LockHint(table string, options LockOptions) string {
	return table
}

func (Base) TranslateError(err error) error {
	return TranslateWith(err, nil, StandardClassifier)
}

func (Base) RegisterFunctions(registry *FunctionRegistry) {
	NewCommonFunctions(registry).Standard()
}

func (Base) Param(i int) string {
	return "?"
}

func (Base) QuoteIdentifier(identifier string) string {
	return QuoteIdentifierWith(identifier, `"`, `"`)
}

func (Base) NormalizeIdentifier(identifier string) string {
	return NormalizeIdentifierCase(identifier, UpperCase)
}

func (Base) LimitHandler() LimitHandler {
	return OffsetFetchHandler{}
}

func (Base) Sequences() SequenceSupport {
	return SequenceSyntax{}
}

func (Base) Identity() IdentityColumnSupport {
	return IdentitySyntax{}
}

func (Base) Features() Features {
	return Features{}
}

func (Base) CurrentTimestampSelectString() string {
	return "select current_timestamp"
}

func (Base) CurrentValue(temporalType TemporalType) string {
	switch temporalType {
	case TemporalDate:
		return "current_date"
	case TemporalTime:
		return "current_time"
	}
	return "current_timestamp"
}

func (Base) NoColumnsInsertString() string {
	return "values ( )"
}

func (Base) CascadeConstraintsString() string {
	return ""
}

func (Base) AddColumnString() string {
	return "add column"
}

func (Base) CreateTableString() string {
	return "create table"
}

func (Base) TableExistsQuery(table string) string {
	return "select count(*) from information_schema.tables where table_name=" + QuoteString(table)
}

func (Base) VersionQuery() string {
	return "select version()"
}

func (Base) BooleanLiteral(value bool) string {
	return NumericBooleanLiteral(value)
}

func (Base) UUIDLiteral(id uuid.UUID) string {
	return StringUUIDLiteral(id)
}

func (Base) BinaryLiteral(value []byte) string {
	return HexBinaryLiteral(value)
}
