package gaussdbdialect

import (
	"encoding/hex"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/evantbyrne/sqldialect"
	"github.com/google/uuid"
)

var (
	ErrMalformedStruct = errors.New("struct not properly formed")
	ErrMalformedArray  = errors.New("array not properly formed")
)

// Kind is the type of a composite attribute.
type Kind int

const (
	String Kind = iota
	Bool
	Int
	Float
	Numeric
	Date
	Time
	Timestamp
	TimestampTZ
	Binary
	UUID
	Struct
	Array
)

// Field is one attribute of a composite type. Struct describes the nested
// type of a Struct field and Elem the element of an Array field.
type Field struct {
	Name   string
	Kind   Kind
	Struct *StructType
	Elem   *Field
}

// StructType describes a composite type, with its fields in declaration order.
type StructType struct {
	Name   string
	Fields []Field
}

const (
	timeLayout        = "15:04:05.999999999"
	timestampLayout   = "2006-01-02 15:04:05.999999"
	timestampTZLayout = "2006-01-02 15:04:05.999999-07:00"
)

// appender writes a composite literal. Each nested quote level doubles quote,
// and a '"' or '\' written inside quotes is preceded by quote-1 backslashes.
type appender struct {
	sb    strings.Builder
	quote int
}

func (a *appender) writeByte(c byte) {
	if a.quote != 1 && (c == '"' || c == '\\') {
		for i := 1; i < a.quote; i++ {
			a.sb.WriteByte('\\')
		}
	}
	a.sb.WriteByte(c)
}

func (a *appender) writeString(s string) {
	for i := 0; i < len(s); i++ {
		a.writeByte(s[i])
	}
}

func (a *appender) quoteStart() {
	a.writeByte('"')
	a.quote <<= 1
}

func (a *appender) quoteEnd() {
	a.quote >>= 1
	a.writeByte('"')
}

func (a *appender) writeQuoted(s string) {
	a.quoteStart()
	a.writeString(s)
	a.quoteEnd()
}

// Format serializes values, one per field, as a composite literal. Nil values
// are written as empty attributes.
func (structType *StructType) Format(values []any) (string, error) {
	a := &appender{quote: 1}
	if err := structType.writeTo(a, values); err != nil {
		return "", err
	}
	return a.sb.String(), nil
}

func (structType *StructType) writeTo(a *appender, values []any) error {
	if len(values) != len(structType.Fields) {
		return fmt.Errorf("gaussdbdialect: %s has %d fields, got %d values", structType.Name, len(structType.Fields), len(values))
	}
	a.writeByte('(')
	for i, field := range structType.Fields {
		if i > 0 {
			a.writeByte(',')
		}
		if values[i] == nil {
			continue
		}
		if err := field.writeTo(a, values[i]); err != nil {
			return fmt.Errorf("gaussdbdialect: field %s: %w", field.Name, err)
		}
	}
	a.writeByte(')')
	return nil
}

func (field Field) writeTo(a *appender, value any) error {
	switch field.Kind {
	case String:
		s, ok := value.(string)
		if !ok {
			return unexpectedValue(field, value)
		}
		a.writeQuoted(s)
	case Bool:
		b, ok := value.(bool)
		if !ok {
			return unexpectedValue(field, value)
		}
		a.writeString(strconv.FormatBool(b))
	case Int, Float, Numeric:
		s, err := formatNumber(value)
		if err != nil {
			return err
		}
		a.writeString(s)
	case Date, Time, Timestamp, TimestampTZ:
		t, ok := value.(time.Time)
		if !ok {
			return unexpectedValue(field, value)
		}
		a.writeByte('"')
		a.writeString(formatTemporal(field.Kind, t))
		a.writeByte('"')
	case Binary:
		b, ok := value.([]byte)
		if !ok {
			return unexpectedValue(field, value)
		}
		a.writeByte('\\')
		a.writeByte('\\')
		a.writeByte('x')
		a.writeString(hex.EncodeToString(b))
	case UUID:
		switch id := value.(type) {
		case uuid.UUID:
			a.writeString(id.String())
		case string:
			parsed, err := uuid.Parse(id)
			if err != nil {
				return err
			}
			a.writeString(parsed.String())
		default:
			return unexpectedValue(field, value)
		}
	case Struct:
		values, ok := value.([]any)
		if !ok || field.Struct == nil {
			return unexpectedValue(field, value)
		}
		a.quoteStart()
		if err := field.Struct.writeTo(a, values); err != nil {
			return err
		}
		a.quoteEnd()
	case Array:
		return field.writeArray(a, value)
	default:
		return fmt.Errorf("gaussdbdialect: unsupported kind %d", field.Kind)
	}
	return nil
}

func (field Field) writeArray(a *appender, value any) error {
	v := reflect.ValueOf(value)
	if field.Elem == nil || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) {
		return unexpectedValue(field, value)
	}
	if v.Len() == 0 {
		a.writeString("{}")
		return nil
	}
	a.quoteStart()
	a.writeByte('{')
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			a.writeByte(',')
		}
		element := v.Index(i).Interface()
		if isNil(element) {
			a.sb.WriteString("NULL")
			continue
		}
		if err := field.Elem.writeTo(a, element); err != nil {
			return err
		}
	}
	a.writeByte('}')
	a.quoteEnd()
	return nil
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map:
		return v.IsNil()
	}
	return false
}

func unexpectedValue(field Field, value any) error {
	return fmt.Errorf("gaussdbdialect: unexpected %T for field %s", value, field.Name)
}

func formatNumber(value any) (string, error) {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v), nil
	case int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(v).Int(), 10), nil
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(v).Uint(), 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	}
	return "", fmt.Errorf("gaussdbdialect: unexpected %T for number", value)
}

func formatTemporal(kind Kind, t time.Time) string {
	switch kind {
	case Date:
		return sqldialect.FormatDate(t)
	case Time:
		return t.Format(timeLayout)
	case Timestamp:
		return t.Format(timestampLayout)
	}
	return t.Format(timestampTZLayout)
}

// token is one attribute of a composite literal after unescaping.
type token struct {
	value  string
	quoted bool
}

func (t token) null() bool {
	return !t.quoted && t.value == ""
}

func malformedStruct(s string) error {
	return fmt.Errorf("gaussdbdialect: %w: %s", ErrMalformedStruct, s)
}

func malformedArray(s string) error {
	return fmt.Errorf("gaussdbdialect: %w: %s", ErrMalformedArray, s)
}

// splitTokens splits one level of a composite literal. Inside quotes both ""
// and backslash escapes are accepted; outside them only backslash escapes.
func splitTokens(s string) ([]token, error) {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return nil, malformedStruct(s)
	}
	var tokens []token
	var current strings.Builder
	quoted := false
	inQuote := false
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			if i+1 >= len(s) {
				return nil, malformedStruct(s)
			}
			i++
			current.WriteByte(s[i])
		case c == '"' && inQuote:
			if i+1 < len(s) && s[i+1] == '"' {
				i++
				current.WriteByte('"')
				continue
			}
			inQuote = false
		case c == '"':
			inQuote = true
			quoted = true
		case inQuote:
			current.WriteByte(c)
		case c == ',' || c == ')':
			tokens = append(tokens, token{value: current.String(), quoted: quoted})
			current.Reset()
			quoted = false
			if c == ')' {
				if i != len(s)-1 {
					return nil, malformedStruct(s)
				}
				return tokens, nil
			}
		default:
			current.WriteByte(c)
		}
	}
	return nil, malformedStruct(s)
}

// SplitStruct splits a composite literal into its raw attribute values. Nil
// entries are SQL nulls.
func SplitStruct(s string) ([]*string, error) {
	tokens, err := splitTokens(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	values := make([]*string, len(tokens))
	for i, t := range tokens {
		if t.null() {
			continue
		}
		value := t.value
		values[i] = &value
	}
	return values, nil
}

// Parse reads a composite literal into one typed value per field: string,
// bool, int64, float64, time.Time, []byte, uuid.UUID, []any for nested
// structs and arrays, or nil. Numeric attributes are returned as strings.
func (structType *StructType) Parse(s string) ([]any, error) {
	tokens, err := splitTokens(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	if len(tokens) != len(structType.Fields) {
		return nil, fmt.Errorf("gaussdbdialect: %w: %s has %d fields, got %d", ErrMalformedStruct, structType.Name, len(structType.Fields), len(tokens))
	}
	values := make([]any, len(tokens))
	for i, t := range tokens {
		if t.null() {
			continue
		}
		field := structType.Fields[i]
		if values[i], err = field.decode(t.value); err != nil {
			return nil, fmt.Errorf("gaussdbdialect: field %s: %w", field.Name, err)
		}
	}
	return values, nil
}

func (field Field) decode(s string) (any, error) {
	switch field.Kind {
	case String:
		return s, nil
	case Bool:
		return parseBool(s)
	case Int:
		return strconv.ParseInt(s, 10, 64)
	case Float:
		return strconv.ParseFloat(s, 64)
	case Numeric:
		return s, nil
	case Date:
		return time.Parse("2006-01-02", s)
	case Time:
		return parseTime(s, "15:04:05.999999999", "15:04:05.999999999-07:00", "15:04:05.999999999-07")
	case Timestamp:
		return parseTime(s, "2006-01-02 15:04:05.999999999", "2006-01-02T15:04:05.999999999")
	case TimestampTZ:
		return parseTime(s, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05.999999999-07", "2006-01-02 15:04:05.999999999-07:00:00", time.RFC3339Nano)
	case Binary:
		if !strings.HasPrefix(s, `\x`) {
			return nil, fmt.Errorf("gaussdbdialect: invalid bytea %q", s)
		}
		return hex.DecodeString(s[2:])
	case UUID:
		return uuid.Parse(s)
	case Struct:
		if field.Struct == nil {
			return nil, fmt.Errorf("gaussdbdialect: field %s has no struct type", field.Name)
		}
		return field.Struct.Parse(s)
	case Array:
		if field.Elem == nil {
			return nil, fmt.Errorf("gaussdbdialect: field %s has no element type", field.Name)
		}
		return parseArray(*field.Elem, s)
	}
	return nil, fmt.Errorf("gaussdbdialect: unsupported kind %d", field.Kind)
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "t", "true", "y", "yes", "on", "1":
		return true, nil
	case "f", "false", "n", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("gaussdbdialect: invalid boolean %q", s)
}

func parseTime(s string, layouts ...string) (time.Time, error) {
	var err error
	for _, layout := range layouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func parseArray(elem Field, s string) ([]any, error) {
	s = strings.TrimSpace(s)
	values, end, err := readArray(elem, s, 0)
	if err != nil {
		return nil, err
	}
	if end != len(s) {
		return nil, malformedArray(s)
	}
	return values, nil
}

// readArray reads the array starting at s[start] and returns the index after
// its closing brace. Nested arrays may be bare or quoted.
func readArray(elem Field, s string, start int) ([]any, int, error) {
	if start >= len(s) || s[start] != '{' {
		return nil, 0, malformedArray(s)
	}
	values := []any{}
	i := start + 1
	if i < len(s) && s[i] == '}' {
		return values, i + 1, nil
	}
	for i < len(s) {
		switch {
		case s[i] == '{':
			if elem.Kind != Array || elem.Elem == nil {
				return nil, 0, malformedArray(s)
			}
			nested, end, err := readArray(*elem.Elem, s, i)
			if err != nil {
				return nil, 0, err
			}
			values = append(values, nested)
			i = end
		case s[i] == '"':
			var element strings.Builder
			i++
			closed := false
			for ; i < len(s); i++ {
				if s[i] == '\\' && i+1 < len(s) {
					i++
					element.WriteByte(s[i])
					continue
				}
				if s[i] == '"' {
					if i+1 < len(s) && s[i+1] == '"' {
						i++
						element.WriteByte('"')
						continue
					}
					closed = true
					i++
					break
				}
				element.WriteByte(s[i])
			}
			if !closed {
				return nil, 0, malformedArray(s)
			}
			value, err := elem.decode(element.String())
			if err != nil {
				return nil, 0, err
			}
			values = append(values, value)
		default:
			var element strings.Builder
			for ; i < len(s) && s[i] != ',' && s[i] != '}'; i++ {
				if s[i] == '\\' && i+1 < len(s) {
					i++
				}
				element.WriteByte(s[i])
			}
			raw := strings.TrimSpace(element.String())
			if raw == "" {
				return nil, 0, malformedArray(s)
			}
			if strings.EqualFold(raw, "null") {
				values = append(values, nil)
				break
			}
			value, err := elem.decode(raw)
			if err != nil {
				return nil, 0, err
			}
			values = append(values, value)
		}
		if i >= len(s) {
			return nil, 0, malformedArray(s)
		}
		switch s[i] {
		case ',':
			i++
		case '}':
			return values, i + 1, nil
		default:
			return nil, 0, malformedArray(s)
		}
	}
	return nil, 0, malformedArray(s)
}

// StructLiteral renders values as a typed composite literal of structType.
func (dialect GaussDBDialect) StructLiteral(structType *StructType, values []any) (string, error) {
	formatted, err := structType.Format(values)
	if err != nil {
		return "", err
	}
	return sqldialect.QuoteString(formatted) + "::" + dialect.QuoteIdentifier(structType.Name), nil
}
