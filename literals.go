package sqldialect

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	dateLayout            = "2006-01-02"
	timeLayout            = "15:04:05"
	offsetLayout          = "-07:00"
	timestampMillisLayout = "2006-01-02 15:04:05.000"
	timestampMicrosLayout = "2006-01-02 15:04:05.000000"
	timestampNanosLayout  = "2006-01-02 15:04:05.000000000"
)

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatTime renders hh:mm:ss, followed by the zone offset when withOffset is set.
func FormatTime(t time.Time, withOffset bool) string {
	if withOffset {
		return t.Format(timeLayout + offsetLayout)
	}
	return t.Format(timeLayout)
}

func FormatTimestampMillis(t time.Time, withOffset bool) string {
	return formatTimestamp(t, timestampMillisLayout, withOffset)
}

func FormatTimestampMicros(t time.Time, withOffset bool) string {
	return formatTimestamp(t, timestampMicrosLayout, withOffset)
}

func FormatTimestampNanos(t time.Time, withOffset bool) string {
	return formatTimestamp(t, timestampNanosLayout, withOffset)
}

func formatTimestamp(t time.Time, layout string, withOffset bool) string {
	if withOffset {
		return t.Format(layout + offsetLayout)
	}
	return t.Format(layout)
}

func unknownTemporalType(temporalType TemporalType) error {
	return fmt.Errorf("sqldialect: unsupported temporal type %s", temporalType)
}

// JDBCEscapeLiteral renders {d '...'}, {t '...'} and {ts '...'} escapes with
// microsecond timestamps. offsets controls whether withOffset is honored.
func JDBCEscapeLiteral(t time.Time, temporalType TemporalType, withOffset, offsets bool) (string, error) {
	withOffset = withOffset && offsets
	switch temporalType {
	case TemporalDate:
		return "{d '" + FormatDate(t) + "'}", nil
	case TemporalTime:
		return "{t '" + FormatTime(t, withOffset) + "'}", nil
	case TemporalTimestamp:
		return "{ts '" + FormatTimestampMicros(t, withOffset) + "'}", nil
	}
	return "", unknownTemporalType(temporalType)
}

// ANSILiteral renders date '...', time '...' and timestamp '...' literals.
// With an offset the with time zone forms are used. timestamp formats the
// timestamp body, FormatTimestampMicros when nil.
func ANSILiteral(t time.Time, temporalType TemporalType, withOffset bool, timestamp func(time.Time, bool) string) (string, error) {
	if timestamp == nil {
		timestamp = FormatTimestampMicros
	}
	switch temporalType {
	case TemporalDate:
		return "date '" + FormatDate(t) + "'", nil
	case TemporalTime:
		if withOffset {
			return "time with time zone '" + FormatTime(t, true) + "'", nil
		}
		return "time '" + FormatTime(t, false) + "'", nil
	case TemporalTimestamp:
		if withOffset {
			return "timestamp with time zone '" + timestamp(t, true) + "'", nil
		}
		return "timestamp '" + timestamp(t, false) + "'", nil
	}
	return "", unknownTemporalType(temporalType)
}

// QuoteString renders value as a single quoted SQL string literal.
func QuoteString(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

func NumericBooleanLiteral(value bool) string {
	if value {
		return "1"
	}
	return "0"
}

func KeywordBooleanLiteral(value bool) string {
	if value {
		return "true"
	}
	return "false"
}

func HexBinaryLiteral(value []byte) string {
	return "X'" + hex.EncodeToString(value) + "'"
}

func StringUUIDLiteral(id uuid.UUID) string {
	return QuoteString(id.String())
}
