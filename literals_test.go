package sqldialect

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemporalLiterals(t *testing.T) {
	zone := time.FixedZone("", -5*60*60)
	moment := time.Date(2024, 2, 29, 13, 4, 5, 123456789, zone)

	assert.Equal(t, "2024-02-29", FormatDate(moment))
	assert.Equal(t, "13:04:05", FormatTime(moment, false))
	assert.Equal(t, "13:04:05-05:00", FormatTime(moment, true))
	assert.Equal(t, "2024-02-29 13:04:05.123", FormatTimestampMillis(moment, false))
	assert.Equal(t, "2024-02-29 13:04:05.123456-05:00", FormatTimestampMicros(moment, true))
	assert.Equal(t, "2024-02-29 13:04:05.123456789", FormatTimestampNanos(moment, false))

	tests := []struct {
		temporalType TemporalType
		withOffset   bool
		jdbc         string
		ansi         string
	}{
		{TemporalDate, false, "{d '2024-02-29'}", "date '2024-02-29'"},
		{TemporalTime, false, "{t '13:04:05'}", "time '13:04:05'"},
		{TemporalTime, true, "{t '13:04:05'}", "time with time zone '13:04:05-05:00'"},
		{TemporalTimestamp, false, "{ts '2024-02-29 13:04:05.123456'}", "timestamp '2024-02-29 13:04:05.123456'"},
		{TemporalTimestamp, true, "{ts '2024-02-29 13:04:05.123456'}", "timestamp with time zone '2024-02-29 13:04:05.123456-05:00'"},
	}
	for _, test := range tests {
		jdbc, err := JDBCEscapeLiteral(moment, test.temporalType, test.withOffset, false)
		require.NoError(t, err)
		assert.Equal(t, test.jdbc, jdbc)
		ansi, err := ANSILiteral(moment, test.temporalType, test.withOffset, nil)
		require.NoError(t, err)
		assert.Equal(t, test.ansi, ansi)
	}

	jdbc, err := JDBCEscapeLiteral(moment, TemporalTimestamp, true, true)
	require.NoError(t, err)
	assert.Equal(t, "{ts '2024-02-29 13:04:05.123456-05:00'}", jdbc)

	ansi, err := ANSILiteral(moment, TemporalTimestamp, false, FormatTimestampMillis)
	require.NoError(t, err)
	assert.Equal(t, "timestamp '2024-02-29 13:04:05.123'", ansi)

	_, err = ANSILiteral(moment, TemporalType(9), false, nil)
	assert.Error(t, err)
	_, err = JDBCEscapeLiteral(moment, TemporalType(9), false, false)
	assert.Error(t, err)
}

func TestScalarLiterals(t *testing.T) {
	assert.Equal(t, "'it''s'", QuoteString("it's"))
	assert.Equal(t, "1", NumericBooleanLiteral(true))
	assert.Equal(t, "0", NumericBooleanLiteral(false))
	assert.Equal(t, "true", KeywordBooleanLiteral(true))
	assert.Equal(t, "false", KeywordBooleanLiteral(false))
	assert.Equal(t, "X'00ff10'", HexBinaryLiteral([]byte{0x00, 0xff, 0x10}))
	id := uuid.MustParse("0b5e9f5c-6c3f-4d7e-9a57-2f1d1a6c9e01")
	assert.Equal(t, "'0b5e9f5c-6c3f-4d7e-9a57-2f1d1a6c9e01'", StringUUIDLiteral(id))
}
