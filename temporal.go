package sqldialect

import (
	"fmt"
	"strconv"
	"strings"
)

// TemporalUnit is a date/time granularity used by extract() and date arithmetic.
type TemporalUnit int

const (
	YEAR TemporalUnit = iota + 1
	QUARTER
	MONTH
	WEEK
	DAY
	HOUR
	MINUTE
	SECOND
	NANOSECOND
	NATIVE
	DAY_OF_WEEK
	DAY_OF_MONTH
	DAY_OF_YEAR
	WEEK_OF_MONTH
	WEEK_OF_YEAR
	OFFSET
	TIMEZONE_HOUR
	TIMEZONE_MINUTE
	DATE_UNIT
	TIME_UNIT
	EPOCH
)

var temporalUnitNames = map[TemporalUnit]string{
	YEAR:            "year",
	QUARTER:         "quarter",
	MONTH:           "month",
	WEEK:            "week",
	DAY:             "day",
	HOUR:            "hour",
	MINUTE:          "minute",
	SECOND:          "second",
	NANOSECOND:      "nanosecond",
	NATIVE:          "native",
	DAY_OF_WEEK:     "day_of_week",
	DAY_OF_MONTH:    "day_of_month",
	DAY_OF_YEAR:     "day_of_year",
	WEEK_OF_MONTH:   "week_of_month",
	WEEK_OF_YEAR:    "week_of_year",
	OFFSET:          "offset",
	TIMEZONE_HOUR:   "timezone_hour",
	TIMEZONE_MINUTE: "timezone_minute",
	DATE_UNIT:       "date",
	TIME_UNIT:       "time",
	EPOCH:           "epoch",
}

func (unit TemporalUnit) String() string {
	if name, ok := temporalUnitNames[unit]; ok {
		return name
	}
	return "TemporalUnit(" + strconv.Itoa(int(unit)) + ")"
}

func ParseTemporalUnit(name string) (TemporalUnit, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for unit, unitName := range temporalUnitNames {
		if unitName == lower {
			return unit, nil
		}
	}
	return 0, fmt.Errorf("sqldialect: unknown temporal unit '%s'", name)
}

// Normalized is the unit durations of this unit are measured in: MONTH for
// calendar units, NANOSECOND for everything with a fixed length.
func (unit TemporalUnit) Normalized() TemporalUnit {
	switch unit {
	case YEAR, QUARTER, MONTH:
		return MONTH
	}
	return NANOSECOND
}

func (unit TemporalUnit) IsDateUnit() bool {
	switch unit {
	case YEAR, QUARTER, MONTH, WEEK, DAY:
		return true
	}
	return false
}

func (unit TemporalUnit) factor(nativeNanos int64) (int64, error) {
	switch unit {
	case YEAR:
		return 12, nil
	case QUARTER:
		return 3, nil
	case MONTH:
		return 1, nil
	case WEEK:
		return 7 * 86_400_000_000_000, nil
	case DAY:
		return 86_400_000_000_000, nil
	case HOUR:
		return 3_600_000_000_000, nil
	case MINUTE:
		return 60_000_000_000, nil
	case SECOND, EPOCH:
		return 1_000_000_000, nil
	case NANOSECOND:
		return 1, nil
	case NATIVE:
		if nativeNanos <= 0 {
			return 1, nil
		}
		return nativeNanos, nil
	}
	return 0, fmt.Errorf("sqldialect: %s is not a duration unit", unit)
}

func (unit TemporalUnit) group() TemporalUnit {
	if unit == EPOCH {
		return NANOSECOND
	}
	return unit.Normalized()
}

// ConversionFactor is the SQL suffix ("*60", "/1e9", "") converting an
// amount in this unit into an amount in the to unit. nativeNanos is the
// length of the dialect's NATIVE unit in nanoseconds.
func (unit TemporalUnit) ConversionFactor(to TemporalUnit, nativeNanos int64) (string, error) {
	if unit == to {
		return "", nil
	}
	if unit.group() != to.group() {
		return "", fmt.Errorf("sqldialect: cannot convert %s to %s", unit, to)
	}
	from, err := unit.factor(nativeNanos)
	if err != nil {
		return "", err
	}
	target, err := to.factor(nativeNanos)
	if err != nil {
		return "", err
	}
	switch {
	case from == target:
		return "", nil
	case from > target:
		return "*" + formatFactor(from/target), nil
	default:
		return "/" + formatFactor(target/from), nil
	}
}

func formatFactor(n int64) string {
	if n >= 1000 {
		exponent := 0
		for m := n; m%10 == 0; m /= 10 {
			exponent++
			if m/10 == 1 {
				return "1e" + strconv.Itoa(exponent)
			}
		}
	}
	return strconv.FormatInt(n, 10)
}

// TemporalType is the precision of a temporal value or literal.
type TemporalType int

const (
	TemporalDate TemporalType = iota + 1
	TemporalTime
	TemporalTimestamp
)

func (temporalType TemporalType) String() string {
	switch temporalType {
	case TemporalDate:
		return "date"
	case TemporalTime:
		return "time"
	case TemporalTimestamp:
		return "timestamp"
	}
	return "TemporalType(" + strconv.Itoa(int(temporalType)) + ")"
}

func ParseTemporalType(name string) (TemporalType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "date":
		return TemporalDate, nil
	case "time":
		return TemporalTime, nil
	case "timestamp", "":
		return TemporalTimestamp, nil
	}
	return 0, fmt.Errorf("sqldialect: unknown temporal type '%s'", name)
}

const DefaultExtractPattern = "extract(?1 from ?2)"

func DefaultTranslateExtractField(unit TemporalUnit) string {
	switch unit {
	case DAY_OF_MONTH:
		return "dd"
	case DAY_OF_YEAR:
		return "dy"
	case DAY_OF_WEEK:
		return "dw"
	}
	return unit.String()
}

// UnsupportedUnitError is returned by pattern getters for units a database cannot handle.
type UnsupportedUnitError struct {
	Dialect   string
	Operation string
	Unit      TemporalUnit
}

func (err *UnsupportedUnitError) Error() string {
	return fmt.Sprintf("sqldialect: %s does not support %s for unit %s", err.Dialect, err.Operation, err.Unit)
}

// Render substitutes ?1, ?2 ... in pattern with args. A trailing "..." after a
// placeholder repeats it for the remaining args, separated by the literal text
// preceding the placeholder. Placeholders without a matching arg are kept.
func Render(pattern string, args ...string) string {
	var out strings.Builder
	chunkStart := 0
	i := 0
	for i < len(pattern) {
		if pattern[i] != '?' {
			i++
			continue
		}
		j := i + 1
		for j < len(pattern) && pattern[j] >= '0' && pattern[j] <= '9' {
			j++
		}
		if j == i+1 {
			i++
			continue
		}
		n, _ := strconv.Atoi(pattern[i+1 : j])
		chunk := pattern[chunkStart:i]
		out.WriteString(chunk)
		variadic := strings.HasPrefix(pattern[j:], "...")
		if variadic {
			j += 3
		}
		switch {
		case n < 1 || n > len(args):
			out.WriteString(pattern[i:j])
		case variadic:
			separator := chunk
			if chunkStart == 0 {
				separator = ","
			}
			out.WriteString(args[n-1])
			for _, arg := range args[n:] {
				out.WriteString(separator)
				out.WriteString(arg)
			}
		default:
			out.WriteString(args[n-1])
		}
		i = j
		chunkStart = j
	}
	out.WriteString(pattern[chunkStart:])
	return out.String()
}
