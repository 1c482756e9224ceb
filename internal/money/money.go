package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// zeroDecimal lists currencies without a minor unit. Amounts in these
// currencies are formatted as whole numbers.
var zeroDecimal = map[string]struct{}{
	"HUF": {},
	"JPY": {},
	"TWD": {},
}

// floorEpsilon compensates for binary float artifacts when truncating.
// Without it floor(8.20 * 100) yields 819 because 8.20*100 is stored as
// 819.999999…; anything within a micro-unit of the next integer counts
// as that integer.
const floorEpsilon = 1e-6

// Money is an immutable (value, currency) pair. The raw value is kept as
// received from upstream; all reconciliation arithmetic goes through the
// minor-unit conversions below.
type Money struct {
	value    float64
	currency string
}

// New returns a Money holding the given value in the given ISO-4217 currency.
func New(value float64, currency string) Money {
	return Money{value: value, currency: strings.ToUpper(strings.TrimSpace(currency))}
}

// FromMinorUnits builds a Money from an integer amount of minor units.
func FromMinorUnits(minor int64, currency string) Money {
	factor := MinorUnitFactor(currency)
	return New(float64(minor)/float64(factor), currency)
}

// Value returns the raw decimal value.
func (m Money) Value() float64 { return m.value }

// CurrencyCode returns the ISO-4217 currency code.
func (m Money) CurrencyCode() string { return m.currency }

// IsZero reports whether the value rounds to zero minor units.
func (m Money) IsZero() bool { return m.MinorUnits() == 0 }

// MinorUnitFactor returns how many minor units make up one major unit of the
// currency: 1 for zero-decimal currencies, 100 otherwise.
func MinorUnitFactor(currency string) int64 {
	if _, ok := zeroDecimal[strings.ToUpper(strings.TrimSpace(currency))]; ok {
		return 1
	}
	return 100
}

// ToMinorUnits converts a decimal value to integer minor units. Normal mode
// rounds half away from zero; floor mode truncates downward and never rounds
// up, so a sum of floored parts can only shrink.
func ToMinorUnits(value float64, currency string, floor bool) int64 {
	scaled := value * float64(MinorUnitFactor(currency))
	if floor {
		return int64(math.Floor(scaled + floorEpsilon))
	}
	return int64(math.Round(scaled))
}

// MinorUnits returns the value in minor units using normal rounding.
func (m Money) MinorUnits() int64 {
	return ToMinorUnits(m.value, m.currency, false)
}

// FloorMinorUnits returns the value in minor units truncated downward.
func (m Money) FloorMinorUnits() int64 {
	return ToMinorUnits(m.value, m.currency, true)
}

// Format renders a decimal value as the canonical string for the currency.
// Zero-decimal currencies format as integers, everything else with exactly
// two fractional digits. roundToFloor truncates instead of rounding.
func Format(value float64, currency string, roundToFloor bool) string {
	minor := ToMinorUnits(value, currency, roundToFloor)
	return FormatMinorUnits(minor, currency)
}

// FormatMinorUnits renders an integer minor-unit amount as the canonical
// string for the currency.
func FormatMinorUnits(minor int64, currency string) string {
	factor := MinorUnitFactor(currency)
	if factor == 1 {
		return strconv.FormatInt(minor, 10)
	}
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/factor, minor%factor)
}

// FormatValue renders the value using normal rounding.
func (m Money) FormatValue() string {
	return Format(m.value, m.currency, false)
}

// FormatFloor renders the value truncated downward.
func (m Money) FormatFloor() string {
	return Format(m.value, m.currency, true)
}
