package table

import (
	"fmt"
	"strconv"
	"strings"

	"marketpulse/domain/core"
)

// Decimal is a fixed-point monetary amount in hundredths (cents). Sums
// accumulate in integer cents so repeated addition never drifts the way
// float accumulation does.
type Decimal int64

// NewDecimal builds a Decimal from whole units and cents
func NewDecimal(units int64, cents int64) Decimal {
	if units < 0 {
		return Decimal(units*100 - cents)
	}
	return Decimal(units*100 + cents)
}

// ParseDecimal parses a plain decimal string ("1234.5", "-7", "24.17").
// Currency symbols and separators belong to normalize.Currency; this parser
// accepts only the canonical form it emits.
func ParseDecimal(s string) (Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", core.ErrInvalidDecimal)
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if intPart == "" && fracPart == "" {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidDecimal, s)
	}
	if intPart == "" {
		intPart = "0"
	}
	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidDecimal, s)
	}
	// Keep two fractional digits, truncating anything beyond cents
	for len(fracPart) < 2 {
		fracPart += "0"
	}
	fracPart = fracPart[:2]
	cents, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidDecimal, s)
	}
	d := NewDecimal(units, cents)
	if neg {
		d = -d
	}
	return d, nil
}

// Cents returns the raw cent count
func (d Decimal) Cents() int64 { return int64(d) }

// Add returns d + other
func (d Decimal) Add(other Decimal) Decimal { return d + other }

// IsZero reports whether the amount is exactly zero
func (d Decimal) IsZero() bool { return d == 0 }

// DivideBy divides the amount by an integer count, rounding half away from
// zero to cent precision. Division by zero is the caller's invariant.
func (d Decimal) DivideBy(count int64) Decimal {
	cents := int64(d)
	half := count / 2
	if (cents < 0) != (count < 0) {
		return Decimal((cents - half) / count)
	}
	return Decimal((cents + half) / count)
}

// Float64 returns the amount as a float for display-only math
func (d Decimal) Float64() float64 { return float64(d) / 100 }

// String renders the canonical two-digit decimal form
func (d Decimal) String() string {
	cents := int64(d)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// MarshalJSON renders the decimal as a JSON string to preserve precision
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts either a quoted decimal string or a bare number
func (d *Decimal) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDecimal(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
