// Package types provides common types used across Bazaar.
package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Points represents a marketplace points balance or price as a fixed-point
// decimal with two fractional digits. The value is stored in hundredths and
// all arithmetic is integer-only — no floating point ever touches the ledger.
//
// Examples:
//   - PTS(4000)  = 40.00 pts
//   - Whole(40)  = 40.00 pts
//   - PTS(-1050) = -10.50 pts (a debit)
type Points struct {
	Amount int64 `json:"amount"` // Hundredths of a point
}

// PTS creates a Points value from hundredths.
func PTS(hundredths int64) Points { return Points{Amount: hundredths} }

// Whole creates a Points value from whole points.
func Whole(points int64) Points { return Points{Amount: points * 100} }

// ZeroPoints returns the zero Points value.
func ZeroPoints() Points { return Points{} }

// ParsePoints parses a decimal string ("40", "40.5", "-10.25") into Points.
// At most two fractional digits are accepted.
func ParsePoints(s string) (Points, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Points{}, fmt.Errorf("points: parse %q: empty string", s)
	}

	negative := false
	if s[0] == '+' || s[0] == '-' {
		negative = s[0] == '-'
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return Points{}, fmt.Errorf("points: parse %q: no digits", s)
	}
	if len(frac) > 2 {
		return Points{}, fmt.Errorf("points: parse %q: more than two fractional digits", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}

	major, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return Points{}, fmt.Errorf("points: parse %q: %w", s, err)
	}
	minor, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return Points{}, fmt.Errorf("points: parse %q: %w", s, err)
	}

	amount := major*100 + minor
	if negative {
		amount = -amount
	}
	return Points{Amount: amount}, nil
}

// Arithmetic operations

// Add adds two Points values.
func (p Points) Add(other Points) Points {
	return Points{Amount: p.Amount + other.Amount}
}

// Subtract subtracts another Points value.
func (p Points) Subtract(other Points) Points {
	return Points{Amount: p.Amount - other.Amount}
}

// Negate returns the negative of the Points value.
func (p Points) Negate() Points {
	return Points{Amount: -p.Amount}
}

// Abs returns the absolute value.
func (p Points) Abs() Points {
	if p.Amount < 0 {
		return Points{Amount: -p.Amount}
	}
	return p
}

// Comparison methods

// IsZero returns true if the amount is zero.
func (p Points) IsZero() bool { return p.Amount == 0 }

// IsPositive returns true if the amount is greater than zero.
func (p Points) IsPositive() bool { return p.Amount > 0 }

// IsNegative returns true if the amount is less than zero.
func (p Points) IsNegative() bool { return p.Amount < 0 }

// Equal returns true if both Points values are equal.
func (p Points) Equal(other Points) bool { return p.Amount == other.Amount }

// LessThan returns true if this Points value is less than other.
func (p Points) LessThan(other Points) bool { return p.Amount < other.Amount }

// GreaterThan returns true if this Points value is greater than other.
func (p Points) GreaterThan(other Points) bool { return p.Amount > other.Amount }

// Covers returns true if a balance of p is sufficient to pay price.
// The boundary is inclusive: a balance exactly equal to the price covers it.
func (p Points) Covers(price Points) bool { return p.Amount >= price.Amount }

// Formatting methods

// FormatMajor returns the decimal string without the unit suffix,
// e.g. "40.00" for PTS(4000) and "-10.50" for PTS(-1050).
func (p Points) FormatMajor() string {
	abs := p.Amount
	negative := abs < 0
	if negative {
		abs = -abs
	}

	result := fmt.Sprintf("%d.%02d", abs/100, abs%100)
	if negative {
		return "-" + result
	}
	return result
}

// String returns a human-readable string, e.g. "40.00 pts".
func (p Points) String() string {
	return p.FormatMajor() + " pts"
}

// MarshalJSON implements json.Marshaler.
func (p Points) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount  int64  `json:"amount"`
		Display string `json:"display"`
	}{
		Amount:  p.Amount,
		Display: p.String(),
	})
}

// UnmarshalJSON implements json.Unmarshaler. It accepts both the object
// form produced by MarshalJSON and a bare integer amount in hundredths.
func (p *Points) UnmarshalJSON(data []byte) error {
	var obj struct {
		Amount int64 `json:"amount"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		p.Amount = obj.Amount
		return nil
	}

	var amount int64
	if err := json.Unmarshal(data, &amount); err != nil {
		return fmt.Errorf("points: unmarshal %q: %w", data, err)
	}
	p.Amount = amount
	return nil
}

// SumPoints calculates the sum of multiple Points values.
func SumPoints(values ...Points) Points {
	var result Points
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}
