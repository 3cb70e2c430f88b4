package domain

import (
	"bytes"
	"strconv"

	"github.com/shopspring/decimal"
)

// Cents is a currency amount in minor units. All sums and equality checks on
// money go through Cents so that 0.1 + 0.2 compares equal to 0.3.
type Cents int64

// MaxCents bounds every amount, balance and entry total in the ledger
// (one trillion in currency units). With at most 10,000 four-digit account
// codes, report sums over bounded balances stay far inside int64.
const MaxCents Cents = 100_000_000_000_000

var (
	hundred         = decimal.NewFromInt(100)
	maxCentsDecimal = decimal.NewFromInt(int64(MaxCents))
)

// ToCents converts a decimal amount to cents.
// Returns ErrAmountTooLarge if the amount is beyond MaxCents and
// ErrTooManyDecimals if it is not representable in whole cents.
func ToCents(d decimal.Decimal) (Cents, error) {
	scaled := d.Mul(hundred)
	if scaled.Abs().GreaterThan(maxCentsDecimal) {
		return 0, ErrAmountTooLarge
	}
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, ErrTooManyDecimals
	}
	return Cents(scaled.IntPart()), nil
}

// RoundToCents converts a decimal to cents, rounding half away from zero.
// The amount must be within MaxCents.
func RoundToCents(d decimal.Decimal) Cents {
	return Cents(d.Mul(hundred).Round(0).IntPart())
}

// ParseCents parses a decimal string like "1250.50" into cents.
func ParseCents(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidInput
	}
	return ToCents(d)
}

// Add returns c+o, or ErrAmountTooLarge when the sum leaves ±MaxCents
func (c Cents) Add(o Cents) (Cents, error) {
	sum := c + o
	if (o > 0 && sum < c) || (o < 0 && sum > c) || sum > MaxCents || sum < -MaxCents {
		return 0, ErrAmountTooLarge
	}
	return sum, nil
}

// Decimal returns the amount as a decimal with two fractional digits.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String formats the amount as a fixed two-decimal string, e.g. "75000.00".
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// MarshalJSON encodes the amount as a fixed two-decimal string
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(c.String())), nil
}

// UnmarshalJSON accepts either a decimal string or a JSON number
func (c *Cents) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	v, err := ParseCents(string(data))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
