package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a non-negative monetary amount kept at two decimal places.
// Every constructor and arithmetic method rounds half-up, so each
// monetary step (signup fee, proration, shipping, tax) lands on the
// same cent boundary the processor uses.
type Money struct {
	amount decimal.Decimal
}

var Zero = Money{amount: decimal.Zero}

func FromFloat(v float64) Money {
	return Money{amount: decimal.NewFromFloat(v).Round(2)}
}

func FromCents(cents int64) Money {
	return Money{amount: decimal.New(cents, -2)}
}

func FromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("invalid monetary amount %q: %w", s, err)
	}
	return Money{amount: d.Round(2)}, nil
}

func FromDecimal(d decimal.Decimal) Money {
	return Money{amount: d.Round(2)}
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount).Round(2)}
}

// MulInt multiplies by a quantity.
func (m Money) MulInt(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity))).Round(2)}
}

// MulRate applies a fractional rate (e.g. a 0.08 tax rate).
func (m Money) MulRate(rate decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(rate).Round(2)}
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// Format renders the fixed-precision wire form, e.g. "19.99".
func (m Money) Format() string {
	return m.amount.StringFixed(2)
}

func (m Money) String() string {
	return m.Format()
}

// MarshalJSON emits the wire form as a JSON string so the amount the
// tokenization widget sees is byte-identical to the computed total.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.Format() + `"`), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := FromString(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
