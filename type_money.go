package papertrader

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the single reporting currency of the simulator. Multi-currency
// accounting is out of scope, so every Money value is implicitly USD.
const Currency = "USD"

// Money represents a monetary value as an exact decimal in the reporting
// currency. The zero value is $0.
type Money struct {
	value decimal.Decimal
}

// M builds a Money from any common numeric type without going through a
// lossy float round-trip for integer inputs.
func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	}
	panic("unreachable")
}

// ParseMoney parses a decimal string like "24750" or "2.50" into a Money.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parsing money value %q: %w", s, err)
	}
	return Money{value: d}, nil
}

// currency returns the full currency metadata for formatting.
func (m Money) currency() money.Currency {
	// the Money constructor is the only way to a never-nil currency
	return *money.New(0, Currency).Currency()
}

// String formats the value with the currency's symbol and fraction digits,
// e.g. "$25,025.00".
func (m Money) String() string {
	cur := m.currency()
	cents := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(cents.IntPart())
}

// SignedString is String with an explicit leading sign; zero renders as "-".
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) LessThanOrEqual(n Money) bool    { return m.value.LessThanOrEqual(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg()} }

func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value)} }

// MulShares scales a per-share amount by a whole-share count.
func (m Money) MulShares(shares int64) Money {
	return Money{value: m.value.Mul(decimal.NewFromInt(shares))}
}

// DivShares divides an amount evenly across a whole-share count.
func (m Money) DivShares(shares int64) Money {
	return Money{value: m.value.Div(decimal.NewFromInt(shares))}
}

// Round returns the value rounded to the given number of fraction digits.
func (m Money) Round(places int32) Money { return Money{value: m.value.Round(places)} }

// Float64 returns the nearest float64. Display and JSON only; ledger
// arithmetic stays decimal.
func (m Money) Float64() float64 { return m.value.InexactFloat64() }

// Decimal exposes the exact underlying value.
func (m Money) Decimal() decimal.Decimal { return m.value }

// MarshalJSON encodes the amount as a plain JSON number rounded to the
// currency's fraction digits.
func (m Money) MarshalJSON() ([]byte, error) {
	rounded := m.value.Round(int32(m.currency().Fraction))
	return []byte(rounded.String()), nil
}

// UnmarshalJSON accepts both a bare number and a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("parsing money value %q: %w", s, err)
	}
	m.value = d
	return nil
}
