package papertrader

import "fmt"

// Percent is a percentage value, e.g. Percent(1.5) renders as "1.50%".
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// compared with display precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

// SignedString renders with an explicit sign; zero renders as "-".
func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}

// ratioPercent is a/b as a Percent, 0 when b is zero.
func ratioPercent(a, b Money) Percent {
	if b.IsZero() {
		return 0
	}
	return Percent(a.Decimal().Div(b.Decimal()).InexactFloat64() * 100)
}
