package papertrader

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestM_Constructors(t *testing.T) {
	testCases := []struct {
		name string
		got  Money
		want string
	}{
		{"int", M(25_000), "25000"},
		{"float", M(2.5), "2.5"},
		{"int64", M(int64(10)), "10"},
		{"decimal", M(decimal.NewFromInt(5)), "5"},
		{"negative float", M(-0.25), "-0.25"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			want, err := ParseMoney(tc.want)
			if err != nil {
				t.Fatalf("ParseMoney(%q) error = %v", tc.want, err)
			}
			if !tc.got.Equal(want) {
				t.Errorf("M() = %s, want %s", tc.got, want)
			}
		})
	}
}

func TestParseMoney_Invalid(t *testing.T) {
	if _, err := ParseMoney("not a number"); err == nil {
		t.Error("ParseMoney should reject non-numeric input")
	}
}

func TestMoney_String(t *testing.T) {
	testCases := []struct {
		in   Money
		want string
	}{
		{M(25_025), "$25,025.00"},
		{M(2.5), "$2.50"},
		{M(0), "$0.00"},
		{M(-0.5), "-$0.50"},
		{M(1_234_567.89), "$1,234,567.89"},
	}
	for _, tc := range testCases {
		if got := tc.in.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestMoney_SignedString(t *testing.T) {
	testCases := []struct {
		in   Money
		want string
	}{
		{M(25), "+$25.00"},
		{M(-25), "-$25.00"},
		{M(0), "-"},
	}
	for _, tc := range testCases {
		if got := tc.in.SignedString(); got != tc.want {
			t.Errorf("SignedString() = %q, want %q", got, tc.want)
		}
	}
}

func TestMoney_ExactArithmetic(t *testing.T) {
	// The classic float trap: 0.1 + 0.2 must equal 0.3 exactly.
	if got := M(0.1).Add(M(0.2)); !got.Equal(M(0.3)) {
		t.Errorf("0.1 + 0.2 = %s, want exactly %s", got, M(0.3))
	}
	if got := M(2.75).Sub(M(2.5)).MulShares(100); !got.Equal(M(25)) {
		t.Errorf("(2.75 - 2.50) x 100 = %s, want %s", got, M(25))
	}
	// The volume weighted average used for entry prices.
	if got := M(250).Add(M(350)).DivShares(200); !got.Equal(M(3)) {
		t.Errorf("(250 + 350) / 200 = %s, want %s", got, M(3))
	}
	if got := M(10).Neg(); !got.Equal(M(-10)) {
		t.Errorf("Neg() = %s, want %s", got, M(-10))
	}
}

func TestMoney_Comparisons(t *testing.T) {
	a, b := M(2.5), M(3)
	if !a.LessThan(b) || a.GreaterThan(b) {
		t.Error("2.50 should be less than 3.00")
	}
	if !a.LessThanOrEqual(a) || !a.GreaterThanOrEqual(a) {
		t.Error("a value should compare equal to itself")
	}
	if !M(-1).IsNegative() || !M(1).IsPositive() || !M(0).IsZero() {
		t.Error("sign predicates are wrong")
	}
}

func TestMoney_JSON(t *testing.T) {
	testCases := []struct {
		in   Money
		want string
	}{
		{M(25_000), "25000"},
		{M(2.5), "2.5"},
		{M(2.555), "2.56"}, // rounded to cents on the wire
		{M(-0.5), "-0.5"},
	}
	for _, tc := range testCases {
		data, err := json.Marshal(tc.in)
		if err != nil {
			t.Fatalf("Marshal(%s) error = %v", tc.in, err)
		}
		if string(data) != tc.want {
			t.Errorf("Marshal(%s) = %s, want %s", tc.in, data, tc.want)
		}
	}

	for _, raw := range []string{`2.5`, `"2.5"`} {
		var m Money
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", raw, err)
		}
		if !m.Equal(M(2.5)) {
			t.Errorf("Unmarshal(%s) = %s, want %s", raw, m, M(2.5))
		}
	}

	var m Money
	if err := json.Unmarshal([]byte(`"nope"`), &m); err == nil {
		t.Error("Unmarshal should reject non-numeric input")
	}
}

func TestPercent_Strings(t *testing.T) {
	testCases := []struct {
		in         Percent
		want       string
		wantSigned string
	}{
		{Percent(1.5), "1.50%", "+1.50%"},
		{Percent(-1.5), "-1.50%", "-1.50%"},
		{Percent(0), "0.00%", "-"},
		{Percent(-0.0001), "-0.00%", "-"},
	}
	for _, tc := range testCases {
		if got := tc.in.String(); got != tc.want {
			t.Errorf("String(%v) = %q, want %q", float64(tc.in), got, tc.want)
		}
		if got := tc.in.SignedString(); got != tc.wantSigned {
			t.Errorf("SignedString(%v) = %q, want %q", float64(tc.in), got, tc.wantSigned)
		}
	}
}

func TestPercent_Equal(t *testing.T) {
	if !Percent(1.5).Equal(Percent(1.50004)) {
		t.Error("values inside display precision should compare equal")
	}
	if Percent(1.5).Equal(Percent(1.51)) {
		t.Error("values outside display precision should differ")
	}
}
