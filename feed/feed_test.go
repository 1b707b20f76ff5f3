package feed

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/trendlab/papertrader"
)

func TestFixture_Candidates(t *testing.T) {
	src := Fixture{}
	if src.Name() != "fixture" {
		t.Errorf("Name() = %q, want fixture", src.Name())
	}

	candidates, err := src.Candidates(context.Background())
	if err != nil {
		t.Fatalf("Candidates() error = %v", err)
	}
	if len(candidates) != 10 {
		t.Fatalf("Candidates() returned %d candidates, want 10", len(candidates))
	}

	first := candidates[0]
	if first.Symbol != "ATER" || first.Mentions != 245 || first.Sentiment != 0.68 {
		t.Errorf("first candidate = %+v, want ATER 245 0.68", first)
	}
	for _, c := range candidates {
		if c.LastPrice < 2.5 || c.LastPrice > 5.4 {
			t.Errorf("%s price = %v, want within the synthetic band", c.Symbol, c.LastPrice)
		}
		if c.DollarVolume != demoDollarVolume {
			t.Errorf("%s dollar volume = %v, want %v", c.Symbol, c.DollarVolume, demoDollarVolume)
		}
	}

	// The set must be stable from call to call.
	again, err := src.Candidates(context.Background())
	if err != nil {
		t.Fatalf("Candidates() error = %v", err)
	}
	if !reflect.DeepEqual(candidates, again) {
		t.Error("fixture candidates changed between calls")
	}
}

func TestFixture_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Fixture{}).Candidates(ctx); err == nil {
		t.Error("Candidates() should fail on a cancelled context")
	}
}

func TestDemoPrice(t *testing.T) {
	// Byte sums: ATER = 300 (mod 30 = 0), SRNE = 312 (mod 30 = 12).
	testCases := []struct {
		symbol string
		want   float64
	}{
		{"ATER", 2.5},
		{"SRNE", 3.7},
	}
	for _, tc := range testCases {
		if got := demoPrice(tc.symbol); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("demoPrice(%s) = %v, want %v", tc.symbol, got, tc.want)
		}
	}
}

func TestFixture_RanksCleanly(t *testing.T) {
	candidates, err := Fixture{}.Candidates(context.Background())
	if err != nil {
		t.Fatalf("Candidates() error = %v", err)
	}
	ranked, err := papertrader.Rank(candidates)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if ranked[0].Symbol != "ATER" {
		t.Errorf("top ranked = %s, want ATER (most mentions, high sentiment)", ranked[0].Symbol)
	}
}
