package feed

import (
	"testing"

	"github.com/trendlab/papertrader"
)

func TestScreen(t *testing.T) {
	cfg := DefaultScreenConfig()
	candidates := []papertrader.Candidate{
		{Symbol: "KEEP", LastPrice: 2.5, DollarVolume: 500_000},
		{Symbol: "EDGE", LastPrice: 5.0, DollarVolume: 200_000},
		{Symbol: "RICH", LastPrice: 5.01, DollarVolume: 500_000},
		{Symbol: "THIN", LastPrice: 2.5, DollarVolume: 199_999},
		{Symbol: "DEAD", LastPrice: 0, DollarVolume: 500_000},
		{Symbol: "NEG", LastPrice: -1, DollarVolume: 500_000},
	}

	kept := Screen(candidates, cfg)

	want := []string{"KEEP", "EDGE"}
	if len(kept) != len(want) {
		t.Fatalf("Screen() kept %d candidates, want %d: %+v", len(kept), len(want), kept)
	}
	for i, c := range kept {
		if c.Symbol != want[i] {
			t.Errorf("kept[%d] = %s, want %s", i, c.Symbol, want[i])
		}
	}
}

func TestScreen_Empty(t *testing.T) {
	if kept := Screen(nil, DefaultScreenConfig()); len(kept) != 0 {
		t.Errorf("Screen(nil) = %+v, want empty", kept)
	}
}

func TestDefaultScreenConfig(t *testing.T) {
	cfg := DefaultScreenConfig()
	if cfg.MaxPrice != 5.0 || cfg.MinDollarVolume != 200_000 {
		t.Errorf("DefaultScreenConfig() = %+v", cfg)
	}
}
