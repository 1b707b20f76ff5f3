package feed

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/trendlab/papertrader"
)

func TestFixtureProvider_History(t *testing.T) {
	p := FixtureProvider{}
	ctx := context.Background()

	bars, err := p.History(ctx, "ater", 20)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(bars) != 20 {
		t.Fatalf("History() returned %d bars, want 20", len(bars))
	}
	for i, b := range bars {
		if b.Close <= 0 {
			t.Errorf("bars[%d].Close = %v, want positive", i, b.Close)
		}
		if b.Volume <= 0 {
			t.Errorf("bars[%d].Volume = %v, want positive", i, b.Volume)
		}
	}

	again, err := p.History(ctx, "ATER", 20)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if !reflect.DeepEqual(bars, again) {
		t.Error("fixture history should be deterministic and case-insensitive")
	}

	if bars, err := p.History(ctx, "ATER", 0); err != nil || bars != nil {
		t.Errorf("History(0 days) = %v, %v, want nil, nil", bars, err)
	}
}

func TestFixtureProvider_Quote(t *testing.T) {
	p := FixtureProvider{}
	got, err := p.Quote(context.Background(), "ater")
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	if want := demoPrice("ATER"); got != want {
		t.Errorf("Quote(ater) = %v, want %v", got, want)
	}
}

func TestFixtureProvider_FeedsClassifier(t *testing.T) {
	p := FixtureProvider{}
	bars, err := p.History(context.Background(), "SRNE", 20)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}

	closes := Closes(bars)
	pred := papertrader.Predict(closes, closes[len(closes)-1])
	if pred.Confidence < 0 || pred.Confidence > 1 {
		t.Errorf("confidence = %v, want in [0, 1]", pred.Confidence)
	}
	if pred.Support <= 0 || pred.Resistance < pred.Support {
		t.Errorf("support/resistance = %v/%v", pred.Support, pred.Resistance)
	}
}

func TestCloses(t *testing.T) {
	got := Closes([]Bar{{Close: 1}, {Close: 2.5}})
	if !reflect.DeepEqual(got, []float64{1, 2.5}) {
		t.Errorf("Closes() = %v", got)
	}
}

func TestAvgDollarVolume(t *testing.T) {
	if got := AvgDollarVolume(nil); got != 0 {
		t.Errorf("AvgDollarVolume(nil) = %v, want 0", got)
	}

	bars := []Bar{{Close: 2, Volume: 100}, {Close: 4, Volume: 100}}
	if got := AvgDollarVolume(bars); got != 300 {
		t.Errorf("AvgDollarVolume() = %v, want 300", got)
	}

	// Only the trailing ten bars count.
	var long []Bar
	long = append(long, Bar{Close: 1_000_000, Volume: 1_000_000})
	for range 10 {
		long = append(long, Bar{Close: 2, Volume: 100})
	}
	if got := AvgDollarVolume(long); got != 200 {
		t.Errorf("AvgDollarVolume(11 bars) = %v, want 200 from the last ten", got)
	}
}

func TestHistoryCache(t *testing.T) {
	cache, err := newHistoryCache(1024, time.Minute)
	if err != nil {
		t.Fatalf("newHistoryCache() error = %v", err)
	}

	bars := []Bar{{Close: 2.5, Volume: 100}}
	cache.set("ATER/10", bars)

	got, ok := cache.get("ATER/10")
	if !ok {
		t.Fatal("get() after set() missed")
	}
	if !reflect.DeepEqual(got, bars) {
		t.Errorf("get() = %v, want %v", got, bars)
	}

	if _, ok := cache.get("MISSING/10"); ok {
		t.Error("get() on an unknown key should miss")
	}
}
