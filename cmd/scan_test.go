package cmd

import (
	"testing"

	"github.com/google/subcommands"

	"github.com/trendlab/papertrader"
)

func TestScanCmd_DryRunLeavesAccountUntouched(t *testing.T) {
	useJournal(t)

	if status := run(t, &scanCmd{}, nil); status != subcommands.ExitSuccess {
		t.Fatalf("status = %v, want ExitSuccess", status)
	}

	ledger, err := openLedger()
	if err != nil {
		t.Fatalf("openLedger() error = %v", err)
	}
	if n := ledger.Snapshot().TradeCount; n != 0 {
		t.Errorf("TradeCount = %d, want 0 after a dry run", n)
	}
}

func TestScanCmd_ExecuteFillsFixtureOrders(t *testing.T) {
	useJournal(t)

	if status := run(t, &scanCmd{}, map[string]string{"execute": "true", "predict": "true"}); status != subcommands.ExitSuccess {
		t.Fatalf("status = %v, want ExitSuccess", status)
	}

	ledger, err := openLedger()
	if err != nil {
		t.Fatalf("openLedger() error = %v", err)
	}
	snap := ledger.Snapshot()
	if snap.TradeCount != 9 {
		t.Errorf("TradeCount = %d, want 9 fixture fills", snap.TradeCount)
	}
	if len(snap.Positions) != 9 {
		t.Errorf("Positions = %d, want 9", len(snap.Positions))
	}
	if !snap.Cash.LessThan(papertrader.M(25_000)) {
		t.Errorf("Cash = %s, want less than the starting cash", snap.Cash)
	}
}

func TestScanCmd_MaxPositionsCapsOrders(t *testing.T) {
	useJournal(t)

	status := run(t, &scanCmd{}, map[string]string{"execute": "true", "max-positions": "2"})
	if status != subcommands.ExitSuccess {
		t.Fatalf("status = %v, want ExitSuccess", status)
	}

	ledger, err := openLedger()
	if err != nil {
		t.Fatalf("openLedger() error = %v", err)
	}
	if n := ledger.Snapshot().TradeCount; n != 2 {
		t.Errorf("TradeCount = %d, want 2", n)
	}
}

func TestScanCmd_UnknownSource(t *testing.T) {
	useJournal(t)

	if status := run(t, &scanCmd{}, map[string]string{"source": "bogus"}); status != subcommands.ExitUsageError {
		t.Errorf("status = %v, want ExitUsageError", status)
	}
}

func TestScanCmd_MentionsNeedsURL(t *testing.T) {
	useJournal(t)

	if status := run(t, &scanCmd{}, map[string]string{"source": "mentions"}); status != subcommands.ExitUsageError {
		t.Errorf("status = %v, want ExitUsageError", status)
	}
}

func TestPredictCmd_Fixture(t *testing.T) {
	useJournal(t)

	status := run(t, &predictCmd{}, map[string]string{"days": "10"}, "ater", "MULN")
	if status != subcommands.ExitSuccess {
		t.Errorf("status = %v, want ExitSuccess", status)
	}
}

func TestPredictCmd_NoTickers(t *testing.T) {
	useJournal(t)

	if status := run(t, &predictCmd{}, nil); status != subcommands.ExitUsageError {
		t.Errorf("status = %v, want ExitUsageError", status)
	}
}

func TestValidFloat(t *testing.T) {
	for _, bad := range []string{"", "abc", "-1", "0"} {
		if err := validFloat(bad); err == nil {
			t.Errorf("validFloat(%q) accepted an invalid amount", bad)
		}
	}
	for _, good := range []string{"2.5", " 10 ", "25000"} {
		if err := validFloat(good); err != nil {
			t.Errorf("validFloat(%q) error = %v", good, err)
		}
	}
}
