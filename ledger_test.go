package papertrader

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// testClock returns a deterministic clock that advances one minute per call.
func testClock() func() time.Time {
	t0 := time.Date(2025, 8, 1, 14, 30, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return t0.Add(time.Duration(n) * time.Minute)
	}
}

func newTestLedger(t *testing.T, cash Money) *Ledger {
	t.Helper()
	ledger, err := NewLedger(cash)
	if err != nil {
		t.Fatalf("NewLedger() error = %v", err)
	}
	ledger.now = testClock()
	return ledger
}

func TestNewLedger_RequiresPositiveCash(t *testing.T) {
	for _, cash := range []Money{M(0), M(-100)} {
		if _, err := NewLedger(cash); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("NewLedger(%s) error = %v, want ErrInvalidConfig", cash, err)
		}
	}
}

func TestLedger_BuyThenSellRoundTrip(t *testing.T) {
	ledger := newTestLedger(t, M(25_000))

	// Buy 100 shares at $2.50.
	buy, err := ledger.Buy("AAA", 100, M(2.50))
	if err != nil {
		t.Fatalf("Buy() error = %v", err)
	}
	if !buy.Realized.IsZero() {
		t.Errorf("buy realized = %s, want zero", buy.Realized)
	}
	if got, want := ledger.Cash(), M(24_750); !got.Equal(want) {
		t.Errorf("cash after buy = %s, want %s", got, want)
	}
	pos, ok := ledger.Position("AAA")
	if !ok {
		t.Fatal("Position(AAA) not found after buy")
	}
	if pos.Shares != 100 || !pos.EntryPrice.Equal(M(2.50)) || !pos.CurrentPrice.Equal(M(2.50)) {
		t.Errorf("position after buy = %+v", pos)
	}

	// Entry price equals current price, so equity is unchanged.
	curve := ledger.EquityCurve()
	if len(curve) != 1 {
		t.Fatalf("equity curve has %d points after buy, want 1", len(curve))
	}
	if !curve[0].Equity.Equal(M(25_000)) {
		t.Errorf("equity after buy = %s, want %s", curve[0].Equity, M(25_000))
	}

	// Sell all 100 at $2.75.
	sell, err := ledger.Sell("AAA", 100, M(2.75))
	if err != nil {
		t.Fatalf("Sell() error = %v", err)
	}
	if !sell.Realized.Equal(M(25)) {
		t.Errorf("sell realized = %s, want %s", sell.Realized, M(25))
	}
	if got, want := ledger.Cash(), M(25_025); !got.Equal(want) {
		t.Errorf("cash after sell = %s, want %s", got, want)
	}
	if got, want := ledger.Cash().String(), "$25,025.00"; got != want {
		t.Errorf("cash display = %q, want %q", got, want)
	}
	if _, ok := ledger.Position("AAA"); ok {
		t.Error("position should be removed after selling all shares")
	}

	trades := ledger.Trades()
	if len(trades) != 2 {
		t.Fatalf("trade history has %d entries, want 2", len(trades))
	}
	if trades[0].Side != SideBuy || trades[1].Side != SideSell {
		t.Errorf("trade sides = %s, %s", trades[0].Side, trades[1].Side)
	}
	if !trades[0].Time.Before(trades[1].Time) {
		t.Error("trade times should be strictly increasing")
	}
	curve = ledger.EquityCurve()
	if len(curve) != 2 {
		t.Fatalf("equity curve has %d points after sell, want 2", len(curve))
	}
	if !curve[1].Equity.Equal(M(25_025)) {
		t.Errorf("final equity = %s, want %s", curve[1].Equity, M(25_025))
	}
}

func TestLedger_Buy_ReaveragesEntryPrice(t *testing.T) {
	ledger := newTestLedger(t, M(25_000))

	if _, err := ledger.Buy("AAA", 100, M(2.50)); err != nil {
		t.Fatalf("first Buy() error = %v", err)
	}
	if _, err := ledger.Buy("AAA", 100, M(3.50)); err != nil {
		t.Fatalf("second Buy() error = %v", err)
	}

	pos, ok := ledger.Position("AAA")
	if !ok {
		t.Fatal("Position(AAA) not found")
	}
	if pos.Shares != 200 {
		t.Errorf("shares = %d, want 200", pos.Shares)
	}
	if !pos.EntryPrice.Equal(M(3)) {
		t.Errorf("entry price = %s, want %s", pos.EntryPrice, M(3))
	}
	if !pos.CurrentPrice.Equal(M(3.50)) {
		t.Errorf("current price = %s, want %s", pos.CurrentPrice, M(3.50))
	}
	if got, want := ledger.Cash(), M(24_400); !got.Equal(want) {
		t.Errorf("cash = %s, want %s", got, want)
	}
}

func TestLedger_Buy_Rejections(t *testing.T) {
	testCases := []struct {
		name    string
		symbol  string
		shares  int64
		price   Money
		wantErr error
	}{
		{"zero shares", "AAA", 0, M(2.50), ErrInvalidOrder},
		{"negative shares", "AAA", -10, M(2.50), ErrInvalidOrder},
		{"zero price", "AAA", 10, M(0), ErrInvalidOrder},
		{"negative price", "AAA", 10, M(-1), ErrInvalidOrder},
		{"empty symbol", "  ", 10, M(2.50), ErrInvalidOrder},
		{"insufficient funds", "AAA", 100_000, M(2.50), ErrInsufficientFunds},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ledger := newTestLedger(t, M(1_000))
			_, err := ledger.Buy(tc.symbol, tc.shares, tc.price)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Buy() error = %v, want %v", err, tc.wantErr)
			}
			// A rejected buy must leave no trace.
			if !ledger.Cash().Equal(M(1_000)) {
				t.Errorf("cash = %s, want %s", ledger.Cash(), M(1_000))
			}
			if n := len(ledger.Trades()); n != 0 {
				t.Errorf("trade history has %d entries, want 0", n)
			}
			if n := len(ledger.EquityCurve()); n != 0 {
				t.Errorf("equity curve has %d points, want 0", n)
			}
		})
	}
}

func TestLedger_Buy_ExactCashBoundary(t *testing.T) {
	ledger := newTestLedger(t, M(250))
	if _, err := ledger.Buy("AAA", 100, M(2.50)); err != nil {
		t.Fatalf("Buy() spending the full balance should succeed, error = %v", err)
	}
	if !ledger.Cash().IsZero() {
		t.Errorf("cash = %s, want zero", ledger.Cash())
	}
}

func TestLedger_Sell_Rejections(t *testing.T) {
	ledger := newTestLedger(t, M(25_000))
	if _, err := ledger.Buy("AAA", 10, M(2.50)); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}
	cashAfterBuy := ledger.Cash()

	testCases := []struct {
		name    string
		symbol  string
		shares  int64
		price   Money
		wantErr error
	}{
		{"unknown symbol", "ZZZ", 1, M(1), ErrNoPosition},
		{"oversell", "AAA", 11, M(2.50), ErrOversell},
		{"zero shares", "AAA", 0, M(2.50), ErrInvalidOrder},
		{"zero price", "AAA", 5, M(0), ErrInvalidOrder},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.Sell(tc.symbol, tc.shares, tc.price)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Sell() error = %v, want %v", err, tc.wantErr)
			}
			if !ledger.Cash().Equal(cashAfterBuy) {
				t.Errorf("cash = %s, want %s", ledger.Cash(), cashAfterBuy)
			}
			pos, ok := ledger.Position("AAA")
			if !ok || pos.Shares != 10 {
				t.Errorf("position = %+v, ok = %v, want 10 shares held", pos, ok)
			}
			if n := len(ledger.Trades()); n != 1 {
				t.Errorf("trade history has %d entries, want 1", n)
			}
		})
	}
}

func TestLedger_PartialSell_KeepsEntryPrice(t *testing.T) {
	ledger := newTestLedger(t, M(25_000))
	if _, err := ledger.Buy("AAA", 100, M(2)); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}
	sell, err := ledger.Sell("AAA", 40, M(3))
	if err != nil {
		t.Fatalf("Sell() error = %v", err)
	}

	if !sell.Realized.Equal(M(40)) {
		t.Errorf("realized = %s, want %s", sell.Realized, M(40))
	}
	pos, ok := ledger.Position("AAA")
	if !ok {
		t.Fatal("Position(AAA) not found after partial sell")
	}
	if pos.Shares != 60 {
		t.Errorf("shares = %d, want 60", pos.Shares)
	}
	if !pos.EntryPrice.Equal(M(2)) {
		t.Errorf("entry price = %s, want %s (partial sells keep the average)", pos.EntryPrice, M(2))
	}
	if got, want := ledger.Cash(), M(24_920); !got.Equal(want) {
		t.Errorf("cash = %s, want %s", got, want)
	}
}

func TestLedger_MarkPrice(t *testing.T) {
	ledger := newTestLedger(t, M(25_000))
	if _, err := ledger.Buy("AAA", 100, M(2.50)); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}

	if err := ledger.MarkPrice("aaa", M(3)); err != nil {
		t.Fatalf("MarkPrice() error = %v", err)
	}
	pos, _ := ledger.Position("AAA")
	if !pos.CurrentPrice.Equal(M(3)) {
		t.Errorf("current price = %s, want %s", pos.CurrentPrice, M(3))
	}
	if !pos.Unrealized().Equal(M(50)) {
		t.Errorf("unrealized = %s, want %s", pos.Unrealized(), M(50))
	}
	// Marking is not a trade.
	if n := len(ledger.Trades()); n != 1 {
		t.Errorf("trade history has %d entries, want 1", n)
	}
	if n := len(ledger.EquityCurve()); n != 1 {
		t.Errorf("equity curve has %d points, want 1", n)
	}

	if err := ledger.MarkPrice("ZZZ", M(3)); !errors.Is(err, ErrNoPosition) {
		t.Errorf("MarkPrice(ZZZ) error = %v, want ErrNoPosition", err)
	}
	if err := ledger.MarkPrice("AAA", M(0)); !errors.Is(err, ErrInvalidOrder) {
		t.Errorf("MarkPrice with zero price error = %v, want ErrInvalidOrder", err)
	}
}

func TestLedger_Execute(t *testing.T) {
	ledger := newTestLedger(t, M(25_000))

	trade, err := ledger.Execute(Order{ID: "ab12cd34", Symbol: "AAA", Side: SideBuy, Shares: 10, Price: 2.5})
	if err != nil {
		t.Fatalf("Execute(buy) error = %v", err)
	}
	if trade.Symbol != "AAA" || trade.Shares != 10 || !trade.Price.Equal(M(2.5)) {
		t.Errorf("trade = %+v", trade)
	}

	if _, err := ledger.Execute(Order{Symbol: "AAA", Side: "HOLD", Shares: 1, Price: 1}); !errors.Is(err, ErrInvalidOrder) {
		t.Errorf("Execute with unknown side error = %v, want ErrInvalidOrder", err)
	}
}

func TestLedger_Reset(t *testing.T) {
	ledger := newTestLedger(t, M(25_000))
	if _, err := ledger.Buy("AAA", 100, M(2.50)); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}

	if err := ledger.Reset(M(10_000)); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if !ledger.Cash().Equal(M(10_000)) {
		t.Errorf("cash = %s, want %s", ledger.Cash(), M(10_000))
	}
	if !ledger.StartingCash().Equal(M(10_000)) {
		t.Errorf("starting cash = %s, want %s", ledger.StartingCash(), M(10_000))
	}
	if _, ok := ledger.Position("AAA"); ok {
		t.Error("positions should be cleared by reset")
	}
	if n := len(ledger.Trades()); n != 0 {
		t.Errorf("trade history has %d entries, want 0", n)
	}
	if n := len(ledger.EquityCurve()); n != 0 {
		t.Errorf("equity curve has %d points, want 0", n)
	}

	if err := ledger.Reset(M(0)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Reset(0) error = %v, want ErrInvalidConfig", err)
	}
}

func TestLedger_SymbolNormalization(t *testing.T) {
	ledger := newTestLedger(t, M(25_000))
	if _, err := ledger.Buy(" ater ", 10, M(2.50)); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}
	if _, ok := ledger.Position("ATER"); !ok {
		t.Error("Position(ATER) not found, symbol should be normalized on entry")
	}
	if _, ok := ledger.Position(" ater "); !ok {
		t.Error("Position lookup should normalize its argument")
	}
}

func TestLedger_ConcurrentBuys(t *testing.T) {
	ledger, err := NewLedger(M(10))
	if err != nil {
		t.Fatalf("NewLedger() error = %v", err)
	}

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ledger.Buy("AAA", 1, M(1)); err != nil {
				t.Errorf("Buy() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if !ledger.Cash().IsZero() {
		t.Errorf("cash = %s, want zero", ledger.Cash())
	}
	pos, _ := ledger.Position("AAA")
	if pos.Shares != 10 {
		t.Errorf("shares = %d, want 10", pos.Shares)
	}
	if n := len(ledger.Trades()); n != 10 {
		t.Errorf("trade history has %d entries, want 10", n)
	}
	if n := len(ledger.EquityCurve()); n != 10 {
		t.Errorf("equity curve has %d points, want 10", n)
	}
}
