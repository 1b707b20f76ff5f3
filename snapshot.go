package papertrader

import (
	"slices"
	"strings"
	"time"
)

// PositionView is one open position as reported by Snapshot, with its derived
// valuation fields precomputed.
type PositionView struct {
	Symbol       string  `json:"ticker"`
	Shares       int64   `json:"shares"`
	EntryPrice   Money   `json:"entry_price"`
	CurrentPrice Money   `json:"current_price"`
	Notional     Money   `json:"notional"`
	Unrealized   Money   `json:"unrealized_pnl"`
	Return       Percent `json:"return_pct"`
}

// Snapshot is a point-in-time view of the account: cash, open positions and
// the profit-and-loss aggregates. Positions are sorted by symbol so output is
// deterministic.
type Snapshot struct {
	Time          time.Time      `json:"time"`
	Cash          Money          `json:"cash"`
	StartingCash  Money          `json:"starting_cash"`
	Positions     []PositionView `json:"positions"`
	Equity        Money          `json:"total_equity"`
	TotalPnL      Money          `json:"total_pnl"`
	TotalReturn   Percent        `json:"total_return_pct"`
	UnrealizedPnL Money          `json:"unrealized_pnl"`
	RealizedPnL   Money          `json:"realized_pnl"`
	TradeCount    int            `json:"trade_count"`
}

// Snapshot reports the current account state. It is a pure read of the most
// recently committed state and never mutates the ledger.
//
// Equity is cash plus the notional of all open positions, total P&L is equity
// minus starting cash, and realized P&L is the sum of the realized results of
// all trades to date.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	views := make([]PositionView, 0, len(l.positions))
	unrealized := M(0)
	for _, pos := range l.positions {
		u := pos.Unrealized()
		unrealized = unrealized.Add(u)
		views = append(views, PositionView{
			Symbol:       pos.Symbol,
			Shares:       pos.Shares,
			EntryPrice:   pos.EntryPrice,
			CurrentPrice: pos.CurrentPrice,
			Notional:     pos.Notional(),
			Unrealized:   u,
			Return:       ratioPercent(u, pos.CostBasis()),
		})
	}
	slices.SortFunc(views, func(a, b PositionView) int {
		return strings.Compare(a.Symbol, b.Symbol)
	})

	realized := M(0)
	for _, t := range l.trades {
		realized = realized.Add(t.Realized)
	}

	equity := l.equityLocked()
	totalPnL := equity.Sub(l.startingCash)
	return Snapshot{
		Time:          l.now().UTC(),
		Cash:          l.cash,
		StartingCash:  l.startingCash,
		Positions:     views,
		Equity:        equity,
		TotalPnL:      totalPnL,
		TotalReturn:   ratioPercent(totalPnL, l.startingCash),
		UnrealizedPnL: unrealized,
		RealizedPnL:   realized,
		TradeCount:    len(l.trades),
	}
}
