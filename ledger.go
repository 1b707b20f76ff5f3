package papertrader

import (
	"fmt"
	"sync"
	"time"
)

// DefaultStartingCash is the account balance a fresh simulator starts with.
var DefaultStartingCash = M(25_000)

// Position is an open holding in one symbol. EntryPrice is the
// volume-weighted average cost per share; it is re-averaged on every
// additional buy and left untouched by partial sells. CurrentPrice follows
// the latest execution or MarkPrice.
type Position struct {
	Symbol       string `json:"ticker"`
	Shares       int64  `json:"shares"`
	EntryPrice   Money  `json:"entry_price"`
	CurrentPrice Money  `json:"current_price"`
}

// Notional is the market value of the position at the current price.
func (p Position) Notional() Money { return p.CurrentPrice.MulShares(p.Shares) }

// Unrealized is the paper profit-and-loss against the average entry price.
func (p Position) Unrealized() Money { return p.CurrentPrice.Sub(p.EntryPrice).MulShares(p.Shares) }

// CostBasis is what the open shares cost at the average entry price.
func (p Position) CostBasis() Money { return p.EntryPrice.MulShares(p.Shares) }

// Trade is the immutable record of one executed order. Realized is zero for
// buys and shares × (price − entry) for sells.
type Trade struct {
	ID       string    `json:"trade_id"`
	Symbol   string    `json:"ticker"`
	Side     Side      `json:"side"`
	Shares   int64     `json:"shares"`
	Price    Money     `json:"price"`
	Realized Money     `json:"realized_pnl"`
	Time     time.Time `json:"time"`
}

// EquityPoint is one sample of the account's equity curve, recorded after
// every executed trade.
type EquityPoint struct {
	Time   time.Time `json:"time"`
	Cash   Money     `json:"cash"`
	Equity Money     `json:"equity"`
}

// Ledger is the stateful core of the simulator: cash, open positions, the
// append-only trade history and the equity curve. Every operation is applied
// atomically under a single lock; a failed operation leaves no partial state.
type Ledger struct {
	mu           sync.Mutex
	cash         Money
	startingCash Money
	positions    map[string]*Position
	trades       []Trade
	equityCurve  []EquityPoint

	now func() time.Time
}

// NewLedger returns a ledger holding startingCash, which must be positive.
func NewLedger(startingCash Money) (*Ledger, error) {
	if !startingCash.IsPositive() {
		return nil, fmt.Errorf("%w: starting cash must be positive, got %s", ErrInvalidConfig, startingCash)
	}
	return &Ledger{
		cash:         startingCash,
		startingCash: startingCash,
		positions:    make(map[string]*Position),
		now:          time.Now,
	}, nil
}

// Buy executes a buy order: cash is debited by shares × price and the
// position for symbol is opened, or enlarged with its entry price re-averaged
// as (oldShares×oldEntry + shares×price) / (oldShares+shares).
//
// Fails with ErrInvalidOrder on non-positive shares or price or an empty
// symbol, and with ErrInsufficientFunds when the cost exceeds cash; the
// ledger is unchanged on failure. On success the executed Trade is returned,
// recorded in the history, and followed by an equity snapshot.
func (l *Ledger) Buy(symbol string, shares int64, price Money) (Trade, error) {
	symbol = NormalizeSymbol(symbol)
	if err := checkOrder(symbol, shares, price); err != nil {
		return Trade{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cost := price.MulShares(shares)
	if l.cash.LessThan(cost) {
		return Trade{}, fmt.Errorf("%w: buying %d %s costs %s but only %s available",
			ErrInsufficientFunds, shares, symbol, cost, l.cash)
	}

	l.cash = l.cash.Sub(cost)
	if pos, ok := l.positions[symbol]; ok {
		total := pos.Shares + shares
		pos.EntryPrice = pos.EntryPrice.MulShares(pos.Shares).Add(cost).DivShares(total)
		pos.Shares = total
		pos.CurrentPrice = price
	} else {
		l.positions[symbol] = &Position{
			Symbol:       symbol,
			Shares:       shares,
			EntryPrice:   price,
			CurrentPrice: price,
		}
	}
	return l.commit(Trade{
		ID:     newID(),
		Symbol: symbol,
		Side:   SideBuy,
		Shares: shares,
		Price:  price,
		Time:   l.now().UTC(),
	}), nil
}

// Sell executes a sell order against an open position: cash is credited by
// shares × price and realized P&L of shares × (price − entry) is booked. A
// position sold down to zero shares is removed; its entry price is discarded.
//
// Fails with ErrInvalidOrder on non-positive shares or price, ErrNoPosition
// when the symbol is not held, and ErrOversell when selling more than held;
// the ledger is unchanged on failure.
func (l *Ledger) Sell(symbol string, shares int64, price Money) (Trade, error) {
	symbol = NormalizeSymbol(symbol)
	if err := checkOrder(symbol, shares, price); err != nil {
		return Trade{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.positions[symbol]
	if !ok {
		return Trade{}, fmt.Errorf("%w: %s is not held", ErrNoPosition, symbol)
	}
	if shares > pos.Shares {
		return Trade{}, fmt.Errorf("%w: selling %d %s but only %d held", ErrOversell, shares, symbol, pos.Shares)
	}

	l.cash = l.cash.Add(price.MulShares(shares))
	realized := price.Sub(pos.EntryPrice).MulShares(shares)
	pos.Shares -= shares
	pos.CurrentPrice = price
	if pos.Shares == 0 {
		delete(l.positions, symbol)
	}
	return l.commit(Trade{
		ID:       newID(),
		Symbol:   symbol,
		Side:     SideSell,
		Shares:   shares,
		Price:    price,
		Realized: realized,
		Time:     l.now().UTC(),
	}), nil
}

// Execute runs an order through Buy or Sell.
func (l *Ledger) Execute(o Order) (Trade, error) {
	price := M(o.Price)
	switch o.Side {
	case SideBuy:
		return l.Buy(o.Symbol, o.Shares, price)
	case SideSell:
		return l.Sell(o.Symbol, o.Shares, price)
	}
	return Trade{}, fmt.Errorf("%w: unknown side %q", ErrInvalidOrder, o.Side)
}

// MarkPrice updates the current price of an open position for unrealized
// P&L. It records no trade and no equity point. Fails with ErrNoPosition when
// the symbol is not held and ErrInvalidOrder on a non-positive price.
func (l *Ledger) MarkPrice(symbol string, price Money) error {
	symbol = NormalizeSymbol(symbol)
	if !price.IsPositive() {
		return fmt.Errorf("%w: mark price must be positive, got %s", ErrInvalidOrder, price)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.positions[symbol]
	if !ok {
		return fmt.Errorf("%w: %s is not held", ErrNoPosition, symbol)
	}
	pos.CurrentPrice = price
	return nil
}

// Reset clears positions, trade history and the equity curve, and restores
// cash to startingCash. Irreversible.
func (l *Ledger) Reset(startingCash Money) error {
	if !startingCash.IsPositive() {
		return fmt.Errorf("%w: starting cash must be positive, got %s", ErrInvalidConfig, startingCash)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.cash = startingCash
	l.startingCash = startingCash
	l.positions = make(map[string]*Position)
	l.trades = nil
	l.equityCurve = nil
	return nil
}

// Position returns a copy of the open position for symbol, if held.
func (l *Ledger) Position(symbol string) (Position, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	pos, ok := l.positions[NormalizeSymbol(symbol)]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// Trades returns the trade history in execution order.
func (l *Ledger) Trades() []Trade {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Trade, len(l.trades))
	copy(out, l.trades)
	return out
}

// EquityCurve returns the equity samples in recording order.
func (l *Ledger) EquityCurve() []EquityPoint {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]EquityPoint, len(l.equityCurve))
	copy(out, l.equityCurve)
	return out
}

// Cash returns the available cash balance.
func (l *Ledger) Cash() Money {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cash
}

// StartingCash returns the balance the account started (or was reset) with.
func (l *Ledger) StartingCash() Money {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.startingCash
}

// commit appends the trade and the post-trade equity sample. Callers hold
// the lock.
func (l *Ledger) commit(t Trade) Trade {
	l.trades = append(l.trades, t)
	l.equityCurve = append(l.equityCurve, EquityPoint{
		Time:   t.Time,
		Cash:   l.cash,
		Equity: l.equityLocked(),
	})
	return t
}

// equityLocked is cash plus the notional of every open position. Callers
// hold the lock.
func (l *Ledger) equityLocked() Money {
	equity := l.cash
	for _, pos := range l.positions {
		equity = equity.Add(pos.Notional())
	}
	return equity
}

func checkOrder(symbol string, shares int64, price Money) error {
	if symbol == "" {
		return fmt.Errorf("%w: empty symbol", ErrInvalidOrder)
	}
	if shares <= 0 {
		return fmt.Errorf("%w: shares must be positive, got %d", ErrInvalidOrder, shares)
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: price must be positive, got %s", ErrInvalidOrder, price)
	}
	return nil
}
