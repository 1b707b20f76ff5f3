// Package papertrader implements the core of a paper-trading simulator: it
// turns scored candidate instruments into risk-sized orders, executes them
// against an in-memory account, and tracks positions and realized/unrealized
// profit-and-loss over time.
//
// The pipeline runs in four stages:
//   - Ranking: raw per-instrument metrics (mention count, sentiment score,
//     dollar volume) are min-max normalized and blended into a single
//     composite rank score with a deterministic ordering.
//   - Prediction: a short price history yields a next-step price estimate, a
//     confidence value, and a categorical trading signal (trend, momentum,
//     volatility, support and resistance).
//   - Sizing: account equity and a per-trade risk fraction convert the
//     ranked, filtered candidate list into whole-share buy orders.
//   - Ledger: the only stateful stage. It accepts buy/sell orders, maintains
//     cash, open positions and an append-only trade history, records an
//     equity snapshot after every executed trade, and answers point-in-time
//     Snapshot queries.
//
// Ranking, prediction and sizing are pure functions and safe for concurrent
// use. The Ledger serializes every operation behind a single lock: the funds
// check, the mutation and the history append commit as one unit, and a failed
// operation never leaves partial state behind.
//
// All monetary amounts are decimal-backed (see Money); share counts are
// integers and fractional shares are never produced. Ledger activity can be
// persisted as a JSONL journal and replayed to rebuild the account, which is
// how the `ptrade` command-line tool keeps state between invocations.
package papertrader
