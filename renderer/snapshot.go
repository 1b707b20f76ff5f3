package renderer

import (
	"bytes"
	"fmt"
	"strconv"

	md "github.com/nao1215/markdown"

	"github.com/trendlab/papertrader"
)

// SnapshotMarkdown renders the account snapshot: the headline aggregates and
// one row per open position.
func SnapshotMarkdown(s papertrader.Snapshot) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Paper Trading Portfolio")
	doc.PlainText(fmt.Sprintf("As of %s UTC.", stamp(s.Time)))

	doc.H2("Account")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Equity", s.Equity.String()},
			{"Cash", s.Cash.String()},
			{"Starting Cash", s.StartingCash.String()},
			{"Total P&L", s.TotalPnL.SignedString()},
			{"Total Return", s.TotalReturn.SignedString()},
			{"Unrealized P&L", s.UnrealizedPnL.SignedString()},
			{"Realized P&L", s.RealizedPnL.SignedString()},
			{"Trades", strconv.Itoa(s.TradeCount)},
		},
	})

	doc.H2("Open Positions")
	if len(s.Positions) == 0 {
		doc.PlainText("No open positions.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Ticker", "Shares", "Entry", "Current", "Value", "Unrealized", "Return"},
		Rows:   [][]string{},
	}
	for _, p := range s.Positions {
		table.Rows = append(table.Rows, []string{
			p.Symbol,
			strconv.FormatInt(p.Shares, 10),
			p.EntryPrice.String(),
			p.CurrentPrice.String(),
			p.Notional.String(),
			p.Unrealized.SignedString(),
			p.Return.SignedString(),
		})
	}
	doc.Table(table)

	return doc.String()
}
