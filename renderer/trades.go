package renderer

import (
	"bytes"
	"strconv"

	md "github.com/nao1215/markdown"

	"github.com/trendlab/papertrader"
)

// TradesMarkdown renders the trade history in execution order.
func TradesMarkdown(trades []papertrader.Trade) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Trade History")
	if len(trades) == 0 {
		doc.PlainText("No trades yet.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Time", "Ticker", "Side", "Shares", "Price", "Realized"},
		Rows:   [][]string{},
	}
	for _, t := range trades {
		realized := ""
		if t.Side == papertrader.SideSell {
			realized = t.Realized.SignedString()
		}
		table.Rows = append(table.Rows, []string{
			stamp(t.Time),
			t.Symbol,
			string(t.Side),
			strconv.FormatInt(t.Shares, 10),
			t.Price.String(),
			realized,
		})
	}
	doc.Table(table)

	return doc.String()
}

// EquityCurveMarkdown renders the per-trade equity samples.
func EquityCurveMarkdown(points []papertrader.EquityPoint) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Equity Curve")
	if len(points) == 0 {
		doc.PlainText("No equity samples yet.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Time", "Cash", "Equity"},
		Rows:      [][]string{},
	}
	for _, p := range points {
		table.Rows = append(table.Rows, []string{
			stamp(p.Time),
			p.Cash.String(),
			p.Equity.String(),
		})
	}
	doc.Table(table)

	return doc.String()
}
