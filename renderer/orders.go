package renderer

import (
	"bytes"
	"strconv"

	md "github.com/nao1215/markdown"

	"github.com/trendlab/papertrader"
)

// OrdersMarkdown renders a sized order batch before or after execution.
func OrdersMarkdown(orders []papertrader.Order, executed bool) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	if executed {
		doc.H1("Executed Orders")
	} else {
		doc.H1("Planned Orders")
	}
	if len(orders) == 0 {
		doc.PlainText("Nothing to trade.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Ticker", "Side", "Shares", "Price", "Notional", "Sentiment", "Score"},
		Rows:   [][]string{},
	}
	for _, o := range orders {
		notional := papertrader.M(o.Price).MulShares(o.Shares)
		table.Rows = append(table.Rows, []string{
			o.Symbol,
			string(o.Side),
			strconv.FormatInt(o.Shares, 10),
			price(o.Price),
			notional.String(),
			sentiment(o.Sentiment),
			score(o.RankScore),
		})
	}
	doc.Table(table)

	return doc.String()
}
