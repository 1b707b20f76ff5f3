package renderer

import (
	"bytes"

	md "github.com/nao1215/markdown"

	"github.com/trendlab/papertrader"
)

// PredictionsMarkdown renders one row per analyzed symbol.
func PredictionsMarkdown(predictions []papertrader.Prediction) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Predictions")
	if len(predictions) == 0 {
		doc.PlainText("No symbols analyzed.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Ticker", "Current", "Predicted", "Confidence", "Trend", "Signal", "Support", "Resistance"},
		Rows:   [][]string{},
	}
	for _, p := range predictions {
		table.Rows = append(table.Rows, []string{
			p.Symbol,
			price(p.Current),
			price(p.Predicted),
			confidence(p.Confidence),
			string(p.Trend),
			string(p.Signal),
			price(p.Support),
			price(p.Resistance),
		})
	}
	doc.Table(table)

	return doc.String()
}
