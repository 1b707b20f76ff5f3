// Package renderer turns simulator output into markdown reports and CSV
// exports. The CLI pipes the markdown through a terminal renderer; the server
// writes the CSV exports to disk.
package renderer

import (
	"fmt"
	"strconv"
	"time"

	"github.com/trendlab/papertrader"
)

// price formats a raw feed price for display.
func price(v float64) string {
	return papertrader.M(v).String()
}

// score formats a composite rank score.
func score(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// sentiment formats an average sentiment reading.
func sentiment(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// confidence formats a confidence level as a whole percentage.
func confidence(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

// stamp formats timestamps for report rows.
func stamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

// csvFloat formats a float for CSV export with no padding or exponent.
func csvFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
