package feed

import "regexp"

var tickerPattern = regexp.MustCompile(`\b[A-Z]{2,5}\b`)

// tickerStopWords are upper-case words that match the ticker pattern but are
// ordinary forum chatter.
var tickerStopWords = map[string]struct{}{
	"AN": {}, "IT": {}, "IS": {}, "ARE": {}, "THIS": {}, "YOLO": {},
	"THE": {}, "ON": {}, "IN": {}, "ALL": {}, "OR": {}, "AND": {},
	"DD": {}, "CEO": {}, "CFO": {}, "USA": {}, "OTC": {}, "FOMO": {},
	"IMO": {},
}

// ExtractTickers pulls candidate ticker symbols out of raw text: two to five
// consecutive capitals, minus the stop words, deduplicated in order of first
// appearance.
func ExtractTickers(text string) []string {
	seen := make(map[string]struct{})
	var tickers []string
	for _, match := range tickerPattern.FindAllString(text, -1) {
		if _, stop := tickerStopWords[match]; stop {
			continue
		}
		if _, dup := seen[match]; dup {
			continue
		}
		seen[match] = struct{}{}
		tickers = append(tickers, match)
	}
	return tickers
}

// MentionCounts tallies how many texts mention each ticker. A ticker counts
// once per text no matter how often it repeats, so one spammy post cannot
// inflate a mention count.
func MentionCounts(texts []string) map[string]int {
	counts := make(map[string]int)
	for _, text := range texts {
		for _, ticker := range ExtractTickers(text) {
			counts[ticker]++
		}
	}
	return counts
}
