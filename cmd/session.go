package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/subcommands"

	"github.com/trendlab/papertrader"
	"github.com/trendlab/papertrader/feed"
	"github.com/trendlab/papertrader/renderer"
)

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981")).
			Padding(0, 1)

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

type sessionCmd struct{}

func (*sessionCmd) Name() string     { return "session" }
func (*sessionCmd) Synopsis() string { return "starts an interactive trading session" }
func (*sessionCmd) Usage() string {
	return `ptrade session:
  Starts an interactive prompt for scanning, trading and inspecting the
  journaled account.
`
}

func (*sessionCmd) SetFlags(f *flag.FlagSet) {}

func (c *sessionCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fmt.Println(bannerStyle.Render("papertrader session"))
	fmt.Println(noteStyle.Render("Simulated money only. Journal: " + *journalFile))

	for {
		var action string
		prompt := &survey.Select{
			Message: "What next?",
			Options: []string{
				"Scan the market",
				"Buy",
				"Sell",
				"Mark price",
				"Portfolio",
				"History",
				"Count tickers in text",
				"Reset account",
				"Quit",
			},
		}
		if err := survey.AskOne(prompt, &action); err != nil {
			return fail(err)
		}

		var err error
		switch action {
		case "Scan the market":
			err = sessionScan(ctx)
		case "Buy":
			err = sessionTrade(papertrader.SideBuy)
		case "Sell":
			err = sessionTrade(papertrader.SideSell)
		case "Mark price":
			err = sessionMark()
		case "Portfolio":
			err = sessionPortfolio()
		case "History":
			err = sessionHistory()
		case "Count tickers in text":
			err = sessionTickers()
		case "Reset account":
			err = sessionReset()
		case "Quit":
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
}

// sessionScan runs the fixture pipeline with the default screen and sizer,
// then offers to fill the orders.
func sessionScan(ctx context.Context) error {
	ledger, err := openLedger()
	if err != nil {
		return err
	}

	raw, err := feed.Fixture{}.Candidates(ctx)
	if err != nil {
		return err
	}
	screened := feed.Screen(raw, feed.DefaultScreenConfig())
	candidates, err := papertrader.Rank(screened)
	if err != nil {
		return err
	}
	printMarkdown(renderer.CandidatesMarkdown(candidates))
	if len(candidates) == 0 {
		return nil
	}

	cfg := papertrader.DefaultSizerConfig()
	cfg.Equity = ledger.Snapshot().Equity.Float64()
	orders, err := papertrader.Size(cfg, candidates)
	if err != nil {
		return err
	}
	printMarkdown(renderer.OrdersMarkdown(orders, false))
	if len(orders) == 0 {
		return nil
	}

	var execute bool
	if err := survey.AskOne(&survey.Confirm{Message: "Execute these orders?"}, &execute); err != nil {
		return err
	}
	if !execute {
		return nil
	}
	for _, o := range orders {
		t, err := ledger.Execute(o)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", o.Symbol, err)
			continue
		}
		if err := appendRecord(papertrader.NewTradeRecord(t)); err != nil {
			return err
		}
	}
	printMarkdown(renderer.SnapshotMarkdown(ledger.Snapshot()))
	return nil
}

func sessionTrade(side papertrader.Side) error {
	symbol, err := askSymbol()
	if err != nil {
		return err
	}
	shares, err := askShares()
	if err != nil {
		return err
	}
	price, err := askPrice()
	if err != nil {
		return err
	}

	ledger, err := openLedger()
	if err != nil {
		return err
	}
	var t papertrader.Trade
	if side == papertrader.SideBuy {
		t, err = ledger.Buy(symbol, shares, price)
	} else {
		t, err = ledger.Sell(symbol, shares, price)
	}
	if err != nil {
		return err
	}
	if err := appendRecord(papertrader.NewTradeRecord(t)); err != nil {
		return err
	}

	if side == papertrader.SideBuy {
		fmt.Printf("Bought %d %s at %s. Cash %s.\n", t.Shares, t.Symbol, t.Price, ledger.Cash())
	} else {
		fmt.Printf("Sold %d %s at %s. Realized %s. Cash %s.\n",
			t.Shares, t.Symbol, t.Price, t.Realized.SignedString(), ledger.Cash())
	}
	return nil
}

func sessionMark() error {
	symbol, err := askSymbol()
	if err != nil {
		return err
	}
	price, err := askPrice()
	if err != nil {
		return err
	}

	ledger, err := openLedger()
	if err != nil {
		return err
	}
	if err := ledger.MarkPrice(symbol, price); err != nil {
		return err
	}
	if err := appendRecord(papertrader.NewMarkRecord(time.Now().UTC(), symbol, price)); err != nil {
		return err
	}
	fmt.Printf("Marked %s at %s. Equity %s.\n", symbol, price, ledger.Snapshot().Equity)
	return nil
}

func sessionPortfolio() error {
	ledger, err := openLedger()
	if err != nil {
		return err
	}
	printMarkdown(renderer.SnapshotMarkdown(ledger.Snapshot()))
	return nil
}

func sessionHistory() error {
	ledger, err := openLedger()
	if err != nil {
		return err
	}
	printMarkdown(renderer.TradesMarkdown(ledger.Trades()))
	return nil
}

// sessionTickers counts cashtag-style tickers in pasted text, the same
// extraction the mentions source applies to post titles.
func sessionTickers() error {
	var text string
	if err := survey.AskOne(&survey.Multiline{Message: "Paste the text to scan for tickers:"}, &text); err != nil {
		return err
	}
	counts := feed.MentionCounts(strings.Split(text, "\n"))
	if len(counts) == 0 {
		fmt.Println("No tickers found.")
		return nil
	}

	symbols := make([]string, 0, len(counts))
	for s := range counts {
		symbols = append(symbols, s)
	}
	sort.Slice(symbols, func(i, j int) bool {
		if counts[symbols[i]] != counts[symbols[j]] {
			return counts[symbols[i]] > counts[symbols[j]]
		}
		return symbols[i] < symbols[j]
	})
	for _, s := range symbols {
		fmt.Printf("%-6s %d\n", s, counts[s])
	}
	return nil
}

func sessionReset() error {
	var cashStr string
	prompt := &survey.Input{Message: "Starting cash:", Default: "25000"}
	if err := survey.AskOne(prompt, &cashStr, survey.WithValidator(validFloat)); err != nil {
		return err
	}
	cash, _ := strconv.ParseFloat(strings.TrimSpace(cashStr), 64)

	var confirm bool
	msg := fmt.Sprintf("Close all positions and restart with %s?", papertrader.M(cash))
	if err := survey.AskOne(&survey.Confirm{Message: msg}, &confirm); err != nil {
		return err
	}
	if !confirm {
		return nil
	}

	ledger, err := openLedger()
	if err != nil {
		return err
	}
	money := papertrader.M(cash)
	if err := ledger.Reset(money); err != nil {
		return err
	}
	if err := appendRecord(papertrader.NewResetRecord(time.Now().UTC(), money)); err != nil {
		return err
	}
	fmt.Printf("Account reset. Cash %s.\n", ledger.Cash())
	return nil
}

func askSymbol() (string, error) {
	var symbol string
	prompt := &survey.Input{Message: "Ticker:"}
	err := survey.AskOne(prompt, &symbol, survey.WithValidator(func(val interface{}) error {
		str := strings.TrimSpace(val.(string))
		if str == "" {
			return fmt.Errorf("ticker cannot be empty")
		}
		if len(str) > 5 {
			return fmt.Errorf("ticker too long (max 5 characters)")
		}
		return nil
	}))
	if err != nil {
		return "", err
	}
	return papertrader.NormalizeSymbol(symbol), nil
}

func askShares() (int64, error) {
	var sharesStr string
	prompt := &survey.Input{Message: "Shares:"}
	err := survey.AskOne(prompt, &sharesStr, survey.WithValidator(func(val interface{}) error {
		n, err := strconv.ParseInt(strings.TrimSpace(val.(string)), 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("shares must be a positive whole number")
		}
		return nil
	}))
	if err != nil {
		return 0, err
	}
	n, _ := strconv.ParseInt(strings.TrimSpace(sharesStr), 10, 64)
	return n, nil
}

func askPrice() (papertrader.Money, error) {
	var priceStr string
	prompt := &survey.Input{Message: "Price per share:"}
	if err := survey.AskOne(prompt, &priceStr, survey.WithValidator(validFloat)); err != nil {
		return papertrader.Money{}, err
	}
	v, _ := strconv.ParseFloat(strings.TrimSpace(priceStr), 64)
	return papertrader.M(v), nil
}

func validFloat(val interface{}) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(val.(string)), 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}
