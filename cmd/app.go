// Package cmd implements the CLI application to run the paper-trading
// simulator against a journaled account.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/trendlab/papertrader"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on
// the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&scanCmd{}, "trading")
	c.Register(&buyCmd{}, "trading")
	c.Register(&sellCmd{}, "trading")
	c.Register(&markCmd{}, "trading")
	c.Register(&sessionCmd{}, "trading")

	c.Register(&portfolioCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")
	c.Register(&predictCmd{}, "reports")

	c.Register(&resetCmd{}, "account")
	c.Register(&serveCmd{}, "server")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to
// use global variables.

var journalFile = flag.String("journal", "papertrader.jsonl", "Path to the trade journal (JSONL format)")

// openLedger rebuilds the account by replaying the journal. A missing
// journal starts a fresh account and seeds the file with its opening reset
// record, so later replays reproduce the same starting cash.
func openLedger() (*papertrader.Ledger, error) {
	f, err := os.Open(*journalFile)
	if errors.Is(err, fs.ErrNotExist) {
		ledger, err := papertrader.NewLedger(papertrader.DefaultStartingCash)
		if err != nil {
			return nil, err
		}
		rec := papertrader.NewResetRecord(time.Now().UTC(), papertrader.DefaultStartingCash)
		if err := appendRecord(rec); err != nil {
			return nil, err
		}
		return ledger, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %q: %w", *journalFile, err)
	}
	defer f.Close()

	journal, err := papertrader.DecodeJournal(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal %q: %w", *journalFile, err)
	}
	return journal.Replay()
}

// appendRecord appends a single record to the journal file.
func appendRecord(rec papertrader.Record) error {
	f, err := os.OpenFile(*journalFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening journal %q: %w", *journalFile, err)
	}
	defer f.Close()

	if err := papertrader.EncodeRecord(f, rec); err != nil {
		return fmt.Errorf("writing to journal %q: %w", *journalFile, err)
	}
	return nil
}

// fail prints the error and maps it to the exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}

// printMarkdown renders a markdown report for the terminal, falling back to
// the raw text when no style can be applied.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err == nil {
		if out, rerr := r.Render(md); rerr == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}
