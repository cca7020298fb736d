package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	portfolio "github.com/MisterReally/portfolios-1"
	"github.com/MisterReally/portfolios-1/date"
)

type txCmd struct {
	start string
	end   string
	head  int
	tail  int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the events recorded in the ledger" }
func (*txCmd) Usage() string {
	return `tx [-s <start_date>] [-d <end_date>] [-head <n>] [-tail <n>]

  Lists ledger events in chronological order, optionally filtered to a date
  range and limited to the first or last N events.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", "", "The start date of the range (YYYY-MM-DD)")
	f.StringVar(&c.end, "d", "", "The end date of the range (YYYY-MM-DD)")
	f.IntVar(&c.head, "head", 0, "Show only the first N events")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N events")
}

func (c *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.head > 0 && c.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}

	window, status := c.window()
	if status != subcommands.ExitSuccess {
		return status
	}

	ledger, err := decodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var events []portfolio.Event
	for e := range ledger.Events() {
		if window.Contains(e.When()) {
			events = append(events, e)
		}
	}
	if c.head > 0 && len(events) > c.head {
		events = events[:c.head]
	}
	if c.tail > 0 && len(events) > c.tail {
		events = events[len(events)-c.tail:]
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tEVENT\tDETAIL\tCASH FLOW")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.When(), e.What(), describe(e), e.CashFlow().SignedString())
	}
	w.Flush()
	return subcommands.ExitSuccess
}

// window returns the date range selected by the -s and -d flags; missing
// bounds default to an all-inclusive range.
func (c *txCmd) window() (date.Range, subcommands.ExitStatus) {
	from := date.New(1, 1, 1)
	to := date.New(9999, 12, 31)
	if c.start != "" {
		d, err := date.Parse(c.start)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
			return date.Range{}, subcommands.ExitUsageError
		}
		from = d
	}
	if c.end != "" {
		d, err := date.Parse(c.end)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
			return date.Range{}, subcommands.ExitUsageError
		}
		to = d
	}
	return date.NewRange(from, to), subcommands.ExitSuccess
}

// describe renders the event-specific fields of a ledger event.
func describe(e portfolio.Event) string {
	switch e := e.(type) {
	case portfolio.CashMovement:
		if e.In.IsPositive() {
			return fmt.Sprintf("deposit %s", e.In)
		}
		return fmt.Sprintf("withdraw %s", e.Out)
	case portfolio.Trade:
		verb := "buy"
		if !e.IsBuy() {
			verb = "sell"
		}
		return fmt.Sprintf("%s %s %s @ %s", verb, e.Quantity.Abs(), e.Ticker, e.Price)
	case portfolio.DividendPayment:
		return fmt.Sprintf("dividend %s %s", e.Ticker, e.Amount)
	default:
		return string(e.What())
	}
}
