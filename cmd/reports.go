package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
)

// --- Overview Command ---

type overviewCmd struct{}

func (*overviewCmd) Name() string     { return "overview" }
func (*overviewCmd) Synopsis() string { return "report on currently held positions and totals" }
func (*overviewCmd) Usage() string {
	return `overview

  Prints one row per currently held security with its quantity, average cost,
  last price, current value, dividends and return, followed by the portfolio
  totals. When nothing is held a single zero row is printed.
`
}

func (*overviewCmd) SetFlags(*flag.FlagSet) {}

func (c *overviewCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := buildPortfolio()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	report, err := p.Overview()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TICKER\tQUANTITY\tAVG COST\tLAST\tTRADE VALUE\tCURRENT VALUE\tDIVIDENDS\tRETURN")
	for _, row := range report.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Ticker, row.Quantity, row.AvgCost, row.LastPrice,
			row.TradeValue, row.CurrentValue, row.Dividends, row.Return.SignedString())
	}
	w.Flush()

	fmt.Println()
	fmt.Printf("Total security value: %s\n", report.TotalSecurityValue)
	fmt.Printf("Cash:                 %s\n", report.Cash)
	fmt.Printf("Total value:          %s\n", report.TotalPortfolioValue)
	fmt.Printf("Total return:         %s\n", report.TotalReturn.SignedString())

	printWarnings(report.Warnings)
	return subcommands.ExitSuccess
}

// --- Positions Command ---

type positionsCmd struct{}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "report on every security ever traded, closed positions included" }
func (*positionsCmd) Usage() string {
	return `positions

  Prints one row per security that ever appears in the ledger, including
  closed positions, ordered by current value then invested value.
`
}

func (*positionsCmd) SetFlags(*flag.FlagSet) {}

func (c *positionsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := buildPortfolio()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	report, err := p.Positions()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TICKER\tQUANTITY\tBOUGHT\tSOLD\tINVESTED\tDIVESTED\tLAST\tCURRENT VALUE\tDIVIDENDS\tRETURN")
	for _, row := range report.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Ticker, row.Quantity, row.Bought, row.Sold,
			row.Invested, row.Divested, row.LastPrice,
			row.CurrentValue, row.Dividends, row.Return.SignedString())
	}
	w.Flush()

	printWarnings(report.Warnings)
	return subcommands.ExitSuccess
}

func printWarnings(warnings []string) {
	for _, warning := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}
}
