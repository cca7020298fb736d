package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	portfolio "github.com/MisterReally/portfolios-1"
	"github.com/MisterReally/portfolios-1/date"
)

// --- Deposit Command ---

type depositCmd struct {
	date     string
	amount   float64
	currency string
	memo     string
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "record a cash deposit into the portfolio" }
func (*depositCmd) Usage() string {
	return `deposit -a <amount> [-d <date>] [-c <currency>] [-m <memo>]

  Records a cash inflow. The amount is credited to the cash balance.
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.Float64Var(&c.amount, "a", 0, "Amount to deposit")
	f.StringVar(&c.currency, "c", "", "Currency code, defaults to the configured one")
	f.StringVar(&c.memo, "m", "", "An optional note for the transaction")
}

func (c *depositCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, cur, status := parseDayAndCurrency(c.date, c.currency)
	if status != subcommands.ExitSuccess {
		return status
	}
	return appendEvent(portfolio.NewDeposit(day, c.memo, portfolio.M(c.amount, cur)))
}

// --- Withdraw Command ---

type withdrawCmd struct {
	date     string
	amount   float64
	currency string
	memo     string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "record a cash withdrawal from the portfolio" }
func (*withdrawCmd) Usage() string {
	return `withdraw -a <amount> [-d <date>] [-c <currency>] [-m <memo>]

  Records a cash outflow. The balance may go negative; it is reported, never blocked.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.Float64Var(&c.amount, "a", 0, "Amount to withdraw")
	f.StringVar(&c.currency, "c", "", "Currency code, defaults to the configured one")
	f.StringVar(&c.memo, "m", "", "An optional note for the transaction")
}

func (c *withdrawCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, cur, status := parseDayAndCurrency(c.date, c.currency)
	if status != subcommands.ExitSuccess {
		return status
	}
	return appendEvent(portfolio.NewWithdrawal(day, c.memo, portfolio.M(c.amount, cur)))
}

// --- Buy Command ---

type buyCmd struct {
	date     string
	ticker   string
	quantity float64
	price    float64
	currency string
	memo     string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "purchase shares to open or add to a position" }
func (*buyCmd) Usage() string {
	return `buy -t <ticker> -q <quantity> -p <price> [-d <date>] [-c <currency>] [-m <memo>]

  Purchases shares of a security. The total cost is debited from the cash balance.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.ticker, "t", "", "Security ticker")
	f.Float64Var(&c.quantity, "q", 0, "Number of shares")
	f.Float64Var(&c.price, "p", 0, "Price per share")
	f.StringVar(&c.currency, "c", "", "Currency code, defaults to the configured one")
	f.StringVar(&c.memo, "m", "", "An optional note for the transaction")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || c.quantity <= 0 || c.price <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, cur, status := parseDayAndCurrency(c.date, c.currency)
	if status != subcommands.ExitSuccess {
		return status
	}
	e := portfolio.NewBuy(day, c.memo, c.ticker, portfolio.Q(c.quantity), portfolio.M(c.price, cur))
	return appendEvent(e)
}

// --- Sell Command ---

type sellCmd struct {
	date     string
	ticker   string
	quantity float64
	price    float64
	currency string
	memo     string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares to trim or close a position" }
func (*sellCmd) Usage() string {
	return `sell -t <ticker> -q <quantity> -p <price> [-d <date>] [-c <currency>] [-m <memo>]

  Sells shares of a security. The proceeds are credited to the cash balance.
  The ticker must already appear in the ledger; over-selling is recorded with
  a warning on the next report, not blocked.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.ticker, "t", "", "Security ticker")
	f.Float64Var(&c.quantity, "q", 0, "Number of shares")
	f.Float64Var(&c.price, "p", 0, "Price per share")
	f.StringVar(&c.currency, "c", "", "Currency code, defaults to the configured one")
	f.StringVar(&c.memo, "m", "", "An optional note for the transaction")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || c.quantity <= 0 || c.price <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, cur, status := parseDayAndCurrency(c.date, c.currency)
	if status != subcommands.ExitSuccess {
		return status
	}

	ledger, err := decodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if !ledger.HasTraded(c.ticker) {
		fmt.Fprintf(os.Stderr, "Error: %s was never bought in this ledger\n", c.ticker)
		return subcommands.ExitFailure
	}

	e := portfolio.NewSell(day, c.memo, c.ticker, portfolio.Q(c.quantity), portfolio.M(c.price, cur))
	return appendEvent(e)
}

// --- Dividend Command ---

type dividendCmd struct {
	date     string
	ticker   string
	quantity float64
	perShare float64
	currency string
	memo     string
}

func (*dividendCmd) Name() string     { return "dividend" }
func (*dividendCmd) Synopsis() string { return "record a dividend payment for a security" }
func (*dividendCmd) Usage() string {
	return `dividend -t <ticker> -q <quantity> -p <per-share-amount> [-d <date>] [-c <currency>] [-m <memo>]

  Records a dividend of quantity times the per-share amount. The total is
  credited to the cash balance.
`
}

func (c *dividendCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.ticker, "t", "", "Security ticker")
	f.Float64Var(&c.quantity, "q", 0, "Number of shares the dividend applies to")
	f.Float64Var(&c.perShare, "p", 0, "Dividend amount per share")
	f.StringVar(&c.currency, "c", "", "Currency code, defaults to the configured one")
	f.StringVar(&c.memo, "m", "", "An optional note for the transaction")
}

func (c *dividendCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || c.quantity <= 0 || c.perShare <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, cur, status := parseDayAndCurrency(c.date, c.currency)
	if status != subcommands.ExitSuccess {
		return status
	}

	ledger, err := decodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if !ledger.HasTraded(c.ticker) {
		fmt.Fprintf(os.Stderr, "Error: %s was never bought in this ledger\n", c.ticker)
		return subcommands.ExitFailure
	}

	amount := portfolio.M(c.perShare, cur).Mul(portfolio.Q(c.quantity))
	return appendEvent(portfolio.NewDividendPayment(day, c.memo, c.ticker, amount))
}

// parseDayAndCurrency validates the shared -d and -c flags, falling back to
// the configured currency when -c is empty.
func parseDayAndCurrency(dateStr, currency string) (date.Date, string, subcommands.ExitStatus) {
	day, err := date.Parse(dateStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return date.Date{}, "", subcommands.ExitUsageError
	}
	if currency == "" {
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return date.Date{}, "", subcommands.ExitFailure
		}
		currency = cfg.Currency
	}
	return day, currency, subcommands.ExitSuccess
}
