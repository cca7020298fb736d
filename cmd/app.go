// Package cmd implements the pfs CLI application to manage a portfolio.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	portfolio "github.com/MisterReally/portfolios-1"
	"github.com/MisterReally/portfolios-1/yahoo"
)

// Commands lists the subcommands a main package registers.
var Commands = []subcommands.Command{
	&depositCmd{},
	&withdrawCmd{},
	&buyCmd{},
	&sellCmd{},
	&dividendCmd{},
	&txCmd{},
	&overviewCmd{},
	&positionsCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "ledger.jsonl", "Path to the ledger file (JSONL format)")
var configFile = flag.String("config-file", "", "Path to the TOML configuration file (built-in defaults when empty)")
var verbose = flag.Bool("v", false, "Enable debug logging")

var logger = zerolog.Nop()

// Setup loads the optional .env file and builds the application logger.
// Call it after flag.Parse.
func Setup() zerolog.Logger {
	godotenv.Load()
	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
	return logger
}

// loadConfig returns the app configuration: the TOML file when one is
// specified, built-in defaults otherwise.
func loadConfig() (portfolio.Config, error) {
	if *configFile == "" {
		return portfolio.DefaultConfig(), nil
	}
	return portfolio.LoadConfig(*configFile)
}

// decodeLedger reads the app ledger file. A missing file is an empty ledger,
// so the first transaction does not require any setup step.
func decodeLedger() (*portfolio.Ledger, error) {
	f, err := os.Open(*ledgerFile)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn().Str("file", *ledgerFile).Msg("ledger file does not exist, starting empty")
		return portfolio.NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()
	return portfolio.DecodeLedger(f)
}

// appendEvent appends a single event to the app ledger file.
func appendEvent(e portfolio.Event) subcommands.ExitStatus {
	f, err := os.OpenFile(*ledgerFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	if err := portfolio.EncodeEvent(f, e); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully appended %s event to %s\n", e.What(), *ledgerFile)
	return subcommands.ExitSuccess
}

// buildPortfolio rebuilds the full portfolio state from the app ledger file,
// priced by the Yahoo client. Report commands use it; transaction commands
// only append to the ledger file.
func buildPortfolio() (*portfolio.Portfolio, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	ledger, err := decodeLedger()
	if err != nil {
		return nil, err
	}

	src := yahoo.New(cfg.CacheDir)
	src.Log = logger

	name := strings.TrimSuffix(filepath.Base(*ledgerFile), filepath.Ext(*ledgerFile))
	p, err := portfolio.NewFromLedger(name, src, cfg, ledger)
	if err != nil {
		return nil, err
	}
	p.SetLogger(logger)
	return p, nil
}
