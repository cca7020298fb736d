package portfolio

import (
	"errors"

	"github.com/MisterReally/portfolios-1/date"
)

// Bar is one daily price bar of a security.
type Bar struct {
	Date   date.Date `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSource provides daily market data for securities. Implementations
// must distinguish an unknown ticker from a transient fetch failure, so that
// errors.Is(err, ErrUnknownTicker) and errors.Is(err, ErrSourceUnavailable)
// give callers a reliable answer.
type PriceSource interface {
	// Daily returns the ordered daily bars for ticker within [from, to],
	// bounds included.
	Daily(ticker string, from, to date.Date) ([]Bar, error)
	// LatestClose returns the most recent known closing price for ticker.
	LatestClose(ticker string) (float64, error)
}

// Sentinel errors of the pricing boundary.
var (
	// ErrUnknownTicker reports a ticker the price source has never heard of,
	// or an operation referencing a ticker with no holding and no trade
	// history in the portfolio.
	ErrUnknownTicker = errors.New("unknown ticker")

	// ErrSourceUnavailable reports a transient failure of the price source
	// (network, quota, malformed payload). Retrying may succeed.
	ErrSourceUnavailable = errors.New("price source unavailable")

	// ErrDataUnavailable reports that no price series could be retrieved for
	// a ticker: loading the instrument failed and the triggering operation
	// must fail with it.
	ErrDataUnavailable = errors.New("no price data available")

	// ErrNoPriceBeforeDate reports a price lookup on a date that precedes
	// the start of the loaded series.
	ErrNoPriceBeforeDate = errors.New("no price on or before date")
)
