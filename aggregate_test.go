package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MisterReally/portfolios-1/date"
)

// mapResolver resolves last prices from a map, failing on missing tickers.
func mapResolver(prices map[string]float64) PriceResolver {
	return func(ticker string) (float64, error) {
		last, ok := prices[ticker]
		if !ok {
			return 0, ErrUnknownTicker
		}
		return last, nil
	}
}

func TestNewOverview_SinglePosition(t *testing.T) {
	// Deposit 10,000, buy 10 ABC at 100, receive a 5 dividend, last price 110.
	ledger := NewLedger()
	ledger.AppendCashMovement(NewDeposit(date.New(2025, time.January, 10), "", M(10_000, "USD")))
	ledger.AppendTrade(NewBuy(date.New(2025, time.January, 15), "", "ABC", Q(10), M(100, "USD")))
	ledger.AppendDividend(NewDividendPayment(date.New(2025, time.February, 1), "", "ABC", M(5, "USD")))

	cash := M(0, "USD").Add(ledger.CashFlow())
	require.True(t, cash.Equal(M(9_005, "USD")), "cash = %s", cash)

	report, err := NewOverview(ledger, mapResolver(map[string]float64{"ABC": 110}), cash)
	require.NoError(t, err)
	require.Empty(t, report.Warnings)
	require.Len(t, report.Rows, 1)

	row := report.Rows[0]
	require.Equal(t, "ABC", row.Ticker)
	require.True(t, row.Quantity.Equal(Q(10)))
	require.True(t, row.AvgCost.Equal(M(100, "USD")), "AvgCost = %s", row.AvgCost)
	require.True(t, row.LastPrice.Equal(M(110, "USD")))
	require.True(t, row.TradeValue.Equal(M(1_000, "USD")))
	require.True(t, row.CurrentValue.Equal(M(1_100, "USD")))
	require.True(t, row.Dividends.Equal(M(5, "USD")))
	require.True(t, row.Return.Equal(M(105, "USD")), "Return = %s", row.Return)

	require.True(t, report.TotalSecurityValue.Equal(M(1_100, "USD")))
	require.True(t, report.TotalPortfolioValue.Equal(M(10_105, "USD")))
	require.True(t, report.TotalReturn.Equal(M(105, "USD")), "TotalReturn = %s", report.TotalReturn)
}

func TestNewOverview_PlaceholderRowWhenNothingHeld(t *testing.T) {
	ledger := NewLedger()
	ledger.AppendCashMovement(NewDeposit(date.New(2025, time.January, 10), "", M(500, "USD")))

	report, err := NewOverview(ledger, mapResolver(nil), M(500, "USD"))
	require.NoError(t, err)
	require.Len(t, report.Rows, 1, "an empty overview still carries one zero row")

	row := report.Rows[0]
	require.Empty(t, row.Ticker)
	require.True(t, row.Quantity.IsZero())
	require.True(t, row.CurrentValue.IsZero())
	require.True(t, report.TotalSecurityValue.IsZero())
	require.True(t, report.TotalPortfolioValue.Equal(M(500, "USD")))
	require.True(t, report.TotalReturn.IsZero(), "TotalReturn = %s", report.TotalReturn)
}

func TestNewOverview_OverSoldTickerWarnsAndDrops(t *testing.T) {
	// Buy 10, sell 15: net quantity is -5.
	ledger := NewLedger()
	ledger.AppendTrade(NewBuy(date.New(2025, time.January, 15), "", "ABC", Q(10), M(100, "USD")))
	ledger.AppendTrade(NewSell(date.New(2025, time.February, 1), "", "ABC", Q(15), M(100, "USD")))
	ledger.AppendTrade(NewBuy(date.New(2025, time.January, 20), "", "DEF", Q(2), M(50, "USD")))

	report, err := NewOverview(ledger, mapResolver(map[string]float64{"ABC": 100, "DEF": 60}), M(0, "USD"))
	require.NoError(t, err)
	require.Len(t, report.Warnings, 1)
	require.Contains(t, report.Warnings[0], "ABC")
	require.Len(t, report.Rows, 1, "the over-sold ticker is reported, then filtered")
	require.Equal(t, "DEF", report.Rows[0].Ticker)
}

func TestNewOverview_ResolverFailureIsFatal(t *testing.T) {
	ledger := NewLedger()
	ledger.AppendTrade(NewBuy(date.New(2025, time.January, 15), "", "ABC", Q(10), M(100, "USD")))

	_, err := NewOverview(ledger, mapResolver(nil), M(0, "USD"))
	require.ErrorIs(t, err, ErrUnknownTicker)
}

func TestNewPositions_IncludesClosedAndSorts(t *testing.T) {
	ledger := NewLedger()
	// GONE is fully closed, BIG and SMALL are held.
	ledger.AppendTrade(NewBuy(date.New(2025, time.January, 10), "", "GONE", Q(5), M(40, "USD")))
	ledger.AppendTrade(NewSell(date.New(2025, time.February, 10), "", "GONE", Q(5), M(44, "USD")))
	ledger.AppendTrade(NewBuy(date.New(2025, time.January, 11), "", "SMALL", Q(2), M(30, "USD")))
	ledger.AppendTrade(NewBuy(date.New(2025, time.January, 12), "", "BIG", Q(10), M(100, "USD")))
	ledger.AppendDividend(NewDividendPayment(date.New(2025, time.March, 1), "", "GONE", M(3, "USD")))

	resolve := mapResolver(map[string]float64{"GONE": 50, "SMALL": 35, "BIG": 110})
	report, err := NewPositions(ledger, resolve, "USD")
	require.NoError(t, err)
	require.Empty(t, report.Warnings)
	require.Len(t, report.Rows, 3)

	// Ordered by current value descending: BIG (1100), SMALL (70), GONE (0).
	require.Equal(t, "BIG", report.Rows[0].Ticker)
	require.Equal(t, "SMALL", report.Rows[1].Ticker)
	require.Equal(t, "GONE", report.Rows[2].Ticker)

	gone := report.Rows[2]
	require.True(t, gone.Quantity.IsZero())
	require.True(t, gone.Bought.Equal(Q(5)))
	require.True(t, gone.Sold.Equal(Q(5)))
	require.True(t, gone.Invested.Equal(M(200, "USD")))
	require.True(t, gone.Divested.Equal(M(220, "USD")))
	require.True(t, gone.CurrentValue.IsZero())
	// Return of the closed position: 0 - (200-220) + 3.
	require.True(t, gone.Return.Equal(M(23, "USD")), "Return = %s", gone.Return)
}

func TestNewPositions_ClosedPositionPriceFailureDegrades(t *testing.T) {
	ledger := NewLedger()
	ledger.AppendTrade(NewBuy(date.New(2025, time.January, 10), "", "GONE", Q(5), M(40, "USD")))
	ledger.AppendTrade(NewSell(date.New(2025, time.February, 10), "", "GONE", Q(5), M(44, "USD")))
	ledger.AppendTrade(NewBuy(date.New(2025, time.January, 12), "", "HELD", Q(1), M(10, "USD")))

	// Only the held ticker resolves: the closed one degrades to a warning.
	report, err := NewPositions(ledger, mapResolver(map[string]float64{"HELD": 12}), "USD")
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)
	require.Len(t, report.Warnings, 1)
	require.Contains(t, report.Warnings[0], "GONE")

	// A held ticker that cannot be priced is fatal.
	_, err = NewPositions(ledger, mapResolver(map[string]float64{"GONE": 50}), "USD")
	require.ErrorIs(t, err, ErrUnknownTicker)
}
