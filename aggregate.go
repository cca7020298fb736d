package portfolio

import (
	"fmt"
	"sort"
)

// PriceResolver resolves the latest known close for a ticker. Aggregation
// stays a pure function of the ledger by taking price lookup as an input;
// the Portfolio provides a resolver backed by its held instruments, with an
// on-demand fetch for closed positions.
type PriceResolver func(ticker string) (float64, error)

// OverviewRow is one currently held position in the overview report.
type OverviewRow struct {
	Ticker       string
	Quantity     Quantity // net quantity held
	AvgCost      Money    // net trade value / net quantity
	LastPrice    Money
	TradeValue   Money // net of buys and sells
	CurrentValue Money // last price × quantity
	Dividends    Money
	Return       Money // CurrentValue − TradeValue + Dividends
}

// OverviewReport is the current-holdings view of the portfolio plus its
// scalar totals. Warnings carry ledger inconsistencies (negative net
// quantities) that were observed but did not abort the report.
type OverviewReport struct {
	Rows                []OverviewRow
	TotalSecurityValue  Money
	Cash                Money
	TotalPortfolioValue Money // TotalSecurityValue + Cash
	TotalReturn         Money // TotalPortfolioValue − all-time deposits
	Warnings            []string
}

// PositionRow is one row of the full-history positions report. Closed
// positions keep their trade and dividend history with a zero current value.
type PositionRow struct {
	Ticker       string
	Quantity     Quantity // net quantity, zero or negative for closed/over-sold
	Bought       Quantity // gross quantity bought
	Sold         Quantity // gross quantity sold, positive
	Invested     Money    // gross value of buys
	Divested     Money    // gross value of sells, positive
	TradeValue   Money    // net of buys and sells
	LastPrice    Money
	CurrentValue Money
	Dividends    Money
	Return       Money // CurrentValue − TradeValue + Dividends
}

// PositionsReport is the full-history view: one row per ticker that has ever
// been traded, ordered by current value then invested value, descending.
type PositionsReport struct {
	Rows     []PositionRow
	Warnings []string
}

// NewOverview computes the overview report: one row per currently held
// ticker (net quantity > 0), fully recomputed from the ledger on every call.
//
// A ticker whose net quantity is negative is reported in Warnings and then
// filtered out, never silently dropped. When nothing is held the report
// contains a single zero-valued placeholder row, so consumers never need to
// distinguish "no positions yet" from "all positions closed".
func NewOverview(ledger *Ledger, resolve PriceResolver, cash Money) (*OverviewReport, error) {
	currency := cash.Currency()
	report := &OverviewReport{
		Cash:               cash,
		TotalSecurityValue: M(0, currency),
	}

	for _, ticker := range ledger.Tickers() {
		quantity := ledger.NetQuantity(ticker)
		if quantity.IsNegative() {
			report.Warnings = append(report.Warnings, negativeQuantityWarning(ticker, quantity))
		}
		if !quantity.IsPositive() {
			continue
		}

		last, err := resolve(ticker)
		if err != nil {
			return nil, fmt.Errorf("overview: cannot price %s: %w", ticker, err)
		}
		lastPrice := M(last, currency)

		tradeValue := ledger.NetTradeValue(ticker)
		currentValue := lastPrice.Mul(quantity)
		dividends := ledger.TotalDividends(ticker)

		report.Rows = append(report.Rows, OverviewRow{
			Ticker:       ticker,
			Quantity:     quantity,
			AvgCost:      tradeValue.Div(quantity),
			LastPrice:    lastPrice,
			TradeValue:   tradeValue,
			CurrentValue: currentValue,
			Dividends:    dividends,
			Return:       currentValue.Sub(tradeValue).Add(dividends),
		})
		report.TotalSecurityValue = report.TotalSecurityValue.Add(currentValue)
	}

	if len(report.Rows) == 0 {
		// Placeholder row instead of an empty report.
		zero := M(0, currency)
		report.Rows = append(report.Rows, OverviewRow{
			AvgCost: zero, LastPrice: zero, TradeValue: zero,
			CurrentValue: zero, Dividends: zero, Return: zero,
		})
	}

	report.TotalPortfolioValue = report.TotalSecurityValue.Add(cash)
	report.TotalReturn = report.TotalPortfolioValue.Sub(ledger.TotalDeposited())
	return report, nil
}

// NewPositions computes the full-history report: one row per ticker ever
// traded, closed positions included with a zero current value.
//
// Price resolution failures for closed positions degrade to a zero last
// price with a warning; the row's current value is zero regardless.
func NewPositions(ledger *Ledger, resolve PriceResolver, currency string) (*PositionsReport, error) {
	report := &PositionsReport{}

	for _, ticker := range ledger.Tickers() {
		quantity := ledger.NetQuantity(ticker)
		if quantity.IsNegative() {
			report.Warnings = append(report.Warnings, negativeQuantityWarning(ticker, quantity))
		}

		last, err := resolve(ticker)
		if err != nil {
			if quantity.IsPositive() {
				return nil, fmt.Errorf("positions: cannot price %s: %w", ticker, err)
			}
			report.Warnings = append(report.Warnings, fmt.Sprintf("no price for closed position %s: %v", ticker, err))
			last = 0
		}
		lastPrice := M(last, currency)

		tradeValue := ledger.NetTradeValue(ticker)
		currentValue := lastPrice.Mul(quantity)
		dividends := ledger.TotalDividends(ticker)

		report.Rows = append(report.Rows, PositionRow{
			Ticker:       ticker,
			Quantity:     quantity,
			Bought:       ledger.Bought(ticker),
			Sold:         ledger.Sold(ticker),
			Invested:     ledger.Invested(ticker),
			Divested:     ledger.Divested(ticker),
			TradeValue:   tradeValue,
			LastPrice:    lastPrice,
			CurrentValue: currentValue,
			Dividends:    dividends,
			Return:       currentValue.Sub(tradeValue).Add(dividends),
		})
	}

	// Largest current value first, invested value breaking ties.
	sort.SliceStable(report.Rows, func(i, j int) bool {
		a, b := report.Rows[i], report.Rows[j]
		if !a.CurrentValue.Equal(b.CurrentValue) {
			return a.CurrentValue.GreaterThan(b.CurrentValue)
		}
		return a.Invested.GreaterThan(b.Invested)
	})
	return report, nil
}

func negativeQuantityWarning(ticker string, q Quantity) string {
	return fmt.Sprintf("negative quantity encountered: %s %s (more sold than bought)", ticker, q)
}
