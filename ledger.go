package portfolio

import (
	"iter"
	"slices"
	"sort"

	"github.com/MisterReally/portfolios-1/date"
)

// Ledger is the system of record: three append-only event logs (cash
// movements, trades, dividend payments), each kept in chronological order.
//
// The Ledger is a passive log. It never validates an event against current
// holdings at append time, and it never maintains a running balance: every
// derived figure is a pure fold over the raw event sequences, recomputed on
// demand. Cash-balance bookkeeping belongs to the caller.
type Ledger struct {
	cash      []CashMovement
	trades    []Trade
	dividends []DividendPayment
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		cash:      make([]CashMovement, 0),
		trades:    make([]Trade, 0),
		dividends: make([]DividendPayment, 0),
	}
}

// AppendCashMovement appends a cash event and keeps the log sorted.
func (l *Ledger) AppendCashMovement(e CashMovement) {
	l.cash = append(l.cash, e)
	stableSortByDate(l.cash)
}

// AppendTrade appends a trade event and keeps the log sorted.
func (l *Ledger) AppendTrade(e Trade) {
	l.trades = append(l.trades, e)
	stableSortByDate(l.trades)
}

// AppendDividend appends a dividend event and keeps the log sorted.
func (l *Ledger) AppendDividend(e DividendPayment) {
	l.dividends = append(l.dividends, e)
	stableSortByDate(l.dividends)
}

// stableSortByDate sorts a log by event date. The sort is stable, so events
// on the same day keep their original relative order.
func stableSortByDate[E Event](events []E) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].When().Before(events[j].When())
	})
}

// Len returns the total number of events across all three logs.
func (l *Ledger) Len() int { return len(l.cash) + len(l.trades) + len(l.dividends) }

// CashMovements returns an iterator over cash events in chronological order.
func (l *Ledger) CashMovements() iter.Seq[CashMovement] {
	return func(yield func(CashMovement) bool) {
		for _, e := range l.cash {
			if !yield(e) {
				return
			}
		}
	}
}

// Trades returns an iterator over trade events in chronological order.
func (l *Ledger) Trades() iter.Seq[Trade] {
	return func(yield func(Trade) bool) {
		for _, e := range l.trades {
			if !yield(e) {
				return
			}
		}
	}
}

// Dividends returns an iterator over dividend events in chronological order.
func (l *Ledger) Dividends() iter.Seq[DividendPayment] {
	return func(yield func(DividendPayment) bool) {
		for _, e := range l.dividends {
			if !yield(e) {
				return
			}
		}
	}
}

// Events returns all events of the three logs merged in chronological order.
// Events on the same day are ordered cash, then trades, then dividends.
func (l *Ledger) Events() iter.Seq[Event] {
	merged := make([]Event, 0, l.Len())
	for _, e := range l.cash {
		merged = append(merged, e)
	}
	for _, e := range l.trades {
		merged = append(merged, e)
	}
	for _, e := range l.dividends {
		merged = append(merged, e)
	}
	stableSortByDate(merged)
	return func(yield func(Event) bool) {
		for _, e := range merged {
			if !yield(e) {
				return
			}
		}
	}
}

// OldestEventDate returns the date of the earliest event in the ledger, or
// the zero date if the ledger is empty.
func (l *Ledger) OldestEventDate() date.Date {
	var oldest date.Date
	for e := range l.Events() {
		return e.When()
	}
	return oldest
}

// NetQuantity returns the signed sum of trade quantities for a ticker:
// buys count positive, sells negative. A ticker is "held" when the result
// is strictly positive.
func (l *Ledger) NetQuantity(ticker string) Quantity {
	var net Quantity
	for _, e := range l.trades {
		if e.Ticker == ticker {
			net = net.Add(e.Quantity)
		}
	}
	return net
}

// NetTradeValue returns the signed sum of trade values for a ticker
// (invested minus divested).
func (l *Ledger) NetTradeValue(ticker string) Money {
	net := M(0, "")
	for _, e := range l.trades {
		if e.Ticker == ticker {
			net = net.Add(e.Value)
		}
	}
	return net
}

// Bought returns the gross quantity bought for a ticker.
func (l *Ledger) Bought(ticker string) Quantity {
	var total Quantity
	for _, e := range l.trades {
		if e.Ticker == ticker && e.Quantity.IsPositive() {
			total = total.Add(e.Quantity)
		}
	}
	return total
}

// Sold returns the gross quantity sold for a ticker, as a positive number.
func (l *Ledger) Sold(ticker string) Quantity {
	var total Quantity
	for _, e := range l.trades {
		if e.Ticker == ticker && e.Quantity.IsNegative() {
			total = total.Sub(e.Quantity)
		}
	}
	return total
}

// Invested returns the total value of buy trades for a ticker.
func (l *Ledger) Invested(ticker string) Money {
	total := M(0, "")
	for _, e := range l.trades {
		if e.Ticker == ticker && e.Quantity.IsPositive() {
			total = total.Add(e.Value)
		}
	}
	return total
}

// Divested returns the total value of sell trades for a ticker, as a
// positive number.
func (l *Ledger) Divested(ticker string) Money {
	total := M(0, "")
	for _, e := range l.trades {
		if e.Ticker == ticker && e.Quantity.IsNegative() {
			total = total.Sub(e.Value)
		}
	}
	return total
}

// TotalDividends returns the sum of dividend amounts received for a ticker.
func (l *Ledger) TotalDividends(ticker string) Money {
	total := M(0, "")
	for _, e := range l.dividends {
		if e.Ticker == ticker {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// TotalDeposited returns the sum of all cash deposited, gross of withdrawals.
func (l *Ledger) TotalDeposited() Money {
	total := M(0, "")
	for _, e := range l.cash {
		total = total.Add(e.In)
	}
	return total
}

// TotalWithdrawn returns the sum of all cash withdrawn.
func (l *Ledger) TotalWithdrawn() Money {
	total := M(0, "")
	for _, e := range l.cash {
		total = total.Add(e.Out)
	}
	return total
}

// CashFlow folds the three logs into the net cash balance: deposits minus
// withdrawals, minus the value of buys, plus the proceeds of sells, plus
// dividends. This is the only definition of the cash balance; it is never
// maintained incrementally by the ledger.
func (l *Ledger) CashFlow() Money {
	total := M(0, "")
	for e := range l.Events() {
		total = total.Add(e.CashFlow())
	}
	return total
}

// HasTraded reports whether the ticker appears in any trade event.
func (l *Ledger) HasTraded(ticker string) bool {
	for _, e := range l.trades {
		if e.Ticker == ticker {
			return true
		}
	}
	return false
}

// Tickers returns the sorted list of every ticker that has ever appeared in
// a trade, closed positions included.
func (l *Ledger) Tickers() []string {
	seen := make(map[string]struct{})
	for _, e := range l.trades {
		seen[e.Ticker] = struct{}{}
	}
	tickers := make([]string, 0, len(seen))
	for t := range seen {
		tickers = append(tickers, t)
	}
	slices.Sort(tickers)
	return tickers
}
