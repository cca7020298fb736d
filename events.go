package portfolio

import (
	"github.com/MisterReally/portfolios-1/date"
)

// EventType is a typed string identifying the kind of a ledger event.
type EventType string

// Event kinds recorded in the ledger.
const (
	EventCash     EventType = "cash"
	EventTrade    EventType = "trade"
	EventDividend EventType = "dividend"
)

// Event is the common interface of all ledger events. Events are immutable
// values: once appended to a ledger they are never edited or removed.
type Event interface {
	What() EventType // What returns the kind of the event.
	When() date.Date // When returns the date on which the event occurred.
	Equal(Event) bool
	// CashFlow returns the signed net effect of the event on the cash
	// balance: positive for inflows, negative for outflows.
	CashFlow() Money
}

type baseEvent struct {
	Kind EventType `json:"event"`          // Kind specifies the type of event (e.g., "trade").
	Date date.Date `json:"date"`           // Date is the day the event took place.
	Memo string    `json:"memo,omitempty"` // Memo provides an optional note for the event.
}

func (e baseEvent) What() EventType { return e.Kind }
func (e baseEvent) When() date.Date { return e.Date }

// MarshalJSON implements the json.Marshaler interface for baseEvent.
func (e baseEvent) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("event", e.Kind)
	w.Append("date", e.Date)
	w.Optional("memo", e.Memo)
	return w.MarshalJSON()
}

// CashMovement records a cash deposit or withdrawal. Exactly one of In/Out
// is nonzero per event, so net and gross flows stay separately queryable.
type CashMovement struct {
	baseEvent
	In  Money // In is the amount deposited (zero for withdrawals).
	Out Money // Out is the amount withdrawn (zero for deposits).
}

// NewDeposit creates a CashMovement recording a cash inflow.
func NewDeposit(day date.Date, memo string, amount Money) CashMovement {
	return CashMovement{
		baseEvent: baseEvent{Kind: EventCash, Date: day, Memo: memo},
		In:        amount,
		Out:       M(0, amount.Currency()),
	}
}

// NewWithdrawal creates a CashMovement recording a cash outflow.
func NewWithdrawal(day date.Date, memo string, amount Money) CashMovement {
	return CashMovement{
		baseEvent: baseEvent{Kind: EventCash, Date: day, Memo: memo},
		In:        M(0, amount.Currency()),
		Out:       amount,
	}
}

func (e CashMovement) CashFlow() Money { return e.In.Sub(e.Out) }

func (e CashMovement) Equal(other Event) bool {
	o, ok := other.(CashMovement)
	return ok && e.baseEvent == o.baseEvent && e.In.Equal(o.In) && e.Out.Equal(o.Out)
}

// MarshalJSON implements the json.Marshaler interface for CashMovement.
func (e CashMovement) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.baseEvent)
	w.Append("in", e.In.value)
	w.Append("out", e.Out.value)
	w.Optional("currency", e.In.Currency())
	return w.MarshalJSON()
}

// Trade records a buy or a sell of a security. Quantity is signed, positive
// for buys and negative for sells, and Value is always Price × Quantity
// (negative for sells). Price must be resolved before the event is built.
type Trade struct {
	baseEvent
	Ticker   string   // Ticker is the symbol of the traded security.
	Quantity Quantity // Quantity is the signed number of units traded.
	Price    Money    // Price is the unit price, never negative.
	Value    Money    // Value is Price × Quantity.
}

// NewBuy creates a Trade with a positive quantity.
func NewBuy(day date.Date, memo, ticker string, quantity Quantity, price Money) Trade {
	return newTrade(day, memo, ticker, quantity.Abs(), price)
}

// NewSell creates a Trade with a negative quantity.
func NewSell(day date.Date, memo, ticker string, quantity Quantity, price Money) Trade {
	return newTrade(day, memo, ticker, quantity.Abs().Neg(), price)
}

func newTrade(day date.Date, memo, ticker string, quantity Quantity, price Money) Trade {
	return Trade{
		baseEvent: baseEvent{Kind: EventTrade, Date: day, Memo: memo},
		Ticker:    ticker,
		Quantity:  quantity,
		Price:     price,
		Value:     price.Mul(quantity),
	}
}

// IsBuy reports whether the trade increases the position.
func (e Trade) IsBuy() bool { return e.Quantity.IsPositive() }

// CashFlow returns the cash effect of the trade: buys consume cash, sells
// produce it, which is the negated trade value given the sign convention.
func (e Trade) CashFlow() Money { return e.Value.Neg() }

func (e Trade) Equal(other Event) bool {
	o, ok := other.(Trade)
	return ok && e.baseEvent == o.baseEvent && e.Ticker == o.Ticker &&
		e.Quantity.Equal(o.Quantity) && e.Price.Equal(o.Price) && e.Value.Equal(o.Value)
}

// MarshalJSON implements the json.Marshaler interface for Trade.
func (e Trade) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.baseEvent)
	w.Append("ticker", e.Ticker)
	w.Append("quantity", e.Quantity)
	w.Append("price", e.Price.value)
	w.Append("value", e.Value.value)
	w.Optional("currency", e.Price.Currency())
	return w.MarshalJSON()
}

// DividendPayment records a cash dividend received for a security. Amount is
// the total received (per-share amount times quantity), always an inflow.
type DividendPayment struct {
	baseEvent
	Ticker string // Ticker is the symbol of the paying security.
	Amount Money  // Amount is the total dividend received.
}

// NewDividendPayment creates a DividendPayment event.
func NewDividendPayment(day date.Date, memo, ticker string, amount Money) DividendPayment {
	return DividendPayment{
		baseEvent: baseEvent{Kind: EventDividend, Date: day, Memo: memo},
		Ticker:    ticker,
		Amount:    amount,
	}
}

func (e DividendPayment) CashFlow() Money { return e.Amount }

func (e DividendPayment) Equal(other Event) bool {
	o, ok := other.(DividendPayment)
	return ok && e.baseEvent == o.baseEvent && e.Ticker == o.Ticker && e.Amount.Equal(o.Amount)
}

// MarshalJSON implements the json.Marshaler interface for DividendPayment.
func (e DividendPayment) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.baseEvent)
	w.Append("ticker", e.Ticker)
	w.EmbedFrom(e.Amount)
	return w.MarshalJSON()
}
