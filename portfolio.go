package portfolio

import (
	"fmt"
	"sync"

	"github.com/MisterReally/portfolios-1/date"
	"github.com/rs/zerolog"
)

// Portfolio orchestrates ledger mutation and reporting. It owns the ledger,
// the cash balance, and the set of currently held instruments: a ticker is
// in the held map only while its net quantity is strictly positive; once a
// sell drives it to zero or below the instrument is evicted, while its
// trades and dividends remain in the ledger for full-history reporting.
//
// All entry points share one mutex, so concurrent callers get one writer at
// a time and every report sees a consistent snapshot of ledger and prices.
type Portfolio struct {
	mu sync.Mutex

	name   string
	cfg    Config
	window date.Range // instrument loading range, resolved from cfg
	source PriceSource

	ledger *Ledger
	held   map[string]*Instrument
	cash   Money

	log zerolog.Logger
}

// New creates an empty portfolio backed by the given price source.
func New(name string, source PriceSource, cfg Config) (*Portfolio, error) {
	window, err := cfg.Range()
	if err != nil {
		return nil, err
	}
	return &Portfolio{
		name:   name,
		cfg:    cfg,
		window: window,
		source: source,
		ledger: NewLedger(),
		held:   make(map[string]*Instrument),
		cash:   M(0, cfg.Currency),
		log:    zerolog.Nop(),
	}, nil
}

// NewFromLedger rebuilds a portfolio from an existing ledger: the cash
// balance is refolded from the event logs and an instrument is loaded for
// every ticker still held.
func NewFromLedger(name string, source PriceSource, cfg Config, ledger *Ledger) (*Portfolio, error) {
	p, err := New(name, source, cfg)
	if err != nil {
		return nil, err
	}
	p.ledger = ledger
	p.cash = M(0, cfg.Currency).Add(ledger.CashFlow())
	for _, ticker := range ledger.Tickers() {
		if !ledger.NetQuantity(ticker).IsPositive() {
			continue
		}
		inst, err := LoadInstrument(source, ticker, p.window)
		if err != nil {
			return nil, fmt.Errorf("rebuilding %q: %w", name, err)
		}
		p.held[ticker] = inst
	}
	return p, nil
}

// SetLogger replaces the portfolio's logger (a no-op logger by default).
func (p *Portfolio) SetLogger(log zerolog.Logger) { p.log = log }

// Name returns the portfolio's display name.
func (p *Portfolio) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.name
}

// Rename changes the portfolio's display name.
func (p *Portfolio) Rename(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.name = name
}

// CashBalance returns the current cash balance. It may be negative.
func (p *Portfolio) CashBalance() Money {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cash
}

// Ledger exposes the underlying event log for read-only uses such as
// persistence and listings.
func (p *Portfolio) Ledger() *Ledger {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ledger
}

// Instrument returns the held instrument for ticker, if any.
func (p *Portfolio) Instrument(ticker string) (*Instrument, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	inst, ok := p.held[ticker]
	return inst, ok
}

// DepositCash records a cash inflow and credits the balance.
func (p *Portfolio) DepositCash(day date.Date, amount Money) error {
	if !amount.IsPositive() {
		return fmt.Errorf("deposit amount must be positive, got %s", amount)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	e := NewDeposit(day, "", amount)
	p.ledger.AppendCashMovement(e)
	p.cash = p.cash.Add(e.CashFlow())
	p.log.Info().Stringer("balance", p.cash).Msg("cash deposited")
	return nil
}

// WithdrawCash records a cash outflow and debits the balance. The balance is
// allowed to go negative: it is reported, never blocked.
func (p *Portfolio) WithdrawCash(day date.Date, amount Money) error {
	if !amount.IsPositive() {
		return fmt.Errorf("withdrawal amount must be positive, got %s", amount)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	e := NewWithdrawal(day, "", amount)
	p.ledger.AppendCashMovement(e)
	p.cash = p.cash.Add(e.CashFlow())
	if p.cash.IsNegative() {
		p.log.Warn().Stringer("balance", p.cash).Msg("cash balance negative")
	} else {
		p.log.Info().Stringer("balance", p.cash).Msg("cash withdrawn")
	}
	return nil
}

// Buy records a purchase. The first buy of a new ticker loads its instrument
// from the price source; a load failure fails the buy. A zero price means
// "resolve from the instrument's close on day", which fails with
// ErrNoPriceBeforeDate when the series starts later.
func (p *Portfolio) Buy(day date.Date, ticker string, quantity Quantity, price Money) error {
	if !quantity.IsPositive() {
		return fmt.Errorf("buy quantity must be positive, got %s", quantity)
	}
	if price.IsNegative() {
		return fmt.Errorf("buy price must not be negative, got %s", price)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	inst, ok := p.held[ticker]
	if !ok {
		loaded, err := LoadInstrument(p.source, ticker, p.window)
		if err != nil {
			return fmt.Errorf("cannot buy %s: %w", ticker, err)
		}
		inst = loaded
		p.held[ticker] = inst
		p.log.Info().Str("ticker", ticker).Msg("instrument added")
	}

	price, err := p.resolvePrice(inst, day, price)
	if err != nil {
		return fmt.Errorf("cannot buy %s: %w", ticker, err)
	}

	e := NewBuy(day, "", ticker, quantity, price)
	p.ledger.AppendTrade(e)
	p.cash = p.cash.Add(e.CashFlow())
	return nil
}

// Sell records a sale and credits the proceeds. Selling a ticker that was
// never traded and is not held fails with ErrUnknownTicker; over-selling a
// known ticker is recorded, not blocked. When the resulting net quantity
// drops to zero or below, the instrument is evicted from the held map.
func (p *Portfolio) Sell(day date.Date, ticker string, quantity Quantity, price Money) error {
	if !quantity.IsPositive() {
		return fmt.Errorf("sell quantity must be positive, got %s", quantity)
	}
	if price.IsNegative() {
		return fmt.Errorf("sell price must not be negative, got %s", price)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	inst, ok := p.held[ticker]
	if !ok && !p.ledger.HasTraded(ticker) {
		return fmt.Errorf("cannot sell %s: %w", ticker, ErrUnknownTicker)
	}

	if price.IsZero() {
		if inst == nil {
			// Closed position sold again: price the trade off a fresh series
			// without re-entering the held map.
			loaded, err := LoadInstrument(p.source, ticker, p.window)
			if err != nil {
				return fmt.Errorf("cannot sell %s: %w", ticker, err)
			}
			inst = loaded
		}
		resolved, err := p.resolvePrice(inst, day, price)
		if err != nil {
			return fmt.Errorf("cannot sell %s: %w", ticker, err)
		}
		price = resolved
	}

	e := NewSell(day, "", ticker, quantity, price)
	p.ledger.AppendTrade(e)
	p.cash = p.cash.Add(e.CashFlow())

	if !p.ledger.NetQuantity(ticker).IsPositive() {
		delete(p.held, ticker)
		p.log.Info().Str("ticker", ticker).Msg("instrument evicted")
	}
	return nil
}

// Dividend records a dividend of perShare × quantity for a ticker and
// credits the cash balance. The quantity is not validated against holdings;
// only a ticker with no holding and no trade history is rejected.
func (p *Portfolio) Dividend(day date.Date, ticker string, quantity Quantity, perShare Money) error {
	if !perShare.IsPositive() || !quantity.IsPositive() {
		return fmt.Errorf("dividend must have positive quantity and per-share amount")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.held[ticker]; !ok && !p.ledger.HasTraded(ticker) {
		return fmt.Errorf("cannot record dividend for %s: %w", ticker, ErrUnknownTicker)
	}

	e := NewDividendPayment(day, "", ticker, perShare.Mul(quantity))
	p.ledger.AppendDividend(e)
	p.cash = p.cash.Add(e.CashFlow())
	return nil
}

// Overview reports on currently held positions. The lock is held across the
// whole aggregation pass, so the rows and totals form a consistent snapshot.
func (p *Portfolio) Overview() (*OverviewReport, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	report, err := NewOverview(p.ledger, p.resolveLast, p.cash)
	if err != nil {
		return nil, err
	}
	p.warn(report.Warnings)
	return report, nil
}

// Positions reports on every ticker ever traded, closed positions included.
func (p *Portfolio) Positions() (*PositionsReport, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	report, err := NewPositions(p.ledger, p.resolveLast, p.cfg.Currency)
	if err != nil {
		return nil, err
	}
	p.warn(report.Warnings)
	return report, nil
}

// resolveLast is the PriceResolver handed to the aggregator: held tickers
// answer from their loaded series; closed positions trigger an on-demand
// fetch solely to obtain a last price, without re-entering the held map.
func (p *Portfolio) resolveLast(ticker string) (float64, error) {
	if inst, ok := p.held[ticker]; ok {
		return inst.Last(), nil
	}
	inst, err := LoadInstrument(p.source, ticker, p.window)
	if err != nil {
		return 0, err
	}
	return inst.Last(), nil
}

// resolvePrice returns the explicit price when given, or falls back to the
// instrument's close on the trade date.
func (p *Portfolio) resolvePrice(inst *Instrument, day date.Date, price Money) (Money, error) {
	if !price.IsZero() {
		return price, nil
	}
	close, err := inst.PriceAt(day)
	if err != nil {
		return Money{}, err
	}
	return M(close, p.cfg.Currency), nil
}

func (p *Portfolio) warn(warnings []string) {
	for _, w := range warnings {
		p.log.Warn().Str("portfolio", p.name).Msg(w)
	}
}
