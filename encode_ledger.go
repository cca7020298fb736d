package portfolio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// amountEvent is a specialized struct to read a single money amount split
// over two JSON fields.
type amountEvent struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (a amountEvent) Money() Money { return M(a.Amount, a.Currency) }

// DecodeLedger reads events from a stream of JSONL data, decodes each line
// into the appropriate event struct, and returns a sorted Ledger.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Kind EventType `json:"event"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify event in line %q: %w", string(lineBytes), err)
		}

		switch identifier.Kind {
		case EventCash:
			var temp struct {
				baseEvent
				In       decimal.Decimal `json:"in"`
				Out      decimal.Decimal `json:"out"`
				Currency string          `json:"currency"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			ledger.AppendCashMovement(CashMovement{
				baseEvent: temp.baseEvent,
				In:        M(temp.In, temp.Currency),
				Out:       M(temp.Out, temp.Currency),
			})
		case EventTrade:
			var temp struct {
				baseEvent
				Ticker   string          `json:"ticker"`
				Quantity Quantity        `json:"quantity"`
				Price    decimal.Decimal `json:"price"`
				Value    decimal.Decimal `json:"value"`
				Currency string          `json:"currency"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			ledger.AppendTrade(Trade{
				baseEvent: temp.baseEvent,
				Ticker:    temp.Ticker,
				Quantity:  temp.Quantity,
				Price:     M(temp.Price, temp.Currency),
				Value:     M(temp.Value, temp.Currency),
			})
		case EventDividend:
			var temp struct {
				baseEvent
				amountEvent
				Ticker string `json:"ticker"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			ledger.AppendDividend(DividendPayment{
				baseEvent: temp.baseEvent,
				Ticker:    temp.Ticker,
				Amount:    temp.Money(),
			})
		default:
			return nil, fmt.Errorf("unknown event kind: %q", identifier.Kind)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return ledger, nil
}

// EncodeEvent marshals a single event to JSON and writes it to the writer,
// followed by a newline, in JSONL format.
func EncodeEvent(w io.Writer, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

// EncodeLedger persists all events of a ledger to an io.Writer in JSONL
// format, merged in chronological order for a canonical, diff-friendly file.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	for e := range ledger.Events() {
		if err := EncodeEvent(w, e); err != nil {
			return err
		}
	}
	return nil
}
