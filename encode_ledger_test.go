package portfolio

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/MisterReally/portfolios-1/date"
)

func TestEncodeDecodeLedger_RoundTrip(t *testing.T) {
	ledger := setupLedger(t)

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, ledger); err != nil {
		t.Fatalf("EncodeLedger() failed: %v", err)
	}

	decoded, err := DecodeLedger(&buf)
	if err != nil {
		t.Fatalf("DecodeLedger() failed: %v", err)
	}
	if decoded.Len() != ledger.Len() {
		t.Fatalf("decoded %d events, want %d", decoded.Len(), ledger.Len())
	}

	want := make([]Event, 0, ledger.Len())
	for e := range ledger.Events() {
		want = append(want, e)
	}
	i := 0
	for e := range decoded.Events() {
		if !e.Equal(want[i]) {
			t.Errorf("event %d = %+v, want %+v", i, e, want[i])
		}
		i++
	}
}

func TestEncodeEvent_StableKeys(t *testing.T) {
	// Keys must come out in a fixed order so the ledger file diffs cleanly.
	testCases := []struct {
		name  string
		event Event
		want  string
	}{
		{
			name:  "deposit",
			event: NewDeposit(date.New(2025, time.January, 10), "funding", M(1000, "USD")),
			want:  `{"event":"cash","date":"2025-01-10","memo":"funding","in":1000,"out":0,"currency":"USD"}`,
		},
		{
			name:  "buy",
			event: NewBuy(date.New(2025, time.January, 15), "", "ABC", Q(10), M(100, "USD")),
			want:  `{"event":"trade","date":"2025-01-15","ticker":"ABC","quantity":10,"price":100,"value":1000,"currency":"USD"}`,
		},
		{
			name:  "sell",
			event: NewSell(date.New(2025, time.March, 1), "", "XYZ", Q(4), M(60, "USD")),
			want:  `{"event":"trade","date":"2025-03-01","ticker":"XYZ","quantity":-4,"price":60,"value":-240,"currency":"USD"}`,
		},
		{
			name:  "dividend",
			event: NewDividendPayment(date.New(2025, time.February, 20), "", "ABC", M(5, "USD")),
			want:  `{"event":"dividend","date":"2025-02-20","ticker":"ABC","currency":"USD","amount":5}`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := EncodeEvent(&buf, tc.event); err != nil {
				t.Fatalf("EncodeEvent() failed: %v", err)
			}
			if got := strings.TrimSpace(buf.String()); got != tc.want {
				t.Errorf("EncodeEvent() = %s\nwant           %s", got, tc.want)
			}
		})
	}
}

func TestDecodeLedger_SkipsEmptyLinesAndSorts(t *testing.T) {
	input := `{"event":"trade","date":"2025-03-01","ticker":"ABC","quantity":-1,"price":60,"value":-60,"currency":"USD"}

{"event":"cash","date":"2025-01-10","in":1000,"out":0,"currency":"USD"}
`
	ledger, err := DecodeLedger(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeLedger() failed: %v", err)
	}
	if ledger.Len() != 2 {
		t.Fatalf("decoded %d events, want 2", ledger.Len())
	}
	if got := ledger.OldestEventDate(); got != date.New(2025, time.January, 10) {
		t.Errorf("OldestEventDate() = %s, want 2025-01-10", got)
	}
}

func TestDecodeLedger_RejectsUnknownKind(t *testing.T) {
	_, err := DecodeLedger(strings.NewReader(`{"event":"split","date":"2025-01-10"}`))
	if err == nil {
		t.Fatal("DecodeLedger() accepted an unknown event kind")
	}
}
