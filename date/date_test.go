package date

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2025-01-10", want: New(2025, time.January, 10)},
		{in: "2025-1-9", want: New(2025, time.January, 9)},
		{in: "2024-02-29", want: New(2024, time.February, 29)},
		{in: "not-a-date", wantErr: true},
		{in: "2025/01/10", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := Parse(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Parse(%q) expected an error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Parse(%q) unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNew_normalizes(t *testing.T) {
	// Day 0 is the last day of the previous month.
	got := New(2025, time.March, 0)
	want := New(2025, time.February, 28)
	if got != want {
		t.Errorf("New(2025, March, 0) = %v, want %v", got, want)
	}
}

func TestDate_Ordering(t *testing.T) {
	a := MustParse("2025-01-10")
	b := MustParse("2025-01-11")
	if !a.Before(b) || b.Before(a) {
		t.Errorf("expected %v before %v", a, b)
	}
	if !b.After(a) || a.After(b) {
		t.Errorf("expected %v after %v", b, a)
	}
	if a.Add(1) != b {
		t.Errorf("%v.Add(1) = %v, want %v", a, a.Add(1), b)
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	in := MustParse("2025-08-29")
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2025-08-29"` {
		t.Errorf("marshal = %s, want %q", data, "2025-08-29")
	}
	var out Date
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %v, want %v", out, in)
	}
}

func TestRange_Contains(t *testing.T) {
	r := NewRange(MustParse("2025-01-01"), MustParse("2025-01-31"))
	for _, d := range []string{"2025-01-01", "2025-01-15", "2025-01-31"} {
		if !r.Contains(MustParse(d)) {
			t.Errorf("expected %s in %v", d, r)
		}
	}
	for _, d := range []string{"2024-12-31", "2025-02-01"} {
		if r.Contains(MustParse(d)) {
			t.Errorf("expected %s not in %v", d, r)
		}
	}
}
