package date

import "testing"

func seed(days ...string) *History[float64] {
	h := &History[float64]{}
	for i, d := range days {
		h.Append(MustParse(d), float64(i+1))
	}
	return h
}

func TestHistory_AppendKeepsOrder(t *testing.T) {
	h := &History[float64]{}
	h.Append(MustParse("2025-01-15"), 2)
	h.Append(MustParse("2025-01-10"), 1)
	h.Append(MustParse("2025-01-20"), 3)

	var got []float64
	for _, v := range h.Values() {
		got = append(got, v)
	}
	want := []float64{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("values in order = %v, want %v", got, want)
		}
	}

	first, v := h.First()
	if first != MustParse("2025-01-10") || v != 1 {
		t.Errorf("First() = %v, %v", first, v)
	}
	last, v := h.Latest()
	if last != MustParse("2025-01-20") || v != 3 {
		t.Errorf("Latest() = %v, %v", last, v)
	}
}

func TestHistory_AppendOverwrites(t *testing.T) {
	h := seed("2025-01-10")
	h.Append(MustParse("2025-01-10"), 42)
	if h.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", h.Len())
	}
	if v, ok := h.Get(MustParse("2025-01-10")); !ok || v != 42 {
		t.Errorf("Get() = %v, %v, want 42, true", v, ok)
	}
}

func TestHistory_AsOf(t *testing.T) {
	h := seed("2025-01-10", "2025-01-15", "2025-01-20")

	testCases := []struct {
		name   string
		day    string
		want   float64
		wantOK bool
	}{
		{name: "before series start", day: "2025-01-09", wantOK: false},
		{name: "exact first day", day: "2025-01-10", want: 1, wantOK: true},
		{name: "between points", day: "2025-01-17", want: 2, wantOK: true},
		{name: "exact last day", day: "2025-01-20", want: 3, wantOK: true},
		{name: "after series end", day: "2025-03-01", want: 3, wantOK: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := h.AsOf(MustParse(tc.day))
			if ok != tc.wantOK || got != tc.want {
				t.Errorf("AsOf(%s) = %v, %v, want %v, %v", tc.day, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}
