package date

import (
	"slices"
	"testing"
)

func TestAppend(t *testing.T) {
	h := new(History[string])
	d1, v1 := New(2025, 07, 01), "25 Jul 1"
	d2, v2 := New(2024, 07, 01), "24 Jul 1"

	// Test is about appending two values in reverse order and checking that everything is
	// as expected at every step of the way.

	if h.Len() != 0 {
		t.Errorf("History.Len() = %v want 0", h.Len())
	}

	h.Append(d1, v1)
	if h.Len() != 1 {
		t.Errorf("Append(d1, v1).Len() = %v want 1", h.Len())
	}

	h.Append(d2, v2)
	if h.Len() != 2 {
		t.Errorf("Append(d2, v2).Len() = %v want 2", h.Len())
	}

	if h.days[1] != d1 {
		t.Errorf("history[1].day = %v want %v", h.days[1], d1)
	}
	if h.days[0] != d2 {
		t.Errorf("history[0].day = %v want %v", h.days[0], d2)
	}
	if h.values[1] != v1 {
		t.Errorf("history[1].value = %v want %v", h.values[1], v1)
	}
	if h.values[0] != v2 {
		t.Errorf("history[0].value = %v want %v", h.values[0], v2)
	}

	// last write wins
	h.Append(d1, "overwritten")
	if got, _ := h.Get(d1); got != "overwritten" || h.Len() != 2 {
		t.Errorf("Append(d1, overwritten) = %q (len %d), want %q (len 2)", got, h.Len(), "overwritten")
	}
}

func TestMerge(t *testing.T) {
	h := new(History[int])
	add := func(a, b int) int { return a + b }
	h.Merge(MustParse("2024-01-03"), 5, add)
	h.Merge(MustParse("2024-01-01"), 1, add)
	h.Merge(MustParse("2024-01-03"), -2, add)

	want := []int{1, 3}
	var got []int
	for _, v := range h.Values() {
		got = append(got, v)
	}
	if !slices.Equal(got, want) {
		t.Errorf("Values() = %v, want %v", got, want)
	}
}

func TestValueAsOf(t *testing.T) {
	h := new(History[float64])
	h.Append(MustParse("2024-01-02"), 2)
	h.Append(MustParse("2024-01-05"), 5)

	testCases := []struct {
		on     string
		want   float64
		wantOK bool
	}{
		{"2024-01-01", 0, false},
		{"2024-01-02", 2, true},
		{"2024-01-04", 2, true},
		{"2024-01-05", 5, true},
		{"2024-02-01", 5, true},
	}
	for _, tc := range testCases {
		t.Run(tc.on, func(t *testing.T) {
			got, ok := h.ValueAsOf(MustParse(tc.on))
			if got != tc.want || ok != tc.wantOK {
				t.Errorf("ValueAsOf(%s) = %v, %v want %v, %v", tc.on, got, ok, tc.want, tc.wantOK)
			}
		})
	}

	if first, v := h.First(); first != MustParse("2024-01-02") || v != 2 {
		t.Errorf("First() = %v, %v", first, v)
	}
	if last, v := h.Latest(); last != MustParse("2024-01-05") || v != 5 {
		t.Errorf("Latest() = %v, %v", last, v)
	}
}

func TestIterate(t *testing.T) {
	a, b := new(History[int]), new(History[int])
	a.Append(MustParse("2024-01-03"), 0).Append(MustParse("2024-01-01"), 0)
	b.Append(MustParse("2024-01-03"), 0).Append(MustParse("2024-01-02"), 0)

	want := []Date{MustParse("2024-01-01"), MustParse("2024-01-02"), MustParse("2024-01-03")}
	if got := slices.Collect(Iterate(a, b)); !slices.Equal(got, want) {
		t.Errorf("Iterate() = %v, want %v", got, want)
	}
}
