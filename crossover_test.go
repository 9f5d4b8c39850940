package portfolio

import (
	"errors"
	"fmt"
	"testing"

	"github.com/TomaszMurek1/stock-scout-sub002/date"
	"github.com/shopspring/decimal"
)

func days(n int) []date.Date {
	d := make([]date.Date, n)
	for i := range d {
		d[i] = date.MustParse("2024-01-01").Add(i)
	}
	return d
}

func series(values ...string) []decimal.NullDecimal {
	s := make([]decimal.NullDecimal, len(values))
	for i, v := range values {
		if v != "" {
			s[i] = ND(v)
		}
	}
	return s
}

// describe renders events as "index:KIND" for compact comparisons.
func describe(events []CrossoverEvent) []string {
	var out []string
	for _, e := range events {
		out = append(out, fmt.Sprintf("%d:%s", e.Date.Sub(date.MustParse("2024-01-01")), e.Kind))
	}
	return out
}

func TestDetectCrossovers(t *testing.T) {
	testCases := []struct {
		name  string
		short []decimal.NullDecimal
		long  []decimal.NullDecimal
		opts  []CrossoverOption
		want  []string
	}{
		{
			name:  "bullish at second day",
			short: series("1", "3", "5"),
			long:  series("2", "2", "2"),
			want:  []string{"1:BULLISH"},
		},
		{
			name:  "bearish",
			short: series("5", "3", "1"),
			long:  series("4", "4", "4"),
			want:  []string{"2:BEARISH"},
		},
		{
			name:  "both directions",
			short: series("1", "3", "1", "3"),
			long:  series("2", "2", "2", "2"),
			want:  []string{"1:BULLISH", "2:BEARISH", "3:BULLISH"},
		},
		{
			name:  "touch is not a cross",
			short: series("1", "2", "3"),
			long:  series("2", "2", "2"),
			want:  nil,
		},
		{
			name:  "touch and go back",
			short: series("1", "2", "1"),
			long:  series("2", "2", "2"),
			want:  nil,
		},
		{
			name:  "touch crosses when counted",
			short: series("1", "2", "3"),
			long:  series("2", "2", "2"),
			opts:  []CrossoverOption{CountTouches()},
			want:  []string{"2:BULLISH"},
		},
		{
			name:  "touch and go back is not a cross even when counted",
			short: series("1", "2", "2", "1"),
			long:  series("2", "2", "2", "2"),
			opts:  []CrossoverOption{CountTouches()},
			want:  nil,
		},
		{
			name:  "insufficient history is skipped",
			short: series("", "", "1", "3"),
			long:  series("", "2", "2", "2"),
			want:  []string{"3:BULLISH"},
		},
		{
			name:  "undefined in between breaks the pair",
			short: series("1", "", "3"),
			long:  series("2", "2", "2"),
			want:  nil,
		},
		{
			name:  "empty",
			short: nil,
			long:  nil,
			want:  nil,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			events, err := DetectCrossovers(days(len(tc.short)), tc.short, tc.long, tc.opts...)
			if err != nil {
				t.Fatalf("DetectCrossovers() error = %v", err)
			}
			got := describe(events)
			if fmt.Sprint(got) != fmt.Sprint(tc.want) {
				t.Errorf("DetectCrossovers() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDetectCrossovers_Value(t *testing.T) {
	events, err := DetectCrossovers(days(3), series("1", "3", "5"), series("2", "2", "2"))
	if err != nil {
		t.Fatalf("DetectCrossovers() error = %v", err)
	}
	if len(events) != 1 || events[0].Date != date.MustParse("2024-01-02") || !events[0].Value.Equal(D("3")) {
		t.Errorf("DetectCrossovers() = %+v, want one BULLISH event on 2024-01-02 at 3", events)
	}
}

// Appending data never changes the events already reported.
func TestDetectCrossovers_Append(t *testing.T) {
	short := series("1", "3", "1", "1", "4", "2")
	long := series("2", "2", "2", "2", "3", "3")
	full, err := DetectCrossovers(days(len(short)), short, long)
	if err != nil {
		t.Fatalf("DetectCrossovers() error = %v", err)
	}
	for n := range len(short) {
		prefix, err := DetectCrossovers(days(n), short[:n], long[:n])
		if err != nil {
			t.Fatalf("DetectCrossovers() error = %v", err)
		}
		for i, e := range prefix {
			if e.Date != full[i].Date || e.Kind != full[i].Kind || !e.Value.Equal(full[i].Value) {
				t.Errorf("prefix %d event %d = %v, want %v", n, i, e, full[i])
			}
		}
	}
}

// Within three consecutive values there is at most one event unless both
// pairs strictly cross.
func TestDetectCrossovers_NoDoubleFire(t *testing.T) {
	values := []string{"1", "2", "3"}
	for _, a := range values {
		for _, b := range values {
			for _, c := range values {
				short, long := series(a, b, c), series("2", "2", "2")
				events, err := DetectCrossovers(days(3), short, long)
				if err != nil {
					t.Fatalf("DetectCrossovers() error = %v", err)
				}
				for _, e := range events {
					i := e.Date.Sub(date.MustParse("2024-01-01"))
					if short[i].Decimal.Equal(long[i].Decimal) || short[i-1].Decimal.Equal(long[i-1].Decimal) {
						t.Errorf("%s,%s,%s: event %v on a touch", a, b, c, e)
					}
				}
				if len(events) > 1 && (b == "2") {
					t.Errorf("%s,%s,%s: %d events", a, b, c, len(events))
				}
			}
		}
	}
}

func TestDetectCrossovers_Misaligned(t *testing.T) {
	if _, err := DetectCrossovers(days(3), series("1", "2"), series("1", "2", "3")); !errors.Is(err, ErrMisaligned) {
		t.Errorf("DetectCrossovers() error = %v, want %v", err, ErrMisaligned)
	}
	unordered := []date.Date{date.MustParse("2024-01-02"), date.MustParse("2024-01-01")}
	if _, err := DetectCrossovers(unordered, series("1", "2"), series("1", "2")); !errors.Is(err, ErrMisaligned) {
		t.Errorf("DetectCrossovers() error = %v, want %v", err, ErrMisaligned)
	}
}

func TestRowCrossovers(t *testing.T) {
	rows := []IndicatorRow{
		{Date: "2024-01-01", Price: D("10"), ShortAvg: NA, LongAvg: NA},
		{Date: "2024-01-02", Price: D("11"), ShortAvg: ND("1"), LongAvg: ND("2")},
		{Date: "2024-01-05", Price: D("12"), ShortAvg: ND("3"), LongAvg: ND("2")},
		{Date: "2024-01-08", Price: D("9"), ShortAvg: ND("1"), LongAvg: ND("2")},
	}
	events, err := RowCrossovers(rows)
	if err != nil {
		t.Fatalf("RowCrossovers() error = %v", err)
	}
	want := []CrossoverEvent{
		{Date: date.MustParse("2024-01-05"), Kind: Bullish, Value: D("12")},
		{Date: date.MustParse("2024-01-08"), Kind: Bearish, Value: D("9")},
	}
	if len(events) != len(want) {
		t.Fatalf("RowCrossovers() = %v, want %v", events, want)
	}
	for i := range want {
		if events[i].Date != want[i].Date || events[i].Kind != want[i].Kind || !events[i].Value.Equal(want[i].Value) {
			t.Errorf("RowCrossovers()[%d] = %+v, want %+v", i, events[i], want[i])
		}
	}
}
