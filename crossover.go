package portfolio

import (
	"fmt"

	"github.com/TomaszMurek1/stock-scout-sub002/date"
	"github.com/shopspring/decimal"
)

// CrossoverOption configures crossover detection.
type CrossoverOption func(*crossoverOptions)

type crossoverOptions struct {
	countTouches bool
}

// CountTouches lets a crossing go through days where both series are equal:
// short < long, then short == long, then short > long is one crossing,
// reported on the last day. By default such a sequence reports nothing, since
// only a strict change of order between two consecutive days is a crossing.
func CountTouches() CrossoverOption {
	return func(o *crossoverOptions) { o.countTouches = true }
}

// crossing is a crossover found at an index of the date axis.
type crossing struct {
	index int
	kind  CrossoverKind
}

// crossings scans short and long, which must have the same length.
//
// A pair of consecutive indexes where one of the four values is undefined is
// never a crossing. Each event only depends on the index it is reported on
// and the previous ones, so appending data never changes earlier events.
func crossings(short, long []decimal.NullDecimal, o crossoverOptions) []crossing {
	var found []crossing
	last := 0 // order of short vs long on the last compared index, 0 when unknown
	for i := range short {
		if !short[i].Valid || !long[i].Valid {
			last = 0
			continue
		}
		order := short[i].Decimal.Cmp(long[i].Decimal)
		switch {
		case order == 0 && o.countTouches:
			continue // keep the order seen before the touch
		case last < 0 && order > 0:
			found = append(found, crossing{index: i, kind: Bullish})
		case last > 0 && order < 0:
			found = append(found, crossing{index: i, kind: Bearish})
		}
		last = order
	}
	return found
}

// DetectCrossovers reports every day where the short series crosses the long
// one. The three slices are aligned: short[i] and long[i] are the values on
// days[i], and days must be strictly increasing.
//
// The event value is the short series value on the crossing day.
func DetectCrossovers(days []date.Date, short, long []decimal.NullDecimal, opts ...CrossoverOption) ([]CrossoverEvent, error) {
	if len(short) != len(days) || len(long) != len(days) {
		return nil, fmt.Errorf("%w: %d days, %d short values, %d long values", ErrMisaligned, len(days), len(short), len(long))
	}
	for i := 1; i < len(days); i++ {
		if !days[i].After(days[i-1]) {
			return nil, fmt.Errorf("%w: %s does not follow %s", ErrMisaligned, days[i], days[i-1])
		}
	}
	var o crossoverOptions
	for _, opt := range opts {
		opt(&o)
	}

	var events []CrossoverEvent
	for _, c := range crossings(short, long, o) {
		events = append(events, CrossoverEvent{Date: days[c.index], Kind: c.kind, Value: short[c.index].Decimal})
	}
	return events, nil
}

// RowCrossovers densifies indicator rows and reports the crossings of their
// short and long averages. The event value is the row price on the crossing day.
func RowCrossovers(rows []IndicatorRow, opts ...CrossoverOption) ([]CrossoverEvent, error) {
	points, err := rowPoints(rows)
	if err != nil {
		return nil, err
	}
	dense := Densify(points)

	var o crossoverOptions
	for _, opt := range opts {
		opt(&o)
	}
	short := make([]decimal.NullDecimal, len(dense))
	long := make([]decimal.NullDecimal, len(dense))
	for i, p := range dense {
		short[i], long[i] = p.Value.ShortAvg, p.Value.LongAvg
	}

	var events []CrossoverEvent
	for _, c := range crossings(short, long, o) {
		p := dense[c.index]
		events = append(events, CrossoverEvent{Date: p.On, Kind: c.kind, Value: p.Value.Price})
	}
	return events, nil
}
