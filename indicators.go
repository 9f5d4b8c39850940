package portfolio

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// MovingAverages completes rows with trailing simple moving averages of their
// price, over short and long rows. Averages already present are kept.
//
// Rows are returned sorted by date, one per date (the last listed wins), but
// not densified: a window counts rows, not calendar days. The first window-1
// rows have no average.
func MovingAverages(rows []IndicatorRow, short, long int) ([]IndicatorRow, error) {
	if short < 1 || long < 1 {
		return nil, fmt.Errorf("moving average windows must be positive, got %d and %d", short, long)
	}
	points, err := rowPoints(rows)
	if err != nil {
		return nil, err
	}
	// stable sort then drop all but the last of each day
	slices.SortStableFunc(points, func(a, b Point[IndicatorRow]) int { return a.On.Compare(b.On) })
	out := make([]IndicatorRow, 0, len(points))
	for i, p := range points {
		if i+1 < len(points) && points[i+1].On == p.On {
			continue
		}
		r := p.Value
		r.Date = p.On.String()
		out = append(out, r)
	}

	prices := make([]decimal.Decimal, len(out))
	for i, r := range out {
		prices[i] = r.Price
	}
	shortAvg, longAvg := sma(prices, short), sma(prices, long)
	for i := range out {
		if !out[i].ShortAvg.Valid {
			out[i].ShortAvg = shortAvg[i]
		}
		if !out[i].LongAvg.Valid {
			out[i].LongAvg = longAvg[i]
		}
	}
	return out, nil
}

// sma returns the trailing simple moving average of values over window.
func sma(values []decimal.Decimal, window int) []decimal.NullDecimal {
	avg := make([]decimal.NullDecimal, len(values))
	size := decimal.NewFromInt(int64(window))
	sum := decimal.Zero
	for i, v := range values {
		sum = sum.Add(v)
		if i >= window {
			sum = sum.Sub(values[i-window])
		}
		if i+1 >= window {
			avg[i] = decimal.NewNullDecimal(sum.Div(size))
		}
	}
	return avg
}
