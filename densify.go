package portfolio

import (
	"errors"
	"iter"

	"github.com/TomaszMurek1/stock-scout-sub002/date"
	"github.com/shopspring/decimal"
)

// Densify fills the gaps of an irregular series by carrying the last
// observation forward.
//
// The result has exactly one point per calendar day from the first to the
// last observed day. Points do not need to be sorted; when several points
// share a day, the last listed one wins. An empty input gives an empty result.
func Densify[T any](points []Point[T]) []Point[T] {
	if len(points) == 0 {
		return nil
	}
	h := new(date.History[T])
	for _, p := range points {
		h.Append(p.On, p.Value)
	}
	first, _ := h.First()
	last, _ := h.Latest()
	span := date.Range{From: first, To: last}

	dense := make([]Point[T], 0, span.Len())
	next, stop := iter.Pull2(h.Values())
	defer stop()
	on, v, ok := next()
	var carried T
	for day := range span.Days() {
		if ok && on == day {
			carried = v
			on, v, ok = next()
		}
		dense = append(dense, Point[T]{On: day, Value: carried})
	}
	return dense
}

// DensifyRows densifies indicator rows. Filled rows are copies of the previous
// row with their date set to the filled day; every date is rewritten in its
// canonical form.
func DensifyRows(rows []IndicatorRow) ([]IndicatorRow, error) {
	points, err := rowPoints(rows)
	if err != nil {
		return nil, err
	}
	dense := Densify(points)
	out := make([]IndicatorRow, len(dense))
	for i, p := range dense {
		out[i] = p.Value
		out[i].Date = p.On.String()
	}
	return out, nil
}

// DensifyPrices densifies the closing prices of every instrument found in
// prices, in order of first appearance. Records with an absent close are not
// observations, so they never start nor extend a series on their own.
func DensifyPrices(prices []PricePoint) (*Instruments[[]Point[decimal.Decimal]], error) {
	var errs []error
	var sparse Instruments[[]Point[decimal.Decimal]]
	for i, p := range prices {
		on, err := date.Parse(p.Date)
		if err != nil {
			errs = append(errs, &DateParseError{Row: i, Field: "date", Value: p.Date, Err: err})
			continue
		}
		points, _ := sparse.Get(p.Instrument)
		if p.Close.Valid {
			points = append(points, Point[decimal.Decimal]{On: on, Value: p.Close.Decimal})
		}
		sparse.Set(p.Instrument, points)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	dense := new(Instruments[[]Point[decimal.Decimal]])
	for id, points := range sparse.All() {
		dense.Set(id, Densify(points))
	}
	return dense, nil
}

// rowPoints parses the dates of rows, failing on the first batch of invalid ones.
func rowPoints(rows []IndicatorRow) ([]Point[IndicatorRow], error) {
	var errs []error
	points := make([]Point[IndicatorRow], 0, len(rows))
	for i, r := range rows {
		on, err := date.Parse(r.Date)
		if err != nil {
			errs = append(errs, &DateParseError{Row: i, Field: "date", Value: r.Date, Err: err})
			continue
		}
		points = append(points, Point[IndicatorRow]{On: on, Value: r})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return points, nil
}
