package portfolio

import (
	"errors"

	"github.com/TomaszMurek1/stock-scout-sub002/date"
	"github.com/shopspring/decimal"
)

// Valuation is the value over time of a set of tracked instruments.
type Valuation struct {
	Points   []ValuationPoint
	Warnings []InstrumentMismatchWarning
}

// holding is the running state of one tracked instrument while walking the dates.
type holding struct {
	deltas   *date.History[decimal.Decimal]
	closes   *date.History[decimal.NullDecimal]
	position decimal.Decimal
	price    decimal.Decimal
}

// Valuate computes the aggregate value of the tracked instruments on every day
// that has either a trade or a price record for one of them.
//
// On each day, deltas scheduled that day are applied to the positions, then
// observed closes replace the last known prices, and the value is the sum of
// position × last price. An instrument never priced so far is worth zero.
//
// Price records of instruments that are not tracked are ignored and reported
// as warnings. A nil ledger means no trade at all.
func Valuate(tracked []string, ledger *PositionLedger, prices []PricePoint) (*Valuation, error) {
	var holdings Instruments[*holding]
	for _, id := range tracked {
		if holdings.Has(id) {
			continue
		}
		holdings.Set(id, &holding{
			deltas: ledger.history(id),
			closes: new(date.History[decimal.NullDecimal]),
		})
	}

	v := new(Valuation)
	var errs []error
	for i, p := range prices {
		h, ok := holdings.Get(p.Instrument)
		if !ok {
			v.Warnings = append(v.Warnings, InstrumentMismatchWarning{Row: i, Instrument: p.Instrument})
			continue
		}
		on, err := date.Parse(p.Date)
		if err != nil {
			errs = append(errs, &DateParseError{Row: i, Field: "date", Value: p.Date, Err: err})
			continue
		}
		h.closes.Merge(on, p.Close, keepObserved)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	axes := make([][]date.Date, 0, 2*holdings.Len())
	for _, h := range holdings.All() {
		if h.deltas != nil {
			axes = append(axes, h.deltas.Days())
		}
		axes = append(axes, h.closes.Days())
	}

	for on := range date.Union(axes...) {
		total := decimal.Zero
		for _, h := range holdings.All() {
			if h.deltas != nil {
				if delta, ok := h.deltas.Get(on); ok {
					h.position = h.position.Add(delta)
				}
			}
			if c, ok := h.closes.Get(on); ok && c.Valid {
				h.price = c.Decimal
			}
			total = total.Add(h.position.Mul(h.price))
		}
		v.Points = append(v.Points, ValuationPoint{Date: on, Value: total})
	}
	return v, nil
}

// keepObserved resolves two price records on the same day: the last observed
// close wins, and an absent close never erases an observed one.
func keepObserved(existing, next decimal.NullDecimal) decimal.NullDecimal {
	if next.Valid {
		return next
	}
	return existing
}

// ValuationCurve builds the ledger from transactions and valuates it.
func ValuationCurve(tracked []string, txs []Transaction, prices []PricePoint, opts ...LedgerOption) (*Valuation, error) {
	ledger, err := NewPositionLedger(txs, opts...)
	if err != nil {
		return nil, err
	}
	return Valuate(tracked, ledger, prices)
}

// SampleEnd keeps the last point of every period. Points must be in
// chronological order, as returned by Valuate.
func SampleEnd(points []ValuationPoint, period date.Period) []ValuationPoint {
	var sampled []ValuationPoint
	for i, p := range points {
		if i+1 < len(points) && !points[i+1].Date.After(p.Date.EndOf(period)) {
			continue // the next point is in the same period
		}
		sampled = append(sampled, p)
	}
	return sampled
}
