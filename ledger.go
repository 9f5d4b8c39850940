package portfolio

import (
	"errors"
	"fmt"
	"slices"

	"github.com/TomaszMurek1/stock-scout-sub002/date"
	"github.com/shopspring/decimal"
)

// PositionLedger holds, for each instrument, the signed quantity change of
// every trading day. Same-day trades are summed into a single delta.
//
// Instruments are listed in the order they are first traded.
type PositionLedger struct {
	deltas Instruments[*date.History[decimal.Decimal]]
}

// LedgerOption configures NewPositionLedger.
type LedgerOption func(*ledgerOptions)

type ledgerOptions struct {
	rejectNegative bool
}

// RejectNegativePositions makes NewPositionLedger fail when a sell brings a
// position below zero. By default positions may go negative.
func RejectNegativePositions() LedgerOption {
	return func(o *ledgerOptions) { o.rejectNegative = true }
}

// trade is a transaction with its parsed day.
type trade struct {
	on  date.Date
	row int
	tx  Transaction
}

// NewPositionLedger folds transactions into a ledger. Transactions can be
// given in any order.
//
// Every transaction is checked before any is applied; all the problems found
// are returned together and no ledger is built.
func NewPositionLedger(txs []Transaction, opts ...LedgerOption) (*PositionLedger, error) {
	var o ledgerOptions
	for _, opt := range opts {
		opt(&o)
	}

	var errs []error
	trades := make([]trade, 0, len(txs))
	for i, tx := range txs {
		on, err := date.ParseTimestamp(tx.Timestamp)
		if err != nil {
			errs = append(errs, &DateParseError{Row: i, Field: "timestamp", Value: tx.Timestamp, Err: err})
			continue
		}
		if err := validate(tx); err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		trades = append(trades, trade{on: on, row: i, tx: tx})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	slices.SortStableFunc(trades, func(a, b trade) int { return a.on.Compare(b.on) })

	l := new(PositionLedger)
	for _, t := range trades {
		h, ok := l.deltas.Get(t.tx.Instrument)
		if !ok {
			h = new(date.History[decimal.Decimal])
			l.deltas.Set(t.tx.Instrument, h)
		}
		h.Merge(t.on, t.tx.Delta(), decimal.Decimal.Add)
	}

	if o.rejectNegative {
		if err := l.checkNonNegative(); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func validate(tx Transaction) error {
	switch {
	case tx.Instrument == "":
		return fmt.Errorf("%w: missing instrument_id", ErrInvalidTransaction)
	case !tx.Quantity.IsPositive():
		return fmt.Errorf("%w: quantity %s of %s must be positive", ErrInvalidTransaction, tx.Quantity, tx.Instrument)
	case tx.Side != Buy && tx.Side != Sell:
		return fmt.Errorf("%w: unknown side %d for %s", ErrInvalidTransaction, tx.Side, tx.Instrument)
	}
	return nil
}

func (l *PositionLedger) checkNonNegative() error {
	var errs []error
	for id, h := range l.deltas.All() {
		position := decimal.Zero
		for on, delta := range h.Values() {
			position = position.Add(delta)
			if position.IsNegative() {
				errs = append(errs, fmt.Errorf("%w: %s is %s on %s", ErrNegativePosition, id, position, on))
				break
			}
		}
	}
	return errors.Join(errs...)
}

// Instruments returns the traded instruments, in order of first trade.
func (l *PositionLedger) Instruments() []string { return l.deltas.IDs() }

// Deltas returns the daily deltas of an instrument in chronological order.
func (l *PositionLedger) Deltas(instrument string) []Point[decimal.Decimal] {
	h, ok := l.deltas.Get(instrument)
	if !ok {
		return nil
	}
	points := make([]Point[decimal.Decimal], 0, h.Len())
	for on, delta := range h.Values() {
		points = append(points, Point[decimal.Decimal]{On: on, Value: delta})
	}
	return points
}

// Position returns the quantity held of an instrument at the end of day on.
func (l *PositionLedger) Position(instrument string, on date.Date) decimal.Decimal {
	position := decimal.Zero
	h, ok := l.deltas.Get(instrument)
	if !ok {
		return position
	}
	for day, delta := range h.Values() {
		if day.After(on) {
			break
		}
		position = position.Add(delta)
	}
	return position
}

// Snapshot returns the positions of every traded instrument at the end of day on.
func (l *PositionLedger) Snapshot(on date.Date) []PositionSnapshot {
	snapshot := make([]PositionSnapshot, 0, l.deltas.Len())
	for _, id := range l.deltas.ids {
		snapshot = append(snapshot, PositionSnapshot{Instrument: id, Quantity: l.Position(id, on)})
	}
	return snapshot
}

// history returns the delta history of an instrument, nil when never traded.
func (l *PositionLedger) history(instrument string) *date.History[decimal.Decimal] {
	if l == nil {
		return nil
	}
	h, _ := l.deltas.Get(instrument)
	return h
}
