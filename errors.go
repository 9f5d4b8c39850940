package portfolio

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransaction is returned for trades that cannot be folded into a ledger.
	ErrInvalidTransaction = errors.New("invalid transaction")
	// ErrNegativePosition is returned when oversell is rejected and a position goes below zero.
	ErrNegativePosition = errors.New("negative position")
	// ErrMisaligned is returned when paired series do not share the same date axis.
	ErrMisaligned = errors.New("misaligned series")
)

// DateParseError reports an input date or timestamp that is not a calendar date.
type DateParseError struct {
	Row   int    // index of the offending record in its input slice
	Field string // name of the field, as in the wire format
	Value string
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("record %d: invalid %s %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *DateParseError) Unwrap() error { return e.Err }

// InstrumentMismatchWarning reports a price record for an instrument that is
// not tracked. Such records are ignored.
type InstrumentMismatchWarning struct {
	Row        int
	Instrument string
}

func (w InstrumentMismatchWarning) String() string {
	return fmt.Sprintf("record %d: instrument %q is not tracked", w.Row, w.Instrument)
}
