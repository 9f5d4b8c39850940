package portfolio

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/TomaszMurek1/stock-scout-sub002/date"
	"github.com/shopspring/decimal"
)

// Side is the direction of a trade.
type Side int

const (
	// Buy increases the position. It is the default side.
	Buy Side = iota
	// Sell decreases the position.
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// ParseSide parses "BUY" or "SELL", case insensitive. The empty string is a Buy.
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "BUY":
		return Buy, nil
	case "SELL":
		return Sell, nil
	default:
		return Buy, fmt.Errorf("unknown side %q", s)
	}
}

func (s Side) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *Side) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	side, err := ParseSide(str)
	if err != nil {
		return err
	}
	*s = side
	return nil
}

// Transaction is a single trade as received from the backend.
//
// Dates are kept in their wire form and parsed by the engine, so that a
// malformed timestamp fails the computation instead of the decoding.
type Transaction struct {
	Instrument string          `json:"instrument_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Fee        decimal.Decimal `json:"fee"`
	Timestamp  string          `json:"timestamp"`
	Side       Side            `json:"side,omitempty"`
}

// Delta returns the signed quantity change of the trade.
func (t Transaction) Delta() decimal.Decimal {
	if t.Side == Sell {
		return t.Quantity.Neg()
	}
	return t.Quantity
}

// PricePoint is a daily closing price. An absent close is not an observation.
type PricePoint struct {
	Instrument string              `json:"instrument_id"`
	Date       string              `json:"date"`
	Close      decimal.NullDecimal `json:"close"`
}

// IndicatorRow is a daily price with its short and long moving averages. An
// average is absent when there is not enough history to compute it.
type IndicatorRow struct {
	Date     string              `json:"date"`
	Price    decimal.Decimal     `json:"price"`
	ShortAvg decimal.NullDecimal `json:"short_avg"`
	LongAvg  decimal.NullDecimal `json:"long_avg"`
}

func (r IndicatorRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date     string       `json:"date"`
		Price    json.Number  `json:"price"`
		ShortAvg *json.Number `json:"short_avg,omitempty"`
		LongAvg  *json.Number `json:"long_avg,omitempty"`
	}{r.Date, number(r.Price), nullNumber(r.ShortAvg), nullNumber(r.LongAvg)})
}

// Point is a value observed on a given day.
type Point[T any] struct {
	On    date.Date
	Value T
}

// ValuationPoint is the aggregate value of all tracked positions on a day.
type ValuationPoint struct {
	Date  date.Date
	Value decimal.Decimal
}

func (p ValuationPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date  date.Date   `json:"date"`
		Value json.Number `json:"value"`
	}{p.Date, number(p.Value)})
}

// CrossoverKind tells in which direction the short series crossed the long one.
type CrossoverKind int

const (
	// Bullish means the short series crossed the long one from below.
	Bullish CrossoverKind = iota
	// Bearish means the short series crossed the long one from above.
	Bearish
)

func (k CrossoverKind) String() string {
	switch k {
	case Bullish:
		return "BULLISH"
	case Bearish:
		return "BEARISH"
	default:
		return "UNKNOWN"
	}
}

func (k CrossoverKind) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }

// CrossoverEvent is a crossing detected on a day.
type CrossoverEvent struct {
	Date  date.Date
	Kind  CrossoverKind
	Value decimal.Decimal
}

func (e CrossoverEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date  date.Date     `json:"date"`
		Kind  CrossoverKind `json:"kind"`
		Value json.Number   `json:"value"`
	}{e.Date, e.Kind, number(e.Value)})
}

// PositionSnapshot is the cumulative quantity of an instrument as of a day.
type PositionSnapshot struct {
	Instrument string          `json:"instrument_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

func (s PositionSnapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Instrument string      `json:"instrument_id"`
		Quantity   json.Number `json:"quantity"`
	}{s.Instrument, number(s.Quantity)})
}

// number renders a decimal as a JSON number instead of the quoted default.
func number(d decimal.Decimal) json.Number { return json.Number(d.String()) }

func nullNumber(d decimal.NullDecimal) *json.Number {
	if !d.Valid {
		return nil
	}
	n := number(d.Decimal)
	return &n
}
