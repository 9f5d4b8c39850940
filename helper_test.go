package portfolio

import (
	"github.com/TomaszMurek1/stock-scout-sub002/date"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// D is a helper for tests to create a decimal from a literal.
func D(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ND is a helper for tests to create a defined optional decimal.
func ND(s string) decimal.NullDecimal { return decimal.NewNullDecimal(D(s)) }

// NA is the undefined optional decimal.
var NA = decimal.NullDecimal{}

func buy(id string, qty, price, on string) Transaction {
	return Transaction{Instrument: id, Quantity: D(qty), Price: D(price), Timestamp: on, Side: Buy}
}

func sell(id string, qty, price, on string) Transaction {
	return Transaction{Instrument: id, Quantity: D(qty), Price: D(price), Timestamp: on, Side: Sell}
}

func closeAt(id, on, price string) PricePoint {
	return PricePoint{Instrument: id, Date: on, Close: ND(price)}
}

// cmpOpts compares decimals by value and dates by day.
var cmpOpts = cmp.Options{
	cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b date.Date) bool { return a == b }),
}

// closeTo reports whether got is within 1e-6 relative of want.
func closeTo(got, want decimal.Decimal) bool {
	diff := got.Sub(want).Abs()
	if want.IsZero() {
		return diff.LessThanOrEqual(D("1e-6"))
	}
	return diff.Div(want.Abs()).LessThanOrEqual(D("1e-6"))
}
