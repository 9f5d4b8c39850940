package portfolio

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/TomaszMurek1/stock-scout-sub002/date"
	"github.com/google/go-cmp/cmp"
)

func TestDecodeTransactions(t *testing.T) {
	want := []Transaction{
		{Instrument: "AAPL", Quantity: D("10"), Price: D("100.5"), Fee: D("1"), Timestamp: "2024-01-01T10:00:00Z", Side: Buy},
		{Instrument: "AAPL", Quantity: D("4"), Price: D("110"), Fee: D("0"), Timestamp: "2024-01-03T10:00:00Z", Side: Sell},
	}
	inputs := map[string]string{
		"jsonl": `{"instrument_id":"AAPL","quantity":10,"price":100.5,"fee":1,"timestamp":"2024-01-01T10:00:00Z"}
{"instrument_id":"AAPL","quantity":4,"price":110,"fee":0,"timestamp":"2024-01-03T10:00:00Z","side":"sell"}
`,
		"array": `[
  {"instrument_id":"AAPL","quantity":"10","price":"100.5","fee":1,"timestamp":"2024-01-01T10:00:00Z","side":"BUY"},
  {"instrument_id":"AAPL","quantity":4,"price":110,"fee":0,"timestamp":"2024-01-03T10:00:00Z","side":"SELL"}
]`,
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			got, err := DecodeTransactions(strings.NewReader(in))
			if err != nil {
				t.Fatalf("DecodeTransactions() error = %v", err)
			}
			if diff := cmp.Diff(want, got, cmpOpts); diff != "" {
				t.Errorf("DecodeTransactions() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	if _, err := DecodeTransactions(strings.NewReader(`{"side":"HOLD"}`)); err == nil {
		t.Errorf("DecodeTransactions() of an unknown side succeeded")
	}
	if _, err := DecodePrices(strings.NewReader("{\"date\":\"2024-01-01\"}\n{oops")); err == nil {
		t.Errorf("DecodePrices() of a broken line succeeded")
	}
	if got, err := DecodeIndicatorRows(strings.NewReader("  \n")); err != nil || got != nil {
		t.Errorf("DecodeIndicatorRows() of nothing = %v, %v want nil, nil", got, err)
	}
}

func TestDecodePrices_NullClose(t *testing.T) {
	got, err := DecodePrices(strings.NewReader(`[{"instrument_id":"A","date":"2024-01-01","close":null},{"instrument_id":"A","date":"2024-01-02","close":12.5}]`))
	if err != nil {
		t.Fatalf("DecodePrices() error = %v", err)
	}
	if got[0].Close.Valid || !got[1].Close.Valid || !got[1].Close.Decimal.Equal(D("12.5")) {
		t.Errorf("DecodePrices() = %+v", got)
	}
}

func TestSelect(t *testing.T) {
	doc := `{"status":"ok","data":{"prices":[{"instrument_id":"A","date":"2024-01-01","close":100.123456789012345}]}}`
	r, err := Select(strings.NewReader(doc), "$.data.prices")
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	prices, err := DecodePrices(r)
	if err != nil {
		t.Fatalf("DecodePrices() error = %v", err)
	}
	if len(prices) != 1 || !prices[0].Close.Decimal.Equal(D("100.123456789012345")) {
		t.Errorf("Select() lost precision or records: %+v", prices)
	}
	if _, err := Select(strings.NewReader(doc), "$.data.missing"); err == nil {
		t.Errorf("Select() of a missing key succeeded")
	}
}

func TestEncodeJSON(t *testing.T) {
	out := struct {
		Points []ValuationPoint `json:"points"`
		Events []CrossoverEvent `json:"events"`
		Rows   []IndicatorRow   `json:"rows"`
	}{
		Points: []ValuationPoint{{Date: date.MustParse("2024-01-01"), Value: D("1000.50")}},
		Events: []CrossoverEvent{{Date: date.MustParse("2024-01-02"), Kind: Bearish, Value: D("3")}},
		Rows:   []IndicatorRow{{Date: "2024-01-01", Price: D("10"), ShortAvg: ND("9.5")}},
	}
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, out); err != nil {
		t.Fatalf("EncodeJSON() error = %v", err)
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, buf.Bytes()); err != nil {
		t.Fatalf("json.Compact() error = %v", err)
	}
	want := `{"points":[{"date":"2024-01-01","value":1000.5}],"events":[{"date":"2024-01-02","kind":"BEARISH","value":3}],"rows":[{"date":"2024-01-01","price":10,"short_avg":9.5}]}`
	if compact.String() != want {
		t.Errorf("EncodeJSON() = %s, want %s", compact.String(), want)
	}
}
