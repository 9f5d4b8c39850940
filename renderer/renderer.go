// Package renderer turns engine results into markdown documents.
package renderer

import (
	"bytes"
	"fmt"

	portfolio "github.com/TomaszMurek1/stock-scout-sub002"
	"github.com/TomaszMurek1/stock-scout-sub002/date"
	"github.com/Rhymond/go-money"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// formatMoney formats a value in a currency, or as a plain two-digit decimal
// when the currency is empty or unknown.
func formatMoney(value decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return value.StringFixed(2)
	}
	minor := value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

func optional(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.String()
}

// ValuationMarkdown renders a valuation curve as a table.
func ValuationMarkdown(title string, v *portfolio.Valuation, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(title)

	if len(v.Points) == 0 {
		doc.PlainText("No trade nor price for the tracked instruments.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Date", "Value"},
		Rows:      [][]string{},
	}
	for _, p := range v.Points {
		table.Rows = append(table.Rows, []string{p.Date.String(), formatMoney(p.Value, currency)})
	}
	doc.Table(table)

	if len(v.Warnings) > 0 {
		doc.H2("Ignored records")
		items := make([]string, 0, len(v.Warnings))
		for _, w := range v.Warnings {
			items = append(items, w.String())
		}
		doc.BulletList(items...)
	}
	return doc.String()
}

// CrossoversMarkdown renders crossover events as a table.
func CrossoversMarkdown(title string, events []portfolio.CrossoverEvent, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(title)

	if len(events) == 0 {
		doc.PlainText("No crossover.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight},
		Header:    []string{"Date", "Kind", "Value"},
		Rows:      [][]string{},
	}
	for _, e := range events {
		table.Rows = append(table.Rows, []string{e.Date.String(), e.Kind.String(), formatMoney(e.Value, currency)})
	}
	doc.Table(table)
	return doc.String()
}

// PositionsMarkdown renders the positions held on a day.
func PositionsMarkdown(on date.Date, positions []portfolio.PositionSnapshot) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("Positions on %s", on))

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Instrument", "Quantity"},
		Rows:      [][]string{},
	}
	for _, p := range positions {
		table.Rows = append(table.Rows, []string{p.Instrument, p.Quantity.String()})
	}
	doc.Table(table)
	return doc.String()
}

// RowsMarkdown renders indicator rows.
func RowsMarkdown(title string, rows []portfolio.IndicatorRow) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(title)

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Date", "Price", "Short", "Long"},
		Rows:      [][]string{},
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{r.Date, r.Price.String(), optional(r.ShortAvg), optional(r.LongAvg)})
	}
	doc.Table(table)
	return doc.String()
}
