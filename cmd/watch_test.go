package cmd

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

func TestWatcherRunOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tx.jsonl", `{"instrument_id":"A","quantity":10,"price":100,"fee":0,"timestamp":"2024-01-01"}`)
	prices := writeFile(t, dir, "prices.jsonl", `{"instrument_id":"A","date":"2024-01-01","close":100}
{"instrument_id":"A","date":"2024-01-02","close":105}`)

	cfg := &Config{Tracked: []string{"A"}, Currency: "USD"}
	in := &inputs{tx: filepath.Join(dir, "tx.jsonl"), prices: prices}
	reg := prometheus.NewRegistry()
	w := newWatcher(cfg, zerolog.Nop(), reg, in)

	for range 2 {
		v, err := w.runOnce(context.Background())
		if err != nil {
			t.Fatalf("runOnce() unexpected error: %v", err)
		}
		var got []string
		for _, p := range v.Points {
			got = append(got, p.Date.String()+"="+p.Value.String())
		}
		if want := "2024-01-01=1000 2024-01-02=1050"; strings.Join(got, " ") != want {
			t.Errorf("runOnce() = %v, want %s", got, want)
		}
	}

	const counters = `
# HELP scout_memo_computations_total Computations run by the memo.
# TYPE scout_memo_computations_total counter
scout_memo_computations_total{memo="valuation"} 1
# HELP scout_memo_hits_total Results served from the memo.
# TYPE scout_memo_hits_total counter
scout_memo_hits_total{memo="valuation"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(counters), "scout_memo_hits_total", "scout_memo_computations_total"); err != nil {
		t.Errorf("unexpected memo metrics: %v", err)
	}

	// changed inputs are recomputed
	writeFile(t, dir, "prices.jsonl", `{"instrument_id":"A","date":"2024-01-01","close":100}
{"instrument_id":"A","date":"2024-01-02","close":105}
{"instrument_id":"A","date":"2024-01-03","close":66}`)
	v, err := w.runOnce(context.Background())
	if err != nil {
		t.Fatalf("runOnce() unexpected error: %v", err)
	}
	if n := len(v.Points); n != 3 || v.Points[2].Value.String() != "660" {
		t.Errorf("runOnce() after change = %v, want a third point of 660", v.Points)
	}
	if got := w.memo.Len(); got != 2 {
		t.Errorf("memo holds %d results, want 2", got)
	}
}

func TestWatcherRunOnce_Error(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tx.jsonl", `{"instrument_id":"A","quantity":10,"price":100,"fee":0,"timestamp":"yesterday"}`)
	cfg := &Config{Tracked: []string{"A"}}
	in := &inputs{tx: filepath.Join(dir, "tx.jsonl"), prices: filepath.Join(dir, "tx.jsonl")}
	w := newWatcher(cfg, zerolog.Nop(), prometheus.NewRegistry(), in)

	if _, err := w.runOnce(context.Background()); err == nil {
		t.Fatal("runOnce() with an invalid timestamp succeeded, want error")
	}
	if got := w.memo.Len(); got != 0 {
		t.Errorf("memo holds %d results after a failure, want 0", got)
	}
}
