package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	portfolio "github.com/TomaszMurek1/stock-scout-sub002"
	"github.com/bmatcuk/doublestar/v4"
)

// expand returns the files matching a comma-separated list of glob patterns,
// sorted and without duplicates. A pattern that matches nothing is an error.
func expand(patterns string) ([]string, error) {
	var files []string
	for _, pattern := range list(patterns) {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no file matches %q", pattern)
		}
		files = append(files, matches...)
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// readRecords decodes the records of every file matching patterns. When path
// is set, it is the JSONPath of the records in each file.
func readRecords[T any](patterns, path string, decode func(io.Reader) ([]T, error)) ([]T, error) {
	files, err := expand(patterns)
	if err != nil {
		return nil, err
	}
	var records []T
	for _, name := range files {
		batch, err := readFile(name, path, decode)
		if err != nil {
			return nil, err
		}
		records = append(records, batch...)
	}
	return records, nil
}

func readFile[T any](name, path string, decode func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if path != "" {
		if r, err = portfolio.Select(f, path); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	records, err := decode(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return records, nil
}

// inputs are the flags selecting where the records come from: files when
// patterns are given, the database otherwise.
type inputs struct {
	tx     string
	prices string
	rows   string
	path   string
}

func (in *inputs) transactions(ctx context.Context, cfg *Config, instruments ...string) ([]portfolio.Transaction, error) {
	if in.tx != "" {
		return readRecords(in.tx, in.path, portfolio.DecodeTransactions)
	}
	s, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Transactions(ctx, instruments...)
}

func (in *inputs) pricePoints(ctx context.Context, cfg *Config, instruments ...string) ([]portfolio.PricePoint, error) {
	if in.prices != "" {
		return readRecords(in.prices, in.path, portfolio.DecodePrices)
	}
	s, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Prices(ctx, instruments...)
}

func (in *inputs) indicatorRows(ctx context.Context, cfg *Config, instrument string) ([]portfolio.IndicatorRow, error) {
	if in.rows != "" {
		return readRecords(in.rows, in.path, portfolio.DecodeIndicatorRows)
	}
	if instrument == "" {
		return nil, fmt.Errorf("either -rows or -i must be provided")
	}
	s, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.IndicatorRows(ctx, instrument)
}
