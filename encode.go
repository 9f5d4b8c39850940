package portfolio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/PaesslerAG/jsonpath"
)

// DecodeTransactions reads transactions encoded either as a JSON array or as
// JSON lines (one object per line).
func DecodeTransactions(r io.Reader) ([]Transaction, error) { return decodeRecords[Transaction](r) }

// DecodePrices reads price points encoded either as a JSON array or as JSON lines.
func DecodePrices(r io.Reader) ([]PricePoint, error) { return decodeRecords[PricePoint](r) }

// DecodeIndicatorRows reads indicator rows encoded either as a JSON array or as JSON lines.
func DecodeIndicatorRows(r io.Reader) ([]IndicatorRow, error) { return decodeRecords[IndicatorRow](r) }

func decodeRecords[T any](r io.Reader) ([]T, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var records []T
	if data[0] == '[' {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("cannot decode array: %w", err)
		}
		return records, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	for line := 1; ; line++ {
		var record T
		err := dec.Decode(&record)
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("cannot decode record %d: %w", line, err)
		}
		records = append(records, record)
	}
}

// Select extracts the part of a JSON document designated by a JSONPath
// expression, for instance "$.data.transactions" to unwrap an API response.
// Numbers are kept verbatim.
func Select(r io.Reader, path string) (io.Reader, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("cannot decode document: %w", err)
	}
	selected, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("cannot select %q: %w", path, err)
	}
	data, err := json.Marshal(selected)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// EncodeJSON writes v as indented JSON.
func EncodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
