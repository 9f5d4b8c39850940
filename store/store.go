// Package store persists the engine inputs in a SQLite database, so that the
// command line can replay them without refetching.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	portfolio "github.com/TomaszMurek1/stock-scout-sub002"
	"github.com/TomaszMurek1/stock-scout-sub002/date"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store is a SQLite database of transactions, prices and indicator rows.
type Store struct {
	db *sql.DB
	mu sync.Mutex // serializes writers
}

// Open opens (or creates) the database at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// WAL lets reports read while an import writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			id            TEXT PRIMARY KEY,
			seq           INTEGER NOT NULL,
			instrument_id TEXT NOT NULL,
			side          TEXT NOT NULL,
			quantity      TEXT NOT NULL,
			price         TEXT NOT NULL,
			fee           TEXT NOT NULL,
			timestamp     TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_instrument ON transactions(instrument_id)`,

		`CREATE TABLE IF NOT EXISTS prices (
			id            TEXT PRIMARY KEY,
			instrument_id TEXT NOT NULL,
			date          TEXT NOT NULL,
			close         TEXT,
			UNIQUE(instrument_id, date)
		)`,

		`CREATE TABLE IF NOT EXISTS indicator_rows (
			id            TEXT PRIMARY KEY,
			instrument_id TEXT NOT NULL,
			date          TEXT NOT NULL,
			price         TEXT NOT NULL,
			short_avg     TEXT,
			long_avg      TEXT,
			UNIQUE(instrument_id, date)
		)`,
	}
	for i, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("statement %d: %w", i, err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// write runs fn in a transaction.
func (s *Store) write(ctx context.Context, fn func(*sql.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// AddTransactions appends transactions. They are read back in insertion order.
func (s *Store) AddTransactions(ctx context.Context, txs []portfolio.Transaction) error {
	return s.write(ctx, func(tx *sql.Tx) error {
		var seq int64
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM transactions`).Scan(&seq); err != nil {
			return fmt.Errorf("read sequence: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO transactions
			(id, seq, instrument_id, side, quantity, price, fee, timestamp)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, t := range txs {
			seq++
			if _, err := stmt.ExecContext(ctx, uuid.NewString(), seq, t.Instrument, t.Side.String(),
				t.Quantity, t.Price, t.Fee, t.Timestamp); err != nil {
				return fmt.Errorf("insert transaction %d: %w", i, err)
			}
		}
		return nil
	})
}

// Transactions returns the transactions of the given instruments, or all of
// them when none is given.
func (s *Store) Transactions(ctx context.Context, instruments ...string) ([]portfolio.Transaction, error) {
	where, args := in("instrument_id", instruments)
	rows, err := s.db.QueryContext(ctx, `SELECT instrument_id, side, quantity, price, fee, timestamp
		FROM transactions`+where+` ORDER BY seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []portfolio.Transaction
	for rows.Next() {
		var t portfolio.Transaction
		var side string
		if err := rows.Scan(&t.Instrument, &side, &t.Quantity, &t.Price, &t.Fee, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if t.Side, err = portfolio.ParseSide(side); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// PutPrices stores prices, replacing the close already stored for the same
// instrument and day. An absent close never erases a stored one. Dates are
// stored in their canonical form, so that "2024-1-2" and "2024-01-02" are the
// same day.
func (s *Store) PutPrices(ctx context.Context, prices []portfolio.PricePoint) error {
	return s.write(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO prices (id, instrument_id, date, close)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(instrument_id, date) DO UPDATE SET close = COALESCE(excluded.close, prices.close)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, p := range prices {
			on, err := date.Parse(p.Date)
			if err != nil {
				return &portfolio.DateParseError{Row: i, Field: "date", Value: p.Date, Err: err}
			}
			if _, err := stmt.ExecContext(ctx, uuid.NewString(), p.Instrument, on.String(), p.Close); err != nil {
				return fmt.Errorf("insert price %d: %w", i, err)
			}
		}
		return nil
	})
}

// Prices returns the prices of the given instruments, or all of them when none
// is given, by date.
func (s *Store) Prices(ctx context.Context, instruments ...string) ([]portfolio.PricePoint, error) {
	where, args := in("instrument_id", instruments)
	rows, err := s.db.QueryContext(ctx, `SELECT instrument_id, date, close
		FROM prices`+where+` ORDER BY date, instrument_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query prices: %w", err)
	}
	defer rows.Close()

	var prices []portfolio.PricePoint
	for rows.Next() {
		var p portfolio.PricePoint
		if err := rows.Scan(&p.Instrument, &p.Date, &p.Close); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

// PutIndicatorRows stores the indicator rows of an instrument, replacing rows
// already stored for the same day. Dates are stored in their canonical form.
func (s *Store) PutIndicatorRows(ctx context.Context, instrument string, rows []portfolio.IndicatorRow) error {
	return s.write(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO indicator_rows (id, instrument_id, date, price, short_avg, long_avg)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(instrument_id, date) DO UPDATE SET
				price = excluded.price, short_avg = excluded.short_avg, long_avg = excluded.long_avg`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, r := range rows {
			on, err := date.Parse(r.Date)
			if err != nil {
				return &portfolio.DateParseError{Row: i, Field: "date", Value: r.Date, Err: err}
			}
			if _, err := stmt.ExecContext(ctx, uuid.NewString(), instrument, on.String(), r.Price, r.ShortAvg, r.LongAvg); err != nil {
				return fmt.Errorf("insert indicator row %d: %w", i, err)
			}
		}
		return nil
	})
}

// IndicatorRows returns the indicator rows of an instrument by date.
func (s *Store) IndicatorRows(ctx context.Context, instrument string) ([]portfolio.IndicatorRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date, price, short_avg, long_avg
		FROM indicator_rows WHERE instrument_id = ? ORDER BY date`, instrument)
	if err != nil {
		return nil, fmt.Errorf("query indicator rows: %w", err)
	}
	defer rows.Close()

	var out []portfolio.IndicatorRow
	for rows.Next() {
		var r portfolio.IndicatorRow
		if err := rows.Scan(&r.Date, &r.Price, &r.ShortAvg, &r.LongAvg); err != nil {
			return nil, fmt.Errorf("scan indicator row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// in builds a " WHERE column IN (...)" clause, empty when values is.
func in(column string, values []string) (string, []any) {
	if len(values) == 0 {
		return "", nil
	}
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return " WHERE " + column + " IN (?" + strings.Repeat(", ?", len(values)-1) + ")", args
}
