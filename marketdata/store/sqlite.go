// Package store persists historical index fixings in SQLite so scheduled
// valuation runs can reload the series without re-fetching them.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/meenmo/ratecalc/timeseries"
)

const schema = `
CREATE TABLE IF NOT EXISTS fixings (
    index_name  TEXT NOT NULL,
    fixing_date TEXT NOT NULL,
    rate        REAL NOT NULL,
    PRIMARY KEY (index_name, fixing_date)
);

CREATE INDEX IF NOT EXISTS idx_fixings_index ON fixings(index_name);
`

const dateLayout = "2006-01-02"

// FixingStore is a SQLite-backed store of index fixings (pure Go, no CGo).
type FixingStore struct {
	db *sql.DB
}

// Open opens (or creates) the database at the given path and applies the
// schema.
func Open(path string) (*FixingStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store.Open: open %q: %w", path, err)
	}
	// SQLite is single-writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store.Open: apply schema: %w", err)
	}
	return &FixingStore{db: db}, nil
}

// Save upserts the fixings of one index. A fixing already stored for a
// date is overwritten, so corrected publications win.
func (s *FixingStore) Save(ctx context.Context, indexName string, series *timeseries.Series) error {
	points := series.Points()
	if len(points) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store.Save: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fixings (index_name, fixing_date, rate)
		VALUES (?, ?, ?)
		ON CONFLICT(index_name, fixing_date) DO UPDATE SET
			rate = excluded.rate`)
	if err != nil {
		return fmt.Errorf("store.Save: prepare: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, indexName, p.Date.Format(dateLayout), p.Value); err != nil {
			return fmt.Errorf("store.Save: upsert %s %s: %w", indexName, p.Date.Format(dateLayout), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store.Save: commit: %w", err)
	}
	return nil
}

// Load returns the stored fixing series of one index, in date order. An
// index with no stored fixings loads as an empty series.
func (s *FixingStore) Load(ctx context.Context, indexName string) (*timeseries.Series, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fixing_date, rate FROM fixings WHERE index_name = ? ORDER BY fixing_date`,
		indexName)
	if err != nil {
		return nil, fmt.Errorf("store.Load: query %s: %w", indexName, err)
	}
	defer rows.Close()

	b := timeseries.NewBuilder()
	for rows.Next() {
		var dateStr string
		var rate float64
		if err := rows.Scan(&dateStr, &rate); err != nil {
			return nil, fmt.Errorf("store.Load: scan: %w", err)
		}
		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("store.Load: bad date %q: %w", dateStr, err)
		}
		b.Put(date, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store.Load: rows: %w", err)
	}
	return b.Build()
}

// Indices returns the names of every index with stored fixings.
func (s *FixingStore) Indices(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT index_name FROM fixings ORDER BY index_name`)
	if err != nil {
		return nil, fmt.Errorf("store.Indices: query: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("store.Indices: scan: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close closes the database.
func (s *FixingStore) Close() error {
	return s.db.Close()
}
