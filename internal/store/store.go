// Package store keeps a local history of completed runs in a DuckDB
// database so past scores can be inspected without another service
// round trip.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"
)

//go:embed schema.sql
var schemaDDL string

// Record is one completed run, replay, or classic eval as stored
// locally. Theta and StdError are nil for classic evals, which carry no
// adaptive score.
type Record struct {
	RecordID   string
	RunID      string
	Kind       string
	DatasetID  string
	Experiment string
	Theta      *float64
	StdError   *float64
	ItemCount  int
	CreatedAt  time.Time
}

// Store wraps one DuckDB database file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path and
// applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping history db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun inserts one history record. RecordID and CreatedAt are
// assigned here when unset.
func (s *Store) RecordRun(ctx context.Context, rec Record) error {
	if rec.RunID == "" {
		return errors.New("run id is required")
	}
	if rec.RecordID == "" {
		rec.RecordID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (record_id, run_id, kind, dataset_id, experiment, theta, std_error, item_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RecordID, rec.RunID, rec.Kind, rec.DatasetID, rec.Experiment,
		rec.Theta, rec.StdError, rec.ItemCount, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run record: %w", err)
	}
	return nil
}

// RecentRuns returns the newest records first, at most limit of them.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT record_id::VARCHAR, run_id, kind, dataset_id, experiment, theta, std_error, item_count, created_at
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query run history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.RecordID, &rec.RunID, &rec.Kind, &rec.DatasetID, &rec.Experiment,
			&rec.Theta, &rec.StdError, &rec.ItemCount, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run history: %w", err)
	}
	return records, nil
}
