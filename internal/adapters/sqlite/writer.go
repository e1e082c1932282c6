package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quentinrf/spectrum-reader/internal/domain"
)

// SessionWriter creates acquisition files. It is used by the seed command,
// the simulator and tests; queries never write.
type SessionWriter struct {
	db   *sql.DB
	path string
}

// NewSessionWriter creates (or opens) an acquisition file at path
func NewSessionWriter(path string) (*SessionWriter, error) {
	dsn, err := fileDSN(path, "rwc")
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SessionWriter{db: db, path: path}, nil
}

// Path returns the file being written
func (w *SessionWriter) Path() string {
	return w.path
}

// AddGroup declares a top-level key without radiation data
func (w *SessionWriter) AddGroup(ctx context.Context, name string) error {
	if _, err := w.db.ExecContext(ctx, `INSERT OR IGNORE INTO groups (name) VALUES (?)`, name); err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return nil
}

// WriteRecord appends a detector record, keeping the sample order given
func (w *SessionWriter) WriteRecord(ctx context.Context, rec *domain.DetectorRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO groups (name) VALUES (?)`, rec.Detector); err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	var next int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq) + 1, 0) FROM radiation_readings WHERE group_name = ?`,
		rec.Detector,
	).Scan(&next)
	if err != nil {
		return fmt.Errorf("failed to query next sequence: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO radiation_readings (group_name, seq, time, spectrum) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, ts := range rec.Timestamps {
		if _, err := stmt.ExecContext(ctx, rec.Detector, next+int64(i), ts, encodeRow(rec.Spectrum.Row(i))); err != nil {
			return fmt.Errorf("failed to insert reading: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Close closes the database connection
func (w *SessionWriter) Close() error {
	return w.db.Close()
}
