package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/quentinrf/spectrum-reader/internal/domain"
)

// Opener implements domain.ContainerOpener for SQLite acquisition files
type Opener struct{}

// NewOpener creates an opener for read-only acquisition files
func NewOpener() *Opener {
	return &Opener{}
}

// Open opens the file read-only. The returned container must be closed.
func (o *Opener) Open(ctx context.Context, file domain.SourceFile) (domain.Container, error) {
	dsn, err := fileDSN(file.Path, "ro")
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open %s: %w", file.Path, err)
	}

	return &Container{db: db, path: file.Path}, nil
}

// fileDSN builds a SQLite URI for path opened with the given mode
// ("ro" or "rwc"). The path is made absolute and escaped so names holding
// '?', '#' or '%' resolve to the same file on both the read and write side.
func fileDSN(path, mode string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: "mode=" + mode}
	return u.String(), nil
}

// Container implements domain.Container over one SQLite acquisition file
type Container struct {
	db   *sql.DB
	path string
}

// Keys returns every top-level group name
func (c *Container) Keys(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT name FROM groups ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		keys = append(keys, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return keys, nil
}

// Timestamps returns the detector's sample times in storage order
func (c *Container) Timestamps(ctx context.Context, detector string) ([]int64, error) {
	query := `
		SELECT time
		FROM radiation_readings
		WHERE group_name = ?
		ORDER BY seq ASC
	`

	rows, err := c.db.QueryContext(ctx, query, detector)
	if err != nil {
		return nil, fmt.Errorf("failed to query timestamps: %w", err)
	}
	defer rows.Close()

	var times []int64
	for rows.Next() {
		var t int64
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan timestamp: %w", err)
		}
		times = append(times, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate timestamps: %w", err)
	}

	if len(times) == 0 {
		return nil, domain.ErrDetectorNotFound
	}
	return times, nil
}

// Spectrum returns the detector's full spectrum table in storage order
func (c *Container) Spectrum(ctx context.Context, detector string) (*domain.Spectrum, error) {
	query := `
		SELECT spectrum
		FROM radiation_readings
		WHERE group_name = ?
		ORDER BY seq ASC
	`

	rows, err := c.db.QueryContext(ctx, query, detector)
	if err != nil {
		return nil, fmt.Errorf("failed to query spectrum: %w", err)
	}
	defer rows.Close()

	spec := &domain.Spectrum{}
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("failed to scan spectrum row: %w", err)
		}

		before := len(spec.Data)
		spec.Data, err = decodeRow(blob, spec.Data)
		if err != nil {
			return nil, err
		}

		width := len(spec.Data) - before
		if spec.Rows == 0 {
			spec.Cols = width
		} else if width != spec.Cols {
			return nil, fmt.Errorf("%w: %s row %d has %d channels, want %d",
				domain.ErrMalformedRecord, detector, spec.Rows, width, spec.Cols)
		}
		spec.Rows++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate spectrum: %w", err)
	}

	if spec.Rows == 0 {
		return nil, domain.ErrDetectorNotFound
	}
	return spec, nil
}

// Close closes the database connection
func (c *Container) Close() error {
	return c.db.Close()
}
