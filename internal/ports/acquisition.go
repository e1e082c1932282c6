package ports

import (
	"context"
	"time"

	"github.com/quentinrf/spectrum-reader/internal/domain"
)

// AcquisitionSource defines how detector readings are produced
// This is a PORT - adapters (Mock, hardware) will implement it
type AcquisitionSource interface {
	// Acquire returns samples spaced interval apart starting at start
	Acquire(ctx context.Context, detector string, start time.Time, samples int, interval time.Duration) (*domain.DetectorRecord, error)

	// Close releases any resources
	Close() error
}

// SessionStore creates new acquisition files
type SessionStore interface {
	Create(ctx context.Context, name string) (SessionWriter, error)
}

// SessionWriter fills one acquisition file
type SessionWriter interface {
	AddGroup(ctx context.Context, name string) error
	WriteRecord(ctx context.Context, rec *domain.DetectorRecord) error
	Close() error
}
