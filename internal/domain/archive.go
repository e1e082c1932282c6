package domain

import (
	"context"
)

// SourceLister enumerates acquisition files.
// This is a PORT - adapters (filesystem, memory) will implement it
type SourceLister interface {
	// ListSourceFiles returns files ordered lexicographically by path.
	// The order defines row order in extraction results.
	ListSourceFiles(ctx context.Context) ([]SourceFile, error)
}

// ContainerOpener opens one source file for reading
type ContainerOpener interface {
	Open(ctx context.Context, file SourceFile) (Container, error)
}

// Container is a read-only view of one opened source file.
// Callers must Close it once done.
type Container interface {
	// Keys returns the top-level named records in the file
	Keys(ctx context.Context) ([]string, error)

	// Timestamps returns the sample times of a detector.
	// Returns ErrDetectorNotFound if the file holds no record for it.
	Timestamps(ctx context.Context, detector string) ([]int64, error)

	// Spectrum returns the detector's full spectrum table, one row per timestamp
	Spectrum(ctx context.Context, detector string) (*Spectrum, error)

	// Close releases the underlying file
	Close() error
}
