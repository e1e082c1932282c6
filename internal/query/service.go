package query

import (
	"github.com/quentinrf/spectrum-reader/internal/domain"
)

// Service answers catalog and range queries over a set of source files.
// It holds no state between calls; every query re-reads the files it is given.
type Service struct {
	opener  domain.ContainerOpener
	workers int
}

// NewService creates a query service. workers bounds how many files are
// scanned at once during extraction; values below 1 mean sequential.
func NewService(opener domain.ContainerOpener, workers int) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		opener:  opener,
		workers: workers,
	}
}
