package memory

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/quentinrf/spectrum-reader/internal/domain"
	"github.com/quentinrf/spectrum-reader/internal/ports"
)

// Create implements ports.SessionStore; the session becomes a file named name
func (a *Archive) Create(ctx context.Context, name string) (ports.SessionWriter, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.files[name]; ok {
		return nil, fmt.Errorf("session %s: %w", name, fs.ErrExist)
	}
	a.file(name)

	return &sessionWriter{archive: a, path: name}, nil
}

type sessionWriter struct {
	archive *Archive
	path    string
}

func (w *sessionWriter) AddGroup(ctx context.Context, name string) error {
	w.archive.AddGroup(w.path, name)
	return nil
}

func (w *sessionWriter) WriteRecord(ctx context.Context, rec *domain.DetectorRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	w.archive.AddRecord(w.path, rec)
	return nil
}

func (w *sessionWriter) Close() error {
	return nil
}
