package sqlite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/quentinrf/spectrum-reader/internal/ports"
)

// SessionStore implements ports.SessionStore, one .db file per session
type SessionStore struct {
	dir string
}

// NewSessionStore creates dir if needed
func NewSessionStore(dir string) (*SessionStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &SessionStore{dir: dir}, nil
}

// Create opens a new session file named <name>.db. An existing session is
// never reopened, so samples cannot be written twice.
func (s *SessionStore) Create(ctx context.Context, name string) (ports.SessionWriter, error) {
	path := filepath.Join(s.dir, name+".db")
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("session %s: %w", path, fs.ErrExist)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to check session %s: %w", path, err)
	}
	return NewSessionWriter(path)
}
