package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/quentinrf/spectrum-reader/internal/domain"
)

// Lister implements domain.SourceLister over a data directory
type Lister struct {
	root    string
	pattern string
	fsys    fs.FS
}

// NewLister lists regular files under root matching a doublestar pattern
// (e.g. "*" or "**/*.db"), relative to root
func NewLister(root, pattern string) (*Lister, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: bad file pattern %q", domain.ErrInvalidArgument, pattern)
	}

	return &Lister{
		root:    root,
		pattern: pattern,
		fsys:    os.DirFS(root),
	}, nil
}

// ListSourceFiles returns matching files sorted lexicographically by path
func (l *Lister) ListSourceFiles(ctx context.Context) ([]domain.SourceFile, error) {
	matches, err := doublestar.Glob(l.fsys, l.pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", l.root, err)
	}

	sort.Strings(matches)

	files := make([]domain.SourceFile, 0, len(matches))
	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		files = append(files, domain.SourceFile{Path: filepath.Join(l.root, filepath.FromSlash(m))})
	}

	return files, nil
}
