package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/quentinrf/spectrum-reader/internal/domain"
)

// File is the in-memory content of one acquisition file.
// A nil record stands for a group that holds no radiation data.
type File struct {
	Records map[string]*domain.DetectorRecord
}

// Archive implements domain.SourceLister and domain.ContainerOpener in memory
// This is perfect for development and tests - no files on disk needed
type Archive struct {
	mu       sync.RWMutex
	files    map[string]*File
	failures map[string]error
}

// NewArchive creates an empty in-memory archive
func NewArchive() *Archive {
	return &Archive{
		files:    make(map[string]*File),
		failures: make(map[string]error),
	}
}

// AddRecord stores a detector record under the given file path
func (a *Archive) AddRecord(path string, rec *domain.DetectorRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.file(path).Records[rec.Detector] = rec
}

// AddGroup declares a top-level key that holds no radiation data
func (a *Archive) AddGroup(path, name string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	f := a.file(path)
	if _, exists := f.Records[name]; !exists {
		f.Records[name] = nil
	}
}

// FailOpen makes every Open of path return err
func (a *Archive) FailOpen(path string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.file(path)
	a.failures[path] = err
}

func (a *Archive) file(path string) *File {
	f, ok := a.files[path]
	if !ok {
		f = &File{Records: make(map[string]*domain.DetectorRecord)}
		a.files[path] = f
	}
	return f
}

// ListSourceFiles returns every file ordered by path
func (a *Archive) ListSourceFiles(ctx context.Context) ([]domain.SourceFile, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	files := make([]domain.SourceFile, 0, len(a.files))
	for path := range a.files {
		files = append(files, domain.SourceFile{Path: path})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}

// Open returns a read-only view of the file
func (a *Archive) Open(ctx context.Context, file domain.SourceFile) (domain.Container, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if err, failing := a.failures[file.Path]; failing {
		return nil, err
	}

	f, exists := a.files[file.Path]
	if !exists {
		return nil, fmt.Errorf("open %s: no such file", file.Path)
	}

	return &container{path: file.Path, file: f, archive: a}, nil
}

type container struct {
	path    string
	file    *File
	archive *Archive
	closed  bool
}

func (c *container) Keys(ctx context.Context) ([]string, error) {
	c.archive.mu.RLock()
	defer c.archive.mu.RUnlock()

	keys := make([]string, 0, len(c.file.Records))
	for k := range c.file.Records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (c *container) record(detector string) (*domain.DetectorRecord, error) {
	if c.closed {
		return nil, fmt.Errorf("read %s: container closed", c.path)
	}

	c.archive.mu.RLock()
	defer c.archive.mu.RUnlock()

	rec := c.file.Records[detector]
	if rec == nil {
		return nil, domain.ErrDetectorNotFound
	}
	return rec, nil
}

func (c *container) Timestamps(ctx context.Context, detector string) ([]int64, error) {
	rec, err := c.record(detector)
	if err != nil {
		return nil, err
	}
	return append([]int64(nil), rec.Timestamps...), nil
}

func (c *container) Spectrum(ctx context.Context, detector string) (*domain.Spectrum, error) {
	rec, err := c.record(detector)
	if err != nil {
		return nil, err
	}
	if rec.Spectrum == nil {
		return nil, fmt.Errorf("%w: %s has no spectrum", domain.ErrMalformedRecord, detector)
	}

	return &domain.Spectrum{
		Rows: rec.Spectrum.Rows,
		Cols: rec.Spectrum.Cols,
		Data: append([]float64(nil), rec.Spectrum.Data...),
	}, nil
}

func (c *container) Close() error {
	c.closed = true
	return nil
}
