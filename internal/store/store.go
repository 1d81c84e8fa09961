package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/deploytrack/deploytrack/internal/delay"
)

// Sentinel error kinds, matched with errors.Is by the CLI and the API layer.
var (
	// ErrNotFound means the deployments file does not exist.
	ErrNotFound = errors.New("deployments file not found")

	// ErrMalformed means the deployments file is not valid JSON.
	ErrMalformed = errors.New("invalid JSON in deployments file")
)

// FileStore reads and writes one deployment collection file.
// All methods are safe for concurrent use; parsed reads are cached until
// Invalidate is called (the fsnotify watcher does this on file changes).
type FileStore struct {
	path string

	mu     sync.RWMutex
	cached *delay.Collection
}

// New creates a FileStore for the collection at path. Nothing is read until
// the first access.
func New(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Get returns the parsed collection, reading from disk only when the cache is
// cold. Callers must not mutate the returned collection.
func (s *FileStore) Get() (*delay.Collection, error) {
	s.mu.RLock()
	c := s.cached
	s.mu.RUnlock()
	if c != nil {
		return c, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil {
		return s.cached, nil
	}
	c, err := s.load()
	if err != nil {
		return nil, err
	}
	s.cached = c
	return c, nil
}

// Load reads and parses the collection from disk, bypassing the cache.
// The calculator uses this so it always works on the current file content.
func (s *FileStore) Load() (*delay.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.load()
	if err != nil {
		return nil, err
	}
	s.cached = c
	return c, nil
}

// Raw returns the current raw file bytes, uncached and unparsed.
func (s *FileStore) Raw() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}
	return data, err
}

// Invalidate drops the cached collection; the next Get re-reads the file.
func (s *FileStore) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// Save atomically rewrites the collection file: full write to a temp file in
// the target directory, then rename over the original. The temp file is
// removed on every failure path. The document is pretty-printed with
// non-ASCII and HTML characters left verbatim.
func (s *FileStore) Save(c *delay.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("store: create temp file in %q: %w", dir, err)
	}
	tmpName := tmp.Name()

	enc := json.NewEncoder(tmp)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("store: encode collection: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: flush temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: replace %q: %w", s.path, err)
	}

	s.cached = c
	return nil
}

// load reads and parses the file. Callers hold the write lock.
func (s *FileStore) load() (*delay.Collection, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %q: %w", s.path, err)
	}

	var c delay.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &c, nil
}
