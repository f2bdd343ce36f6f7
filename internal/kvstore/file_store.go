package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/allisson/queryowl/internal/errors"
)

const (
	fileMode = 0o600
	dirMode  = 0o700
)

// FileStore keeps a whole store in memory and persists it as one JSON object
// in a single file.
//
// A missing file is an empty store. Flush writes a temporary sibling file and
// renames it over the original, so a crash never leaves a half-written store.
// doc always mirrors the file; staged values move into it only after the rename.
type FileStore struct {
	path string

	mu      sync.RWMutex
	doc     map[string]json.RawMessage
	pending map[string]json.RawMessage
}

// OpenFileStore loads the store kept at path. It fails if the file exists but
// does not hold a JSON object.
func OpenFileStore(path string) (*FileStore, error) {
	doc := make(map[string]json.RawMessage)

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, apperrors.Wrapf(err, "failed to read store file %s", path)
	case len(data) > 0:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, apperrors.Wrapf(err, "failed to parse store file %s", path)
		}
		if doc == nil {
			doc = make(map[string]json.RawMessage)
		}
	}

	return &FileStore{path: path, doc: doc, pending: make(map[string]json.RawMessage)}, nil
}

// Path returns the file backing the store.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns a copy of the staged value for key, or of the persisted one.
func (s *FileStore) Get(_ context.Context, key string) (json.RawMessage, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.pending[key]
	if !ok {
		value, ok = s.doc[key]
	}
	if !ok {
		return nil, false, nil
	}
	return cloneValue(value), true, nil
}

// Set stages value under key.
func (s *FileStore) Set(_ context.Context, key string, value json.RawMessage) error {
	if err := validateValue(value); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[key] = cloneValue(value)
	return nil
}

// Flush writes the persisted document plus every staged value to disk. Staged
// values are discarded whether or not the write succeeds, so a failed Flush
// leaves Get reporting what the file holds.
func (s *FileStore) Flush(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return nil
	}
	defer clear(s.pending)

	next := maps.Clone(s.doc)
	maps.Copy(next, s.pending)

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return apperrors.Wrap(err, "failed to encode store")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return apperrors.Wrap(err, "failed to create store directory")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, fileMode); err != nil {
		return apperrors.Wrap(err, "failed to write store file")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return apperrors.Wrap(err, "failed to replace store file")
	}

	s.doc = next
	return nil
}

// Close drops staged values.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.pending)
	return nil
}

// FileOpener opens file stores inside a data directory.
type FileOpener struct {
	dir string
}

// NewFileOpener creates an Opener that maps a store name to dir/name.
func NewFileOpener(dir string) *FileOpener {
	return &FileOpener{dir: dir}
}

// Open loads the store with the given name.
func (o *FileOpener) Open(_ context.Context, name string) (Store, error) {
	if name == "" || filepath.Base(name) != name {
		return nil, fmt.Errorf("%w: invalid store name %q", apperrors.ErrInvalidInput, name)
	}
	store, err := OpenFileStore(filepath.Join(o.dir, name))
	if err != nil {
		return nil, err
	}
	return store, nil
}
