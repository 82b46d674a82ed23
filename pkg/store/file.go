package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/grovetools/companion/errors"
)

// fileEntry is the on-disk form of a blob. Values are embedded as JSON so
// the document stays readable.
type fileEntry struct {
	Data      json.RawMessage `json:"data"`
	Revision  int64           `json:"revision"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// FileStore keeps every blob in one JSON document. Only JSON values can be
// stored. A missing file is an empty store.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store backed by the JSON document at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the document location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) load() (map[string]fileEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]fileEntry), nil
		}
		return nil, errors.Storage("read", s.path, err)
	}

	entries := make(map[string]fileEntry)
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.CorruptData(s.path, err)
	}
	return entries, nil
}

func (s *FileStore) save(entries map[string]fileEntry) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *FileStore) Read(_ context.Context, key string) (Blob, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return Blob{}, false, err
	}
	entry, ok := entries[key]
	if !ok {
		return Blob{}, false, nil
	}
	return Blob{Data: []byte(entry.Data), Revision: entry.Revision, UpdatedAt: entry.UpdatedAt}, true, nil
}

func (s *FileStore) Write(_ context.Context, key string, data []byte, expectedRevision int64) (int64, error) {
	if !json.Valid(data) {
		return 0, errors.InvalidInput(fmt.Sprintf("file store only holds JSON values (key '%s')", key))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return 0, err
	}

	current := entries[key].Revision
	if current != expectedRevision {
		return 0, errors.RevisionConflict(key, expectedRevision, current)
	}

	next := current + 1
	entries[key] = fileEntry{
		Data:      append(json.RawMessage(nil), data...),
		Revision:  next,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.save(entries); err != nil {
		return 0, errors.Storage("write", key, err)
	}
	return next, nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	if err := s.save(entries); err != nil {
		return errors.Storage("delete", key, err)
	}
	return nil
}

func (s *FileStore) Keys(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FileStore) Close() error { return nil }
