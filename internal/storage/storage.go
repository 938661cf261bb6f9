package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Store is a small persistent key-value file. Each value is a JSON document
// stored verbatim under its key. Every Set rewrites the file.
//
// Store is not safe for concurrent use.
type Store struct {
	path   string
	values map[string]json.RawMessage
	logger *slog.Logger
}

// Open loads the store at path. A missing file is an empty store; the file
// and its directory are created on the first Set.
func Open(path string) (*Store, error) {
	s := &Store{
		path:   path,
		values: make(map[string]json.RawMessage),
		logger: slog.With("component", "storage"),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("Storage file not found, starting empty", "path", path)
			return s, nil
		}
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("failed to parse storage file %s: %w", path, err)
	}
	s.logger.Debug("Storage loaded", "path", path, "keys", len(s.values))
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Get returns the raw JSON stored under key.
func (s *Store) Get(key string) ([]byte, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores a JSON document under key and persists the store.
func (s *Store) Set(key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for %q is not valid JSON", key)
	}
	s.values[key] = append(json.RawMessage(nil), value...)
	return s.save()
}

func (s *Store) save() error {
	data, err := json.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("failed to encode storage: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".storage-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}
