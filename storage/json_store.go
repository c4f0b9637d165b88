package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"car-scraper/utils"
)

// JSONStore keeps the seen-set as a JSON array of strings in a single file.
type JSONStore struct {
	path   string
	logger *utils.Logger
}

// NewJSONStore returns a store backed by path. The file and its directory
// are created on the first Save.
func NewJSONStore(path string, logger *utils.Logger) *JSONStore {
	return &JSONStore{path: path, logger: logger}
}

// Load reads the stored IDs. A missing or unreadable file is not an error:
// the bot starts over with an empty set.
func (s *JSONStore) Load(_ context.Context) ([]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("[storage] %s not found, starting with an empty seen-set", s.path)
		return nil, nil
	}
	if err != nil {
		s.logger.Warn("[storage] could not read %s: %v, starting with an empty seen-set", s.path, err)
		return nil, nil
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		s.logger.Warn("[storage] %s is malformed: %v, starting with an empty seen-set", s.path, err)
		return nil, nil
	}
	return ids, nil
}

// Save replaces the file contents with ids. The new content is written to a
// temporary file in the same directory and renamed over the old one.
func (s *JSONStore) Save(_ context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode seen-set: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("storage: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("storage: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storage: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storage: replace %s: %w", s.path, err)
	}
	return nil
}

func (s *JSONStore) Close() error { return nil }
