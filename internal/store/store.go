// Package store persists platform state (users, credits, series, reading
// progress) as JSON files under a data directory. One file per concern,
// guarded by a per-store mutex, written atomically via temp-file rename.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a create collides with an existing entity.
var ErrConflict = errors.New("already exists")

// ErrInsufficientCredits is returned when a debit exceeds the balance.
var ErrInsufficientCredits = errors.New("insufficient credits")

// genID builds a short prefixed identifier, e.g. ser_4f1a2b3c4d.
func genID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

// loadJSONFile decodes path into out. A missing file is not an error; out is
// left untouched so callers start from their zero value.
func loadJSONFile(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// saveJSONFile writes v to path atomically (temp file + rename).
func saveJSONFile(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
