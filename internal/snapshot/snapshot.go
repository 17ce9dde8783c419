// Package snapshot turns the entity store into bytes and back, and keeps the
// portal file on disk.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/huangsam/peloton/internal/store"
	"github.com/huangsam/peloton/schema"
)

// Encode serialises the whole store.
func Encode(s *store.Store) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s.Snapshot()); err != nil {
		return nil, fmt.Errorf("failed to encode portal: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses bytes produced by Encode.
func Decode(data []byte) (*schema.Snapshot, error) {
	var snap schema.Snapshot
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode portal: %w", err)
	}
	return &snap, nil
}

// Load replaces the contents of s with the decoded bytes.
// On error s is left untouched.
func Load(s *store.Store, data []byte) error {
	snap, err := Decode(data)
	if err != nil {
		return err
	}
	return s.Restore(snap)
}

// SaveFile writes the store to path. The file is replaced atomically so a failed
// save never leaves a truncated portal behind.
func SaveFile(s *store.Store, path string) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write portal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write portal: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// LoadFile reads the portal at path into a new store.
// A missing file yields an empty store.
func LoadFile(path string) (*store.Store, error) {
	s := store.New()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := Load(s, data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
