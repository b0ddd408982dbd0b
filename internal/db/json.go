package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-json"

	"github.com/javiermolinar/onduty/internal/roster"
)

// ErrNoSnapshot is returned when no snapshot file can be resolved.
var ErrNoSnapshot = errors.New("no snapshot file found")

// snapshot is the on-disk document: {"channels": [...]}.
type snapshot struct {
	Channels []*roster.Channel `json:"channels"`
}

// JSONStore implements roster.Repository on a JSON snapshot file.
//
// When Pattern is set, Load reads the lexicographically greatest file
// matching it and Save writes back to that same file (or Path when no file
// matches). Callers wanting "latest" semantics should use sortable names such
// as channels-20250101T0900.json.
type JSONStore struct {
	Path    string
	Pattern string
}

// NewJSONStore creates a store for a fixed path and an optional glob pattern.
func NewJSONStore(path, pattern string) *JSONStore {
	return &JSONStore{Path: path, Pattern: pattern}
}

// Resolve returns the snapshot file to use.
func (s *JSONStore) Resolve() (string, error) {
	if s.Pattern != "" {
		matches, err := filepath.Glob(s.Pattern)
		if err != nil {
			return "", fmt.Errorf("matching snapshot pattern: %w", err)
		}
		if len(matches) > 0 {
			sort.Strings(matches)
			return matches[len(matches)-1], nil
		}
	}
	if s.Path == "" {
		return "", ErrNoSnapshot
	}
	return s.Path, nil
}

// Load reads the resolved snapshot. A document without "channels" is empty.
func (s *JSONStore) Load(_ context.Context) (*roster.Directory, error) {
	path, err := s.Resolve()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var doc snapshot
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}

	return roster.NewDirectory(doc.Channels...), nil
}

// Save writes the directory to the resolved snapshot via a temp file rename.
func (s *JSONStore) Save(_ context.Context, d *roster.Directory) error {
	path, err := s.Resolve()
	if err != nil {
		return err
	}

	data, err := MarshalSnapshot(d)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}

	return nil
}

// MarshalSnapshot renders d as an indented snapshot document.
func MarshalSnapshot(d *roster.Directory) ([]byte, error) {
	data, err := json.MarshalIndent(snapshot{Channels: d.List()}, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshaling snapshot: %w", err)
	}
	return data, nil
}

// Close is a no-op for file snapshots.
func (s *JSONStore) Close() error {
	return nil
}
