// Package file persists the ledger snapshot as a single JSON document on
// disk. Writes are atomic: the new snapshot goes to a temp file which then
// replaces the previous one, so a crash mid-write never corrupts the blob.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"novabank/internal/core/domain"
)

// SnapshotStore implements ports.SnapshotStore on the local filesystem.
type SnapshotStore struct {
	path string
}

// NewSnapshotStore creates a store writing to the given path. The parent
// directory is created if missing.
func NewSnapshotStore(path string) (*SnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot dir: %w", err)
	}
	return &SnapshotStore{path: path}, nil
}

// Load reads and decodes the persisted snapshot. A missing file means no
// snapshot exists yet and returns (nil, nil).
func (s *SnapshotStore) Load(_ context.Context) (*domain.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &snap, nil
}

// Save serialises the snapshot and atomically replaces the previous file.
func (s *SnapshotStore) Save(_ context.Context, snap domain.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing snapshot file: %w", err)
	}
	return nil
}

// Ping implements ports.HealthChecker by probing the snapshot directory.
func (s *SnapshotStore) Ping(_ context.Context) error {
	_, err := os.Stat(filepath.Dir(s.path))
	return err
}

// Name implements ports.HealthChecker.
func (s *SnapshotStore) Name() string {
	return "file"
}
