// Package redis persists the ledger snapshot as a single JSON blob under
// one key, mirroring the original's key-value local storage.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"novabank/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

const defaultSnapshotKey = "novabank:snapshot"

// SnapshotStore implements ports.SnapshotStore on Redis.
type SnapshotStore struct {
	client *goredis.Client
	key    string
}

// NewSnapshotStore creates a Redis-backed snapshot store.
func NewSnapshotStore(client *goredis.Client) *SnapshotStore {
	return &SnapshotStore{client: client, key: defaultSnapshotKey}
}

// Load retrieves the persisted snapshot.
// Returns (nil, nil) if the key does not exist.
func (s *SnapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis snapshot get: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &snap, nil
}

// Save stores the snapshot, replacing any previous value. The blob has no
// TTL: it lives until the next Save or an explicit reset.
func (s *SnapshotStore) Save(ctx context.Context, snap domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis snapshot set: %w", err)
	}
	return nil
}
