// Package postgres persists the ledger snapshot as a JSON blob in a
// single-row table, replaced wholesale on every mutation.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"novabank/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// snapshotRowID is the fixed primary key of the single snapshot row.
const snapshotRowID = 1

// Pool is the subset of pgxpool.Pool the store needs; pgxmock satisfies it.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// SnapshotStore implements ports.SnapshotStore on PostgreSQL.
type SnapshotStore struct {
	pool Pool
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(pool Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

// EnsureSchema creates the snapshots table if it does not exist.
func (s *SnapshotStore) EnsureSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS snapshots (
		id INT PRIMARY KEY,
		data JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("ensure snapshots schema: %w", err)
	}
	return nil
}

// Load fetches the persisted snapshot.
// Returns (nil, nil) when no snapshot row exists yet.
func (s *SnapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	query := `SELECT data FROM snapshots WHERE id = $1`

	var data []byte
	err := s.pool.QueryRow(ctx, query, snapshotRowID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &snap, nil
}

// Save upserts the snapshot row.
func (s *SnapshotStore) Save(ctx context.Context, snap domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	query := `INSERT INTO snapshots (id, data, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`

	if _, err := s.pool.Exec(ctx, query, snapshotRowID, data); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}
