package ports

import (
	"context"

	"novabank/internal/core/domain"
)

// SnapshotStore persists the full ledger snapshot. The ledger hands the
// store the complete updated snapshot after every mutation; there are no
// partial writes.
type SnapshotStore interface {
	// Load returns the persisted snapshot, or (nil, nil) when none exists yet.
	Load(ctx context.Context) (*domain.Snapshot, error)
	// Save replaces the persisted snapshot wholesale.
	Save(ctx context.Context, snap domain.Snapshot) error
}

// RateSource supplies a fresh rate table from an external provider.
type RateSource interface {
	Fetch(ctx context.Context) (domain.RateTable, error)
}

// HealthChecker checks external dependency health.
type HealthChecker interface {
	// Ping verifies connectivity. Returns nil if healthy.
	Ping(ctx context.Context) error
	// Name returns the dependency name (e.g., "postgresql", "redis").
	Name() string
}
