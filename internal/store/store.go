// Package store provides keyed persistence for demo records. Backends share
// one interface so tests can substitute an isolated in-memory instance and
// deployments can pick sqlite or postgres via DSN.
package store

import (
	"context"
	"strings"

	"github.com/demoforge/demo-orchestrator/internal/models"
)

// DemoStore is the keyed map from demo identifier to demo record. All
// implementations are safe for concurrent use.
type DemoStore interface {
	// Create inserts a new demo record.
	Create(ctx context.Context, demo *models.Demo) error
	// Get returns the stored demo, or *models.NotFoundError when the
	// identifier is unknown.
	Get(ctx context.Context, id string) (*models.Demo, error)
	// Update replaces the stored record for the demo's identifier.
	Update(ctx context.Context, demo *models.Demo) error
	// Ping reports backend connectivity for readiness probes.
	Ping(ctx context.Context) error
	// Close releases backend resources.
	Close() error
}

// Open selects a backend from the DSN: empty for in-memory, a postgres URL
// for pgx, anything else is treated as a sqlite file path.
func Open(ctx context.Context, dsn string) (DemoStore, error) {
	switch {
	case dsn == "":
		return NewMemoryStore(), nil
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		return NewPostgresStore(ctx, dsn)
	default:
		return NewSQLiteStore(dsn)
	}
}
