package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jwebster45206/life-engine/pkg/catalog"
	"github.com/jwebster45206/life-engine/pkg/session"
)

// Storage defines a unified interface for all storage operations:
// session snapshot persistence (Redis) and catalog loading
// (filesystem). The core hands over opaque snapshots only; a failed
// save must never invalidate the in-memory session.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Session snapshot operations (Redis-backed)
	SaveSession(ctx context.Context, id uuid.UUID, snap *session.Snapshot) error
	LoadSession(ctx context.Context, id uuid.UUID) (*session.Snapshot, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error

	// Catalog operations (filesystem-backed). Catalogs come back
	// normalized; loading problems surface as ErrContentInvalid.
	ListCatalogs(ctx context.Context) ([]string, error)
	GetCatalog(ctx context.Context, name string) (*catalog.Catalog, error)
}
