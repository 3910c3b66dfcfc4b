package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TenantRepository defines persistence operations for tenants
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByDomain(ctx context.Context, domain string) (*Tenant, error)
	FindByStoreDomain(ctx context.Context, storeDomain string) (*Tenant, error)
	FindConnected(ctx context.Context) ([]Tenant, error)
	Save(ctx context.Context, tenant *Tenant) error

	// ClaimSync atomically flips the tenant's sync status from a non-running
	// state to running. Returns ErrSyncInProgress when another sync already
	// holds the claim. This is the cross-process mutual exclusion point for
	// the sync orchestrator.
	ClaimSync(ctx context.Context, id uuid.UUID) error

	// ReleaseSync records the terminal state of a sync run and, on success,
	// the completion timestamp.
	ReleaseSync(ctx context.Context, id uuid.UUID, status SyncStatus, lastSyncAt *time.Time) error

	// SaveCursors persists the per-entity incremental watermarks.
	SaveCursors(ctx context.Context, id uuid.UUID, cursors SyncCursors) error
}
