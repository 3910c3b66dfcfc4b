package identity

import (
	"strings"
	"time"

	"github.com/shopmetrics/backend/internal/domain/shared"
)

// TenantStatus represents the status of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusInactive  TenantStatus = "inactive"
	TenantStatusSuspended TenantStatus = "suspended"
)

// SyncStatus represents the state of a tenant's store synchronization
type SyncStatus string

const (
	SyncStatusIdle    SyncStatus = "idle"
	SyncStatusRunning SyncStatus = "running"
	SyncStatusFailed  SyncStatus = "failed"
)

// SyncCursors holds the per-entity incremental sync watermarks.
// A cursor is advanced only after the page it covers has been durably
// upserted, so replaying from the cursor is always safe.
type SyncCursors struct {
	Customers *time.Time `json:"customers,omitempty"`
	Orders    *time.Time `json:"orders,omitempty"`
	Products  *time.Time `json:"products,omitempty"`
}

// Tenant represents an isolated store owning its own commerce records.
// It is the aggregate root for store connection and sync state.
type Tenant struct {
	shared.BaseEntity
	Name          string
	Domain        string
	Currency      string
	Status        TenantStatus
	StoreDomain   string
	AccessToken   string
	WebhookSecret string
	LastSyncAt    *time.Time
	SyncStatus    SyncStatus
	Cursors       SyncCursors
}

// NewTenant creates a new tenant with required fields
func NewTenant(name, domain string) (*Tenant, error) {
	name = strings.TrimSpace(name)
	domain = strings.ToLower(strings.TrimSpace(domain))
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TENANT_NAME", "Tenant name is required")
	}
	if domain == "" {
		return nil, shared.NewDomainError("INVALID_TENANT_DOMAIN", "Tenant domain is required")
	}

	return &Tenant{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Domain:     domain,
		Currency:   "USD",
		Status:     TenantStatusActive,
		SyncStatus: SyncStatusIdle,
	}, nil
}

// ConnectStore attaches external store credentials to the tenant
func (t *Tenant) ConnectStore(storeDomain, accessToken, webhookSecret string) error {
	storeDomain = strings.ToLower(strings.TrimSpace(storeDomain))
	if storeDomain == "" {
		return shared.NewDomainError("INVALID_STORE_DOMAIN", "Store domain is required")
	}
	if accessToken == "" {
		return shared.NewDomainError("INVALID_ACCESS_TOKEN", "Access token is required")
	}
	t.StoreDomain = storeDomain
	t.AccessToken = accessToken
	t.WebhookSecret = webhookSecret
	t.UpdatedAt = time.Now()
	return nil
}

// IsConnected returns true if the tenant has external store credentials
func (t *Tenant) IsConnected() bool {
	return t.AccessToken != ""
}

// IsActive returns true if the tenant is active
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// BeginSync transitions the tenant into the running sync state.
// Returns ErrSyncInProgress if a sync is already running.
func (t *Tenant) BeginSync() error {
	if t.SyncStatus == SyncStatusRunning {
		return shared.ErrSyncInProgress
	}
	if !t.IsConnected() {
		return shared.ErrStoreNotConnected
	}
	t.SyncStatus = SyncStatusRunning
	t.UpdatedAt = time.Now()
	return nil
}

// CompleteSync records a successful sync completion
func (t *Tenant) CompleteSync(at time.Time) {
	t.SyncStatus = SyncStatusIdle
	t.LastSyncAt = &at
	t.UpdatedAt = time.Now()
}

// FailSync records a terminal sync failure
func (t *Tenant) FailSync() {
	t.SyncStatus = SyncStatusFailed
	t.UpdatedAt = time.Now()
}

// AdvanceCursor moves the incremental watermark for one entity kind forward.
// Moving a cursor backwards is a no-op.
func (t *Tenant) AdvanceCursor(kind EntityKind, watermark time.Time) {
	target := t.cursorFor(kind)
	if *target != nil && (*target).After(watermark) {
		return
	}
	w := watermark
	*target = &w
	t.UpdatedAt = time.Now()
}

// CursorFor returns the current incremental watermark for one entity kind
func (t *Tenant) CursorFor(kind EntityKind) *time.Time {
	return *t.cursorFor(kind)
}

func (t *Tenant) cursorFor(kind EntityKind) **time.Time {
	switch kind {
	case EntityKindCustomer:
		return &t.Cursors.Customers
	case EntityKindOrder:
		return &t.Cursors.Orders
	default:
		return &t.Cursors.Products
	}
}

// EntityKind identifies one of the synchronized commerce entity types
type EntityKind string

const (
	EntityKindCustomer EntityKind = "customer"
	EntityKindOrder    EntityKind = "order"
	EntityKindProduct  EntityKind = "product"
)

// IsValid returns true if the entity kind is recognized
func (k EntityKind) IsValid() bool {
	switch k {
	case EntityKindCustomer, EntityKindOrder, EntityKindProduct:
		return true
	default:
		return false
	}
}

// String returns the string representation of EntityKind
func (k EntityKind) String() string {
	return string(k)
}

// AllEntityKinds lists the synchronized entity kinds in sync order.
// Customers come first so orders can resolve their customer links.
func AllEntityKinds() []EntityKind {
	return []EntityKind{EntityKindCustomer, EntityKindOrder, EntityKindProduct}
}
