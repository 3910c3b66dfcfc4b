package handler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shopmetrics/backend/internal/application/ingest"
	"github.com/shopmetrics/backend/internal/domain/commerce"
	"github.com/shopmetrics/backend/internal/domain/identity"
	"github.com/shopmetrics/backend/internal/domain/integration"
	"github.com/shopmetrics/backend/internal/domain/shared"
)

// stubTenantRepo is an in-memory tenant store for handler tests
type stubTenantRepo struct {
	tenants map[uuid.UUID]*identity.Tenant
}

func newStubTenantRepo(tenants ...*identity.Tenant) *stubTenantRepo {
	repo := &stubTenantRepo{tenants: make(map[uuid.UUID]*identity.Tenant)}
	for _, t := range tenants {
		repo.tenants[t.ID] = t
	}
	return repo
}

func (r *stubTenantRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.Tenant, error) {
	t, ok := r.tenants[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func (r *stubTenantRepo) FindByDomain(_ context.Context, domain string) (*identity.Tenant, error) {
	for _, t := range r.tenants {
		if t.Domain == domain {
			return t, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *stubTenantRepo) FindByStoreDomain(_ context.Context, storeDomain string) (*identity.Tenant, error) {
	for _, t := range r.tenants {
		if t.StoreDomain == storeDomain {
			return t, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *stubTenantRepo) FindConnected(_ context.Context) ([]identity.Tenant, error) {
	var out []identity.Tenant
	for _, t := range r.tenants {
		if t.IsConnected() {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTenantRepo) Save(_ context.Context, tenant *identity.Tenant) error {
	r.tenants[tenant.ID] = tenant
	return nil
}

func (r *stubTenantRepo) ClaimSync(_ context.Context, id uuid.UUID) error {
	t, ok := r.tenants[id]
	if !ok {
		return shared.ErrNotFound
	}
	if t.SyncStatus == identity.SyncStatusRunning {
		return shared.ErrSyncInProgress
	}
	t.SyncStatus = identity.SyncStatusRunning
	return nil
}

func (r *stubTenantRepo) ReleaseSync(_ context.Context, id uuid.UUID, status identity.SyncStatus, lastSyncAt *time.Time) error {
	t, ok := r.tenants[id]
	if !ok {
		return shared.ErrNotFound
	}
	t.SyncStatus = status
	if lastSyncAt != nil {
		t.LastSyncAt = lastSyncAt
	}
	return nil
}

func (r *stubTenantRepo) SaveCursors(_ context.Context, id uuid.UUID, cursors identity.SyncCursors) error {
	t, ok := r.tenants[id]
	if !ok {
		return shared.ErrNotFound
	}
	t.Cursors = cursors
	return nil
}

// stubPlatform returns empty pages for every pull
type stubPlatform struct{}

func (stubPlatform) PullCustomers(context.Context, integration.StoreCredentials, integration.PageRequest) (*integration.Page[integration.ExternalCustomer], error) {
	return &integration.Page[integration.ExternalCustomer]{}, nil
}

func (stubPlatform) PullOrders(context.Context, integration.StoreCredentials, integration.PageRequest) (*integration.Page[integration.ExternalOrder], error) {
	return &integration.Page[integration.ExternalOrder]{}, nil
}

func (stubPlatform) PullProducts(context.Context, integration.StoreCredentials, integration.PageRequest) (*integration.Page[integration.ExternalProduct], error) {
	return &integration.Page[integration.ExternalProduct]{}, nil
}

// stubIngestor counts records without persisting them
type stubIngestor struct{}

func (stubIngestor) UpsertCustomers(_ context.Context, _ uuid.UUID, records []integration.ExternalCustomer) ingest.BatchResult {
	return ingest.BatchResult{Created: len(records)}
}

func (stubIngestor) UpsertOrders(_ context.Context, _ uuid.UUID, records []integration.ExternalOrder) ingest.BatchResult {
	return ingest.BatchResult{Created: len(records)}
}

func (stubIngestor) UpsertProducts(_ context.Context, _ uuid.UUID, records []integration.ExternalProduct) ingest.BatchResult {
	return ingest.BatchResult{Created: len(records)}
}

// stubCache discards everything
type stubCache struct{}

func (stubCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (stubCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (stubCache) Delete(context.Context, string) error                     { return nil }
func (stubCache) DeleteByPrefix(context.Context, string) error             { return nil }
func (stubCache) Close() error                                             { return nil }

// stubCustomerRepo records upserts in memory
type stubCustomerRepo struct {
	upserted []*commerce.Customer
}

func (r *stubCustomerRepo) FindByIDForTenant(context.Context, uuid.UUID, uuid.UUID) (*commerce.Customer, error) {
	return nil, shared.ErrNotFound
}

func (r *stubCustomerRepo) FindByExternalID(context.Context, uuid.UUID, int64) (*commerce.Customer, error) {
	return nil, shared.ErrNotFound
}

func (r *stubCustomerRepo) FindAllForTenant(context.Context, uuid.UUID, shared.QueryOptions) ([]commerce.Customer, error) {
	return nil, nil
}

func (r *stubCustomerRepo) CountForTenant(context.Context, uuid.UUID, shared.QueryOptions) (int64, error) {
	return 0, nil
}

func (r *stubCustomerRepo) Save(context.Context, *commerce.Customer) error { return nil }

func (r *stubCustomerRepo) Upsert(_ context.Context, customer *commerce.Customer) (commerce.UpsertOutcome, error) {
	r.upserted = append(r.upserted, customer)
	return commerce.UpsertCreated, nil
}

func (r *stubCustomerRepo) DeleteForTenant(context.Context, uuid.UUID, uuid.UUID) error { return nil }

// stubOrderRepo records upserts in memory
type stubOrderRepo struct {
	upserted []*commerce.Order
}

func (r *stubOrderRepo) FindByIDForTenant(context.Context, uuid.UUID, uuid.UUID) (*commerce.Order, error) {
	return nil, shared.ErrNotFound
}

func (r *stubOrderRepo) FindByExternalID(context.Context, uuid.UUID, int64) (*commerce.Order, error) {
	return nil, shared.ErrNotFound
}

func (r *stubOrderRepo) FindAllForTenant(context.Context, uuid.UUID, shared.QueryOptions) ([]commerce.Order, error) {
	return nil, nil
}

func (r *stubOrderRepo) CountForTenant(context.Context, uuid.UUID, shared.QueryOptions) (int64, error) {
	return 0, nil
}

func (r *stubOrderRepo) Save(context.Context, *commerce.Order) error { return nil }

func (r *stubOrderRepo) Upsert(_ context.Context, order *commerce.Order) (commerce.UpsertOutcome, error) {
	r.upserted = append(r.upserted, order)
	return commerce.UpsertCreated, nil
}

func (r *stubOrderRepo) DeleteForTenant(context.Context, uuid.UUID, uuid.UUID) error { return nil }

// stubProductRepo records upserts in memory
type stubProductRepo struct {
	upserted []*commerce.Product
}

func (r *stubProductRepo) FindByIDForTenant(context.Context, uuid.UUID, uuid.UUID) (*commerce.Product, error) {
	return nil, shared.ErrNotFound
}

func (r *stubProductRepo) FindByExternalID(context.Context, uuid.UUID, int64) (*commerce.Product, error) {
	return nil, shared.ErrNotFound
}

func (r *stubProductRepo) FindAllForTenant(context.Context, uuid.UUID, shared.QueryOptions) ([]commerce.Product, error) {
	return nil, nil
}

func (r *stubProductRepo) CountForTenant(context.Context, uuid.UUID, shared.QueryOptions) (int64, error) {
	return 0, nil
}

func (r *stubProductRepo) Save(context.Context, *commerce.Product) error { return nil }

func (r *stubProductRepo) Upsert(_ context.Context, product *commerce.Product) (commerce.UpsertOutcome, error) {
	r.upserted = append(r.upserted, product)
	return commerce.UpsertCreated, nil
}

func (r *stubProductRepo) DeleteForTenant(context.Context, uuid.UUID, uuid.UUID) error { return nil }

// stubUserRepo is an in-memory user store keyed by email
type stubUserRepo struct {
	users map[string]*identity.User
}

func newStubUserRepo(users ...*identity.User) *stubUserRepo {
	repo := &stubUserRepo{users: make(map[string]*identity.User)}
	for _, u := range users {
		repo.users[u.Email] = u
	}
	return repo
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (r *stubUserRepo) Save(_ context.Context, user *identity.User) error {
	r.users[user.Email] = user
	return nil
}
