package sync

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopmetrics/backend/internal/application/ingest"
	"github.com/shopmetrics/backend/internal/domain/identity"
	"github.com/shopmetrics/backend/internal/domain/integration"
	"github.com/shopmetrics/backend/internal/domain/shared"
)

// Mode selects how much history a sync run pulls
type Mode string

const (
	// ModeFull pulls the store's entire history, ignoring stored cursors
	ModeFull Mode = "full"
	// ModeIncremental pulls records changed since the stored cursors
	ModeIncremental Mode = "incremental"
)

// KindSummary reports the outcome for one entity kind. A kind that could
// not be pulled at all carries the error; upsert-level failures are counted
// in the batch result instead.
type KindSummary struct {
	ingest.BatchResult
	Error string `json:"error,omitempty"`
}

// Summary reports the outcome of one sync run
type Summary struct {
	TenantID    uuid.UUID   `json:"tenant_id"`
	Mode        Mode        `json:"mode"`
	StartedAt   time.Time   `json:"started_at"`
	CompletedAt time.Time   `json:"completed_at"`
	Customers   KindSummary `json:"customers"`
	Orders      KindSummary `json:"orders"`
	Products    KindSummary `json:"products"`
}

// Totals aggregates all kinds into one batch result
func (s *Summary) Totals() ingest.BatchResult {
	var total ingest.BatchResult
	total.Merge(s.Customers.BatchResult)
	total.Merge(s.Orders.BatchResult)
	total.Merge(s.Products.BatchResult)
	return total
}

// AllKindsFailed reports whether no entity kind could be pulled
func (s *Summary) AllKindsFailed() bool {
	return s.Customers.Error != "" && s.Orders.Error != "" && s.Products.Error != ""
}

func (s *Summary) kindSummary(kind identity.EntityKind) *KindSummary {
	switch kind {
	case identity.EntityKindCustomer:
		return &s.Customers
	case identity.EntityKindOrder:
		return &s.Orders
	default:
		return &s.Products
	}
}

// Ingestor is the slice of the upsert pipeline the orchestrator needs
type Ingestor interface {
	UpsertCustomers(ctx context.Context, tenantID uuid.UUID, records []integration.ExternalCustomer) ingest.BatchResult
	UpsertOrders(ctx context.Context, tenantID uuid.UUID, records []integration.ExternalOrder) ingest.BatchResult
	UpsertProducts(ctx context.Context, tenantID uuid.UUID, records []integration.ExternalProduct) ingest.BatchResult
}

// Service orchestrates paginated pulls from the external platform into the
// record store. At most one run per tenant executes at a time; the claim is
// held in the database, so the exclusion spans processes.
type Service struct {
	tenants  identity.TenantRepository
	platform integration.CommercePlatform
	ingestor Ingestor
	logger   *zap.Logger
	pageSize int
}

// NewService creates a sync orchestrator
func NewService(
	tenants identity.TenantRepository,
	platform integration.CommercePlatform,
	ingestor Ingestor,
	pageSize int,
	logger *zap.Logger,
) *Service {
	if pageSize <= 0 || pageSize > 250 {
		pageSize = 250
	}
	return &Service{
		tenants:  tenants,
		platform: platform,
		ingestor: ingestor,
		logger:   logger,
		pageSize: pageSize,
	}
}

// Status is the observable sync state of a tenant
type Status struct {
	SyncStatus  identity.SyncStatus  `json:"sync_status"`
	LastSyncAt  *time.Time           `json:"last_sync_at,omitempty"`
	IsConnected bool                 `json:"is_connected"`
	Cursors     identity.SyncCursors `json:"cursors"`
}

// GetStatus returns the tenant's current sync state
func (s *Service) GetStatus(ctx context.Context, tenantID uuid.UUID) (*Status, error) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return &Status{
		SyncStatus:  tenant.SyncStatus,
		LastSyncAt:  tenant.LastSyncAt,
		IsConnected: tenant.IsConnected(),
		Cursors:     tenant.Cursors,
	}, nil
}

// FullSync pulls the store's entire history
func (s *Service) FullSync(ctx context.Context, tenantID uuid.UUID) (*Summary, error) {
	return s.run(ctx, tenantID, ModeFull)
}

// IncrementalSync pulls records changed since the stored cursors. Kinds
// without a cursor fall back to a full pull of that kind.
func (s *Service) IncrementalSync(ctx context.Context, tenantID uuid.UUID) (*Summary, error) {
	return s.run(ctx, tenantID, ModeIncremental)
}

func (s *Service) run(ctx context.Context, tenantID uuid.UUID, mode Mode) (*Summary, error) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !tenant.IsConnected() {
		return nil, shared.ErrStoreNotConnected
	}

	if err := s.tenants.ClaimSync(ctx, tenantID); err != nil {
		return nil, err
	}

	summary := &Summary{
		TenantID:  tenantID,
		Mode:      mode,
		StartedAt: time.Now(),
	}

	creds := integration.StoreCredentials{
		StoreDomain: tenant.StoreDomain,
		AccessToken: tenant.AccessToken,
	}

	// Kinds sync independently: an unreachable orders listing must not
	// block customer and product data from landing.
	for _, kind := range identity.AllEntityKinds() {
		kindResult := summary.kindSummary(kind)

		var since *time.Time
		if mode == ModeIncremental {
			since = tenant.CursorFor(kind)
		}

		result, err := s.syncKind(ctx, tenant, creds, kind, since)
		kindResult.BatchResult = result
		if err != nil {
			kindResult.Error = err.Error()
			s.logger.Error("Entity sync failed",
				zap.String("tenant_id", tenantID.String()),
				zap.String("kind", kind.String()),
				zap.String("mode", string(mode)),
				zap.Error(err),
			)
		}
	}

	summary.CompletedAt = time.Now()

	status := identity.SyncStatusIdle
	var lastSyncAt *time.Time
	if summary.AllKindsFailed() {
		status = identity.SyncStatusFailed
	} else {
		completed := summary.CompletedAt
		lastSyncAt = &completed
	}

	if err := s.tenants.ReleaseSync(ctx, tenantID, status, lastSyncAt); err != nil {
		s.logger.Error("Failed to release sync claim",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
		return summary, err
	}

	totals := summary.Totals()
	s.logger.Info("Sync run finished",
		zap.String("tenant_id", tenantID.String()),
		zap.String("mode", string(mode)),
		zap.String("status", string(status)),
		zap.Int("created", totals.Created),
		zap.Int("updated", totals.Updated),
		zap.Int("skipped", totals.Skipped),
		zap.Int("failed", totals.Failed),
	)
	return summary, nil
}

// syncKind pulls every page of one entity kind. The cursor advances only
// after a page has been durably upserted, so an interrupted run replays at
// most one page; the idempotent upsert absorbs the replay.
func (s *Service) syncKind(ctx context.Context, tenant *identity.Tenant, creds integration.StoreCredentials, kind identity.EntityKind, since *time.Time) (ingest.BatchResult, error) {
	var total ingest.BatchResult

	req := integration.PageRequest{
		UpdatedAtMin: since,
		Limit:        s.pageSize,
	}

	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		pageResult, lastID, watermark, hasMore, err := s.pullAndUpsert(ctx, tenant.ID, creds, kind, req)
		if err != nil {
			return total, err
		}
		total.Merge(pageResult)

		if watermark != nil {
			tenant.AdvanceCursor(kind, *watermark)
			if err := s.tenants.SaveCursors(ctx, tenant.ID, tenant.Cursors); err != nil {
				s.logger.Warn("Failed to persist sync cursor",
					zap.String("tenant_id", tenant.ID.String()),
					zap.String("kind", kind.String()),
					zap.Error(err),
				)
			}
		}

		// a page that does not advance since_id would loop forever
		if !hasMore || lastID <= req.SinceID {
			return total, nil
		}
		req.SinceID = lastID
	}
}

// pullAndUpsert fetches one page and writes it, returning the page's batch
// result, the highest record ID, the highest update watermark, and whether
// more pages remain
func (s *Service) pullAndUpsert(ctx context.Context, tenantID uuid.UUID, creds integration.StoreCredentials, kind identity.EntityKind, req integration.PageRequest) (ingest.BatchResult, int64, *time.Time, bool, error) {
	switch kind {
	case identity.EntityKindCustomer:
		page, err := s.platform.PullCustomers(ctx, creds, req)
		if err != nil {
			return ingest.BatchResult{}, 0, nil, false, err
		}
		var lastID int64
		var watermark *time.Time
		for i := range page.Records {
			lastID = maxInt64(lastID, page.Records[i].ID)
			watermark = laterTime(watermark, page.Records[i].UpdatedAt)
		}
		result := s.ingestor.UpsertCustomers(ctx, tenantID, page.Records)
		return result, lastID, watermark, page.HasMore, nil

	case identity.EntityKindOrder:
		page, err := s.platform.PullOrders(ctx, creds, req)
		if err != nil {
			return ingest.BatchResult{}, 0, nil, false, err
		}
		var lastID int64
		var watermark *time.Time
		for i := range page.Records {
			lastID = maxInt64(lastID, page.Records[i].ID)
			watermark = laterTime(watermark, page.Records[i].UpdatedAt)
		}
		result := s.ingestor.UpsertOrders(ctx, tenantID, page.Records)
		return result, lastID, watermark, page.HasMore, nil

	default:
		page, err := s.platform.PullProducts(ctx, creds, req)
		if err != nil {
			return ingest.BatchResult{}, 0, nil, false, err
		}
		var lastID int64
		var watermark *time.Time
		for i := range page.Records {
			lastID = maxInt64(lastID, page.Records[i].ID)
			watermark = laterTime(watermark, page.Records[i].UpdatedAt)
		}
		result := s.ingestor.UpsertProducts(ctx, tenantID, page.Records)
		return result, lastID, watermark, page.HasMore, nil
	}
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func laterTime(current, candidate *time.Time) *time.Time {
	if candidate == nil {
		return current
	}
	if current == nil || candidate.After(*current) {
		return candidate
	}
	return current
}
