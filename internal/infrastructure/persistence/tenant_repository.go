package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopmetrics/backend/internal/domain/identity"
	"github.com/shopmetrics/backend/internal/domain/shared"
	"github.com/shopmetrics/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTenantRepository implements TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant by its ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDomain finds a tenant by its dashboard domain
func (r *GormTenantRepository) FindByDomain(ctx context.Context, domain string) (*identity.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).
		Where("domain = ?", strings.ToLower(domain)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByStoreDomain finds a tenant by its connected store domain.
// Webhook deliveries resolve their tenant through this lookup.
func (r *GormTenantRepository) FindByStoreDomain(ctx context.Context, storeDomain string) (*identity.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).
		Where("store_domain = ?", strings.ToLower(storeDomain)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindConnected finds all active tenants with store credentials
func (r *GormTenantRepository) FindConnected(ctx context.Context) ([]identity.Tenant, error) {
	var tenantModels []models.TenantModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND access_token <> ''", identity.TenantStatusActive).
		Order("created_at ASC").
		Find(&tenantModels).Error; err != nil {
		return nil, err
	}

	tenants := make([]identity.Tenant, len(tenantModels))
	for i, model := range tenantModels {
		tenants[i] = *model.ToDomain()
	}
	return tenants, nil
}

// Save creates or updates a tenant
func (r *GormTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	model := models.TenantModelFromDomain(tenant)
	return r.db.WithContext(ctx).Save(model).Error
}

// ClaimSync atomically flips sync_status to running. The conditional UPDATE
// is the cross-process mutual exclusion point: exactly one caller observes
// RowsAffected == 1, everyone else gets ErrSyncInProgress.
func (r *GormTenantRepository) ClaimSync(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.TenantModel{}).
		Where("id = ? AND sync_status <> ?", id, identity.SyncStatusRunning).
		Updates(map[string]any{
			"sync_status": string(identity.SyncStatusRunning),
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Either the tenant does not exist or a sync already holds the claim
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.TenantModel{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrSyncInProgress
	}
	return nil
}

// ReleaseSync records the terminal state of a sync run
func (r *GormTenantRepository) ReleaseSync(ctx context.Context, id uuid.UUID, status identity.SyncStatus, lastSyncAt *time.Time) error {
	updates := map[string]any{
		"sync_status": string(status),
		"updated_at":  time.Now(),
	}
	if lastSyncAt != nil {
		updates["last_sync_at"] = *lastSyncAt
	}

	result := r.db.WithContext(ctx).
		Model(&models.TenantModel{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SaveCursors persists the per-entity incremental watermarks
func (r *GormTenantRepository) SaveCursors(ctx context.Context, id uuid.UUID, cursors identity.SyncCursors) error {
	result := r.db.WithContext(ctx).
		Model(&models.TenantModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"customers_cursor": cursors.Customers,
			"orders_cursor":    cursors.Orders,
			"products_cursor":  cursors.Products,
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormTenantRepository implements TenantRepository
var _ identity.TenantRepository = (*GormTenantRepository)(nil)
