package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/shopmetrics/backend/internal/domain/commerce"
	"github.com/shopmetrics/backend/internal/domain/shared"
	"github.com/shopmetrics/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// customerUpsertColumns are the synchronized fields overwritten on conflict.
// Identity columns (id, tenant_id, external_id, created_at) are never touched.
var customerUpsertColumns = []string{
	"name", "email", "total_spent", "orders_count", "location",
	"segment", "phone", "tags", "external_updated_at", "updated_at",
}

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByIDForTenant finds a customer by ID within a tenant
func (r *GormCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*commerce.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExternalID finds a synchronized customer by its platform ID
func (r *GormCustomerRepository) FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID int64) (*commerce.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND external_id = ?", tenantID, externalID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all customers for a tenant matching the options
func (r *GormCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, opts shared.QueryOptions) ([]commerce.Customer, error) {
	var customerModels []models.CustomerModel
	query := r.applyOptions(
		r.db.WithContext(ctx).Model(&models.CustomerModel{}).Where("tenant_id = ?", tenantID),
		opts,
	)
	query = query.Order(orderClause("customers", opts)).
		Offset(opts.Offset()).
		Limit(opts.PageSize)

	if err := query.Find(&customerModels).Error; err != nil {
		return nil, err
	}

	customers := make([]commerce.Customer, len(customerModels))
	for i, model := range customerModels {
		customers[i] = *model.ToDomain()
	}
	return customers, nil
}

// CountForTenant counts customers for a tenant matching the options
func (r *GormCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, opts shared.QueryOptions) (int64, error) {
	var count int64
	query := r.applyOptions(
		r.db.WithContext(ctx).Model(&models.CustomerModel{}).Where("tenant_id = ?", tenantID),
		opts,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *commerce.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	return r.db.WithContext(ctx).Save(model).Error
}

// Upsert inserts or overwrites a synchronized customer keyed by
// (tenant_id, external_id). Stale payloads, whose external timestamp is
// older than the stored one, are skipped without a write.
func (r *GormCustomerRepository) Upsert(ctx context.Context, customer *commerce.Customer) (commerce.UpsertOutcome, error) {
	if customer.ExternalID == nil {
		return commerce.UpsertSkipped, shared.NewDomainError("MISSING_EXTERNAL_ID", "Upsert requires an external ID")
	}

	existing, err := r.FindByExternalID(ctx, customer.TenantID, *customer.ExternalID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return commerce.UpsertSkipped, err
	}

	if existing != nil {
		if isStale(customer.ExternalUpdatedAt, existing.ExternalUpdatedAt) {
			return commerce.UpsertSkipped, nil
		}
		model := models.CustomerModelFromDomain(customer)
		model.ID = existing.ID
		model.CreatedAt = existing.CreatedAt
		if err := r.db.WithContext(ctx).
			Model(&models.CustomerModel{}).
			Where("id = ?", existing.ID).
			Select(customerUpsertColumns).
			Updates(model).Error; err != nil {
			return commerce.UpsertSkipped, err
		}
		return commerce.UpsertUpdated, nil
	}

	// Concurrent inserts of the same external record converge on one row
	model := models.CustomerModelFromDomain(customer)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns(customerUpsertColumns),
		}).
		Create(model).Error; err != nil {
		return commerce.UpsertSkipped, err
	}
	return commerce.UpsertCreated, nil
}

// DeleteForTenant deletes a customer within a tenant
func (r *GormCustomerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CustomerModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyOptions applies search and column filters to the query
func (r *GormCustomerRepository) applyOptions(query *gorm.DB, opts shared.QueryOptions) *gorm.DB {
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}
	if opts.Segment != "" {
		query = query.Where("segment = ?", opts.Segment)
	}
	if opts.DateFrom != nil {
		query = query.Where("created_at >= ?", *opts.DateFrom)
	}
	if opts.DateTo != nil {
		query = query.Where("created_at <= ?", *opts.DateTo)
	}
	return query
}

// isStale reports whether an incoming external timestamp is strictly older
// than the stored one. Records without timestamps are never considered stale.
func isStale(incoming, stored *time.Time) bool {
	if incoming == nil || stored == nil {
		return false
	}
	return incoming.Before(*stored)
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ commerce.CustomerRepository = (*GormCustomerRepository)(nil)
