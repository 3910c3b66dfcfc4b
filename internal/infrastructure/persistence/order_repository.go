package persistence

import (
	"context"
	"errors"

	"github.com/shopmetrics/backend/internal/domain/commerce"
	"github.com/shopmetrics/backend/internal/domain/shared"
	"github.com/shopmetrics/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderUpsertColumns are the synchronized fields overwritten on conflict
var orderUpsertColumns = []string{
	"order_number", "customer_id", "customer_name", "amount", "subtotal",
	"tax_amount", "status", "currency", "items_count", "placed_at",
	"external_updated_at", "updated_at",
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByIDForTenant finds an order by ID within a tenant
func (r *GormOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*commerce.Order, error) {
	var model models.OrderModel
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

// FindByExternalID finds a synchronized order by its platform ID
func (r *GormOrderRepository) FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID int64) (*commerce.Order, error) {
	var model models.OrderModel
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

// FindAllForTenant finds all orders for a tenant matching the options
func (r *GormOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, opts shared.QueryOptions) ([]commerce.Order, error) {
	var orderModels []models.OrderModel
	query := r.applyOptions(
		r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("tenant_id = ?", tenantID),
		opts,
	)
	query = query.Order(orderClause("orders", opts)).
		Offset(opts.Offset()).
		Limit(opts.PageSize)

	if err := query.Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]commerce.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// CountForTenant counts orders for a tenant matching the options
func (r *GormOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, opts shared.QueryOptions) (int64, error) {
	var count int64
	query := r.applyOptions(
		r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("tenant_id = ?", tenantID),
		opts,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an order
func (r *GormOrderRepository) Save(ctx context.Context, order *commerce.Order) error {
	model := models.OrderModelFromDomain(order)
	return r.db.WithContext(ctx).Save(model).Error
}

// Upsert inserts or overwrites a synchronized order keyed by
// (tenant_id, external_id), skipping stale payloads.
func (r *GormOrderRepository) Upsert(ctx context.Context, order *commerce.Order) (commerce.UpsertOutcome, error) {
	if order.ExternalID == nil {
		return commerce.UpsertSkipped, shared.NewDomainError("MISSING_EXTERNAL_ID", "Upsert requires an external ID")
	}

	existing, err := r.FindByExternalID(ctx, order.TenantID, *order.ExternalID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return commerce.UpsertSkipped, err
	}

	if existing != nil {
		if isStale(order.ExternalUpdatedAt, existing.ExternalUpdatedAt) {
			return commerce.UpsertSkipped, nil
		}
		model := models.OrderModelFromDomain(order)
		model.ID = existing.ID
		model.CreatedAt = existing.CreatedAt
		if err := r.db.WithContext(ctx).
			Model(&models.OrderModel{}).
			Where("id = ?", existing.ID).
			Select(orderUpsertColumns).
			Updates(model).Error; err != nil {
			return commerce.UpsertSkipped, err
		}
		return commerce.UpsertUpdated, nil
	}

	model := models.OrderModelFromDomain(order)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns(orderUpsertColumns),
		}).
		Create(model).Error; err != nil {
		return commerce.UpsertSkipped, err
	}
	return commerce.UpsertCreated, nil
}

// DeleteForTenant deletes an order within a tenant
func (r *GormOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.OrderModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyOptions applies search and column filters to the query
func (r *GormOrderRepository) applyOptions(query *gorm.DB, opts shared.QueryOptions) *gorm.DB {
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		query = query.Where("order_number ILIKE ? OR customer_name ILIKE ?", pattern, pattern)
	}
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	if opts.DateFrom != nil {
		query = query.Where("placed_at >= ?", *opts.DateFrom)
	}
	if opts.DateTo != nil {
		query = query.Where("placed_at <= ?", *opts.DateTo)
	}
	return query
}

// Ensure GormOrderRepository implements OrderRepository
var _ commerce.OrderRepository = (*GormOrderRepository)(nil)
