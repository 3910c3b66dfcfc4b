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

// productUpsertColumns are the synchronized fields overwritten on conflict
var productUpsertColumns = []string{
	"name", "category", "price", "inventory", "sales", "sku", "vendor",
	"product_type", "status", "tags", "external_updated_at", "updated_at",
}

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByIDForTenant finds a product by ID within a tenant
func (r *GormProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*commerce.Product, error) {
	var model models.ProductModel
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

// FindByExternalID finds a synchronized product by its platform ID
func (r *GormProductRepository) FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID int64) (*commerce.Product, error) {
	var model models.ProductModel
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

// FindAllForTenant finds all products for a tenant matching the options
func (r *GormProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, opts shared.QueryOptions) ([]commerce.Product, error) {
	var productModels []models.ProductModel
	query := r.applyOptions(
		r.db.WithContext(ctx).Model(&models.ProductModel{}).Where("tenant_id = ?", tenantID),
		opts,
	)
	query = query.Order(orderClause("products", opts)).
		Offset(opts.Offset()).
		Limit(opts.PageSize)

	if err := query.Find(&productModels).Error; err != nil {
		return nil, err
	}

	products := make([]commerce.Product, len(productModels))
	for i, model := range productModels {
		products[i] = *model.ToDomain()
	}
	return products, nil
}

// CountForTenant counts products for a tenant matching the options
func (r *GormProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, opts shared.QueryOptions) (int64, error) {
	var count int64
	query := r.applyOptions(
		r.db.WithContext(ctx).Model(&models.ProductModel{}).Where("tenant_id = ?", tenantID),
		opts,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *commerce.Product) error {
	model := models.ProductModelFromDomain(product)
	return r.db.WithContext(ctx).Save(model).Error
}

// Upsert inserts or overwrites a synchronized product keyed by
// (tenant_id, external_id), skipping stale payloads.
func (r *GormProductRepository) Upsert(ctx context.Context, product *commerce.Product) (commerce.UpsertOutcome, error) {
	if product.ExternalID == nil {
		return commerce.UpsertSkipped, shared.NewDomainError("MISSING_EXTERNAL_ID", "Upsert requires an external ID")
	}

	existing, err := r.FindByExternalID(ctx, product.TenantID, *product.ExternalID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return commerce.UpsertSkipped, err
	}

	if existing != nil {
		if isStale(product.ExternalUpdatedAt, existing.ExternalUpdatedAt) {
			return commerce.UpsertSkipped, nil
		}
		model := models.ProductModelFromDomain(product)
		model.ID = existing.ID
		model.CreatedAt = existing.CreatedAt
		if err := r.db.WithContext(ctx).
			Model(&models.ProductModel{}).
			Where("id = ?", existing.ID).
			Select(productUpsertColumns).
			Updates(model).Error; err != nil {
			return commerce.UpsertSkipped, err
		}
		return commerce.UpsertUpdated, nil
	}

	model := models.ProductModelFromDomain(product)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns(productUpsertColumns),
		}).
		Create(model).Error; err != nil {
		return commerce.UpsertSkipped, err
	}
	return commerce.UpsertCreated, nil
}

// DeleteForTenant deletes a product within a tenant
func (r *GormProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyOptions applies search and column filters to the query
func (r *GormProductRepository) applyOptions(query *gorm.DB, opts shared.QueryOptions) *gorm.DB {
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ?", pattern, pattern)
	}
	if opts.Category != "" {
		query = query.Where("category = ?", opts.Category)
	}
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	return query
}

// Ensure GormProductRepository implements ProductRepository
var _ commerce.ProductRepository = (*GormProductRepository)(nil)
