package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopmetrics/backend/internal/application/analytics"
	"github.com/shopmetrics/backend/internal/domain/commerce"
	"github.com/shopmetrics/backend/internal/domain/integration"
	"github.com/shopmetrics/backend/internal/domain/shared"
)

// BatchResult aggregates upsert outcomes over one batch of records
type BatchResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Total returns the number of records the batch covered
func (r BatchResult) Total() int {
	return r.Created + r.Updated + r.Skipped + r.Failed
}

// Merge adds another batch's counts into this one
func (r *BatchResult) Merge(other BatchResult) {
	r.Created += other.Created
	r.Updated += other.Updated
	r.Skipped += other.Skipped
	r.Failed += other.Failed
}

func (r *BatchResult) record(outcome commerce.UpsertOutcome) {
	switch outcome {
	case commerce.UpsertCreated:
		r.Created++
	case commerce.UpsertUpdated:
		r.Updated++
	case commerce.UpsertSkipped:
		r.Skipped++
	}
}

// UpsertService writes externally sourced records into the tenant's store.
// Writers of the same record key are serialized, stale payloads are skipped,
// and every write invalidates the tenant's cached metrics.
type UpsertService struct {
	customers commerce.CustomerRepository
	orders    commerce.OrderRepository
	products  commerce.ProductRepository
	cache     shared.Cache
	logger    *zap.Logger
	locks     *keyLocks
}

// NewUpsertService creates a new UpsertService
func NewUpsertService(
	customers commerce.CustomerRepository,
	orders commerce.OrderRepository,
	products commerce.ProductRepository,
	cache shared.Cache,
	logger *zap.Logger,
) *UpsertService {
	return &UpsertService{
		customers: customers,
		orders:    orders,
		products:  products,
		cache:     cache,
		logger:    logger,
		locks:     newKeyLocks(256),
	}
}

// ---------------------------------------------------------------------------
// Single-record upserts
// ---------------------------------------------------------------------------

// UpsertCustomer writes one external customer record
func (s *UpsertService) UpsertCustomer(ctx context.Context, tenantID uuid.UUID, record *integration.ExternalCustomer) (commerce.UpsertOutcome, error) {
	unlock := s.locks.lock(recordKey(tenantID, "customer", record.ID))
	defer unlock()

	customer := customerFromExternal(tenantID, record)
	outcome, err := s.customers.Upsert(ctx, customer)
	if err != nil {
		return outcome, err
	}
	s.invalidateMetrics(ctx, tenantID, outcome)
	return outcome, nil
}

// UpsertOrder writes one external order record, linking the local customer
// when the referenced customer has already been synchronized
func (s *UpsertService) UpsertOrder(ctx context.Context, tenantID uuid.UUID, record *integration.ExternalOrder) (commerce.UpsertOutcome, error) {
	unlock := s.locks.lock(recordKey(tenantID, "order", record.ID))
	defer unlock()

	order := orderFromExternal(tenantID, record)

	if record.CustomerID != nil {
		customer, err := s.customers.FindByExternalID(ctx, tenantID, *record.CustomerID)
		switch {
		case err == nil:
			order.LinkCustomer(customer.ID, customer.DisplayName())
		case errors.Is(err, shared.ErrNotFound):
			// customer not synced yet, keep the payload's name snapshot
		default:
			return commerce.UpsertSkipped, err
		}
	}

	outcome, err := s.orders.Upsert(ctx, order)
	if err != nil {
		return outcome, err
	}
	s.invalidateMetrics(ctx, tenantID, outcome)
	return outcome, nil
}

// UpsertProduct writes one external product record
func (s *UpsertService) UpsertProduct(ctx context.Context, tenantID uuid.UUID, record *integration.ExternalProduct) (commerce.UpsertOutcome, error) {
	unlock := s.locks.lock(recordKey(tenantID, "product", record.ID))
	defer unlock()

	product := productFromExternal(tenantID, record)
	outcome, err := s.products.Upsert(ctx, product)
	if err != nil {
		return outcome, err
	}
	s.invalidateMetrics(ctx, tenantID, outcome)
	return outcome, nil
}

// ---------------------------------------------------------------------------
// Batch upserts
// ---------------------------------------------------------------------------

// UpsertCustomers writes a batch of customer records. A failing record is
// counted and logged without aborting the rest of the batch.
func (s *UpsertService) UpsertCustomers(ctx context.Context, tenantID uuid.UUID, records []integration.ExternalCustomer) BatchResult {
	var result BatchResult
	for i := range records {
		outcome, err := s.UpsertCustomer(ctx, tenantID, &records[i])
		if err != nil {
			result.Failed++
			s.logger.Warn("Customer upsert failed",
				zap.String("tenant_id", tenantID.String()),
				zap.Int64("external_id", records[i].ID),
				zap.Error(err),
			)
			continue
		}
		result.record(outcome)
	}
	return result
}

// UpsertOrders writes a batch of order records
func (s *UpsertService) UpsertOrders(ctx context.Context, tenantID uuid.UUID, records []integration.ExternalOrder) BatchResult {
	var result BatchResult
	for i := range records {
		outcome, err := s.UpsertOrder(ctx, tenantID, &records[i])
		if err != nil {
			result.Failed++
			s.logger.Warn("Order upsert failed",
				zap.String("tenant_id", tenantID.String()),
				zap.Int64("external_id", records[i].ID),
				zap.Error(err),
			)
			continue
		}
		result.record(outcome)
	}
	return result
}

// UpsertProducts writes a batch of product records
func (s *UpsertService) UpsertProducts(ctx context.Context, tenantID uuid.UUID, records []integration.ExternalProduct) BatchResult {
	var result BatchResult
	for i := range records {
		outcome, err := s.UpsertProduct(ctx, tenantID, &records[i])
		if err != nil {
			result.Failed++
			s.logger.Warn("Product upsert failed",
				zap.String("tenant_id", tenantID.String()),
				zap.Int64("external_id", records[i].ID),
				zap.Error(err),
			)
			continue
		}
		result.record(outcome)
	}
	return result
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

// invalidateMetrics drops the tenant's cached metrics after a write.
// Skipped upserts changed nothing, so the cache stays warm.
func (s *UpsertService) invalidateMetrics(ctx context.Context, tenantID uuid.UUID, outcome commerce.UpsertOutcome) {
	if outcome == commerce.UpsertSkipped || s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPrefix(ctx, analytics.MetricsCachePrefix(tenantID)); err != nil {
		s.logger.Warn("Metrics cache invalidation failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	}
}

func recordKey(tenantID uuid.UUID, kind string, externalID int64) string {
	return fmt.Sprintf("%s:%s:%d", tenantID, kind, externalID)
}

// customerFromExternal maps a platform customer onto the domain record.
// The segment is re-derived from lifetime spend on every write.
func customerFromExternal(tenantID uuid.UUID, record *integration.ExternalCustomer) *commerce.Customer {
	externalID := record.ID
	return &commerce.Customer{
		TenantEntity:      shared.NewTenantEntity(tenantID),
		ExternalID:        &externalID,
		Name:              record.DisplayName(),
		Email:             strings.ToLower(strings.TrimSpace(record.Email)),
		TotalSpent:        record.TotalSpent,
		OrdersCount:       record.OrdersCount,
		Location:          joinLocation(record.City, record.Country),
		Segment:           commerce.SegmentForSpend(record.TotalSpent),
		Phone:             record.Phone,
		Tags:              record.Tags,
		ExternalUpdatedAt: record.UpdatedAt,
	}
}

func orderFromExternal(tenantID uuid.UUID, record *integration.ExternalOrder) *commerce.Order {
	externalID := record.ID
	orderNumber := record.OrderNumber
	if orderNumber == "" {
		orderNumber = fmt.Sprintf("#%d", record.ID)
	}
	currency := record.Currency
	if currency == "" {
		currency = "USD"
	}
	return &commerce.Order{
		TenantEntity:      shared.NewTenantEntity(tenantID),
		ExternalID:        &externalID,
		OrderNumber:       orderNumber,
		CustomerName:      record.CustomerDisplayName(),
		Amount:            record.TotalPrice,
		Subtotal:          record.SubtotalPrice,
		TaxAmount:         record.TotalTax,
		Status:            commerce.MapPlatformOrderStatus(record.FulfillmentStatus, record.FinancialStatus),
		Currency:          currency,
		ItemsCount:        record.ItemsCount,
		PlacedAt:          record.CreatedAt,
		ExternalUpdatedAt: record.UpdatedAt,
	}
}

func productFromExternal(tenantID uuid.UUID, record *integration.ExternalProduct) *commerce.Product {
	externalID := record.ID
	category := strings.TrimSpace(record.ProductType)
	if category == "" {
		category = commerce.DefaultCategory
	}
	return &commerce.Product{
		TenantEntity:      shared.NewTenantEntity(tenantID),
		ExternalID:        &externalID,
		Name:              record.Title,
		Category:          category,
		Price:             record.Price,
		Inventory:         record.Inventory,
		SKU:               record.SKU,
		Vendor:            record.Vendor,
		ProductType:       record.ProductType,
		Status:            commerce.NormalizeProductStatus(record.Status),
		Tags:              record.Tags,
		ExternalUpdatedAt: record.UpdatedAt,
	}
}

func joinLocation(city, country string) string {
	switch {
	case city != "" && country != "":
		return city + ", " + country
	case city != "":
		return city
	default:
		return country
	}
}
