package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopmetrics/backend/internal/application/analytics"
	"github.com/shopmetrics/backend/internal/domain/commerce"
	"github.com/shopmetrics/backend/internal/domain/integration"
	"github.com/shopmetrics/backend/internal/domain/shared"
)

func newUpsertFixture() (*UpsertService, *MockCustomerRepository, *MockOrderRepository, *MockProductRepository, *MockCache) {
	customers := new(MockCustomerRepository)
	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	cache := new(MockCache)
	service := NewUpsertService(customers, orders, products, cache, zap.NewNop())
	return service, customers, orders, products, cache
}

func externalCustomer(id int64, spent string) integration.ExternalCustomer {
	updated := time.Now()
	return integration.ExternalCustomer{
		ID:          id,
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "Jane@Example.com",
		TotalSpent:  decimal.RequireFromString(spent),
		OrdersCount: 4,
		City:        "Lisbon",
		Country:     "Portugal",
		UpdatedAt:   &updated,
	}
}

func TestUpsertCustomer_MapsFieldsAndDerivesSegment(t *testing.T) {
	service, customers, _, _, cache := newUpsertFixture()
	tenantID := uuid.New()
	record := externalCustomer(1001, "1500.00")

	customers.On("Upsert", mock.Anything, mock.MatchedBy(func(c *commerce.Customer) bool {
		return c.TenantID == tenantID &&
			c.ExternalID != nil && *c.ExternalID == int64(1001) &&
			c.Name == "Jane Doe" &&
			c.Email == "jane@example.com" &&
			c.Location == "Lisbon, Portugal" &&
			c.Segment == commerce.SegmentVIP
	})).Return(commerce.UpsertCreated, nil)
	cache.On("DeleteByPrefix", mock.Anything, analytics.MetricsCachePrefix(tenantID)).Return(nil)

	outcome, err := service.UpsertCustomer(context.Background(), tenantID, &record)

	require.NoError(t, err)
	assert.Equal(t, commerce.UpsertCreated, outcome)
	customers.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestUpsertCustomer_SegmentThresholds(t *testing.T) {
	tests := []struct {
		spent   string
		segment commerce.CustomerSegment
	}{
		{"1000.00", commerce.SegmentVIP},
		{"999.99", commerce.SegmentRegular},
		{"100.00", commerce.SegmentRegular},
		{"99.99", commerce.SegmentNew},
		{"0", commerce.SegmentNew},
	}

	for _, tt := range tests {
		t.Run(tt.spent, func(t *testing.T) {
			service, customers, _, _, cache := newUpsertFixture()
			tenantID := uuid.New()
			record := externalCustomer(1, tt.spent)

			customers.On("Upsert", mock.Anything, mock.MatchedBy(func(c *commerce.Customer) bool {
				return c.Segment == tt.segment
			})).Return(commerce.UpsertUpdated, nil)
			cache.On("DeleteByPrefix", mock.Anything, mock.Anything).Return(nil)

			_, err := service.UpsertCustomer(context.Background(), tenantID, &record)
			require.NoError(t, err)
			customers.AssertExpectations(t)
		})
	}
}

func TestUpsertCustomer_SkippedDoesNotInvalidateCache(t *testing.T) {
	service, customers, _, _, cache := newUpsertFixture()
	tenantID := uuid.New()
	record := externalCustomer(1001, "50.00")

	customers.On("Upsert", mock.Anything, mock.Anything).Return(commerce.UpsertSkipped, nil)

	outcome, err := service.UpsertCustomer(context.Background(), tenantID, &record)

	require.NoError(t, err)
	assert.Equal(t, commerce.UpsertSkipped, outcome)
	cache.AssertNotCalled(t, "DeleteByPrefix", mock.Anything, mock.Anything)
}

func TestUpsertOrder_LinksKnownCustomer(t *testing.T) {
	service, customers, orders, _, cache := newUpsertFixture()
	tenantID := uuid.New()
	customerExternalID := int64(1001)

	local, err := commerce.NewCustomer(tenantID, "Jane Doe", "jane@example.com")
	require.NoError(t, err)

	customers.On("FindByExternalID", mock.Anything, tenantID, customerExternalID).Return(local, nil)
	orders.On("Upsert", mock.Anything, mock.MatchedBy(func(o *commerce.Order) bool {
		return o.CustomerID != nil && *o.CustomerID == local.ID && o.CustomerName == "Jane Doe"
	})).Return(commerce.UpsertCreated, nil)
	cache.On("DeleteByPrefix", mock.Anything, mock.Anything).Return(nil)

	record := integration.ExternalOrder{
		ID:              5001,
		OrderNumber:     "#1042",
		CustomerID:      &customerExternalID,
		TotalPrice:      decimal.RequireFromString("99.90"),
		FinancialStatus: "paid",
		CreatedAt:       time.Now(),
	}

	outcome, err := service.UpsertOrder(context.Background(), tenantID, &record)
	require.NoError(t, err)
	assert.Equal(t, commerce.UpsertCreated, outcome)
	orders.AssertExpectations(t)
}

func TestUpsertOrder_UnknownCustomerKeepsSnapshot(t *testing.T) {
	service, customers, orders, _, cache := newUpsertFixture()
	tenantID := uuid.New()
	customerExternalID := int64(4040)

	customers.On("FindByExternalID", mock.Anything, tenantID, customerExternalID).Return(nil, shared.ErrNotFound)
	orders.On("Upsert", mock.Anything, mock.MatchedBy(func(o *commerce.Order) bool {
		return o.CustomerID == nil && o.CustomerName == "Walk In"
	})).Return(commerce.UpsertCreated, nil)
	cache.On("DeleteByPrefix", mock.Anything, mock.Anything).Return(nil)

	record := integration.ExternalOrder{
		ID:                5002,
		OrderNumber:       "#1043",
		CustomerID:        &customerExternalID,
		CustomerFirstName: "Walk",
		CustomerLastName:  "In",
		CreatedAt:         time.Now(),
	}

	_, err := service.UpsertOrder(context.Background(), tenantID, &record)
	require.NoError(t, err)
	orders.AssertExpectations(t)
}

func TestUpsertOrder_StatusMapping(t *testing.T) {
	tests := []struct {
		fulfillment string
		financial   string
		status      commerce.OrderStatus
	}{
		{"fulfilled", "paid", commerce.OrderStatusFulfilled},
		{"partial", "paid", commerce.OrderStatusProcessing},
		{"", "pending", commerce.OrderStatusPending},
		{"", "voided", commerce.OrderStatusCancelled},
		{"", "refunded", commerce.OrderStatusCancelled},
		{"", "paid", commerce.OrderStatusProcessing},
	}

	for _, tt := range tests {
		t.Run(tt.fulfillment+"_"+tt.financial, func(t *testing.T) {
			service, _, orders, _, cache := newUpsertFixture()
			tenantID := uuid.New()

			orders.On("Upsert", mock.Anything, mock.MatchedBy(func(o *commerce.Order) bool {
				return o.Status == tt.status
			})).Return(commerce.UpsertUpdated, nil)
			cache.On("DeleteByPrefix", mock.Anything, mock.Anything).Return(nil)

			record := integration.ExternalOrder{
				ID:                1,
				OrderNumber:       "#1",
				FulfillmentStatus: tt.fulfillment,
				FinancialStatus:   tt.financial,
				CreatedAt:         time.Now(),
			}
			_, err := service.UpsertOrder(context.Background(), tenantID, &record)
			require.NoError(t, err)
			orders.AssertExpectations(t)
		})
	}
}

func TestUpsertOrder_MissingOrderNumberFallsBackToID(t *testing.T) {
	service, _, orders, _, cache := newUpsertFixture()
	tenantID := uuid.New()

	orders.On("Upsert", mock.Anything, mock.MatchedBy(func(o *commerce.Order) bool {
		return o.OrderNumber == "#5003" && o.Currency == "USD"
	})).Return(commerce.UpsertCreated, nil)
	cache.On("DeleteByPrefix", mock.Anything, mock.Anything).Return(nil)

	record := integration.ExternalOrder{ID: 5003, CreatedAt: time.Now()}
	_, err := service.UpsertOrder(context.Background(), tenantID, &record)
	require.NoError(t, err)
	orders.AssertExpectations(t)
}

func TestUpsertProduct_DefaultsCategory(t *testing.T) {
	service, _, _, products, cache := newUpsertFixture()
	tenantID := uuid.New()

	products.On("Upsert", mock.Anything, mock.MatchedBy(func(p *commerce.Product) bool {
		return p.Category == commerce.DefaultCategory && p.Name == "Espresso Beans"
	})).Return(commerce.UpsertCreated, nil)
	cache.On("DeleteByPrefix", mock.Anything, mock.Anything).Return(nil)

	record := integration.ExternalProduct{
		ID:    9001,
		Title: "Espresso Beans",
		Price: decimal.RequireFromString("18.00"),
	}
	_, err := service.UpsertProduct(context.Background(), tenantID, &record)
	require.NoError(t, err)
	products.AssertExpectations(t)
}

func TestUpsertCustomers_BatchContainsFailures(t *testing.T) {
	service, customers, _, _, cache := newUpsertFixture()
	tenantID := uuid.New()

	customers.On("Upsert", mock.Anything, mock.MatchedBy(func(c *commerce.Customer) bool {
		return c.ExternalID != nil && *c.ExternalID == int64(1)
	})).Return(commerce.UpsertCreated, nil)
	customers.On("Upsert", mock.Anything, mock.MatchedBy(func(c *commerce.Customer) bool {
		return c.ExternalID != nil && *c.ExternalID == int64(2)
	})).Return(commerce.UpsertSkipped, errors.New("db write failed"))
	customers.On("Upsert", mock.Anything, mock.MatchedBy(func(c *commerce.Customer) bool {
		return c.ExternalID != nil && *c.ExternalID == int64(3)
	})).Return(commerce.UpsertUpdated, nil)
	cache.On("DeleteByPrefix", mock.Anything, mock.Anything).Return(nil)

	records := []integration.ExternalCustomer{
		externalCustomer(1, "10"),
		externalCustomer(2, "20"),
		externalCustomer(3, "30"),
	}

	result := service.UpsertCustomers(context.Background(), tenantID, records)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 3, result.Total())
}

func TestBatchResult_Merge(t *testing.T) {
	a := BatchResult{Created: 1, Updated: 2, Skipped: 3, Failed: 4}
	b := BatchResult{Created: 10, Updated: 20, Skipped: 30, Failed: 40}

	a.Merge(b)

	assert.Equal(t, BatchResult{Created: 11, Updated: 22, Skipped: 33, Failed: 44}, a)
}

func TestUpsertCustomer_CacheFailureDoesNotFailWrite(t *testing.T) {
	service, customers, _, _, cache := newUpsertFixture()
	tenantID := uuid.New()
	record := externalCustomer(1, "10")

	customers.On("Upsert", mock.Anything, mock.Anything).Return(commerce.UpsertCreated, nil)
	cache.On("DeleteByPrefix", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	outcome, err := service.UpsertCustomer(context.Background(), tenantID, &record)
	require.NoError(t, err)
	assert.Equal(t, commerce.UpsertCreated, outcome)
}
