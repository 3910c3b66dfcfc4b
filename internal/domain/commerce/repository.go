package commerce

import (
	"context"
	"time"

	"github.com/shopmetrics/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UpsertOutcome reports whether an upsert created a new row or updated an
// existing one. Skipped means a stale payload was ignored.
type UpsertOutcome int

const (
	UpsertCreated UpsertOutcome = iota
	UpsertUpdated
	UpsertSkipped
)

// CustomerRepository defines persistence operations for customers
type CustomerRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)
	FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID int64) (*Customer, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, opts shared.QueryOptions) ([]Customer, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, opts shared.QueryOptions) (int64, error)
	Save(ctx context.Context, customer *Customer) error
	// Upsert inserts the customer or, when a row with the same
	// (tenant_id, external_id) exists, overwrites the synchronized fields.
	// The conflict target makes concurrent writers converge on one row.
	Upsert(ctx context.Context, customer *Customer) (UpsertOutcome, error)
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// OrderRepository defines persistence operations for orders
type OrderRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)
	FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID int64) (*Order, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, opts shared.QueryOptions) ([]Order, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, opts shared.QueryOptions) (int64, error)
	Save(ctx context.Context, order *Order) error
	Upsert(ctx context.Context, order *Order) (UpsertOutcome, error)
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID int64) (*Product, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, opts shared.QueryOptions) ([]Product, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, opts shared.QueryOptions) (int64, error)
	Save(ctx context.Context, product *Product) error
	Upsert(ctx context.Context, product *Product) (UpsertOutcome, error)
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Metrics read model
// ---------------------------------------------------------------------------

// PeriodTotals are the aggregate figures for one time window
type PeriodTotals struct {
	Customers int64
	Orders    int64
	Revenue   decimal.Decimal
}

// MonthlyBucket is one calendar-month point of the trend series
type MonthlyBucket struct {
	Month   time.Time
	Revenue decimal.Decimal
	Orders  int64
}

// StatusCount is one slice of the order status distribution
type StatusCount struct {
	Status OrderStatus
	Count  int64
}

// RecentOrder is one row of the recent-activity feed. CustomerName resolves
// through the linked customer, then the snapshot, then the Unknown placeholder.
type RecentOrder struct {
	ID           uuid.UUID
	OrderNumber  string
	CustomerName string
	PlacedAt     time.Time
	Amount       decimal.Decimal
	Status       OrderStatus
}

// SegmentCount is one slice of the customer segment distribution
type SegmentCount struct {
	Segment CustomerSegment
	Count   int64
}

// MonthlyCustomerBucket is one calendar-month point of new-customer growth
type MonthlyCustomerBucket struct {
	Month        time.Time
	NewCustomers int64
}

// CategoryPerformance aggregates product figures per category
type CategoryPerformance struct {
	Category     string
	ProductCount int64
	TotalSales   int64
	AvgPrice     decimal.Decimal
}

// MetricsRepository is the read-only aggregation interface over the record
// store. All queries are tenant-scoped; implementations must never omit the
// tenant filter.
type MetricsRepository interface {
	TotalsInRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (PeriodTotals, error)
	MonthlyRevenue(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]MonthlyBucket, error)
	StatusDistribution(ctx context.Context, tenantID uuid.UUID) ([]StatusCount, error)
	RecentOrders(ctx context.Context, tenantID uuid.UUID, limit int) ([]RecentOrder, error)
	SegmentDistribution(ctx context.Context, tenantID uuid.UUID) ([]SegmentCount, error)
	TopCustomers(ctx context.Context, tenantID uuid.UUID, limit int) ([]Customer, error)
	MonthlyNewCustomers(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]MonthlyCustomerBucket, error)
	TopProducts(ctx context.Context, tenantID uuid.UUID, limit int) ([]Product, error)
	CategoryPerformance(ctx context.Context, tenantID uuid.UUID) ([]CategoryPerformance, error)
	LowInventoryProducts(ctx context.Context, tenantID uuid.UUID, limit int) ([]Product, error)
}
