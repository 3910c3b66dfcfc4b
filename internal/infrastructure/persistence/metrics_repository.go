package persistence

import (
	"context"
	"time"

	"github.com/shopmetrics/backend/internal/domain/commerce"
	"github.com/shopmetrics/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormMetricsRepository implements MetricsRepository using GORM.
// Every query carries the tenant filter; there is no cross-tenant path.
type GormMetricsRepository struct {
	db *gorm.DB
}

// NewGormMetricsRepository creates a new GormMetricsRepository
func NewGormMetricsRepository(db *gorm.DB) *GormMetricsRepository {
	return &GormMetricsRepository{db: db}
}

// TotalsInRange returns the aggregate figures for one time window.
// Customers are counted by record creation, orders and revenue by the date
// the order was placed.
func (r *GormMetricsRepository) TotalsInRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (commerce.PeriodTotals, error) {
	var totals commerce.PeriodTotals

	if err := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Where("tenant_id = ?", tenantID).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&totals.Customers).Error; err != nil {
		return commerce.PeriodTotals{}, err
	}

	type orderResult struct {
		Orders  int64
		Revenue decimal.Decimal
	}
	var result orderResult
	if err := r.db.WithContext(ctx).
		Table("orders").
		Select("COUNT(*) as orders, COALESCE(SUM(amount), 0) as revenue").
		Where("tenant_id = ?", tenantID).
		Where("placed_at >= ? AND placed_at < ?", from, to).
		Scan(&result).Error; err != nil {
		return commerce.PeriodTotals{}, err
	}

	totals.Orders = result.Orders
	totals.Revenue = result.Revenue
	return totals, nil
}

// MonthlyRevenue returns per-calendar-month revenue and order counts within
// the range. Months without orders are absent here; the service layer
// zero-fills the series.
func (r *GormMetricsRepository) MonthlyRevenue(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]commerce.MonthlyBucket, error) {
	type monthlyResult struct {
		Month   time.Time
		Revenue decimal.Decimal
		Orders  int64
	}

	var results []monthlyResult
	err := r.db.WithContext(ctx).
		Table("orders").
		Select(`
			DATE_TRUNC('month', placed_at) as month,
			COALESCE(SUM(amount), 0) as revenue,
			COUNT(*) as orders
		`).
		Where("tenant_id = ?", tenantID).
		Where("placed_at >= ? AND placed_at < ?", from, to).
		Group("DATE_TRUNC('month', placed_at)").
		Order("month ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	buckets := make([]commerce.MonthlyBucket, len(results))
	for i, res := range results {
		buckets[i] = commerce.MonthlyBucket{
			Month:   res.Month,
			Revenue: res.Revenue,
			Orders:  res.Orders,
		}
	}
	return buckets, nil
}

// StatusDistribution returns order counts grouped by status
func (r *GormMetricsRepository) StatusDistribution(ctx context.Context, tenantID uuid.UUID) ([]commerce.StatusCount, error) {
	type statusResult struct {
		Status string
		Count  int64
	}

	var results []statusResult
	err := r.db.WithContext(ctx).
		Table("orders").
		Select("status, COUNT(*) as count").
		Where("tenant_id = ?", tenantID).
		Group("status").
		Order("count DESC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make([]commerce.StatusCount, len(results))
	for i, res := range results {
		counts[i] = commerce.StatusCount{
			Status: commerce.OrderStatus(res.Status),
			Count:  res.Count,
		}
	}
	return counts, nil
}

// RecentOrders returns the most recently placed orders. The customer name
// resolves through the linked customer record first, then the order's own
// snapshot, then the Unknown placeholder.
func (r *GormMetricsRepository) RecentOrders(ctx context.Context, tenantID uuid.UUID, limit int) ([]commerce.RecentOrder, error) {
	type recentResult struct {
		ID           uuid.UUID
		OrderNumber  string
		CustomerName string
		PlacedAt     time.Time
		Amount       decimal.Decimal
		Status       string
	}

	var results []recentResult
	err := r.db.WithContext(ctx).
		Table("orders o").
		Select(`
			o.id,
			o.order_number,
			COALESCE(NULLIF(c.name, ''), NULLIF(o.customer_name, ''), ?) as customer_name,
			o.placed_at,
			o.amount,
			o.status
		`, commerce.UnknownCustomerName).
		Joins("LEFT JOIN customers c ON c.id = o.customer_id").
		Where("o.tenant_id = ?", tenantID).
		Order("o.placed_at DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	orders := make([]commerce.RecentOrder, len(results))
	for i, res := range results {
		orders[i] = commerce.RecentOrder{
			ID:           res.ID,
			OrderNumber:  res.OrderNumber,
			CustomerName: res.CustomerName,
			PlacedAt:     res.PlacedAt,
			Amount:       res.Amount,
			Status:       commerce.OrderStatus(res.Status),
		}
	}
	return orders, nil
}

// SegmentDistribution returns customer counts grouped by segment
func (r *GormMetricsRepository) SegmentDistribution(ctx context.Context, tenantID uuid.UUID) ([]commerce.SegmentCount, error) {
	type segmentResult struct {
		Segment string
		Count   int64
	}

	var results []segmentResult
	err := r.db.WithContext(ctx).
		Table("customers").
		Select("segment, COUNT(*) as count").
		Where("tenant_id = ?", tenantID).
		Group("segment").
		Order("count DESC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make([]commerce.SegmentCount, len(results))
	for i, res := range results {
		counts[i] = commerce.SegmentCount{
			Segment: commerce.CustomerSegment(res.Segment),
			Count:   res.Count,
		}
	}
	return counts, nil
}

// TopCustomers returns the highest lifetime-spend customers
func (r *GormMetricsRepository) TopCustomers(ctx context.Context, tenantID uuid.UUID, limit int) ([]commerce.Customer, error) {
	var customerModels []models.CustomerModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("total_spent DESC").
		Limit(limit).
		Find(&customerModels).Error
	if err != nil {
		return nil, err
	}

	customers := make([]commerce.Customer, len(customerModels))
	for i, model := range customerModels {
		customers[i] = *model.ToDomain()
	}
	return customers, nil
}

// MonthlyNewCustomers returns per-calendar-month counts of newly created
// customer records within the range
func (r *GormMetricsRepository) MonthlyNewCustomers(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]commerce.MonthlyCustomerBucket, error) {
	type monthlyResult struct {
		Month        time.Time
		NewCustomers int64
	}

	var results []monthlyResult
	err := r.db.WithContext(ctx).
		Table("customers").
		Select("DATE_TRUNC('month', created_at) as month, COUNT(*) as new_customers").
		Where("tenant_id = ?", tenantID).
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("DATE_TRUNC('month', created_at)").
		Order("month ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	buckets := make([]commerce.MonthlyCustomerBucket, len(results))
	for i, res := range results {
		buckets[i] = commerce.MonthlyCustomerBucket{
			Month:        res.Month,
			NewCustomers: res.NewCustomers,
		}
	}
	return buckets, nil
}

// TopProducts returns the best selling products
func (r *GormMetricsRepository) TopProducts(ctx context.Context, tenantID uuid.UUID, limit int) ([]commerce.Product, error) {
	var productModels []models.ProductModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("sales DESC").
		Limit(limit).
		Find(&productModels).Error
	if err != nil {
		return nil, err
	}

	products := make([]commerce.Product, len(productModels))
	for i, model := range productModels {
		products[i] = *model.ToDomain()
	}
	return products, nil
}

// CategoryPerformance aggregates product figures per category
func (r *GormMetricsRepository) CategoryPerformance(ctx context.Context, tenantID uuid.UUID) ([]commerce.CategoryPerformance, error) {
	type categoryResult struct {
		Category     string
		ProductCount int64
		TotalSales   int64
		AvgPrice     decimal.Decimal
	}

	var results []categoryResult
	err := r.db.WithContext(ctx).
		Table("products").
		Select(`
			category,
			COUNT(*) as product_count,
			COALESCE(SUM(sales), 0) as total_sales,
			COALESCE(AVG(price), 0) as avg_price
		`).
		Where("tenant_id = ?", tenantID).
		Group("category").
		Order("total_sales DESC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	performance := make([]commerce.CategoryPerformance, len(results))
	for i, res := range results {
		performance[i] = commerce.CategoryPerformance{
			Category:     res.Category,
			ProductCount: res.ProductCount,
			TotalSales:   res.TotalSales,
			AvgPrice:     res.AvgPrice,
		}
	}
	return performance, nil
}

// LowInventoryProducts returns active products under the stock threshold
func (r *GormMetricsRepository) LowInventoryProducts(ctx context.Context, tenantID uuid.UUID, limit int) ([]commerce.Product, error) {
	var productModels []models.ProductModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND inventory < ? AND status = ?",
			tenantID, commerce.LowInventoryThreshold, commerce.ProductStatusActive).
		Order("inventory ASC").
		Limit(limit).
		Find(&productModels).Error
	if err != nil {
		return nil, err
	}

	products := make([]commerce.Product, len(productModels))
	for i, model := range productModels {
		products[i] = *model.ToDomain()
	}
	return products, nil
}

// Ensure GormMetricsRepository implements MetricsRepository
var _ commerce.MetricsRepository = (*GormMetricsRepository)(nil)
