package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopmetrics/backend/internal/domain/commerce"
	"github.com/shopmetrics/backend/internal/domain/shared"
)

// DefaultPeriodMonths is the dashboard window when no period is requested
const DefaultPeriodMonths = 6

// recentOrdersLimit is the size of the recent-activity feed
const recentOrdersLimit = 5

// topRowsLimit bounds the top-customers and top-products tables
const topRowsLimit = 10

// lowInventoryLimit bounds the understocked products list
const lowInventoryLimit = 10

// ParsePeriod maps a period query value onto a month count. Unknown values
// fall back to the default rather than erroring, so a stale frontend can
// never break the dashboard.
func ParsePeriod(period string) int {
	switch period {
	case "1month":
		return 1
	case "3months":
		return 3
	case "6months":
		return 6
	case "1year":
		return 12
	default:
		return DefaultPeriodMonths
	}
}

// MetricsService assembles dashboard metrics from the aggregation read
// model, with a cache in front of it. Cached payloads are invalidated by
// the ingest pipeline on every write, and expire by TTL as a backstop.
type MetricsService struct {
	metrics commerce.MetricsRepository
	cache   shared.Cache
	ttl     time.Duration
	logger  *zap.Logger

	// now is swappable for tests
	now func() time.Time
}

// NewMetricsService creates a new MetricsService
func NewMetricsService(metrics commerce.MetricsRepository, cache shared.Cache, ttl time.Duration, logger *zap.Logger) *MetricsService {
	return &MetricsService{
		metrics: metrics,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// GetDashboardMetrics returns the dashboard payload for the given period
func (s *MetricsService) GetDashboardMetrics(ctx context.Context, tenantID uuid.UUID, period string) (*DashboardMetricsResponse, error) {
	months := ParsePeriod(period)
	cacheKey := metricsCacheKey(tenantID, fmt.Sprintf("dashboard:%dm", months))

	var cached DashboardMetricsResponse
	if s.readCache(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	now := s.now()
	from := now.AddDate(0, -months, 0)
	prevFrom := from.AddDate(0, -months, 0)
	trendFrom := trendWindowStart(now, months)

	current, err := s.metrics.TotalsInRange(ctx, tenantID, from, now)
	if err != nil {
		return nil, err
	}
	previous, err := s.metrics.TotalsInRange(ctx, tenantID, prevFrom, from)
	if err != nil {
		return nil, err
	}

	buckets, err := s.metrics.MonthlyRevenue(ctx, tenantID, trendFrom, now)
	if err != nil {
		return nil, err
	}

	statuses, err := s.metrics.StatusDistribution(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	recent, err := s.metrics.RecentOrders(ctx, tenantID, recentOrdersLimit)
	if err != nil {
		return nil, err
	}

	response := &DashboardMetricsResponse{
		Overview:           buildOverview(current, previous),
		Trend:              zeroFilledTrend(buckets, trendFrom, now),
		StatusDistribution: buildStatusDistribution(statuses),
		RecentOrders:       make([]RecentOrderResponse, 0, len(recent)),
		Period:             fmt.Sprintf("%dm", months),
		GeneratedAt:        now,
	}
	for i := range recent {
		response.RecentOrders = append(response.RecentOrders, toRecentOrderResponse(&recent[i]))
	}

	s.writeCache(ctx, cacheKey, response)
	return response, nil
}

// GetCustomerAnalytics returns segment distribution, top customers and
// monthly new-customer growth
func (s *MetricsService) GetCustomerAnalytics(ctx context.Context, tenantID uuid.UUID, period string) (*CustomerAnalyticsResponse, error) {
	months := ParsePeriod(period)
	cacheKey := metricsCacheKey(tenantID, fmt.Sprintf("customers:%dm", months))

	var cached CustomerAnalyticsResponse
	if s.readCache(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	now := s.now()
	growthFrom := trendWindowStart(now, months)

	segments, err := s.metrics.SegmentDistribution(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	top, err := s.metrics.TopCustomers(ctx, tenantID, topRowsLimit)
	if err != nil {
		return nil, err
	}

	growth, err := s.metrics.MonthlyNewCustomers(ctx, tenantID, growthFrom, now)
	if err != nil {
		return nil, err
	}

	response := &CustomerAnalyticsResponse{
		Segments:     buildSegmentDistribution(segments),
		TopCustomers: make([]TopCustomerResponse, 0, len(top)),
		Growth:       zeroFilledCustomerGrowth(growth, growthFrom, now),
		GeneratedAt:  now,
	}
	for i := range top {
		response.TopCustomers = append(response.TopCustomers, toTopCustomerResponse(&top[i]))
	}

	s.writeCache(ctx, cacheKey, response)
	return response, nil
}

// GetProductAnalytics returns top products, category performance and the
// low-inventory list
func (s *MetricsService) GetProductAnalytics(ctx context.Context, tenantID uuid.UUID) (*ProductAnalyticsResponse, error) {
	cacheKey := metricsCacheKey(tenantID, "products")

	var cached ProductAnalyticsResponse
	if s.readCache(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	top, err := s.metrics.TopProducts(ctx, tenantID, topRowsLimit)
	if err != nil {
		return nil, err
	}

	categories, err := s.metrics.CategoryPerformance(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	low, err := s.metrics.LowInventoryProducts(ctx, tenantID, lowInventoryLimit)
	if err != nil {
		return nil, err
	}

	response := &ProductAnalyticsResponse{
		TopProducts:  make([]TopProductResponse, 0, len(top)),
		Categories:   make([]CategoryPerformanceResponse, 0, len(categories)),
		LowInventory: make([]LowInventoryProductResponse, 0, len(low)),
		GeneratedAt:  s.now(),
	}
	for i := range top {
		response.TopProducts = append(response.TopProducts, toTopProductResponse(&top[i]))
	}
	for _, c := range categories {
		response.Categories = append(response.Categories, CategoryPerformanceResponse{
			Category:     c.Category,
			ProductCount: c.ProductCount,
			TotalSales:   c.TotalSales,
			AvgPrice:     c.AvgPrice,
		})
	}
	for i := range low {
		response.LowInventory = append(response.LowInventory, LowInventoryProductResponse{
			ID:        low[i].ID.String(),
			Name:      low[i].Name,
			SKU:       low[i].SKU,
			Inventory: low[i].Inventory,
		})
	}

	s.writeCache(ctx, cacheKey, response)
	return response, nil
}

// ---------------------------------------------------------------------------
// Assembly helpers
// ---------------------------------------------------------------------------

// buildOverview computes the KPI cards. A previous-period value of zero
// yields zero growth, never a division error or an infinite percentage.
func buildOverview(current, previous commerce.PeriodTotals) OverviewResponse {
	avgOrderValue := averageOrderValue(current)
	prevAvgOrderValue := averageOrderValue(previous)

	return OverviewResponse{
		TotalCustomers:      current.Customers,
		TotalOrders:         current.Orders,
		TotalRevenue:        current.Revenue,
		AvgOrderValue:       avgOrderValue,
		CustomersGrowth:     growthPercent(decimal.NewFromInt(current.Customers), decimal.NewFromInt(previous.Customers)),
		OrdersGrowth:        growthPercent(decimal.NewFromInt(current.Orders), decimal.NewFromInt(previous.Orders)),
		RevenueGrowth:       growthPercent(current.Revenue, previous.Revenue),
		AvgOrderValueGrowth: growthPercent(avgOrderValue, prevAvgOrderValue),
	}
}

func averageOrderValue(totals commerce.PeriodTotals) decimal.Decimal {
	if totals.Orders == 0 {
		return decimal.Zero
	}
	return totals.Revenue.DivRound(decimal.NewFromInt(totals.Orders), 2)
}

func growthPercent(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		return 0
	}
	growth, _ := current.Sub(previous).
		Div(previous).
		Mul(decimal.NewFromInt(100)).
		Round(1).
		Float64()
	return growth
}

// trendWindowStart is the first calendar month of an N-month trailing
// window ending at now, so a 3-month request in March covers exactly
// January through March. Stepping back from the first of the month avoids
// AddDate's month-end normalization (Jul 31 − 1 month is not Jul 1).
func trendWindowStart(now time.Time, months int) time.Time {
	return startOfMonth(now).AddDate(0, -(months - 1), 0)
}

// zeroFilledTrend expands the sparse month buckets into a continuous series
// from the first to the last month of the window
func zeroFilledTrend(buckets []commerce.MonthlyBucket, from, to time.Time) []TrendPointResponse {
	byMonth := make(map[string]commerce.MonthlyBucket, len(buckets))
	for _, b := range buckets {
		byMonth[monthKey(b.Month)] = b
	}

	var trend []TrendPointResponse
	for month := startOfMonth(from); !month.After(to); month = month.AddDate(0, 1, 0) {
		key := monthKey(month)
		point := TrendPointResponse{Month: key, Revenue: decimal.Zero}
		if b, ok := byMonth[key]; ok {
			point.Revenue = b.Revenue
			point.Orders = b.Orders
		}
		trend = append(trend, point)
	}
	return trend
}

func zeroFilledCustomerGrowth(buckets []commerce.MonthlyCustomerBucket, from, to time.Time) []CustomerGrowthPointResponse {
	byMonth := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		byMonth[monthKey(b.Month)] = b.NewCustomers
	}

	var growth []CustomerGrowthPointResponse
	for month := startOfMonth(from); !month.After(to); month = month.AddDate(0, 1, 0) {
		key := monthKey(month)
		growth = append(growth, CustomerGrowthPointResponse{
			Month:        key,
			NewCustomers: byMonth[key],
		})
	}
	return growth
}

// buildStatusDistribution emits every status in display order with its
// fixed color, including zero-count statuses
func buildStatusDistribution(counts []commerce.StatusCount) []StatusSliceResponse {
	byStatus := make(map[commerce.OrderStatus]int64, len(counts))
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}

	slices := make([]StatusSliceResponse, 0, len(commerce.AllOrderStatuses()))
	for _, status := range commerce.AllOrderStatuses() {
		slices = append(slices, StatusSliceResponse{
			Status: status.String(),
			Count:  byStatus[status],
			Color:  commerce.StatusColor(status),
		})
	}
	return slices
}

func buildSegmentDistribution(counts []commerce.SegmentCount) []SegmentSliceResponse {
	bySegment := make(map[commerce.CustomerSegment]int64, len(counts))
	for _, c := range counts {
		bySegment[c.Segment] = c.Count
	}

	segments := []commerce.CustomerSegment{commerce.SegmentVIP, commerce.SegmentRegular, commerce.SegmentNew}
	slices := make([]SegmentSliceResponse, 0, len(segments))
	for _, segment := range segments {
		slices = append(slices, SegmentSliceResponse{
			Segment: string(segment),
			Count:   bySegment[segment],
		})
	}
	return slices
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// ---------------------------------------------------------------------------
// Cache plumbing
// ---------------------------------------------------------------------------

// readCache returns true when the key was present and decoded. Cache
// failures degrade to a repository read.
func (s *MetricsService) readCache(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	data, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Metrics cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("Metrics cache payload corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *MetricsService) writeCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("Metrics cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn("Metrics cache write failed", zap.String("key", key), zap.Error(err))
	}
}
