package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopmetrics/backend/internal/domain/commerce"
)

// OverviewResponse carries the dashboard KPI cards. Growth figures compare
// the selected period against the immediately preceding period of equal
// length, in percent.
type OverviewResponse struct {
	TotalCustomers      int64           `json:"total_customers"`
	TotalOrders         int64           `json:"total_orders"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	AvgOrderValue       decimal.Decimal `json:"avg_order_value"`
	CustomersGrowth     float64         `json:"customers_growth"`
	OrdersGrowth        float64         `json:"orders_growth"`
	RevenueGrowth       float64         `json:"revenue_growth"`
	AvgOrderValueGrowth float64         `json:"avg_order_value_growth"`
}

// TrendPointResponse is one month of the revenue/orders trend. Months with
// no orders appear with zero values, never as gaps.
type TrendPointResponse struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int64           `json:"orders"`
}

// StatusSliceResponse is one slice of the order status distribution
type StatusSliceResponse struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
	Color  string `json:"color"`
}

// RecentOrderResponse is one row of the recent-activity feed
type RecentOrderResponse struct {
	ID           string          `json:"id"`
	OrderNumber  string          `json:"order_number"`
	CustomerName string          `json:"customer_name"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	PlacedAt     time.Time       `json:"placed_at"`
}

// DashboardMetricsResponse is the full dashboard payload
type DashboardMetricsResponse struct {
	Overview           OverviewResponse      `json:"overview"`
	Trend              []TrendPointResponse  `json:"trend"`
	StatusDistribution []StatusSliceResponse `json:"status_distribution"`
	RecentOrders       []RecentOrderResponse `json:"recent_orders"`
	Period             string                `json:"period"`
	GeneratedAt        time.Time             `json:"generated_at"`
}

// SegmentSliceResponse is one slice of the customer segment distribution
type SegmentSliceResponse struct {
	Segment string `json:"segment"`
	Count   int64  `json:"count"`
}

// TopCustomerResponse is one row of the top-customers table
type TopCustomerResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	OrdersCount int             `json:"orders_count"`
	Segment     string          `json:"segment"`
}

// CustomerGrowthPointResponse is one month of new-customer growth
type CustomerGrowthPointResponse struct {
	Month        string `json:"month"`
	NewCustomers int64  `json:"new_customers"`
}

// CustomerAnalyticsResponse is the customer analytics payload
type CustomerAnalyticsResponse struct {
	Segments     []SegmentSliceResponse        `json:"segments"`
	TopCustomers []TopCustomerResponse         `json:"top_customers"`
	Growth       []CustomerGrowthPointResponse `json:"growth"`
	GeneratedAt  time.Time                     `json:"generated_at"`
}

// TopProductResponse is one row of the top-products table
type TopProductResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Sales     int             `json:"sales"`
	Inventory int             `json:"inventory"`
}

// CategoryPerformanceResponse aggregates product figures per category
type CategoryPerformanceResponse struct {
	Category     string          `json:"category"`
	ProductCount int64           `json:"product_count"`
	TotalSales   int64           `json:"total_sales"`
	AvgPrice     decimal.Decimal `json:"avg_price"`
}

// LowInventoryProductResponse is one understocked product row
type LowInventoryProductResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Inventory int    `json:"inventory"`
}

// ProductAnalyticsResponse is the product analytics payload
type ProductAnalyticsResponse struct {
	TopProducts  []TopProductResponse          `json:"top_products"`
	Categories   []CategoryPerformanceResponse `json:"categories"`
	LowInventory []LowInventoryProductResponse `json:"low_inventory"`
	GeneratedAt  time.Time                     `json:"generated_at"`
}

// ---------------------------------------------------------------------------
// Converters
// ---------------------------------------------------------------------------

func toTopCustomerResponse(c *commerce.Customer) TopCustomerResponse {
	return TopCustomerResponse{
		ID:          c.ID.String(),
		Name:        c.DisplayName(),
		Email:       c.Email,
		TotalSpent:  c.TotalSpent,
		OrdersCount: c.OrdersCount,
		Segment:     string(c.Segment),
	}
}

func toTopProductResponse(p *commerce.Product) TopProductResponse {
	return TopProductResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price,
		Sales:     p.Sales,
		Inventory: p.Inventory,
	}
}

func toRecentOrderResponse(o *commerce.RecentOrder) RecentOrderResponse {
	return RecentOrderResponse{
		ID:           o.ID.String(),
		OrderNumber:  o.OrderNumber,
		CustomerName: o.CustomerName,
		Amount:       o.Amount,
		Status:       o.Status.String(),
		PlacedAt:     o.PlacedAt,
	}
}
