package shopify

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopmetrics/backend/internal/domain/integration"
)

// ---------------------------------------------------------------------------
// Admin API payloads
// ---------------------------------------------------------------------------

// shopifyCustomer mirrors the Admin REST customer resource
type shopifyCustomer struct {
	ID          int64           `json:"id"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	OrdersCount int             `json:"orders_count"`
	Tags        string          `json:"tags"`
	UpdatedAt   *time.Time      `json:"updated_at"`
	DefaultAddr *shopifyAddress `json:"default_address"`
}

type shopifyAddress struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

type customersResponse struct {
	Customers []shopifyCustomer `json:"customers"`
}

// shopifyOrder mirrors the Admin REST order resource
type shopifyOrder struct {
	ID                int64             `json:"id"`
	Name              string            `json:"name"`
	Customer          *shopifyOrderBuy  `json:"customer"`
	TotalPrice        decimal.Decimal   `json:"total_price"`
	SubtotalPrice     decimal.Decimal   `json:"subtotal_price"`
	TotalTax          decimal.Decimal   `json:"total_tax"`
	Currency          string            `json:"currency"`
	FinancialStatus   string            `json:"financial_status"`
	FulfillmentStatus string            `json:"fulfillment_status"`
	LineItems         []shopifyLineItem `json:"line_items"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         *time.Time        `json:"updated_at"`
}

type shopifyOrderBuy struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type shopifyLineItem struct {
	Quantity int `json:"quantity"`
}

type ordersResponse struct {
	Orders []shopifyOrder `json:"orders"`
}

// shopifyProduct mirrors the Admin REST product resource
type shopifyProduct struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	ProductType string           `json:"product_type"`
	Vendor      string           `json:"vendor"`
	Status      string           `json:"status"`
	Tags        string           `json:"tags"`
	Variants    []shopifyVariant `json:"variants"`
	UpdatedAt   *time.Time       `json:"updated_at"`
}

type shopifyVariant struct {
	Price             decimal.Decimal `json:"price"`
	SKU               string          `json:"sku"`
	InventoryQuantity int             `json:"inventory_quantity"`
}

type productsResponse struct {
	Products []shopifyProduct `json:"products"`
}

// ---------------------------------------------------------------------------
// Conversions to domain records
// ---------------------------------------------------------------------------

func (c *shopifyCustomer) toExternal() integration.ExternalCustomer {
	record := integration.ExternalCustomer{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Phone:       c.Phone,
		TotalSpent:  c.TotalSpent,
		OrdersCount: c.OrdersCount,
		Tags:        c.Tags,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.DefaultAddr != nil {
		record.City = c.DefaultAddr.City
		record.Country = c.DefaultAddr.Country
	}
	return record
}

func (o *shopifyOrder) toExternal() integration.ExternalOrder {
	record := integration.ExternalOrder{
		ID:                o.ID,
		OrderNumber:       o.Name,
		TotalPrice:        o.TotalPrice,
		SubtotalPrice:     o.SubtotalPrice,
		TotalTax:          o.TotalTax,
		Currency:          o.Currency,
		FinancialStatus:   o.FinancialStatus,
		FulfillmentStatus: o.FulfillmentStatus,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
	for _, item := range o.LineItems {
		record.ItemsCount += item.Quantity
	}
	if o.Customer != nil {
		customerID := o.Customer.ID
		record.CustomerID = &customerID
		record.CustomerFirstName = o.Customer.FirstName
		record.CustomerLastName = o.Customer.LastName
	}
	return record
}

func (p *shopifyProduct) toExternal() integration.ExternalProduct {
	record := integration.ExternalProduct{
		ID:          p.ID,
		Title:       p.Title,
		ProductType: p.ProductType,
		Vendor:      p.Vendor,
		Status:      p.Status,
		Tags:        p.Tags,
	}
	// Price and SKU come from the first variant; inventory sums all variants
	if len(p.Variants) > 0 {
		record.Price = p.Variants[0].Price
		record.SKU = p.Variants[0].SKU
	}
	for _, v := range p.Variants {
		record.Inventory += v.InventoryQuantity
	}
	record.UpdatedAt = p.UpdatedAt
	return record
}
