package records

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopmetrics/backend/internal/domain/commerce"
	"github.com/shopmetrics/backend/internal/domain/shared"
)

// ListRequest carries the query parameters for list endpoints
type ListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	SortBy   string `form:"sort_by"`
	SortDir  string `form:"sort_dir"`
	Search   string `form:"search"`
	Category string `form:"category"`
	Status   string `form:"status"`
	Segment  string `form:"segment"`
}

// QueryOptions converts the request into validated repository options
func (r ListRequest) QueryOptions() (shared.QueryOptions, error) {
	opts := shared.DefaultQueryOptions()
	if r.Page > 0 {
		opts.Page = r.Page
	}
	if r.PageSize > 0 {
		opts.PageSize = r.PageSize
	}
	if r.SortBy != "" {
		opts.SortBy = r.SortBy
	}
	if r.SortDir != "" {
		opts.SortDir = shared.SortDirection(r.SortDir)
	}
	opts.Search = r.Search
	opts.Category = r.Category
	opts.Status = r.Status
	opts.Segment = r.Segment
	if err := opts.Validate(); err != nil {
		return shared.QueryOptions{}, err
	}
	return opts, nil
}

// Page wraps one page of results together with the total row count
type Page[T any] struct {
	Items    []T
	Total    int64
	PageNum  int
	PageSize int
}

// CustomerResponse is the API representation of a customer
type CustomerResponse struct {
	ID          uuid.UUID       `json:"id"`
	ExternalID  *int64          `json:"external_id,omitempty"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	OrdersCount int             `json:"orders_count"`
	Location    string          `json:"location,omitempty"`
	Segment     string          `json:"segment"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OrderResponse is the API representation of an order
type OrderResponse struct {
	ID           uuid.UUID       `json:"id"`
	ExternalID   *int64          `json:"external_id,omitempty"`
	OrderNumber  string          `json:"order_number"`
	CustomerID   *uuid.UUID      `json:"customer_id,omitempty"`
	CustomerName string          `json:"customer_name"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	Currency     string          `json:"currency"`
	ItemsCount   int             `json:"items_count"`
	PlacedAt     time.Time       `json:"placed_at"`
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID         uuid.UUID       `json:"id"`
	ExternalID *int64          `json:"external_id,omitempty"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Price      decimal.Decimal `json:"price"`
	Inventory  int             `json:"inventory"`
	Sales      int             `json:"sales"`
	SKU        string          `json:"sku,omitempty"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

func toCustomerResponse(c *commerce.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID,
		ExternalID:  c.ExternalID,
		Name:        c.Name,
		Email:       c.Email,
		TotalSpent:  c.TotalSpent,
		OrdersCount: c.OrdersCount,
		Location:    c.Location,
		Segment:     string(c.Segment),
		CreatedAt:   c.CreatedAt,
	}
}

func toOrderResponse(o *commerce.Order) OrderResponse {
	return OrderResponse{
		ID:           o.ID,
		ExternalID:   o.ExternalID,
		OrderNumber:  o.OrderNumber,
		CustomerID:   o.CustomerID,
		CustomerName: o.CustomerName,
		Amount:       o.Amount,
		Status:       string(o.Status),
		Currency:     o.Currency,
		ItemsCount:   o.ItemsCount,
		PlacedAt:     o.PlacedAt,
	}
}

func toProductResponse(p *commerce.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		ExternalID: p.ExternalID,
		Name:       p.Name,
		Category:   p.Category,
		Price:      p.Price,
		Inventory:  p.Inventory,
		Sales:      p.Sales,
		SKU:        p.SKU,
		Status:     string(p.Status),
		CreatedAt:  p.CreatedAt,
	}
}
