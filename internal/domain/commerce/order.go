package commerce

import (
	"strings"
	"time"

	"github.com/shopmetrics/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the closed enumeration of dashboard order statuses.
// Unknown incoming values are mapped to a default, never rejected.
type OrderStatus string

const (
	OrderStatusFulfilled  OrderStatus = "Fulfilled"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// IsValid returns true if the status is one of the closed enumeration values
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusFulfilled, OrderStatusProcessing, OrderStatusPending, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// AllOrderStatuses lists every status in display order
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusFulfilled, OrderStatusProcessing, OrderStatusPending, OrderStatusCancelled}
}

// NormalizeOrderStatus maps an arbitrary incoming status string onto the
// closed enumeration, defaulting to Processing.
func NormalizeOrderStatus(raw string) OrderStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "fulfilled":
		return OrderStatusFulfilled
	case "processing":
		return OrderStatusProcessing
	case "pending":
		return OrderStatusPending
	case "cancelled", "canceled":
		return OrderStatusCancelled
	default:
		return OrderStatusProcessing
	}
}

// MapPlatformOrderStatus derives the dashboard status from the external
// platform's fulfillment and financial statuses.
func MapPlatformOrderStatus(fulfillmentStatus, financialStatus string) OrderStatus {
	switch strings.ToLower(fulfillmentStatus) {
	case "fulfilled":
		return OrderStatusFulfilled
	case "partial":
		return OrderStatusProcessing
	}
	switch strings.ToLower(financialStatus) {
	case "pending":
		return OrderStatusPending
	case "voided", "refunded":
		return OrderStatusCancelled
	}
	return OrderStatusProcessing
}

// StatusColor returns the fixed dashboard color for an order status.
// Unrecognized statuses fall back to the neutral color.
func StatusColor(status OrderStatus) string {
	switch status {
	case OrderStatusFulfilled:
		return "#10B981"
	case OrderStatusProcessing:
		return "#F59E0B"
	case OrderStatusPending:
		return "#EF4444"
	default:
		return "#6B7280"
	}
}

// Order represents a store order. CustomerName is a denormalized snapshot
// kept for display when the customer link is absent or later removed.
type Order struct {
	shared.TenantEntity
	ExternalID        *int64
	OrderNumber       string
	CustomerID        *uuid.UUID
	CustomerName      string
	Amount            decimal.Decimal
	Subtotal          decimal.Decimal
	TaxAmount         decimal.Decimal
	Status            OrderStatus
	Currency          string
	ItemsCount        int
	PlacedAt          time.Time
	ExternalUpdatedAt *time.Time
}

// NewOrder creates a locally originated order
func NewOrder(tenantID uuid.UUID, orderNumber string, amount decimal.Decimal, placedAt time.Time) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number is required")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_ORDER_AMOUNT", "Order amount cannot be negative")
	}
	if placedAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_ORDER_DATE", "Order date is required")
	}

	return &Order{
		TenantEntity: shared.NewTenantEntity(tenantID),
		OrderNumber:  orderNumber,
		Amount:       amount,
		Status:       OrderStatusPending,
		Currency:     "USD",
		PlacedAt:     placedAt,
	}, nil
}

// LinkCustomer attaches a customer and snapshots the display name
func (o *Order) LinkCustomer(customerID uuid.UUID, name string) {
	o.CustomerID = &customerID
	if name != "" {
		o.CustomerName = name
	}
	o.UpdatedAt = time.Now()
}

// IsSynchronized returns true if the order originated from the external platform
func (o *Order) IsSynchronized() bool {
	return o.ExternalID != nil
}
