package commerce

import (
	"strings"
	"time"

	"github.com/shopmetrics/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerSegment represents the spend-based segment of a customer
type CustomerSegment string

const (
	SegmentVIP     CustomerSegment = "VIP"
	SegmentRegular CustomerSegment = "Regular"
	SegmentNew     CustomerSegment = "New"
)

// Segment spend thresholds
var (
	vipThreshold     = decimal.NewFromInt(1000)
	regularThreshold = decimal.NewFromInt(100)
)

// SegmentForSpend derives the customer segment from lifetime spend
func SegmentForSpend(totalSpent decimal.Decimal) CustomerSegment {
	switch {
	case totalSpent.GreaterThanOrEqual(vipThreshold):
		return SegmentVIP
	case totalSpent.GreaterThanOrEqual(regularThreshold):
		return SegmentRegular
	default:
		return SegmentNew
	}
}

// Customer represents a store customer, locally created or synchronized
// from the external platform. ExternalID is nil for locally created records.
type Customer struct {
	shared.TenantEntity
	ExternalID        *int64
	Name              string
	Email             string
	TotalSpent        decimal.Decimal
	OrdersCount       int
	Location          string
	Segment           CustomerSegment
	Phone             string
	Tags              string
	ExternalUpdatedAt *time.Time
}

// NewCustomer creates a locally originated customer
func NewCustomer(tenantID uuid.UUID, name, email string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name is required")
	}

	return &Customer{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		TotalSpent:   decimal.Zero,
		Segment:      SegmentNew,
	}, nil
}

// RecordSpend updates lifetime spend and re-derives the segment
func (c *Customer) RecordSpend(totalSpent decimal.Decimal, ordersCount int) {
	c.TotalSpent = totalSpent
	c.OrdersCount = ordersCount
	c.Segment = SegmentForSpend(totalSpent)
	c.UpdatedAt = time.Now()
}

// IsSynchronized returns true if the customer originated from the external platform
func (c *Customer) IsSynchronized() bool {
	return c.ExternalID != nil
}

// DisplayName returns the name to show in dashboards, never empty
func (c *Customer) DisplayName() string {
	if c.Name == "" {
		return UnknownCustomerName
	}
	return c.Name
}

// UnknownCustomerName is the placeholder shown when no customer name can be resolved
const UnknownCustomerName = "Unknown"
