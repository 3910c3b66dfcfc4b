package integration

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Platform errors
// ---------------------------------------------------------------------------

var (
	ErrPlatformNotConfigured   = errors.New("integration: platform not configured")
	ErrPlatformUnavailable     = errors.New("integration: platform temporarily unavailable")
	ErrPlatformRequestFailed   = errors.New("integration: platform request failed")
	ErrPlatformInvalidResponse = errors.New("integration: invalid platform response")
	ErrPlatformAuthFailed      = errors.New("integration: platform authentication failed")
	ErrPlatformRateLimited     = errors.New("integration: platform rate limited")
)

// IsTransient reports whether a platform error is worth retrying with backoff
func IsTransient(err error) bool {
	return errors.Is(err, ErrPlatformUnavailable) || errors.Is(err, ErrPlatformRateLimited)
}

// ---------------------------------------------------------------------------
// External record value objects
// ---------------------------------------------------------------------------

// ExternalCustomer is a customer record as delivered by the external platform
type ExternalCustomer struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	TotalSpent  decimal.Decimal
	OrdersCount int
	City        string
	Country     string
	Tags        string
	UpdatedAt   *time.Time
}

// DisplayName joins first and last name, trimming blanks
func (c *ExternalCustomer) DisplayName() string {
	switch {
	case c.FirstName != "" && c.LastName != "":
		return c.FirstName + " " + c.LastName
	case c.FirstName != "":
		return c.FirstName
	default:
		return c.LastName
	}
}

// ExternalOrder is an order record as delivered by the external platform
type ExternalOrder struct {
	ID                int64
	OrderNumber       string
	CustomerID        *int64
	CustomerFirstName string
	CustomerLastName  string
	TotalPrice        decimal.Decimal
	SubtotalPrice     decimal.Decimal
	TotalTax          decimal.Decimal
	Currency          string
	FinancialStatus   string
	FulfillmentStatus string
	ItemsCount        int
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

// CustomerDisplayName returns the buyer name carried on the order payload
func (o *ExternalOrder) CustomerDisplayName() string {
	switch {
	case o.CustomerFirstName != "" && o.CustomerLastName != "":
		return o.CustomerFirstName + " " + o.CustomerLastName
	case o.CustomerFirstName != "":
		return o.CustomerFirstName
	default:
		return o.CustomerLastName
	}
}

// ExternalProduct is a product record as delivered by the external platform
type ExternalProduct struct {
	ID          int64
	Title       string
	ProductType string
	Vendor      string
	Status      string
	Tags        string
	Price       decimal.Decimal
	Inventory   int
	SKU         string
	UpdatedAt   *time.Time
}

// ---------------------------------------------------------------------------
// Paged pull requests
// ---------------------------------------------------------------------------

// PageRequest bounds one paginated pull from the platform. SinceID resumes
// cursor pagination; UpdatedAtMin bounds incremental pulls.
type PageRequest struct {
	SinceID      int64
	UpdatedAtMin *time.Time
	Limit        int
}

// Normalize clamps the page size into the platform's accepted range
func (r *PageRequest) Normalize() {
	if r.Limit <= 0 || r.Limit > 250 {
		r.Limit = 250
	}
}

// Page is one page of pulled records with pagination state
type Page[T any] struct {
	Records []T
	HasMore bool
}

// ---------------------------------------------------------------------------
// CommercePlatform port
// ---------------------------------------------------------------------------

// StoreCredentials carries per-tenant access to the external platform.
// Credentials travel explicitly with every call; there is no process-wide
// session or default header state.
type StoreCredentials struct {
	StoreDomain string
	AccessToken string
}

// Valid reports whether the credentials are usable
func (c StoreCredentials) Valid() bool {
	return c.StoreDomain != "" && c.AccessToken != ""
}

// CommercePlatform is the port interface for the external commerce platform.
// It is defined in the domain layer; the concrete HTTP adapter lives in the
// infrastructure layer.
type CommercePlatform interface {
	PullCustomers(ctx context.Context, creds StoreCredentials, req PageRequest) (*Page[ExternalCustomer], error)
	PullOrders(ctx context.Context, creds StoreCredentials, req PageRequest) (*Page[ExternalOrder], error)
	PullProducts(ctx context.Context, creds StoreCredentials, req PageRequest) (*Page[ExternalProduct], error)
}
