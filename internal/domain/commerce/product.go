package commerce

import (
	"strings"
	"time"

	"github.com/shopmetrics/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the listing status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusArchived ProductStatus = "archived"
	ProductStatusDraft    ProductStatus = "draft"
)

// NormalizeProductStatus maps an arbitrary incoming status onto the
// recognized values, defaulting to active.
func NormalizeProductStatus(raw string) ProductStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "archived":
		return ProductStatusArchived
	case "draft":
		return ProductStatusDraft
	default:
		return ProductStatusActive
	}
}

// DefaultCategory is assigned when the platform provides no product type
const DefaultCategory = "Uncategorized"

// Product represents a store product, locally created or synchronized
// from the external platform.
type Product struct {
	shared.TenantEntity
	ExternalID        *int64
	Name              string
	Category          string
	Price             decimal.Decimal
	Inventory         int
	Sales             int
	SKU               string
	Vendor            string
	ProductType       string
	Status            ProductStatus
	Tags              string
	ExternalUpdatedAt *time.Time
}

// NewProduct creates a locally originated product
func NewProduct(tenantID uuid.UUID, name string, price decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name is required")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRODUCT_PRICE", "Product price cannot be negative")
	}

	return &Product{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
		Category:     DefaultCategory,
		Price:        price,
		Status:       ProductStatusActive,
	}, nil
}

// IsSynchronized returns true if the product originated from the external platform
func (p *Product) IsSynchronized() bool {
	return p.ExternalID != nil
}

// IsLowInventory reports whether stock is below the dashboard threshold
func (p *Product) IsLowInventory() bool {
	return p.Inventory < LowInventoryThreshold
}

// LowInventoryThreshold is the stock level under which a product is flagged
const LowInventoryThreshold = 10
