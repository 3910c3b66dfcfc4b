package models

import (
	"time"

	"github.com/shopmetrics/backend/internal/domain/commerce"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerModel maps the customers table. The (tenant_id, external_id)
// unique index is the idempotency key for synchronized records; locally
// created customers have a NULL external_id and stay outside the index.
type CustomerModel struct {
	BaseModel
	TenantID          uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_customers_tenant_external"`
	ExternalID        *int64    `gorm:"uniqueIndex:idx_customers_tenant_external"`
	Name              string    `gorm:"not null"`
	Email             string    `gorm:"index"`
	TotalSpent        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	OrdersCount       int             `gorm:"not null;default:0"`
	Location          string
	Segment           string `gorm:"not null;default:'New';index"`
	Phone             string
	Tags              string
	ExternalUpdatedAt *time.Time
}

// TableName specifies the table name for CustomerModel
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain customer
func (m *CustomerModel) ToDomain() *commerce.Customer {
	return &commerce.Customer{
		TenantEntity:      tenantEntityFrom(m.BaseModel, m.TenantID),
		ExternalID:        m.ExternalID,
		Name:              m.Name,
		Email:             m.Email,
		TotalSpent:        m.TotalSpent,
		OrdersCount:       m.OrdersCount,
		Location:          m.Location,
		Segment:           commerce.CustomerSegment(m.Segment),
		Phone:             m.Phone,
		Tags:              m.Tags,
		ExternalUpdatedAt: m.ExternalUpdatedAt,
	}
}

// CustomerModelFromDomain converts a domain customer to the persistence model
func CustomerModelFromDomain(c *commerce.Customer) *CustomerModel {
	m := &CustomerModel{
		TenantID:          c.TenantID,
		ExternalID:        c.ExternalID,
		Name:              c.Name,
		Email:             c.Email,
		TotalSpent:        c.TotalSpent,
		OrdersCount:       c.OrdersCount,
		Location:          c.Location,
		Segment:           string(c.Segment),
		Phone:             c.Phone,
		Tags:              c.Tags,
		ExternalUpdatedAt: c.ExternalUpdatedAt,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// OrderModel maps the orders table
type OrderModel struct {
	BaseModel
	TenantID          uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_orders_tenant_external"`
	ExternalID        *int64     `gorm:"uniqueIndex:idx_orders_tenant_external"`
	OrderNumber       string     `gorm:"not null;index"`
	CustomerID        *uuid.UUID `gorm:"type:uuid;index"`
	CustomerName      string
	Amount            decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Subtotal          decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TaxAmount         decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Status            string          `gorm:"not null;default:'Pending';index"`
	Currency          string          `gorm:"not null;default:'USD'"`
	ItemsCount        int             `gorm:"not null;default:0"`
	PlacedAt          time.Time       `gorm:"not null;index"`
	ExternalUpdatedAt *time.Time
}

// TableName specifies the table name for OrderModel
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain order
func (m *OrderModel) ToDomain() *commerce.Order {
	return &commerce.Order{
		TenantEntity:      tenantEntityFrom(m.BaseModel, m.TenantID),
		ExternalID:        m.ExternalID,
		OrderNumber:       m.OrderNumber,
		CustomerID:        m.CustomerID,
		CustomerName:      m.CustomerName,
		Amount:            m.Amount,
		Subtotal:          m.Subtotal,
		TaxAmount:         m.TaxAmount,
		Status:            commerce.OrderStatus(m.Status),
		Currency:          m.Currency,
		ItemsCount:        m.ItemsCount,
		PlacedAt:          m.PlacedAt,
		ExternalUpdatedAt: m.ExternalUpdatedAt,
	}
}

// OrderModelFromDomain converts a domain order to the persistence model
func OrderModelFromDomain(o *commerce.Order) *OrderModel {
	m := &OrderModel{
		TenantID:          o.TenantID,
		ExternalID:        o.ExternalID,
		OrderNumber:       o.OrderNumber,
		CustomerID:        o.CustomerID,
		CustomerName:      o.CustomerName,
		Amount:            o.Amount,
		Subtotal:          o.Subtotal,
		TaxAmount:         o.TaxAmount,
		Status:            string(o.Status),
		Currency:          o.Currency,
		ItemsCount:        o.ItemsCount,
		PlacedAt:          o.PlacedAt,
		ExternalUpdatedAt: o.ExternalUpdatedAt,
	}
	m.FromDomainBaseEntity(o.BaseEntity)
	return m
}

// ProductModel maps the products table
type ProductModel struct {
	BaseModel
	TenantID          uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_products_tenant_external"`
	ExternalID        *int64    `gorm:"uniqueIndex:idx_products_tenant_external"`
	Name              string    `gorm:"not null"`
	Category          string    `gorm:"not null;default:'Uncategorized';index"`
	Price             decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Inventory         int             `gorm:"not null;default:0"`
	Sales             int             `gorm:"not null;default:0"`
	SKU               string
	Vendor            string
	ProductType       string
	Status            string `gorm:"not null;default:'active';index"`
	Tags              string
	ExternalUpdatedAt *time.Time
}

// TableName specifies the table name for ProductModel
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain product
func (m *ProductModel) ToDomain() *commerce.Product {
	return &commerce.Product{
		TenantEntity:      tenantEntityFrom(m.BaseModel, m.TenantID),
		ExternalID:        m.ExternalID,
		Name:              m.Name,
		Category:          m.Category,
		Price:             m.Price,
		Inventory:         m.Inventory,
		Sales:             m.Sales,
		SKU:               m.SKU,
		Vendor:            m.Vendor,
		ProductType:       m.ProductType,
		Status:            commerce.ProductStatus(m.Status),
		Tags:              m.Tags,
		ExternalUpdatedAt: m.ExternalUpdatedAt,
	}
}

// ProductModelFromDomain converts a domain product to the persistence model
func ProductModelFromDomain(p *commerce.Product) *ProductModel {
	m := &ProductModel{
		TenantID:          p.TenantID,
		ExternalID:        p.ExternalID,
		Name:              p.Name,
		Category:          p.Category,
		Price:             p.Price,
		Inventory:         p.Inventory,
		Sales:             p.Sales,
		SKU:               p.SKU,
		Vendor:            p.Vendor,
		ProductType:       p.ProductType,
		Status:            string(p.Status),
		Tags:              p.Tags,
		ExternalUpdatedAt: p.ExternalUpdatedAt,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}
