package models

import (
	"time"

	"github.com/shopmetrics/backend/internal/domain/identity"
)

// TenantModel maps the tenants table. Sync cursors are flattened into
// nullable timestamp columns so the claim/release queries can stay plain SQL.
type TenantModel struct {
	BaseModel
	Name            string `gorm:"not null"`
	Domain          string `gorm:"uniqueIndex;not null"`
	Currency        string `gorm:"not null;default:'USD'"`
	Status          string `gorm:"not null;default:'active';index"`
	StoreDomain     string `gorm:"index"`
	AccessToken     string
	WebhookSecret   string
	LastSyncAt      *time.Time
	SyncStatus      string `gorm:"not null;default:'idle'"`
	CustomersCursor *time.Time
	OrdersCursor    *time.Time
	ProductsCursor  *time.Time
}

// TableName specifies the table name for TenantModel
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain tenant
func (m *TenantModel) ToDomain() *identity.Tenant {
	return &identity.Tenant{
		BaseEntity:    m.BaseModel.ToDomain(),
		Name:          m.Name,
		Domain:        m.Domain,
		Currency:      m.Currency,
		Status:        identity.TenantStatus(m.Status),
		StoreDomain:   m.StoreDomain,
		AccessToken:   m.AccessToken,
		WebhookSecret: m.WebhookSecret,
		LastSyncAt:    m.LastSyncAt,
		SyncStatus:    identity.SyncStatus(m.SyncStatus),
		Cursors: identity.SyncCursors{
			Customers: m.CustomersCursor,
			Orders:    m.OrdersCursor,
			Products:  m.ProductsCursor,
		},
	}
}

// TenantModelFromDomain converts a domain tenant to the persistence model
func TenantModelFromDomain(t *identity.Tenant) *TenantModel {
	m := &TenantModel{
		Name:            t.Name,
		Domain:          t.Domain,
		Currency:        t.Currency,
		Status:          string(t.Status),
		StoreDomain:     t.StoreDomain,
		AccessToken:     t.AccessToken,
		WebhookSecret:   t.WebhookSecret,
		LastSyncAt:      t.LastSyncAt,
		SyncStatus:      string(t.SyncStatus),
		CustomersCursor: t.Cursors.Customers,
		OrdersCursor:    t.Cursors.Orders,
		ProductsCursor:  t.Cursors.Products,
	}
	m.FromDomainBaseEntity(t.BaseEntity)
	return m
}

// UserModel maps the users table
type UserModel struct {
	TenantScopedModel
	Email        string `gorm:"uniqueIndex;not null"`
	Name         string `gorm:"not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:'viewer'"`
	Active       bool   `gorm:"not null;default:true"`
}

// TableName specifies the table name for UserModel
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain user
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		TenantEntity: m.ToDomainTenantEntity(),
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		Role:         identity.UserRole(m.Role),
		Active:       m.Active,
	}
}

// UserModelFromDomain converts a domain user to the persistence model
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Active:       u.Active,
	}
	m.FromDomainTenantEntity(u.TenantEntity)
	return m
}
