package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopmetrics/backend/internal/domain/identity"
	"github.com/shopmetrics/backend/internal/infrastructure/auth"
)

// LoginRequest carries dashboard login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the issued session token and the authenticated user
type LoginResponse struct {
	Token auth.IssuedToken `json:"token"`
	User  UserResponse     `json:"user"`
}

// RegisterTenantRequest creates a tenant together with its admin user
type RegisterTenantRequest struct {
	Name          string `json:"name" binding:"required"`
	Domain        string `json:"domain" binding:"required"`
	AdminName     string `json:"admin_name" binding:"required"`
	AdminEmail    string `json:"admin_email" binding:"required,email"`
	AdminPassword string `json:"admin_password" binding:"required,min=8"`
}

// RegisterTenantResponse returns the newly created tenant and admin user
type RegisterTenantResponse struct {
	Tenant TenantResponse `json:"tenant"`
	Admin  UserResponse   `json:"admin"`
}

// ConnectStoreRequest attaches external store credentials to a tenant
type ConnectStoreRequest struct {
	StoreDomain   string `json:"store_domain" binding:"required"`
	AccessToken   string `json:"access_token" binding:"required"`
	WebhookSecret string `json:"webhook_secret"`
}

// TenantResponse is the API representation of a tenant
type TenantResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Domain      string     `json:"domain"`
	Currency    string     `json:"currency"`
	Status      string     `json:"status"`
	StoreDomain string     `json:"store_domain,omitempty"`
	Connected   bool       `json:"connected"`
	SyncStatus  string     `json:"sync_status"`
	LastSyncAt  *time.Time `json:"last_sync_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// UserResponse is the API representation of a dashboard user
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	Active   bool      `json:"active"`
}

func toTenantResponse(t *identity.Tenant) TenantResponse {
	return TenantResponse{
		ID:          t.ID,
		Name:        t.Name,
		Domain:      t.Domain,
		Currency:    t.Currency,
		Status:      string(t.Status),
		StoreDomain: t.StoreDomain,
		Connected:   t.IsConnected(),
		SyncStatus:  string(t.SyncStatus),
		LastSyncAt:  t.LastSyncAt,
		CreatedAt:   t.CreatedAt,
	}
}

func toUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		TenantID: u.TenantID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     string(u.Role),
		Active:   u.Active,
	}
}
