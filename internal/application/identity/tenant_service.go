package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopmetrics/backend/internal/domain/identity"
	"github.com/shopmetrics/backend/internal/domain/shared"
)

// ErrDomainTaken is returned when registering a tenant with a domain that
// already belongs to another tenant.
var ErrDomainTaken = shared.NewDomainError("DOMAIN_TAKEN", "Tenant domain is already in use")

// TenantService handles tenant registration and store connection
type TenantService struct {
	tenants identity.TenantRepository
	users   identity.UserRepository
	logger  *zap.Logger
}

// TenantOption configures a TenantService
type TenantOption func(*TenantService)

// WithTenantLogger sets the logger for the tenant service
func WithTenantLogger(logger *zap.Logger) TenantOption {
	return func(s *TenantService) {
		s.logger = logger
	}
}

// NewTenantService creates a new tenant service
func NewTenantService(tenants identity.TenantRepository, users identity.UserRepository, opts ...TenantOption) *TenantService {
	s := &TenantService{
		tenants: tenants,
		users:   users,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a tenant together with its admin user
func (s *TenantService) Register(ctx context.Context, req RegisterTenantRequest) (*RegisterTenantResponse, error) {
	if existing, err := s.tenants.FindByDomain(ctx, req.Domain); err == nil && existing != nil {
		return nil, ErrDomainTaken
	}

	tenant, err := identity.NewTenant(req.Name, req.Domain)
	if err != nil {
		return nil, err
	}

	admin, err := identity.NewUser(tenant.ID, req.AdminEmail, req.AdminName, req.AdminPassword)
	if err != nil {
		return nil, err
	}
	admin.Role = identity.UserRoleAdmin

	if err := s.tenants.Save(ctx, tenant); err != nil {
		s.logger.Error("failed to save tenant", zap.Error(err))
		return nil, err
	}
	if err := s.users.Save(ctx, admin); err != nil {
		s.logger.Error("failed to save admin user", zap.String("tenant_id", tenant.ID.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("tenant registered",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("domain", tenant.Domain),
	)

	return &RegisterTenantResponse{
		Tenant: toTenantResponse(tenant),
		Admin:  toUserResponse(admin),
	}, nil
}

// GetByID returns a tenant by its identifier
func (s *TenantService) GetByID(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toTenantResponse(tenant)
	return &resp, nil
}

// ConnectStore attaches external store credentials to a tenant. Reconnecting
// replaces the previous credentials.
func (s *TenantService) ConnectStore(ctx context.Context, tenantID uuid.UUID, req ConnectStoreRequest) (*TenantResponse, error) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if err := tenant.ConnectStore(req.StoreDomain, req.AccessToken, req.WebhookSecret); err != nil {
		return nil, err
	}
	if err := s.tenants.Save(ctx, tenant); err != nil {
		s.logger.Error("failed to save store connection", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("store connected",
		zap.String("tenant_id", tenantID.String()),
		zap.String("store_domain", tenant.StoreDomain),
	)

	resp := toTenantResponse(tenant)
	return &resp, nil
}
