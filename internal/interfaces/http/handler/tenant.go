package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appidentity "github.com/shopmetrics/backend/internal/application/identity"
)

// TenantHandler serves tenant registration and store connection
type TenantHandler struct {
	tenants *appidentity.TenantService
	logger  *zap.Logger
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenants *appidentity.TenantService, logger *zap.Logger) *TenantHandler {
	return &TenantHandler{tenants: tenants, logger: logger}
}

// Register handles POST /tenants
func (h *TenantHandler) Register(c *gin.Context) {
	var req appidentity.RegisterTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid tenant registration payload")
		return
	}

	resp, err := h.tenants.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, resp)
}

// Get handles GET /tenants/me for the authenticated tenant
func (h *TenantHandler) Get(c *gin.Context) {
	tenantID, ok := tenantFromContext(c, h.logger)
	if !ok {
		return
	}

	resp, err := h.tenants.GetByID(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// ConnectStore handles POST /tenants/me/store for the authenticated tenant
func (h *TenantHandler) ConnectStore(c *gin.Context) {
	tenantID, ok := tenantFromContext(c, h.logger)
	if !ok {
		return
	}

	var req appidentity.ConnectStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Store domain and access token are required")
		return
	}

	resp, err := h.tenants.ConnectStore(c.Request.Context(), tenantID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}
