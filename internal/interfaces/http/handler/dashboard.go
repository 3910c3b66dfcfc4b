package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopmetrics/backend/internal/application/analytics"
)

// DashboardHandler serves tenant-scoped analytics. The tenant always comes
// from the validated token, never from a request parameter.
type DashboardHandler struct {
	metrics *analytics.MetricsService
	logger  *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(metrics *analytics.MetricsService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{metrics: metrics, logger: logger}
}

// Metrics handles GET /dashboard/metrics?period=
func (h *DashboardHandler) Metrics(c *gin.Context) {
	tenantID, ok := tenantFromContext(c, h.logger)
	if !ok {
		return
	}

	resp, err := h.metrics.GetDashboardMetrics(c.Request.Context(), tenantID, c.Query("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// CustomerMetrics handles GET /dashboard/metrics/customers?period=
func (h *DashboardHandler) CustomerMetrics(c *gin.Context) {
	tenantID, ok := tenantFromContext(c, h.logger)
	if !ok {
		return
	}

	resp, err := h.metrics.GetCustomerAnalytics(c.Request.Context(), tenantID, c.Query("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// ProductMetrics handles GET /dashboard/metrics/products
func (h *DashboardHandler) ProductMetrics(c *gin.Context) {
	tenantID, ok := tenantFromContext(c, h.logger)
	if !ok {
		return
	}

	resp, err := h.metrics.GetProductAnalytics(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}
