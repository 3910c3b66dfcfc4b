package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopmetrics/backend/internal/application/records"
)

// RecordsHandler serves list and detail reads over synchronized commerce
// records. All routes are tenant-scoped via the auth middleware.
type RecordsHandler struct {
	queries *records.QueryService
	logger  *zap.Logger
}

// NewRecordsHandler creates a new records handler
func NewRecordsHandler(queries *records.QueryService, logger *zap.Logger) *RecordsHandler {
	return &RecordsHandler{queries: queries, logger: logger}
}

func bindListRequest(c *gin.Context) (records.ListRequest, bool) {
	var req records.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, "Invalid query parameters")
		return records.ListRequest{}, false
	}
	return req, true
}

// ListCustomers handles GET /customers
func (h *RecordsHandler) ListCustomers(c *gin.Context) {
	tenantID, ok := tenantFromContext(c, h.logger)
	if !ok {
		return
	}
	req, ok := bindListRequest(c)
	if !ok {
		return
	}

	page, err := h.queries.ListCustomers(c.Request.Context(), tenantID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page.Items, page.Total, page.PageNum, page.PageSize)
}

// GetCustomer handles GET /customers/:id
func (h *RecordsHandler) GetCustomer(c *gin.Context) {
	tenantID, ok := tenantFromContext(c, h.logger)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.queries.GetCustomer(c.Request.Context(), tenantID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// ListOrders handles GET /orders
func (h *RecordsHandler) ListOrders(c *gin.Context) {
	tenantID, ok := tenantFromContext(c, h.logger)
	if !ok {
		return
	}
	req, ok := bindListRequest(c)
	if !ok {
		return
	}

	page, err := h.queries.ListOrders(c.Request.Context(), tenantID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page.Items, page.Total, page.PageNum, page.PageSize)
}

// GetOrder handles GET /orders/:id
func (h *RecordsHandler) GetOrder(c *gin.Context) {
	tenantID, ok := tenantFromContext(c, h.logger)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.queries.GetOrder(c.Request.Context(), tenantID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// ListProducts handles GET /products
func (h *RecordsHandler) ListProducts(c *gin.Context) {
	tenantID, ok := tenantFromContext(c, h.logger)
	if !ok {
		return
	}
	req, ok := bindListRequest(c)
	if !ok {
		return
	}

	page, err := h.queries.ListProducts(c.Request.Context(), tenantID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page.Items, page.Total, page.PageNum, page.PageSize)
}

// GetProduct handles GET /products/:id
func (h *RecordsHandler) GetProduct(c *gin.Context) {
	tenantID, ok := tenantFromContext(c, h.logger)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.queries.GetProduct(c.Request.Context(), tenantID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}
