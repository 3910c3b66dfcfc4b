package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopmetrics/backend/internal/interfaces/http/dto"
	"github.com/shopmetrics/backend/internal/interfaces/http/middleware"
)

// respondOK writes a 200 success envelope
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// respondOKWithMessage writes a 200 success envelope carrying a message
func respondOKWithMessage(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMessage(message, data))
}

// respondCreated writes a 201 success envelope
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// respondPage writes a 200 success envelope with pagination meta
func respondPage(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// respondError maps the error onto an HTTP status and writes the envelope
func respondError(c *gin.Context, err error) {
	status, resp := dto.MapError(err)
	c.JSON(status, resp)
}

// respondBadRequest writes a 400 envelope for request binding failures
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse("INVALID_REQUEST", message))
}

// tenantFromContext reads the tenant bound by the auth middleware. A miss
// means the route was wired without Auth, which is a server bug, so the
// request is failed rather than served unscoped.
func tenantFromContext(c *gin.Context, logger *zap.Logger) (uuid.UUID, bool) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		logger.Error("route reached without tenant binding", zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("INTERNAL_ERROR", "An internal error occurred"))
		return uuid.Nil, false
	}
	return tenantID, true
}

// parseUUIDParam binds a path parameter as a UUID
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondBadRequest(c, "Invalid "+name+" parameter")
		return uuid.Nil, false
	}
	return id, true
}
