package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopmetrics/backend/internal/application/ingest"
	"github.com/shopmetrics/backend/internal/domain/integration"
	"github.com/shopmetrics/backend/internal/interfaces/http/dto"
)

// WebhookHandler receives platform webhook deliveries
type WebhookHandler struct {
	webhooks *ingest.WebhookService
	logger   *zap.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(webhooks *ingest.WebhookService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks, logger: logger}
}

// Receive handles POST /webhooks/*topic. The topic is a wildcard because
// platform topics contain a slash ("orders/updated"). The raw body must be
// read before any binding so signature verification sees the exact bytes
// the platform signed. Authentication failures return 401 without
// distinguishing an unknown store from a bad signature.
func (h *WebhookHandler) Receive(c *gin.Context) {
	topic := strings.TrimPrefix(c.Param("topic"), "/")
	shopDomain := c.GetHeader(integration.ShopDomainHeader)
	signature := c.GetHeader(integration.SignatureHeader)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondBadRequest(c, "Unable to read request body")
		return
	}

	if err := h.webhooks.HandleDelivery(c.Request.Context(), topic, shopDomain, signature, body); err != nil {
		if errors.Is(err, ingest.ErrWebhookUnauthorized) {
			c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("WEBHOOK_UNAUTHORIZED", "Webhook could not be authenticated"))
			return
		}
		h.logger.Error("webhook processing failed",
			zap.String("topic", topic),
			zap.String("shop_domain", shopDomain),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("INTERNAL_ERROR", "An internal error occurred"))
		return
	}

	respondOK(c, gin.H{"received": true})
}
