package ingest

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/shopmetrics/backend/internal/domain/identity"
	"github.com/shopmetrics/backend/internal/domain/integration"
	"github.com/shopmetrics/backend/internal/domain/shared"
)

// ErrWebhookUnauthorized covers both an unknown store domain and a failed
// signature check. The two cases are deliberately indistinguishable to the
// caller so the endpoint does not leak which stores are registered.
var ErrWebhookUnauthorized = shared.NewDomainError("WEBHOOK_UNAUTHORIZED", "Webhook could not be authenticated")

// WebhookService authenticates webhook deliveries and routes them into the
// upsert pipeline.
type WebhookService struct {
	tenants identity.TenantRepository
	decoder integration.WebhookPayloadDecoder
	upserts *UpsertService
	logger  *zap.Logger
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(
	tenants identity.TenantRepository,
	decoder integration.WebhookPayloadDecoder,
	upserts *UpsertService,
	logger *zap.Logger,
) *WebhookService {
	return &WebhookService{
		tenants: tenants,
		decoder: decoder,
		upserts: upserts,
		logger:  logger,
	}
}

// HandleDelivery processes one webhook delivery. The body must be the raw
// request bytes; signature verification runs against them before any
// decoding. Unknown topics are acknowledged without effect so the platform
// does not retry deliveries this service never consumes.
func (s *WebhookService) HandleDelivery(ctx context.Context, topic, shopDomain, signature string, body []byte) error {
	tenant, err := s.tenants.FindByStoreDomain(ctx, shopDomain)
	if err != nil {
		s.logger.Warn("Webhook from unknown store domain",
			zap.String("shop_domain", shopDomain),
			zap.String("topic", topic),
		)
		return ErrWebhookUnauthorized
	}

	if !integration.VerifySignature(body, signature, tenant.WebhookSecret) {
		s.logger.Warn("Webhook signature verification failed",
			zap.String("tenant_id", tenant.ID.String()),
			zap.String("topic", topic),
		)
		return ErrWebhookUnauthorized
	}

	resource, _, found := strings.Cut(topic, "/")
	if !found {
		s.logger.Debug("Ignoring malformed webhook topic",
			zap.String("tenant_id", tenant.ID.String()),
			zap.String("topic", topic),
		)
		return nil
	}

	switch resource {
	case "customers":
		record, err := s.decoder.DecodeCustomer(body)
		if err != nil {
			return err
		}
		_, err = s.upserts.UpsertCustomer(ctx, tenant.ID, record)
		return err
	case "orders":
		record, err := s.decoder.DecodeOrder(body)
		if err != nil {
			return err
		}
		_, err = s.upserts.UpsertOrder(ctx, tenant.ID, record)
		return err
	case "products":
		record, err := s.decoder.DecodeProduct(body)
		if err != nil {
			return err
		}
		_, err = s.upserts.UpsertProduct(ctx, tenant.ID, record)
		return err
	default:
		s.logger.Debug("Ignoring unhandled webhook topic",
			zap.String("tenant_id", tenant.ID.String()),
			zap.String("topic", topic),
		)
		return nil
	}
}
