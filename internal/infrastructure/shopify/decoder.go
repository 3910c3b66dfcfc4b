package shopify

import (
	"encoding/json"
	"fmt"

	"github.com/shopmetrics/backend/internal/domain/integration"
)

// PayloadDecoder decodes webhook delivery bodies. Webhook payloads carry the
// same resource shapes as the Admin API listings, just unwrapped.
type PayloadDecoder struct{}

// NewPayloadDecoder creates a webhook payload decoder
func NewPayloadDecoder() *PayloadDecoder {
	return &PayloadDecoder{}
}

// DecodeCustomer parses a customer webhook payload
func (d *PayloadDecoder) DecodeCustomer(body []byte) (*integration.ExternalCustomer, error) {
	var payload shopifyCustomer
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}
	record := payload.toExternal()
	return &record, nil
}

// DecodeOrder parses an order webhook payload
func (d *PayloadDecoder) DecodeOrder(body []byte) (*integration.ExternalOrder, error) {
	var payload shopifyOrder
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}
	record := payload.toExternal()
	return &record, nil
}

// DecodeProduct parses a product webhook payload
func (d *PayloadDecoder) DecodeProduct(body []byte) (*integration.ExternalProduct, error) {
	var payload shopifyProduct
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}
	record := payload.toExternal()
	return &record, nil
}

// Ensure PayloadDecoder implements WebhookPayloadDecoder
var _ integration.WebhookPayloadDecoder = (*PayloadDecoder)(nil)
