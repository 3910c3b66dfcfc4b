package integration

// WebhookPayloadDecoder turns raw webhook delivery bodies into external
// records. The concrete decoder lives next to the platform adapter, where
// the payload shapes are defined.
type WebhookPayloadDecoder interface {
	DecodeCustomer(body []byte) (*ExternalCustomer, error)
	DecodeOrder(body []byte) (*ExternalOrder, error)
	DecodeProduct(body []byte) (*ExternalProduct, error)
}
