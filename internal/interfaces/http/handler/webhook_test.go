package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopmetrics/backend/internal/application/ingest"
	"github.com/shopmetrics/backend/internal/domain/identity"
	"github.com/shopmetrics/backend/internal/domain/integration"
	"github.com/shopmetrics/backend/internal/infrastructure/shopify"
)

const webhookSecret = "whsec_test"

func newWebhookRouter(t *testing.T, customers *stubCustomerRepo) (*gin.Engine, *identity.Tenant) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tenant, err := identity.NewTenant("Acme", "acme.test")
	require.NoError(t, err)
	require.NoError(t, tenant.ConnectStore("acme.myshopify.com", "shpat_token", webhookSecret))

	upserts := ingest.NewUpsertService(customers, &stubOrderRepo{}, &stubProductRepo{}, stubCache{}, zap.NewNop())
	webhooks := ingest.NewWebhookService(newStubTenantRepo(tenant), shopify.NewPayloadDecoder(), upserts, zap.NewNop())

	r := gin.New()
	h := NewWebhookHandler(webhooks, zap.NewNop())
	r.POST("/api/webhooks/*topic", h.Receive)
	return r, tenant
}

func postWebhook(r *gin.Engine, topic, shopDomain, signature string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/"+topic, bytes.NewReader(body))
	req.Header.Set(integration.ShopDomainHeader, shopDomain)
	req.Header.Set(integration.SignatureHeader, signature)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookReceive_ValidSignature(t *testing.T) {
	customers := &stubCustomerRepo{}
	r, _ := newWebhookRouter(t, customers)

	body := []byte(`{"id": 7001, "first_name": "Jane", "last_name": "Doe", "email": "jane@example.com", "total_spent": "1250.00"}`)
	sig := integration.ComputeSignature(body, webhookSecret)

	w := postWebhook(r, "customers/create", "acme.myshopify.com", sig, body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	require.Len(t, customers.upserted, 1)
	assert.Equal(t, "Jane Doe", customers.upserted[0].Name)
}

func TestWebhookReceive_TamperedBody(t *testing.T) {
	customers := &stubCustomerRepo{}
	r, _ := newWebhookRouter(t, customers)

	body := []byte(`{"id": 7001, "first_name": "Jane"}`)
	sig := integration.ComputeSignature(body, webhookSecret)
	tampered := []byte(`{"id": 7001, "first_name": "Mallory"}`)

	w := postWebhook(r, "customers/create", "acme.myshopify.com", sig, tampered)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "WEBHOOK_UNAUTHORIZED")
	assert.Empty(t, customers.upserted)
}

func TestWebhookReceive_UnknownStore(t *testing.T) {
	customers := &stubCustomerRepo{}
	r, _ := newWebhookRouter(t, customers)

	body := []byte(`{"id": 7001}`)
	sig := integration.ComputeSignature(body, webhookSecret)

	w := postWebhook(r, "customers/create", "other.myshopify.com", sig, body)

	// Indistinguishable from a bad signature.
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "WEBHOOK_UNAUTHORIZED")
}

func TestWebhookReceive_UnhandledTopicAcknowledged(t *testing.T) {
	customers := &stubCustomerRepo{}
	r, _ := newWebhookRouter(t, customers)

	body := []byte(`{}`)
	sig := integration.ComputeSignature(body, webhookSecret)

	w := postWebhook(r, "app/uninstalled", "acme.myshopify.com", sig, body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, customers.upserted)
}
