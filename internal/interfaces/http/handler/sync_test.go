package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appsync "github.com/shopmetrics/backend/internal/application/sync"
	"github.com/shopmetrics/backend/internal/domain/identity"
)

func newSyncRouter(t *testing.T, repo *stubTenantRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	service := appsync.NewService(repo, stubPlatform{}, stubIngestor{}, 250, zap.NewNop())
	h := NewSyncHandler(service, zap.NewNop())

	r := gin.New()
	r.POST("/api/sync/:tenantId", h.TriggerFull)
	r.POST("/api/sync/:tenantId/incremental", h.TriggerIncremental)
	r.GET("/api/sync/:tenantId/status", h.Status)
	return r
}

func connectedTenant(t *testing.T) *identity.Tenant {
	t.Helper()
	tenant, err := identity.NewTenant("Acme", "acme.test")
	require.NoError(t, err)
	require.NoError(t, tenant.ConnectStore("acme.myshopify.com", "shpat_token", "whsec"))
	return tenant
}

func TestSyncTrigger_ReturnsSummary(t *testing.T) {
	tenant := connectedTenant(t)
	r := newSyncRouter(t, newStubTenantRepo(tenant))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/sync/"+tenant.ID.String(), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), `"message":"Full sync completed"`)
	assert.Contains(t, w.Body.String(), `"customers"`)
	assert.Contains(t, w.Body.String(), `"orders"`)
	assert.Contains(t, w.Body.String(), `"products"`)
}

func TestSyncTrigger_ConcurrentRunRejected(t *testing.T) {
	tenant := connectedTenant(t)
	tenant.SyncStatus = identity.SyncStatusRunning
	r := newSyncRouter(t, newStubTenantRepo(tenant))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/sync/"+tenant.ID.String(), nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "SYNC_IN_PROGRESS")
}

func TestSyncTrigger_DisconnectedStore(t *testing.T) {
	tenant, err := identity.NewTenant("Acme", "acme.test")
	require.NoError(t, err)
	r := newSyncRouter(t, newStubTenantRepo(tenant))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/sync/"+tenant.ID.String(), nil))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "STORE_NOT_CONNECTED")
}

func TestSyncTrigger_UnknownTenant(t *testing.T) {
	r := newSyncRouter(t, newStubTenantRepo())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/sync/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSyncTrigger_InvalidTenantID(t *testing.T) {
	r := newSyncRouter(t, newStubTenantRepo())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/sync/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncStatus(t *testing.T) {
	tenant := connectedTenant(t)
	r := newSyncRouter(t, newStubTenantRepo(tenant))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sync/"+tenant.ID.String()+"/status", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sync_status":"idle"`)
	assert.Contains(t, w.Body.String(), `"is_connected":true`)
}
