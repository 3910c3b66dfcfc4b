package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContext(t *testing.T) {
	logger := zap.NewNop()
	ctx := WithContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}

func TestFromContext_Missing(t *testing.T) {
	// No logger attached: callers get a safe no-op, never nil
	logger := FromContext(context.Background())
	assert.NotNil(t, logger)
	logger.Info("should not panic")
}

func TestWithRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	ctx, enriched := WithRequestID(context.Background(), logger, "req-123")
	assert.Equal(t, "req-123", GetRequestID(ctx))

	enriched.Info("hello")
	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
}

func TestWithTenant(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	t.Run("with shop domain", func(t *testing.T) {
		ctx, enriched := WithTenant(context.Background(), logger, "tenant-1", "acme.myshopify.com")
		assert.Equal(t, "tenant-1", GetTenantID(ctx))
		assert.Equal(t, "acme.myshopify.com", GetShopDomain(ctx))

		enriched.Info("synced")
		entry := logs.All()[len(logs.All())-1]
		assert.Equal(t, "tenant-1", entry.ContextMap()["tenant_id"])
		assert.Equal(t, "acme.myshopify.com", entry.ContextMap()["shop_domain"])
	})

	t.Run("without shop domain", func(t *testing.T) {
		ctx, enriched := WithTenant(context.Background(), logger, "tenant-2", "")
		assert.Equal(t, "tenant-2", GetTenantID(ctx))
		assert.Equal(t, "", GetShopDomain(ctx))

		enriched.Info("synced")
		entry := logs.All()[len(logs.All())-1]
		_, hasShop := entry.ContextMap()["shop_domain"]
		assert.False(t, hasShop)
	})
}

func TestGetters_EmptyContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", GetRequestID(ctx))
	assert.Equal(t, "", GetTenantID(ctx))
	assert.Equal(t, "", GetShopDomain(ctx))
}
