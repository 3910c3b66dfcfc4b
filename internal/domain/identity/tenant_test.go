package identity

import (
	"testing"
	"time"

	"github.com/shopmetrics/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTenant(t *testing.T) {
	t.Run("creates active tenant with defaults", func(t *testing.T) {
		tenant, err := NewTenant("Acme Outdoors", "acme.example.com")
		require.NoError(t, err)

		assert.Equal(t, "Acme Outdoors", tenant.Name)
		assert.Equal(t, "acme.example.com", tenant.Domain)
		assert.Equal(t, TenantStatusActive, tenant.Status)
		assert.Equal(t, SyncStatusIdle, tenant.SyncStatus)
		assert.Equal(t, "USD", tenant.Currency)
		assert.False(t, tenant.IsConnected())
		assert.Nil(t, tenant.LastSyncAt)
	})

	t.Run("lowercases domain", func(t *testing.T) {
		tenant, err := NewTenant("Acme", "ACME.Example.COM")
		require.NoError(t, err)
		assert.Equal(t, "acme.example.com", tenant.Domain)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewTenant("  ", "acme.example.com")
		assert.Error(t, err)
	})

	t.Run("rejects empty domain", func(t *testing.T) {
		_, err := NewTenant("Acme", "")
		assert.Error(t, err)
	})
}

func TestTenant_ConnectStore(t *testing.T) {
	tenant, err := NewTenant("Acme", "acme.example.com")
	require.NoError(t, err)

	t.Run("requires store domain and token", func(t *testing.T) {
		assert.Error(t, tenant.ConnectStore("", "tok", "sec"))
		assert.Error(t, tenant.ConnectStore("acme.myshopify.com", "", "sec"))
	})

	t.Run("connects and normalizes domain", func(t *testing.T) {
		require.NoError(t, tenant.ConnectStore("Acme.MyShopify.com", "shpat_123", "whsec"))
		assert.True(t, tenant.IsConnected())
		assert.Equal(t, "acme.myshopify.com", tenant.StoreDomain)
		assert.Equal(t, "whsec", tenant.WebhookSecret)
	})
}

func TestTenant_SyncLifecycle(t *testing.T) {
	newConnected := func(t *testing.T) *Tenant {
		tenant, err := NewTenant("Acme", "acme.example.com")
		require.NoError(t, err)
		require.NoError(t, tenant.ConnectStore("acme.myshopify.com", "shpat_123", "whsec"))
		return tenant
	}

	t.Run("begin requires connection", func(t *testing.T) {
		tenant, err := NewTenant("Acme", "acme.example.com")
		require.NoError(t, err)
		assert.ErrorIs(t, tenant.BeginSync(), shared.ErrStoreNotConnected)
	})

	t.Run("second begin is rejected while running", func(t *testing.T) {
		tenant := newConnected(t)
		require.NoError(t, tenant.BeginSync())
		assert.ErrorIs(t, tenant.BeginSync(), shared.ErrSyncInProgress)
	})

	t.Run("complete records timestamp and returns to idle", func(t *testing.T) {
		tenant := newConnected(t)
		require.NoError(t, tenant.BeginSync())

		at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		tenant.CompleteSync(at)

		assert.Equal(t, SyncStatusIdle, tenant.SyncStatus)
		require.NotNil(t, tenant.LastSyncAt)
		assert.Equal(t, at, *tenant.LastSyncAt)
	})

	t.Run("fail marks tenant failed", func(t *testing.T) {
		tenant := newConnected(t)
		require.NoError(t, tenant.BeginSync())
		tenant.FailSync()
		assert.Equal(t, SyncStatusFailed, tenant.SyncStatus)
	})
}

func TestTenant_AdvanceCursor(t *testing.T) {
	tenant, err := NewTenant("Acme", "acme.example.com")
	require.NoError(t, err)

	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("sets initial watermark", func(t *testing.T) {
		tenant.AdvanceCursor(EntityKindOrder, early)
		require.NotNil(t, tenant.CursorFor(EntityKindOrder))
		assert.Equal(t, early, *tenant.CursorFor(EntityKindOrder))
	})

	t.Run("moves forward", func(t *testing.T) {
		tenant.AdvanceCursor(EntityKindOrder, late)
		assert.Equal(t, late, *tenant.CursorFor(EntityKindOrder))
	})

	t.Run("never moves backward", func(t *testing.T) {
		tenant.AdvanceCursor(EntityKindOrder, early)
		assert.Equal(t, late, *tenant.CursorFor(EntityKindOrder))
	})

	t.Run("kinds are independent", func(t *testing.T) {
		assert.Nil(t, tenant.CursorFor(EntityKindCustomer))
		assert.Nil(t, tenant.CursorFor(EntityKindProduct))
	})
}

func TestEntityKind(t *testing.T) {
	assert.True(t, EntityKindCustomer.IsValid())
	assert.True(t, EntityKindOrder.IsValid())
	assert.True(t, EntityKindProduct.IsValid())
	assert.False(t, EntityKind("warehouse").IsValid())

	kinds := AllEntityKinds()
	require.Len(t, kinds, 3)
	assert.Equal(t, EntityKindCustomer, kinds[0], "customers sync before orders so links resolve")
}
