package commerce

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOrderStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want OrderStatus
	}{
		{"Fulfilled", OrderStatusFulfilled},
		{"fulfilled", OrderStatusFulfilled},
		{"PENDING", OrderStatusPending},
		{"cancelled", OrderStatusCancelled},
		{"canceled", OrderStatusCancelled},
		{"processing", OrderStatusProcessing},
		{"shipped", OrderStatusProcessing},
		{"", OrderStatusProcessing},
		{"???", OrderStatusProcessing},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeOrderStatus(tc.raw), "raw=%q", tc.raw)
	}
}

func TestMapPlatformOrderStatus(t *testing.T) {
	cases := []struct {
		fulfillment string
		financial   string
		want        OrderStatus
	}{
		{"fulfilled", "paid", OrderStatusFulfilled},
		{"partial", "paid", OrderStatusProcessing},
		{"", "pending", OrderStatusPending},
		{"", "voided", OrderStatusCancelled},
		{"", "refunded", OrderStatusCancelled},
		{"", "paid", OrderStatusProcessing},
		{"", "", OrderStatusProcessing},
	}
	for _, tc := range cases {
		got := MapPlatformOrderStatus(tc.fulfillment, tc.financial)
		assert.Equal(t, tc.want, got, "fulfillment=%q financial=%q", tc.fulfillment, tc.financial)
	}
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, "#10B981", StatusColor(OrderStatusFulfilled))
	assert.Equal(t, "#F59E0B", StatusColor(OrderStatusProcessing))
	assert.Equal(t, "#EF4444", StatusColor(OrderStatusPending))
	assert.Equal(t, "#6B7280", StatusColor(OrderStatusCancelled))
	assert.Equal(t, "#6B7280", StatusColor(OrderStatus("bogus")), "unknown status falls back to neutral")
}

func TestNewOrder(t *testing.T) {
	tenantID := uuid.New()
	placedAt := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	t.Run("valid order", func(t *testing.T) {
		order, err := NewOrder(tenantID, "#1001", decimal.NewFromFloat(99.90), placedAt)
		require.NoError(t, err)
		assert.Equal(t, tenantID, order.TenantID)
		assert.Equal(t, OrderStatusPending, order.Status)
		assert.False(t, order.IsSynchronized())
	})

	t.Run("rejects missing order number", func(t *testing.T) {
		_, err := NewOrder(tenantID, "", decimal.NewFromInt(10), placedAt)
		assert.Error(t, err)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := NewOrder(tenantID, "#1001", decimal.NewFromInt(-1), placedAt)
		assert.Error(t, err)
	})

	t.Run("rejects zero date", func(t *testing.T) {
		_, err := NewOrder(tenantID, "#1001", decimal.NewFromInt(10), time.Time{})
		assert.Error(t, err)
	})
}

func TestOrder_LinkCustomer(t *testing.T) {
	order, err := NewOrder(uuid.New(), "#1001", decimal.NewFromInt(50), time.Now())
	require.NoError(t, err)

	customerID := uuid.New()
	order.LinkCustomer(customerID, "Jane Cooper")

	require.NotNil(t, order.CustomerID)
	assert.Equal(t, customerID, *order.CustomerID)
	assert.Equal(t, "Jane Cooper", order.CustomerName)

	// an empty name must not erase the snapshot
	order.LinkCustomer(customerID, "")
	assert.Equal(t, "Jane Cooper", order.CustomerName)
}
