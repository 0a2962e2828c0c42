package order

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/electrohub/backend/internal/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.OrderStatus
		want     bool
	}{
		{models.OrderStatusPending, models.OrderStatusConfirmed, true},
		{models.OrderStatusConfirmed, models.OrderStatusProcessing, true},
		{models.OrderStatusProcessing, models.OrderStatusShipped, true},
		{models.OrderStatusShipped, models.OrderStatusDelivered, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},

		{models.OrderStatusPending, models.OrderStatusShipped, false},
		{models.OrderStatusConfirmed, models.OrderStatusCancelled, false},
		{models.OrderStatusShipped, models.OrderStatusCancelled, false},
		{models.OrderStatusDelivered, models.OrderStatusShipped, false},
		{models.OrderStatusDelivered, models.OrderStatusConfirmed, false},
		{models.OrderStatusCancelled, models.OrderStatusPending, false},
		{models.OrderStatusPending, "misplaced", false},
		{"misplaced", models.OrderStatusConfirmed, false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestNewOrderNumberFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n := NewOrderNumber()
		require.Len(t, n, 12)
		require.Equal(t, "ORD-", n[:4])
		for _, r := range n[4:] {
			require.Contains(t, "0123456789ABCDEF", string(r))
		}
		seen[n] = true
	}
	require.Greater(t, len(seen), 90, "order numbers should be overwhelmingly distinct")
}
