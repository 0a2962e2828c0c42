package order

import (
	"github.com/electrohub/backend/internal/models"
)

// nextStatus encodes the linear fulfilment path. Cancellation is a side
// branch out of pending only.
var nextStatus = map[models.OrderStatus]models.OrderStatus{
	models.OrderStatusPending:    models.OrderStatusConfirmed,
	models.OrderStatusConfirmed:  models.OrderStatusProcessing,
	models.OrderStatusProcessing: models.OrderStatusShipped,
	models.OrderStatusShipped:    models.OrderStatusDelivered,
}

// CanTransition reports whether a non-administrative actor may move an
// order from one status to another. Administrative overrides bypass
// this check but still require an enumerated status.
func CanTransition(from, to models.OrderStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == models.OrderStatusPending && to == models.OrderStatusCancelled {
		return true
	}
	return nextStatus[from] == to
}
