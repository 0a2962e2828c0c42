package order

import (
	"strings"

	"github.com/google/uuid"
)

// NewOrderNumber returns a short human-readable order token, distinct
// from the numeric primary key. Uniqueness is enforced by the
// order_number unique index, not by the entropy here.
func NewOrderNumber() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ORD-" + strings.ToUpper(hex[:8])
}
