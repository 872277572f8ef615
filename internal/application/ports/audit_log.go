package ports

import (
	"time"

	"github.com/yuzvak/fulfillment-service/internal/domain/order"
)

// AuditLog is the durable-record boundary. Writes are best-effort: a
// failed append never rolls back the business transaction.
type AuditLog interface {
	RecordOrder(basket *order.Basket) error
	RecordCollection(orderNum int, at time.Time) error
}
