package ports

import (
	"context"

	"github.com/yuzvak/fulfillment-service/internal/domain/order"
)

type OrderStore interface {
	NextOrderNumber(ctx context.Context) (int, error)
	SubmitOrder(ctx context.Context, basket *order.Basket) error

	// NextPickableOrder claims the oldest waiting order and returns its
	// basket, or (nil, nil) when nothing is waiting.
	NextPickableOrder(ctx context.Context) (*order.Basket, error)
	ReleaseOrder(ctx context.Context, orderNum int) error
	MarkOrderPicked(ctx context.Context, orderNum int) error

	// MarkOrderCollected returns false for an unknown or not-yet-picked
	// order number.
	MarkOrderCollected(ctx context.Context, orderNum int) (bool, error)
}
