package ports

import (
	"context"

	"github.com/yuzvak/fulfillment-service/internal/domain/order"
)

type StockStore interface {
	Exists(ctx context.Context, productNum string) (bool, error)
	GetDetails(ctx context.Context, productNum string) (*order.Product, error)

	// DecrementStock returns false when the stock level is insufficient,
	// including when a concurrent sale won the race.
	DecrementStock(ctx context.Context, productNum string, quantity int) (bool, error)
	IncrementStock(ctx context.Context, productNum string, quantity int) error
	SetStockLevel(ctx context.Context, productNum string, quantity int) error
}
