package ports

import (
	"context"
	"time"

	"github.com/yuzvak/fulfillment-service/internal/domain/order"
)

type Cache interface {
	GetProduct(ctx context.Context, productNum string) (*order.Product, error)
	SetProduct(ctx context.Context, pr *order.Product, expiration time.Duration) error
	InvalidateProduct(ctx context.Context, productNum string) error

	AddSubmittedOrder(ctx context.Context, orderNum int) error
	OrderEverSubmitted(ctx context.Context, orderNum int) (bool, error)

	DistributedLock(ctx context.Context, key string, expiration time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}
