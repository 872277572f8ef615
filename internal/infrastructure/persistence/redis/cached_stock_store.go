package redis

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yuzvak/fulfillment-service/internal/application/ports"
	"github.com/yuzvak/fulfillment-service/internal/domain/order"
	"github.com/yuzvak/fulfillment-service/internal/infrastructure/monitoring"
	"github.com/yuzvak/fulfillment-service/internal/pkg/logger"
)

// CachedStockStore puts a read-through product cache in front of the
// Postgres stock store. Mutations pass straight through and invalidate,
// so a check never sees a stale quantity after a sale on this node or
// another. Concurrent misses for one product collapse into a single
// database read.
type CachedStockStore struct {
	next   ports.StockStore
	cache  ports.Cache
	ttl    time.Duration
	group  singleflight.Group
	logger *logger.Logger
}

func NewCachedStockStore(next ports.StockStore, cache ports.Cache, ttl time.Duration, log *logger.Logger) *CachedStockStore {
	return &CachedStockStore{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: log,
	}
}

func (s *CachedStockStore) Exists(ctx context.Context, productNum string) (bool, error) {
	if pr, err := s.cache.GetProduct(ctx, productNum); err == nil && pr != nil {
		return true, nil
	}
	return s.next.Exists(ctx, productNum)
}

func (s *CachedStockStore) GetDetails(ctx context.Context, productNum string) (*order.Product, error) {
	if pr, err := s.cache.GetProduct(ctx, productNum); err == nil && pr != nil {
		monitoring.RecordProductCacheResult("hit")
		return pr, nil
	}
	monitoring.RecordProductCacheResult("miss")

	result, err, _ := s.group.Do(productNum, func() (interface{}, error) {
		pr, err := s.next.GetDetails(ctx, productNum)
		if err != nil {
			return nil, err
		}

		if err := s.cache.SetProduct(ctx, pr, s.ttl); err != nil {
			s.logger.Warn("Failed to cache product details",
				"product_num", productNum, "error", err)
		}
		return pr, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*order.Product), nil
}

func (s *CachedStockStore) DecrementStock(ctx context.Context, productNum string, quantity int) (bool, error) {
	ok, err := s.next.DecrementStock(ctx, productNum, quantity)
	if err == nil {
		s.invalidate(ctx, productNum)
	}
	return ok, err
}

func (s *CachedStockStore) IncrementStock(ctx context.Context, productNum string, quantity int) error {
	err := s.next.IncrementStock(ctx, productNum, quantity)
	if err == nil {
		s.invalidate(ctx, productNum)
	}
	return err
}

func (s *CachedStockStore) SetStockLevel(ctx context.Context, productNum string, quantity int) error {
	err := s.next.SetStockLevel(ctx, productNum, quantity)
	if err == nil {
		s.invalidate(ctx, productNum)
	}
	return err
}

func (s *CachedStockStore) invalidate(ctx context.Context, productNum string) {
	if err := s.cache.InvalidateProduct(ctx, productNum); err != nil {
		s.logger.Warn("Failed to invalidate product cache",
			"product_num", productNum, "error", err)
	}
}
