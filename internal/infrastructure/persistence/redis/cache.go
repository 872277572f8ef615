package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yuzvak/fulfillment-service/internal/domain/order"
	"github.com/yuzvak/fulfillment-service/internal/infrastructure/bloom"
	"github.com/yuzvak/fulfillment-service/internal/infrastructure/monitoring"
	"github.com/yuzvak/fulfillment-service/internal/pkg/logger"
)

type Cache struct {
	client      *redis.Client
	bloomFilter *bloom.RedisBloomFilter
	logger      *logger.Logger
}

func NewCache(conn *Connection, log *logger.Logger) *Cache {
	client := monitoring.InstrumentRedisClient(conn.GetClient())

	m, k := bloom.GetOptimalParameters(100000, 0.01)
	bloomFilter := bloom.NewRedisBloomFilter(client, "bloom:submitted_orders", m, k)

	return &Cache{
		client:      client,
		bloomFilter: bloomFilter,
		logger:      log,
	}
}

func (c *Cache) GetProduct(ctx context.Context, productNum string) (*order.Product, error) {
	key := fmt.Sprintf("product:%s", productNum)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var pr order.Product
	if err := json.Unmarshal(data, &pr); err != nil {
		return nil, err
	}

	return &pr, nil
}

func (c *Cache) SetProduct(ctx context.Context, pr *order.Product, expiration time.Duration) error {
	data, err := json.Marshal(pr)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("product:%s", pr.ProductNum)
	return c.client.Set(ctx, key, data, expiration).Err()
}

func (c *Cache) InvalidateProduct(ctx context.Context, productNum string) error {
	key := fmt.Sprintf("product:%s", productNum)
	return c.client.Del(ctx, key).Err()
}

func (c *Cache) AddSubmittedOrder(ctx context.Context, orderNum int) error {
	return c.bloomFilter.Add(ctx, strconv.Itoa(orderNum))
}

// OrderEverSubmitted can report a false positive but never a false
// negative, which is the safe direction: a false positive just costs a
// gateway lookup.
func (c *Cache) OrderEverSubmitted(ctx context.Context, orderNum int) (bool, error) {
	return c.bloomFilter.Contains(ctx, strconv.Itoa(orderNum))
}

func (c *Cache) DistributedLock(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	lockKey := fmt.Sprintf("lock:%s", key)
	return c.client.SetNX(ctx, lockKey, "1", expiration).Result()
}

func (c *Cache) ReleaseLock(ctx context.Context, key string) error {
	lockKey := fmt.Sprintf("lock:%s", key)
	return c.client.Del(ctx, lockKey).Err()
}
