package use_cases

import (
	"context"
	"fmt"
	"time"

	"github.com/yuzvak/fulfillment-service/internal/application/ports"
	"github.com/yuzvak/fulfillment-service/internal/domain/errors"
	"github.com/yuzvak/fulfillment-service/internal/domain/fulfillment"
	"github.com/yuzvak/fulfillment-service/internal/pkg/clock"
	"github.com/yuzvak/fulfillment-service/internal/pkg/logger"
)

type CollectResult struct {
	OrderNum  int     `json:"order_num"`
	Collected bool    `json:"collected"`
	RefundDue float64 `json:"refund_due,omitempty"`
	Message   string  `json:"message"`
}

// Collector hands picked orders to customers and settles any refund the
// pick left behind.
type Collector struct {
	orders   ports.OrderStore
	cache    ports.Cache
	ledger   *fulfillment.RefundLedger
	audit    ports.AuditLog
	notifier ports.Notifier
	clock    clock.Clock
	log      *logger.Logger

	lockTimeout time.Duration
}

func NewCollector(
	orders ports.OrderStore,
	cache ports.Cache,
	ledger *fulfillment.RefundLedger,
	audit ports.AuditLog,
	notifier ports.Notifier,
	clk clock.Clock,
	log *logger.Logger,
) *Collector {
	return &Collector{
		orders:      orders,
		cache:       cache,
		ledger:      ledger,
		audit:       audit,
		notifier:    notifier,
		clock:       clk,
		log:         log,
		lockTimeout: 10 * time.Second,
	}
}

// Collect releases an order to the customer. verified reflects the ID
// check at the counter; an unverified request changes nothing.
func (c *Collector) Collect(ctx context.Context, orderNum int, verified bool) (*CollectResult, error) {
	if !verified {
		msg := "Invalid credentials"
		c.notifier.Notify(msg)
		return &CollectResult{OrderNum: orderNum, Message: msg}, nil
	}

	lockKey := fmt.Sprintf("collect:%d", orderNum)
	locked, err := c.cache.DistributedLock(ctx, lockKey, c.lockTimeout)
	if err != nil {
		c.log.Error("Failed to acquire collection lock", "order_num", orderNum, "error", err)
		return nil, fmt.Errorf("failed to acquire collection lock: %w", err)
	}
	if !locked {
		return nil, errors.ErrCollectionBusy
	}
	defer func() {
		if err := c.cache.ReleaseLock(ctx, lockKey); err != nil {
			c.log.Error("Failed to release collection lock", "order_num", orderNum, "error", err)
		}
	}()

	// The bloom filter of submitted orders short-circuits numbers that
	// were never an order. A false positive just falls through to the
	// gateway lookup.
	if ever, err := c.cache.OrderEverSubmitted(ctx, orderNum); err == nil && !ever {
		msg := fmt.Sprintf("No such order to be collected : %d", orderNum)
		c.notifier.Notify(msg)
		return &CollectResult{OrderNum: orderNum, Message: msg}, nil
	}

	refund, refundDue := c.ledger.Consume(orderNum)

	collected, err := c.orders.MarkOrderCollected(ctx, orderNum)
	if err != nil {
		// The gateway failed after the refund entry was consumed; put
		// it back so it cannot be lost.
		if refundDue {
			c.ledger.Record(orderNum, refund)
		}
		c.log.Error("Failed to mark order collected", "order_num", orderNum, "error", err)
		msg := "System error: collection failed"
		c.notifier.Notify(msg)
		return nil, fmt.Errorf("failed to mark order collected: %w", err)
	}

	result := &CollectResult{OrderNum: orderNum, Collected: collected}
	if !collected {
		if refundDue {
			c.ledger.Record(orderNum, refund)
		}
		result.Message = fmt.Sprintf("No such order to be collected : %d", orderNum)
		c.notifier.Notify(result.Message)
		return result, nil
	}

	result.Message = fmt.Sprintf("Collected order #%d", orderNum)
	if refundDue {
		result.RefundDue = refund
		result.Message = fmt.Sprintf("Collected order #%d, issue cash refund of %.2f", orderNum, refund)
	}

	if err := c.audit.RecordCollection(orderNum, c.clock.Now()); err != nil {
		c.log.Warn("Failed to write collection record", "order_num", orderNum, "error", err)
	}

	c.notifier.Notify(result.Message)
	return result, nil
}
