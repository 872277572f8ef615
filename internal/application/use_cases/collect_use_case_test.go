package use_cases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	domainErrors "github.com/yuzvak/fulfillment-service/internal/domain/errors"
	"github.com/yuzvak/fulfillment-service/internal/domain/fulfillment"
	"github.com/yuzvak/fulfillment-service/internal/pkg/clock"
)

func newCollectFixture() (*Collector, *fakeOrders, *fakeCache, *fulfillment.RefundLedger, *fakeAudit, *notificationLog) {
	orders := newFakeOrders()
	cache := newFakeCache()
	ledger := fulfillment.NewRefundLedger()
	audit := &fakeAudit{}
	notifications := &notificationLog{}
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	collector := NewCollector(orders, cache, ledger, audit, notifications, clk, testLogger())
	return collector, orders, cache, ledger, audit, notifications
}

func submitOrder(orders *fakeOrders, cache *fakeCache, orderNum int) {
	orders.mu.Lock()
	orders.known[orderNum] = true
	orders.mu.Unlock()
	_ = cache.AddSubmittedOrder(context.Background(), orderNum)
}

func TestCollectUnverifiedCustomer(t *testing.T) {
	collector, orders, cache, _, _, notifications := newCollectFixture()
	submitOrder(orders, cache, 4)

	result, err := collector.Collect(context.Background(), 4, false)

	assert.NoError(t, err)
	assert.False(t, result.Collected)
	assert.Equal(t, "Invalid credentials", result.Message)
	assert.Equal(t, 0, len(orders.collected))
	assert.Equal(t, 1, notifications.count())
}

func TestCollectKnownOrder(t *testing.T) {
	collector, orders, cache, _, audit, _ := newCollectFixture()
	submitOrder(orders, cache, 4)

	result, err := collector.Collect(context.Background(), 4, true)

	assert.NoError(t, err)
	assert.True(t, result.Collected)
	assert.Equal(t, "Collected order #4", result.Message)
	assert.Equal(t, []int{4}, orders.collected)
	assert.Equal(t, []int{4}, audit.collections)
}

func TestCollectWithRefundDue(t *testing.T) {
	collector, orders, cache, ledger, _, _ := newCollectFixture()
	submitOrder(orders, cache, 7)
	ledger.Record(7, 6.00)

	result, err := collector.Collect(context.Background(), 7, true)

	assert.NoError(t, err)
	assert.True(t, result.Collected)
	assert.Equal(t, 6.00, result.RefundDue)
	assert.Equal(t, 0, ledger.Pending())

	// A second collection attempt owes nothing.
	_, ok := ledger.Consume(7)
	assert.False(t, ok)
}

func TestCollectUnknownOrderShortCircuits(t *testing.T) {
	collector, orders, _, _, _, notifications := newCollectFixture()

	result, err := collector.Collect(context.Background(), 99, true)

	assert.NoError(t, err)
	assert.False(t, result.Collected)
	assert.Equal(t, "No such order to be collected : 99", result.Message)
	assert.Equal(t, 0, len(orders.collected))
	assert.Equal(t, "No such order to be collected : 99", notifications.last())
}

func TestCollectGatewayRejectsKeepsRefund(t *testing.T) {
	collector, orders, cache, ledger, _, _ := newCollectFixture()
	// The cache saw the order submitted but the gateway no longer knows
	// it; the consumed refund entry must be restored.
	_ = cache.AddSubmittedOrder(context.Background(), 11)
	ledger.Record(11, 12.50)

	result, err := collector.Collect(context.Background(), 11, true)

	assert.NoError(t, err)
	assert.False(t, result.Collected)
	assert.Equal(t, 1, ledger.Pending())
	assert.Equal(t, 0, len(orders.collected))
}

func TestCollectGatewayErrorRestoresRefund(t *testing.T) {
	collector, orders, cache, ledger, _, _ := newCollectFixture()
	submitOrder(orders, cache, 15)
	ledger.Record(15, 8.00)

	orders.markCollectedFn = func(ctx context.Context, orderNum int) (bool, error) {
		return false, fmt.Errorf("connection refused")
	}

	_, err := collector.Collect(context.Background(), 15, true)

	assert.Error(t, err)
	amount, ok := ledger.Consume(15)
	assert.True(t, ok)
	assert.Equal(t, 8.00, amount)
}

func TestCollectLockContention(t *testing.T) {
	collector, orders, cache, _, _, _ := newCollectFixture()
	submitOrder(orders, cache, 20)

	cache.lockFn = func(ctx context.Context, key string, expiration time.Duration) (bool, error) {
		return false, nil
	}

	_, err := collector.Collect(context.Background(), 20, true)
	assert.IsError(t, err, domainErrors.ErrCollectionBusy)
}

func TestCollectReleasesLockAfterUse(t *testing.T) {
	collector, orders, cache, _, _, _ := newCollectFixture()
	submitOrder(orders, cache, 21)

	_, err := collector.Collect(context.Background(), 21, true)
	assert.NoError(t, err)

	locked, _ := cache.DistributedLock(context.Background(), "collect:21", time.Second)
	assert.True(t, locked)
}
