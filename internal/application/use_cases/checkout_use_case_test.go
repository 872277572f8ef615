package use_cases

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	domainErrors "github.com/yuzvak/fulfillment-service/internal/domain/errors"
	"github.com/yuzvak/fulfillment-service/internal/domain/order"
)

func newCheckoutFixture(products ...*order.Product) (*CheckoutSession, *fakeStock, *fakeOrders, *fakeCache, *fakeAudit, *notificationLog) {
	stock := newFakeStock(products...)
	orders := newFakeOrders()
	cache := newFakeCache()
	audit := &fakeAudit{}
	notifications := &notificationLog{}

	session := NewCheckoutSession("lane-1", stock, orders, cache, audit, notifications, testLogger())
	return session, stock, orders, cache, audit, notifications
}

func TestCheckUnknownProduct(t *testing.T) {
	session, _, _, _, _, notifications := newCheckoutFixture()

	msg, err := session.Check(context.Background(), "0099")

	assert.IsError(t, err, domainErrors.ErrProductNotFound)
	assert.Equal(t, "Unknown product number 0099", msg)
	assert.Equal(t, StateIdle, session.State())
	assert.Equal(t, 1, notifications.count())
}

func TestCheckOutOfStockStaysIdle(t *testing.T) {
	session, _, _, _, _, _ := newCheckoutFixture(
		order.NewProduct("0001", "40 inch TV", 269.00, 0),
	)

	msg, err := session.Check(context.Background(), "0001")

	assert.IsError(t, err, domainErrors.ErrProductNotInStock)
	assert.Equal(t, "40 inch TV not in stock", msg)
	assert.Equal(t, StateIdle, session.State())
}

func TestCheckInvalidProductNum(t *testing.T) {
	session, _, _, _, _, _ := newCheckoutFixture()

	_, err := session.Check(context.Background(), "12ab")
	assert.IsError(t, err, domainErrors.ErrInvalidProductNum)
	assert.Equal(t, StateIdle, session.State())
}

func TestCheckSuccessTransitionsToChecked(t *testing.T) {
	session, _, _, _, _, notifications := newCheckoutFixture(
		order.NewProduct("0001", "40 inch TV", 269.00, 5),
	)

	msg, err := session.Check(context.Background(), "0001")

	assert.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%s : %7.2f (%2d)", "40 inch TV", 269.00, 5), msg)
	assert.Equal(t, StateChecked, session.State())
	assert.Equal(t, 1, notifications.count())
}

func TestBuyWithoutCheck(t *testing.T) {
	session, _, _, _, _, _ := newCheckoutFixture()

	msg, err := session.Buy(context.Background())

	assert.IsError(t, err, domainErrors.ErrCheckFirst)
	assert.Equal(t, "Check if OK with customer first", msg)
	assert.Equal(t, StateIdle, session.State())
}

func TestCheckBuyRoundTrip(t *testing.T) {
	session, stock, _, _, _, _ := newCheckoutFixture(
		order.NewProduct("0001", "40 inch TV", 269.00, 5),
	)
	ctx := context.Background()

	_, err := session.Check(ctx, "0001")
	assert.NoError(t, err)

	msg, err := session.Buy(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "Purchased 40 inch TV", msg)

	assert.Equal(t, 4, stock.level("0001"))
	assert.Equal(t, 1, session.Basket().Find("0001").Quantity)
	assert.Equal(t, StateIdle, session.State())
}

func TestBuyTwiceRequiresCheckEachTime(t *testing.T) {
	session, _, _, _, _, _ := newCheckoutFixture(
		order.NewProduct("0001", "40 inch TV", 269.00, 5),
	)
	ctx := context.Background()

	_, err := session.Check(ctx, "0001")
	assert.NoError(t, err)
	_, err = session.Buy(ctx)
	assert.NoError(t, err)

	_, err = session.Buy(ctx)
	assert.IsError(t, err, domainErrors.ErrCheckFirst)
}

func TestBuyMergesRepeatPurchases(t *testing.T) {
	session, stock, _, _, _, _ := newCheckoutFixture(
		order.NewProduct("0001", "40 inch TV", 269.00, 5),
	)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := session.Check(ctx, "0001")
		assert.NoError(t, err)
		_, err = session.Buy(ctx)
		assert.NoError(t, err)
	}

	assert.Equal(t, 1, session.Basket().Size())
	assert.Equal(t, 2, session.Basket().Find("0001").Quantity)
	assert.Equal(t, 3, stock.level("0001"))
}

func TestBuyAssignsOrderNumberOnce(t *testing.T) {
	session, _, _, _, _, _ := newCheckoutFixture(
		order.NewProduct("0001", "TV", 269.00, 5),
		order.NewProduct("0002", "Radio", 29.99, 5),
	)
	ctx := context.Background()

	_, _ = session.Check(ctx, "0001")
	_, _ = session.Buy(ctx)
	first := session.Basket().OrderNum

	_, _ = session.Check(ctx, "0002")
	_, _ = session.Buy(ctx)

	assert.Equal(t, first, session.Basket().OrderNum)
}

func TestBuyRaceLostLeavesBasketUntouched(t *testing.T) {
	session, stock, _, _, _, _ := newCheckoutFixture(
		order.NewProduct("0001", "40 inch TV", 269.00, 1),
	)
	ctx := context.Background()

	_, err := session.Check(ctx, "0001")
	assert.NoError(t, err)

	// Concurrent sale takes the last unit between check and buy.
	stock.decrementFn = func(ctx context.Context, productNum string, quantity int) (bool, error) {
		return false, nil
	}

	msg, err := session.Buy(ctx)
	assert.IsError(t, err, domainErrors.ErrNoLongerInStock)
	assert.Equal(t, "40 inch TV no longer in stock", msg)
	assert.Zero(t, session.Basket())
	assert.Equal(t, StateIdle, session.State())
}

func TestUndoLastRestoresStock(t *testing.T) {
	session, stock, _, _, _, _ := newCheckoutFixture(
		order.NewProduct("0001", "40 inch TV", 269.00, 5),
	)
	ctx := context.Background()

	_, _ = session.Check(ctx, "0001")
	_, _ = session.Buy(ctx)
	assert.Equal(t, 4, stock.level("0001"))

	msg, err := session.UndoLast(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "Deleted", msg)
	assert.Equal(t, 5, stock.level("0001"))
	assert.Equal(t, 0, session.Basket().Find("0001").Quantity)

	// The pointer clears after one undo.
	_, err = session.UndoLast(ctx)
	assert.IsError(t, err, domainErrors.ErrNothingToUndo)
}

func TestRemoveItemNotInBasket(t *testing.T) {
	session, _, _, _, _, _ := newCheckoutFixture()

	msg, err := session.RemoveItem(context.Background(), "0042")
	assert.IsError(t, err, domainErrors.ErrProductNotInBasket)
	assert.Equal(t, "Product not in basket", msg)
}

func TestRemoveItemRestoresStockWhilePositive(t *testing.T) {
	session, stock, _, _, _, _ := newCheckoutFixture(
		order.NewProduct("0001", "40 inch TV", 269.00, 5),
	)
	ctx := context.Background()

	_, _ = session.Check(ctx, "0001")
	_, _ = session.Buy(ctx)

	_, err := session.RemoveItem(ctx, "0001")
	assert.NoError(t, err)
	assert.Equal(t, 5, stock.level("0001"))
	assert.Equal(t, 0, session.Basket().Find("0001").Quantity)

	// At zero the stock is not restored again.
	_, err = session.RemoveItem(ctx, "0001")
	assert.NoError(t, err)
	assert.Equal(t, 5, stock.level("0001"))
	assert.Equal(t, 0, session.Basket().Find("0001").Quantity)
}

func TestFinalizeEmptyBasketIsIdempotent(t *testing.T) {
	session, _, orders, _, _, _ := newCheckoutFixture()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		msg, err := session.Finalize(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "Next customer", msg)
	}
	assert.Equal(t, 0, len(orders.submitted))
}

func TestFinalizeSubmitsOrderAndClearsBasket(t *testing.T) {
	session, _, orders, cache, audit, _ := newCheckoutFixture(
		order.NewProduct("0001", "40 inch TV", 269.00, 5),
	)
	ctx := context.Background()

	_, _ = session.Check(ctx, "0001")
	_, _ = session.Buy(ctx)
	orderNum := session.Basket().OrderNum

	msg, err := session.Finalize(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "Next customer", msg)

	assert.Equal(t, 1, len(orders.submitted))
	assert.Equal(t, orderNum, orders.submitted[0].OrderNum)
	assert.Zero(t, session.Basket())

	ever, _ := cache.OrderEverSubmitted(ctx, orderNum)
	assert.True(t, ever)
	assert.Equal(t, 1, len(audit.orders))
}

func TestFinalizeSubmitFailureKeepsBasket(t *testing.T) {
	session, _, orders, _, _, _ := newCheckoutFixture(
		order.NewProduct("0001", "40 inch TV", 269.00, 5),
	)
	ctx := context.Background()

	_, _ = session.Check(ctx, "0001")
	_, _ = session.Buy(ctx)

	orders.submitFn = func(ctx context.Context, basket *order.Basket) error {
		return fmt.Errorf("connection refused")
	}

	_, err := session.Finalize(ctx)
	assert.Error(t, err)
	assert.NotZero(t, session.Basket())
	assert.Equal(t, StateIdle, session.State())
}

func TestEveryOperationNotifiesExactlyOnce(t *testing.T) {
	session, _, _, _, _, notifications := newCheckoutFixture(
		order.NewProduct("0001", "40 inch TV", 269.00, 5),
	)
	ctx := context.Background()

	before := notifications.count()
	_, _ = session.Check(ctx, "0001")
	assert.Equal(t, before+1, notifications.count())

	before = notifications.count()
	_, _ = session.Buy(ctx)
	assert.Equal(t, before+1, notifications.count())

	before = notifications.count()
	_, _ = session.UndoLast(ctx)
	assert.Equal(t, before+1, notifications.count())

	before = notifications.count()
	_, _ = session.Finalize(ctx)
	assert.Equal(t, before+1, notifications.count())
}

func TestChange(t *testing.T) {
	session, _, _, _, _, _ := newCheckoutFixture(
		order.NewProduct("0001", "Radio", 30.00, 5),
	)
	ctx := context.Background()

	assert.Equal(t, 10.00, session.Change(10.00))

	_, _ = session.Check(ctx, "0001")
	_, _ = session.Buy(ctx)

	assert.Equal(t, 20.00, session.Change(50.00))
	assert.True(t, session.Change(20.00) < 0)
}

func TestGatewayFailureSurfacesOpaqueStatus(t *testing.T) {
	session, stock, _, _, _, _ := newCheckoutFixture()
	stock.existsFn = func(ctx context.Context, productNum string) (bool, error) {
		return false, fmt.Errorf("connection reset")
	}

	msg, err := session.Check(context.Background(), "0001")
	assert.Error(t, err)
	assert.True(t, strings.HasPrefix(msg, "System error"))
	assert.Equal(t, StateIdle, session.State())
}
