package use_cases

import (
	"context"
	"fmt"

	"github.com/alecthomas/atomic"
	"github.com/yuzvak/fulfillment-service/internal/application/ports"
	"github.com/yuzvak/fulfillment-service/internal/domain/errors"
	"github.com/yuzvak/fulfillment-service/internal/domain/fulfillment"
	"github.com/yuzvak/fulfillment-service/internal/domain/order"
	"github.com/yuzvak/fulfillment-service/internal/pkg/logger"
)

// Picker is the single warehouse picker. The claim token admits at most
// one order at a time; the held basket is an atomically swappable
// reference because the polling loop writes it while the foreground pick
// API reads it.
type Picker struct {
	claim   *fulfillment.Claim
	session *fulfillment.PickSession
	held    *atomic.Value[*order.Basket]

	stock    ports.StockStore
	orders   ports.OrderStore
	ledger   *fulfillment.RefundLedger
	notifier ports.Notifier
	log      *logger.Logger
}

func NewPicker(
	stock ports.StockStore,
	orders ports.OrderStore,
	ledger *fulfillment.RefundLedger,
	notifier ports.Notifier,
	log *logger.Logger,
) *Picker {
	return &Picker{
		claim:    fulfillment.NewClaim(),
		session:  fulfillment.NewPickSession(),
		held:     atomic.New[*order.Basket](nil),
		stock:    stock,
		orders:   orders,
		ledger:   ledger,
		notifier: notifier,
		log:      log,
	}
}

// PollOnce is one tick of the background loop: claim, fetch, hold or
// release. The claim is released on every path that does not end up
// holding an order.
func (p *Picker) PollOnce(ctx context.Context) {
	if !p.claim.TryAcquire() {
		return
	}

	basket, err := p.orders.NextPickableOrder(ctx)
	if err != nil {
		p.claim.Release()
		p.log.Error("Failed to fetch pickable order", "error", err)
		p.notifier.Notify("System error: order lookup failed")
		return
	}

	if basket == nil {
		p.claim.Release()
		p.notifier.Notify("")
		return
	}

	p.held.Store(basket)
	p.log.Info("Order claimed for picking", "order_num", basket.OrderNum)
	p.notifier.Notify("Order to pick")
}

// ReportMissing registers a shortage found while picking the held order.
// The reported quantity prices the refund; the warehouse stock record is
// driven to zero because the product is confirmed absent. A product not
// on the order is a soft miss: nothing is mutated.
func (p *Picker) ReportMissing(ctx context.Context, productNum string, missingQty int) (bool, error) {
	basket := p.held.Load()
	if basket == nil {
		return false, errors.ErrNoOrderToPick
	}

	item := basket.Find(productNum)
	if item == nil {
		return false, nil
	}

	p.session.AddShortfall(item.Price * float64(missingQty))

	if err := p.stock.SetStockLevel(ctx, productNum, 0); err != nil {
		p.log.Error("Failed to zero stock for missing product",
			"product_num", productNum, "error", err)
		return true, fmt.Errorf("failed to zero stock: %w", err)
	}

	p.log.Info("Missing product reported",
		"order_num", basket.OrderNum,
		"product_num", productNum,
		"missing_qty", missingQty,
	)
	p.notifier.Notify("Refund issued")
	return true, nil
}

// Complete finishes the pick of the held order: any accumulated
// shortfall becomes a refund ledger entry, the gateway learns the order
// is picked, and the claim frees up for the next poll.
func (p *Picker) Complete(ctx context.Context) (string, error) {
	basket := p.held.Load()
	if basket == nil {
		msg := "No order to pick"
		p.notifier.Notify(msg)
		return msg, errors.ErrNoOrderToPick
	}

	orderNum := basket.OrderNum

	if shortfall := p.session.Reset(); shortfall != 0 {
		if replaced := p.ledger.Record(orderNum, shortfall); replaced {
			p.log.Warn("Replaced unconsumed refund entry",
				"order_num", orderNum, "amount", shortfall)
		}
		p.log.Info("Refund recorded", "order_num", orderNum, "amount", shortfall)
	}

	p.held.Store(nil)

	err := p.orders.MarkOrderPicked(ctx, orderNum)
	p.claim.Release()

	if err != nil {
		p.log.Error("Failed to mark order picked", "order_num", orderNum, "error", err)
		msg := "System error: order completion failed"
		p.notifier.Notify(msg)
		return msg, fmt.Errorf("failed to mark order picked: %w", err)
	}

	msg := fmt.Sprintf("Picked order #%d", orderNum)
	p.notifier.Notify(msg)
	return msg, nil
}

// Abandon gives the held order back to the queue without marking it
// picked. Shortfall reported so far is discarded. This is the explicit
// escape hatch: the claim never stays stuck behind a pick nobody will
// finish.
func (p *Picker) Abandon(ctx context.Context) (string, error) {
	basket := p.held.Load()
	if basket == nil {
		msg := "No order to pick"
		p.notifier.Notify(msg)
		return msg, errors.ErrNoOrderToPick
	}

	orderNum := basket.OrderNum
	p.session.Reset()
	p.held.Store(nil)

	err := p.orders.ReleaseOrder(ctx, orderNum)
	p.claim.Release()

	if err != nil {
		p.log.Error("Failed to release abandoned order", "order_num", orderNum, "error", err)
		msg := "System error: order release failed"
		p.notifier.Notify(msg)
		return msg, fmt.Errorf("failed to release order: %w", err)
	}

	msg := fmt.Sprintf("Abandoned order #%d", orderNum)
	p.notifier.Notify(msg)
	return msg, nil
}

// Current returns the basket being picked, or nil when the picker is
// idle.
func (p *Picker) Current() *order.Basket {
	return p.held.Load()
}

func (p *Picker) Busy() bool {
	return p.claim.Held()
}
