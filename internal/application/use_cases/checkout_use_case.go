package use_cases

import (
	"context"
	"fmt"
	"sync"

	"github.com/yuzvak/fulfillment-service/internal/application/ports"
	"github.com/yuzvak/fulfillment-service/internal/domain/errors"
	"github.com/yuzvak/fulfillment-service/internal/domain/order"
	"github.com/yuzvak/fulfillment-service/internal/pkg/logger"
)

type CheckoutState int

const (
	StateIdle CheckoutState = iota
	StateChecked
)

// CheckoutSession drives one cashier lane through check, buy and
// finalize. Every operation settles back to a resting state (Idle) and
// emits exactly one notification.
type CheckoutSession struct {
	id string

	mu       sync.Mutex
	state    CheckoutState
	checked  *order.Product
	previous *order.Product
	basket   *order.Basket

	stock    ports.StockStore
	orders   ports.OrderStore
	cache    ports.Cache
	audit    ports.AuditLog
	notifier ports.Notifier
	log      *logger.Logger
}

func NewCheckoutSession(
	id string,
	stock ports.StockStore,
	orders ports.OrderStore,
	cache ports.Cache,
	audit ports.AuditLog,
	notifier ports.Notifier,
	log *logger.Logger,
) *CheckoutSession {
	return &CheckoutSession{
		id:       id,
		state:    StateIdle,
		stock:    stock,
		orders:   orders,
		cache:    cache,
		audit:    audit,
		notifier: notifier,
		log:      log.WithField("session_id", id),
	}
}

func (s *CheckoutSession) ID() string {
	return s.id
}

func (s *CheckoutSession) State() CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Check validates one unit of the product against current stock. Only a
// successful check arms the session for Buy.
func (s *CheckoutSession) Check(ctx context.Context, productNum string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateIdle

	if !order.ValidProductNum(productNum) {
		msg := fmt.Sprintf("Invalid product number %s", productNum)
		s.notifier.Notify(msg)
		return msg, errors.ErrInvalidProductNum
	}

	const amount = 1

	exists, err := s.stock.Exists(ctx, productNum)
	if err != nil {
		return s.gatewayFailure("check failed", err)
	}
	if !exists {
		msg := fmt.Sprintf("Unknown product number %s", productNum)
		s.notifier.Notify(msg)
		return msg, errors.ErrProductNotFound
	}

	pr, err := s.stock.GetDetails(ctx, productNum)
	if err != nil {
		return s.gatewayFailure("check failed", err)
	}

	if pr.Quantity < amount {
		msg := fmt.Sprintf("%s not in stock", pr.Description)
		s.notifier.Notify(msg)
		return msg, errors.ErrProductNotInStock
	}

	s.checked = order.NewProduct(pr.ProductNum, pr.Description, pr.Price, amount)
	s.state = StateChecked

	msg := fmt.Sprintf("%s : %7.2f (%2d)", pr.Description, pr.Price, pr.Quantity)
	s.notifier.Notify(msg)
	return msg, nil
}

// Buy commits the previously checked product. The session returns to
// Idle whatever happens.
func (s *CheckoutSession) Buy(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateChecked {
		msg := "Check if OK with customer first"
		s.notifier.Notify(msg)
		return msg, errors.ErrCheckFirst
	}
	s.state = StateIdle

	pr := s.checked
	bought, err := s.stock.DecrementStock(ctx, pr.ProductNum, pr.Quantity)
	if err != nil {
		return s.gatewayFailure("buy failed", err)
	}
	if !bought {
		msg := fmt.Sprintf("%s no longer in stock", pr.Description)
		s.notifier.Notify(msg)
		return msg, errors.ErrNoLongerInStock
	}

	if err := s.makeBasketIfReq(ctx); err != nil {
		// Stock is already decremented; put the unit back so the race
		// cannot strand it.
		if restoreErr := s.stock.IncrementStock(ctx, pr.ProductNum, pr.Quantity); restoreErr != nil {
			s.log.Error("Failed to restore stock after order number failure",
				"product_num", pr.ProductNum, "error", restoreErr)
		}
		return s.gatewayFailure("buy failed", err)
	}

	s.basket.Insert(pr)
	s.previous = pr

	msg := fmt.Sprintf("Purchased %s", pr.Description)
	s.notifier.Notify(msg)
	return msg, nil
}

// UndoLast reverts the most recent purchase: one unit back on the shelf,
// line quantity floored at zero. The tracked pointer clears so a second
// undo needs an explicit product number.
func (s *CheckoutSession) UndoLast(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.previous == nil || s.basket == nil {
		msg := "No previous purchase to undo"
		s.notifier.Notify(msg)
		return msg, errors.ErrNothingToUndo
	}

	item := s.basket.Find(s.previous.ProductNum)
	if item != nil {
		item.Quantity--
		if item.Quantity < 0 {
			item.Quantity = 0
		}
		if err := s.stock.IncrementStock(ctx, item.ProductNum, 1); err != nil {
			return s.gatewayFailure("undo failed", err)
		}
	}
	s.previous = nil

	msg := "Deleted"
	s.notifier.Notify(msg)
	return msg, nil
}

// RemoveItem is the lookup-by-number correction path. Unlike UndoLast it
// only restores stock while the line quantity is still positive, and a
// miss is a soft "not in basket" outcome.
func (s *CheckoutSession) RemoveItem(ctx context.Context, productNum string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var item *order.Product
	if s.basket != nil {
		item = s.basket.Find(productNum)
	}
	if item == nil {
		msg := "Product not in basket"
		s.notifier.Notify(msg)
		return msg, errors.ErrProductNotInBasket
	}

	if item.Quantity > 0 {
		if err := s.stock.IncrementStock(ctx, item.ProductNum, 1); err != nil {
			return s.gatewayFailure("remove failed", err)
		}
		item.Quantity--
	}
	if item.Quantity < 0 {
		item.Quantity = 0
	}

	msg := "Deleted"
	s.notifier.Notify(msg)
	return msg, nil
}

// Finalize hands the basket over as a new order. An empty basket is an
// idempotent no-op; either way the session is ready for the next
// customer.
func (s *CheckoutSession) Finalize(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateIdle

	if s.basket == nil || s.basket.Size() == 0 {
		msg := "Next customer"
		s.notifier.Notify(msg)
		return msg, nil
	}

	if err := s.audit.RecordOrder(s.basket); err != nil {
		s.log.Warn("Failed to write order record",
			"order_num", s.basket.OrderNum, "error", err)
	}

	orderNum := s.basket.OrderNum
	if err := s.orders.SubmitOrder(ctx, s.basket); err != nil {
		// Keep the basket so the sale is not lost; the caller can retry.
		return s.gatewayFailure("order submission failed", err)
	}

	if err := s.cache.AddSubmittedOrder(ctx, orderNum); err != nil {
		s.log.Warn("Failed to register submitted order in cache",
			"order_num", orderNum, "error", err)
	}

	s.basket = nil
	s.previous = nil

	msg := "Next customer"
	s.notifier.Notify(msg)
	return msg, nil
}

func (s *CheckoutSession) Basket() *order.Basket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.basket
}

func (s *CheckoutSession) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.basket == nil {
		return 0
	}
	return s.basket.Total()
}

// Change reports change due for a cash payment against the current
// basket total. Negative means the customer still owes.
func (s *CheckoutSession) Change(tendered float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.basket == nil {
		return tendered
	}
	return s.basket.Change(tendered)
}

func (s *CheckoutSession) makeBasketIfReq(ctx context.Context) error {
	if s.basket != nil {
		return nil
	}

	orderNum, err := s.orders.NextOrderNumber(ctx)
	if err != nil {
		return fmt.Errorf("failed to get order number: %w", err)
	}

	s.basket = order.NewBasketWithOrderNum(orderNum)
	return nil
}

func (s *CheckoutSession) gatewayFailure(action string, err error) (string, error) {
	s.log.Error("Gateway failure", "action", action, "error", err)
	msg := fmt.Sprintf("System error: %s", action)
	s.notifier.Notify(msg)
	return msg, fmt.Errorf("%s: %w", action, err)
}
