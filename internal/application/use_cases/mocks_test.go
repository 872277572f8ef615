package use_cases

import (
	"context"
	"sync"
	"time"

	"github.com/yuzvak/fulfillment-service/internal/domain/order"
	"github.com/yuzvak/fulfillment-service/internal/pkg/logger"
)

// Test doubles for the gateway ports. Function fields override the
// default in-memory behavior when a test needs to inject a failure.

type fakeStock struct {
	mu       sync.Mutex
	products map[string]*order.Product

	existsFn    func(ctx context.Context, productNum string) (bool, error)
	decrementFn func(ctx context.Context, productNum string, quantity int) (bool, error)
}

func newFakeStock(products ...*order.Product) *fakeStock {
	s := &fakeStock{products: make(map[string]*order.Product)}
	for _, pr := range products {
		s.products[pr.ProductNum] = pr
	}
	return s
}

func (s *fakeStock) Exists(ctx context.Context, productNum string) (bool, error) {
	if s.existsFn != nil {
		return s.existsFn(ctx, productNum)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.products[productNum]
	return ok, nil
}

func (s *fakeStock) GetDetails(ctx context.Context, productNum string) (*order.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pr := s.products[productNum]
	copy := *pr
	return &copy, nil
}

func (s *fakeStock) DecrementStock(ctx context.Context, productNum string, quantity int) (bool, error) {
	if s.decrementFn != nil {
		return s.decrementFn(ctx, productNum, quantity)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	pr, ok := s.products[productNum]
	if !ok || pr.Quantity < quantity {
		return false, nil
	}
	pr.Quantity -= quantity
	return true, nil
}

func (s *fakeStock) IncrementStock(ctx context.Context, productNum string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pr, ok := s.products[productNum]; ok {
		pr.Quantity += quantity
	}
	return nil
}

func (s *fakeStock) SetStockLevel(ctx context.Context, productNum string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pr, ok := s.products[productNum]; ok {
		pr.Quantity = quantity
	}
	return nil
}

func (s *fakeStock) level(productNum string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[productNum].Quantity
}

type fakeOrders struct {
	mu        sync.Mutex
	nextNum   int
	submitted []*order.Basket
	pickQueue []*order.Basket
	picked    []int
	released  []int
	collected []int
	known     map[int]bool

	submitFn        func(ctx context.Context, basket *order.Basket) error
	markPickedFn    func(ctx context.Context, orderNum int) error
	markCollectedFn func(ctx context.Context, orderNum int) (bool, error)
	nextPickableFn  func(ctx context.Context) (*order.Basket, error)
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{known: make(map[int]bool)}
}

func (o *fakeOrders) NextOrderNumber(ctx context.Context) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.nextNum++
	return o.nextNum, nil
}

func (o *fakeOrders) SubmitOrder(ctx context.Context, basket *order.Basket) error {
	if o.submitFn != nil {
		return o.submitFn(ctx, basket)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.submitted = append(o.submitted, basket)
	o.pickQueue = append(o.pickQueue, basket)
	o.known[basket.OrderNum] = true
	return nil
}

func (o *fakeOrders) NextPickableOrder(ctx context.Context) (*order.Basket, error) {
	if o.nextPickableFn != nil {
		return o.nextPickableFn(ctx)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.pickQueue) == 0 {
		return nil, nil
	}
	basket := o.pickQueue[0]
	o.pickQueue = o.pickQueue[1:]
	return basket, nil
}

func (o *fakeOrders) ReleaseOrder(ctx context.Context, orderNum int) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.released = append(o.released, orderNum)
	return nil
}

func (o *fakeOrders) MarkOrderPicked(ctx context.Context, orderNum int) error {
	if o.markPickedFn != nil {
		return o.markPickedFn(ctx, orderNum)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.picked = append(o.picked, orderNum)
	return nil
}

func (o *fakeOrders) MarkOrderCollected(ctx context.Context, orderNum int) (bool, error) {
	if o.markCollectedFn != nil {
		return o.markCollectedFn(ctx, orderNum)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.known[orderNum] {
		return false, nil
	}
	o.collected = append(o.collected, orderNum)
	return true, nil
}

type fakeCache struct {
	mu        sync.Mutex
	products  map[string]*order.Product
	submitted map[int]bool
	locks     map[string]bool

	lockFn func(ctx context.Context, key string, expiration time.Duration) (bool, error)
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		products:  make(map[string]*order.Product),
		submitted: make(map[int]bool),
		locks:     make(map[string]bool),
	}
}

func (c *fakeCache) GetProduct(ctx context.Context, productNum string) (*order.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.products[productNum], nil
}

func (c *fakeCache) SetProduct(ctx context.Context, pr *order.Product, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[pr.ProductNum] = pr
	return nil
}

func (c *fakeCache) InvalidateProduct(ctx context.Context, productNum string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.products, productNum)
	return nil
}

func (c *fakeCache) AddSubmittedOrder(ctx context.Context, orderNum int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitted[orderNum] = true
	return nil
}

func (c *fakeCache) OrderEverSubmitted(ctx context.Context, orderNum int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitted[orderNum], nil
}

func (c *fakeCache) DistributedLock(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	if c.lockFn != nil {
		return c.lockFn(ctx, key, expiration)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locks[key] {
		return false, nil
	}
	c.locks[key] = true
	return true, nil
}

func (c *fakeCache) ReleaseLock(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.locks, key)
	return nil
}

type fakeAudit struct {
	mu          sync.Mutex
	orders      []*order.Basket
	collections []int

	recordOrderFn func(basket *order.Basket) error
}

func (a *fakeAudit) RecordOrder(basket *order.Basket) error {
	if a.recordOrderFn != nil {
		return a.recordOrderFn(basket)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.orders = append(a.orders, basket)
	return nil
}

func (a *fakeAudit) RecordCollection(orderNum int, at time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.collections = append(a.collections, orderNum)
	return nil
}

// notificationLog records every observer notification in order.
type notificationLog struct {
	mu       sync.Mutex
	messages []string
}

func (n *notificationLog) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *notificationLog) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.messages) == 0 {
		return ""
	}
	return n.messages[len(n.messages)-1]
}

func (n *notificationLog) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

func testLogger() *logger.Logger {
	return logger.NewLogger()
}
