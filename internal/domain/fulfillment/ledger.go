package fulfillment

import (
	"fmt"
	"sync"
)

// RefundLedger maps order numbers to refund amounts owed. The picker
// records an entry when a pick comes up short; the collection flow
// consumes it exactly once. Record and Consume are atomic per key, so a
// concurrent writer and reader cannot double-refund or lose a refund.
type RefundLedger struct {
	mu      sync.Mutex
	refunds map[int]float64
}

func NewRefundLedger() *RefundLedger {
	return &RefundLedger{
		refunds: make(map[int]float64),
	}
}

// Record upserts the refund owed for an order. It reports whether an
// unconsumed entry was replaced, which should not happen under correct
// use and is worth a warning at the call site.
func (l *RefundLedger) Record(orderNum int, amount float64) bool {
	if amount <= 0 {
		panic(fmt.Sprintf("fulfillment: non-positive refund amount %.2f for order %d", amount, orderNum))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, replaced := l.refunds[orderNum]
	l.refunds[orderNum] = amount
	return replaced
}

// Consume reads and removes the refund for an order in one step. A
// missing entry is the normal "no refund due" outcome.
func (l *RefundLedger) Consume(orderNum int) (float64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	amount, ok := l.refunds[orderNum]
	if !ok {
		return 0, false
	}
	delete(l.refunds, orderNum)
	return amount, true
}

func (l *RefundLedger) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.refunds)
}
