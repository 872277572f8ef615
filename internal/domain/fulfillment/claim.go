package fulfillment

import (
	"sync"
)

// Claim is the single-picker admission control: at most one holder at any
// time. TryAcquire is the only way in, so a check-then-set race between
// the polling loop and a foreground pick cannot grant the claim twice.
type Claim struct {
	mu   sync.Mutex
	held bool
}

func NewClaim() *Claim {
	return &Claim{}
}

func (c *Claim) TryAcquire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.held {
		return false
	}
	c.held = true
	return true
}

// Release must only be called by the current holder.
func (c *Claim) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.held {
		panic("fulfillment: release of unheld claim")
	}
	c.held = false
}

func (c *Claim) Held() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.held
}
