package fulfillment

import (
	"sync"
)

// PickSession accumulates the refund shortfall for the order currently
// being picked. It is owned by the claim holder but read from the
// foreground, so access is guarded.
type PickSession struct {
	mu        sync.Mutex
	shortfall float64
}

func NewPickSession() *PickSession {
	return &PickSession{}
}

func (s *PickSession) AddShortfall(amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shortfall += amount
}

func (s *PickSession) Shortfall() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shortfall
}

// Reset returns the accumulated shortfall and clears it for the next
// pick.
func (s *PickSession) Reset() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := s.shortfall
	s.shortfall = 0
	return total
}
