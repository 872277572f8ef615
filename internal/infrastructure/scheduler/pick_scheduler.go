package scheduler

import (
	"context"
	"time"

	"github.com/yuzvak/fulfillment-service/internal/application/use_cases"
	"github.com/yuzvak/fulfillment-service/internal/infrastructure/monitoring"
	"github.com/yuzvak/fulfillment-service/internal/pkg/logger"
)

// PickScheduler drives the picker's polling loop. Each tick is one
// claim attempt; the fixed interval is a poll, not a reaction to queue
// activity. A tick that finds the claim still held does nothing, so a
// slow pick never overlaps the next tick.
type PickScheduler struct {
	picker   *use_cases.Picker
	logger   *logger.Logger
	interval time.Duration
	stopChan chan struct{}
}

func NewPickScheduler(picker *use_cases.Picker, log *logger.Logger, interval time.Duration) *PickScheduler {
	return &PickScheduler{
		picker:   picker,
		logger:   log,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (s *PickScheduler) Start(ctx context.Context) {
	s.logger.Info("Starting pick scheduler", "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Pick scheduler stopped")
			return
		case <-s.stopChan:
			s.logger.Info("Pick scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *PickScheduler) Stop() {
	close(s.stopChan)
}

func (s *PickScheduler) tick(ctx context.Context) {
	if s.picker.Busy() {
		monitoring.PickClaimContentionTotal.Inc()
		return
	}

	s.picker.PollOnce(ctx)

	if s.picker.Current() != nil {
		monitoring.RecordPickPoll("claimed")
	} else {
		monitoring.RecordPickPoll("idle")
	}
}
