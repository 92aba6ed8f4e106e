package ratelimit

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/salwynchristopher/portfolio/internal/logging"
)

// Sweeper periodically evicts idle keys from a MemoryStore
type Sweeper struct {
	store     *MemoryStore
	window    time.Duration
	interval  time.Duration
	clock     Clock
	scheduler *gocron.Scheduler
	logger    *logging.Logger
}

// NewSweeper creates a sweeper; Start schedules it
func NewSweeper(store *MemoryStore, window, interval time.Duration, logger *logging.Logger) *Sweeper {
	return &Sweeper{
		store:     store,
		window:    window,
		interval:  interval,
		clock:     time.Now,
		scheduler: gocron.NewScheduler(time.UTC),
		logger:    logger,
	}
}

// Start runs the sweep every interval in the background
func (s *Sweeper) Start() error {
	_, err := s.scheduler.Every(s.interval).Tag("ratelimit sweep").Do(s.Run)
	if err != nil {
		return fmt.Errorf("failed to schedule rate limit sweep: %w", err)
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler
func (s *Sweeper) Stop() {
	s.scheduler.Stop()
}

// Run performs one sweep
func (s *Sweeper) Run() {
	removed, err := s.store.Sweep(s.clock(), s.window)
	if err != nil {
		s.logger.Error("Rate limit sweep failed: %v", err)
		return
	}
	if removed > 0 {
		s.logger.Debug("Rate limit sweep removed %d idle clients, %d remaining", removed, s.store.Len())
	}
}
