package application

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/bnema/pairline/internal/ports"
	"go.uber.org/zap"
)

const DefaultSweepInterval = time.Second

var ErrSweeperRunning = errors.New("sweeper already running")

type Sweepable interface {
	Sweep() int
}

// Sweeper periodically reclaims complete sessions. Only one Run may be
// active at a time.
type Sweeper struct {
	target   Sweepable
	clock    ports.Clock
	interval time.Duration
	log      *zap.Logger
	running  atomic.Bool
}

func NewSweeper(target Sweepable, clock ports.Clock, interval time.Duration, log *zap.Logger) *Sweeper {
	if clock == nil {
		clock = ports.SystemClock()
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Sweeper{
		target:   target,
		clock:    clock,
		interval: interval,
		log:      log.Named("sweeper"),
	}
}

func (s *Sweeper) Interval() time.Duration {
	return s.interval
}

// Run sweeps on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrSweeperRunning
	}
	defer s.running.Store(false)

	ticker := s.clock.Ticker(s.interval)
	defer ticker.Stop()

	s.log.Debug("sweeper started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.log.Debug("sweeper stopped")
			return nil
		case <-ticker.C:
			s.target.Sweep()
		}
	}
}
