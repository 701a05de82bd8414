package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
	"github.com/Jan1986-cloud/aitrader/internal/core/service"
)

// Lease serialises batch runs across process instances. Acquire returns
// false when another instance already holds the lease. Extend pushes the
// expiry out while a run is still active.
type Lease interface {
	Acquire(ctx context.Context, ttl time.Duration) (bool, error)
	Extend(ctx context.Context, ttl time.Duration) error
	Release(ctx context.Context) error
}

// Scheduler fires the batch runner on a fixed interval. Overlap within a
// process is rejected by the runner's own guard; overlap across instances
// is rejected by the lease.
type Scheduler struct {
	runner   *service.BatchRunner
	lease    Lease
	interval time.Duration
	log      zerolog.Logger
}

func New(runner *service.BatchRunner, lease Lease, interval time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		lease:    lease,
		interval: interval,
		log:      log,
	}
}

// Start blocks until ctx is cancelled, triggering a run every interval.
// The first run happens after one full interval, not at startup.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", s.interval).Msg("batch scheduler started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("batch scheduler stopped")
			return
		case now := <-ticker.C:
			s.trigger(ctx, now)
		}
	}
}

func (s *Scheduler) trigger(ctx context.Context, now time.Time) {
	ttl := s.interval
	ok, err := s.lease.Acquire(ctx, ttl)
	if err != nil {
		s.log.Error().Err(err).Msg("batch lease acquisition failed")
		return
	}
	if !ok {
		s.log.Info().Msg("batch lease held elsewhere, skipping run")
		return
	}

	// Keep the lease alive while the run executes; a run slower than one
	// interval must not lose exclusivity mid-flight.
	done := make(chan struct{})
	go s.keepLease(ctx, ttl, done)
	defer func() {
		close(done)
		if err := s.lease.Release(ctx); err != nil {
			s.log.Error().Err(err).Msg("batch lease release failed")
		}
	}()

	if _, err := s.runner.Run(ctx, now); err != nil {
		if errors.Is(err, domain.ErrRunInProgress) {
			s.log.Warn().Msg("previous batch run still active, skipping")
			return
		}
		s.log.Error().Err(err).Msg("batch run failed")
	}
}

func (s *Scheduler) keepLease(ctx context.Context, ttl time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(ttl / 3)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.lease.Extend(ctx, ttl); err != nil {
				s.log.Error().Err(err).Msg("batch lease extension failed")
			}
		}
	}
}
