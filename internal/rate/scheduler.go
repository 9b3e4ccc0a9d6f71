package rate

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultRefreshInterval = 240 * time.Minute
	defaultEvictInterval   = 30 * time.Minute
)

// Refresher is the part of Resolver the scheduler drives.
type Refresher interface {
	RefreshAll(ctx context.Context, currencies []string) RefreshSummary
	EvictExpired() int
}

// Scheduler runs two jobs: a full provider refresh of the configured currencies
// and eviction of expired cache entries.
type Scheduler struct {
	refresher  Refresher
	currencies []string

	refreshInterval time.Duration
	evictInterval   time.Duration

	mu    sync.Mutex
	sched gocron.Scheduler
}

func (s *Scheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	refreshJob := func(jobCtx context.Context) {
		execID := uuid.NewString()
		logrus.WithField("exec_id", execID).Info("Refresh rates job started")
		summary := s.refresher.RefreshAll(jobCtx, s.currencies)
		logrus.WithFields(logrus.Fields{
			"exec_id": execID,
			"updated": summary.Updated,
			"failed":  len(summary.Failed),
		}).Info("Refresh rates job finished")
	}

	evictJob := func() {
		removed := s.refresher.EvictExpired()
		logrus.WithFields(logrus.Fields{
			"exec_id": uuid.NewString(),
			"removed": removed,
		}).Debug("Evict expired rates job finished")
	}

	if _, err = scheduler.NewJob(
		gocron.DurationJob(s.refreshInterval),
		gocron.NewTask(refreshJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("refresh-rates"),
	); err != nil {
		_ = scheduler.Shutdown()
		return err
	}

	if _, err = scheduler.NewJob(
		gocron.DurationJob(s.evictInterval),
		gocron.NewTask(evictJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("evict-expired-rates"),
	); err != nil {
		_ = scheduler.Shutdown()
		return err
	}

	scheduler.Start()
	s.mu.Lock()
	s.sched = scheduler
	s.mu.Unlock()

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

func (s *Scheduler) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	return err
}

func (s *Scheduler) running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched != nil
}

// NewScheduler falls back to the default intervals for non-positive values.
func NewScheduler(refresher Refresher, currencies []string, refreshInterval, evictInterval time.Duration) *Scheduler {
	if refreshInterval <= 0 {
		refreshInterval = defaultRefreshInterval
	}
	if evictInterval <= 0 {
		evictInterval = defaultEvictInterval
	}
	return &Scheduler{
		refresher:       refresher,
		currencies:      append([]string(nil), currencies...),
		refreshInterval: refreshInterval,
		evictInterval:   evictInterval,
	}
}
