package jobs

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
	"github.com/vytor/mistakeflash/internal/logger"
)

// UserLister lists the users whose stats should be kept fresh.
type UserLister interface {
	ActiveUsers(ctx context.Context) ([]int64, error)
}

// StatsScheduler periodically enqueues a stats refresh for every active user.
type StatsScheduler struct {
	scheduler *gocron.Scheduler
	users     UserLister
	queue     JobQueue
	interval  time.Duration
	log       *logger.Logger
}

// NewStatsScheduler creates a scheduler firing every interval.
func NewStatsScheduler(users UserLister, queue JobQueue, interval time.Duration) *StatsScheduler {
	s := gocron.NewScheduler(time.UTC)
	// A slow sweep is never overlapped by the next one.
	s.SingletonModeAll()
	return &StatsScheduler{
		scheduler: s,
		users:     users,
		queue:     queue,
		interval:  interval,
		log:       logger.Default().WithPrefix("stats-scheduler"),
	}
}

// Start runs the first sweep immediately and then one every interval.
func (s *StatsScheduler) Start() error {
	if _, err := s.scheduler.Every(s.interval).Do(s.tick); err != nil {
		return errors.Wrap(err, "schedule stats refresh")
	}
	s.log.Info("stats refresh scheduled every %s", s.interval)
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates the schedule. Jobs already queued still run on the pool.
func (s *StatsScheduler) Stop() {
	s.scheduler.Stop()
	s.log.Info("stats scheduler stopped")
}

func (s *StatsScheduler) tick() {
	ctx := logger.NewContext(context.Background(), s.log)
	if _, err := s.RunOnce(ctx); err != nil {
		s.log.Error("stats sweep failed: %v", err)
	}
}

// RunOnce enqueues one refresh per active user and reports how many were queued.
// A full queue skips the remaining users until the next sweep.
func (s *StatsScheduler) RunOnce(ctx context.Context) (int, error) {
	ids, err := s.users.ActiveUsers(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "list active users")
	}

	queued := 0
	for _, id := range ids {
		if err := s.queue.EnqueueStatsRefresh(id); err != nil {
			s.log.Warn("stopping sweep after %d of %d users: %v", queued, len(ids), err)
			return queued, errors.Wrapf(err, "enqueue stats refresh for user %d", id)
		}
		queued++
	}
	s.log.Debug("queued stats refresh for %d users", queued)
	return queued, nil
}
