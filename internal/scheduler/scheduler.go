package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/amishk599/jobfeed/internal/model"
)

// Refresher produces a new snapshot on demand. *feed.Loader satisfies it.
type Refresher interface {
	Refresh(ctx context.Context, now time.Time) (*model.FeedSnapshot, error)
}

// Scheduler keeps the snapshot cache warm by refreshing it on a cron spec.
type Scheduler struct {
	refresher Refresher
	spec      string
	logger    *slog.Logger
	now       func() time.Time
}

// NewScheduler creates a scheduler that refreshes on spec, e.g. "@every 5m"
// or "*/10 * * * *".
func NewScheduler(refresher Refresher, spec string, logger *slog.Logger) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	return &Scheduler{
		refresher: refresher,
		spec:      spec,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Run refreshes once immediately, then on every tick of the schedule. A tick
// that fires while the previous refresh is still running is skipped. Run
// returns nil when ctx is cancelled, after any in-flight refresh finishes.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "schedule", s.spec)

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{s.logger})))
	if _, err := c.AddFunc(s.spec, func() { s.refresh(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.refresh(ctx)
	c.Start()

	<-ctx.Done()
	s.logger.Info("shutting down scheduler")
	<-c.Stop().Done()
	return nil
}

func (s *Scheduler) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := s.now()
	snap, err := s.refresher.Refresh(ctx, start)
	if err != nil {
		s.logger.Error("refresh failed", "error", err)
		return
	}
	s.logger.Debug("refresh complete",
		"jobs", len(snap.Jobs),
		"snapshot_age", snap.Age(start).Round(time.Second),
		"took", time.Since(start).Round(time.Millisecond),
	)
}

// cronLogger routes cron's internal logging through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
