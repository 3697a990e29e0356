package deal

import (
	"context"
	"fmt"
	"fxdeals/internal/adapters"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultPurgeInterval = time.Hour

// RetentionScheduler periodically deletes import runs older than the retention window.
// Deals themselves are never deleted.
type RetentionScheduler struct {
	runs      adapters.ImportRunRepository
	retention time.Duration
	interval  time.Duration
	// -----
	mu    sync.Mutex
	sched gocron.Scheduler
}

func (s *RetentionScheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sched = scheduler
	s.mu.Unlock()

	job := func(jobCtx context.Context) {
		execID := uuid.NewString()
		if purgeErr := PurgeExpiredImportRuns(jobCtx, execID, s.runs, time.Now().UTC().Add(-s.retention)); purgeErr != nil {
			logrus.Errorf("Purge import runs job %s failed: %v", execID, purgeErr)
		}
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(job),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

func (s *RetentionScheduler) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	return err
}

// PurgeExpiredImportRuns deletes every import run created before cutoff.
func PurgeExpiredImportRuns(ctx context.Context, execID string, runs adapters.ImportRunRepository, cutoff time.Time) error {
	deleted, err := runs.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge import runs: %w", err)
	}
	if deleted == 0 {
		logrus.Debugf("Nothing to purge this time; execID: %s", execID)
		return nil
	}
	logrus.Infof("%d import runs older than %s were purged; execID: %s", deleted, cutoff.Format(time.RFC3339), execID)
	return nil
}

func NewRetentionScheduler(runs adapters.ImportRunRepository, retention, interval time.Duration) *RetentionScheduler {
	if interval <= 0 {
		interval = defaultPurgeInterval
	}
	return &RetentionScheduler{runs: runs, retention: retention, interval: interval}
}
