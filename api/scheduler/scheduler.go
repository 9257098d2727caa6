package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/linesmerrill/party-cms-api/blobstore"
	"github.com/linesmerrill/party-cms-api/config"
	"github.com/linesmerrill/party-cms-api/databases"
)

const (
	sweepJob       = "orphan-sweep"
	sweepLockTTL   = 10 * time.Minute
	sweepRunBudget = 5 * time.Minute
	sweepBatchSize = 200
)

// Scheduler runs the orphan upload sweep on a cron schedule
type Scheduler struct {
	cron       *cron.Cron
	Cases      databases.CaseDatabase
	Uploads    databases.UploadDatabase
	LockDB     databases.SchedulerLockDatabase
	Store      blobstore.Store
	schedule   string
	minAge     time.Duration
	instanceID string
	now        func() time.Time
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	cases databases.CaseDatabase,
	uploads databases.UploadDatabase,
	lockDB databases.SchedulerLockDatabase,
	store blobstore.Store,
	conf config.SweepConfig,
) *Scheduler {
	// Heroku sets DYNO to "web.1", "web.2", etc.
	instanceID := os.Getenv("DYNO")
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		Cases:      cases,
		Uploads:    uploads,
		LockDB:     lockDB,
		Store:      store,
		schedule:   conf.Schedule,
		minAge:     conf.MinAge,
		instanceID: instanceID,
		now:        time.Now,
	}
}

// Start registers the sweep and starts the cron loop
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.runSweep)
	if err != nil {
		return fmt.Errorf("failed to register orphan sweep with schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	zap.S().Infow("orphan upload sweep scheduled", "schedule", s.schedule, "minAge", s.minAge)
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running sweep
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("scheduler stopped")
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepRunBudget)
	defer cancel()

	if _, err := s.SweepOrphans(ctx); err != nil {
		zap.S().Errorw("orphan upload sweep failed", "error", err)
	}
}

// SweepOrphans destroys blobs that were uploaded but never attached to a case and are
// older than the configured minimum age. It returns how many were removed. Anything that
// fails is left in place for the next run. A blob some case still points at keeps its
// object and only loses the ledger row.
func (s *Scheduler) SweepOrphans(ctx context.Context) (int, error) {
	acquired, err := s.LockDB.TryAcquireLock(ctx, sweepJob, s.instanceID, sweepLockTTL)
	if err != nil {
		return 0, fmt.Errorf("failed to acquire lock for %s: %w", sweepJob, err)
	}
	if !acquired {
		zap.S().Debug("orphan sweep already running on another instance, skipping")
		return 0, nil
	}
	defer func() {
		if err := s.LockDB.ReleaseLock(context.WithoutCancel(ctx), sweepJob, s.instanceID); err != nil {
			zap.S().Warnw("failed to release sweep lock", "error", err)
		}
	}()

	cutoff := s.now().Add(-s.minAge)
	orphans, err := s.Uploads.FindOrphans(ctx, cutoff, sweepBatchSize)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, u := range orphans {
		if u.Backend != "" && u.Backend != s.Store.Backend() {
			zap.S().Warnw("skipping orphan from another blob backend", "url", u.URL, "backend", u.Backend)
			continue
		}
		referenced, err := s.Cases.IsReferenced(ctx, u.URL)
		if err != nil {
			zap.S().Errorw("failed to check upload references", "url", u.URL, "error", err)
			continue
		}
		if referenced {
			zap.S().Warnw("upload is attached but was never marked, keeping blob", "url", u.URL)
			if err := s.Uploads.DeleteOne(ctx, u.ID); err != nil {
				zap.S().Errorw("failed to delete upload record", "id", u.ID.Hex(), "error", err)
			}
			continue
		}
		obj := blobstore.Object{URL: u.URL, PublicID: u.PublicID, ResourceType: u.ResourceType}
		if err := s.Store.Destroy(ctx, obj); err != nil {
			zap.S().Errorw("failed to destroy orphaned upload", "publicId", u.PublicID, "error", err)
			continue
		}
		if err := s.Uploads.DeleteOne(ctx, u.ID); err != nil {
			zap.S().Errorw("failed to delete upload record", "id", u.ID.Hex(), "error", err)
			continue
		}
		removed++
	}

	zap.S().Infow("orphan upload sweep complete",
		"instance", s.instanceID,
		"found", len(orphans),
		"removed", removed,
	)
	return removed, nil
}
