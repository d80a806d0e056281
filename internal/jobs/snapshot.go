package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"peerprep/interview/internal/session"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultSnapshotSchedule = "@every 5s"

// SnapshotSource is the repository state being persisted
type SnapshotSource interface {
	Snapshot() *session.Snapshot
	Revision() uint64
}

type SnapshotSaver interface {
	Save(ctx context.Context, snap *session.Snapshot) error
}

// SnapshotConfig contains configuration for the snapshot job
type SnapshotConfig struct {
	Schedule string // cron spec, e.g. "@every 5s"
	Enabled  bool
	Timeout  time.Duration // per save
}

// SnapshotJob periodically writes the repository to its store whenever it changed
type SnapshotJob struct {
	source SnapshotSource
	saver  SnapshotSaver
	config *SnapshotConfig
	cron   *cron.Cron
	logger *zap.Logger

	mu        sync.Mutex
	saved     bool
	lastSaved uint64
}

func NewSnapshotJob(source SnapshotSource, saver SnapshotSaver, config *SnapshotConfig, logger *zap.Logger) *SnapshotJob {
	if config == nil {
		config = &SnapshotConfig{Enabled: true}
	}
	if config.Schedule == "" {
		config.Schedule = DefaultSnapshotSchedule
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotJob{
		source: source,
		saver:  saver,
		config: config,
		cron:   cron.New(),
		logger: logger,
	}
}

// MarkSaved records a revision already known to be persisted, such as the one just restored
func (j *SnapshotJob) MarkSaved(revision uint64) {
	j.mu.Lock()
	j.saved = true
	j.lastSaved = revision
	j.mu.Unlock()
}

// Start begins the scheduled snapshots
func (j *SnapshotJob) Start() error {
	if !j.config.Enabled {
		j.logger.Info("Snapshot persistence is disabled, skipping scheduler")
		return nil
	}

	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.config.Timeout)
		defer cancel()
		if _, err := j.RunSnapshot(ctx); err != nil {
			j.logger.Error("Snapshot job failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule snapshot job: %w", err)
	}

	j.cron.Start()
	j.logger.Info("Snapshot job started", zap.String("schedule", j.config.Schedule))
	return nil
}

// Stop halts the schedule and waits for a running snapshot to finish
func (j *SnapshotJob) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
	}
}

// RunSnapshot saves the repository if its revision moved since the last save.
// It reports whether anything was written.
func (j *SnapshotJob) RunSnapshot(ctx context.Context) (bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.saved && j.source.Revision() == j.lastSaved {
		return false, nil
	}

	snap := j.source.Snapshot()
	if err := j.saver.Save(ctx, snap); err != nil {
		return false, fmt.Errorf("failed to save snapshot: %w", err)
	}
	j.saved = true
	j.lastSaved = snap.Revision
	j.logger.Debug("Snapshot saved",
		zap.Uint64("revision", snap.Revision),
		zap.Int("sessions", len(snap.Records)),
	)
	return true, nil
}

// Flush stops the schedule and writes any unsaved changes, for shutdown
func (j *SnapshotJob) Flush(ctx context.Context) error {
	j.Stop()
	_, err := j.RunSnapshot(ctx)
	return err
}
