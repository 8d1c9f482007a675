package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/stockroomd/stockroom/internal/core/domain"
	"github.com/stockroomd/stockroom/internal/core/ports"
)

// Sweeper is the periodic reconciliation pass that bounds artifact storage
// and registry staleness: expired artifacts are deleted together with their
// registry entries, and terminal registry entries whose artifact no longer
// exists are pruned as orphans.
type Sweeper struct {
	logger    *slog.Logger
	registry  *TaskRegistry
	store     ports.ResultStore
	retention time.Duration
	interval  time.Duration
}

func NewSweeper(logger *slog.Logger, registry *TaskRegistry, store ports.ResultStore, retention, interval time.Duration) *Sweeper {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{
		logger:    logger,
		registry:  registry,
		store:     store,
		retention: retention,
		interval:  interval,
	}
}

// Run sweeps at a fixed interval until ctx is cancelled. Ticks never
// overlap: the next sweep only starts after the previous one returned.
func (s *Sweeper) Run(ctx context.Context) error {
	s.logger.Info("cleanup sweeper started", "interval", s.interval, "retention", s.retention)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("cleanup sweeper stopped")
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep performs one reconciliation pass. Per-item failures are logged and
// skipped; the pass is best-effort and idempotent.
func (s *Sweeper) Sweep() {
	deleted := s.sweepExpired()
	pruned := s.pruneOrphans()

	s.logger.Info("cleanup finished",
		"deleted_artifacts", deleted,
		"pruned_entries", pruned,
		"active_jobs", s.registry.CountByStatus(domain.JobStatusInProgress),
		"completed_jobs", s.registry.CountByStatus(domain.JobStatusCompleted))
}

func (s *Sweeper) sweepExpired() int {
	artifacts, err := s.store.ListWithAge()
	if err != nil {
		s.logger.Error("listing artifacts failed", "error", err)
		return 0
	}

	deleted := 0
	for _, a := range artifacts {
		if a.Age <= s.retention {
			continue
		}
		// A file vanishing between enumeration and deletion is a benign
		// race: Delete is idempotent.
		if err := s.store.Delete(a.JobID); err != nil {
			s.logger.Error("deleting expired artifact failed", "job_id", a.JobID, "error", err)
			continue
		}
		s.registry.Remove(a.JobID)
		deleted++
	}
	return deleted
}

// pruneOrphans removes terminal registry entries with no backing artifact.
// FAILED jobs never wrote one, so they are reclaimed here on the first
// sweep after failing. Iterates over a snapshot so the registry lock is
// never held across store checks.
func (s *Sweeper) pruneOrphans() int {
	pruned := 0
	for jobID, status := range s.registry.Snapshot() {
		if status != domain.JobStatusCompleted && status != domain.JobStatusFailed {
			continue
		}
		if s.store.Exists(jobID) {
			continue
		}
		s.registry.Remove(jobID)
		pruned++
	}
	return pruned
}
