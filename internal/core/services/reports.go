package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stockroomd/stockroom/internal/core/domain"
	"github.com/stockroomd/stockroom/internal/core/ports"
	"golang.org/x/sync/semaphore"
)

// ProductLister supplies the render input for a report.
type ProductLister interface {
	ListSummaries(ctx context.Context) ([]domain.ProductSummary, error)
}

// ReportConfig defines the render pool limits.
type ReportConfig struct {
	MaxConcurrentRenders int64
	QueueSize            int
}

// ReportService accepts report generation jobs, runs them on a bounded
// worker pool and serves the status/download protocol on top of the
// task registry and the result store.
type ReportService struct {
	logger   *slog.Logger
	registry *TaskRegistry
	store    ports.ResultStore
	renderer ports.ReportRenderer
	products ProductLister
	queue    chan string
	sem      *semaphore.Weighted
}

func NewReportService(logger *slog.Logger, registry *TaskRegistry, store ports.ResultStore, renderer ports.ReportRenderer, products ProductLister, cfg ReportConfig) *ReportService {
	workers := cfg.MaxConcurrentRenders
	if workers <= 0 {
		workers = 4
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}

	return &ReportService{
		logger:   logger,
		registry: registry,
		store:    store,
		renderer: renderer,
		products: products,
		queue:    make(chan string, queueSize),
		sem:      semaphore.NewWeighted(workers),
	}
}

// Submit registers a new job and enqueues it for rendering. The registry
// entry is written before the job is enqueued, so a client polling right
// after Submit returns can never see NOT_FOUND. Submit never waits for
// rendering; if the queue cannot accept the job the entry is rolled back
// and ErrQueueFull returned so the caller gets a definite answer instead
// of a job id that will never resolve.
func (s *ReportService) Submit(ctx context.Context) (string, error) {
	jobID := uuid.NewString()
	s.registry.SetStatus(jobID, domain.JobStatusInProgress)

	select {
	case s.queue <- jobID:
		s.logger.Info("report job submitted", "job_id", jobID)
		return jobID, nil
	default:
		s.registry.Remove(jobID)
		return "", domain.ErrQueueFull
	}
}

// Run consumes the job queue until ctx is cancelled. Each job renders in
// its own goroutine, gated by the semaphore so at most MaxConcurrentRenders
// renders run at once while submission keeps queueing.
func (s *ReportService) Run(ctx context.Context) error {
	s.logger.Info("report worker pool started")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("report worker pool stopped")
			return nil
		case jobID := <-s.queue:
			if err := s.sem.Acquire(ctx, 1); err != nil {
				return nil
			}
			go func(id string) {
				defer s.sem.Release(1)
				s.process(ctx, id)
			}(jobID)
		}
	}
}

// process runs one render to a terminal status. Failures are terminal for
// the job and never propagate: there is no caller waiting on this side of
// the async boundary.
func (s *ReportService) process(ctx context.Context, jobID string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("render panicked", "job_id", jobID, "panic", r)
			s.registry.SetStatus(jobID, domain.JobStatusFailed)
		}
	}()

	products, err := s.products.ListSummaries(ctx)
	if err != nil {
		s.logger.Error("listing products for report failed", "job_id", jobID, "error", err)
		s.registry.SetStatus(jobID, domain.JobStatusFailed)
		return
	}

	data, err := s.renderer.Render(products)
	if err != nil {
		s.logger.Error("report render failed", "job_id", jobID, "error", err)
		s.registry.SetStatus(jobID, domain.JobStatusFailed)
		return
	}

	if err := s.store.Write(jobID, data); err != nil {
		s.logger.Error("writing report artifact failed", "job_id", jobID, "error", err)
		s.registry.SetStatus(jobID, domain.JobStatusFailed)
		return
	}

	s.registry.SetStatus(jobID, domain.JobStatusCompleted)
	s.logger.Info("report job completed", "job_id", jobID, "size_bytes", len(data))
}

// Status is a pure registry read.
func (s *ReportService) Status(jobID string) domain.JobStatus {
	return s.registry.Status(jobID)
}

// Fetch returns the finished artifact for a COMPLETED job. A job that is
// unknown, in progress or failed yields a soft miss; a COMPLETED entry
// whose artifact is gone is an inconsistency and yields ErrArtifactMissing.
func (s *ReportService) Fetch(jobID string) ([]byte, error) {
	switch s.registry.Status(jobID) {
	case domain.JobStatusNotFound:
		return nil, domain.ErrJobNotFound
	case domain.JobStatusInProgress, domain.JobStatusFailed:
		return nil, domain.ErrReportNotReady
	}

	data, err := s.store.Read(jobID)
	if errors.Is(err, domain.ErrArtifactNotFound) {
		s.logger.Warn("registry says COMPLETED but artifact is gone", "job_id", jobID)
		return nil, domain.ErrArtifactMissing
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// RenderNow renders a report synchronously, bypassing the job pipeline.
func (s *ReportService) RenderNow(ctx context.Context) ([]byte, error) {
	products, err := s.products.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(products)
}

// Rehydrate re-registers every artifact already in the store as COMPLETED.
// The registry is in-memory only, so after a restart the files on disk are
// the only durable truth; without this, existing artifacts would 404 until
// the sweeper reaped them.
func (s *ReportService) Rehydrate() error {
	artifacts, err := s.store.ListWithAge()
	if err != nil {
		return err
	}
	for _, a := range artifacts {
		s.registry.SetStatus(a.JobID, domain.JobStatusCompleted)
	}
	if len(artifacts) > 0 {
		s.logger.Info("rehydrated report jobs from result store", "count", len(artifacts))
	}
	return nil
}
