package domain

import "errors"

type JobStatus string

const (
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"

	// JobStatusNotFound is synthetic: it is reported for ids the registry
	// has no entry for, never stored.
	JobStatusNotFound JobStatus = "NOT_FOUND"
)

var (
	ErrJobNotFound = errors.New("report job not found")

	// ErrReportNotReady means the job exists but no artifact can be served
	// yet (still rendering, or the render failed).
	ErrReportNotReady = errors.New("report not ready")

	// ErrArtifactMissing means the registry claims COMPLETED but the result
	// store has no artifact. This is an inconsistency, not a soft miss.
	ErrArtifactMissing = errors.New("report artifact missing")

	// ErrArtifactNotFound is the result store's own miss.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrQueueFull is returned when the render queue cannot accept a job.
	ErrQueueFull = errors.New("report queue full")
)
