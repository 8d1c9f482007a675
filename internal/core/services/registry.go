package services

import (
	"sync"

	"github.com/stockroomd/stockroom/internal/core/domain"
)

// TaskRegistry is the single source of truth for report job lifecycle:
// a synchronized job id -> status map, mutated by render workers and read
// from HTTP handlers concurrently. No operation blocks on I/O.
type TaskRegistry struct {
	mu   sync.RWMutex
	jobs map[string]domain.JobStatus
}

func NewTaskRegistry() *TaskRegistry {
	return &TaskRegistry{jobs: make(map[string]domain.JobStatus)}
}

// SetStatus inserts or overwrites the status for a job id.
func (r *TaskRegistry) SetStatus(jobID string, status domain.JobStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[jobID] = status
}

// Status returns the status for a job id, or JobStatusNotFound when the
// registry has no entry. It never fails.
func (r *TaskRegistry) Status(jobID string) domain.JobStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if status, ok := r.jobs[jobID]; ok {
		return status
	}
	return domain.JobStatusNotFound
}

// Remove deletes the entry for a job id. Removing an absent id is a no-op.
func (r *TaskRegistry) Remove(jobID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, jobID)
}

// CountByStatus returns how many jobs currently hold the given status.
func (r *TaskRegistry) CountByStatus(status domain.JobStatus) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, s := range r.jobs {
		if s == status {
			n++
		}
	}
	return n
}

// Snapshot copies the current mapping so callers can iterate without
// holding the registry lock across a long scan.
func (r *TaskRegistry) Snapshot() map[string]domain.JobStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]domain.JobStatus, len(r.jobs))
	for id, s := range r.jobs {
		out[id] = s
	}
	return out
}
