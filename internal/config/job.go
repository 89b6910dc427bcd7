package config

import (
	"fmt"
	"sync"
	"time"
)

// JobStatus is the lifecycle state of a provisioning job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Job tracks one asynchronous batch of repository provisioning requests.
// Counters satisfy Succeeded + Failed + Remaining == Total at all times.
type Job struct {
	ID        string
	Status    JobStatus
	CreatedAt time.Time
	UpdatedAt time.Time

	Total     int
	Succeeded int
	Failed    int
	Remaining int

	// Failures lists the requests that errored, with reasons.
	Failures []FailedRequest
	// Message is a human-readable status line for API consumers.
	Message string
}

// JobStore is an in-memory job registry. Jobs do not survive a restart.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]*Job)}
}

// Create registers a pending job covering total requests.
func (s *JobStore) Create(id string, total int) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	job := &Job{
		ID:        id,
		Status:    JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
		Total:     total,
		Remaining: total,
		Failures:  make([]FailedRequest, 0),
		Message:   "Job queued",
	}
	s.jobs[id] = job
	return job
}

// Get returns a snapshot of the job with the given ID, if it exists. A copy
// keeps readers safe while the batch goroutine mutates the live job.
func (s *JobStore) Get(id string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, exists := s.jobs[id]
	if !exists {
		return nil, false
	}
	snapshot := *job
	snapshot.Failures = append([]FailedRequest(nil), job.Failures...)
	return &snapshot, true
}

// Update applies fn to the job under the store lock and stamps UpdatedAt.
func (s *JobStore) Update(id string, fn func(*Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[id]
	if !exists {
		return fmt.Errorf("job %s not found", id)
	}
	fn(job)
	job.UpdatedAt = time.Now()
	return nil
}
