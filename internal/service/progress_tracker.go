package service

import (
	"fmt"

	"github.com/artiops/artifactory-automation/internal/config"
	"github.com/artiops/artifactory-automation/internal/utils"
	"go.uber.org/zap"
)

// JobProgressTracker updates a job's counters and status as a provisioning
// batch moves through the worker pool.
type JobProgressTracker struct {
	store *config.JobStore
	jobID string
}

func NewJobProgressTracker(store *config.JobStore, jobID string) *JobProgressTracker {
	return &JobProgressTracker{store: store, jobID: jobID}
}

// SetProcessing marks the job as picked up by the pool.
func (t *JobProgressTracker) SetProcessing() {
	_ = t.store.Update(t.jobID, func(job *config.Job) {
		job.Status = config.JobStatusProcessing
		job.Message = "Processing requests"
	})
}

// Finalize records the batch outcome. A job with any successes completes;
// only an all-failed batch is marked failed.
func (t *JobProgressTracker) Finalize(succeeded, failed int, failures []config.FailedRequest) {
	_ = t.store.Update(t.jobID, func(job *config.Job) {
		job.Succeeded = succeeded
		job.Failed = failed
		job.Remaining = job.Total - succeeded - failed
		job.Failures = failures

		switch {
		case failed == 0:
			job.Status = config.JobStatusCompleted
			job.Message = fmt.Sprintf("Successfully processed all %d requests", succeeded)
		case succeeded == 0:
			job.Status = config.JobStatusFailed
			job.Message = fmt.Sprintf("All %d requests failed", failed)
		default:
			job.Status = config.JobStatusCompleted
			job.Message = fmt.Sprintf("Processed %d of %d requests with %d errors", succeeded, job.Total, failed)
		}
	})

	utils.Logger.Info("Job finalized",
		zap.String(utils.FieldJobID, t.jobID),
		zap.Int("succeeded", succeeded),
		zap.Int("failed", failed))
}

// MarkFailed fails the whole job, used when no request in the batch is valid.
func (t *JobProgressTracker) MarkFailed(total int) {
	_ = t.store.Update(t.jobID, func(job *config.Job) {
		job.Status = config.JobStatusFailed
		job.Total = total
		job.Failed = total
		job.Remaining = 0
		job.Message = fmt.Sprintf("All %d requests failed", total)
	})

	utils.Logger.Info("Job marked as failed",
		zap.String(utils.FieldJobID, t.jobID),
		zap.Int("total", total))
}
