// Package server exposes the bulk repository provisioning API.
package server

import (
	"sync"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/artiops/artifactory-automation/internal/config"
	"github.com/artiops/artifactory-automation/internal/pool"
	"github.com/artiops/artifactory-automation/internal/service"
	"github.com/artiops/artifactory-automation/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BatchManager encapsulates async job execution for provisioning requests.
// Each job drains its requests through a bounded worker pool so a large
// batch cannot flood Artifactory with concurrent calls.
type BatchManager struct {
	cfg      *config.Config
	jobStore *config.JobStore
	arti     client.ArtifactoryClient
}

// NewBatchManager constructs a BatchManager with the required dependencies.
func NewBatchManager(cfg *config.Config, jobStore *config.JobStore, arti client.ArtifactoryClient) *BatchManager {
	return &BatchManager{cfg, jobStore, arti}
}

// ProcessBatchAsync creates a job and processes the valid requests in the
// background, returning immediately with the job id and validation counts.
func (bm *BatchManager) ProcessBatchAsync(validationResult *ValidationResult, batch batchProvisionRequest) (string, int, int, int) {
	totalRequests := len(batch.Requests)
	validCount := len(validationResult.ValidRequests)
	invalidCount := len(validationResult.InvalidRequests)
	jobID := uuid.New().String()

	bm.jobStore.Create(jobID, validCount)

	utils.Logger.Debug("Queued job",
		zap.String(utils.FieldJobID, jobID),
		zap.Int("total_requests", totalRequests),
		zap.Int("valid_count", validCount),
		zap.Int("invalid_count", invalidCount))

	go bm.processBatch(jobID, validationResult.ValidRequests)

	return jobID, totalRequests, validCount, invalidCount
}

func (bm *BatchManager) processBatch(jobID string, requests []config.RepoProvisionRequest) {
	tracker := service.NewJobProgressTracker(bm.jobStore, jobID)

	utils.Logger.Debug("Starting batch processing",
		zap.String(utils.FieldJobID, jobID),
		zap.Int("request_count", len(requests)))
	tracker.SetProcessing()

	queue := pool.NewQueue[config.RepoProvisionRequest]()
	for _, req := range requests {
		queue.Push(req)
	}

	provisioner := service.NewProvisioningManager(bm.arti, bm.cfg.DryRun)

	var mu sync.Mutex
	successfulOps := 0
	failedRequests := make([]config.FailedRequest, 0, len(requests))

	action := func(req config.RepoProvisionRequest) error {
		if err := provisioner.CreateRepository(req); err != nil {
			mu.Lock()
			failedRequests = append(failedRequests, config.FailedRequest{
				Request: req,
				Reason:  err.Error(),
			})
			mu.Unlock()
			return err
		}
		mu.Lock()
		successfulOps++
		mu.Unlock()
		return nil
	}

	workers, err := pool.New(bm.cfg.Workers, queue, action)
	if err != nil {
		utils.Logger.Error("Failed to start worker pool",
			zap.String(utils.FieldJobID, jobID),
			zap.Error(err))
		tracker.MarkFailed(len(requests))
		return
	}
	workers.Start()
	workers.Wait()

	failedOps := len(failedRequests)
	tracker.Finalize(successfulOps, failedOps, failedRequests)
	utils.Logger.Debug("Finished batch processing",
		zap.String(utils.FieldJobID, jobID),
		zap.Int("successful_ops", successfulOps),
		zap.Int("failed_ops", failedOps))
}
