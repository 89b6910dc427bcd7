package server

import (
	"fmt"
	"net/http"

	"github.com/artiops/artifactory-automation/internal/config"
	"github.com/artiops/artifactory-automation/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler bundles request-time dependencies for the API routes.
type Handler struct {
	cfg          *config.Config
	jobStore     *config.JobStore
	batchManager *BatchManager
}

// newHandler constructs a Handler with attached dependencies.
func newHandler(cfg *config.Config, jobStore *config.JobStore, batchManager *BatchManager) *Handler {
	return &Handler{
		cfg:          cfg,
		jobStore:     jobStore,
		batchManager: batchManager,
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "status": StatusHealthy})
}

func (h *Handler) createBatch(c *gin.Context) {
	// Validate and parse the incoming batch request
	var batch batchProvisionRequest
	if err := c.ShouldBindJSON(&batch); err != nil {
		utils.Logger.Error("Invalid request body",
			zap.Error(err))
		respBuilder := newResponseBuilder()
		c.JSON(http.StatusUnprocessableEntity, respBuilder.BuildErrorResponse(
			ErrorCodeInvalidRequestBody,
			MessageInvalidRequestBody,
			err.Error(),
		))
		return
	}

	// Ensure at least one request is present
	if len(batch.Requests) == 0 {
		respBuilder := newResponseBuilder()
		c.JSON(http.StatusUnprocessableEntity, respBuilder.BuildErrorResponse(
			ErrorCodeValidationFailed,
			MessageBatchEmpty,
			nil,
		))
		return
	}

	validationResult := h.validateBatchRequest(batch)

	// If all requests are invalid, return a validation failed response
	if len(validationResult.ValidRequests) == 0 {
		respBuilder := newResponseBuilder()
		utils.Logger.Info("All requests failed validation",
			zap.Int("invalid_count", len(validationResult.InvalidRequests)))
		c.JSON(http.StatusUnprocessableEntity, respBuilder.BuildValidationFailedResponse(validationResult))
		return
	}

	// Process the valid requests asynchronously
	jobID, totalRequests, validCount, invalidCount := h.batchManager.ProcessBatchAsync(validationResult, batch)
	respBuilder := newResponseBuilder()
	c.JSON(http.StatusAccepted, respBuilder.BuildAcceptedResponse(jobID, totalRequests, validCount, invalidCount, validationResult))
}

func (h *Handler) getJobStatus(c *gin.Context) {
	jobID := c.Param("id")
	job, exists := h.jobStore.Get(jobID)
	if !exists {
		utils.Logger.Debug("Job not found",
			zap.String(utils.FieldJobID, jobID))
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf(JobNotFoundMessageFmt, jobID)})
		return
	}

	respBuilder := newResponseBuilder()
	c.JSON(http.StatusOK, respBuilder.BuildJobResponse(job))
}

func authMiddleware(expectedToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		expectedAuth := fmt.Sprintf("Bearer %s", expectedToken)
		if authHeader != expectedAuth {
			utils.Logger.Warn("Unauthorized access attempt",
				zap.String(utils.FieldPath, c.Request.URL.Path))
			c.JSON(http.StatusUnauthorized, gin.H{"error": MessageInvalidToken})
			c.Abort()
			return
		}
		c.Next()
	}
}

// validateBatchRequest validates the individual requests in a batch.
func (h *Handler) validateBatchRequest(batch batchProvisionRequest) *ValidationResult {
	validationResult := &ValidationResult{
		ValidRequests:   make([]config.RepoProvisionRequest, 0, len(batch.Requests)),
		InvalidRequests: make([]ValidationError, 0, len(batch.Requests)),
	}
	for _, req := range batch.Requests {
		var reasons []string
		if req.Key == "" {
			reasons = append(reasons, "key is required")
		}
		if req.PackageType != "" && !config.IsSupportedRepoType(req.PackageType) {
			reasons = append(reasons, fmt.Sprintf("unsupported package type '%s'", req.PackageType))
		}
		switch req.Rclass {
		case "", "local":
		case "remote":
			if req.RemoteURL == "" {
				reasons = append(reasons, "remote repository requires remoteUrl")
			}
		default:
			reasons = append(reasons, fmt.Sprintf("unsupported rclass '%s'", req.Rclass))
		}
		if len(reasons) > 0 {
			validationResult.InvalidRequests = append(validationResult.InvalidRequests, ValidationError{
				Request: req,
				Reasons: reasons,
			})
			continue
		}
		validationResult.ValidRequests = append(validationResult.ValidRequests, req)
	}
	return validationResult
}
