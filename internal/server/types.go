package server

import "github.com/artiops/artifactory-automation/internal/config"

// ValidationError represents validation errors for a single request with detailed context.
type ValidationError struct {
	Request config.RepoProvisionRequest
	Reasons []string // List of all validation error messages
}

// ValidationResult contains validation results for an entire batch.
type ValidationResult struct {
	ValidRequests   []config.RepoProvisionRequest
	InvalidRequests []ValidationError
}

// batchProvisionRequest holds a batch of repository provisioning requests for bulk processing.
type batchProvisionRequest struct {
	// Requests is the list of repository creation requests to process
	Requests []config.RepoProvisionRequest `json:"requests" binding:"required,dive"`
}
