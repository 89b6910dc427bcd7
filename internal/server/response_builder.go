package server

import (
	"reflect"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/artiops/artifactory-automation/internal/config"
)

// ResponseBuilder provides utilities for constructing consistent API responses.
type ResponseBuilder struct{}

// newResponseBuilder creates a new response builder instance.
func newResponseBuilder() *ResponseBuilder { return &ResponseBuilder{} }

// AcceptedResponse is the payload returned for accepted batch requests.
type AcceptedResponse struct {
	Success    bool
	Message    string
	JobID      string
	Status     string
	Validation ValidationSummary
}

// ValidationSummary contains batch validation counts and details.
type ValidationSummary struct {
	TotalRequests     int
	ValidRequests     int
	InvalidRequests   int
	FailedValidations []InvalidRequestResponse
}

// InvalidRequestResponse holds a single invalid batch request's details.
type InvalidRequestResponse struct {
	Key              string
	PackageType      string
	ProjectKey       string
	ValidationErrors []string
}

// ErrorResponse standardizes error responses.
type ErrorResponse struct {
	Success bool
	Error   string
	Message string
	Details any
}

// ValidationFailedResponse is returned when all requests are invalid.
type ValidationFailedResponse struct {
	Success         bool
	Message         string
	Error           string
	InvalidRequests ValidationFailedResponseDetails
}

// ValidationFailedResponseDetails contains the invalid requests summary and details.
type ValidationFailedResponseDetails struct {
	Count   int
	Details []InvalidRequestResponse
}

// BuildJobResponse constructs the job status response with all metrics, converting keys to camelCase.
func (rb *ResponseBuilder) BuildJobResponse(job *config.Job) any {
	return toCamelCaseMap(job)
}

// BuildAcceptedResponse constructs an AcceptedResponse with validation details, converting keys to camelCase.
func (rb *ResponseBuilder) BuildAcceptedResponse(jobID string, totalRequests, validCount, invalidCount int, validationResult *ValidationResult) any {
	response := AcceptedResponse{
		Success: true,
		Message: MessageJobQueued,
		JobID:   jobID,
		Status:  StatusPending,
		Validation: ValidationSummary{
			TotalRequests:     totalRequests,
			ValidRequests:     validCount,
			InvalidRequests:   invalidCount,
			FailedValidations: rb.ConvertValidationErrorsToResponse(validationResult.InvalidRequests),
		},
	}
	return toCamelCaseMap(response)
}

// BuildErrorResponse constructs a standardized error response, converting keys to camelCase.
func (rb *ResponseBuilder) BuildErrorResponse(errorCode, errorMessage string, details any) any {
	response := ErrorResponse{
		Success: false,
		Error:   errorCode,
		Message: errorMessage,
		Details: details,
	}
	return toCamelCaseMap(response)
}

// BuildValidationFailedResponse constructs a response for validation failures, converting keys to camelCase.
func (rb *ResponseBuilder) BuildValidationFailedResponse(validationResult *ValidationResult) any {
	response := ValidationFailedResponse{
		Success: false,
		Message: MessageValidationFailed,
		Error:   ErrorCodeValidationFailed,
		InvalidRequests: ValidationFailedResponseDetails{
			Count:   len(validationResult.InvalidRequests),
			Details: rb.ConvertValidationErrorsToResponse(validationResult.InvalidRequests),
		},
	}
	return toCamelCaseMap(response)
}

// ConvertValidationErrorsToResponse transforms validation errors to response format.
func (rb *ResponseBuilder) ConvertValidationErrorsToResponse(validationErrors []ValidationError) []InvalidRequestResponse {
	response := make([]InvalidRequestResponse, 0, len(validationErrors))
	for _, ve := range validationErrors {
		response = append(response, InvalidRequestResponse{
			Key:              ve.Request.Key,
			PackageType:      ve.Request.PackageType,
			ProjectKey:       ve.Request.ProjectKey,
			ValidationErrors: ve.Reasons,
		})
	}
	return response
}

// toCamelCaseMap converts a response struct (recursively through pointers
// and slices) into a map keyed by lowerCamelCase JSON field names.
func toCamelCaseMap(data any) any {
	// Timestamps marshal as RFC 3339 strings, not as structs.
	if t, ok := data.(time.Time); ok {
		return t
	}

	val := reflect.ValueOf(data)
	switch val.Kind() {
	case reflect.Ptr:
		if val.IsNil() {
			return nil
		}
		return toCamelCaseMap(val.Elem().Interface())
	case reflect.Slice, reflect.Array:
		out := make([]any, val.Len())
		for i := 0; i < val.Len(); i++ {
			out[i] = toCamelCaseMap(val.Index(i).Interface())
		}
		return out
	case reflect.Struct:
		out := make(map[string]any)
		typ := val.Type()
		for i := 0; i < val.NumField(); i++ {
			field := typ.Field(i)
			if field.PkgPath != "" {
				continue
			}
			out[jsonKey(field.Name)] = toCamelCaseMap(val.Field(i).Interface())
		}
		return out
	default:
		return data
	}
}

// jsonKey lowercases a Go field name into its JSON form, normalizing the
// ID and URL acronyms ("ID" -> "id", "JobID" -> "jobId", "RepoURL" -> "repoUrl").
func jsonKey(name string) string {
	if suffix, rest, ok := acronymSuffix(name); ok {
		if rest == "" {
			return strings.ToLower(suffix)
		}
		return lowerFirst(rest) + suffix[:1] + strings.ToLower(suffix[1:])
	}
	return lowerFirst(name)
}

func acronymSuffix(name string) (acronym, rest string, ok bool) {
	for _, a := range []string{"ID", "URL"} {
		if strings.HasSuffix(name, a) {
			return a, strings.TrimSuffix(name, a), true
		}
	}
	return "", "", false
}

func lowerFirst(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}
