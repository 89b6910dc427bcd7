package utils

// Shared zap field names so the same key is used across components.
const (
	FieldJobID  = "job_id"
	FieldAction = "action"
	FieldRepo   = "repository"
	FieldPath   = "path"
	FieldHost   = "host"
	FieldPort   = "port"
	FieldSignal = "signal"
)
