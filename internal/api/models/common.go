// Package models defines request and response types for the publisher REST API.
// Every response carries "success" so the editor can branch on one field.
package models

import "time"

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidRequest        = "invalid_request"
	CodeUnauthorized          = "unauthorized"
	CodeNotOwner              = "not_owner"
	CodeNotFound              = "not_found"
	CodeNameTaken             = "name_taken"
	CodeRegistrarUnconfigured = "registrar_unconfigured"
	CodeRegistrarUnavailable  = "registrar_unavailable"
	CodeRateLimited           = "rate_limited"
	CodeInternal              = "internal_error"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// SuccessResponse is returned by operations with nothing else to report.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// HealthResponse is the liveness answer.
type HealthResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
