package models

import (
	"fmt"
	"time"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Timestamp string `json:"timestamp"`
}

// NewErrorResponse builds a response with the current UTC timestamp.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     message,
		Code:      code,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Error codes
const (
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeProviderFailed     = "PROVIDER_FAILED"
	ErrCodeDependencyInstall  = "DEPENDENCY_INSTALL_FAILED"
	ErrCodeDeployPrecondition = "DEPLOY_PRECONDITION_FAILED"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// ValidationError signals client-supplied input violating the schema. Never
// retried, mapped to 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Message)
}

// ProviderError signals an upstream generative service failure. Absorbed by
// the fallback policy before it can fail a pipeline step.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// DependencyResolutionError signals a package install failure. The demo is
// marked failed but generated source is retained.
type DependencyResolutionError struct {
	Packages []string
	Err      error
}

func (e *DependencyResolutionError) Error() string {
	return fmt.Sprintf("dependency install failed for %v: %v", e.Packages, e.Err)
}

func (e *DependencyResolutionError) Unwrap() error { return e.Err }

// DeploymentPreconditionError signals a missing target directory. Fatal, not
// retried, surfaced verbatim.
type DeploymentPreconditionError struct {
	MissingPath string
}

func (e *DeploymentPreconditionError) Error() string {
	return fmt.Sprintf("deployment precondition failed: missing directory %s", e.MissingPath)
}

// NotFoundError signals an unknown demo identifier, mapped to 404.
type NotFoundError struct {
	DemoID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("demo %s not found", e.DemoID)
}
