package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConflict      = errors.New("conflict")
	ErrInternal      = errors.New("internal server error")
	ErrConfiguration = errors.New("configuration error")
	ErrRateLimited   = errors.New("rate limited")
	ErrUpstream      = errors.New("upstream unavailable")
	ErrEnrichment    = errors.New("enrichment failed")
)

type AppError struct {
	BaseError error
	Message   string
	Details   string
	Err       error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (Details: %s, Cause: %v)", e.BaseError.Error(), e.Message, e.Details, e.Err)
	}
	return fmt.Sprintf("%s: %s (Details: %s)", e.BaseError.Error(), e.Message, e.Details)
}

func (e *AppError) Unwrap() error {
	return e.BaseError
}

func NewAppError(base error, msg, details string, err error) *AppError {
	return &AppError{BaseError: base, Message: msg, Details: details, Err: err}
}

func NewNotFound(resource, identifier string) *AppError {
	msg := fmt.Sprintf("%s not found", resource)
	details := fmt.Sprintf("%s with identifier '%s' was not found", resource, identifier)
	return NewAppError(ErrNotFound, msg, details, nil)
}

func NewInvalidInput(details string, err error) *AppError {
	return NewAppError(ErrInvalidInput, "Invalid input provided", details, err)
}

func NewInternal(details string, err error) *AppError {
	return NewAppError(ErrInternal, "An internal server error occurred", details, err)
}

// NewConfiguration marks a missing credential or library. Fatal for the
// request, never retried.
func NewConfiguration(details string) *AppError {
	return NewAppError(ErrConfiguration, "Service is not configured", details, nil)
}

// NewRateLimited marks a 403/429 response from an upstream source so the
// caller can report it instead of presenting a silently empty result.
func NewRateLimited(source string) *AppError {
	msg := fmt.Sprintf("%s rate limit exceeded", source)
	return NewAppError(ErrRateLimited, msg, "add or rotate the API token and try again later", nil)
}

// NewUpstream marks a transport failure or timeout from an upstream source.
func NewUpstream(source string, err error) *AppError {
	msg := fmt.Sprintf("%s is unavailable", source)
	return NewAppError(ErrUpstream, msg, "the upstream request failed or timed out", err)
}

// NewEnrichment marks a completion-service result that could not be parsed
// or validated and has no safe synthetic fallback.
func NewEnrichment(details string, err error) *AppError {
	return NewAppError(ErrEnrichment, "AI enrichment failed", details, err)
}

// NewInsufficientText rejects an enrichment request whose source text is too
// short to analyze. Raised before any completion-service call is made.
func NewInsufficientText(length int) *AppError {
	details := fmt.Sprintf("extracted text is %d characters, need at least 50; the document may be image-based or corrupted", length)
	return NewAppError(ErrInvalidInput, "Could not extract sufficient text", details, nil)
}

func ToHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrRateLimited) {
		return http.StatusTooManyRequests
	}
	if errors.Is(err, ErrUpstream) {
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, ErrEnrichment) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (e *AppError) ToJSON() gin.H {
	return gin.H{
		"error":   e.BaseError.Error(),
		"message": e.Message,
	}
}
