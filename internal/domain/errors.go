package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for categorization
const (
	// Client errors (4xx)
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeBadRequest = "BAD_REQUEST"

	// Scraping errors
	ErrCodeResolution      = "RESOLUTION_ERROR"
	ErrCodeRemoteInteract  = "REMOTE_INTERACTION_ERROR"
	ErrCodeCatalogNotBuilt = "CATALOG_NOT_BUILT"
	ErrCodeSessionExpired  = "QUOTE_SESSION_EXPIRED"

	// Server errors (5xx)
	ErrCodeInternal = "INTERNAL_ERROR"
	ErrCodeTimeout  = "TIMEOUT_ERROR"
)

// DomainError is a structured error for domain operations
type DomainError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for error comparison
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// HTTPStatus maps an error code to an HTTP status
func (e *DomainError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeValidation, ErrCodeBadRequest, ErrCodeResolution:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeCatalogNotBuilt:
		return http.StatusNotFound
	case ErrCodeSessionExpired:
		return http.StatusGone
	case ErrCodeRemoteInteract:
		return http.StatusBadGateway
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Sentinel domain errors (used with errors.Is)
var (
	ErrResolutionVal     = &DomainError{Code: ErrCodeResolution, Message: "resolution failed"}
	ErrRemoteInteractVal = &DomainError{Code: ErrCodeRemoteInteract, Message: "remote interaction failed"}
	ErrInvalidInputVal   = &DomainError{Code: ErrCodeValidation, Message: "invalid input"}
	ErrCatalogNotBuilt   = &DomainError{Code: ErrCodeCatalogNotBuilt, Message: "catalog not built"}
	ErrSessionExpired    = &DomainError{Code: ErrCodeSessionExpired, Message: "quote session expired"}
)

// ResolutionError reports a human-supplied trip parameter that could not be
// matched against the catalog. It must fail the request; a default ID is never
// substituted silently.
func ResolutionError(field, value string) *DomainError {
	return &DomainError{
		Code:    ErrCodeResolution,
		Message: fmt.Sprintf("no catalog match for %s %q", field, value),
		Details: map[string]any{"field": field, "value": value},
		Err:     ErrResolutionVal,
	}
}

// RemoteInteractionError reports a missing remote DOM element or a timed-out
// wait. Fatal to the current request; the browser session is torn down by the
// caller. ScreenshotURI points at captured diagnostic state when available.
func RemoteInteractionError(step string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeRemoteInteract,
		Message: fmt.Sprintf("remote interaction failed at %s", step),
		Details: map[string]any{"step": step},
		Err:     fmt.Errorf("%w: %w", ErrRemoteInteractVal, err),
	}
}

// WithScreenshot attaches a diagnostics object URI to the error
func (e *DomainError) WithScreenshot(uri string) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details["screenshot_uri"] = uri
	return e
}

// MalformedInputError rejects invalid quote parameters before any remote
// interaction is attempted.
func MalformedInputError(field, message string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: message,
		Details: map[string]any{"field": field},
		Err:     ErrInvalidInputVal,
	}
}

// TimeoutError reports an exceeded wait budget
func TimeoutError(operation string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeTimeout,
		Message: fmt.Sprintf("operation timed out: %s", operation),
		Details: map[string]any{"operation": operation},
		Err:     err,
	}
}

// IsSentinelError checks if err matches a sentinel error
func IsSentinelError(err error, sentinel *DomainError) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == sentinel.Code
	}
	return false
}

// AsDomainError converts an error to DomainError if possible
func AsDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}
