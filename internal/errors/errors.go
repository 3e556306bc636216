package errors

import (
	stderrors "errors"
	"fmt"
)

// Domain errors. Services wrap these with %w; FromError maps them to API errors.
var (
	ErrNotFound          = stderrors.New("not found")
	ErrInvalidIdentifier = stderrors.New("invalid identifier")
	ErrStoreUnavailable  = stderrors.New("data store unavailable")
	ErrSelfSubscription  = stderrors.New("cannot subscribe to own channel")
	ErrForbidden         = stderrors.New("forbidden")
	ErrAlreadyExists     = stderrors.New("already exists")
	ErrValidation        = stderrors.New("validation failed")
)

// FieldError attaches the offending input field to a domain error
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s (field: %s)", e.Err, e.Field)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// InvalidField wraps ErrInvalidIdentifier for field
func InvalidField(field string) error {
	return &FieldError{Field: field, Err: ErrInvalidIdentifier}
}

// APIError represents a standardized API error response
type APIError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Field     string    `json:"field,omitempty"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Status    int       `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newAPIError(code ErrorCode, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Status:  code.StatusCode(),
	}
}

// NotFound creates a NOT_FOUND error
func NotFound(resource string) *APIError {
	return newAPIError(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

// InvalidIdentifier creates an INVALID_IDENTIFIER error
func InvalidIdentifier(field string) *APIError {
	e := newAPIError(CodeInvalidIdentifier, "identifier is not well formed")
	e.Field = field
	return e
}

// StoreUnavailable creates a retryable STORE_UNAVAILABLE error
func StoreUnavailable() *APIError {
	e := newAPIError(CodeStoreUnavailable, "data store temporarily unavailable")
	e.Retryable = true
	return e
}

// Unauthorized creates an UNAUTHORIZED error
func Unauthorized(message string) *APIError {
	return newAPIError(CodeUnauthorized, message)
}

// Forbidden creates a FORBIDDEN error
func Forbidden(message string) *APIError {
	return newAPIError(CodeForbidden, message)
}

// Conflict creates a CONFLICT error
func Conflict(resource string) *APIError {
	return newAPIError(CodeConflict, fmt.Sprintf("%s already exists or is in an invalid state", resource))
}

// ValidationError creates a VALIDATION_ERROR
func ValidationError(field, message string) *APIError {
	e := newAPIError(CodeValidation, message)
	e.Field = field
	return e
}

// SelfSubscription creates a SELF_SUBSCRIPTION error
func SelfSubscription() *APIError {
	return newAPIError(CodeSelfSubscription, "cannot subscribe to your own channel")
}

// BadRequest creates a BAD_REQUEST error
func BadRequest(message string) *APIError {
	return newAPIError(CodeBadRequest, message)
}

// InternalError creates an INTERNAL_ERROR
func InternalError(message string) *APIError {
	return newAPIError(CodeInternalError, message)
}

// RateLimited creates a RATE_LIMITED error
func RateLimited(message string) *APIError {
	if message == "" {
		message = "rate limit exceeded"
	}
	e := newAPIError(CodeRateLimited, message)
	e.Retryable = true
	return e
}

// Timeout creates a retryable TIMEOUT error
func Timeout(operation string) *APIError {
	e := newAPIError(CodeTimeout, fmt.Sprintf("%s timed out", operation))
	e.Retryable = true
	return e
}

// WithDetails adds additional details to an error
func (e *APIError) WithDetails(details string) *APIError {
	e.Details = details
	return e
}

// FromError maps a domain error chain onto an APIError. Unknown errors become
// INTERNAL_ERROR without leaking the underlying message.
func FromError(err error) *APIError {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}

	if err == nil {
		return nil
	}

	var fieldErr *FieldError
	hasField := stderrors.As(err, &fieldErr)

	switch {
	case stderrors.Is(err, ErrInvalidIdentifier):
		if hasField {
			return InvalidIdentifier(fieldErr.Field)
		}
		return newAPIError(CodeInvalidIdentifier, err.Error())
	case stderrors.Is(err, ErrNotFound):
		return newAPIError(CodeNotFound, err.Error())
	case stderrors.Is(err, ErrSelfSubscription):
		return SelfSubscription()
	case stderrors.Is(err, ErrForbidden):
		return Forbidden(err.Error())
	case stderrors.Is(err, ErrAlreadyExists):
		return newAPIError(CodeConflict, err.Error())
	case stderrors.Is(err, ErrValidation):
		e := newAPIError(CodeValidation, err.Error())
		if hasField {
			e.Field = fieldErr.Field
		}
		return e
	case stderrors.Is(err, ErrStoreUnavailable):
		return StoreUnavailable()
	default:
		return InternalError("internal server error")
	}
}

// Is and As mirror the standard library helpers
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target interface{}) bool { return stderrors.As(err, target) }
