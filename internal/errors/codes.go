package errors

import "net/http"

// ErrorCode is the stable machine-readable reason sent to clients
type ErrorCode string

const (
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeInvalidIdentifier ErrorCode = "INVALID_IDENTIFIER"
	CodeStoreUnavailable  ErrorCode = "STORE_UNAVAILABLE"
	CodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	CodeForbidden         ErrorCode = "FORBIDDEN"
	CodeConflict          ErrorCode = "CONFLICT"
	CodeValidation        ErrorCode = "VALIDATION_ERROR"
	CodeSelfSubscription  ErrorCode = "SELF_SUBSCRIPTION"
	CodeBadRequest        ErrorCode = "BAD_REQUEST"
	CodeInternalError     ErrorCode = "INTERNAL_ERROR"
	CodeRateLimited       ErrorCode = "RATE_LIMITED"
	CodeTimeout           ErrorCode = "TIMEOUT"
)

// StatusCodeMap maps ErrorCode to HTTP status code
var StatusCodeMap = map[ErrorCode]int{
	CodeNotFound:          http.StatusNotFound,
	CodeInvalidIdentifier: http.StatusBadRequest,
	CodeStoreUnavailable:  http.StatusServiceUnavailable,
	CodeUnauthorized:      http.StatusUnauthorized,
	CodeForbidden:         http.StatusForbidden,
	CodeConflict:          http.StatusConflict,
	CodeValidation:        http.StatusUnprocessableEntity,
	CodeSelfSubscription:  http.StatusUnprocessableEntity,
	CodeBadRequest:        http.StatusBadRequest,
	CodeInternalError:     http.StatusInternalServerError,
	CodeRateLimited:       http.StatusTooManyRequests,
	CodeTimeout:           http.StatusGatewayTimeout,
}

// StatusCode returns the HTTP status code for this error code
func (e ErrorCode) StatusCode() int {
	if code, ok := StatusCodeMap[e]; ok {
		return code
	}
	return http.StatusInternalServerError
}
