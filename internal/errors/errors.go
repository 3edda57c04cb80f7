package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrPostNotFound is returned when a post is not found or not visible.
	ErrPostNotFound = errors.New("post not found")
	// ErrCommentNotFound is returned when a comment is not found.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrNotificationNotFound is returned when a notification is not found.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrReportNotFound is returned when a report is not found.
	ErrReportNotFound = errors.New("report not found")
	// ErrInvalidIdentifier is returned when an identifier fails format checks.
	ErrInvalidIdentifier = errors.New("invalid phone number or email")
	// ErrInvalidCode is returned when a verification code does not match.
	ErrInvalidCode = errors.New("invalid verification code")
	// ErrCodeExhausted is returned when a code has no attempts left.
	ErrCodeExhausted = errors.New("verification code attempts exhausted")
	// ErrRateLimited is returned when code requests exceed the window limit.
	ErrRateLimited = errors.New("too many requests")
	// ErrInvalidToken is returned for missing, expired or wrong-scope tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrForbidden is returned on role or ownership mismatch.
	ErrForbidden = errors.New("operation not permitted")
	// ErrSelfAction is returned when a user targets themselves.
	ErrSelfAction = errors.New("cannot perform this action on yourself")
	// ErrDuplicateAction is returned for duplicate social actions.
	ErrDuplicateAction = errors.New("request already exists")
	// ErrUserBlocked is returned when a blocked user authenticates.
	ErrUserBlocked = errors.New("account is blocked")
	// ErrProviderFailure is returned after retries against SMS/mail/OAuth fail.
	ErrProviderFailure = errors.New("failed to send verification code")
	// ErrInvalidCredentials is returned on admin password mismatch.
	ErrInvalidCredentials = errors.New("invalid login or password")
	// ErrValidation is returned when request payload fields fail validation.
	ErrValidation = errors.New("validation failed")
)

// RateLimitedError carries the seconds-to-wait hint alongside ErrRateLimited.
type RateLimitedError struct {
	RetryAfterSeconds int
}

func (e *RateLimitedError) Error() string {
	return ErrRateLimited.Error()
}

func (e *RateLimitedError) Unwrap() error {
	return ErrRateLimited
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	// RetryAfterSeconds is set only on rate-limit rejections.
	RetryAfterSeconds int `json:"retry_after_seconds,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	RetryAfter int
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:             e.Message,
		Code:              e.Code,
		RetryAfterSeconds: e.RetryAfter,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrPostNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "POST_NOT_FOUND")
	case errors.Is(err, ErrCommentNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "COMMENT_NOT_FOUND")
	case errors.Is(err, ErrNotificationNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOTIFICATION_NOT_FOUND")
	case errors.Is(err, ErrReportNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "REPORT_NOT_FOUND")
	case errors.Is(err, ErrInvalidIdentifier):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_IDENTIFIER")
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_FAILED")
	case errors.Is(err, ErrInvalidCode):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_CODE")
	case errors.Is(err, ErrCodeExhausted):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "CODE_EXHAUSTED")
	case errors.Is(err, ErrRateLimited):
		httpErr := NewHTTPError(http.StatusTooManyRequests, err.Error(), "RATE_LIMITED")
		var limited *RateLimitedError
		if errors.As(err, &limited) {
			httpErr.RetryAfter = limited.RetryAfterSeconds
		}
		return httpErr
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrUserBlocked):
		return NewHTTPError(http.StatusForbidden, err.Error(), "USER_BLOCKED")
	case errors.Is(err, ErrSelfAction):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "SELF_ACTION")
	case errors.Is(err, ErrDuplicateAction):
		return NewHTTPError(http.StatusConflict, err.Error(), "DUPLICATE_ACTION")
	case errors.Is(err, ErrProviderFailure):
		return NewHTTPError(http.StatusBadGateway, err.Error(), "PROVIDER_FAILURE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
