package market

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable indicates the upstream returned no usable data for the
// request. Handlers map it to HTTP 404.
var ErrDataUnavailable = errors.New("data unavailable")

// UpstreamError represents a transport failure or an unexpected upstream
// response shape. Handlers map it to HTTP 500.
type UpstreamError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: upstream returned status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError wraps a failed outbound call.
func NewUpstreamError(op string, statusCode int, err error) error {
	return &UpstreamError{Op: op, StatusCode: statusCode, Err: err}
}

// ValidationError represents a request parameter outside its declared
// range or enumeration. Handlers map it to HTTP 422.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new ValidationError with a specific message.
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// NewValidationErrorf creates a new ValidationError with a formatted message.
func NewValidationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
