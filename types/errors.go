package types

import "fmt"

// ValidationError reports a request the client must fix. The REST edge maps
// it to HTTP 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing resource: an unknown pool locator, an ABI
// with no matching method, or a receipt id the gateway does not know.
// The REST edge maps it to HTTP 404.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// NewNotFoundError builds a NotFoundError with a formatted message.
func NewNotFoundError(format string, args ...interface{}) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// UpstreamError wraps a failure reported by the RPC gateway. The remote
// error text is preserved verbatim and surfaced as HTTP 500.
type UpstreamError struct {
	Message string
	Cause   error
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Cause.Error()
}

func (e *UpstreamError) Unwrap() error { return e.Cause }

// NewUpstreamError wraps the remote error message from the gateway.
func NewUpstreamError(message string, cause error) error {
	return &UpstreamError{Message: message, Cause: cause}
}
