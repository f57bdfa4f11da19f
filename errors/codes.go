package errors

// ErrorCategory classifies errors by their nature and retry semantics.
type ErrorCategory string

// Error categories define how errors should be handled.
const (
	// CategoryTransient indicates temporary failures where retry may succeed.
	// Examples: network timeouts, connection resets, 429/5xx responses.
	CategoryTransient ErrorCategory = "transient"

	// CategoryPermanent indicates failures where retry will not help.
	// Examples: invalid credentials, malformed requests, missing fields.
	CategoryPermanent ErrorCategory = "permanent"

	// CategoryTask indicates the remote task itself reached a terminal
	// failure state. Retrying the request changes nothing; the task is done.
	// Examples: server-reported task failure, task deadline exhausted.
	CategoryTask ErrorCategory = "task"

	// CategoryInternal indicates unexpected errors, bugs, or system failures.
	// Examples: undecodable response bodies, invariant violations.
	CategoryInternal ErrorCategory = "internal"
)

// String returns the string representation of the category.
func (c ErrorCategory) String() string {
	return string(c)
}

// IsRetryable returns true if errors in this category may succeed on retry.
func (c ErrorCategory) IsRetryable() bool {
	return c == CategoryTransient
}

// ErrorCode identifies specific error types within categories.
type ErrorCode string

// Error codes for common failure scenarios.
const (
	// Transient errors
	ErrCodeTimeout     ErrorCode = "TIMEOUT"      // Request deadline expired
	ErrCodeTransport   ErrorCode = "TRANSPORT"    // Network connectivity fault
	ErrCodeServerError ErrorCode = "SERVER_ERROR" // Service-side 5xx failure
	ErrCodeRateLimit   ErrorCode = "RATE_LIMITED" // Rate limit exceeded (429)

	// Permanent errors
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"  // Authentication failed (401)
	ErrCodeBadRequest   ErrorCode = "BAD_REQUEST"   // Request rejected (other 4xx)
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT" // Malformed or invalid input
	ErrCodeSubmission   ErrorCode = "SUBMISSION"    // Accepted response missing a task id
	ErrCodeUpload       ErrorCode = "UPLOAD"        // Upload response missing a download URL
	ErrCodeCanceled     ErrorCode = "CANCELED"      // Operation was canceled

	// Task errors
	ErrCodeTaskFailed  ErrorCode = "TASK_FAILED"  // Server reported the task failed
	ErrCodeTaskTimeout ErrorCode = "TASK_TIMEOUT" // Polling deadline exhausted

	// Internal errors
	ErrCodeInternal ErrorCode = "INTERNAL" // Unexpected internal error
)

// String returns the string representation of the error code.
func (c ErrorCode) String() string {
	return string(c)
}

// DefaultCategory returns the default category for an error code.
func (c ErrorCode) DefaultCategory() ErrorCategory {
	switch c {
	// Transient
	case ErrCodeTimeout, ErrCodeTransport, ErrCodeServerError, ErrCodeRateLimit:
		return CategoryTransient

	// Permanent
	case ErrCodeUnauthorized, ErrCodeBadRequest, ErrCodeInvalidInput,
		ErrCodeSubmission, ErrCodeUpload, ErrCodeCanceled:
		return CategoryPermanent

	// Task
	case ErrCodeTaskFailed, ErrCodeTaskTimeout:
		return CategoryTask

	// Internal
	case ErrCodeInternal:
		return CategoryInternal

	default:
		return CategoryInternal
	}
}

// DefaultRetryable returns whether this error code is typically retryable.
func (c ErrorCode) DefaultRetryable() bool {
	return c.DefaultCategory().IsRetryable()
}

// codeDescriptions provides human-readable descriptions for error codes.
var codeDescriptions = map[ErrorCode]string{
	ErrCodeTimeout:      "request timed out",
	ErrCodeTransport:    "network connectivity error",
	ErrCodeServerError:  "service reported a server error",
	ErrCodeRateLimit:    "rate limit exceeded",
	ErrCodeUnauthorized: "authentication failed",
	ErrCodeBadRequest:   "request rejected by service",
	ErrCodeInvalidInput: "invalid input provided",
	ErrCodeSubmission:   "submission returned no task id",
	ErrCodeUpload:       "upload returned no download URL",
	ErrCodeCanceled:     "operation canceled",
	ErrCodeTaskFailed:   "task execution failed",
	ErrCodeTaskTimeout:  "task did not finish in time",
	ErrCodeInternal:     "internal error",
}

// Description returns a human-readable description for the error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}
