// Package errors provides a structured error taxonomy for the wavekit
// client. It defines the error types, codes, and categories that keep
// retry decisions and failure reporting consistent across the transport,
// submission, polling, and upload paths.
//
// # Error Categories
//
// Errors are classified into four categories:
//
//   - Transient: Temporary failures where retry may succeed (timeouts, resets, 429/5xx)
//   - Permanent: Failures where retry will not help (bad credentials, invalid input)
//   - Task: The remote task itself reached a terminal failure state
//   - Internal: Unexpected errors indicating bugs or system failures
//
// # Error Codes
//
// Each error has a specific code that identifies the type of failure:
//
//   - TIMEOUT: Request deadline expired
//   - RATE_LIMITED: Rate limit exceeded
//   - UNAUTHORIZED: Authentication failed
//   - TASK_FAILED: Server reported the task failed
//   - UPLOAD: Upload response missing a download URL
//   - And more...
//
// # Usage
//
// Create a new error:
//
//	err := errors.New(errors.ErrCodeTimeout, "status poll timed out")
//
// Wrap an existing error with context:
//
//	wrapped := errors.Wrap(err, "checking task status")
//
// Check if an error is retryable:
//
//	if apiErr := errors.AsAPIError(err); apiErr != nil && apiErr.Retryable() {
//		// retry logic
//	}
package errors
