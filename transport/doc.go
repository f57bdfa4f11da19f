// Package transport provides the retrying HTTP client used for all
// WaveSpeed API communication.
//
// # Overview
//
// The transport package wraps net/http with the three request shapes the
// API uses (JSON POST, JSON GET, multipart upload), unwraps the standard
// {"code", "message", "data"} response envelope, and converts every
// failure into a classified *errors.Error so callers can branch on
// category instead of status codes.
//
// # Retry Behavior
//
// Requests are retried with exponential backoff according to a
// RetryPolicy. Only transient failures are retried: HTTP 429, retryable
// 5xx statuses, network errors, and per-attempt timeouts. Authentication
// failures and other 4xx responses fail immediately. An application-level
// error code inside a 200 response envelope is classified exactly like
// the equivalent HTTP status.
//
// # Usage
//
//	client := transport.New(transport.Config{APIKey: key})
//	defer client.Close()
//
//	data, err := client.PostJSON(ctx, "/api/v3/some/model", payload, 60*time.Second)
//	if err != nil {
//	    if errors.IsRetryable(err) {
//	        // exhausted all attempts on a transient failure
//	    }
//	    return err
//	}
//
// # Design Decisions
//
//   - Connection pooling: one http.Transport per Client, shared across
//     requests (20 idle connections, 10 per host)
//   - Connect budgets: dial timeouts derived from the per-request timeout
//     so a slow handshake cannot eat the whole request budget
//   - Fresh requests per attempt: request bodies are rebuilt for every
//     retry, never rewound
//
// # Thread Safety
//
// All Client methods are safe for concurrent use.
package transport
