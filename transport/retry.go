package transport

import "time"

// Default retry tuning applied when RetryPolicy fields are zero.
const (
	defaultMaxRetries    = 3
	defaultBaseDelay     = 1 * time.Second
	defaultMaxDelay      = 60 * time.Second
	defaultBackoffFactor = 2.0
)

// RetryPolicy controls how the client retries transient failures.
// Zero-value fields are replaced with defaults when the Client is built.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int

	// BaseDelay is the wait before the first retry.
	BaseDelay time.Duration

	// MaxDelay caps the exponential backoff.
	MaxDelay time.Duration

	// BackoffFactor multiplies the delay after each retry.
	BackoffFactor float64

	// RetryableStatuses are the HTTP statuses worth another attempt.
	// Defaults to 429, 500, 502, 503 and 504.
	RetryableStatuses map[int]bool
}

// DefaultRetryPolicy returns the policy used when Config.Retry is zero.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:    defaultMaxRetries,
		BaseDelay:     defaultBaseDelay,
		MaxDelay:      defaultMaxDelay,
		BackoffFactor: defaultBackoffFactor,
		RetryableStatuses: map[int]bool{
			429: true,
			500: true,
			502: true,
			503: true,
			504: true,
		},
	}
}

// Retryable reports whether status is in the retryable set.
func (p RetryPolicy) Retryable(status int) bool {
	return p.RetryableStatuses[status]
}

// Attempts returns the total number of attempts the policy allows.
func (p RetryPolicy) Attempts() int {
	return p.MaxRetries + 1
}

// withDefaults fills zero fields with default values.
func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxRetries <= 0 {
		p.MaxRetries = defaultMaxRetries
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = defaultBaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = defaultMaxDelay
	}
	if p.BackoffFactor <= 1 {
		p.BackoffFactor = defaultBackoffFactor
	}
	if p.RetryableStatuses == nil {
		p.RetryableStatuses = DefaultRetryPolicy().RetryableStatuses
	}
	return p
}
