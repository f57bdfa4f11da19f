package wavespeed

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vinayprograms/wavekit/ratelimit"
	"github.com/vinayprograms/wavekit/transport"
)

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the API key explicitly, bypassing environment and
// credentials file lookup.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithBaseURL overrides the API endpoint. Useful for testing against a
// local server.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithRetryPolicy replaces the default retry policy for all requests.
func WithRetryPolicy(policy transport.RetryPolicy) Option {
	return func(c *Client) {
		c.retry = policy
	}
}

// WithLogger sets the logger. Without it the client stays silent.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithPollInterval sets the delay between result polls.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		c.pollInterval = interval
	}
}

// WithTaskTimeout sets the total time budget for waiting on a task.
func WithTaskTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.taskTimeout = timeout
	}
}

// WithLimiter installs a rate limiter that gates submissions and uploads.
// The caller keeps ownership; Close does not close the limiter.
func WithLimiter(limiter ratelimit.RateLimiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}
