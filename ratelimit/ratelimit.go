package ratelimit

import (
	"context"
	"errors"
	"time"
)

// Common errors.
var (
	ErrClosed          = errors.New("limiter closed")
	ErrResourceUnknown = errors.New("unknown resource")
)

// RateLimiter paces requests against shared resources such as API
// endpoints.
type RateLimiter interface {
	// Acquire blocks until a token is available for the resource.
	// Returns context.Canceled or context.DeadlineExceeded if context ends.
	// Returns ErrResourceUnknown if the resource has no configured capacity.
	Acquire(ctx context.Context, resource string) error

	// TryAcquire attempts to acquire a token without blocking.
	// Returns true if a token was acquired, false otherwise.
	TryAcquire(resource string) bool

	// Release returns a token to the resource bucket.
	// This is optional and useful for tracking in-flight requests.
	// Has no effect if the resource is unknown or already at capacity.
	Release(resource string)

	// SetCapacity configures the rate limit for a resource.
	// capacity is the number of tokens per window.
	// window is the time period for refill (e.g., time.Minute).
	SetCapacity(resource string, capacity int, window time.Duration)

	// ReduceCapacity shrinks the resource's capacity after the service
	// pushed back. reason describes why (e.g., "received 429 response").
	ReduceCapacity(resource string, reason string)

	// GetCapacity returns the current capacity info for a resource.
	// Returns nil if the resource is unknown.
	GetCapacity(resource string) *Capacity

	// Close shuts down the limiter and releases resources.
	Close() error
}

// Capacity describes the rate limit configuration for a resource.
type Capacity struct {
	// Resource is the unique identifier for the rate-limited resource.
	Resource string

	// Available is the current number of available tokens.
	Available int

	// Total is the maximum capacity (tokens per window).
	Total int

	// Window is the refill period.
	Window time.Duration

	// InFlight tracks requests currently in progress (if Release is used).
	InFlight int
}
