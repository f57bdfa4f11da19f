// Package ratelimit paces outbound requests to capacity-constrained
// services.
//
// The WaveSpeed API throttles aggressive clients. This package
// provides a local token-bucket limiter the client wires in front of
// submissions and uploads so bursts are smoothed before they hit the
// wire.
//
// # Usage
//
//	limiter := ratelimit.NewMemoryLimiter()
//	limiter.SetCapacity("wavespeed-api", 60, time.Minute) // 60 requests per minute
//
//	// Block until token available
//	if err := limiter.Acquire(ctx, "wavespeed-api"); err != nil {
//	    return err // context cancelled
//	}
//	defer limiter.Release("wavespeed-api")
//
//	// Non-blocking attempt
//	if limiter.TryAcquire("wavespeed-api") {
//	    defer limiter.Release("wavespeed-api")
//	    // Make request
//	}
//
// When the service answers 429 despite local pacing, ReduceCapacity
// shrinks the bucket so the send rate backs off:
//
//	limiter.ReduceCapacity("wavespeed-api", "received 429 response")
//
// # Algorithm
//
// The limiter uses the token bucket algorithm with refill:
//   - Tokens are added at a fixed rate based on capacity/window
//   - Each Acquire consumes one token
//   - If no tokens available, Acquire blocks (or TryAcquire returns false)
//   - Release returns a token to the bucket (optional, for request tracking)
//
// # Best Practices
//
//   - Set capacity slightly below actual limits for safety margin
//   - Use Release to track in-flight requests, not just rate
//   - Use TryAcquire with fallback for non-critical requests
package ratelimit
