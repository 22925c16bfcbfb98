// Package resilience provides retry and rate limiting primitives.
//
// Retry re-runs an operation while its error is classified as retryable:
//
//	cfg := resilience.FixedRetryConfig(3, 2*time.Second, isOverloaded)
//	out, err := resilience.Retry(ctx, cfg, func() (string, error) {
//	    return backend.Generate(ctx, req)
//	})
//
// RateLimiter is a token bucket; KeyedRateLimiter keeps one bucket per key
// and backs the relay's per-client request budget.
package resilience
