package resilience

import (
	"sync"
	"time"
)

// RateLimiterConfig configures a token bucket.
type RateLimiterConfig struct {
	// Name identifies this rate limiter for logging.
	Name string
	// Rate is the number of requests allowed per second.
	Rate float64
	// Burst is the maximum burst size.
	Burst int
	// OnLimit is called with the limiter name and key when a request is rejected.
	OnLimit func(name, key string)
}

// PerMinute returns a config allowing n requests per minute with a burst of n.
func PerMinute(name string, n int) RateLimiterConfig {
	return RateLimiterConfig{
		Name:  name,
		Rate:  float64(n) / 60.0,
		Burst: n,
	}
}

func (c *RateLimiterConfig) applyDefaults() {
	if c.Rate <= 0 {
		c.Rate = 10.0
	}
	if c.Burst <= 0 {
		c.Burst = int(c.Rate)
		if c.Burst < 1 {
			c.Burst = 1
		}
	}
}

// RateLimiter implements a token bucket rate limiter.
type RateLimiter struct {
	config RateLimiterConfig
	now    func() time.Time

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	return newRateLimiter(config, time.Now)
}

func newRateLimiter(config RateLimiterConfig, now func() time.Time) *RateLimiter {
	config.applyDefaults()
	return &RateLimiter{
		config:     config,
		now:        now,
		tokens:     float64(config.Burst),
		lastRefill: now(),
	}
}

// Allow reports whether one request may proceed, consuming a token if so.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	if rl.config.OnLimit != nil {
		rl.config.OnLimit(rl.config.Name, "")
	}
	return false
}

// full reports whether the bucket has refilled to burst.
func (rl *RateLimiter) full() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refill()
	return rl.tokens >= float64(rl.config.Burst)
}

func (rl *RateLimiter) refill() {
	now := rl.now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	rl.lastRefill = now

	rl.tokens += elapsed * rl.config.Rate
	if rl.tokens > float64(rl.config.Burst) {
		rl.tokens = float64(rl.config.Burst)
	}
}

// KeyedRateLimiter keeps one token bucket per key, e.g. per client IP.
type KeyedRateLimiter struct {
	config RateLimiterConfig
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*RateLimiter
}

// NewKeyedRateLimiter creates a limiter that budgets each key independently.
func NewKeyedRateLimiter(config RateLimiterConfig) *KeyedRateLimiter {
	config.applyDefaults()
	return &KeyedRateLimiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*RateLimiter),
	}
}

// Allow reports whether a request for key may proceed.
func (k *KeyedRateLimiter) Allow(key string) bool {
	k.mu.Lock()
	b, ok := k.buckets[key]
	if !ok {
		cfg := k.config
		cfg.OnLimit = nil
		b = newRateLimiter(cfg, k.now)
		k.buckets[key] = b
	}
	k.mu.Unlock()

	if b.Allow() {
		return true
	}
	if k.config.OnLimit != nil {
		k.config.OnLimit(k.config.Name, key)
	}
	return false
}

// Prune drops buckets that have refilled completely. Returns the number removed.
func (k *KeyedRateLimiter) Prune() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	removed := 0
	for key, b := range k.buckets {
		if b.full() {
			delete(k.buckets, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (k *KeyedRateLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.buckets)
}
