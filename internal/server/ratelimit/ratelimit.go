// Package ratelimit provides per-client, per-route token bucket rate limiting.
// Clients are keyed by authenticated user rather than address.
package ratelimit

import (
	"sync"
	"time"
)

// idleTTL is how long an unused bucket survives cleanup.
const idleTTL = time.Hour

// bucket is a token bucket. Tokens refill continuously at rate per second up
// to capacity.
type bucket struct {
	mu       sync.Mutex
	capacity float64
	rate     float64
	tokens   float64
	last     time.Time
	lastSeen time.Time
}

func newBucket(capacity int, rate float64, now time.Time) *bucket {
	return &bucket{
		capacity: float64(capacity),
		rate:     rate,
		tokens:   float64(capacity),
		last:     now,
		lastSeen: now,
	}
}

func (b *bucket) refill(now time.Time) {
	b.tokens = min(b.capacity, b.tokens+now.Sub(b.last).Seconds()*b.rate)
	b.last = now
}

// take consumes a token if one is available and reports the state afterwards.
func (b *bucket) take(now time.Time) (allowed bool, remaining int, resetAt time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(now)
	b.lastSeen = now
	if b.tokens >= 1 {
		b.tokens--
		allowed = true
	}

	resetAt = now
	if missing := b.capacity - b.tokens; missing > 0 {
		resetAt = now.Add(time.Duration(missing / b.rate * float64(time.Second)))
	}
	return allowed, int(b.tokens), resetAt
}

func (b *bucket) idleSince(cutoff time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastSeen.Before(cutoff)
}

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	// ExemptRoles are never limited, e.g. "ADMIN".
	ExemptRoles map[string]bool
	// Blocked client keys are always refused.
	Blocked map[string]bool
	Routes  []RouteLimit
}

// Client identifies the caller a request is charged to. Key is the
// authenticated user ID, or the remote IP when there is none.
type Client struct {
	Key  string
	Role string
}

// Limiter manages rate limiting for multiple clients.
type Limiter struct {
	config *Config
	routes []route
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	stopOnce sync.Once
	stop     chan struct{}
}

// NewLimiter creates a new rate limiter with the given configuration. A nil
// config enables a 600 requests/minute default. Route limits with malformed
// patterns are ignored.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    600,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}

	l := &Limiter{
		config:  config,
		routes:  compileRoutes(config.Routes),
		now:     time.Now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanupLoop(config.CleanupInterval)
	}
	return l
}

// Allow charges one request by client against the budget of the route that
// matches method and path, or against the client's default budget.
func (l *Limiter) Allow(client Client, method, path string) (bool, Info) {
	if !l.config.Enabled || l.config.ExemptRoles[client.Role] {
		return true, Info{Allowed: true}
	}
	if l.config.Blocked[client.Key] {
		return false, Info{}
	}

	limit := matchRoute(l.routes, method, path)
	scope := "*"
	if limit != nil {
		scope = limit.Pattern
	} else {
		limit = &RouteLimit{Limit: l.config.DefaultLimit, Window: l.config.DefaultWindow}
	}
	if limit.Limit <= 0 || limit.Window <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	allowed, remaining, resetAt := l.bucketFor(client.Key+"|"+scope, limit, now).take(now)

	info := Info{
		Allowed:   allowed,
		Limit:     limit.Limit,
		Remaining: remaining,
		ResetTime: resetAt,
	}
	if !allowed {
		info.RetryAfter = max(resetAt.Sub(now), 0)
	}
	return allowed, info
}

func (l *Limiter) bucketFor(key string, limit *RouteLimit, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[key]; ok {
		return b
	}
	capacity := limit.Burst
	if capacity <= 0 {
		capacity = limit.Limit
	}
	b := newBucket(capacity, float64(limit.Limit)/limit.Window.Seconds(), now)
	l.buckets[key] = b
	return b
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanupBuckets()
		case <-l.stop:
			return
		}
	}
}

// cleanupBuckets drops buckets idle for longer than idleTTL.
func (l *Limiter) cleanupBuckets() {
	cutoff := l.now().Add(-idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.idleSince(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	if l == nil {
		return
	}
	l.stopOnce.Do(func() { close(l.stop) })
}
