package mediawiki

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultRate is the proactive throttle rate in requests per second.
	DefaultRate = 2.0

	// MaxRetryAfter caps how long a single Retry-After header can pause requests.
	MaxRetryAfter = 5 * time.Minute

	// HeaderRetryAfter is the retry-after header (seconds), sent by
	// MediaWiki with maxlag errors.
	HeaderRetryAfter = "Retry-After"
)

// RateLimiter combines proactive throttling with the server's
// Retry-After requests.
type RateLimiter struct {
	mu          sync.Mutex
	bucket      *rate.Limiter // Proactive throttling
	pausedUntil time.Time     // From Retry-After
	now         func() time.Time
}

// NewRateLimiter creates a rate limiter allowing perSecond requests per
// second. A non-positive rate uses DefaultRate.
func NewRateLimiter(perSecond float64) *RateLimiter {
	if perSecond <= 0 {
		perSecond = DefaultRate
	}
	return &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(perSecond), 1),
		now:    time.Now,
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	// 1. Honour a pending Retry-After (reactive)
	r.mu.Lock()
	pausedUntil := r.pausedUntil
	now := r.now()
	r.mu.Unlock()

	if now.Before(pausedUntil) {
		timer := time.NewTimer(pausedUntil.Sub(now))
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	// 2. Check token bucket (proactive throttling)
	return r.bucket.Wait(ctx)
}

// UpdateFromResponse records a Retry-After header, if present.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	retryAfter := resp.Header.Get(HeaderRetryAfter)
	if retryAfter == "" {
		return
	}
	seconds, err := strconv.Atoi(retryAfter)
	if err != nil || seconds <= 0 {
		return
	}

	wait := time.Duration(seconds) * time.Second
	if wait > MaxRetryAfter {
		wait = MaxRetryAfter
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	until := r.now().Add(wait)
	if until.After(r.pausedUntil) {
		r.pausedUntil = until
	}
}

// PausedUntil returns the time requests are paused until, or the zero time.
func (r *RateLimiter) PausedUntil() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pausedUntil
}
