package http

import (
	"sync"
	"time"
)

// minIdle is how long an untouched bucket survives before it is forgotten.
const minIdle = time.Hour

// tokenBucket refills to capacity all at once when its window elapses.
type tokenBucket struct {
	tokens      int
	windowStart time.Time
}

func (b *tokenBucket) refill(now time.Time, capacity int, window time.Duration) {
	if now.Sub(b.windowStart) >= window {
		b.tokens = capacity
		b.windowStart = now
	}
}

func (b *tokenBucket) take() bool {
	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

// RateLimiter hands each client capacity requests per refill window.
type RateLimiter struct {
	mu        sync.Mutex
	capacity  int
	window    time.Duration
	idleAfter time.Duration
	buckets   map[string]*tokenBucket
	now       func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(capacity int, window time.Duration) *RateLimiter {
	idleAfter := minIdle
	if window > idleAfter {
		// dropping a bucket mid-window would hand the client a fresh quota
		idleAfter = window
	}
	rl := &RateLimiter{
		capacity:  capacity,
		window:    window,
		idleAfter: idleAfter,
		buckets:   make(map[string]*tokenBucket),
		now:       time.Now,
		done:      make(chan struct{}),
	}
	go rl.evictIdle(idleAfter / 2)
	return rl
}

func (r *RateLimiter) evictIdle(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.cleanup()
		}
	}
}

func (r *RateLimiter) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.idleAfter)
	for client, b := range r.buckets {
		if b.windowStart.Before(cutoff) {
			delete(r.buckets, client)
		}
	}
}

// Stop ends the eviction loop. It is safe to call more than once.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

// Allow takes a token from the client's bucket.
func (r *RateLimiter) Allow(client string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	b, ok := r.buckets[client]
	if !ok {
		b = &tokenBucket{tokens: r.capacity, windowStart: now}
		r.buckets[client] = b
	}
	b.refill(now, r.capacity, r.window)
	return b.take()
}

// RetryAfter reports how long until the client's bucket refills.
func (r *RateLimiter) RetryAfter(client string) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buckets[client]
	if !ok {
		return 0
	}
	return max(r.window-r.now().Sub(b.windowStart), 0)
}
