package validation

import (
	"sync"
	"time"
)

// RateLimiter is a per-client token bucket. Each client gets
// maxRequests tokens per window; tokens refill continuously in
// proportion to elapsed time.
type RateLimiter struct {
	maxRequests int
	window      time.Duration
	clients     map[string]*bucket
	mu          sync.Mutex
	cleanupTick *time.Ticker
	done        chan struct{}
}

type bucket struct {
	tokens     int
	lastRefill time.Time
	mu         sync.Mutex
}

// NewRateLimiter creates a rate limiter and starts its cleanup loop.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		clients:     make(map[string]*bucket),
		done:        make(chan struct{}),
	}

	rl.cleanupTick = time.NewTicker(window)
	go rl.cleanup()

	return rl
}

// Allow reports whether the client may send another message now.
func (rl *RateLimiter) Allow(clientID string) bool {
	rl.mu.Lock()
	b, ok := rl.clients[clientID]
	if !ok {
		b = &bucket{tokens: rl.maxRequests, lastRefill: time.Now()}
		rl.clients[clientID] = b
	}
	rl.mu.Unlock()

	return b.consume(rl.maxRequests, rl.window)
}

func (b *bucket) consume(maxTokens int, window time.Duration) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	if elapsed := now.Sub(b.lastRefill); elapsed > 0 && b.tokens < maxTokens {
		refill := int(float64(maxTokens) * (float64(elapsed) / float64(window)))
		if refill > 0 {
			b.tokens += refill
			if b.tokens > maxTokens {
				b.tokens = maxTokens
			}
			b.lastRefill = now
		}
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

func (rl *RateLimiter) cleanup() {
	for {
		select {
		case <-rl.cleanupTick.C:
			rl.dropIdleClients()
		case <-rl.done:
			return
		}
	}
}

// dropIdleClients removes buckets untouched for two full windows.
func (rl *RateLimiter) dropIdleClients() {
	cutoff := time.Now().Add(-2 * rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for clientID, b := range rl.clients {
		b.mu.Lock()
		idle := b.lastRefill.Before(cutoff)
		b.mu.Unlock()
		if idle {
			delete(rl.clients, clientID)
		}
	}
}

// Close stops the cleanup loop.
func (rl *RateLimiter) Close() {
	close(rl.done)
	rl.cleanupTick.Stop()
}
