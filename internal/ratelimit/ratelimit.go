package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amishk599/careerbot/internal/model"
)

// Limiter enforces a minimum delay between requests to the same job board.
type Limiter struct {
	mu       sync.Mutex
	lastCall map[string]time.Time // key: board name
	minDelay time.Duration
}

// NewLimiter creates a limiter that enforces minDelay between consecutive
// requests to the same board.
func NewLimiter(minDelay time.Duration) *Limiter {
	return &Limiter{
		lastCall: make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Wait blocks until enough time has passed since the last request to board.
// Returns an error if the context is cancelled while waiting.
func (r *Limiter) Wait(ctx context.Context, board string) error {
	r.mu.Lock()
	last, ok := r.lastCall[board]
	now := time.Now()

	if !ok || now.Sub(last) >= r.minDelay {
		r.lastCall[board] = now
		r.mu.Unlock()
		return nil
	}

	remaining := r.minDelay - now.Sub(last)
	// Reserve the slot so concurrent callers queue behind this one.
	r.lastCall[board] = last.Add(r.minDelay)
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", board, ctx.Err())
	case <-time.After(remaining):
	}
	return nil
}

// RateLimitedSource is a decorator that waits on a shared Limiter before
// delegating to the wrapped JobSource.
type RateLimitedSource struct {
	inner   model.JobSource
	limiter *Limiter
	board   string
}

// NewRateLimitedSource wraps a JobSource with board-level rate limiting.
// All sources targeting the same board should share the same limiter.
func NewRateLimitedSource(inner model.JobSource, limiter *Limiter, board string) *RateLimitedSource {
	return &RateLimitedSource{
		inner:   inner,
		limiter: limiter,
		board:   board,
	}
}

// Search waits for the limiter, then delegates to the wrapped source.
func (s *RateLimitedSource) Search(ctx context.Context, query string, limit int) ([]model.JobListing, error) {
	if err := s.limiter.Wait(ctx, s.board); err != nil {
		return nil, err
	}
	return s.inner.Search(ctx, query, limit)
}
