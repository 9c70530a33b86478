package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/amishk599/careerbot/internal/ai"
	"github.com/amishk599/careerbot/internal/model"
)

// Policy retries transient failures with exponential backoff and jitter.
// MaxRetries is the number of additional attempts after the first failure and
// BaseDelay is the delay before the first retry, doubled on each subsequent one.
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
	Logger     *slog.Logger
}

// RetrySource is a decorator that retries a job board search on transient errors.
type RetrySource struct {
	inner  model.JobSource
	policy Policy
}

// NewRetrySource wraps a JobSource with retry logic.
func NewRetrySource(inner model.JobSource, policy Policy) *RetrySource {
	return &RetrySource{inner: inner, policy: policy}
}

// Search runs the wrapped search, retrying on transient errors.
func (s *RetrySource) Search(ctx context.Context, query string, limit int) ([]model.JobListing, error) {
	return run(ctx, s.policy, func(ctx context.Context) ([]model.JobListing, error) {
		return s.inner.Search(ctx, query, limit)
	})
}

// RetryProvider is a decorator that retries model completions on transient errors.
type RetryProvider struct {
	inner  ai.LLMProvider
	policy Policy
}

// NewRetryProvider wraps an LLMProvider with retry logic.
func NewRetryProvider(inner ai.LLMProvider, policy Policy) *RetryProvider {
	return &RetryProvider{inner: inner, policy: policy}
}

// Complete runs the wrapped completion, retrying on transient errors.
func (p *RetryProvider) Complete(ctx context.Context, prompt string) (string, error) {
	return run(ctx, p.policy, func(ctx context.Context) (string, error) {
		return p.inner.Complete(ctx, prompt)
	})
}

func run[T any](ctx context.Context, p Policy, call func(context.Context) (T, error)) (T, error) {
	var zero T

	out, err := call(ctx)
	if err == nil {
		return out, nil
	}
	if !isRetryable(err) {
		return zero, err
	}

	lastErr := err
	for attempt := 1; attempt <= p.MaxRetries; attempt++ {
		delay := p.backoffDelay(attempt, lastErr)

		if p.Logger != nil {
			p.Logger.Warn("retrying after transient error",
				"attempt", attempt,
				"max_retries", p.MaxRetries,
				"delay", delay,
				"error", lastErr,
			)
		}

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		out, err = call(ctx)
		if err == nil {
			return out, nil
		}
		if !isRetryable(err) {
			return zero, err
		}
		lastErr = err
	}

	return zero, lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// A Retry-After duration on an HTTP 429 takes precedence.
func (p Policy) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// isRetryable returns true if the error represents a transient failure worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context cancellation: never retry.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Transient()
	}

	// Non-HTTP errors (network, DNS) are retryable.
	return true
}
