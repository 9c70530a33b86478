package model

import (
	"fmt"
	"time"
)

// HTTPError carries the status code of a failed job board or model request so
// the retry decorator can tell transient failures from permanent ones.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// Transient reports whether the status is worth retrying (429 or 5xx).
func (e *HTTPError) Transient() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
