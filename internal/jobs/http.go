package jobs

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/amishk599/careerbot/internal/model"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// statusError converts a non-200 response into a model.HTTPError so the retry
// decorator can classify it.
func statusError(board string, resp *http.Response) error {
	return &model.HTTPError{
		StatusCode: resp.StatusCode,
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		Err:        fmt.Errorf("%s search: unexpected status %d", board, resp.StatusCode),
	}
}
