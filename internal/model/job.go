package model

import "context"

// JobListing is a normalized job result from any job source. Listings are
// formatted for display right away and never persisted.
type JobListing struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"` // at most 120 chars, whitespace collapsed
	URL         string `json:"url"`
	Source      string `json:"source"`
}

// JobSource queries one job board for listings matching query.
type JobSource interface {
	Search(ctx context.Context, query string, limit int) ([]JobListing, error)
}

// SessionStore persists one Session per user identifier. Load on an unknown
// user, or on unreadable storage, returns a fresh empty session.
type SessionStore interface {
	Load(ctx context.Context, userID string) (*Session, error)
	Save(ctx context.Context, userID string, s *Session) error
}

// Verdict buckets a heatmap score.
type Verdict string

const (
	VerdictStrong  Verdict = "Strong"
	VerdictPartial Verdict = "Partial"
	VerdictWeak    Verdict = "Weak"
)

// HeatmapSection is one scored resume section parsed from the model's table.
type HeatmapSection struct {
	Section     string  `json:"section"`
	Score       int     `json:"score"` // clamped to [0, 100]
	Explanation string  `json:"explanation"`
	Verdict     Verdict `json:"verdict"`
}
