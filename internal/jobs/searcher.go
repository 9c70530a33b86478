// Package jobs finds job listings on public job boards and formats them for chat.
package jobs

import (
	"context"
	"log/slog"
	"strings"

	"github.com/amishk599/careerbot/internal/model"
)

const (
	// DefaultLimit caps the number of listings per search.
	DefaultLimit = 5
	// DefaultRole is the query used when a resume names no known technology.
	DefaultRole = "Software Engineer"

	defaultQuery = "developer"
)

// Searcher runs searches against a JobSource and substitutes a fallback
// listing whenever the source fails or finds nothing.
type Searcher struct {
	source model.JobSource
	limit  int
	logger *slog.Logger
}

// NewSearcher creates a Searcher. A non-positive limit uses DefaultLimit.
func NewSearcher(source model.JobSource, limit int, logger *slog.Logger) *Searcher {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Searcher{source: source, limit: limit, logger: logger}
}

// Search cleans query and returns at least one listing.
func (s *Searcher) Search(ctx context.Context, query string) []model.JobListing {
	q := CleanQuery(query)

	listings, err := s.source.Search(ctx, q, s.limit)
	if err != nil {
		s.logger.Warn("job search failed, using fallback link", "query", q, "error", err)
		return []model.JobListing{FallbackListing(q)}
	}
	if len(listings) == 0 {
		s.logger.Info("job search returned no listings, using fallback link", "query", q)
		return []model.JobListing{FallbackListing(q)}
	}
	if len(listings) > s.limit {
		listings = listings[:s.limit]
	}
	return listings
}

// SearchBySkills searches with the query inferred from resume.
func (s *Searcher) SearchBySkills(ctx context.Context, resume, defaultRole string) []model.JobListing {
	return s.Search(ctx, InferQuery(resume, defaultRole))
}

// CleanQuery drops the filler words "jobs" and "for" and collapses whitespace.
// An empty result becomes "developer".
func CleanQuery(query string) string {
	var kept []string
	for _, w := range strings.Fields(query) {
		switch strings.ToLower(w) {
		case "jobs", "for":
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		return defaultQuery
	}
	return strings.Join(kept, " ")
}
