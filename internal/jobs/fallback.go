package jobs

import (
	"net/url"
	"strings"

	"github.com/amishk599/careerbot/internal/model"
)

const (
	linkedInBaseURL   = "https://www.linkedin.com"
	linkedInSearchURL = linkedInBaseURL + "/jobs/search/"

	// FallbackSource marks the synthetic listing returned when a search fails.
	FallbackSource = "LinkedIn Search"
)

// SearchURL returns the public LinkedIn search page for query. Spaces are
// encoded as %20.
func SearchURL(query string) string {
	return linkedInSearchURL + "?keywords=" + strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
}

// FallbackListing is the single listing returned when no live results are
// available. It depends only on query.
func FallbackListing(query string) model.JobListing {
	return model.JobListing{
		Title:       "Search " + query + " jobs on LinkedIn",
		Company:     "LinkedIn",
		Location:    "Worldwide",
		Description: "Click to search real jobs on LinkedIn",
		URL:         SearchURL(query),
		Source:      FallbackSource,
	}
}
