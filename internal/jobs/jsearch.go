package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/amishk599/careerbot/internal/model"
)

const (
	jsearchHost      = "jsearch.p.rapidapi.com"
	jsearchSearchURL = "https://" + jsearchHost + "/search"

	// JSearchSourceName is the Source of every JSearch listing.
	JSearchSourceName = "JSearch"
	// jsearchMaxResults caps a JSearch page regardless of the configured limit.
	jsearchMaxResults = 3
)

// ErrMissingAPIKey is returned by JSearchSource when no RapidAPI key is configured.
var ErrMissingAPIKey = errors.New("jsearch api key not configured")

type jsearchJob struct {
	Title       string `json:"job_title"`
	Employer    string `json:"employer_name"`
	City        string `json:"job_city"`
	Country     string `json:"job_country"`
	Remote      bool   `json:"job_is_remote"`
	Description string `json:"job_description"`
	ApplyLink   string `json:"job_apply_link"`
}

type jsearchResponse struct {
	Data []jsearchJob `json:"data"`
}

// JSearchSource queries the RapidAPI JSearch keyword API.
type JSearchSource struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewJSearchSource creates a JSearch client authenticated with apiKey.
func NewJSearchSource(apiKey string, client *http.Client) *JSearchSource {
	return &JSearchSource{endpoint: jsearchSearchURL, apiKey: apiKey, client: client}
}

// Search returns the first page of matches, capped at limit and at three.
func (s *JSearchSource) Search(ctx context.Context, query string, limit int) ([]model.JobListing, error) {
	if s.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := url.Values{
		"query":     {query},
		"page":      {"1"},
		"num_pages": {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("jsearch search for %q: %w", query, err)
	}
	req.Header.Set("X-RapidAPI-Key", s.apiKey)
	req.Header.Set("X-RapidAPI-Host", jsearchHost)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jsearch search for %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("jsearch", resp)
	}

	var body jsearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("jsearch decode for %q: %w", query, err)
	}

	if limit <= 0 || limit > jsearchMaxResults {
		limit = jsearchMaxResults
	}
	data := body.Data
	if len(data) > limit {
		data = data[:limit]
	}

	listings := make([]model.JobListing, 0, len(data))
	for _, j := range data {
		description := j.Description
		if description == "" {
			description = j.Title + " at " + j.Employer
		}
		listings = append(listings, model.JobListing{
			Title:       j.Title,
			Company:     j.Employer,
			Location:    jsearchLocation(j),
			Description: normalizeDescription(description),
			URL:         j.ApplyLink,
			Source:      JSearchSourceName,
		})
	}
	return listings, nil
}

func jsearchLocation(j jsearchJob) string {
	var parts []string
	for _, p := range []string{j.City, j.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		if j.Remote {
			return "Remote"
		}
		return "Unknown"
	}
	return strings.Join(parts, ", ")
}
