package jobs

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/careerbot/internal/model"
)

const linkedInGuestSearchURL = linkedInBaseURL + "/jobs-guest/jobs/api/seeMoreJobPostings/search"

var jobViewPattern = regexp.MustCompile(`/jobs/view/(\d+)`)

// LinkedInSource scrapes the public LinkedIn guest job search. Results are
// best effort: the markup is not a stable API.
type LinkedInSource struct {
	endpoint string
	client   *http.Client
}

// NewLinkedInSource creates a scraper. The client should carry the request
// timeout.
func NewLinkedInSource(client *http.Client) *LinkedInSource {
	return &LinkedInSource{endpoint: linkedInGuestSearchURL, client: client}
}

// Search fetches postings from the last 24 hours matching query and parses at
// most limit cards. Zero parsed cards is not an error.
func (s *LinkedInSource) Search(ctx context.Context, query string, limit int) ([]model.JobListing, error) {
	params := url.Values{
		"keywords": {query},
		"location": {"Worldwide"},
		"f_TPR":    {"r86400"},
		"start":    {"0"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("linkedin search for %q: %w", query, err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("linkedin search for %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("linkedin", resp)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("linkedin parse for %q: %w", query, err)
	}

	var listings []model.JobListing
	doc.Find("div.base-search-card__info").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if limit > 0 && len(listings) >= limit {
			return false
		}
		listings = append(listings, parseCard(card))
		return true
	})
	return listings, nil
}

// parseCard extracts one listing from a search card, substituting placeholders
// for missing fields.
func parseCard(card *goquery.Selection) model.JobListing {
	title := textOr(card.Find("h3.base-search-card__title").First(), "Job")
	company := textOr(card.Find("h4.base-search-card__subtitle").First(), "Company")
	location := textOr(card.Find("span.job-search-card__location").First(), "Remote")

	var description string
	if meta := card.Find("div.base-search-card__metadata").First(); meta.Length() > 0 {
		text := spacedText(meta.Nodes)
		if location != "" {
			text = strings.ReplaceAll(text, location, "")
		}
		description = strings.TrimSpace(text)
		if description == "" {
			description = title + " at " + company
		}
	} else {
		description = title + " position at " + company
	}

	return model.JobListing{
		Title:       title,
		Company:     company,
		Location:    location,
		Description: normalizeDescription(description),
		URL:         cardURL(card, title, company),
		Source:      "LinkedIn",
	}
}

// cardURL resolves the apply link: a link already carrying currentJobId, then
// a search URL rebuilt from the numeric job id, then the raw href, then a
// keyword search for title and company.
func cardURL(card *goquery.Selection, title, company string) string {
	href, ok := card.Closest("a.base-card__full-link").Attr("href")
	if !ok {
		return linkedInSearchURL + "?keywords=" + strings.ReplaceAll(title+" "+company, " ", "%20")
	}

	if strings.HasPrefix(href, "/") {
		href = linkedInBaseURL + href
	}
	if strings.Contains(href, "currentJobId=") {
		return href
	}
	if m := jobViewPattern.FindStringSubmatch(href); m != nil {
		return fmt.Sprintf("%s?currentJobId=%s&keywords=%s%%20%s", linkedInSearchURL, m[1],
			strings.ReplaceAll(title, " ", "%20"), strings.ReplaceAll(company, " ", "%20"))
	}
	return href
}

func textOr(sel *goquery.Selection, fallback string) string {
	if sel.Length() == 0 {
		return fallback
	}
	return strings.TrimSpace(sel.Text())
}
