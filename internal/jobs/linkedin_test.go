package jobs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/careerbot/internal/model"
)

const searchPage = `<ul>
<li>
  <a class="base-card__full-link" href="/jobs/view/4012345678/?refId=abc">
    <div class="base-search-card__info">
      <h3 class="base-search-card__title">
        Backend Engineer
      </h3>
      <h4 class="base-search-card__subtitle"><span>Acme Corp</span></h4>
      <div class="base-search-card__metadata">
        <span class="job-search-card__location">Berlin, Germany</span>
        <time datetime="2026-10-17">1 hour ago</time>
      </div>
    </div>
  </a>
</li>
<li>
  <a class="base-card__full-link" href="https://www.linkedin.com/jobs/search/?currentJobId=999">
    <div class="base-search-card__info">
      <h3 class="base-search-card__title">Go Developer</h3>
      <h4 class="base-search-card__subtitle">Globex</h4>
      <span class="job-search-card__location">Remote, US</span>
    </div>
  </a>
</li>
<li>
  <div class="base-search-card__info"></div>
</li>
<li>
  <a class="base-card__full-link" href="https://example.com/apply/77">
    <div class="base-search-card__info">
      <h3 class="base-search-card__title">Data Engineer</h3>
      <h4 class="base-search-card__subtitle">Initech</h4>
      <div class="base-search-card__metadata">
        <span>` + "Actively recruiting   with a very long benefits blurb that keeps going and going well past the point where anyone would still be reading it at all" + `</span>
      </div>
    </div>
  </a>
</li>
</ul>`

// roundTripFunc adapts a function into an http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// rewriteClient sends every request to srv regardless of the requested host.
func rewriteClient(srv *httptest.Server) *http.Client {
	return &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			req.URL.Scheme = "http"
			req.URL.Host = srv.Listener.Addr().String()
			return http.DefaultTransport.RoundTrip(req)
		}),
	}
}

func TestLinkedInSearch_ParsesCards(t *testing.T) {
	var gotQuery, gotUA, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(searchPage))
	}))
	defer srv.Close()

	src := NewLinkedInSource(rewriteClient(srv))
	jobs, err := src.Search(context.Background(), "backend engineer", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/jobs-guest/jobs/api/seeMoreJobPostings/search" {
		t.Errorf("path = %q", gotPath)
	}
	for _, want := range []string{"keywords=backend+engineer", "location=Worldwide", "f_TPR=r86400", "start=0"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
	if !strings.HasPrefix(gotUA, "Mozilla/5.0") {
		t.Errorf("User-Agent = %q", gotUA)
	}

	if len(jobs) != 4 {
		t.Fatalf("expected 4 listings, got %d", len(jobs))
	}

	want := []model.JobListing{
		{
			Title:       "Backend Engineer",
			Company:     "Acme Corp",
			Location:    "Berlin, Germany",
			Description: "1 hour ago",
			URL:         "https://www.linkedin.com/jobs/search/?currentJobId=4012345678&keywords=Backend%20Engineer%20Acme%20Corp",
			Source:      "LinkedIn",
		},
		{
			Title:       "Go Developer",
			Company:     "Globex",
			Location:    "Remote, US",
			Description: "Go Developer position at Globex",
			URL:         "https://www.linkedin.com/jobs/search/?currentJobId=999",
			Source:      "LinkedIn",
		},
		{
			Title:       "Job",
			Company:     "Company",
			Location:    "Remote",
			Description: "Job position at Company",
			URL:         "https://www.linkedin.com/jobs/search/?keywords=Job%20Company",
			Source:      "LinkedIn",
		},
	}
	for i, w := range want {
		if jobs[i] != w {
			t.Errorf("listing %d\n got  %+v\n want %+v", i, jobs[i], w)
		}
	}

	last := jobs[3]
	if last.URL != "https://example.com/apply/77" {
		t.Errorf("raw href not kept: %q", last.URL)
	}
	if !strings.HasSuffix(last.Description, "...") || len([]rune(last.Description)) != 123 {
		t.Errorf("description not truncated to 120 chars + ellipsis: %q", last.Description)
	}
	if strings.Contains(last.Description, "  ") {
		t.Errorf("description whitespace not collapsed: %q", last.Description)
	}
}

func TestLinkedInSearch_RespectsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchPage))
	}))
	defer srv.Close()

	jobs, err := NewLinkedInSource(rewriteClient(srv)).Search(context.Background(), "go", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(jobs))
	}
}

func TestLinkedInSearch_NoCards(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>nothing here</body></html>"))
	}))
	defer srv.Close()

	jobs, err := NewLinkedInSource(rewriteClient(srv)).Search(context.Background(), "go", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected no listings, got %d", len(jobs))
	}
}

func TestLinkedInSearch_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewLinkedInSource(rewriteClient(srv)).Search(context.Background(), "go", 5)
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *model.HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusTooManyRequests || httpErr.RetryAfter != 30*time.Second {
		t.Errorf("got status %d retry-after %v", httpErr.StatusCode, httpErr.RetryAfter)
	}
}
