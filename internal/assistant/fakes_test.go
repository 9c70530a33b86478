package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/amishk599/careerbot/internal/model"
	"github.com/amishk599/careerbot/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeGateway returns reply for every prompt and records what it was sent.
type fakeGateway struct {
	reply   string
	prompts []string
}

func (g *fakeGateway) Query(_ context.Context, prompt string) string {
	g.prompts = append(g.prompts, prompt)
	if g.reply != "" {
		return g.reply
	}
	return "canned answer"
}

func (g *fakeGateway) calls() int { return len(g.prompts) }

func (g *fakeGateway) lastPrompt() string {
	if len(g.prompts) == 0 {
		return ""
	}
	return g.prompts[len(g.prompts)-1]
}

// fakeSearcher returns n listings per search and records every call.
type fakeSearcher struct {
	n            int
	queries      []string
	skillResumes []string
}

func (f *fakeSearcher) listings() []model.JobListing {
	out := make([]model.JobListing, f.n)
	for i := range out {
		out[i] = model.JobListing{
			Title:    fmt.Sprintf("Engineer %d", i),
			Company:  "Acme",
			Location: "Remote",
			URL:      fmt.Sprintf("https://www.linkedin.com/jobs/search/?currentJobId=%d", i),
			Source:   "LinkedIn",
		}
	}
	return out
}

func (f *fakeSearcher) Search(_ context.Context, query string) []model.JobListing {
	f.queries = append(f.queries, query)
	return f.listings()
}

func (f *fakeSearcher) SearchBySkills(_ context.Context, resume, _ string) []model.JobListing {
	f.skillResumes = append(f.skillResumes, resume)
	return f.listings()
}

func (f *fakeSearcher) calls() int { return len(f.queries) + len(f.skillResumes) }

// failingStore loads empty sessions and refuses to save.
type failingStore struct{}

func (failingStore) Load(context.Context, string) (*model.Session, error) {
	return nil, errors.New("disk unavailable")
}

func (failingStore) Save(context.Context, string, *model.Session) error {
	return errors.New("disk unavailable")
}

// flakyLoadStore wraps a MemoryStore and fails the next failLoads loads.
type flakyLoadStore struct {
	*store.MemoryStore
	failLoads int
	saves     int
}

func (f *flakyLoadStore) Load(ctx context.Context, userID string) (*model.Session, error) {
	if f.failLoads > 0 {
		f.failLoads--
		return nil, errors.New("database is locked")
	}
	return f.MemoryStore.Load(ctx, userID)
}

func (f *flakyLoadStore) Save(ctx context.Context, userID string, s *model.Session) error {
	f.saves++
	return f.MemoryStore.Save(ctx, userID, s)
}
