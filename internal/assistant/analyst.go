package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amishk599/careerbot/internal/heatmap"
	"github.com/amishk599/careerbot/internal/ingest"
	"github.com/amishk599/careerbot/internal/jobs"
	"github.com/amishk599/careerbot/internal/model"
	"github.com/amishk599/careerbot/internal/prompts"
)

// DefaultJobQuery is searched when neither a query nor a resume is available.
const DefaultJobQuery = "software engineer"

// ErrUnusableResume is returned when an upload yields no usable text.
var ErrUnusableResume = errors.New("no usable resume text")

// JobResults is the outcome of a direct job search.
type JobResults struct {
	Listings []model.JobListing
	Query    string // empty for resume-based searches
	Source   string // "resume_based" or "query_based"
}

// Analyst runs the resume and job-description analyses that are invoked
// directly rather than through chat. Results are not added to history.
type Analyst struct {
	store   model.SessionStore
	gateway Gateway
	jobs    JobSearcher
	logger  *slog.Logger
	now     func() time.Time
}

// NewAnalyst creates an Analyst backed by store.
func NewAnalyst(store model.SessionStore, gateway Gateway, searcher JobSearcher, logger *slog.Logger) *Analyst {
	return &Analyst{
		store:   store,
		gateway: gateway,
		jobs:    searcher,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// MatchPercentage scores the stored resume against jobDescription.
func (a *Analyst) MatchPercentage(ctx context.Context, userID, jobDescription string) (string, error) {
	return a.withResume(ctx, userID, func(resume string) (string, bool) {
		return prompts.MatchPercentage(resume, jobDescription)
	})
}

// SkillGaps lists the top missing skills for jobDescription.
func (a *Analyst) SkillGaps(ctx context.Context, userID, jobDescription string) (string, error) {
	return a.withResume(ctx, userID, func(resume string) (string, bool) {
		return prompts.SkillGaps(resume, jobDescription)
	})
}

// AlternativeRoles suggests roles the user may not be searching for.
func (a *Analyst) AlternativeRoles(ctx context.Context, userID string) (string, error) {
	return a.withResume(ctx, userID, prompts.ReverseMatch)
}

// ImproveForRole suggests resume changes toward role.
func (a *Analyst) ImproveForRole(ctx context.Context, userID, role string) (string, error) {
	if strings.TrimSpace(role) == "" {
		role = prompts.DefaultRole
	}
	return a.withResume(ctx, userID, func(resume string) (string, bool) {
		return prompts.RoleImprovement(resume, role)
	})
}

// ReviewResume gives general improvement suggestions for the stored resume.
func (a *Analyst) ReviewResume(ctx context.Context, userID string) (string, error) {
	return a.withResume(ctx, userID, prompts.ResumeReview)
}

// Heatmap scores each resume section against jobDescription.
func (a *Analyst) Heatmap(ctx context.Context, userID, jobDescription string) (string, error) {
	s, err := a.store.Load(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load session for %s: %w", userID, err)
	}
	return heatmap.Build(ctx, a.gateway, s.ResumeText, jobDescription), nil
}

// CompanyInterview generates company-specific questions. The resume is used
// when present but not required.
func (a *Analyst) CompanyInterview(ctx context.Context, userID, company, role string) (string, error) {
	s, err := a.store.Load(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load session for %s: %w", userID, err)
	}
	return a.gateway.Query(ctx, prompts.CompanyInterview(company, role, s.ResumeText)), nil
}

// StarStory turns a raw experience into a STAR answer without touching
// session state.
func (a *Analyst) StarStory(ctx context.Context, story string) string {
	return a.gateway.Query(ctx, prompts.StarStory(story))
}

// Jobs searches with query, or with the resume-inferred query when query is
// empty and a resume is stored.
func (a *Analyst) Jobs(ctx context.Context, userID, query string) (JobResults, error) {
	s, err := a.store.Load(ctx, userID)
	if err != nil {
		return JobResults{}, fmt.Errorf("load session for %s: %w", userID, err)
	}

	if strings.TrimSpace(query) == "" && s.HasResume() {
		return JobResults{
			Listings: a.jobs.SearchBySkills(ctx, s.ResumeText, jobs.DefaultRole),
			Source:   "resume_based",
		}, nil
	}

	if strings.TrimSpace(query) == "" {
		query = DefaultJobQuery
	}
	return JobResults{
		Listings: a.jobs.Search(ctx, query),
		Query:    query,
		Source:   "query_based",
	}, nil
}

// UploadResume extracts text from a resume file and stores it for userID.
// It returns the stored text.
func (a *Analyst) UploadResume(ctx context.Context, userID, fileName string, data []byte) (string, error) {
	text := ingest.Extract(fileName, data)
	if !ingest.Usable(text) {
		return "", fmt.Errorf("%w: %s", ErrUnusableResume, text)
	}

	s, err := a.store.Load(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load session for %s: %w", userID, err)
	}
	s.SetResume(text, fileName, a.now())
	if err := a.store.Save(ctx, userID, s); err != nil {
		return "", fmt.Errorf("save session for %s: %w", userID, err)
	}

	a.logger.Info("resume stored", "user", userID, "file", fileName, "chars", len([]rune(s.ResumeText)))
	return s.ResumeText, nil
}

// ClearResume removes the stored resume and keeps the rest of the session.
func (a *Analyst) ClearResume(ctx context.Context, userID string) error {
	s, err := a.store.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("load session for %s: %w", userID, err)
	}
	s.ClearResume(a.now())
	if err := a.store.Save(ctx, userID, s); err != nil {
		return fmt.Errorf("save session for %s: %w", userID, err)
	}
	return nil
}

// ClearMemory resets the session to empty defaults.
func (a *Analyst) ClearMemory(ctx context.Context, userID string) error {
	if err := a.store.Save(ctx, userID, model.NewSession(a.now())); err != nil {
		return fmt.Errorf("clear session for %s: %w", userID, err)
	}
	return nil
}

// Session returns the stored session for userID.
func (a *Analyst) Session(ctx context.Context, userID string) (*model.Session, error) {
	s, err := a.store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load session for %s: %w", userID, err)
	}
	return s, nil
}

// withResume builds a resume-dependent prompt and queries the model, or
// returns the upload notice when no resume is stored.
func (a *Analyst) withResume(ctx context.Context, userID string, build func(resume string) (string, bool)) (string, error) {
	s, err := a.store.Load(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load session for %s: %w", userID, err)
	}
	if !s.HasResume() {
		return prompts.UploadResumeNotice, nil
	}
	prompt, ok := build(s.ResumeText)
	if !ok {
		return prompts.UploadResumeNotice, nil
	}
	return a.gateway.Query(ctx, prompt), nil
}
