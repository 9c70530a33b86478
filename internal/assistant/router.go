// Package assistant holds the conversation router and the direct analysis
// operations built on top of the prompt library, the model gateway and the
// job searcher.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amishk599/careerbot/internal/jobs"
	"github.com/amishk599/careerbot/internal/model"
	"github.com/amishk599/careerbot/internal/prompts"
)

const (
	GreetingReply       = "👋 Hello! I'm your Career AI Assistant. How can I help with your career today?"
	StarActivationReply = "📝 I'll help you create a STAR interview answer. Please describe your experience or situation."

	ResumeJobsHeader  = "🔍 **Jobs matching your resume:**\n\n"
	ProfileJobsHeader = "🎯 **Jobs matching your profile:**\n\n"
	JobsHeader        = "💼 **Job Opportunities:**\n\n"

	resumeJobsShown = 3
)

// Gateway sends a prompt to the language model. Failures are returned as
// warning text, never as errors.
type Gateway interface {
	Query(ctx context.Context, prompt string) string
}

// JobSearcher finds listings and never returns an empty slice.
type JobSearcher interface {
	Search(ctx context.Context, query string) []model.JobListing
	SearchBySkills(ctx context.Context, resume, defaultRole string) []model.JobListing
}

// rule is one routing branch. match sees the lowercased, trimmed message;
// handle sees the raw message.
type rule struct {
	name   string
	match  func(text string, s *model.Session) bool
	handle func(ctx context.Context, raw string, s *model.Session) string
}

// Router picks a reply for each chat message from an ordered rule list. The
// first matching rule wins.
type Router struct {
	store   model.SessionStore
	gateway Gateway
	jobs    JobSearcher
	logger  *slog.Logger
	now     func() time.Time
	rules   []rule
}

// NewRouter creates a Router backed by store.
func NewRouter(store model.SessionStore, gateway Gateway, searcher JobSearcher, logger *slog.Logger) *Router {
	r := &Router{
		store:   store,
		gateway: gateway,
		jobs:    searcher,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
	r.rules = []rule{
		{"greeting", isGreeting, r.greet},
		{"star_story", inStarMode, r.starStory},
		{"star_activate", asksForStar, r.activateStar},
		{"resume_context", mentionsResume, r.resumeContext},
		{"job_search", mentionsJobs, r.jobSearch},
		{"improve_resume", asksToImproveResume, r.improveResume},
		{"interview_questions", asksForInterviewQuestions, r.interviewQuestions},
		{"default", always, r.freeform},
	}
	return r
}

// Route loads the session for userID, handles text and saves the session.
// The reply is valid even when the error is not nil; the error reports that
// the session update was lost. A session that failed to load is answered from
// an empty session and never saved, so the stored record stays intact.
func (r *Router) Route(ctx context.Context, userID, text string) (string, error) {
	s, err := r.store.Load(ctx, userID)
	if err != nil {
		r.logger.Warn("session load failed, answering without history", "user", userID, "error", err)
		reply := r.Handle(ctx, text, model.NewSession(r.now()))
		return reply, fmt.Errorf("load session for %s: %w", userID, err)
	}

	reply := r.Handle(ctx, text, s)

	if err := r.store.Save(ctx, userID, s); err != nil {
		return reply, fmt.Errorf("save session for %s: %w", userID, err)
	}
	return reply, nil
}

// Handle records text in s, runs the first matching rule and records the reply.
func (r *Router) Handle(ctx context.Context, text string, s *model.Session) string {
	s.AppendUser(text, r.now())

	ru := r.match(text, s)
	r.logger.Debug("routing message", "route", ru.name)
	reply := ru.handle(ctx, text, s)

	s.AppendReply(text, reply, r.now())
	return reply
}

// RouteName reports which rule would handle text for s without running it.
func (r *Router) RouteName(text string, s *model.Session) string {
	return r.match(text, s).name
}

func (r *Router) match(text string, s *model.Session) rule {
	normalized := normalize(text)
	for _, ru := range r.rules {
		if ru.match(normalized, s) {
			return ru
		}
	}
	// The last rule always matches.
	return r.rules[len(r.rules)-1]
}

func (r *Router) greet(_ context.Context, _ string, _ *model.Session) string {
	return GreetingReply
}

func (r *Router) starStory(ctx context.Context, raw string, s *model.Session) string {
	s.StarMode = false
	return r.gateway.Query(ctx, prompts.StarStory(raw))
}

func (r *Router) activateStar(_ context.Context, _ string, s *model.Session) string {
	s.StarMode = true
	return StarActivationReply
}

func (r *Router) resumeContext(ctx context.Context, raw string, s *model.Session) string {
	if !s.HasResume() {
		return prompts.UploadResumeChatNotice
	}

	var (
		prompt string
		ok     bool
	)
	text := normalize(raw)
	switch {
	case containsAny(text, "job", "jobs", "position", "role"):
		listings := r.jobs.SearchBySkills(ctx, s.ResumeText, jobs.DefaultRole)
		if len(listings) > resumeJobsShown {
			listings = listings[:resumeJobsShown]
		}
		return ResumeJobsHeader + strings.Join(jobs.FormatAll(listings), "\n\n")
	case containsAny(text, "improve", "feedback", "better"):
		prompt, ok = prompts.RoleImprovement(s.ResumeText, jobs.DefaultRole)
	case containsAll(text, "interview", "question"):
		prompt, ok = prompts.ResumeInterviewQuestions(s.ResumeText)
	default:
		prompt, ok = prompts.ResumeQuestion(s.ResumeText, raw)
	}
	if !ok {
		return prompts.UploadResumeChatNotice
	}
	return r.gateway.Query(ctx, prompt)
}

func (r *Router) jobSearch(ctx context.Context, raw string, s *model.Session) string {
	if s.HasResume() && containsAny(normalize(raw), "suitable", "for me", "matching", "fit") {
		listings := r.jobs.SearchBySkills(ctx, s.ResumeText, jobs.DefaultRole)
		return ProfileJobsHeader + strings.Join(jobs.FormatAll(listings), "\n\n")
	}
	listings := r.jobs.Search(ctx, raw)
	return JobsHeader + strings.Join(jobs.FormatAll(listings), "\n\n")
}

func (r *Router) improveResume(ctx context.Context, _ string, s *model.Session) string {
	prompt, ok := prompts.RoleImprovement(s.ResumeText, prompts.DefaultRole)
	if !ok {
		return prompts.UploadResumeNotice
	}
	return r.gateway.Query(ctx, prompt)
}

func (r *Router) interviewQuestions(ctx context.Context, raw string, _ *model.Session) string {
	return r.gateway.Query(ctx, prompts.InterviewQuestions(raw))
}

func (r *Router) freeform(ctx context.Context, raw string, _ *model.Session) string {
	return r.gateway.Query(ctx, raw)
}
