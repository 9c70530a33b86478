package assistant

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/careerbot/internal/model"
	"github.com/amishk599/careerbot/internal/prompts"
	"github.com/amishk599/careerbot/internal/store"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const sampleResume = "Backend developer. Python, Django, PostgreSQL, Docker. Led a team of four."

func newTestRouter(gw *fakeGateway, js *fakeSearcher) *Router {
	r := NewRouter(store.NewMemoryStore(), gw, js, discardLogger())
	r.now = func() time.Time { return t0 }
	return r
}

func sessionWithResume() *model.Session {
	s := model.NewSession(t0)
	s.SetResume(sampleResume, "cv.txt", t0)
	return s
}

func TestHandle_GreetingSkipsGateway(t *testing.T) {
	for _, in := range []string{"hi", "  HELLO ", "Hey", "greetings\n", "Hi\t"} {
		gw := &fakeGateway{}
		r := newTestRouter(gw, &fakeSearcher{n: 5})
		s := model.NewSession(t0)

		if got := r.Handle(context.Background(), in, s); got != GreetingReply {
			t.Errorf("Handle(%q) = %q, want greeting", in, got)
		}
		if gw.calls() != 0 {
			t.Errorf("Handle(%q) called the gateway %d times", in, gw.calls())
		}
		if len(s.History) != 2 {
			t.Errorf("Handle(%q) recorded %d history entries, want 2", in, len(s.History))
		}
	}

	gw := &fakeGateway{}
	newTestRouter(gw, &fakeSearcher{}).Handle(context.Background(), "hi there", model.NewSession(t0))
	if gw.calls() != 1 {
		t.Error("a greeting with extra words should go to the model")
	}
}

func TestHandle_StarModeConsumesNextMessage(t *testing.T) {
	gw := &fakeGateway{}
	js := &fakeSearcher{n: 5}
	r := newTestRouter(gw, js)
	s := model.NewSession(t0)
	s.StarMode = true

	r.Handle(context.Background(), "I applied for a job and got the internship", s)

	if s.StarMode {
		t.Error("StarMode should be cleared after the story is consumed")
	}
	if js.calls() != 0 {
		t.Error("story content must not trigger a job search")
	}
	if gw.calls() != 1 || !strings.Contains(gw.lastPrompt(), "User's raw story:\nI applied for a job and got the internship") {
		t.Errorf("expected one STAR prompt, got %q", gw.prompts)
	}
}

func TestHandle_StarActivation(t *testing.T) {
	for _, in := range []string{"Help with a STAR answer", "behavioral prep", "tell my interview story"} {
		gw := &fakeGateway{}
		r := newTestRouter(gw, &fakeSearcher{})
		s := model.NewSession(t0)

		if got := r.Handle(context.Background(), in, s); got != StarActivationReply {
			t.Errorf("Handle(%q) = %q", in, got)
		}
		if !s.StarMode {
			t.Errorf("Handle(%q) did not set StarMode", in)
		}
		if gw.calls() != 0 {
			t.Errorf("Handle(%q) called the model before the story arrived", in)
		}
	}
}

func TestHandle_ResumeRequiredWithoutResume(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"based on my resume, what jobs fit?", prompts.UploadResumeChatNotice},
		{"what does my resume say about me", prompts.UploadResumeChatNotice},
		{"please improve resume wording", prompts.UploadResumeNotice},
	}
	for _, tt := range tests {
		gw := &fakeGateway{}
		js := &fakeSearcher{n: 5}
		r := newTestRouter(gw, js)

		if got := r.Handle(context.Background(), tt.in, model.NewSession(t0)); got != tt.want {
			t.Errorf("Handle(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if gw.calls() != 0 || js.calls() != 0 {
			t.Errorf("Handle(%q) made %d model and %d search calls", tt.in, gw.calls(), js.calls())
		}
	}
}

func TestHandle_ResumeBranches(t *testing.T) {
	t.Run("jobs", func(t *testing.T) {
		gw := &fakeGateway{}
		js := &fakeSearcher{n: 5}
		got := newTestRouter(gw, js).Handle(context.Background(), "Find jobs based on my resume", sessionWithResume())

		if !strings.HasPrefix(got, ResumeJobsHeader) {
			t.Errorf("reply = %q", got)
		}
		if n := strings.Count(got, "**Apply:**"); n != 3 {
			t.Errorf("showed %d listings, want 3", n)
		}
		if len(js.skillResumes) != 1 || js.skillResumes[0] != sampleResume {
			t.Errorf("skills search not run with resume: %v", js.skillResumes)
		}
	})

	tests := []struct {
		name, in, want string
	}{
		{"improve", "How can my resume be better?", "Target Role:\nSoftware Engineer"},
		{"interview", "Interview questions from my resume", "Generate interview questions based on this resume:\n" + sampleResume},
		{"question", "What does my resume say about leadership?", "Question: What does my resume say about leadership?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{}
			js := &fakeSearcher{n: 5}
			newTestRouter(gw, js).Handle(context.Background(), tt.in, sessionWithResume())

			if gw.calls() != 1 || !strings.Contains(gw.lastPrompt(), tt.want) {
				t.Errorf("prompt %q does not contain %q", gw.lastPrompt(), tt.want)
			}
			if js.calls() != 0 {
				t.Error("unexpected job search")
			}
		})
	}
}

func TestHandle_JobSearch(t *testing.T) {
	t.Run("general without resume", func(t *testing.T) {
		js := &fakeSearcher{n: 5}
		got := newTestRouter(&fakeGateway{}, js).Handle(context.Background(), "find me a job", model.NewSession(t0))

		if !strings.HasPrefix(got, JobsHeader) {
			t.Errorf("reply = %q", got)
		}
		if n := strings.Count(got, "**Apply:**"); n == 0 || n > 5 {
			t.Errorf("listed %d entries, want 1..5", n)
		}
		if len(js.queries) != 1 || js.queries[0] != "find me a job" {
			t.Errorf("queries = %v", js.queries)
		}
	})

	t.Run("personalised with resume", func(t *testing.T) {
		js := &fakeSearcher{n: 2}
		got := newTestRouter(&fakeGateway{}, js).Handle(context.Background(), "Any openings suitable for me?", sessionWithResume())

		if !strings.HasPrefix(got, ProfileJobsHeader) || len(js.skillResumes) != 1 {
			t.Errorf("reply = %q, skills searches = %d", got, len(js.skillResumes))
		}
	})

	t.Run("personalised without resume falls back to general", func(t *testing.T) {
		js := &fakeSearcher{n: 1}
		got := newTestRouter(&fakeGateway{}, js).Handle(context.Background(), "internship that would fit me", model.NewSession(t0))

		if !strings.HasPrefix(got, JobsHeader) || len(js.queries) != 1 {
			t.Errorf("reply = %q, queries = %v", got, js.queries)
		}
	})
}

func TestHandle_RemainingBranches(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		session *model.Session
		want    string
	}{
		{"improve resume", "improve resume please", sessionWithResume(), "Target Role:\nBackend Engineer"},
		{"interview questions", "give me kafka interview questions", model.NewSession(t0), "Generate 5 interview questions for:\ngive me kafka interview questions"},
		{"default", "How do I negotiate salary?", model.NewSession(t0), "How do I negotiate salary?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{}
			newTestRouter(gw, &fakeSearcher{}).Handle(context.Background(), tt.in, tt.session)
			if gw.calls() != 1 || !strings.Contains(gw.lastPrompt(), tt.want) {
				t.Errorf("prompt = %q, want it to contain %q", gw.lastPrompt(), tt.want)
			}
		})
	}
}

func TestRouteName_OrderResolvesOverlap(t *testing.T) {
	r := newTestRouter(&fakeGateway{}, &fakeSearcher{})
	tests := []struct {
		in   string
		want string
	}{
		{"star jobs", "star_activate"},
		{"restart my career", "star_activate"},
		{"my resume jobs", "resume_context"},
		{"improve my resume", "resume_context"},
		{"improve resume", "improve_resume"},
		{"interviewer job", "job_search"},
		{"interview question about jobs", "job_search"},
		{"interview question", "interview_questions"},
		{"what is kubernetes", "default"},
	}
	for _, tt := range tests {
		s := model.NewSession(t0)
		first := r.RouteName(tt.in, s)
		if first != tt.want {
			t.Errorf("RouteName(%q) = %q, want %q", tt.in, first, tt.want)
		}
		if again := r.RouteName(tt.in, s); again != first {
			t.Errorf("RouteName(%q) not deterministic: %q then %q", tt.in, first, again)
		}
	}
}

func TestRoute_PersistsExchange(t *testing.T) {
	gw := &fakeGateway{reply: "⚠️ LLM error: quota exceeded"}
	r := newTestRouter(gw, &fakeSearcher{})

	got, err := r.Route(context.Background(), "alice", "What should I learn next?")
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if got != "⚠️ LLM error: quota exceeded" {
		t.Errorf("warning replies are returned like normal replies, got %q", got)
	}

	s, _ := r.store.Load(context.Background(), "alice")
	if len(s.History) != 2 || len(s.ConversationPairs) != 1 || s.LastResponse != got {
		t.Errorf("session not updated: history=%d pairs=%d last=%q", len(s.History), len(s.ConversationPairs), s.LastResponse)
	}
	if s.History[0].Role != model.RoleUser || s.History[1].Role != model.RoleAssistant {
		t.Errorf("history roles = %s, %s", s.History[0].Role, s.History[1].Role)
	}
}

func TestRoute_StarScenario(t *testing.T) {
	gw := &fakeGateway{reply: "Situation: ...\nTask: ...\nAction: ...\nResult: ..."}
	r := newTestRouter(gw, &fakeSearcher{})
	ctx := context.Background()

	first, err := r.Route(ctx, "bob", "I want to practice a behavioral question")
	if err != nil || first != StarActivationReply {
		t.Fatalf("first reply = %q, %v", first, err)
	}
	if s, _ := r.store.Load(ctx, "bob"); !s.StarMode {
		t.Fatal("StarMode not persisted between requests")
	}

	second, err := r.Route(ctx, "bob", "I led a team that shipped X")
	if err != nil {
		t.Fatalf("second Route: %v", err)
	}
	for _, part := range []string{"Situation", "Task", "Action", "Result"} {
		if !strings.Contains(second, part) {
			t.Errorf("STAR reply missing %q: %q", part, second)
		}
	}
	if s, _ := r.store.Load(ctx, "bob"); s.StarMode {
		t.Error("StarMode should be false after the story")
	}
	if gw.calls() != 1 {
		t.Errorf("gateway called %d times, want 1", gw.calls())
	}
}

func TestRoute_JobScenarioWithoutResume(t *testing.T) {
	js := &fakeSearcher{n: 5}
	r := newTestRouter(&fakeGateway{}, js)

	got, err := r.Route(context.Background(), "carol", "find me a job")
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if !strings.HasPrefix(got, JobsHeader) {
		t.Errorf("reply = %q", got)
	}
	if len(js.queries) != 1 {
		t.Errorf("expected one general search, got %v", js.queries)
	}
}

func TestRoute_StoreFailureStillReplies(t *testing.T) {
	r := NewRouter(failingStore{}, &fakeGateway{}, &fakeSearcher{}, discardLogger())

	got, err := r.Route(context.Background(), "dave", "hello")
	if got != GreetingReply {
		t.Errorf("reply = %q", got)
	}
	if err == nil {
		t.Error("expected the store failure to be reported")
	}
}

func TestRoute_LoadFailureKeepsStoredSession(t *testing.T) {
	ctx := context.Background()
	st := &flakyLoadStore{MemoryStore: store.NewMemoryStore()}
	if err := st.MemoryStore.Save(ctx, "erin", sessionWithResume()); err != nil {
		t.Fatal(err)
	}
	st.failLoads = 1
	r := NewRouter(st, &fakeGateway{}, &fakeSearcher{}, discardLogger())
	r.now = func() time.Time { return t0 }

	got, err := r.Route(ctx, "erin", "hello")
	if got != GreetingReply {
		t.Errorf("reply = %q", got)
	}
	if err == nil || !strings.Contains(err.Error(), "database is locked") {
		t.Errorf("expected the load failure to be reported, got %v", err)
	}
	if st.saves != 0 {
		t.Errorf("session saved %d times after a failed load", st.saves)
	}

	s, err := st.Load(ctx, "erin")
	if err != nil {
		t.Fatal(err)
	}
	if !s.ResumeUploaded || s.ResumeText != sampleResume {
		t.Error("stored resume was lost after a failed load")
	}
	if len(s.History) != 0 {
		t.Errorf("stored history changed: %d entries", len(s.History))
	}
}
