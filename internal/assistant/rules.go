package assistant

import (
	"strings"

	"github.com/amishk599/careerbot/internal/model"
)

// Predicates take the lowercased, trimmed message. Keyword checks are plain
// substring matches, so "interview" also matches "interviewer".

var greetings = []string{"hi", "hello", "hey", "greetings"}

func isGreeting(text string, _ *model.Session) bool {
	for _, g := range greetings {
		if text == g {
			return true
		}
	}
	return false
}

func inStarMode(_ string, s *model.Session) bool {
	return s.StarMode
}

func asksForStar(text string, _ *model.Session) bool {
	return containsAny(text, "star", "behavioral", "interview story")
}

func mentionsResume(text string, _ *model.Session) bool {
	return containsAny(text, "based on my resume", "from my resume", "my resume", "according to my resume")
}

func mentionsJobs(text string, _ *model.Session) bool {
	return containsAny(text, "job", "jobs", "internship", "intern", "position", "opening", "vacancy")
}

func asksToImproveResume(text string, _ *model.Session) bool {
	return containsAll(text, "improve", "resume")
}

func asksForInterviewQuestions(text string, _ *model.Session) bool {
	return containsAll(text, "interview", "question")
}

func always(string, *model.Session) bool { return true }

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func containsAll(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if !strings.Contains(text, kw) {
			return false
		}
	}
	return true
}
