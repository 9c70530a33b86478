package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	MaxHistoryEntries      = 50   // oldest entries are evicted first
	MaxConversationPairs   = 20   // oldest pairs are evicted first
	MaxResumeChars         = 3000 // resume text cap applied at ingestion
	historyReplyChars      = 500  // assistant text kept per history entry
	conversationReplyChars = 1000 // assistant text kept per conversation pair
	resumeContextChars     = 1500
)

// Role identifies who authored a history entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// HistoryEntry is one message in a user's chat history.
type HistoryEntry struct {
	Time time.Time `json:"time"`
	Role Role      `json:"role"`
	Text string    `json:"text"`
}

// ConversationPair is a user message with the reply it produced.
type ConversationPair struct {
	User      string    `json:"user"`
	Assistant string    `json:"assistant"`
	Timestamp time.Time `json:"timestamp"`
}

// InterviewProgress tracks a mock interview. It is persisted for compatibility
// but no routing rule reads it.
type InterviewProgress struct {
	Index     int        `json:"index"`
	Answers   []string   `json:"answers"`
	StartedAt *time.Time `json:"started_at"`
}

// Session is the persisted per-user record.
type Session struct {
	ResumeText        string             `json:"resume_text"`
	ResumeUploaded    bool               `json:"resume_uploaded"`
	ResumeFile        string             `json:"resume_file"`
	StarMode          bool               `json:"star_mode"`
	History           []HistoryEntry     `json:"history"`
	ConversationPairs []ConversationPair `json:"conversation_pairs"`
	Interview         InterviewProgress  `json:"interview"`
	LastResponse      string             `json:"last_response"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// NewSession returns an empty record stamped with now.
func NewSession(now time.Time) *Session {
	return &Session{
		History:           []HistoryEntry{},
		ConversationPairs: []ConversationPair{},
		Interview:         InterviewProgress{Answers: []string{}},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Normalize fills missing fields of a record read from storage and repairs
// the resume invariant.
func (s *Session) Normalize(now time.Time) {
	if s.History == nil {
		s.History = []HistoryEntry{}
	}
	if s.ConversationPairs == nil {
		s.ConversationPairs = []ConversationPair{}
	}
	if s.Interview.Answers == nil {
		s.Interview.Answers = []string{}
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}
	s.ResumeUploaded = s.ResumeText != ""
	if !s.ResumeUploaded {
		s.ResumeFile = ""
	}
}

// HasResume reports whether usable resume text is stored.
func (s *Session) HasResume() bool {
	return s.ResumeUploaded && s.ResumeText != ""
}

// AppendUser records an incoming user message.
func (s *Session) AppendUser(text string, now time.Time) {
	s.History = append(s.History, HistoryEntry{Time: now, Role: RoleUser, Text: text})
	s.trimHistory()
	s.UpdatedAt = now
}

// AppendReply records the assistant reply to user and the pair used as
// conversation context.
func (s *Session) AppendReply(user, reply string, now time.Time) {
	s.History = append(s.History, HistoryEntry{Time: now, Role: RoleAssistant, Text: truncate(reply, historyReplyChars)})
	s.trimHistory()

	s.ConversationPairs = append(s.ConversationPairs, ConversationPair{
		User:      user,
		Assistant: truncate(reply, conversationReplyChars),
		Timestamp: now,
	})
	if n := len(s.ConversationPairs); n > MaxConversationPairs {
		s.ConversationPairs = append([]ConversationPair(nil), s.ConversationPairs[n-MaxConversationPairs:]...)
	}

	s.LastResponse = reply
	s.UpdatedAt = now
}

func (s *Session) trimHistory() {
	if n := len(s.History); n > MaxHistoryEntries {
		s.History = append([]HistoryEntry(nil), s.History[n-MaxHistoryEntries:]...)
	}
}

// SetResume stores extracted resume text. Empty text clears the resume so the
// uploaded flag never disagrees with the text.
func (s *Session) SetResume(text, fileName string, now time.Time) {
	text = truncate(text, MaxResumeChars)
	if strings.TrimSpace(text) == "" {
		s.ClearResume(now)
		return
	}
	s.ResumeText = text
	s.ResumeUploaded = true
	s.ResumeFile = fileName
	s.UpdatedAt = now
}

// ClearResume removes resume data.
func (s *Session) ClearResume(now time.Time) {
	s.ResumeText = ""
	s.ResumeUploaded = false
	s.ResumeFile = ""
	s.UpdatedAt = now
}

// RecordInterviewAnswer appends an answer to the interview progress.
func (s *Session) RecordInterviewAnswer(answer string, now time.Time) {
	s.Interview.Answers = append(s.Interview.Answers, answer)
	s.Interview.Index = len(s.Interview.Answers)
	if s.Interview.StartedAt == nil {
		started := now
		s.Interview.StartedAt = &started
	}
	s.UpdatedAt = now
}

// ResumeContext returns the leading part of the resume, or "" when none is stored.
func (s *Session) ResumeContext() string {
	if !s.HasResume() {
		return ""
	}
	return truncate(s.ResumeText, resumeContextChars)
}

// RecentContext formats the last n conversation pairs as a transcript.
func (s *Session) RecentContext(n int) string {
	pairs := s.ConversationPairs
	if len(pairs) > n {
		pairs = pairs[len(pairs)-n:]
	}
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "User: %s\nAssistant: %s", p.User, truncate(p.Assistant, 200))
	}
	return b.String()
}

// SessionSummary is a compact view of a session for status displays.
type SessionSummary struct {
	HasResume         bool      `json:"has_resume"`
	ResumeLength      int       `json:"resume_length"`
	HistoryCount      int       `json:"history_count"`
	ConversationPairs int       `json:"conversation_pairs"`
	StarMode          bool      `json:"star_mode"`
	InterviewProgress int       `json:"interview_progress"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Summary reports counts and flags for s.
func (s *Session) Summary() SessionSummary {
	return SessionSummary{
		HasResume:         s.ResumeUploaded,
		ResumeLength:      len(s.ResumeText),
		HistoryCount:      len(s.History),
		ConversationPairs: len(s.ConversationPairs),
		StarMode:          s.StarMode,
		InterviewProgress: s.Interview.Index,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
