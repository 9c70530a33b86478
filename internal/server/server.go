// Package server exposes the assistant over a JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/amishk599/careerbot/internal/assistant"
	"github.com/amishk599/careerbot/internal/jobs"
	"github.com/amishk599/careerbot/internal/prompts"
)

const (
	userHeader = "X-User-ID"

	serviceName   = "Career AI Agent API"
	apiVersion    = "1.0"
	maxUploadSize = 10 << 20
)

// Server holds the HTTP handlers. The user is taken from the X-User-ID header
// and defaults to the configured user.
type Server struct {
	router      *assistant.Router
	analyst     *assistant.Analyst
	defaultUser string
	origins     []string
	logger      *slog.Logger
	now         func() time.Time
}

// New creates a Server.
func New(router *assistant.Router, analyst *assistant.Analyst, defaultUser string, allowedOrigins []string, logger *slog.Logger) *Server {
	return &Server{
		router:      router,
		analyst:     analyst,
		defaultUser: defaultUser,
		origins:     allowedOrigins,
		logger:      logger,
		now:         time.Now,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(CORS(s.origins))

	r.Get("/", s.handleRoot)
	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Post("/upload-resume", s.handleUploadResume)
		r.Post("/analyze-match", s.handleAnalyzeMatch)
		r.Post("/skill-gaps", s.handleSkillGaps)
		r.Get("/alternative-roles", s.handleAlternativeRoles)
		r.Post("/interview-questions", s.handleInterviewQuestions)
		r.Post("/heatmap", s.handleHeatmap)
		r.Get("/jobs", s.handleJobs)
		r.Get("/memory", s.handleMemory)
		r.Post("/clear-memory", s.handleClearMemory)
		r.Post("/clear-resume", s.handleClearResume)
		r.Get("/health", s.handleHealth)
	})
	return r
}

func (s *Server) user(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(userHeader)); id != "" {
		return id
	}
	return s.defaultUser
}

func (s *Server) timestamp() string {
	return s.now().Format(time.RFC3339)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": serviceName,
		"status":  "running",
		"version": apiVersion,
		"endpoints": map[string]string{
			"chat":                "/api/chat",
			"upload_resume":       "/api/upload-resume",
			"analyze_match":       "/api/analyze-match",
			"skill_gaps":          "/api/skill-gaps",
			"alternative_roles":   "/api/alternative-roles",
			"interview_questions": "/api/interview-questions",
			"heatmap":             "/api/heatmap",
			"memory":              "/api/memory",
			"jobs":                "/api/jobs",
		},
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	input := r.FormValue("user_input")
	if strings.TrimSpace(input) == "" {
		writeError(w, http.StatusBadRequest, "user_input is required")
		return
	}

	user := s.user(r)
	reply, err := s.router.Route(r.Context(), user, input)
	if err != nil {
		// The reply is still valid; only the session update was lost.
		s.logger.Error("chat session not updated", "user", user, "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"response":  reply,
		"timestamp": s.timestamp(),
	})
}

func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read upload: "+err.Error())
		return
	}

	user := s.user(r)
	text, err := s.analyst.UploadResume(r.Context(), user, header.Filename, data)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, assistant.ErrUnusableResume) {
			status = http.StatusBadRequest
		}
		s.logger.Warn("resume upload failed", "user", user, "file", header.Filename, "error", err)
		writeJSON(w, status, map[string]any{
			"success": false,
			"error":   err.Error(),
			"message": "Failed to upload resume: " + err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    "✅ Resume '" + header.Filename + "' uploaded successfully!",
		"details":    "Extracted " + strconv.Itoa(len([]rune(text))) + " characters",
		"filename":   header.Filename,
		"has_resume": true,
	})
}

func (s *Server) handleAnalyzeMatch(w http.ResponseWriter, r *http.Request) {
	jd, ok := jobDescription(w, r)
	if !ok {
		return
	}
	result, err := s.analyst.MatchPercentage(r.Context(), s.user(r), jd)
	s.writeResult(w, "match_analysis", result, err)
}

func (s *Server) handleSkillGaps(w http.ResponseWriter, r *http.Request) {
	jd, ok := jobDescription(w, r)
	if !ok {
		return
	}
	result, err := s.analyst.SkillGaps(r.Context(), s.user(r), jd)
	s.writeResult(w, "skill_gaps", result, err)
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	jd, ok := jobDescription(w, r)
	if !ok {
		return
	}
	result, err := s.analyst.Heatmap(r.Context(), s.user(r), jd)
	s.writeResult(w, "resume_heatmap", result, err)
}

func (s *Server) handleAlternativeRoles(w http.ResponseWriter, r *http.Request) {
	user := s.user(r)
	sess, err := s.analyst.Session(r.Context(), user)
	if err != nil {
		s.writeResult(w, "alternative_roles", "", err)
		return
	}
	if !sess.HasResume() {
		writeError(w, http.StatusBadRequest, "Upload resume first")
		return
	}
	result, err := s.analyst.AlternativeRoles(r.Context(), user)
	s.writeResult(w, "alternative_roles", result, err)
}

func (s *Server) handleInterviewQuestions(w http.ResponseWriter, r *http.Request) {
	company := r.FormValue("company")
	if strings.TrimSpace(company) == "" {
		writeError(w, http.StatusBadRequest, "Company information is required")
		return
	}
	role := r.FormValue("role")
	if strings.TrimSpace(role) == "" {
		role = prompts.DefaultRole
	}

	result, err := s.analyst.CompanyInterview(r.Context(), s.user(r), company, role)
	if err != nil {
		s.writeResult(w, "interview_questions", "", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"result":    result,
		"type":      "interview_questions",
		"company":   company,
		"role":      role,
		"timestamp": s.timestamp(),
	})
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	res, err := s.analyst.Jobs(r.Context(), s.user(r), r.URL.Query().Get("query"))
	if err != nil {
		s.logger.Error("job search failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
			"jobs":    []string{},
		})
		return
	}

	body := map[string]any{
		"success": true,
		"jobs":    jobs.FormatAll(res.Listings),
		"source":  res.Source,
		"count":   len(res.Listings),
	}
	if res.Query != "" {
		body["query"] = res.Query
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleMemory(w http.ResponseWriter, r *http.Request) {
	sess, err := s.analyst.Session(r.Context(), s.user(r))
	if err != nil {
		s.logger.Error("memory lookup failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
			"memory":  map[string]any{},
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"memory":    sess,
		"summary":   sess.Summary(),
		"timestamp": s.timestamp(),
	})
}

func (s *Server) handleClearMemory(w http.ResponseWriter, r *http.Request) {
	if err := s.analyst.ClearMemory(r.Context(), s.user(r)); err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Memory cleared successfully",
		"timestamp": s.timestamp(),
	})
}

func (s *Server) handleClearResume(w http.ResponseWriter, r *http.Request) {
	if err := s.analyst.ClearResume(r.Context(), s.user(r)); err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Resume cleared from memory",
		"timestamp": s.timestamp(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": s.timestamp(),
		"service":   serviceName,
	})
}

// writeResult writes the envelope shared by the analysis endpoints.
func (s *Server) writeResult(w http.ResponseWriter, kind, result string, err error) {
	if err != nil {
		s.logger.Error("analysis failed", "type", kind, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
			"result":  "Error: " + err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"result":    result,
		"type":      kind,
		"timestamp": s.timestamp(),
	})
}

func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"success": false,
		"error":   err.Error(),
	})
}

// jobDescription reads the job_description form field, writing a 400 when it is blank.
func jobDescription(w http.ResponseWriter, r *http.Request) (string, bool) {
	jd := r.FormValue("job_description")
	if strings.TrimSpace(jd) == "" {
		writeError(w, http.StatusBadRequest, "Job description is required")
		return "", false
	}
	return jd, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}
