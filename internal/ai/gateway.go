package ai

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// ScopeInstruction is prepended to every prompt. The model, not the router,
// decides whether a request is off topic.
const ScopeInstruction = `You are a Career AI Assistant.

You help ONLY with:
- Jobs and internships
- Resume and CV improvement
- Backend / software / data / AI careers
- Interview questions and preparation
- Career skills and guidance

Rules:
- Allow greetings like hello, hi
- If a question is NOT related to careers or tech:
  respond politely with:
  "I'm focused on career and technical guidance.
   Please ask something related to jobs, resumes, or interviews."
- Be concise and practical`

// WarningPrefix marks replies produced from a failed model call.
const WarningPrefix = "⚠️ LLM error: "

// Gateway is the single entry point to the language model.
type Gateway struct {
	provider LLMProvider
	timeout  time.Duration // zero means no per-query deadline
	logger   *slog.Logger
}

// NewGateway wraps provider with the scope instruction and failure handling.
func NewGateway(provider LLMProvider, logger *slog.Logger) *Gateway {
	return &Gateway{provider: provider, logger: logger}
}

// WithTimeout bounds each Query by d. A non-positive d removes the bound.
func (g *Gateway) WithTimeout(d time.Duration) *Gateway {
	g.timeout = d
	return g
}

// Query sends prompt to the model and returns its reply. Provider failures
// come back as a WarningPrefix string, never as an error.
func (g *Gateway) Query(ctx context.Context, prompt string) string {
	full := ScopeInstruction + "\n\nUser question:\n" + prompt

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	reply, err := g.provider.Complete(ctx, full)
	if err != nil {
		g.logger.Error("llm query failed", "error", err)
		return WarningPrefix + err.Error()
	}
	return strings.TrimSpace(reply)
}

// IsWarning reports whether reply came from a failed model call.
func IsWarning(reply string) bool {
	return strings.HasPrefix(reply, WarningPrefix)
}
