package ai

import "context"

// LLMProvider sends a fully composed prompt to a model and returns its raw
// text response. Only Gateway talks to providers.
type LLMProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
