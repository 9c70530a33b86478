package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"

	"github.com/amishk599/careerbot/internal/model"
)

// DefaultGeminiModel is the model used when config leaves ai.model empty.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiProvider calls Google Gemini through one client and model handle
// created at startup and shared by every request.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider creates the process-wide Gemini handle. An empty apiKey is
// a startup error.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// Complete sends prompt to Gemini and joins the text parts of the first candidate.
func (p *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", classifyGeminiError(err))
	}
	return extractText(resp)
}

// Close releases the underlying client.
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

// grpcStatus maps the gRPC codes worth distinguishing to HTTP statuses.
var grpcStatus = map[codes.Code]int{
	codes.InvalidArgument:   http.StatusBadRequest,
	codes.Unauthenticated:   http.StatusUnauthorized,
	codes.PermissionDenied:  http.StatusForbidden,
	codes.NotFound:          http.StatusNotFound,
	codes.ResourceExhausted: http.StatusTooManyRequests,
	codes.Internal:          http.StatusInternalServerError,
	codes.Unavailable:       http.StatusServiceUnavailable,
	codes.DeadlineExceeded:  http.StatusGatewayTimeout,
}

// classifyGeminiError wraps API errors in a model.HTTPError so the retry
// decorator can tell quota and outage errors from bad keys. Other errors pass
// through unchanged.
func classifyGeminiError(err error) error {
	var apiErr *apierror.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	status := apiErr.HTTPCode()
	if status <= 0 && apiErr.GRPCStatus() != nil {
		status = grpcStatus[apiErr.GRPCStatus().Code()]
	}
	if status <= 0 {
		return err
	}
	return &model.HTTPError{StatusCode: status, Err: err}
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no content")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("gemini returned no text parts")
	}

	return strings.Join(parts, ""), nil
}
