package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"
)

const defaultModel = "gemini-3-pro"

// completionTimeout bounds a single completion call when the caller carries
// no deadline of its own.
const completionTimeout = 45 * time.Second

// ErrNotConfigured reports a missing provider credential. Callers surface it
// as config_error; the variable name is safe to show, its value is not.
var ErrNotConfigured = errors.New("GEMINI_API_KEY not set")

type CompletionRequest struct {
	SystemPrompt    string
	UserPrompt      string
	ResponseSchema  any
	Temperature     float32
	MaxOutputTokens int32
}

type Usage struct {
	PromptTokens     int32 `json:"prompt_tokens"`
	CandidateTokens  int32 `json:"candidate_tokens"`
	TotalTokens      int32 `json:"total_tokens"`
	CachedTokenCount int32 `json:"cached_token_count"`
}

type CompletionResponse struct {
	Text  string
	Usage *Usage
	Model string
}

// Completer is the gateway contract: prompts in, raw text out. The live
// implementation is Client; tests substitute fakes.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}

// Client is the Gemini-backed Completer.
type Client struct{}

func (Client) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	return Complete(ctx, req)
}

func modelName() string {
	if m := strings.TrimSpace(os.Getenv("GEMINI_MODEL")); m != "" {
		return m
	}
	return defaultModel
}

// ModelName returns the resolved Gemini model name.
func ModelName() string {
	return modelName()
}

func newClient(ctx context.Context) (*genai.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNotConfigured
	}
	return genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
}

func buildConfig(req CompletionRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		},
		Temperature:     &req.Temperature,
		MaxOutputTokens: req.MaxOutputTokens,
	}
	if req.ResponseSchema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseJsonSchema = req.ResponseSchema
	}
	return cfg
}

func buildContents(req CompletionRequest) []*genai.Content {
	return []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: req.UserPrompt}},
	}}
}

func extractUsage(meta *genai.GenerateContentResponseUsageMetadata) *Usage {
	if meta == nil {
		return nil
	}
	return &Usage{
		PromptTokens:     meta.PromptTokenCount,
		CandidateTokens:  meta.CandidatesTokenCount,
		TotalTokens:      meta.TotalTokenCount,
		CachedTokenCount: meta.CachedContentTokenCount,
	}
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, completionTimeout)
}

// Complete runs a completion prompt and returns the raw text response.
// No retries here; retry policy belongs to the caller. Error messages must
// never carry the user prompt.
func Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	client, err := newClient(ctx)
	if err != nil {
		return CompletionResponse{}, err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	model := modelName()
	result, err := client.Models.GenerateContent(ctx, model, buildContents(req), buildConfig(req))
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("generate content: %w", err)
	}
	return CompletionResponse{
		Text:  result.Text(),
		Usage: extractUsage(result.UsageMetadata),
		Model: model,
	}, nil
}

// CompleteStream runs a streaming completion. onChunk is called with text deltas.
func CompleteStream(ctx context.Context, req CompletionRequest, onChunk func(string)) (CompletionResponse, error) {
	client, err := newClient(ctx)
	if err != nil {
		return CompletionResponse{}, err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	model := modelName()
	var sb strings.Builder
	var usage *Usage
	for result, err := range client.Models.GenerateContentStream(ctx, model, buildContents(req), buildConfig(req)) {
		if err != nil {
			return CompletionResponse{}, fmt.Errorf("generate content stream: %w", err)
		}
		if usage == nil {
			usage = extractUsage(result.UsageMetadata)
		}
		chunk := result.Text()
		if chunk == "" {
			continue
		}
		sb.WriteString(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}
	return CompletionResponse{
		Text:  sb.String(),
		Usage: usage,
		Model: model,
	}, nil
}
