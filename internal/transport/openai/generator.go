package openai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docrelay/internal/domain"
	"github.com/kailas-cloud/docrelay/internal/metrics"
)

// Generator executes generation sub-requests relay-side via an
// OpenAI-compatible chat completions API. Used when the vector store
// has no generative module of its own.
type Generator struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// Config holds the generation provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewGenerator creates an OpenAI-compatible generation provider.
func NewGenerator(cfg *Config) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: logger,
	}
}

// Generate renders the prompt and runs a single chat completion.
// Failures wrap domain.ErrUnavailable — the relay returns no partial
// results when a generation sub-request fails.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(g.model, "error").Inc()
		return "", parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.GenerationRequestsTotal.WithLabelValues(g.model, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrUnavailable)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(g.model, "success").Inc()
	return resp.Choices[0].Message.Content, nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors wrap domain.ErrUnavailable for 503 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrUnavailable

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("generation API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("generation API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("generation request failed: %w", wrap)
}
