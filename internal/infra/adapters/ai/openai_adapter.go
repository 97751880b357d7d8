package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"quantum-oracle-bot/internal/domain"
	"quantum-oracle-bot/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.OracleClient = (*OpenAIAdapter)(nil)

// OpenAIAdapter implements adapter.OracleClient using the Chat Completions API.
type OpenAIAdapter struct {
	client openai.Client
	model  string
}

// NewOpenAIAdapter accepts an optional baseURL for OpenAI-compatible gateways.
func NewOpenAIAdapter(apiKey, model, baseURL string) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIAdapter{client: openai.NewClient(opts...), model: model}, nil
}

func (o *OpenAIAdapter) Name() string { return "openai" }

func (o *OpenAIAdapter) Generate(ctx context.Context, input string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(input),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: %v: %w", err, domain.ErrProviderFailure)
	}
	for _, c := range resp.Choices {
		if s := strings.TrimSpace(c.Message.Content); s != "" {
			return s, nil
		}
	}
	return "", fmt.Errorf("openai: no choice content: %w", domain.ErrProviderFailure)
}
