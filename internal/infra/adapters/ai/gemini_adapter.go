package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"quantum-oracle-bot/internal/domain"
	"quantum-oracle-bot/internal/domain/ports/adapter"
)

var _ adapter.OracleClient = (*GeminiAdapter)(nil)

type GeminiAdapter struct {
	client *genai.Client
	model  string
	maxOut int
}

// NewGeminiAdapter creates a Gemini adapter using the official SDK.
// An empty baseURL keeps the SDK default.
func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, model string, maxOut int) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiAdapter{client: c, model: model, maxOut: maxOut}, nil
}

func (g *GeminiAdapter) Name() string { return "gemini" }

func (g *GeminiAdapter) Generate(ctx context.Context, input string) (string, error) {
	var cfg *genai.GenerateContentConfig
	if g.maxOut > 0 {
		cfg = &genai.GenerateContentConfig{MaxOutputTokens: int32(g.maxOut)}
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(input), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini: %v: %w", err, domain.ErrProviderFailure)
	}
	text := ""
	if resp != nil {
		text = strings.TrimSpace(resp.Text())
	}
	if text == "" {
		return "", fmt.Errorf("gemini: empty candidate: %w", domain.ErrProviderFailure)
	}
	return text, nil
}
