package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"quantum-oracle-bot/internal/domain"
	"quantum-oracle-bot/internal/domain/ports/adapter"
)

// DefaultTranslateURL is the Google Cloud Translation v2 REST endpoint.
const DefaultTranslateURL = "https://translation.googleapis.com/language/translate/v2"

var _ adapter.OracleClient = (*TranslateAdapter)(nil)

// TranslateAdapter turns selected words into a sentence by running them
// through Google Translate.
type TranslateAdapter struct {
	apiKey string
	base   string
	source string
	target string
	client *http.Client
}

func NewTranslateAdapter(apiKey, baseURL, source, target string) (*TranslateAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("translate: empty api key")
	}
	if baseURL == "" {
		baseURL = DefaultTranslateURL
	}
	return &TranslateAdapter{
		apiKey: apiKey,
		base:   baseURL,
		source: source,
		target: target,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (t *TranslateAdapter) Name() string { return "translate" }

func (t *TranslateAdapter) Generate(ctx context.Context, input string) (string, error) {
	b, err := sjson.SetBytes(nil, "q", input)
	if err == nil {
		b, err = sjson.SetBytes(b, "source", t.source)
	}
	if err == nil {
		b, err = sjson.SetBytes(b, "target", t.target)
	}
	if err == nil {
		b, err = sjson.SetBytes(b, "format", "text")
	}
	if err != nil {
		return "", fmt.Errorf("translate: build request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.base+"?key="+url.QueryEscape(t.apiKey), bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate: %v: %w", err, domain.ErrProviderFailure)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("translate: read body: %v: %w", err, domain.ErrProviderFailure)
	}
	if resp.StatusCode >= 300 {
		msg := gjson.GetBytes(body, "error.message").String()
		return "", fmt.Errorf("translate http %d %s: %w", resp.StatusCode, msg, domain.ErrProviderFailure)
	}

	text := gjson.GetBytes(body, "data.translations.0.translatedText")
	if !text.Exists() || text.String() == "" {
		return "", fmt.Errorf("translate: no translation in response: %w", domain.ErrProviderFailure)
	}
	return text.String(), nil
}
