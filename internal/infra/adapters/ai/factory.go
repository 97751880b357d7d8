package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"quantum-oracle-bot/internal/config"
	"quantum-oracle-bot/internal/domain"
	"quantum-oracle-bot/internal/domain/ports/adapter"
)

// NewOracle builds the configured provider (or chain of providers), bounded
// and instrumented. In dev mode without credentials the noop echo is used.
// A provider whose credentials are missing fails on every call instead of at
// startup.
func NewOracle(ctx context.Context, cfg config.OracleConfig, dev bool, tokens TokenCounter, logger *zerolog.Logger) (adapter.OracleClient, error) {
	var base adapter.OracleClient
	switch p := strings.ToLower(cfg.Provider); p {
	case "chain":
		names := cfg.Chain
		if len(names) == 0 {
			names = []string{"translate", "gemini", "openai"}
		}
		chain := make([]adapter.OracleClient, 0, len(names))
		for _, n := range names {
			o, err := newProvider(ctx, strings.ToLower(n), cfg, dev, logger)
			if err != nil {
				return nil, err
			}
			chain = append(chain, o)
		}
		base = NewFallbackOracle(logger, chain...)
	default:
		o, err := newProvider(ctx, p, cfg, dev, logger)
		if err != nil {
			return nil, err
		}
		base = o
	}
	return NewInstrumentedOracle(NewLimitedOracle(base, cfg.ConcurrentLimit), tokens, logger), nil
}

func newProvider(ctx context.Context, name string, cfg config.OracleConfig, dev bool, logger *zerolog.Logger) (adapter.OracleClient, error) {
	var (
		o   adapter.OracleClient
		err error
	)
	switch name {
	case "noop":
		return NewNoopOracle(0, logger), nil
	case "translate", "":
		o, err = NewTranslateAdapter(cfg.GoogleKey, cfg.TranslateURL, cfg.SourceLang, cfg.TargetLang)
		name = "translate"
	case "gemini":
		if cfg.GeminiKey == "" {
			err = fmt.Errorf("gemini: empty api key")
			break
		}
		o, err = NewGeminiAdapter(ctx, cfg.GeminiKey, "", cfg.GeminiModel, 0)
	case "openai":
		o, err = NewOpenAIAdapter(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	default:
		return nil, fmt.Errorf("unknown oracle provider %q: %w", name, domain.ErrInvalidArgument)
	}
	if err == nil {
		return o, nil
	}
	if dev {
		logger.Warn().Err(err).Str("provider", name).Msg("provider unavailable; using noop oracle")
		return NewNoopOracle(0, logger), nil
	}
	logger.Warn().Err(err).Str("provider", name).Msg("provider unavailable; calls will fail")
	return unavailableOracle{name: name, err: err}, nil
}

// unavailableOracle reports a configuration problem on every call.
type unavailableOracle struct {
	name string
	err  error
}

func (u unavailableOracle) Name() string { return u.name }

func (u unavailableOracle) Generate(context.Context, string) (string, error) {
	return "", fmt.Errorf("%s: %v: %w", u.name, u.err, domain.ErrProviderFailure)
}
