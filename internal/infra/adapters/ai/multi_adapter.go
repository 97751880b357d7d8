package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"quantum-oracle-bot/internal/domain"
	"quantum-oracle-bot/internal/domain/ports/adapter"
)

var _ adapter.OracleClient = (*FallbackOracle)(nil)

// FallbackOracle asks each provider in order and returns the first answer.
// A provider that fails is not retried within the same call.
type FallbackOracle struct {
	providers []adapter.OracleClient
	log       *zerolog.Logger
}

func NewFallbackOracle(logger *zerolog.Logger, providers ...adapter.OracleClient) *FallbackOracle {
	kept := make([]adapter.OracleClient, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			kept = append(kept, p)
		}
	}
	fbLog := logger.With().Str("component", "FallbackOracle").Logger()
	return &FallbackOracle{providers: kept, log: &fbLog}
}

func (m *FallbackOracle) Name() string {
	names := make([]string, 0, len(m.providers))
	for _, p := range m.providers {
		names = append(names, p.Name())
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

func (m *FallbackOracle) Generate(ctx context.Context, input string) (string, error) {
	if len(m.providers) == 0 {
		return "", fmt.Errorf("no oracle providers configured: %w", domain.ErrProviderFailure)
	}
	var errs []error
	for _, p := range m.providers {
		out, err := p.Generate(ctx, input)
		if err == nil {
			return out, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		if ctx.Err() != nil {
			break
		}
		m.log.Warn().Err(err).Str("provider", p.Name()).Msg("provider failed; trying next")
	}
	return "", fmt.Errorf("all providers failed: %w: %w", errors.Join(errs...), domain.ErrProviderFailure)
}
