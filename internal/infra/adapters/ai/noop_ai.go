package ai

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"quantum-oracle-bot/internal/domain/ports/adapter"
)

var _ adapter.OracleClient = (*NoopOracle)(nil)

// NoopOracle echoes its input for local/dev runs without provider credentials.
type NoopOracle struct {
	delay time.Duration
	log   *zerolog.Logger
}

func NewNoopOracle(delay time.Duration, logger *zerolog.Logger) *NoopOracle {
	noopLog := logger.With().Str("component", "NoopOracle").Logger()
	return &NoopOracle{delay: delay, log: &noopLog}
}

func (a *NoopOracle) Name() string { return "noop" }

func (a *NoopOracle) Generate(ctx context.Context, input string) (string, error) {
	// Simulate processing time and respect ctx
	if a.delay > 0 {
		select {
		case <-time.After(a.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	a.log.Debug().Int("len", len(input)).Msg("noop oracle echo")
	return input, nil
}
