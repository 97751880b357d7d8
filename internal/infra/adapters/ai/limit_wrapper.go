package ai

import (
	"context"

	"quantum-oracle-bot/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.OracleClient = (*limitedOracle)(nil)

type limitedOracle struct {
	inner adapter.OracleClient
	sem   chan struct{}
}

// NewLimitedOracle bounds concurrent calls to inner; maxConcurrent <= 0 disables the bound.
func NewLimitedOracle(inner adapter.OracleClient, maxConcurrent int) adapter.OracleClient {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedOracle{
		inner: inner,
		sem:   make(chan struct{}, maxConcurrent),
	}
}

func (l *limitedOracle) Name() string { return l.inner.Name() }

func (l *limitedOracle) Generate(ctx context.Context, input string) (string, error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-l.sem }()
	return l.inner.Generate(ctx, input)
}
