package ai

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog"

	"quantum-oracle-bot/internal/domain/ports/adapter"
	"quantum-oracle-bot/internal/infra/metrics"
)

var _ adapter.OracleClient = (*InstrumentedOracle)(nil)

// TokenCounter estimates how many tokens a prompt costs.
type TokenCounter interface {
	Count(text string) int
}

// InstrumentedOracle records latency, outcome and prompt size of every call.
type InstrumentedOracle struct {
	inner  adapter.OracleClient
	tokens TokenCounter
	log    *zerolog.Logger
}

// NewInstrumentedOracle wraps inner; a nil counter skips the token estimate.
func NewInstrumentedOracle(inner adapter.OracleClient, tokens TokenCounter, logger *zerolog.Logger) *InstrumentedOracle {
	insLog := logger.With().Str("component", "Oracle").Str("provider", inner.Name()).Logger()
	return &InstrumentedOracle{inner: inner, tokens: tokens, log: &insLog}
}

func (o *InstrumentedOracle) Name() string { return o.inner.Name() }

func (o *InstrumentedOracle) Generate(ctx context.Context, input string) (string, error) {
	if o.tokens != nil {
		metrics.AddPromptTokens(o.inner.Name(), o.tokens.Count(input))
	}
	start := time.Now()
	out, err := o.inner.Generate(ctx, input)
	elapsed := time.Since(start)
	metrics.ObserveOracleCall(o.inner.Name(), int(elapsed.Milliseconds()), err == nil)
	if err != nil {
		o.log.Debug().Err(err).Dur("elapsed", elapsed).Msg("oracle call failed")
		return "", err
	}
	o.log.Debug().Dur("elapsed", elapsed).Msg("oracle call ok")
	return out, nil
}

// TiktokenCounter counts with a BPE encoding. The encoding is loaded on first
// use; when it cannot be loaded the count falls back to whitespace fields.
type TiktokenCounter struct {
	encoding string
	once     sync.Once
	enc      *tiktoken.Tiktoken
	log      *zerolog.Logger
}

func NewTiktokenCounter(encoding string, logger *zerolog.Logger) *TiktokenCounter {
	if encoding == "" {
		encoding = "cl100k_base"
	}
	return &TiktokenCounter{encoding: encoding, log: logger}
}

func (c *TiktokenCounter) Count(text string) int {
	c.once.Do(func() {
		enc, err := tiktoken.GetEncoding(c.encoding)
		if err != nil {
			c.log.Warn().Err(err).Str("encoding", c.encoding).Msg("tiktoken unavailable; estimating by words")
			return
		}
		c.enc = enc
	})
	if c.enc == nil {
		return len(strings.Fields(text))
	}
	return len(c.enc.Encode(text, nil, nil))
}
