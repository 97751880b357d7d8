package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Warmer is the part of the quantum buffer the refill worker needs.
type Warmer interface {
	MaybeRefill(ctx context.Context)
	Len() int
}

// RefillWorker periodically tops the buffer up so cycles rarely wait on the
// network.
type RefillWorker struct {
	interval time.Duration
	buf      Warmer
	log      *zerolog.Logger
}

func NewRefillWorker(interval time.Duration, buf Warmer, logger *zerolog.Logger) *RefillWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	rwLog := logger.With().Str("component", "RefillWorker").Logger()
	return &RefillWorker{interval: interval, buf: buf, log: &rwLog}
}

func (w *RefillWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting refill worker")
	w.buf.MaybeRefill(ctx)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping refill worker")
			return ctx.Err()
		case <-ticker.C:
			w.buf.MaybeRefill(ctx)
			w.log.Debug().Int("size", w.buf.Len()).Msg("buffer checked")
		}
	}
}
