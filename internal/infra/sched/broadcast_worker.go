package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"quantum-oracle-bot/internal/usecase"
)

// BroadcastWorker runs broadcast cycles back to back, each followed by a
// quantum-drawn pause, until its context is cancelled.
type BroadcastWorker struct {
	uc  usecase.BroadcastUseCase
	log *zerolog.Logger
}

func NewBroadcastWorker(uc usecase.BroadcastUseCase, logger *zerolog.Logger) *BroadcastWorker {
	bwLog := logger.With().Str("component", "BroadcastWorker").Logger()
	return &BroadcastWorker{uc: uc, log: &bwLog}
}

func (w *BroadcastWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting broadcast worker")
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for {
		if err := ctx.Err(); err != nil {
			w.log.Info().Msg("Stopping broadcast worker")
			return err
		}
		cycle := w.uc.RunCycle(ctx)
		if ctx.Err() != nil {
			continue
		}

		cycle.Delay = w.uc.NextDelay(ctx)
		w.log.Debug().Str("outcome", string(cycle.Outcome)).Dur("delay", cycle.Delay).Msg("cycle finished")
		timer.Reset(cycle.Delay)
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
		case <-timer.C:
		}
	}
}
