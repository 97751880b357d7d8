package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"quantum-oracle-bot/internal/domain/model"
	"quantum-oracle-bot/internal/domain/ports/repository"
	"quantum-oracle-bot/internal/infra/metrics"
	"quantum-oracle-bot/internal/infra/worker"
)

// CycleRecorder hands completed exchanges to the cycle log on the worker pool,
// so a slow or failing store never delays the caller.
type CycleRecorder struct {
	repo repository.CycleLogRepository
	pool *worker.Pool
	log  *zerolog.Logger
}

// NewCycleRecorder returns nil when there is no store; a nil recorder is a no-op.
func NewCycleRecorder(repo repository.CycleLogRepository, pool *worker.Pool, logger *zerolog.Logger) *CycleRecorder {
	if repo == nil || pool == nil {
		return nil
	}
	recLog := logger.With().Str("component", "CycleRecorder").Logger()
	return &CycleRecorder{repo: repo, pool: pool, log: &recLog}
}

func (r *CycleRecorder) Record(rec *model.CycleRecord) {
	if r == nil || rec == nil {
		return
	}
	task := func(ctx context.Context) error {
		if err := r.repo.Save(ctx, rec); err != nil {
			metrics.IncCycleLogWrite("failed")
			r.log.Warn().Err(err).Str("cycle_id", rec.ID).Msg("cycle log write failed")
			return nil // already reported
		}
		metrics.IncCycleLogWrite("saved")
		return nil
	}
	if err := r.pool.Submit(task); err != nil {
		metrics.IncCycleLogWrite("dropped")
		r.log.Warn().Err(err).Str("cycle_id", rec.ID).Msg("cycle log write dropped")
	}
}
