package postgres

import (
	"context"

	"github.com/rs/zerolog"

	"quantum-oracle-bot/internal/domain/model"
	"quantum-oracle-bot/internal/domain/ports/repository"
)

var _ repository.CycleLogRepository = (*NoopCycleLogRepo)(nil)

// NoopCycleLogRepo stands in when no database is configured; records are
// only logged at debug level.
type NoopCycleLogRepo struct {
	log *zerolog.Logger
}

func NewNoopCycleLogRepo(logger *zerolog.Logger) *NoopCycleLogRepo {
	noopLog := logger.With().Str("component", "NoopCycleLog").Logger()
	return &NoopCycleLogRepo{log: &noopLog}
}

func (r *NoopCycleLogRepo) Save(ctx context.Context, rec *model.CycleRecord) error {
	if rec != nil {
		r.log.Debug().Str("cycle_id", rec.ID).Str("type", string(rec.Type)).Msg("cycle record discarded")
	}
	return nil
}
