package repository

import (
	"context"

	"quantum-oracle-bot/internal/domain/model"
)

// CycleLogRepository is the append-only sink for completed exchanges.
type CycleLogRepository interface {
	Save(ctx context.Context, rec *model.CycleRecord) error
}
