package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"

	"quantum-oracle-bot/internal/domain"
	"quantum-oracle-bot/internal/domain/model"
	"quantum-oracle-bot/internal/domain/ports/repository"
)

var _ repository.CycleLogRepository = (*cycleLogRepo)(nil)

// executor is satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type executor interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
}

type cycleLogRepo struct {
	db executor
}

func NewCycleLogRepo(db executor) repository.CycleLogRepository {
	return &cycleLogRepo{db: db}
}

func (r *cycleLogRepo) Save(ctx context.Context, rec *model.CycleRecord) error {
	if rec == nil || rec.ID == "" {
		return domain.ErrInvalidArgument
	}
	const q = `
INSERT INTO cycle_log (id, created_at, target_id, actor, type, kind, content, response)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	tag, err := r.db.Exec(ctx, q,
		rec.ID, rec.CreatedAt, rec.TargetID, rec.Actor,
		string(rec.Type), string(rec.Kind), rec.Content, rec.Response,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return fmt.Errorf("cycle log insert (%s %s): %w", pgErr.Code, pgErr.Message, domain.ErrSinkFailure)
		}
		return fmt.Errorf("cycle log insert: %v: %w", err, domain.ErrSinkFailure)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("cycle log insert affected %d rows: %w", tag.RowsAffected(), domain.ErrSinkFailure)
	}
	return nil
}
