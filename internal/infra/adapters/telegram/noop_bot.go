package telegram

import (
	"context"

	"github.com/rs/zerolog"

	"quantum-oracle-bot/internal/domain/ports/adapter"
	"quantum-oracle-bot/internal/infra/logging"
)

var _ adapter.Messenger = (*NoopBotAdapter)(nil)

// NoopBotAdapter implements adapter.Messenger for local/dev runs.
// It logs messages instead of sending real Telegram messages.
type NoopBotAdapter struct {
	log *zerolog.Logger
}

func NewNoopBotAdapter(logger *zerolog.Logger) *NoopBotAdapter {
	noopLog := logger.With().Str("component", "NoopBot").Logger()
	return &NoopBotAdapter{log: &noopLog}
}

func (b *NoopBotAdapter) SendMessage(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.log.Info().Int64("chat_id", chatID).Str("text", logging.Redact(text, true)).Msg("noop send")
	return nil
}
