package telegram

import (
	"context"
	"errors"
	"sync"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"quantum-oracle-bot/internal/config"
	"quantum-oracle-bot/internal/domain/model"
	"quantum-oracle-bot/internal/domain/ports/adapter"
	"quantum-oracle-bot/internal/infra/logging"
	"quantum-oracle-bot/internal/infra/metrics"
	red "quantum-oracle-bot/internal/infra/redis"
)

// MaxMessageRunes is Telegram's limit for one text message.
const MaxMessageRunes = 4096

var _ adapter.Messenger = (*RealTelegramBotAdapter)(nil)

// MessageHandler answers one inbound text message.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg adapter.InboundMessage) model.CycleOutcome
}

// sender is the part of tgbotapi.BotAPI used for delivery.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// RealTelegramBotAdapter uses tgbotapi to poll updates and delegates text
// messages to a MessageHandler.
type RealTelegramBotAdapter struct {
	bot         *tgbotapi.BotAPI
	send        sender
	rateLimiter *red.RateLimiter
	log         *zerolog.Logger

	updateWorkers int
	mu            sync.Mutex
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(cfg *config.BotConfig, rateLimiter *red.RateLimiter, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	a := newAdapter(bot, rateLimiter, cfg.Workers, logger)
	a.bot = bot
	a.log.Info().Str("username", bot.Self.UserName).Msg("telegram bot authorized")
	return a, nil
}

func newAdapter(s sender, rateLimiter *red.RateLimiter, updateWorkers int, logger *zerolog.Logger) *RealTelegramBotAdapter {
	if updateWorkers <= 0 {
		updateWorkers = 5
	}
	tgLog := logger.With().Str("component", "TelegramBot").Logger()
	return &RealTelegramBotAdapter{
		send:          s,
		rateLimiter:   rateLimiter,
		log:           &tgLog,
		updateWorkers: updateWorkers,
	}
}

// StartPolling blocks until ctx is cancelled, fanning updates out to workers.
func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context, handler MessageHandler) error {
	if r.bot == nil {
		return errors.New("telegram bot not initialised")
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.cancelPolling = cancel
	r.mu.Unlock()
	defer r.bot.StopReceivingUpdates()

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up, ok := <-updateChan:
					if !ok {
						return
					}
					r.handleUpdate(ctx, handler, up)
				}
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			select {
			case updateChan <- up:
			case <-ctx.Done():
			}
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

// SendMessage delivers text, split into chunks Telegram accepts.
func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, chatID int64, text string) error {
	for _, part := range splitMessage(text, MaxMessageRunes) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := r.send.Send(tgbotapi.NewMessage(chatID, part)); err != nil {
			return err
		}
	}
	return nil
}

// handleUpdate ignores everything but plain text messages from people.
func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, handler MessageHandler, update tgbotapi.Update) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Interface("panic", rec).Msg("update handler panicked")
		}
	}()
	msg, ok := inboundFromUpdate(update)
	if !ok {
		return
	}
	ctx = logging.WithTraceID(logging.WithChatID(ctx, msg.ChatID), "")

	allowed, err := r.rateLimiter.Allow(ctx, red.ChatReplyKey(msg.ChatID))
	if err != nil {
		// an unreachable redis lets messages through
		logging.With(ctx, r.log).Warn().Err(err).Msg("rate limit check failed")
	} else if !allowed {
		metrics.IncRateLimitTriggered()
		logging.With(ctx, r.log).Debug().Msg("reply rate limited")
		return
	}
	handler.HandleMessage(ctx, msg)
}

func inboundFromUpdate(update tgbotapi.Update) (adapter.InboundMessage, bool) {
	m := update.Message
	if m == nil || m.Chat == nil || m.Text == "" {
		return adapter.InboundMessage{}, false
	}
	in := adapter.InboundMessage{
		ChatID:    m.Chat.ID,
		MessageID: m.MessageID,
		Text:      m.Text,
	}
	if m.From != nil {
		if m.From.IsBot {
			return adapter.InboundMessage{}, false
		}
		in.FromID = m.From.ID
		in.Username = m.From.UserName
	}
	return in, true
}

func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}
	var parts []string
	runes := []rune(text)
	for len(runes) > limit {
		parts = append(parts, string(runes[:limit]))
		runes = runes[limit:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
