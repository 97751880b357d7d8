package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"quantum-oracle-bot/internal/domain/model"
	"quantum-oracle-bot/internal/domain/ports/adapter"
	"quantum-oracle-bot/internal/infra/logging"
	"quantum-oracle-bot/internal/infra/metrics"
	"quantum-oracle-bot/internal/quantum"
)

// DefaultFailureReply is sent when the oracle cannot answer an inbound message.
const DefaultFailureReply = "Translation failed."

type ReplyUseCase interface {
	// HandleMessage answers one inbound message. It never returns an error for
	// provider or delivery failures; those end up in the outcome.
	HandleMessage(ctx context.Context, msg adapter.InboundMessage) model.CycleOutcome
}

type ReplyOptions struct {
	Actor         string
	ReplyChance   float64 // 0 < chance <= 1; a draw above chance*65535 skips the reply
	FailureReply  string
	OracleTimeout time.Duration
	Dev           bool
}

type replyUC struct {
	buf      QuantumBuffer
	selector ContentSelector
	oracle   adapter.OracleClient
	bot      adapter.Messenger
	recorder *CycleRecorder
	opts     ReplyOptions
	log      *zerolog.Logger
}

func NewReplyUseCase(
	buf QuantumBuffer,
	selector ContentSelector,
	oracle adapter.OracleClient,
	bot adapter.Messenger,
	recorder *CycleRecorder,
	opts ReplyOptions,
	logger *zerolog.Logger,
) ReplyUseCase {
	if opts.ReplyChance <= 0 || opts.ReplyChance > 1 {
		opts.ReplyChance = 1
	}
	if opts.FailureReply == "" {
		opts.FailureReply = DefaultFailureReply
	}
	if opts.OracleTimeout <= 0 {
		opts.OracleTimeout = 60 * time.Second
	}
	ucLog := logger.With().Str("component", "ReplyUC").Logger()
	return &replyUC{
		buf:      buf,
		selector: selector,
		oracle:   oracle,
		bot:      bot,
		recorder: recorder,
		opts:     opts,
		log:      &ucLog,
	}
}

func (uc *replyUC) HandleMessage(ctx context.Context, msg adapter.InboundMessage) (outcome model.CycleOutcome) {
	l := logging.With(logging.WithChatID(ctx, msg.ChatID), uc.log)
	defer func() {
		if r := recover(); r != nil {
			l.Error().Interface("panic", r).Msg("reply panicked")
			outcome = model.CycleOutcomePanicked
		}
		metrics.IncReply(string(outcome))
	}()

	if strings.TrimSpace(msg.Text) == "" {
		return model.CycleOutcomeSkipped
	}
	uc.buf.MaybeRefill(ctx)

	// the gate value is always consumed, whether or not the gate is active
	decision, err := uc.buf.Draw(ctx)
	if err != nil {
		l.Warn().Err(err).Msg("reply gate starved")
		return model.CycleOutcomeSelectFailed
	}
	if uc.opts.ReplyChance < 1 && float64(decision) > uc.opts.ReplyChance*quantum.MaxRaw {
		return model.CycleOutcomeSkipped
	}

	content, err := uc.selector.Select(ctx)
	if err != nil {
		l.Warn().Err(err).Msg("content selection failed")
		return model.CycleOutcomeSelectFailed
	}
	if content.IsEmpty() {
		return model.CycleOutcomeEmpty
	}

	octx, cancel := context.WithTimeout(ctx, uc.opts.OracleTimeout)
	response, err := uc.oracle.Generate(octx, content.Prompt)
	cancel()
	if err != nil {
		l.Warn().Err(err).Str("provider", uc.oracle.Name()).Msg("oracle failed; sending failure reply")
		if err := uc.bot.SendMessage(ctx, msg.ChatID, uc.opts.FailureReply); err != nil {
			l.Warn().Err(err).Msg("failure reply not delivered")
		}
		return model.CycleOutcomeOracleFailed
	}

	if err := uc.bot.SendMessage(ctx, msg.ChatID, response); err != nil {
		l.Warn().Err(err).Msg("reply not delivered")
		return model.CycleOutcomeDeliverFailed
	}

	uc.recorder.Record(model.NewCycleRecord(model.ExchangeReply, msg.ChatID, uc.opts.Actor, content, response))
	l.Info().
		Str("from", logging.Redact(msg.Username, uc.opts.Dev)).
		Str("content", logging.Redact(content.Text, uc.opts.Dev)).
		Msg("reply sent")
	return model.CycleOutcomeSent
}
