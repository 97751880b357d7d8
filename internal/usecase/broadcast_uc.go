package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"quantum-oracle-bot/internal/domain/model"
	"quantum-oracle-bot/internal/domain/ports/adapter"
	"quantum-oracle-bot/internal/infra/logging"
	"quantum-oracle-bot/internal/infra/metrics"
	"quantum-oracle-bot/internal/quantum"
)

type BroadcastUseCase interface {
	// RunCycle produces, consults the oracle and delivers one message.
	// Failures are logged and reflected in the outcome, never returned.
	RunCycle(ctx context.Context) *model.BroadcastCycle
	// NextDelay draws the pacing delay that follows a cycle.
	NextDelay(ctx context.Context) time.Duration
}

type BroadcastOptions struct {
	TargetChatID  int64
	Actor         string
	MinAvailable  int           // values ensured before a cycle starts
	DelayMin      int           // pacing window start, in DelayUnit
	DelayRange    int           // pacing window width, in DelayUnit
	DelayUnit     time.Duration // defaults to a second
	OracleTimeout time.Duration
	Dev           bool
}

type broadcastUC struct {
	buf      QuantumBuffer
	selector ContentSelector
	oracle   adapter.OracleClient
	bot      adapter.Messenger
	recorder *CycleRecorder
	opts     BroadcastOptions
	log      *zerolog.Logger
}

func NewBroadcastUseCase(
	buf QuantumBuffer,
	selector ContentSelector,
	oracle adapter.OracleClient,
	bot adapter.Messenger,
	recorder *CycleRecorder,
	opts BroadcastOptions,
	logger *zerolog.Logger,
) BroadcastUseCase {
	if opts.MinAvailable < 1 {
		opts.MinAvailable = 1
	}
	if opts.DelayUnit <= 0 {
		opts.DelayUnit = time.Second
	}
	if opts.OracleTimeout <= 0 {
		opts.OracleTimeout = 60 * time.Second
	}
	ucLog := logger.With().Str("component", "BroadcastUC").Int64("target", opts.TargetChatID).Logger()
	return &broadcastUC{
		buf:      buf,
		selector: selector,
		oracle:   oracle,
		bot:      bot,
		recorder: recorder,
		opts:     opts,
		log:      &ucLog,
	}
}

func (uc *broadcastUC) RunCycle(ctx context.Context) (cycle *model.BroadcastCycle) {
	cycle = &model.BroadcastCycle{StartedAt: time.Now(), TargetID: uc.opts.TargetChatID}
	defer func() {
		if r := recover(); r != nil {
			uc.log.Error().Interface("panic", r).Msg("broadcast cycle panicked")
			cycle.Outcome = model.CycleOutcomePanicked
		}
		metrics.IncCycle(string(cycle.Outcome))
	}()
	defer logging.TraceDuration(uc.log, "BroadcastUC.RunCycle")()

	uc.buf.EnsureAvailable(ctx, uc.opts.MinAvailable)
	if ctx.Err() != nil {
		cycle.Outcome = model.CycleOutcomeCancelled
		return cycle
	}

	content, err := uc.selector.Select(ctx)
	if err != nil {
		cycle.Outcome = uc.failed(ctx, model.CycleOutcomeSelectFailed, err)
		return cycle
	}
	cycle.Content = content
	if content.IsEmpty() {
		uc.log.Debug().Msg("nothing selected; skipping send")
		cycle.Outcome = model.CycleOutcomeEmpty
		return cycle
	}

	octx, cancel := context.WithTimeout(ctx, uc.opts.OracleTimeout)
	response, err := uc.oracle.Generate(octx, content.Prompt)
	cancel()
	if err != nil {
		cycle.Outcome = uc.failed(ctx, model.CycleOutcomeOracleFailed, err)
		return cycle
	}
	cycle.Response = response

	if err := uc.bot.SendMessage(ctx, uc.opts.TargetChatID, response); err != nil {
		cycle.Outcome = uc.failed(ctx, model.CycleOutcomeDeliverFailed, err)
		return cycle
	}
	cycle.Outcome = model.CycleOutcomeSent

	uc.recorder.Record(model.NewCycleRecord(model.ExchangeBroadcast, uc.opts.TargetChatID, uc.opts.Actor, content, response))
	uc.log.Info().
		Str("kind", string(content.Kind)).
		Str("content", logging.Redact(content.Text, uc.opts.Dev)).
		Msg("broadcast sent")
	return cycle
}

// failed logs a swallowed cycle error; cancellation wins over the step outcome.
func (uc *broadcastUC) failed(ctx context.Context, outcome model.CycleOutcome, err error) model.CycleOutcome {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return model.CycleOutcomeCancelled
	}
	uc.log.Warn().Err(err).Str("outcome", string(outcome)).Msg("broadcast cycle failed")
	return outcome
}

// NextDelay uses one fresh draw. A starved draw paces at the far end of the
// window so a dead source is not hammered.
func (uc *broadcastUC) NextDelay(ctx context.Context) time.Duration {
	units := uc.opts.DelayMin + uc.opts.DelayRange - 1
	if uc.opts.DelayRange <= 0 {
		units = uc.opts.DelayMin
	}
	raw, err := uc.buf.Draw(ctx)
	if err != nil {
		if ctx.Err() == nil {
			uc.log.Warn().Err(err).Int("delay", units).Msg("pacing draw starved; using the longest delay")
		}
	} else {
		units = quantum.DelaySeconds(raw, uc.opts.DelayMin, uc.opts.DelayRange)
	}
	metrics.ObserveDelay(units)
	return time.Duration(units) * uc.opts.DelayUnit
}
