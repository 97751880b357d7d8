package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"quantum-oracle-bot/internal/config"
	"quantum-oracle-bot/internal/domain/ports/adapter"
	"quantum-oracle-bot/internal/domain/ports/repository"
	aiAdapters "quantum-oracle-bot/internal/infra/adapters/ai"
	"quantum-oracle-bot/internal/infra/adapters/qrng"
	tele "quantum-oracle-bot/internal/infra/adapters/telegram"
	pg "quantum-oracle-bot/internal/infra/db/postgres"
	"quantum-oracle-bot/internal/infra/dictionary"
	"quantum-oracle-bot/internal/infra/logging"
	"quantum-oracle-bot/internal/infra/metrics"
	red "quantum-oracle-bot/internal/infra/redis"
	"quantum-oracle-bot/internal/infra/sched"
	"quantum-oracle-bot/internal/infra/web"
	"quantum-oracle-bot/internal/infra/worker"
	"quantum-oracle-bot/internal/quantum"
	"quantum-oracle-bot/internal/usecase"
)

// set at build time with -ldflags "-X main.version=... -X main.commit=..."
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop providers, unredacted logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("startup failed")
	}
	logger.Info().Msg("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) error {
	// ---- Quantum buffer ----
	fallback, err := quantum.ParseFallbackPolicy(cfg.Quantum.Fallback)
	if err != nil {
		return err
	}
	source := qrng.NewANUSource(cfg.Quantum.BaseURL, cfg.Quantum.Timeout)
	buffer := quantum.NewBuffer(source, quantum.Options{
		BatchSize:     cfg.Quantum.BatchSize,
		LowWatermark:  cfg.Quantum.LowWatermark,
		Fallback:      fallback,
		RefillTimeout: cfg.Quantum.Timeout,
	}, logger)

	// ---- Content ----
	var selCfg usecase.SelectorConfig
	selCfg.Strategy = cfg.Content.Strategy
	selCfg.Decay = cfg.Content.Decay
	selCfg.Reserve = cfg.Content.Reserve
	selCfg.PromptTemplate = cfg.Content.PromptTemplate
	if !strings.EqualFold(cfg.Content.Strategy, usecase.StrategyNumerology) {
		dict, err := dictionary.Load(cfg.Content.DictionaryPath)
		if err != nil {
			return fmt.Errorf("dictionary: %w", err)
		}
		selCfg.Dictionary = dict
		logger.Info().Int("categories", dict.Len()).Msg("dictionary loaded")
	}
	selector, err := usecase.NewContentSelector(buffer, selCfg)
	if err != nil {
		return err
	}

	// ---- Oracle ----
	oracle, err := aiAdapters.NewOracle(ctx, cfg.Oracle, cfg.Runtime.Dev, aiAdapters.NewTiktokenCounter("", logger), logger)
	if err != nil {
		return fmt.Errorf("oracle: %w", err)
	}
	logger.Info().Str("provider", oracle.Name()).Msg("oracle ready")

	// ---- Cycle log ----
	var cycleLog repository.CycleLogRepository
	if cfg.Database.URL != "" {
		dbPool, err := pg.Connect(ctx, cfg.Database.URL, 4)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer dbPool.Close()
		cycleLog = pg.NewCycleLogRepo(dbPool)
	} else {
		logger.Info().Msg("database.url not set; cycle log disabled")
		cycleLog = pg.NewNoopCycleLogRepo(logger)
	}
	pool := worker.NewPool(2, logger)
	pool.Start(ctx)
	defer pool.Stop()
	recorder := usecase.NewCycleRecorder(cycleLog, pool, logger)

	// ---- Redis rate limiter ----
	var limiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable; replies are not rate limited")
		} else {
			defer redisClient.Close()
			limiter = red.NewRateLimiter(redisClient, cfg.Redis.ReplyLimit, cfg.Redis.Window)
		}
	}

	// ---- Telegram ----
	var (
		messenger adapter.Messenger
		bot       *tele.RealTelegramBotAdapter
	)
	if cfg.Runtime.Dev && cfg.Bot.Token == "dev" {
		messenger = tele.NewNoopBotAdapter(logger)
	} else {
		bot, err = tele.NewRealTelegramBotAdapter(&cfg.Bot, limiter, logger)
		if err != nil {
			return fmt.Errorf("telegram: %w", err)
		}
		messenger = bot
	}

	var wg sync.WaitGroup
	goRun := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil && ctx.Err() == nil {
				logger.Error().Err(err).Str("task", name).Msg("background task stopped")
			}
		}()
	}

	goRun("refill", sched.NewRefillWorker(cfg.Quantum.WarmInterval, buffer, logger).Run)

	if !cfg.Reply.Disabled && bot != nil {
		if !strings.EqualFold(cfg.Bot.Mode, "polling") && cfg.Bot.Mode != "" {
			logger.Warn().Str("mode", cfg.Bot.Mode).Msg("bot mode not implemented; falling back to polling")
		}
		replyUC := usecase.NewReplyUseCase(buffer, selector, oracle, messenger, recorder, usecase.ReplyOptions{
			Actor:         cfg.Bot.Actor,
			ReplyChance:   cfg.Reply.Chance,
			FailureReply:  cfg.Reply.FailureReply,
			OracleTimeout: cfg.Oracle.Timeout,
			Dev:           cfg.Runtime.Dev,
		}, logger)
		goRun("telegram", func(ctx context.Context) error { return bot.StartPolling(ctx, replyUC) })
	}

	if cfg.Broadcast.Enabled {
		if cfg.Bot.TargetChatID == 0 {
			logger.Warn().Msg("broadcast enabled without bot.target_chat_id; broadcast disabled")
		} else {
			broadcastUC := usecase.NewBroadcastUseCase(buffer, selector, oracle, messenger, recorder, usecase.BroadcastOptions{
				TargetChatID:  cfg.Bot.TargetChatID,
				Actor:         cfg.Bot.Actor,
				MinAvailable:  cfg.Content.Reserve,
				DelayMin:      cfg.Broadcast.DelayMin,
				DelayRange:    cfg.Broadcast.DelayRange,
				OracleTimeout: cfg.Oracle.Timeout,
				Dev:           cfg.Runtime.Dev,
			}, logger)
			goRun("broadcast", sched.NewBroadcastWorker(broadcastUC, logger).Run)
		}
	}

	// ---- HTTP liveness / metrics ----
	srv := web.NewServer(cfg.HTTP.Port, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown requested")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("http shutdown")
	}
	wg.Wait()
	return nil
}
