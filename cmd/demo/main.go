package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"quantum-oracle-bot/internal/config"
	"quantum-oracle-bot/internal/domain/ports/adapter"
	aiAdapters "quantum-oracle-bot/internal/infra/adapters/ai"
	"quantum-oracle-bot/internal/infra/adapters/qrng"
	"quantum-oracle-bot/internal/infra/dictionary"
	"quantum-oracle-bot/internal/infra/logging"
	"quantum-oracle-bot/internal/quantum"
	"quantum-oracle-bot/internal/usecase"
)

// pseudoSource stands in for the QRNG when -offline is set.
type pseudoSource struct{}

func (pseudoSource) Fetch(_ context.Context, n int) ([]uint16, error) {
	out := make([]uint16, n)
	for i := range out {
		out[i] = uint16(rand.UintN(65536))
	}
	return out, nil
}

// demo prints a few selections, and optionally the oracle's answers, without Telegram.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	count := flag.Int("n", 5, "number of selections")
	strategy := flag.String("strategy", "", "override content.strategy (phrase|numerology)")
	offline := flag.Bool("offline", false, "use a pseudo-random source instead of the QRNG")
	ask := flag.Bool("ask", false, "send each selection to the configured oracle")
	flag.Parse()

	// 1. Load config
	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if *strategy != "" {
		cfg.Content.Strategy = *strategy
	}
	logger := logging.New(config.LogConfig{Level: "warn", Format: "console"}, true)

	// 2. Buffer
	var src adapter.RandomSource = qrng.NewANUSource(cfg.Quantum.BaseURL, cfg.Quantum.Timeout)
	if *offline {
		src = pseudoSource{}
	}
	buf := quantum.NewBuffer(src, quantum.Options{
		BatchSize:    cfg.Quantum.BatchSize,
		LowWatermark: cfg.Quantum.LowWatermark,
		Fallback:     quantum.FallbackError,
	}, logger)

	// 3. Selector
	selCfg := usecase.SelectorConfig{
		Strategy:       cfg.Content.Strategy,
		Decay:          cfg.Content.Decay,
		Reserve:        cfg.Content.Reserve,
		PromptTemplate: cfg.Content.PromptTemplate,
	}
	if cfg.Content.Strategy != usecase.StrategyNumerology {
		if selCfg.Dictionary, err = dictionary.Load(cfg.Content.DictionaryPath); err != nil {
			log.Fatalf("dictionary error: %v", err)
		}
	}
	selector, err := usecase.NewContentSelector(buf, selCfg)
	if err != nil {
		log.Fatalf("selector error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// 4. Optional oracle
	var oracle adapter.OracleClient
	if *ask {
		// dev mode: providers without credentials degrade to echo
		if oracle, err = aiAdapters.NewOracle(ctx, cfg.Oracle, true, nil, logger); err != nil {
			log.Fatalf("oracle error: %v", err)
		}
	}

	for i := 1; i <= *count; i++ {
		c, err := selector.Select(ctx)
		if err != nil {
			log.Fatalf("select %d: %v", i, err)
		}
		if c.IsEmpty() {
			fmt.Printf("%d. (empty)\n", i)
			continue
		}
		fmt.Printf("%d. [%s] %s\n", i, c.Kind, c.Text)
		if oracle == nil {
			continue
		}
		answer, err := oracle.Generate(ctx, c.Prompt)
		if err != nil {
			fmt.Printf("   oracle error: %v\n", err)
			continue
		}
		fmt.Printf("   -> %s\n", answer)
	}
}
