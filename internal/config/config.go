package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token        string `yaml:"token" env:"TELEGRAM_TOKEN"`
	TargetChatID int64  `yaml:"target_chat_id" env:"TARGET_CHAT_ID"`
	Actor        string `yaml:"actor" env:"BOT_ACTOR"`     // recorded as the sender of cycle log entries
	Mode         string `yaml:"mode"`                      // polling | webhook (future)
	Workers      int    `yaml:"workers" env:"BOT_WORKERS"` // polling workers
}

type LogConfig struct {
	Level    string `yaml:"level" env:"LOG_LEVEL"`   // trace|debug|info|warn|error
	Format   string `yaml:"format" env:"LOG_FORMAT"` // json|console
	Sampling bool   `yaml:"sampling"`                // enable sampling in prod
}

type HTTPConfig struct {
	Port int `yaml:"port" env:"PORT"`
}

type DatabaseConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL"` // empty disables the cycle log
}

type RedisConfig struct {
	URL        string        `yaml:"url" env:"REDIS_URL"` // empty disables rate limiting
	Password   string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB         int           `yaml:"db"`
	ReplyLimit int           `yaml:"reply_limit"` // replies per chat per window
	Window     time.Duration `yaml:"window"`
}

type QuantumConfig struct {
	BaseURL      string        `yaml:"base_url" env:"QRNG_URL"`
	BatchSize    int           `yaml:"batch_size"`
	LowWatermark int           `yaml:"low_watermark"`
	Fallback     string        `yaml:"fallback" env:"QRNG_FALLBACK"` // zero|one|error
	Timeout      time.Duration `yaml:"timeout"`
	WarmInterval time.Duration `yaml:"warm_interval"`
}

type ContentConfig struct {
	Strategy       string  `yaml:"strategy" env:"CONTENT_STRATEGY"` // phrase|numerology
	DictionaryPath string  `yaml:"dictionary_path" env:"DICTIONARY_PATH"`
	Decay          float64 `yaml:"decay"`
	Reserve        int     `yaml:"reserve"`
	PromptTemplate string  `yaml:"prompt_template"`
}

type OracleConfig struct {
	Provider        string        `yaml:"provider" env:"ORACLE_PROVIDER"` // translate|gemini|openai|chain|noop
	Chain           []string      `yaml:"chain"`
	GoogleKey       string        `yaml:"google_key" env:"GOOGLE_API_KEY"`
	TranslateURL    string        `yaml:"translate_url"`
	SourceLang      string        `yaml:"source_lang"`
	TargetLang      string        `yaml:"target_lang"`
	GeminiKey       string        `yaml:"gemini_key" env:"GEMINI_API_KEY"`
	GeminiModel     string        `yaml:"gemini_model"`
	OpenAIKey       string        `yaml:"openai_key" env:"OPENAI_API_KEY"`
	OpenAIModel     string        `yaml:"openai_model"`
	OpenAIBaseURL   string        `yaml:"openai_base_url"`
	Timeout         time.Duration `yaml:"timeout"`
	ConcurrentLimit int           `yaml:"concurrent_limit"` // max concurrent oracle calls
}

type BroadcastConfig struct {
	Enabled    bool `yaml:"enabled" env:"BROADCAST_ENABLED"`
	DelayMin   int  `yaml:"delay_min"`   // seconds, 0 allowed
	DelayRange int  `yaml:"delay_range"` // seconds; 0 paces at exactly DelayMin
}

// ReplyConfig is on unless disabled, so an empty config still answers messages.
type ReplyConfig struct {
	Disabled     bool    `yaml:"disabled" env:"REPLY_DISABLED"`
	Chance       float64 `yaml:"chance"`
	FailureReply string  `yaml:"failure_reply"`
}

type Config struct {
	Bot       BotConfig       `yaml:"bot"`
	Log       LogConfig       `yaml:"log"`
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Quantum   QuantumConfig   `yaml:"quantum"`
	Content   ContentConfig   `yaml:"content"`
	Oracle    OracleConfig    `yaml:"oracle"`
	Broadcast BroadcastConfig `yaml:"broadcast"`
	Reply     ReplyConfig     `yaml:"reply"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path, overlays the environment and fills
// defaults. A missing file is fine when the environment carries the token.
func LoadConfig(path string, dev bool) (*Config, error) {
	// zero is a valid pacing value, so the window is seeded before decoding
	// instead of being filled in afterwards
	cfg := Config{Broadcast: BroadcastConfig{DelayMin: 13, DelayRange: 7}}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	applyDefaults(&cfg)

	// Minimal validation; provider credentials are checked when first used
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if cfg.Broadcast.DelayMin < 0 || cfg.Broadcast.DelayRange < 0 {
		return nil, fmt.Errorf("broadcast delay_min/delay_range must not be negative (got %d/%d)", cfg.Broadcast.DelayMin, cfg.Broadcast.DelayRange)
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Bot.Actor == "" {
		cfg.Bot.Actor = "quantum-oracle"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.HTTP.Port <= 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.Redis.ReplyLimit <= 0 {
		cfg.Redis.ReplyLimit = 5
	}
	if cfg.Redis.Window <= 0 {
		cfg.Redis.Window = time.Minute
	}

	if cfg.Quantum.BaseURL == "" {
		cfg.Quantum.BaseURL = "https://qrng.anu.edu.au/API/jsonI.php"
	}
	if cfg.Quantum.BatchSize <= 0 {
		cfg.Quantum.BatchSize = 1024
	}
	if cfg.Quantum.LowWatermark <= 0 {
		cfg.Quantum.LowWatermark = 24
	}
	if cfg.Quantum.Fallback == "" {
		cfg.Quantum.Fallback = "error"
	}
	if cfg.Quantum.Timeout <= 0 {
		cfg.Quantum.Timeout = 15 * time.Second
	}
	if cfg.Quantum.WarmInterval <= 0 {
		cfg.Quantum.WarmInterval = time.Minute
	}

	if cfg.Content.Strategy == "" {
		cfg.Content.Strategy = "phrase"
	}
	if cfg.Content.Decay <= 0 || cfg.Content.Decay > 1 {
		cfg.Content.Decay = 0.8
	}
	if cfg.Content.Reserve <= 0 {
		cfg.Content.Reserve = 2
	}

	if cfg.Oracle.Provider == "" {
		cfg.Oracle.Provider = "translate"
	}
	if cfg.Oracle.TranslateURL == "" {
		cfg.Oracle.TranslateURL = "https://translation.googleapis.com/language/translate/v2"
	}
	if cfg.Oracle.SourceLang == "" {
		cfg.Oracle.SourceLang = "iw"
	}
	if cfg.Oracle.TargetLang == "" {
		cfg.Oracle.TargetLang = "en"
	}
	if cfg.Oracle.GeminiModel == "" {
		cfg.Oracle.GeminiModel = "gemini-2.0-flash"
	}
	if cfg.Oracle.OpenAIModel == "" {
		cfg.Oracle.OpenAIModel = "gpt-4o-mini"
	}
	if cfg.Oracle.Timeout <= 0 {
		cfg.Oracle.Timeout = 60 * time.Second
	}
	if cfg.Oracle.ConcurrentLimit <= 0 {
		cfg.Oracle.ConcurrentLimit = 4
	}

	if cfg.Reply.Chance <= 0 || cfg.Reply.Chance > 1 {
		cfg.Reply.Chance = 1
	}
	if cfg.Reply.FailureReply == "" {
		cfg.Reply.FailureReply = "Translation failed."
	}
}
