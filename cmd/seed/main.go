package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"quantum-oracle-bot/internal/config"
	pg "quantum-oracle-bot/internal/infra/db/postgres"
	"quantum-oracle-bot/internal/infra/logging"
)

// seed prepares a database for the cycle log. It is idempotent: the schema
// only uses IF NOT EXISTS statements.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	schemaPath := flag.String("schema", "deploy/postgres/init.sql", "SQL file to apply")
	flag.Parse()

	// ---- Config ----
	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log, false)
	if cfg.Database.URL == "" {
		logger.Fatal().Msg("database.url (DATABASE_URL) is required")
	}

	schema, err := os.ReadFile(*schemaPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", *schemaPath).Msg("read schema")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.Connect(ctx, cfg.Database.URL, 1)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// no arguments, so pgx uses the simple protocol and accepts several statements
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		logger.Fatal().Err(err).Msg("apply schema")
	}

	var rows int64
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM cycle_log").Scan(&rows); err != nil {
		logger.Fatal().Err(err).Msg("count cycle_log")
	}
	logger.Info().Str("schema", *schemaPath).Int64("rows", rows).Msg("cycle_log ready")
}
