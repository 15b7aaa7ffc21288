// Package main imports a dataset export (token catalog and raw swap records)
// into PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"genesis-sniper-lab/internal/cache"
	"genesis-sniper-lab/internal/config"
	"genesis-sniper-lab/internal/ingestion"
	"genesis-sniper-lab/internal/logger"
	"genesis-sniper-lab/internal/storage/migrations"
	pgstore "genesis-sniper-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	configPath := flag.String("config", config.DefaultPath, "Path to YAML config file")
	input := flag.String("input", "", "Dataset JSON file to import (required)")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Error: --input is required")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Postgres.DSN == "" {
		fmt.Fprintln(os.Stderr, "Error: postgres.dsn is required (set it in the config file or SNIPER_POSTGRES_DSN)")
		os.Exit(1)
	}

	log, _, err := logger.New(logger.Config{Service: "ingest", Level: cfg.Log.Level, Dir: cfg.Log.Dir})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ds, err := ingestion.LoadDatasetFile(*input)
	if err != nil {
		log.Fatal("failed to load dataset", zap.Error(err))
	}

	pool, err := pgstore.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		log.Fatal("failed to migrate postgres", zap.Error(err))
	}

	// drop cached snipers for symbols that gain swaps
	cacheClient, err := cache.New(cfg.Cache())
	if err != nil {
		log.Fatal("failed to init redis cache", zap.Error(err))
	}
	defer cacheClient.Close()

	importer := ingestion.NewImporter(pgstore.NewTokenStore(pool), pgstore.NewSwapStore(pool), log)
	if cacheClient.Enabled() {
		importer.WithInvalidator(cacheClient)
	}
	result, err := importer.Import(ctx, ds)
	if err != nil {
		log.Fatal("import failed", zap.Error(err))
	}

	fmt.Printf("Imported %d tokens (%d already present), %d swaps (%d batches already present)\n",
		result.TokensInserted, result.TokensSkipped, result.SwapsInserted, result.BatchesSkipped)
	if len(result.Updated) > 0 {
		fmt.Printf("Updated tokens: %v\n", result.Updated)
	}
}
