// Package main serves the sniper detection HTTP API:
// token catalog, swap history, per-token and global sniper results.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"genesis-sniper-lab/internal/api"
	"genesis-sniper-lab/internal/cache"
	"genesis-sniper-lab/internal/config"
	"genesis-sniper-lab/internal/ingestion"
	"genesis-sniper-lab/internal/launchblock"
	"genesis-sniper-lab/internal/logger"
	"genesis-sniper-lab/internal/scan"
	"genesis-sniper-lab/internal/sniper"
	"genesis-sniper-lab/internal/storage"
	"genesis-sniper-lab/internal/storage/memory"
	"genesis-sniper-lab/internal/storage/migrations"
	pgstore "genesis-sniper-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	configPath := flag.String("config", config.DefaultPath, "Path to YAML config file")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	importPath := flag.String("import", "", "Dataset JSON to load into storage on startup")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *useMemory {
		cfg.Storage.UseMemory = true
	}

	log, level, err := logger.New(logger.Config{Service: "server", Level: cfg.Log.Level, Dir: cfg.Log.Dir})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg.Watch(func(next *config.Config) {
		if err := logger.SetLevel(level, next.Log.Level); err != nil {
			log.Warn("ignoring log level change", zap.Error(err))
			return
		}
		log.Info("log level set", zap.String("level", next.Log.Level))
	}, func(err error) {
		log.Warn("ignoring invalid config change", zap.Error(err))
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create stores
	tokens, swaps, cleanup, err := createStores(ctx, cfg)
	if err != nil {
		log.Fatal("failed to create stores", zap.Error(err))
	}
	defer cleanup()
	if tokens == nil {
		log.Warn("no storage configured, data routes will answer 503")
	}

	// Result cache
	cacheClient, err := cache.New(cfg.Cache())
	if err != nil {
		log.Fatal("failed to init redis cache", zap.Error(err))
	}
	defer cacheClient.Close()
	if !cacheClient.Enabled() {
		log.Info("redis cache disabled: redis.addr not set")
	} else if err := cacheClient.Ping(ctx); err != nil {
		log.Warn("redis unreachable, requests will compute results", zap.Error(err))
	}

	if *importPath != "" && tokens != nil {
		ds, err := ingestion.LoadDatasetFile(*importPath)
		if err != nil {
			log.Fatal("failed to load dataset", zap.Error(err))
		}
		importer := ingestion.NewImporter(tokens, swaps, log)
		if cacheClient.Enabled() {
			importer.WithInvalidator(cacheClient)
		}
		if _, err := importer.Import(ctx, ds); err != nil {
			log.Fatal("failed to import dataset", zap.Error(err))
		}
	}

	opts := api.Options{Cache: cacheClient, Logger: log}
	if tokens != nil {
		opts.TokenStore = tokens
		opts.SwapStore = swaps
		opts.Runner = scan.New(scan.Options{
			TokenStore:   tokens,
			SwapStore:    swaps,
			Resolver:     launchblock.NewResolver(tokens, cfg.LaunchBlock.CacheTTL, log),
			Engine:       sniper.NewEngine(cfg.Sniper(), log),
			TokenWorkers: cfg.Scan.TokenWorkers,
			Logger:       log,
		})
	}
	server := api.NewServer(opts)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	log.Info("shutdown complete")
}

// createStores returns nil stores when neither memory mode nor a Postgres DSN is configured.
func createStores(ctx context.Context, cfg *config.Config) (storage.TokenStore, storage.SwapStore, func(), error) {
	if cfg.Storage.UseMemory {
		return memory.NewTokenStore(), memory.NewSwapStore(), func() {}, nil
	}
	if cfg.Postgres.DSN == "" {
		return nil, nil, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("migrate postgres: %w", err)
	}

	return pgstore.NewTokenStore(pool), pgstore.NewSwapStore(pool), pool.Close, nil
}
