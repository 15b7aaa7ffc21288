// Package main runs a batch sniper scan over the token catalog, stores each
// token's run in ClickHouse and writes Markdown, CSV and Parquet reports.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"genesis-sniper-lab/internal/config"
	"genesis-sniper-lab/internal/domain"
	"genesis-sniper-lab/internal/ingestion"
	"genesis-sniper-lab/internal/launchblock"
	"genesis-sniper-lab/internal/logger"
	"genesis-sniper-lab/internal/reporting"
	"genesis-sniper-lab/internal/scan"
	"genesis-sniper-lab/internal/sniper"
	"genesis-sniper-lab/internal/storage"
	chstore "genesis-sniper-lab/internal/storage/clickhouse"
	"genesis-sniper-lab/internal/storage/memory"
	"genesis-sniper-lab/internal/storage/migrations"
	pgstore "genesis-sniper-lab/internal/storage/postgres"
)

// stores holds the storage implementations used by a scan.
type stores struct {
	tokens  storage.TokenStore
	swaps   storage.SwapStore
	results storage.SniperResultStore // nil when ClickHouse is not configured
}

func main() {
	// Parse flags
	configPath := flag.String("config", config.DefaultPath, "Path to YAML config file")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	importPath := flag.String("import", "", "Dataset JSON to load into storage before scanning")
	symbol := flag.String("token", "", "Scan a single token instead of the whole catalog")
	outputDir := flag.String("output-dir", "", "Report output directory (overrides scan.output_dir)")
	noReport := flag.Bool("no-report", false, "Skip writing report files")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *useMemory {
		cfg.Storage.UseMemory = true
	}
	if *outputDir != "" {
		cfg.Scan.OutputDir = *outputDir
	}

	log, _, err := logger.New(logger.Config{Service: "scan", Level: cfg.Log.Level, Dir: cfg.Log.Dir})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, *importPath, *symbol, *noReport); err != nil {
		log.Error("scan failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, importPath, symbol string, noReport bool) error {
	s, cleanup, err := createStores(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create stores: %w", err)
	}
	defer cleanup()
	if s.results == nil {
		log.Warn("clickhouse.dsn not set, results will not be stored")
	}

	if importPath != "" {
		ds, err := ingestion.LoadDatasetFile(importPath)
		if err != nil {
			return err
		}
		if _, err := ingestion.NewImporter(s.tokens, s.swaps, log).Import(ctx, ds); err != nil {
			return err
		}
	}

	runner := scan.New(scan.Options{
		TokenStore:   s.tokens,
		SwapStore:    s.swaps,
		ResultStore:  s.results,
		Resolver:     launchblock.NewResolver(s.tokens, cfg.LaunchBlock.CacheTTL, log),
		Engine:       sniper.NewEngine(cfg.Sniper(), log),
		TokenWorkers: cfg.Scan.TokenWorkers,
		Logger:       log,
	})

	var result *scan.RunResult
	if symbol != "" {
		started := time.Now()
		report, err := runner.RunToken(ctx, symbol)
		if err != nil {
			return err
		}
		result = &scan.RunResult{
			TokensProcessed: 1,
			SnipersFound:    len(report.Results),
			Reports:         []*scan.TokenReport{report},
			Duration:        time.Since(started),
		}
	} else {
		result, err = runner.Run(ctx)
		if err != nil {
			return err
		}
	}

	fmt.Printf("Scanned %d tokens (%d failed), %d snipers found in %s\n",
		result.TokensProcessed, result.TokensFailed, result.SnipersFound, result.Duration.Round(time.Millisecond))
	for _, e := range result.Errors {
		fmt.Printf("  ! %s\n", e)
	}

	if noReport {
		return nil
	}

	runs := make([]domain.ScanRun, 0, len(result.Reports))
	var snipers []*domain.TokenSniper
	for _, rep := range result.Reports {
		runs = append(runs, rep.Run())
		snipers = append(snipers, rep.Tagged()...)
	}
	report := reporting.BuildReport(runs, snipers, result.Errors, time.Now().UTC())
	if err := reporting.WriteFiles(cfg.Scan.OutputDir, report); err != nil {
		return fmt.Errorf("write reports: %w", err)
	}

	fmt.Println("Reports written:")
	fmt.Printf("  - %s/%s\n", cfg.Scan.OutputDir, reporting.MarkdownFile)
	fmt.Printf("  - %s/%s\n", cfg.Scan.OutputDir, reporting.CSVFile)
	fmt.Printf("  - %s/%s\n", cfg.Scan.OutputDir, reporting.ParquetFile)
	return nil
}

// createStores connects to PostgreSQL (catalog, swaps) and ClickHouse (results).
func createStores(ctx context.Context, cfg *config.Config) (*stores, func(), error) {
	if cfg.Storage.UseMemory {
		return &stores{
			tokens:  memory.NewTokenStore(),
			swaps:   memory.NewSwapStore(),
			results: memory.NewSniperResultStore(),
		}, func() {}, nil
	}
	if cfg.Postgres.DSN == "" {
		return nil, nil, fmt.Errorf("postgres.dsn is required (use --use-memory for in-memory storage)")
	}

	// PostgreSQL
	pool, err := pgstore.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("migrate postgres: %w", err)
	}

	s := &stores{
		tokens: pgstore.NewTokenStore(pool),
		swaps:  pgstore.NewSwapStore(pool),
	}
	if cfg.ClickHouse.DSN == "" {
		return s, pool.Close, nil
	}

	// ClickHouse
	conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickHouse.DSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("migrate clickhouse: %w", err)
	}
	s.results = chstore.NewSniperResultStore(conn)

	cleanup := func() {
		_ = conn.Close()
		pool.Close()
	}
	return s, cleanup, nil
}
