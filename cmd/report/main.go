// Package main writes reports from the latest stored scan runs without
// re-running detection.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"genesis-sniper-lab/internal/config"
	"genesis-sniper-lab/internal/reporting"
	chstore "genesis-sniper-lab/internal/storage/clickhouse"
	pgstore "genesis-sniper-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	configPath := flag.String("config", config.DefaultPath, "Path to YAML config file")
	outputDir := flag.String("output-dir", "", "Output directory for generated files (overrides scan.output_dir)")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *outputDir != "" {
		cfg.Scan.OutputDir = *outputDir
	}

	// Validate config
	if cfg.Postgres.DSN == "" || cfg.ClickHouse.DSN == "" {
		fmt.Fprintln(os.Stderr, "Error: postgres.dsn and clickhouse.dsn are required")
		os.Exit(1)
	}

	// Connect to PostgreSQL
	pool, err := pgstore.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to postgres: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Connect to ClickHouse
	conn, err := chstore.NewConn(ctx, cfg.ClickHouse.DSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to clickhouse: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	gen := reporting.NewGenerator(pgstore.NewTokenStore(pool), chstore.NewSniperResultStore(conn))
	report, err := gen.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	if err := reporting.WriteFiles(cfg.Scan.OutputDir, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}

	snipers, _, _ := report.Totals()
	fmt.Printf("Report generated for %d tokens, %d snipers:\n", len(report.Tokens), snipers)
	fmt.Printf("  - %s/%s\n", cfg.Scan.OutputDir, reporting.MarkdownFile)
	fmt.Printf("  - %s/%s\n", cfg.Scan.OutputDir, reporting.CSVFile)
	fmt.Printf("  - %s/%s\n", cfg.Scan.OutputDir, reporting.ParquetFile)
}
