package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"genesis-sniper-lab/internal/domain"
	"genesis-sniper-lab/internal/storage"
)

// Generator produces reports from stored results.
type Generator struct {
	tokenStore  storage.TokenStore
	resultStore storage.SniperResultStore
	now         func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(tokenStore storage.TokenStore, resultStore storage.SniperResultStore) *Generator {
	return &Generator{
		tokenStore:  tokenStore,
		resultStore: resultStore,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds a report from every token's latest run.
// Tokens never scanned are left out.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	tokens, err := g.tokenStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tokens: %w", err)
	}

	names := make(map[string]string, len(tokens))
	var runs []domain.ScanRun
	for _, t := range tokens {
		names[t.Symbol] = t.Name
		run, err := g.resultStore.GetLatestRun(ctx, t.Symbol)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load latest run for %s: %w", t.Symbol, err)
		}
		runs = append(runs, *run)
	}

	snipers, err := g.resultStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sniper results: %w", err)
	}

	report := BuildReport(runs, snipers, nil, g.now())
	for i := range report.Tokens {
		if report.Tokens[i].Name == "" {
			report.Tokens[i].Name = names[report.Tokens[i].Symbol]
		}
	}
	return report, nil
}
