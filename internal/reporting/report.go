// Package reporting renders sniper scan results as Markdown, CSV and Parquet.
package reporting

import (
	"sort"
	"time"

	"genesis-sniper-lab/internal/domain"
)

// Report is a scan summary across tokens.
type Report struct {
	GeneratedAt time.Time

	// Per-token summaries, sorted by symbol
	Tokens []TokenSummary

	// Sniper rows, sorted by (token, wallet)
	Snipers []*domain.TokenSniper

	// Tokens that failed to scan
	Errors []string
}

// TokenSummary aggregates one token's latest run.
type TokenSummary struct {
	Symbol          string
	Name            string
	LaunchBlock     int64
	SwapCount       int
	SniperCount     int
	TotalRealized   float64
	TotalUnrealized float64
	TokensRemaining float64
	ComputedAt      time.Time
}

// BuildReport groups snipers under their runs. Snipers whose token has no run
// still get a summary row.
func BuildReport(runs []domain.ScanRun, snipers []*domain.TokenSniper, errs []string, generatedAt time.Time) *Report {
	bySymbol := make(map[string]*TokenSummary, len(runs))
	for _, run := range runs {
		bySymbol[run.TokenSymbol] = &TokenSummary{
			Symbol:      run.TokenSymbol,
			LaunchBlock: run.LaunchBlock,
			SwapCount:   run.SwapCount,
			ComputedAt:  run.ComputedAt,
		}
	}

	rows := make([]*domain.TokenSniper, len(snipers))
	copy(rows, snipers)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TokenSymbol != rows[j].TokenSymbol {
			return rows[i].TokenSymbol < rows[j].TokenSymbol
		}
		return rows[i].Wallet < rows[j].Wallet
	})

	for _, s := range rows {
		sum, ok := bySymbol[s.TokenSymbol]
		if !ok {
			sum = &TokenSummary{Symbol: s.TokenSymbol, LaunchBlock: s.LaunchBlock, ComputedAt: s.ComputedAt}
			bySymbol[s.TokenSymbol] = sum
		}
		if sum.Name == "" {
			sum.Name = s.TokenName
		}
		sum.SniperCount++
		sum.TotalRealized += s.RealizedPnL
		sum.TotalUnrealized += s.UnrealizedPnL
		sum.TokensRemaining += s.TokensRemaining
	}

	tokens := make([]TokenSummary, 0, len(bySymbol))
	for _, sum := range bySymbol {
		tokens = append(tokens, *sum)
	}
	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].Symbol < tokens[j].Symbol
	})

	sortedErrs := append([]string(nil), errs...)
	sort.Strings(sortedErrs)

	return &Report{
		GeneratedAt: generatedAt,
		Tokens:      tokens,
		Snipers:     rows,
		Errors:      sortedErrs,
	}
}

// Totals sums the per-token summaries.
func (r *Report) Totals() (snipers int, realized, unrealized float64) {
	for _, t := range r.Tokens {
		snipers += t.SniperCount
		realized += t.TotalRealized
		unrealized += t.TotalUnrealized
	}
	return snipers, realized, unrealized
}
