package clickhouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"genesis-sniper-lab/internal/domain"
	"genesis-sniper-lab/internal/storage"
)

// SniperResultStore implements storage.SniperResultStore using ClickHouse.
// Runs are append-only; readers resolve the latest run from sniper_runs.
type SniperResultStore struct {
	conn *Conn
}

// NewSniperResultStore creates a new SniperResultStore.
func NewSniperResultStore(conn *Conn) *SniperResultStore {
	return &SniperResultStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SniperResultStore = (*SniperResultStore)(nil)

const resultColumns = `
	result_id, token_symbol, token_name, launch_block, computed_at,
	wallet, realized_pnl, unrealized_pnl, tokens_remaining,
	buy_count, sell_count, first_buy_time, last_sell_time,
	avg_buy_price, avg_sell_price, total_tax, total_fees`

// InsertRun stores one scan run and its results.
// Returns ErrDuplicateKey if a run for (symbol, computed_at) exists.
func (s *SniperResultStore) InsertRun(ctx context.Context, run *domain.ScanRun, results []*domain.TokenSniper) error {
	if run == nil || storage.NormalizeSymbol(run.TokenSymbol) == "" || run.ComputedAt.IsZero() {
		return storage.ErrInvalidInput
	}
	symbol := storage.NormalizeSymbol(run.TokenSymbol)
	computedAt := run.ComputedAt.UTC().Truncate(time.Millisecond)

	// Check for intra-batch duplicates
	seen := make(map[string]struct{}, len(results))
	for _, r := range results {
		if r == nil || storage.NormalizeSymbol(r.TokenSymbol) != symbol || !r.ComputedAt.UTC().Truncate(time.Millisecond).Equal(computedAt) {
			return storage.ErrInvalidInput
		}
		if _, exists := seen[r.Wallet]; exists {
			return storage.ErrDuplicateKey
		}
		seen[r.Wallet] = struct{}{}
	}

	// MergeTree does not enforce uniqueness
	exists, err := s.runExists(ctx, symbol, computedAt)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	// Results first so a visible run always has its rows.
	if len(results) > 0 {
		batch, err := s.conn.PrepareBatch(ctx, `INSERT INTO sniper_results (`+resultColumns+`)`)
		if err != nil {
			return fmt.Errorf("prepare batch: %w", err)
		}
		for _, r := range results {
			err = batch.Append(
				r.ResultID, symbol, r.TokenName, r.LaunchBlock, computedAt,
				r.Wallet, r.RealizedPnL, r.UnrealizedPnL, r.TokensRemaining,
				uint32(r.BuyCount), uint32(r.SellCount), r.FirstBuyTime, r.LastSellTime,
				r.AvgBuyPrice, r.AvgSellPrice, r.TotalTax, r.TotalFees,
			)
			if err != nil {
				return fmt.Errorf("append to batch: %w", err)
			}
		}
		if err := batch.Send(); err != nil {
			return fmt.Errorf("send batch: %w", err)
		}
	}

	err = s.conn.Exec(ctx, `
		INSERT INTO sniper_runs (token_symbol, launch_block, swap_count, sniper_count, computed_at)
		VALUES (?, ?, ?, ?, ?)
	`, symbol, run.LaunchBlock, uint32(run.SwapCount), uint32(run.SniperCount), computedAt)
	if err != nil {
		return fmt.Errorf("insert sniper run: %w", err)
	}
	return nil
}

// GetLatestRun retrieves the newest run for a token. Returns ErrNotFound if never scanned.
func (s *SniperResultStore) GetLatestRun(ctx context.Context, symbol string) (*domain.ScanRun, error) {
	query := `
		SELECT token_symbol, launch_block, swap_count, sniper_count, computed_at
		FROM sniper_runs
		WHERE token_symbol = ?
		ORDER BY computed_at DESC
		LIMIT 1
	`

	var (
		run         domain.ScanRun
		swapCount   uint32
		sniperCount uint32
	)
	err := s.conn.QueryRow(ctx, query, storage.NormalizeSymbol(symbol)).Scan(
		&run.TokenSymbol, &run.LaunchBlock, &swapCount, &sniperCount, &run.ComputedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query latest run: %w", err)
	}
	run.SwapCount = int(swapCount)
	run.SniperCount = int(sniperCount)
	run.ComputedAt = run.ComputedAt.UTC()
	return &run, nil
}

// GetByToken retrieves the latest run's results, ordered by wallet ASC.
func (s *SniperResultStore) GetByToken(ctx context.Context, symbol string) ([]*domain.TokenSniper, error) {
	query := `
		SELECT` + resultColumns + `
		FROM sniper_results
		WHERE token_symbol = ?
		  AND computed_at = (SELECT max(computed_at) FROM sniper_runs WHERE token_symbol = ?)
		ORDER BY wallet ASC
	`

	sym := storage.NormalizeSymbol(symbol)
	rows, err := s.conn.Query(ctx, query, sym, sym)
	if err != nil {
		return nil, fmt.Errorf("query by token: %w", err)
	}
	defer rows.Close()

	return scanTokenSnipers(rows)
}

// GetAll retrieves the latest run's results for every token, ordered by token, wallet.
func (s *SniperResultStore) GetAll(ctx context.Context) ([]*domain.TokenSniper, error) {
	query := `
		SELECT` + resultColumns + `
		FROM sniper_results
		WHERE (token_symbol, computed_at) IN (
			SELECT token_symbol, max(computed_at) FROM sniper_runs GROUP BY token_symbol
		)
		ORDER BY token_symbol ASC, wallet ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all: %w", err)
	}
	defer rows.Close()

	return scanTokenSnipers(rows)
}

// runExists checks if a run with the given key exists.
func (s *SniperResultStore) runExists(ctx context.Context, symbol string, computedAt time.Time) (bool, error) {
	query := `SELECT count(*) FROM sniper_runs WHERE token_symbol = ? AND computed_at = ?`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, symbol, computedAt).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Rows interface for scanning
type chRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanTokenSnipers scans multiple rows into a slice.
func scanTokenSnipers(rows chRows) ([]*domain.TokenSniper, error) {
	results := make([]*domain.TokenSniper, 0)

	for rows.Next() {
		var (
			r         domain.TokenSniper
			buyCount  uint32
			sellCount uint32
		)
		err := rows.Scan(
			&r.ResultID, &r.TokenSymbol, &r.TokenName, &r.LaunchBlock, &r.ComputedAt,
			&r.Wallet, &r.RealizedPnL, &r.UnrealizedPnL, &r.TokensRemaining,
			&buyCount, &sellCount, &r.FirstBuyTime, &r.LastSellTime,
			&r.AvgBuyPrice, &r.AvgSellPrice, &r.TotalTax, &r.TotalFees,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sniper result row: %w", err)
		}
		r.BuyCount = int(buyCount)
		r.SellCount = int(sellCount)
		r.ComputedAt = r.ComputedAt.UTC()
		results = append(results, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sniper result rows: %w", err)
	}

	return results, nil
}
