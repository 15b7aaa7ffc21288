package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"genesis-sniper-lab/internal/domain"
	"genesis-sniper-lab/internal/storage"
)

// SwapStore implements storage.SwapStore using PostgreSQL.
// Each record is kept whole in a JSONB column.
type SwapStore struct {
	pool *Pool
}

// NewSwapStore creates a new SwapStore.
func NewSwapStore(pool *Pool) *SwapStore {
	return &SwapStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SwapStore = (*SwapStore)(nil)

// InsertBulk appends records atomically. Fails entire batch on any duplicate.
func (s *SwapStore) InsertBulk(ctx context.Context, symbol string, records []domain.RawSwap) error {
	symbol = storage.NormalizeSymbol(symbol)
	if symbol == "" {
		return storage.ErrInvalidInput
	}
	if len(records) == 0 {
		return nil
	}

	payloads := make([][]byte, len(records))
	for i, r := range records {
		if r == nil {
			return storage.ErrInvalidInput
		}
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("%w: encode swap %d: %v", storage.ErrInvalidInput, i, err)
		}
		payloads[i] = payload
	}
	keys := storage.SwapKeys(symbol, records)

	query := `INSERT INTO swaps (swap_id, symbol, tx_hash, payload) VALUES ($1, $2, $3, $4)`

	return s.pool.inTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i, r := range records {
			batch.Queue(query, keys[i], symbol, r.TxHash(), payloads[i])
		}

		br := tx.SendBatch(ctx, batch)
		for range records {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return storeError("insert swap in bulk", err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("close swap batch: %w", err)
		}
		return nil
	})
}

// GetBySymbol retrieves all records for a token in insertion order.
func (s *SwapStore) GetBySymbol(ctx context.Context, symbol string) ([]domain.RawSwap, error) {
	query := `
		SELECT payload
		FROM swaps
		WHERE symbol = $1
		ORDER BY id ASC
	`

	rows, err := s.pool.Query(ctx, query, storage.NormalizeSymbol(symbol))
	if err != nil {
		return nil, fmt.Errorf("get swaps by symbol: %w", err)
	}
	defer rows.Close()

	return scanSwaps(rows)
}

// CountBySymbol returns the number of stored records for a token.
func (s *SwapStore) CountBySymbol(ctx context.Context, symbol string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM swaps WHERE symbol = $1`, storage.NormalizeSymbol(symbol)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count swaps: %w", err)
	}
	return count, nil
}

// scanSwaps decodes payload rows. Numbers stay json.Number so large
// integers survive until normalization.
func scanSwaps(rows pgx.Rows) ([]domain.RawSwap, error) {
	records := make([]domain.RawSwap, 0)

	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan swap row: %w", err)
		}

		dec := json.NewDecoder(bytes.NewReader(payload))
		dec.UseNumber()
		var record domain.RawSwap
		if err := dec.Decode(&record); err != nil {
			return nil, fmt.Errorf("decode swap payload: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate swap rows: %w", err)
	}

	return records, nil
}
