package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"genesis-sniper-lab/internal/domain"
	"genesis-sniper-lab/internal/storage"
)

// TokenStore implements storage.TokenStore using PostgreSQL.
type TokenStore struct {
	pool *Pool
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(pool *Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

const tokenColumns = `symbol, name, address, block_number, genesis_block, launched_at, tx_hash`

// Insert adds a new token. Returns ErrDuplicateKey if symbol exists.
func (s *TokenStore) Insert(ctx context.Context, t *domain.Token) error {
	if t == nil || storage.NormalizeSymbol(t.Symbol) == "" {
		return storage.ErrInvalidInput
	}

	var launchedAt *time.Time
	if !t.LaunchedAt.IsZero() {
		at := t.LaunchedAt.UTC()
		launchedAt = &at
	}

	query := `INSERT INTO tokens (` + tokenColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.pool.Exec(ctx, query,
		storage.NormalizeSymbol(t.Symbol),
		t.Name,
		t.Address,
		t.BlockNumber,
		t.GenesisBlock,
		launchedAt,
		t.TxHash,
	)
	if err != nil {
		return storeError("insert token", err)
	}
	return nil
}

// GetBySymbol retrieves a token by symbol. Returns ErrNotFound if not exists.
func (s *TokenStore) GetBySymbol(ctx context.Context, symbol string) (*domain.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE symbol = $1`

	t, err := scanToken(s.pool.QueryRow(ctx, query, storage.NormalizeSymbol(symbol)))
	if err != nil {
		return nil, storeError("get token by symbol", err)
	}
	return t, nil
}

// GetAll retrieves every token, ordered by symbol ASC.
func (s *TokenStore) GetAll(ctx context.Context) ([]*domain.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens ORDER BY symbol ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all tokens: %w", err)
	}
	defer rows.Close()

	tokens := make([]*domain.Token, 0)
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, fmt.Errorf("scan token row: %w", err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token rows: %w", err)
	}
	return tokens, nil
}

// scanToken scans a single row into Token.
func scanToken(row pgx.Row) (*domain.Token, error) {
	var (
		t          domain.Token
		launchedAt *time.Time
	)

	err := row.Scan(
		&t.Symbol,
		&t.Name,
		&t.Address,
		&t.BlockNumber,
		&t.GenesisBlock,
		&launchedAt,
		&t.TxHash,
	)
	if err != nil {
		return nil, err
	}

	if launchedAt != nil {
		t.LaunchedAt = launchedAt.UTC()
	}
	return &t, nil
}
