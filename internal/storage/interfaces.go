package storage

import (
	"context"

	"genesis-sniper-lab/internal/domain"
)

// TokenStore provides access to the tokens catalog.
type TokenStore interface {
	// Insert adds a new token. Returns ErrDuplicateKey if symbol exists.
	Insert(ctx context.Context, t *domain.Token) error

	// GetBySymbol retrieves a token by its upper-case symbol. Returns ErrNotFound if not exists.
	GetBySymbol(ctx context.Context, symbol string) (*domain.Token, error)

	// GetAll retrieves every token, ordered by symbol ASC.
	GetAll(ctx context.Context) ([]*domain.Token, error)
}

// SwapStore provides access to raw swap records keyed by token symbol.
// Records keep their symbol-keyed amount fields untouched.
type SwapStore interface {
	// InsertBulk appends records for a token atomically. A record's key is
	// (symbol, txHash, occurrence of txHash in the batch); fails entire batch
	// with ErrDuplicateKey if any key exists.
	InsertBulk(ctx context.Context, symbol string, records []domain.RawSwap) error

	// GetBySymbol retrieves all records for a token in insertion order.
	GetBySymbol(ctx context.Context, symbol string) ([]domain.RawSwap, error)

	// CountBySymbol returns the number of stored records for a token.
	CountBySymbol(ctx context.Context, symbol string) (int, error)
}

// SniperResultStore provides access to computed sniper results.
// Each token can be scanned many times; readers see the latest run.
type SniperResultStore interface {
	// InsertRun stores one scan run and its results. Every result must carry
	// run.TokenSymbol and run.ComputedAt. Returns ErrDuplicateKey if a run for
	// (symbol, computed_at) exists.
	InsertRun(ctx context.Context, run *domain.ScanRun, results []*domain.TokenSniper) error

	// GetLatestRun retrieves the newest run for a token. Returns ErrNotFound if never scanned.
	GetLatestRun(ctx context.Context, symbol string) (*domain.ScanRun, error)

	// GetByToken retrieves the latest run's results for a token, ordered by wallet ASC.
	GetByToken(ctx context.Context, symbol string) ([]*domain.TokenSniper, error)

	// GetAll retrieves the latest run's results for every token, ordered by token, wallet.
	GetAll(ctx context.Context) ([]*domain.TokenSniper, error)
}
