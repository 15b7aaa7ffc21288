package memory

import (
	"context"
	"maps"
	"sync"

	"genesis-sniper-lab/internal/domain"
	"genesis-sniper-lab/internal/storage"
)

// SwapStore is an in-memory implementation of storage.SwapStore.
type SwapStore struct {
	mu       sync.RWMutex
	bySymbol map[string][]domain.RawSwap // insertion order per token
	keys     map[string]struct{}         // swap keys across all tokens
}

// NewSwapStore creates a new in-memory swap store.
func NewSwapStore() *SwapStore {
	return &SwapStore{
		bySymbol: make(map[string][]domain.RawSwap),
		keys:     make(map[string]struct{}),
	}
}

// InsertBulk appends records atomically. Fails entire batch on any duplicate.
func (s *SwapStore) InsertBulk(_ context.Context, symbol string, records []domain.RawSwap) error {
	symbol = storage.NormalizeSymbol(symbol)
	if symbol == "" {
		return storage.ErrInvalidInput
	}
	if len(records) == 0 {
		return nil
	}
	for _, r := range records {
		if r == nil {
			return storage.ErrInvalidInput
		}
	}

	keys := storage.SwapKeys(symbol, records)

	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: check for duplicates
	for _, k := range keys {
		if _, exists := s.keys[k]; exists {
			return storage.ErrDuplicateKey
		}
	}

	// Second pass: insert all
	for i, r := range records {
		s.keys[keys[i]] = struct{}{}
		s.bySymbol[symbol] = append(s.bySymbol[symbol], maps.Clone(r))
	}
	return nil
}

// GetBySymbol retrieves all records for a token in insertion order.
func (s *SwapStore) GetBySymbol(_ context.Context, symbol string) ([]domain.RawSwap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.bySymbol[storage.NormalizeSymbol(symbol)]
	result := make([]domain.RawSwap, len(stored))
	for i, r := range stored {
		result[i] = maps.Clone(r)
	}
	return result, nil
}

// CountBySymbol returns the number of stored records for a token.
func (s *SwapStore) CountBySymbol(_ context.Context, symbol string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.bySymbol[storage.NormalizeSymbol(symbol)]), nil
}

var _ storage.SwapStore = (*SwapStore)(nil)
