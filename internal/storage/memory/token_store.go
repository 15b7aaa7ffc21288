package memory

import (
	"context"
	"sort"
	"sync"

	"genesis-sniper-lab/internal/domain"
	"genesis-sniper-lab/internal/storage"
)

// TokenStore is an in-memory implementation of storage.TokenStore.
type TokenStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Token // keyed by symbol
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		data: make(map[string]*domain.Token),
	}
}

// Insert adds a new token. Returns ErrDuplicateKey if symbol exists.
func (s *TokenStore) Insert(_ context.Context, t *domain.Token) error {
	if t == nil || storage.NormalizeSymbol(t.Symbol) == "" {
		return storage.ErrInvalidInput
	}

	tokenCopy := copyToken(t)
	tokenCopy.Symbol = storage.NormalizeSymbol(t.Symbol)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[tokenCopy.Symbol]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[tokenCopy.Symbol] = tokenCopy
	return nil
}

// GetBySymbol retrieves a token by symbol. Returns ErrNotFound if not exists.
func (s *TokenStore) GetBySymbol(_ context.Context, symbol string) (*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[storage.NormalizeSymbol(symbol)]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyToken(t), nil
}

// GetAll retrieves every token, ordered by symbol ASC.
func (s *TokenStore) GetAll(_ context.Context) ([]*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Token, 0, len(s.data))
	for _, t := range s.data {
		result = append(result, copyToken(t))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Symbol < result[j].Symbol
	})
	return result, nil
}

func copyToken(t *domain.Token) *domain.Token {
	c := *t
	if t.GenesisBlock != nil {
		g := *t.GenesisBlock
		c.GenesisBlock = &g
	}
	return &c
}

var _ storage.TokenStore = (*TokenStore)(nil)
