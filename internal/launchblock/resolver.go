// Package launchblock resolves the reference block a token launched at.
package launchblock

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"genesis-sniper-lab/internal/domain"
	"genesis-sniper-lab/internal/storage"
)

// DefaultTTL is how long a resolved token is memoised.
const DefaultTTL = 10 * time.Minute

// Resolver maps token symbols to launch blocks: the genesis block when the
// catalog knows it, the creation block otherwise.
type Resolver struct {
	tokens storage.TokenStore
	cache  *cache.Cache
	logger *zap.Logger
}

// NewResolver creates a resolver over the token catalog. ttl <= 0 uses DefaultTTL.
func NewResolver(tokens storage.TokenStore, ttl time.Duration, logger *zap.Logger) *Resolver {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		tokens: tokens,
		cache:  cache.New(ttl, ttl/2),
		logger: logger,
	}
}

// Lookup returns the catalog token for symbol, memoised for the TTL.
// Returns storage.ErrNotFound (wrapped) for unknown tokens; misses are not cached.
func (r *Resolver) Lookup(ctx context.Context, symbol string) (*domain.Token, error) {
	key := storage.NormalizeSymbol(symbol)
	if cached, found := r.cache.Get(key); found {
		if token, ok := cached.(domain.Token); ok {
			return &token, nil
		}
	}

	token, err := r.tokens.GetBySymbol(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("resolve launch block for %s: %w", key, err)
	}
	r.Remember(token)
	return token, nil
}

// Resolve returns the launch block for symbol.
func (r *Resolver) Resolve(ctx context.Context, symbol string) (int64, error) {
	token, err := r.Lookup(ctx, symbol)
	if err != nil {
		return 0, err
	}
	return token.LaunchBlock(), nil
}

// Remember caches an already loaded token and returns its launch block.
func (r *Resolver) Remember(token *domain.Token) int64 {
	block := token.LaunchBlock()
	r.cache.Set(storage.NormalizeSymbol(token.Symbol), *token, cache.DefaultExpiration)
	if token.GenesisBlock == nil || *token.GenesisBlock <= 0 {
		r.logger.Debug("genesis block unknown, using creation block",
			zap.String("token", token.Symbol),
			zap.Int64("block", block),
		)
	}
	return block
}

// Invalidate drops the memoised token for symbol.
func (r *Resolver) Invalidate(symbol string) {
	r.cache.Delete(storage.NormalizeSymbol(symbol))
}
