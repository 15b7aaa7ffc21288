// Package cache keeps per-token sniper results in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"genesis-sniper-lab/internal/domain"
	"genesis-sniper-lab/internal/storage"
)

// ErrDisabled indicates the cache layer is disabled via configuration.
var ErrDisabled = errors.New("redis cache disabled")

// ErrMiss is returned when no entry exists for a key.
var ErrMiss = errors.New("cache miss")

// DefaultTTL applies when Config.TTL is not positive.
const DefaultTTL = 5 * time.Minute

// Config represents Redis client configuration options.
type Config struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Cache wraps a Redis client for sniper result caching.
// A nil or disabled Cache returns ErrDisabled from every method.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a new Cache from the provided configuration.
func New(cfg Config) (*Cache, error) {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if !cfg.Enabled {
		return &Cache{ttl: ttl}, nil
	}
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis cache enabled without address")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &Cache{client: client, ttl: ttl}, nil
}

// Enabled reports whether a Redis client is configured.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Ping checks connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the client.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

func snipersKey(symbol string) string {
	return fmt.Sprintf("token:%s:snipers", storage.NormalizeSymbol(symbol))
}

// GetSnipers retrieves cached results for a token. Returns ErrMiss when absent.
func (c *Cache) GetSnipers(ctx context.Context, symbol string) ([]domain.SniperResult, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	payload, err := c.client.Get(ctx, snipersKey(symbol)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get cached snipers: %w", err)
	}

	var results []domain.SniperResult
	if err := json.Unmarshal(payload, &results); err != nil {
		return nil, fmt.Errorf("decode cached snipers: %w", err)
	}
	return results, nil
}

// SetSnipers stores results for a token with the configured TTL.
func (c *Cache) SetSnipers(ctx context.Context, symbol string, results []domain.SniperResult) error {
	if !c.Enabled() {
		return ErrDisabled
	}

	payload, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encode snipers: %w", err)
	}
	return c.client.Set(ctx, snipersKey(symbol), payload, c.ttl).Err()
}

// Invalidate removes a token's cached results.
func (c *Cache) Invalidate(ctx context.Context, symbol string) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	return c.client.Del(ctx, snipersKey(symbol)).Err()
}
