package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genesis-sniper-lab/internal/domain"
	"genesis-sniper-lab/internal/storage"
)

func TestTokenStore_InsertAndGetBySymbol(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTokenStore(pool)

	token := &domain.Token{
		Symbol:       "gen",
		Name:         "Genesis",
		Address:      "0xtoken",
		BlockNumber:  4900,
		GenesisBlock: ptr(int64(5000)),
		LaunchedAt:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		TxHash:       "0xcreate",
	}

	require.NoError(t, store.Insert(ctx, token))

	got, err := store.GetBySymbol(ctx, "GEN")
	require.NoError(t, err)

	assert.Equal(t, "GEN", got.Symbol)
	assert.Equal(t, token.Name, got.Name)
	assert.Equal(t, token.Address, got.Address)
	assert.Equal(t, token.BlockNumber, got.BlockNumber)
	require.NotNil(t, got.GenesisBlock)
	assert.Equal(t, int64(5000), *got.GenesisBlock)
	assert.True(t, token.LaunchedAt.Equal(got.LaunchedAt))
	assert.Equal(t, token.TxHash, got.TxHash)
	assert.Equal(t, int64(5000), got.LaunchBlock())
}

func TestTokenStore_NullableColumns(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTokenStore(pool)

	require.NoError(t, store.Insert(ctx, &domain.Token{Symbol: "BARE", BlockNumber: 42}))

	got, err := store.GetBySymbol(ctx, "BARE")
	require.NoError(t, err)
	assert.Nil(t, got.GenesisBlock)
	assert.True(t, got.LaunchedAt.IsZero())
	assert.Equal(t, int64(42), got.LaunchBlock())
}

func TestTokenStore_Errors(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTokenStore(pool)

	require.NoError(t, store.Insert(ctx, &domain.Token{Symbol: "GEN"}))

	err := store.Insert(ctx, &domain.Token{Symbol: "GEN"})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	_, err = store.GetBySymbol(ctx, "MISSING")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = store.Insert(ctx, &domain.Token{})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestTokenStore_GetAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTokenStore(pool)

	for _, sym := range []string{"ZED", "ALPHA", "MID"} {
		require.NoError(t, store.Insert(ctx, &domain.Token{Symbol: sym}))
	}

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "ALPHA", all[0].Symbol)
	assert.Equal(t, "MID", all[1].Symbol)
	assert.Equal(t, "ZED", all[2].Symbol)
}
