// Package ingestion imports token catalogs and raw swap records exported by
// the collector into the stores.
package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"go.uber.org/zap"

	"genesis-sniper-lab/internal/domain"
	"genesis-sniper-lab/internal/storage"
)

// Dataset is the import file layout:
//
//	{"tokens": [{"symbol": "GEN", ...}], "swaps": {"GEN": [{...raw record...}]}}
type Dataset struct {
	Tokens []*domain.Token             `json:"tokens"`
	Swaps  map[string][]domain.RawSwap `json:"swaps"` // keyed by token symbol
}

// ImportResult summarizes one import.
type ImportResult struct {
	TokensInserted int
	TokensSkipped  int // already in the catalog
	SwapsInserted  int
	BatchesSkipped int      // swap batches already stored
	Updated        []string // symbols that received new swaps, sorted
}

// LoadDataset decodes a dataset. Numbers are kept as json.Number so large
// block numbers and amounts survive untouched.
func LoadDataset(r io.Reader) (*Dataset, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var ds Dataset
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	for i, t := range ds.Tokens {
		if t == nil || storage.NormalizeSymbol(t.Symbol) == "" {
			return nil, fmt.Errorf("token %d: %w", i, storage.ErrInvalidInput)
		}
	}
	return &ds, nil
}

// LoadDatasetFile reads a dataset from path.
func LoadDatasetFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return LoadDataset(f)
}

// Invalidator drops state derived from a token's swaps.
type Invalidator interface {
	Invalidate(ctx context.Context, symbol string) error
}

// Importer writes datasets into the stores.
type Importer struct {
	tokens      storage.TokenStore
	swaps       storage.SwapStore
	invalidator Invalidator
	logger      *zap.Logger
}

// NewImporter creates a new Importer.
func NewImporter(tokens storage.TokenStore, swaps storage.SwapStore, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{tokens: tokens, swaps: swaps, logger: logger.Named("ingestion")}
}

// WithInvalidator sets what is invalidated for every symbol that gains swaps.
// Invalidation failures are logged and do not fail the import.
func (im *Importer) WithInvalidator(inv Invalidator) *Importer {
	im.invalidator = inv
	return im
}

// Import inserts tokens, then each symbol's swaps as one batch.
// Rows that already exist are skipped, so re-importing a file is a no-op.
func (im *Importer) Import(ctx context.Context, ds *Dataset) (*ImportResult, error) {
	result := &ImportResult{}

	for _, t := range ds.Tokens {
		err := im.tokens.Insert(ctx, t)
		switch {
		case err == nil:
			result.TokensInserted++
		case errors.Is(err, storage.ErrDuplicateKey):
			result.TokensSkipped++
		default:
			return nil, fmt.Errorf("insert token %s: %w", t.Symbol, err)
		}
	}

	symbols := make([]string, 0, len(ds.Swaps))
	for sym := range ds.Swaps {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	for _, sym := range symbols {
		records := ds.Swaps[sym]
		err := im.swaps.InsertBulk(ctx, sym, records)
		switch {
		case err == nil:
			result.SwapsInserted += len(records)
			result.Updated = append(result.Updated, storage.NormalizeSymbol(sym))
			im.invalidate(ctx, sym)
		case errors.Is(err, storage.ErrDuplicateKey):
			result.BatchesSkipped++
			im.logger.Info("swap batch already stored", zap.String("token", storage.NormalizeSymbol(sym)), zap.Int("records", len(records)))
		default:
			return nil, fmt.Errorf("insert swaps for %s: %w", storage.NormalizeSymbol(sym), err)
		}
	}

	im.logger.Info("dataset imported",
		zap.Int("tokens_inserted", result.TokensInserted),
		zap.Int("tokens_skipped", result.TokensSkipped),
		zap.Int("swaps_inserted", result.SwapsInserted),
		zap.Int("batches_skipped", result.BatchesSkipped),
	)
	return result, nil
}

func (im *Importer) invalidate(ctx context.Context, symbol string) {
	if im.invalidator == nil {
		return
	}
	if err := im.invalidator.Invalidate(ctx, storage.NormalizeSymbol(symbol)); err != nil {
		im.logger.Warn("invalidate after import failed", zap.String("token", storage.NormalizeSymbol(symbol)), zap.Error(err))
	}
}
