package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"genesis-sniper-lab/internal/domain"
	"genesis-sniper-lab/internal/normalization"
	"genesis-sniper-lab/internal/storage"
	"genesis-sniper-lab/internal/storage/memory"
)

const sampleDataset = `{
  "tokens": [
    {"symbol": "gen", "name": "Genesis", "blockNumber": 4990, "genesisBlock": 5000, "timestamp": "2025-01-01T00:00:00Z"}
  ],
  "swaps": {
    "GEN": [
      {"maker": "0xA", "swapType": "buy", "blockNumber": 5000, "timestamp": 1700000000,
       "GEN_OUT_BeforeTax": "200000", "GEN_OUT_AfterTax": 198000, "genesis_usdc_price": 0.01,
       "transactionFee": 0.00001, "txHash": "0x1"},
      {"maker": "0xA", "swapType": "sell", "blockNumber": 5010, "timestamp": 1700000300,
       "GEN_IN_BeforeTax": 198000, "GEN_IN_AfterTax": 196000, "genesis_usdc_price": 0.02,
       "txHash": "0x2"}
    ]
  }
}`

func TestLoadDataset(t *testing.T) {
	ds, err := LoadDataset(strings.NewReader(sampleDataset))
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if len(ds.Tokens) != 1 || ds.Tokens[0].Name != "Genesis" {
		t.Fatalf("unexpected tokens: %+v", ds.Tokens)
	}
	if ds.Tokens[0].LaunchBlock() != 5000 {
		t.Errorf("LaunchBlock = %d, want 5000", ds.Tokens[0].LaunchBlock())
	}
	recs := ds.Swaps["GEN"]
	if len(recs) != 2 {
		t.Fatalf("expected 2 swaps, got %d", len(recs))
	}
	if _, ok := recs[0]["blockNumber"].(json.Number); !ok {
		t.Errorf("blockNumber decoded as %T, want json.Number", recs[0]["blockNumber"])
	}
	if got := normalization.Number(recs[0], "GEN_OUT_BeforeTax"); got != 200000 {
		t.Errorf("string amount coerced to %v", got)
	}
}

func TestLoadDataset_Invalid(t *testing.T) {
	if _, err := LoadDataset(strings.NewReader(`{"tokens": [`)); err == nil {
		t.Error("expected error for truncated JSON")
	}
	_, err := LoadDataset(strings.NewReader(`{"tokens": [{"name": "no symbol"}]}`))
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestImport_Idempotent(t *testing.T) {
	ctx := context.Background()
	tokens := memory.NewTokenStore()
	swaps := memory.NewSwapStore()
	im := NewImporter(tokens, swaps, nil)

	ds, err := LoadDataset(strings.NewReader(sampleDataset))
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}

	first, err := im.Import(ctx, ds)
	if err != nil {
		t.Fatalf("first Import: %v", err)
	}
	if first.TokensInserted != 1 || first.SwapsInserted != 2 {
		t.Errorf("first import = %+v", first)
	}

	second, err := im.Import(ctx, ds)
	if err != nil {
		t.Fatalf("second Import: %v", err)
	}
	if second.TokensSkipped != 1 || second.BatchesSkipped != 1 || second.SwapsInserted != 0 {
		t.Errorf("second import = %+v", second)
	}

	if n, _ := swaps.CountBySymbol(ctx, "GEN"); n != 2 {
		t.Errorf("stored swaps = %d, want 2", n)
	}
	tok, err := tokens.GetBySymbol(ctx, "GEN")
	if err != nil {
		t.Fatalf("GetBySymbol: %v", err)
	}
	if tok.Symbol != "GEN" {
		t.Errorf("symbol = %q, want upper-cased", tok.Symbol)
	}
}

// recordingInvalidator records invalidated symbols and fails for one of them.
type recordingInvalidator struct {
	symbols []string
	failFor string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, symbol string) error {
	r.symbols = append(r.symbols, symbol)
	if symbol == r.failFor {
		return errors.New("redis down")
	}
	return nil
}

func TestImport_InvalidatesUpdatedSymbols(t *testing.T) {
	ctx := context.Background()
	inv := &recordingInvalidator{failFor: "ZED"}
	im := NewImporter(memory.NewTokenStore(), memory.NewSwapStore(), nil).WithInvalidator(inv)

	ds, err := LoadDataset(strings.NewReader(sampleDataset))
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	first, err := im.Import(ctx, ds)
	if err != nil {
		t.Fatalf("first Import: %v", err)
	}
	if len(first.Updated) != 1 || first.Updated[0] != "GEN" {
		t.Errorf("Updated = %v, want [GEN]", first.Updated)
	}

	// identical re-import stores nothing, so nothing goes stale
	second, err := im.Import(ctx, ds)
	if err != nil {
		t.Fatalf("second Import: %v", err)
	}
	if len(second.Updated) != 0 {
		t.Errorf("re-import Updated = %v, want none", second.Updated)
	}

	more := &Dataset{Swaps: map[string][]domain.RawSwap{
		"gen": {{"maker": "0xB", "swapType": "buy", "txHash": "0x3"}},
		"zed": {{"maker": "0xC", "swapType": "buy", "txHash": "0x4"}},
	}}
	third, err := im.Import(ctx, more)
	if err != nil {
		t.Fatalf("Import with failing invalidation: %v", err)
	}
	if len(third.Updated) != 2 || third.SwapsInserted != 2 {
		t.Errorf("third import = %+v", third)
	}

	want := []string{"GEN", "GEN", "ZED"}
	if strings.Join(inv.symbols, ",") != strings.Join(want, ",") {
		t.Errorf("invalidated %v, want %v", inv.symbols, want)
	}
}
