package reporting

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"

	"genesis-sniper-lab/internal/domain"
	"genesis-sniper-lab/internal/storage/memory"
)

var (
	computedAt  = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	generatedAt = time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC)
	firstBuy    = time.UnixMilli(1700000000000).UTC()
)

func sniper(symbol, wallet string, realized, unrealized, remaining float64) *domain.TokenSniper {
	return &domain.TokenSniper{
		SniperResult: domain.SniperResult{
			Wallet:          wallet,
			RealizedPnL:     realized,
			UnrealizedPnL:   unrealized,
			TokensRemaining: remaining,
			BuyCount:        1,
			SellCount:       1,
			FirstBuyTime:    &firstBuy,
			AvgBuyPrice:     0.01,
			AvgSellPrice:    0.02,
		},
		ResultID:    symbol + ":" + wallet,
		TokenSymbol: symbol,
		TokenName:   symbol + " Token",
		LaunchBlock: 5000,
		ComputedAt:  computedAt,
	}
}

func testReport() *Report {
	runs := []domain.ScanRun{
		{TokenSymbol: "GEN", LaunchBlock: 5000, SwapCount: 12, SniperCount: 2, ComputedAt: computedAt},
		{TokenSymbol: "AAA", LaunchBlock: 100, SwapCount: 3, SniperCount: 0, ComputedAt: computedAt},
	}
	snipers := []*domain.TokenSniper{
		sniper("GEN", "0xb", 10, 1, 100),
		sniper("GEN", "0xa", 1940.202, 40, 2000),
	}
	return BuildReport(runs, snipers, []string{"scan ZZZ: boom"}, generatedAt)
}

func TestBuildReport_GroupsByToken(t *testing.T) {
	r := testReport()

	if len(r.Tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(r.Tokens))
	}
	if r.Tokens[0].Symbol != "AAA" || r.Tokens[1].Symbol != "GEN" {
		t.Errorf("tokens not sorted by symbol: %s, %s", r.Tokens[0].Symbol, r.Tokens[1].Symbol)
	}

	gen := r.Tokens[1]
	if gen.SniperCount != 2 || gen.SwapCount != 12 {
		t.Errorf("GEN counts = %d snipers, %d swaps", gen.SniperCount, gen.SwapCount)
	}
	if gen.Name != "GEN Token" {
		t.Errorf("GEN name = %q", gen.Name)
	}
	if d := gen.TotalRealized - 1950.202; d > 1e-9 || d < -1e-9 {
		t.Errorf("TotalRealized = %v", gen.TotalRealized)
	}
	if r.Tokens[0].SniperCount != 0 {
		t.Errorf("AAA snipers = %d, want 0", r.Tokens[0].SniperCount)
	}

	if r.Snipers[0].Wallet != "0xa" || r.Snipers[1].Wallet != "0xb" {
		t.Errorf("snipers not sorted by wallet")
	}

	snipers, realized, unrealized := r.Totals()
	if snipers != 2 || unrealized != 41 {
		t.Errorf("Totals = %d, %v, %v", snipers, realized, unrealized)
	}
}

func TestBuildReport_SniperWithoutRun(t *testing.T) {
	r := BuildReport(nil, []*domain.TokenSniper{sniper("XYZ", "0xa", 1, 0, 0)}, nil, generatedAt)
	if len(r.Tokens) != 1 || r.Tokens[0].Symbol != "XYZ" || r.Tokens[0].SniperCount != 1 {
		t.Fatalf("unexpected tokens: %+v", r.Tokens)
	}
	if r.Tokens[0].LaunchBlock != 5000 {
		t.Errorf("LaunchBlock = %d, want 5000 from the sniper row", r.Tokens[0].LaunchBlock)
	}
}

func TestRenderMarkdown_Format(t *testing.T) {
	md := RenderMarkdown(testReport())

	required := []string{
		"# Sniper Scan Report",
		"Generated: 2025-03-02T09:30:00Z",
		"Tokens: 2 | Snipers: 2",
		"## Tokens",
		"| GEN | GEN Token | 5000 | 12 | 2 | 1950.2020 | 41.0000 | 2100.0000 |",
		"## Snipers",
		"| GEN | `0xa` | 1 | 1 | 0.010000 | 0.020000 | 1940.2020 | 40.0000 | 2000.0000 |",
		"## Errors",
		"- scan ZZZ: boom",
	}
	for _, s := range required {
		if !strings.Contains(md, s) {
			t.Errorf("markdown missing %q", s)
		}
	}
}

func TestRenderMarkdown_Empty(t *testing.T) {
	md := RenderMarkdown(BuildReport(nil, nil, nil, generatedAt))
	if !strings.Contains(md, "No tokens scanned.") || !strings.Contains(md, "No snipers detected.") {
		t.Errorf("empty report missing placeholders:\n%s", md)
	}
	if strings.Contains(md, "## Errors") {
		t.Error("empty report should not render errors section")
	}
}

func TestRenderCSV_DeterministicOrder(t *testing.T) {
	r := testReport()
	csv1 := RenderCSV(r)
	csv2 := RenderCSV(r)
	if csv1 != csv2 {
		t.Fatal("CSV output is not deterministic")
	}

	lines := strings.Split(strings.TrimSpace(csv1), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "token,wallet,realized_pnl") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "GEN,0xa,1940.2020,40.0000,2000.0000,1,1,2023-11-14T22:13:20Z,,") {
		t.Errorf("unexpected first row: %s", lines[1])
	}
}

func TestRenderCSV_QuotesAndPrecision(t *testing.T) {
	s := sniper("GEN", "0xa,0xb", 1, 0, 0)
	s.TotalFees = 0.0001
	r := BuildReport(nil, []*domain.TokenSniper{s}, nil, generatedAt)

	records, err := csv.NewReader(strings.NewReader(RenderCSV(r))).ReadAll()
	if err != nil {
		t.Fatalf("rendered CSV does not parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(records))
	}
	row := records[1]
	if len(row) != len(records[0]) {
		t.Fatalf("row has %d cells, header %d", len(row), len(records[0]))
	}
	if row[1] != "0xa,0xb" {
		t.Errorf("wallet = %q, want comma preserved", row[1])
	}
	if got := row[len(row)-1]; got != "0.0001" {
		t.Errorf("total_fees = %q, want 0.0001", got)
	}
}

func TestWriteParquet_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteParquet(&buf, testReport()); err != nil {
		t.Fatalf("WriteParquet: %v", err)
	}

	rows, err := parquet.Read[sniperRow](bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("read parquet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	got := rows[0]
	if got.Token != "GEN" || got.Wallet != "0xa" || got.ResultID != "GEN:0xa" {
		t.Errorf("unexpected row identity: %+v", got)
	}
	if got.RealizedPnL != 1940.202 || got.BuyCount != 1 {
		t.Errorf("unexpected row values: %+v", got)
	}
	if got.FirstBuyTimeMs != 1700000000000 || got.LastSellTimeMs != 0 {
		t.Errorf("unexpected times: first=%d last=%d", got.FirstBuyTimeMs, got.LastSellTimeMs)
	}
	if got.ComputedAtMs != computedAt.UnixMilli() {
		t.Errorf("ComputedAtMs = %d", got.ComputedAtMs)
	}
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	if err := WriteFiles(dir, testReport()); err != nil {
		t.Fatalf("WriteFiles: %v", err)
	}
	for _, name := range []string{MarkdownFile, CSVFile, ParquetFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("stat %s: %v", name, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestGenerate_WithClock(t *testing.T) {
	ctx := context.Background()
	tokens := memory.NewTokenStore()
	results := memory.NewSniperResultStore()

	for _, sym := range []string{"GEN", "NEW"} {
		if err := tokens.Insert(ctx, &domain.Token{Symbol: sym, Name: sym + " Token"}); err != nil {
			t.Fatalf("Insert token failed: %v", err)
		}
	}
	run := &domain.ScanRun{TokenSymbol: "GEN", LaunchBlock: 5000, SwapCount: 2, SniperCount: 1, ComputedAt: computedAt}
	if err := results.InsertRun(ctx, run, []*domain.TokenSniper{sniper("GEN", "0xa", 5, 1, 10)}); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}

	gen := NewGenerator(tokens, results).WithClock(func() time.Time { return generatedAt })
	r1, err := gen.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	r2, err := gen.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !r1.GeneratedAt.Equal(generatedAt) {
		t.Errorf("GeneratedAt = %v", r1.GeneratedAt)
	}
	if RenderMarkdown(r1) != RenderMarkdown(r2) {
		t.Error("reports are not deterministic")
	}
	// NEW was never scanned.
	if len(r1.Tokens) != 1 || r1.Tokens[0].Symbol != "GEN" {
		t.Fatalf("unexpected tokens: %+v", r1.Tokens)
	}
	if r1.Tokens[0].SniperCount != 1 || r1.Tokens[0].SwapCount != 2 {
		t.Errorf("unexpected GEN summary: %+v", r1.Tokens[0])
	}
}
