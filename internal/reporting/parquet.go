package reporting

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/snappy"

	"genesis-sniper-lab/internal/domain"
	"genesis-sniper-lab/internal/observability"
)

// Output file names written by WriteFiles.
const (
	MarkdownFile = "report.md"
	CSVFile      = "snipers.csv"
	ParquetFile  = "snipers.parquet"
)

// sniperRow is the Parquet schema of one sniper result. Times are Unix ms, 0 when unknown.
type sniperRow struct {
	ResultID        string  `parquet:"result_id"`
	Token           string  `parquet:"token"`
	TokenName       string  `parquet:"token_name"`
	Wallet          string  `parquet:"wallet"`
	LaunchBlock     int64   `parquet:"launch_block"`
	RealizedPnL     float64 `parquet:"realized_pnl"`
	UnrealizedPnL   float64 `parquet:"unrealized_pnl"`
	TokensRemaining float64 `parquet:"tokens_remaining"`
	BuyCount        int32   `parquet:"buy_count"`
	SellCount       int32   `parquet:"sell_count"`
	FirstBuyTimeMs  int64   `parquet:"first_buy_time_ms"`
	LastSellTimeMs  int64   `parquet:"last_sell_time_ms"`
	AvgBuyPrice     float64 `parquet:"avg_buy_price"`
	AvgSellPrice    float64 `parquet:"avg_sell_price"`
	TotalTax        float64 `parquet:"total_tax"`
	TotalFees       float64 `parquet:"total_fees"`
	ComputedAtMs    int64   `parquet:"computed_at_ms"`
}

func toRow(s *domain.TokenSniper) sniperRow {
	row := sniperRow{
		ResultID:        s.ResultID,
		Token:           s.TokenSymbol,
		TokenName:       s.TokenName,
		Wallet:          s.Wallet,
		LaunchBlock:     s.LaunchBlock,
		RealizedPnL:     s.RealizedPnL,
		UnrealizedPnL:   s.UnrealizedPnL,
		TokensRemaining: s.TokensRemaining,
		BuyCount:        int32(s.BuyCount),
		SellCount:       int32(s.SellCount),
		AvgBuyPrice:     s.AvgBuyPrice,
		AvgSellPrice:    s.AvgSellPrice,
		TotalTax:        s.TotalTax,
		TotalFees:       s.TotalFees,
	}
	if s.FirstBuyTime != nil {
		row.FirstBuyTimeMs = s.FirstBuyTime.UnixMilli()
	}
	if s.LastSellTime != nil {
		row.LastSellTimeMs = s.LastSellTime.UnixMilli()
	}
	if !s.ComputedAt.IsZero() {
		row.ComputedAtMs = s.ComputedAt.UnixMilli()
	}
	return row
}

// WriteParquet writes the report's sniper rows as a snappy-compressed Parquet file.
func WriteParquet(w io.Writer, r *Report) error {
	rows := make([]sniperRow, len(r.Snipers))
	for i, s := range r.Snipers {
		rows[i] = toRow(s)
	}

	writer := parquet.NewGenericWriter[sniperRow](w, parquet.Compression(&snappy.Codec{}))
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}

// WriteFiles writes report.md, snipers.csv and snipers.parquet into dir.
func WriteFiles(dir string, r *Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, MarkdownFile), []byte(RenderMarkdown(r)), 0o644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, CSVFile), []byte(RenderCSV(r)), 0o644); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, ParquetFile))
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}
	if err := WriteParquet(f, r); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close parquet file: %w", err)
	}

	observability.RecordReportGenerated()
	return nil
}
