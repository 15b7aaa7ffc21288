package sniper

import (
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"genesis-sniper-lab/internal/domain"
	"genesis-sniper-lab/internal/normalization"
)

// Batch is one token's complete, normalized swap history.
type Batch struct {
	Symbol      string             // upper-case token symbol
	Events      []domain.SwapEvent // any order; never mutated
	LaunchBlock int64              // reference block for early entry
}

// Engine runs the detection pipeline. It holds no per-run state and is safe
// for concurrent use.
type Engine struct {
	cfg    Config
	logger *zap.Logger
}

// NewEngine creates an engine. A nil logger disables logging.
func NewEngine(cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.WalletWorkers <= 0 {
		cfg.WalletWorkers = DefaultWalletWorkers
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Config returns the engine's policy.
func (e *Engine) Config() Config {
	return e.cfg
}

// Run detects snipers in b and returns one result per sniper wallet.
// An empty batch yields an empty, non-nil slice.
func (e *Engine) Run(b Batch) []domain.SniperResult {
	if len(b.Events) == 0 {
		return []domain.SniperResult{}
	}

	events := make([]domain.SwapEvent, len(b.Events))
	copy(events, b.Events)
	normalization.SortEvents(events)

	log := e.logger.With(zap.String("token", b.Symbol), zap.Int64("launch_block", b.LaunchBlock))

	chunked := ChunkLargeBuys(events, e.cfg.VolumeThreshold, e.cfg.ChunkWindow)
	log.Debug("chunk aggregation done", zap.Int("events", len(events)), zap.Int("chunked_buys", len(chunked)))

	sells := make([]domain.SwapEvent, 0, len(events))
	for _, ev := range events {
		if ev.IsSell() {
			sells = append(sells, ev)
		}
	}
	wallets := Classify(chunked, normalization.GroupByWallet(sells), b.LaunchBlock, e.cfg)
	log.Debug("classification done", zap.Int("snipers", len(wallets)))

	if len(wallets) == 0 {
		return []domain.SniperResult{}
	}

	latestPrice := normalization.LatestPrice(events, b.Symbol)
	histories := normalization.GroupByWallet(events)

	p := pool.NewWithResults[LedgerResult]().WithMaxGoroutines(e.cfg.WalletWorkers)
	for _, wallet := range wallets {
		wallet := wallet
		history := histories[wallet]
		p.Go(func() LedgerResult {
			return ReplayWallet(wallet, history, latestPrice, e.cfg.SellMatchBasis)
		})
	}
	ledgers := p.Wait()

	results := Assemble(ledgers, e.cfg.Precision)
	for _, r := range results {
		log.Info("sniper detected",
			zap.String("wallet", r.Wallet),
			zap.Float64("realized_pnl", r.RealizedPnL),
			zap.Float64("tokens_remaining", r.TokensRemaining),
		)
	}
	return results
}
