// Package scan runs sniper detection over the token catalog.
// For each token it coordinates: raw swaps → normalization → launch block →
// engine → result store.
package scan

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"genesis-sniper-lab/internal/domain"
	"genesis-sniper-lab/internal/idhash"
	"genesis-sniper-lab/internal/launchblock"
	"genesis-sniper-lab/internal/normalization"
	"genesis-sniper-lab/internal/observability"
	"genesis-sniper-lab/internal/sniper"
	"genesis-sniper-lab/internal/storage"
)

// DefaultTokenWorkers bounds concurrent token scans.
const DefaultTokenWorkers = 4

// Runner coordinates per-token detection.
type Runner struct {
	tokens   storage.TokenStore
	swaps    storage.SwapStore
	results  storage.SniperResultStore
	resolver *launchblock.Resolver
	engine   *sniper.Engine
	workers  int
	logger   *zap.Logger
	now      func() time.Time
}

// Options for creating Runner.
type Options struct {
	// Required
	TokenStore storage.TokenStore
	SwapStore  storage.SwapStore

	// Optional
	ResultStore  storage.SniperResultStore // nil disables persistence in Run/RunToken
	Resolver     *launchblock.Resolver     // defaults to a resolver over TokenStore
	Engine       *sniper.Engine            // defaults to sniper.DefaultConfig()
	TokenWorkers int                       // defaults to DefaultTokenWorkers
	Logger       *zap.Logger
	Now          func() time.Time
}

// New creates a new Runner.
func New(opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = launchblock.NewResolver(opts.TokenStore, 0, logger)
	}
	engine := opts.Engine
	if engine == nil {
		engine = sniper.NewEngine(sniper.DefaultConfig(), logger)
	}
	workers := opts.TokenWorkers
	if workers <= 0 {
		workers = DefaultTokenWorkers
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Runner{
		tokens:   opts.TokenStore,
		swaps:    opts.SwapStore,
		results:  opts.ResultStore,
		resolver: resolver,
		engine:   engine,
		workers:  workers,
		logger:   logger.Named("scan"),
		now:      now,
	}
}

// TokenReport is one token's detection output.
type TokenReport struct {
	Token       *domain.Token
	LaunchBlock int64
	RawCount    int               // raw records loaded
	Stats       domain.TokenStats // over normalized events
	Results     []domain.SniperResult
	ComputedAt  time.Time
}

// Tagged returns the report's results tagged with their token.
func (r *TokenReport) Tagged() []*domain.TokenSniper {
	tagged := make([]*domain.TokenSniper, 0, len(r.Results))
	for _, res := range r.Results {
		tagged = append(tagged, &domain.TokenSniper{
			SniperResult: res,
			ResultID:     idhash.ComputeResultID(r.Token.Symbol, res.Wallet),
			TokenSymbol:  r.Token.Symbol,
			TokenName:    r.Token.Name,
			LaunchBlock:  r.LaunchBlock,
			ComputedAt:   r.ComputedAt,
		})
	}
	return tagged
}

// Run describes the report as a stored scan run.
func (r *TokenReport) Run() domain.ScanRun {
	return domain.ScanRun{
		TokenSymbol: r.Token.Symbol,
		LaunchBlock: r.LaunchBlock,
		SwapCount:   r.Stats.TotalSwaps,
		SniperCount: len(r.Results),
		ComputedAt:  r.ComputedAt,
	}
}

// RunResult contains results from a catalog scan.
type RunResult struct {
	TokensProcessed int
	TokensFailed    int
	SnipersFound    int
	Reports         []*TokenReport // successful tokens, ordered by symbol
	Errors          []string
	Duration        time.Duration
}

// Lookup returns the catalog token for symbol through the launch block memo.
// Returns storage.ErrNotFound (wrapped) for unknown tokens.
func (r *Runner) Lookup(ctx context.Context, symbol string) (*domain.Token, error) {
	token, err := r.resolver.Lookup(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("load token %s: %w", storage.NormalizeSymbol(symbol), err)
	}
	return token, nil
}

// Detect runs the pipeline for one token without persisting.
// Returns storage.ErrNotFound (wrapped) for unknown tokens.
func (r *Runner) Detect(ctx context.Context, symbol string) (*TokenReport, error) {
	token, err := r.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return r.DetectToken(ctx, token)
}

// DetectToken runs the pipeline for an already loaded token without persisting.
func (r *Runner) DetectToken(ctx context.Context, token *domain.Token) (*TokenReport, error) {
	raw, err := r.swaps.GetBySymbol(ctx, token.Symbol)
	if err != nil {
		return nil, fmt.Errorf("load swaps for %s: %w", token.Symbol, err)
	}

	events := normalization.NormalizeAll(raw, token.Symbol)
	observability.RecordNormalization(len(raw), len(events))

	launch := r.resolver.Remember(token)

	start := time.Now()
	results := r.engine.Run(sniper.Batch{
		Symbol:      token.Symbol,
		Events:      events,
		LaunchBlock: launch,
	})
	observability.RecordEngineRun(time.Since(start).Seconds(), len(results))

	r.logger.Debug("token detected",
		zap.String("token", token.Symbol),
		zap.Int("raw", len(raw)),
		zap.Int("events", len(events)),
		zap.Int64("launch_block", launch),
		zap.Int("snipers", len(results)),
	)

	return &TokenReport{
		Token:       token,
		LaunchBlock: launch,
		RawCount:    len(raw),
		Stats:       normalization.ComputeStats(events),
		Results:     results,
		ComputedAt:  r.now().UTC().Truncate(time.Millisecond),
	}, nil
}

// RunToken detects one token and persists the run when a result store is set.
func (r *Runner) RunToken(ctx context.Context, symbol string) (*TokenReport, error) {
	report, err := r.Detect(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if err := r.persist(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// Run scans every catalog token with bounded concurrency and persists each
// run. A failing token is recorded in Errors and does not stop the others.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	return r.scanAll(ctx, true)
}

// DetectAll is Run without persistence.
func (r *Runner) DetectAll(ctx context.Context) (*RunResult, error) {
	return r.scanAll(ctx, false)
}

func (r *Runner) scanAll(ctx context.Context, persist bool) (*RunResult, error) {
	started := time.Now()

	tokens, err := r.tokens.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load token catalog: %w", err)
	}
	r.logger.Info("scan started", zap.Int("tokens", len(tokens)), zap.Bool("persist", persist))

	reports := make([]*TokenReport, len(tokens))
	var (
		mu   sync.Mutex
		errs []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, token := range tokens {
		i, token := i, token
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			tokenStart := time.Now()
			report, err := r.DetectToken(gctx, token)
			if err == nil && persist {
				err = r.persist(gctx, report)
			}
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				observability.RecordTokenScan("error", time.Since(tokenStart).Seconds())
				r.logger.Warn("token scan failed", zap.String("token", token.Symbol), zap.Error(err))
				mu.Lock()
				errs = append(errs, fmt.Sprintf("scan %s: %v", token.Symbol, err))
				mu.Unlock()
				return nil
			}

			observability.RecordTokenScan("ok", time.Since(tokenStart).Seconds())
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan aborted: %w", err)
	}

	result := &RunResult{
		TokensProcessed: len(tokens),
	}
	sort.Strings(errs)
	result.Errors = errs
	for _, rep := range reports {
		if rep == nil {
			result.TokensFailed++
			continue
		}
		result.Reports = append(result.Reports, rep)
		result.SnipersFound += len(rep.Results)
	}
	result.Duration = time.Since(started)
	observability.RecordScanRun(result.Duration.Seconds(), result.TokensFailed)

	r.logger.Info("scan completed",
		zap.Int("tokens", result.TokensProcessed),
		zap.Int("failed", result.TokensFailed),
		zap.Int("snipers", result.SnipersFound),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

// persist stores a report's run. No-op without a result store.
func (r *Runner) persist(ctx context.Context, report *TokenReport) error {
	if r.results == nil {
		return nil
	}

	run := report.Run()
	start := time.Now()
	err := r.results.InsertRun(ctx, &run, report.Tagged())
	observability.RecordDBQuery("results", "insert_run", time.Since(start).Seconds(), err)
	if err != nil {
		return fmt.Errorf("store results for %s: %w", report.Token.Symbol, err)
	}
	return nil
}
