package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"genesis-sniper-lab/internal/domain"
	"genesis-sniper-lab/internal/storage"
)

type runEntry struct {
	run     domain.ScanRun
	results []*domain.TokenSniper
}

// SniperResultStore is an in-memory implementation of storage.SniperResultStore.
type SniperResultStore struct {
	mu   sync.RWMutex
	runs map[string][]runEntry // keyed by symbol, ordered by ComputedAt ASC
}

// NewSniperResultStore creates a new in-memory sniper result store.
func NewSniperResultStore() *SniperResultStore {
	return &SniperResultStore{
		runs: make(map[string][]runEntry),
	}
}

// InsertRun stores one scan run. Returns ErrDuplicateKey if (symbol, computed_at) exists.
func (s *SniperResultStore) InsertRun(_ context.Context, run *domain.ScanRun, results []*domain.TokenSniper) error {
	if run == nil || storage.NormalizeSymbol(run.TokenSymbol) == "" || run.ComputedAt.IsZero() {
		return storage.ErrInvalidInput
	}

	symbol := storage.NormalizeSymbol(run.TokenSymbol)
	computedAt := run.ComputedAt.UTC().Truncate(time.Millisecond)

	seen := make(map[string]struct{}, len(results))
	copies := make([]*domain.TokenSniper, 0, len(results))
	for _, r := range results {
		if r == nil || storage.NormalizeSymbol(r.TokenSymbol) != symbol || !r.ComputedAt.UTC().Truncate(time.Millisecond).Equal(computedAt) {
			return storage.ErrInvalidInput
		}
		if _, dup := seen[r.Wallet]; dup {
			return storage.ErrDuplicateKey
		}
		seen[r.Wallet] = struct{}{}
		copies = append(copies, copyTokenSniper(r))
	}

	sort.Slice(copies, func(i, j int) bool {
		return copies[i].Wallet < copies[j].Wallet
	})

	runCopy := *run
	runCopy.TokenSymbol = symbol
	runCopy.ComputedAt = computedAt

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.runs[symbol] {
		if e.run.ComputedAt.Equal(computedAt) {
			return storage.ErrDuplicateKey
		}
	}

	entries := append(s.runs[symbol], runEntry{run: runCopy, results: copies})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].run.ComputedAt.Before(entries[j].run.ComputedAt)
	})
	s.runs[symbol] = entries
	return nil
}

// GetLatestRun retrieves the newest run for a token. Returns ErrNotFound if never scanned.
func (s *SniperResultStore) GetLatestRun(_ context.Context, symbol string) (*domain.ScanRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.runs[storage.NormalizeSymbol(symbol)]
	if len(entries) == 0 {
		return nil, storage.ErrNotFound
	}
	run := entries[len(entries)-1].run
	return &run, nil
}

// GetByToken retrieves the latest run's results, ordered by wallet ASC.
func (s *SniperResultStore) GetByToken(_ context.Context, symbol string) ([]*domain.TokenSniper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.latest(storage.NormalizeSymbol(symbol)), nil
}

// GetAll retrieves the latest run's results for every token, ordered by token, wallet.
func (s *SniperResultStore) GetAll(_ context.Context) ([]*domain.TokenSniper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	symbols := make([]string, 0, len(s.runs))
	for sym := range s.runs {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	var result []*domain.TokenSniper
	for _, sym := range symbols {
		result = append(result, s.latest(sym)...)
	}
	return result, nil
}

// latest must be called with the lock held.
func (s *SniperResultStore) latest(symbol string) []*domain.TokenSniper {
	entries := s.runs[symbol]
	if len(entries) == 0 {
		return []*domain.TokenSniper{}
	}
	stored := entries[len(entries)-1].results
	result := make([]*domain.TokenSniper, len(stored))
	for i, r := range stored {
		result[i] = copyTokenSniper(r)
	}
	return result
}

func copyTokenSniper(r *domain.TokenSniper) *domain.TokenSniper {
	c := *r
	c.TokenSymbol = storage.NormalizeSymbol(r.TokenSymbol)
	c.ComputedAt = r.ComputedAt.UTC().Truncate(time.Millisecond)
	if r.FirstBuyTime != nil {
		t := *r.FirstBuyTime
		c.FirstBuyTime = &t
	}
	if r.LastSellTime != nil {
		t := *r.LastSellTime
		c.LastSellTime = &t
	}
	return &c
}

var _ storage.SniperResultStore = (*SniperResultStore)(nil)
