package api

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"genesis-sniper-lab/internal/cache"
	"genesis-sniper-lab/internal/domain"
	"genesis-sniper-lab/internal/normalization"
	"genesis-sniper-lab/internal/observability"
	"genesis-sniper-lab/internal/storage"
)

const maxSwapsLimit = 1000

var errStorageUnavailable = errors.New("storage unavailable")

func (s *Server) healthzHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Uptime:  time.Since(s.started).Round(time.Millisecond).String(),
		Storage: s.available(),
		Cache:   s.cache.Enabled(),
	})
}

func (s *Server) available() bool {
	return s.tokens != nil && s.swaps != nil && s.runner != nil
}

// writeError maps storage errors onto status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "token not found"})
	case errors.Is(err, storage.ErrInvalidInput):
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
	default:
		s.logger.Warn("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		s.writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: errStorageUnavailable.Error()})
	}
}

func (s *Server) tokensHandler(w http.ResponseWriter, r *http.Request) {
	if !s.available() {
		s.writeError(w, r, errStorageUnavailable)
		return
	}

	tokens, err := s.tokens.GetAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if tokens == nil {
		tokens = []*domain.Token{}
	}
	s.writeJSON(w, http.StatusOK, TokensResponse{Tokens: tokens})
}

func (s *Server) tokenHandler(w http.ResponseWriter, r *http.Request) {
	if !s.available() {
		s.writeError(w, r, errStorageUnavailable)
		return
	}

	ctx := r.Context()
	symbol := storage.NormalizeSymbol(chi.URLParam(r, "symbol"))

	token, err := s.runner.Lookup(ctx, symbol)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	raw, err := s.swaps.GetBySymbol(ctx, symbol)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	events := normalization.NormalizeAll(raw, symbol)
	s.writeJSON(w, http.StatusOK, TokenResponse{
		Token:       token,
		LaunchBlock: token.LaunchBlock(),
		Stats:       normalization.ComputeStats(events),
	})
}

func (s *Server) swapsHandler(w http.ResponseWriter, r *http.Request) {
	if !s.available() {
		s.writeError(w, r, errStorageUnavailable)
		return
	}

	limit := maxSwapsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = min(n, maxSwapsLimit)
	}

	ctx := r.Context()
	symbol := storage.NormalizeSymbol(chi.URLParam(r, "symbol"))

	if _, err := s.tokens.GetBySymbol(ctx, symbol); err != nil {
		s.writeError(w, r, err)
		return
	}
	raw, err := s.swaps.GetBySymbol(ctx, symbol)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	total := len(raw)
	raw = newestFirst(raw)
	if len(raw) > limit {
		raw = raw[:limit]
	}
	s.writeJSON(w, http.StatusOK, SwapsResponse{Symbol: symbol, Total: total, Swaps: raw})
}

// newestFirst orders records by resolved instant DESC; later-stored records
// come first on equal instants.
func newestFirst(raw []domain.RawSwap) []domain.RawSwap {
	type stamped struct {
		ts  int64
		idx int
	}
	keys := make([]stamped, len(raw))
	for i, rec := range raw {
		keys[i] = stamped{ts: normalization.ResolveTimestamp(rec), idx: i}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ts != keys[j].ts {
			return keys[i].ts > keys[j].ts
		}
		return keys[i].idx > keys[j].idx
	})

	out := make([]domain.RawSwap, len(raw))
	for i, k := range keys {
		out[i] = raw[k.idx]
	}
	return out
}

func (s *Server) snipersHandler(w http.ResponseWriter, r *http.Request) {
	if !s.available() {
		s.writeError(w, r, errStorageUnavailable)
		return
	}

	ctx := r.Context()
	symbol := storage.NormalizeSymbol(chi.URLParam(r, "symbol"))

	cached, err := s.cache.GetSnipers(ctx, symbol)
	switch {
	case err == nil:
		observability.RecordCacheLookup("hit")
		s.writeJSON(w, http.StatusOK, SnipersResponse{Symbol: symbol, Snipers: cached, Cached: true})
		return
	case errors.Is(err, cache.ErrMiss):
		observability.RecordCacheLookup("miss")
	case errors.Is(err, cache.ErrDisabled):
	default:
		observability.RecordCacheLookup("error")
		s.logger.Warn("cache get failed", zap.String("token", symbol), zap.Error(err))
	}

	report, err := s.runner.Detect(ctx, symbol)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	results := report.Results
	if results == nil {
		results = []domain.SniperResult{}
	}

	if err := s.cache.SetSnipers(ctx, symbol, results); err != nil && !errors.Is(err, cache.ErrDisabled) {
		s.logger.Warn("cache set failed", zap.String("token", symbol), zap.Error(err))
	}

	s.writeJSON(w, http.StatusOK, SnipersResponse{Symbol: symbol, Snipers: results})
}

func (s *Server) globalSnipersHandler(w http.ResponseWriter, r *http.Request) {
	if !s.available() {
		s.writeError(w, r, errStorageUnavailable)
		return
	}

	result, err := s.runner.DetectAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	snipers := make([]*domain.TokenSniper, 0, result.SnipersFound)
	for _, report := range result.Reports {
		snipers = append(snipers, report.Tagged()...)
	}
	s.writeJSON(w, http.StatusOK, GlobalSnipersResponse{
		Snipers: snipers,
		Tokens:  result.TokensProcessed,
		Errors:  result.Errors,
	})
}
