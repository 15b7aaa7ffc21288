// Package api serves tokens, swaps and sniper results over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"genesis-sniper-lab/internal/cache"
	"genesis-sniper-lab/internal/observability"
	"genesis-sniper-lab/internal/scan"
	"genesis-sniper-lab/internal/storage"
)

// Server bundles dependencies for the HTTP API.
type Server struct {
	router  *chi.Mux
	tokens  storage.TokenStore
	swaps   storage.SwapStore
	runner  *scan.Runner
	cache   *cache.Cache
	logger  *zap.Logger
	started time.Time
}

// Options for creating Server. Without stores every data route answers 503.
type Options struct {
	TokenStore storage.TokenStore
	SwapStore  storage.SwapStore
	Runner     *scan.Runner // defaults to a runner over the stores
	Cache      *cache.Cache // nil or disabled skips caching
	Logger     *zap.Logger
}

// NewServer constructs a Server with registered routes.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	runner := opts.Runner
	if runner == nil && opts.TokenStore != nil && opts.SwapStore != nil {
		runner = scan.New(scan.Options{
			TokenStore: opts.TokenStore,
			SwapStore:  opts.SwapStore,
			Logger:     logger,
		})
	}

	s := &Server{
		router:  chi.NewRouter(),
		tokens:  opts.TokenStore,
		swaps:   opts.SwapStore,
		runner:  runner,
		cache:   opts.Cache,
		logger:  logger.Named("api"),
		started: time.Now(),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.instrument)

	s.router.Get("/healthz", s.healthzHandler)
	s.router.Method(http.MethodGet, "/metrics", observability.Handler())
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/tokens", s.tokensHandler)
		r.Get("/token/{symbol}", s.tokenHandler)
		r.Get("/token/{symbol}/swaps", s.swapsHandler)
		r.Get("/token/{symbol}/snipers", s.snipersHandler)
		r.Get("/global-snipers", s.globalSnipersHandler)
	})

	return s
}

// Handler exposes the underlying router for integration tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// instrument records request count and latency per route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.RecordHTTPRequest(route, status, time.Since(start).Seconds())
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}
}
