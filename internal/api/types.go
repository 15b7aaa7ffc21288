package api

import "genesis-sniper-lab/internal/domain"

// HealthResponse represents the shape of /healthz responses.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Storage bool   `json:"storage"` // false when no database is configured
	Cache   bool   `json:"cache"`
}

// ErrorResponse is a generic API error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// TokensResponse is the token catalog.
type TokensResponse struct {
	Tokens []*domain.Token `json:"tokens"`
}

// TokenResponse is one token with its swap statistics.
type TokenResponse struct {
	Token       *domain.Token     `json:"token"`
	LaunchBlock int64             `json:"launchBlock"`
	Stats       domain.TokenStats `json:"stats"`
}

// SwapsResponse lists a token's raw swap records, newest first.
type SwapsResponse struct {
	Symbol string           `json:"symbol"`
	Total  int              `json:"total"` // records stored, before limit
	Swaps  []domain.RawSwap `json:"swaps"`
}

// SnipersResponse lists the snipers of one token.
type SnipersResponse struct {
	Symbol  string                `json:"symbol"`
	Snipers []domain.SniperResult `json:"snipers"`
	Cached  bool                  `json:"cached"`
}

// GlobalSnipersResponse lists snipers across every token.
type GlobalSnipersResponse struct {
	Snipers []*domain.TokenSniper `json:"snipers"`
	Tokens  int                   `json:"tokens"`
	Errors  []string              `json:"errors,omitempty"` // tokens that could not be scanned
}
