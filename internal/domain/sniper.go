package domain

import "time"

// SniperResult is the per-wallet accounting output for one token.
// Monetary and quantity fields are rounded at the engine boundary.
type SniperResult struct {
	Wallet          string     `json:"wallet"`
	RealizedPnL     float64    `json:"realizedPnL"`
	UnrealizedPnL   float64    `json:"unrealizedPnL"` // remaining tokens valued at latest price
	TokensRemaining float64    `json:"tokensRemaining"`
	BuyCount        int        `json:"buyCount"`
	SellCount       int        `json:"sellCount"`
	FirstBuyTime    *time.Time `json:"firstBuyTime"` // nil when no buy has a resolvable time
	LastSellTime    *time.Time `json:"lastSellTime"`
	AvgBuyPrice     float64    `json:"avgBuyPrice"`
	AvgSellPrice    float64    `json:"avgSellPrice"`
	TotalTax        float64    `json:"totalTax"`
	TotalFees       float64    `json:"totalFees"`
}

// TokenSniper is a SniperResult tagged with its token, as stored and served
// by cross-token views.
type TokenSniper struct {
	SniperResult
	ResultID    string    `json:"id"`        // idhash.ComputeResultID(symbol, wallet)
	TokenSymbol string    `json:"token"`     // token symbol
	TokenName   string    `json:"tokenName"` // token display name
	LaunchBlock int64     `json:"launchBlock"`
	ComputedAt  time.Time `json:"computedAt"`
}
