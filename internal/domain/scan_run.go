package domain

import "time"

// ScanRun records one engine pass over a token's history.
// Corresponds to sniper_runs table in ClickHouse.
type ScanRun struct {
	TokenSymbol string    // upper-case token symbol
	LaunchBlock int64     // reference block used for early entry
	SwapCount   int       // normalized events fed to the engine
	SniperCount int       // wallets classified as snipers
	ComputedAt  time.Time // run instant, millisecond precision
}
