// Package sniper detects sniper wallets in a token's swap history and computes
// their FIFO profit and loss.
//
// The engine runs four stages over one in-memory batch:
// chunk aggregation → heuristic classification → FIFO ledger → result assembly.
package sniper

import (
	"errors"
	"fmt"
	"time"
)

// SellMatchBasis selects which sell quantity consumes FIFO inventory.
type SellMatchBasis string

// Sell match basis constants
const (
	// MatchAfterTax consumes lots with the tokens delivered to the pool.
	MatchAfterTax SellMatchBasis = "after_tax"
	// MatchBeforeTax consumes lots with the tokens debited from the wallet.
	MatchBeforeTax SellMatchBasis = "before_tax"
)

// Default policy values.
const (
	DefaultVolumeThreshold   = 100000.0
	DefaultChunkWindow       = 10 * time.Minute
	DefaultFeeThreshold      = 0.000002
	DefaultLaunchGraceBlocks = int64(100)
	DefaultQuickExitWindow   = 20 * time.Minute
	DefaultWalletWorkers     = 8
	DefaultPrecision         = int32(4)
)

// Config holds detection thresholds and ledger policy.
type Config struct {
	VolumeThreshold   float64        // chunk qualifies when before-tax sum is strictly greater
	ChunkWindow       time.Duration  // inclusive window measured from the chunk's first buy
	FeeThreshold      float64        // buy fee must be strictly greater
	LaunchGraceBlocks int64          // buy block <= launch block + grace
	QuickExitWindow   time.Duration  // 0 < sell - buy <= window
	SellMatchBasis    SellMatchBasis // which sell amount is matched against lots
	WalletWorkers     int            // ledger fan-out across wallets
	Precision         int32          // decimal places applied to outputs
}

// DefaultConfig returns the fixed detection policy.
func DefaultConfig() Config {
	return Config{
		VolumeThreshold:   DefaultVolumeThreshold,
		ChunkWindow:       DefaultChunkWindow,
		FeeThreshold:      DefaultFeeThreshold,
		LaunchGraceBlocks: DefaultLaunchGraceBlocks,
		QuickExitWindow:   DefaultQuickExitWindow,
		SellMatchBasis:    MatchAfterTax,
		WalletWorkers:     DefaultWalletWorkers,
		Precision:         DefaultPrecision,
	}
}

// Validate checks that every threshold is usable.
func (c Config) Validate() error {
	if c.VolumeThreshold < 0 {
		return errors.New("volume threshold must be non-negative")
	}
	if c.ChunkWindow <= 0 {
		return errors.New("chunk window must be positive")
	}
	if c.FeeThreshold < 0 {
		return errors.New("fee threshold must be non-negative")
	}
	if c.LaunchGraceBlocks < 0 {
		return errors.New("launch grace blocks must be non-negative")
	}
	if c.QuickExitWindow <= 0 {
		return errors.New("quick exit window must be positive")
	}
	switch c.SellMatchBasis {
	case MatchAfterTax, MatchBeforeTax:
	default:
		return fmt.Errorf("unknown sell match basis %q", c.SellMatchBasis)
	}
	if c.WalletWorkers <= 0 {
		return errors.New("wallet workers must be positive")
	}
	if c.Precision < 0 {
		return errors.New("precision must be non-negative")
	}
	return nil
}
