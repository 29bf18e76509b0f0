// Package datasource provides market snapshot loading. It defines a
// common Source interface, a file-backed implementation for captured
// vendor exports, and a rate-limited wrapper for hosted sources.
package datasource

import (
	"context"
	"fmt"

	"github.com/traderank/pinpoint/pkg/models"
)

// Source supplies the market snapshot the engine consumes: current
// technicals, the option chain by expiration, and optional daily
// candles.
type Source interface {
	// Name returns the human-readable name of this source.
	Name() string

	// Snapshot returns the full market snapshot for the given ticker.
	Snapshot(ctx context.Context, ticker string) (*models.MarketSnapshot, error)
}

// --- Sentinel errors ---

// ErrTickerNotFound is returned when a ticker cannot be resolved.
var ErrTickerNotFound = fmt.Errorf("ticker not found")

// ErrStaleSnapshot is returned when a snapshot exists but is too old
// to analyze.
var ErrStaleSnapshot = fmt.Errorf("snapshot is stale")
