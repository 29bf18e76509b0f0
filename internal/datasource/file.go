package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/traderank/pinpoint/pkg/models"
	"github.com/traderank/pinpoint/pkg/utils"
)

// FileSource reads snapshots captured from a vendor into JSON files,
// one per ticker, named <TICKER>.json. It is the default source: the
// engine's job starts after acquisition, so captured exports are a
// first-class input.
type FileSource struct {
	dir    string
	logger *zap.Logger

	// now is injectable so DTE derivation is testable.
	now func() time.Time
}

// NewFileSource creates a file-backed source rooted at dir.
func NewFileSource(dir string, logger *zap.Logger) *FileSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSource{dir: dir, logger: logger, now: time.Now}
}

// Name returns the human-readable name of this source.
func (s *FileSource) Name() string {
	return "file:" + s.dir
}

// Snapshot loads and normalizes the snapshot for ticker. A missing
// file maps to ErrTickerNotFound.
func (s *FileSource) Snapshot(ctx context.Context, ticker string) (*models.MarketSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ticker = utils.NormalizeTicker(ticker)
	path := filepath.Join(s.dir, ticker+".json")

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", ticker, ErrTickerNotFound)
		}
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}

	var snap models.MarketSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}

	snap.Ticker = ticker
	if snap.FetchedAt.IsZero() {
		info, statErr := os.Stat(path)
		if statErr == nil {
			snap.FetchedAt = info.ModTime()
		}
	}
	s.normalize(&snap)

	s.logger.Debug("snapshot loaded",
		zap.String("ticker", ticker),
		zap.Int("expirations", len(snap.Expirations)),
		zap.Int("candles", len(snap.Candles)),
	)
	return &snap, nil
}

// normalize fills fields vendor exports commonly omit: days to
// expiry and per-side OI totals.
func (s *FileSource) normalize(snap *models.MarketSnapshot) {
	now := s.now()
	for i := range snap.Expirations {
		exp := &snap.Expirations[i]
		if exp.DTE == 0 && !exp.ExpiryDate.IsZero() {
			days := exp.ExpiryDate.Sub(now).Hours() / 24
			exp.DTE = int(math.Max(0, math.Ceil(days)))
		}
		if exp.TotalCallOI == 0 {
			for _, c := range exp.Calls {
				exp.TotalCallOI += c.OpenInterest
			}
		}
		if exp.TotalPutOI == 0 {
			for _, p := range exp.Puts {
				exp.TotalPutOI += p.OpenInterest
			}
		}
	}
}
