// Package engine orchestrates one analysis run: snapshot loading,
// technical enrichment, fair-value composition, and result caching.
package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/traderank/pinpoint/internal/analysis/fairvalue"
	"github.com/traderank/pinpoint/internal/analysis/maxpain"
	"github.com/traderank/pinpoint/internal/analysis/technical"
	"github.com/traderank/pinpoint/internal/config"
	"github.com/traderank/pinpoint/internal/datasource"
	"github.com/traderank/pinpoint/internal/infra"
	"github.com/traderank/pinpoint/pkg/models"
	"github.com/traderank/pinpoint/pkg/utils"
)

// Engine wires the data source to the fair-value pipeline and caches
// computed results. Safe for concurrent use.
type Engine struct {
	cfg    *config.Config
	source datasource.Source
	cache  *infra.Cache[*models.PsychologicalFairValue]
	logger *zap.Logger
}

// New creates an engine over the given source.
func New(cfg *config.Config, source datasource.Source, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := time.Duration(cfg.Analysis.CacheTTL) * time.Second
	return &Engine{
		cfg:    cfg,
		source: source,
		cache:  infra.NewCache[*models.PsychologicalFairValue](ttl),
		logger: logger,
	}
}

// Analyze computes the psychological fair value for ticker. Results
// are cached per ticker; option overrides bypass the cache because
// they change the answer.
func (e *Engine) Analyze(ctx context.Context, ticker string, opts fairvalue.Options) (*models.PsychologicalFairValue, error) {
	ticker = utils.NormalizeTicker(ticker)
	cacheable := opts.ProfileType == "" && len(opts.WeightOverrides) == 0 &&
		opts.MinDTE == 0 && opts.MaxDTE == 0 && !opts.IncludeAllLevels && opts.MaxMagneticLevels == 0 &&
		opts.MaxPain == nil && opts.WallThresholdMultiplier == 0 && opts.RoundBandFraction == 0

	if cacheable {
		if cached, ok := e.cache.Get(ticker); ok {
			e.logger.Debug("cache hit", zap.String("ticker", ticker))
			return cached, nil
		}
	}

	snap, err := e.source.Snapshot(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot for %s: %w", ticker, err)
	}

	td := enrich(snap)

	e.applyDefaults(&opts)
	pfv, err := fairvalue.Calculate(ctx, fairvalue.Input{
		Ticker:      ticker,
		Technical:   td,
		Expirations: snap.Expirations,
	}, opts)
	if err != nil {
		return nil, err
	}

	e.logger.Info("fair value computed",
		zap.String("ticker", ticker),
		zap.Float64("fair_value", pfv.FairValue),
		zap.Float64("deviation_pct", pfv.DeviationPct),
		zap.String("bias", string(pfv.Bias)),
		zap.String("confidence", string(pfv.Confidence)),
	)

	if cacheable {
		e.cache.Set(ticker, pfv)
	}
	return pfv, nil
}

// Invalidate drops any cached result for ticker.
func (e *Engine) Invalidate(ticker string) {
	e.cache.Invalidate(utils.NormalizeTicker(ticker))
}

// Source exposes the backing source name for status reporting.
func (e *Engine) Source() string {
	return e.source.Name()
}

// applyDefaults fills unset option fields from configuration.
func (e *Engine) applyDefaults(opts *fairvalue.Options) {
	if opts.MaxDTE == 0 {
		opts.MaxDTE = e.cfg.Engine.MaxDTE
	}
	if opts.MinDTE == 0 {
		opts.MinDTE = e.cfg.Engine.MinDTE
	}
	if opts.MaxMagneticLevels == 0 {
		opts.MaxMagneticLevels = e.cfg.Engine.MaxMagneticLevels
	}
	if opts.MaxPain == nil && e.cfg.Engine.MaxPainBandLow > 0 {
		mp := maxpain.DefaultConfig()
		mp.BandLow = e.cfg.Engine.MaxPainBandLow
		mp.BandHigh = e.cfg.Engine.MaxPainBandHigh
		opts.MaxPain = &mp
	}
	if opts.WallThresholdMultiplier == 0 {
		opts.WallThresholdMultiplier = e.cfg.Engine.WallThresholdMultiplier
	}
	if opts.RoundBandFraction == 0 {
		opts.RoundBandFraction = e.cfg.Engine.RoundBandFraction
	}
}

// enrich fills technical fields the vendor omitted from raw candles
// when the snapshot carries them. Vendor-provided values win.
func enrich(snap *models.MarketSnapshot) models.TechnicalData {
	td := snap.Technical
	if len(snap.Candles) == 0 {
		return td
	}

	built, err := technical.BuildSnapshot(snap.Candles)
	if err != nil {
		return td
	}

	fill := func(dst *float64, src float64) {
		if *dst == 0 && src > 0 {
			*dst = src
		}
	}
	fill(&td.CurrentPrice, built.CurrentPrice)
	fill(&td.MA20, built.MA20)
	fill(&td.MA50, built.MA50)
	fill(&td.MA200, built.MA200)
	fill(&td.YearHigh, built.YearHigh)
	fill(&td.YearLow, built.YearLow)
	fill(&td.SwingHigh, built.SwingHigh)
	fill(&td.SwingLow, built.SwingLow)
	fill(&td.PrevClose, built.PrevClose)
	fill(&td.VWAP, built.VWAP)
	if td.AvgVolume == 0 {
		td.AvgVolume = built.AvgVolume
	}
	return td
}
