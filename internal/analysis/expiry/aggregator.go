// Package expiry aggregates options-market signals across multiple
// expirations. Near-dated, liquid, and OPEX expirations carry more
// pinning power, so each expiration's max pain and gamma walls enter
// the composite under a decay/liquidity/event weight.
package expiry

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/traderank/pinpoint/internal/analysis/gamma"
	"github.com/traderank/pinpoint/internal/analysis/maxpain"
	"github.com/traderank/pinpoint/pkg/models"
)

// Default DTE window: weeklies through two monthly cycles.
const (
	DefaultMinDTE = 0
	DefaultMaxDTE = 60
)

// OPEX multipliers: monthly expirations pin hardest, weeklies less so.
const (
	monthlyOpexMultiplier = 1.5
	weeklyOpexMultiplier  = 1.2
)

// Analyze computes per-expiration signals for every expiration inside
// [minDTE, maxDTE] and weights them into a normalized set, sorted by
// weight descending; index 0 is the primary expiration.
//
// Per-expiration weight:
//
//	exp(-dte/30) * sqrt(totalOI / maxTotalOI) * opexMult * (0.5 + 0.5*maxPainConfidence)
//
// The expirations are independent, so the max pain / gamma wall pass
// fans out across goroutines; ordering is restored afterward.
func Analyze(ctx context.Context, exps []models.OptionsExpiration, currentPrice float64, minDTE, maxDTE int) []models.ExpirationAnalysis {
	return AnalyzeWithConfig(ctx, exps, currentPrice, minDTE, maxDTE, maxpain.DefaultConfig(), gamma.DefaultThresholdMultiplier)
}

// AnalyzeWithConfig is Analyze with explicit max pain and wall
// detection tunables.
func AnalyzeWithConfig(ctx context.Context, exps []models.OptionsExpiration, currentPrice float64, minDTE, maxDTE int, mpCfg maxpain.Config, wallMult float64) []models.ExpirationAnalysis {
	var inWindow []models.OptionsExpiration
	for _, e := range exps {
		if e.DTE >= minDTE && e.DTE <= maxDTE {
			inWindow = append(inWindow, e)
		}
	}
	if len(inWindow) == 0 {
		return nil
	}

	analyses := make([]models.ExpirationAnalysis, len(inWindow))

	g, _ := errgroup.WithContext(ctx)
	for i, e := range inWindow {
		g.Go(func() error {
			analyses[i] = models.ExpirationAnalysis{
				ExpiryDate:    e.ExpiryDate,
				DTE:           e.DTE,
				MaxPain:       maxpain.CalculateWithConfig(e, currentPrice, mpCfg),
				GammaWalls:    gamma.DetectWalls(e, currentPrice, wallMult),
				IsMonthlyOpex: IsMonthlyOpex(e.ExpiryDate),
				IsWeeklyOpex:  IsWeeklyOpex(e.ExpiryDate),
			}
			return nil
		})
	}
	// The workers never return errors; Wait only synchronizes.
	_ = g.Wait()

	var maxOI int64
	for _, e := range inWindow {
		if oi := e.TotalOI(); oi > maxOI {
			maxOI = oi
		}
	}

	total := 0.0
	for i, e := range inWindow {
		analyses[i].Weight = rawWeight(analyses[i], e.TotalOI(), maxOI)
		total += analyses[i].Weight
	}

	if total == 0 {
		// All degenerate: spread the weight evenly.
		equal := 1.0 / float64(len(analyses))
		for i := range analyses {
			analyses[i].Weight = equal
		}
	} else {
		for i := range analyses {
			analyses[i].Weight /= total
		}
	}

	sort.SliceStable(analyses, func(i, j int) bool {
		if analyses[i].Weight != analyses[j].Weight {
			return analyses[i].Weight > analyses[j].Weight
		}
		return analyses[i].DTE < analyses[j].DTE
	})

	return analyses
}

func rawWeight(a models.ExpirationAnalysis, totalOI, maxOI int64) float64 {
	if maxOI == 0 {
		return 0
	}

	decay := math.Exp(-float64(a.DTE) / 30)
	liquidity := math.Sqrt(float64(totalOI) / float64(maxOI))

	opex := 1.0
	switch {
	case a.IsMonthlyOpex:
		opex = monthlyOpexMultiplier
	case a.IsWeeklyOpex:
		opex = weeklyOpexMultiplier
	}

	return decay * liquidity * opex * (0.5 + 0.5*a.MaxPain.Confidence)
}

// WeightedMaxPain is the weight-dot-product of per-expiration max
// pain strikes; fallback when the set is empty.
func WeightedMaxPain(analyses []models.ExpirationAnalysis, fallback float64) float64 {
	if len(analyses) == 0 {
		return fallback
	}
	v := 0.0
	for _, a := range analyses {
		v += a.MaxPain.Strike * a.Weight
	}
	return v
}

// WeightedGammaCenter is the weight-dot-product of per-expiration
// gamma centers; fallback when the set is empty.
func WeightedGammaCenter(analyses []models.ExpirationAnalysis, fallback float64) float64 {
	if len(analyses) == 0 {
		return fallback
	}
	v := 0.0
	for _, a := range analyses {
		v += a.GammaWalls.Center * a.Weight
	}
	return v
}

// IsMonthlyOpex reports whether the date is a third-Friday monthly
// expiration: a Friday falling on day-of-month 15 through 21.
func IsMonthlyOpex(d time.Time) bool {
	return d.Weekday() == time.Friday && d.Day() >= 15 && d.Day() <= 21
}

// IsWeeklyOpex reports whether the date is a non-monthly Friday
// expiration.
func IsWeeklyOpex(d time.Time) bool {
	return d.Weekday() == time.Friday && !IsMonthlyOpex(d)
}
