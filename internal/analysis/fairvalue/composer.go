// Package fairvalue fuses the per-category signals (max pain, gamma
// walls, technical levels, volume anchor, round numbers) into a single
// psychological fair value estimate with bias, confidence, ranked
// magnetic levels, and support/resistance zones.
package fairvalue

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/traderank/pinpoint/internal/analysis/calc"
	"github.com/traderank/pinpoint/internal/analysis/expiry"
	"github.com/traderank/pinpoint/internal/analysis/gamma"
	"github.com/traderank/pinpoint/internal/analysis/maxpain"
	"github.com/traderank/pinpoint/internal/analysis/profile"
	"github.com/traderank/pinpoint/internal/analysis/rounds"
	"github.com/traderank/pinpoint/internal/analysis/technical"
	"github.com/traderank/pinpoint/pkg/models"
	"github.com/traderank/pinpoint/pkg/utils"
)

// Input is the full market snapshot the composer consumes. Nothing in
// it is mutated.
type Input struct {
	Ticker      string
	Technical   models.TechnicalData
	Expirations []models.OptionsExpiration
}

// Options carries per-call overrides. The zero value selects all
// defaults.
type Options struct {
	// ProfileType forces a specific behavioral profile, bypassing
	// classification and heuristics.
	ProfileType models.ProfileType

	// WeightOverrides are merged onto the resolved profile's weights
	// and renormalized.
	WeightOverrides profile.Overrides

	// DTE window for the expiration aggregate. MaxDTE == 0 selects
	// the default [0, 60] window.
	MinDTE int
	MaxDTE int

	// MaxPain overrides the max pain tunables; nil selects the
	// defaults.
	MaxPain *maxpain.Config

	// WallThresholdMultiplier overrides the gamma wall detection
	// threshold; 0 selects the default.
	WallThresholdMultiplier float64

	// RoundBandFraction overrides the round-number band around spot;
	// 0 selects the default.
	RoundBandFraction float64

	// IncludeAllLevels keeps magnetic levels below the strength
	// floor.
	IncludeAllLevels bool

	// MaxMagneticLevels truncates the ranked list; 0 means the
	// default of 15.
	MaxMagneticLevels int

	// Classifier overrides the default list-based ticker classifier.
	Classifier profile.Classifier

	// Now injects the clock used for the freshness tag and the
	// result timestamp. Defaults to time.Now. Everything else in the
	// computation is clock-independent.
	Now func() time.Time
}

// Tunables for the composite confidence and bias decisions. The blend
// weights and thresholds are calibrated against the magnetic-level
// strength floor; see Config docs on the per-signal packages for the
// same caveat.
const (
	DefaultMaxMagneticLevels = 15

	biasThresholdPct = 2.0

	convergenceBlend = 0.4
	qualityBlend     = 0.4
	distanceBlend    = 0.2

	highConfidenceFloor   = 0.7
	mediumConfidenceFloor = 0.4

	noOptionsQuality = 0.3

	strengthFloor = 0.3
)

// Calculate runs the full psychological-fair-value pipeline for one
// snapshot. It fails only when the price anchor is missing; every
// other irregularity degrades to a neutral default.
func Calculate(ctx context.Context, input Input, opts Options) (*models.PsychologicalFairValue, error) {
	td := input.Technical
	if td.CurrentPrice <= 0 {
		return nil, fmt.Errorf("calculating fair value for %s: current price is required", input.Ticker)
	}
	if td.YearHigh <= 0 || td.YearLow <= 0 {
		return nil, fmt.Errorf("calculating fair value for %s: 52-week high/low are required", input.Ticker)
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	maxDTE := opts.MaxDTE
	if maxDTE == 0 {
		maxDTE = expiry.DefaultMaxDTE
	}
	maxLevels := opts.MaxMagneticLevels
	if maxLevels == 0 {
		maxLevels = DefaultMaxMagneticLevels
	}
	mpCfg := maxpain.DefaultConfig()
	if opts.MaxPain != nil {
		mpCfg = *opts.MaxPain
	}
	wallMult := opts.WallThresholdMultiplier
	if wallMult == 0 {
		wallMult = gamma.DefaultThresholdMultiplier
	}
	roundBand := opts.RoundBandFraction
	if roundBand == 0 {
		roundBand = rounds.DefaultBandFraction
	}

	// 1. Profile.
	var resolved models.TickerProfile
	if opts.ProfileType != "" {
		resolved = profile.Get(opts.ProfileType)
	} else {
		classifier := opts.Classifier
		if classifier == nil {
			classifier = profile.NewDefaultClassifier()
		}
		resolved = profile.Resolve(classifier, input.Ticker, &td, input.Expirations)
	}
	resolved.Weights = profile.ApplyOverrides(resolved.Weights, opts.WeightOverrides)

	// 2. Expiration aggregate.
	analyses := expiry.AnalyzeWithConfig(ctx, input.Expirations, td.CurrentPrice, opts.MinDTE, maxDTE, mpCfg, wallMult)

	// 3. Category values. Options-derived components anchor to spot
	// when no expirations survive the window.
	techResult := technical.AnalyzeLevels(td)
	roundResult := rounds.Analyze(td.CurrentPrice, roundBand)

	maxPainValue := expiry.WeightedMaxPain(analyses, td.CurrentPrice)
	gammaValue := expiry.WeightedGammaCenter(analyses, td.CurrentPrice)
	technicalValue := techResult.Center
	volumeValue := td.VWAP
	if volumeValue <= 0 {
		volumeValue = techResult.Center
	}
	roundValue := roundResult.Center

	w := resolved.Weights
	components := []models.ComponentBreakdown{
		{Name: models.ComponentMaxPain, Value: maxPainValue, Weight: w.MaxPain},
		{Name: models.ComponentGammaWalls, Value: gammaValue, Weight: w.GammaWalls},
		{Name: models.ComponentTechnical, Value: technicalValue, Weight: w.Technical},
		{Name: models.ComponentVolume, Value: volumeValue, Weight: w.Volume},
		{Name: models.ComponentRoundNumber, Value: roundValue, Weight: w.RoundNumber},
	}

	// 4. Composite fair value. Weights are normalized, so this is a
	// plain dot product.
	fairValue := 0.0
	for i := range components {
		components[i].Contribution = components[i].Value * components[i].Weight
		fairValue += components[i].Contribution
	}

	// 5. Deviation.
	deviationAbs := fairValue - td.CurrentPrice
	deviationPct := deviationAbs / td.CurrentPrice * 100

	// 6-7. Bias and confidence.
	bias := resolveBias(deviationPct, td)
	score := confidenceScore(components, analyses, fairValue, td.CurrentPrice)
	grade := gradeConfidence(score)

	// 8. Ranked magnetic levels.
	magnets := collectMagneticLevels(td.CurrentPrice, analyses, techResult, roundResult, opts.IncludeAllLevels, maxLevels)

	// 9. Support/resistance zones.
	supportZone, resistanceZone := clusterZones(techResult.Levels, td.CurrentPrice)

	result := &models.PsychologicalFairValue{
		Ticker:          utils.NormalizeTicker(input.Ticker),
		FairValue:       fairValue,
		CurrentPrice:    td.CurrentPrice,
		Confidence:      grade,
		ConfidenceScore: score,
		DeviationPct:    deviationPct,
		DeviationAbs:    deviationAbs,
		Bias:            bias,
		Profile:         resolved,
		Components:      components,
		Expirations:     analyses,
		MagneticLevels:  magnets,
		SupportZone:     supportZone,
		ResistanceZone:  resistanceZone,
		DataFreshness:   freshness(now()),
		CalculatedAt:    now(),
	}
	if len(analyses) > 0 {
		result.Primary = &analyses[0]
	}

	result.AIContext = renderAIContext(result)
	result.Interpretation = renderInterpretation(result)

	return result, nil
}

// resolveBias applies the deviation threshold, falling back to a
// moving-average trend vote inside the neutral band. The long-term
// trend (MA200) counts double; the MA stack ordering adds one vote.
func resolveBias(deviationPct float64, td models.TechnicalData) models.Bias {
	if deviationPct > biasThresholdPct {
		return models.BiasBullish
	}
	if deviationPct < -biasThresholdPct {
		return models.BiasBearish
	}

	var bullish, total float64
	if td.MA200 > 0 {
		total += 2
		if td.CurrentPrice > td.MA200 {
			bullish += 2
		}
	}
	if td.MA50 > 0 {
		total++
		if td.CurrentPrice > td.MA50 {
			bullish++
		}
	}
	if td.MA20 > 0 {
		total++
		if td.CurrentPrice > td.MA20 {
			bullish++
		}
	}
	if td.MA20 > 0 && td.MA50 > 0 && td.MA200 > 0 {
		total++
		if td.MA20 > td.MA50 && td.MA50 > td.MA200 {
			bullish++
		}
	}

	if total == 0 {
		return models.BiasNeutral
	}

	ratio := bullish / total
	switch {
	case ratio >= 0.7:
		return models.BiasBullish
	case ratio <= 0.3:
		return models.BiasBearish
	default:
		return models.BiasNeutral
	}
}

// confidenceScore blends component convergence, options-data quality,
// and the plausibility of the implied move.
func confidenceScore(components []models.ComponentBreakdown, analyses []models.ExpirationAnalysis, fairValue, currentPrice float64) float64 {
	// Convergence: coefficient of variation across the five component
	// values; tightly clustered components mean the signals agree.
	var sum float64
	for _, c := range components {
		sum += c.Value
	}
	mean := sum / float64(len(components))

	convergence := 0.0
	if mean > 0 {
		var variance float64
		for _, c := range components {
			variance += (c.Value - mean) * (c.Value - mean)
		}
		variance /= float64(len(components))
		cov := math.Sqrt(variance) / mean
		convergence = math.Max(0, 1-10*cov)
	}

	quality := noOptionsQuality
	if len(analyses) > 0 {
		var qsum float64
		for _, a := range analyses {
			qsum += a.MaxPain.Confidence
		}
		quality = qsum / float64(len(analyses))
	}

	distance := math.Max(0.3, 1-3*math.Abs(fairValue-currentPrice)/currentPrice)

	return calc.Clamp01(convergenceBlend*convergence + qualityBlend*quality + distanceBlend*distance)
}

func gradeConfidence(score float64) models.ConfidenceGrade {
	switch {
	case score >= highConfidenceFloor:
		return models.ConfidenceHigh
	case score >= mediumConfidenceFloor:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// freshness tags how current a snapshot taken now can possibly be.
func freshness(now time.Time) models.DataFreshness {
	et := now.In(utils.Eastern)
	if et.Weekday() == time.Saturday || et.Weekday() == time.Sunday {
		return models.FreshnessWeekend
	}
	if !utils.IsMarketOpenAt(et) {
		return models.FreshnessStale
	}
	return models.FreshnessFresh
}
