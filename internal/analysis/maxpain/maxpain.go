// Package maxpain computes the max-pain strike for a single option
// expiration: the hypothetical settlement price at which option
// holders collectively lose the most (sellers lose the least), a
// well-documented pinning magnet into expiration.
package maxpain

import (
	"math"
	"sort"

	"github.com/traderank/pinpoint/internal/analysis/calc"
	"github.com/traderank/pinpoint/pkg/models"
)

// Tunables for the confidence blend. The caps and scales are
// empirical; they feed directly into the composite confidence grade,
// so changing them shifts HIGH/MEDIUM/LOW boundaries downstream.
type Config struct {
	BandLow      float64 // candidate band lower bound, fraction of spot
	BandHigh     float64 // candidate band upper bound, fraction of spot
	OICap        float64 // confidence term 1 cap
	OIScale      float64 // open interest for a full term-1 score
	ConcCap      float64 // confidence term 2 cap
	ConcWindow   float64 // strike window for concentration, fraction of winner
	DensityCap   float64 // confidence term 3 cap
	DensityScale float64 // distinct strikes for a full term-3 score
}

// DefaultConfig mirrors the calibrated production values.
func DefaultConfig() Config {
	return Config{
		BandLow:      0.6,
		BandHigh:     1.4,
		OICap:        0.4,
		OIScale:      250_000,
		ConcCap:      0.3,
		ConcWindow:   0.05,
		DensityCap:   0.3,
		DensityScale: 50,
	}
}

const contractMultiplier = 100

// Calculate finds the max-pain strike for one expiration using the
// default tunables.
func Calculate(exp models.OptionsExpiration, currentPrice float64) models.MaxPainResult {
	return CalculateWithConfig(exp, currentPrice, DefaultConfig())
}

// CalculateWithConfig finds the max-pain strike for one expiration.
//
// Candidate strikes are restricted to [BandLow, BandHigh] x spot with
// positive open interest, which keeps stale LEAPS and pre-split
// strikes from dominating the pain surface. For each candidate taken
// as settlement, pain sums the intrinsic value paid out across every
// in-the-money contract times its open interest times the 100-share
// multiplier. Ties resolve to the lowest strike.
func CalculateWithConfig(exp models.OptionsExpiration, currentPrice float64, cfg Config) models.MaxPainResult {
	result := models.MaxPainResult{
		ExpiryDate: exp.ExpiryDate,
		DTE:        exp.DTE,
	}

	if currentPrice <= 0 {
		result.Strike = currentPrice
		return result
	}

	low := cfg.BandLow * currentPrice
	high := cfg.BandHigh * currentPrice

	callOI := bandOI(exp.Calls, low, high)
	putOI := bandOI(exp.Puts, low, high)

	strikes := distinctStrikes(callOI, putOI)
	if len(strikes) == 0 {
		// Degenerate band: anchor to spot with zero confidence.
		result.Strike = currentPrice
		return result
	}

	minPain := math.MaxFloat64
	var winCall, winPut float64
	totalOI := int64(0)
	for _, oi := range callOI {
		totalOI += oi
	}
	for _, oi := range putOI {
		totalOI += oi
	}

	// Ascending order makes the tie-break deterministic: the first
	// (lowest) strike at the minimum wins. Pain is summed over sorted
	// strikes, not map order, so float rounding cannot flip a tie
	// between runs.
	callStrikes := sortedStrikes(callOI)
	putStrikes := sortedStrikes(putOI)
	for _, settle := range strikes {
		var callPain, putPain float64

		for _, strike := range callStrikes {
			if strike < settle {
				callPain += (settle - strike) * float64(callOI[strike]) * contractMultiplier
			}
		}
		for _, strike := range putStrikes {
			if strike > settle {
				putPain += (strike - settle) * float64(putOI[strike]) * contractMultiplier
			}
		}

		if total := callPain + putPain; total < minPain {
			minPain = total
			result.Strike = settle
			winCall = callPain
			winPut = putPain
		}
	}

	result.TotalPain = minPain
	result.CallPain = winCall
	result.PutPain = winPut
	result.Confidence = confidence(cfg, result.Strike, totalOI, len(strikes), callOI, putOI)

	return result
}

// confidence blends three capped terms: raw open-interest magnitude,
// OI concentration near the winning strike, and strike density.
func confidence(cfg Config, winner float64, totalOI int64, strikeCount int, callOI, putOI map[float64]int64) float64 {
	if totalOI == 0 {
		return 0
	}

	oiTerm := math.Min(cfg.OICap, float64(totalOI)/cfg.OIScale*cfg.OICap)

	// OI within ConcWindow of the winner, as a fraction of total.
	window := cfg.ConcWindow * winner
	var nearOI int64
	for strike, oi := range callOI {
		if math.Abs(strike-winner) <= window {
			nearOI += oi
		}
	}
	for strike, oi := range putOI {
		if math.Abs(strike-winner) <= window {
			nearOI += oi
		}
	}
	concTerm := math.Min(cfg.ConcCap, float64(nearOI)/float64(totalOI)*0.5)

	densityTerm := math.Min(cfg.DensityCap, float64(strikeCount)/cfg.DensityScale*cfg.DensityCap)

	return calc.Clamp01(oiTerm + concTerm + densityTerm)
}

// bandOI aggregates open interest per strike for contracts inside the
// candidate band, dropping zero-OI strikes.
func bandOI(contracts []models.OptionContract, low, high float64) map[float64]int64 {
	oi := make(map[float64]int64)
	for _, c := range contracts {
		if c.OpenInterest <= 0 || c.Strike < low || c.Strike > high {
			continue
		}
		oi[c.Strike] += c.OpenInterest
	}
	return oi
}

func distinctStrikes(callOI, putOI map[float64]int64) []float64 {
	seen := make(map[float64]bool, len(callOI)+len(putOI))
	for s := range callOI {
		seen[s] = true
	}
	for s := range putOI {
		seen[s] = true
	}

	strikes := make([]float64, 0, len(seen))
	for s := range seen {
		strikes = append(strikes, s)
	}
	sort.Float64s(strikes)
	return strikes
}

func sortedStrikes(oi map[float64]int64) []float64 {
	strikes := make([]float64, 0, len(oi))
	for s := range oi {
		strikes = append(strikes, s)
	}
	sort.Float64s(strikes)
	return strikes
}
