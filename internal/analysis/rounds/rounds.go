// Package rounds generates synthetic magnetic levels at round-number
// prices. Round numbers attract limit orders and strike listings, so
// they act as behavioral magnets independent of any market data
// beyond the current price.
package rounds

import (
	"math"
	"sort"

	"github.com/traderank/pinpoint/internal/analysis/calc"
	"github.com/traderank/pinpoint/pkg/models"
)

// DefaultBandFraction bounds generated levels to +/-20% of spot.
const DefaultBandFraction = 0.20

// tier fixes the major/moderate/minor spacing for a price magnitude.
type tier struct {
	minPrice float64
	major    float64
	moderate float64
	minor    float64
}

// Tiers are checked top-down; the first one whose floor the price
// clears wins.
var tiers = []tier{
	{500, 100, 50, 25},
	{100, 50, 25, 10},
	{50, 25, 10, 5},
	{20, 10, 5, 1},
	{10, 5, 1, 0.5},
	{0, 1, 0.5, 0.25},
}

var significanceBase = map[models.RoundSignificance]float64{
	models.RoundMajor:    1.0,
	models.RoundModerate: 0.6,
	models.RoundMinor:    0.3,
}

// Analyze generates every round-number level within the band around
// the current price. bandFraction <= 0 falls back to the default 20%.
//
// Magnetic pull decays exponentially with distance:
// (base + roundnessBonus) * exp(-5 * |distanceFraction|), clamped to 1.
// Levels landing on the same price across tiers collapse to the
// higher-significance variant.
func Analyze(currentPrice, bandFraction float64) models.RoundNumbersResult {
	result := models.RoundNumbersResult{Center: currentPrice}
	if currentPrice <= 0 {
		return result
	}
	if bandFraction <= 0 {
		bandFraction = DefaultBandFraction
	}

	t := tierFor(currentPrice)
	low := currentPrice * (1 - bandFraction)
	high := currentPrice * (1 + bandFraction)

	// Deduplicate by price; MAJOR is generated first so an existing
	// entry always outranks a later, lower-significance duplicate.
	seen := make(map[int64]bool)
	var levels []models.RoundNumberLevel

	generate := func(interval float64, sig models.RoundSignificance) {
		if interval <= 0 {
			return
		}
		for p := math.Ceil(low/interval) * interval; p <= high+1e-9; p += interval {
			if p <= 0 {
				continue
			}
			key := priceKey(p)
			if seen[key] {
				continue
			}
			seen[key] = true

			distFrac := (p - currentPrice) / currentPrice
			pull := (significanceBase[sig] + roundnessBonus(p)) * math.Exp(-5*math.Abs(distFrac))
			levels = append(levels, models.RoundNumberLevel{
				Price:        p,
				Significance: sig,
				DistancePct:  distFrac * 100,
				MagneticPull: math.Min(1, pull),
			})
		}
	}

	generate(t.major, models.RoundMajor)
	generate(t.moderate, models.RoundModerate)
	generate(t.minor, models.RoundMinor)

	if len(levels) == 0 {
		return result
	}

	sort.Slice(levels, func(i, j int) bool { return levels[i].Price < levels[j].Price })
	result.Levels = levels

	for i := range levels {
		lv := levels[i]
		if lv.Significance != models.RoundMajor {
			continue
		}
		if result.NearestMajor == nil || math.Abs(lv.DistancePct) < math.Abs(result.NearestMajor.DistancePct) {
			result.NearestMajor = &levels[i]
		}
	}

	values := make([]float64, len(levels))
	weights := make([]float64, len(levels))
	for i, lv := range levels {
		values[i] = lv.Price
		weights[i] = lv.MagneticPull
	}
	result.Center = calc.WeightedAverage(values, weights, currentPrice)

	return result
}

// MajorInterval exposes the major spacing for a price, used by callers
// that only need the tier.
func MajorInterval(price float64) float64 {
	return tierFor(price).major
}

func tierFor(price float64) tier {
	for _, t := range tiers {
		if price >= t.minPrice && t.minPrice > 0 {
			return t
		}
	}
	return tiers[len(tiers)-1]
}

// roundnessBonus rewards psychologically heavier prices: centuries,
// half-centuries, quarters.
func roundnessBonus(price float64) float64 {
	switch {
	case divisible(price, 100):
		return 0.2
	case divisible(price, 50):
		return 0.1
	case divisible(price, 25):
		return 0.05
	}
	return 0
}

func divisible(price, by float64) bool {
	q := price / by
	return math.Abs(q-math.Round(q)) < 1e-9
}

func priceKey(p float64) int64 {
	return int64(math.Round(p * 10_000))
}
