package fairvalue

import (
	"math"
	"sort"

	"github.com/traderank/pinpoint/pkg/models"
)

const (
	wallsPerExpiration = 3
	roundLevelCap      = 5
)

// collectMagneticLevels pools the level candidates from every signal
// category onto one comparable strength scale, de-duplicates levels
// that land on the same price, and returns them strongest first.
func collectMagneticLevels(currentPrice float64, analyses []models.ExpirationAnalysis, tech models.TechnicalLevelsResult, round models.RoundNumbersResult, includeAll bool, maxLevels int) []models.MagneticLevel {
	var pool []models.MagneticLevel

	for _, a := range analyses {
		if a.MaxPain.Strike > 0 {
			pool = append(pool, models.MagneticLevel{
				Price:      a.MaxPain.Strike,
				Type:       models.MagnetMaxPain,
				Strength:   maxPainStrength(a),
				ExpiryDate: a.ExpiryDate,
			})
		}
		walls := a.GammaWalls.Walls
		if len(walls) > wallsPerExpiration {
			walls = walls[:wallsPerExpiration]
		}
		for _, w := range walls {
			pool = append(pool, models.MagneticLevel{
				Price:      w.Strike,
				Type:       string(w.Type),
				Strength:   wallStrength(w),
				ExpiryDate: a.ExpiryDate,
			})
		}
	}

	for _, lvl := range tech.Levels {
		pool = append(pool, models.MagneticLevel{
			Price:    lvl.Price,
			Type:     string(lvl.Type),
			Strength: technicalStrength(lvl.Strength),
		})
	}

	rlevels := append([]models.RoundNumberLevel(nil), round.Levels...)
	sort.SliceStable(rlevels, func(i, j int) bool {
		return rlevels[i].MagneticPull > rlevels[j].MagneticPull
	})
	if len(rlevels) > roundLevelCap {
		rlevels = rlevels[:roundLevelCap]
	}
	for _, lvl := range rlevels {
		pool = append(pool, models.MagneticLevel{
			Price:    lvl.Price,
			Type:     models.MagnetRoundNumber,
			Strength: lvl.MagneticPull,
		})
	}

	// Levels from different categories frequently land on the same
	// price (a gamma wall at a round strike, max pain at a swing
	// low). Keep only the strongest claim per price.
	byPrice := make(map[int64]models.MagneticLevel, len(pool))
	for _, m := range pool {
		key := int64(math.Round(m.Price * 100))
		if best, ok := byPrice[key]; ok && best.Strength >= m.Strength {
			continue
		}
		byPrice[key] = m
	}

	levels := make([]models.MagneticLevel, 0, len(byPrice))
	for _, m := range byPrice {
		if m.Strength < strengthFloor && !includeAll {
			continue
		}
		if currentPrice > 0 {
			m.DistancePct = (m.Price - currentPrice) / currentPrice * 100
		}
		levels = append(levels, m)
	}

	sort.SliceStable(levels, func(i, j int) bool {
		if levels[i].Strength != levels[j].Strength {
			return levels[i].Strength > levels[j].Strength
		}
		return math.Abs(levels[i].DistancePct) < math.Abs(levels[j].DistancePct)
	})

	if len(levels) > maxLevels {
		levels = levels[:maxLevels]
	}
	return levels
}

// maxPainStrength maps an expiration's max pain onto the shared
// magnet scale. Confidence sets the base; the expiration's aggregate
// weight keeps a shaky far-dated pin from outranking the front month.
func maxPainStrength(a models.ExpirationAnalysis) float64 {
	return (0.4 + 0.6*a.MaxPain.Confidence) * (0.6 + 0.4*a.Weight)
}

// wallStrength maps relative OI concentration onto the magnet scale.
// A wall at the detection threshold (2x median) scores 0.5 and
// saturates at 4x median.
func wallStrength(w models.GammaWall) float64 {
	s := w.RelativeStrength / 4
	if s > 1 {
		s = 1
	}
	return s
}

func technicalStrength(s models.LevelStrength) float64 {
	switch s {
	case models.StrengthStrong:
		return 0.9
	case models.StrengthModerate:
		return 0.6
	default:
		return 0.3
	}
}
