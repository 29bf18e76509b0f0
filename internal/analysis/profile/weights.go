package profile

import (
	"github.com/traderank/pinpoint/pkg/models"
)

// Overrides holds caller-supplied per-component weight overrides keyed
// by the canonical component names (models.ComponentMaxPain etc.).
// Override values need not sum to 1: they are merged onto the resolved
// profile's weights and the bundle is renormalized.
type Overrides map[string]float64

// NormalizeWeights rescales a bundle so the five components sum to
// exactly 1.0. An all-zero bundle yields five equal 0.2 weights.
func NormalizeWeights(w models.ProfileWeights) models.ProfileWeights {
	total := w.Sum()
	if total == 0 {
		return models.ProfileWeights{
			MaxPain:     0.2,
			GammaWalls:  0.2,
			Technical:   0.2,
			Volume:      0.2,
			RoundNumber: 0.2,
		}
	}

	return models.ProfileWeights{
		MaxPain:     w.MaxPain / total,
		GammaWalls:  w.GammaWalls / total,
		Technical:   w.Technical / total,
		Volume:      w.Volume / total,
		RoundNumber: w.RoundNumber / total,
	}
}

// ApplyOverrides merges overrides onto base weights and renormalizes.
// Unknown keys are ignored.
func ApplyOverrides(base models.ProfileWeights, overrides Overrides) models.ProfileWeights {
	if len(overrides) == 0 {
		return NormalizeWeights(base)
	}

	merged := base
	for name, v := range overrides {
		switch name {
		case models.ComponentMaxPain:
			merged.MaxPain = v
		case models.ComponentGammaWalls:
			merged.GammaWalls = v
		case models.ComponentTechnical:
			merged.Technical = v
		case models.ComponentVolume:
			merged.Volume = v
		case models.ComponentRoundNumber:
			merged.RoundNumber = v
		}
	}

	return NormalizeWeights(merged)
}
