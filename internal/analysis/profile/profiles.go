// Package profile resolves the behavioral weighting profile for a
// ticker: which of the five signal categories (max pain, gamma walls,
// technical, volume, round numbers) dominate its price magnetism.
package profile

import (
	"github.com/traderank/pinpoint/pkg/models"
)

// Profiles is the fixed registry of the five behavioral profiles.
// Weights encode the behavioral hypothesis for each class: index
// products pin to max pain into OPEX, retail-heavy names chase round
// numbers and gamma squeezes, large caps respect technical structure.
var Profiles = map[models.ProfileType]models.TickerProfile{
	models.ProfileBlueChip: {
		Type:        models.ProfileBlueChip,
		Description: "Large-cap, institutionally held; technical structure and max pain dominate",
		Weights: models.ProfileWeights{
			MaxPain:     0.30,
			GammaWalls:  0.25,
			Technical:   0.25,
			Volume:      0.10,
			RoundNumber: 0.10,
		},
	},
	models.ProfileMemeRetail: {
		Type:        models.ProfileMemeRetail,
		Description: "High retail participation; round numbers and gamma squeezes dominate",
		Weights: models.ProfileWeights{
			MaxPain:     0.15,
			GammaWalls:  0.30,
			Technical:   0.10,
			Volume:      0.10,
			RoundNumber: 0.35,
		},
	},
	models.ProfileETF: {
		Type:        models.ProfileETF,
		Description: "Index product; heavy dealer positioning makes max pain the strongest magnet",
		Weights: models.ProfileWeights{
			MaxPain:     0.40,
			GammaWalls:  0.25,
			Technical:   0.20,
			Volume:      0.10,
			RoundNumber: 0.05,
		},
	},
	models.ProfileLowFloat: {
		Type:        models.ProfileLowFloat,
		Description: "Thin float, wide ranges; round numbers and technicals over options mechanics",
		Weights: models.ProfileWeights{
			MaxPain:     0.10,
			GammaWalls:  0.20,
			Technical:   0.25,
			Volume:      0.15,
			RoundNumber: 0.30,
		},
	},
	models.ProfileDefault: {
		Type:        models.ProfileDefault,
		Description: "Balanced weighting across all signal categories",
		Weights: models.ProfileWeights{
			MaxPain:     0.25,
			GammaWalls:  0.20,
			Technical:   0.25,
			Volume:      0.15,
			RoundNumber: 0.15,
		},
	},
}

// Get returns the registered profile for a type, falling back to
// DEFAULT for unknown types.
func Get(pt models.ProfileType) models.TickerProfile {
	if p, ok := Profiles[pt]; ok {
		return p
	}
	return Profiles[models.ProfileDefault]
}
