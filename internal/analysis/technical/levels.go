// Package technical turns a point-in-time technical snapshot into a
// ranked set of support/resistance levels and builds that snapshot
// from raw candles when a caller supplies bars instead.
package technical

import (
	"math"

	"github.com/traderank/pinpoint/internal/analysis/calc"
	"github.com/traderank/pinpoint/pkg/models"
)

// levelSpec fixes the category and strength each snapshot field maps to.
type levelSpec struct {
	price    func(td models.TechnicalData) float64
	typ      models.LevelType
	strength models.LevelStrength
}

var levelSpecs = []levelSpec{
	{func(td models.TechnicalData) float64 { return td.MA20 }, models.LevelMA20, models.StrengthWeak},
	{func(td models.TechnicalData) float64 { return td.MA50 }, models.LevelMA50, models.StrengthModerate},
	{func(td models.TechnicalData) float64 { return td.MA200 }, models.LevelMA200, models.StrengthStrong},
	{func(td models.TechnicalData) float64 { return td.YearHigh }, models.LevelYearHigh, models.StrengthStrong},
	{func(td models.TechnicalData) float64 { return td.YearLow }, models.LevelYearLow, models.StrengthStrong},
	{func(td models.TechnicalData) float64 { return td.SwingHigh }, models.LevelSwingHigh, models.StrengthModerate},
	{func(td models.TechnicalData) float64 { return td.SwingLow }, models.LevelSwingLow, models.StrengthModerate},
	{func(td models.TechnicalData) float64 { return td.VWAP }, models.LevelVWAP, models.StrengthModerate},
	{func(td models.TechnicalData) float64 { return td.PrevClose }, models.LevelPrevClose, models.StrengthWeak},
}

// StrengthScore maps a level strength grade to its numeric weight.
func StrengthScore(s models.LevelStrength) float64 {
	switch s {
	case models.StrengthStrong:
		return 3
	case models.StrengthModerate:
		return 2
	default:
		return 1
	}
}

// AnalyzeLevels emits one level per populated snapshot field with its
// fixed strength. Absent (zero) fields are simply skipped. The weighted
// center damps each level's influence by its distance from spot:
// weight = strengthScore / (1 + |distance%| / 10).
func AnalyzeLevels(td models.TechnicalData) models.TechnicalLevelsResult {
	result := models.TechnicalLevelsResult{Center: td.CurrentPrice}
	if td.CurrentPrice <= 0 {
		return result
	}

	var levels []models.TechnicalLevel
	for _, spec := range levelSpecs {
		price := spec.price(td)
		if price <= 0 {
			continue
		}

		dist := (price - td.CurrentPrice) / td.CurrentPrice * 100
		levels = append(levels, models.TechnicalLevel{
			Price:        price,
			Type:         spec.typ,
			Strength:     spec.strength,
			DistancePct:  dist,
			IsSupport:    price < td.CurrentPrice,
			IsResistance: price > td.CurrentPrice,
		})
	}

	if len(levels) == 0 {
		return result
	}

	result.Levels = levels

	values := make([]float64, len(levels))
	weights := make([]float64, len(levels))
	for i, lv := range levels {
		values[i] = lv.Price
		weights[i] = StrengthScore(lv.Strength) / (1 + math.Abs(lv.DistancePct)/10)
	}
	result.Center = calc.WeightedAverage(values, weights, td.CurrentPrice)

	for i := range levels {
		lv := levels[i]
		if lv.IsSupport {
			if result.NearestSupport == nil || math.Abs(lv.DistancePct) < math.Abs(result.NearestSupport.DistancePct) {
				result.NearestSupport = &levels[i]
			}
		}
		if lv.IsResistance {
			if result.NearestResistance == nil || math.Abs(lv.DistancePct) < math.Abs(result.NearestResistance.DistancePct) {
				result.NearestResistance = &levels[i]
			}
		}
	}

	return result
}
