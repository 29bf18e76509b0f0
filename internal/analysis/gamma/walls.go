// Package gamma detects gamma walls: strikes with abnormally
// concentrated open interest relative to the chain's median, where
// market-maker hedging flows create de facto support and resistance.
package gamma

import (
	"sort"

	"github.com/traderank/pinpoint/internal/analysis/calc"
	"github.com/traderank/pinpoint/pkg/models"
)

// DefaultThresholdMultiplier flags strikes holding at least twice the
// median open interest of their side.
const DefaultThresholdMultiplier = 2.0

const (
	bandLow  = 0.7
	bandHigh = 1.3
)

// DetectWalls finds call and put walls for one expiration.
//
// Strikes are restricted to [0.7, 1.3] x spot with positive OI, then
// aggregated per side. A strike above spot whose call OI clears
// thresholdMultiplier x median call OI is a CALL_WALL (resistance); a
// strike below spot whose put OI clears the put-side threshold is a
// PUT_WALL (support). A strike clearing both is additionally recorded
// as COMBINED with averaged strength and summed OI — the separate
// entries are kept too, so a combined strike counts twice in the
// weighted center.
func DetectWalls(exp models.OptionsExpiration, currentPrice, thresholdMultiplier float64) models.GammaWallsResult {
	result := models.GammaWallsResult{
		ExpiryDate: exp.ExpiryDate,
		DTE:        exp.DTE,
		Center:     currentPrice,
	}

	if currentPrice <= 0 {
		return result
	}
	if thresholdMultiplier <= 0 {
		thresholdMultiplier = DefaultThresholdMultiplier
	}

	low := bandLow * currentPrice
	high := bandHigh * currentPrice

	callOI := aggregateBand(exp.Calls, low, high)
	putOI := aggregateBand(exp.Puts, low, high)

	callMedian := medianOI(callOI)
	putMedian := medianOI(putOI)

	var walls []models.GammaWall

	for strike, oi := range callOI {
		if strike <= currentPrice || callMedian == 0 {
			continue
		}
		if float64(oi) >= thresholdMultiplier*callMedian {
			walls = append(walls, models.GammaWall{
				Strike:           strike,
				Type:             models.CallWall,
				OpenInterest:     oi,
				RelativeStrength: float64(oi) / callMedian,
				IsResistance:     true,
			})
		}
	}

	for strike, oi := range putOI {
		if strike >= currentPrice || putMedian == 0 {
			continue
		}
		if float64(oi) >= thresholdMultiplier*putMedian {
			walls = append(walls, models.GammaWall{
				Strike:           strike,
				Type:             models.PutWall,
				OpenInterest:     oi,
				RelativeStrength: float64(oi) / putMedian,
				IsSupport:        true,
			})
		}
	}

	// A strike can't clear both thresholds on the same side of spot,
	// so COMBINED only applies when call and put walls share a strike
	// price — which requires checking both maps regardless of side.
	walls = append(walls, combinedWalls(callOI, putOI, callMedian, putMedian, thresholdMultiplier)...)

	if len(walls) == 0 {
		return result
	}

	// Strongest first; ties by strike ascending for determinism.
	sort.Slice(walls, func(i, j int) bool {
		if walls[i].RelativeStrength != walls[j].RelativeStrength {
			return walls[i].RelativeStrength > walls[j].RelativeStrength
		}
		return walls[i].Strike < walls[j].Strike
	})

	result.Walls = walls

	for i := range walls {
		w := walls[i]
		if w.IsSupport && result.StrongestSupport == nil {
			result.StrongestSupport = &walls[i]
		}
		if w.IsResistance && result.StrongestResistance == nil {
			result.StrongestResistance = &walls[i]
		}
	}

	values := make([]float64, len(walls))
	weights := make([]float64, len(walls))
	for i, w := range walls {
		values[i] = w.Strike
		weights[i] = float64(w.OpenInterest) * w.RelativeStrength
	}
	result.Center = calc.WeightedAverage(values, weights, currentPrice)

	return result
}

// combinedWalls records strikes clearing both side thresholds
// simultaneously.
func combinedWalls(callOI, putOI map[float64]int64, callMedian, putMedian, mult float64) []models.GammaWall {
	if callMedian == 0 || putMedian == 0 {
		return nil
	}

	var walls []models.GammaWall
	for strike, cOI := range callOI {
		pOI, ok := putOI[strike]
		if !ok {
			continue
		}
		callHit := float64(cOI) >= mult*callMedian
		putHit := float64(pOI) >= mult*putMedian
		if callHit && putHit {
			walls = append(walls, models.GammaWall{
				Strike:           strike,
				Type:             models.CombinedWall,
				OpenInterest:     cOI + pOI,
				RelativeStrength: (float64(cOI)/callMedian + float64(pOI)/putMedian) / 2,
				IsSupport:        true,
				IsResistance:     true,
			})
		}
	}
	return walls
}

func aggregateBand(contracts []models.OptionContract, low, high float64) map[float64]int64 {
	oi := make(map[float64]int64)
	for _, c := range contracts {
		if c.OpenInterest <= 0 || c.Strike < low || c.Strike > high {
			continue
		}
		oi[c.Strike] += c.OpenInterest
	}
	return oi
}

func medianOI(oi map[float64]int64) float64 {
	if len(oi) == 0 {
		return 0
	}

	values := make([]float64, 0, len(oi))
	for _, v := range oi {
		values = append(values, float64(v))
	}
	sort.Float64s(values)

	n := len(values)
	if n%2 == 1 {
		return values[n/2]
	}
	return (values[n/2-1] + values[n/2]) / 2
}
