package fairvalue

import "github.com/traderank/pinpoint/pkg/models"

// SpreadLevels are the short-strike candidates a credit-spread seller
// cares about: every put wall and call wall across the analyzed
// expirations. Strikes are de-duplicated and ordered by expiration
// weight, then wall strength within an expiration, so the first entry
// on each side is the most defensible boundary.
type SpreadLevels struct {
	PutWalls  []float64 `json:"put_walls"`
	CallWalls []float64 `json:"call_walls"`
}

// Spread gathers the wall strikes from a computed fair value.
func Spread(pfv *models.PsychologicalFairValue) SpreadLevels {
	var s SpreadLevels
	if pfv == nil {
		return s
	}

	seenPut := make(map[float64]bool)
	seenCall := make(map[float64]bool)
	for _, exp := range pfv.Expirations {
		for _, w := range exp.GammaWalls.Walls {
			switch w.Type {
			case models.PutWall:
				if !seenPut[w.Strike] {
					seenPut[w.Strike] = true
					s.PutWalls = append(s.PutWalls, w.Strike)
				}
			case models.CallWall:
				if !seenCall[w.Strike] {
					seenCall[w.Strike] = true
					s.CallWalls = append(s.CallWalls, w.Strike)
				}
			}
		}
	}
	return s
}
