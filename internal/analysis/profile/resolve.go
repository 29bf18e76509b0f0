package profile

import (
	"github.com/traderank/pinpoint/pkg/models"
)

// heuristic is one (predicate, profile) rule evaluated when list
// classification misses and both technical and options data are
// available. Rules run in declaration order; the first match wins.
type heuristic struct {
	name    string
	applies func(td *models.TechnicalData, exps []models.OptionsExpiration) bool
	profile models.ProfileType
}

// rangeRatio is the 52-week range divided by the current price, a
// cheap volatility proxy.
func rangeRatio(td *models.TechnicalData) float64 {
	if td.CurrentPrice <= 0 {
		return 0
	}
	return (td.YearHigh - td.YearLow) / td.CurrentPrice
}

func aggregateOI(exps []models.OptionsExpiration) int64 {
	var total int64
	for _, e := range exps {
		total += e.TotalOI()
	}
	return total
}

var heuristics = []heuristic{
	{
		name: "wide_range_retail",
		applies: func(td *models.TechnicalData, _ []models.OptionsExpiration) bool {
			return rangeRatio(td) > 1.5
		},
		profile: models.ProfileMemeRetail,
	},
	{
		name: "cheap_and_volatile",
		applies: func(td *models.TechnicalData, _ []models.OptionsExpiration) bool {
			return td.CurrentPrice < 20 && rangeRatio(td) > 1.0
		},
		profile: models.ProfileLowFloat,
	},
	{
		name: "stable_large_cap",
		applies: func(td *models.TechnicalData, exps []models.OptionsExpiration) bool {
			return td.CurrentPrice > 100 && rangeRatio(td) < 0.5 && aggregateOI(exps) > 100_000
		},
		profile: models.ProfileBlueChip,
	},
}

// Resolve picks the behavioral profile for a ticker. Lookup order:
// explicit classification (ETF, meme/retail, blue-chip lists), then
// data-driven heuristics when both technical and options snapshots
// are supplied, then DEFAULT.
func Resolve(classifier Classifier, ticker string, td *models.TechnicalData, exps []models.OptionsExpiration) models.TickerProfile {
	if classifier != nil {
		if pt, ok := classifier.Classify(ticker); ok {
			return Get(pt)
		}
	}

	if td != nil && len(exps) > 0 {
		for _, h := range heuristics {
			if h.applies(td, exps) {
				return Get(h.profile)
			}
		}
	}

	return Get(models.ProfileDefault)
}
