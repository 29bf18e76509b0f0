package fairvalue

import (
	"sort"

	"github.com/traderank/pinpoint/internal/analysis/technical"
	"github.com/traderank/pinpoint/pkg/models"
)

// zoneGapPct is the maximum gap between adjacent levels, as a percent
// of the lower level's price, for them to merge into one zone.
const zoneGapPct = 2.0

// clusterZones merges technical levels lying within zoneGapPct of each
// other into price zones and returns the strongest zone on each side
// of the current price. A lone level never forms a zone.
func clusterZones(levels []models.TechnicalLevel, currentPrice float64) (support, resistance *models.Zone) {
	if len(levels) < 2 {
		return nil, nil
	}

	sorted := append([]models.TechnicalLevel(nil), levels...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Price < sorted[j].Price })

	var clusters [][]models.TechnicalLevel
	current := []models.TechnicalLevel{sorted[0]}
	for _, lvl := range sorted[1:] {
		prev := current[len(current)-1]
		if prev.Price > 0 && (lvl.Price-prev.Price)/prev.Price*100 <= zoneGapPct {
			current = append(current, lvl)
			continue
		}
		clusters = append(clusters, current)
		current = []models.TechnicalLevel{lvl}
	}
	clusters = append(clusters, current)

	for _, cluster := range clusters {
		if len(cluster) < 2 {
			continue
		}
		zone := &models.Zone{
			Low:      cluster[0].Price,
			High:     cluster[len(cluster)-1].Price,
			Strength: meanStrength(cluster),
		}
		mid := (zone.Low + zone.High) / 2
		if mid < currentPrice {
			if support == nil || zone.Strength > support.Strength {
				support = zone
			}
		} else {
			if resistance == nil || zone.Strength > resistance.Strength {
				resistance = zone
			}
		}
	}
	return support, resistance
}

func meanStrength(cluster []models.TechnicalLevel) float64 {
	var sum float64
	for _, lvl := range cluster {
		sum += technical.StrengthScore(lvl.Strength)
	}
	return sum / float64(len(cluster))
}
