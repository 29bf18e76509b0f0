package models

// ProfileType identifies a behavioral weighting profile.
type ProfileType string

const (
	ProfileBlueChip   ProfileType = "BLUE_CHIP"
	ProfileMemeRetail ProfileType = "MEME_RETAIL"
	ProfileETF        ProfileType = "ETF"
	ProfileLowFloat   ProfileType = "LOW_FLOAT"
	ProfileDefault    ProfileType = "DEFAULT"
)

// ProfileWeights distributes influence across the five signal
// categories. Weights are non-negative and, after normalization, sum
// to exactly 1.0; the engine never consumes a bundle without
// normalizing it first.
type ProfileWeights struct {
	MaxPain     float64 `json:"max_pain"`
	GammaWalls  float64 `json:"gamma_walls"`
	Technical   float64 `json:"technical"`
	Volume      float64 `json:"volume"`
	RoundNumber float64 `json:"round_number"`
}

// Sum returns the raw total of all five weights.
func (w ProfileWeights) Sum() float64 {
	return w.MaxPain + w.GammaWalls + w.Technical + w.Volume + w.RoundNumber
}

// TickerProfile is a named weighting scheme encoding a behavioral
// hypothesis about how a class of tickers gravitates to price levels.
type TickerProfile struct {
	Type        ProfileType    `json:"type"`
	Description string         `json:"description"`
	Weights     ProfileWeights `json:"weights"`
}
