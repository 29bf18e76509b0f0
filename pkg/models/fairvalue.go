package models

import "time"

// --- Max pain ---

// MaxPainResult holds the max-pain strike for a single expiration: the
// hypothetical settlement price minimizing aggregate option-holder
// payoff.
type MaxPainResult struct {
	Strike     float64   `json:"strike"`
	ExpiryDate time.Time `json:"expiry_date"`
	DTE        int       `json:"dte"`
	TotalPain  float64   `json:"total_pain"`
	CallPain   float64   `json:"call_pain"`
	PutPain    float64   `json:"put_pain"`
	Confidence float64   `json:"confidence"` // 0.0 to 1.0
}

// --- Gamma walls ---

// WallType classifies a gamma wall by the side of the chain driving it.
type WallType string

const (
	CallWall     WallType = "CALL_WALL"
	PutWall      WallType = "PUT_WALL"
	CombinedWall WallType = "COMBINED"
)

// GammaWall is a strike with abnormally concentrated open interest
// that forces market-maker hedging flows.
type GammaWall struct {
	Strike           float64  `json:"strike"`
	Type             WallType `json:"type"`
	OpenInterest     int64    `json:"open_interest"`
	RelativeStrength float64  `json:"relative_strength"` // ratio to median OI
	IsSupport        bool     `json:"is_support"`
	IsResistance     bool     `json:"is_resistance"`
}

// GammaWallsResult bundles all detected walls for one expiration.
type GammaWallsResult struct {
	ExpiryDate          time.Time  `json:"expiry_date"`
	DTE                 int        `json:"dte"`
	Walls               []GammaWall `json:"walls"`
	StrongestSupport    *GammaWall `json:"strongest_support,omitempty"`
	StrongestResistance *GammaWall `json:"strongest_resistance,omitempty"`
	Center              float64    `json:"center"` // OI x strength weighted average strike
}

// --- Technical levels ---

// LevelType is one of the nine fixed technical level categories.
type LevelType string

const (
	LevelMA20      LevelType = "MA_20"
	LevelMA50      LevelType = "MA_50"
	LevelMA200     LevelType = "MA_200"
	LevelYearHigh  LevelType = "52W_HIGH"
	LevelYearLow   LevelType = "52W_LOW"
	LevelSwingHigh LevelType = "SWING_HIGH"
	LevelSwingLow  LevelType = "SWING_LOW"
	LevelVWAP      LevelType = "VWAP"
	LevelPrevClose LevelType = "PREV_CLOSE"
)

// LevelStrength grades how strongly a technical level tends to hold.
type LevelStrength string

const (
	StrengthWeak     LevelStrength = "WEAK"
	StrengthModerate LevelStrength = "MODERATE"
	StrengthStrong   LevelStrength = "STRONG"
)

// TechnicalLevel is a single support/resistance level derived from the
// technical snapshot.
type TechnicalLevel struct {
	Price        float64       `json:"price"`
	Type         LevelType     `json:"type"`
	Strength     LevelStrength `json:"strength"`
	DistancePct  float64       `json:"distance_pct"` // signed % from current price
	IsSupport    bool          `json:"is_support"`
	IsResistance bool          `json:"is_resistance"`
}

// TechnicalLevelsResult bundles all levels from one snapshot.
type TechnicalLevelsResult struct {
	Levels            []TechnicalLevel `json:"levels"`
	NearestSupport    *TechnicalLevel  `json:"nearest_support,omitempty"`
	NearestResistance *TechnicalLevel  `json:"nearest_resistance,omitempty"`
	Center            float64          `json:"center"`
}

// --- Round numbers ---

// RoundSignificance grades a round-number level by its spacing tier.
type RoundSignificance string

const (
	RoundMajor    RoundSignificance = "MAJOR"
	RoundModerate RoundSignificance = "MODERATE"
	RoundMinor    RoundSignificance = "MINOR"
)

// RoundNumberLevel is a synthetic magnet at a round-number price.
type RoundNumberLevel struct {
	Price        float64           `json:"price"`
	Significance RoundSignificance `json:"significance"`
	DistancePct  float64           `json:"distance_pct"`
	MagneticPull float64           `json:"magnetic_pull"` // 0.0 to 1.0
}

// RoundNumbersResult bundles round-number levels in a band around the
// current price.
type RoundNumbersResult struct {
	Levels       []RoundNumberLevel `json:"levels"`
	NearestMajor *RoundNumberLevel  `json:"nearest_major,omitempty"`
	Center       float64            `json:"center"` // pull-weighted average price
}

// --- Multi-expiration aggregation ---

// ExpirationAnalysis is the per-expiration slice of the aggregate: the
// options-derived signals plus the normalized weight this expiration
// contributes. Weights across the full set sum to 1.0.
type ExpirationAnalysis struct {
	ExpiryDate    time.Time        `json:"expiry_date"`
	DTE           int              `json:"dte"`
	MaxPain       MaxPainResult    `json:"max_pain"`
	GammaWalls    GammaWallsResult `json:"gamma_walls"`
	Weight        float64          `json:"weight"` // 0.0 to 1.0
	IsMonthlyOpex bool             `json:"is_monthly_opex"`
	IsWeeklyOpex  bool             `json:"is_weekly_opex"`
}

// --- Unified output ---

// MagneticLevel is a de-duplicated price magnet drawn from any signal
// category, rankable against levels from every other category. Type is
// a WallType, LevelType, "MAX_PAIN" or "ROUND_NUMBER" tag.
type MagneticLevel struct {
	Price       float64   `json:"price"`
	Type        string    `json:"type"`
	Strength    float64   `json:"strength"` // 0.0 to 1.0
	DistancePct float64   `json:"distance_pct"`
	ExpiryDate  time.Time `json:"expiry_date,omitempty"` // zero for non-options sources
}

const (
	MagnetMaxPain     = "MAX_PAIN"
	MagnetRoundNumber = "ROUND_NUMBER"
)

// ConfidenceGrade buckets the composite confidence score.
type ConfidenceGrade string

const (
	ConfidenceHigh   ConfidenceGrade = "HIGH"
	ConfidenceMedium ConfidenceGrade = "MEDIUM"
	ConfidenceLow    ConfidenceGrade = "LOW"
)

// Bias is the directional lean implied by fair value vs current price.
type Bias string

const (
	BiasBullish Bias = "BULLISH"
	BiasNeutral Bias = "NEUTRAL"
	BiasBearish Bias = "BEARISH"
)

// DataFreshness tags how current the underlying snapshot can be.
type DataFreshness string

const (
	FreshnessFresh   DataFreshness = "FRESH"
	FreshnessStale   DataFreshness = "STALE"
	FreshnessWeekend DataFreshness = "WEEKEND"
)

// Canonical component names, used both as breakdown labels and as
// weight-override keys.
const (
	ComponentMaxPain     = "max_pain"
	ComponentGammaWalls  = "gamma_walls"
	ComponentTechnical   = "technical"
	ComponentVolume      = "volume"
	ComponentRoundNumber = "round_number"
)

// ComponentBreakdown shows one signal category's contribution to the
// composite fair value.
type ComponentBreakdown struct {
	Name         string  `json:"name"`
	Value        float64 `json:"value"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"` // value * weight
}

// Zone is a price band where multiple technical levels cluster.
type Zone struct {
	Low      float64 `json:"low"`
	High     float64 `json:"high"`
	Strength float64 `json:"strength"` // mean level strength score
}

// PsychologicalFairValue is the engine's final output record: the
// price level the market is hypothesized to gravitate toward, with
// everything a consumer needs to act on it.
type PsychologicalFairValue struct {
	Ticker          string               `json:"ticker"`
	FairValue       float64              `json:"fair_value"`
	CurrentPrice    float64              `json:"current_price"`
	Confidence      ConfidenceGrade      `json:"confidence"`
	ConfidenceScore float64              `json:"confidence_score"`
	DeviationPct    float64              `json:"deviation_pct"`
	DeviationAbs    float64              `json:"deviation_abs"` // fair value - current, in dollars
	Bias            Bias                 `json:"bias"`
	Profile         TickerProfile        `json:"profile"`
	Components      []ComponentBreakdown `json:"components"`
	Expirations     []ExpirationAnalysis `json:"expirations"`
	Primary         *ExpirationAnalysis  `json:"primary,omitempty"`
	MagneticLevels  []MagneticLevel      `json:"magnetic_levels"`
	SupportZone     *Zone                `json:"support_zone,omitempty"`
	ResistanceZone  *Zone                `json:"resistance_zone,omitempty"`
	DataFreshness   DataFreshness        `json:"data_freshness"`
	AIContext       string               `json:"ai_context"`     // compact text for an LLM context window
	Interpretation  string               `json:"interpretation"` // human-readable summary
	CalculatedAt    time.Time            `json:"calculated_at"`
}
