package profile

import (
	"math"
	"testing"

	"github.com/traderank/pinpoint/pkg/models"
)

func TestRegistryWeightsSumToOne(t *testing.T) {
	for pt, p := range Profiles {
		if sum := p.Weights.Sum(); math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("%s weights sum to %.6f, want 1.0", pt, sum)
		}
	}
}

func TestNormalizeWeights(t *testing.T) {
	w := NormalizeWeights(models.ProfileWeights{MaxPain: 2, GammaWalls: 2, Technical: 4, Volume: 1, RoundNumber: 1})
	if sum := w.Sum(); math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("normalized sum = %.12f, want 1.0", sum)
	}
	if math.Abs(w.Technical-0.4) > 1e-9 {
		t.Errorf("technical = %.4f, want 0.4", w.Technical)
	}
}

func TestNormalizeWeightsAllZero(t *testing.T) {
	w := NormalizeWeights(models.ProfileWeights{})
	for name, v := range map[string]float64{
		"max_pain": w.MaxPain, "gamma_walls": w.GammaWalls,
		"technical": w.Technical, "volume": w.Volume, "round_number": w.RoundNumber,
	} {
		if v != 0.2 {
			t.Errorf("%s = %.4f, want 0.2 for all-zero input", name, v)
		}
	}
}

func TestApplyOverrides(t *testing.T) {
	base := Get(models.ProfileDefault).Weights
	w := ApplyOverrides(base, Overrides{models.ComponentMaxPain: 10})

	if sum := w.Sum(); math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("overridden sum = %.12f, want 1.0", sum)
	}
	if w.MaxPain < 0.9 {
		t.Errorf("max pain weight = %.4f, expected dominant after 10x override", w.MaxPain)
	}
}

func TestClassifierLists(t *testing.T) {
	c := NewDefaultClassifier()

	cases := []struct {
		ticker string
		want   models.ProfileType
	}{
		{"SPY", models.ProfileETF},
		{"spy", models.ProfileETF}, // case-insensitive
		{"GME", models.ProfileMemeRetail},
		{"AAPL", models.ProfileBlueChip},
	}
	for _, tc := range cases {
		got, ok := c.Classify(tc.ticker)
		if !ok || got != tc.want {
			t.Errorf("Classify(%s) = %s, %v; want %s", tc.ticker, got, ok, tc.want)
		}
	}

	if _, ok := c.Classify("ZZZZ"); ok {
		t.Error("Classify(ZZZZ) should miss")
	}
}

func TestResolveHeuristics(t *testing.T) {
	exps := []models.OptionsExpiration{{TotalCallOI: 80_000, TotalPutOI: 70_000}}

	// Wide 52-week range relative to price -> meme/retail.
	wide := &models.TechnicalData{CurrentPrice: 10, YearHigh: 40, YearLow: 2}
	if p := Resolve(nil, "XXXX", wide, exps); p.Type != models.ProfileMemeRetail {
		t.Errorf("wide range resolved to %s, want MEME_RETAIL", p.Type)
	}

	// Cheap with moderate range -> low float.
	cheap := &models.TechnicalData{CurrentPrice: 8, YearHigh: 12, YearLow: 3}
	if p := Resolve(nil, "XXXX", cheap, exps); p.Type != models.ProfileLowFloat {
		t.Errorf("cheap/volatile resolved to %s, want LOW_FLOAT", p.Type)
	}

	// Expensive, tight range, deep OI -> blue chip.
	stable := &models.TechnicalData{CurrentPrice: 250, YearHigh: 280, YearLow: 200}
	if p := Resolve(nil, "XXXX", stable, exps); p.Type != models.ProfileBlueChip {
		t.Errorf("stable large cap resolved to %s, want BLUE_CHIP", p.Type)
	}
}

func TestResolveFallsBackToDefault(t *testing.T) {
	p := Resolve(NewDefaultClassifier(), "ZZZZ", nil, nil)
	if p.Type != models.ProfileDefault {
		t.Errorf("resolved to %s, want DEFAULT without data", p.Type)
	}
}

func TestResolveListBeatsHeuristics(t *testing.T) {
	// SPY has a wide synthetic range here, but the ETF list wins.
	wide := &models.TechnicalData{CurrentPrice: 10, YearHigh: 40, YearLow: 2}
	exps := []models.OptionsExpiration{{TotalCallOI: 500_000}}
	p := Resolve(NewDefaultClassifier(), "SPY", wide, exps)
	if p.Type != models.ProfileETF {
		t.Errorf("SPY resolved to %s, want ETF from list", p.Type)
	}
}
