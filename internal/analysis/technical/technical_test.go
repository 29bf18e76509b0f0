package technical

import (
	"math"
	"testing"
	"time"

	"github.com/traderank/pinpoint/pkg/models"
)

func sampleSnapshot() models.TechnicalData {
	return models.TechnicalData{
		CurrentPrice: 188.61,
		MA20:         186.20,
		MA50:         182.40,
		MA200:        175.00,
		YearHigh:     199.62,
		YearLow:      164.08,
		SwingHigh:    193.50,
		SwingLow:     181.25,
		PrevClose:    187.90,
		VWAP:         187.15,
	}
}

func TestAnalyzeLevelsAllFields(t *testing.T) {
	r := AnalyzeLevels(sampleSnapshot())

	if len(r.Levels) != 9 {
		t.Fatalf("expected 9 levels for fully populated snapshot, got %d", len(r.Levels))
	}

	for _, lv := range r.Levels {
		wantSupport := lv.Price < 188.61
		if lv.IsSupport != wantSupport || lv.IsResistance == wantSupport {
			t.Errorf("%s at %.2f: support=%v resistance=%v", lv.Type, lv.Price, lv.IsSupport, lv.IsResistance)
		}
		wantDist := (lv.Price - 188.61) / 188.61 * 100
		if math.Abs(lv.DistancePct-wantDist) > 1e-9 {
			t.Errorf("%s distance = %.4f, want %.4f", lv.Type, lv.DistancePct, wantDist)
		}
	}
}

func TestAnalyzeLevelsStrengths(t *testing.T) {
	r := AnalyzeLevels(sampleSnapshot())

	want := map[models.LevelType]models.LevelStrength{
		models.LevelMA20:      models.StrengthWeak,
		models.LevelMA50:      models.StrengthModerate,
		models.LevelMA200:     models.StrengthStrong,
		models.LevelYearHigh:  models.StrengthStrong,
		models.LevelYearLow:   models.StrengthStrong,
		models.LevelSwingHigh: models.StrengthModerate,
		models.LevelSwingLow:  models.StrengthModerate,
		models.LevelVWAP:      models.StrengthModerate,
		models.LevelPrevClose: models.StrengthWeak,
	}
	for _, lv := range r.Levels {
		if lv.Strength != want[lv.Type] {
			t.Errorf("%s strength = %s, want %s", lv.Type, lv.Strength, want[lv.Type])
		}
	}
}

func TestAnalyzeLevelsNearest(t *testing.T) {
	r := AnalyzeLevels(sampleSnapshot())

	// Below spot: PrevClose 187.90 is closest. Above spot: SwingHigh
	// 193.50 beats the 52-week high.
	if r.NearestSupport == nil || r.NearestSupport.Type != models.LevelPrevClose {
		t.Errorf("nearest support = %+v, want PREV_CLOSE", r.NearestSupport)
	}
	if r.NearestResistance == nil || r.NearestResistance.Type != models.LevelSwingHigh {
		t.Errorf("nearest resistance = %+v, want SWING_HIGH", r.NearestResistance)
	}
}

func TestAnalyzeLevelsOmitsMissing(t *testing.T) {
	td := models.TechnicalData{CurrentPrice: 50, YearHigh: 60, YearLow: 40}
	r := AnalyzeLevels(td)
	if len(r.Levels) != 2 {
		t.Fatalf("expected 2 levels (52w extremes only), got %d", len(r.Levels))
	}
	if r.Center <= 40 || r.Center >= 60 {
		t.Errorf("center %.2f outside level span", r.Center)
	}
}

func TestAnalyzeLevelsEmptySnapshot(t *testing.T) {
	r := AnalyzeLevels(models.TechnicalData{CurrentPrice: 75})
	if len(r.Levels) != 0 {
		t.Fatalf("expected no levels, got %d", len(r.Levels))
	}
	if r.Center != 75 {
		t.Errorf("center = %.2f, want spot fallback", r.Center)
	}
}

// --- snapshot builder ---

func makeCandles(n int, basePrice, trend float64) []models.OHLCV {
	candles := make([]models.OHLCV, n)
	price := basePrice
	for i := 0; i < n; i++ {
		open := price
		close := open + trend
		high := math.Max(open, close) + 2
		low := math.Min(open, close) - 2
		candles[i] = models.OHLCV{
			Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    1_000_000 + int64(i*10_000),
		}
		price = close
	}
	return candles
}

func TestBuildSnapshot(t *testing.T) {
	candles := makeCandles(260, 100, 0.2)
	td, err := BuildSnapshot(candles)
	if err != nil {
		t.Fatalf("BuildSnapshot failed: %v", err)
	}

	if td.CurrentPrice != candles[259].Close {
		t.Errorf("current price = %.2f, want last close %.2f", td.CurrentPrice, candles[259].Close)
	}
	if td.MA20 == 0 || td.MA50 == 0 || td.MA200 == 0 {
		t.Error("expected all MAs populated with 260 bars")
	}
	// Uptrend: shorter MAs sit above longer ones.
	if !(td.MA20 > td.MA50 && td.MA50 > td.MA200) {
		t.Errorf("MA ordering wrong for uptrend: %.2f / %.2f / %.2f", td.MA20, td.MA50, td.MA200)
	}
	if td.YearHigh <= td.YearLow {
		t.Errorf("52w high %.2f <= low %.2f", td.YearHigh, td.YearLow)
	}
	if td.PrevClose != candles[258].Close {
		t.Errorf("prev close = %.2f, want %.2f", td.PrevClose, candles[258].Close)
	}
	if td.VWAP == 0 || td.AvgVolume == 0 {
		t.Error("expected VWAP and average volume populated")
	}
}

func TestBuildSnapshotShortHistory(t *testing.T) {
	candles := makeCandles(30, 100, 0.5)
	td, err := BuildSnapshot(candles)
	if err != nil {
		t.Fatalf("BuildSnapshot failed: %v", err)
	}
	if td.MA20 == 0 {
		t.Error("MA20 should be available with 30 bars")
	}
	if td.MA50 != 0 || td.MA200 != 0 {
		t.Error("long MAs should be absent with 30 bars")
	}
}

func TestBuildSnapshotEmpty(t *testing.T) {
	if _, err := BuildSnapshot(nil); err == nil {
		t.Error("expected error for empty candle history")
	}
}
