package maxpain

import (
	"testing"
	"time"

	"github.com/traderank/pinpoint/pkg/models"
)

func sampleExpiration() models.OptionsExpiration {
	return models.OptionsExpiration{
		ExpiryDate: time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC),
		DTE:        30,
		Calls: []models.OptionContract{
			{Strike: 180, OpenInterest: 5_000, Volume: 900},
			{Strike: 185, OpenInterest: 8_000, Volume: 1_500},
			{Strike: 190, OpenInterest: 22_000, Volume: 4_000},
			{Strike: 195, OpenInterest: 30_000, Volume: 6_500},
			{Strike: 200, OpenInterest: 18_000, Volume: 2_000},
		},
		Puts: []models.OptionContract{
			{Strike: 170, OpenInterest: 9_000, Volume: 1_100},
			{Strike: 175, OpenInterest: 14_000, Volume: 2_200},
			{Strike: 180, OpenInterest: 35_000, Volume: 7_000},
			{Strike: 185, OpenInterest: 16_000, Volume: 1_800},
			{Strike: 190, OpenInterest: 7_000, Volume: 800},
		},
		TotalCallOI: 83_000,
		TotalPutOI:  81_000,
	}
}

func TestCalculateBasics(t *testing.T) {
	exp := sampleExpiration()
	r := Calculate(exp, 188.61)

	if r.Strike < 170 || r.Strike > 200 {
		t.Fatalf("max pain strike %.2f outside chain range", r.Strike)
	}
	if r.TotalPain <= 0 {
		t.Errorf("expected positive total pain, got %.2f", r.TotalPain)
	}
	if r.Confidence <= 0 || r.Confidence > 1 {
		t.Errorf("confidence %.4f outside (0, 1]", r.Confidence)
	}
	if r.DTE != 30 {
		t.Errorf("DTE = %d, want 30", r.DTE)
	}
}

func TestCalculateDeterministic(t *testing.T) {
	exp := sampleExpiration()
	first := Calculate(exp, 188.61)
	for i := 0; i < 20; i++ {
		if r := Calculate(exp, 188.61); r != first {
			t.Fatalf("run %d diverged: %+v vs %+v", i, r, first)
		}
	}
}

func TestCalculateDeterministicFractionalStrikes(t *testing.T) {
	// Strikes like 1.10 have no exact binary representation, so the
	// pain sum is sensitive to addition order. Summation runs over
	// sorted strikes, so repeated calls must agree to the bit even
	// though map iteration order changes between them.
	exp := models.OptionsExpiration{DTE: 5}
	for strike := 1.0; strike <= 3.0; strike += 0.1 {
		exp.Calls = append(exp.Calls, models.OptionContract{Strike: strike, OpenInterest: 1_000})
		exp.Puts = append(exp.Puts, models.OptionContract{Strike: strike, OpenInterest: 1_000})
	}

	first := Calculate(exp, 2.0)
	for i := 0; i < 50; i++ {
		if r := Calculate(exp, 2.0); r != first {
			t.Fatalf("run %d diverged: %+v vs %+v", i, r, first)
		}
	}
}

func TestBandExcludesFarStrikes(t *testing.T) {
	exp := sampleExpiration()
	base := Calculate(exp, 188.61)

	// A massive stale LEAPS strike far outside [0.6, 1.4] x spot must
	// not move the result.
	polluted := exp
	polluted.Calls = append([]models.OptionContract{}, exp.Calls...)
	polluted.Puts = append([]models.OptionContract{}, exp.Puts...)
	polluted.Calls = append(polluted.Calls, models.OptionContract{Strike: 400, OpenInterest: 9_000_000})
	polluted.Puts = append(polluted.Puts, models.OptionContract{Strike: 50, OpenInterest: 9_000_000})

	got := Calculate(polluted, 188.61)
	if got.Strike != base.Strike {
		t.Errorf("far-OOB strikes moved max pain: %.2f -> %.2f", base.Strike, got.Strike)
	}
	if got.TotalPain != base.TotalPain {
		t.Errorf("far-OOB strikes changed pain: %.2f -> %.2f", base.TotalPain, got.TotalPain)
	}
}

func TestTieBreaksToLowestStrike(t *testing.T) {
	// Symmetric chain: pain at 95 and 105 is identical, 100 wins, but
	// construct a flat two-way tie by mirroring OI around the middle.
	exp := models.OptionsExpiration{
		DTE: 7,
		Calls: []models.OptionContract{
			{Strike: 95, OpenInterest: 100},
			{Strike: 105, OpenInterest: 100},
		},
		Puts: []models.OptionContract{
			{Strike: 95, OpenInterest: 100},
			{Strike: 105, OpenInterest: 100},
		},
	}

	r := Calculate(exp, 100)
	if r.Strike != 95 {
		t.Errorf("tie resolved to %.2f, want lowest strike 95", r.Strike)
	}
}

func TestDegenerateBand(t *testing.T) {
	exp := models.OptionsExpiration{
		DTE: 10,
		Calls: []models.OptionContract{
			{Strike: 500, OpenInterest: 10_000}, // far outside band for spot=50
		},
	}

	r := Calculate(exp, 50)
	if r.Strike != 50 {
		t.Errorf("degenerate result strike = %.2f, want spot 50", r.Strike)
	}
	if r.TotalPain != 0 || r.Confidence != 0 {
		t.Errorf("degenerate result should be zero pain/confidence, got %.2f/%.4f", r.TotalPain, r.Confidence)
	}
}

func TestZeroOIContractsIgnored(t *testing.T) {
	exp := sampleExpiration()
	polluted := exp
	polluted.Calls = append([]models.OptionContract{}, exp.Calls...)
	polluted.Calls = append(polluted.Calls, models.OptionContract{Strike: 187.5, OpenInterest: 0, Volume: 99_999})

	base := Calculate(exp, 188.61)
	got := Calculate(polluted, 188.61)
	if got.Strike != base.Strike || got.TotalPain != base.TotalPain {
		t.Error("zero-OI contract influenced the result")
	}
}

func TestConfidenceMonotonicInOI(t *testing.T) {
	// Scale every contract's OI uniformly: concentration fraction is
	// held fixed, so confidence must never decrease.
	scale := func(exp models.OptionsExpiration, k int64) models.OptionsExpiration {
		out := exp
		out.Calls = make([]models.OptionContract, len(exp.Calls))
		out.Puts = make([]models.OptionContract, len(exp.Puts))
		for i, c := range exp.Calls {
			c.OpenInterest *= k
			out.Calls[i] = c
		}
		for i, p := range exp.Puts {
			p.OpenInterest *= k
			out.Puts[i] = p
		}
		return out
	}

	exp := sampleExpiration()
	prev := -1.0
	for _, k := range []int64{1, 2, 4, 8, 16} {
		r := Calculate(scale(exp, k), 188.61)
		if r.Confidence < prev {
			t.Fatalf("confidence decreased at scale %d: %.4f < %.4f", k, r.Confidence, prev)
		}
		prev = r.Confidence
	}
}
