package fairvalue

import (
	"fmt"
	"strings"

	"github.com/traderank/pinpoint/pkg/models"
)

// renderAIContext produces a compact, token-cheap block an LLM can
// consume verbatim. One fact per line, no prose.
func renderAIContext(pfv *models.PsychologicalFairValue) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: price %.2f, fair value %.2f (%+.1f%%), bias %s, confidence %s (%.2f)\n",
		pfv.Ticker, pfv.CurrentPrice, pfv.FairValue, pfv.DeviationPct, pfv.Bias, pfv.Confidence, pfv.ConfidenceScore)
	fmt.Fprintf(&b, "profile: %s | data: %s\n", pfv.Profile.Type, pfv.DataFreshness)

	if pfv.Primary != nil {
		p := pfv.Primary
		fmt.Fprintf(&b, "primary expiry %s (%dd, weight %.2f): max pain %.2f",
			p.ExpiryDate.Format("2006-01-02"), p.DTE, p.Weight, p.MaxPain.Strike)
		if p.GammaWalls.StrongestSupport != nil {
			fmt.Fprintf(&b, ", put wall %.2f", p.GammaWalls.StrongestSupport.Strike)
		}
		if p.GammaWalls.StrongestResistance != nil {
			fmt.Fprintf(&b, ", call wall %.2f", p.GammaWalls.StrongestResistance.Strike)
		}
		b.WriteByte('\n')
	}

	if len(pfv.MagneticLevels) > 0 {
		b.WriteString("magnets:")
		n := len(pfv.MagneticLevels)
		if n > 5 {
			n = 5
		}
		for _, m := range pfv.MagneticLevels[:n] {
			fmt.Fprintf(&b, " %.2f(%s %.2f)", m.Price, m.Type, m.Strength)
		}
		b.WriteByte('\n')
	}

	if pfv.SupportZone != nil {
		fmt.Fprintf(&b, "support zone: %.2f-%.2f\n", pfv.SupportZone.Low, pfv.SupportZone.High)
	}
	if pfv.ResistanceZone != nil {
		fmt.Fprintf(&b, "resistance zone: %.2f-%.2f\n", pfv.ResistanceZone.Low, pfv.ResistanceZone.High)
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderInterpretation produces the human-readable one-paragraph read.
func renderInterpretation(pfv *models.PsychologicalFairValue) string {
	var b strings.Builder

	switch {
	case pfv.DeviationPct > biasThresholdPct:
		fmt.Fprintf(&b, "%s trades %.1f%% below its psychological fair value of %.2f, suggesting upward pull toward that level.",
			pfv.Ticker, pfv.DeviationPct, pfv.FairValue)
	case pfv.DeviationPct < -biasThresholdPct:
		fmt.Fprintf(&b, "%s trades %.1f%% above its psychological fair value of %.2f, suggesting downward pull toward that level.",
			pfv.Ticker, -pfv.DeviationPct, pfv.FairValue)
	default:
		fmt.Fprintf(&b, "%s trades near its psychological fair value of %.2f; expect range-bound, pinning behavior.",
			pfv.Ticker, pfv.FairValue)
	}

	if pfv.Bias != models.BiasNeutral {
		fmt.Fprintf(&b, " Overall bias is %s.", strings.ToLower(string(pfv.Bias)))
	}

	if pfv.Primary != nil && pfv.Primary.IsMonthlyOpex {
		fmt.Fprintf(&b, " The primary expiration is a monthly OPEX, so dealer positioning effects are amplified.")
	}

	switch pfv.Confidence {
	case models.ConfidenceHigh:
		b.WriteString(" Signals across categories agree, so the estimate carries high confidence.")
	case models.ConfidenceLow:
		b.WriteString(" Signals disagree or options data is thin, so treat the estimate with caution.")
	}

	if pfv.DataFreshness != models.FreshnessFresh {
		fmt.Fprintf(&b, " Data freshness: %s.", strings.ToLower(string(pfv.DataFreshness)))
	}

	return b.String()
}
