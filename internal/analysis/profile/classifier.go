package profile

import (
	"strings"

	"github.com/traderank/pinpoint/pkg/models"
)

// Classifier maps a ticker symbol to a profile type. Implementations
// can be backed by static lists, a database, or an upstream service;
// the resolver only cares about the single-method contract.
type Classifier interface {
	// Classify returns the profile for the ticker, or ok=false when
	// the ticker is unknown to this classifier.
	Classify(ticker string) (models.ProfileType, bool)
}

// ListClassifier classifies tickers from fixed membership sets,
// checked in ETF, meme/retail, blue-chip order.
type ListClassifier struct {
	ETFs      map[string]bool
	Meme      map[string]bool
	BlueChips map[string]bool
}

// NewDefaultClassifier returns a ListClassifier seeded with the
// shipped default ticker sets.
func NewDefaultClassifier() *ListClassifier {
	return &ListClassifier{
		ETFs:      toSet(defaultETFs),
		Meme:      toSet(defaultMeme),
		BlueChips: toSet(defaultBlueChips),
	}
}

// Classify checks the membership lists in priority order.
func (c *ListClassifier) Classify(ticker string) (models.ProfileType, bool) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	switch {
	case c.ETFs[t]:
		return models.ProfileETF, true
	case c.Meme[t]:
		return models.ProfileMemeRetail, true
	case c.BlueChips[t]:
		return models.ProfileBlueChip, true
	}
	return "", false
}

func toSet(tickers []string) map[string]bool {
	set := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		set[t] = true
	}
	return set
}

// Default classification lists. These are data, not logic: callers can
// supply their own Classifier without touching the resolver.
var (
	defaultETFs = []string{
		"SPY", "QQQ", "IWM", "DIA", "VTI", "VOO",
		"XLF", "XLE", "XLK", "XLV", "XLI", "XLU",
		"GLD", "SLV", "TLT", "HYG", "EEM", "FXI",
		"ARKK", "SMH", "XBI", "KRE", "GDX", "USO",
	}

	defaultMeme = []string{
		"GME", "AMC", "PLTR", "HOOD", "SOFI", "RIVN",
		"LCID", "NIO", "MARA", "RIOT", "COIN", "DKNG",
		"CHPT", "BB", "NOK", "CLOV", "WISH", "RKT",
	}

	defaultBlueChips = []string{
		"AAPL", "MSFT", "GOOGL", "GOOG", "AMZN", "NVDA",
		"META", "BRK.B", "JPM", "V", "MA", "JNJ",
		"WMT", "PG", "UNH", "HD", "KO", "PEP",
		"XOM", "CVX", "MRK", "ABBV", "COST", "MCD",
	}
)
