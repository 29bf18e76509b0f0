// Package utils provides shared market-time helpers: the NYSE cash
// session, trading-day checks, and snapshot freshness tagging.
package utils

import (
	"strings"
	"time"

	"github.com/scmhub/calendar"
)

// Eastern is the US market time zone.
var Eastern *time.Location

var nyse = calendar.XNYS()

func init() {
	var err error
	Eastern, err = time.LoadLocation("America/New_York")
	if err != nil {
		// tz database unavailable: pin to EST and accept the DST skew.
		Eastern = time.FixedZone("EST", -5*60*60)
	}
}

// NowEastern returns the current time in US Eastern.
func NowEastern() time.Time {
	return time.Now().In(Eastern)
}

// MarketOpenTime returns the NYSE cash open (9:30 ET) for a date.
func MarketOpenTime(date time.Time) time.Time {
	d := date.In(Eastern)
	return time.Date(d.Year(), d.Month(), d.Day(), 9, 30, 0, 0, Eastern)
}

// MarketCloseTime returns the NYSE cash close (16:00 ET) for a date.
func MarketCloseTime(date time.Time) time.Time {
	d := date.In(Eastern)
	return time.Date(d.Year(), d.Month(), d.Day(), 16, 0, 0, 0, Eastern)
}

// IsTradingDay reports whether the date is an NYSE business day.
func IsTradingDay(t time.Time) bool {
	return nyse.IsBusinessDay(t.In(Eastern))
}

// IsMarketOpenAt reports whether the cash session would be open at
// the given instant.
func IsMarketOpenAt(t time.Time) bool {
	t = t.In(Eastern)
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	if !nyse.IsBusinessDay(t) {
		return false
	}
	open := MarketOpenTime(t)
	close := MarketCloseTime(t)
	return !t.Before(open) && !t.After(close)
}

// IsMarketOpen reports whether the cash session is open right now.
func IsMarketOpen() bool {
	return IsMarketOpenAt(NowEastern())
}

// MarketStatus returns a short human-readable session state.
func MarketStatus() string {
	now := NowEastern()

	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return "CLOSED (Weekend)"
	}
	if !nyse.IsBusinessDay(now) {
		return "CLOSED (Holiday)"
	}

	switch {
	case now.Before(MarketOpenTime(now)):
		return "PRE-MARKET"
	case !now.After(MarketCloseTime(now)):
		return "OPEN"
	default:
		return "AFTER-HOURS"
	}
}

// NormalizeTicker uppercases and trims a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// FormatDate renders a date as YYYY-MM-DD in Eastern time.
func FormatDate(t time.Time) string {
	return t.In(Eastern).Format("2006-01-02")
}
