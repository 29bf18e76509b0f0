package utils

import (
	"testing"
	"time"
)

func TestMarketSessionBounds(t *testing.T) {
	// A regular Wednesday.
	day := time.Date(2026, 9, 16, 12, 0, 0, 0, Eastern)

	if !IsMarketOpenAt(day) {
		t.Error("noon Wednesday should be inside the cash session")
	}
	if IsMarketOpenAt(time.Date(2026, 9, 16, 9, 0, 0, 0, Eastern)) {
		t.Error("9:00 ET is pre-market")
	}
	if IsMarketOpenAt(time.Date(2026, 9, 16, 16, 30, 0, 0, Eastern)) {
		t.Error("16:30 ET is after-hours")
	}
}

func TestWeekendClosed(t *testing.T) {
	sat := time.Date(2026, 9, 19, 12, 0, 0, 0, Eastern)
	if IsMarketOpenAt(sat) {
		t.Error("Saturday should be closed")
	}
}

func TestHolidayClosed(t *testing.T) {
	// Christmas 2026 falls on a Friday.
	xmas := time.Date(2026, 12, 25, 12, 0, 0, 0, Eastern)
	if IsMarketOpenAt(xmas) {
		t.Error("Christmas should be closed")
	}
	if IsTradingDay(xmas) {
		t.Error("Christmas is not a trading day")
	}
}

func TestNormalizeTicker(t *testing.T) {
	if got := NormalizeTicker("  spy "); got != "SPY" {
		t.Errorf("NormalizeTicker = %q, want SPY", got)
	}
}
