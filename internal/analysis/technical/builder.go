package technical

import (
	"fmt"

	"github.com/traderank/pinpoint/pkg/models"
)

const (
	yearWindow  = 252 // trading days in a 52-week lookback
	swingWindow = 5   // bars on each side for a swing point
	vwapWindow  = 20
)

// BuildSnapshot derives a TechnicalData snapshot from daily candles
// ordered oldest to newest. Fields whose lookback exceeds the supplied
// history are left at zero (absent); the price anchor fields are
// always populated or an error is returned.
func BuildSnapshot(candles []models.OHLCV) (*models.TechnicalData, error) {
	n := len(candles)
	if n == 0 {
		return nil, fmt.Errorf("building technical snapshot: no candles supplied")
	}

	last := candles[n-1]
	if last.Close <= 0 {
		return nil, fmt.Errorf("building technical snapshot: last close %.4f is not a valid price", last.Close)
	}

	td := &models.TechnicalData{CurrentPrice: last.Close}

	closes := make([]float64, n)
	for i, c := range candles {
		closes[i] = c.Close
	}

	td.MA20 = smaLatest(closes, 20)
	td.MA50 = smaLatest(closes, 50)
	td.MA200 = smaLatest(closes, 200)

	start := n - yearWindow
	if start < 0 {
		start = 0
	}
	td.YearHigh = candles[start].High
	td.YearLow = candles[start].Low
	for _, c := range candles[start:] {
		if c.High > td.YearHigh {
			td.YearHigh = c.High
		}
		if c.Low < td.YearLow {
			td.YearLow = c.Low
		}
	}

	td.SwingHigh, td.SwingLow = recentSwings(candles, swingWindow)

	if n > 1 {
		td.PrevClose = candles[n-2].Close
	}

	td.VWAP = rollingVWAP(candles, vwapWindow)
	td.AvgVolume = avgVolume(candles, vwapWindow)

	return td, nil
}

// smaLatest is the most recent simple moving average, 0 when the
// history is shorter than the period.
func smaLatest(data []float64, period int) float64 {
	n := len(data)
	if n < period || period <= 0 {
		return 0
	}

	sum := 0.0
	for _, v := range data[n-period:] {
		sum += v
	}
	return sum / float64(period)
}

// recentSwings finds the most recent confirmed swing high and low: a
// bar whose high (low) strictly exceeds every bar within the window on
// both sides.
func recentSwings(candles []models.OHLCV, window int) (high, low float64) {
	n := len(candles)
	for i := n - 1 - window; i >= window; i-- {
		isHigh := high == 0
		isLow := low == 0
		if !isHigh && !isLow {
			break
		}

		for j := i - window; j <= i+window; j++ {
			if j == i {
				continue
			}
			if candles[j].High >= candles[i].High {
				isHigh = false
			}
			if candles[j].Low <= candles[i].Low {
				isLow = false
			}
		}

		if isHigh && high == 0 {
			high = candles[i].High
		}
		if isLow && low == 0 {
			low = candles[i].Low
		}
	}
	return high, low
}

// rollingVWAP computes volume-weighted average typical price over the
// trailing window.
func rollingVWAP(candles []models.OHLCV, window int) float64 {
	n := len(candles)
	start := n - window
	if start < 0 {
		start = 0
	}

	var pv, vol float64
	for _, c := range candles[start:] {
		typical := (c.High + c.Low + c.Close) / 3
		pv += typical * float64(c.Volume)
		vol += float64(c.Volume)
	}
	if vol == 0 {
		return 0
	}
	return pv / vol
}

func avgVolume(candles []models.OHLCV, window int) int64 {
	n := len(candles)
	start := n - window
	if start < 0 {
		start = 0
	}
	if n-start == 0 {
		return 0
	}

	var total int64
	for _, c := range candles[start:] {
		total += c.Volume
	}
	return total / int64(n-start)
}
