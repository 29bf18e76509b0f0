package models

import "time"

// OHLCV represents a single candlestick bar of price data.
type OHLCV struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// TechnicalData is a single point-in-time snapshot of price-derived
// reference levels for a ticker. CurrentPrice, YearHigh and YearLow are
// required; every other field is optional and a zero value means the
// field is absent (all real prices are strictly positive).
type TechnicalData struct {
	CurrentPrice float64 `json:"current_price"`
	MA20         float64 `json:"ma20,omitempty"`
	MA50         float64 `json:"ma50,omitempty"`
	MA200        float64 `json:"ma200,omitempty"`
	YearHigh     float64 `json:"year_high"` // 52-week high
	YearLow      float64 `json:"year_low"`  // 52-week low
	SwingHigh    float64 `json:"swing_high,omitempty"`
	SwingLow     float64 `json:"swing_low,omitempty"`
	PrevClose    float64 `json:"prev_close,omitempty"`
	VWAP         float64 `json:"vwap,omitempty"`
	AvgVolume    int64   `json:"avg_volume,omitempty"`
}

// MarketSnapshot is everything the fair-value engine consumes for one
// invocation: the technical snapshot plus a bounded set of option
// chains, one per expiration. Producers (data vendors, files, caches)
// live behind the datasource boundary.
type MarketSnapshot struct {
	Ticker      string              `json:"ticker"`
	Technical   TechnicalData       `json:"technical"`
	Expirations []OptionsExpiration `json:"expirations,omitempty"`
	Candles     []OHLCV             `json:"candles,omitempty"` // optional raw bars for snapshot building
	FetchedAt   time.Time           `json:"fetched_at"`
}
