package models

import "time"

// OptionContract is a single strike-level snapshot for one side of the
// chain (call or put). Contracts are immutable once constructed; the
// engine never mutates caller-supplied chains.
type OptionContract struct {
	Strike       float64 `json:"strike"`
	OpenInterest int64   `json:"open_interest"`
	Volume       int64   `json:"volume"`
	IV           float64 `json:"iv,omitempty"`    // implied volatility, 0 if unknown
	Delta        float64 `json:"delta,omitempty"` // pass-through greek, not computed here
	Gamma        float64 `json:"gamma,omitempty"`
}

// OptionsExpiration bundles the full chain for one expiration date.
type OptionsExpiration struct {
	ExpiryDate  time.Time        `json:"expiry_date"`
	DTE         int              `json:"dte"` // calendar days to expiration, >= 0
	Calls       []OptionContract `json:"calls"`
	Puts        []OptionContract `json:"puts"`
	TotalCallOI int64            `json:"total_call_oi"`
	TotalPutOI  int64            `json:"total_put_oi"`
}

// TotalOI returns the aggregate open interest across both sides.
func (e OptionsExpiration) TotalOI() int64 {
	return e.TotalCallOI + e.TotalPutOI
}

// PCR returns the put-call ratio by open interest (0 when the call side
// is empty).
func (e OptionsExpiration) PCR() float64 {
	if e.TotalCallOI == 0 {
		return 0
	}
	return float64(e.TotalPutOI) / float64(e.TotalCallOI)
}
