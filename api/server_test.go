package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/traderank/pinpoint/internal/config"
	"github.com/traderank/pinpoint/internal/datasource"
	"github.com/traderank/pinpoint/internal/engine"
	"github.com/traderank/pinpoint/pkg/models"
)

type stubSource struct{}

func (stubSource) Name() string { return "stub" }

func (stubSource) Snapshot(_ context.Context, ticker string) (*models.MarketSnapshot, error) {
	if ticker != "AAPL" {
		return nil, datasource.ErrTickerNotFound
	}
	exp := models.OptionsExpiration{
		ExpiryDate: time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC),
		DTE:        2,
	}
	for strike := 170.0; strike <= 200.0; strike += 5.0 {
		callOI, putOI := int64(5000), int64(5000)
		if strike == 195 {
			callOI = 25000
		}
		if strike == 180 {
			putOI = 30000
		}
		exp.Calls = append(exp.Calls, models.OptionContract{Strike: strike, OpenInterest: callOI})
		exp.Puts = append(exp.Puts, models.OptionContract{Strike: strike, OpenInterest: putOI})
		exp.TotalCallOI += callOI
		exp.TotalPutOI += putOI
	}
	return &models.MarketSnapshot{
		Ticker: "AAPL",
		Technical: models.TechnicalData{
			CurrentPrice: 188.61,
			YearHigh:     199.62,
			YearLow:      164.08,
			MA200:        175.00,
		},
		Expirations: []models.OptionsExpiration{exp},
		FetchedAt:   time.Now(),
	}, nil
}

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		Engine: config.EngineConfig{
			MaxPainBandLow:          0.6,
			MaxPainBandHigh:         1.4,
			WallThresholdMultiplier: 2.0,
			MaxDTE:                  60,
			RoundBandFraction:       0.20,
			MaxMagneticLevels:       15,
		},
		Analysis: config.AnalysisConfig{CacheTTL: 300},
		API:      config.APIConfig{Port: 8080},
	}
	eng := engine.New(cfg, stubSource{}, nil)
	return NewServer(cfg, eng, nil)
}

func doGet(t *testing.T, srv *Server, path string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response for %s: %v", path, err)
	}
	return rec, resp
}

func TestHandleHealth(t *testing.T) {
	srv := testServer(t)
	rec, resp := doGet(t, srv, "/health")
	if rec.Code != http.StatusOK || !resp.Success {
		t.Errorf("GET /health = %d success=%v", rec.Code, resp.Success)
	}
}

func TestHandlePFV(t *testing.T) {
	srv := testServer(t)
	rec, resp := doGet(t, srv, "/api/v1/pfv/aapl")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /pfv/aapl = %d, body %s", rec.Code, rec.Body.String())
	}
	if !resp.Success {
		t.Fatalf("Success = false, error %q", resp.Error)
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Data is %T, want object", resp.Data)
	}
	if data["ticker"] != "AAPL" {
		t.Errorf("ticker = %v, want AAPL", data["ticker"])
	}
	if _, ok := data["fair_value"].(float64); !ok {
		t.Error("fair_value missing from response")
	}
	if _, ok := data["magnetic_levels"]; !ok {
		t.Error("magnetic_levels missing from response")
	}
}

func TestHandlePFVNotFound(t *testing.T) {
	srv := testServer(t)
	rec, resp := doGet(t, srv, "/api/v1/pfv/NOPE")
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /pfv/NOPE = %d, want 404", rec.Code)
	}
	if resp.Success {
		t.Error("Success = true on a missing ticker")
	}
}

func TestHandlePFVBadProfile(t *testing.T) {
	srv := testServer(t)
	rec, _ := doGet(t, srv, "/api/v1/pfv/AAPL?profile=BOGUS")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad profile = %d, want 400", rec.Code)
	}
}

func TestHandlePFVBadDTE(t *testing.T) {
	srv := testServer(t)
	rec, _ := doGet(t, srv, "/api/v1/pfv/AAPL?max_dte=-3")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative max_dte = %d, want 400", rec.Code)
	}
}

func TestHandleLevels(t *testing.T) {
	srv := testServer(t)
	rec, resp := doGet(t, srv, "/api/v1/pfv/AAPL/levels")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET levels = %d", rec.Code)
	}

	data := resp.Data.(map[string]interface{})
	if data["ticker"] != "AAPL" {
		t.Errorf("ticker = %v, want AAPL", data["ticker"])
	}
	if _, ok := data["magnetic_levels"].([]interface{}); !ok {
		t.Error("magnetic_levels missing or not a list")
	}
	spread, ok := data["spread"].(map[string]interface{})
	if !ok {
		t.Fatal("spread missing from levels response")
	}
	putWalls, _ := spread["put_walls"].([]interface{})
	callWalls, _ := spread["call_walls"].([]interface{})
	if len(putWalls) == 0 || putWalls[0] != 180.0 {
		t.Errorf("spread put_walls = %v, want [180]", putWalls)
	}
	if len(callWalls) == 0 || callWalls[0] != 195.0 {
		t.Errorf("spread call_walls = %v, want [195]", callWalls)
	}
}

func TestHandleContext(t *testing.T) {
	srv := testServer(t)
	rec, resp := doGet(t, srv, "/api/v1/pfv/AAPL/context")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET context = %d", rec.Code)
	}

	data := resp.Data.(map[string]interface{})
	if ctxText, _ := data["ai_context"].(string); ctxText == "" {
		t.Error("ai_context is empty")
	}
	if interp, _ := data["interpretation"].(string); interp == "" {
		t.Error("interpretation is empty")
	}
}

func TestProfileOverrideQuery(t *testing.T) {
	srv := testServer(t)
	_, resp := doGet(t, srv, "/api/v1/pfv/AAPL?profile=ETF")
	data := resp.Data.(map[string]interface{})
	prof := data["profile"].(map[string]interface{})
	if prof["type"] != "ETF" {
		t.Errorf("profile type = %v, want ETF", prof["type"])
	}
}
