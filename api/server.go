// Package api provides the HTTP REST API server for pinpoint.
//
// It exposes fair-value analysis, magnetic level, and AI-context
// endpoints plus WebSocket streaming of analysis events.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/traderank/pinpoint/internal/analysis/fairvalue"
	"github.com/traderank/pinpoint/internal/config"
	"github.com/traderank/pinpoint/internal/datasource"
	"github.com/traderank/pinpoint/internal/engine"
	"github.com/traderank/pinpoint/pkg/models"
	"github.com/traderank/pinpoint/pkg/utils"
)

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	cfg    *config.Config
	engine *engine.Engine
	wsHub  *WSHub
	logger *zap.Logger
}

// NewServer creates a configured API server with all routes and
// middleware.
func NewServer(cfg *config.Config, eng *engine.Engine, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &Server{
		cfg:    cfg,
		engine: eng,
		wsHub:  NewWSHub(),
		logger: logger,
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.wsHub.Run()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		s.logger.Info("api server listening", zap.String("addr", addr))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-done
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/pfv/{ticker}", s.handlePFV)
		r.Get("/pfv/{ticker}/levels", s.handleLevels)
		r.Get("/pfv/{ticker}/context", s.handleContext)

		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// LevelsResponse is the body for GET /api/v1/pfv/{ticker}/levels.
type LevelsResponse struct {
	Ticker         string                 `json:"ticker"`
	CurrentPrice   float64                `json:"current_price"`
	FairValue      float64                `json:"fair_value"`
	MagneticLevels []models.MagneticLevel `json:"magnetic_levels"`
	SupportZone    *models.Zone           `json:"support_zone,omitempty"`
	ResistanceZone *models.Zone           `json:"resistance_zone,omitempty"`
	Spread         fairvalue.SpreadLevels `json:"spread"`
}

// ContextResponse is the body for GET /api/v1/pfv/{ticker}/context.
type ContextResponse struct {
	Ticker         string `json:"ticker"`
	AIContext      string `json:"ai_context"`
	Interpretation string `json:"interpretation"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":        "ok",
			"source":        s.engine.Source(),
			"market_status": utils.MarketStatus(),
			"time_et":       utils.NowEastern().Format(time.RFC3339),
		},
	})
}

func (s *Server) handlePFV(w http.ResponseWriter, r *http.Request) {
	pfv, ok := s.analyze(w, r)
	if !ok {
		return
	}

	s.wsHub.Broadcast(WSMessage{
		Type: "analysis_complete",
		Data: map[string]interface{}{
			"ticker":     pfv.Ticker,
			"fair_value": pfv.FairValue,
			"bias":       pfv.Bias,
			"confidence": pfv.Confidence,
		},
	})

	s.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    pfv,
	})
}

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	pfv, ok := s.analyze(w, r)
	if !ok {
		return
	}

	s.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: LevelsResponse{
			Ticker:         pfv.Ticker,
			CurrentPrice:   pfv.CurrentPrice,
			FairValue:      pfv.FairValue,
			MagneticLevels: pfv.MagneticLevels,
			SupportZone:    pfv.SupportZone,
			ResistanceZone: pfv.ResistanceZone,
			Spread:         fairvalue.Spread(pfv),
		},
	})
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	pfv, ok := s.analyze(w, r)
	if !ok {
		return
	}

	s.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: ContextResponse{
			Ticker:         pfv.Ticker,
			AIContext:      pfv.AIContext,
			Interpretation: pfv.Interpretation,
		},
	})
}

// analyze is the shared handler front half: ticker extraction, option
// parsing, engine invocation, error mapping. Returns ok=false after
// writing an error response.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) (*models.PsychologicalFairValue, bool) {
	ticker := chi.URLParam(r, "ticker")
	if ticker == "" {
		s.writeError(w, http.StatusBadRequest, "ticker is required")
		return nil, false
	}

	opts, err := parseOptions(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if r.URL.Query().Get("refresh") == "true" {
		s.engine.Invalidate(ticker)
	}

	pfv, err := s.engine.Analyze(ctx, ticker, opts)
	if err != nil {
		if errors.Is(err, datasource.ErrTickerNotFound) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return nil, false
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return pfv, true
}

// ============================================================
// Helpers
// ============================================================

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write json response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

// parseOptions maps query parameters onto fair-value options.
func parseOptions(r *http.Request) (fairvalue.Options, error) {
	var opts fairvalue.Options
	q := r.URL.Query()

	if p := q.Get("profile"); p != "" {
		pt := models.ProfileType(strings.ToUpper(p))
		switch pt {
		case models.ProfileBlueChip, models.ProfileMemeRetail, models.ProfileETF, models.ProfileLowFloat, models.ProfileDefault:
			opts.ProfileType = pt
		default:
			return opts, errors.New("unknown profile: " + p)
		}
	}
	if v := q.Get("max_dte"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, errors.New("max_dte must be a non-negative integer")
		}
		opts.MaxDTE = n
	}
	if v := q.Get("min_dte"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, errors.New("min_dte must be a non-negative integer")
		}
		opts.MinDTE = n
	}
	if q.Get("all_levels") == "true" {
		opts.IncludeAllLevels = true
	}
	return opts, nil
}
