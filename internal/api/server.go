// Package api exposes the trade monitor over HTTP: trade CRUD, portfolio
// summary, on-demand symbol analysis, market status, trade history, and a
// WebSocket stream for live events.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"trade-monitorv1/internal/alertlog"
	"trade-monitorv1/internal/gateway"
	"trade-monitorv1/internal/journal"
	"trade-monitorv1/internal/metrics"
	"trade-monitorv1/internal/pricesource"
	"trade-monitorv1/internal/registry"
)

// Deps are the collaborators the API serves from.
type Deps struct {
	Registry *registry.Registry
	Source   pricesource.Source
	Journal  *journal.Journal // optional
	Hub      *gateway.Hub     // optional
	Metrics  *metrics.Metrics // optional
	AlertLog *alertlog.Log    // optional
	// TOTPSecret guards mutating endpoints when non-empty.
	TOTPSecret string
	Log        *slog.Logger
}

// Server is the HTTP API server.
type Server struct {
	deps Deps
	log  *slog.Logger
	srv  *http.Server
}

// NewServer builds the router and wraps it in an http.Server.
func NewServer(addr string, deps Deps) *Server {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	s := &Server{deps: deps, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/health", s.handleHealth)
	mux.HandleFunc("/api/v1/trades", s.handleTrades)
	mux.HandleFunc("/api/v1/trades/", s.handleTradeByID)
	mux.HandleFunc("/api/v1/portfolio", s.handlePortfolio)
	mux.HandleFunc("/api/v1/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/v1/market/status", s.handleMarketStatus)
	mux.HandleFunc("/api/v1/history", s.handleHistory)
	mux.HandleFunc("/api/v1/alerts", s.handleAlerts)
	if deps.Hub != nil {
		mux.HandleFunc("/api/v1/stream", deps.Hub.HandleWS)
	}

	s.srv = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Start launches the server in a goroutine.
func (s *Server) Start() {
	go func() {
		s.log.Info("api server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("api server error", "err", err)
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}
