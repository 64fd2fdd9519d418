package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"trade-monitorv1/internal/indicator"
	"trade-monitorv1/internal/markethours"
	"trade-monitorv1/internal/model"
	"trade-monitorv1/internal/pricesource"
	"trade-monitorv1/internal/recommend"
	"trade-monitorv1/internal/registry"
)

const defaultHistoryLimit = 50

// openRequest is the POST /api/v1/trades body.
type openRequest struct {
	Symbol        string  `json:"symbol"`
	Kind          string  `json:"kind"`
	EntryPrice    float64 `json:"entry_price"`
	StrikePrice   float64 `json:"strike_price"`
	Expiration    string  `json:"expiration"` // RFC3339 or YYYY-MM-DD
	Contracts     int     `json:"contracts"`
	StopLoss      float64 `json:"stop_loss"`
	TakeProfit    float64 `json:"take_profit"`
	AlertsEnabled *bool   `json:"alerts_enabled"` // default true
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{
			"trades": s.deps.Registry.ListActive(),
			"count":  s.deps.Registry.Count(),
		})
	case http.MethodPost:
		if !s.requireTOTP(w, r) {
			return
		}
		s.openTrade(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) openTrade(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	expiration, err := parseExpiration(req.Expiration)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expiration: use RFC3339 or YYYY-MM-DD")
		return
	}

	spec := registry.OpenSpec{
		Symbol:      req.Symbol,
		Kind:        model.InstrumentKind(strings.ToUpper(req.Kind)),
		EntryPrice:  req.EntryPrice,
		StrikePrice: req.StrikePrice,
		Expiration:  expiration,
		Contracts:   req.Contracts,
		StopLoss:    req.StopLoss,
		TakeProfit:  req.TakeProfit,
	}
	if req.AlertsEnabled != nil {
		spec.AlertsDisabled = !*req.AlertsEnabled
	}

	id, err := s.deps.Registry.Open(spec)
	if err != nil {
		if errors.Is(err, registry.ErrValidation) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "open failed")
		return
	}

	if s.deps.Metrics != nil {
		s.deps.Metrics.TradesOpened.Inc()
	}
	s.log.Info("trade opened", "trade_id", id, "symbol", spec.Symbol, "kind", string(spec.Kind))

	trade, _ := s.deps.Registry.Get(id)
	writeJSON(w, http.StatusCreated, trade)
}

func (s *Server) handleTradeByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/trades/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		trade, err := s.deps.Registry.Get(id)
		if err != nil {
			writeError(w, http.StatusNotFound, "trade not found")
			return
		}
		writeJSON(w, http.StatusOK, trade)
	case http.MethodDelete:
		if !s.requireTOTP(w, r) {
			return
		}
		s.closeTrade(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) closeTrade(w http.ResponseWriter, r *http.Request, id string) {
	finalPrice := 0.0
	if v := r.URL.Query().Get("final_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p <= 0 {
			writeError(w, http.StatusBadRequest, "final_price must be a positive number")
			return
		}
		finalPrice = p
	}

	if err := s.deps.Registry.Close(id, finalPrice); err != nil {
		writeError(w, http.StatusNotFound, "trade not found")
		return
	}

	if s.deps.Metrics != nil {
		s.deps.Metrics.TradesClosed.WithLabelValues(string(model.StatusClosed)).Inc()
	}
	s.log.Info("trade closed", "trade_id", id)
	writeJSON(w, http.StatusOK, map[string]string{"trade_id": id, "status": string(model.StatusClosed)})
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Registry.Summary())
}

// analyzeRequest is the POST /api/v1/analyze body. Either a symbol to fetch
// history for, or a raw price series to analyze directly.
type analyzeRequest struct {
	Symbol string    `json:"symbol"`
	Prices []float64 `json:"prices"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if len(req.Prices) > 0 {
		s.analyzePrices(w, req.Prices)
		return
	}
	if req.Symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol or prices required")
		return
	}

	snap, err := s.deps.Source.FetchTechnicalSnapshot(r.Context(), strings.ToUpper(req.Symbol))
	if err != nil {
		writeError(w, http.StatusBadGateway, "price source unavailable")
		return
	}
	if snap == nil {
		writeError(w, http.StatusUnprocessableEntity, "insufficient history for analysis")
		return
	}

	line, sig, hist := pricesource.MACDSeries(snap)
	rec := recommend.Recommend(snap.RSI, &recommend.MACDData{Line: line, Signal: sig, Histogram: hist})
	writeJSON(w, http.StatusOK, map[string]any{
		"snapshot":       snap,
		"recommendation": rec,
	})
}

// analyzePrices runs the indicator stack over a caller-supplied close series.
func (s *Server) analyzePrices(w http.ResponseWriter, prices []float64) {
	series := make(model.Series, len(prices))
	for i, p := range prices {
		series[i] = model.Candle{Close: p}
	}

	snap := indicator.Compute(series)
	if !snap.HasRSI() {
		writeError(w, http.StatusUnprocessableEntity, "insufficient history for analysis")
		return
	}

	line, sig, hist := indicator.MACD(prices,
		indicator.DefaultMACDFast, indicator.DefaultMACDSlow, indicator.DefaultMACDSignal)
	rec := recommend.Recommend(snap.RSI, &recommend.MACDData{Line: line, Signal: sig, Histogram: hist})
	writeJSON(w, http.StatusOK, map[string]any{
		"indicators":     snap,
		"recommendation": rec,
	})
}

func (s *Server) handleMarketStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := markethours.At(time.Now())
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	// Journal survives restarts; the in-memory history is the fallback.
	if s.deps.Journal != nil {
		entries, err := s.deps.Journal.Recent(limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "history read failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"entries": entries, "count": len(entries)})
		return
	}

	history := s.deps.Registry.History()
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": history, "count": len(history)})
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	alerts := s.deps.AlertLog.Recent(limit)
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts, "count": len(alerts)})
}

// parseExpiration accepts RFC3339 or a bare date. Bare dates expire at the
// 4:00 PM ET close of that day.
func parseExpiration(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := time.ParseInLocation("2006-01-02", s, markethours.Eastern)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(16 * time.Hour), nil
}
