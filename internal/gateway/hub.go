// Package gateway fans live monitor events out to WebSocket clients:
// alerts as they fire, portfolio summaries once per tick, and market
// status on connect.
package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"trade-monitorv1/internal/markethours"
	"trade-monitorv1/internal/model"
)

const latestEventTypes = 2 // alert + portfolio retained for initial state

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from the dashboard origin; access control
	// happens at the API layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Envelope is the wire format for every gateway message.
type Envelope struct {
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
	TS      string          `json:"ts"`
	Initial bool            `json:"initial,omitempty"`
}

// Hub manages connected WebSocket clients and event fan-out. Slow clients
// are dropped rather than allowed to stall the broadcast path.
type Hub struct {
	log *slog.Logger

	mu      sync.RWMutex
	clients map[*Client]bool
	latest  map[string][]byte // last envelope per event type
}

// NewHub creates an empty hub.
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		log:     log,
		clients: make(map[*Client]bool),
		latest:  make(map[string][]byte, latestEventTypes),
	}
}

// BroadcastAlert pushes one alert event to all clients.
func (h *Hub) BroadcastAlert(event model.AlertEvent) {
	h.broadcast("alert", event)
}

// BroadcastPortfolio pushes the latest portfolio summary to all clients.
func (h *Hub) BroadcastPortfolio(summary model.PortfolioSummary) {
	h.broadcast("portfolio", summary)
}

// BroadcastMarketStatus pushes a market session change to all clients.
func (h *Hub) BroadcastMarketStatus(status markethours.Status) {
	h.broadcast("market_status", status)
}

func (h *Hub) broadcast(eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("gateway marshal failed", "type", eventType, "err", err)
		return
	}
	envelope, err := json.Marshal(Envelope{
		Type: eventType,
		Data: data,
		TS:   time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return
	}

	h.mu.Lock()
	h.latest[eventType] = envelope
	for client := range h.clients {
		select {
		case client.send <- envelope:
		default:
			// Client can't keep up; disconnect it.
			delete(h.clients, client)
			close(client.send)
		}
	}
	h.mu.Unlock()
}

// HandleWS upgrades the request and registers the connection.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "err", err)
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, 64),
		hub:  h,
	}

	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.mu.Unlock()

	h.log.Info("ws client connected", "total", count)

	client.sendInitialState()
	go client.writePump()
	go client.readPump()
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
