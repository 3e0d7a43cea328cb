package api

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	game "dive-server/src"

	"github.com/go-chi/chi/v5"
)

// HealthStatus represents the overall health of the system
type HealthStatus string

const (
	HealthHealthy     HealthStatus = "healthy"
	HealthWarning     HealthStatus = "warning"
	HealthCritical    HealthStatus = "critical"
	HealthMaintenance HealthStatus = "maintenance"
)

// WebSocketStatus represents the state of the WebSocket server
type WebSocketStatus string

const (
	WebSocketRunning  WebSocketStatus = "running"
	WebSocketStopping WebSocketStatus = "stopping"
)

// Counters track HTTP score submissions.
type Counters struct {
	Stored   atomic.Int64
	Rejected atomic.Int64
	Failed   atomic.Int64
}

// GameStats is the part of the game server the metrics read.
type GameStats interface {
	Stats() game.Stats
}

type SubmissionMetrics struct {
	Stored   int64 `json:"stored"`
	Rejected int64 `json:"rejected"`
	Failed   int64 `json:"failed"`
}

type WebSocketServerMetrics struct {
	Status            WebSocketStatus `json:"status"`
	ActiveConnections int             `json:"active_connections"`
	ActiveSessions    int             `json:"active_sessions"`
}

// MetricsResponse is the complete metrics response structure
type MetricsResponse struct {
	Timestamp         time.Time              `json:"timestamp"`
	Health            HealthStatus           `json:"health"`
	HealthDescription string                 `json:"health_description"`
	Game              game.Stats             `json:"game"`
	Submissions       SubmissionMetrics      `json:"submissions"`
	WebSocket         WebSocketServerMetrics `json:"websocket"`
	ServerUptime      int64                  `json:"server_uptime_sec"`
}

// MetricsHandler manages metrics collection and reporting
type MetricsHandler struct {
	game      GameStats
	counters  *Counters
	startedAt time.Time

	mu       sync.RWMutex
	wsStatus WebSocketStatus

	// Active sessions above which health degrades.
	warningSessions  int
	criticalSessions int
}

func NewMetricsHandler(gs GameStats, counters *Counters) *MetricsHandler {
	return &MetricsHandler{
		game:             gs,
		counters:         counters,
		startedAt:        time.Now(),
		wsStatus:         WebSocketRunning,
		warningSessions:  200,
		criticalSessions: 400,
	}
}

// Routes registers metrics routes
func (h *MetricsHandler) Routes(r chi.Router) {
	r.Get("/metrics", h.GetMetrics)
	r.Get("/metrics/health", h.GetHealth)
}

// GetMetrics returns complete metrics
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.collect())
}

// GetHealth returns only health status
func (h *MetricsHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	m := h.collect()
	status := http.StatusOK
	if m.Health == HealthCritical {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]interface{}{
		"timestamp":   m.Timestamp,
		"health":      m.Health,
		"description": m.HealthDescription,
		"uptime_sec":  m.ServerUptime,
	})
}

func (h *MetricsHandler) collect() MetricsResponse {
	var stats game.Stats
	if h.game != nil {
		stats = h.game.Stats()
	}

	h.mu.RLock()
	ws := WebSocketServerMetrics{
		Status:            h.wsStatus,
		ActiveConnections: stats.ConnectedClients,
		ActiveSessions:    stats.ActiveSessions,
	}
	h.mu.RUnlock()

	subs := SubmissionMetrics{
		Stored:   h.counters.Stored.Load(),
		Rejected: h.counters.Rejected.Load(),
		Failed:   h.counters.Failed.Load(),
	}
	health, desc := h.determineHealth(ws, subs)

	return MetricsResponse{
		Timestamp:         time.Now(),
		Health:            health,
		HealthDescription: desc,
		Game:              stats,
		Submissions:       subs,
		WebSocket:         ws,
		ServerUptime:      int64(time.Since(h.startedAt).Seconds()),
	}
}

// determineHealth determines overall system health based on metrics
func (h *MetricsHandler) determineHealth(ws WebSocketServerMetrics, subs SubmissionMetrics) (HealthStatus, string) {
	if ws.Status == WebSocketStopping {
		return HealthMaintenance, "Server is performing graceful shutdown - no new connections accepted"
	}
	if ws.ActiveSessions >= h.criticalSessions {
		return HealthCritical, fmt.Sprintf("%d concurrent dives - frame rate may drop", ws.ActiveSessions)
	}
	if subs.Failed > 0 && subs.Failed >= subs.Stored {
		return HealthWarning, "Score storage is failing more often than it succeeds"
	}
	if ws.ActiveSessions >= h.warningSessions {
		return HealthWarning, fmt.Sprintf("%d concurrent dives - approaching capacity", ws.ActiveSessions)
	}
	if ws.ActiveConnections > 0 {
		connStr := "connection"
		if ws.ActiveConnections > 1 {
			connStr = "connections"
		}
		return HealthHealthy, fmt.Sprintf("All systems operational - %d active %s", ws.ActiveConnections, connStr)
	}
	return HealthHealthy, "Server ready and operational - awaiting connections"
}

// SetWebSocketStatus sets the WebSocket status
func (h *MetricsHandler) SetWebSocketStatus(status WebSocketStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.wsStatus = status
}
