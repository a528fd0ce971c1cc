package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vulnguard/vulnguard/internal/core/domain"
	"github.com/vulnguard/vulnguard/internal/core/ports"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// Allow same-origin (no Origin header)
		if origin == "" {
			return true
		}

		allowedOrigins := []string{
			"http://localhost:8080",
			"http://127.0.0.1:8080",
			"http://[::1]:8080",
		}

		for _, allowed := range allowedOrigins {
			if origin == allowed {
				return true
			}
		}

		return false
	},
}

// WSMessage is the envelope for every frame pushed to clients.
type WSMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// WSManager fans out graph snapshots and platform events to connected
// browser clients.
type WSManager struct {
	analyzer ports.GraphAnalyzer
	log      *slog.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewWSManager(analyzer ports.GraphAnalyzer, log *slog.Logger) *WSManager {
	return &WSManager{
		analyzer: analyzer,
		log:      log,
		clients:  make(map[*websocket.Conn]struct{}),
	}
}

// Start launches the periodic graph broadcast loop.
func (m *WSManager) Start(ctx context.Context) {
	go m.processAndBroadcast(ctx)
}

func (m *WSManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	m.mu.Lock()
	m.clients[conn] = struct{}{}
	m.mu.Unlock()

	m.log.Info("websocket connected", "remote", r.RemoteAddr)

	// Clean up on disconnect
	go func() {
		defer conn.Close()
		defer func() {
			m.mu.Lock()
			delete(m.clients, conn)
			m.mu.Unlock()
			m.log.Info("websocket disconnected", "remote", r.RemoteAddr)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (m *WSManager) processAndBroadcast(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.broadcastGraph(ctx)
		}
	}
}

func (m *WSManager) broadcastGraph(ctx context.Context) {
	if !m.hasClients() {
		return
	}

	export, err := m.analyzer.ExportFullGraph(ctx)
	if err != nil {
		m.log.Warn("graph export for broadcast failed", "error", err)
		return
	}

	m.broadcastMessage(WSMessage{Type: "graph", Payload: export})
}

// BroadcastRunComplete announces a finished matching run.
func (m *WSManager) BroadcastRunComplete(totalMatches int) {
	payload := map[string]any{
		"total_matches": totalMatches,
		"finished_at":   time.Now().UTC(),
	}
	m.broadcastMessage(WSMessage{Type: "matching.complete", Payload: payload})
}

// BroadcastRiskScore pushes a freshly computed composite score.
func (m *WSManager) BroadcastRiskScore(result domain.RiskScoreResult) {
	m.broadcastMessage(WSMessage{Type: "risk.score", Payload: result})
}

// BroadcastLog sends a log line to all connected clients.
func (m *WSManager) BroadcastLog(message string, level string) {
	payload := map[string]string{
		"message": message,
		"level":   level,
	}
	m.broadcastMessage(WSMessage{Type: "log", Payload: payload})
}

func (m *WSManager) hasClients() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients) > 0
}

func (m *WSManager) broadcastMessage(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		m.log.Warn("websocket marshal failed", "error", err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for conn := range m.clients {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(m.clients, conn)
		}
	}
}
