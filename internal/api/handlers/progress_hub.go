package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/tkohno/guardian/pkg/logger"
)

// ProgressHub broadcasts screening progress to connected websocket clients.
// Implements contracts.ProgressSink: Report is fire-and-forget, a slow or
// dead client is dropped rather than backpressuring the screening pass.
type ProgressHub struct {
	logger   *logger.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

// NewProgressHub creates a new progress hub.
func NewProgressHub(log *logger.Logger) *ProgressHub {
	return &ProgressHub{
		logger: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Dashboard and API run on different ports locally
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP upgrades the connection and keeps it registered until the client
// goes away.
func (h *ProgressHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.conns[conn] = true
	count := len(h.conns)
	h.mu.Unlock()

	h.logger.WithField("clients", count).Debug("Progress client connected")

	// Read loop exists only to observe the close
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// progressEvent is the wire format pushed to clients
type progressEvent struct {
	Fraction float64 `json:"fraction"`
	Code     string  `json:"code"`
}

// Report implements contracts.ProgressSink.
func (h *ProgressHub) Report(fraction float64, code string) {
	event := progressEvent{Fraction: fraction, Code: code}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			h.drop(conn)
		}
	}
}

func (h *ProgressHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		conn.Close()
	}
	h.mu.Unlock()
}
