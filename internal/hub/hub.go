// Package hub fans interview events out to connected observer dashboards.
package hub

import (
	"context"
	"net/http"
	"sync"

	"peerprep/interview/internal/events"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub tracks connected observers and broadcasts every event to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}

	// hello builds the first frame a new observer receives
	hello    func() any
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewHub(hello func() any, allowedOrigins []string, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:  make(map[*Client]struct{}),
		hello:    hello,
		logger:   logger,
		upgrader: websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)},
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set["*"] || set[origin]
	}
}

func (h *Hub) Join(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) Leave(c *Client) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	return len(h.clients)
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Broadcast(frame Frame) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.Send(frame); err != nil {
			h.logger.Debug("dropping observer after failed send", zap.Error(err))
			h.Leave(c)
		}
	}
}

// Publish implements events.Publisher.
func (h *Hub) Publish(_ context.Context, ev events.Event) error {
	h.Broadcast(Frame{Type: string(ev.Type), Data: ev})
	return nil
}

// ServeWS upgrades an observer connection and keeps it subscribed until it closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	client := NewClient(conn)
	var data any
	if h.hello != nil {
		data = h.hello()
	}
	if err := client.Send(Frame{Type: "hello", Data: data}); err != nil {
		return
	}

	h.Join(client)
	defer h.Leave(client)

	for {
		var in Frame
		if err := conn.ReadJSON(&in); err != nil {
			return
		}
		if in.Type == "ping" {
			_ = client.Send(Frame{Type: "pong"})
		}
	}
}
