package telemetry

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// writeWindow is how long a subscriber gets to accept a frame before it
// is dropped.
const writeWindow = 200 * time.Millisecond

// Hub is a Reporter that pushes JSON frames to websocket subscribers and
// serves the most recent engine snapshot over plain HTTP. Slow
// subscribers are disconnected rather than ever stalling the engine.
type Hub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]bool
	snapshot json.RawMessage
}

func NewHub() *Hub {
	return &Hub{clients: map[*websocket.Conn]bool{}}
}

// HandleWS upgrades the request and streams telemetry frames until the
// peer goes away. Inbound messages are read and discarded so pings and
// close frames are processed.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// HandleStatus serves the latest snapshot set with SetStatus.
func (h *Hub) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	snap := h.snapshot
	h.mu.Unlock()
	if snap == nil {
		snap = json.RawMessage("{}")
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(snap)
}

// SetStatus stores the engine snapshot served by HandleStatus.
func (h *Hub) SetStatus(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Debug().Err(err).Msg("snapshot marshal failed")
		return
	}
	h.mu.Lock()
	h.snapshot = b
	h.mu.Unlock()
}

func (h *Hub) Metric(name string, value float64, tags map[string]string) {
	merged := map[string]string{"component": component}
	for k, v := range tags {
		merged[k] = v
	}
	b, _ := json.Marshal(map[string]any{"metric": name, "value": value, "tags": merged})
	h.broadcast(b)
}

func (h *Hub) Event(name string, fields map[string]any) {
	b, _ := json.Marshal(map[string]any{"event": name, "fields": fields})
	h.broadcast(b)
}

func (h *Hub) broadcast(frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.SetWriteDeadline(time.Now().Add(writeWindow))
		if err := c.WriteMessage(websocket.TextMessage, frame); err != nil {
			delete(h.clients, c)
			c.Close()
		}
	}
}
