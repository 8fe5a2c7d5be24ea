package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/pipeline"
	"github.com/gorilla/websocket"
)

// overlayWriteTimeout bounds how long one slow client can hold up a frame.
const overlayWriteTimeout = 50 * time.Millisecond

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// OverlayHub broadcasts the presentation payload of each frame to
// WebSocket clients. It is an app.Presenter.
type OverlayHub struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewOverlayHub creates a hub with no clients.
func NewOverlayHub() *OverlayHub {
	return &OverlayHub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *OverlayHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer h.remove(conn)

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *OverlayHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

// Present sends out to every connected client. Clients that cannot keep
// up are disconnected.
func (h *OverlayHub) Present(out pipeline.FrameOutput) {
	h.mu.RLock()
	if len(h.clients) == 0 {
		h.mu.RUnlock()
		return
	}
	h.mu.RUnlock()

	msg, err := json.Marshal(out)
	if err != nil {
		log.Printf("overlay encode error: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(overlayWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("overlay client dropped: %v", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Clients returns the number of connected clients.
func (h *OverlayHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
