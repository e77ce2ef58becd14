package app

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// PanelEvent is pushed to the frontend and to WebSocket subscribers
// whenever the panel changes state.
type PanelEvent struct {
	Type    string `json:"type"` // "opened", "closed", "shown", "hidden", "navigated"
	Address string `json:"address"`
	Visible bool   `json:"visible"`
}

var panelUpgrader = websocket.Upgrader{
	// The panel server only listens on loopback
	CheckOrigin: func(r *http.Request) bool { return true },
}

// panelEventHub fans panel state changes out to connected WebSocket
// clients, such as the built-in panel page.
type panelEventHub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func newPanelEventHub() *panelEventHub {
	return &panelEventHub{conns: make(map[*websocket.Conn]bool)}
}

// HandleWS upgrades the request and keeps the connection registered
// until the client goes away.
func (h *panelEventHub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := panelUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = true
	h.mu.Unlock()

	// Drain client messages; the read loop doubles as disconnect
	// detection.
	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *panelEventHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}

// Broadcast sends the event to every subscriber, dropping connections
// that fail to write.
func (h *panelEventHub) Broadcast(event PanelEvent) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			h.remove(conn)
		}
	}
}
