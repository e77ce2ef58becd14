package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestPanelEventHub_Broadcast(t *testing.T) {
	hub := newPanelEventHub()

	server := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to dial WebSocket: %v", err)
	}
	defer conn.Close()

	// Give the hub a moment to register the connection
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.mu.Lock()
		registered := len(hub.conns) == 1
		hub.mu.Unlock()
		if registered {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Broadcast(PanelEvent{Type: "navigated", Address: "https://example.com", Visible: true})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event PanelEvent
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("Failed to read event: %v", err)
	}
	if event.Type != "navigated" {
		t.Errorf("Expected event type navigated, got %s", event.Type)
	}
	if event.Address != "https://example.com" {
		t.Errorf("Expected event address https://example.com, got %s", event.Address)
	}
	if !event.Visible {
		t.Errorf("Expected event visible=true")
	}
}

func TestPanelEventHub_BroadcastWithoutSubscribers(t *testing.T) {
	hub := newPanelEventHub()

	// Must not panic or block with nobody listening
	hub.Broadcast(PanelEvent{Type: "opened"})
}

func TestPanelEventHub_DropsClosedConnections(t *testing.T) {
	hub := newPanelEventHub()

	server := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to dial WebSocket: %v", err)
	}
	conn.Close()

	// The read loop should unregister the connection once it notices
	// the close
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.mu.Lock()
		empty := len(hub.conns) == 0
		hub.mu.Unlock()
		if empty {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("Expected closed connection to be unregistered")
}
