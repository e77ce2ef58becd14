package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
)

var panelServerPort int

// StartPanelServer starts a lightweight loopback HTTP server that hosts
// the built-in panel page and a small control API. The page is what the
// floating panel shows when no address is configured.
func (a *App) StartPanelServer() error {
	// Find an available port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("failed to find available port: %v", err)
	}
	panelServerPort = listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/panel", a.handlePanelPage)
	mux.HandleFunc("/api/panel/status", a.handlePanelStatus)
	mux.HandleFunc("/api/panel/navigate", a.handlePanelNavigate)
	mux.HandleFunc("/api/panel/toggle", a.handlePanelToggle)
	mux.HandleFunc("/ws", a.events.HandleWS)

	go func() {
		addr := fmt.Sprintf("127.0.0.1:%d", panelServerPort)
		log.Printf("🌐 Panel server started at http://%s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("❌ Panel server error: %v", err)
		}
	}()

	return nil
}

// PanelHomeURL returns the address of the built-in panel page.
func (a *App) PanelHomeURL() string {
	if panelServerPort == 0 {
		return "about:blank"
	}
	return fmt.Sprintf("http://127.0.0.1:%d/panel", panelServerPort)
}

// handlePanelPage serves the built-in panel HTML page
func (a *App) handlePanelPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(panelHTML))
}

// handlePanelStatus reports the current panel state as JSON
func (a *App) handlePanelStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	a.panelMu.Lock()
	status := map[string]interface{}{
		"open":    a.panel != nil,
		"visible": false,
		"address": "",
	}
	if a.panel != nil {
		status["visible"] = a.panel.Visible()
		status["address"] = a.panel.Address()
	}
	a.panelMu.Unlock()

	json.NewEncoder(w).Encode(status)
}

// handlePanelNavigate points the panel at a new address
func (a *App) handlePanelNavigate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	if req.URL == "" {
		json.NewEncoder(w).Encode(map[string]string{"error": "url is required"})
		return
	}

	a.NavigatePanel(req.URL)
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// handlePanelToggle flips panel visibility
func (a *App) handlePanelToggle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(map[string]string{"error": "method not allowed"})
		return
	}

	if err := a.TogglePanel(); err != nil {
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// panelHTML is the built-in page the floating panel shows by default.
// It tracks panel state live over the WebSocket stream.
const panelHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Web Panel</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
html, body { height: 100%; overflow: hidden; }
body {
  background: #1e1e1e; color: #e0e0e0;
  font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
  display: flex; flex-direction: column;
}
#titlebar {
  display: flex; align-items: center; height: 44px; padding: 0 14px;
  background: #323233; border-bottom: 1px solid #404040;
  gap: 10px; user-select: none; flex-shrink: 0;
  -webkit-app-region: drag;
}
#title { font-size: 14px; font-weight: 600; }
#content { flex: 1; display: flex; flex-direction: column; gap: 14px; padding: 20px; }
.row { display: flex; gap: 8px; }
#address {
  flex: 1; background: #1e1e1e; border: 1px solid #3e3e42; color: #e0e0e0;
  font-size: 13px; font-family: Monaco, Menlo, monospace; padding: 0 10px;
  height: 32px; border-radius: 4px; outline: none;
}
#address:focus { border-color: #1890ff; }
button {
  padding: 0 16px; height: 32px; background: #0e639c; color: #fff;
  border: none; border-radius: 4px; cursor: pointer; font-size: 12px;
}
button:hover { background: #1177bb; }
#log {
  flex: 1; overflow-y: auto; background: #252526; border-radius: 6px;
  padding: 10px; font-family: Monaco, Menlo, monospace; font-size: 11px;
  color: #9cdcfe; line-height: 1.7;
}
#statusbar {
  display: flex; align-items: center; justify-content: space-between;
  height: 24px; padding: 0 12px; background: #007acc;
  font-size: 11px; color: #fff; flex-shrink: 0; user-select: none;
}
</style>
</head>
<body>
<div id="titlebar"><span id="title">Web Panel</span></div>
<div id="content">
  <div class="row">
    <input id="address" placeholder="https://..." spellcheck="false">
    <button onclick="go()">Go</button>
  </div>
  <div id="log"></div>
</div>
<div id="statusbar">
  <span id="status-left">Connecting...</span>
  <span id="status-right"></span>
</div>

<script>
(function() {
  var logEl = document.getElementById("log");

  function addLog(msg) {
    var line = document.createElement("div");
    line.textContent = new Date().toLocaleTimeString() + "  " + msg;
    logEl.appendChild(line);
    logEl.scrollTop = logEl.scrollHeight;
  }

  window.go = function() {
    var url = document.getElementById("address").value.trim();
    if (!url) return;
    fetch("/api/panel/navigate", {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({ url: url })
    })
    .then(function(r) { return r.json(); })
    .then(function(data) {
      if (data.error) addLog("Error: " + data.error);
    })
    .catch(function(err) { addLog("Failed: " + err.message); });
  };

  document.getElementById("address").addEventListener("keydown", function(e) {
    if (e.key === "Enter") window.go();
  });

  // Live state over WebSocket
  function connect() {
    var ws = new WebSocket("ws://" + window.location.host + "/ws");
    ws.onopen = function() {
      document.getElementById("status-left").textContent = "Connected";
    };
    ws.onmessage = function(msg) {
      var event = JSON.parse(msg.data);
      document.getElementById("status-right").textContent = event.address || "";
      addLog(event.type + (event.address ? " → " + event.address : ""));
    };
    ws.onclose = function() {
      document.getElementById("status-left").textContent = "Disconnected";
      setTimeout(connect, 2000);
    };
  }
  connect();

  // Initial status
  fetch("/api/panel/status")
    .then(function(r) { return r.json(); })
    .then(function(data) {
      document.getElementById("status-right").textContent = data.address || "";
    })
    .catch(function() {});
})();
</script>
</body>
</html>`
