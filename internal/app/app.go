package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Shared constants
const (
	// DefaultPanelWidth and DefaultPanelHeight are used when no saved
	// settings exist yet.
	DefaultPanelWidth  = 480
	DefaultPanelHeight = 640
)

// App struct
type App struct {
	ctx context.Context

	// panelMu serializes access to the panel: the manager itself is
	// single-threaded, the app enforces that for Wails bindings and
	// HTTP handlers.
	panelMu sync.Mutex
	panel   *PanelWindow

	events  *panelEventHub
	watcher *settingsWatcher
}

// NewApp creates a new App application struct
func NewApp() *App {
	return &App{events: newPanelEventHub()}
}

// Startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	// Start the loopback server that hosts the built-in panel page
	if err := a.StartPanelServer(); err != nil {
		log.Printf("⚠️ Failed to start panel server: %v", err)
	}

	// Apply external settings edits to a running panel
	if settingsPath, err := getSettingsPath(); err == nil {
		watcher, werr := watchSettingsFile(settingsPath, a.applySettingsChange)
		if werr != nil {
			log.Printf("⚠️ Failed to watch panel settings: %v", werr)
		} else {
			a.watcher = watcher
		}
	}

	settings, err := loadPanelSettings()
	if err != nil {
		log.Printf("⚠️ Failed to load panel settings: %v", err)
		return
	}
	if settings.OpenOnStartup {
		if err := a.OpenPanel(); err != nil {
			log.Printf("⚠️ Failed to open panel on startup: %v", err)
		}
	}
}

// Shutdown is called when the app exits. It stops the settings watcher
// and tears the panel window down.
func (a *App) Shutdown(ctx context.Context) {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	a.ClosePanel()
}

// OpenPanel creates the floating panel window using the saved settings,
// falling back to the built-in panel page when no address is configured.
// If the panel already exists it is re-presented instead.
func (a *App) OpenPanel() error {
	a.panelMu.Lock()
	defer a.panelMu.Unlock()

	if a.panel != nil {
		a.panel.SetHidden(false)
		a.emitPanelState("shown")
		return nil
	}

	settings, err := loadPanelSettings()
	if err != nil {
		return err
	}

	address := settings.Address
	if address == "" {
		address = a.PanelHomeURL()
	}

	panel, err := NewPanelWindow(0, settings.Width, settings.Height, address)
	if err != nil {
		return fmt.Errorf("failed to open panel: %v", err)
	}
	a.panel = panel
	a.emitPanelState("opened")
	return nil
}

// ClosePanel disposes the panel window and its web view. Safe to call
// when no panel is open.
func (a *App) ClosePanel() {
	a.panelMu.Lock()
	defer a.panelMu.Unlock()

	if a.panel == nil {
		return
	}
	a.panel.Close()
	a.panel = nil
	a.emitPanelState("closed")
}

// TogglePanel hides a visible panel and shows a hidden one, opening the
// panel first if it does not exist yet.
func (a *App) TogglePanel() error {
	a.panelMu.Lock()
	if a.panel != nil {
		visible := a.panel.Visible()
		a.panel.SetHidden(visible)
		if visible {
			a.emitPanelState("hidden")
		} else {
			a.emitPanelState("shown")
		}
		a.panelMu.Unlock()
		return nil
	}
	a.panelMu.Unlock()

	return a.OpenPanel()
}

// NavigatePanel points the panel at a new address. Best-effort: a bad
// address shows as a failed load inside the panel, not as an error
// here.
func (a *App) NavigatePanel(address string) {
	a.panelMu.Lock()
	defer a.panelMu.Unlock()

	if a.panel == nil {
		return
	}
	a.panel.Navigate(address)
	a.emitPanelState("navigated")
}

// IsPanelVisible reports whether the panel window is currently on screen.
func (a *App) IsPanelVisible() bool {
	a.panelMu.Lock()
	defer a.panelMu.Unlock()

	return a.panel != nil && a.panel.Visible()
}

// emitPanelState pushes the current panel state to the frontend and to
// WebSocket subscribers. Callers hold panelMu.
func (a *App) emitPanelState(kind string) {
	event := PanelEvent{Type: kind}
	if a.panel != nil {
		event.Address = a.panel.Address()
		event.Visible = a.panel.Visible()
	}
	if a.ctx != nil {
		runtime.EventsEmit(a.ctx, "panel:state", event)
	}
	a.events.Broadcast(event)
}

// applySettingsChange reacts to an external edit of settings.json: an
// address change navigates the running panel in place. Size changes
// only apply to the next OpenPanel.
func (a *App) applySettingsChange(settings PanelSettings) {
	if settings.Address == "" {
		return
	}
	log.Printf("🔄 Panel settings changed, navigating to: %s", settings.Address)
	a.NavigatePanel(settings.Address)
}

// PanelSettings represents the floating panel configuration
type PanelSettings struct {
	Address       string `json:"address"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	OpenOnStartup bool   `json:"openOnStartup"`
}

func defaultPanelSettings() PanelSettings {
	return PanelSettings{
		Width:  DefaultPanelWidth,
		Height: DefaultPanelHeight,
	}
}

// getSettingsPath returns the path to the settings file
func getSettingsPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %v", err)
	}

	appConfigDir := filepath.Join(configDir, "webpanel")
	if err := os.MkdirAll(appConfigDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %v", err)
	}

	return filepath.Join(appConfigDir, "settings.json"), nil
}

// loadPanelSettings reads the settings file, returning defaults when it
// does not exist.
func loadPanelSettings() (PanelSettings, error) {
	settingsPath, err := getSettingsPath()
	if err != nil {
		return defaultPanelSettings(), err
	}
	return readPanelSettings(settingsPath)
}

// readPanelSettings parses the settings file at the given path. A
// missing file and unusable sizes fall back to defaults so the panel can
// always open.
func readPanelSettings(path string) (PanelSettings, error) {
	settings := defaultPanelSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read settings: %v", err)
	}

	if err := json.Unmarshal(data, &settings); err != nil {
		return defaultPanelSettings(), fmt.Errorf("invalid JSON in settings file: %v", err)
	}

	if settings.Width <= 0 {
		settings.Width = DefaultPanelWidth
	}
	if settings.Height <= 0 {
		settings.Height = DefaultPanelHeight
	}
	return settings, nil
}

// GetPanelSettings returns the current panel settings as JSON; exposed
// to the frontend via Wails.
func (a *App) GetPanelSettings() (string, error) {
	settings, err := loadPanelSettings()
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("failed to marshal settings: %v", err)
	}
	return string(data), nil
}

// SavePanelSettings persists panel settings from JSON; exposed to the
// frontend via Wails.
func (a *App) SavePanelSettings(settingsJSON string) error {
	var settings PanelSettings
	if err := json.Unmarshal([]byte(settingsJSON), &settings); err != nil {
		return fmt.Errorf("invalid settings JSON: %v", err)
	}

	settingsPath, err := getSettingsPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %v", err)
	}
	if err := os.WriteFile(settingsPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %v", err)
	}
	return nil
}
