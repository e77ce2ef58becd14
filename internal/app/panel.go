package app

import (
	"fmt"
	"log"
)

// nativeWebWindow is the thin adapter over the platform window/web-view
// pair. All native handle manipulation lives behind this interface so
// nothing else in the app ever sees platform types.
type nativeWebWindow interface {
	// Load issues a navigation request for the given address. Loading is
	// fire-and-forget: the request replaces any in-flight load and there
	// is no completion signal.
	Load(address string)

	// SetHidden removes the window from screen (true) or re-presents it
	// with key focus (false). Neither direction recreates anything; the
	// loaded page and its state survive hiding.
	SetHidden(hidden bool)

	// Visible reports the window's current on-screen state, queried live
	// from the native layer.
	Visible() bool

	// Destroy closes the window if it is still on screen, then releases
	// the native resources. Called at most once.
	Destroy()
}

// PanelWindow manages a single floating native window with an embedded
// web view, used to show auxiliary web UI next to the main window. One
// PanelWindow owns exactly one window/view pair; it is not a pool.
//
// On platforms without native panel support the manager degrades to a
// stand-in that only tracks the requested address and always reports
// not-visible, so callers need no platform conditionals.
type PanelWindow struct {
	win     nativeWebWindow // nil in stand-in mode
	address string
	closed  bool
}

// NewPanelWindow creates the floating panel, loads the initial address
// and presents the window. parentHandle is accepted for callers that
// hold a host window handle but is ignored: the panel is an independent
// floating window, never parented.
//
// Navigation is best-effort. An address the web view cannot load shows
// up as a blank panel, not as an error here.
func NewPanelWindow(parentHandle uintptr, width, height int, address string) (*PanelWindow, error) {
	_ = parentHandle

	win, err := newNativeWebWindow(width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to create native panel window: %v", err)
	}

	p := newPanelWindowWith(win, address)
	if p.win != nil {
		log.Printf("🪟 Created floating panel window (%dx%d)", width, height)
	}
	return p, nil
}

// newPanelWindowWith wires a prebuilt native window into a manager,
// issuing the initial load and presenting it. A nil window selects
// stand-in mode. Tests use this to substitute a fake native layer.
func newPanelWindowWith(win nativeWebWindow, address string) *PanelWindow {
	p := &PanelWindow{win: win, address: address}
	if p.win != nil {
		p.win.Load(address)
		p.win.SetHidden(false)
	}
	return p
}

// Navigate points the panel at a new address. Requesting the address the
// panel already shows is a no-op, so repeated callers never trigger
// redundant loads.
func (p *PanelWindow) Navigate(address string) {
	if p.closed {
		return
	}
	if p.win == nil {
		p.address = address
		return
	}
	if p.address == address {
		return
	}
	p.address = address
	p.win.Load(address)
	log.Printf("🌐 Panel navigated to: %s", address)
}

// Address returns the last requested address. The underlying load may
// still be in flight; the address is recorded as soon as it is issued.
func (p *PanelWindow) Address() string {
	return p.address
}

// SetHidden toggles panel presentation. Hiding keeps the loaded page,
// scroll position and window geometry alive; showing re-presents the
// same window with key focus. Redundant calls are safe.
func (p *PanelWindow) SetHidden(hidden bool) {
	if p.closed || p.win == nil {
		return
	}
	p.win.SetHidden(hidden)
}

// Visible reports whether the panel window is currently on screen. The
// native window is queried directly because the user can close or
// minimize it through system gestures the manager never sees.
func (p *PanelWindow) Visible() bool {
	if p.closed || p.win == nil {
		return false
	}
	return p.win.Visible()
}

// Close tears the panel down: a still-visible window is closed before
// its resources are released. Safe to call more than once; only the
// first call does anything.
func (p *PanelWindow) Close() {
	if p.closed {
		return
	}
	p.closed = true
	if p.win == nil {
		return
	}
	log.Printf("🧹 Cleaning up floating panel window")
	p.win.Destroy()
}
