//go:build !darwin

package app

// newNativeWebWindow reports no native panel support on this platform.
// The returned nil window puts the manager into stand-in mode: it tracks
// the requested address, hide/show are no-ops and the panel is never
// visible.
func newNativeWebWindow(width, height int) (nativeWebWindow, error) {
	return nil, nil
}
