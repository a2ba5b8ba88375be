//go:build !windows

package overlay

import (
	"fmt"

	"wintoucher/internal/monitor"
	"wintoucher/internal/point"
)

// ErrUnsupported reports that the overlay window needs Windows.
var ErrUnsupported = fmt.Errorf("overlay window is only supported on Windows")

// Window is unavailable on non-Windows platforms.
type Window struct{}

// NewWindow returns a placeholder window.
func NewWindow(c *Controller, store *point.Store, bounds monitor.Monitor, opacity byte) *Window {
	return &Window{}
}

// SetVisibilityFunc is a no-op on non-Windows platforms.
func (w *Window) SetVisibilityFunc(fn func(visible bool)) {}

// Start returns ErrUnsupported.
func (w *Window) Start() error { return ErrUnsupported }

// Stop is a no-op on non-Windows platforms.
func (w *Window) Stop() {}

// Show is a no-op on non-Windows platforms.
func (w *Window) Show() {}

// Hide is a no-op on non-Windows platforms.
func (w *Window) Hide() {}

// Visible always reports false on non-Windows platforms.
func (w *Window) Visible() bool { return false }

// Invalidate is a no-op on non-Windows platforms.
func (w *Window) Invalidate() {}
