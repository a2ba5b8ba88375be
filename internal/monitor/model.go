// Package monitor describes display geometry and enumeration.
package monitor

// Monitor describes a display and its bounds.
type Monitor struct {
	Index   int
	X       int
	Y       int
	W       int
	H       int
	Primary bool
}

// GetMonitorByIndex returns the monitor matching the 1-based index.
func GetMonitorByIndex(list []Monitor, idx int) (Monitor, bool) {
	for _, m := range list {
		if m.Index == idx {
			return m, true
		}
	}
	return Monitor{}, false
}

// OverlayBounds returns the rectangle the overlay window should cover.
// Index 0 selects the whole virtual desktop; an index with no matching
// monitor also falls back to the virtual bounds, so a stale config
// never leaves the overlay off screen.
func OverlayBounds(list []Monitor, idx int, virtual Monitor) Monitor {
	if idx <= 0 {
		return virtual
	}
	if m, ok := GetMonitorByIndex(list, idx); ok {
		return m
	}
	return virtual
}
