// Package session holds runtime state for the running app.
package session

import "sync"

// Snapshot represents a read-only view of the current session state.
type Snapshot struct {
	OverlayVisible   bool
	ListenerEnabled  bool
	MonitorIndex     int
	GesturesInFlight int
}

// Session holds runtime state shared by the overlay, the tray menu
// and the key listener.
type Session struct {
	mu              sync.RWMutex
	overlayVisible  bool
	listenerEnabled bool
	monitorIndex    int
	inFlightFn      func() int
}

// New returns an initialized session. The overlay starts hidden; the
// listener starts in the given state.
func New(listenerEnabled bool) *Session {
	return &Session{listenerEnabled: listenerEnabled}
}

// SetInFlightFunc registers the in-flight gesture counter used by
// Snapshot.
func (s *Session) SetInFlightFunc(fn func() int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlightFn = fn
}

// SetOverlayVisible records whether the overlay window is shown.
func (s *Session) SetOverlayVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlayVisible = visible
}

// OverlayVisible reports whether the overlay window is shown. While it
// is, key presses bind instead of triggering gestures.
func (s *Session) OverlayVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overlayVisible
}

// SetListenerEnabled toggles whether bound keys trigger gestures.
func (s *Session) SetListenerEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listenerEnabled = enabled
}

// ListenerEnabled reports whether bound keys trigger gestures.
func (s *Session) ListenerEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listenerEnabled
}

// ToggleListener flips the listener state and returns the new value.
func (s *Session) ToggleListener() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listenerEnabled = !s.listenerEnabled
	return s.listenerEnabled
}

// SetMonitor sets the selected monitor index.
func (s *Session) SetMonitor(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monitorIndex = idx
}

// Monitor returns the selected monitor index.
func (s *Session) Monitor() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.monitorIndex
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		OverlayVisible:  s.overlayVisible,
		ListenerEnabled: s.listenerEnabled,
		MonitorIndex:    s.monitorIndex,
	}
	if s.inFlightFn != nil {
		snap.GesturesInFlight = s.inFlightFn()
	}
	return snap
}
