//go:build !windows

// Package hook observes global keyboard transitions and triggers
// bound gestures.
package hook

import "errors"

// ErrUnsupported indicates the global keyboard hook is only available
// on Windows.
var ErrUnsupported = errors.New("keyboard hook is only supported on Windows")

// stubSource is a placeholder source for non-Windows builds.
type stubSource struct {
	events chan KeyEvent
}

// NewSource returns a non-functional source on non-Windows platforms.
func NewSource() Source {
	return &stubSource{events: make(chan KeyEvent)}
}

// Start returns ErrUnsupported.
func (s *stubSource) Start() error {
	return ErrUnsupported
}

// Stop closes the event channel.
func (s *stubSource) Stop() error {
	close(s.events)
	return nil
}

// Events returns the (never written) event channel.
func (s *stubSource) Events() <-chan KeyEvent {
	return s.events
}
