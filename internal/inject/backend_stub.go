//go:build !windows

// Package inject wraps the Windows touch injection session.
package inject

import "errors"

// ErrUnsupported indicates touch injection is only available on
// Windows.
var ErrUnsupported = errors.New("touch injection is only supported on Windows")

// stubBackend rejects initialization on non-Windows platforms.
type stubBackend struct{}

// newBackend returns a non-functional backend on non-Windows
// platforms.
func newBackend() backend {
	return &stubBackend{}
}

// initialize returns ErrUnsupported.
func (s *stubBackend) initialize(maxContacts int) error {
	_ = maxContacts
	return ErrUnsupported
}

// inject returns ErrUnsupported.
func (s *stubBackend) inject(contacts []Contact) error {
	_ = contacts
	return ErrUnsupported
}
