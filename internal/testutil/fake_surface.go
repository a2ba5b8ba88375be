// Package testutil provides shared fakes for package tests.
package testutil

import (
	"errors"
	"sync"

	"wintoucher/internal/inject"
)

// Frame records a single injected contact transition.
type Frame struct {
	Contact int
	Phase   inject.Phase
	X       int
	Y       int
}

// FakeSurface implements inject.Surface and records frames for tests.
// It is safe for concurrent use; gesture goroutines inject in
// parallel.
type FakeSurface struct {
	mu        sync.Mutex
	ready     bool
	max       int
	failAfter int
	frames    []Frame
	aborts    []int
}

// Ensure FakeSurface implements the interface.
var _ inject.Surface = (*FakeSurface)(nil)

// NewFakeSurface returns a surface accepting every frame.
func NewFakeSurface() *FakeSurface {
	return &FakeSurface{failAfter: -1}
}

// FailAfter makes the surface reject frames once n have been
// accepted. A negative n accepts everything.
func (f *FakeSurface) FailAfter(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAfter = n
}

// Initialize marks the surface ready.
func (f *FakeSurface) Initialize(maxContacts int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ready = true
	f.max = maxContacts
	return nil
}

// InjectFrame records one contact transition.
func (f *FakeSurface) InjectFrame(contactID int, phase inject.Phase, x, y int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAfter >= 0 && len(f.frames) >= f.failAfter {
		return errors.New("surface rejected frame")
	}
	f.frames = append(f.frames, Frame{Contact: contactID, Phase: phase, X: x, Y: y})
	return nil
}

// Abort records a forced contact lift.
func (f *FakeSurface) Abort(contactID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.aborts = append(f.aborts, contactID)
	return nil
}

// Close marks the surface closed.
func (f *FakeSurface) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ready = false
	return nil
}

// Frames returns a copy of all recorded frames.
func (f *FakeSurface) Frames() []Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Frame, len(f.frames))
	copy(out, f.frames)
	return out
}

// Aborts returns a copy of all aborted contact ids.
func (f *FakeSurface) Aborts() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.aborts))
	copy(out, f.aborts)
	return out
}
