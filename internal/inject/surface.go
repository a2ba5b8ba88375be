// Package inject wraps the Windows touch injection session.
package inject

import (
	"errors"
	"fmt"
	"sync"
)

// MaxContacts is the hard ceiling of the Windows touch injection API.
const MaxContacts = 256

// ErrNotReady indicates the session is not initialized or already
// closed.
var ErrNotReady = errors.New("touch injection session not ready")

// Phase identifies the stage of a contact within a gesture.
type Phase string

const (
	// PhaseDown places a new contact on the screen.
	PhaseDown Phase = "down"
	// PhaseMove updates the position of a contact that is down.
	PhaseMove Phase = "move"
	// PhaseUp lifts a contact off the screen.
	PhaseUp Phase = "up"
	// phaseCancel forcibly aborts a contact the OS believes is down.
	phaseCancel Phase = "cancel"
)

// Contact is one simulated finger within an injected frame.
type Contact struct {
	ID    int
	X     int
	Y     int
	Phase Phase
}

// Surface is the injection boundary used by the gesture engine.
type Surface interface {
	Initialize(maxContacts int) error
	InjectFrame(contactID int, phase Phase, x, y int) error
	Abort(contactID int) error
	Close() error
}

type sessionState int

const (
	stateUninitialized sessionState = iota
	stateReady
	stateClosed
)

// The OS touch injection facility is process-wide; a second Ready
// session would corrupt the first one's contact bookkeeping.
var (
	liveMu  sync.Mutex
	liveSet bool
)

type contactState struct {
	x, y int
}

// Session serializes all access to the OS touch injection facility
// and tracks which contacts are currently down. Every frame submits
// the full active contact set, which is what the OS API requires.
type Session struct {
	mu      sync.Mutex
	state   sessionState
	max     int
	active  map[int]*contactState
	backend backend
}

// backend is the thin platform call surface under the session.
type backend interface {
	initialize(maxContacts int) error
	inject(contacts []Contact) error
}

// NewSession returns an uninitialized injection session for this
// platform.
func NewSession() *Session {
	return &Session{backend: newBackend(), active: make(map[int]*contactState)}
}

// Initialize transitions the session to Ready. Only one Ready session
// may exist in the process.
func (s *Session) Initialize(maxContacts int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateUninitialized {
		return fmt.Errorf("initialize: session already %s", s.stateName())
	}
	if maxContacts <= 0 || maxContacts > MaxContacts {
		return fmt.Errorf("initialize: max contacts must be 1-%d, got %d", MaxContacts, maxContacts)
	}

	liveMu.Lock()
	defer liveMu.Unlock()
	if liveSet {
		return errors.New("initialize: another injection session is active")
	}
	if err := s.backend.initialize(maxContacts); err != nil {
		return err
	}
	liveSet = true
	s.max = maxContacts
	s.state = stateReady
	return nil
}

// InjectFrame submits one down/move/up transition for a contact,
// resubmitting every other active contact at its last position as the
// OS requires.
func (s *Session) InjectFrame(contactID int, phase Phase, x, y int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateReady {
		return ErrNotReady
	}
	if contactID < 0 || contactID >= s.max {
		return fmt.Errorf("inject: contact id %d out of range 0-%d", contactID, s.max-1)
	}

	switch phase {
	case PhaseDown:
		if _, ok := s.active[contactID]; ok {
			return fmt.Errorf("inject: contact %d already in flight", contactID)
		}
	case PhaseMove, PhaseUp:
		if _, ok := s.active[contactID]; !ok {
			return fmt.Errorf("inject: contact %d not in flight", contactID)
		}
	default:
		return fmt.Errorf("inject: unknown phase %q", phase)
	}

	if err := s.backend.inject(s.buildFrame(contactID, phase, x, y)); err != nil {
		return fmt.Errorf("inject frame: %w", err)
	}

	switch phase {
	case PhaseDown:
		s.active[contactID] = &contactState{x: x, y: y}
	case PhaseMove:
		s.active[contactID].x = x
		s.active[contactID].y = y
	case PhaseUp:
		delete(s.active, contactID)
	}
	return nil
}

// Abort lifts a contact with a canceled flag. Tracking is dropped
// even when the OS call fails so a rejected contact cannot wedge
// every later frame.
func (s *Session) Abort(contactID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateReady {
		return ErrNotReady
	}
	c, ok := s.active[contactID]
	if !ok {
		return nil
	}
	err := s.backend.inject(s.buildFrame(contactID, phaseCancel, c.x, c.y))
	delete(s.active, contactID)
	if err != nil {
		return fmt.Errorf("abort contact %d: %w", contactID, err)
	}
	return nil
}

// Close transitions the session to Closed. Further frames are
// rejected with ErrNotReady.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateReady {
		s.state = stateClosed
		return nil
	}
	if n := len(s.active); n > 0 {
		// Shutdown ordering should have drained these already.
		for id, c := range s.active {
			_ = s.backend.inject(s.buildFrame(id, phaseCancel, c.x, c.y))
			delete(s.active, id)
		}
	}
	s.state = stateClosed
	liveMu.Lock()
	liveSet = false
	liveMu.Unlock()
	return nil
}

// ActiveContacts reports how many contacts the OS currently believes
// are down.
func (s *Session) ActiveContacts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// buildFrame assembles the full contact set for one injection call.
// The subject contact comes first with the transition phase; all
// other active contacts repeat their last position. Callers must hold
// s.mu.
func (s *Session) buildFrame(contactID int, phase Phase, x, y int) []Contact {
	frame := make([]Contact, 0, len(s.active)+1)
	frame = append(frame, Contact{ID: contactID, X: x, Y: y, Phase: phase})
	for id, c := range s.active {
		if id == contactID {
			continue
		}
		frame = append(frame, Contact{ID: id, X: c.x, Y: c.y, Phase: PhaseMove})
	}
	return frame
}

// stateName returns a readable state label for error messages.
func (s *Session) stateName() string {
	switch s.state {
	case stateReady:
		return "ready"
	case stateClosed:
		return "closed"
	default:
		return "uninitialized"
	}
}
