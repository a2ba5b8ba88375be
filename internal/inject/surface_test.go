package inject

import (
	"errors"
	"testing"
)

// fakeBackend records injected frames and can fail on demand.
type fakeBackend struct {
	frames  [][]Contact
	initMax int
	failAll bool
}

func (f *fakeBackend) initialize(maxContacts int) error {
	f.initMax = maxContacts
	return nil
}

func (f *fakeBackend) inject(contacts []Contact) error {
	if f.failAll {
		return errors.New("backend rejected frame")
	}
	copied := make([]Contact, len(contacts))
	copy(copied, contacts)
	f.frames = append(f.frames, copied)
	return nil
}

// newTestSession returns a Ready session over a fake backend.
func newTestSession(t *testing.T, max int) (*Session, *fakeBackend) {
	t.Helper()
	f := &fakeBackend{}
	s := &Session{backend: f, active: make(map[int]*contactState)}
	if err := s.Initialize(max); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, f
}

// TestSession_StateMachine verifies frames are rejected before
// initialization and after close.
func TestSession_StateMachine(t *testing.T) {
	f := &fakeBackend{}
	s := &Session{backend: f, active: make(map[int]*contactState)}

	if err := s.InjectFrame(0, PhaseDown, 1, 2); !errors.Is(err, ErrNotReady) {
		t.Fatalf("uninitialized: expected ErrNotReady, got %v", err)
	}
	if err := s.Initialize(4); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := s.InjectFrame(0, PhaseDown, 1, 2); err != nil {
		t.Fatalf("ready inject: %v", err)
	}
	if err := s.InjectFrame(0, PhaseUp, 1, 2); err != nil {
		t.Fatalf("up: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.InjectFrame(0, PhaseDown, 1, 2); !errors.Is(err, ErrNotReady) {
		t.Fatalf("closed: expected ErrNotReady, got %v", err)
	}
}

// TestSession_SingleLiveSession verifies only one Ready session can
// exist process-wide.
func TestSession_SingleLiveSession(t *testing.T) {
	first := &Session{backend: &fakeBackend{}, active: make(map[int]*contactState)}
	if err := first.Initialize(2); err != nil {
		t.Fatalf("first initialize: %v", err)
	}
	defer first.Close()

	second := &Session{backend: &fakeBackend{}, active: make(map[int]*contactState)}
	if err := second.Initialize(2); err == nil {
		second.Close()
		t.Fatalf("expected second session to be rejected")
	}
}

// TestSession_ResubmitsActiveContacts verifies every frame carries
// all contacts the OS believes are down.
func TestSession_ResubmitsActiveContacts(t *testing.T) {
	s, f := newTestSession(t, 4)

	if err := s.InjectFrame(0, PhaseDown, 10, 10); err != nil {
		t.Fatalf("down 0: %v", err)
	}
	if err := s.InjectFrame(1, PhaseDown, 50, 50); err != nil {
		t.Fatalf("down 1: %v", err)
	}
	if err := s.InjectFrame(0, PhaseMove, 12, 12); err != nil {
		t.Fatalf("move 0: %v", err)
	}

	last := f.frames[len(f.frames)-1]
	if len(last) != 2 {
		t.Fatalf("expected 2 contacts in frame, got %d: %+v", len(last), last)
	}
	if last[0].ID != 0 || last[0].Phase != PhaseMove {
		t.Fatalf("subject contact wrong: %+v", last[0])
	}
	if last[1].ID != 1 || last[1].Phase != PhaseMove || last[1].X != 50 {
		t.Fatalf("companion contact wrong: %+v", last[1])
	}
}

// TestSession_PhaseValidation verifies impossible transitions are
// rejected without touching the backend.
func TestSession_PhaseValidation(t *testing.T) {
	s, f := newTestSession(t, 2)

	if err := s.InjectFrame(0, PhaseMove, 1, 1); err == nil {
		t.Fatalf("move before down must fail")
	}
	if err := s.InjectFrame(0, PhaseUp, 1, 1); err == nil {
		t.Fatalf("up before down must fail")
	}
	if err := s.InjectFrame(0, PhaseDown, 1, 1); err != nil {
		t.Fatalf("down: %v", err)
	}
	if err := s.InjectFrame(0, PhaseDown, 1, 1); err == nil {
		t.Fatalf("double down must fail")
	}
	if err := s.InjectFrame(5, PhaseDown, 1, 1); err == nil {
		t.Fatalf("contact id beyond max must fail")
	}
	if got := len(f.frames); got != 1 {
		t.Fatalf("expected exactly 1 backend frame, got %d", got)
	}
}

// TestSession_AbortDropsTracking verifies Abort removes the contact
// even when the OS rejects the cancel frame.
func TestSession_AbortDropsTracking(t *testing.T) {
	s, f := newTestSession(t, 2)

	if err := s.InjectFrame(0, PhaseDown, 5, 5); err != nil {
		t.Fatalf("down: %v", err)
	}
	f.failAll = true
	if err := s.Abort(0); err == nil {
		t.Fatalf("expected abort to surface backend error")
	}
	if got := s.ActiveContacts(); got != 0 {
		t.Fatalf("contact still tracked after abort: %d", got)
	}

	// Aborting an unknown contact is a no-op.
	if err := s.Abort(1); err != nil {
		t.Fatalf("abort unknown: %v", err)
	}
}

// TestSession_CloseCancelsLeftovers verifies Close aborts contacts
// that were never lifted.
func TestSession_CloseCancelsLeftovers(t *testing.T) {
	f := &fakeBackend{}
	s := &Session{backend: f, active: make(map[int]*contactState)}
	if err := s.Initialize(2); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := s.InjectFrame(0, PhaseDown, 5, 5); err != nil {
		t.Fatalf("down: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	last := f.frames[len(f.frames)-1]
	if last[0].Phase != phaseCancel {
		t.Fatalf("expected cancel frame on close, got %+v", last)
	}
	if s.ActiveContacts() != 0 {
		t.Fatalf("contacts leaked through close")
	}
}
