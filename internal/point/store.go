// Package point manages touch point definitions and their key bindings.
package point

import (
	"errors"
	"sync"
)

// MaxPoints caps the number of live points. Windows touch injection
// supports at most 256 simultaneous contacts, so more points than
// that can never be triggerable anyway.
const MaxPoints = 256

// ErrNotFound indicates an operation referenced an unknown point id.
var ErrNotFound = errors.New("touch point not found")

// ErrLimit indicates the point limit was reached.
var ErrLimit = errors.New("touch point limit reached")

// Store holds the live set of touch points. It is safe for use from
// the UI thread and the key-listener thread concurrently; every
// operation is atomic.
type Store struct {
	mu     sync.Mutex
	points []TouchPoint
	nextID int
	limit  int
}

// NewStore returns an empty store. A non-positive limit falls back to
// MaxPoints.
func NewStore(limit int) *Store {
	if limit <= 0 || limit > MaxPoints {
		limit = MaxPoints
	}
	return &Store{limit: limit}
}

// Create allocates a fresh point at (x, y) with no key binding and no
// gesture.
func (s *Store) Create(x, y int) (TouchPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.points) >= s.limit {
		return TouchPoint{}, ErrLimit
	}
	p := TouchPoint{ID: s.nextID, X: x, Y: y}
	s.nextID++
	s.points = append(s.points, p)
	return p, nil
}

// Move updates a point's coordinates.
func (s *Store) Move(id, x, y int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.find(id)
	if p == nil {
		return ErrNotFound
	}
	p.X = x
	p.Y = y
	return nil
}

// BindKey binds a key to a point. A key held by another point is
// released first, so no two live points ever share a binding.
func (s *Store) BindKey(id int, key uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.find(id)
	if p == nil {
		return ErrNotFound
	}
	if key != 0 {
		for i := range s.points {
			if s.points[i].Key == key && s.points[i].ID != id {
				s.points[i].Key = 0
			}
		}
	}
	p.Key = key
	return nil
}

// UnbindKey clears a point's key binding. Clearing an already unbound
// point is a no-op.
func (s *Store) UnbindKey(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.find(id)
	if p == nil {
		return ErrNotFound
	}
	p.Key = 0
	return nil
}

// Delete removes a point.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.points {
		if s.points[i].ID == id {
			s.points = append(s.points[:i], s.points[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// SetGesture replaces a point's gesture descriptor. A nil descriptor
// clears it, leaving the point visible but not triggerable.
func (s *Store) SetGesture(id int, g *Gesture) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.find(id)
	if p == nil {
		return ErrNotFound
	}
	if g == nil {
		p.Gesture = nil
		return nil
	}
	copied := *g
	p.Gesture = &copied
	return nil
}

// Get returns a copy of the point with the given id.
func (s *Store) Get(id int) (TouchPoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.find(id)
	if p == nil {
		return TouchPoint{}, false
	}
	return p.clone(), true
}

// ByKey returns a copy of the point bound to the given key.
func (s *Store) ByKey(key uint16) (TouchPoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key == 0 {
		return TouchPoint{}, false
	}
	for i := range s.points {
		if s.points[i].Key == key {
			return s.points[i].clone(), true
		}
	}
	return TouchPoint{}, false
}

// Snapshot returns copies of all points in creation order.
func (s *Store) Snapshot() []TouchPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TouchPoint, 0, len(s.points))
	for i := range s.points {
		out = append(out, s.points[i].clone())
	}
	return out
}

// Len returns the number of live points.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.points)
}

// Replace swaps the full point set, typically after loading from
// disk. The key-uniqueness invariant is re-applied defensively: a key
// seen on an earlier point is cleared from later ones.
func (s *Store) Replace(points []TouchPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[uint16]bool, len(points))
	next := 0
	copied := make([]TouchPoint, 0, len(points))
	for _, p := range points {
		if p.Key != 0 {
			if seen[p.Key] {
				p.Key = 0
			} else {
				seen[p.Key] = true
			}
		}
		if p.ID >= next {
			next = p.ID + 1
		}
		copied = append(copied, p.clone())
	}
	s.points = copied
	s.nextID = next
}

// find returns the stored point with the given id, or nil. Callers
// must hold s.mu.
func (s *Store) find(id int) *TouchPoint {
	for i := range s.points {
		if s.points[i].ID == id {
			return &s.points[i]
		}
	}
	return nil
}
