// Package point manages touch point definitions and their key bindings.
package point

import "math"

// GestureKind identifies the kind of gesture bound to a touch point.
type GestureKind string

const (
	// KindPress holds a contact down at the point and releases it.
	KindPress GestureKind = "press"
	// KindFlick drags a contact along a straight line from the point.
	KindFlick GestureKind = "flick"
)

// Gesture describes how a triggered touch point is played back.
// Press uses HoldMs only. Flick uses DX/DY, Distance and DurationMs.
type Gesture struct {
	Kind       GestureKind `json:"kind"`
	HoldMs     int         `json:"hold_ms,omitempty"`
	DX         float64     `json:"dx,omitempty"`
	DY         float64     `json:"dy,omitempty"`
	Distance   int         `json:"distance,omitempty"`
	DurationMs int         `json:"duration_ms,omitempty"`
}

// Direction returns the flick direction as a unit vector.
// A zero vector defaults to pointing right.
func (g Gesture) Direction() (float64, float64) {
	length := math.Hypot(g.DX, g.DY)
	if length == 0 {
		return 1, 0
	}
	return g.DX / length, g.DY / length
}

// TouchPoint is a user-defined on-screen touch location. Key is a
// virtual-key code; zero means unbound.
type TouchPoint struct {
	ID      int      `json:"id"`
	X       int      `json:"x"`
	Y       int      `json:"y"`
	Key     uint16   `json:"key,omitempty"`
	Gesture *Gesture `json:"gesture,omitempty"`
}

// clone returns a deep copy so callers never share gesture storage
// with the store.
func (p TouchPoint) clone() TouchPoint {
	if p.Gesture != nil {
		g := *p.Gesture
		p.Gesture = &g
	}
	return p
}
