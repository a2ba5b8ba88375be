// Package overlay renders touch points on screen and maps pointer
// interactions onto the store.
package overlay

import (
	"log"
	"math"
	"sync"

	"wintoucher/internal/point"
)

// hitRadius is how close (in pixels) a pointer interaction must land
// to count as hitting a marker.
const hitRadius = 20

// Renderer repaints the overlay surface. Every store mutation made by
// the controller is followed by an Invalidate so the rendering can
// never go stale.
type Renderer interface {
	Invalidate()
}

// InspectFunc opens the detail view for a point.
type InspectFunc func(p point.TouchPoint)

// Controller translates raw pointer events into store operations. It
// is toolkit-neutral: any event loop that can report press, drag,
// release, double and secondary interactions can drive it.
type Controller struct {
	mu       sync.Mutex
	store    *point.Store
	renderer Renderer
	inspect  InspectFunc
	errFn    func(error)

	template point.Gesture
	dragID   int
	dragging bool
	selected int
	hasSel   bool
}

// NewController returns a controller creating press points by
// default.
func NewController(store *point.Store, renderer Renderer) *Controller {
	return &Controller{
		store:    store,
		renderer: renderer,
		template: point.Gesture{Kind: point.KindPress},
		errFn:    func(err error) { log.Printf("overlay: %v", err) },
	}
}

// SetInspectFunc registers the detail view callback for double
// interactions.
func (c *Controller) SetInspectFunc(fn InspectFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inspect = fn
}

// SetErrorFunc overrides contract-violation reporting, for tests.
func (c *Controller) SetErrorFunc(fn func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fn != nil {
		c.errFn = fn
	}
}

// SetTemplate sets the gesture given to newly created points.
func (c *Controller) SetTemplate(g point.Gesture) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.template = g
}

// Template returns the gesture given to newly created points.
func (c *Controller) Template() point.Gesture {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.template
}

// Selected returns the point targeted by the last press or double
// interaction. Key capture binds to this point.
func (c *Controller) Selected() (point.TouchPoint, bool) {
	c.mu.Lock()
	id, ok := c.selected, c.hasSel
	c.mu.Unlock()
	if !ok {
		return point.TouchPoint{}, false
	}
	return c.store.Get(id)
}

// HandlePress creates a point on empty space or begins dragging an
// existing marker.
func (c *Controller) HandlePress(x, y int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.hit(x, y); ok {
		c.dragging = true
		c.dragID = p.ID
		c.selected = p.ID
		c.hasSel = true
		c.renderer.Invalidate()
		return
	}

	p, err := c.store.Create(x, y)
	if err != nil {
		c.errFn(err)
		return
	}
	tpl := c.template
	if err := c.store.SetGesture(p.ID, &tpl); err != nil {
		c.errFn(err)
	}
	c.selected = p.ID
	c.hasSel = true
	c.renderer.Invalidate()
}

// HandleDrag tracks an in-progress marker drag.
func (c *Controller) HandleDrag(x, y int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dragging {
		return
	}
	if err := c.store.Move(c.dragID, x, y); err != nil {
		c.errFn(err)
		c.dragging = false
		return
	}
	c.renderer.Invalidate()
}

// HandleRelease ends an in-progress drag.
func (c *Controller) HandleRelease(x, y int) {
	_ = x
	_ = y
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dragging = false
}

// HandleSecondary unbinds a bound marker, or deletes an unbound one.
// Two secondary interactions in a row therefore remove a bound point.
func (c *Controller) HandleSecondary(x, y int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.hit(x, y)
	if !ok {
		return
	}
	if p.Key != 0 {
		if err := c.store.UnbindKey(p.ID); err != nil {
			c.errFn(err)
			return
		}
	} else {
		if err := c.store.Delete(p.ID); err != nil {
			c.errFn(err)
			return
		}
		if c.hasSel && c.selected == p.ID {
			c.hasSel = false
		}
		if c.dragging && c.dragID == p.ID {
			c.dragging = false
		}
	}
	c.renderer.Invalidate()
}

// HandleDouble selects a marker and opens its detail view.
func (c *Controller) HandleDouble(x, y int) {
	c.mu.Lock()
	p, ok := c.hit(x, y)
	if !ok {
		c.mu.Unlock()
		return
	}
	c.selected = p.ID
	c.hasSel = true
	inspect := c.inspect
	c.renderer.Invalidate()
	c.mu.Unlock()

	if inspect != nil {
		inspect(p)
	}
}

// hit returns the closest marker within hitRadius of (x, y). Callers
// must hold c.mu.
func (c *Controller) hit(x, y int) (point.TouchPoint, bool) {
	var best point.TouchPoint
	bestDist := math.Inf(1)
	for _, p := range c.store.Snapshot() {
		d := math.Hypot(float64(p.X-x), float64(p.Y-y))
		if d < bestDist {
			best = p
			bestDist = d
		}
	}
	if bestDist > hitRadius {
		return point.TouchPoint{}, false
	}
	return best, true
}
