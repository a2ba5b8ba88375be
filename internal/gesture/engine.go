// Package gesture turns triggered touch points into timed injection
// frame sequences.
package gesture

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"wintoucher/internal/inject"
	"wintoucher/internal/point"
)

// ErrNoGesture indicates a trigger on a point with no descriptor set.
var ErrNoGesture = errors.New("touch point has no gesture")

// ErrClosed indicates the engine is shutting down.
var ErrClosed = errors.New("gesture engine closed")

const (
	defaultPressHold  = 50 * time.Millisecond
	defaultFlickSteps = 10
	defaultStepPause  = 5 * time.Millisecond
)

// Tuning controls gesture pacing. Flick step count and timing are
// deliberately configurable: too few steps and the OS reads the
// gesture as a tap, too many and the gesture lags.
type Tuning struct {
	PressHold  time.Duration
	FlickSteps int
	StepPause  time.Duration
}

// withDefaults fills unset tuning fields.
func (t Tuning) withDefaults() Tuning {
	if t.PressHold <= 0 {
		t.PressHold = defaultPressHold
	}
	if t.FlickSteps <= 0 {
		t.FlickSteps = defaultFlickSteps
	}
	if t.StepPause <= 0 {
		t.StepPause = defaultStepPause
	}
	return t
}

// Engine resolves triggered touch points into down/move/up frames and
// paces them on a dedicated goroutine per gesture so the interaction
// surface never blocks.
type Engine struct {
	surface inject.Surface
	store   *point.Store
	tuning  Tuning
	pool    *contactPool

	sleep func(time.Duration)
	errFn func(error)

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// New returns an engine emitting frames to the given surface. The
// slot count bounds how many gestures can be in flight at once and
// must match what the surface was initialized with.
func New(surface inject.Surface, store *point.Store, slots int, tuning Tuning) *Engine {
	if slots <= 0 {
		slots = 1
	}
	return &Engine{
		surface: surface,
		store:   store,
		tuning:  tuning.withDefaults(),
		pool:    newContactPool(slots),
		sleep:   time.Sleep,
		errFn:   func(err error) { log.Printf("gesture: %v", err) },
	}
}

// SetSleepFunc overrides the pacing clock, for tests.
func (e *Engine) SetSleepFunc(fn func(time.Duration)) {
	if fn != nil {
		e.sleep = fn
	}
}

// SetErrorFunc overrides how asynchronous injection failures are
// reported, for tests.
func (e *Engine) SetErrorFunc(fn func(error)) {
	if fn != nil {
		e.errFn = fn
	}
}

// Trigger starts the gesture bound to a touch point. The point's
// coordinates and descriptor are read once here; later store
// mutations do not affect a gesture already in flight.
func (e *Engine) Trigger(id int) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}

	p, ok := e.store.Get(id)
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("trigger point %d: %w", id, point.ErrNotFound)
	}
	if p.Gesture == nil {
		e.mu.Unlock()
		return fmt.Errorf("trigger point %d: %w", id, ErrNoGesture)
	}

	contact, err := e.pool.acquire()
	if err != nil {
		e.mu.Unlock()
		return fmt.Errorf("trigger point %d: %w", id, err)
	}

	e.wg.Add(1)
	e.mu.Unlock()

	go e.run(contact, p)
	return nil
}

// InFlight reports how many gestures are currently running.
func (e *Engine) InFlight() int {
	return e.pool.inFlight()
}

// Close rejects new triggers and blocks until every in-flight gesture
// has delivered its terminal frame. The injection surface must stay
// open until Close returns.
func (e *Engine) Close() error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.wg.Wait()
	return nil
}

// run plays one gesture to completion and releases its contact slot.
func (e *Engine) run(contact int, p point.TouchPoint) {
	defer e.wg.Done()
	defer e.pool.release(contact)

	if err := e.surface.InjectFrame(contact, inject.PhaseDown, p.X, p.Y); err != nil {
		e.errFn(fmt.Errorf("point %d down: %w", p.ID, err))
		return
	}

	var endX, endY int
	var err error
	switch p.Gesture.Kind {
	case point.KindFlick:
		endX, endY, err = e.runFlick(contact, p)
	default:
		endX, endY, err = e.runPress(contact, p)
	}
	if err != nil {
		e.errFn(fmt.Errorf("point %d %s: %w", p.ID, p.Gesture.Kind, err))
		e.abort(contact, p.ID)
		return
	}

	if err := e.surface.InjectFrame(contact, inject.PhaseUp, endX, endY); err != nil {
		e.errFn(fmt.Errorf("point %d up: %w", p.ID, err))
		e.abort(contact, p.ID)
	}
}

// runPress holds the contact in place and reports where the up frame
// belongs.
func (e *Engine) runPress(contact int, p point.TouchPoint) (int, int, error) {
	_ = contact
	hold := e.tuning.PressHold
	if p.Gesture.HoldMs > 0 {
		hold = time.Duration(p.Gesture.HoldMs) * time.Millisecond
	}
	e.sleep(hold)
	return p.X, p.Y, nil
}

// runFlick traces a straight line from the point along its direction
// vector, evenly spread over the gesture duration.
func (e *Engine) runFlick(contact int, p point.TouchPoint) (int, int, error) {
	g := p.Gesture
	dirX, dirY := g.Direction()
	steps := e.tuning.FlickSteps
	pause := e.tuning.StepPause
	if g.DurationMs > 0 {
		pause = time.Duration(g.DurationMs) * time.Millisecond / time.Duration(steps)
	}

	x, y := p.X, p.Y
	for i := 1; i <= steps; i++ {
		e.sleep(pause)
		frac := float64(i) / float64(steps)
		x = p.X + int(math.Round(dirX*float64(g.Distance)*frac))
		y = p.Y + int(math.Round(dirY*float64(g.Distance)*frac))
		if err := e.surface.InjectFrame(contact, inject.PhaseMove, x, y); err != nil {
			return x, y, err
		}
	}
	return x, y, nil
}

// abort forcibly lifts a contact after a failed frame so no virtual
// finger is left stuck on screen.
func (e *Engine) abort(contact, pointID int) {
	if err := e.surface.Abort(contact); err != nil && !errors.Is(err, inject.ErrNotReady) {
		e.errFn(fmt.Errorf("point %d abort: %w", pointID, err))
	}
}
