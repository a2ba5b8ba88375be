// Package hook observes global keyboard transitions and triggers
// bound gestures.
package hook

import (
	"log"
	"sync"
	"time"
)

// KeyEvent is one physical key transition from the OS hook.
type KeyEvent struct {
	Code uint16
	Down bool
	Time time.Time
}

// Source delivers global key transitions. The Windows implementation
// is a low-level keyboard hook; tests feed a channel directly.
type Source interface {
	Start() error
	Stop() error
	Events() <-chan KeyEvent
}

// ResolveFunc maps a key code to the touch point bound to it.
type ResolveFunc func(code uint16) (pointID int, ok bool)

// TriggerFunc starts the gesture for a touch point.
type TriggerFunc func(pointID int) error

// CaptureFunc consumes a key release while binding a point to a key.
// Returning true ends the capture.
type CaptureFunc func(code uint16) bool

// Bridge routes key transitions to gesture triggers. It fires exactly
// once per physical key press: OS key-repeat delivers extra down
// events without an intervening up, and those are swallowed.
type Bridge struct {
	mu        sync.Mutex
	enabled   bool
	held      map[uint16]bool
	toggleKey uint16
	capture   CaptureFunc

	resolve  ResolveFunc
	trigger  TriggerFunc
	onToggle func(enabled bool)
	errFn    func(error)
}

// NewBridge returns a disabled bridge.
func NewBridge(resolve ResolveFunc, trigger TriggerFunc) *Bridge {
	return &Bridge{
		held:    make(map[uint16]bool),
		resolve: resolve,
		trigger: trigger,
		errFn:   func(err error) { log.Printf("hook: %v", err) },
	}
}

// SetToggleKey sets a key that flips listening on and off globally.
// Zero disables the shortcut.
func (b *Bridge) SetToggleKey(code uint16) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.toggleKey = code
}

// SetToggleFunc registers a callback fired after the toggle key flips
// the enabled state.
func (b *Bridge) SetToggleFunc(fn func(enabled bool)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onToggle = fn
}

// SetErrorFunc overrides how trigger failures are reported, for
// tests.
func (b *Bridge) SetErrorFunc(fn func(error)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if fn != nil {
		b.errFn = fn
	}
}

// SetEnabled turns key-triggered injection on or off.
func (b *Bridge) SetEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = enabled
}

// Enabled reports whether key-triggered injection is on.
func (b *Bridge) Enabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enabled
}

// SetCaptureFunc arms key-binding capture: the next key release is
// offered to fn instead of being looked up. A nil fn disarms it.
func (b *Bridge) SetCaptureFunc(fn CaptureFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.capture = fn
}

// Pump processes events until the channel closes. Run it on its own
// goroutine.
func (b *Bridge) Pump(events <-chan KeyEvent) {
	for ev := range events {
		b.HandleKey(ev)
	}
}

// HandleKey processes one key transition.
func (b *Bridge) HandleKey(ev KeyEvent) {
	if ev.Down {
		b.handleDown(ev.Code)
		return
	}
	b.handleUp(ev.Code)
}

// handleDown fires a bound gesture on the first down transition of a
// physical press.
func (b *Bridge) handleDown(code uint16) {
	b.mu.Lock()
	if b.held[code] {
		// OS key repeat; the physical key never came up.
		b.mu.Unlock()
		return
	}
	b.held[code] = true

	if code == b.toggleKey && b.toggleKey != 0 {
		b.enabled = !b.enabled
		onToggle, enabled := b.onToggle, b.enabled
		b.mu.Unlock()
		if onToggle != nil {
			onToggle(enabled)
		}
		return
	}

	if !b.enabled || b.capture != nil {
		b.mu.Unlock()
		return
	}
	resolve, trigger, errFn := b.resolve, b.trigger, b.errFn
	b.mu.Unlock()

	if id, ok := resolve(code); ok {
		if err := trigger(id); err != nil {
			errFn(err)
		}
	}
}

// handleUp clears the held state and feeds armed key capture. The
// capture is disarmed before it runs so the callback may freely
// re-arm it; an unconsumed key re-arms it automatically.
func (b *Bridge) handleUp(code uint16) {
	b.mu.Lock()
	delete(b.held, code)
	capture := b.capture
	toggle := b.toggleKey
	if capture != nil && code != toggle {
		b.capture = nil
	}
	b.mu.Unlock()

	if capture == nil || code == toggle {
		return
	}
	if !capture(code) {
		b.mu.Lock()
		if b.capture == nil {
			b.capture = capture
		}
		b.mu.Unlock()
	}
}
