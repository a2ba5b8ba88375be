// Package gesture turns triggered touch points into timed injection
// frame sequences.
package gesture

import (
	"errors"
	"sync"
)

// ErrNoFreeContact indicates every contact slot is in flight.
var ErrNoFreeContact = errors.New("no free contact slot")

// contactPool hands out contact ids for in-flight gestures. A slot is
// never reissued until the gesture that holds it releases it, so two
// concurrent gestures can never share an id.
type contactPool struct {
	mu   sync.Mutex
	used []bool
}

// newContactPool returns a pool with the given number of slots.
func newContactPool(size int) *contactPool {
	return &contactPool{used: make([]bool, size)}
}

// acquire claims the lowest free slot.
func (p *contactPool) acquire() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.used {
		if !p.used[i] {
			p.used[i] = true
			return i, nil
		}
	}
	return 0, ErrNoFreeContact
}

// release returns a slot to the pool.
func (p *contactPool) release(id int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id >= 0 && id < len(p.used) {
		p.used[id] = false
	}
}

// inFlight reports how many slots are currently claimed.
func (p *contactPool) inFlight() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, u := range p.used {
		if u {
			n++
		}
	}
	return n
}
