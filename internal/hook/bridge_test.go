package hook

import (
	"errors"
	"testing"
)

// testBridge returns a bridge resolving key 0x41 to point 7 and
// recording triggers.
func testBridge() (*Bridge, *[]int) {
	triggered := &[]int{}
	resolve := func(code uint16) (int, bool) {
		if code == 0x41 {
			return 7, true
		}
		return 0, false
	}
	b := NewBridge(resolve, func(id int) error {
		*triggered = append(*triggered, id)
		return nil
	})
	return b, triggered
}

// TestBridge_DisabledIgnoresKeys verifies nothing fires while the
// bridge is disabled.
func TestBridge_DisabledIgnoresKeys(t *testing.T) {
	b, triggered := testBridge()
	b.HandleKey(KeyEvent{Code: 0x41, Down: true})
	b.HandleKey(KeyEvent{Code: 0x41, Down: false})
	if len(*triggered) != 0 {
		t.Fatalf("disabled bridge triggered: %v", *triggered)
	}
}

// TestBridge_TriggersOncePerPhysicalPress verifies OS key-repeat
// down events do not re-trigger without an intervening key-up.
func TestBridge_TriggersOncePerPhysicalPress(t *testing.T) {
	b, triggered := testBridge()
	b.SetEnabled(true)

	b.HandleKey(KeyEvent{Code: 0x41, Down: true})
	for i := 0; i < 10; i++ {
		b.HandleKey(KeyEvent{Code: 0x41, Down: true}) // repeats
	}
	if len(*triggered) != 1 {
		t.Fatalf("expected 1 trigger, got %d", len(*triggered))
	}

	b.HandleKey(KeyEvent{Code: 0x41, Down: false})
	b.HandleKey(KeyEvent{Code: 0x41, Down: true})
	if len(*triggered) != 2 {
		t.Fatalf("expected re-trigger after release, got %d", len(*triggered))
	}
	if (*triggered)[0] != 7 || (*triggered)[1] != 7 {
		t.Fatalf("wrong point ids: %v", *triggered)
	}
}

// TestBridge_UnboundKeyIgnored verifies unresolved keys do nothing.
func TestBridge_UnboundKeyIgnored(t *testing.T) {
	b, triggered := testBridge()
	b.SetEnabled(true)
	b.HandleKey(KeyEvent{Code: 0x42, Down: true})
	if len(*triggered) != 0 {
		t.Fatalf("unbound key triggered: %v", *triggered)
	}
}

// TestBridge_ToggleKeyFlipsEnabled verifies the listening shortcut.
func TestBridge_ToggleKeyFlipsEnabled(t *testing.T) {
	b, triggered := testBridge()
	b.SetToggleKey(0x1B)

	var states []bool
	b.SetToggleFunc(func(enabled bool) { states = append(states, enabled) })

	b.HandleKey(KeyEvent{Code: 0x1B, Down: true})
	b.HandleKey(KeyEvent{Code: 0x1B, Down: false})
	if !b.Enabled() {
		t.Fatalf("expected bridge enabled after toggle")
	}

	b.HandleKey(KeyEvent{Code: 0x41, Down: true})
	b.HandleKey(KeyEvent{Code: 0x41, Down: false})
	if len(*triggered) != 1 {
		t.Fatalf("expected trigger while enabled, got %v", *triggered)
	}

	b.HandleKey(KeyEvent{Code: 0x1B, Down: true})
	b.HandleKey(KeyEvent{Code: 0x1B, Down: false})
	if b.Enabled() {
		t.Fatalf("expected bridge disabled after second toggle")
	}
	if len(states) != 2 || states[0] != true || states[1] != false {
		t.Fatalf("unexpected toggle callbacks: %v", states)
	}
}

// TestBridge_CaptureBindsOnRelease verifies armed capture consumes
// the next key release instead of triggering.
func TestBridge_CaptureBindsOnRelease(t *testing.T) {
	b, triggered := testBridge()
	b.SetEnabled(true)

	var captured []uint16
	b.SetCaptureFunc(func(code uint16) bool {
		captured = append(captured, code)
		return true
	})

	b.HandleKey(KeyEvent{Code: 0x41, Down: true})
	b.HandleKey(KeyEvent{Code: 0x41, Down: false})
	if len(*triggered) != 0 {
		t.Fatalf("capture mode must not trigger gestures: %v", *triggered)
	}
	if len(captured) != 1 || captured[0] != 0x41 {
		t.Fatalf("expected captured key 0x41, got %v", captured)
	}

	// Capture disarms after consuming; the next press triggers again.
	b.HandleKey(KeyEvent{Code: 0x41, Down: true})
	b.HandleKey(KeyEvent{Code: 0x41, Down: false})
	if len(*triggered) != 1 {
		t.Fatalf("expected normal trigger after capture, got %v", *triggered)
	}
	if len(captured) != 1 {
		t.Fatalf("capture ran twice: %v", captured)
	}
}

// TestBridge_CaptureRearmsWhenUnconsumed verifies an unconsumed key
// keeps the capture armed.
func TestBridge_CaptureRearmsWhenUnconsumed(t *testing.T) {
	b, _ := testBridge()

	var captured []uint16
	b.SetCaptureFunc(func(code uint16) bool {
		captured = append(captured, code)
		return code == 0x42
	})

	b.HandleKey(KeyEvent{Code: 0x41, Down: false})
	b.HandleKey(KeyEvent{Code: 0x42, Down: false})
	b.HandleKey(KeyEvent{Code: 0x43, Down: false})
	if len(captured) != 2 || captured[0] != 0x41 || captured[1] != 0x42 {
		t.Fatalf("unexpected capture sequence: %v", captured)
	}
}

// TestBridge_TriggerErrorReported verifies trigger failures reach the
// error hook without disturbing later presses.
func TestBridge_TriggerErrorReported(t *testing.T) {
	errInject := errors.New("injection rejected")
	calls := 0
	b := NewBridge(
		func(code uint16) (int, bool) { return 3, true },
		func(id int) error {
			calls++
			if calls == 1 {
				return errInject
			}
			return nil
		},
	)
	var reported []error
	b.SetErrorFunc(func(err error) { reported = append(reported, err) })
	b.SetEnabled(true)

	b.HandleKey(KeyEvent{Code: 0x20, Down: true})
	b.HandleKey(KeyEvent{Code: 0x20, Down: false})
	b.HandleKey(KeyEvent{Code: 0x20, Down: true})

	if len(reported) != 1 {
		t.Fatalf("expected 1 reported error, got %v", reported)
	}
	if calls != 2 {
		t.Fatalf("expected second press to trigger again, got %d calls", calls)
	}
}
