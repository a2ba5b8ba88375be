//go:build windows

// Package hook observes global keyboard transitions and triggers
// bound gestures.
package hook

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	whKeyboardLL = 13

	wmKeydown    = 0x0100
	wmKeyup      = 0x0101
	wmSyskeydown = 0x0104
	wmSyskeyup   = 0x0105
	wmQuit       = 0x0012

	llkhfInjected = 0x00000010
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procSetWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessage          = user32.NewProc("GetMessageW")
	procPostThreadMessage   = user32.NewProc("PostThreadMessageW")

	kernel32               = windows.NewLazySystemDLL("kernel32.dll")
	procGetModuleHandle    = kernel32.NewProc("GetModuleHandleW")
	procGetCurrentThreadID = kernel32.NewProc("GetCurrentThreadId")
)

type kbdllHookStruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type hookMsg struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

// Low-level hooks are delivered through a plain C callback, so the
// active source has to live in a package variable.
var (
	activeMu     sync.Mutex
	activeSource *winSource
)

// winSource feeds key transitions from a WH_KEYBOARD_LL hook. The
// hook and its message loop run on one locked OS thread, as the API
// requires.
type winSource struct {
	mu       sync.Mutex
	events   chan KeyEvent
	threadID uint32
	running  bool
	done     chan struct{}
}

// NewSource returns the global keyboard hook source for Windows.
func NewSource() Source {
	return &winSource{events: make(chan KeyEvent, 256)}
}

// Start installs the hook and begins delivering events.
func (s *winSource) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return errors.New("keyboard hook already running")
	}

	activeMu.Lock()
	if activeSource != nil {
		activeMu.Unlock()
		return errors.New("another keyboard hook is active")
	}
	activeSource = s
	activeMu.Unlock()

	startErr := make(chan error, 1)
	s.done = make(chan struct{})
	go s.loop(startErr)

	if err := <-startErr; err != nil {
		activeMu.Lock()
		activeSource = nil
		activeMu.Unlock()
		return err
	}
	s.running = true
	return nil
}

// loop installs the hook and pumps messages until WM_QUIT.
func (s *winSource) loop(startErr chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(s.done)

	tid, _, _ := procGetCurrentThreadID.Call()
	s.threadID = uint32(tid)

	hmod, _, _ := procGetModuleHandle.Call(0)
	hook, _, err := procSetWindowsHookEx.Call(
		whKeyboardLL,
		syscall.NewCallback(hookProc),
		hmod,
		0,
	)
	if hook == 0 {
		startErr <- fmt.Errorf("SetWindowsHookEx: %w", err)
		return
	}
	startErr <- nil

	var msg hookMsg
	for {
		ret, _, _ := procGetMessage.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		if ret == 0 || int32(ret) == -1 {
			break
		}
	}
	procUnhookWindowsHookEx.Call(hook)
}

// Stop removes the hook and closes the event channel.
func (s *winSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false

	procPostThreadMessage.Call(uintptr(s.threadID), wmQuit, 0, 0)
	<-s.done

	activeMu.Lock()
	activeSource = nil
	activeMu.Unlock()

	close(s.events)
	return nil
}

// Events returns the key transition channel.
func (s *winSource) Events() <-chan KeyEvent {
	return s.events
}

// deliver hands one transition to the consumer, dropping it when the
// buffer is full rather than stalling the hook thread.
func (s *winSource) deliver(ev KeyEvent) {
	select {
	case s.events <- ev:
	default:
	}
}

// hookProc is the WH_KEYBOARD_LL callback. It must return fast; the
// OS ejects hooks that stall the input chain.
func hookProc(nCode, wParam, lParam uintptr) uintptr {
	if int32(nCode) >= 0 {
		info := (*kbdllHookStruct)(unsafe.Pointer(lParam))
		// Skip injected events so simulated input can never feed
		// back into the bridge.
		if info.Flags&llkhfInjected == 0 {
			var down bool
			relevant := true
			switch wParam {
			case wmKeydown, wmSyskeydown:
				down = true
			case wmKeyup, wmSyskeyup:
				down = false
			default:
				relevant = false
			}
			if relevant {
				activeMu.Lock()
				src := activeSource
				activeMu.Unlock()
				if src != nil {
					src.deliver(KeyEvent{Code: uint16(info.VkCode), Down: down, Time: time.Now()})
				}
			}
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
	return ret
}
