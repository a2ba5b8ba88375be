//go:build windows

// Package inject wraps the Windows touch injection session.
package inject

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Pointer input constants from winuser.h.
const (
	touchFeedbackDefault = 0x00000001

	ptTouch = 0x00000002

	pointerFlagInRange   = 0x00000002
	pointerFlagInContact = 0x00000004
	pointerFlagCanceled  = 0x00008000
	pointerFlagDown      = 0x00010000
	pointerFlagUpdate    = 0x00020000
	pointerFlagUp        = 0x00040000

	touchMaskContactArea = 0x00000001
	touchMaskOrientation = 0x00000002
	touchMaskPressure    = 0x00000004

	// Simulated finger geometry, matching what a real digitizer
	// reports for an average fingertip.
	fingerRadius = 20
	orientation  = 90
	pressure     = 32000
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procInitializeTouchInjection = user32.NewProc("InitializeTouchInjection")
	procInjectTouchInput         = user32.NewProc("InjectTouchInput")
)

type pointStruct struct {
	X int32
	Y int32
}

type rectStruct struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

type pointerInfo struct {
	PointerType           uint32
	PointerID             uint32
	FrameID               uint32
	PointerFlags          uint32
	SourceDevice          windows.Handle
	HwndTarget            windows.Handle
	PtPixelLocation       pointStruct
	PtHimetricLocation    pointStruct
	PtPixelLocationRaw    pointStruct
	PtHimetricLocationRaw pointStruct
	DwTime                uint32
	HistoryCount          uint32
	InputData             int32
	DwKeyStates           uint32
	PerformanceCount      uint64
	ButtonChangeType      int32
}

type pointerTouchInfo struct {
	PointerInfo  pointerInfo
	TouchFlags   uint32
	TouchMask    uint32
	RcContact    rectStruct
	RcContactRaw rectStruct
	Orientation  uint32
	Pressure     uint32
}

// winBackend drives InitializeTouchInjection/InjectTouchInput.
type winBackend struct {
	buf []pointerTouchInfo
}

// newBackend returns the Windows touch injection backend.
func newBackend() backend {
	return &winBackend{}
}

// initialize starts the process-wide injection session.
func (b *winBackend) initialize(maxContacts int) error {
	ret, _, err := procInitializeTouchInjection.Call(uintptr(maxContacts), touchFeedbackDefault)
	if ret == 0 {
		return fmt.Errorf("InitializeTouchInjection: %w", err)
	}
	b.buf = make([]pointerTouchInfo, 0, maxContacts)
	return nil
}

// inject submits one frame containing every active contact.
func (b *winBackend) inject(contacts []Contact) error {
	if len(contacts) == 0 {
		return nil
	}
	b.buf = b.buf[:0]
	for _, c := range contacts {
		b.buf = append(b.buf, makeTouchInfo(c))
	}
	ret, _, err := procInjectTouchInput.Call(
		uintptr(len(b.buf)),
		uintptr(unsafe.Pointer(&b.buf[0])),
	)
	if ret == 0 {
		return fmt.Errorf("InjectTouchInput (%d contacts): %w", len(b.buf), err)
	}
	return nil
}

// makeTouchInfo converts a contact into the OS pointer structure.
func makeTouchInfo(c Contact) pointerTouchInfo {
	info := pointerTouchInfo{
		PointerInfo: pointerInfo{
			PointerType:  ptTouch,
			PointerID:    uint32(c.ID),
			PointerFlags: flagsForPhase(c.Phase),
			PtPixelLocation: pointStruct{
				X: int32(c.X),
				Y: int32(c.Y),
			},
		},
		TouchMask: touchMaskContactArea | touchMaskOrientation | touchMaskPressure,
		RcContact: rectStruct{
			Left:   int32(c.X - fingerRadius),
			Top:    int32(c.Y - fingerRadius),
			Right:  int32(c.X + fingerRadius),
			Bottom: int32(c.Y + fingerRadius),
		},
		Orientation: orientation,
		Pressure:    pressure,
	}
	return info
}

// flagsForPhase maps a contact phase to OS pointer flags.
func flagsForPhase(p Phase) uint32 {
	switch p {
	case PhaseDown:
		return pointerFlagDown | pointerFlagInRange | pointerFlagInContact
	case PhaseMove:
		return pointerFlagUpdate | pointerFlagInRange | pointerFlagInContact
	case phaseCancel:
		return pointerFlagUp | pointerFlagCanceled
	default:
		return pointerFlagUp
	}
}
