//go:build windows

package overlay

import (
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"github.com/lxn/win"

	"wintoucher/internal/monitor"
	"wintoucher/internal/point"
)

const (
	markerRadius = 20
	arrowLength  = 34

	wmAppShow = win.WM_APP + 1
	wmAppHide = win.WM_APP + 2
)

// windowClassName identifies the overlay window class.
var windowClassName = syscall.StringToUTF16Ptr("WinToucherOverlay")

// activeWindow is the window owning the registered wndProc. The Win32
// callback has no closure state, so only one overlay window can exist
// per process.
var (
	activeMu     sync.Mutex
	activeWindow *Window
)

// Window is a layered, topmost, borderless window covering the target
// display. It paints the markers and feeds pointer events into the
// controller. It implements Renderer.
type Window struct {
	controller *Controller
	store      *point.Store
	bounds     monitor.Monitor
	opacity    byte

	mu         sync.Mutex
	hwnd       win.HWND
	visible    bool
	dragging   bool
	onVisible  func(bool)
	done       chan struct{}
	startErr   chan error
}

// NewWindow returns an overlay window over the given display bounds.
func NewWindow(c *Controller, store *point.Store, bounds monitor.Monitor, opacity byte) *Window {
	return &Window{
		controller: c,
		store:      store,
		bounds:     bounds,
		opacity:    opacity,
		done:       make(chan struct{}),
		startErr:   make(chan error, 1),
	}
}

// SetVisibilityFunc registers a callback fired when the overlay is
// shown or hidden.
func (w *Window) SetVisibilityFunc(fn func(visible bool)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onVisible = fn
}

// Start creates the window hidden and runs its message loop on a
// dedicated OS thread.
func (w *Window) Start() error {
	activeMu.Lock()
	if activeWindow != nil {
		activeMu.Unlock()
		return fmt.Errorf("overlay window already running")
	}
	activeWindow = w
	activeMu.Unlock()

	go w.loop()
	if err := <-w.startErr; err != nil {
		activeMu.Lock()
		activeWindow = nil
		activeMu.Unlock()
		return err
	}
	return nil
}

// Stop destroys the window and waits for its thread to exit.
func (w *Window) Stop() {
	w.mu.Lock()
	hwnd := w.hwnd
	w.mu.Unlock()
	if hwnd == 0 {
		return
	}
	win.PostMessage(hwnd, win.WM_CLOSE, 0, 0)
	<-w.done

	activeMu.Lock()
	if activeWindow == w {
		activeWindow = nil
	}
	activeMu.Unlock()
}

// Show makes the overlay visible. Safe to call from any goroutine.
func (w *Window) Show() { w.post(wmAppShow) }

// Hide removes the overlay from screen. Safe to call from any
// goroutine.
func (w *Window) Hide() { w.post(wmAppHide) }

// Visible reports whether the overlay is currently shown.
func (w *Window) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

// Invalidate schedules a repaint. Safe to call from any goroutine.
func (w *Window) Invalidate() {
	w.mu.Lock()
	hwnd := w.hwnd
	w.mu.Unlock()
	if hwnd != 0 {
		win.InvalidateRect(hwnd, nil, true)
	}
}

func (w *Window) post(msg uint32) {
	w.mu.Lock()
	hwnd := w.hwnd
	w.mu.Unlock()
	if hwnd != 0 {
		win.PostMessage(hwnd, msg, 0, 0)
	}
}

// loop creates the window and pumps messages until WM_CLOSE. Window
// handles have thread affinity, so the whole lifetime stays on one
// locked thread.
func (w *Window) loop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(w.done)

	if err := registerWindowClass(); err != nil {
		w.startErr <- err
		return
	}

	hwnd := win.CreateWindowEx(
		win.WS_EX_LAYERED|win.WS_EX_TOPMOST|win.WS_EX_TOOLWINDOW,
		windowClassName,
		syscall.StringToUTF16Ptr("WinToucher"),
		win.WS_POPUP,
		int32(w.bounds.X), int32(w.bounds.Y),
		int32(w.bounds.W), int32(w.bounds.H),
		0, 0, win.GetModuleHandle(nil), nil,
	)
	if hwnd == 0 {
		w.startErr <- fmt.Errorf("CreateWindowEx failed")
		return
	}
	if !win.SetLayeredWindowAttributes(hwnd, 0, w.opacity, win.LWA_ALPHA) {
		win.DestroyWindow(hwnd)
		w.startErr <- fmt.Errorf("SetLayeredWindowAttributes failed")
		return
	}

	w.mu.Lock()
	w.hwnd = hwnd
	w.mu.Unlock()
	w.startErr <- nil

	var msg win.MSG
	for win.GetMessage(&msg, 0, 0, 0) > 0 {
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)
	}

	w.mu.Lock()
	w.hwnd = 0
	w.mu.Unlock()
}

var classOnce sync.Once
var classErr error

// registerWindowClass registers the overlay class once per process.
// CS_DBLCLKS turns the fourth click message into WM_LBUTTONDBLCLK.
func registerWindowClass() error {
	classOnce.Do(func() {
		var wc win.WNDCLASSEX
		wc.CbSize = uint32(unsafe.Sizeof(wc))
		wc.Style = win.CS_HREDRAW | win.CS_VREDRAW | win.CS_DBLCLKS
		wc.LpfnWndProc = syscall.NewCallback(overlayWndProc)
		wc.HInstance = win.GetModuleHandle(nil)
		wc.HCursor = win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_CROSS))
		wc.HbrBackground = win.HBRUSH(win.GetStockObject(win.BLACK_BRUSH))
		wc.LpszClassName = windowClassName
		if win.RegisterClassEx(&wc) == 0 {
			classErr = fmt.Errorf("RegisterClassEx failed")
		}
	})
	return classErr
}

// overlayWndProc routes window messages to the active window.
func overlayWndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	activeMu.Lock()
	w := activeWindow
	activeMu.Unlock()
	if w == nil {
		return win.DefWindowProc(hwnd, msg, wParam, lParam)
	}
	return w.handleMessage(hwnd, msg, wParam, lParam)
}

func (w *Window) handleMessage(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	switch msg {
	case wmAppShow:
		win.ShowWindow(hwnd, win.SW_SHOW)
		w.setVisible(true)
		win.InvalidateRect(hwnd, nil, true)
		return 0

	case wmAppHide:
		win.ShowWindow(hwnd, win.SW_HIDE)
		w.setVisible(false)
		return 0

	case win.WM_PAINT:
		var ps win.PAINTSTRUCT
		hdc := win.BeginPaint(hwnd, &ps)
		w.paint(hdc)
		win.EndPaint(hwnd, &ps)
		return 0

	case win.WM_LBUTTONDOWN:
		w.mu.Lock()
		w.dragging = true
		w.mu.Unlock()
		x, y := w.eventCoords(lParam)
		w.controller.HandlePress(x, y)
		return 0

	case win.WM_MOUSEMOVE:
		if wParam&win.MK_LBUTTON != 0 && w.isDragging() {
			x, y := w.eventCoords(lParam)
			w.controller.HandleDrag(x, y)
		}
		return 0

	case win.WM_LBUTTONUP:
		w.mu.Lock()
		w.dragging = false
		w.mu.Unlock()
		x, y := w.eventCoords(lParam)
		w.controller.HandleRelease(x, y)
		return 0

	case win.WM_LBUTTONDBLCLK:
		x, y := w.eventCoords(lParam)
		w.controller.HandleDouble(x, y)
		return 0

	case win.WM_RBUTTONDOWN:
		x, y := w.eventCoords(lParam)
		w.controller.HandleSecondary(x, y)
		return 0

	case win.WM_CLOSE:
		win.DestroyWindow(hwnd)
		return 0

	case win.WM_DESTROY:
		w.setVisible(false)
		win.PostQuitMessage(0)
		return 0
	}
	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}

func (w *Window) isDragging() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dragging
}

func (w *Window) setVisible(visible bool) {
	w.mu.Lock()
	if w.visible == visible {
		w.mu.Unlock()
		return
	}
	w.visible = visible
	fn := w.onVisible
	w.mu.Unlock()
	if fn != nil {
		fn(visible)
	}
}

// eventCoords converts a mouse lParam from client coordinates to the
// screen coordinates the store holds. The window origin equals the
// display origin, so the offset is the display position.
func (w *Window) eventCoords(lParam uintptr) (int, int) {
	x := int(win.GET_X_LPARAM(lParam)) + w.bounds.X
	y := int(win.GET_Y_LPARAM(lParam)) + w.bounds.Y
	return x, y
}

// Marker colors. Press markers are green, flick markers orange,
// gestureless markers grey.
var (
	colorPress   = win.RGB(80, 200, 120)
	colorFlick   = win.RGB(240, 160, 60)
	colorNone    = win.RGB(150, 150, 150)
	colorLabel   = win.RGB(255, 255, 255)
	colorOutline = win.RGB(30, 30, 30)
)

// paint draws every marker, its flick arrow and its key label.
func (w *Window) paint(hdc win.HDC) {
	win.SetBkMode(hdc, win.TRANSPARENT)
	pen := win.CreatePen(win.PS_SOLID, 2, colorOutline)
	defer win.DeleteObject(win.HGDIOBJ(pen))
	oldPen := win.SelectObject(hdc, win.HGDIOBJ(pen))
	defer win.SelectObject(hdc, oldPen)

	for _, p := range w.store.Snapshot() {
		w.paintMarker(hdc, p)
	}
}

func (w *Window) paintMarker(hdc win.HDC, p point.TouchPoint) {
	// Store coordinates are screen coordinates; the client area
	// starts at the display origin.
	cx := int32(p.X - w.bounds.X)
	cy := int32(p.Y - w.bounds.Y)

	color := colorNone
	if p.Gesture != nil {
		switch p.Gesture.Kind {
		case point.KindFlick:
			color = colorFlick
		default:
			color = colorPress
		}
	}

	brush := win.CreateSolidBrush(color)
	oldBrush := win.SelectObject(hdc, win.HGDIOBJ(brush))
	win.Ellipse(hdc, cx-markerRadius, cy-markerRadius, cx+markerRadius, cy+markerRadius)
	win.SelectObject(hdc, oldBrush)
	win.DeleteObject(win.HGDIOBJ(brush))

	if p.Gesture != nil && p.Gesture.Kind == point.KindFlick {
		dx, dy := p.Gesture.Direction()
		win.MoveToEx(hdc, int(cx), int(cy), nil)
		win.LineTo(hdc, cx+int32(dx*arrowLength), cy+int32(dy*arrowLength))
	}

	if label := point.KeyName(p.Key); label != "" {
		win.SetTextColor(hdc, colorLabel)
		text := syscall.StringToUTF16(label)
		win.TextOut(hdc, cx+markerRadius+4, cy-8, &text[0], int32(len(text)-1))
	}
}
