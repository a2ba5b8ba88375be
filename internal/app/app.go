// Package app wires the store, overlay, key hook and gesture engine
// together.
package app

import (
	"errors"
	"log"
	"sync"
	"time"

	"wintoucher/internal/config"
	"wintoucher/internal/gesture"
	"wintoucher/internal/hook"
	"wintoucher/internal/inject"
	"wintoucher/internal/monitor"
	"wintoucher/internal/overlay"
	"wintoucher/internal/point"
	"wintoucher/internal/session"
	"wintoucher/internal/tray"
)

// App coordinates the touch point store, the overlay window, the
// global key hook and the gesture engine.
type App struct {
	cfg     config.Config
	session *session.Session
	surface inject.Surface
	source  hook.Source

	store      *point.Store
	engine     *gesture.Engine
	bridge     *hook.Bridge
	controller *overlay.Controller
	window     *overlay.Window
	tray       *tray.Tray

	trayOverlayID int
	trayListenID  int
}

// New creates the application with its dependencies wired.
func New(cfg config.Config, sess *session.Session, surface inject.Surface, source hook.Source) (*App, error) {
	if sess == nil {
		return nil, errors.New("session is required")
	}
	if surface == nil {
		return nil, errors.New("injection surface is required")
	}
	if source == nil {
		return nil, errors.New("key source is required")
	}

	a := &App{
		cfg:     cfg,
		session: sess,
		surface: surface,
		source:  source,
		store:   point.NewStore(point.MaxPoints),
	}

	a.engine = gesture.New(surface, a.store, cfg.MaxContacts, gesture.Tuning{
		PressHold:  msDuration(cfg.PressHoldMs),
		FlickSteps: cfg.FlickSteps,
		StepPause:  msDuration(cfg.FlickStepMs),
	})
	sess.SetInFlightFunc(a.engine.InFlight)

	a.bridge = hook.NewBridge(a.resolveKey, a.engine.Trigger)
	a.bridge.SetToggleKey(cfg.ToggleKey)
	a.bridge.SetEnabled(cfg.ListenerEnabled)
	a.bridge.SetToggleFunc(func(enabled bool) {
		a.session.SetListenerEnabled(enabled)
		a.tray.SetChecked(a.trayListenID, enabled)
		log.Printf("listening: %v", enabled)
	})

	proxy := &renderProxy{}
	a.controller = overlay.NewController(a.store, proxy)
	a.controller.SetInspectFunc(a.logPoint)

	a.tray = a.buildTray()
	a.attachWindow(proxy)

	return a, nil
}

// renderProxy breaks the controller/window construction cycle: the
// controller needs a renderer before the window exists.
type renderProxy struct {
	mu     sync.Mutex
	target overlay.Renderer
}

func (r *renderProxy) Invalidate() {
	r.mu.Lock()
	t := r.target
	r.mu.Unlock()
	if t != nil {
		t.Invalidate()
	}
}

func (r *renderProxy) set(t overlay.Renderer) {
	r.mu.Lock()
	r.target = t
	r.mu.Unlock()
}

// attachWindow creates the overlay window and points the proxy at it.
func (a *App) attachWindow(proxy *renderProxy) {
	bounds := monitor.Monitor{}
	if list, err := monitor.ListMonitors(); err == nil {
		bounds = monitor.OverlayBounds(list, a.cfg.MonitorIndex, monitor.VirtualBounds())
	}
	a.session.SetMonitor(a.cfg.MonitorIndex)

	a.window = overlay.NewWindow(a.controller, a.store, bounds, byte(a.cfg.OverlayOpacity))
	a.window.SetVisibilityFunc(a.overlayVisibility)
	proxy.set(a.window)
}

// Start loads points, opens the injection session, creates the overlay
// window and starts the key hook.
func (a *App) Start() error {
	points, err := point.LoadFile(a.cfg.PointsPath)
	if err != nil {
		return err
	}
	a.store.Replace(points)
	log.Printf("points: %d loaded from %s", a.store.Len(), a.cfg.PointsPath)

	if err := a.surface.Initialize(a.cfg.MaxContacts); err != nil {
		return err
	}

	if err := a.window.Start(); err != nil {
		return err
	}

	if err := a.source.Start(); err != nil {
		a.window.Stop()
		return err
	}
	go a.bridge.Pump(a.source.Events())

	return nil
}

// Run blocks on the tray event loop until Quit is picked or Stop is
// called.
func (a *App) Run() {
	a.tray.Run()
}

// Stop tears the application down: hook first so no new gestures
// start, then the engine drain, then the injection session, then the
// window, and finally the point file save.
func (a *App) Stop() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
		if err != nil {
			log.Printf("shutdown: %v", err)
		}
	}

	keep(a.source.Stop())
	keep(a.engine.Close())
	keep(a.surface.Close())
	a.window.Stop()
	keep(a.savePoints())
	a.tray.Stop()
	return firstErr
}

// Quit ends the tray loop, which unblocks Run. The caller still owns
// the Stop.
func (a *App) Quit() {
	a.tray.Stop()
}

// Store exposes the touch point store.
func (a *App) Store() *point.Store {
	return a.store
}

// resolveKey maps a key code to the point bound to it.
func (a *App) resolveKey(code uint16) (int, bool) {
	p, ok := a.store.ByKey(code)
	return p.ID, ok
}

// overlayVisibility reacts to the overlay being shown or hidden.
// While it is visible key releases bind to the selected marker instead
// of triggering gestures.
func (a *App) overlayVisibility(visible bool) {
	a.session.SetOverlayVisible(visible)
	a.tray.SetChecked(a.trayOverlayID, visible)
	if visible {
		a.bridge.SetCaptureFunc(bindCapture(a.store, a.controller.Selected, a.window.Invalidate))
	} else {
		a.bridge.SetCaptureFunc(nil)
	}
	log.Printf("overlay: visible=%v", visible)
}

// bindCapture returns a capture func binding released keys to the
// selected marker. It never consumes the capture: the overlay keeps it
// armed for as long as it stays open.
func bindCapture(store *point.Store, selected func() (point.TouchPoint, bool), invalidate func()) hook.CaptureFunc {
	return func(code uint16) bool {
		sel, ok := selected()
		if !ok {
			return false
		}
		if err := store.BindKey(sel.ID, code); err != nil {
			log.Printf("bind: %v", err)
			return false
		}
		log.Printf("bind: point %d <- %s", sel.ID, point.KeyName(code))
		invalidate()
		return false
	}
}

// logPoint prints marker details for the double-click inspection.
func (a *App) logPoint(p point.TouchPoint) {
	kind := "none"
	if p.Gesture != nil {
		kind = string(p.Gesture.Kind)
	}
	log.Printf("point %d: (%d, %d) key=%s gesture=%s", p.ID, p.X, p.Y, point.KeyName(p.Key), kind)
}

// savePoints writes the current store to the configured file.
func (a *App) savePoints() error {
	if err := point.SaveFile(a.cfg.PointsPath, a.store.Snapshot()); err != nil {
		return err
	}
	log.Printf("points: %d saved to %s", a.store.Len(), a.cfg.PointsPath)
	return nil
}

// reloadPoints replaces the store with the file contents.
func (a *App) reloadPoints() error {
	points, err := point.LoadFile(a.cfg.PointsPath)
	if err != nil {
		return err
	}
	a.store.Replace(points)
	a.window.Invalidate()
	log.Printf("points: %d reloaded from %s", a.store.Len(), a.cfg.PointsPath)
	return nil
}

// buildTray assembles the tray menu.
func (a *App) buildTray() *tray.Tray {
	t := tray.New("WinToucher", "Touch point gestures")

	a.trayOverlayID = t.AddItem("Edit points", "Show or hide the overlay", func() {
		if a.window.Visible() {
			a.window.Hide()
		} else {
			a.window.Show()
		}
	})
	a.trayListenID = t.AddItem("Listen for keys", "Trigger gestures from bound keys", func() {
		enabled := !a.bridge.Enabled()
		a.bridge.SetEnabled(enabled)
		a.session.SetListenerEnabled(enabled)
		t.SetChecked(a.trayListenID, enabled)
		log.Printf("listening: %v", enabled)
	})
	t.AddSeparator()
	t.AddItem("Save points", "Write points to disk", func() {
		if err := a.savePoints(); err != nil {
			log.Printf("save: %v", err)
		}
	})
	t.AddItem("Reload points", "Restore points from disk", func() {
		if err := a.reloadPoints(); err != nil {
			log.Printf("reload: %v", err)
		}
	})
	t.AddSeparator()
	t.AddItem("Quit", "", func() {
		t.Stop()
	})

	return t
}

// msDuration converts a millisecond count into a Duration.
func msDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
