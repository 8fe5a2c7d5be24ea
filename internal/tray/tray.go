// Package tray provides a system tray control surface: pause and resume,
// the last gesture performed, and quit.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/pipeline"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle  func(enabled bool)
	onOverlay func()
	onQuit    func()
	enabled   bool
	last      string
	mu        sync.RWMutex

	// Menu items stored for later updates
	menuToggle      *systray.MenuItem
	menuLastGesture *systray.MenuItem
}

// New creates a new Tray instance with enabled state set to true by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback function to be called when the enabled state is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOverlay sets the callback function to be called when the overlay menu item is clicked.
func (t *Tray) OnOverlay(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOverlay = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit stops the tray loop started by Run.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra hand-gesture pointer")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Pause or resume gesture control")
	systray.AddSeparator()

	t.menuLastGesture = systray.AddMenuItem(lastTitle(t.last), "Last gesture performed")
	t.menuLastGesture.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuOverlay := systray.AddMenuItem("Open Overlay...", "Open the fingertip overlay in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuOverlay.ClickedCh:
				t.handleOverlay()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Paused"
}

func lastTitle(label string) string {
	if label == "" {
		return "Last: none"
	}
	return "Last: " + label
}

// toggle flips the enabled state and returns the new state and the callback to run.
func (t *Tray) toggle() (bool, func(bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.enabled = !t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(t.enabled))
	}
	return t.enabled, t.onToggle
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	enabled, callback := t.toggle()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleOverlay handles the overlay menu item click.
func (t *Tray) handleOverlay() {
	t.mu.RLock()
	callback := t.onOverlay
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetLastGesture updates the last gesture display in the menu.
func (t *Tray) SetLastGesture(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if name == t.last {
		return
	}
	t.last = name
	if t.menuLastGesture != nil {
		t.menuLastGesture.SetTitle(lastTitle(name))
	}
}

// LastGesture returns the label shown as the last gesture.
func (t *Tray) LastGesture() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last
}

// Present updates the last gesture label from a processed frame. It makes
// the tray an app.Presenter.
func (t *Tray) Present(out pipeline.FrameOutput) {
	if role, ok := ActiveRole(out); ok {
		t.SetLastGesture(role.Label)
	}
}

// ActiveRole returns the role of the button finger active in out. Grab
// wins over right click, which wins over left click. The index finger is
// always active and is not reported.
func ActiveRole(out pipeline.FrameOutput) (gesture.Role, bool) {
	for _, f := range []gesture.Finger{gesture.Middle, gesture.Ring, gesture.Pinky} {
		if out.Active[f] {
			return gesture.RoleOf(f), true
		}
	}
	return gesture.Role{}, false
}

// SetEnabled sets the enabled state without invoking the toggle callback.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
