// Package tray provides the system tray menu for the Noel tree.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle func(enabled bool)
	onOpen   func()
	onQuit   func()
	enabled  bool
	locked   bool
	mode     string
	gesture  string
	photos   int
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle  *systray.MenuItem
	menuMode    *systray.MenuItem
	menuGesture *systray.MenuItem
	menuPhotos  *systray.MenuItem
}

// New creates a new Tray with gestures enabled and the tree loading.
func New() *Tray {
	return &Tray{
		enabled: true,
		mode:    "LOADING",
	}
}

// OnToggle sets the callback function to be called when gestures are toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOpen sets the callback function to be called when "Open Tree" is clicked.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
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

// Quit closes the tray and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Noel")
	systray.SetTooltip("Noel gesture tree")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle gesture recognition")
	if t.locked {
		t.menuToggle.Disable()
	}
	systray.AddSeparator()

	t.menuMode = systray.AddMenuItem(modeTitle(t.mode), "Current tree mode")
	t.menuMode.Disable()
	t.menuGesture = systray.AddMenuItem(gestureTitle(t.gesture), "Last detected gesture")
	t.menuGesture.Disable()
	t.menuPhotos = systray.AddMenuItem(photosTitle(t.photos), "Photos taken this session")
	t.menuPhotos.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open Tree...", "Open the tree in the browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Noel")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	if t.locked {
		t.mu.Unlock()
		return
	}
	t.enabled = !t.enabled
	enabled := t.enabled

	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleOpen handles the open menu item click.
func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
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

// SetEnabled reflects the gesture state without firing OnToggle.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
}

// Lock disables the toggle for good, e.g. when hand tracking is unavailable.
func (t *Tray) Lock() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.locked = true
	t.enabled = false
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(false))
		t.menuToggle.Disable()
	}
}

// SetMode updates the mode display in the menu.
func (t *Tray) SetMode(mode string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mode = mode
	if t.menuMode != nil {
		t.menuMode.SetTitle(modeTitle(mode))
	}
}

// SetLastGesture updates the last gesture display in the menu.
func (t *Tray) SetLastGesture(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gesture = name
	if t.menuGesture != nil {
		t.menuGesture.SetTitle(gestureTitle(name))
	}
}

// SetPhotos updates the photo counter in the menu.
func (t *Tray) SetPhotos(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.photos = n
	if t.menuPhotos != nil {
		t.menuPhotos.SetTitle(photosTitle(n))
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// Mode returns the last mode shown.
func (t *Tray) Mode() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Gestures on"
	}
	return "○ Gestures off"
}

func modeTitle(mode string) string {
	return "Mode: " + mode
}

func gestureTitle(name string) string {
	if name == "" || name == "NONE" {
		return "Gesture: none"
	}
	return "Gesture: " + name
}

func photosTitle(n int) string {
	if n == 1 {
		return "1 photo"
	}
	return fmt.Sprintf("%d photos", n)
}
