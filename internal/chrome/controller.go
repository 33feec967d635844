package chrome

import (
	"log"
	"sync"
	"time"

	"wallpresentation/internal/engine"
)

// DefaultHideDelay is how long the controls stay visible after the last
// pointer movement.
const DefaultHideDelay = 3 * time.Second

// FullscreenRequester abstracts the host surface's fullscreen capability.
// Denial is expected and non-fatal; the controller logs and swallows every
// error.
type FullscreenRequester interface {
	Enter() error
	Exit() error
}

// Controller tracks the presentation chrome: control visibility, side-panel
// state, and fullscreen. It consumes navigation state but produces no data
// of its own.
type Controller struct {
	mu              sync.Mutex
	role            engine.Role
	controlsVisible bool
	sidePanelOpen   bool
	fullscreen      bool
	requester       FullscreenRequester
	hideDelay       time.Duration
	hideTimer       *time.Timer
	closed          bool
}

// NewController creates the chrome for one presentation view. Clients start
// with controls hidden; presenters with controls shown.
func NewController(role engine.Role, requester FullscreenRequester) *Controller {
	return &Controller{
		role:            role,
		controlsVisible: role == engine.RolePresenter,
		requester:       requester,
		hideDelay:       DefaultHideDelay,
	}
}

// ControlsVisible reports whether the navigation controls are shown.
func (c *Controller) ControlsVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controlsVisible
}

// SidePanelOpen reports whether the side panel is open.
func (c *Controller) SidePanelOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sidePanelOpen
}

// Fullscreen reports whether the controller believes it holds fullscreen.
func (c *Controller) Fullscreen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fullscreen
}

// PointerMoved shows the controls and restarts the idle-hide timer. The
// timer is cancelled and re-armed on every movement; when it fires the
// controls hide unless the side panel is open.
func (c *Controller) PointerMoved() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.controlsVisible = true
	if c.hideTimer != nil {
		c.hideTimer.Stop()
	}
	c.hideTimer = time.AfterFunc(c.hideDelay, c.hideControls)
}

func (c *Controller) hideControls() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.sidePanelOpen {
		return
	}
	c.controlsVisible = false
}

// SetSidePanelOpen opens or closes the side panel. An open panel suppresses
// auto-hide.
func (c *Controller) SetSidePanelOpen(open bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sidePanelOpen = open
}

// ToggleSidePanel flips the side panel state.
func (c *Controller) ToggleSidePanel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sidePanelOpen = !c.sidePanelOpen
}

// AutoFullscreen requests fullscreen once after a successful load, presenter
// role only. Permission denial is logged and swallowed; chrome state is
// unaffected by the failure.
func (c *Controller) AutoFullscreen() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.role != engine.RolePresenter || c.requester == nil {
		return
	}
	c.enterLocked()
}

// ToggleFullscreen flips fullscreen manually.
func (c *Controller) ToggleFullscreen() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.requester == nil {
		return
	}
	if c.fullscreen {
		c.exitLocked()
	} else {
		c.enterLocked()
	}
}

func (c *Controller) enterLocked() {
	if err := c.requester.Enter(); err != nil {
		log.Printf("Could not enter fullscreen mode: %v", err)
		return
	}
	c.fullscreen = true
}

func (c *Controller) exitLocked() {
	if err := c.requester.Exit(); err != nil {
		log.Printf("Error exiting fullscreen: %v", err)
		return
	}
	c.fullscreen = false
}

// Close cancels the idle-hide timer and releases any fullscreen grab.
// Failing to do this would leak the timer across navigations.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.hideTimer != nil {
		c.hideTimer.Stop()
		c.hideTimer = nil
	}
	if c.fullscreen && c.requester != nil {
		c.exitLocked()
	}
}
