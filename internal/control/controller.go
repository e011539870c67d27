package control

import (
	"sync"

	"github.com/ayusman/noel/internal/gesture"
)

// PhotoCounter reports how many photo particles exist.
type PhotoCounter interface {
	PhotoCount() int
}

// Config holds the debounce and steering tunables.
type Config struct {
	PinchHold      int     // frames of PINCH before a recall, exclusive
	CaptureHold    int     // frames of L_SHAPE before a countdown, exclusive
	RotationGain   float64 // radians per frame per unit of wrist offset
	IdleRotation   float64 // rotation speed before any hand is seen
	CountdownSteps int
	CancelOnReset  bool // FIST and OPEN_HAND cancel a running countdown
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		PinchHold:      12,
		CaptureHold:    25,
		RotationGain:   0.035,
		IdleRotation:   0.002,
		CountdownSteps: 3,
		CancelOnReset:  true,
	}
}

// Result is what one observed frame produced.
type Result struct {
	Mode          Mode
	ModeChanged   bool
	Actions       Action
	RotationSpeed float64
}

// Controller owns the application mode and the hold counters. All methods
// are safe for concurrent use.
type Controller struct {
	mu        sync.Mutex
	cfg       Config
	photos    PhotoCounter
	countdown *Countdown

	mode          Mode
	pinchFrames   int
	captureFrames int
	zoomed        bool
	rotation      float64
	enabled       bool

	// OnModeChange is called after every mode transition, outside the lock.
	OnModeChange func(from, to Mode)
}

// NewController creates a Controller in ModeLoading with gestures enabled.
func NewController(cfg Config, photos PhotoCounter, countdown *Countdown) *Controller {
	if countdown == nil {
		countdown = NewCountdown()
	}
	return &Controller{
		cfg:       cfg,
		photos:    photos,
		countdown: countdown,
		mode:      ModeLoading,
		rotation:  cfg.IdleRotation,
		enabled:   true,
	}
}

// Observe feeds one classified frame through the debouncer.
func (c *Controller) Observe(r gesture.Reading) Result {
	c.mu.Lock()

	from := c.mode
	var actions Action

	if !c.enabled {
		res := Result{Mode: c.mode, RotationSpeed: c.rotation}
		c.mu.Unlock()
		return res
	}

	if r.Present {
		c.rotation = (0.5 - r.WristX) * c.cfg.RotationGain
	}

	switch r.Tag {
	case gesture.TagOpenHand:
		actions |= c.reset(ModeScatter)

	case gesture.TagFist:
		actions |= c.reset(ModeTree)

	case gesture.TagPinch:
		c.pinchFrames++
		c.captureFrames = 0
		if c.pinchFrames > c.cfg.PinchHold && !c.zoomed && c.hasPhotos() {
			c.zoomed = true
			// A recall over the gathered tree leaves it gathered.
			if c.mode == ModeScatter {
				c.mode = ModeFocus
			}
			actions |= ActionZoom
		}

	case gesture.TagLShape:
		if c.countdown.Active() {
			c.resetCounters()
			break
		}
		c.captureFrames++
		c.pinchFrames = 0
		if c.captureFrames > c.cfg.CaptureHold {
			if c.countdown.Start(c.cfg.CountdownSteps) {
				actions |= ActionStartCountdown
			}
			c.captureFrames = 0
		}

	default:
		c.resetCounters()
	}

	res := Result{
		Mode:          c.mode,
		ModeChanged:   c.mode != from,
		Actions:       actions,
		RotationSpeed: c.rotation,
	}
	cb := c.OnModeChange
	c.mu.Unlock()

	if res.ModeChanged && cb != nil {
		cb(from, res.Mode)
	}
	return res
}

// reset handles the two immediate gestures. Caller holds the lock.
func (c *Controller) reset(mode Mode) Action {
	var actions Action
	c.mode = mode
	if c.zoomed {
		c.zoomed = false
		actions |= ActionClearZoom
	}
	if c.cfg.CancelOnReset && c.countdown.Cancel() {
		actions |= ActionCancelCountdown
	}
	c.resetCounters()
	return actions
}

func (c *Controller) resetCounters() {
	c.pinchFrames = 0
	c.captureFrames = 0
}

func (c *Controller) hasPhotos() bool {
	return c.photos != nil && c.photos.PhotoCount() > 0
}

// ForceMode sets the mode outside the gesture path, e.g. after
// initialization or when a photo preview ends.
func (c *Controller) ForceMode(m Mode) {
	c.mu.Lock()
	from := c.mode
	c.mode = m
	cb := c.OnModeChange
	c.mu.Unlock()

	if from != m && cb != nil {
		cb(from, m)
	}
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// RotationSpeed returns the current group yaw rate in radians per frame.
func (c *Controller) RotationSpeed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotation
}

// Zoomed reports whether a photo recall is latched.
func (c *Controller) Zoomed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoomed
}

// Counters returns the pinch and capture hold counters.
func (c *Controller) Counters() (pinch, capture int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pinchFrames, c.captureFrames
}

// Countdown returns the capture countdown this controller starts.
func (c *Controller) Countdown() *Countdown {
	return c.countdown
}

// SetEnabled turns gesture handling on or off. While disabled Observe
// leaves all state untouched.
func (c *Controller) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
	if !enabled {
		c.resetCounters()
	}
}

// Enabled reports whether gestures are being handled.
func (c *Controller) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}
