package app

import (
	"math"
	"sync/atomic"

	"github.com/ayusman/noel/internal/control"
	"github.com/ayusman/noel/internal/gesture"
)

// Context is the state the inference and render loops share. Every field
// has a single writer; readers on other goroutines go through atomics.
type Context struct {
	mode        atomic.Value // control.Mode, written via the controller
	gesture     atomic.Value // gesture.Tag, written by the inference loop
	status      atomic.Value // string
	rotation    atomic.Uint64
	handPresent atomic.Bool
	countdown   atomic.Int64
	zoomed      atomic.Int64 // written by the render loop
	preview     atomic.Int64 // written by the render loop
	photos      atomic.Int64 // written by the render loop
}

// NewContext returns a Context in the loading state.
func NewContext() *Context {
	c := &Context{}
	c.mode.Store(control.ModeLoading)
	c.gesture.Store(gesture.TagNone)
	c.status.Store("")
	c.zoomed.Store(-1)
	c.preview.Store(-1)
	return c
}

func (c *Context) Mode() control.Mode     { return c.mode.Load().(control.Mode) }
func (c *Context) SetMode(m control.Mode) { c.mode.Store(m) }

func (c *Context) Gesture() gesture.Tag     { return c.gesture.Load().(gesture.Tag) }
func (c *Context) SetGesture(t gesture.Tag) { c.gesture.Store(t) }

// Status is the initialization progress text shown while loading.
func (c *Context) Status() string     { return c.status.Load().(string) }
func (c *Context) SetStatus(s string) { c.status.Store(s) }

func (c *Context) RotationSpeed() float64 { return math.Float64frombits(c.rotation.Load()) }
func (c *Context) SetRotationSpeed(v float64) {
	c.rotation.Store(math.Float64bits(v))
}

func (c *Context) HandPresent() bool     { return c.handPresent.Load() }
func (c *Context) SetHandPresent(b bool) { c.handPresent.Store(b) }

// Countdown returns the remaining capture steps, 0 when idle.
func (c *Context) Countdown() int     { return int(c.countdown.Load()) }
func (c *Context) SetCountdown(n int) { c.countdown.Store(int64(n)) }

// Zoomed returns the zoomed particle id or -1.
func (c *Context) Zoomed() int      { return int(c.zoomed.Load()) }
func (c *Context) SetZoomed(id int) { c.zoomed.Store(int64(id)) }

// Preview returns the previewed particle id or -1.
func (c *Context) Preview() int      { return int(c.preview.Load()) }
func (c *Context) SetPreview(id int) { c.preview.Store(int64(id)) }

// PhotoCount reports how many photo particles the registry holds.
func (c *Context) PhotoCount() int     { return int(c.photos.Load()) }
func (c *Context) SetPhotoCount(n int) { c.photos.Store(int64(n)) }
