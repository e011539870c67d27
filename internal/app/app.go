// Package app wires the camera, the gesture pipeline and the particle scene
// into the two loops that drive the tree.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/noel/internal/capture"
	"github.com/ayusman/noel/internal/config"
	"github.com/ayusman/noel/internal/control"
	"github.com/ayusman/noel/internal/detector"
	"github.com/ayusman/noel/internal/gesture"
	"github.com/ayusman/noel/internal/logging"
	"github.com/ayusman/noel/internal/scene"
	"github.com/ayusman/noel/internal/store"
)

// Status texts shown while hand tracking starts.
const (
	StatusLoading     = "LOADING HAND TRACKING..."
	StatusCamera      = "REQUESTING CAMERA..."
	StatusUnavailable = "HAND TRACKING UNAVAILABLE"
)

// ErrInitTimeout is reported when the camera and model do not come up in time.
var ErrInitTimeout = errors.New("hand tracking initialization timed out")

// Renderer receives one immutable snapshot per display frame.
type Renderer interface {
	Render(snap *scene.Snapshot)
}

// Config holds the collaborators and settings for an App.
type Config struct {
	Settings *config.Config
	Store    *store.Store
	Camera   capture.Camera    // nil opens the configured device
	Detector detector.Detector // nil starts the MediaPipe service
	Renderer Renderer          // may be nil
	Logger   zerolog.Logger
}

// warmer is implemented by detectors that can load their model ahead of
// the first frame.
type warmer interface {
	Warmup() error
}

// App runs the inference and render loops.
type App struct {
	settings   *config.Config
	store      *store.Store
	camera     capture.Camera
	detector   detector.Detector
	renderer   Renderer
	classifier *gesture.Classifier
	controller *control.Controller
	countdown  *control.Countdown
	polaroid   *capture.Polaroid
	ctx        *Context

	// Render loop state.
	registry *scene.Registry
	dust     *scene.DustField
	stepper  *scene.Stepper
	rng      *rand.Rand
	layout   scene.Layout
	flash    flash
	frame    uint64
	started  time.Time

	cmds       chan command
	captureDue atomic.Bool
	ready      atomic.Bool
	latest     atomic.Pointer[scene.Snapshot]
	cameraView atomic.Pointer[[]byte]
	lastView   time.Time // inference loop only

	log      zerolog.Logger
	frameLog zerolog.Logger

	mu             sync.Mutex
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	stopCountdown  context.CancelFunc
	previewTimer   *time.Timer
	onModeChange   []func(from, to control.Mode)
	onGestureReady []func(enabled bool)
}

// New creates an App. The scene is built immediately; nothing runs until Start.
func New(cfg Config) (*App, error) {
	if cfg.Settings == nil {
		return nil, errors.New("app: settings are required")
	}
	if cfg.Store == nil {
		return nil, errors.New("app: store is required")
	}
	s := cfg.Settings
	log := logging.Component(cfg.Logger, "app")

	a := &App{
		settings:   s,
		store:      cfg.Store,
		camera:     cfg.Camera,
		detector:   cfg.Detector,
		renderer:   cfg.Renderer,
		classifier: gesture.NewClassifier(thresholds(s)),
		countdown:  control.NewCountdown(),
		polaroid:   capture.NewPolaroid(),
		ctx:        NewContext(),
		stepper:    scene.NewStepper(stepConfig(s)),
		rng:        scene.NewRand(s.Scene.Seed),
		layout:     layout(s),
		cmds:       make(chan command, max(s.Control.CommandBuffer, 1)),
		log:        log,
		frameLog:   logging.Sampled(log),
	}

	a.controller = control.NewController(controlConfig(s), a.ctx, a.countdown)
	a.controller.OnModeChange = a.modeChanged

	if a.camera == nil {
		a.camera = capture.NewCamera(s.Camera.DeviceID, cameraOptions(s))
	}
	if a.detector == nil {
		mp, err := detector.NewMediaPipeDetector(detectorConfig(s))
		if err != nil {
			log.Warn().Err(err).Msg("MediaPipe not available, gestures will be disabled")
		} else {
			a.detector = mp
		}
	}

	a.registry, a.dust = scene.Build(a.rng, a.layout)
	log.Info().
		Int("particles", a.registry.Len()).
		Int("dust", a.dust.Len()).
		Msg("Scene built")

	return a, nil
}

// Start launches vision initialization and both loops. It returns
// immediately; ctx cancellation or Stop ends them.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.started = time.Now()
	a.ctx.SetStatus(StatusLoading)

	a.wg.Add(3)
	go a.initVision(runCtx)
	go a.inferenceLoop(runCtx)
	go a.renderLoop(runCtx)

	a.log.Info().Msg("Pipeline started")
	return nil
}

// Stop halts both loops and releases the camera and detector.
func (a *App) Stop() {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	if a.stopCountdown != nil {
		a.stopCountdown()
		a.stopCountdown = nil
	}
	if a.previewTimer != nil {
		a.previewTimer.Stop()
		a.previewTimer = nil
	}
	a.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	a.wg.Wait()

	if err := a.camera.Close(); err != nil {
		a.log.Error().Err(err).Msg("Error closing camera")
	}
	if d, ok := a.detector.(interface{ Dropped() int }); ok && d.Dropped() > 0 {
		a.log.Info().Int("frames", d.Dropped()).Msg("Partial landmark frames dropped")
	}
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			a.log.Error().Err(err).Msg("Error closing detector")
		}
	}

	a.log.Info().Msg("Pipeline stopped")
}

// initVision opens the camera and warms the detector under a deadline.
// Success scatters the tree; failure gathers it and disables gestures.
func (a *App) initVision(ctx context.Context) {
	defer a.wg.Done()

	done := make(chan error, 1)
	go func() {
		a.ctx.SetStatus(StatusCamera)
		if a.detector == nil {
			done <- detector.ErrServiceNotFound
			return
		}
		if !a.camera.IsOpen() {
			if err := a.camera.Open(); err != nil {
				done <- err
				return
			}
		}
		if w, ok := a.detector.(warmer); ok {
			if err := w.Warmup(); err != nil {
				done <- fmt.Errorf("warm up detector: %w", err)
				return
			}
		}
		done <- nil
	}()

	timer := time.NewTimer(a.settings.Init.Timeout)
	defer timer.Stop()

	var err error
	select {
	case err = <-done:
		if err != nil {
			a.releaseVision(nil)
		}
	case <-timer.C:
		err = ErrInitTimeout
		go a.releaseVision(done)
	case <-ctx.Done():
		go a.releaseVision(done)
		return
	}

	if err != nil {
		a.log.Warn().Err(err).Msg("Hand tracking unavailable, falling back to tree mode")
		a.controller.SetEnabled(false)
		a.controller.ForceMode(control.ModeTree)
		a.ctx.SetStatus(StatusUnavailable)
		a.gesturesChanged(false)
		return
	}

	a.ready.Store(true)
	a.controller.ForceMode(control.ModeScatter)
	a.ctx.SetStatus("")
	a.log.Info().Msg("Hand tracking ready")
	a.gesturesChanged(true)
}

// releaseVision closes the camera and detector after a failed or abandoned
// initialization. A non-nil done is waited on first, so an Open or Warmup
// that finishes after the deadline does not leave the webcam or the model
// service running.
func (a *App) releaseVision(done <-chan error) {
	if done != nil {
		<-done
	}
	if a.camera.IsOpen() {
		if err := a.camera.Close(); err != nil {
			a.log.Error().Err(err).Msg("Error closing camera")
		}
	}
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			a.log.Error().Err(err).Msg("Error closing detector")
		}
	}
	a.log.Debug().Msg("Hand tracking resources released")
}

// SetEnabled turns gesture recognition on or off. Enabling has no effect
// until hand tracking has initialized.
func (a *App) SetEnabled(enabled bool) {
	if enabled && !a.ready.Load() {
		return
	}
	a.controller.SetEnabled(enabled)
	if !enabled {
		a.ctx.SetGesture(gesture.TagNone)
		a.ctx.SetHandPresent(false)
	}
	a.gesturesChanged(enabled)
}

// IsEnabled reports whether gestures are being recognized.
func (a *App) IsEnabled() bool {
	return a.ready.Load() && a.controller.Enabled()
}

// Ready reports whether hand tracking initialized successfully.
func (a *App) Ready() bool {
	return a.ready.Load()
}

// OnModeChange registers a callback for mode transitions. Register before Start.
func (a *App) OnModeChange(fn func(from, to control.Mode)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onModeChange = append(a.onModeChange, fn)
}

// OnGesturesChanged registers a callback for gesture enable/disable. Register before Start.
func (a *App) OnGesturesChanged(fn func(enabled bool)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onGestureReady = append(a.onGestureReady, fn)
}

func (a *App) modeChanged(from, to control.Mode) {
	a.ctx.SetMode(to)
	a.log.Info().Str("from", string(from)).Str("to", string(to)).Msg("Mode changed")

	a.mu.Lock()
	fns := a.onModeChange
	a.mu.Unlock()
	for _, fn := range fns {
		fn(from, to)
	}
}

func (a *App) gesturesChanged(enabled bool) {
	a.mu.Lock()
	fns := a.onGestureReady
	a.mu.Unlock()
	for _, fn := range fns {
		fn(enabled)
	}
}

// Context returns the shared loop state.
func (a *App) Context() *Context {
	return a.ctx
}

// Controller returns the mode controller.
func (a *App) Controller() *control.Controller {
	return a.controller
}

// Snapshot returns the most recently rendered frame, or nil before the first.
func (a *App) Snapshot() *scene.Snapshot {
	return a.latest.Load()
}

// CameraView returns the latest mirrored camera JPEG while the camera
// preview is showing, or nil.
func (a *App) CameraView() []byte {
	if p := a.cameraView.Load(); p != nil {
		return *p
	}
	return nil
}

// Store returns the session photo store.
func (a *App) Store() *store.Store {
	return a.store
}
