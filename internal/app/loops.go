package app

import (
	"context"
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/noel/internal/capture"
	"github.com/ayusman/noel/internal/control"
	"github.com/ayusman/noel/internal/gesture"
	"github.com/ayusman/noel/internal/scene"
	"github.com/ayusman/noel/internal/store"
)

// command is a registry mutation requested from outside the render loop.
// Commands are applied at the start of the next render frame.
type command interface {
	apply(a *App)
}

type cmdZoom struct{}

func (cmdZoom) apply(a *App) {
	id, ok := a.registry.SetZoomedRandom(a.rng)
	if !ok {
		return
	}
	a.ctx.SetZoomed(id)
	a.log.Debug().Int("particle", id).Msg("Photo recalled")
}

type cmdClearZoom struct{}

func (cmdClearZoom) apply(a *App) {
	a.registry.ClearZoom()
	a.ctx.SetZoomed(-1)
}

type cmdAddPhoto struct {
	photoID string
}

func (c cmdAddPhoto) apply(a *App) {
	id := a.registry.AddPhoto(c.photoID, scene.PlacePhoto(a.rng, a.layout))
	if err := a.registry.SetPreview(id); err != nil {
		a.log.Error().Err(err).Int("particle", id).Msg("Failed to preview photo")
		return
	}
	a.ctx.SetPhotoCount(a.registry.PhotoCount())
	a.ctx.SetPreview(id)
	a.flash.trigger(a.settings.Countdown.FlashDuration)
	a.schedulePreviewEnd(id)

	a.log.Info().
		Str("photo", c.photoID).
		Int("particle", id).
		Int("photos", a.registry.PhotoCount()).
		Msg("Photo added to tree")
}

// cmdClearPreview ends the preview of one particle. A stale id, left over
// from a preview that a newer capture replaced, is ignored.
type cmdClearPreview struct {
	id int
}

func (c cmdClearPreview) apply(a *App) {
	if cur, ok := a.registry.Preview(); !ok || cur != c.id {
		return
	}
	a.registry.ClearPreview()
	a.ctx.SetPreview(-1)
	a.controller.ForceMode(control.ModeTree)
}

// send queues a command without blocking the caller.
func (a *App) send(c command) {
	select {
	case a.cmds <- c:
	default:
		a.log.Warn().Str("command", fmt.Sprintf("%T", c)).Msg("Command queue full, dropping")
	}
}

func (a *App) drain() {
	for {
		select {
		case c := <-a.cmds:
			c.apply(a)
		default:
			return
		}
	}
}

func (a *App) schedulePreviewEnd(id int) {
	d := a.settings.Countdown.PreviewDuration
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.previewTimer != nil {
		a.previewTimer.Stop()
	}
	a.previewTimer = time.AfterFunc(d, func() {
		a.send(cmdClearPreview{id: id})
	})
}

// inferenceLoop reads camera frames, classifies the first hand and feeds the
// controller. It idles until hand tracking is ready.
func (a *App) inferenceLoop(ctx context.Context) {
	defer a.wg.Done()

	ticker := time.NewTicker(time.Second / time.Duration(a.settings.Camera.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !a.ready.Load() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				a.frameLog.Warn().Err(err).Msg("Error reading frame")
				continue
			}

			a.updateCameraView(frame)

			if a.captureDue.Swap(false) {
				a.capturePhoto(frame)
			}

			if !a.controller.Enabled() {
				frame.Close()
				continue
			}

			hands, err := a.detector.Detect(frame)
			frame.Close()
			if err != nil {
				a.frameLog.Warn().Err(err).Msg("Error detecting hands")
				continue
			}

			reading := a.classifier.Classify(gesture.First(hands))
			res := a.controller.Observe(reading)

			a.ctx.SetGesture(reading.Tag)
			a.ctx.SetHandPresent(reading.Present)
			a.ctx.SetRotationSpeed(res.RotationSpeed)

			if res.Actions != 0 {
				a.log.Debug().
					Str("gesture", string(reading.Tag)).
					Stringer("actions", res.Actions).
					Msg("Gesture actions")
				a.dispatch(ctx, res.Actions)
			}
		}
	}
}

func (a *App) dispatch(ctx context.Context, actions control.Action) {
	if actions.Has(control.ActionClearZoom) {
		a.send(cmdClearZoom{})
	}
	if actions.Has(control.ActionZoom) {
		a.send(cmdZoom{})
	}
	if actions.Has(control.ActionCancelCountdown) {
		a.endCountdown()
		a.log.Info().Msg("Countdown cancelled")
	}
	if actions.Has(control.ActionStartCountdown) {
		a.beginCountdown(ctx)
		a.log.Info().Int("steps", a.countdown.Remaining()).Msg("Countdown started")
	}
}

// beginCountdown starts the ticker goroutine for a countdown the controller
// has already armed.
func (a *App) beginCountdown(ctx context.Context) {
	a.ctx.SetCountdown(a.countdown.Remaining())

	cdCtx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	if a.stopCountdown != nil {
		a.stopCountdown()
	}
	a.stopCountdown = cancel
	a.mu.Unlock()

	a.wg.Add(1)
	go a.runCountdown(cdCtx)
}

func (a *App) endCountdown() {
	a.mu.Lock()
	if a.stopCountdown != nil {
		a.stopCountdown()
		a.stopCountdown = nil
	}
	a.mu.Unlock()
	a.ctx.SetCountdown(0)
}

func (a *App) runCountdown(ctx context.Context) {
	defer a.wg.Done()

	ticker := time.NewTicker(a.settings.Countdown.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !a.countdown.Active() {
				a.ctx.SetCountdown(0)
				return
			}
			remaining, fired := a.countdown.Tick()
			a.ctx.SetCountdown(remaining)
			if fired {
				a.captureDue.Store(true)
				return
			}
		}
	}
}

// Camera view settings.
const (
	cameraViewInterval = 66 * time.Millisecond
	cameraViewWidth    = 320
)

// updateCameraView refreshes the mirrored preview while the user is lining
// up a photo and clears it otherwise.
func (a *App) updateCameraView(frame *gocv.Mat) {
	if a.ctx.Countdown() == 0 && a.ctx.Gesture() != gesture.TagLShape {
		a.cameraView.Store(nil)
		return
	}
	if time.Since(a.lastView) < cameraViewInterval {
		return
	}
	a.lastView = time.Now()

	data, err := capture.Mirror(frame, cameraViewWidth)
	if err != nil {
		a.frameLog.Warn().Err(err).Msg("Error encoding camera view")
		return
	}
	a.cameraView.Store(&data)
}

// capturePhoto turns the current frame into a stored polaroid and queues it
// for the tree. The frame stays owned by the caller.
func (a *App) capturePhoto(frame *gocv.Mat) {
	pr, err := a.polaroid.Compose(frame, capture.Caption(time.Now()))
	if err != nil {
		a.log.Error().Err(err).Msg("Failed to compose photo")
		return
	}

	photo := &store.Photo{
		Caption: pr.Caption,
		JPEG:    pr.JPEG,
		Width:   pr.Width,
		Height:  pr.Height,
	}
	if err := a.store.Photos().Create(photo); err != nil {
		a.log.Error().Err(err).Msg("Failed to save photo")
		return
	}

	a.log.Info().Str("photo", photo.ID).Int("bytes", len(pr.JPEG)).Msg("Photo captured")
	a.send(cmdAddPhoto{photoID: photo.ID})
}

// renderLoop steps the scene at the animation rate and publishes snapshots.
func (a *App) renderLoop(ctx context.Context) {
	defer a.wg.Done()

	ticker := time.NewTicker(time.Second / time.Duration(a.settings.Animation.FPS))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now

			a.drain()
			a.renderFrame(now, dt)
		}
	}
}

func (a *App) renderFrame(now time.Time, dt time.Duration) {
	mode := a.controller.Mode()
	a.stepper.Step(a.registry, a.dust, scene.Frame{
		Mode:          mode,
		Elapsed:       now.Sub(a.started),
		RotationSpeed: a.controller.RotationSpeed(),
	})
	a.frame++

	snap := scene.NewSnapshot(a.registry, a.dust, a.stepper)
	tag := a.ctx.Gesture()
	snap.Frame = a.frame
	snap.Mode = mode
	snap.Gesture = string(tag)
	snap.HandPresent = a.ctx.HandPresent()
	snap.Countdown = a.ctx.Countdown()
	snap.Flash = a.flash.advance(dt)
	snap.ShowCamera = snap.Countdown > 0 || tag == gesture.TagLShape
	snap.Status = a.ctx.Status()

	a.latest.Store(snap)
	if a.renderer != nil {
		a.renderer.Render(snap)
	}
}
