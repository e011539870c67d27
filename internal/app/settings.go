package app

import (
	"github.com/ayusman/noel/internal/capture"
	"github.com/ayusman/noel/internal/config"
	"github.com/ayusman/noel/internal/control"
	"github.com/ayusman/noel/internal/detector"
	"github.com/ayusman/noel/internal/gesture"
	"github.com/ayusman/noel/internal/scene"
)

func cameraOptions(c *config.Config) capture.Options {
	return capture.Options{FPS: c.Camera.FPS, Width: c.Camera.Width, Height: c.Camera.Height}
}

func detectorConfig(c *config.Config) detector.Config {
	return detector.Config{
		MaxHands:        c.Detector.MaxHands,
		MinConfidence:   c.Detector.MinConfidence,
		MinTrackingConf: c.Detector.MinTrackingConf,
	}
}

func thresholds(c *config.Config) gesture.Thresholds {
	return gesture.Thresholds{
		ExtendRatio:   c.Gesture.ExtendRatio,
		ThumbExtend:   c.Gesture.ThumbExtend,
		PinchDistance: c.Gesture.PinchDistance,
	}
}

func controlConfig(c *config.Config) control.Config {
	return control.Config{
		PinchHold:      c.Control.PinchHold,
		CaptureHold:    c.Control.CaptureHold,
		RotationGain:   c.Control.RotationGain,
		IdleRotation:   c.Control.IdleRotation,
		CountdownSteps: c.Countdown.Steps,
		CancelOnReset:  c.Countdown.CancelOnReset,
	}
}

func layout(c *config.Config) scene.Layout {
	return scene.Layout{
		TreeHeight:    c.Scene.TreeHeight,
		BaseRadius:    c.Scene.BaseRadius,
		ScatterRadius: c.Scene.ScatterRadius,
		PhotoOffset:   c.Scene.PhotoOffset,
		Ornaments:     c.Scene.Ornaments,
		Lights:        c.Scene.Lights,
		SmallStars:    c.Scene.SmallStars,
		Dust:          c.Scene.Dust,
	}
}

func stepConfig(c *config.Config) scene.StepConfig {
	sc := scene.DefaultStepConfig()
	sc.LerpRate = c.Animation.LerpRate
	sc.OverrideRate = c.Animation.OverrideRate
	sc.OverrideScale = c.Animation.OverrideScale
	return sc
}
