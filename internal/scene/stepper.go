package scene

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ayusman/noel/internal/control"
)

// StepConfig holds the smoothing rates and override targets.
type StepConfig struct {
	LerpRate          float64 // mode target approach per frame
	OverrideRate      float64 // position and orientation approach while overridden
	OverrideScale     float64
	OverrideScaleRate float64
	PhotoScaleRate    float64 // return to unit scale after an override

	ZoomPosition    mgl64.Vec3 // world space
	PreviewPosition mgl64.Vec3 // world space
}

// DefaultStepConfig returns the stock rates.
func DefaultStepConfig() StepConfig {
	return StepConfig{
		LerpRate:          0.035,
		OverrideRate:      0.15,
		OverrideScale:     3,
		OverrideScaleRate: 0.12,
		PhotoScaleRate:    0.1,
		ZoomPosition:      mgl64.Vec3{0, 5, 55},
		PreviewPosition:   mgl64.Vec3{0, 5, 50},
	}
}

// Light twinkle.
const (
	twinkleBase  = 9.0
	twinkleSwing = 9.0
	twinkleScale = 0.12
)

// Frame is the per-frame input to the stepper.
type Frame struct {
	Mode              control.Mode
	Elapsed           time.Duration // since the scene started
	RotationSpeed     float64       // group yaw increment, radians
	CameraOrientation mgl64.Quat    // world space; zero value means identity
}

// Stepper advances particle transforms by exponential smoothing toward
// their resolved targets. It owns the tree group's yaw.
type Stepper struct {
	cfg StepConfig
	yaw float64
}

// NewStepper creates a Stepper.
func NewStepper(cfg StepConfig) *Stepper {
	return &Stepper{cfg: cfg}
}

// Yaw returns the tree group's rotation about the vertical axis.
func (s *Stepper) Yaw() float64 {
	return s.yaw
}

// GroupOrientation returns the tree group's rotation as a quaternion.
func (s *Stepper) GroupOrientation() mgl64.Quat {
	return mgl64.QuatRotate(s.yaw, yAxis)
}

// Step advances the group yaw, every particle and the dust by one frame.
// dust may be nil.
func (s *Stepper) Step(reg *Registry, dust *DustField, f Frame) {
	s.yaw += f.RotationSpeed

	group := s.GroupOrientation()
	inv := group.Inverse()
	camera := f.CameraOrientation
	if camera == (mgl64.Quat{}) {
		camera = mgl64.QuatIdent()
	}
	facing := inv.Mul(camera)
	zoomLocal := inv.Rotate(s.cfg.ZoomPosition)
	previewLocal := inv.Rotate(s.cfg.PreviewPosition)

	t := f.Elapsed.Seconds()
	gathered := f.Mode.Gathered()

	particles := reg.Particles()
	for i := range particles {
		p := &particles[i]

		if p.Kind == KindLight {
			tw := math.Sin(t*p.speed + p.phase)
			p.Emissive = twinkleBase + tw*twinkleSwing
			p.Scale = 1 + tw*twinkleScale
		}

		switch reg.Override(p.ID) {
		case OverridePreview:
			s.override(p, previewLocal, facing)
			continue
		case OverrideZoom:
			s.override(p, zoomLocal, facing)
			continue
		}

		if p.Kind == KindPhoto {
			p.Scale = lerp(p.Scale, 1, s.cfg.PhotoScaleRate)
		}

		p.Position = lerpVec(p.Position, p.Target(gathered), s.cfg.LerpRate)
		p.Orientation = p.Orientation.Mul(p.spin).Normalize()
	}

	if dust != nil {
		dust.Step()
	}
}

func (s *Stepper) override(p *Particle, target mgl64.Vec3, facing mgl64.Quat) {
	p.Position = lerpVec(p.Position, target, s.cfg.OverrideRate)
	p.Orientation = mgl64.QuatSlerp(p.Orientation, facing, s.cfg.OverrideRate)
	p.Scale = lerp(p.Scale, s.cfg.OverrideScale, s.cfg.OverrideScaleRate)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return mgl64.Vec3{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}
