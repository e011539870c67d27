// Package scene holds the tree's particles and advances them every display frame.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind is the behavioural class of a particle.
type Kind uint8

const (
	KindOrnament Kind = iota
	KindLight
	KindStarTopper
	KindPhoto
	KindDust
)

var kindNames = [...]string{
	KindOrnament:   "ORNAMENT",
	KindLight:      "LIGHT",
	KindStarTopper: "STAR_TOPPER",
	KindPhoto:      "PHOTO",
	KindDust:       "DUST",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown particle kind %q", text)
}

// Variant names the mesh a renderer should draw for a particle.
type Variant string

const (
	VariantBall       Variant = "ball"
	VariantRedBall    Variant = "red_ball"
	VariantWreath     Variant = "wreath"
	VariantSantaHat   Variant = "santa_hat"
	VariantTeddyBear  Variant = "teddy_bear"
	VariantSmallStar  Variant = "small_star"
	VariantFairyLight Variant = "fairy_light"
	VariantTopper     Variant = "topper"
	VariantPolaroid   Variant = "polaroid"
)

// Palette.
const (
	ColorRichGold uint32 = 0xffbf00
	ColorDeepRed  uint32 = 0xc2002b
	ColorGreen    uint32 = 0x1a4a2a
	ColorBear     uint32 = 0x7a4a1b
	ColorStarGold uint32 = 0xffd700
	ColorTopper   uint32 = 0xfff0b3
	ColorPaper    uint32 = 0xffffff
)

// FairyLightColors are the warm tints lights are drawn from.
var FairyLightColors = [4]uint32{0xffd700, 0xffaa00, 0xfff0b3, 0xffcc00}

// Particle is one entity in the tree group. Gathered and scattered
// positions, spin and twinkle parameters are fixed at creation; the
// transform fields are written only by the Stepper.
type Particle struct {
	ID      int
	Kind    Kind
	Variant Variant
	Color   uint32
	PhotoID string

	Position    mgl64.Vec3
	Orientation mgl64.Quat
	Scale       float64
	Emissive    float64

	gathered  mgl64.Vec3
	scattered mgl64.Vec3
	spin      mgl64.Quat
	phase     float64
	speed     float64
}

// Gathered returns the particle's position inside the cone.
func (p *Particle) Gathered() mgl64.Vec3 { return p.gathered }

// Scattered returns the particle's position when the tree is blown apart.
func (p *Particle) Scattered() mgl64.Vec3 { return p.scattered }

// Twinkle returns the light's phase and angular speed.
func (p *Particle) Twinkle() (phase, speed float64) { return p.phase, p.speed }

// Spin returns the per-frame local rotation applied while the particle is free.
func (p *Particle) Spin() mgl64.Quat { return p.spin }

// spinQuat converts per-frame Euler rates into an incremental rotation.
func spinQuat(rate mgl64.Vec3) mgl64.Quat {
	if rate == (mgl64.Vec3{}) {
		return mgl64.QuatIdent()
	}
	return mgl64.AnglesToQuat(rate[0], rate[1], rate[2], mgl64.XYZ)
}

// Target returns the mode position for p.
func (p *Particle) Target(gathered bool) mgl64.Vec3 {
	if gathered {
		return p.gathered
	}
	return p.scattered
}
