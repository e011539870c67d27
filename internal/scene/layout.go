package scene

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// Layout sizes the tree and its population.
type Layout struct {
	TreeHeight    float64
	BaseRadius    float64
	ScatterRadius float64
	PhotoOffset   float64 // photos sit this far outside the cone surface

	Ornaments  int
	Lights     int
	SmallStars int
	Dust       int
}

// DefaultLayout returns the stock tree.
func DefaultLayout() Layout {
	return Layout{
		TreeHeight:    55,
		BaseRadius:    22,
		ScatterRadius: 75,
		PhotoOffset:   2,
		Ornaments:     765,
		Lights:        225,
		SmallStars:    162,
		Dust:          5400,
	}
}

// Scatter extents.
const (
	lightScatter     = 85.0
	smallStarScatter = 80.0
	photoScatter     = 70.0
	topperLift       = 5.0
	topperScatterY   = 75.0
)

var yAxis = mgl64.Vec3{0, 1, 0}

// NewRand returns a PCG source seeded from seed, or from the global source
// when seed is zero.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Build populates a registry with the topper, lights, small stars and
// ornaments, and creates the dust field.
func Build(rng *rand.Rand, l Layout) (*Registry, *DustField) {
	reg := NewRegistry(1 + l.Lights + l.SmallStars + l.Ornaments)

	top := mgl64.Vec3{0, l.TreeHeight/2 + topperLift, 0}
	reg.AddAt(Particle{
		Kind:      KindStarTopper,
		Variant:   VariantTopper,
		Color:     ColorTopper,
		gathered:  top,
		scattered: mgl64.Vec3{0, topperScatterY, 0},
		spin:      spinQuat(mgl64.Vec3{0, 0.08, 0}),
	}, top)

	for i := 0; i < l.Lights; i++ {
		reg.Add(Particle{
			Kind:      KindLight,
			Variant:   VariantFairyLight,
			Color:     FairyLightColors[rng.IntN(len(FairyLightColors))],
			gathered:  conePoint(rng, l, 0.95, 0.2),
			scattered: cubePoint(rng, lightScatter),
			phase:     rng.Float64() * 2 * math.Pi,
			speed:     1.2 + rng.Float64()*2,
		})
	}

	for i := 0; i < l.SmallStars; i++ {
		reg.Add(Particle{
			Kind:        KindOrnament,
			Variant:     VariantSmallStar,
			Color:       ColorStarGold,
			gathered:    conePoint(rng, l, 0.9, 0.1),
			scattered:   cubePoint(rng, smallStarScatter),
			Orientation: randomOrientation(rng),
			spin: spinQuat(mgl64.Vec3{
				rng.Float64() * 0.02,
				rng.Float64() * 0.02,
				rng.Float64() * 0.02,
			}),
		})
	}

	for i := 0; i < l.Ornaments; i++ {
		variant, color := ornamentVariant(rng.Float64())
		reg.Add(Particle{
			Kind:      KindOrnament,
			Variant:   variant,
			Color:     color,
			gathered:  conePoint(rng, l, 0.9, 0.2),
			scattered: shellPoint(rng, l.ScatterRadius),
			spin: spinQuat(mgl64.Vec3{
				(rng.Float64() - 0.5) * 0.03,
				(rng.Float64() - 0.5) * 0.05,
				(rng.Float64() - 0.5) * 0.03,
			}),
		})
	}

	return reg, NewDustField(rng, l.Dust)
}

func ornamentVariant(r float64) (Variant, uint32) {
	switch {
	case r < 0.12:
		return VariantWreath, ColorGreen
	case r < 0.25:
		return VariantSantaHat, ColorDeepRed
	case r < 0.35:
		return VariantTeddyBear, ColorBear
	case r > 0.88:
		return VariantRedBall, ColorDeepRed
	default:
		return VariantBall, ColorRichGold
	}
}

// conePoint samples inside the cone. Height is biased by heightExp, and
// the radius is a fraction of the cone radius at that height in
// [minRadius, 1), weighted toward the surface.
func conePoint(rng *rand.Rand, l Layout, heightExp, minRadius float64) mgl64.Vec3 {
	hN := math.Pow(rng.Float64(), heightExp)
	y := hN*l.TreeHeight - l.TreeHeight/2
	maxR := l.BaseRadius * (1 - hN)
	r := maxR * (minRadius + (1-minRadius)*math.Sqrt(rng.Float64()))
	a := rng.Float64() * 2 * math.Pi
	return mgl64.Vec3{math.Cos(a) * r, y, math.Sin(a) * r}
}

func cubePoint(rng *rand.Rand, half float64) mgl64.Vec3 {
	return mgl64.Vec3{
		(rng.Float64() - 0.5) * 2 * half,
		(rng.Float64() - 0.5) * 2 * half,
		(rng.Float64() - 0.5) * 2 * half,
	}
}

// shellPoint samples a uniform direction at a distance in [0.8, 1.5) times radius.
func shellPoint(rng *rand.Rand, radius float64) mgl64.Vec3 {
	phi := math.Acos(2*rng.Float64() - 1)
	theta := 2 * math.Pi * rng.Float64()
	rs := radius * (0.8 + 0.7*rng.Float64())
	return mgl64.Vec3{
		rs * math.Sin(phi) * math.Cos(theta),
		rs * math.Sin(phi) * math.Sin(theta),
		rs * math.Cos(phi),
	}
}

func randomOrientation(rng *rand.Rand) mgl64.Quat {
	return mgl64.AnglesToQuat(
		rng.Float64()*2*math.Pi,
		rng.Float64()*2*math.Pi,
		rng.Float64()*2*math.Pi,
		mgl64.XYZ,
	)
}

// Placement is where a new photo hangs and where it flies when scattered.
type Placement struct {
	Gathered    mgl64.Vec3
	Scattered   mgl64.Vec3
	Orientation mgl64.Quat
}

// PlacePhoto picks a spot on the cone surface for a new photo. The photo
// faces away from the trunk with a small random tilt.
func PlacePhoto(rng *rand.Rand, l Layout) Placement {
	h := rng.Float64()*l.TreeHeight - l.TreeHeight/2
	r := (1-(h+l.TreeHeight/2)/l.TreeHeight)*l.BaseRadius + l.PhotoOffset
	a := rng.Float64() * 2 * math.Pi

	// +Z is the picture side; turn it to point along (cos a, 0, sin a).
	facing := mgl64.QuatRotate(math.Pi/2-a, yAxis)
	tiltZ := mgl64.QuatRotate((rng.Float64()-0.5)*0.25, mgl64.Vec3{0, 0, 1})
	tiltX := mgl64.QuatRotate((rng.Float64()-0.5)*0.15, mgl64.Vec3{1, 0, 0})

	return Placement{
		Gathered:    mgl64.Vec3{math.Cos(a) * r, h, math.Sin(a) * r},
		Scattered:   cubePoint(rng, photoScatter),
		Orientation: facing.Mul(tiltZ).Mul(tiltX).Normalize(),
	}
}
