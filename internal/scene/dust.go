package scene

import (
	"math"
	"math/rand/v2"
)

// Dust volume and motion.
const (
	DustFloor   = -120.0
	DustCeiling = 120.0

	dustWidth  = 250.0
	dustHeight = 200.0
	dustDepth  = 250.0

	dustSwayStep  = 0.012
	dustSwayDrift = 0.04
)

// DustField is the falling snow. It is stored as parallel slices because
// it holds thousands of points with no orientation or scale.
type DustField struct {
	X, Y, Z  []float64
	Velocity []float64
	Sway     []float64
}

// NewDustField scatters n points through the dust box.
func NewDustField(rng *rand.Rand, n int) *DustField {
	d := &DustField{
		X:        make([]float64, n),
		Y:        make([]float64, n),
		Z:        make([]float64, n),
		Velocity: make([]float64, n),
		Sway:     make([]float64, n),
	}
	for i := 0; i < n; i++ {
		d.X[i] = (rng.Float64() - 0.5) * dustWidth
		d.Y[i] = (rng.Float64() - 0.5) * dustHeight
		d.Z[i] = (rng.Float64() - 0.5) * dustDepth
		d.Velocity[i] = 0.1 + rng.Float64()*0.15
		d.Sway[i] = rng.Float64() * 2 * math.Pi
	}
	return d
}

// Len returns the number of points.
func (d *DustField) Len() int {
	return len(d.Y)
}

// Step advances every point by one frame. A point that falls below the
// floor wraps to the ceiling within the same step; its sway phase carries on.
func (d *DustField) Step() {
	for i := range d.Y {
		d.Y[i] -= d.Velocity[i]
		d.Sway[i] += dustSwayStep
		d.X[i] += math.Sin(d.Sway[i]) * dustSwayDrift
		if d.Y[i] < DustFloor {
			d.Y[i] = DustCeiling
		}
	}
}
