package scene

import (
	"math"
	"testing"
)

func TestDustField_Bounds(t *testing.T) {
	d := NewDustField(NewRand(4), 500)
	for i := 0; i < d.Len(); i++ {
		if math.Abs(d.X[i]) > dustWidth/2 || math.Abs(d.Y[i]) > dustHeight/2 || math.Abs(d.Z[i]) > dustDepth/2 {
			t.Fatalf("point %d outside dust box", i)
		}
		if d.Velocity[i] < 0.1 || d.Velocity[i] >= 0.25 {
			t.Fatalf("point %d velocity %f out of range", i, d.Velocity[i])
		}
	}
}

func TestDustField_StepFallsAndSways(t *testing.T) {
	d := &DustField{
		X:        []float64{0},
		Y:        []float64{10},
		Z:        []float64{0},
		Velocity: []float64{0.2},
		Sway:     []float64{1},
	}

	d.Step()

	if math.Abs(d.Y[0]-9.8) > 1e-12 {
		t.Errorf("expected y 9.8, got %f", d.Y[0])
	}
	if math.Abs(d.Sway[0]-1.012) > 1e-12 {
		t.Errorf("expected sway 1.012, got %f", d.Sway[0])
	}
	if want := math.Sin(1.012) * 0.04; math.Abs(d.X[0]-want) > 1e-12 {
		t.Errorf("expected x %f, got %f", want, d.X[0])
	}
}

func TestDustField_WrapsAtFloor(t *testing.T) {
	d := &DustField{
		X:        []float64{3},
		Y:        []float64{DustFloor + 0.05},
		Z:        []float64{-7},
		Velocity: []float64{0.1},
		Sway:     []float64{2.5},
	}

	d.Step()

	if d.Y[0] != DustCeiling {
		t.Errorf("expected wrap to %f, got %f", DustCeiling, d.Y[0])
	}
	if math.Abs(d.Sway[0]-2.512) > 1e-12 {
		t.Errorf("expected sway to continue at 2.512, got %f", d.Sway[0])
	}
	if d.Z[0] != -7 {
		t.Errorf("expected z untouched, got %f", d.Z[0])
	}

	d.Step()
	if math.Abs(d.Y[0]-(DustCeiling-0.1)) > 1e-12 {
		t.Errorf("expected fall to resume from the ceiling, got %f", d.Y[0])
	}
}
