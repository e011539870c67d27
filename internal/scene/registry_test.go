package scene

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func testPlacement() Placement {
	return Placement{
		Gathered:    mgl64.Vec3{5, 0, 0},
		Scattered:   mgl64.Vec3{0, 40, 0},
		Orientation: mgl64.QuatIdent(),
	}
}

func TestRegistry_AddAssignsIDs(t *testing.T) {
	reg := NewRegistry(0)
	for i := 0; i < 5; i++ {
		id := reg.Add(Particle{Kind: KindOrnament, scattered: mgl64.Vec3{1, 2, 3}})
		if id != i {
			t.Errorf("expected id %d, got %d", i, id)
		}
	}

	p := reg.Particle(2)
	if p == nil {
		t.Fatal("expected particle 2")
	}
	if p.Position != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("expected particle to start scattered, got %v", p.Position)
	}
	if p.Scale != 1 {
		t.Errorf("expected unit scale, got %f", p.Scale)
	}
	if reg.Particle(-1) != nil || reg.Particle(5) != nil {
		t.Error("expected nil for out of range ids")
	}
}

func TestRegistry_AddAtOrigin(t *testing.T) {
	reg := NewRegistry(0)
	id := reg.AddAt(Particle{Kind: KindOrnament, scattered: mgl64.Vec3{0, 40, 0}}, mgl64.Vec3{})

	if got := reg.Particle(id).Position; got != (mgl64.Vec3{}) {
		t.Errorf("expected particle to stay at the origin, got %v", got)
	}

	// Add ignores any preset position.
	id = reg.Add(Particle{Kind: KindOrnament, Position: mgl64.Vec3{9, 9, 9}, scattered: mgl64.Vec3{0, 40, 0}})
	if got := reg.Particle(id).Position; got != (mgl64.Vec3{0, 40, 0}) {
		t.Errorf("expected particle to start scattered, got %v", got)
	}
}

func TestRegistry_AddPhoto(t *testing.T) {
	reg := NewRegistry(0)
	reg.Add(Particle{Kind: KindOrnament})

	id := reg.AddPhoto("abc", testPlacement())
	p := reg.Particle(id)
	if p.Kind != KindPhoto || p.PhotoID != "abc" {
		t.Errorf("unexpected photo particle %+v", p)
	}
	if p.Position != p.Gathered() {
		t.Error("expected photo to start at its gathered position")
	}
	if reg.PhotoCount() != 1 {
		t.Errorf("expected 1 photo, got %d", reg.PhotoCount())
	}
}

func TestRegistry_Zoom(t *testing.T) {
	rng := NewRand(7)
	reg := NewRegistry(0)
	reg.Add(Particle{Kind: KindOrnament})

	if _, ok := reg.SetZoomedRandom(rng); ok {
		t.Fatal("zoom should fail without photos")
	}

	a := reg.AddPhoto("a", testPlacement())
	b := reg.AddPhoto("b", testPlacement())

	id, ok := reg.SetZoomedRandom(rng)
	if !ok {
		t.Fatal("expected zoom")
	}
	if id != a && id != b {
		t.Errorf("zoomed a non-photo particle %d", id)
	}
	if _, ok := reg.SetZoomedRandom(rng); ok {
		t.Error("second zoom should fail while one is held")
	}

	zoomed := 0
	for _, p := range reg.Particles() {
		if reg.Override(p.ID) == OverrideZoom {
			zoomed++
		}
	}
	if zoomed != 1 {
		t.Errorf("expected exactly one zoomed particle, got %d", zoomed)
	}

	reg.ClearZoom()
	if _, ok := reg.Zoomed(); ok {
		t.Error("expected zoom cleared")
	}
}

func TestRegistry_Preview(t *testing.T) {
	reg := NewRegistry(0)
	orn := reg.Add(Particle{Kind: KindOrnament})
	photo := reg.AddPhoto("p", testPlacement())

	if err := reg.SetPreview(orn); !errors.Is(err, ErrNotPhoto) {
		t.Errorf("expected ErrNotPhoto, got %v", err)
	}
	if err := reg.SetPreview(99); !errors.Is(err, ErrUnknownParticle) {
		t.Errorf("expected ErrUnknownParticle, got %v", err)
	}
	if err := reg.SetPreview(photo); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id, ok := reg.Preview(); !ok || id != photo {
		t.Errorf("expected preview %d, got %d", photo, id)
	}

	reg.ClearPreview()
	if _, ok := reg.Preview(); ok {
		t.Error("expected preview cleared")
	}
}

func TestRegistry_OverridePrecedence(t *testing.T) {
	reg := NewRegistry(0)
	photo := reg.AddPhoto("p", testPlacement())
	other := reg.Add(Particle{Kind: KindOrnament})

	if _, ok := reg.SetZoomedRandom(NewRand(1)); !ok {
		t.Fatal("expected zoom")
	}
	if got := reg.Override(photo); got != OverrideZoom {
		t.Errorf("expected zoom override, got %d", got)
	}

	reg.SetPreview(photo)
	if got := reg.Override(photo); got != OverridePreview {
		t.Errorf("expected preview to win, got %d", got)
	}
	if got := reg.Override(other); got != OverrideNone {
		t.Errorf("expected no override, got %d", got)
	}
}
