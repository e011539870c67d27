package scene

import (
	"errors"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrNotPhoto is returned when an override targets a particle that is not a photo.
var ErrNotPhoto = errors.New("particle is not a photo")

// ErrUnknownParticle is returned for ids the registry never issued.
var ErrUnknownParticle = errors.New("unknown particle")

// none marks an empty override slot.
const none = -1

// Registry owns every particle of the tree group. Particles are appended
// and never removed; a particle's ID is its index. At most one particle is
// zoomed and at most one is previewed at a time.
//
// A Registry is not safe for concurrent use; the render loop owns it.
type Registry struct {
	particles []Particle
	photos    []int
	zoomed    int
	preview   int
}

// NewRegistry creates an empty registry with room for n particles.
func NewRegistry(n int) *Registry {
	return &Registry{
		particles: make([]Particle, 0, n),
		zoomed:    none,
		preview:   none,
	}
}

// Add appends a particle at its scattered position and returns its ID.
func (r *Registry) Add(p Particle) int {
	return r.AddAt(p, p.scattered)
}

// AddAt appends a particle starting at pos, which may be the origin.
func (r *Registry) AddAt(p Particle, pos mgl64.Vec3) int {
	p.ID = len(r.particles)
	p.Position = pos
	if p.Scale == 0 {
		p.Scale = 1
	}
	if p.Orientation == (mgl64.Quat{}) {
		p.Orientation = mgl64.QuatIdent()
	}
	if p.spin == (mgl64.Quat{}) {
		p.spin = mgl64.QuatIdent()
	}
	r.particles = append(r.particles, p)
	if p.Kind == KindPhoto {
		r.photos = append(r.photos, p.ID)
	}
	return p.ID
}

// AddPhoto appends a photo particle placed at its gathered position.
func (r *Registry) AddPhoto(photoID string, pl Placement) int {
	return r.AddAt(Particle{
		Kind:        KindPhoto,
		Variant:     VariantPolaroid,
		Color:       ColorPaper,
		PhotoID:     photoID,
		Orientation: pl.Orientation,
		Scale:       1,
		gathered:    pl.Gathered,
		scattered:   pl.Scattered,
	}, pl.Gathered)
}

// Len returns the number of particles.
func (r *Registry) Len() int {
	return len(r.particles)
}

// Particle returns the particle with the given id, or nil.
func (r *Registry) Particle(id int) *Particle {
	if id < 0 || id >= len(r.particles) {
		return nil
	}
	return &r.particles[id]
}

// Particles exposes the backing slice for iteration. Callers must not
// append to it.
func (r *Registry) Particles() []Particle {
	return r.particles
}

// PhotoCount returns how many photo particles exist.
func (r *Registry) PhotoCount() int {
	return len(r.photos)
}

// SetZoomedRandom picks a random photo and zooms it. It fails when a zoom
// is already held or there are no photos.
func (r *Registry) SetZoomedRandom(rng *rand.Rand) (int, bool) {
	if r.zoomed != none || len(r.photos) == 0 {
		return none, false
	}
	r.zoomed = r.photos[rng.IntN(len(r.photos))]
	return r.zoomed, true
}

// ClearZoom releases the zoomed photo, if any.
func (r *Registry) ClearZoom() {
	r.zoomed = none
}

// Zoomed returns the zoomed particle id.
func (r *Registry) Zoomed() (int, bool) {
	return r.zoomed, r.zoomed != none
}

// SetPreview puts a photo in preview, replacing any previous preview.
func (r *Registry) SetPreview(id int) error {
	p := r.Particle(id)
	if p == nil {
		return ErrUnknownParticle
	}
	if p.Kind != KindPhoto {
		return ErrNotPhoto
	}
	r.preview = id
	return nil
}

// ClearPreview ends the preview, if any.
func (r *Registry) ClearPreview() {
	r.preview = none
}

// Preview returns the previewed particle id.
func (r *Registry) Preview() (int, bool) {
	return r.preview, r.preview != none
}

// Override reports which override, if any, drives a particle. Preview
// takes precedence over zoom.
func (r *Registry) Override(id int) Override {
	switch id {
	case r.preview:
		return OverridePreview
	case r.zoomed:
		return OverrideZoom
	}
	return OverrideNone
}

// Override is a per-particle target replacement.
type Override uint8

const (
	OverrideNone Override = iota
	OverrideZoom
	OverridePreview
)
