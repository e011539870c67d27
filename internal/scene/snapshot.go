package scene

import (
	"github.com/ayusman/noel/internal/control"
)

// ParticleState is the published transform of one particle.
type ParticleState struct {
	ID          int        `json:"id"`
	Kind        Kind       `json:"kind"`
	Variant     Variant    `json:"variant"`
	Color       uint32     `json:"color"`
	PhotoID     string     `json:"photoId,omitempty"`
	Position    [3]float64 `json:"position"`
	Orientation [4]float64 `json:"orientation"` // x, y, z, w
	Scale       float64    `json:"scale"`
	Emissive    float64    `json:"emissive,omitempty"`
}

// Snapshot is an immutable copy of everything a renderer needs for one frame.
type Snapshot struct {
	Frame     uint64          `json:"frame"`
	Mode      control.Mode    `json:"mode"`
	Yaw       float64         `json:"yaw"`
	Particles []ParticleState `json:"particles"`
	Dust      []float32       `json:"dust,omitempty"` // x, y, z triples
	Zoomed    int             `json:"zoomed"`         // -1 when none
	Preview   int             `json:"preview"`        // -1 when none
	Photos    int             `json:"photos"`

	Gesture     string  `json:"gesture"`
	HandPresent bool    `json:"handPresent"`
	Countdown   int     `json:"countdown"` // 0 when idle
	Flash       float64 `json:"flash"`     // capture flash opacity
	ShowCamera  bool    `json:"showCamera"`
	Status      string  `json:"status,omitempty"`
}

// NewSnapshot copies the registry, the stepper's yaw and the dust field
// (which may be nil). Overlay fields are left for the caller.
func NewSnapshot(reg *Registry, dust *DustField, st *Stepper) *Snapshot {
	particles := reg.Particles()
	snap := &Snapshot{
		Particles: make([]ParticleState, len(particles)),
		Zoomed:    reg.zoomed,
		Preview:   reg.preview,
		Photos:    reg.PhotoCount(),
	}
	if st != nil {
		snap.Yaw = st.Yaw()
	}

	for i := range particles {
		p := &particles[i]
		snap.Particles[i] = ParticleState{
			ID:          p.ID,
			Kind:        p.Kind,
			Variant:     p.Variant,
			Color:       p.Color,
			PhotoID:     p.PhotoID,
			Position:    [3]float64{p.Position[0], p.Position[1], p.Position[2]},
			Orientation: [4]float64{p.Orientation.V[0], p.Orientation.V[1], p.Orientation.V[2], p.Orientation.W},
			Scale:       p.Scale,
			Emissive:    p.Emissive,
		}
	}

	if dust != nil {
		snap.Dust = make([]float32, 0, dust.Len()*3)
		for i := 0; i < dust.Len(); i++ {
			snap.Dust = append(snap.Dust, float32(dust.X[i]), float32(dust.Y[i]), float32(dust.Z[i]))
		}
	}

	return snap
}

// Summary is the small status view of a snapshot.
type Summary struct {
	Frame       uint64       `json:"frame"`
	Mode        control.Mode `json:"mode"`
	Gesture     string       `json:"gesture"`
	HandPresent bool         `json:"handPresent"`
	Countdown   int          `json:"countdown"`
	Zoomed      int          `json:"zoomed"`
	Preview     int          `json:"preview"`
	Photos      int          `json:"photos"`
	Particles   int          `json:"particles"`
	Dust        int          `json:"dust"`
	Status      string       `json:"status,omitempty"`
}

// Summary returns the status view without transforms.
func (s *Snapshot) Summary() Summary {
	return Summary{
		Frame:       s.Frame,
		Mode:        s.Mode,
		Gesture:     s.Gesture,
		HandPresent: s.HandPresent,
		Countdown:   s.Countdown,
		Zoomed:      s.Zoomed,
		Preview:     s.Preview,
		Photos:      s.Photos,
		Particles:   len(s.Particles),
		Dust:        len(s.Dust) / 3,
		Status:      s.Status,
	}
}
