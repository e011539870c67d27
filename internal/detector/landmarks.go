// Package detector provides the hand landmark source used by the gesture pipeline.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a normalized keypoint: x and y in [0,1] image space, z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one detected hand. The array shape guarantees every
// keypoint role is present.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Dist2D returns the image-plane distance between two keypoints, ignoring depth.
func (h *HandLandmarks) Dist2D(a, b int) float64 {
	pa, pb := h.Points[a], h.Points[b]
	return math.Hypot(pa.X-pb.X, pa.Y-pb.Y)
}

// FromPoints builds a HandLandmarks from a variable-length keypoint list.
// It reports false when the list is too short to fill every role, so a
// partial frame can be treated as an absent hand.
func FromPoints(points []Point3D, handedness string, score float64) (HandLandmarks, bool) {
	lm := HandLandmarks{
		Handedness: handedness,
		Score:      score,
	}
	if len(points) < NumLandmarks {
		return lm, false
	}
	copy(lm.Points[:], points[:NumLandmarks])
	return lm, true
}
