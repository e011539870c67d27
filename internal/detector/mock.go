package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

func rightHand() HandLandmarks {
	return HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}
}

// curledFingers places middle, ring and pinky folded back toward the palm.
func curledFingers(lm *HandLandmarks) {
	lm.Points[MiddleMCP] = Point3D{X: 0.51, Y: 0.67, Z: -0.02}
	lm.Points[MiddlePIP] = Point3D{X: 0.51, Y: 0.64, Z: -0.05}
	lm.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.69, Z: -0.05}
	lm.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.74, Z: -0.03}

	lm.Points[RingMCP] = Point3D{X: 0.46, Y: 0.68, Z: -0.02}
	lm.Points[RingPIP] = Point3D{X: 0.46, Y: 0.65, Z: -0.05}
	lm.Points[RingDIP] = Point3D{X: 0.46, Y: 0.70, Z: -0.05}
	lm.Points[RingTip] = Point3D{X: 0.46, Y: 0.75, Z: -0.03}

	lm.Points[PinkyMCP] = Point3D{X: 0.41, Y: 0.70, Z: -0.02}
	lm.Points[PinkyPIP] = Point3D{X: 0.41, Y: 0.67, Z: -0.04}
	lm.Points[PinkyDIP] = Point3D{X: 0.42, Y: 0.72, Z: -0.04}
	lm.Points[PinkyTip] = Point3D{X: 0.42, Y: 0.76, Z: -0.03}
}

// FistLandmarks returns a closed fist: every finger curled, thumb folded
// across the fingers but clear of the index tip.
func FistLandmarks() HandLandmarks {
	lm := rightHand()

	lm.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	lm.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.76, Z: -0.01}
	lm.Points[ThumbMCP] = Point3D{X: 0.59, Y: 0.72, Z: -0.02}
	lm.Points[ThumbIP] = Point3D{X: 0.55, Y: 0.69, Z: -0.04}
	lm.Points[ThumbTip] = Point3D{X: 0.50, Y: 0.68, Z: -0.05}

	lm.Points[IndexMCP] = Point3D{X: 0.56, Y: 0.68, Z: -0.02}
	lm.Points[IndexPIP] = Point3D{X: 0.56, Y: 0.65, Z: -0.05}
	lm.Points[IndexDIP] = Point3D{X: 0.55, Y: 0.70, Z: -0.05}
	lm.Points[IndexTip] = Point3D{X: 0.55, Y: 0.74, Z: -0.03}

	curledFingers(&lm)

	return lm
}

// ThumbsUpLandmarks returns a thumbs up with the pinky slightly loose.
// It matches none of the tree gestures.
func ThumbsUpLandmarks() HandLandmarks {
	lm := rightHand()

	lm.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended upward (pointing up, Y decreases going up)
	lm.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.0}
	lm.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.65, Z: 0.0}
	lm.Points[ThumbIP] = Point3D{X: 0.58, Y: 0.50, Z: 0.0}
	lm.Points[ThumbTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	lm.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.70, Z: -0.02}
	lm.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.68, Z: -0.05}
	lm.Points[IndexDIP] = Point3D{X: 0.52, Y: 0.70, Z: -0.04}
	lm.Points[IndexTip] = Point3D{X: 0.50, Y: 0.72, Z: -0.02}

	lm.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.68, Z: -0.02}
	lm.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.66, Z: -0.05}
	lm.Points[MiddleDIP] = Point3D{X: 0.47, Y: 0.68, Z: -0.04}
	lm.Points[MiddleTip] = Point3D{X: 0.45, Y: 0.70, Z: -0.02}

	lm.Points[RingMCP] = Point3D{X: 0.45, Y: 0.70, Z: -0.02}
	lm.Points[RingPIP] = Point3D{X: 0.45, Y: 0.68, Z: -0.05}
	lm.Points[RingDIP] = Point3D{X: 0.42, Y: 0.70, Z: -0.04}
	lm.Points[RingTip] = Point3D{X: 0.40, Y: 0.72, Z: -0.02}

	lm.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.72, Z: -0.02}
	lm.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.70, Z: -0.05}
	lm.Points[PinkyDIP] = Point3D{X: 0.37, Y: 0.72, Z: -0.04}
	lm.Points[PinkyTip] = Point3D{X: 0.35, Y: 0.74, Z: -0.02}

	return lm
}

// OpenPalmLandmarks returns a preset HandLandmarks representing an open palm gesture.
// All fingers are extended outward.
func OpenPalmLandmarks() HandLandmarks {
	lm := rightHand()

	lm.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	lm.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	lm.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	lm.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	lm.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	lm.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	lm.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	lm.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	lm.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	lm.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	lm.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	lm.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	lm.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	lm.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	lm.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	lm.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	lm.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	lm.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	lm.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	lm.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	lm.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return lm
}

// PinchLandmarks returns an open hand with the thumb tip touching the index tip.
func PinchLandmarks() HandLandmarks {
	lm := OpenPalmLandmarks()

	lm.Points[ThumbMCP] = Point3D{X: 0.61, Y: 0.70, Z: 0.02}
	lm.Points[ThumbIP] = Point3D{X: 0.63, Y: 0.60, Z: 0.02}
	lm.Points[ThumbTip] = Point3D{X: 0.60, Y: 0.52, Z: 0.01}

	lm.Points[IndexPIP] = Point3D{X: 0.58, Y: 0.58, Z: 0.0}
	lm.Points[IndexDIP] = Point3D{X: 0.60, Y: 0.53, Z: 0.0}
	lm.Points[IndexTip] = Point3D{X: 0.61, Y: 0.50, Z: 0.0}

	return lm
}

// LShapeLandmarks returns the capture gesture: thumb out to the side, index
// pointing up, remaining fingers curled.
func LShapeLandmarks() HandLandmarks {
	lm := rightHand()

	lm.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	lm.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.77, Z: 0.01}
	lm.Points[ThumbMCP] = Point3D{X: 0.61, Y: 0.74, Z: 0.02}
	lm.Points[ThumbIP] = Point3D{X: 0.66, Y: 0.72, Z: 0.02}
	lm.Points[ThumbTip] = Point3D{X: 0.70, Y: 0.70, Z: 0.02}

	lm.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	lm.Points[IndexPIP] = Point3D{X: 0.56, Y: 0.56, Z: 0.0}
	lm.Points[IndexDIP] = Point3D{X: 0.57, Y: 0.45, Z: 0.0}
	lm.Points[IndexTip] = Point3D{X: 0.57, Y: 0.36, Z: 0.0}

	curledFingers(&lm)

	return lm
}
