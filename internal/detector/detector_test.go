package detector

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestFromPoints(t *testing.T) {
	t.Run("full hand is accepted", func(t *testing.T) {
		points := make([]Point3D, NumLandmarks)
		for i := range points {
			points[i] = Point3D{X: float64(i) * 0.01, Y: 0.5, Z: 0}
		}

		lm, ok := FromPoints(points, "Left", 0.8)
		if !ok {
			t.Fatal("expected full hand to be accepted")
		}
		if lm.Handedness != "Left" {
			t.Errorf("expected handedness Left, got %s", lm.Handedness)
		}
		if lm.Score != 0.8 {
			t.Errorf("expected score 0.8, got %f", lm.Score)
		}
		if math.Abs(lm.Points[PinkyTip].X-0.20) > epsilon {
			t.Errorf("expected pinky tip X 0.20, got %f", lm.Points[PinkyTip].X)
		}
	})

	t.Run("partial hand is rejected", func(t *testing.T) {
		points := make([]Point3D, NumLandmarks-1)
		if _, ok := FromPoints(points, "Right", 0.9); ok {
			t.Error("expected partial hand to be rejected")
		}
	})

	t.Run("extra points are ignored", func(t *testing.T) {
		points := make([]Point3D, NumLandmarks+3)
		points[NumLandmarks] = Point3D{X: 9, Y: 9, Z: 9}
		lm, ok := FromPoints(points, "Right", 0.9)
		if !ok {
			t.Fatal("expected hand to be accepted")
		}
		for i, p := range lm.Points {
			if p.X == 9 {
				t.Errorf("point %d picked up trailing data", i)
			}
		}
	})
}

func TestHandLandmarks_Dist2D(t *testing.T) {
	var lm HandLandmarks
	lm.Points[Wrist] = Point3D{X: 0.1, Y: 0.1, Z: 0.9}
	lm.Points[IndexTip] = Point3D{X: 0.4, Y: 0.5, Z: -0.9}

	got := lm.Dist2D(Wrist, IndexTip)
	if math.Abs(got-0.5) > epsilon {
		t.Errorf("expected distance 0.5 ignoring depth, got %f", got)
	}
	if lm.Dist2D(IndexTip, Wrist) != got {
		t.Error("expected distance to be symmetric")
	}
}

func TestParseResponse(t *testing.T) {
	full := `{"x":0.5,"y":0.5,"z":0}`
	points := func(n int) string {
		s := "["
		for i := 0; i < n; i++ {
			if i > 0 {
				s += ","
			}
			s += full
		}
		return s + "]"
	}

	tests := []struct {
		name        string
		line        string
		wantHands   int
		wantDropped int
		wantErr     bool
	}{
		{
			name:      "no hands",
			line:      `{"hands":[]}`,
			wantHands: 0,
		},
		{
			name:      "one full hand",
			line:      `{"hands":[{"points":` + points(21) + `,"handedness":"Right","score":0.9}]}`,
			wantHands: 1,
		},
		{
			name:        "partial hand dropped",
			line:        `{"hands":[{"points":` + points(12) + `,"handedness":"Right","score":0.9}]}`,
			wantHands:   0,
			wantDropped: 1,
		},
		{
			name: "mixed hands",
			line: `{"hands":[{"points":` + points(21) + `,"handedness":"Left","score":0.9},` +
				`{"points":` + points(3) + `,"handedness":"Right","score":0.7}]}`,
			wantHands:   1,
			wantDropped: 1,
		},
		{
			name:    "malformed",
			line:    `{"hands":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hands, dropped, err := parseResponse([]byte(tt.line))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(hands) != tt.wantHands {
				t.Errorf("expected %d hands, got %d", tt.wantHands, len(hands))
			}
			if dropped != tt.wantDropped {
				t.Errorf("expected %d dropped, got %d", tt.wantDropped, dropped)
			}
		})
	}
}

func TestMockDetector(t *testing.T) {
	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()
		expected := []HandLandmarks{OpenPalmLandmarks()}
		mock.SetHands(expected)

		hands, err := mock.Detect(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 1 {
			t.Fatalf("expected 1 hand, got %d", len(hands))
		}
		if hands[0].Handedness != "Right" {
			t.Errorf("expected handedness Right, got %s", hands[0].Handedness)
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()
		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		_, err := mock.Detect(nil)
		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
	})

	t.Run("counts calls", func(t *testing.T) {
		mock := NewMockDetector()
		for i := 0; i < 3; i++ {
			mock.Detect(nil)
		}
		if mock.Calls() != 3 {
			t.Errorf("expected 3 calls, got %d", mock.Calls())
		}
	})

	t.Run("close returns nil", func(t *testing.T) {
		if err := NewMockDetector().Close(); err != nil {
			t.Errorf("expected nil error on close, got %v", err)
		}
	})
}

// extended mirrors the ratio test the gesture classifier applies.
func extended(lm HandLandmarks, tip, mcp int) bool {
	return lm.Dist2D(tip, Wrist) > lm.Dist2D(mcp, Wrist)*1.2
}

func TestPresetGeometry(t *testing.T) {
	fingers := [4][2]int{
		{IndexTip, IndexMCP},
		{MiddleTip, MiddleMCP},
		{RingTip, RingMCP},
		{PinkyTip, PinkyMCP},
	}

	tests := []struct {
		name     string
		lm       HandLandmarks
		extended [4]bool
		pinched  bool
	}{
		{"fist", FistLandmarks(), [4]bool{false, false, false, false}, false},
		{"open palm", OpenPalmLandmarks(), [4]bool{true, true, true, true}, false},
		{"pinch", PinchLandmarks(), [4]bool{true, true, true, true}, true},
		{"l shape", LShapeLandmarks(), [4]bool{true, false, false, false}, false},
		{"thumbs up", ThumbsUpLandmarks(), [4]bool{false, false, false, true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, f := range fingers {
				if got := extended(tt.lm, f[0], f[1]); got != tt.extended[i] {
					t.Errorf("finger %d: expected extended=%v, got %v", i, tt.extended[i], got)
				}
			}
			pinched := tt.lm.Dist2D(ThumbTip, IndexTip) < 0.04
			if pinched != tt.pinched {
				t.Errorf("expected pinched=%v, got %v", tt.pinched, pinched)
			}
		})
	}
}
