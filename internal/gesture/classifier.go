// Package gesture turns hand landmarks into the discrete gestures that steer the tree.
package gesture

import (
	"github.com/ayusman/noel/internal/detector"
)

// Tag is a recognized hand pose.
type Tag string

const (
	// TagNone is reported when no hand is visible or the pose matches nothing.
	TagNone Tag = "NONE"
	// TagFist gathers the tree.
	TagFist Tag = "FIST"
	// TagOpenHand scatters the tree.
	TagOpenHand Tag = "OPEN_HAND"
	// TagPinch recalls a photo.
	TagPinch Tag = "PINCH"
	// TagLShape starts a capture countdown.
	TagLShape Tag = "L_SHAPE"
)

// Thresholds holds the geometric cutoffs, in normalized image units.
type Thresholds struct {
	// ExtendRatio: a finger is extended when tip-wrist exceeds MCP-wrist by this factor.
	ExtendRatio float64
	// ThumbExtend is the minimum thumb tip to index MCP distance for an extended thumb.
	ThumbExtend float64
	// PinchDistance is the thumb tip to index tip distance below which a pinch is reported.
	PinchDistance float64
}

// DefaultThresholds returns the cutoffs the hold counters are tuned for.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ExtendRatio:   1.2,
		ThumbExtend:   0.05,
		PinchDistance: 0.04,
	}
}

// Reading is the classifier output for one frame.
type Reading struct {
	Tag           Tag
	Present       bool    // a hand was detected
	WristX        float64 // normalized wrist x, used to steer rotation
	PinchDistance float64 // thumb tip to index tip
}

// Classifier maps a single frame of landmarks to a Reading. It holds no
// state between frames.
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier creates a Classifier with the given thresholds.
func NewClassifier(t Thresholds) *Classifier {
	return &Classifier{thresholds: t}
}

var fingers = [4][2]int{
	{detector.IndexTip, detector.IndexMCP},
	{detector.MiddleTip, detector.MiddleMCP},
	{detector.RingTip, detector.RingMCP},
	{detector.PinkyTip, detector.PinkyMCP},
}

// Classify reports the gesture for one hand. A nil hand yields TagNone with
// Present unset.
//
// Priority: PINCH, FIST, OPEN_HAND, L_SHAPE, NONE.
func (c *Classifier) Classify(hand *detector.HandLandmarks) Reading {
	if hand == nil {
		return Reading{Tag: TagNone}
	}

	r := Reading{
		Present:       true,
		WristX:        hand.Points[detector.Wrist].X,
		PinchDistance: hand.Dist2D(detector.ThumbTip, detector.IndexTip),
	}

	var ext [4]bool
	extended := 0
	for i, f := range fingers {
		ext[i] = c.isExtended(hand, f[0], f[1])
		if ext[i] {
			extended++
		}
	}
	thumbOut := hand.Dist2D(detector.ThumbTip, detector.IndexMCP) > c.thresholds.ThumbExtend

	switch {
	case r.PinchDistance < c.thresholds.PinchDistance:
		r.Tag = TagPinch
	case extended == 0:
		r.Tag = TagFist
	case extended == 4:
		r.Tag = TagOpenHand
	case thumbOut && ext[0] && !ext[1] && !ext[2] && !ext[3]:
		r.Tag = TagLShape
	default:
		r.Tag = TagNone
	}

	return r
}

func (c *Classifier) isExtended(hand *detector.HandLandmarks, tip, mcp int) bool {
	return hand.Dist2D(tip, detector.Wrist) > hand.Dist2D(mcp, detector.Wrist)*c.thresholds.ExtendRatio
}

// First returns the first hand of a detection result, or nil.
func First(hands []detector.HandLandmarks) *detector.HandLandmarks {
	if len(hands) == 0 {
		return nil
	}
	return &hands[0]
}
