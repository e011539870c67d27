// Package control debounces gestures into application modes and capture actions.
package control

// Mode is the arrangement the tree is animating toward.
type Mode string

const (
	// ModeLoading is held until hand tracking initialization settles.
	ModeLoading Mode = "LOADING"
	// ModeTree gathers every particle into the cone.
	ModeTree Mode = "TREE"
	// ModeScatter spreads particles through the room.
	ModeScatter Mode = "SCATTER"
	// ModeFocus is scatter with one photo recalled to the camera. It is
	// only entered from ModeScatter.
	ModeFocus Mode = "FOCUS"
)

// Gathered reports whether particles target their gathered positions in this mode.
func (m Mode) Gathered() bool {
	return m == ModeTree
}

// Action is a bit set of side effects the controller asks its owner to perform.
type Action uint8

const (
	// ActionZoom asks the registry to recall a random photo.
	ActionZoom Action = 1 << iota
	// ActionClearZoom releases the recalled photo.
	ActionClearZoom
	// ActionStartCountdown announces a freshly started capture countdown.
	ActionStartCountdown
	// ActionCancelCountdown announces that a running countdown was dropped.
	ActionCancelCountdown
)

// Has reports whether a is part of the set.
func (s Action) Has(a Action) bool {
	return s&a != 0
}

func (s Action) String() string {
	if s == 0 {
		return "none"
	}
	names := []struct {
		a    Action
		name string
	}{
		{ActionZoom, "zoom"},
		{ActionClearZoom, "clear-zoom"},
		{ActionStartCountdown, "start-countdown"},
		{ActionCancelCountdown, "cancel-countdown"},
	}
	out := ""
	for _, n := range names {
		if s.Has(n.a) {
			if out != "" {
				out += "|"
			}
			out += n.name
		}
	}
	return out
}
