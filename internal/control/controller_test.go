package control

import (
	"sync"
	"testing"

	"github.com/ayusman/noel/internal/gesture"
)

type photoCount int

func (p photoCount) PhotoCount() int { return int(p) }

func hand(tag gesture.Tag) gesture.Reading {
	return gesture.Reading{Tag: tag, Present: true, WristX: 0.5, PinchDistance: 0.1}
}

func noHand() gesture.Reading {
	return gesture.Reading{Tag: gesture.TagNone}
}

func newTestController(photos int) *Controller {
	c := NewController(DefaultConfig(), photoCount(photos), NewCountdown())
	c.ForceMode(ModeTree)
	return c
}

func TestController_OpenHandScattersSameFrame(t *testing.T) {
	c := newTestController(0)

	res := c.Observe(hand(gesture.TagOpenHand))
	if res.Mode != ModeScatter {
		t.Errorf("expected SCATTER, got %s", res.Mode)
	}
	if !res.ModeChanged {
		t.Error("expected mode change to be reported")
	}
	if c.Mode() != ModeScatter {
		t.Errorf("expected controller mode SCATTER, got %s", c.Mode())
	}
}

func TestController_FistGathers(t *testing.T) {
	c := newTestController(0)
	c.Observe(hand(gesture.TagOpenHand))

	res := c.Observe(hand(gesture.TagFist))
	if res.Mode != ModeTree {
		t.Errorf("expected TREE, got %s", res.Mode)
	}
}

func TestController_PinchHold(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("below threshold does not zoom", func(t *testing.T) {
		c := newTestController(3)
		for i := 0; i < cfg.PinchHold; i++ {
			res := c.Observe(hand(gesture.TagPinch))
			if res.Actions.Has(ActionZoom) {
				t.Fatalf("zoom fired after %d frames", i+1)
			}
		}
		if c.Zoomed() {
			t.Error("expected no zoom")
		}
	})

	t.Run("threshold plus one zooms exactly once", func(t *testing.T) {
		c := newTestController(3)
		zooms := 0
		for i := 0; i < cfg.PinchHold+1; i++ {
			if c.Observe(hand(gesture.TagPinch)).Actions.Has(ActionZoom) {
				zooms++
			}
		}
		if zooms != 1 {
			t.Fatalf("expected 1 zoom, got %d", zooms)
		}

		// Holding longer keeps the latch.
		for i := 0; i < 20; i++ {
			if c.Observe(hand(gesture.TagPinch)).Actions.Has(ActionZoom) {
				t.Fatal("zoom fired again while latched")
			}
		}
	})

	t.Run("recall in tree keeps tree", func(t *testing.T) {
		c := newTestController(1)
		var zoomed bool
		for i := 0; i < cfg.PinchHold+1; i++ {
			res := c.Observe(hand(gesture.TagPinch))
			zoomed = zoomed || res.Actions.Has(ActionZoom)
			if res.ModeChanged {
				t.Fatalf("mode changed to %s on frame %d", res.Mode, i+1)
			}
		}
		if !zoomed || !c.Zoomed() {
			t.Fatal("expected zoom")
		}
		if c.Mode() != ModeTree {
			t.Errorf("expected TREE, got %s", c.Mode())
		}
		if !c.Mode().Gathered() {
			t.Error("expected particles to stay gathered")
		}
	})

	t.Run("recall in scatter focuses", func(t *testing.T) {
		c := newTestController(1)
		c.Observe(hand(gesture.TagOpenHand))
		for i := 0; i < cfg.PinchHold+1; i++ {
			c.Observe(hand(gesture.TagPinch))
		}
		if c.Mode() != ModeFocus {
			t.Errorf("expected FOCUS, got %s", c.Mode())
		}
	})

	t.Run("interrupted hold restarts", func(t *testing.T) {
		c := newTestController(3)
		for i := 0; i < cfg.PinchHold; i++ {
			c.Observe(hand(gesture.TagPinch))
		}
		c.Observe(noHand())
		if c.Observe(hand(gesture.TagPinch)).Actions.Has(ActionZoom) {
			t.Error("expected counter to restart after interruption")
		}
	})

	t.Run("no photos no zoom", func(t *testing.T) {
		c := newTestController(0)
		for i := 0; i < cfg.PinchHold*3; i++ {
			if c.Observe(hand(gesture.TagPinch)).Actions.Has(ActionZoom) {
				t.Fatal("zoom fired without photos")
			}
		}
		if c.Mode() == ModeFocus {
			t.Error("expected mode to stay out of FOCUS")
		}
	})
}

func TestController_ResetClearsZoom(t *testing.T) {
	c := newTestController(1)
	for i := 0; i <= DefaultConfig().PinchHold; i++ {
		c.Observe(hand(gesture.TagPinch))
	}
	if !c.Zoomed() {
		t.Fatal("expected zoom")
	}

	res := c.Observe(hand(gesture.TagOpenHand))
	if !res.Actions.Has(ActionClearZoom) {
		t.Error("expected clear-zoom action")
	}
	if c.Zoomed() {
		t.Error("expected zoom latch released")
	}
	if res.Mode != ModeScatter {
		t.Errorf("expected SCATTER, got %s", res.Mode)
	}
}

func TestController_CaptureHold(t *testing.T) {
	cfg := DefaultConfig()
	c := newTestController(0)

	for i := 0; i < cfg.CaptureHold; i++ {
		if c.Observe(hand(gesture.TagLShape)).Actions.Has(ActionStartCountdown) {
			t.Fatalf("countdown started after %d frames", i+1)
		}
	}
	res := c.Observe(hand(gesture.TagLShape))
	if !res.Actions.Has(ActionStartCountdown) {
		t.Fatal("expected countdown to start")
	}
	if got := c.Countdown().Remaining(); got != cfg.CountdownSteps {
		t.Errorf("expected %d remaining, got %d", cfg.CountdownSteps, got)
	}
	if _, capture := c.Counters(); capture != 0 {
		t.Errorf("expected capture counter reset, got %d", capture)
	}

	// L_SHAPE during a countdown neither counts nor restarts.
	for i := 0; i < cfg.CaptureHold*2; i++ {
		if c.Observe(hand(gesture.TagLShape)).Actions.Has(ActionStartCountdown) {
			t.Fatal("countdown restarted while active")
		}
	}
	if _, capture := c.Counters(); capture != 0 {
		t.Errorf("expected capture counter to stay 0, got %d", capture)
	}
}

func TestController_CountdownCancel(t *testing.T) {
	start := func(c *Controller) {
		for i := 0; i <= c.cfg.CaptureHold; i++ {
			c.Observe(hand(gesture.TagLShape))
		}
		if !c.Countdown().Active() {
			t.Fatal("expected countdown to be active")
		}
	}

	t.Run("cancel on reset", func(t *testing.T) {
		c := newTestController(0)
		start(c)
		res := c.Observe(hand(gesture.TagFist))
		if !res.Actions.Has(ActionCancelCountdown) {
			t.Error("expected cancel action")
		}
		if c.Countdown().Active() {
			t.Error("expected countdown cancelled")
		}
	})

	t.Run("keep running when disabled", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.CancelOnReset = false
		c := NewController(cfg, photoCount(0), nil)
		c.ForceMode(ModeTree)
		start(c)
		res := c.Observe(hand(gesture.TagOpenHand))
		if res.Actions.Has(ActionCancelCountdown) {
			t.Error("unexpected cancel action")
		}
		if !c.Countdown().Active() {
			t.Error("expected countdown to keep running")
		}
	})
}

func TestController_AbsentHandIsInert(t *testing.T) {
	c := newTestController(2)
	c.Observe(hand(gesture.TagOpenHand))
	for i := 0; i < 5; i++ {
		c.Observe(hand(gesture.TagPinch))
	}
	rotation := c.RotationSpeed()

	for i := 0; i < 100; i++ {
		res := c.Observe(noHand())
		if res.ModeChanged {
			t.Fatal("absent hand changed mode")
		}
		pinch, capture := c.Counters()
		if pinch != 0 || capture != 0 {
			t.Fatalf("counters not reset: pinch=%d capture=%d", pinch, capture)
		}
	}
	if c.Mode() != ModeScatter {
		t.Errorf("expected SCATTER, got %s", c.Mode())
	}
	if c.RotationSpeed() != rotation {
		t.Errorf("rotation changed without a hand: %f -> %f", rotation, c.RotationSpeed())
	}
}

func TestController_RotationSteering(t *testing.T) {
	c := newTestController(0)
	if got := c.RotationSpeed(); got != DefaultConfig().IdleRotation {
		t.Errorf("expected idle rotation, got %f", got)
	}

	r := hand(gesture.TagNone)
	r.WristX = 0.2
	res := c.Observe(r)
	want := (0.5 - 0.2) * DefaultConfig().RotationGain
	if diff := res.RotationSpeed - want; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("expected rotation %f, got %f", want, res.RotationSpeed)
	}
}

func TestController_Disabled(t *testing.T) {
	c := newTestController(1)
	c.SetEnabled(false)

	res := c.Observe(hand(gesture.TagOpenHand))
	if res.Mode != ModeTree || res.ModeChanged {
		t.Errorf("disabled controller changed mode to %s", res.Mode)
	}
	if c.Enabled() {
		t.Error("expected disabled")
	}

	c.SetEnabled(true)
	if res := c.Observe(hand(gesture.TagOpenHand)); res.Mode != ModeScatter {
		t.Errorf("expected SCATTER after re-enable, got %s", res.Mode)
	}
}

func TestController_OnModeChange(t *testing.T) {
	c := NewController(DefaultConfig(), photoCount(0), nil)

	var mu sync.Mutex
	var transitions [][2]Mode
	c.OnModeChange = func(from, to Mode) {
		mu.Lock()
		defer mu.Unlock()
		transitions = append(transitions, [2]Mode{from, to})
	}

	c.ForceMode(ModeScatter)
	c.Observe(hand(gesture.TagOpenHand)) // no change
	c.Observe(hand(gesture.TagFist))

	mu.Lock()
	defer mu.Unlock()
	want := [][2]Mode{{ModeLoading, ModeScatter}, {ModeScatter, ModeTree}}
	if len(transitions) != len(want) {
		t.Fatalf("expected %d transitions, got %v", len(want), transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition %d: expected %v, got %v", i, want[i], transitions[i])
		}
	}
}

func TestAction_String(t *testing.T) {
	tests := []struct {
		a    Action
		want string
	}{
		{0, "none"},
		{ActionZoom, "zoom"},
		{ActionClearZoom | ActionCancelCountdown, "clear-zoom|cancel-countdown"},
	}
	for _, tt := range tests {
		if got := tt.a.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}
