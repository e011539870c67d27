package control

import "testing"

func TestCountdown_Sequence(t *testing.T) {
	c := NewCountdown()
	if !c.Start(3) {
		t.Fatal("expected start from idle")
	}

	want := []struct {
		remaining int
		fired     bool
	}{
		{2, false},
		{1, false},
		{0, true},
	}
	last := c.Remaining()
	for i, w := range want {
		remaining, fired := c.Tick()
		if remaining != w.remaining || fired != w.fired {
			t.Errorf("tick %d: expected (%d, %v), got (%d, %v)", i+1, w.remaining, w.fired, remaining, fired)
		}
		if remaining >= last {
			t.Errorf("tick %d: countdown did not decrease", i+1)
		}
		last = remaining
	}

	if c.Active() {
		t.Error("expected idle after firing")
	}
	if remaining, fired := c.Tick(); remaining != 0 || fired {
		t.Error("idle tick should be a no-op")
	}
}

func TestCountdown_StartOnlyFromIdle(t *testing.T) {
	c := NewCountdown()
	c.Start(3)
	if c.Start(5) {
		t.Error("expected second start to be refused")
	}
	if c.Remaining() != 3 {
		t.Errorf("expected 3 remaining, got %d", c.Remaining())
	}
	if c.Start(0) {
		t.Error("expected zero-step start to be refused")
	}
}

func TestCountdown_Cancel(t *testing.T) {
	c := NewCountdown()
	if c.Cancel() {
		t.Error("cancel on idle should report false")
	}
	c.Start(3)
	c.Tick()
	if !c.Cancel() {
		t.Error("expected cancel to report a running countdown")
	}
	if c.Active() {
		t.Error("expected idle after cancel")
	}
	if !c.Start(3) {
		t.Error("expected restart after cancel")
	}
}
