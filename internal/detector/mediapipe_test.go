package detector

import (
	"os"
	"path/filepath"
	"testing"
)

// shellService writes a stand-in for the landmarker service and returns a
// detector that runs it with /bin/sh.
func shellService(t *testing.T, script string) *MediaPipeDetector {
	t.Helper()
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}

	path := filepath.Join(t.TempDir(), serviceScript)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}

	d := &MediaPipeDetector{config: DefaultConfig(), scriptPath: path, python: "/bin/sh"}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestMediaPipeDetector_WarmupFailsWhenServiceDies(t *testing.T) {
	// Stands in for a service whose imports fail at startup.
	d := shellService(t, "echo 'No module named mediapipe' >&2\nexit 1\n")

	if err := d.Warmup(); err == nil {
		t.Fatal("expected warmup error")
	}
	if d.started {
		t.Error("expected the process to be reaped after a failed warmup")
	}
}

func TestMediaPipeDetector_WarmupRoundTrip(t *testing.T) {
	d := shellService(t, "printf '{\"hands\":[]}\\n'\ncat >/dev/null\n")

	if err := d.Warmup(); err != nil {
		t.Fatalf("Warmup() error = %v", err)
	}
	if !d.started {
		t.Error("expected the service to stay running after warmup")
	}
	if d.idleTimer == nil {
		t.Error("expected warmup to arm the idle shutdown")
	}

	if err := d.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if d.started {
		t.Error("expected Close to stop the service")
	}
}

func TestMediaPipeDetector_GarbledReply(t *testing.T) {
	d := shellService(t, "echo 'Traceback (most recent call last):'\ncat >/dev/null\n")

	if err := d.Warmup(); err == nil {
		t.Fatal("expected warmup error for a non-JSON reply")
	}
}
