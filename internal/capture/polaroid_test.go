package capture

import (
	"errors"
	"testing"
	"time"

	"gocv.io/x/gocv"
)

func TestCaption(t *testing.T) {
	got := Caption(time.Date(2026, time.December, 24, 20, 0, 0, 0, time.UTC))
	if got != "NOEL - 12/24/2026" {
		t.Errorf("Caption() = %q", got)
	}
}

func TestPolaroid_PictureSize(t *testing.T) {
	if got := NewPolaroid().PictureSize(); got != 464 {
		t.Errorf("PictureSize() = %d, want 464", got)
	}
}

func TestPolaroid_Compose(t *testing.T) {
	// A wide red frame: only the centre square should survive the crop.
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 200, 0), 480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	p := NewPolaroid()
	pr, err := p.Compose(&frame, Caption(time.Now()))
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if pr.Width != 512 || pr.Height != 630 {
		t.Errorf("print is %dx%d, want 512x630", pr.Width, pr.Height)
	}
	if len(pr.JPEG) == 0 {
		t.Fatal("expected JPEG data")
	}

	decoded, err := gocv.IMDecode(pr.JPEG, gocv.IMReadColor)
	if err != nil {
		t.Fatalf("IMDecode() error = %v", err)
	}
	defer decoded.Close()

	if decoded.Cols() != 512 || decoded.Rows() != 630 {
		t.Fatalf("decoded print is %dx%d, want 512x630", decoded.Cols(), decoded.Rows())
	}

	near := func(got uint8, want int) bool {
		d := int(got) - want
		return d > -16 && d < 16
	}

	// Paper in the corner.
	corner := decoded.GetVecbAt(5, 5)
	if !near(corner[0], 0xf7) || !near(corner[1], 0xfb) || !near(corner[2], 0xfd) {
		t.Errorf("corner pixel %v is not paper", corner)
	}

	// Picture in the middle: still red dominant.
	mid := decoded.GetVecbAt(24+232, 256)
	if int(mid[2]) < int(mid[0])+100 || int(mid[2]) < int(mid[1])+100 {
		t.Errorf("centre pixel %v is not red", mid)
	}

	// The source frame is untouched.
	src := frame.GetVecbAt(240, 320)
	if src[2] != 200 {
		t.Errorf("source frame modified: %v", src)
	}
}

func TestPolaroid_ComposeEmpty(t *testing.T) {
	p := NewPolaroid()

	if _, err := p.Compose(nil, "x"); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("Compose(nil) error = %v, want ErrEmptyFrame", err)
	}

	empty := gocv.NewMat()
	defer empty.Close()
	if _, err := p.Compose(&empty, "x"); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("Compose(empty) error = %v, want ErrEmptyFrame", err)
	}
}

func TestPolaroid_BadLayout(t *testing.T) {
	frame := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC3)
	defer frame.Close()

	p := NewPolaroid()
	p.Margin = 300
	if _, err := p.Compose(&frame, "x"); err == nil {
		t.Error("expected error for a layout with no picture area")
	}
}
