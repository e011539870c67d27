package capture

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"gocv.io/x/gocv"
)

// Print is a composed instant-film photo.
type Print struct {
	JPEG    []byte
	Width   int
	Height  int
	Caption string
	TakenAt time.Time
}

// Polaroid lays a webcam frame out as instant film: a centre square crop
// on warm paper with a caption in the wide bottom border.
type Polaroid struct {
	Width    int
	Height   int
	Margin   int
	CaptionY int // baseline offset below the picture

	Contrast   float64
	Brightness float64
	Saturation float64
}

// NewPolaroid returns the classic 512x630 layout.
func NewPolaroid() *Polaroid {
	return &Polaroid{
		Width:      512,
		Height:     630,
		Margin:     24,
		CaptionY:   85,
		Contrast:   1.1,
		Brightness: 1.1,
		Saturation: 1.2,
	}
}

var (
	paperColor = gocv.NewScalar(0xf7, 0xfb, 0xfd, 0) // #fdfbf7 in BGR
	inkColor   = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
)

const (
	captionFont      = gocv.FontHersheyTriplex
	captionScale     = 0.9
	captionThickness = 2
)

// Caption returns the label printed under a photo taken at t.
func Caption(t time.Time) string {
	return "NOEL - " + t.Format("1/2/2006")
}

// PictureSize returns the side of the square picture area.
func (p *Polaroid) PictureSize() int {
	return p.Width - 2*p.Margin
}

// Compose renders frame onto a new print. The frame is not modified.
func (p *Polaroid) Compose(frame *gocv.Mat, caption string) (*Print, error) {
	if frame == nil || frame.Empty() {
		return nil, ErrEmptyFrame
	}

	side := p.PictureSize()
	if side <= 0 || p.Height < p.Margin+side {
		return nil, fmt.Errorf("polaroid layout %dx%d with margin %d has no room for a picture", p.Width, p.Height, p.Margin)
	}

	cols, rows := frame.Cols(), frame.Rows()
	minDim := min(cols, rows)
	sx, sy := (cols-minDim)/2, (rows-minDim)/2

	crop := frame.Region(image.Rect(sx, sy, sx+minDim, sy+minDim))
	defer crop.Close()

	scaled := gocv.NewMat()
	defer scaled.Close()
	gocv.Resize(crop, &scaled, image.Pt(side, side), 0, 0, gocv.InterpolationArea)

	film := p.develop(scaled)
	defer film.Close()

	canvas := gocv.NewMatWithSizeFromScalar(paperColor, p.Height, p.Width, gocv.MatTypeCV8UC3)
	defer canvas.Close()

	window := canvas.Region(image.Rect(p.Margin, p.Margin, p.Margin+side, p.Margin+side))
	film.CopyTo(&window)
	window.Close()

	size := gocv.GetTextSize(caption, captionFont, captionScale, captionThickness)
	org := image.Pt((p.Width-size.X)/2, p.Margin+side+p.CaptionY)
	gocv.PutText(&canvas, caption, org, captionFont, captionScale, inkColor, captionThickness)

	data, err := EncodeJPEG(canvas)
	if err != nil {
		return nil, fmt.Errorf("encode polaroid: %w", err)
	}

	return &Print{
		JPEG:    data,
		Width:   p.Width,
		Height:  p.Height,
		Caption: caption,
		TakenAt: time.Now(),
	}, nil
}

// develop applies the film look: contrast and brightness as one linear
// map, then saturation by pushing away from the grey image.
func (p *Polaroid) develop(src gocv.Mat) gocv.Mat {
	alpha := p.Contrast * p.Brightness
	beta := 128 * (1 - p.Contrast) * p.Brightness

	lifted := gocv.NewMat()
	src.ConvertToWithParams(&lifted, gocv.MatTypeCV8UC3, float32(alpha), float32(beta))

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(lifted, &gray, gocv.ColorBGRToGray)
	grayBGR := gocv.NewMat()
	defer grayBGR.Close()
	gocv.CvtColor(gray, &grayBGR, gocv.ColorGrayToBGR)

	out := gocv.NewMat()
	gocv.AddWeighted(lifted, p.Saturation, grayBGR, 1-p.Saturation, 0, &out)
	lifted.Close()

	return out
}
