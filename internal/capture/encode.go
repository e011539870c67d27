package capture

import (
	"image"

	"gocv.io/x/gocv"
)

// EncodeJPEG encodes mat and copies the result out of native memory.
func EncodeJPEG(mat gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, mat)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return data, nil
}

// Mirror encodes a horizontally flipped copy of frame, scaled down to
// width when the frame is wider. It is the selfie view shown while the
// user lines up a photo.
func Mirror(frame *gocv.Mat, width int) ([]byte, error) {
	if frame == nil || frame.Empty() {
		return nil, ErrEmptyFrame
	}

	flipped := gocv.NewMat()
	defer flipped.Close()
	gocv.Flip(*frame, &flipped, 1)

	if width <= 0 || width >= flipped.Cols() {
		return EncodeJPEG(flipped)
	}

	height := flipped.Rows() * width / flipped.Cols()
	scaled := gocv.NewMat()
	defer scaled.Close()
	gocv.Resize(flipped, &scaled, image.Pt(width, height), 0, 0, gocv.InterpolationArea)

	return EncodeJPEG(scaled)
}
