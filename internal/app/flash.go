package app

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// flash is the white overlay that fades out after a capture. It is owned
// by the render loop.
type flash struct {
	tween *gween.Tween
	value float32
}

func (f *flash) trigger(d time.Duration) {
	if d <= 0 {
		return
	}
	f.tween = gween.New(1, 0, float32(d.Seconds()), ease.OutQuad)
	f.value = 1
}

// advance moves the fade forward by dt and returns the overlay opacity.
func (f *flash) advance(dt time.Duration) float64 {
	if f.tween == nil {
		return 0
	}
	v, done := f.tween.Update(float32(dt.Seconds()))
	f.value = v
	if done {
		f.tween = nil
		f.value = 0
	}
	return float64(f.value)
}
