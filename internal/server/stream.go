package server

import (
	"fmt"
	"net/http"
	"time"
)

// streamInterval paces MJPEG parts (~15 FPS).
const streamInterval = 66 * time.Millisecond

// CameraViewSource provides the mirrored camera preview as JPEG, or nil
// while the preview is hidden.
type CameraViewSource interface {
	CameraView() []byte
}

// StreamHandler serves the camera preview as an MJPEG stream.
type StreamHandler struct {
	source CameraViewSource
}

// NewStreamHandler creates a new StreamHandler with the given source.
func NewStreamHandler(source CameraViewSource) *StreamHandler {
	return &StreamHandler{source: source}
}

// ServeHTTP streams MJPEG frames to connected clients. Parts are only
// written when the preview changes.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	var last *byte
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		data := h.source.CameraView()
		if len(data) == 0 || &data[0] == last {
			continue
		}
		last = &data[0]

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(data))
		if _, err := w.Write(data); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
