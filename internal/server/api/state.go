package api

import (
	"net/http"

	"github.com/ayusman/noel/internal/scene"
)

// StateSource publishes the most recently rendered frame.
type StateSource interface {
	Snapshot() *scene.Snapshot
}

// StateHandler serves a summary of the current frame at /api/state.
type StateHandler struct {
	source StateSource
}

// NewStateHandler creates a new StateHandler.
func NewStateHandler(src StateSource) *StateHandler {
	return &StateHandler{source: src}
}

// ServeHTTP implements the http.Handler interface.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := h.source.Snapshot()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "Scene not rendered yet")
		return
	}

	writeJSON(w, http.StatusOK, snap.Summary())
}
