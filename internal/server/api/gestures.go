package api

import (
	"encoding/json"
	"net/http"
)

// GestureToggle turns hand gesture recognition on and off.
type GestureToggle interface {
	IsEnabled() bool
	SetEnabled(enabled bool)
}

// GestureHandler exposes the gesture on/off switch at /api/gestures.
type GestureHandler struct {
	toggle GestureToggle
}

// NewGestureHandler creates a new GestureHandler for the given toggle.
func NewGestureHandler(t GestureToggle) *GestureHandler {
	return &GestureHandler{toggle: t}
}

type gestureStateRequest struct {
	Enabled *bool `json:"enabled"`
}

type gestureStateResponse struct {
	Enabled bool `json:"enabled"`
}

// ServeHTTP implements the http.Handler interface.
func (h *GestureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, gestureStateResponse{Enabled: h.toggle.IsEnabled()})
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// update handles PUT /api/gestures. Enabling fails with 409 while hand
// tracking is unavailable.
func (h *GestureHandler) update(w http.ResponseWriter, r *http.Request) {
	var req gestureStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "enabled is required")
		return
	}

	h.toggle.SetEnabled(*req.Enabled)

	enabled := h.toggle.IsEnabled()
	if *req.Enabled && !enabled {
		writeError(w, http.StatusConflict, "Hand tracking unavailable")
		return
	}

	writeJSON(w, http.StatusOK, gestureStateResponse{Enabled: enabled})
}
