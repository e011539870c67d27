package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeToggle mimics the app: enabling only sticks when tracking is available.
type fakeToggle struct {
	mu        sync.Mutex
	available bool
	enabled   bool
}

func (f *fakeToggle) IsEnabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled
}

func (f *fakeToggle) SetEnabled(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if enabled && !f.available {
		return
	}
	f.enabled = enabled
}

func TestGestureHandler_Get(t *testing.T) {
	handler := NewGestureHandler(&fakeToggle{available: true, enabled: true})

	req := httptest.NewRequest(http.MethodGet, "/api/gestures", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var response gestureStateResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !response.Enabled {
		t.Error("expected enabled = true")
	}
}

func TestGestureHandler_Put(t *testing.T) {
	tests := []struct {
		name        string
		available   bool
		body        string
		wantStatus  int
		wantEnabled bool
	}{
		{"disable", true, `{"enabled": false}`, http.StatusOK, false},
		{"enable", true, `{"enabled": true}`, http.StatusOK, true},
		{"enable without tracking", false, `{"enabled": true}`, http.StatusConflict, false},
		{"missing field", true, `{}`, http.StatusBadRequest, true},
		{"invalid json", true, `{not json`, http.StatusBadRequest, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toggle := &fakeToggle{available: tt.available, enabled: tt.available}
			handler := NewGestureHandler(toggle)

			req := httptest.NewRequest(http.MethodPut, "/api/gestures", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if got := toggle.IsEnabled(); got != tt.wantEnabled {
				t.Errorf("enabled = %v, want %v", got, tt.wantEnabled)
			}
		})
	}
}

func TestGestureHandler_MethodNotAllowed(t *testing.T) {
	handler := NewGestureHandler(&fakeToggle{})

	for _, method := range []string{http.MethodPost, http.MethodDelete, http.MethodPatch} {
		req := httptest.NewRequest(method, "/api/gestures", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
		}
	}
}
