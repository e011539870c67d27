package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/noel/internal/store"
)

// PhotoHandler serves the photos captured this session.
type PhotoHandler struct {
	store *store.Store
}

// NewPhotoHandler creates a new PhotoHandler with the given store.
func NewPhotoHandler(s *store.Store) *PhotoHandler {
	return &PhotoHandler{store: s}
}

// ServeHTTP routes /api/photos and /api/photos/{id}.
func (h *PhotoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/photos")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		h.list(w, r)
		return
	}
	h.image(w, r, path)
}

type photoResponse struct {
	ID        string `json:"id"`
	Caption   string `json:"caption"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
}

type listPhotosResponse struct {
	Photos []photoResponse `json:"photos"`
}

func toPhotoResponse(p *store.Photo) photoResponse {
	return photoResponse{
		ID:        p.ID,
		Caption:   p.Caption,
		Width:     p.Width,
		Height:    p.Height,
		URL:       "/api/photos/" + p.ID,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

// list handles GET /api/photos, oldest first.
func (h *PhotoHandler) list(w http.ResponseWriter, r *http.Request) {
	photos, err := h.store.Photos().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list photos")
		return
	}

	response := listPhotosResponse{
		Photos: make([]photoResponse, 0, len(photos)),
	}
	for _, p := range photos {
		response.Photos = append(response.Photos, toPhotoResponse(p))
	}

	writeJSON(w, http.StatusOK, response)
}

// image handles GET /api/photos/{id} and returns the JPEG print.
func (h *PhotoHandler) image(w http.ResponseWriter, r *http.Request, id string) {
	photo, err := h.store.Photos().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Photo not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get photo")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(photo.JPEG)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(photo.JPEG)
}
