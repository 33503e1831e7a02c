package api

import (
	"encoding/json"
	"net/http"

	"github.com/kumoshiro/pitchcard/internal/layout"
)

type hoverRequest struct {
	Popup         layout.Rect `json:"popup"`
	Anchor        layout.Rect `json:"anchor"`
	ViewportWidth float64     `json:"viewport_width"`
}

type hoverResponse struct {
	State layout.State `json:"state"`
	Shift int          `json:"shift"`
}

// handleLayoutHover classifies tooltip placement for a hover entry.
func (s *Server) handleLayoutHover(w http.ResponseWriter, r *http.Request) {
	var req hoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.ViewportWidth <= 0 {
		jsonError(w, "viewport_width must be positive", http.StatusBadRequest)
		return
	}

	state, shift := layout.Place(req.Popup, req.Anchor, req.ViewportWidth)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(hoverResponse{State: state, Shift: shift})
}

type clampRequest struct {
	Popup         layout.Rect `json:"popup"`
	ViewportWidth float64     `json:"viewport_width"`
}

type clampResponse struct {
	Offset  float64 `json:"offset"`
	Clamped bool    `json:"clamped"`
}

// handleLayoutClamp computes the creation-time horizontal offset that
// keeps a popup inside the viewport.
func (s *Server) handleLayoutClamp(w http.ResponseWriter, r *http.Request) {
	var req clampRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.ViewportWidth <= 0 {
		jsonError(w, "viewport_width must be positive", http.StatusBadRequest)
		return
	}

	offset, clamped := layout.Clamp(req.Popup, req.ViewportWidth)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(clampResponse{Offset: offset, Clamped: clamped})
}
