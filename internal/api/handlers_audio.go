package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kumoshiro/pitchcard/internal/audio"
)

type audioResponse struct {
	Word  string       `json:"word"`
	Files []audio.File `json:"files"`
}

// handleAudioLookup scrapes pronunciation sources for a word. The word
// page carries speaker metadata and is tried first; the search page is the
// fallback when it lists nothing.
func (s *Server) handleAudioLookup(w http.ResponseWriter, r *http.Request) {
	word := chi.URLParam(r, "word")
	if word == "" {
		jsonError(w, "word is required", http.StatusBadRequest)
		return
	}
	if s.audio == nil {
		jsonError(w, "audio source not configured", http.StatusServiceUnavailable)
		return
	}

	files, err := s.audio.Word(r.Context(), word)
	if err != nil {
		s.log.Error("audio word lookup failed", "word", word, "error", err)
		jsonError(w, "audio lookup failed", http.StatusBadGateway)
		return
	}
	if len(files) == 0 {
		files, err = s.audio.Search(r.Context(), word)
		if err != nil {
			s.log.Error("audio search failed", "word", word, "error", err)
			jsonError(w, "audio lookup failed", http.StatusBadGateway)
			return
		}
	}
	if files == nil {
		files = []audio.File{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(audioResponse{Word: word, Files: files})
}
