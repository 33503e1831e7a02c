package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kumoshiro/pitchcard/internal/accentdb"
	"github.com/kumoshiro/pitchcard/internal/pipeline"
)

type accentResponse struct {
	Word    string           `json:"word"`
	Reading string           `json:"reading,omitempty"`
	Entries []accentdb.Entry `json:"entries"`
}

// handleAccentLookup finds accent entries for a word. When no row matches
// the word directly, a katakana reading generated from the word is tried
// next, so conjugated or kanji-only headwords still resolve.
func (s *Server) handleAccentLookup(w http.ResponseWriter, r *http.Request) {
	word := chi.URLParam(r, "word")
	if word == "" {
		jsonError(w, "word is required", http.StatusBadRequest)
		return
	}

	entries, err := s.db.Search(r.Context(), word, s.cfg.PreferSource)
	if err != nil {
		s.log.Error("accent lookup failed", "word", word, "error", err)
		jsonError(w, "lookup failed", http.StatusInternalServerError)
		return
	}

	resp := accentResponse{Word: word, Entries: entries}
	if len(entries) == 0 && s.tok != nil {
		if reading := s.tok.Reading(word); reading != "" && reading != word {
			resp.Reading = reading
			entries, err = s.db.Search(r.Context(), reading, s.cfg.PreferSource)
			if err != nil {
				s.log.Error("accent lookup failed", "reading", reading, "error", err)
				jsonError(w, "lookup failed", http.StatusInternalServerError)
				return
			}
			resp.Entries = entries
		}
	}
	if resp.Entries == nil {
		resp.Entries = []accentdb.Entry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

type importRequest struct {
	URL    string `json:"url,omitempty"`
	Source string `json:"source,omitempty"`
}

// handleAccentImport queues a dictionary import. With a URL the dictionary
// is downloaded; without one, the configured dictionary directory is
// scanned instead.
func (s *Server) handleAccentImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxRequestBytes)

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.URL != "" && req.Source == "" {
		jsonError(w, "source is required when url is set", http.StatusBadRequest)
		return
	}

	job := pipeline.NewImportJob(req.URL, req.Source)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/jobs/%s/status", job.ID),
	})
}
