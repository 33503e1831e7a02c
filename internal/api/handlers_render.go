package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kumoshiro/pitchcard/internal/pipeline"
	"github.com/kumoshiro/pitchcard/internal/render"
)

type renderRequest struct {
	Card          string `json:"card"`
	NotesMarkdown string `json:"notes_markdown,omitempty"`
}

type renderResponse struct {
	HTML      string        `json:"html"`
	NotesHTML string        `json:"notes_html,omitempty"`
	Report    render.Report `json:"report"`
}

// handleRender renders one card fragment synchronously.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxRequestBytes)

	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Card == "" {
		jsonError(w, "card is required", http.StatusBadRequest)
		return
	}

	html, report, err := s.renderer.Card(req.Card)
	if err != nil {
		jsonError(w, "render: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	resp := renderResponse{HTML: html, Report: report}
	if req.NotesMarkdown != "" {
		notes, err := s.renderer.Notes(req.NotesMarkdown)
		if err != nil {
			jsonError(w, "notes: "+err.Error(), http.StatusUnprocessableEntity)
			return
		}
		resp.NotesHTML = notes
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

type batchRequest struct {
	Cards []string `json:"cards"`
}

// handleRenderBatch queues a whole deck as one async job.
func (s *Server) handleRenderBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxRequestBytes)

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Cards) == 0 {
		jsonError(w, "at least one card is required", http.StatusBadRequest)
		return
	}

	job := pipeline.NewDeckJob(req.Cards)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"cards":    len(req.Cards),
		"poll_url": fmt.Sprintf("/api/jobs/%s/status", job.ID),
	})
}

// handleJobStatus serves snapshots for render and import jobs alike.
func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
