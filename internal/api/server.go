package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kumoshiro/pitchcard/internal/accentdb"
	"github.com/kumoshiro/pitchcard/internal/audio"
	"github.com/kumoshiro/pitchcard/internal/config"
	"github.com/kumoshiro/pitchcard/internal/pipeline"
	"github.com/kumoshiro/pitchcard/internal/render"
	"github.com/kumoshiro/pitchcard/internal/tokenize"
)

// Server is the HTTP API server for pitchcard.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	renderer     *render.Renderer
	db           *accentdb.DB
	tok          *tokenize.Tokenizer
	audio        *audio.ForvoClient
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, renderer *render.Renderer, db *accentdb.DB, tok *tokenize.Tokenizer, audioSrc *audio.ForvoClient, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		renderer:     renderer,
		db:           db,
		tok:          tok,
		audio:        audioSrc,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/render", s.handleRender)
		r.Post("/api/render/batch", s.handleRenderBatch)
		r.Get("/api/jobs/{jobID}/status", s.handleJobStatus)

		r.Get("/api/accents/{word}", s.handleAccentLookup)
		r.Post("/api/accents/import", s.handleAccentImport)

		r.Get("/api/audio/{word}", s.handleAudioLookup)

		r.Post("/api/layout/hover", s.handleLayoutHover)
		r.Post("/api/layout/clamp", s.handleLayoutClamp)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
