package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kumoshiro/pitchcard/internal/accentdb"
	"github.com/kumoshiro/pitchcard/internal/api"
	"github.com/kumoshiro/pitchcard/internal/audio"
	"github.com/kumoshiro/pitchcard/internal/config"
	"github.com/kumoshiro/pitchcard/internal/fetch"
	"github.com/kumoshiro/pitchcard/internal/pipeline"
	"github.com/kumoshiro/pitchcard/internal/render"
	"github.com/kumoshiro/pitchcard/internal/tokenize"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("loading configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Accent database.
	db, err := accentdb.Open(cfg.DBPath)
	if err != nil {
		log.Error("opening accent database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Morphological analyzer for reading fallback.
	tok, err := tokenize.New()
	if err != nil {
		log.Error("loading tokenizer dictionary", "error", err)
		os.Exit(1)
	}

	renderer := render.New(log, cfg.InlineRubyBudget)
	fetcher := fetch.NewClient(cfg.FetchTimeout, cfg.FetchAttempts)
	audioSrc := audio.NewForvoClient(fetcher, audio.Config{
		Language:           cfg.AudioLanguage,
		PreferredUsernames: cfg.AudioPreferredUsers,
		PreferredCountries: cfg.AudioPreferredCountries,
		ShowGender:         true,
	})

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, renderer, db, fetcher, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, renderer, db, tok, audioSrc, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting pitchcard", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
