package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kumoshiro/pitchcard/internal/accentdb"
	"github.com/kumoshiro/pitchcard/internal/fetch"
	"github.com/kumoshiro/pitchcard/internal/render"
)

// Worker processes a single queued job.
type Worker struct {
	renderer *render.Renderer
	db       *accentdb.DB
	fetcher  *fetch.Client
	log      *slog.Logger

	dictDir  string
	dictGlob string
}

func NewWorker(renderer *render.Renderer, db *accentdb.DB, fetcher *fetch.Client, log *slog.Logger, dictDir, dictGlob string) *Worker {
	return &Worker{
		renderer: renderer,
		db:       db,
		fetcher:  fetcher,
		log:      log,
		dictDir:  dictDir,
		dictGlob: dictGlob,
	}
}

// Process runs a job to completion.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "kind", job.Kind)

	switch job.Kind {
	case KindDeckRender:
		w.renderDeck(ctx, job, log)
	case KindDictImport:
		w.importDict(ctx, job, log)
	default:
		log.Error("unknown job kind")
		job.AddError(fmt.Sprintf("unknown job kind %q", job.Kind))
		job.SetStatus(StatusFailed, "dispatch")
	}
}

// renderDeck renders every card fragment in the job. A card that fails to
// render is recorded as an error and skipped; the remaining cards still
// render.
func (w *Worker) renderDeck(ctx context.Context, job *Job, log *slog.Logger) {
	job.SetStatus(StatusRendering, "rendering")

	cards := job.Cards()
	hadErrors := false
	for i, card := range cards {
		if ctx.Err() != nil {
			job.AddError(ctx.Err().Error())
			job.SetStatus(StatusFailed, "rendering")
			return
		}
		html, report, err := w.renderer.Card(card)
		if err != nil {
			log.Error("card render failed", "card", i, "error", err)
			job.AddError(fmt.Sprintf("card %d: %s", i, err))
			hadErrors = true
			continue
		}
		if len(report.Errors) > 0 {
			hadErrors = true
		}
		job.AddCardResult(CardResult{HTML: html, Report: report})
	}

	log.Info("deck render complete", "cards", len(cards), "errors", hadErrors)

	switch {
	case hadErrors && job.Snapshot().Progress.CardsRendered > 0:
		job.SetStatus(StatusPartial, "done")
	case hadErrors:
		job.SetStatus(StatusFailed, "rendering")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}

// importDict loads a formatted accent dictionary into the database. A job
// with a URL downloads one dictionary; without a URL, every dictionary
// matching the configured glob under the dictionary directory is imported.
// Each source is replaced wholesale: old rows for the source are cleared
// before the new rows land.
func (w *Worker) importDict(ctx context.Context, job *Job, log *slog.Logger) {
	url, source := job.ImportSpec()

	if url != "" {
		job.SetStatus(StatusImporting, "downloading")
		data, err := w.download(ctx, url, log)
		if err != nil {
			log.Error("dictionary download failed", "url", url, "error", err)
			job.AddError(fmt.Sprintf("download: %s", err))
			job.SetStatus(StatusFailed, "downloading")
			return
		}
		job.SetStatus(StatusImporting, "importing")
		n, err := w.importOne(ctx, bytes.NewReader(data), source)
		if err != nil {
			log.Error("dictionary import failed", "source", source, "error", err)
			job.AddError(fmt.Sprintf("import %s: %s", source, err))
			job.SetStatus(StatusFailed, "importing")
			return
		}
		job.AddImported(n)
		log.Info("dictionary imported", "source", source, "entries", n)
		job.SetStatus(StatusCompleted, "done")
		return
	}

	job.SetStatus(StatusImporting, "discovering")
	paths, err := accentdb.DiscoverDicts(w.dictDir, w.dictGlob)
	if err != nil {
		log.Error("dictionary discovery failed", "error", err)
		job.AddError(fmt.Sprintf("discover: %s", err))
		job.SetStatus(StatusFailed, "discovering")
		return
	}
	if len(paths) == 0 {
		job.AddError("no dictionaries found")
		job.SetStatus(StatusFailed, "discovering")
		return
	}

	job.SetStatus(StatusImporting, "importing")
	hadErrors := false
	for _, path := range paths {
		if ctx.Err() != nil {
			job.AddError(ctx.Err().Error())
			job.SetStatus(StatusFailed, "importing")
			return
		}
		src := source
		if src == "" {
			src = sourceName(path)
		}
		f, err := os.Open(path)
		if err != nil {
			log.Error("dictionary open failed", "path", path, "error", err)
			job.AddError(fmt.Sprintf("open %s: %s", path, err))
			hadErrors = true
			continue
		}
		n, err := w.importOne(ctx, f, src)
		f.Close()
		if err != nil {
			log.Error("dictionary import failed", "path", path, "error", err)
			job.AddError(fmt.Sprintf("import %s: %s", src, err))
			hadErrors = true
			continue
		}
		job.AddImported(n)
		log.Info("dictionary imported", "source", src, "entries", n)
	}

	switch {
	case hadErrors && job.Snapshot().Progress.EntriesImported > 0:
		job.SetStatus(StatusPartial, "done")
	case hadErrors:
		job.SetStatus(StatusFailed, "importing")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}

// download fetches a dictionary with backoff between retryable failures.
func (w *Worker) download(ctx context.Context, url string, log *slog.Logger) ([]byte, error) {
	var lastErr error
	for attempt := range MaxRetries {
		data, err := w.fetcher.Download(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !IsRetryable(err) {
			return nil, err
		}
		log.Warn("retryable download error", "attempt", attempt, "error", err)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// importOne parses one TSV dictionary and replaces its source's rows.
func (w *Worker) importOne(ctx context.Context, r io.Reader, source string) (int, error) {
	entries, err := accentdb.ReadTSV(r)
	if err != nil {
		return 0, err
	}
	if err := w.db.ClearSource(ctx, source); err != nil {
		return 0, err
	}
	if err := w.db.Insert(ctx, entries, source); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// sourceName derives a provider name from a dictionary file path.
func sourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
