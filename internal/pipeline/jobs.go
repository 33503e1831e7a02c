package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kumoshiro/pitchcard/internal/render"
)

// JobKind distinguishes the two async workloads.
type JobKind string

const (
	KindDeckRender JobKind = "deck_render"
	KindDictImport JobKind = "dict_import"
)

// JobStatus represents the state of an async job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRendering JobStatus = "rendering"
	StatusImporting JobStatus = "importing"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusPartial   JobStatus = "partial"
)

// CardResult is one rendered card fragment with its report.
type CardResult struct {
	HTML   string        `json:"html"`
	Report render.Report `json:"report"`
}

// Progress tracks processing progress.
type Progress struct {
	TotalCards      int      `json:"total_cards,omitempty"`
	CardsRendered   int      `json:"cards_rendered,omitempty"`
	PitchPopups     int      `json:"pitch_popups,omitempty"`
	Tooltips        int      `json:"tooltips,omitempty"`
	EntriesImported int      `json:"entries_imported,omitempty"`
	Errors          []string `json:"errors"`
}

// Job tracks the state of one deck render or dictionary import.
type Job struct {
	mu sync.Mutex

	ID   string  `json:"job_id"`
	Kind JobKind `json:"kind"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	cards      []string
	results    []CardResult
	dictURL    string
	dictSource string
	errors     []string
}

// NewDeckJob creates a queued render job for a batch of card fragments.
func NewDeckJob(cards []string) *Job {
	now := time.Now()
	j := &Job{
		ID:        uuid.NewString(),
		Kind:      KindDeckRender,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
		cards:     cards,
	}
	j.Progress.TotalCards = len(cards)
	return j
}

// NewImportJob creates a queued dictionary import job. url may be empty,
// in which case the worker imports from the configured dictionary
// directory instead.
func NewImportJob(url, source string) *Job {
	now := time.Now()
	return &Job{
		ID:         uuid.NewString(),
		Kind:       KindDictImport,
		Status:     StatusQueued,
		Phase:      "queued",
		CreatedAt:  now,
		UpdatedAt:  now,
		dictURL:    url,
		dictSource: source,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// AddCardResult records one rendered card and updates progress counters.
func (j *Job) AddCardResult(res CardResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.results = append(j.results, res)
	j.Progress.CardsRendered++
	j.Progress.PitchPopups += res.Report.PitchPopups
	j.Progress.Tooltips += res.Report.Tooltips
	j.UpdatedAt = time.Now()
}

// AddImported adds to the imported-entry counter.
func (j *Job) AddImported(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.EntriesImported += n
	j.UpdatedAt = time.Now()
}

// Cards returns the card fragments to render.
func (j *Job) Cards() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cards
}

// ImportSpec returns the dictionary URL (may be empty) and provider name.
func (j *Job) ImportSpec() (url, source string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.dictURL, j.dictSource
}

// JobSnapshot is a read-only, JSON-safe copy of job state. Rendered card
// results are included once the job has finished.
type JobSnapshot struct {
	ID       string       `json:"job_id"`
	Kind     JobKind      `json:"kind"`
	Status   JobStatus    `json:"status"`
	Phase    string       `json:"phase"`
	Progress Progress     `json:"progress"`
	Results  []CardResult `json:"results,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	snap := JobSnapshot{
		ID:     j.ID,
		Kind:   j.Kind,
		Status: j.Status,
		Phase:  j.Phase,
		Progress: Progress{
			TotalCards:      j.Progress.TotalCards,
			CardsRendered:   j.Progress.CardsRendered,
			PitchPopups:     j.Progress.PitchPopups,
			Tooltips:        j.Progress.Tooltips,
			EntriesImported: j.Progress.EntriesImported,
			Errors:          errs,
		},
	}
	if j.Status == StatusCompleted || j.Status == StatusPartial {
		snap.Results = append([]CardResult(nil), j.results...)
	}
	return snap
}

// lastUpdate reads UpdatedAt under the job lock. Workers touch UpdatedAt
// while the store's cleanup pass runs, so an unlocked read would race.
func (j *Job) lastUpdate() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.lastUpdate()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
