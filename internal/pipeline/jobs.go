package pipeline

import (
	"sync"
	"time"
)

// JobStatus represents the state of a processing job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusExtracting  JobStatus = "extracting"
	StatusTranslating JobStatus = "translating"
	StatusSummarizing JobStatus = "summarizing"
	StatusRendering   JobStatus = "rendering"
	StatusCompleted   JobStatus = "completed"
	StatusPartial     JobStatus = "partial"
	StatusFailed      JobStatus = "failed"
)

// Mode selects which processing paths a job runs.
type Mode string

const (
	ModeTranslate Mode = "translate"
	ModeSummarize Mode = "summarize"
	ModeBoth      Mode = "both"
)

// SummarySource selects what text the summarizer reads when a job runs both
// paths.
type SummarySource string

const (
	SourceOriginal    SummarySource = "original"
	SourceTranslation SummarySource = "translation"
)

// Job tracks the state of a single document run.
type Job struct {
	mu sync.Mutex

	ID       string    `json:"job_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	Mode           Mode          `json:"mode"`
	TargetLanguage string        `json:"target_language,omitempty"`
	Instruction    string        `json:"instruction,omitempty"`
	SummarySource  SummarySource `json:"summary_source,omitempty"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	result   []byte
	errors   []string
}

// Progress tracks processing progress. Fraction and Label mirror the most
// recent sink update from the running stage.
type Progress struct {
	Fraction   float64  `json:"fraction"`
	Label      string   `json:"label"`
	TotalPages int      `json:"total_pages"`
	Errors     []string `json:"errors"`
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
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
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

// AddError records an error message on the job; this is the caller-visible
// error channel the pipeline stages report into.
func (j *Job) AddError(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, msg)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// HasErrors reports whether any stage recorded an error.
func (j *Job) HasErrors() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.errors) > 0
}

// ReportProgress records a progress-sink update. The signature matches
// progress.Func so a job can be handed to pipeline stages as their sink.
func (j *Job) ReportProgress(fraction float64, label string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Fraction = fraction
	j.Progress.Label = label
	j.UpdatedAt = time.Now()
}

// SetTotalPages records the extracted page count.
func (j *Job) SetTotalPages(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalPages = n
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// SetResult stores the rendered Markdown report and releases the upload
// bytes, which are no longer needed.
func (j *Job) SetResult(report []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = report
	j.fileData = nil
	j.UpdatedAt = time.Now()
}

// Result returns the rendered Markdown report, or nil if not finished.
func (j *Job) Result() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID             string        `json:"job_id"`
	Status         JobStatus     `json:"status"`
	Phase          string        `json:"phase"`
	Filename       string        `json:"filename"`
	Mode           Mode          `json:"mode"`
	TargetLanguage string        `json:"target_language,omitempty"`
	SummarySource  SummarySource `json:"summary_source,omitempty"`
	Progress       Progress      `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:             j.ID,
		Status:         j.Status,
		Phase:          j.Phase,
		Filename:       j.Filename,
		Mode:           j.Mode,
		TargetLanguage: j.TargetLanguage,
		SummarySource:  j.SummarySource,
		Progress: Progress{
			Fraction:   j.Progress.Fraction,
			Label:      j.Progress.Label,
			TotalPages: j.Progress.TotalPages,
			Errors:     errs,
		},
	}
}
