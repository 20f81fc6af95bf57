package pipeline

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/fern/internal/summarize"
)

// JobStatus represents the state of an async summarization job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusExtracting  JobStatus = "extracting"
	StatusSummarizing JobStatus = "summarizing"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
)

// Terminal reports whether no further transitions can happen.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job tracks one uploaded document through extraction and summarization.
type Job struct {
	mu sync.Mutex

	ID       string
	Filename string
	Label    string

	Status   JobStatus
	Progress Progress
	Summary  string
	Error    string

	CreatedAt time.Time
	UpdatedAt time.Time

	fileData []byte
	errors   []string
}

// Progress counts chunks as the summarizer reports them.
type Progress struct {
	TotalChunks      int      `json:"total_chunks"`
	ChunksSummarized int      `json:"chunks_summarized"`
	ChunksFailed     int      `json:"chunks_failed"`
	Errors           []string `json:"errors"`
}

// NewJob creates a queued job holding data. The label defaults to the
// filename.
func NewJob(filename, label string, data []byte) *Job {
	if label == "" {
		label = filename
	}
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Filename:  filename,
		Label:     label,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  data,
	}
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

func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes finished jobs that have not changed within the TTL. Jobs
// still queued or running stay pollable however long they wait.
func (s *JobStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		stale := job.Status.Terminal() && now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if stale {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}

func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

// Fail moves the job to failed with a client-facing message.
func (j *Job) Fail(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusFailed
	j.Error = msg
	j.fileData = nil
	j.UpdatedAt = time.Now()
}

// Complete records the summary and releases the upload bytes.
func (j *Job) Complete(res *summarize.Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusCompleted
	j.Summary = res.Summary
	j.fileData = nil
	j.UpdatedAt = time.Now()
}

func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// Planned implements summarize.Observer.
func (j *Job) Planned(total int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalChunks = total
	j.UpdatedAt = time.Now()
}

// ChunkDone implements summarize.Observer.
func (j *Job) ChunkDone(index int, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err != nil {
		j.Progress.ChunksFailed++
		j.errors = append(j.errors, fmt.Sprintf("chunk %d: %s", index, err))
		j.Progress.Errors = j.errors
	} else {
		j.Progress.ChunksSummarized++
	}
	j.UpdatedAt = time.Now()
}

func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Filename  string    `json:"filename"`
	Label     string    `json:"label"`
	Status    JobStatus `json:"status"`
	Progress  Progress  `json:"progress"`
	Summary   string    `json:"summary,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.errors))
	copy(errs, j.errors)
	return JobSnapshot{
		ID:       j.ID,
		Filename: j.Filename,
		Label:    j.Label,
		Status:   j.Status,
		Progress: Progress{
			TotalChunks:      j.Progress.TotalChunks,
			ChunksSummarized: j.Progress.ChunksSummarized,
			ChunksFailed:     j.Progress.ChunksFailed,
			Errors:           errs,
		},
		Summary:   j.Summary,
		Error:     j.Error,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}
