package jobs

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a job id is unknown to the registry.
var ErrNotFound = errors.New("job not found")

// Registry is the in-memory job table. Reads return snapshot copies; every
// mutating method touches one job under the lock, which keeps the
// single-writer-per-job discipline of the pipeline safe against the
// concurrent status-polling reader.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*Job)}
}

// Create registers a new job in the received state and returns its id.
func (r *Registry) Create(inputPath, reviewID string, diarization bool) *Job {
	now := time.Now()
	job := &Job{
		ID:          uuid.NewString(),
		Status:      StatusReceived,
		InputPath:   inputPath,
		ReviewID:    reviewID,
		Diarization: diarization,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job
	return snapshot(job)
}

// Get returns a snapshot of the job, or ErrNotFound.
func (r *Registry) Get(id string) (*Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return snapshot(job), nil
}

// MarkConverted records that the canonical artifact exists.
func (r *Registry) MarkConverted(id string) {
	r.update(id, func(job *Job) {
		job.Status = StatusConverted
	})
}

// MarkTranscribing flags the single-call (unsegmented) transcription phase.
func (r *Registry) MarkTranscribing(id string) {
	r.update(id, func(job *Job) {
		job.Status = StatusTranscribing
	})
}

// BeginSegments fixes the segment count before any segment is processed.
func (r *Registry) BeginSegments(id string, total int) {
	r.update(id, func(job *Job) {
		job.SegmentsTotal = total
		job.SegmentsCompleted = 0
		job.Status = fmt.Sprintf("%s parte %d/%d", StatusTranscribing, 1, total)
	})
}

// AppendSegment appends one segment's text in order and advances progress.
// Called only after that segment's provider call returned successfully.
func (r *Registry) AppendSegment(id, text string) {
	r.update(id, func(job *Job) {
		if job.Transcript == "" {
			job.Transcript = text
		} else {
			job.Transcript += "\n" + text
		}
		job.SegmentsCompleted++
		next := job.SegmentsCompleted + 1
		if next > job.SegmentsTotal {
			next = job.SegmentsTotal
		}
		job.Status = fmt.Sprintf("%s parte %d/%d", StatusTranscribing, next, job.SegmentsTotal)
	})
}

// CompleteSingle records the whole-file transcription result: transcript
// and the 1/1 segment counters are set in one step.
func (r *Registry) CompleteSingle(id, text string) {
	r.update(id, func(job *Job) {
		job.Transcript = text
		job.SegmentsTotal = 1
		job.SegmentsCompleted = 1
	})
}

// Complete moves the job to its successful terminal state.
func (r *Registry) Complete(id string, metrics Metrics) {
	r.update(id, func(job *Job) {
		job.Status = StatusCompleted
		job.Ready = true
		job.Metrics = &metrics
	})
}

// Fail moves the job to its failed terminal state. A job that already
// failed keeps its first error.
func (r *Registry) Fail(id, message string) {
	r.update(id, func(job *Job) {
		if job.Terminal() {
			return
		}
		job.Status = StatusFailed
		job.Error = message
	})
}

func (r *Registry) update(id string, mutate func(*Job)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return
	}
	mutate(job)
	job.UpdatedAt = time.Now()
}

func snapshot(job *Job) *Job {
	copied := *job
	if job.Metrics != nil {
		metrics := *job.Metrics
		copied.Metrics = &metrics
	}
	return &copied
}
