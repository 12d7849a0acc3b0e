// Package jobs tracks transcription jobs from submission to terminal state
// and schedules their background execution.
//
// Job state lives exclusively in process memory: restarting the service
// loses every in-flight and finished job. The transcript of a completed job
// is persisted to the relational store; the job record itself is only a
// polling surface.
package jobs

import "time"

// Job status labels returned to polling clients.
const (
	StatusReceived     = "recebido"
	StatusConverted    = "convertido"
	StatusTranscribing = "transcrevendo"
	StatusCompleted    = "concluído"
	StatusFailed       = "falhou"
)

// ErrInvalidFormat is the client-facing failure for uploads outside the
// extension allow-list.
const ErrInvalidFormat = "Formato inválido"

// Metrics captures timing and efficiency of one finished job.
type Metrics struct {
	AudioSeconds         float64 `json:"audio"`
	ConversionSeconds    float64 `json:"converter"`
	TranscriptionSeconds float64 `json:"transcription"`
	TotalSeconds         float64 `json:"total"`
	// Efficiency is audio duration over total wall time. 0 when the total
	// is zero: the ratio is advisory and JSON cannot carry infinities.
	Efficiency float64 `json:"eficacia"`
}

// NewMetrics derives the efficiency ratio, guarding the degenerate
// zero-duration case.
func NewMetrics(audio, conversion, transcription, total float64) Metrics {
	m := Metrics{
		AudioSeconds:         audio,
		ConversionSeconds:    conversion,
		TranscriptionSeconds: transcription,
		TotalSeconds:         total,
	}
	if total > 0 {
		m.Efficiency = audio / total
	}
	return m
}

// Job is one submitted transcription task. A Job value returned by the
// registry is a snapshot; the live record is mutated only by the single
// background task that owns it.
type Job struct {
	ID                string
	Status            string
	SegmentsTotal     int
	SegmentsCompleted int
	Ready             bool
	Transcript        string
	Error             string
	Metrics           *Metrics

	// ReviewID correlates the job with the interview review record that
	// receives the final transcript.
	ReviewID string
	// Diarization is recorded from the upload request; the current
	// provider path does not act on it.
	Diarization bool

	// InputPath is the stored upload the pipeline starts from.
	InputPath string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Terminal reports whether the job reached Completed or Failed.
func (j *Job) Terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}
