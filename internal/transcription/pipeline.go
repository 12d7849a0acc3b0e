// Package transcription drives a submitted audio job through conversion,
// optional segmentation and per-segment transcription, publishing progress
// through the job registry.
package transcription

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julioantloga/transcricao-backend/internal/jobs"
	"github.com/julioantloga/transcricao-backend/internal/media"
)

// Generic client-facing failure; the real cause stays in server logs.
const errProcessing = "Erro ao processar áudio"

// Transcriber converts one audio artifact into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// TranscriptSaver persists the finished transcript against the job's
// correlation key.
type TranscriptSaver interface {
	SaveTranscript(ctx context.Context, reviewID, transcript string, metrics *jobs.Metrics) error
}

// Options are the policy knobs of the pipeline.
type Options struct {
	AllowedExtensions []string // lowercase, with leading dot
	ThresholdBytes    int64    // converted size above which the job is segmented
	TmpDir            string   // parent for segment directories
}

// Pipeline is the per-job orchestrator. Each job is processed by exactly
// one invocation of Process, which is the only writer of that job's
// registry record.
type Pipeline struct {
	registry    *jobs.Registry
	converter   *media.Converter
	prober      *media.Prober
	segmenter   *media.Segmenter
	transcriber Transcriber
	saver       TranscriptSaver
	opts        Options
	logger      *slog.Logger
}

func NewPipeline(
	registry *jobs.Registry,
	converter *media.Converter,
	prober *media.Prober,
	segmenter *media.Segmenter,
	transcriber Transcriber,
	saver TranscriptSaver,
	opts Options,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		registry:    registry,
		converter:   converter,
		prober:      prober,
		segmenter:   segmenter,
		transcriber: transcriber,
		saver:       saver,
		opts:        opts,
		logger:      logger,
	}
}

// cleanup tracks every transient artifact of one job. It is created before
// any branch of the pipeline runs so that the deferred release sees all
// paths regardless of which branch produced them.
type cleanup struct {
	original   string
	converted  string
	segmentDir string
}

// run removes transient artifacts. Failures are logged and never escalated:
// they must not mask a prior job error.
func (c *cleanup) run(logger *slog.Logger) {
	if c.original != "" && c.original != c.converted {
		if err := os.Remove(c.original); err != nil && !os.IsNotExist(err) {
			logger.Warn("cleanup: remove original failed", "path", c.original, "err", err)
		}
	}
	if c.converted != "" {
		if err := os.Remove(c.converted); err != nil && !os.IsNotExist(err) {
			logger.Warn("cleanup: remove converted failed", "path", c.converted, "err", err)
		}
	}
	if c.segmentDir != "" {
		if err := os.RemoveAll(c.segmentDir); err != nil {
			logger.Warn("cleanup: remove segment dir failed", "path", c.segmentDir, "err", err)
		}
	}
}

// Process runs the whole pipeline for one job: validate extension, convert,
// probe, segment when the converted artifact exceeds the threshold,
// transcribe each segment in order, aggregate, persist. All-or-nothing: any
// failure flips the job to its failed state and discards partial output.
func (p *Pipeline) Process(ctx context.Context, jobID string) error {
	job, err := p.registry.Get(jobID)
	if err != nil {
		return err
	}

	start := time.Now()
	tidy := &cleanup{original: job.InputPath}
	defer tidy.run(p.logger)

	ext := strings.ToLower(filepath.Ext(job.InputPath))
	if !extensionAllowed(p.opts.AllowedExtensions, ext) {
		// Rejected before any transcoding cost; the deferred cleanup
		// removes the upload.
		p.registry.Fail(jobID, jobs.ErrInvalidFormat)
		return fmt.Errorf("unsupported audio format %q", ext)
	}

	convStart := time.Now()
	conv, err := p.converter.Convert(ctx, job.InputPath)
	if err != nil {
		return p.fail(jobID, "conversion failed", err)
	}
	var conversionSeconds float64
	if !conv.Skipped {
		conversionSeconds = time.Since(convStart).Seconds()
	}
	tidy.converted = conv.Path
	p.registry.MarkConverted(jobID)

	audioSeconds := p.prober.Duration(ctx, conv.Path)

	info, err := os.Stat(conv.Path)
	if err != nil {
		return p.fail(jobID, "stat converted artifact failed", err)
	}

	transcriptionStart := time.Now()
	if info.Size() <= p.opts.ThresholdBytes {
		p.registry.MarkTranscribing(jobID)
		text, err := p.transcriber.Transcribe(ctx, conv.Path)
		if err != nil {
			return p.fail(jobID, "transcription failed", err)
		}
		p.registry.CompleteSingle(jobID, text)
	} else {
		dir, err := os.MkdirTemp(p.opts.TmpDir, "partes_*")
		if err != nil {
			return p.fail(jobID, "create segment dir failed", err)
		}
		tidy.segmentDir = dir

		segments, err := p.segmenter.Split(ctx, conv.Path, dir)
		if err != nil {
			return p.fail(jobID, "segmentation failed", err)
		}

		// Total is fixed before the first segment; progress advances only
		// after each segment's text has been appended, in ascending order.
		p.registry.BeginSegments(jobID, len(segments))
		for _, segment := range segments {
			text, err := p.transcriber.Transcribe(ctx, segment.Path)
			if err != nil {
				return p.fail(jobID, fmt.Sprintf("transcription of segment %d failed", segment.Index), err)
			}
			p.registry.AppendSegment(jobID, text)
		}
	}
	transcriptionSeconds := time.Since(transcriptionStart).Seconds()

	metrics := jobs.NewMetrics(audioSeconds, conversionSeconds, transcriptionSeconds, time.Since(start).Seconds())
	p.registry.Complete(jobID, metrics)

	final, err := p.registry.Get(jobID)
	if err != nil {
		return err
	}

	// Final save is best-effort: the transcript stays available through
	// status polling even when persistence misbehaves.
	if p.saver != nil && job.ReviewID != "" {
		if err := p.saver.SaveTranscript(ctx, job.ReviewID, final.Transcript, &metrics); err != nil {
			p.logger.Warn("persisting transcript failed", "job_id", jobID, "review_id", job.ReviewID, "err", err)
		}
	}

	p.logger.Info("job completed",
		"job_id", jobID,
		"segments", final.SegmentsTotal,
		"audio_seconds", audioSeconds,
		"total_seconds", metrics.TotalSeconds,
	)
	return nil
}

func (p *Pipeline) fail(jobID, stage string, err error) error {
	p.logger.Error("pipeline failed", "job_id", jobID, "stage", stage, "err", err)
	p.registry.Fail(jobID, errProcessing)
	return fmt.Errorf("%s: %w", stage, err)
}

func extensionAllowed(allowed []string, ext string) bool {
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}
