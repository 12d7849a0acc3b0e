package transcription

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/julioantloga/transcricao-backend/internal/jobs"
)

// Scheduler enqueues background processing for a registered job.
type Scheduler interface {
	Enqueue(ctx context.Context, jobID string) error
}

// UploadOptions configures the upload handler.
type UploadOptions struct {
	UploadDir   string
	MaxFileSize int64
}

// UploadHandler accepts a multipart audio upload, registers the job and
// schedules it, replying immediately with the job id.
func UploadHandler(registry *jobs.Registry, scheduler Scheduler, opts UploadOptions, logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		file, err := c.FormFile("audio")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Arquivo não enviado"})
			return
		}
		reviewID := strings.TrimSpace(c.PostForm("review_id"))
		if reviewID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "review_id é obrigatório"})
			return
		}
		if opts.MaxFileSize > 0 && file.Size > opts.MaxFileSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Arquivo excede o tamanho máximo"})
			return
		}
		diarization := c.PostForm("diarizacao") == "true"

		if err := os.MkdirAll(opts.UploadDir, 0o755); err != nil {
			logger.Error("create upload dir failed", "dir", opts.UploadDir, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errProcessing})
			return
		}

		// Unique stored name keeps concurrent jobs' paths disjoint.
		ext := strings.ToLower(filepath.Ext(file.Filename))
		storedPath := filepath.Join(opts.UploadDir, uuid.NewString()+ext)
		if err := c.SaveUploadedFile(file, storedPath); err != nil {
			logger.Error("store upload failed", "path", storedPath, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errProcessing})
			return
		}

		job := registry.Create(storedPath, reviewID, diarization)
		if err := scheduler.Enqueue(c.Request.Context(), job.ID); err != nil {
			logger.Error("enqueue failed", "job_id", job.ID, "err", err)
			registry.Fail(job.ID, errProcessing)
			if rmErr := os.Remove(storedPath); rmErr != nil && !os.IsNotExist(rmErr) {
				logger.Warn("remove upload after enqueue failure", "path", storedPath, "err", rmErr)
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": errProcessing})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{"id": job.ID})
	}
}

// StatusHandler reports the job's last-known state. The snapshot may lag
// the worker by one field set; that is acceptable for a polling surface.
func StatusHandler(registry *jobs.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		job, err := registry.Get(c.Param("id"))
		if err != nil {
			if errors.Is(err, jobs.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Job não encontrado"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": errProcessing})
			return
		}

		payload := gin.H{
			"status":            job.Status,
			"segmentsTotal":     job.SegmentsTotal,
			"segmentsCompleted": job.SegmentsCompleted,
			"ready":             job.Ready,
		}
		if job.Ready {
			payload["transcript"] = job.Transcript
		}
		if job.Error != "" {
			payload["error"] = job.Error
		}
		if job.Metrics != nil {
			payload["metrics"] = job.Metrics
		}
		c.JSON(http.StatusOK, payload)
	}
}
