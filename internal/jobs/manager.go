package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const (
	taskTypeProcess = "transcription:process"
	queueName       = "transcription"
)

// Processor runs the full pipeline for one job and records the terminal
// state in the registry itself.
type Processor interface {
	Process(ctx context.Context, jobID string) error
}

// Manager owns the asynq client and worker server. Redis carries only the
// work signal; job state never leaves the in-memory registry, so a task is
// enqueued with MaxRetry(0): one provider failure fails the job exactly
// once, never twice.
type Manager struct {
	client    *asynq.Client
	server    *asynq.Server
	mux       *asynq.ServeMux
	registry  *Registry
	processor Processor
	logger    *slog.Logger
}

// TaskPayload is the queued unit of work.
type TaskPayload struct {
	JobID string `json:"jobId"`
}

// NewManager wires the queue around a shared Redis client.
func NewManager(rdb redis.UniversalClient, registry *Registry, processor Processor, concurrency int, logger *slog.Logger) (*Manager, error) {
	if registry == nil {
		return nil, errors.New("registry is nil")
	}
	if processor == nil {
		return nil, errors.New("processor is nil")
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	if logger == nil {
		logger = slog.Default()
	}

	client := asynq.NewClientFromRedisClient(rdb)
	server := asynq.NewServerFromRedisClient(
		rdb,
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				queueName: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	m := &Manager{
		client:    client,
		server:    server,
		mux:       mux,
		registry:  registry,
		processor: processor,
		logger:    logger,
	}
	mux.HandleFunc(taskTypeProcess, m.handleProcessTask)
	return m, nil
}

// StartWorkers runs the asynq server in the background.
func (m *Manager) StartWorkers() {
	go func() {
		if err := m.server.Run(m.mux); err != nil && err != asynq.ErrServerClosed {
			m.logger.Error("asynq server stopped", "err", err)
		}
	}()
}

// Shutdown stops workers and closes the queue client.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.server.Shutdown()
	return m.client.Close()
}

// Enqueue schedules background processing for an already-registered job.
func (m *Manager) Enqueue(ctx context.Context, jobID string) error {
	if jobID == "" {
		return fmt.Errorf("jobID is required")
	}
	body, err := json.Marshal(TaskPayload{JobID: jobID})
	if err != nil {
		return err
	}
	task := asynq.NewTask(taskTypeProcess, body, asynq.Queue(queueName))
	_, err = m.client.EnqueueContext(ctx, task, asynq.MaxRetry(0))
	return err
}

func (m *Manager) handleProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload TaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}
	if payload.JobID == "" {
		return fmt.Errorf("missing jobId in payload")
	}

	// The pipeline records its own terminal state; the returned error only
	// feeds queue-side logging.
	if err := m.processor.Process(ctx, payload.JobID); err != nil {
		m.logger.Error("job processing failed", "job_id", payload.JobID, "err", err)
		return err
	}
	return nil
}
