package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"

	"github.com/julioantloga/transcricao-backend/internal/config"
	"github.com/julioantloga/transcricao-backend/internal/jobs"
	"github.com/julioantloga/transcricao-backend/internal/openai"
	"github.com/julioantloga/transcricao-backend/internal/review"
	"github.com/julioantloga/transcricao-backend/internal/store"
	"github.com/julioantloga/transcricao-backend/internal/transcription"
)

// setupJobs connects Redis and builds the queue manager around the
// in-memory registry and the pipeline.
func setupJobs(cfg *config.Config, registry *jobs.Registry, pipeline *transcription.Pipeline, logger *slog.Logger) (*jobs.Manager, error) {
	opt, err := redis.ParseURL(cfg.QueueRedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return jobs.NewManager(rdb, registry, pipeline, cfg.WorkerConcurrency, logger)
}

// setupRoutes wires the HTTP surface. Store-backed routes are registered
// only when persistence is configured.
func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	registry *jobs.Registry,
	manager *jobs.Manager,
	st *store.Store,
	oai *openai.Client,
	logger *slog.Logger,
) {
	router.GET("/health", handleHealth)

	router.POST("/transcribe", transcription.UploadHandler(registry, manager, transcription.UploadOptions{
		UploadDir:   cfg.UploadDir,
		MaxFileSize: cfg.MaxFileSize,
	}, logger))
	router.GET("/transcribe/:id", transcription.StatusHandler(registry))

	if st == nil {
		return
	}

	generator := review.NewGenerator(oai, cfg.ReviewModel, logger)
	router.POST("/review", review.Handler(generator, st, logger))

	chat := review.NewChatService(st, oai, cfg.ChatModel, logger)
	router.POST("/jobs/:id/chat", review.ChatHandler(chat, logger))

	store.RegisterRoutes(router, st)
}
