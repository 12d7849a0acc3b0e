// Package main is the API server entry point.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/julioantloga/transcricao-backend/internal/config"
	"github.com/julioantloga/transcricao-backend/internal/jobs"
	"github.com/julioantloga/transcricao-backend/internal/media"
	"github.com/julioantloga/transcricao-backend/internal/openai"
	"github.com/julioantloga/transcricao-backend/internal/store"
	"github.com/julioantloga/transcricao-backend/internal/transcription"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Relational store. Optional in local development; release mode
	// already validated the DSN.
	var st *store.Store
	if cfg.DatabaseURL != "" {
		st, err = store.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
	} else {
		logger.Warn("DATABASE_URL not set; running without persistence, review routes disabled")
	}

	registry := jobs.NewRegistry()
	runner := media.ExecRunner{}
	oai := openai.NewClient(openai.Config{
		APIKey:       cfg.OpenAIAPIKey,
		BaseURL:      cfg.OpenAIBaseURL,
		WhisperModel: cfg.WhisperModel,
		Language:     cfg.TranscriptionLanguage,
	})

	var saver transcription.TranscriptSaver
	if st != nil {
		saver = st
	}
	pipeline := transcription.NewPipeline(
		registry,
		media.NewConverter(cfg.FFmpegPath, runner),
		media.NewProber(cfg.FFprobePath, runner, logger),
		media.NewSegmenter(cfg.FFmpegPath, cfg.SegmentSeconds, runner),
		oai,
		saver,
		transcription.Options{
			AllowedExtensions: cfg.AllowedExtensions,
			ThresholdBytes:    cfg.SegmentThresholdBytes(),
			TmpDir:            cfg.TmpDir,
		},
		logger,
	)

	manager, err := setupJobs(cfg, registry, pipeline, logger)
	if err != nil {
		log.Fatalf("Failed to set up job queue: %v", err)
	}
	manager.StartWorkers()

	setupRoutes(router, cfg, registry, manager, st, oai, logger)

	addr := ":" + cfg.Port
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		logger.Info("starting API server", "addr", addr, "mode", cfg.GinMode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// In-flight jobs are given a grace period; anything still running is
	// lost with the in-memory registry, which restarting loses anyway.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	stop()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := manager.Shutdown(shutdownCtx); err != nil {
		logger.Warn("queue shutdown failed", "err", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown failed", "err", err)
	}
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "transcricao-backend",
	})
}
