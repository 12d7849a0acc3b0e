// Package config loads application settings from environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the service.
type Config struct {
	// Server
	Port    string
	GinMode string

	// CORS
	CORSAllowedOrigins string

	// Upload handling
	UploadDir   string // where incoming audio files are stored
	TmpDir      string // where segment directories are created
	MaxFileSize int64  // multipart body limit in bytes

	// Media tooling
	FFmpegPath  string
	FFprobePath string

	// Segmentation policy. Deployments have run with different thresholds,
	// so neither value is hard-coded.
	AllowedExtensions  []string
	SegmentThresholdMB float64
	SegmentSeconds     int

	// OpenAI
	OpenAIAPIKey          string
	OpenAIBaseURL         string
	WhisperModel          string
	ReviewModel           string
	ChatModel             string
	TranscriptionLanguage string

	// Persistence / queue
	DatabaseURL       string
	QueueRedisURL     string
	WorkerConcurrency int
}

// Load reads configuration from the environment, with .env.local as an
// optional local override file.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),

		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
		TmpDir:      getEnv("TMP_DIR", os.TempDir()),
		MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 200*1024*1024),

		FFmpegPath:  getEnv("FFMPEG_PATH", "ffmpeg"),
		FFprobePath: getEnv("FFPROBE_PATH", "ffprobe"),

		AllowedExtensions:  splitList(getEnv("ALLOWED_EXTENSIONS", ".webm,.wav")),
		SegmentThresholdMB: getEnvAsFloat("SEGMENT_THRESHOLD_MB", 25),
		SegmentSeconds:     getEnvAsInt("SEGMENT_SECONDS", 480),

		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:         getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		WhisperModel:          getEnv("WHISPER_MODEL", "whisper-1"),
		ReviewModel:           getEnv("REVIEW_MODEL", "gpt-4-1106-preview"),
		ChatModel:             getEnv("CHAT_MODEL", "gpt-4.1-mini"),
		TranscriptionLanguage: getEnv("TRANSCRIPTION_LANGUAGE", "pt"),

		DatabaseURL:       getEnv("DATABASE_URL", ""),
		QueueRedisURL:     getEnv("QUEUE_REDIS_URL", "redis://127.0.0.1:6379/0"),
		WorkerConcurrency: getEnvAsInt("WORKER_CONCURRENCY", 4),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFile() {
	if err := godotenv.Load(".env.local"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}
	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}
	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

// Validate checks settings that have no sane fallback. Local development is
// lenient; release mode requires the external collaborators to be configured.
func (c *Config) Validate() error {
	if c.SegmentSeconds <= 0 {
		return fmt.Errorf("SEGMENT_SECONDS must be positive")
	}
	if c.SegmentThresholdMB <= 0 {
		return fmt.Errorf("SEGMENT_THRESHOLD_MB must be positive")
	}
	if len(c.AllowedExtensions) == 0 {
		return fmt.Errorf("ALLOWED_EXTENSIONS must not be empty")
	}
	if c.GinMode == "release" {
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required in release mode")
		}
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required in release mode")
		}
		if c.QueueRedisURL == "" {
			return fmt.Errorf("QUEUE_REDIS_URL is required in release mode")
		}
	}
	return nil
}

// SegmentThresholdBytes converts the megabyte threshold to bytes.
func (c *Config) SegmentThresholdBytes() int64 {
	return int64(c.SegmentThresholdMB * 1024 * 1024)
}

// ExtensionAllowed reports whether ext (with leading dot, any case) is on
// the upload allow-list.
func (c *Config) ExtensionAllowed(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range c.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, ".") {
			p = "." + p
		}
		out = append(out, p)
	}
	return out
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
