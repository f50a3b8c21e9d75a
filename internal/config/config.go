package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port        string
	DatabaseURL string
	AuthSecret  string

	OpenAIKey string

	UploadDir   string
	MaxFileSize int64 // bytes, upload limit
	ChunkSizeMB int64 // per-chunk budget for the speech-to-text request limit

	FFmpegPath  string
	FFprobePath string

	// CleanupAfterTranscribe removes source media once its transcript is
	// saved.
	CleanupAfterTranscribe bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                   getEnv("PORT", "8080"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		AuthSecret:             os.Getenv("AUTH_SECRET"),
		OpenAIKey:              os.Getenv("OPENAI_API_KEY"),
		UploadDir:              getEnv("UPLOAD_DIR", "./uploads"),
		MaxFileSize:            getEnvInt("MAX_FILE_SIZE", 100_000_000),
		ChunkSizeMB:            getEnvInt("CHUNK_SIZE_MB", 24),
		FFmpegPath:             getEnv("FFMPEG_PATH", "ffmpeg"),
		FFprobePath:            getEnv("FFPROBE_PATH", "ffprobe"),
		CleanupAfterTranscribe: getEnvBool("CLEANUP_AFTER_TRANSCRIBE", false),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.AuthSecret == "" {
		return nil, fmt.Errorf("AUTH_SECRET is required")
	}
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if cfg.ChunkSizeMB <= 0 {
		return nil, fmt.Errorf("CHUNK_SIZE_MB must be positive")
	}

	return cfg, nil
}

// ChunkSizeBytes is the chunker's byte budget.
func (c *Config) ChunkSizeBytes() int64 {
	return c.ChunkSizeMB * 1024 * 1024
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
