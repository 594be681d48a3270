package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             int
	Password         string // Empty disables the login wall
	DeepFaceURL      string
	DetectorBackend  string
	MaxImageDim      int   // Longest allowed side after normalization, in pixels
	MaxUploadSize    int64 // Bytes
	JPEGQuality      int
	InferenceTimeout time.Duration
	CacheBackend     string // memory, sqlite or redis
	DatabasePath     string
	RedisURL         string
	CacheTTL         time.Duration // Zero keeps Redis entries forever
	LogDirectory     string
	StaticDirectory  string
}

// Load reads an optional .env file and then builds the Config from the environment.
func Load() *Config {
	// A missing .env is fine; real environment variables take precedence.
	_ = godotenv.Load()

	return &Config{
		Port:             getEnvAsInt("PORT", 8080),
		Password:         getEnv("PASSWORD", ""),
		DeepFaceURL:      getEnv("DEEPFACE_URL", "http://localhost:5005"),
		DetectorBackend:  getEnv("DETECTOR_BACKEND", "opencv"),
		MaxImageDim:      getEnvAsInt("MAX_IMAGE_DIMENSION", 800),
		MaxUploadSize:    getEnvAsInt64("MAX_UPLOAD_SIZE", 10<<20),
		JPEGQuality:      getEnvAsInt("JPEG_QUALITY", 95),
		InferenceTimeout: getEnvAsDuration("INFERENCE_TIMEOUT", 60*time.Second),
		CacheBackend:     getEnv("CACHE_BACKEND", "memory"),
		DatabasePath:     getEnv("DATABASE_PATH", filepath.Join(".", "data", "cache.db")),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		CacheTTL:         getEnvAsDuration("CACHE_TTL", 0),
		LogDirectory:     getEnv("LOG_DIR", filepath.Join(".", "logs")),
		StaticDirectory:  getEnv("STATIC_DIR", "static"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
