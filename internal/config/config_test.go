package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "MAX_IMAGE_DIMENSION", "CACHE_BACKEND", "INFERENCE_TIMEOUT", "PASSWORD"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Port)
	}
	if cfg.MaxImageDim != 800 {
		t.Errorf("Expected max dimension 800, got %d", cfg.MaxImageDim)
	}
	if cfg.CacheBackend != "memory" {
		t.Errorf("Expected memory cache backend, got %s", cfg.CacheBackend)
	}
	if cfg.InferenceTimeout != 60*time.Second {
		t.Errorf("Expected 60s timeout, got %v", cfg.InferenceTimeout)
	}
	if cfg.Password != "" {
		t.Errorf("Expected auth disabled by default, got password %q", cfg.Password)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_IMAGE_DIMENSION", "1024")
	t.Setenv("CACHE_BACKEND", "sqlite")
	t.Setenv("INFERENCE_TIMEOUT", "5s")
	t.Setenv("MAX_UPLOAD_SIZE", "2048")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Port)
	}
	if cfg.MaxImageDim != 1024 {
		t.Errorf("Expected max dimension 1024, got %d", cfg.MaxImageDim)
	}
	if cfg.CacheBackend != "sqlite" {
		t.Errorf("Expected sqlite cache backend, got %s", cfg.CacheBackend)
	}
	if cfg.InferenceTimeout != 5*time.Second {
		t.Errorf("Expected 5s timeout, got %v", cfg.InferenceTimeout)
	}
	if cfg.MaxUploadSize != 2048 {
		t.Errorf("Expected upload limit 2048, got %d", cfg.MaxUploadSize)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"PORT", "abc"},
		{"MAX_IMAGE_DIMENSION", "12.5"},
		{"INFERENCE_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			cfg := Load()
			switch tt.key {
			case "PORT":
				if cfg.Port != 8080 {
					t.Errorf("Expected fallback port, got %d", cfg.Port)
				}
			case "MAX_IMAGE_DIMENSION":
				if cfg.MaxImageDim != 800 {
					t.Errorf("Expected fallback dimension, got %d", cfg.MaxImageDim)
				}
			case "INFERENCE_TIMEOUT":
				if cfg.InferenceTimeout != 60*time.Second {
					t.Errorf("Expected fallback timeout, got %v", cfg.InferenceTimeout)
				}
			}
		})
	}
}
