package app

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"emotionanalyzer/internal/config"
	"emotionanalyzer/internal/dto"
)

// fakeDeepFace answers / and /analyze like the DeepFace REST API.
func fakeDeepFace(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	calls := &atomic.Int32{}
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Welcome to DeepFace API!"))
	})
	mux.HandleFunc("/analyze", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"region":{"x":10,"y":10,"w":30,"h":30},` +
			`"emotion":{"happy":91.5,"neutral":8.5},"dominant_emotion":"happy","face_confidence":0.93}]}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, calls
}

func testConfig(t *testing.T, deepFaceURL, backend string) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		DeepFaceURL:      deepFaceURL,
		DetectorBackend:  "opencv",
		MaxImageDim:      800,
		MaxUploadSize:    1 << 20,
		JPEGQuality:      90,
		InferenceTimeout: 5 * time.Second,
		CacheBackend:     backend,
		DatabasePath:     filepath.Join(dir, "data", "cache.db"),
		LogDirectory:     filepath.Join(dir, "logs"),
		StaticDirectory:  filepath.Join(dir, "static"),
	}
}

func upload(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 80, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 80; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(3 * x), G: uint8(4 * y), B: 60, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode upload: %v", err)
	}
	return buf.Bytes()
}

func TestNewApp_CacheBackends(t *testing.T) {
	for _, backend := range []string{CacheMemory, CacheSQLite} {
		t.Run(backend, func(t *testing.T) {
			server, calls := fakeDeepFace(t)

			a, err := NewApp(testConfig(t, server.URL, backend))
			if err != nil {
				t.Fatalf("NewApp failed: %v", err)
			}
			defer a.Close()

			handler := a.Handler()
			for i := 0; i < 2; i++ {
				req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(upload(t)))
				rec := httptest.NewRecorder()
				handler.ServeHTTP(rec, req)

				if rec.Code != http.StatusOK {
					t.Fatalf("Request %d: expected 200, got %d: %s", i, rec.Code, rec.Body.String())
				}
				var resp dto.AnalysisResponse
				if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				if resp.PrimaryEmotion != "Happy" {
					t.Errorf("Expected Happy, got %q", resp.PrimaryEmotion)
				}
			}

			if calls.Load() != 1 {
				t.Errorf("Expected one DeepFace call thanks to the cache, got %d", calls.Load())
			}
			if n, err := a.Cache().Count(context.Background()); err != nil || n != 1 {
				t.Errorf("Expected 1 cached analysis, got %d (%v)", n, err)
			}
		})
	}
}

func TestNewApp_UnknownBackend(t *testing.T) {
	if _, err := NewApp(testConfig(t, "http://localhost:1", "etcd")); err == nil {
		t.Error("Expected an error for an unknown cache backend")
	}
}

func TestApp_Health(t *testing.T) {
	server, _ := fakeDeepFace(t)

	a, err := NewApp(testConfig(t, server.URL, CacheMemory))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer a.Close()

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}
