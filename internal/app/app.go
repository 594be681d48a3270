package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"emotionanalyzer/internal/config"
	"emotionanalyzer/internal/logger"
	"emotionanalyzer/internal/repository"
	"emotionanalyzer/internal/repository/memory"
	"emotionanalyzer/internal/repository/redis"
	"emotionanalyzer/internal/repository/sqlite"
	"emotionanalyzer/internal/route"
	"emotionanalyzer/internal/service"
	"emotionanalyzer/internal/service/inference"
)

// Cache backends selectable through CACHE_BACKEND.
const (
	CacheMemory = "memory"
	CacheSQLite = "sqlite"
	CacheRedis  = "redis"
)

type App struct {
	config  *config.Config
	logger  *logger.Logger
	cache   repository.AnalysisRepository
	client  *inference.Client
	manager *service.Manager
	closers []func() error
}

// NewApp wires the logger, the analysis cache, the DeepFace client and the pipeline.
func NewApp(cfg *config.Config) (*App, error) {
	log := logger.NewLogger(cfg)

	a := &App{
		config:  cfg,
		logger:  log,
		closers: []func() error{log.Close},
	}

	cache, err := a.openCache(context.Background())
	if err != nil {
		a.Close()
		return nil, err
	}
	a.cache = cache

	a.client = inference.NewClient(cfg.DeepFaceURL, cfg.InferenceTimeout)
	adapter := inference.NewAdapter(a.client, cache, cfg.DetectorBackend, log)

	a.manager = service.NewManager(adapter, cfg.MaxImageDim, cfg.JPEGQuality, log).
		WithHealthCheck(a.client.HealthCheck)

	return a, nil
}

func (a *App) openCache(ctx context.Context) (repository.AnalysisRepository, error) {
	switch a.config.CacheBackend {
	case CacheMemory, "":
		return memory.NewAnalysisRepository(), nil

	case CacheSQLite:
		if err := os.MkdirAll(filepath.Dir(a.config.DatabasePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		db, err := sqlite.New(a.config.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open analysis cache: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		a.logger.Info("Using SQLite analysis cache at %s", a.config.DatabasePath)
		return sqlite.NewAnalysisRepository(db), nil

	case CacheRedis:
		repo, err := redis.New(ctx, a.config.RedisURL, a.config.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect analysis cache: %w", err)
		}
		a.closers = append(a.closers, repo.Close)
		a.logger.Info("Using Redis analysis cache")
		return repo, nil

	default:
		return nil, fmt.Errorf("unknown cache backend %q", a.config.CacheBackend)
	}
}

// Manager returns the analysis pipeline.
func (a *App) Manager() *service.Manager {
	return a.manager
}

// Cache returns the analysis cache.
func (a *App) Cache() repository.AnalysisRepository {
	return a.cache
}

// Logger returns the application logger.
func (a *App) Logger() *logger.Logger {
	return a.logger
}

// Handler builds the HTTP handler tree.
func (a *App) Handler() http.Handler {
	return route.SetupRoutes(a.manager, a.config, a.logger)
}

func (a *App) Run() error {
	if err := a.manager.Health(context.Background()); err != nil {
		a.logger.Warning("DeepFace service at %s is not reachable yet: %v", a.config.DeepFaceURL, err)
	}

	fmt.Printf("🚀 Emotion Analyzer\n")
	fmt.Printf("📍 URL: http://localhost:%d\n", a.config.Port)
	if a.config.Password != "" {
		fmt.Printf("🔑 Password: %s\n", a.config.Password)
	}
	fmt.Printf("🤖 DeepFace: %s (%s)\n", a.config.DeepFaceURL, a.config.DetectorBackend)
	fmt.Printf("🗄️  Cache: %s\n", a.config.CacheBackend)

	return http.ListenAndServe(fmt.Sprintf(":%d", a.config.Port), a.Handler())
}

// Close releases the cache connection and the log files, newest first.
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
