package repository

import (
	"context"

	"emotionanalyzer/internal/model"
)

// AnalysisRepository stores inference results keyed by the content hash of the analyzed pixels.
type AnalysisRepository interface {
	// Get returns the cached result and true, or false on a miss.
	Get(ctx context.Context, key string) (*model.AnalysisResult, bool, error)
	Put(ctx context.Context, key string, result *model.AnalysisResult) error

	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}
