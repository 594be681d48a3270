package memory

import (
	"context"
	"sync"

	"emotionanalyzer/internal/model"
)

// AnalysisRepository is an unbounded in-process cache.
type AnalysisRepository struct {
	mu      sync.RWMutex
	results map[string]model.AnalysisResult
}

// NewAnalysisRepository creates an empty in-memory repository.
func NewAnalysisRepository() *AnalysisRepository {
	return &AnalysisRepository{results: make(map[string]model.AnalysisResult)}
}

// Get returns a copy of the stored result so callers cannot mutate the cache.
func (r *AnalysisRepository) Get(_ context.Context, key string) (*model.AnalysisResult, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result, ok := r.results[key]
	if !ok {
		return nil, false, nil
	}
	cp := copyResult(result)
	return &cp, true, nil
}

func (r *AnalysisRepository) Put(_ context.Context, key string, result *model.AnalysisResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results[key] = copyResult(*result)
	return nil
}

func (r *AnalysisRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.results), nil
}

func (r *AnalysisRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = make(map[string]model.AnalysisResult)
	return nil
}

func copyResult(in model.AnalysisResult) model.AnalysisResult {
	out := model.AnalysisResult{Faces: make([]model.FaceDetection, len(in.Faces))}
	for i, face := range in.Faces {
		scores := make(map[string]float64, len(face.Scores))
		for k, v := range face.Scores {
			scores[k] = v
		}
		out.Faces[i] = model.FaceDetection{Region: face.Region, Scores: scores, Dominant: face.Dominant}
	}
	return out
}
