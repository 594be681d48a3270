package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"emotionanalyzer/internal/model"
)

// AnalysisRepository implements repository.AnalysisRepository for SQLite.
type AnalysisRepository struct {
	db *DB
}

// NewAnalysisRepository creates a new SQLite analysis repository.
func NewAnalysisRepository(db *DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Get retrieves a cached result by content key.
func (r *AnalysisRepository) Get(ctx context.Context, key string) (*model.AnalysisResult, bool, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var payload string
	err := r.db.Conn().QueryRowContext(ctx, `
		SELECT result FROM analyses WHERE content_key = ?
	`, key).Scan(&payload)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get analysis: %w", err)
	}

	var result model.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached analysis: %w", err)
	}
	return &result, true, nil
}

// Put stores or replaces the result for a content key.
func (r *AnalysisRepository) Put(ctx context.Context, key string, result *model.AnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}

	r.db.Lock()
	defer r.db.Unlock()

	_, err = r.db.Conn().ExecContext(ctx, `
		INSERT INTO analyses (content_key, face_count, result)
		VALUES (?, ?, ?)
		ON CONFLICT(content_key) DO UPDATE SET
			face_count = excluded.face_count,
			result = excluded.result,
			created_at = CURRENT_TIMESTAMP
	`, key, result.Len(), string(payload))
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

// Count returns the number of cached analyses.
func (r *AnalysisRepository) Count(ctx context.Context) (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var count int
	if err := r.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM analyses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count analyses: %w", err)
	}
	return count, nil
}

// DeleteAll removes every cached analysis.
func (r *AnalysisRepository) DeleteAll(ctx context.Context) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().ExecContext(ctx, `DELETE FROM analyses`); err != nil {
		return fmt.Errorf("failed to delete analyses: %w", err)
	}
	return nil
}
