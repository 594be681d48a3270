package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"emotionanalyzer/internal/model"

	goredis "github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces cache entries inside a shared Redis database.
const KeyPrefix = "emotionanalyzer:analysis:"

// AnalysisRepository implements repository.AnalysisRepository on Redis.
type AnalysisRepository struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

// New parses redisURL, checks the connection and returns a repository.
// A zero ttl keeps entries until they are deleted.
func New(ctx context.Context, redisURL string, ttl time.Duration) (*AnalysisRepository, error) {
	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := goredis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewWithClient(client, ttl), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client goredis.UniversalClient, ttl time.Duration) *AnalysisRepository {
	return &AnalysisRepository{client: client, ttl: ttl}
}

// Get retrieves a cached result by content key.
func (r *AnalysisRepository) Get(ctx context.Context, key string) (*model.AnalysisResult, bool, error) {
	payload, err := r.client.Get(ctx, KeyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get analysis: %w", err)
	}

	var result model.AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached analysis: %w", err)
	}
	return &result, true, nil
}

// Put stores the result, applying the configured TTL.
func (r *AnalysisRepository) Put(ctx context.Context, key string, result *model.AnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}

	if err := r.client.Set(ctx, KeyPrefix+key, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store analysis: %w", err)
	}
	return nil
}

// Count scans the prefix; intended for the admin CLI, not hot paths.
func (r *AnalysisRepository) Count(ctx context.Context) (int, error) {
	count := 0
	iter := r.client.Scan(ctx, 0, KeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan analyses: %w", err)
	}
	return count, nil
}

// DeleteAll removes every key under the prefix.
func (r *AnalysisRepository) DeleteAll(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, KeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan analyses: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (r *AnalysisRepository) Close() error {
	return r.client.Close()
}
