package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	pkgstorage "github.com/jwebster45206/life-engine/pkg/storage"
)

// RedisStorage implements the Storage interface using Redis for
// session snapshots and the filesystem for static catalogs.
type RedisStorage struct {
	client     *redis.Client
	logger     *slog.Logger
	dataDir    string
	sessionTTL time.Duration
}

// Ensure RedisStorage implements Storage interface
var _ pkgstorage.Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance.
func NewRedisStorage(redisURL string, dataDir string, sessionTTL time.Duration, logger *slog.Logger) *RedisStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	if dataDir == "" {
		dataDir = "./data"
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}

	return &RedisStorage{
		client:     rdb,
		logger:     logger,
		dataDir:    dataDir,
		sessionTTL: sessionTTL,
	}
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}
	return nil
}
