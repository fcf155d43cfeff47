package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/life-engine/pkg/session"
)

// Session snapshot operations (Redis-backed)

func sessionKey(id uuid.UUID) string {
	return "session:" + id.String()
}

func (r *RedisStorage) SaveSession(ctx context.Context, id uuid.UUID, snap *session.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		r.logger.Error("Failed to marshal session snapshot", "uuid", id, "error", err)
		return fmt.Errorf("failed to marshal session snapshot: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(id), string(data), r.sessionTTL).Err(); err != nil {
		r.logger.Error("Failed to save session snapshot", "uuid", id, "error", err)
		return fmt.Errorf("failed to save session snapshot: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadSession(ctx context.Context, id uuid.UUID) (*session.Snapshot, error) {
	cmd := r.client.Get(ctx, sessionKey(id))
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			r.logger.Warn("Session snapshot not found", "uuid", id)
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load session snapshot", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load session snapshot: %w", err)
	}

	var snap session.Snapshot
	if err := json.Unmarshal([]byte(cmd.Val()), &snap); err != nil {
		r.logger.Error("Failed to unmarshal session snapshot", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal session snapshot: %w", err)
	}
	return &snap, nil
}

func (r *RedisStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		r.logger.Error("Failed to delete session snapshot", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete session snapshot: %w", err)
	}
	return nil
}
