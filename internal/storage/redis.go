package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/dreambound/pkg/state"
)

const saveKeyPrefix = "dreambound:save:"

// RedisStorage implements Storage on Redis.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
}

var _ Storage = (*RedisStorage)(nil)

func NewRedisStorage(redisURL string, logger *slog.Logger) *RedisStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})
	return &RedisStorage{
		client: rdb,
		logger: logger,
	}
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available during startup.
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func (r *RedisStorage) SaveGame(ctx context.Context, slot string, gs *state.GameState) error {
	existing, err := r.LoadGame(ctx, slot)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID == gs.ID && existing.TurnCount > gs.TurnCount {
		r.logger.Warn("Refusing stale save", "slot", slot,
			"stored_turn", existing.TurnCount, "incoming_turn", gs.TurnCount)
		return ErrStaleSave
	}

	data, err := json.Marshal(gs)
	if err != nil {
		r.logger.Error("Failed to marshal save", "slot", slot, "error", err)
		return fmt.Errorf("failed to marshal save: %w", err)
	}

	if err := r.client.Set(ctx, saveKeyPrefix+slot, string(data), 0).Err(); err != nil {
		r.logger.Error("Failed to write save", "slot", slot, "error", err)
		return fmt.Errorf("failed to write save: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadGame(ctx context.Context, slot string) (*state.GameState, error) {
	cmd := r.client.Get(ctx, saveKeyPrefix+slot)
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		r.logger.Error("Failed to read save", "slot", slot, "error", err)
		return nil, fmt.Errorf("failed to read save: %w", err)
	}

	data := cmd.Val()
	if data == "" {
		return nil, nil
	}

	var gs state.GameState
	if err := json.Unmarshal([]byte(data), &gs); err != nil {
		// A corrupt save is unrecoverable; treat the slot as empty so a
		// new game can start over it.
		r.logger.Warn("Corrupt save treated as empty", "slot", slot, "error", err)
		return nil, nil
	}
	return &gs, nil
}

func (r *RedisStorage) DeleteGame(ctx context.Context, slot string) error {
	if err := r.client.Del(ctx, saveKeyPrefix+slot).Err(); err != nil {
		r.logger.Error("Failed to delete save", "slot", slot, "error", err)
		return fmt.Errorf("failed to delete save: %w", err)
	}
	return nil
}

func (r *RedisStorage) ListSlots(ctx context.Context) ([]string, error) {
	var slots []string
	iter := r.client.Scan(ctx, 0, saveKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		slots = append(slots, strings.TrimPrefix(iter.Val(), saveKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list save slots: %w", err)
	}
	return slots, nil
}
