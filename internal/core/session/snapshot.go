package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cocktail-web/internal/core/form"
	"cocktail-web/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "cocktail:session:"

// RedisStore 把表單快照存到 redis
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ SnapshotStore = (*RedisStore)(nil)

// NewRedisStore 創建 redis 快照存放處；未啟用時回傳 nil
func NewRedisStore(ctx context.Context, cfg config.SessionConfig) (*RedisStore, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// 測試連接
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client, ttl: cfg.TTL}, nil
}

// Load 讀取快照，不存在時回傳 nil
func (s *RedisStore) Load(ctx context.Context, id string) (*form.Snapshot, error) {
	data, err := s.client.Get(ctx, snapshotKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var snap form.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Save 寫入快照，存活時間與 session 相同
func (s *RedisStore) Save(ctx context.Context, id string, snap form.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := s.client.Set(ctx, snapshotKey(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set snapshot: %w", err)
	}
	return nil
}

// Ping 檢查 redis 連線
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close 關閉連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func snapshotKey(id string) string {
	return keyPrefix + id
}
