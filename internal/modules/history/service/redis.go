package service

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis история в redis-множестве под одним ключом.
type Redis struct {
	client *redis.Client
	key    string
}

func NewRedis(client *redis.Client, key string) *Redis {
	if key == "" {
		key = "signal_bot:processed"
	}
	return &Redis{client: client, key: key}
}

func (r *Redis) Name() string { return "redis" }

func (r *Redis) LoadIDs(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis.LoadIDs %s: %w", r.key, err)
	}
	return ids, nil
}

func (r *Redis) Persist(ctx context.Context, added string, _ []string) error {
	if err := r.client.SAdd(ctx, r.key, added).Err(); err != nil {
		return fmt.Errorf("redis.Persist %s: %w", r.key, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
