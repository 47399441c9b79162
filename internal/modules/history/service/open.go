package service

import (
	"context"
	"fmt"
	"time"

	"signal_bot/internal/modules/config"
	"signal_bot/pkg/db"

	"github.com/redis/go-redis/v9"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Options struct {
	Backend string

	Path string

	DSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisKey      string
}

func OptionsFrom(cfg *config.Config) Options {
	h := cfg.History
	return Options{
		Backend:       h.Backend,
		Path:          h.Path,
		DSN:           h.DSN,
		RedisAddr:     h.Redis.Addr,
		RedisPassword: h.Redis.Password,
		RedisDB:       h.Redis.DB,
		RedisKey:      h.Redis.Key,
	}
}

// Open поднимает бэкенд и проверяет связь. Для postgres заодно создаёт таблицу.
func Open(ctx context.Context, o Options) (Backend, error) {
	switch o.Backend {
	case "", BackendFile:
		return NewFile(o.Path), nil

	case BackendPostgres:
		if o.DSN == "" {
			return nil, fmt.Errorf("history: postgres backend needs db_dsn")
		}
		m, err := db.Connect(ctx, db.PoolConfig{DSN: o.DSN})
		if err != nil {
			return nil, err
		}
		pg := NewPostgres(m, m.Close)
		if err := pg.Migrate(ctx); err != nil {
			m.Close()
			return nil, err
		}
		return pg, nil

	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     o.RedisAddr,
			Password: o.RedisPassword,
			DB:       o.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("history: redis %s: %w", o.RedisAddr, err)
		}
		return NewRedis(client, o.RedisKey), nil
	}
	return nil, fmt.Errorf("history: unknown backend %q", o.Backend)
}
