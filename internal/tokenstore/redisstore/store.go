package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nkiryanov/gestiondocente/internal/models"
	"github.com/nkiryanov/gestiondocente/internal/tokenstore"
)

const (
	defaultKey     = "gestiondocente:tokens"
	defaultTimeout = 5 * time.Second
)

// Config captures the settings for establishing a Redis connection.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration

	// Hash key tokens are stored under. Default is used if empty
	Key string
}

// Token store keeping both tokens as fields of one redis hash
type Store struct {
	client redis.Cmdable
	key    string
}

var _ tokenstore.Store = (*Store)(nil)

// Connect initialises a Redis client and validates connectivity with a ping.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

func NewStore(client redis.Cmdable, key string) *Store {
	if key == "" {
		key = defaultKey
	}
	return &Store{client: client, key: key}
}

func (s *Store) Set(ctx context.Context, kind models.TokenKind, value string) error {
	if err := s.client.HSet(ctx, s.key, string(kind), value).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, kind models.TokenKind) (string, error) {
	value, err := s.client.HGet(ctx, s.key, string(kind)).Result()

	switch {
	case err == nil:
		return value, nil
	case errors.Is(err, redis.Nil):
		return "", nil
	default:
		return "", fmt.Errorf("redis error: %w", err)
	}
}

func (s *Store) Clear(ctx context.Context) error {
	fields := make([]string, 0, len(tokenstore.Kinds))
	for _, kind := range tokenstore.Kinds {
		fields = append(fields, string(kind))
	}

	if err := s.client.HDel(ctx, s.key, fields...).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}
