package kv

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ValkeyStore implements Store on Valkey/Redis. Keys are namespaced with a
// prefix so several installations can share one server.
type ValkeyStore struct {
	client *redis.Client
	prefix string
}

type ValkeyConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

func NewValkeyStore(cfg ValkeyConfig) (*ValkeyStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewValkeyStoreWithClient(client, cfg.Prefix), nil
}

func NewValkeyStoreWithClient(client *redis.Client, prefix string) *ValkeyStore {
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return val, nil
}

func (s *ValkeyStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}

func (s *ValkeyStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

func (s *ValkeyStore) Close() error {
	return s.client.Close()
}

var _ Store = (*ValkeyStore)(nil)
