package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/WhoAbdullahSheikh/drivesmart/internal/domain/entities"
)

// DefaultHashKey is the hash holding all preferences.
const DefaultHashKey = "drivesmart:preferences"

type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 1,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return rdb, nil
}

// PreferenceStore keeps preferences as fields of a single Redis hash.
type PreferenceStore struct {
	rdb  redis.Cmdable
	hash string
}

// NewPreferenceStore creates a store over hash; an empty hash uses DefaultHashKey.
func NewPreferenceStore(rdb redis.Cmdable, hash string) *PreferenceStore {
	if hash == "" {
		hash = DefaultHashKey
	}
	return &PreferenceStore{rdb: rdb, hash: hash}
}

func (s *PreferenceStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.rdb.HGet(ctx, s.hash, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", entities.ErrPreferenceNotFound
		}
		return "", &entities.StorageError{Op: "get", Key: key, Err: err}
	}
	return value, nil
}

func (s *PreferenceStore) Set(ctx context.Context, key, value string) error {
	if err := s.rdb.HSet(ctx, s.hash, key, value).Err(); err != nil {
		return &entities.StorageError{Op: "set", Key: key, Err: err}
	}
	return nil
}
