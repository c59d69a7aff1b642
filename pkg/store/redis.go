package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/griddock/griddock/pkg/deck"
)

// redisKeyPrefix namespaces profile keys so the launcher can share a
// database with other tenants.
const redisKeyPrefix = "griddock:profile:"

// RedisStore keeps profiles in Redis for multi-machine deployments: every
// machine running the overlay sees the same committed profiles.
type RedisStore struct {
	client *redis.Client
}

// OpenRedis connects to Redis and verifies the connection.
func OpenRedis(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) key(name string) string {
	return redisKeyPrefix + name
}

func (s *RedisStore) Get(ctx context.Context, name string) (deck.Profile, error) {
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return deck.Profile{}, ErrNotFound
	}
	if err != nil {
		return deck.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return deck.UnmarshalProfile(data)
}

func (s *RedisStore) Set(ctx context.Context, p deck.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	data, err := deck.MarshalProfile(p)
	if err != nil {
		return err
	}
	// Profiles are durable configuration: no TTL.
	if err := s.client.Set(ctx, s.key(p.Name), data, 0).Err(); err != nil {
		return fmt.Errorf("set profile: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	if err := s.client.Del(ctx, s.key(name)).Err(); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var names []string
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), redisKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
