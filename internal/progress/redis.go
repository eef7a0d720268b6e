package progress

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisTimeout = 3 * time.Second

// RedisStore keeps progress in a Redis hash, one hash per player:
// field "unlocked" plus one "stars:<level>" field per rated level.
type RedisStore struct {
	client   *redis.Client
	playerID string
}

// NewRedisStore creates a Redis-backed progress store for one player.
func NewRedisStore(client *redis.Client, playerID string) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if playerID == "" {
		return nil, fmt.Errorf("player_id is required")
	}
	return &RedisStore{client: client, playerID: playerID}, nil
}

func (s *RedisStore) key() string {
	return "progress:" + s.playerID
}

func (s *RedisStore) Unlocked() int {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	v, err := s.client.HGet(ctx, s.key(), "unlocked").Int()
	if err != nil || v < 1 {
		return 1
	}
	return v
}

func (s *RedisStore) UnlockNext(level int) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	// Read-check-write inside a transaction so the counter stays
	// monotonic under concurrent writers.
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, s.key(), "unlocked").Int()
		if err != nil && err != redis.Nil {
			return err
		}
		if current >= level+1 {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, s.key(), "unlocked", level+1)
			return nil
		})
		return err
	}, s.key())
	if err != nil {
		return fmt.Errorf("unlock next level: %w", err)
	}
	return nil
}

func (s *RedisStore) SetStars(level, stars int) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	field := "stars:" + strconv.Itoa(level)
	if err := s.client.HSet(ctx, s.key(), field, clampStars(stars)).Err(); err != nil {
		return fmt.Errorf("set stars: %w", err)
	}
	return nil
}

func (s *RedisStore) StarsFor(level int) int {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	v, err := s.client.HGet(ctx, s.key(), "stars:"+strconv.Itoa(level)).Int()
	if err != nil {
		return 0
	}
	return v
}
