package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "cart:"

// RedisRepository keeps carts as JSON line arrays with a sliding TTL.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

func redisKey(userID int) string {
	return redisKeyPrefix + strconv.Itoa(userID)
}

func (r *RedisRepository) Get(ctx context.Context, userID int) (*Cart, error) {
	data, err := r.client.Get(ctx, redisKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return New(), nil
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return FromLines(lines), nil
}

func (r *RedisRepository) Save(ctx context.Context, userID int, c *Cart) error {
	data, err := json.Marshal(c.Lines())
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := r.client.Set(ctx, redisKey(userID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, userID int) error {
	if err := r.client.Del(ctx, redisKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}
	return nil
}
