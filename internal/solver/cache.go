package solver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache remembers solve answers by clock. A cached answer is either a path
// or NoPath, which records that the clock has no solution.
type Cache interface {
	Get(ctx context.Context, dials []int) (Answer, bool, error)
	Put(ctx context.Context, dials []int, a Answer) error
}

// Answer is a stored solve outcome.
type Answer struct {
	Path  []int `json:"path,omitempty"`
	Found bool  `json:"found"`
}

// NopCache stores nothing.
type NopCache struct{}

func (NopCache) Get(context.Context, []int) (Answer, bool, error) { return Answer{}, false, nil }
func (NopCache) Put(context.Context, []int, Answer) error { return nil }

// RedisCache keeps answers in Redis under keys derived from the dial values.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCache returns a cache storing answers in client for ttl.
// A zero ttl keeps answers forever.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, prefix: "clock:solve:"}
}

// Key returns the Redis key for a clock.
func (c *RedisCache) Key(dials []int) string {
	var b strings.Builder
	b.WriteString(c.prefix)
	for i, d := range dials {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(d))
	}
	return b.String()
}

func (c *RedisCache) Get(ctx context.Context, dials []int) (Answer, bool, error) {
	raw, err := c.client.Get(ctx, c.Key(dials)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Answer{}, false, nil
	}
	if err != nil {
		return Answer{}, false, fmt.Errorf("redis get: %w", err)
	}
	var a Answer
	if err := json.Unmarshal(raw, &a); err != nil {
		return Answer{}, false, fmt.Errorf("decode cached answer: %w", err)
	}
	return a, true, nil
}

func (c *RedisCache) Put(ctx context.Context, dials []int, a Answer) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode answer: %w", err)
	}
	if err := c.client.Set(ctx, c.Key(dials), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
