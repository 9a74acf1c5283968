package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"easyorder/internal/config"
)

const keyNamespace = "easyorder"

// Cache tags. Everything but TagConfig is cleaned after an order is placed.
const (
	TagConfig      = "config"
	TagEAV         = "eav"
	TagDBDDL       = "db_ddl"
	TagCollections = "collections"
)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Del(context.Context, ...string) *redis.IntCmd
	SAdd(context.Context, string, ...any) *redis.IntCmd
	SMembers(context.Context, string) *redis.StringSliceCmd
}

// Cache is a tag-aware key/value cache on top of redis. Every saved key is recorded in one set per tag
// so that a whole tag can be invalidated at once.
type Cache struct {
	store cmdable
	raw   *redis.Client
	ttl   time.Duration
}

func New(ctx context.Context, cfg config.RedisConfig) (*Cache, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address is required")
	}
	raw := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := raw.Ping(ctx).Err(); err != nil {
		raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Cache{store: raw, raw: raw, ttl: cfg.CacheTTL}, nil
}

// Load returns the cached value and whether it was present.
func (c *Cache) Load(ctx context.Context, key string) (string, bool, error) {
	if c == nil || c.store == nil {
		return "", false, nil
	}
	value, err := c.store.Get(ctx, c.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("loading cache key %s: %w", key, err)
	}
	return value, true, nil
}

// Save stores value under key and registers the key under every tag.
func (c *Cache) Save(ctx context.Context, key, value string, tags ...string) error {
	if c == nil || c.store == nil {
		return nil
	}
	fullKey := c.key(key)
	if err := c.store.Set(ctx, fullKey, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("saving cache key %s: %w", key, err)
	}
	for _, tag := range tags {
		if err := c.store.SAdd(ctx, c.tagKey(tag), fullKey).Err(); err != nil {
			return fmt.Errorf("tagging cache key %s with %s: %w", key, tag, err)
		}
	}
	return nil
}

// Clean drops every key registered under the given tags.
func (c *Cache) Clean(ctx context.Context, tags ...string) error {
	if c == nil || c.store == nil {
		return nil
	}
	for _, tag := range tags {
		tagKey := c.tagKey(tag)
		members, err := c.store.SMembers(ctx, tagKey).Result()
		if err != nil {
			return fmt.Errorf("listing cache tag %s: %w", tag, err)
		}
		keys := append(members, tagKey)
		if err := c.store.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("cleaning cache tag %s: %w", tag, err)
		}
	}
	return nil
}

func (c *Cache) Ping(ctx context.Context) error {
	if c == nil || c.store == nil {
		return errors.New("redis client not initialized")
	}
	return c.store.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

func (c *Cache) key(key string) string {
	return keyNamespace + ":" + key
}

func (c *Cache) tagKey(tag string) string {
	return keyNamespace + ":tag:" + tag
}
