package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCmdable struct {
	data    map[string]string
	sets    map[string][]string
	setErr  error
	setTTLs []time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: make(map[string]string),
		sets: make(map[string][]string),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if m.setErr != nil {
		return redis.NewStatusResult("", m.setErr)
	}
	m.data[key] = fmt.Sprint(value)
	m.setTTLs = append(m.setTTLs, expiration)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
		delete(m.sets, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (m *mockCmdable) SAdd(ctx context.Context, key string, members ...any) *redis.IntCmd {
	for _, member := range members {
		m.sets[key] = append(m.sets[key], fmt.Sprint(member))
	}
	return redis.NewIntResult(int64(len(members)), nil)
}

func (m *mockCmdable) SMembers(ctx context.Context, key string) *redis.StringSliceCmd {
	return redis.NewStringSliceResult(m.sets[key], nil)
}

func TestCache_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	cache := &Cache{store: mock, ttl: time.Minute}

	require.NoError(t, cache.Save(ctx, "config:carriers/flatrate/active", "1", TagConfig))

	value, ok, err := cache.Load(ctx, "config:carriers/flatrate/active")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", value)
	assert.Equal(t, []time.Duration{time.Minute}, mock.setTTLs)

	_, ok, err = cache.Load(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_CleanDropsTaggedKeysOnly(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	cache := &Cache{store: mock}

	require.NoError(t, cache.Save(ctx, "region:EG:cairo", "1127", TagEAV))
	require.NoError(t, cache.Save(ctx, "config:payment/checkmo/active", "1", TagConfig))

	require.NoError(t, cache.Clean(ctx, TagDBDDL, TagCollections, TagEAV))

	_, ok, err := cache.Load(ctx, "region:EG:cairo")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = cache.Load(ctx, "config:payment/checkmo/active")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCache_SaveError(t *testing.T) {
	mock := newMockCmdable()
	mock.setErr = errors.New("connection refused")
	cache := &Cache{store: mock}

	err := cache.Save(context.Background(), "k", "v", TagConfig)
	assert.ErrorContains(t, err, "connection refused")
}

func TestCache_NilIsNoop(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	_, ok, err := cache.Load(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, cache.Save(ctx, "k", "v"))
	assert.NoError(t, cache.Clean(ctx, TagEAV))
	assert.Error(t, cache.Ping(ctx))
}
