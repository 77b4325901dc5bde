package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quel-photoshoot-server/modules/common/config"
)

// fakeCmdable - Set/Del/Exists 만 구현한 메모리 Redis
type fakeCmdable struct {
	redis.Cmdable

	mu   sync.Mutex
	keys map[string]time.Duration
}

func newFakeCmdable() *fakeCmdable {
	return &fakeCmdable{keys: make(map[string]time.Duration)}
}

func (f *fakeCmdable) Set(_ context.Context, key string, _ interface{}, ttl time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCmdable) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.keys[k]; ok {
			delete(f.keys, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeCmdable) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.keys[k]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestCancelKey(t *testing.T) {
	assert.Equal(t, "photoshoot:cancel:abc", CancelKey("abc"))
}

func TestNilCancelFlagsAreNoop(t *testing.T) {
	ctx := context.Background()
	flags := NewCancelFlags(nil)

	require.NoError(t, flags.Set(ctx, "abc"))
	require.NoError(t, flags.Clear(ctx, "abc"))
	assert.False(t, flags.IsCancelled(ctx, "abc"))

	var none *CancelFlags
	assert.False(t, none.IsCancelled(ctx, "abc"))
}

func TestCancelFlagsRoundTrip(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeCmdable()
	flags := NewCancelFlags(rdb)

	assert.False(t, flags.IsCancelled(ctx, "b1"))

	require.NoError(t, flags.Set(ctx, "b1"))
	assert.True(t, flags.IsCancelled(ctx, "b1"))
	assert.False(t, flags.IsCancelled(ctx, "b2"))
	assert.Equal(t, 24*time.Hour, rdb.keys[CancelKey("b1")])

	require.NoError(t, flags.Clear(ctx, "b1"))
	assert.False(t, flags.IsCancelled(ctx, "b1"))
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{RedisHost: "redis.internal", RedisPort: "6380", RedisPassword: "pw", RedisUseTLS: true, RedisTLSInsecure: false}

	opts := Options(cfg)
	assert.Equal(t, "redis.internal:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	require.NotNil(t, opts.TLSConfig)
	assert.Equal(t, "redis.internal", opts.TLSConfig.ServerName)
	assert.False(t, opts.TLSConfig.InsecureSkipVerify)

	cfg.RedisUseTLS = false
	assert.Nil(t, Options(cfg).TLSConfig)
}

func TestConnectUnreachable(t *testing.T) {
	cfg := &config.Config{RedisHost: "127.0.0.1", RedisPort: "1"}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	rdb, err := Connect(ctx, cfg)
	require.Error(t, err)
	assert.Nil(t, rdb)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}
