package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"sns-system/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestInitRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	ctx := context.Background()
	_, err = InitRedis(ctx, config.RedisConfig{Host: mr.Host(), Port: port})
	require.NoError(t, err)
	defer Close()

	assert.NotNil(t, GetClient())
	assert.NoError(t, HealthCheck(ctx))
}

func TestHealthCheck_NotInitialized(t *testing.T) {
	assert.ErrorIs(t, HealthCheck(context.Background()), ErrNotInitialized)
}

func TestFeedCache_RoundTripAndInvalidate(t *testing.T) {
	mr, rdb := newTestClient(t)
	ctx := context.Background()
	cache := NewFeedCache(rdb, time.Minute)

	_, err := cache.GetPage(ctx, 1, 20)
	assert.ErrorIs(t, err, ErrCacheMiss)

	page := &CachedFeedPage{
		Tweets: []CachedTweet{{ID: 3, UserID: 1, Username: "yamada", Contents: "hello", LikeCount: 2}},
	}
	require.NoError(t, cache.SetPage(ctx, 1, 20, page))
	require.NoError(t, cache.SetPage(ctx, 2, 20, page))
	assert.True(t, mr.Exists(FeedKeyPrefix+"20:1"))

	got, err := cache.GetPage(ctx, 1, 20)
	require.NoError(t, err)
	require.Len(t, got.Tweets, 1)
	assert.Equal(t, "hello", got.Tweets[0].Contents)
	assert.Equal(t, int64(2), got.Tweets[0].LikeCount)

	require.NoError(t, cache.Invalidate(ctx))
	assert.False(t, mr.Exists(FeedKeyPrefix+"20:1"))
	assert.False(t, mr.Exists(FeedKeyPrefix+"20:2"))
}

func TestFeedCache_TTL(t *testing.T) {
	mr, rdb := newTestClient(t)
	ctx := context.Background()
	cache := NewFeedCache(rdb, 10*time.Second)

	require.NoError(t, cache.SetPage(ctx, 1, 20, &CachedFeedPage{}))
	mr.FastForward(11 * time.Second)

	_, err := cache.GetPage(ctx, 1, 20)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestFeedCache_NilClient(t *testing.T) {
	cache := NewFeedCache(nil, 0)
	_, err := cache.GetPage(context.Background(), 1, 20)
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.ErrorIs(t, cache.Invalidate(context.Background()), ErrNotInitialized)
}

func TestRateLimiter_FixedWindow(t *testing.T) {
	mr, rdb := newTestClient(t)
	ctx := context.Background()
	limiter := NewRateLimiter(rdb, ChatRateKeyPrefix, 2, time.Minute)

	for i := 0; i < 2; i++ {
		ok, err := limiter.Allow(ctx, 5)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := limiter.Allow(ctx, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	// 其他用户不受影响
	ok, err = limiter.Allow(ctx, 6)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(61 * time.Second)
	ok, err = limiter.Allow(ctx, 5)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	mr, rdb := newTestClient(t)
	limiter := NewRateLimiter(rdb, ChatRateKeyPrefix, 1, time.Minute)
	mr.Close()

	ok, err := limiter.Allow(context.Background(), 1)
	assert.Error(t, err)
	assert.True(t, ok)

	ok, err = NewRateLimiter(nil, ChatRateKeyPrefix, 1, time.Minute).Allow(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.True(t, ok)
}
