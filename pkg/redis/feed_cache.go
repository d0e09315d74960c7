package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 时间线缓存相关常量
const (
	FeedKeyPrefix = "sns:feed:home:" // 首页时间线分页缓存key前缀
)

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = errors.New("cache miss")

// CachedTweet 缓存的推文结构（不含与观看者相关的字段）
type CachedTweet struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Contents  string    `json:"contents"`
	LikeCount int64     `json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
}

// CachedFeedPage 缓存的一页时间线
type CachedFeedPage struct {
	Tweets []CachedTweet `json:"tweets"`
}

// FeedCache 首页时间线的旁路缓存
type FeedCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewFeedCache 创建时间线缓存，rdb 为 nil 时所有操作返回 ErrNotInitialized
func NewFeedCache(rdb *redis.Client, ttl time.Duration) *FeedCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &FeedCache{rdb: rdb, ttl: ttl}
}

func feedKey(page, pageSize int) string {
	return fmt.Sprintf("%s%d:%d", FeedKeyPrefix, pageSize, page)
}

// GetPage 读取缓存的一页时间线
func (f *FeedCache) GetPage(ctx context.Context, page, pageSize int) (*CachedFeedPage, error) {
	if f == nil || f.rdb == nil {
		return nil, ErrNotInitialized
	}

	data, err := f.rdb.Get(ctx, feedKey(page, pageSize)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("读取时间线缓存失败: %w", err)
	}

	var cached CachedFeedPage
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("反序列化时间线失败: %w", err)
	}
	return &cached, nil
}

// SetPage 写入一页时间线
func (f *FeedCache) SetPage(ctx context.Context, page, pageSize int, cached *CachedFeedPage) error {
	if f == nil || f.rdb == nil {
		return ErrNotInitialized
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("序列化时间线失败: %w", err)
	}
	if err := f.rdb.Set(ctx, feedKey(page, pageSize), data, f.ttl).Err(); err != nil {
		return fmt.Errorf("缓存时间线失败: %w", err)
	}
	return nil
}

// Invalidate 删除所有时间线分页缓存，推文或点赞变化后调用
func (f *FeedCache) Invalidate(ctx context.Context) error {
	if f == nil || f.rdb == nil {
		return ErrNotInitialized
	}

	var cursor uint64
	for {
		keys, next, err := f.rdb.Scan(ctx, cursor, FeedKeyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("扫描时间线缓存失败: %w", err)
		}
		if len(keys) > 0 {
			if err := f.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("清除时间线缓存失败: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
