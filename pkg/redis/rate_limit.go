package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 限流相关常量
const (
	ChatRateKeyPrefix = "sns:chat:rate:" // 聊天限流计数key前缀
)

// RateLimiter 固定窗口计数限流
type RateLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

// NewRateLimiter 创建限流器，limit<=0 表示不限流
func NewRateLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{rdb: rdb, prefix: prefix, limit: int64(limit), window: window}
}

// Allow 计数加一并判断是否仍在额度内
// Redis不可用时返回 (true, err)，由调用方决定是否放行
func (l *RateLimiter) Allow(ctx context.Context, userID uint) (bool, error) {
	if l == nil || l.limit <= 0 {
		return true, nil
	}
	if l.rdb == nil {
		return true, ErrNotInitialized
	}

	key := fmt.Sprintf("%s%d", l.prefix, userID)

	// 使用Redis INCR命令原子性增加计数，窗口内第一次请求设置过期
	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return true, fmt.Errorf("限流计数失败: %w", err)
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return true, fmt.Errorf("设置限流窗口失败: %w", err)
		}
	}

	return count <= l.limit, nil
}
