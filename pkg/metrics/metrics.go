package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// FollowTotal 关注/取关结果计数
	// result: followed / already_following / unfollowed / not_following / rejected
	FollowTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sns_follow_total",
		Help: "Follow and unfollow attempts by outcome",
	}, []string{"result"})

	// LikeTotal 点赞计数，action: create / delete / noop
	LikeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sns_like_total",
		Help: "Like and unlike operations by action",
	}, []string{"action"})

	// TweetTotal 推文创建与删除计数
	TweetTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sns_tweet_total",
		Help: "Tweets created and deleted",
	}, []string{"action"})

	// FeedCacheTotal 时间线缓存命中情况，result: hit / miss / error
	FeedCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sns_feed_cache_total",
		Help: "Home feed cache lookups by result",
	}, []string{"result"})

	// RequestDuration HTTP请求耗时
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sns_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Middleware 记录每个请求的耗时，route 使用注册时的路由模板
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestDuration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}

// Handler 暴露 /metrics
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
