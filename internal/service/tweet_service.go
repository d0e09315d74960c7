package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"sns-system/internal/model"
	"sns-system/internal/repository"
	"sns-system/pkg/logger"
	"sns-system/pkg/metrics"
	"sns-system/pkg/redis"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 点赞接口返回的 method 字段
const (
	LikeMethodCreate = "create"
	LikeMethodDelete = "delete"
)

const defaultPageSize = 20

// FeedCache 时间线缓存，由 pkg/redis.FeedCache 实现
type FeedCache interface {
	GetPage(ctx context.Context, page, pageSize int) (*redis.CachedFeedPage, error)
	SetPage(ctx context.Context, page, pageSize int, cached *redis.CachedFeedPage) error
	Invalidate(ctx context.Context) error
}

// TweetView 带点赞信息的推文
type TweetView struct {
	ID        uint
	UserID    uint
	Username  string
	Contents  string
	CreatedAt time.Time
	LikeCount int64
	LikedByMe bool
}

// FeedPage 一页时间线
type FeedPage struct {
	Tweets     []*TweetView
	Page       int
	PageSize   int
	TotalPages int
	Total      int64
}

func (p *FeedPage) HasPrev() bool { return p.Page > 1 }
func (p *FeedPage) HasNext() bool { return p.Page < p.TotalPages }
func (p *FeedPage) PrevPage() int { return p.Page - 1 }
func (p *FeedPage) NextPage() int { return p.Page + 1 }

// LikeResult 点赞/取消点赞结果
type LikeResult struct {
	TweetID uint
	Count   int64
	Method  string
	// Changed 为 false 表示幂等空操作
	Changed bool
}

type TweetService struct {
	tx       *repository.Transactor
	tweets   *repository.TweetRepository
	likes    *repository.LikeRepository
	cache    FeedCache
	pageSize int
}

// NewTweetService cache 可为 nil，此时时间线直接读库
func NewTweetService(
	tx *repository.Transactor,
	tweets *repository.TweetRepository,
	likes *repository.LikeRepository,
	cache FeedCache,
	pageSize int,
) *TweetService {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &TweetService{tx: tx, tweets: tweets, likes: likes, cache: cache, pageSize: pageSize}
}

// ValidateContents 校验推文内容，返回去除首尾空白后的内容
func ValidateContents(contents string) (string, error) {
	contents = strings.TrimSpace(contents)
	if contents == "" {
		return "", model.NewValidationError("tweet form is invalid",
			map[string][]string{"contents": {msgRequired}})
	}
	if n := utf8.RuneCountInString(contents); n > model.TweetMaxLength {
		return "", model.NewValidationError("tweet form is invalid",
			map[string][]string{"contents": {
				fmt.Sprintf("Ensure this value has at most %d characters (it has %d).", model.TweetMaxLength, n),
			}})
	}
	return contents, nil
}

// Create 发布推文
func (s *TweetService) Create(ctx context.Context, authorID uint, contents string) (*model.Tweet, error) {
	if authorID == 0 {
		return nil, model.NewAuthenticationError("login required")
	}
	contents, err := ValidateContents(contents)
	if err != nil {
		return nil, err
	}

	tweet := &model.Tweet{UserID: authorID, Contents: contents}
	if err := s.tweets.Create(ctx, tweet); err != nil {
		logger.Error("创建推文失败", zap.Uint("user_id", authorID), zap.Error(err))
		return nil, model.NewInternalError("failed to create tweet", err)
	}

	metrics.TweetTotal.WithLabelValues("create").Inc()
	s.invalidateFeed(ctx)
	logger.Info("推文已发布", zap.Uint("user_id", authorID), zap.Uint("tweet_id", tweet.ID))
	return tweet, nil
}

// Delete 删除推文，只有作者本人可以删除，点赞一并删除
func (s *TweetService) Delete(ctx context.Context, actorID, tweetID uint) error {
	if actorID == 0 {
		return model.NewAuthenticationError("login required")
	}

	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		tweets := s.tweets.WithTx(tx)
		tweet, err := tweets.GetByID(ctx, tweetID)
		if err != nil {
			return err
		}
		if tweet.UserID != actorID {
			return model.NewForbiddenError("You can only delete your own tweets")
		}
		if err := s.likes.WithTx(tx).DeleteByTweet(ctx, tweetID); err != nil {
			return err
		}
		return tweets.Delete(ctx, tweetID)
	})
	if err != nil {
		if model.ErrorCode(err) == model.CodeForbidden {
			logger.Warn("拒绝删除他人推文", zap.Uint("actor_id", actorID), zap.Uint("tweet_id", tweetID))
		}
		return wrapRepoErr("failed to delete tweet", err)
	}

	metrics.TweetTotal.WithLabelValues("delete").Inc()
	s.invalidateFeed(ctx)
	logger.Info("推文已删除", zap.Uint("user_id", actorID), zap.Uint("tweet_id", tweetID))
	return nil
}

// Like 点赞，重复点赞为空操作
func (s *TweetService) Like(ctx context.Context, actorID, tweetID uint) (*LikeResult, error) {
	return s.toggleLike(ctx, actorID, tweetID, LikeMethodCreate)
}

// Unlike 取消点赞，未点赞时为空操作
func (s *TweetService) Unlike(ctx context.Context, actorID, tweetID uint) (*LikeResult, error) {
	return s.toggleLike(ctx, actorID, tweetID, LikeMethodDelete)
}

func (s *TweetService) toggleLike(ctx context.Context, actorID, tweetID uint, method string) (*LikeResult, error) {
	if actorID == 0 {
		return nil, model.NewAuthenticationError("login required")
	}

	result := &LikeResult{TweetID: tweetID, Method: method}
	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		exists, err := s.tweets.WithTx(tx).Exists(ctx, tweetID)
		if err != nil {
			return err
		}
		if !exists {
			return model.NewNotFoundError("tweet", tweetID)
		}

		likes := s.likes.WithTx(tx)
		if method == LikeMethodCreate {
			result.Changed, err = likes.Create(ctx, actorID, tweetID)
		} else {
			result.Changed, err = likes.Delete(ctx, actorID, tweetID)
		}
		if err != nil {
			return err
		}
		result.Count, err = likes.CountByTweet(ctx, tweetID)
		return err
	})
	if err != nil {
		return nil, wrapRepoErr("failed to update like", err)
	}

	if result.Changed {
		metrics.LikeTotal.WithLabelValues(method).Inc()
		s.invalidateFeed(ctx)
	} else {
		metrics.LikeTotal.WithLabelValues("noop").Inc()
	}
	logger.Debug("点赞状态更新",
		zap.Uint("user_id", actorID),
		zap.Uint("tweet_id", tweetID),
		zap.String("method", method),
		zap.Bool("changed", result.Changed),
		zap.Int64("count", result.Count),
	)
	return result, nil
}

// Get 推文详情
func (s *TweetService) Get(ctx context.Context, viewerID, tweetID uint) (*TweetView, error) {
	tweet, err := s.tweets.GetByID(ctx, tweetID)
	if err != nil {
		return nil, wrapRepoErr("failed to load tweet", err)
	}
	views, err := s.decorate(ctx, viewerID, []*model.Tweet{tweet})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// ListByUser 某用户最近的推文
func (s *TweetService) ListByUser(ctx context.Context, viewerID, userID uint, limit int) ([]*TweetView, error) {
	if limit <= 0 {
		limit = s.pageSize
	}
	tweets, err := s.tweets.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, model.NewInternalError("failed to list tweets", err)
	}
	return s.decorate(ctx, viewerID, tweets)
}

// Feed 首页时间线，page 从1开始，越界时取最后一页
func (s *TweetService) Feed(ctx context.Context, viewerID uint, page int) (*FeedPage, error) {
	total, err := s.tweets.Count(ctx)
	if err != nil {
		return nil, model.NewInternalError("failed to count tweets", err)
	}

	fp := &FeedPage{PageSize: s.pageSize, Total: total, TotalPages: totalPages(total, s.pageSize)}
	fp.Page = clampPage(page, fp.TotalPages)

	cached, err := s.loadPage(ctx, fp.Page)
	if err != nil {
		return nil, err
	}

	fp.Tweets = make([]*TweetView, 0, len(cached.Tweets))
	ids := make([]uint, 0, len(cached.Tweets))
	for _, ct := range cached.Tweets {
		fp.Tweets = append(fp.Tweets, &TweetView{
			ID:        ct.ID,
			UserID:    ct.UserID,
			Username:  ct.Username,
			Contents:  ct.Contents,
			CreatedAt: ct.CreatedAt,
			LikeCount: ct.LikeCount,
		})
		ids = append(ids, ct.ID)
	}

	if viewerID != 0 && len(ids) > 0 {
		liked, err := s.likes.LikedTweetIDs(ctx, viewerID, ids)
		if err != nil {
			return nil, model.NewInternalError("failed to load likes", err)
		}
		for _, tv := range fp.Tweets {
			tv.LikedByMe = liked[tv.ID]
		}
	}
	return fp, nil
}

// loadPage 先读缓存，未命中再查库并回填
func (s *TweetService) loadPage(ctx context.Context, page int) (*redis.CachedFeedPage, error) {
	if s.cache != nil {
		cached, err := s.cache.GetPage(ctx, page, s.pageSize)
		switch {
		case err == nil:
			metrics.FeedCacheTotal.WithLabelValues("hit").Inc()
			return cached, nil
		case errors.Is(err, redis.ErrCacheMiss):
			metrics.FeedCacheTotal.WithLabelValues("miss").Inc()
		case errors.Is(err, redis.ErrNotInitialized):
		default:
			metrics.FeedCacheTotal.WithLabelValues("error").Inc()
			logger.Warn("读取时间线缓存失败，回源数据库", zap.Int("page", page), zap.Error(err))
		}
	}

	tweets, err := s.tweets.ListPage(ctx, s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		return nil, model.NewInternalError("failed to list feed", err)
	}
	ids := make([]uint, 0, len(tweets))
	for _, t := range tweets {
		ids = append(ids, t.ID)
	}
	counts, err := s.likes.CountByTweets(ctx, ids)
	if err != nil {
		return nil, model.NewInternalError("failed to count likes", err)
	}

	cached := &redis.CachedFeedPage{Tweets: make([]redis.CachedTweet, 0, len(tweets))}
	for _, t := range tweets {
		cached.Tweets = append(cached.Tweets, redis.CachedTweet{
			ID:        t.ID,
			UserID:    t.UserID,
			Username:  t.User.Username,
			Contents:  t.Contents,
			LikeCount: counts[t.ID],
			CreatedAt: t.CreatedAt,
		})
	}

	if s.cache != nil {
		if err := s.cache.SetPage(ctx, page, s.pageSize, cached); err != nil && !errors.Is(err, redis.ErrNotInitialized) {
			logger.Warn("写入时间线缓存失败", zap.Int("page", page), zap.Error(err))
		}
	}
	return cached, nil
}

func (s *TweetService) decorate(ctx context.Context, viewerID uint, tweets []*model.Tweet) ([]*TweetView, error) {
	ids := make([]uint, 0, len(tweets))
	for _, t := range tweets {
		ids = append(ids, t.ID)
	}
	counts, err := s.likes.CountByTweets(ctx, ids)
	if err != nil {
		return nil, model.NewInternalError("failed to count likes", err)
	}
	liked := map[uint]bool{}
	if viewerID != 0 {
		if liked, err = s.likes.LikedTweetIDs(ctx, viewerID, ids); err != nil {
			return nil, model.NewInternalError("failed to load likes", err)
		}
	}

	views := make([]*TweetView, 0, len(tweets))
	for _, t := range tweets {
		views = append(views, &TweetView{
			ID:        t.ID,
			UserID:    t.UserID,
			Username:  t.User.Username,
			Contents:  t.Contents,
			CreatedAt: t.CreatedAt,
			LikeCount: counts[t.ID],
			LikedByMe: liked[t.ID],
		})
	}
	return views, nil
}

// invalidateFeed 写操作提交后清除时间线缓存，失败只记录日志
func (s *TweetService) invalidateFeed(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil && !errors.Is(err, redis.ErrNotInitialized) {
		logger.Warn("清除时间线缓存失败", zap.Error(err))
	}
}

func totalPages(total int64, pageSize int) int {
	if total == 0 {
		return 1
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

func clampPage(page, last int) int {
	if page < 1 {
		return 1
	}
	if page > last {
		return last
	}
	return page
}
