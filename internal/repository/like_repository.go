package repository

import (
	"context"
	"fmt"

	"sns-system/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository 点赞仓储
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository 创建LikeRepository实例
func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// WithTx 返回绑定到事务的仓储
func (r *LikeRepository) WithTx(tx *gorm.DB) *LikeRepository {
	return &LikeRepository{db: tx}
}

// Create 幂等点赞，返回是否真正新建
func (r *LikeRepository) Create(ctx context.Context, userID, tweetID uint) (bool, error) {
	like := &model.Like{UserID: userID, TweetID: tweetID}
	result := r.db.WithContext(ctx).
		Omit("User").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "tweet_id"}},
			DoNothing: true,
		}).
		Create(like)
	if result.Error != nil {
		return false, fmt.Errorf("like tweet %d by %d: %w", tweetID, userID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Delete 取消点赞，返回是否真正删除
func (r *LikeRepository) Delete(ctx context.Context, userID, tweetID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND tweet_id = ?", userID, tweetID).
		Delete(&model.Like{})
	if result.Error != nil {
		return false, fmt.Errorf("unlike tweet %d by %d: %w", tweetID, userID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteByTweet 删除推文的全部点赞
func (r *LikeRepository) DeleteByTweet(ctx context.Context, tweetID uint) error {
	if err := r.db.WithContext(ctx).Where("tweet_id = ?", tweetID).Delete(&model.Like{}).Error; err != nil {
		return fmt.Errorf("delete likes of tweet %d: %w", tweetID, err)
	}
	return nil
}

// CountByTweet 推文的点赞数
func (r *LikeRepository) CountByTweet(ctx context.Context, tweetID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Like{}).Where("tweet_id = ?", tweetID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count likes of tweet %d: %w", tweetID, err)
	}
	return count, nil
}

// CountByTweets 批量统计点赞数，没有点赞的推文不出现在结果中
func (r *LikeRepository) CountByTweets(ctx context.Context, tweetIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(tweetIDs))
	if len(tweetIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		TweetID uint
		Total   int64
	}
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Select("tweet_id, COUNT(*) AS total").
		Where("tweet_id IN ?", tweetIDs).
		Group("tweet_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	for _, row := range rows {
		counts[row.TweetID] = row.Total
	}
	return counts, nil
}

// LikedTweetIDs 用户在给定推文中点过赞的集合
func (r *LikeRepository) LikedTweetIDs(ctx context.Context, userID uint, tweetIDs []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool)
	if userID == 0 || len(tweetIDs) == 0 {
		return liked, nil
	}

	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND tweet_id IN ?", userID, tweetIDs).
		Pluck("tweet_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("liked tweet ids: %w", err)
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
