package repository

import (
	"context"
	"errors"
	"fmt"

	"sns-system/internal/model"

	"gorm.io/gorm"
)

// TweetRepository 推文数据仓储
type TweetRepository struct {
	db *gorm.DB
}

// NewTweetRepository 创建TweetRepository实例
func NewTweetRepository(db *gorm.DB) *TweetRepository {
	return &TweetRepository{db: db}
}

// WithTx 返回绑定到事务的仓储
func (r *TweetRepository) WithTx(tx *gorm.DB) *TweetRepository {
	return &TweetRepository{db: tx}
}

// Create 创建推文
func (r *TweetRepository) Create(ctx context.Context, tweet *model.Tweet) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(tweet).Error; err != nil {
		return fmt.Errorf("create tweet: %w", err)
	}
	return nil
}

// CreateInBatches 批量创建推文
func (r *TweetRepository) CreateInBatches(ctx context.Context, tweets []*model.Tweet, batchSize int) error {
	if err := r.db.WithContext(ctx).Omit("User").CreateInBatches(tweets, batchSize).Error; err != nil {
		return fmt.Errorf("bulk create tweets: %w", err)
	}
	return nil
}

// GetByID 根据ID获取推文（含作者）
func (r *TweetRepository) GetByID(ctx context.Context, id uint) (*model.Tweet, error) {
	var tweet model.Tweet
	if err := r.db.WithContext(ctx).Preload("User").First(&tweet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NewNotFoundError("tweet", id)
		}
		return nil, fmt.Errorf("get tweet %d: %w", id, err)
	}
	return &tweet, nil
}

// Exists 推文是否存在
func (r *TweetRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Tweet{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check tweet %d: %w", id, err)
	}
	return count > 0, nil
}

// Delete 删除推文
func (r *TweetRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Tweet{}, id).Error; err != nil {
		return fmt.Errorf("delete tweet %d: %w", id, err)
	}
	return nil
}

// ListPage 时间线分页，按创建时间倒序，相同时间按ID倒序保证稳定
func (r *TweetRepository) ListPage(ctx context.Context, limit, offset int) ([]*model.Tweet, error) {
	var tweets []*model.Tweet
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&tweets).Error
	if err != nil {
		return nil, fmt.Errorf("list tweets: %w", err)
	}
	return tweets, nil
}

// ListByUser 某用户的推文
func (r *TweetRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]*model.Tweet, error) {
	var tweets []*model.Tweet
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&tweets).Error
	if err != nil {
		return nil, fmt.Errorf("list tweets of user %d: %w", userID, err)
	}
	return tweets, nil
}

// Count 推文总数
func (r *TweetRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Tweet{}).Count(&count).Error
	return count, err
}
