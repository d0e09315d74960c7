package repository

import (
	"context"
	"fmt"

	"sns-system/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FriendShipRepository 关注关系仓储
type FriendShipRepository struct {
	db *gorm.DB
}

// NewFriendShipRepository 创建FriendShipRepository实例
func NewFriendShipRepository(db *gorm.DB) *FriendShipRepository {
	return &FriendShipRepository{db: db}
}

// WithTx 返回绑定到事务的仓储
func (r *FriendShipRepository) WithTx(tx *gorm.DB) *FriendShipRepository {
	return &FriendShipRepository{db: tx}
}

// Create 幂等插入关注关系，返回是否真正新建
// 并发重复插入由唯一索引 idx_follower_following 兜底，冲突时不报错
func (r *FriendShipRepository) Create(ctx context.Context, followerID, followingID uint) (bool, error) {
	edge := &model.FriendShip{FollowerID: followerID, FollowingID: followingID}
	result := r.db.WithContext(ctx).
		Omit("Follower", "Following").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
			DoNothing: true,
		}).
		Create(edge)
	if result.Error != nil {
		return false, fmt.Errorf("create friendship %d->%d: %w", followerID, followingID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Delete 删除关注关系，返回是否真正删除
func (r *FriendShipRepository) Delete(ctx context.Context, followerID, followingID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.FriendShip{})
	if result.Error != nil {
		return false, fmt.Errorf("delete friendship %d->%d: %w", followerID, followingID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Exists 是否存在 follower -> following
func (r *FriendShipRepository) Exists(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.FriendShip{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check friendship: %w", err)
	}
	return count > 0, nil
}

// ListFollowing 用户关注的人（follower = userID）
func (r *FriendShipRepository) ListFollowing(ctx context.Context, userID uint) ([]*model.User, error) {
	var edges []*model.FriendShip
	err := r.db.WithContext(ctx).
		Preload("Following").
		Where("follower_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&edges).Error
	if err != nil {
		return nil, fmt.Errorf("list following of %d: %w", userID, err)
	}
	users := make([]*model.User, 0, len(edges))
	for _, e := range edges {
		u := e.Following
		users = append(users, &u)
	}
	return users, nil
}

// ListFollowers 关注该用户的人（following = userID）
func (r *FriendShipRepository) ListFollowers(ctx context.Context, userID uint) ([]*model.User, error) {
	var edges []*model.FriendShip
	err := r.db.WithContext(ctx).
		Preload("Follower").
		Where("following_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&edges).Error
	if err != nil {
		return nil, fmt.Errorf("list followers of %d: %w", userID, err)
	}
	users := make([]*model.User, 0, len(edges))
	for _, e := range edges {
		u := e.Follower
		users = append(users, &u)
	}
	return users, nil
}

// CountFollowing 关注数
func (r *FriendShipRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.FriendShip{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

// CountFollowers 粉丝数
func (r *FriendShipRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.FriendShip{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}
