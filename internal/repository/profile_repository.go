package repository

import (
	"context"
	"errors"
	"fmt"

	"sns-system/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository 用户资料仓储
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository 创建ProfileRepository实例
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// WithTx 返回绑定到事务的仓储
func (r *ProfileRepository) WithTx(tx *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: tx}
}

// EnsureForUser 保证用户有且仅有一条资料，已存在时不做任何修改
func (r *ProfileRepository) EnsureForUser(ctx context.Context, userID uint) (*model.Profile, error) {
	p := &model.Profile{UserID: userID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(p).Error
	if err != nil {
		return nil, fmt.Errorf("ensure profile for user %d: %w", userID, err)
	}
	return r.GetByUserID(ctx, userID)
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uint) (*model.Profile, error) {
	var p model.Profile
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NewNotFoundError("profile", id)
		}
		return nil, fmt.Errorf("get profile %d: %w", id, err)
	}
	return &p, nil
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uint) (*model.Profile, error) {
	var p model.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NewNotFoundError("profile of user", userID)
		}
		return nil, fmt.Errorf("get profile of user %d: %w", userID, err)
	}
	return &p, nil
}

// CountByUser 某用户的资料条数，正常情况下恒为1
func (r *ProfileRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Profile{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// UpdateFields 更新自我介绍与爱好，允许写入空字符串
func (r *ProfileRepository) UpdateFields(ctx context.Context, id uint, introduction, hobby string) error {
	err := r.db.WithContext(ctx).Model(&model.Profile{}).Where("id = ?", id).Updates(map[string]interface{}{
		"introduction": introduction,
		"hobby":        hobby,
	}).Error
	if err != nil {
		return fmt.Errorf("update profile %d: %w", id, err)
	}
	return nil
}
