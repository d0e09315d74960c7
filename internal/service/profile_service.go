package service

import (
	"context"
	"unicode/utf8"

	"sns-system/internal/model"
	"sns-system/internal/repository"
	"sns-system/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const hobbyMaxLength = 255

// ProfileView 资料页数据
type ProfileView struct {
	Profile        *model.Profile
	User           *model.User
	FollowingCount int64
	FollowerCount  int64
}

type ProfileService struct {
	tx       *repository.Transactor
	profiles *repository.ProfileRepository
	users    *repository.UserRepository
	follows  *repository.FriendShipRepository
}

func NewProfileService(
	tx *repository.Transactor,
	profiles *repository.ProfileRepository,
	users *repository.UserRepository,
	follows *repository.FriendShipRepository,
) *ProfileService {
	return &ProfileService{tx: tx, profiles: profiles, users: users, follows: follows}
}

// EnsureProfile 保证用户存在资料，已存在则原样返回
func (s *ProfileService) EnsureProfile(ctx context.Context, userID uint) (*model.Profile, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, wrapRepoErr("failed to load user", err)
	}
	p, err := s.profiles.EnsureForUser(ctx, userID)
	if err != nil {
		return nil, model.NewInternalError("failed to ensure profile", err)
	}
	return p, nil
}

// Get 按资料ID读取资料页
func (s *ProfileService) Get(ctx context.Context, profileID uint) (*ProfileView, error) {
	p, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, wrapRepoErr("failed to load profile", err)
	}
	u, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, wrapRepoErr("failed to load user", err)
	}
	following, err := s.follows.CountFollowing(ctx, u.ID)
	if err != nil {
		return nil, model.NewInternalError("failed to count following", err)
	}
	followers, err := s.follows.CountFollowers(ctx, u.ID)
	if err != nil {
		return nil, model.NewInternalError("failed to count followers", err)
	}
	return &ProfileView{Profile: p, User: u, FollowingCount: following, FollowerCount: followers}, nil
}

// GetByUser 按用户ID读取资料
func (s *ProfileService) GetByUser(ctx context.Context, userID uint) (*model.Profile, error) {
	return s.EnsureProfile(ctx, userID)
}

// Update 只有资料所有者可以修改，两个字段都允许为空
func (s *ProfileService) Update(ctx context.Context, actorID, profileID uint, introduction, hobby string) (*model.Profile, error) {
	if actorID == 0 {
		return nil, model.NewAuthenticationError("login required")
	}

	var updated *model.Profile
	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		profiles := s.profiles.WithTx(tx)
		p, err := profiles.GetByID(ctx, profileID)
		if err != nil {
			return err
		}
		if p.UserID != actorID {
			return model.NewForbiddenError("You can only edit your own profile")
		}
		if utf8.RuneCountInString(hobby) > hobbyMaxLength {
			return model.NewValidationError("profile form is invalid", map[string][]string{
				"hobby": {"Ensure this value has at most 255 characters."},
			})
		}
		if err := profiles.UpdateFields(ctx, p.ID, introduction, hobby); err != nil {
			return err
		}
		updated, err = profiles.GetByID(ctx, p.ID)
		return err
	})
	if err != nil {
		if model.ErrorCode(err) == model.CodeForbidden {
			logger.Warn("拒绝修改他人资料", zap.Uint("actor_id", actorID), zap.Uint("profile_id", profileID))
		}
		return nil, wrapRepoErr("failed to update profile", err)
	}

	logger.Info("资料已更新", zap.Uint("user_id", actorID), zap.Uint("profile_id", profileID))
	return updated, nil
}
