package service

import (
	"context"

	"sns-system/internal/model"
	"sns-system/internal/repository"
	"sns-system/pkg/logger"
	"sns-system/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FollowOutcome 关注/取关的结果
type FollowOutcome string

const (
	OutcomeFollowed         FollowOutcome = "followed"
	OutcomeAlreadyFollowing FollowOutcome = "already_following"
	OutcomeUnfollowed       FollowOutcome = "unfollowed"
	OutcomeNotFollowing     FollowOutcome = "not_following"
)

// 用户可见提示
const (
	MsgUserNotExist     = "specified user does not exist"
	MsgCannotFollowSelf = "cannot follow yourself"
	MsgCannotUnfollow   = "cannot unfollow yourself"
)

// FollowResult 关注操作结果，Target 为目标用户
type FollowResult struct {
	Target  *model.User
	Outcome FollowOutcome
}

// Changed 是否真的改变了关注关系
func (r *FollowResult) Changed() bool {
	return r.Outcome == OutcomeFollowed || r.Outcome == OutcomeUnfollowed
}

// FollowService 关注关系
// 每个用户对 (A,B) 只有 未关注/已关注 两种状态，A==B 永远不合法
type FollowService struct {
	tx      *repository.Transactor
	users   *repository.UserRepository
	follows *repository.FriendShipRepository
}

func NewFollowService(tx *repository.Transactor, users *repository.UserRepository, follows *repository.FriendShipRepository) *FollowService {
	return &FollowService{tx: tx, users: users, follows: follows}
}

// Follow actor 关注 targetUsername
// 已关注时不报错，返回 OutcomeAlreadyFollowing
func (s *FollowService) Follow(ctx context.Context, actorID uint, targetUsername string) (*FollowResult, error) {
	if actorID == 0 {
		return nil, model.NewAuthenticationError("login required")
	}

	result := &FollowResult{}
	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		target, err := s.resolveTarget(ctx, tx, targetUsername)
		if err != nil {
			return err
		}
		result.Target = target
		if target.ID == actorID {
			return model.NewDomainRejection(MsgCannotFollowSelf)
		}

		created, err := s.follows.WithTx(tx).Create(ctx, actorID, target.ID)
		if err != nil {
			return err
		}
		if created {
			result.Outcome = OutcomeFollowed
		} else {
			result.Outcome = OutcomeAlreadyFollowing
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(err, actorID, targetUsername)
	}

	metrics.FollowTotal.WithLabelValues(string(result.Outcome)).Inc()
	logger.Info("关注操作完成",
		zap.Uint("follower_id", actorID),
		zap.Uint("following_id", result.Target.ID),
		zap.String("outcome", string(result.Outcome)),
	)
	return result, nil
}

// Unfollow actor 取消关注 targetUsername
// 未关注时不报错，返回 OutcomeNotFollowing
func (s *FollowService) Unfollow(ctx context.Context, actorID uint, targetUsername string) (*FollowResult, error) {
	if actorID == 0 {
		return nil, model.NewAuthenticationError("login required")
	}

	result := &FollowResult{}
	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		target, err := s.resolveTarget(ctx, tx, targetUsername)
		if err != nil {
			return err
		}
		result.Target = target
		if target.ID == actorID {
			return model.NewDomainRejection(MsgCannotUnfollow)
		}

		deleted, err := s.follows.WithTx(tx).Delete(ctx, actorID, target.ID)
		if err != nil {
			return err
		}
		if deleted {
			result.Outcome = OutcomeUnfollowed
		} else {
			result.Outcome = OutcomeNotFollowing
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(err, actorID, targetUsername)
	}

	metrics.FollowTotal.WithLabelValues(string(result.Outcome)).Inc()
	logger.Info("取消关注完成",
		zap.Uint("follower_id", actorID),
		zap.Uint("following_id", result.Target.ID),
		zap.String("outcome", string(result.Outcome)),
	)
	return result, nil
}

func (s *FollowService) resolveTarget(ctx context.Context, tx *gorm.DB, username string) (*model.User, error) {
	target, err := s.users.WithTx(tx).GetByUsername(ctx, username)
	if err != nil {
		if model.IsNotFound(err) {
			return nil, &model.AppError{Code: model.CodeNotFound, Message: MsgUserNotExist, Err: err}
		}
		return nil, err
	}
	return target, nil
}

func (s *FollowService) fail(err error, actorID uint, target string) error {
	switch model.ErrorCode(err) {
	case model.CodeDomainRejection, model.CodeNotFound:
		metrics.FollowTotal.WithLabelValues("rejected").Inc()
		logger.Warn("关注操作被拒绝", zap.Uint("actor_id", actorID), zap.String("target", target), zap.Error(err))
		return err
	default:
		logger.Error("关注操作失败", zap.Uint("actor_id", actorID), zap.String("target", target), zap.Error(err))
		return wrapRepoErr("failed to update follow relationship", err)
	}
}

// FollowingOf userID 关注的人
func (s *FollowService) FollowingOf(ctx context.Context, userID uint) ([]*model.User, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, wrapRepoErr("failed to load user", err)
	}
	users, err := s.follows.ListFollowing(ctx, userID)
	if err != nil {
		return nil, model.NewInternalError("failed to list following", err)
	}
	return users, nil
}

// FollowersOf 关注 userID 的人
func (s *FollowService) FollowersOf(ctx context.Context, userID uint) ([]*model.User, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, wrapRepoErr("failed to load user", err)
	}
	users, err := s.follows.ListFollowers(ctx, userID)
	if err != nil {
		return nil, model.NewInternalError("failed to list followers", err)
	}
	return users, nil
}

// IsFollowing follower 是否关注了 following
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	if followerID == 0 || followerID == followingID {
		return false, nil
	}
	ok, err := s.follows.Exists(ctx, followerID, followingID)
	if err != nil {
		return false, model.NewInternalError("failed to check follow relationship", err)
	}
	return ok, nil
}
