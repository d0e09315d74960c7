package model

import (
	"time"
)

// FriendShip 关注关系：Follower 关注 Following
// (follower_id, following_id) 唯一，重复关注在存储层被忽略

type FriendShip struct {
	ID          uint      `gorm:"primaryKey"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_follower_following;comment:关注者ID"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_follower_following;index;comment:被关注者ID"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`

	Follower  User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Following User `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE"`
}

func (FriendShip) TableName() string { return "friendship" }
