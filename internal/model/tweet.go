package model

import (
	"time"
)

// TweetMaxLength 推文最大字符数
const TweetMaxLength = 200

// Tweet 推文，默认按创建时间倒序
type Tweet struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index;comment:作者ID"`
	Contents  string    `gorm:"type:varchar(200);not null;comment:内容"`
	CreatedAt time.Time `gorm:"index;comment:创建时间"`

	User  User   `gorm:"constraint:OnDelete:CASCADE"`
	Likes []Like `gorm:"constraint:OnDelete:CASCADE"`
}

func (Tweet) TableName() string { return "tweet" }

// Like 点赞，(user_id, tweet_id) 唯一
type Like struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_tweet;comment:用户ID"`
	TweetID   uint      `gorm:"not null;uniqueIndex:idx_user_tweet;index;comment:推文ID"`
	CreatedAt time.Time `gorm:"comment:创建时间"`

	User User `gorm:"constraint:OnDelete:CASCADE"`
}

func (Like) TableName() string { return "tweet_like" }

// All 返回需要自动迁移的模型，顺序即依赖顺序
func All() []interface{} {
	return []interface{}{&User{}, &Profile{}, &FriendShip{}, &Tweet{}, &Like{}}
}
