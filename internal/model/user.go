package model

import (
	"time"
)

// User 用户模型
// 索引与唯一约束：用户名唯一
// 说明：密码仅存储哈希（PasswordHash），不存储明文
// 每个用户在创建事务内同时生成一条 Profile

type User struct {
	ID           uint       `gorm:"primaryKey"`
	Username     string     `gorm:"type:varchar(150);not null;uniqueIndex;comment:用户名"`
	Email        string     `gorm:"type:varchar(254);comment:邮箱"`
	PasswordHash string     `gorm:"type:varchar(255);not null;comment:密码哈希"`
	IsStaff      bool       `gorm:"default:false;comment:是否管理员"`
	IsSuperuser  bool       `gorm:"default:false;comment:是否超级用户"`
	LastLogin    *time.Time `gorm:"comment:最近登录时间"`
	CreatedAt    time.Time  `gorm:"comment:创建时间"`
	UpdatedAt    time.Time  `gorm:"comment:更新时间"`

	Profile *Profile `gorm:"constraint:OnDelete:CASCADE"`
}

// TableName 指定表名（因全局配置使用单数表名，这里与结构体名一致为 user）
func (User) TableName() string { return "user" }
