package model

import "time"

// Profile 用户资料，与 User 一对一
type Profile struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uint      `gorm:"not null;uniqueIndex;comment:用户ID"`
	Introduction string    `gorm:"type:text;comment:自我介绍"`
	Hobby        string    `gorm:"type:varchar(255);comment:爱好"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
	UpdatedAt    time.Time `gorm:"comment:更新时间"`
}

func (Profile) TableName() string { return "profile" }
