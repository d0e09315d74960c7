// Package testutil 测试辅助：内存 sqlite 数据库与数据构造
package testutil

import (
	"context"
	"testing"
	"time"

	"sns-system/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// NewDB 创建迁移完成的内存数据库
// 只开一个连接，保证同一测试内所有查询看到同一个 :memory: 库
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		NamingStrategy:         schema.NamingStrategy{SingularTable: true},
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser 直接写入一个用户与其资料，密码哈希为占位值
func CreateUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	if err := db.Create(&model.Profile{UserID: u.ID}).Error; err != nil {
		t.Fatalf("create profile %s: %v", username, err)
	}
	return u
}

// CreateTweet 写入一条推文，at 为零值时使用当前时间
func CreateTweet(t *testing.T, db *gorm.DB, userID uint, contents string, at time.Time) *model.Tweet {
	t.Helper()
	tw := &model.Tweet{UserID: userID, Contents: contents, CreatedAt: at}
	if err := db.Omit("User").Create(tw).Error; err != nil {
		t.Fatalf("create tweet: %v", err)
	}
	return tw
}

// Count 统计表行数
func Count(t *testing.T, db *gorm.DB, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.WithContext(context.Background()).Model(m)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", m, err)
	}
	return n
}
