package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor 在单个数据库事务中执行一组仓储操作
type Transactor struct {
	db *gorm.DB
}

// NewTransactor 创建Transactor实例
func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTransaction fn 返回错误或panic时整体回滚
// fn 内只能使用绑定到 tx 的仓储（repo.WithTx(tx)）
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(fn)
}
