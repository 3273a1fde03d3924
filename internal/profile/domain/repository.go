package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// ListFilter 档案列表过滤条件
type ListFilter struct {
	Role   Role
	Search string
}

// ProfileRepository 档案仓储接口
type ProfileRepository interface {
	Save(ctx context.Context, profile *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	List(ctx context.Context, filter ListFilter) ([]*Profile, error)
	// UpdateKYCStatus 更新认证状态，记录不存在时返回 apperr.ErrNotFound
	UpdateKYCStatus(ctx context.Context, id string, status KYCStatus) error
	// AdjustWallet 原子调整钱包余额；余额不足以承担扣减时拒绝整个操作
	AdjustWallet(ctx context.Context, id string, delta decimal.Decimal) error
}

// EventPublisher 领域事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
