package domain

import (
	"context"
)

// RoyaltyRepository 收益台账仓储接口
type RoyaltyRepository interface {
	// Credit 在同一事务中写入分录并调整合作伙伴钱包余额
	Credit(ctx context.Context, entry *RoyaltyEntry) error
	ListByPartner(ctx context.Context, partnerID string) ([]*RoyaltyEntry, error)
}

// PayoutRepository 提现申请仓储接口
type PayoutRepository interface {
	Save(ctx context.Context, payout *PayoutRequest) error
	GetByID(ctx context.Context, id string) (*PayoutRequest, error)
	List(ctx context.Context, status PayoutStatus) ([]*PayoutRequest, error)
	// Complete 在同一事务中扣减钱包余额并落盘完成状态
	Complete(ctx context.Context, payout *PayoutRequest) error
}

// EventPublisher 领域事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
