package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// KYCStatusChangedEvent 认证状态变更事件
type KYCStatusChangedEvent struct {
	ProfileID string    `json:"profile_id"`
	Status    KYCStatus `json:"status"`
	AdminID   string    `json:"admin_id"`
	Timestamp time.Time `json:"timestamp"`
}

// WalletAdjustedEvent 钱包余额调整事件
type WalletAdjustedEvent struct {
	ProfileID string          `json:"profile_id"`
	Delta     decimal.Decimal `json:"delta"`
	Reason    string          `json:"reason"`
	AdminID   string          `json:"admin_id"`
	Timestamp time.Time       `json:"timestamp"`
}
