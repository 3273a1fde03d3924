package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoyaltyCreditedEvent 收益入账事件
type RoyaltyCreditedEvent struct {
	EntryID   string          `json:"entry_id"`
	PartnerID string          `json:"partner_id"`
	Amount    decimal.Decimal `json:"amount"`
	Type      RoyaltyType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
}

// PayoutRequestedEvent 提现申请事件
type PayoutRequestedEvent struct {
	PayoutID  string          `json:"payout_id"`
	PartnerID string          `json:"partner_id"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

// PayoutProcessedEvent 提现处理结果事件
type PayoutProcessedEvent struct {
	PayoutID  string       `json:"payout_id"`
	PartnerID string       `json:"partner_id"`
	Status    PayoutStatus `json:"status"`
	AdminID   string       `json:"admin_id"`
	Timestamp time.Time    `json:"timestamp"`
}
