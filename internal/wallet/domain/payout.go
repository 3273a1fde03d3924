package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// PayoutStatus 提现申请状态
type PayoutStatus string

const (
	PayoutPending   PayoutStatus = "pending"
	PayoutCompleted PayoutStatus = "completed"
	PayoutRejected  PayoutStatus = "rejected"
)

// PayoutRequest 合作伙伴提现申请
type PayoutRequest struct {
	ID          string          `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	PartnerID   string          `gorm:"column:partner_id;type:varchar(36);index;not null" json:"partner_id"`
	Amount      decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Status      PayoutStatus    `gorm:"column:status;type:varchar(20);index;not null;default:pending" json:"status"`
	Address     string          `gorm:"column:address;type:varchar(200);not null" json:"address"`
	Note        string          `gorm:"column:note;type:varchar(500)" json:"note"`
	CreatedAt   time.Time       `gorm:"column:created_at" json:"created_at"`
	ProcessedAt *time.Time      `gorm:"column:processed_at" json:"processed_at"`
}

// TableName 指定表名
func (PayoutRequest) TableName() string {
	return "payout_requests"
}

// NewPayoutRequest 创建提现申请
func NewPayoutRequest(id, partnerID string, amount decimal.Decimal, address string) *PayoutRequest {
	return &PayoutRequest{
		ID:        id,
		PartnerID: partnerID,
		Amount:    amount,
		Status:    PayoutPending,
		Address:   address,
	}
}

// Complete 标记提现完成，仅允许 pending 状态
func (p *PayoutRequest) Complete(note string, now time.Time) error {
	if p.Status != PayoutPending {
		return errors.New("payout is not pending")
	}
	p.Status = PayoutCompleted
	p.Note = note
	p.ProcessedAt = &now
	return nil
}

// Reject 驳回提现，仅允许 pending 状态
func (p *PayoutRequest) Reject(note string, now time.Time) error {
	if p.Status != PayoutPending {
		return errors.New("payout is not pending")
	}
	p.Status = PayoutRejected
	p.Note = note
	p.ProcessedAt = &now
	return nil
}
