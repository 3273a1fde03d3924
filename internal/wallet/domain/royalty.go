package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoyaltyType 分成类型
type RoyaltyType string

const (
	RoyaltyDirect     RoyaltyType = "direct"
	RoyaltyReferral   RoyaltyType = "referral"
	RoyaltyAdjustment RoyaltyType = "adjustment"
)

// ValidRoyaltyType 校验分成类型取值
func ValidRoyaltyType(t RoyaltyType) bool {
	switch t {
	case RoyaltyDirect, RoyaltyReferral, RoyaltyAdjustment:
		return true
	}
	return false
}

// RoyaltyEntry 合作伙伴收益台账分录，金额带符号
type RoyaltyEntry struct {
	ID        string          `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	PartnerID string          `gorm:"column:partner_id;type:varchar(36);index;not null" json:"partner_id"`
	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Type      RoyaltyType     `gorm:"column:type;type:varchar(20);not null" json:"type"`
	ClientID  string          `gorm:"column:client_id;type:varchar(36)" json:"client_id"`
	CreatedAt time.Time       `gorm:"column:created_at" json:"created_at"`
}

// TableName 指定表名
func (RoyaltyEntry) TableName() string {
	return "royalty_entries"
}

// NewRoyaltyEntry 创建台账分录
func NewRoyaltyEntry(id, partnerID string, amount decimal.Decimal, entryType RoyaltyType, clientID string) *RoyaltyEntry {
	return &RoyaltyEntry{
		ID:        id,
		PartnerID: partnerID,
		Amount:    amount,
		Type:      entryType,
		ClientID:  clientID,
	}
}
