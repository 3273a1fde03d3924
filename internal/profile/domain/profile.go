package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role 账户角色
type Role string

const (
	RoleClient    Role = "client"
	RolePartner   Role = "partner"
	RoleAdmin     Role = "admin"
	RoleSuperuser Role = "superuser"
)

// KYCStatus 实名认证状态
type KYCStatus string

const (
	KYCNotStarted KYCStatus = "not_started"
	KYCPending    KYCStatus = "pending"
	KYCVerified   KYCStatus = "verified"
	KYCRejected   KYCStatus = "rejected"
)

// Profile 用户/合作伙伴账户档案
type Profile struct {
	ID            string          `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	FullName      string          `gorm:"column:full_name;type:varchar(100);not null" json:"full_name"`
	Email         string          `gorm:"column:email;type:varchar(120);index" json:"email"`
	Role          Role            `gorm:"column:role;type:varchar(20);index;not null" json:"role"`
	KYCStatus     KYCStatus       `gorm:"column:kyc_status;type:varchar(20);not null;default:not_started" json:"kyc_status"`
	WalletBalance decimal.Decimal `gorm:"column:wallet_balance;type:decimal(18,2);not null;default:0" json:"wallet_balance"`
	Organization  string          `gorm:"column:organization;type:varchar(120)" json:"organization"`
	City          string          `gorm:"column:city;type:varchar(80)" json:"city"`
	State         string          `gorm:"column:state;type:varchar(80)" json:"state"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

// TableName 指定表名
func (Profile) TableName() string {
	return "profiles"
}

// NewProfile 创建账户档案
func NewProfile(id, fullName, email string, role Role) *Profile {
	return &Profile{
		ID:            id,
		FullName:      fullName,
		Email:         email,
		Role:          role,
		KYCStatus:     KYCNotStarted,
		WalletBalance: decimal.Zero,
	}
}

// IsPrivileged 是否为后台管理角色
func (p *Profile) IsPrivileged() bool {
	return p.Role == RoleAdmin || p.Role == RoleSuperuser
}

// IsPartner 是否为合作伙伴账户
func (p *Profile) IsPartner() bool {
	return p.Role == RolePartner
}

// ValidKYCStatus 校验认证状态取值
func ValidKYCStatus(s KYCStatus) bool {
	switch s {
	case KYCNotStarted, KYCPending, KYCVerified, KYCRejected:
		return true
	}
	return false
}

// ValidRole 校验角色取值
func ValidRole(r Role) bool {
	switch r {
	case RoleClient, RolePartner, RoleAdmin, RoleSuperuser:
		return true
	}
	return false
}
