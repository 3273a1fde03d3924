package domain

import (
	"context"
	"time"
)

// Status 服务申请状态
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
	StatusProcessed Status = "processed"
)

// ValidStatus 校验状态取值
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusCompleted, StatusRejected, StatusProcessed:
		return true
	}
	return false
}

// ServiceRequest 客户的服务申请记录
type ServiceRequest struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;type:varchar(36);index;not null" json:"user_id"`
	Title     string    `gorm:"column:title;type:varchar(150);not null" json:"title"`
	Status    Status    `gorm:"column:status;type:varchar(20);index;not null;default:pending" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName 指定表名
func (ServiceRequest) TableName() string {
	return "user_services"
}

// NewServiceRequest 创建服务申请
func NewServiceRequest(id, userID, title string) *ServiceRequest {
	return &ServiceRequest{
		ID:     id,
		UserID: userID,
		Title:  title,
		Status: StatusPending,
	}
}

// ListFilter 服务申请列表过滤条件
type ListFilter struct {
	UserID string
	Status Status
}

// RequestRepository 服务申请仓储接口
type RequestRepository interface {
	Save(ctx context.Context, request *ServiceRequest) error
	GetByID(ctx context.Context, id string) (*ServiceRequest, error)
	List(ctx context.Context, filter ListFilter) ([]*ServiceRequest, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}
