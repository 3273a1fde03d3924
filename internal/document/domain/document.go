package domain

import (
	"context"
	"time"
)

// Status 资料审核状态
type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
)

// ValidStatus 校验审核状态取值
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusVerified, StatusRejected:
		return true
	}
	return false
}

// DocumentRecord 上传资料的元数据记录，文件本体存于对象存储
type DocumentRecord struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;type:varchar(36);index;not null" json:"user_id"`
	Name      string    `gorm:"column:name;type:varchar(200);not null" json:"name"`
	FileURL   string    `gorm:"column:file_url;type:varchar(500)" json:"file_url"`
	Status    Status    `gorm:"column:status;type:varchar(20);index;not null;default:pending" json:"status"`
	HandledBy string    `gorm:"column:handled_by;type:varchar(36)" json:"handled_by"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName 指定表名
func (DocumentRecord) TableName() string {
	return "user_documents"
}

// NewDocumentRecord 创建资料记录
func NewDocumentRecord(id, userID, name, fileURL string) *DocumentRecord {
	return &DocumentRecord{
		ID:      id,
		UserID:  userID,
		Name:    name,
		FileURL: fileURL,
		Status:  StatusPending,
	}
}

// DocumentRepository 资料仓储接口
type DocumentRepository interface {
	Save(ctx context.Context, record *DocumentRecord) error
	GetByID(ctx context.Context, id string) (*DocumentRecord, error)
	ListAll(ctx context.Context) ([]*DocumentRecord, error)
	ListByUser(ctx context.Context, userID string) ([]*DocumentRecord, error)
	// UpdateStatus 更新单条资料状态并记录经办管理员，返回更新后的记录
	UpdateStatus(ctx context.Context, id string, status Status, adminID string) (*DocumentRecord, error)
	// UpdateStatusBatch 用单条 IN 条件更新整批资料，而不是逐条写入
	UpdateStatusBatch(ctx context.Context, ids []string, status Status, adminID string) error
}

// EventPublisher 领域事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}

// StatusChangedEvent 资料状态变更事件
type StatusChangedEvent struct {
	DocumentID string    `json:"document_id"`
	UserID     string    `json:"user_id"`
	Status     Status    `json:"status"`
	AdminID    string    `json:"admin_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// BatchVerifiedEvent 批量核验事件
type BatchVerifiedEvent struct {
	UserID    string    `json:"user_id"`
	Count     int       `json:"count"`
	AdminID   string    `json:"admin_id"`
	Timestamp time.Time `json:"timestamp"`
}
