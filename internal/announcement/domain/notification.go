package domain

import (
	"context"
	"time"
)

// Audience 广播受众
type Audience string

const (
	AudienceAll      Audience = "all"
	AudienceClients  Audience = "clients"
	AudiencePartners Audience = "partners"
)

// ValidAudience 校验受众取值
func ValidAudience(a Audience) bool {
	switch a {
	case AudienceAll, AudienceClients, AudiencePartners:
		return true
	}
	return false
}

// Notification 站内通知记录
type Notification struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;type:varchar(36);index;not null" json:"user_id"`
	Title     string    `gorm:"column:title;type:varchar(150);not null" json:"title"`
	Body      string    `gorm:"column:body;type:text;not null" json:"body"`
	Read      bool      `gorm:"column:read;not null;default:false" json:"read"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}

// NewNotification 创建通知
func NewNotification(id, userID, title, body string) *Notification {
	return &Notification{
		ID:     id,
		UserID: userID,
		Title:  title,
		Body:   body,
	}
}

// NotificationRepository 通知仓储接口
type NotificationRepository interface {
	SaveBatch(ctx context.Context, notifications []*Notification) error
	ListByUser(ctx context.Context, userID string) ([]*Notification, error)
	MarkRead(ctx context.Context, id string) error
}

// EventPublisher 领域事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}

// BroadcastEvent 广播事件
type BroadcastEvent struct {
	Title      string    `json:"title"`
	Audience   Audience  `json:"audience"`
	Recipients int       `json:"recipients"`
	Timestamp  time.Time `json:"timestamp"`
}
