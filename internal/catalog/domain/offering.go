package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ServiceOffering 服务目录条目（税务/合规服务）
type ServiceOffering struct {
	ID          string          `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Title       string          `gorm:"column:title;type:varchar(150);not null" json:"title"`
	Description string          `gorm:"column:description;type:text" json:"description"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(18,2);not null" json:"price"`
	Active      bool            `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt   time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

// TableName 指定表名
func (ServiceOffering) TableName() string {
	return "services"
}

// NewServiceOffering 创建服务目录条目
func NewServiceOffering(id, title, description string, price decimal.Decimal) *ServiceOffering {
	return &ServiceOffering{
		ID:          id,
		Title:       title,
		Description: description,
		Price:       price,
		Active:      true,
	}
}

// OfferingRepository 服务目录仓储接口
type OfferingRepository interface {
	Save(ctx context.Context, offering *ServiceOffering) error
	GetByID(ctx context.Context, id string) (*ServiceOffering, error)
	List(ctx context.Context, activeOnly bool) ([]*ServiceOffering, error)
	Delete(ctx context.Context, id string) error
}
