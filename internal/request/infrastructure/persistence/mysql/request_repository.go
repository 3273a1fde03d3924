package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/taxnova/backoffice/internal/request/domain"
	"github.com/taxnova/backoffice/pkg/apperr"
)

type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository 创建服务申请仓储
func NewRequestRepository(db *gorm.DB) domain.RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Save(ctx context.Context, request *domain.ServiceRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.ServiceRequest, error) {
	var request domain.ServiceRequest
	err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.ServiceRequest, error) {
	query := r.db.WithContext(ctx).Model(&domain.ServiceRequest{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var requests []*domain.ServiceRequest
	err := query.Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func (r *requestRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	res := r.db.WithContext(ctx).Model(&domain.ServiceRequest{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
