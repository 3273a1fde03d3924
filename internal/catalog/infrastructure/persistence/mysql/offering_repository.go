package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/taxnova/backoffice/internal/catalog/domain"
	"github.com/taxnova/backoffice/pkg/apperr"
)

type offeringRepository struct {
	db *gorm.DB
}

// NewOfferingRepository 创建服务目录仓储
func NewOfferingRepository(db *gorm.DB) domain.OfferingRepository {
	return &offeringRepository{db: db}
}

func (r *offeringRepository) Save(ctx context.Context, offering *domain.ServiceOffering) error {
	return r.db.WithContext(ctx).Save(offering).Error
}

func (r *offeringRepository) GetByID(ctx context.Context, id string) (*domain.ServiceOffering, error) {
	var offering domain.ServiceOffering
	err := r.db.WithContext(ctx).First(&offering, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &offering, nil
}

func (r *offeringRepository) List(ctx context.Context, activeOnly bool) ([]*domain.ServiceOffering, error) {
	query := r.db.WithContext(ctx).Model(&domain.ServiceOffering{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var offerings []*domain.ServiceOffering
	err := query.Order("title ASC").Find(&offerings).Error
	return offerings, err
}

func (r *offeringRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&domain.ServiceOffering{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
