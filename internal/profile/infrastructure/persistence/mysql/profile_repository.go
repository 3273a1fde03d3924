package mysql

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/taxnova/backoffice/internal/profile/domain"
	"github.com/taxnova/backoffice/pkg/apperr"
)

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository 创建档案仓储
func NewProfileRepository(db *gorm.DB) domain.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Profile, error) {
	query := r.db.WithContext(ctx).Model(&domain.Profile{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("full_name LIKE ? OR email LIKE ? OR organization LIKE ?", like, like, like)
	}

	var profiles []*domain.Profile
	err := query.Order("created_at DESC").Find(&profiles).Error
	return profiles, err
}

func (r *profileRepository) UpdateKYCStatus(ctx context.Context, id string, status domain.KYCStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.Profile{}).
		Where("id = ?", id).
		Update("kyc_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// AdjustWallet 单条带条件的 UPDATE，余额校验和变更在数据库侧一次完成
func (r *profileRepository) AdjustWallet(ctx context.Context, id string, delta decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&domain.Profile{}).
		Where("id = ? AND wallet_balance + ? >= 0", id, delta).
		Update("wallet_balance", gorm.Expr("wallet_balance + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// 记录不存在或余额不足，区分两种情况
		var count int64
		if err := r.db.WithContext(ctx).Model(&domain.Profile{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperr.ErrNotFound
		}
		return apperr.NewValidation("amount", "insufficient wallet balance")
	}
	return nil
}
