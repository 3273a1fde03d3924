package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	profiledomain "github.com/taxnova/backoffice/internal/profile/domain"
	"github.com/taxnova/backoffice/internal/wallet/domain"
	"github.com/taxnova/backoffice/pkg/apperr"
)

// Royalty Repository
type royaltyRepository struct {
	db *gorm.DB
}

// NewRoyaltyRepository 创建收益台账仓储
func NewRoyaltyRepository(db *gorm.DB) domain.RoyaltyRepository {
	return &royaltyRepository{db: db}
}

// Credit 分录写入与钱包余额调整在同一事务内完成
func (r *royaltyRepository) Credit(ctx context.Context, entry *domain.RoyaltyEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		res := tx.Model(&profiledomain.Profile{}).
			Where("id = ? AND wallet_balance + ? >= 0", entry.PartnerID, entry.Amount).
			Update("wallet_balance", gorm.Expr("wallet_balance + ?", entry.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NewValidation("amount", "insufficient wallet balance")
		}
		return nil
	})
}

func (r *royaltyRepository) ListByPartner(ctx context.Context, partnerID string) ([]*domain.RoyaltyEntry, error) {
	var entries []*domain.RoyaltyEntry
	err := r.db.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

// Payout Repository
type payoutRepository struct {
	db *gorm.DB
}

// NewPayoutRepository 创建提现申请仓储
func NewPayoutRepository(db *gorm.DB) domain.PayoutRepository {
	return &payoutRepository{db: db}
}

func (r *payoutRepository) Save(ctx context.Context, payout *domain.PayoutRequest) error {
	return r.db.WithContext(ctx).Save(payout).Error
}

func (r *payoutRepository) GetByID(ctx context.Context, id string) (*domain.PayoutRequest, error) {
	var payout domain.PayoutRequest
	err := r.db.WithContext(ctx).First(&payout, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

func (r *payoutRepository) List(ctx context.Context, status domain.PayoutStatus) ([]*domain.PayoutRequest, error) {
	query := r.db.WithContext(ctx).Model(&domain.PayoutRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var payouts []*domain.PayoutRequest
	err := query.Order("created_at DESC").Find(&payouts).Error
	return payouts, err
}

// Complete 状态落盘与余额扣减在同一事务内完成
func (r *payoutRepository) Complete(ctx context.Context, payout *domain.PayoutRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&profiledomain.Profile{}).
			Where("id = ? AND wallet_balance - ? >= 0", payout.PartnerID, payout.Amount).
			Update("wallet_balance", gorm.Expr("wallet_balance - ?", payout.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NewValidation("amount", "insufficient wallet balance")
		}

		return tx.Save(payout).Error
	})
}
