package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/taxnova/backoffice/internal/document/domain"
	"github.com/taxnova/backoffice/pkg/apperr"
)

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository 创建资料仓储
func NewDocumentRepository(db *gorm.DB) domain.DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Save(ctx context.Context, record *domain.DocumentRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*domain.DocumentRecord, error) {
	var record domain.DocumentRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *documentRepository) ListAll(ctx context.Context) ([]*domain.DocumentRecord, error) {
	var records []*domain.DocumentRecord
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&records).Error
	return records, err
}

func (r *documentRepository) ListByUser(ctx context.Context, userID string) ([]*domain.DocumentRecord, error) {
	var records []*domain.DocumentRecord
	err := r.db.WithContext(ctx).
		Where("LOWER(user_id) = LOWER(?)", userID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *documentRepository) UpdateStatus(ctx context.Context, id string, status domain.Status, adminID string) (*domain.DocumentRecord, error) {
	res := r.db.WithContext(ctx).Model(&domain.DocumentRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "handled_by": adminID})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// UpdateStatusBatch 单条 IN 条件更新整批记录
func (r *documentRepository) UpdateStatusBatch(ctx context.Context, ids []string, status domain.Status, adminID string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&domain.DocumentRecord{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"status": status, "handled_by": adminID}).Error
}
