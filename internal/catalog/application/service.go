package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/taxnova/backoffice/internal/catalog/domain"
	"github.com/taxnova/backoffice/pkg/apperr"
)

// UpsertOfferingCommand 创建/更新服务条目命令
type UpsertOfferingCommand struct {
	ID          string
	Title       string
	Description string
	Price       decimal.Decimal
	Active      bool
}

// CatalogService 服务目录应用服务
type CatalogService struct {
	repo domain.OfferingRepository
}

// NewCatalogService 创建服务目录应用服务实例
func NewCatalogService(repo domain.OfferingRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// List 服务目录列表
func (s *CatalogService) List(ctx context.Context, activeOnly bool) ([]*domain.ServiceOffering, error) {
	return s.repo.List(ctx, activeOnly)
}

// Get 服务目录详情
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.ServiceOffering, error) {
	return s.repo.GetByID(ctx, id)
}

// Upsert 创建或更新服务条目
func (s *CatalogService) Upsert(ctx context.Context, cmd UpsertOfferingCommand) (*domain.ServiceOffering, error) {
	if cmd.Title == "" {
		return nil, apperr.NewValidation("title", "title is required")
	}
	if cmd.Price.IsNegative() {
		return nil, apperr.NewValidation("price", "price must not be negative")
	}

	offering := domain.NewServiceOffering(cmd.ID, cmd.Title, cmd.Description, cmd.Price)
	if offering.ID == "" {
		offering.ID = uuid.NewString()
	}
	offering.Active = cmd.Active

	if err := s.repo.Save(ctx, offering); err != nil {
		return nil, err
	}
	return offering, nil
}

// Delete 删除服务条目
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
