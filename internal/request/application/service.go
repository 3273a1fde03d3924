package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/taxnova/backoffice/internal/request/domain"
	"github.com/taxnova/backoffice/pkg/apperr"
)

// CreateRequestCommand 创建服务申请命令
type CreateRequestCommand struct {
	UserID string
	Title  string
}

// UpdateStatusCommand 更新申请状态命令
type UpdateStatusCommand struct {
	RequestID string
	Status    domain.Status
}

// RequestService 服务申请应用服务
type RequestService struct {
	repo domain.RequestRepository
}

// NewRequestService 创建服务申请应用服务实例
func NewRequestService(repo domain.RequestRepository) *RequestService {
	return &RequestService{repo: repo}
}

// List 申请列表
func (s *RequestService) List(ctx context.Context, filter domain.ListFilter) ([]*domain.ServiceRequest, error) {
	if filter.Status != "" && !domain.ValidStatus(filter.Status) {
		return nil, apperr.NewValidation("status", fmt.Sprintf("invalid status %q", filter.Status))
	}
	return s.repo.List(ctx, filter)
}

// Get 申请详情
func (s *RequestService) Get(ctx context.Context, id string) (*domain.ServiceRequest, error) {
	return s.repo.GetByID(ctx, id)
}

// Create 创建服务申请
func (s *RequestService) Create(ctx context.Context, cmd CreateRequestCommand) (*domain.ServiceRequest, error) {
	if cmd.UserID == "" {
		return nil, apperr.NewValidation("user_id", "user_id is required")
	}
	if cmd.Title == "" {
		return nil, apperr.NewValidation("title", "title is required")
	}

	request := domain.NewServiceRequest(uuid.NewString(), cmd.UserID, cmd.Title)
	if err := s.repo.Save(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// UpdateStatus 管理端更新申请状态，仅允许合法取值
func (s *RequestService) UpdateStatus(ctx context.Context, cmd UpdateStatusCommand) error {
	if !domain.ValidStatus(cmd.Status) {
		return apperr.NewValidation("status", fmt.Sprintf("invalid status %q", cmd.Status))
	}
	return s.repo.UpdateStatus(ctx, cmd.RequestID, cmd.Status)
}
