package application

import (
	"context"
	"fmt"
	"time"

	"github.com/taxnova/backoffice/internal/document/domain"
	profiledomain "github.com/taxnova/backoffice/internal/profile/domain"
	"github.com/taxnova/backoffice/pkg/apperr"
	"github.com/taxnova/backoffice/pkg/logger"
	"github.com/taxnova/backoffice/pkg/metrics"
)

// SetStatusCommand 单条资料状态变更命令
type SetStatusCommand struct {
	DocumentID string
	Status     domain.Status
	AdminID    string
}

// BatchVerifyCommand 批量核验命令
type BatchVerifyCommand struct {
	UserID  string
	AdminID string
}

// ReviewService 资料审核应用服务
type ReviewService struct {
	docs      domain.DocumentRepository
	profiles  profiledomain.ProfileRepository
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
}

// NewReviewService 创建资料审核应用服务实例，metrics 可为 nil
func NewReviewService(
	docs domain.DocumentRepository,
	profiles profiledomain.ProfileRepository,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
) *ReviewService {
	return &ReviewService{
		docs:      docs,
		profiles:  profiles,
		publisher: publisher,
		metrics:   m,
	}
}

// Groups 返回按归属用户聚合、过滤并排序的审核视图
func (s *ReviewService) Groups(ctx context.Context, filter ReviewFilter) ([]*ReviewGroup, error) {
	docs, err := s.docs.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	profiles, err := s.profiles.List(ctx, profiledomain.ListFilter{})
	if err != nil {
		return nil, err
	}

	groups := GroupDocuments(docs, profiles)
	groups = FilterGroups(groups, filter)
	SortGroups(groups, filter.Sort)
	return groups, nil
}

// SetStatus 设置单条资料状态并记录经办管理员
func (s *ReviewService) SetStatus(ctx context.Context, cmd SetStatusCommand) (*domain.DocumentRecord, error) {
	if !domain.ValidStatus(cmd.Status) {
		return nil, apperr.NewValidation("status", fmt.Sprintf("invalid document status %q", cmd.Status))
	}

	record, err := s.docs.UpdateStatus(ctx, cmd.DocumentID, cmd.Status, cmd.AdminID)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil && cmd.Status == domain.StatusVerified {
		s.metrics.DocumentsVerifiedTotal.Inc()
	}

	event := domain.StatusChangedEvent{
		DocumentID: record.ID,
		UserID:     record.UserID,
		Status:     record.Status,
		AdminID:    cmd.AdminID,
		Timestamp:  time.Now(),
	}
	if err := s.publisher.Publish(ctx, "document.status_changed", record.ID, event); err != nil {
		logger.Warn(ctx, "publish document event failed", "document_id", record.ID, "error", err)
	}
	return record, nil
}

// BatchVerify 将某用户所有未核验资料置为 verified。
// 无待更新资料时静默返回 0；整批使用单条 IN 更新，失败即整批失败。
func (s *ReviewService) BatchVerify(ctx context.Context, cmd BatchVerifyCommand) (int, error) {
	docs, err := s.docs.ListByUser(ctx, cmd.UserID)
	if err != nil {
		return 0, err
	}

	var ids []string
	for _, doc := range docs {
		if doc.Status != domain.StatusVerified {
			ids = append(ids, doc.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if err := s.docs.UpdateStatusBatch(ctx, ids, domain.StatusVerified, cmd.AdminID); err != nil {
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.DocumentsVerifiedTotal.Add(float64(len(ids)))
	}

	event := domain.BatchVerifiedEvent{
		UserID:    cmd.UserID,
		Count:     len(ids),
		AdminID:   cmd.AdminID,
		Timestamp: time.Now(),
	}
	if err := s.publisher.Publish(ctx, "document.batch_verified", cmd.UserID, event); err != nil {
		logger.Warn(ctx, "publish batch verify event failed", "user_id", cmd.UserID, "error", err)
	}
	return len(ids), nil
}
