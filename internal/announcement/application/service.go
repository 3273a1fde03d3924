package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taxnova/backoffice/internal/announcement/domain"
	profiledomain "github.com/taxnova/backoffice/internal/profile/domain"
	"github.com/taxnova/backoffice/pkg/apperr"
	"github.com/taxnova/backoffice/pkg/logger"
	"github.com/taxnova/backoffice/pkg/metrics"
)

// 通知分批写入的批大小
const insertChunkSize = 100

// BroadcastCommand 广播命令
type BroadcastCommand struct {
	Title    string
	Body     string
	Audience domain.Audience
}

// AnnouncementService 广播应用服务
type AnnouncementService struct {
	notifications domain.NotificationRepository
	profiles      profiledomain.ProfileRepository
	publisher     domain.EventPublisher
	metrics       *metrics.Metrics
}

// NewAnnouncementService 创建广播应用服务实例，metrics 可为 nil
func NewAnnouncementService(
	notifications domain.NotificationRepository,
	profiles profiledomain.ProfileRepository,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
) *AnnouncementService {
	return &AnnouncementService{
		notifications: notifications,
		profiles:      profiles,
		publisher:     publisher,
		metrics:       m,
	}
}

// Broadcast 向目标受众逐人落盘通知并发布广播事件，返回通知人数
func (s *AnnouncementService) Broadcast(ctx context.Context, cmd BroadcastCommand) (int, error) {
	if cmd.Title == "" {
		return 0, apperr.NewValidation("title", "title is required")
	}
	if cmd.Body == "" {
		return 0, apperr.NewValidation("body", "body is required")
	}
	if !domain.ValidAudience(cmd.Audience) {
		return 0, apperr.NewValidation("audience", "audience must be all, clients or partners")
	}

	filter := profiledomain.ListFilter{}
	switch cmd.Audience {
	case domain.AudienceClients:
		filter.Role = profiledomain.RoleClient
	case domain.AudiencePartners:
		filter.Role = profiledomain.RolePartner
	}

	recipients, err := s.profiles.List(ctx, filter)
	if err != nil {
		return 0, err
	}

	notifications := make([]*domain.Notification, 0, len(recipients))
	for _, p := range recipients {
		notifications = append(notifications, domain.NewNotification(uuid.NewString(), p.ID, cmd.Title, cmd.Body))
	}

	for start := 0; start < len(notifications); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(notifications) {
			end = len(notifications)
		}
		if err := s.notifications.SaveBatch(ctx, notifications[start:end]); err != nil {
			return 0, err
		}
	}

	if s.metrics != nil {
		s.metrics.BroadcastsTotal.Inc()
	}

	event := domain.BroadcastEvent{
		Title:      cmd.Title,
		Audience:   cmd.Audience,
		Recipients: len(notifications),
		Timestamp:  time.Now(),
	}
	if err := s.publisher.Publish(ctx, "announcement.broadcast", string(cmd.Audience), event); err != nil {
		logger.Warn(ctx, "publish broadcast event failed", "audience", cmd.Audience, "error", err)
	}
	return len(notifications), nil
}

// ListByUser 用户通知列表
func (s *AnnouncementService) ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	return s.notifications.ListByUser(ctx, userID)
}

// MarkRead 标记通知已读
func (s *AnnouncementService) MarkRead(ctx context.Context, id string) error {
	return s.notifications.MarkRead(ctx, id)
}
