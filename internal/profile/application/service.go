package application

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taxnova/backoffice/internal/profile/domain"
	"github.com/taxnova/backoffice/pkg/apperr"
	"github.com/taxnova/backoffice/pkg/logger"
)

// ProfileCache 档案读缓存接口，由 Redis 实现
type ProfileCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// SetKYCStatusCommand 设置认证状态命令
type SetKYCStatusCommand struct {
	ProfileID string
	Status    domain.KYCStatus
	AdminID   string
}

// AdjustWalletCommand 调整钱包余额命令
type AdjustWalletCommand struct {
	ProfileID string
	Amount    decimal.Decimal
	Reason    string
	AdminID   string
}

// ProfileService 档案应用服务
type ProfileService struct {
	repo      domain.ProfileRepository
	publisher domain.EventPublisher
	cache     ProfileCache
	cacheTTL  time.Duration
}

// NewProfileService 创建档案应用服务实例，cache 可为 nil
func NewProfileService(repo domain.ProfileRepository, publisher domain.EventPublisher, cache ProfileCache, cacheTTL time.Duration) *ProfileService {
	return &ProfileService{
		repo:      repo,
		publisher: publisher,
		cache:     cache,
		cacheTTL:  cacheTTL,
	}
}

// List 查询档案列表
func (s *ProfileService) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Profile, error) {
	return s.repo.List(ctx, filter)
}

// Get 查询单个档案，优先走缓存
func (s *ProfileService) Get(ctx context.Context, id string) (*domain.Profile, error) {
	key := cacheKey(id)
	if s.cache != nil {
		var cached domain.Profile
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, profile, s.cacheTTL); err != nil {
			logger.Warn(ctx, "profile cache write failed", "profile_id", id, "error", err)
		}
	}
	return profile, nil
}

// SetKYCStatus 设置账户认证状态
func (s *ProfileService) SetKYCStatus(ctx context.Context, cmd SetKYCStatusCommand) error {
	if !domain.ValidKYCStatus(cmd.Status) {
		return apperr.NewValidation("status", fmt.Sprintf("invalid kyc status %q", cmd.Status))
	}

	if err := s.repo.UpdateKYCStatus(ctx, cmd.ProfileID, cmd.Status); err != nil {
		return err
	}
	s.invalidate(ctx, cmd.ProfileID)

	event := domain.KYCStatusChangedEvent{
		ProfileID: cmd.ProfileID,
		Status:    cmd.Status,
		AdminID:   cmd.AdminID,
		Timestamp: time.Now(),
	}
	if err := s.publisher.Publish(ctx, "profile.kyc_changed", cmd.ProfileID, event); err != nil {
		logger.Warn(ctx, "publish kyc event failed", "profile_id", cmd.ProfileID, "error", err)
	}
	return nil
}

// AdjustWallet 调整钱包余额，余额不得为负
func (s *ProfileService) AdjustWallet(ctx context.Context, cmd AdjustWalletCommand) error {
	if cmd.Amount.IsZero() {
		return apperr.NewValidation("amount", "adjustment amount must be non-zero")
	}

	if err := s.repo.AdjustWallet(ctx, cmd.ProfileID, cmd.Amount); err != nil {
		return err
	}
	s.invalidate(ctx, cmd.ProfileID)

	event := domain.WalletAdjustedEvent{
		ProfileID: cmd.ProfileID,
		Delta:     cmd.Amount,
		Reason:    cmd.Reason,
		AdminID:   cmd.AdminID,
		Timestamp: time.Now(),
	}
	if err := s.publisher.Publish(ctx, "profile.wallet_adjusted", cmd.ProfileID, event); err != nil {
		logger.Warn(ctx, "publish wallet event failed", "profile_id", cmd.ProfileID, "error", err)
	}
	return nil
}

func (s *ProfileService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		logger.Warn(ctx, "profile cache invalidation failed", "profile_id", id, "error", err)
	}
}

func cacheKey(id string) string {
	return "profile:" + id
}
