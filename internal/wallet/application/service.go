package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	profiledomain "github.com/taxnova/backoffice/internal/profile/domain"
	"github.com/taxnova/backoffice/internal/wallet/domain"
	"github.com/taxnova/backoffice/pkg/apperr"
	"github.com/taxnova/backoffice/pkg/logger"
	"github.com/taxnova/backoffice/pkg/metrics"
)

// RequestPayoutCommand 提现申请命令
type RequestPayoutCommand struct {
	PartnerID string
	Amount    decimal.Decimal
	Address   string
}

// ProcessPayoutCommand 提现处理命令（完成或驳回）
type ProcessPayoutCommand struct {
	PayoutID string
	AdminID  string
	Note     string
}

// CreditRoyaltyCommand 收益入账命令
type CreditRoyaltyCommand struct {
	PartnerID string
	Amount    decimal.Decimal
	Type      domain.RoyaltyType
	ClientID  string
}

// Statement 合作伙伴对账单
type Statement struct {
	PartnerID string                 `json:"partner_id"`
	Balance   decimal.Decimal        `json:"balance"`
	Entries   []*domain.RoyaltyEntry `json:"entries"`
}

// WalletService 钱包应用服务，负责收益台账与提现
type WalletService struct {
	royalties domain.RoyaltyRepository
	payouts   domain.PayoutRepository
	profiles  profiledomain.ProfileRepository
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
	minPayout decimal.Decimal
	nowFn     func() time.Time
}

// NewWalletService 创建钱包应用服务实例，metrics 可为 nil
func NewWalletService(
	royalties domain.RoyaltyRepository,
	payouts domain.PayoutRepository,
	profiles profiledomain.ProfileRepository,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
	minPayout decimal.Decimal,
) *WalletService {
	return &WalletService{
		royalties: royalties,
		payouts:   payouts,
		profiles:  profiles,
		publisher: publisher,
		metrics:   m,
		minPayout: minPayout,
		nowFn:     time.Now,
	}
}

// WithClock 覆盖时间源，仅测试使用
func (s *WalletService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// CreditRoyalty 收益入账：分录与钱包余额在同一事务内更新
func (s *WalletService) CreditRoyalty(ctx context.Context, cmd CreditRoyaltyCommand) (*domain.RoyaltyEntry, error) {
	if !domain.ValidRoyaltyType(cmd.Type) {
		return nil, apperr.NewValidation("type", fmt.Sprintf("invalid royalty type %q", cmd.Type))
	}
	if cmd.Amount.IsZero() {
		return nil, apperr.NewValidation("amount", "amount must be non-zero")
	}

	partner, err := s.profiles.GetByID(ctx, cmd.PartnerID)
	if err != nil {
		return nil, err
	}
	if !partner.IsPartner() {
		return nil, apperr.NewValidation("partner_id", "profile is not a partner")
	}

	entry := domain.NewRoyaltyEntry(uuid.NewString(), cmd.PartnerID, cmd.Amount, cmd.Type, cmd.ClientID)
	if err := s.royalties.Credit(ctx, entry); err != nil {
		return nil, err
	}

	event := domain.RoyaltyCreditedEvent{
		EntryID:   entry.ID,
		PartnerID: entry.PartnerID,
		Amount:    entry.Amount,
		Type:      entry.Type,
		Timestamp: s.nowFn(),
	}
	if err := s.publisher.Publish(ctx, "wallet.royalty_credited", entry.PartnerID, event); err != nil {
		logger.Warn(ctx, "publish royalty event failed", "entry_id", entry.ID, "error", err)
	}
	return entry, nil
}

// GetStatement 合作伙伴对账单：余额 + 台账分录
func (s *WalletService) GetStatement(ctx context.Context, partnerID string) (*Statement, error) {
	partner, err := s.profiles.GetByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	entries, err := s.royalties.ListByPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	return &Statement{
		PartnerID: partnerID,
		Balance:   partner.WalletBalance,
		Entries:   entries,
	}, nil
}

// ListPayouts 提现申请列表
func (s *WalletService) ListPayouts(ctx context.Context, status domain.PayoutStatus) ([]*domain.PayoutRequest, error) {
	return s.payouts.List(ctx, status)
}

// RequestPayout 创建提现申请。
// 校验全部在任何后端写入之前完成：金额不低于门槛、不超过当前余额。
func (s *WalletService) RequestPayout(ctx context.Context, cmd RequestPayoutCommand) (*domain.PayoutRequest, error) {
	if cmd.Address == "" {
		return nil, apperr.NewValidation("address", "payout address is required")
	}
	if cmd.Amount.LessThan(s.minPayout) {
		return nil, apperr.NewValidation("amount", fmt.Sprintf("amount below minimum payout of %s", s.minPayout))
	}

	partner, err := s.profiles.GetByID(ctx, cmd.PartnerID)
	if err != nil {
		return nil, err
	}
	if !partner.IsPartner() {
		return nil, apperr.NewValidation("partner_id", "profile is not a partner")
	}
	if cmd.Amount.GreaterThan(partner.WalletBalance) {
		return nil, apperr.NewValidation("amount", "amount exceeds wallet balance")
	}

	payout := domain.NewPayoutRequest(uuid.NewString(), cmd.PartnerID, cmd.Amount, cmd.Address)
	if err := s.payouts.Save(ctx, payout); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.PayoutsTotal.WithLabelValues(string(domain.PayoutPending)).Inc()
	}

	event := domain.PayoutRequestedEvent{
		PayoutID:  payout.ID,
		PartnerID: payout.PartnerID,
		Amount:    payout.Amount,
		Timestamp: s.nowFn(),
	}
	if err := s.publisher.Publish(ctx, "wallet.payout_requested", payout.PartnerID, event); err != nil {
		logger.Warn(ctx, "publish payout event failed", "payout_id", payout.ID, "error", err)
	}
	return payout, nil
}

// CompletePayout 完成提现：要求合作伙伴已通过实名认证，余额扣减与状态变更同一事务
func (s *WalletService) CompletePayout(ctx context.Context, cmd ProcessPayoutCommand) error {
	payout, err := s.payouts.GetByID(ctx, cmd.PayoutID)
	if err != nil {
		return err
	}

	partner, err := s.profiles.GetByID(ctx, payout.PartnerID)
	if err != nil {
		return err
	}
	if partner.KYCStatus != profiledomain.KYCVerified {
		return apperr.NewValidation("kyc_status", "partner KYC is not verified")
	}

	if err := payout.Complete(cmd.Note, s.nowFn()); err != nil {
		return apperr.NewValidation("status", err.Error())
	}

	if err := s.payouts.Complete(ctx, payout); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.PayoutsTotal.WithLabelValues(string(domain.PayoutCompleted)).Inc()
	}
	s.publishProcessed(ctx, payout, cmd.AdminID)
	return nil
}

// RejectPayout 驳回提现并记录备注
func (s *WalletService) RejectPayout(ctx context.Context, cmd ProcessPayoutCommand) error {
	payout, err := s.payouts.GetByID(ctx, cmd.PayoutID)
	if err != nil {
		return err
	}

	if err := payout.Reject(cmd.Note, s.nowFn()); err != nil {
		return apperr.NewValidation("status", err.Error())
	}

	if err := s.payouts.Save(ctx, payout); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.PayoutsTotal.WithLabelValues(string(domain.PayoutRejected)).Inc()
	}
	s.publishProcessed(ctx, payout, cmd.AdminID)
	return nil
}

func (s *WalletService) publishProcessed(ctx context.Context, payout *domain.PayoutRequest, adminID string) {
	event := domain.PayoutProcessedEvent{
		PayoutID:  payout.ID,
		PartnerID: payout.PartnerID,
		Status:    payout.Status,
		AdminID:   adminID,
		Timestamp: s.nowFn(),
	}
	if err := s.publisher.Publish(ctx, "wallet.payout_processed", payout.PartnerID, event); err != nil {
		logger.Warn(ctx, "publish payout event failed", "payout_id", payout.ID, "error", err)
	}
}
