package application

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taxnova/backoffice/internal/profile/domain"
	"github.com/taxnova/backoffice/pkg/apperr"
)

type stubRepo struct {
	profiles   map[string]*domain.Profile
	getCalls   int
	kycUpdates int
}

func newStubRepo(profiles ...*domain.Profile) *stubRepo {
	s := &stubRepo{profiles: make(map[string]*domain.Profile)}
	for _, p := range profiles {
		s.profiles[p.ID] = p
	}
	return s
}

func (s *stubRepo) Save(ctx context.Context, profile *domain.Profile) error {
	s.profiles[profile.ID] = profile
	return nil
}

func (s *stubRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	s.getCalls++
	p, ok := s.profiles[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return p, nil
}

func (s *stubRepo) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Profile, error) {
	var out []*domain.Profile
	for _, p := range s.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubRepo) UpdateKYCStatus(ctx context.Context, id string, status domain.KYCStatus) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	s.kycUpdates++
	p.KYCStatus = status
	return nil
}

func (s *stubRepo) AdjustWallet(ctx context.Context, id string, delta decimal.Decimal) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	next := p.WalletBalance.Add(delta)
	if next.IsNegative() {
		return apperr.NewValidation("amount", "insufficient wallet balance")
	}
	p.WalletBalance = next
	return nil
}

// memCache 以 JSON 往返模拟 Redis 的行为
type memCache struct {
	entries map[string][]byte
	deleted []string
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (m *memCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (m *memCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = data
	return nil
}

func (m *memCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.entries, k)
		m.deleted = append(m.deleted, k)
	}
	return nil
}

type stubPublisher struct {
	topics []string
}

func (s *stubPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	s.topics = append(s.topics, topic)
	return nil
}

func TestGetUsesCacheOnSecondRead(t *testing.T) {
	repo := newStubRepo(domain.NewProfile("u1", "Alice", "alice@example.com", domain.RoleClient))
	cache := newMemCache()
	svc := NewProfileService(repo, &stubPublisher{}, cache, time.Minute)

	for i := 0; i < 2; i++ {
		p, err := svc.Get(context.Background(), "u1")
		if err != nil {
			t.Fatalf("get %d failed: %v", i, err)
		}
		if p.FullName != "Alice" {
			t.Errorf("unexpected profile %+v", p)
		}
	}
	if repo.getCalls != 1 {
		t.Errorf("expected a single repository read, got %d", repo.getCalls)
	}
}

func TestSetKYCStatusInvalidatesCache(t *testing.T) {
	repo := newStubRepo(domain.NewProfile("u1", "Alice", "alice@example.com", domain.RoleClient))
	cache := newMemCache()
	pub := &stubPublisher{}
	svc := NewProfileService(repo, pub, cache, time.Minute)

	if _, err := svc.Get(context.Background(), "u1"); err != nil {
		t.Fatalf("warm-up get failed: %v", err)
	}

	err := svc.SetKYCStatus(context.Background(), SetKYCStatusCommand{
		ProfileID: "u1",
		Status:    domain.KYCVerified,
		AdminID:   "a1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cache.deleted) != 1 || cache.deleted[0] != "profile:u1" {
		t.Errorf("expected cache invalidation, got %v", cache.deleted)
	}
	if len(pub.topics) != 1 || pub.topics[0] != "profile.kyc_changed" {
		t.Errorf("expected kyc event, got %v", pub.topics)
	}
}

func TestSetKYCStatusRejectsUnknownValue(t *testing.T) {
	svc := NewProfileService(newStubRepo(), &stubPublisher{}, nil, 0)

	err := svc.SetKYCStatus(context.Background(), SetKYCStatusCommand{ProfileID: "u1", Status: "maybe"})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAdjustWalletRejectsZeroAndOverdraft(t *testing.T) {
	p := domain.NewProfile("u1", "Alice", "alice@example.com", domain.RoleClient)
	p.WalletBalance = decimal.NewFromInt(100)
	svc := NewProfileService(newStubRepo(p), &stubPublisher{}, nil, 0)

	err := svc.AdjustWallet(context.Background(), AdjustWalletCommand{ProfileID: "u1", Amount: decimal.Zero})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for zero amount, got %v", err)
	}

	err = svc.AdjustWallet(context.Background(), AdjustWalletCommand{ProfileID: "u1", Amount: decimal.NewFromInt(-150)})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for overdraft, got %v", err)
	}

	if err := svc.AdjustWallet(context.Background(), AdjustWalletCommand{ProfileID: "u1", Amount: decimal.NewFromInt(-100)}); err != nil {
		t.Fatalf("expected exact debit to succeed, got %v", err)
	}
	if !p.WalletBalance.IsZero() {
		t.Errorf("expected zero balance, got %s", p.WalletBalance)
	}
}
