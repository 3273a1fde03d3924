package application

import (
	"testing"
	"time"

	"github.com/taxnova/backoffice/internal/document/domain"
	profiledomain "github.com/taxnova/backoffice/internal/profile/domain"
)

func doc(id, userID string, status domain.Status, createdAt time.Time) *domain.DocumentRecord {
	return &domain.DocumentRecord{
		ID:        id,
		UserID:    userID,
		Name:      "doc-" + id,
		Status:    status,
		CreatedAt: createdAt,
	}
}

func TestGroupDocumentsCaseInsensitiveJoin(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	docs := []*domain.DocumentRecord{
		doc("d1", "User-A", domain.StatusPending, base),
		doc("d2", "user-a", domain.StatusVerified, base.Add(time.Hour)),
	}
	profiles := []*profiledomain.Profile{
		profiledomain.NewProfile("USER-A", "Alice", "alice@example.com", profiledomain.RoleClient),
	}

	groups := GroupDocuments(docs, profiles)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}

	g := groups[0]
	if g.Owner.FullName != "Alice" {
		t.Errorf("expected profile join despite id casing, got owner %q", g.Owner.FullName)
	}
	if g.Histogram.Pending != 1 || g.Histogram.Verified != 1 || g.Histogram.Total != 2 {
		t.Errorf("unexpected histogram: %+v", g.Histogram)
	}
	if !g.LatestActivity.Equal(base.Add(time.Hour)) {
		t.Errorf("expected latest activity %v, got %v", base.Add(time.Hour), g.LatestActivity)
	}
}

func TestGroupDocumentsPlaceholderOwner(t *testing.T) {
	docs := []*domain.DocumentRecord{
		doc("d1", "GHOST-USER-123", domain.StatusPending, time.Now()),
	}

	groups := GroupDocuments(docs, nil)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}

	owner := groups[0].Owner
	if owner.FullName != "Unknown" {
		t.Errorf("expected placeholder name, got %q", owner.FullName)
	}
	if owner.Email != "ghost-us@unknown" {
		t.Errorf("unexpected placeholder email %q", owner.Email)
	}
	if owner.ID != "GHOST-USER-123" {
		t.Errorf("placeholder must keep the original id, got %q", owner.ID)
	}
}

func TestGroupDocumentsKeepsEveryRecord(t *testing.T) {
	docs := []*domain.DocumentRecord{
		doc("d1", "a", domain.StatusPending, time.Now()),
		doc("d2", "b", domain.StatusRejected, time.Now()),
		doc("d3", "a", domain.StatusVerified, time.Now()),
	}

	groups := GroupDocuments(docs, nil)
	total := 0
	for _, g := range groups {
		total += len(g.Documents)
	}
	if total != len(docs) {
		t.Errorf("expected all %d records grouped, got %d", len(docs), total)
	}
	// 分组顺序跟随首次出现顺序
	if groups[0].Owner.ID != "a" || groups[1].Owner.ID != "b" {
		t.Errorf("unexpected group order: %q, %q", groups[0].Owner.ID, groups[1].Owner.ID)
	}
}

func TestFilterGroupsByStatus(t *testing.T) {
	now := time.Now()
	groups := GroupDocuments([]*domain.DocumentRecord{
		doc("d1", "pending-user", domain.StatusPending, now),
		doc("d2", "rejected-user", domain.StatusRejected, now),
		doc("d3", "verified-user", domain.StatusVerified, now),
		doc("d4", "verified-user", domain.StatusVerified, now),
	}, nil)

	tests := []struct {
		filter StatusFilter
		want   []string
	}{
		{FilterAll, []string{"pending-user", "rejected-user", "verified-user"}},
		{FilterHasPending, []string{"pending-user"}},
		{FilterHasRejected, []string{"rejected-user"}},
		{FilterAllVerified, []string{"verified-user"}},
	}

	for _, tt := range tests {
		got := FilterGroups(groups, ReviewFilter{Status: tt.filter})
		if len(got) != len(tt.want) {
			t.Errorf("filter %s: expected %d groups, got %d", tt.filter, len(tt.want), len(got))
			continue
		}
		for i, g := range got {
			if g.Owner.ID != tt.want[i] {
				t.Errorf("filter %s: expected %q at %d, got %q", tt.filter, tt.want[i], i, g.Owner.ID)
			}
		}
	}
}

func TestFilterGroupsBySearch(t *testing.T) {
	now := time.Now()
	profiles := []*profiledomain.Profile{
		profiledomain.NewProfile("u1", "Alice Chen", "alice@acme.com", profiledomain.RoleClient),
		profiledomain.NewProfile("u2", "Bob Diaz", "bob@example.com", profiledomain.RoleClient),
	}
	profiles[1].Organization = "Acme Tax LLP"

	groups := GroupDocuments([]*domain.DocumentRecord{
		doc("d1", "u1", domain.StatusPending, now),
		doc("d2", "u2", domain.StatusPending, now),
	}, profiles)

	// 搜索同时覆盖姓名、邮箱与机构，大小写不敏感
	got := FilterGroups(groups, ReviewFilter{Search: "ACME"})
	if len(got) != 2 {
		t.Fatalf("expected search to match email and organization, got %d groups", len(got))
	}

	got = FilterGroups(groups, ReviewFilter{Search: "diaz"})
	if len(got) != 1 || got[0].Owner.ID != "u2" {
		t.Fatalf("expected name search to match only u2, got %d groups", len(got))
	}
}

func TestSortGroupsByLatestActivity(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	groups := GroupDocuments([]*domain.DocumentRecord{
		doc("d1", "old", domain.StatusPending, base),
		doc("d2", "new", domain.StatusPending, base.Add(48*time.Hour)),
		doc("d3", "mid", domain.StatusPending, base.Add(24*time.Hour)),
	}, nil)

	SortGroups(groups, SortNewest)
	if groups[0].Owner.ID != "new" || groups[2].Owner.ID != "old" {
		t.Errorf("newest-first order wrong: %q ... %q", groups[0].Owner.ID, groups[2].Owner.ID)
	}

	SortGroups(groups, SortOldest)
	if groups[0].Owner.ID != "old" || groups[2].Owner.ID != "new" {
		t.Errorf("oldest-first order wrong: %q ... %q", groups[0].Owner.ID, groups[2].Owner.ID)
	}
}
