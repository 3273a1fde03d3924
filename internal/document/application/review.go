package application

import (
	"sort"
	"strings"
	"time"

	"github.com/taxnova/backoffice/internal/document/domain"
	profiledomain "github.com/taxnova/backoffice/internal/profile/domain"
)

// StatusFilter 分组级状态过滤
type StatusFilter string

const (
	FilterAll         StatusFilter = "all"
	FilterHasPending  StatusFilter = "has_pending"
	FilterHasRejected StatusFilter = "has_rejected"
	FilterAllVerified StatusFilter = "all_verified"
)

// SortOrder 分组排序方式
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// ReviewFilter 审核视图过滤条件
type ReviewFilter struct {
	Search string
	Status StatusFilter
	Sort   SortOrder
}

// StatusHistogram 分组内各状态的计数
type StatusHistogram struct {
	Pending  int `json:"pending"`
	Verified int `json:"verified"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}

// ReviewGroup 按归属用户聚合的资料分组
type ReviewGroup struct {
	Owner          *profiledomain.Profile   `json:"owner"`
	Documents      []*domain.DocumentRecord `json:"documents"`
	Histogram      StatusHistogram          `json:"histogram"`
	LatestActivity time.Time                `json:"latest_activity"`
}

// GroupDocuments 将平铺的资料记录按归属用户分组。
// 用户 id 按小写归一后参与连接；查不到档案的分组使用占位档案，记录绝不丢弃。
func GroupDocuments(docs []*domain.DocumentRecord, profiles []*profiledomain.Profile) []*ReviewGroup {
	byID := make(map[string]*profiledomain.Profile, len(profiles))
	for _, p := range profiles {
		byID[strings.ToLower(p.ID)] = p
	}

	groups := make(map[string]*ReviewGroup)
	var order []string

	for _, doc := range docs {
		key := strings.ToLower(doc.UserID)
		group, ok := groups[key]
		if !ok {
			owner := byID[key]
			if owner == nil {
				owner = placeholderProfile(doc.UserID)
			}
			group = &ReviewGroup{Owner: owner}
			groups[key] = group
			order = append(order, key)
		}

		group.Documents = append(group.Documents, doc)
		group.Histogram.Total++
		switch doc.Status {
		case domain.StatusVerified:
			group.Histogram.Verified++
		case domain.StatusRejected:
			group.Histogram.Rejected++
		default:
			group.Histogram.Pending++
		}
		if doc.CreatedAt.After(group.LatestActivity) {
			group.LatestActivity = doc.CreatedAt
		}
	}

	result := make([]*ReviewGroup, 0, len(order))
	for _, key := range order {
		result = append(result, groups[key])
	}
	return result
}

// FilterGroups 对分组应用搜索与状态过滤，所有条件须同时满足
func FilterGroups(groups []*ReviewGroup, filter ReviewFilter) []*ReviewGroup {
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	result := make([]*ReviewGroup, 0, len(groups))
	for _, g := range groups {
		if search != "" && !matchesSearch(g.Owner, search) {
			continue
		}
		if !matchesStatus(g.Histogram, filter.Status) {
			continue
		}
		result = append(result, g)
	}
	return result
}

// SortGroups 按最近活动时间排序；无资料的分组排在最旧
func SortGroups(groups []*ReviewGroup, order SortOrder) {
	sort.SliceStable(groups, func(i, j int) bool {
		if order == SortOldest {
			return groups[i].LatestActivity.Before(groups[j].LatestActivity)
		}
		return groups[i].LatestActivity.After(groups[j].LatestActivity)
	})
}

func matchesSearch(owner *profiledomain.Profile, search string) bool {
	return strings.Contains(strings.ToLower(owner.FullName), search) ||
		strings.Contains(strings.ToLower(owner.Email), search) ||
		strings.Contains(strings.ToLower(owner.Organization), search)
}

func matchesStatus(h StatusHistogram, filter StatusFilter) bool {
	switch filter {
	case FilterHasPending:
		return h.Pending > 0
	case FilterHasRejected:
		return h.Rejected > 0
	case FilterAllVerified:
		return h.Pending == 0 && h.Rejected == 0 && h.Verified > 0
	default:
		return true
	}
}

// placeholderProfile 归属用户查不到档案时的占位档案
func placeholderProfile(userID string) *profiledomain.Profile {
	short := strings.ToLower(userID)
	if len(short) > 8 {
		short = short[:8]
	}
	return &profiledomain.Profile{
		ID:       userID,
		FullName: "Unknown",
		Email:    short + "@unknown",
		Role:     profiledomain.RoleClient,
	}
}
