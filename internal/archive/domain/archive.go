package domain

import (
	"context"
	"encoding/json"
)

// 归档覆盖的表名
const (
	TableServices       = "services"
	TableProfiles       = "profiles"
	TableUserServices   = "user_services"
	TableUserDocuments  = "user_documents"
	TableNotifications  = "notifications"
	TableRoyaltyEntries = "royalty_entries"
	TablePayoutRequests = "payout_requests"
)

// RestoreOrder 恢复时的固定表顺序：无依赖的表在前，引用 profiles 的表在后。
// 该顺序是硬性约束，打乱会触发数据库外键拒绝。
var RestoreOrder = []string{
	TableServices,
	TableProfiles,
	TableUserServices,
	TableUserDocuments,
	TableNotifications,
	TableRoyaltyEntries,
	TablePayoutRequests,
}

// PurgeTables 清理操作覆盖的事务表；身份表（profiles）与服务目录刻意保留
var PurgeTables = []string{
	TableUserServices,
	TableUserDocuments,
	TableNotifications,
}

// Metadata 归档元信息
type Metadata struct {
	CreatedAt string `json:"created_at"`
	Platform  string `json:"platform"`
	Type      string `json:"type"`
}

// Bundle 归档的内存表示：表名到原始行的映射
type Bundle struct {
	Metadata Metadata
	Tables   map[string][]json.RawMessage
}

// NewBundle 创建空归档
func NewBundle(meta Metadata) *Bundle {
	return &Bundle{
		Metadata: meta,
		Tables:   make(map[string][]json.RawMessage),
	}
}

// StepResult 多步操作中单步的结果
type StepResult struct {
	Name      string `json:"name"`
	Processed int    `json:"processed"`
	Error     string `json:"error,omitempty"`
}

// BatchResult 多步操作的聚合结果，部分失败与全部成功/失败严格区分
type BatchResult struct {
	Succeeded []StepResult `json:"succeeded"`
	Failed    []StepResult `json:"failed"`
}

// AddSuccess 记录成功步骤
func (r *BatchResult) AddSuccess(name string, processed int) {
	r.Succeeded = append(r.Succeeded, StepResult{Name: name, Processed: processed})
}

// AddFailure 记录失败步骤
func (r *BatchResult) AddFailure(name string, processed int, err error) {
	r.Failed = append(r.Failed, StepResult{Name: name, Processed: processed, Error: err.Error()})
}

// FullySucceeded 是否全部成功
func (r *BatchResult) FullySucceeded() bool {
	return len(r.Failed) == 0
}

// TableStore 表级读写端口，由数据库实现
type TableStore interface {
	// ExportTable 一次查询读出整张表（不分页，适用于中等数据量，是已知的规模上限）
	ExportTable(ctx context.Context, table string) ([]json.RawMessage, error)
	// UpsertChunk 按主键 upsert 一批行，返回处理行数
	UpsertChunk(ctx context.Context, table string, rows []json.RawMessage) (int, error)
	// PurgeTable 清空一张表，返回删除行数
	PurgeTable(ctx context.Context, table string) (int64, error)
}

// ObjectStore 对象存储端口
type ObjectStore interface {
	ListObjects(ctx context.Context, bucket string) ([]string, error)
	RemoveObjects(ctx context.Context, bucket string, keys []string) error
}

// EventPublisher 领域事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
