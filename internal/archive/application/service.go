package application

import (
	"context"
	"time"

	"github.com/taxnova/backoffice/internal/archive/domain"
	"github.com/taxnova/backoffice/pkg/logger"
	"github.com/taxnova/backoffice/pkg/metrics"
)

// Options 归档服务配置
type Options struct {
	// 恢复时每批 upsert 的行数
	ChunkSize int
	// 导出文件名前缀
	Label string
	// 写入归档元信息的平台标识
	Platform string
	// 清理时清空的上传文件桶
	DocumentBucket string
	// 清理时保留的桶：头像与永久归档
	AvatarBucket    string
	PermanentBucket string
}

// ExportResult 导出产物
type ExportResult struct {
	FileName string
	Data     []byte
}

// ArchiveService 归档应用服务：导出、恢复、清理
type ArchiveService struct {
	store     domain.TableStore
	objects   domain.ObjectStore
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
	opts      Options
	nowFn     func() time.Time
}

// NewArchiveService 创建归档应用服务实例，metrics 可为 nil
func NewArchiveService(
	store domain.TableStore,
	objects domain.ObjectStore,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
	opts Options,
) *ArchiveService {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 100
	}
	return &ArchiveService{
		store:     store,
		objects:   objects,
		publisher: publisher,
		metrics:   m,
		opts:      opts,
		nowFn:     time.Now,
	}
}

// WithClock 覆盖时间源，仅测试使用
func (s *ArchiveService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// Export 导出全量快照。逐表顺序读取，任一表读取失败则整体中止，
// 绝不产出残缺归档。
func (s *ArchiveService) Export(ctx context.Context) (*ExportResult, error) {
	now := s.nowFn()
	bundle := domain.NewBundle(domain.Metadata{
		CreatedAt: now.UTC().Format(time.RFC3339),
		Platform:  s.opts.Platform,
		Type:      "full_backup",
	})

	for _, table := range domain.RestoreOrder {
		rows, err := s.store.ExportTable(ctx, table)
		if err != nil {
			s.countRun("export", "error")
			return nil, err
		}
		bundle.Tables[table] = rows
	}

	data, err := domain.Encode(bundle)
	if err != nil {
		s.countRun("export", "error")
		return nil, err
	}

	s.countRun("export", "ok")
	logger.Info(ctx, "archive exported", "tables", len(bundle.Tables), "bytes", len(data))
	return &ExportResult{
		FileName: domain.FileName(s.opts.Label, now),
		Data:     data,
	}, nil
}

// Restore 从归档恢复。表按固定依赖顺序应用，与归档内的排列无关；
// 缺失的表静默跳过；单批失败记录后继续，尽最大努力恢复数据。
func (s *ArchiveService) Restore(ctx context.Context, data []byte) (*domain.BatchResult, error) {
	bundle, err := domain.Decode(data)
	if err != nil {
		s.countRun("restore", "error")
		return nil, err
	}

	result := &domain.BatchResult{}
	for _, table := range domain.RestoreOrder {
		rows, ok := bundle.Tables[table]
		if !ok {
			continue
		}

		processed := 0
		var tableErr error
		for start := 0; start < len(rows); start += s.opts.ChunkSize {
			end := start + s.opts.ChunkSize
			if end > len(rows) {
				end = len(rows)
			}

			n, err := s.store.UpsertChunk(ctx, table, rows[start:end])
			processed += n
			if err != nil {
				tableErr = err
				logger.Warn(ctx, "restore chunk failed",
					"table", table,
					"offset", start,
					"error", err,
				)
			}
		}

		if tableErr != nil {
			result.AddFailure(table, processed, tableErr)
		} else {
			result.AddSuccess(table, processed)
		}
	}

	outcome := "ok"
	if !result.FullySucceeded() {
		outcome = "partial"
	}
	s.countRun("restore", outcome)

	if err := s.publisher.Publish(ctx, "archive.restored", s.opts.Platform, result); err != nil {
		logger.Warn(ctx, "publish restore event failed", "error", err)
	}
	return result, nil
}

// Purge 清理事务数据：删除事务表与上传文件桶，身份表、头像桶与永久归档桶
// 刻意保留（身份数据的生命周期长于业务流水）。逐步执行并聚合结果。
func (s *ArchiveService) Purge(ctx context.Context) (*domain.BatchResult, error) {
	result := &domain.BatchResult{}

	for _, table := range domain.PurgeTables {
		deleted, err := s.store.PurgeTable(ctx, table)
		if err != nil {
			result.AddFailure(table, int(deleted), err)
			continue
		}
		result.AddSuccess(table, int(deleted))
	}

	if err := s.purgeBucket(ctx, s.opts.DocumentBucket, result); err != nil {
		logger.Warn(ctx, "bucket purge failed", "bucket", s.opts.DocumentBucket, "error", err)
	}

	outcome := "ok"
	if !result.FullySucceeded() {
		outcome = "partial"
	}
	s.countRun("purge", outcome)

	if err := s.publisher.Publish(ctx, "archive.purged", s.opts.Platform, result); err != nil {
		logger.Warn(ctx, "publish purge event failed", "error", err)
	}
	return result, nil
}

func (s *ArchiveService) purgeBucket(ctx context.Context, bucket string, result *domain.BatchResult) error {
	if bucket == "" || s.objects == nil {
		return nil
	}

	keys, err := s.objects.ListObjects(ctx, bucket)
	if err != nil {
		result.AddFailure("bucket:"+bucket, 0, err)
		return err
	}
	if len(keys) == 0 {
		result.AddSuccess("bucket:"+bucket, 0)
		return nil
	}

	if err := s.objects.RemoveObjects(ctx, bucket, keys); err != nil {
		result.AddFailure("bucket:"+bucket, 0, err)
		return err
	}
	result.AddSuccess("bucket:"+bucket, len(keys))
	return nil
}

func (s *ArchiveService) countRun(kind, outcome string) {
	if s.metrics != nil {
		s.metrics.ArchiveRunsTotal.WithLabelValues(kind, outcome).Inc()
	}
}
