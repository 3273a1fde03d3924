package mysql

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	announcementdomain "github.com/taxnova/backoffice/internal/announcement/domain"
	archivedomain "github.com/taxnova/backoffice/internal/archive/domain"
	catalogdomain "github.com/taxnova/backoffice/internal/catalog/domain"
	documentdomain "github.com/taxnova/backoffice/internal/document/domain"
	profiledomain "github.com/taxnova/backoffice/internal/profile/domain"
	requestdomain "github.com/taxnova/backoffice/internal/request/domain"
	walletdomain "github.com/taxnova/backoffice/internal/wallet/domain"
)

// tableStore 基于 GORM 的表级读写实现。
// 每张表绑定一个带类型的切片工厂：恢复时 JSON 行先解码为带类型记录，
// 未知字段在解码时被丢弃，后端结构漂移不会渗入归档。
type tableStore struct {
	db        *gorm.DB
	factories map[string]func() any
}

// NewTableStore 创建表级读写实现
func NewTableStore(db *gorm.DB) archivedomain.TableStore {
	return &tableStore{
		db: db,
		factories: map[string]func() any{
			archivedomain.TableServices:       func() any { return &[]catalogdomain.ServiceOffering{} },
			archivedomain.TableProfiles:       func() any { return &[]profiledomain.Profile{} },
			archivedomain.TableUserServices:   func() any { return &[]requestdomain.ServiceRequest{} },
			archivedomain.TableUserDocuments:  func() any { return &[]documentdomain.DocumentRecord{} },
			archivedomain.TableNotifications:  func() any { return &[]announcementdomain.Notification{} },
			archivedomain.TableRoyaltyEntries: func() any { return &[]walletdomain.RoyaltyEntry{} },
			archivedomain.TablePayoutRequests: func() any { return &[]walletdomain.PayoutRequest{} },
		},
	}
}

func (s *tableStore) ExportTable(ctx context.Context, table string) ([]json.RawMessage, error) {
	factory, ok := s.factories[table]
	if !ok {
		return nil, fmt.Errorf("unknown table %q", table)
	}

	dest := factory()
	if err := s.db.WithContext(ctx).Table(table).Find(dest).Error; err != nil {
		return nil, fmt.Errorf("read table %s: %w", table, err)
	}

	data, err := json.Marshal(dest)
	if err != nil {
		return nil, fmt.Errorf("marshal table %s: %w", table, err)
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *tableStore) UpsertChunk(ctx context.Context, table string, rows []json.RawMessage) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	factory, ok := s.factories[table]
	if !ok {
		return 0, fmt.Errorf("unknown table %q", table)
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return 0, err
	}

	dest := factory()
	if err := json.Unmarshal(data, dest); err != nil {
		return 0, fmt.Errorf("decode rows for %s: %w", table, err)
	}

	err = s.db.WithContext(ctx).
		Table(table).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(dest).Error
	if err != nil {
		return 0, fmt.Errorf("upsert chunk into %s: %w", table, err)
	}
	return len(rows), nil
}

func (s *tableStore) PurgeTable(ctx context.Context, table string) (int64, error) {
	if _, ok := s.factories[table]; !ok {
		return 0, fmt.Errorf("unknown table %q", table)
	}

	res := s.db.WithContext(ctx).Exec("DELETE FROM " + table)
	if res.Error != nil {
		return 0, fmt.Errorf("purge table %s: %w", table, res.Error)
	}
	return res.RowsAffected, nil
}
