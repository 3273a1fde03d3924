// Package storage 提供本地文件系统的对象存储实现。
// 部署环境把每个桶映射为根目录下的一个子目录。
package storage

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	archivedomain "github.com/taxnova/backoffice/internal/archive/domain"
)

type localStore struct {
	root string
}

// NewLocalStore 创建本地对象存储实现
func NewLocalStore(root string) archivedomain.ObjectStore {
	return &localStore{root: root}
}

func (s *localStore) ListObjects(ctx context.Context, bucket string) ([]string, error) {
	base := filepath.Join(s.root, bucket)
	if _, err := os.Stat(base); os.IsNotExist(err) {
		return nil, nil
	}

	var keys []string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *localStore) RemoveObjects(ctx context.Context, bucket string, keys []string) error {
	base := filepath.Join(s.root, bucket)
	for _, key := range keys {
		if err := os.Remove(filepath.Join(base, filepath.FromSlash(key))); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
