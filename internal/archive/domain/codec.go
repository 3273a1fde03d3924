package domain

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/taxnova/backoffice/pkg/apperr"
)

const metadataEntry = "metadata.json"

// Encode 将归档序列化为 ZIP：每张表一个 <table>.json，外加 metadata.json
func Encode(bundle *Bundle) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	meta, err := json.Marshal(bundle.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	if err := writeEntry(zw, metadataEntry, meta); err != nil {
		return nil, err
	}

	// 按固定顺序写入，保证归档字节可复现
	for _, table := range RestoreOrder {
		rows, ok := bundle.Tables[table]
		if !ok {
			continue
		}
		data, err := json.Marshal(rows)
		if err != nil {
			return nil, fmt.Errorf("marshal table %s: %w", table, err)
		}
		if err := writeEntry(zw, table+".json", data); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode 解析 ZIP 归档。容器或任一表文件无法解析时返回 MalformedArchive，
// 不会留下半解析状态；未知条目被忽略。
func Decode(data []byte) (*Bundle, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrMalformedArchive, err)
	}

	bundle := NewBundle(Metadata{})
	for _, file := range zr.File {
		name := path.Base(file.Name)
		if !strings.HasSuffix(name, ".json") {
			continue
		}

		content, err := readEntry(file)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrMalformedArchive, err)
		}

		if name == metadataEntry {
			if err := json.Unmarshal(content, &bundle.Metadata); err != nil {
				return nil, fmt.Errorf("%w: bad metadata: %v", apperr.ErrMalformedArchive, err)
			}
			continue
		}

		table := strings.TrimSuffix(name, ".json")
		var rows []json.RawMessage
		if err := json.Unmarshal(content, &rows); err != nil {
			return nil, fmt.Errorf("%w: bad table %s: %v", apperr.ErrMalformedArchive, table, err)
		}
		bundle.Tables[table] = rows
	}

	return bundle, nil
}

// FileName 导出文件名约定：<label>_<YYYY-MM-DD>.zip
func FileName(label string, t time.Time) string {
	return fmt.Sprintf("%s_%s.zip", label, t.Format("2006-01-02"))
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func readEntry(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
