package domain

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/taxnova/backoffice/pkg/apperr"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	bundle := NewBundle(Metadata{
		CreatedAt: "2026-03-01T12:00:00Z",
		Platform:  "backoffice",
		Type:      "full_backup",
	})
	bundle.Tables[TableProfiles] = []json.RawMessage{
		json.RawMessage(`{"id":"u1","full_name":"Alice"}`),
		json.RawMessage(`{"id":"u2","full_name":"Bob"}`),
	}
	bundle.Tables[TableServices] = []json.RawMessage{
		json.RawMessage(`{"id":"s1","title":"Tax Filing"}`),
	}

	data, err := Encode(bundle)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Metadata != bundle.Metadata {
		t.Errorf("metadata mismatch: %+v", decoded.Metadata)
	}
	if len(decoded.Tables[TableProfiles]) != 2 {
		t.Errorf("expected 2 profile rows, got %d", len(decoded.Tables[TableProfiles]))
	}
	if len(decoded.Tables[TableServices]) != 1 {
		t.Errorf("expected 1 service row, got %d", len(decoded.Tables[TableServices]))
	}
}

func TestDecodeRejectsNonZip(t *testing.T) {
	_, err := Decode([]byte("this is not a zip archive"))
	if !errors.Is(err, apperr.ErrMalformedArchive) {
		t.Fatalf("expected malformed archive error, got %v", err)
	}
}

func TestDecodeRejectsBadTableJSON(t *testing.T) {
	bundle := NewBundle(Metadata{Platform: "backoffice"})
	bundle.Tables[TableProfiles] = []json.RawMessage{json.RawMessage(`{"id":"u1"}`)}
	data, err := Encode(bundle)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	// 在干净归档上叠一个坏表文件
	corrupted := appendZipEntry(t, data, "user_documents.json", []byte("{not json"))
	if _, err := Decode(corrupted); !errors.Is(err, apperr.ErrMalformedArchive) {
		t.Fatalf("expected malformed archive error, got %v", err)
	}
}

func TestDecodeIgnoresUnknownEntries(t *testing.T) {
	bundle := NewBundle(Metadata{Platform: "backoffice"})
	data, err := Encode(bundle)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	withExtra := appendZipEntry(t, data, "README.txt", []byte("ignore me"))
	decoded, err := Decode(withExtra)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(decoded.Tables) != 0 {
		t.Errorf("expected no tables, got %d", len(decoded.Tables))
	}
}

// appendZipEntry 重建归档并附加一个条目
func appendZipEntry(t *testing.T, data []byte, name string, content []byte) []byte {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("read zip: %v", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, file := range zr.File {
		rc, err := file.Open()
		if err != nil {
			t.Fatalf("open entry %s: %v", file.Name, err)
		}
		w, err := zw.Create(file.Name)
		if err != nil {
			t.Fatalf("create entry %s: %v", file.Name, err)
		}
		if _, err := io.Copy(w, rc); err != nil {
			t.Fatalf("copy entry %s: %v", file.Name, err)
		}
		rc.Close()
	}

	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("create entry %s: %v", name, err)
	}
	if _, err := w.Write(content); err != nil {
		t.Fatalf("write entry %s: %v", name, err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestFileNameConvention(t *testing.T) {
	name := FileName("taxnova_backup", time.Date(2026, 3, 9, 23, 59, 0, 0, time.UTC))
	if name != "taxnova_backup_2026-03-09.zip" {
		t.Errorf("unexpected file name %q", name)
	}
}
