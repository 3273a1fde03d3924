package application

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/taxnova/backoffice/internal/archive/domain"
	"github.com/taxnova/backoffice/pkg/apperr"
)

// memTableStore 以表名为键的内存表实现，行按 JSON 内的 id 字段 upsert
type memTableStore struct {
	tables     map[string]map[string]json.RawMessage
	order      map[string][]string
	applied    []string
	failTables map[string]error
	chunkSizes []int
}

func newMemTableStore() *memTableStore {
	return &memTableStore{
		tables:     make(map[string]map[string]json.RawMessage),
		order:      make(map[string][]string),
		failTables: make(map[string]error),
	}
}

func (m *memTableStore) seed(table string, rows ...string) {
	for _, row := range rows {
		m.put(table, json.RawMessage(row))
	}
}

func (m *memTableStore) put(table string, row json.RawMessage) {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(row, &probe); err != nil {
		panic(err)
	}
	if m.tables[table] == nil {
		m.tables[table] = make(map[string]json.RawMessage)
	}
	if _, exists := m.tables[table][probe.ID]; !exists {
		m.order[table] = append(m.order[table], probe.ID)
	}
	m.tables[table][probe.ID] = row
}

func (m *memTableStore) ExportTable(ctx context.Context, table string) ([]json.RawMessage, error) {
	if err := m.failTables[table]; err != nil {
		return nil, err
	}
	var rows []json.RawMessage
	for _, id := range m.order[table] {
		rows = append(rows, m.tables[table][id])
	}
	return rows, nil
}

func (m *memTableStore) UpsertChunk(ctx context.Context, table string, rows []json.RawMessage) (int, error) {
	if err := m.failTables[table]; err != nil {
		return 0, err
	}
	m.applied = append(m.applied, table)
	m.chunkSizes = append(m.chunkSizes, len(rows))
	for _, row := range rows {
		m.put(table, row)
	}
	return len(rows), nil
}

func (m *memTableStore) PurgeTable(ctx context.Context, table string) (int64, error) {
	if err := m.failTables[table]; err != nil {
		return 0, err
	}
	n := int64(len(m.tables[table]))
	delete(m.tables, table)
	delete(m.order, table)
	return n, nil
}

type memObjectStore struct {
	buckets map[string][]string
	removed map[string][]string
}

func newMemObjectStore() *memObjectStore {
	return &memObjectStore{
		buckets: make(map[string][]string),
		removed: make(map[string][]string),
	}
}

func (m *memObjectStore) ListObjects(ctx context.Context, bucket string) ([]string, error) {
	return m.buckets[bucket], nil
}

func (m *memObjectStore) RemoveObjects(ctx context.Context, bucket string, keys []string) error {
	m.removed[bucket] = append(m.removed[bucket], keys...)
	m.buckets[bucket] = nil
	return nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	return nil
}

func newTestService(store *memTableStore, objects *memObjectStore, chunkSize int) *ArchiveService {
	svc := NewArchiveService(store, objects, nopPublisher{}, nil, Options{
		ChunkSize:       chunkSize,
		Label:           "taxnova_backup",
		Platform:        "backoffice",
		DocumentBucket:  "documents",
		AvatarBucket:    "avatars",
		PermanentBucket: "archives",
	})
	svc.WithClock(func() time.Time { return time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC) })
	return svc
}

func TestExportProducesDatedArchive(t *testing.T) {
	store := newMemTableStore()
	store.seed(domain.TableProfiles, `{"id":"u1","full_name":"Alice"}`)
	store.seed(domain.TableServices, `{"id":"s1","title":"Tax Filing"}`)

	svc := newTestService(store, newMemObjectStore(), 100)
	result, err := svc.Export(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FileName != "taxnova_backup_2026-03-09.zip" {
		t.Errorf("unexpected file name %q", result.FileName)
	}

	bundle, err := domain.Decode(result.Data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if bundle.Metadata.Type != "full_backup" || bundle.Metadata.Platform != "backoffice" {
		t.Errorf("unexpected metadata %+v", bundle.Metadata)
	}
	if bundle.Metadata.CreatedAt != "2026-03-09T08:00:00Z" {
		t.Errorf("unexpected created_at %q", bundle.Metadata.CreatedAt)
	}
	if len(bundle.Tables[domain.TableProfiles]) != 1 {
		t.Errorf("expected 1 profile row, got %d", len(bundle.Tables[domain.TableProfiles]))
	}
}

func TestExportAbortsOnTableFailure(t *testing.T) {
	store := newMemTableStore()
	store.seed(domain.TableServices, `{"id":"s1"}`)
	store.failTables[domain.TableProfiles] = errors.New("connection reset")

	svc := newTestService(store, newMemObjectStore(), 100)
	if _, err := svc.Export(context.Background()); err == nil {
		t.Fatal("expected export to fail when a table read fails")
	}
}

func TestRestoreAppliesFixedOrder(t *testing.T) {
	// 归档中只带三张表，顺序由服务决定而不是归档内容
	bundle := domain.NewBundle(domain.Metadata{Platform: "backoffice"})
	bundle.Tables[domain.TablePayoutRequests] = []json.RawMessage{json.RawMessage(`{"id":"pay1"}`)}
	bundle.Tables[domain.TableProfiles] = []json.RawMessage{json.RawMessage(`{"id":"u1"}`)}
	bundle.Tables[domain.TableUserDocuments] = []json.RawMessage{json.RawMessage(`{"id":"d1"}`)}
	data, err := domain.Encode(bundle)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	store := newMemTableStore()
	svc := newTestService(store, newMemObjectStore(), 100)
	result, err := svc.Restore(context.Background(), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.FullySucceeded() {
		t.Fatalf("expected full success, got %+v", result)
	}

	want := []string{domain.TableProfiles, domain.TableUserDocuments, domain.TablePayoutRequests}
	if len(store.applied) != len(want) {
		t.Fatalf("expected %d table writes, got %v", len(want), store.applied)
	}
	for i, table := range want {
		if store.applied[i] != table {
			t.Errorf("position %d: expected %s, got %s", i, table, store.applied[i])
		}
	}
}

func TestRestoreIgnoresArchiveEntryOrder(t *testing.T) {
	// 手工构造逆依赖顺序的 ZIP：user_services 在 profiles 之前
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entries := []struct {
		name    string
		content string
	}{
		{"user_services.json", `[{"id":"s1","user_id":"u1","status":"pending"}]`},
		{"profiles.json", `[{"id":"u1","full_name":"A"}]`},
		{"metadata.json", `{"created_at":"2026-03-09T08:00:00Z","platform":"backoffice","type":"full_backup"}`},
	}
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			t.Fatalf("create %s: %v", e.name, err)
		}
		if _, err := w.Write([]byte(e.content)); err != nil {
			t.Fatalf("write %s: %v", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	store := newMemTableStore()
	svc := newTestService(store, newMemObjectStore(), 100)
	result, err := svc.Restore(context.Background(), buf.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.FullySucceeded() {
		t.Fatalf("expected full success, got %+v", result)
	}
	if store.applied[0] != domain.TableProfiles || store.applied[1] != domain.TableUserServices {
		t.Errorf("expected profiles before user_services, got %v", store.applied)
	}
	if len(store.tables[domain.TableProfiles]) != 1 || len(store.tables[domain.TableUserServices]) != 1 {
		t.Errorf("expected both rows restored, got %v", store.tables)
	}
}

func TestRestoreChunksLargeTables(t *testing.T) {
	bundle := domain.NewBundle(domain.Metadata{})
	var rows []json.RawMessage
	for i := 0; i < 7; i++ {
		rows = append(rows, json.RawMessage(fmt.Sprintf(`{"id":"n%d"}`, i)))
	}
	bundle.Tables[domain.TableNotifications] = rows
	data, err := domain.Encode(bundle)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	store := newMemTableStore()
	svc := newTestService(store, newMemObjectStore(), 3)
	result, err := svc.Restore(context.Background(), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Succeeded) != 1 || result.Succeeded[0].Processed != 7 {
		t.Fatalf("expected 7 rows processed, got %+v", result)
	}

	want := []int{3, 3, 1}
	if len(store.chunkSizes) != len(want) {
		t.Fatalf("expected %d chunks, got %v", len(want), store.chunkSizes)
	}
	for i, n := range want {
		if store.chunkSizes[i] != n {
			t.Errorf("chunk %d: expected %d rows, got %d", i, n, store.chunkSizes[i])
		}
	}
}

func TestRestoreIsIdempotent(t *testing.T) {
	bundle := domain.NewBundle(domain.Metadata{})
	bundle.Tables[domain.TableProfiles] = []json.RawMessage{
		json.RawMessage(`{"id":"u1","full_name":"Alice"}`),
	}
	data, err := domain.Encode(bundle)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	store := newMemTableStore()
	svc := newTestService(store, newMemObjectStore(), 100)
	for i := 0; i < 2; i++ {
		if _, err := svc.Restore(context.Background(), data); err != nil {
			t.Fatalf("restore %d failed: %v", i, err)
		}
	}
	if len(store.tables[domain.TableProfiles]) != 1 {
		t.Errorf("expected upsert to keep a single row, got %d", len(store.tables[domain.TableProfiles]))
	}
}

func TestRestoreContinuesPastFailingTable(t *testing.T) {
	bundle := domain.NewBundle(domain.Metadata{})
	bundle.Tables[domain.TableProfiles] = []json.RawMessage{json.RawMessage(`{"id":"u1"}`)}
	bundle.Tables[domain.TableUserDocuments] = []json.RawMessage{json.RawMessage(`{"id":"d1"}`)}
	data, err := domain.Encode(bundle)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	store := newMemTableStore()
	store.failTables[domain.TableProfiles] = errors.New("duplicate key")
	svc := newTestService(store, newMemObjectStore(), 100)

	result, err := svc.Restore(context.Background(), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FullySucceeded() {
		t.Fatal("expected partial failure")
	}
	if len(result.Failed) != 1 || result.Failed[0].Name != domain.TableProfiles {
		t.Errorf("expected profiles in failed steps, got %+v", result.Failed)
	}
	if len(result.Succeeded) != 1 || result.Succeeded[0].Name != domain.TableUserDocuments {
		t.Errorf("expected user_documents restored despite earlier failure, got %+v", result.Succeeded)
	}
}

func TestRestoreRejectsMalformedArchive(t *testing.T) {
	svc := newTestService(newMemTableStore(), newMemObjectStore(), 100)
	_, err := svc.Restore(context.Background(), []byte("garbage"))
	if !errors.Is(err, apperr.ErrMalformedArchive) {
		t.Fatalf("expected malformed archive error, got %v", err)
	}
}

func TestPurgePreservesIdentityTablesAndBuckets(t *testing.T) {
	store := newMemTableStore()
	store.seed(domain.TableProfiles, `{"id":"u1"}`)
	store.seed(domain.TableServices, `{"id":"s1"}`)
	store.seed(domain.TableUserServices, `{"id":"r1"}`)
	store.seed(domain.TableUserDocuments, `{"id":"d1"}`, `{"id":"d2"}`)
	store.seed(domain.TableNotifications, `{"id":"n1"}`)
	store.seed(domain.TableRoyaltyEntries, `{"id":"roy1"}`)

	objects := newMemObjectStore()
	objects.buckets["documents"] = []string{"u1/w2.pdf", "u1/id.png"}
	objects.buckets["avatars"] = []string{"u1.png"}
	objects.buckets["archives"] = []string{"taxnova_backup_2026-01-01.zip"}

	svc := newTestService(store, objects, 100)
	result, err := svc.Purge(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.FullySucceeded() {
		t.Fatalf("expected full success, got %+v", result)
	}

	for _, table := range []string{domain.TableUserServices, domain.TableUserDocuments, domain.TableNotifications} {
		if len(store.tables[table]) != 0 {
			t.Errorf("expected %s purged, got %d rows", table, len(store.tables[table]))
		}
	}
	if len(store.tables[domain.TableProfiles]) != 1 || len(store.tables[domain.TableServices]) != 1 {
		t.Error("identity and catalog tables must survive a purge")
	}
	if len(store.tables[domain.TableRoyaltyEntries]) != 1 {
		t.Error("royalty ledger must survive a purge")
	}
	if len(objects.removed["documents"]) != 2 {
		t.Errorf("expected document bucket emptied, removed %v", objects.removed["documents"])
	}
	if len(objects.buckets["avatars"]) != 1 || len(objects.buckets["archives"]) != 1 {
		t.Error("avatar and permanent buckets must survive a purge")
	}
}
