package idempotency

import (
	"context"
	"testing"
	"time"
)

type memStore struct {
	records map[string]memRecord
}

type memRecord struct {
	record    Record
	createdAt time.Time
}

func newMemStore() *memStore {
	return &memStore{records: map[string]memRecord{}}
}

func (m *memStore) Get(_ context.Context, key string, notBefore time.Time) (Record, bool, error) {
	entry, ok := m.records[key]
	if !ok || entry.createdAt.Before(notBefore) {
		return Record{}, false, nil
	}
	return entry.record, true, nil
}

func (m *memStore) Put(_ context.Context, key string, statusCode int, body []byte) error {
	if _, exists := m.records[key]; exists {
		return nil
	}
	m.records[key] = memRecord{
		record:    Record{StatusCode: statusCode, Body: body},
		createdAt: time.Now(),
	}
	return nil
}

func (m *memStore) Sweep(_ context.Context, before time.Time) (int64, error) {
	var deleted int64
	for key, entry := range m.records {
		if entry.createdAt.Before(before) {
			delete(m.records, key)
			deleted++
		}
	}
	return deleted, nil
}

func TestGuardReplaysStoredRecord(t *testing.T) {
	guard := NewGuard(newMemStore(), time.Hour)
	ctx := context.Background()

	if _, found, err := guard.Lookup(ctx, "k1"); err != nil || found {
		t.Fatalf("expected miss, got found=%v err=%v", found, err)
	}

	if err := guard.Save(ctx, "k1", 201, []byte(`{"id":"r1"}`)); err != nil {
		t.Fatalf("save error: %v", err)
	}

	record, found, err := guard.Lookup(ctx, "k1")
	if err != nil || !found {
		t.Fatalf("expected hit, got found=%v err=%v", found, err)
	}
	if record.StatusCode != 201 || string(record.Body) != `{"id":"r1"}` {
		t.Fatalf("unexpected record: %+v", record)
	}
}

func TestGuardFirstWriterWins(t *testing.T) {
	guard := NewGuard(newMemStore(), time.Hour)
	ctx := context.Background()

	if err := guard.Save(ctx, "k1", 201, []byte("first")); err != nil {
		t.Fatalf("save error: %v", err)
	}
	if err := guard.Save(ctx, "k1", 500, []byte("second")); err != nil {
		t.Fatalf("save error: %v", err)
	}

	record, found, err := guard.Lookup(ctx, "k1")
	if err != nil || !found {
		t.Fatalf("expected hit, got found=%v err=%v", found, err)
	}
	if string(record.Body) != "first" {
		t.Fatalf("expected first writer to win, got %q", record.Body)
	}
}

func TestGuardExpiredRecordIsMiss(t *testing.T) {
	store := newMemStore()
	guard := NewGuard(store, time.Hour)
	ctx := context.Background()

	if err := guard.Save(ctx, "k1", 200, []byte("ok")); err != nil {
		t.Fatalf("save error: %v", err)
	}
	entry := store.records["k1"]
	entry.createdAt = time.Now().Add(-2 * time.Hour)
	store.records["k1"] = entry

	if _, found, _ := guard.Lookup(ctx, "k1"); found {
		t.Fatal("expected expired record to be invisible")
	}

	deleted, err := guard.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep error: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted, got %d", deleted)
	}
}
