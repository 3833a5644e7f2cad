package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"leavehub/internal/domain/idempotency"
)

type fakeIdemStore struct {
	records map[string]idempotency.Record
}

func newFakeIdemStore() *fakeIdemStore {
	return &fakeIdemStore{records: map[string]idempotency.Record{}}
}

func (f *fakeIdemStore) Get(_ context.Context, key string, _ time.Time) (idempotency.Record, bool, error) {
	record, ok := f.records[key]
	return record, ok, nil
}

func (f *fakeIdemStore) Put(_ context.Context, key string, statusCode int, body []byte) error {
	if _, exists := f.records[key]; !exists {
		f.records[key] = idempotency.Record{StatusCode: statusCode, Body: body}
	}
	return nil
}

func (f *fakeIdemStore) Sweep(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func TestIdempotencyReplaysExactBytes(t *testing.T) {
	guard := idempotency.NewGuard(newFakeIdemStore(), time.Hour)
	calls := 0
	handler := Idempotency(guard, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"` + strconv.Itoa(calls) + `"}`))
	}))

	first := httptest.NewRequest(http.MethodPost, "/leave/requests", nil)
	first.Header.Set("Idempotency-Key", "key-1")
	firstRec := httptest.NewRecorder()
	handler.ServeHTTP(firstRec, first)
	if firstRec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", firstRec.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/leave/requests", nil)
	second.Header.Set("Idempotency-Key", "key-1")
	secondRec := httptest.NewRecorder()
	handler.ServeHTTP(secondRec, second)

	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
	if secondRec.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201, got %d", secondRec.Code)
	}
	if firstRec.Body.String() != secondRec.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", firstRec.Body.String(), secondRec.Body.String())
	}
	if secondRec.Header().Get("X-Idempotent-Replay") != "true" {
		t.Fatal("expected replay marker header")
	}
}

func TestIdempotencyDistinctKeysExecuteSeparately(t *testing.T) {
	guard := idempotency.NewGuard(newFakeIdemStore(), time.Hour)
	calls := 0
	handler := Idempotency(guard, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	for _, key := range []string{"key-a", "key-b"} {
		req := httptest.NewRequest(http.MethodPost, "/leave/requests", nil)
		req.Header.Set("Idempotency-Key", key)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
	if calls != 2 {
		t.Fatalf("expected 2 executions, got %d", calls)
	}
}

func TestIdempotencyNoKeyBypasses(t *testing.T) {
	guard := idempotency.NewGuard(newFakeIdemStore(), time.Hour)
	calls := 0
	handler := Idempotency(guard, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/leave/requests", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
	if calls != 2 {
		t.Fatalf("expected 2 executions without key, got %d", calls)
	}
}

func TestIdempotencyIgnoresGet(t *testing.T) {
	guard := idempotency.NewGuard(newFakeIdemStore(), time.Hour)
	calls := 0
	handler := Idempotency(guard, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/leave/requests", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
	if calls != 2 {
		t.Fatalf("expected GET to bypass idempotency, got %d calls", calls)
	}
}
