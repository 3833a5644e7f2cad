package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFailEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Fail(rec, 400, "INVALID_DATE_RANGE", "end date must be on or after start date", "req-1")

	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type %q", got)
	}

	var envelope Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if envelope.Success {
		t.Fatal("expected success=false")
	}
	if envelope.Error == nil || envelope.Error.Code != "INVALID_DATE_RANGE" {
		t.Fatalf("unexpected error: %+v", envelope.Error)
	}
	if envelope.RequestID != "req-1" {
		t.Fatalf("unexpected request id %q", envelope.RequestID)
	}
	if _, err := time.Parse(time.RFC3339, envelope.Error.Timestamp); err != nil {
		t.Fatalf("timestamp not RFC3339: %v", err)
	}
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]string{"id": "r1"}, "req-2")

	var envelope Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !envelope.Success || envelope.Error != nil {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
}
