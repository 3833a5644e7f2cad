package middleware

import (
	"bytes"
	"log/slog"
	"net/http"

	"leavehub/internal/domain/idempotency"
	"leavehub/internal/platform/metrics"
)

// Idempotency replays stored responses for retried mutations that carry an
// Idempotency-Key header. Store failures degrade to executing the request
// normally; the business rules stay safe to re-run.
func Idempotency(guard *idempotency.Guard, collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if guard == nil || !mutating(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			key := r.Header.Get("Idempotency-Key")
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			record, found, err := guard.Lookup(r.Context(), key)
			if err != nil {
				slog.Warn("idempotency lookup failed", "key", key, "err", err)
			} else if found {
				slog.Info("replaying idempotent response",
					"key", key,
					"status", record.StatusCode,
					"requestId", GetRequestID(r.Context()),
				)
				if collector != nil {
					collector.RecordReplay()
				}
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Idempotent-Replay", "true")
				w.WriteHeader(record.StatusCode)
				_, _ = w.Write(record.Body)
				return
			}

			recorder := &bodyRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			if err := guard.Save(r.Context(), key, recorder.status, recorder.body.Bytes()); err != nil {
				slog.Warn("idempotency save failed", "key", key, "err", err)
			}
		})
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

type bodyRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (b *bodyRecorder) WriteHeader(code int) {
	b.status = code
	b.ResponseWriter.WriteHeader(code)
}

func (b *bodyRecorder) Write(p []byte) (int, error) {
	b.body.Write(p)
	return b.ResponseWriter.Write(p)
}
