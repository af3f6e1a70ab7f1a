package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"2xx logs at info", http.StatusOK, "INFO"},
		{"4xx logs at warn", http.StatusUnauthorized, "WARN"},
		{"5xx logs at error", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			handler := Logger(logger)(http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
				}))

			req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			out := buf.String()
			if !strings.Contains(out, "level="+tt.wantLevel) {
				t.Errorf("log output %q missing level %s", out, tt.wantLevel)
			}
			if !strings.Contains(out, "path=/api/user") {
				t.Errorf("log output %q missing path", out)
			}
		})
	}
}

func TestResponseWriterDefaultsTo200(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := wrapResponseWriter(rec)

	if _, err := rw.Write([]byte("ok")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if rw.status != http.StatusOK {
		t.Errorf("status = %d, want 200", rw.status)
	}
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	t.Parallel()

	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected a generated request id in context")
	}
	if got := rec.Header().Get(RequestIDHeader); got != seen {
		t.Errorf("header id %q != context id %q", got, seen)
	}

	// A caller-provided id is propagated unchanged.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "fixed-id" {
		t.Errorf("propagated id = %q, want fixed-id", seen)
	}
}
