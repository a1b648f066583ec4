package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkghttp "github.com/BradenHooton/dashboard/pkg/http"
)

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, nil)), &buf
}

func TestRequestLogger_RedactsSearch(t *testing.T) {
	logger, buf := captureLogger()
	handler := RequestLogger(logger, nil)(okHandler())

	req := httptest.NewRequest("GET", "/api/directory/users?search=leanne@april.biz&page=1", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	if strings.Contains(out, "leanne") {
		t.Errorf("search text leaked into log: %s", out)
	}
	if !strings.Contains(out, "?[REDACTED]") {
		t.Errorf("expected redacted marker, got %s", out)
	}
}

func TestRequestLogger_Fields(t *testing.T) {
	logger, buf := captureLogger()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{}`))
	})
	config := &pkghttp.IPConfig{TrustedProxies: []string{"10.0.0.0/8"}}
	handler := RequestLogger(logger, config)(next)

	req := httptest.NewRequest("GET", "/api/reports?range=7d", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	req.Header.Set("X-Forwarded-For", "198.51.100.7")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}

	if entry["level"] != "ERROR" {
		t.Errorf("level: got %v, want ERROR", entry["level"])
	}
	if entry["path"] != "/api/reports?range=7d" {
		t.Errorf("path: got %v", entry["path"])
	}
	if entry["status"] != float64(503) {
		t.Errorf("status: got %v", entry["status"])
	}
	if entry["client_ip"] != "198.51.100.7" {
		t.Errorf("client_ip: got %v", entry["client_ip"])
	}
}
