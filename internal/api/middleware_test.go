package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("missing"))
	})
	h := RequestLogger(log)(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/accents/x", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if line["msg"] != "request complete" {
		t.Errorf("unexpected log message %v", line["msg"])
	}
	if line["status"] != float64(http.StatusNotFound) {
		t.Errorf("expected logged status 404, got %v", line["status"])
	}
	if line["bytes"] != float64(len("missing")) {
		t.Errorf("expected logged byte count, got %v", line["bytes"])
	}
	if line["path"] != "/api/accents/x" {
		t.Errorf("expected logged path, got %v", line["path"])
	}
	if _, ok := line["elapsed"]; !ok {
		t.Error("expected an elapsed field")
	}
}

func TestAuthMiddleware_ErrorBodies(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := AuthMiddleware("key", log)(ok)

	missing := httptest.NewRecorder()
	h.ServeHTTP(missing, httptest.NewRequest(http.MethodGet, "/", nil))
	if missing.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", missing.Code)
	}
	if !strings.Contains(missing.Body.String(), "missing bearer token") {
		t.Errorf("unexpected body %q", missing.Body.String())
	}

	bad := httptest.NewRequest(http.MethodGet, "/", nil)
	bad.Header.Set("Authorization", "Bearer nope")
	badRec := httptest.NewRecorder()
	h.ServeHTTP(badRec, bad)
	if badRec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", badRec.Code)
	}
	if !strings.Contains(badRec.Body.String(), "invalid api key") {
		t.Errorf("unexpected body %q", badRec.Body.String())
	}

	good := httptest.NewRequest(http.MethodGet, "/", nil)
	good.Header.Set("Authorization", "Bearer key")
	goodRec := httptest.NewRecorder()
	h.ServeHTTP(goodRec, good)
	if goodRec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 with valid key, got %d", goodRec.Code)
	}
}
