package httputils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/IgorGrieder/short-links/internal/constants"
	"github.com/IgorGrieder/short-links/internal/infrastructure/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWriteAPIError(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/abc", nil)
	w := httptest.NewRecorder()

	id := WriteAPIError(w, r, constants.ErrLinkNotFound)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if got := w.Header().Get(CorrelationIDHeader); got == "" || got != id {
		t.Errorf("expected correlation header %q, got %q", id, got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 1 || body["error"] != "Link not found" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestGetCorrelationID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(CorrelationIDHeader, "req-123")
	if got := GetCorrelationID(r); got != "req-123" {
		t.Errorf("expected incoming id to be kept, got %q", got)
	}

	r.Header.Del(CorrelationIDHeader)
	if got := GetCorrelationID(r); len(got) != 36 {
		t.Errorf("expected generated uuid, got %q", got)
	}
}

func TestWriteAPISuccess_RawBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/links", nil)
	w := httptest.NewRecorder()

	WriteAPISuccess(w, r, constants.SuccessLinkCreated, map[string]int64{"shortLinkId": 7})

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if got := w.Body.String(); got != "{\"shortLinkId\":7}\n" {
		t.Errorf("unexpected body %q", got)
	}
}

func TestWriters_LogCodes(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = prev })

	r := httptest.NewRequest(http.MethodPost, "/api/links", nil)
	r.Header.Set(CorrelationIDHeader, "req-1")
	WriteAPIError(httptest.NewRecorder(), r, constants.ErrCodeInUse)
	WriteAPISuccess(httptest.NewRecorder(), r, constants.SuccessLinkCreated, nil)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	tests := []struct {
		code   string
		status int64
	}{
		{constants.CodeCodeInUse, http.StatusBadRequest},
		{constants.CodeLinkCreated, http.StatusCreated},
	}
	for i, tt := range tests {
		fields := entries[i].ContextMap()
		if fields["code"] != tt.code || fields["status"] != tt.status || fields["correlation_id"] != "req-1" {
			t.Errorf("entry %d fields = %v", i, fields)
		}
	}
}
