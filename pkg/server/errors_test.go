package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	fcerrors "github.com/feedcheck/feedcheck/pkg/errors"
)

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		code fcerrors.ErrorCode
		want int
	}{
		{fcerrors.ErrCodeInvalidRequest, http.StatusBadRequest},
		{fcerrors.ErrCodeUnauthorized, http.StatusUnauthorized},
		{fcerrors.ErrCodeNotFound, http.StatusNotFound},
		{fcerrors.ErrCodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{fcerrors.ErrCodeRateLimitExceeded, http.StatusTooManyRequests},
		{fcerrors.ErrCodeUnavailable, http.StatusServiceUnavailable},
		{fcerrors.ErrCodeTimeout, http.StatusGatewayTimeout},
		{fcerrors.ErrCodeInternal, http.StatusInternalServerError},
		{fcerrors.ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatusFromCode(tt.code); got != tt.want {
			t.Errorf("HTTPStatusFromCode(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestRetryableFromCode(t *testing.T) {
	retryable := []fcerrors.ErrorCode{
		fcerrors.ErrCodeRateLimitExceeded,
		fcerrors.ErrCodeTimeout,
		fcerrors.ErrCodeUnavailable,
		fcerrors.ErrCodeInternal,
	}
	for _, code := range retryable {
		if !retryableFromCode(code) {
			t.Errorf("%q should be retryable", code)
		}
	}

	for _, code := range []fcerrors.ErrorCode{
		fcerrors.ErrCodeInvalidRequest,
		fcerrors.ErrCodeNotFound,
		fcerrors.ErrCodeUnauthorized,
	} {
		if retryableFromCode(code) {
			t.Errorf("%q should not be retryable", code)
		}
	}
}

func TestMergeDetails(t *testing.T) {
	if got := mergeDetails(nil, nil); got != nil {
		t.Errorf("mergeDetails(nil, nil) = %v, want nil", got)
	}
	if got := mergeDetails(map[string]any{}, nil); got != nil {
		t.Errorf("merge of empty maps = %v, want nil", got)
	}

	got := mergeDetails(map[string]any{"a": 1, "k": "first"}, map[string]any{"k": "second", "b": 2})
	if got["a"] != 1 || got["b"] != 2 {
		t.Errorf("merged = %v", got)
	}
	if got["k"] != "second" {
		t.Errorf("second map should win on collision, got %v", got["k"])
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/validate/file", nil)

	WriteError(rec, req, http.StatusBadRequest, fcerrors.ErrCodeInvalidRequest,
		"bad payload", false, map[string]any{"field": "file"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Code != string(fcerrors.ErrCodeInvalidRequest) {
		t.Errorf("code = %q", resp.Code)
	}
	if resp.Message != "bad payload" {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.RequestID == "" {
		t.Error("request id should be generated when absent from context")
	}
	if resp.Retryable {
		t.Error("retryable should be false")
	}
	if resp.Details["field"] != "file" {
		t.Errorf("details = %v", resp.Details)
	}
}

func TestWriteErrorFromErr_StructuredError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/validate/url", nil)

	cause := errors.New("connection refused")
	err := fcerrors.WrapWithContext(fcerrors.ErrCodeUnavailable,
		"upstream fetch failed", cause, map[string]any{"feed_url": "https://x.example/feed.csv"})

	WriteErrorFromErr(rec, req, err, "unused fallback", nil)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Code != string(fcerrors.ErrCodeUnavailable) {
		t.Errorf("code = %q", resp.Code)
	}
	if resp.Message != "upstream fetch failed" {
		t.Errorf("message = %q, fallback must not replace a structured message", resp.Message)
	}
	if !resp.Retryable {
		t.Error("unavailable should be retryable")
	}
	if resp.Details["feed_url"] != "https://x.example/feed.csv" {
		t.Errorf("context lost: %v", resp.Details)
	}
	if resp.Details["error"] != "connection refused" {
		t.Errorf("cause lost: %v", resp.Details)
	}
}

func TestWriteErrorFromErr_PlainError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteErrorFromErr(rec, req, errors.New("boom"), "something went wrong", nil)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Code != string(fcerrors.ErrCodeInternal) {
		t.Errorf("code = %q", resp.Code)
	}
	if resp.Message != "something went wrong" {
		t.Errorf("message = %q, want fallback", resp.Message)
	}
	if resp.Details["error"] != "boom" {
		t.Errorf("details = %v", resp.Details)
	}
}
