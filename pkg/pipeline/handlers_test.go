package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/feedcheck/feedcheck/pkg/validator"
)

const validCSV = "enable_search,enable_checkout,id,title,description,link,image_link," +
	"product_category,brand,material,weight,price,availability,inventory_quantity," +
	"seller_name,seller_url,return_policy,return_window\n" +
	"false,false,SKU1,Comfy Chair,A chair you can sit on.,https://example.com/p/1," +
	"https://example.com/i/1.jpg,Home > Furniture,Acme,oak,4.5 kg,79.99 USD,in_stock,10," +
	"Acme Store,https://example.com,https://example.com/returns,30\n"

func newTestPipeline(t *testing.T, opts ...PipelineOption) *Pipeline {
	t.Helper()
	p, err := New(context.Background(), validator.WithNow(func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	}))
	if err != nil {
		t.Fatalf("failed to build pipeline: %v", err)
	}
	return p.Apply(opts...)
}

func multipartBody(t *testing.T, fields map[string]string, fileContent string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if fileContent != "" {
		fw, err := mw.CreateFormFile("file", "feed.csv")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte(fileContent)); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestHandleValidateFile(t *testing.T) {
	p := newTestPipeline(t)

	body, contentType := multipartBody(t, nil, validCSV)
	req := httptest.NewRequest(http.MethodPost, "/v1/validate/file", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	p.HandleValidateFile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result validator.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result.Summary.ItemsTotal != 1 {
		t.Errorf("items_total = %d, want 1", result.Summary.ItemsTotal)
	}
	if result.Summary.PassRate != 1.0 {
		t.Errorf("pass_rate = %v, want 1.0", result.Summary.PassRate)
	}
	for _, issue := range result.Issues {
		if issue.Severity != validator.SeverityOpportunity {
			t.Errorf("unexpected record-scoped issue: %+v", issue)
		}
	}
}

func TestHandleValidateFile_MethodNotAllowed(t *testing.T) {
	p := newTestPipeline(t)

	rec := httptest.NewRecorder()
	p.HandleValidateFile(rec, httptest.NewRequest(http.MethodGet, "/v1/validate/file", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestHandleValidateFile_MissingFilePart(t *testing.T) {
	p := newTestPipeline(t)

	body, contentType := multipartBody(t, map[string]string{"delimiter": ","}, "")
	req := httptest.NewRequest(http.MethodPost, "/v1/validate/file", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	p.HandleValidateFile(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleValidateFile_BadEncoding(t *testing.T) {
	p := newTestPipeline(t)

	body, contentType := multipartBody(t, map[string]string{"encoding": "klingon-8"}, validCSV)
	req := httptest.NewRequest(http.MethodPost, "/v1/validate/file", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	p.HandleValidateFile(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleValidateURL(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(validCSV))
	}))
	defer backend.Close()

	p := newTestPipeline(t)

	form := strings.NewReader("feed_url=" + backend.URL)
	req := httptest.NewRequest(http.MethodPost, "/v1/validate/url", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	p.HandleValidateURL(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result validator.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result.Summary.ItemsTotal != 1 {
		t.Errorf("items_total = %d, want 1", result.Summary.ItemsTotal)
	}
}

func TestHandleValidateURL_MissingURL(t *testing.T) {
	p := newTestPipeline(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/validate/url", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	p.HandleValidateURL(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleValidateURL_UpstreamFailure(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer backend.Close()

	p := newTestPipeline(t)

	form := strings.NewReader("feed_url=" + backend.URL)
	req := httptest.NewRequest(http.MethodPost, "/v1/validate/url", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	p.HandleValidateURL(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for upstream failure", rec.Code)
	}
}

func TestHandleValidateURL_OversizedFeed(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte("a"), 128))
	}))
	defer backend.Close()

	p := newTestPipeline(t, WithMaxUploadBytes(64))

	form := strings.NewReader("feed_url=" + backend.URL)
	req := httptest.NewRequest(http.MethodPost, "/v1/validate/url", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	p.HandleValidateURL(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for oversized feed", rec.Code)
	}
}

func TestRoutes(t *testing.T) {
	p := newTestPipeline(t)

	routes := p.Routes()
	for _, path := range []string{"/v1/validate/file", "/v1/validate/url"} {
		if routes[path] == nil {
			t.Errorf("missing route %q", path)
		}
	}
}
