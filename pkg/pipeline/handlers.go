package pipeline

import (
	"io"
	"net/http"
	"net/url"
	"strings"

	fcerrors "github.com/feedcheck/feedcheck/pkg/errors"
	"github.com/feedcheck/feedcheck/pkg/serializer"
	"github.com/feedcheck/feedcheck/pkg/server"
)

// HandleValidateFile handles POST /v1/validate/file: a multipart upload with
// a "file" part plus optional "delimiter" and "encoding" form fields.
func (p *Pipeline) HandleValidateFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		server.WriteError(w, r, http.StatusMethodNotAllowed,
			fcerrors.ErrCodeMethodNotAllowed, "method not allowed", false, nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, p.maxUploadBytes)
	if err := r.ParseMultipartForm(p.maxUploadBytes); err != nil {
		server.WriteErrorFromErr(w, r,
			fcerrors.Wrap(fcerrors.ErrCodeInvalidRequest, "failed to parse multipart upload", err),
			"failed to parse multipart upload", nil)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		server.WriteErrorFromErr(w, r,
			fcerrors.Wrap(fcerrors.ErrCodeInvalidRequest, `missing "file" upload`, err),
			`missing "file" upload`, nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		server.WriteErrorFromErr(w, r,
			fcerrors.Wrap(fcerrors.ErrCodeInvalidRequest, "failed to read upload", err),
			"failed to read upload", nil)
		return
	}

	result, err := p.ValidateBytes(r.Context(), data, r.FormValue("delimiter"), r.FormValue("encoding"))
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "validation failed", nil)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, result)
}

// HandleValidateURL handles POST /v1/validate/url: fetches the feed named by
// the "feed_url" form field and validates it. Fetch failures map to a 400,
// never to validation issues.
func (p *Pipeline) HandleValidateURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		server.WriteError(w, r, http.StatusMethodNotAllowed,
			fcerrors.ErrCodeMethodNotAllowed, "method not allowed", false, nil)
		return
	}

	feedURL := strings.TrimSpace(r.FormValue("feed_url"))
	if feedURL == "" {
		server.WriteError(w, r, http.StatusBadRequest,
			fcerrors.ErrCodeInvalidRequest, `"feed_url" form field is required`, false, nil)
		return
	}
	if unescaped, err := url.QueryUnescape(feedURL); err == nil {
		feedURL = unescaped
	}

	data, err := p.fetch(r, feedURL)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "failed to fetch feed URL", nil)
		return
	}

	result, err := p.ValidateBytes(r.Context(), data, r.FormValue("delimiter"), r.FormValue("encoding"))
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "validation failed", nil)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, result)
}

// fetch downloads the remote feed, bounded by the upload size cap.
func (p *Pipeline) fetch(r *http.Request, feedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fcerrors.WrapWithContext(fcerrors.ErrCodeInvalidRequest,
			"invalid feed URL", err, map[string]any{"feed_url": feedURL})
	}
	req.Header.Set("Accept", "*/*")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fcerrors.WrapWithContext(fcerrors.ErrCodeInvalidRequest,
			"failed to fetch feed URL", err, map[string]any{"feed_url": feedURL})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fcerrors.Newf(fcerrors.ErrCodeInvalidRequest,
			"feed URL returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, p.maxUploadBytes+1))
	if err != nil {
		return nil, fcerrors.Wrap(fcerrors.ErrCodeInvalidRequest, "failed to read feed body", err)
	}
	if int64(len(data)) > p.maxUploadBytes {
		return nil, fcerrors.Newf(fcerrors.ErrCodeInvalidRequest,
			"feed exceeds maximum size of %d bytes", p.maxUploadBytes)
	}
	return data, nil
}

// Routes returns the handler map to register with the server.
func (p *Pipeline) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/validate/file": p.HandleValidateFile,
		"/v1/validate/url":  p.HandleValidateURL,
	}
}
