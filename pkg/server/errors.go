package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	fcerrors "github.com/feedcheck/feedcheck/pkg/errors"
	"github.com/feedcheck/feedcheck/pkg/serializer"
)

// ErrorResponse is the wire shape for request-level failures. Validation
// findings never travel through this path; only boundary failures (decode,
// fetch, transport) do.
type ErrorResponse struct {
	Code      string         `json:"code" yaml:"code"`
	Message   string         `json:"message" yaml:"message"`
	Details   map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	RequestID string         `json:"requestId" yaml:"requestId"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
	Retryable bool           `json:"retryable" yaml:"retryable"`
}

// HTTPStatusFromCode maps a structured error code to an HTTP status.
func HTTPStatusFromCode(code fcerrors.ErrorCode) int {
	switch code {
	case fcerrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case fcerrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case fcerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case fcerrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case fcerrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case fcerrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case fcerrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// retryableFromCode reports whether a client may reasonably retry.
func retryableFromCode(code fcerrors.ErrorCode) bool {
	switch code {
	case fcerrors.ErrCodeRateLimitExceeded,
		fcerrors.ErrCodeTimeout,
		fcerrors.ErrCodeUnavailable,
		fcerrors.ErrCodeInternal:
		return true
	default:
		return false
	}
}

// mergeDetails combines two detail maps; the second wins on key collisions.
// Returns nil when both are empty so the field is omitted from responses.
func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// WriteError writes an ErrorResponse with the given status and code.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code fcerrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID := RequestIDFrom(r.Context())
	if requestID == "" {
		requestID = uuid.New().String()
	}

	errResp := ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	}

	serializer.RespondJSON(w, statusCode, errResp)
}

// WriteErrorFromErr maps err onto an ErrorResponse. Structured errors keep
// their code, message, and context; anything else becomes an internal error
// with the fallback message.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error, fallback string, details map[string]any) {
	var se *fcerrors.StructuredError
	if errors.As(err, &se) {
		merged := mergeDetails(se.Context, details)
		if se.Cause != nil {
			if merged == nil {
				merged = make(map[string]any, 1)
			}
			merged["error"] = se.Cause.Error()
		}
		WriteError(w, r, HTTPStatusFromCode(se.Code), se.Code, se.Message,
			retryableFromCode(se.Code), merged)
		return
	}

	merged := mergeDetails(details, map[string]any{"error": err.Error()})
	WriteError(w, r, http.StatusInternalServerError, fcerrors.ErrCodeInternal,
		fallback, retryableFromCode(fcerrors.ErrCodeInternal), merged)
}
