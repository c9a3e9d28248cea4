package supabase

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apperrors "pustakbhandar/internal/errors"
)

// APIError is a non-2xx answer from the auth or REST endpoints.
type APIError struct {
	Status  int
	Code    string
	Message string
	kind    error
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase: %d: %s", e.Status, e.Message)
}

// Unwrap exposes the matching sentinel from internal/errors.
func (e *APIError) Unwrap() error {
	return e.kind
}

// errorBody covers both the GoTrue and the PostgREST error shapes.
type errorBody struct {
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
	Msg              string          `json:"msg"`
	Message          string          `json:"message"`
}

// endpoint tells decodeError which family of failure a 400 means.
type endpoint int

const (
	endpointData endpoint = iota
	endpointPassword
	endpointSignUp
	endpointSession
)

func decodeError(status int, body []byte, at endpoint) *APIError {
	var parsed errorBody
	_ = json.Unmarshal(body, &parsed)

	apiErr := &APIError{Status: status}
	apiErr.Code = firstNonEmpty(parsed.ErrorCode, codeString(parsed.Code), parsed.Error)
	apiErr.Message = firstNonEmpty(parsed.Message, parsed.Msg, parsed.ErrorDescription, parsed.Error, http.StatusText(status))
	apiErr.kind = classify(status, apiErr.Code, apiErr.Message, at)
	return apiErr
}

func classify(status int, code, message string, at endpoint) error {
	switch {
	case code == "PGRST116":
		return apperrors.ErrNotFound
	case code == "23503":
		// the referenced book or user row is gone
		return apperrors.ErrNotFound
	case code == "23505" || status == http.StatusConflict:
		return apperrors.ErrConflict
	case code == "user_already_exists" || code == "email_exists" ||
		(at == endpointSignUp && strings.Contains(strings.ToLower(message), "already registered")):
		return apperrors.ErrUserAlreadyExists
	case at == endpointPassword && (status == http.StatusBadRequest || code == "invalid_credentials"):
		return apperrors.ErrInvalidCredentials
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperrors.ErrUnauthorized
	case at == endpointSession && status == http.StatusBadRequest:
		return apperrors.ErrUnauthorized
	case status == http.StatusNotFound:
		return apperrors.ErrNotFound
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return apperrors.ErrUnavailable
	case status >= http.StatusBadRequest:
		return apperrors.ErrConflict
	default:
		return nil
	}
}

// codeString accepts both the string codes PostgREST sends and the numeric ones GoTrue sends.
func codeString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
