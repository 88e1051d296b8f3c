package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/bankclient/internal/common"
)

var (
	ErrUnavailable       = errors.New("server unavailable")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrTokenExpired      = common.ErrTokenExpired
	ErrUnexpectedStatus  = errors.New("unexpected status")
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError is the structured failure returned for every unsuccessful call.
// StatusCode is 0 when no response was received.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", e.Method, e.Path)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	} else if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Reason is the text to show a user: the backend message when present,
// otherwise the error itself.
func (e *APIError) Reason() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error()
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// MessageOf returns the backend message carried by err, or "".
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

func statusError(method, path string, code int, body []byte) *APIError {
	e := &APIError{
		Method:     method,
		Path:       path,
		StatusCode: code,
		Body:       body,
		Message:    extractMessage(body),
	}
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		e.Err = ErrUnauthorized
	default:
		e.Err = ErrUnexpectedStatus
	}
	return e
}

// extractMessage understands the backend error shapes: an ErrorResponse /
// ApiResponse object with a "message" field, a bare JSON string, or text.
func extractMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var obj struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &obj) == nil && (obj.Message != "" || obj.Error != "") {
		if obj.Message != "" {
			return obj.Message
		}
		return obj.Error
	}

	var s string
	if json.Unmarshal(body, &s) == nil {
		return s
	}

	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return ""
	}
	return trimmed
}
