package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Response is a successful (2xx) reply. Method and Path identify the
// request it answers.
type Response struct {
	Method     string
	Path       string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// DecodeJSON unmarshals the body into v. A body that does not decode is
// reported as an *APIError carrying the status and the raw body.
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &APIError{
			Method:     r.Method,
			Path:       r.Path,
			StatusCode: r.StatusCode,
			Body:       r.Body,
			Err:        fmt.Errorf("%w: %w", ErrMalformedResponse, err),
		}
	}
	return nil
}

// Text returns the body as a string, unquoting a JSON string body.
func (r *Response) Text() string {
	var s string
	if json.Unmarshal(r.Body, &s) == nil {
		return s
	}
	return strings.TrimSpace(string(r.Body))
}
