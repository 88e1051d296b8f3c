package services

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/dmitrijs2005/bankclient/internal/client/auth"
	"github.com/dmitrijs2005/bankclient/internal/client/gateway"
	"github.com/stretchr/testify/require"
)

// seen is one request received by the stub backend.
type seen struct {
	Method string
	Path   string
	Query  url.Values
	Body   string
	Auth   string
}

// stub answers every request with a fixed status and body and records it.
type stub struct {
	mu     sync.Mutex
	status int
	body   string
	reqs   []seen
}

func (s *stub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reqs = append(s.reqs, seen{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Body:   string(b),
		Auth:   r.Header.Get("Authorization"),
	})
	w.WriteHeader(s.status)
	_, _ = io.WriteString(w, s.body)
}

func (s *stub) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reqs)
}

func (s *stub) last() seen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reqs[len(s.reqs)-1]
}

// newAPI returns a signed-in gateway talking to a stub answering status/body.
func newAPI(t *testing.T, status int, body string) (*gateway.Gateway, *stub) {
	t.Helper()
	st := &stub{status: status, body: body}
	srv := httptest.NewServer(st)
	t.Cleanup(srv.Close)

	gw := gateway.New(srv.URL, auth.Basic{})
	gw.SetCredential(auth.EncodeBasic("foo@bank.test", "secret"))
	return gw, st
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
