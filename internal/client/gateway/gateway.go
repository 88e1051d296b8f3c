// Package gateway is the single HTTP client used to talk to the banking
// backend.
//
// Every request passes through an explicit middleware chain:
//
//	RequestID -> Logging -> Metrics -> credentials -> unauthorized -> transport
//
// credentials attaches "Authorization: <prefix> <credential>" and fails
// locally with ErrTokenExpired when the Authorizer reports the credential as
// expired. unauthorized watches for 401 responses. Both paths clear the
// credential and call the OnUnauthorized hooks exactly once per credential:
// concurrent failures on the same credential collapse into one cleanup, and
// a late 401 for an old credential never touches a newer one.
//
// Failures are returned as *APIError. Use errors.Is with ErrUnauthorized,
// ErrUnavailable, ErrTokenExpired or ErrUnexpectedStatus to classify them.
// The gateway never retries.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/bankclient/internal/client/metrics"
	"github.com/dmitrijs2005/bankclient/internal/logging"
)

const maxBodySize = 4 << 20

// Authorizer decides how a credential is presented and whether it is still
// worth sending. Auth schemes implement it.
type Authorizer interface {
	Prefix() string
	Expired(credential string) bool
}

// UnauthorizedFunc is called after the gateway dropped its credential.
// cause is ErrUnauthorized or ErrTokenExpired.
type UnauthorizedFunc func(ctx context.Context, cause error)

type Gateway struct {
	baseURL string
	authz   Authorizer
	client  *http.Client
	log     logging.Logger
	metrics *metrics.Metrics

	transport http.RoundTripper
	timeout   time.Duration

	mu         sync.Mutex
	credential string
	generation uint64
	hooks      []UnauthorizedFunc
}

type Option func(*Gateway)

// WithTransport replaces the network transport (tests inject fakes here).
func WithTransport(rt http.RoundTripper) Option {
	return func(g *Gateway) { g.transport = rt }
}

func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(g *Gateway) { g.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

func New(baseURL string, authz Authorizer, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL:   strings.TrimRight(baseURL, "/"),
		authz:     authz,
		log:       logging.Nop(),
		transport: http.DefaultTransport,
		timeout:   15 * time.Second,
	}
	for _, opt := range opts {
		opt(g)
	}

	g.client = &http.Client{
		Timeout: g.timeout,
		Transport: Chain(g.transport,
			RequestID(),
			Logging(g.log),
			Metrics(g.metrics),
			g.credentials(),
			g.unauthorized(),
		),
	}
	return g
}

func (g *Gateway) SetCredential(cred string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.credential = cred
	g.generation++
}

func (g *Gateway) ClearCredential() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.credential != "" {
		g.credential = ""
		g.generation++
	}
}

func (g *Gateway) Credential() string {
	cred, _ := g.current()
	return cred
}

// OnUnauthorized registers a hook run when the credential is invalidated.
func (g *Gateway) OnUnauthorized(fn UnauthorizedFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hooks = append(g.hooks, fn)
}

func (g *Gateway) current() (string, uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.credential, g.generation
}

func (g *Gateway) invalidate(ctx context.Context, gen uint64, cause error) {
	g.mu.Lock()
	if g.credential == "" || g.generation != gen {
		g.mu.Unlock()
		return
	}
	g.credential = ""
	g.generation++
	hooks := append([]UnauthorizedFunc(nil), g.hooks...)
	g.mu.Unlock()

	g.log.Warn(ctx, "credential invalidated", "cause", cause)
	g.metrics.ObserveCleanup()
	for _, fn := range hooks {
		fn(ctx, cause)
	}
}

type requestOptions struct {
	header       http.Header
	query        url.Values
	noCredential bool
}

type RequestOption func(*requestOptions)

func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) { o.header.Set(key, value) }
}

func WithQuery(key, value string) RequestOption {
	return func(o *requestOptions) { o.query.Set(key, value) }
}

// WithoutCredential sends the request without an Authorization header.
func WithoutCredential() RequestOption {
	return func(o *requestOptions) { o.noCredential = true }
}

func (g *Gateway) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return g.Do(ctx, http.MethodGet, path, nil, opts...)
}

func (g *Gateway) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return g.Do(ctx, http.MethodPost, path, body, opts...)
}

func (g *Gateway) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return g.Do(ctx, http.MethodPut, path, body, opts...)
}

func (g *Gateway) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return g.Do(ctx, http.MethodDelete, path, nil, opts...)
}

// Do sends one request. body is JSON-encoded unless it is []byte or nil.
func (g *Gateway) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	ro := requestOptions{header: http.Header{}, query: url.Values{}}
	for _, opt := range opts {
		opt(&ro)
	}

	target, err := g.resolve(path, ro.query)
	if err != nil {
		return nil, &APIError{Method: method, Path: path, Err: err}
	}

	payload, err := encodeBody(body)
	if err != nil {
		return nil, &APIError{Method: method, Path: path, Err: fmt.Errorf("encode body: %w", err)}
	}

	if ro.noCredential {
		ctx = withoutCredential(ctx)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, &APIError{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range ro.header {
		req.Header[k] = vs
	}

	resp, err := g.client.Do(req)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, &APIError{Method: method, Path: path, Err: fmt.Errorf("%w: %w", ErrUnauthorized, ErrTokenExpired)}
		}
		return nil, &APIError{Method: method, Path: path, Err: fmt.Errorf("%w: %w", ErrUnavailable, err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %w", ErrMalformedResponse, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(method, path, resp.StatusCode, data)
	}
	return &Response{Method: method, Path: path, StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func (g *Gateway) resolve(path string, query url.Values) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u, err := url.Parse(g.baseURL + path)
	if err != nil {
		return "", err
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Set(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bytes.NewReader(b), nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(data), nil
	}
}
