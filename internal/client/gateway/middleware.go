package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/bankclient/internal/client/metrics"
	"github.com/dmitrijs2005/bankclient/internal/common"
	"github.com/dmitrijs2005/bankclient/internal/logging"
	"github.com/google/uuid"
)

// Middleware decorates a RoundTripper. Middlewares are composed with Chain;
// the first one listed sees the request first.
type Middleware func(next http.RoundTripper) http.RoundTripper

type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	rt := base
	for i := len(mws) - 1; i >= 0; i-- {
		rt = mws[i](rt)
	}
	return rt
}

type ctxKey int

const (
	skipCredentialKey ctxKey = iota
	generationKey
)

func withoutCredential(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipCredentialKey, true)
}

func credentialSkipped(ctx context.Context) bool {
	v, _ := ctx.Value(skipCredentialKey).(bool)
	return v
}

// attachedGeneration returns the credential generation a request was sent with.
func attachedGeneration(ctx context.Context) (uint64, bool) {
	v, ok := ctx.Value(generationKey).(uint64)
	return v, ok
}

// RequestID sets X-Request-ID on requests that do not carry one.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(common.RequestIDHeader) != "" {
				return next.RoundTrip(req)
			}
			r := req.Clone(req.Context())
			r.Header.Set(common.RequestIDHeader, uuid.NewString())
			return next.RoundTrip(r)
		})
	}
}

// Logging logs each exchange at debug level. Headers are never logged.
func Logging(log logging.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)

			args := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"request_id", req.Header.Get(common.RequestIDHeader),
				"duration", time.Since(start),
			}
			if err != nil {
				log.Debug(req.Context(), "request failed", append(args, "error", err)...)
				return nil, err
			}
			log.Debug(req.Context(), "request completed", append(args, "status", resp.StatusCode)...)
			return resp, nil
		})
	}
}

// Metrics counts requests by method and status code.
func Metrics(m *metrics.Metrics) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(req)
			code := 0
			if resp != nil {
				code = resp.StatusCode
			}
			m.ObserveRequest(req.Method, code)
			return resp, err
		})
	}
}

// credentials attaches the current credential. An expired bearer token is
// never sent: the request fails locally and the session is invalidated.
func (g *Gateway) credentials() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			ctx := req.Context()
			if credentialSkipped(ctx) {
				return next.RoundTrip(req)
			}

			cred, gen := g.current()
			if cred == "" {
				return next.RoundTrip(req)
			}

			if g.authz.Expired(cred) {
				g.invalidate(ctx, gen, ErrTokenExpired)
				return nil, ErrTokenExpired
			}

			r := req.Clone(context.WithValue(ctx, generationKey, gen))
			r.Header.Set(common.AuthorizationHeader, g.authz.Prefix()+" "+cred)
			return next.RoundTrip(r)
		})
	}
}

// unauthorized invalidates the credential a request was sent with when the
// backend answers 401. Later 401s for the same credential are no-ops.
func (g *Gateway) unauthorized() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(req)
			if err != nil || resp.StatusCode != http.StatusUnauthorized {
				return resp, err
			}
			if gen, ok := attachedGeneration(req.Context()); ok {
				g.invalidate(req.Context(), gen, ErrUnauthorized)
			}
			return resp, nil
		})
	}
}
