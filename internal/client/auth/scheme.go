// Package auth holds the interchangeable credential schemes of the client.
//
// A Scheme knows how to turn an identifier and a secret into a credential,
// how that credential is presented to the backend, and whether it can
// expire on the client side. The session layer talks only to this
// interface, so switching between Basic and Bearer is a configuration
// choice rather than a branch at every call site.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bankclient/internal/client/gateway"
)

// Exchanger is the part of the gateway a scheme needs to obtain a token.
type Exchanger interface {
	Post(ctx context.Context, path string, body any, opts ...gateway.RequestOption) (*gateway.Response, error)
}

type Scheme interface {
	gateway.Authorizer

	Name() string
	// Acquire builds the credential, possibly by exchanging the inputs
	// with the backend.
	Acquire(ctx context.Context, ex Exchanger, identifier, secret string) (string, error)
	// WatchesExpiry reports whether credentials of this scheme need the
	// periodic expiry watch.
	WatchesExpiry() bool
}

const (
	NameBasic  = "basic"
	NameBearer = "bearer"
)

// FromName returns the scheme configured by name ("basic", "bearer"/"jwt").
func FromName(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameBasic:
		return Basic{}, nil
	case NameBearer, "jwt", "":
		return NewBearer(), nil
	default:
		return nil, fmt.Errorf("unknown auth scheme %q", name)
	}
}
