// Package common contains constants and sentinel errors shared by the
// client packages.
package common

// AuthorizationHeader carries the scheme-prefixed credential on every
// outbound request.
const AuthorizationHeader = "Authorization"

// RequestIDHeader correlates client log lines with backend logs.
const RequestIDHeader = "X-Request-ID"

// Keys of the durable credential store. Both are written and cleared together.
const (
	CredentialKey   = "credential"
	UserSnapshotKey = "user"
)

// Client-side locations the session layer may redirect to.
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
	AdminPath     = "/admin"
)

// Backend endpoints used by the session core.
const (
	ProfilePath      = "/user/dashboard"
	AuthenticatePath = "/authenticate"
	SignupPath       = "/api/signup"
)
