// Package tokens inspects bearer tokens on the client.
//
// Tokens are decoded WITHOUT signature verification: the claims are trusted
// only for user experience decisions (expiry warnings, skipping requests
// that would certainly be rejected). The backend remains the only authority
// on token validity.
//
// Every helper is fail-closed: a token that cannot be decoded, or that
// carries no "exp" claim, is reported as expired.
package tokens

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded payload of a bearer token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
	HasExpiry bool
	Raw       jwt.MapClaims
}

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// Decode splits token into its three segments and decodes the payload.
// It returns false on any failure and never panics.
func Decode(token string) (*Claims, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, false
	}

	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return nil, false
	}

	var raw jwt.MapClaims
	if err := json.Unmarshal(payload, &raw); err != nil || raw == nil {
		return nil, false
	}

	c := &Claims{Raw: raw}
	if sub, err := raw.GetSubject(); err == nil {
		c.Subject = sub
	}
	if exp, err := raw.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
		c.HasExpiry = true
	}
	return c, true
}

// Codec evaluates token expiry against a clock.
// The zero value uses time.Now.
type Codec struct {
	Now func() time.Time
}

func (c Codec) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// IsExpired reports whether token is past its expiry, undecodable, or has
// no expiry at all.
func (c Codec) IsExpired(token string) bool {
	claims, ok := Decode(token)
	if !ok || !claims.HasExpiry {
		return true
	}
	return claims.ExpiresAt.Before(c.now())
}

// ExpiresWithin reports whether token expires within window from now.
// Undecodable tokens always do.
func (c Codec) ExpiresWithin(token string, window time.Duration) bool {
	return c.TimeUntilExpiry(token) <= window
}

// TimeUntilExpiry returns the remaining lifetime, clamped at zero.
func (c Codec) TimeUntilExpiry(token string) time.Duration {
	exp, ok := c.ExpiresAt(token)
	if !ok {
		return 0
	}
	if left := exp.Sub(c.now()); left > 0 {
		return left
	}
	return 0
}

// ExpiresAt returns the expiry instant, if the token carries one.
func (c Codec) ExpiresAt(token string) (time.Time, bool) {
	claims, ok := Decode(token)
	if !ok || !claims.HasExpiry {
		return time.Time{}, false
	}
	return claims.ExpiresAt, true
}

// Subject returns the "sub" claim or "".
func (c Codec) Subject(token string) string {
	claims, ok := Decode(token)
	if !ok {
		return ""
	}
	return claims.Subject
}

func IsExpired(token string) bool {
	return Codec{}.IsExpired(token)
}

func ExpiresWithin(token string, window time.Duration) bool {
	return Codec{}.ExpiresWithin(token, window)
}

func Subject(token string) string {
	return Codec{}.Subject(token)
}
