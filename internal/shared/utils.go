// Package shared holds small helpers for handling secret material.
package shared

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// RandomSecret returns n random bytes, hex encoded (so 2*n bytes long).
// The result is printable and can be used directly as an HMAC key.
func RandomSecret(n int) ([]byte, error) {
	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("read random: %w", err)
	}

	out := make([]byte, hex.EncodedLen(n))
	hex.Encode(out, raw)
	Wipe(raw)
	return out, nil
}

// Wipe zeroes b in place. Passwords read from the terminal are wiped once
// they have been sent. A nil slice is a no-op.
func Wipe(b []byte) {
	clear(b)
}
