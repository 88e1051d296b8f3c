package shared

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomSecret(t *testing.T) {
	a, err := RandomSecret(16)
	require.NoError(t, err)
	b, err := RandomSecret(16)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	_, err = hex.DecodeString(string(a))
	assert.NoError(t, err)
}

func TestWipe(t *testing.T) {
	b := []byte("secret")
	Wipe(b)
	assert.Equal(t, make([]byte, 6), b)

	assert.NotPanics(t, func() { Wipe(nil) })
}
