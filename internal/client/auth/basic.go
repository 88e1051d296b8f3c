package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bankclient/internal/common"
)

// Basic sends base64(identifier:secret) on every request. The credential
// never expires locally; the backend rejects it with 401 when it stops
// being valid.
type Basic struct{}

func (Basic) Name() string                   { return NameBasic }
func (Basic) Prefix() string                 { return "Basic" }
func (Basic) Expired(credential string) bool { return credential == "" }
func (Basic) WatchesExpiry() bool            { return false }

func (Basic) Acquire(_ context.Context, _ Exchanger, identifier, secret string) (string, error) {
	if identifier == "" || secret == "" {
		return "", fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}
	if strings.Contains(identifier, ":") {
		return "", fmt.Errorf("%w: email must not contain ':'", common.ErrValidation)
	}
	return EncodeBasic(identifier, secret), nil
}

func EncodeBasic(identifier, secret string) string {
	return base64.StdEncoding.EncodeToString([]byte(identifier + ":" + secret))
}
