package auth

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bankclient/internal/client/gateway"
	"github.com/dmitrijs2005/bankclient/internal/client/tokens"
	"github.com/dmitrijs2005/bankclient/internal/common"
)

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Bearer exchanges the login inputs for a JWT at POST /authenticate and
// sends it as "Bearer <token>". Expiry is read from the token claims.
type Bearer struct {
	Codec tokens.Codec
}

func NewBearer() Bearer {
	return Bearer{}
}

func (Bearer) Name() string        { return NameBearer }
func (Bearer) Prefix() string      { return "Bearer" }
func (Bearer) WatchesExpiry() bool { return true }

func (b Bearer) Expired(credential string) bool {
	return b.Codec.IsExpired(credential)
}

func (b Bearer) Acquire(ctx context.Context, ex Exchanger, identifier, secret string) (string, error) {
	if identifier == "" || secret == "" {
		return "", fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}

	resp, err := ex.Post(ctx, common.AuthenticatePath,
		authRequest{Username: identifier, Password: secret}, gateway.WithoutCredential())
	if err != nil {
		return "", fmt.Errorf("authenticate: %w", err)
	}

	token := resp.Text()
	if _, ok := tokens.Decode(token); !ok {
		return "", fmt.Errorf("authenticate: %w: %w", gateway.ErrMalformedResponse, common.ErrInvalidToken)
	}
	return token, nil
}
