package session

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/bankclient/internal/client/gateway"
	"github.com/dmitrijs2005/bankclient/internal/client/models"
	"github.com/dmitrijs2005/bankclient/internal/common"
)

type Reason string

const (
	ReasonNone               Reason = ""
	ReasonEmailNotVerified   Reason = "email_not_verified"
	ReasonInvalidCredentials Reason = "invalid_credentials"
	ReasonInvalidInput       Reason = "invalid_input"
	ReasonLoginFailed        Reason = "login_failed"
	ReasonRegistrationFailed Reason = "registration_failed"
)

// Result is what Login and Register report. Error is safe to show to the user.
type Result struct {
	Success bool
	User    *models.User
	IsAdmin bool
	Data    []byte
	Error   string
	Reason  Reason
}

func classifyLogin(err error) (Reason, string, string) {
	msg := gateway.MessageOf(err)
	switch {
	case strings.Contains(strings.ToLower(msg), "not verified"):
		return ReasonEmailNotVerified, "Email not verified", msgEmailNotVerified
	case errors.Is(err, common.ErrValidation):
		return ReasonInvalidInput, msgInvalidLogin, msgInvalidLogin
	case errors.Is(err, gateway.ErrTokenExpired):
		return ReasonLoginFailed, msgLoginFailed, msgLoginFailed
	case errors.Is(err, gateway.ErrUnauthorized):
		return ReasonInvalidCredentials, msgInvalidLogin, msgInvalidLogin
	default:
		return ReasonLoginFailed, msgLoginFailed, msgLoginFailed
	}
}
