package session

import (
	"context"

	"github.com/dmitrijs2005/bankclient/internal/logging"
)

type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a user-facing, non-blocking message (what a web UI shows as a toast).
type Notice struct {
	Level   Level
	Message string
}

type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

type NotifierFunc func(ctx context.Context, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

// Navigator moves the UI to another location, e.g. the login screen.
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

type NavigatorFunc func(ctx context.Context, path string)

func (f NavigatorFunc) Navigate(ctx context.Context, path string) { f(ctx, path) }

type logNotifier struct {
	log logging.Logger
}

func (n logNotifier) Notify(ctx context.Context, notice Notice) {
	switch notice.Level {
	case LevelError:
		n.log.Error(ctx, notice.Message)
	case LevelWarning:
		n.log.Warn(ctx, notice.Message)
	default:
		n.log.Info(ctx, notice.Message)
	}
}

type nopNavigator struct{}

func (nopNavigator) Navigate(context.Context, string) {}

const (
	msgLoginOK          = "Login successful!"
	msgEmailNotVerified = "Please verify your email before logging in. Check your inbox for the verification link."
	msgInvalidLogin     = "Invalid email or password"
	msgLoginFailed      = "Login failed. Please try again."
	msgRegisterOK       = "Registration successful! Please check your email to verify your account before logging in."
	msgRegisterFailed   = "Registration failed. Please try again."
	msgLoggedOut        = "Logged out successfully"
	msgSessionExpired   = "Your session has expired. Please login again."
	msgSessionExpiring  = "Your session will expire soon. Please save your work."
	msgSessionRevoked   = "Your session is no longer valid. Please login again."
)
