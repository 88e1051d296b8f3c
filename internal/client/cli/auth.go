package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/bankclient/internal/client/models"
	"github.com/dmitrijs2005/bankclient/internal/client/services"
	"github.com/dmitrijs2005/bankclient/internal/shared"
)

// Login prompts for the password (and the email unless given) and signs in.
// Failures are reported by the session notices, so they are not returned.
func (a *App) Login(ctx context.Context, args []string) error {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		if email, err = GetSimpleText(a.reader, "Enter email", a.out); err != nil {
			return err
		}
	}

	password, err := GetPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer shared.Wipe(password)

	res := a.session.Login(ctx, email, string(password))
	if !res.Success {
		return nil
	}

	a.printf("Welcome, %s!\n", res.User.FullName)
	a.Navigate(ctx, landingFor(a.session.State()))
	return nil
}

// Register collects the signup form. The new account has to be verified by
// email before it can sign in.
func (a *App) Register(ctx context.Context, _ []string) error {
	req, err := a.readSignup(false)
	if err != nil {
		return err
	}
	if err := services.ValidateSignup(req); err != nil {
		return err
	}

	res := a.session.Register(ctx, req)
	if res.Success {
		a.Navigate(ctx, "/verify-email")
	}
	return nil
}

// readSignup prompts for the fields of a SignupRequest. withRole adds the
// role prompt used by administrators.
func (a *App) readSignup(withRole bool) (models.SignupRequest, error) {
	var req models.SignupRequest
	var err error

	if req.FullName, err = GetSimpleText(a.reader, "Full name", a.out); err != nil {
		return req, err
	}
	if req.Email, err = GetSimpleText(a.reader, "Email", a.out); err != nil {
		return req, err
	}
	pw, err := GetPassword(a.reader, "Password", a.out)
	if err != nil {
		return req, err
	}
	req.Password = string(pw)
	shared.Wipe(pw)

	accType, err := GetSimpleText(a.reader, "Account type [SAVINGS/CURRENT] (default SAVINGS)", a.out)
	if err != nil {
		return req, err
	}
	req.AccountType = models.AccountType(strings.ToUpper(accType))
	if req.AccountType == "" {
		req.AccountType = models.AccountSavings
	}

	balance, err := GetSimpleText(a.reader, "Initial balance (default 0)", a.out)
	if err != nil {
		return req, err
	}
	if balance != "" {
		if req.Balance, err = strconv.ParseFloat(balance, 64); err != nil {
			return req, usageError("initial balance must be a number")
		}
	}

	if withRole {
		role, err := GetSimpleText(a.reader, "Role [USER/ADMIN] (default USER)", a.out)
		if err != nil {
			return req, err
		}
		req.Role = models.Role(strings.ToUpper(role))
	}
	return req, nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	a.session.Logout(ctx)
	a.Navigate(ctx, HomePath)
	return nil
}

func (a *App) Whoami(_ context.Context, _ []string) error {
	u, err := a.currentUser()
	if err != nil {
		return err
	}
	a.printf("Name:     %s\n", u.FullName)
	a.printf("Email:    %s\n", u.Email)
	a.printf("Role:     %s\n", u.Role)
	a.printf("Account:  %d (%s)\n", u.AccountNumber, u.AccountType)
	a.printf("Balance:  %.2f\n", u.Balance)
	a.printf("Scheme:   %s\n", a.scheme.Name())
	return nil
}

func (a *App) Refresh(ctx context.Context, _ []string) error {
	u, err := a.session.RefreshUser(ctx)
	if err != nil {
		return err
	}
	a.printf("Profile refreshed. Balance: %.2f\n", u.Balance)
	return nil
}
