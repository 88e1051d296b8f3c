package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/bankclient/internal/client/models"
	"github.com/dmitrijs2005/bankclient/internal/common"
)

// AccountService covers the signed-in user's own profile and account.
type AccountService interface {
	Dashboard(ctx context.Context) (*models.User, error)
	Balance(ctx context.Context) (float64, error)
	UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, change models.PasswordChange) (string, error)
	DeleteAccount(ctx context.Context, userID string) error
}

type accountService struct {
	api API
}

func NewAccountService(api API) AccountService {
	return &accountService{api: api}
}

func (s *accountService) Dashboard(ctx context.Context) (*models.User, error) {
	resp, err := s.api.Get(ctx, common.ProfilePath)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	var u models.User
	if err := resp.DecodeJSON(&u); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	return &u, nil
}

// Balance reads GET /user/balance, which answers with a bare number.
func (s *accountService) Balance(ctx context.Context) (float64, error) {
	resp, err := s.api.Get(ctx, "/user/balance")
	if err != nil {
		return 0, fmt.Errorf("balance: %w", err)
	}
	v, err := strconv.ParseFloat(resp.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("balance: unexpected body %q: %w", resp.Text(), err)
	}
	return v, nil
}

func (s *accountService) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", common.ErrValidation)
	}
	upd.FullName = strings.TrimSpace(upd.FullName)
	upd.Email = strings.TrimSpace(upd.Email)
	if upd.FullName == "" && upd.Email == "" {
		return nil, fmt.Errorf("%w: nothing to update", common.ErrValidation)
	}

	resp, err := s.api.Put(ctx, userPath(userID), upd)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	var u models.User
	if err := resp.DecodeJSON(&u); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &u, nil
}

func (s *accountService) ChangePassword(ctx context.Context, change models.PasswordChange) (string, error) {
	if change.CurrentPassword == "" || change.NewPassword == "" {
		return "", fmt.Errorf("%w: current and new password are required", common.ErrValidation)
	}
	if change.CurrentPassword == change.NewPassword {
		return "", fmt.Errorf("%w: new password must differ from the current one", common.ErrValidation)
	}

	resp, err := s.api.Post(ctx, "/user/change-password", change)
	if err != nil {
		return "", fmt.Errorf("change password: %w", err)
	}
	return resp.Text(), nil
}

func (s *accountService) DeleteAccount(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", common.ErrValidation)
	}
	if _, err := s.api.Delete(ctx, userPath(userID)); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

func userPath(id string) string {
	return "/user/" + url.PathEscape(id)
}
