package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/bankclient/internal/client/models"
	"github.com/dmitrijs2005/bankclient/internal/common"
)

// AdminService manages user accounts. The backend rejects callers without
// the ADMIN role with 403.
type AdminService interface {
	ListUsers(ctx context.Context, page, size int) (*models.Page[models.User], error)
	CreateUser(ctx context.Context, req models.SignupRequest) (*models.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

type adminService struct {
	api API
}

func NewAdminService(api API) AdminService {
	return &adminService{api: api}
}

const adminUsersPath = "/admin/users"

func (s *adminService) ListUsers(ctx context.Context, page, size int) (*models.Page[models.User], error) {
	resp, err := s.api.Get(ctx, adminUsersPath, pageQuery(page, size)...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var p models.Page[models.User]
	if err := resp.DecodeJSON(&p); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return &p, nil
}

func (s *adminService) CreateUser(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	if err := ValidateSignup(req); err != nil {
		return nil, err
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}

	resp, err := s.api.Post(ctx, adminUsersPath, req)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	var u models.User
	if err := resp.DecodeJSON(&u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (s *adminService) DeleteUser(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", common.ErrValidation)
	}
	if _, err := s.api.Delete(ctx, adminUsersPath+"/"+url.PathEscape(userID)); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// MinPasswordLength is the shortest password the registration forms accept.
const MinPasswordLength = 6

// ValidateSignup checks a registration form before it is sent.
func ValidateSignup(req models.SignupRequest) error {
	switch {
	case strings.TrimSpace(req.FullName) == "":
		return fmt.Errorf("%w: full name is required", common.ErrValidation)
	case !strings.Contains(req.Email, "@"):
		return fmt.Errorf("%w: a valid email is required", common.ErrValidation)
	case len(req.Password) < MinPasswordLength:
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, MinPasswordLength)
	case req.Balance < 0:
		return fmt.Errorf("%w: initial balance cannot be negative", common.ErrValidation)
	}
	return nil
}
