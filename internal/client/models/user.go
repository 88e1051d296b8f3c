// Package models defines the data exchanged with the banking backend.
package models

import "strings"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type AccountType string

const (
	AccountSavings AccountType = "SAVINGS"
	AccountCurrent AccountType = "CURRENT"
)

// User is the profile snapshot returned by GET /user/dashboard.
type User struct {
	UserID        string      `json:"userId"`
	FullName      string      `json:"fullName"`
	Email         string      `json:"email"`
	Role          Role        `json:"role"`
	AccountNumber int64       `json:"accountNumber"`
	AccountType   AccountType `json:"accountType"`
	Balance       float64     `json:"balance"`
}

// IsAdmin reports whether the user carries the ADMIN role.
func (u *User) IsAdmin() bool {
	return u != nil && strings.EqualFold(string(u.Role), string(RoleAdmin))
}

// SignupRequest is the body of POST /api/signup and POST /admin/users.
type SignupRequest struct {
	FullName    string      `json:"fullName"`
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	Role        Role        `json:"role,omitempty"`
	Balance     float64     `json:"balance,omitempty"`
	AccountType AccountType `json:"accountType,omitempty"`
}

// ProfileUpdate is the body of PUT /user/{id}.
type ProfileUpdate struct {
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
}

// PasswordChange is the body of POST /user/change-password.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
