// Package auth provides authentication domain logic: users, roles and
// credential handling.
package auth

import (
	"context"
	"strings"
	"time"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/entity"
	"assettrack/internal/core/id"
)

// User represents a system user. Active doubles as the account enable
// flag: soft-deleting a user disables login.
type User struct {
	entity.Record

	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
	FirstName    string `db:"first_name" json:"firstName,omitempty"`
	LastName     string `db:"last_name" json:"lastName,omitempty"`
	IsAdmin      bool   `db:"is_admin" json:"isAdmin"`

	// RoleIDs reference the roles catalog
	RoleIDs []id.ID `db:"role_ids" json:"roleIds,omitempty"`

	LastLoginAt         *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	FailedLoginAttempts int        `db:"failed_login_attempts" json:"-"`
	LockedUntil         *time.Time `db:"locked_until" json:"-"`
}

// NewUser creates an active user.
func NewUser(email, passwordHash string) *User {
	return &User{
		Record:       entity.NewRecord(),
		Email:        email,
		PasswordHash: passwordHash,
	}
}

// Validate implements entity.Validatable.
func (u *User) Validate(ctx context.Context) error {
	if u.Email == "" {
		return apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if !strings.Contains(u.Email, "@") {
		return apperror.NewValidation("email is malformed").WithDetail("field", "email")
	}
	return nil
}

// IsLocked returns true while the account lockout is in effect.
func (u *User) IsLocked() bool {
	return u.LockedUntil != nil && time.Now().Before(*u.LockedUntil)
}

// CanLogin checks account state before credential verification.
func (u *User) CanLogin() error {
	if !u.Active {
		return apperror.NewForbidden("account is disabled")
	}
	if u.IsLocked() {
		return apperror.NewForbidden("account is temporarily locked")
	}
	return nil
}

// RecordFailedLogin increments the failure counter, locking the
// account once maxAttempts is reached.
func (u *User) RecordFailedLogin(maxAttempts int, lockDuration time.Duration) {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		lockUntil := time.Now().Add(lockDuration)
		u.LockedUntil = &lockUntil
	}
}

// RecordSuccessfulLogin resets the failure counter.
func (u *User) RecordSuccessfulLogin() {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	now := time.Now()
	u.LastLoginAt = &now
}

// FullName returns the display name, falling back to the email.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Email
	case u.LastName == "":
		return u.FirstName
	case u.FirstName == "":
		return u.LastName
	}
	return u.FirstName + " " + u.LastName
}

// Policy grants an action on a resource, optionally gated by a CEL
// condition over the request context.
type Policy struct {
	// Resource is the entity name the policy covers, "*" for all
	Resource string `json:"resource"`

	// Action is one of list/get/create/update/delete, "*" for all
	Action string `json:"action"`

	// Condition is an optional CEL expression; empty means always
	Condition string `json:"condition,omitempty"`
}

// Role groups policies under a stable code.
type Role struct {
	entity.Named

	Code        string `db:"code" json:"code"`
	Description string `db:"description" json:"description,omitempty"`

	// Policies are stored as a jsonb column
	Policies []Policy `db:"policies" json:"policies,omitempty"`
}

// NewRole creates a Role.
func NewRole(code, name string) *Role {
	return &Role{
		Named: entity.NewNamed(name),
		Code:  code,
	}
}

// Validate implements entity.Validatable.
func (r *Role) Validate(ctx context.Context) error {
	if err := r.Named.Validate(ctx); err != nil {
		return err
	}
	if r.Code == "" {
		return apperror.NewValidation("code is required").WithDetail("field", "code")
	}
	for _, p := range r.Policies {
		if p.Resource == "" || p.Action == "" {
			return apperror.NewValidation("policy needs resource and action").
				WithDetail("role", r.Code)
		}
	}
	return nil
}

// Credentials for login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPair is the login/refresh response payload.
type TokenPair struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	TokenType   string    `json:"tokenType"`
}

// RegisterRequest for user registration.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}
