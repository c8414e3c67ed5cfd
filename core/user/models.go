package user

import (
	"context"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/masomo-setup/core"
)

// Roles
const (
	RoleAdmin          = "admin:"
	RoleAdminOwner     = "admin:owner"
	RoleAdminPrincipal = "admin:principal"
)

var AdminRoles = []string{RoleAdmin, RoleAdminOwner, RoleAdminPrincipal}

// User is a school admin. Every user belongs to exactly one tenant (school).
type User struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenantId"`
	SchoolName   string    `json:"schoolName"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	IsActive     bool      `json:"isActive"`
	Roles        []string  `json:"roles"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"` // UTC
	UpdatedAt    time.Time `json:"updatedAt"` // UTC
	LastLogin    time.Time `json:"lastLogin"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool {
	for _, role := range u.Roles {
		if strings.HasPrefix(role, RoleAdmin) {
			return true
		}
	}
	return false
}

// NewUser contains information needed to register a school and its owner.
type NewUser struct {
	SchoolName      string   `json:"schoolName" validate:"required,notblank,max=100"`
	Name            string   `json:"name" validate:"required"`
	Username        string   `json:"username" validate:"omitempty,min=6,alphanum_"`
	Email           string   `json:"email" validate:"omitempty,email"`
	Password        string   `json:"password" validate:"required"`
	PasswordConfirm string   `json:"passwordConfirm" validate:"required,eqfield=Password"`
	Roles           []string `json:"roles" validate:"omitempty,adminroles"`
}

func (nu *NewUser) Validate(ctx context.Context, validate *validator.Validate, translator ut.Translator, svc *Service) error {
	nu.SchoolName = core.CleanString(nu.SchoolName)
	nu.Name = core.CleanString(nu.Name)
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := core.ValidateStruct(validate, translator, nu); err != nil {
		return err
	}
	return svc.checkUniqueness(ctx, nu.Username, nu.Email)
}

// LoginCredentials is what a user signs in with.
type LoginCredentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (lc *LoginCredentials) Validate(validate *validator.Validate, translator ut.Translator) error {
	lc.Username = core.CleanString(lc.Username, true /* lower */)
	return core.ValidateStruct(validate, translator, lc)
}

// GetFilter selects a single user. The first non-empty field wins.
type GetFilter struct {
	ID              string
	Username        string
	Email           string
	UsernameOrEmail []string // [username] or [username, email]
}
