package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/shms/core"
)

// Roles
const (
	RoleAdmin    = "admin"
	RoleStudent  = "student"
	RoleStaff    = "staff"
	RoleSecurity = "security"

	// roleWarden is what staff dashboards are called on the client.
	roleWarden = "warden"
)

var AllRoles = []string{RoleAdmin, RoleStudent, RoleStaff, RoleSecurity}

// NormalizeRole lowers `role` and maps the warden alias to RoleStaff.
func NormalizeRole(role string) string {
	role = core.CleanString(role, true /* lower */)
	if role == roleWarden {
		return RoleStaff
	}
	return role
}

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
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

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
	Role     string `json:"role" validate:"required,role"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = NormalizeRole(nu.Role)
	if nu.Role == "" {
		nu.Role = RoleStudent
	}
	return validate.Struct(nu)
}
