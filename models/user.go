package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/chroniclehq/chroniclebackend/lifecycle"
	"github.com/chroniclehq/chroniclebackend/permissions"
)

// User represents a contributor, moderator, or administrator in the system.
type User struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	Username          string    `json:"username" gorm:"uniqueIndex;not null"`
	Email             string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash      string    `json:"-" gorm:"not null"` // "-" means don't include in JSON responses
	GlobalPermissions []string  `json:"global_permissions" gorm:"serializer:json"`
	Roles             []*Role   `json:"roles,omitempty" gorm:"many2many:user_roles;"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// SetPassword hashes the given password and sets it on the user model.
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the given password matches the user's hashed password.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// HasGlobalPermission checks if the user has a specific global permission,
// considering both direct permissions and permissions from roles.
// Assumes u.Roles is preloaded.
func (u *User) HasGlobalPermission(permission string) bool {
	for _, p := range u.GlobalPermissions {
		if p == permission {
			return true
		}
	}
	for _, role := range u.Roles {
		if role == nil {
			continue
		}
		for _, p := range role.GlobalPermissions {
			if p == permission {
				return true
			}
		}
	}
	return false
}

// LifecycleRole collapses the user's permission set into the coarse role the
// content engine reasons about.
func (u *User) LifecycleRole() lifecycle.Role {
	if u.HasGlobalPermission(permissions.SystemAdmin) {
		return lifecycle.RoleAdmin
	}
	if u.HasGlobalPermission(permissions.PersonReview) {
		return lifecycle.RoleModerator
	}
	return lifecycle.RoleContributor
}

// Actor builds the engine-facing identity record for this user.
func (u *User) Actor() lifecycle.Actor {
	return lifecycle.Actor{ID: u.ID, Role: u.LifecycleRole(), Email: u.Email}
}
