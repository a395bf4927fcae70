package models

import "time"

// SuperAdminRoleName is reserved; the role is seeded at startup and cannot
// be modified or deleted through the API.
const SuperAdminRoleName = "Super Administrator"

// Role defines a set of permissions that can be assigned to users
type Role struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	Name              string    `json:"name" gorm:"uniqueIndex;not null"`
	GlobalPermissions []string  `json:"global_permissions" gorm:"serializer:json"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	Users             []*User   `json:"-" gorm:"many2many:user_roles;"`
}

// UserRole is the join table for the many-to-many relationship between users and roles.
type UserRole struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey"`
	RoleID    uint      `json:"role_id" gorm:"primaryKey"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
	Role      Role      `json:"-" gorm:"foreignKey:RoleID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name for UserRole to be `user_roles`
func (UserRole) TableName() string {
	return "user_roles"
}
