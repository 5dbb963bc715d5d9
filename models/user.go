package models

import (
	"time"
)

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

// ReservedUsername may not be registered because it addresses the caller's
// own profile on the /users/me route.
const ReservedUsername = "me"

const (
	UsernameMaxLength = 150
	EmailMaxLength    = 254
)

type User struct {
	ID          uint       `json:"-" gorm:"primarykey"`
	Username    string     `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email       string     `json:"email" gorm:"uniqueIndex;size:254;not null"`
	FirstName   string     `json:"first_name" gorm:"size:150"`
	LastName    string     `json:"last_name" gorm:"size:150"`
	Bio         string     `json:"bio" gorm:"type:text"`
	Role        UserRole   `json:"role" gorm:"size:20;default:'user'"`
	IsSuperuser bool       `json:"-" gorm:"default:false"`
	ConfirmedAt *time.Time `json:"-"`
	LastLoginAt *time.Time `json:"-"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}

// Confirmed reports whether the user has redeemed a confirmation code at
// least once (active, as opposed to pending confirmation).
func (u *User) Confirmed() bool {
	return u.ConfirmedAt != nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}
