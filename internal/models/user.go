package models

import (
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	Username       string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash   string    `gorm:"type:varchar(255)" json:"-"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	Role           UserRole  `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	GoogleID       *string   `gorm:"type:varchar(255);uniqueIndex" json:"googleId,omitempty"`
	ProfilePicture *string   `gorm:"type:text" json:"profilePicture,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	// Relations
	Tasks []Task `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPassword is false for accounts that have never set a local password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
